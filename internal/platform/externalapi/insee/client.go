package insee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"insee_backend/internal/feature/observations/domain/entity"
	"insee_backend/internal/feature/observations/usecase"
	"insee_backend/internal/platform/externalapi/insee/dto"
)

// Client はINSEE BDM APIから系列データを取得するBDMRepository実装です。
type Client struct {
	cfg    Config
	client *http.Client
	tokens *TokenSource
}

// ClientがBDMRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.BDMRepository = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
// 資格情報が空の場合はErrMissingCredentialsを返します。
func NewClient(cfg Config, client *http.Client) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	tokens, err := NewTokenSource(cfg, client)
	if err != nil {
		return nil, err
	}

	return &Client{cfg: cfg, client: client, tokens: tokens}, nil
}

// GetSeries はSERIES_BDMエンドポイントから観測値を取得し、
// entity.Observationのスライスとして返します。
//
// idbanksは空白を除去した上で空要素を捨て、1件も残らなければ
// ネットワークアクセスの前にusecase.ErrNoIdentifiersを返します。
func (c *Client) GetSeries(ctx context.Context, idbanks []string, query entity.SeriesQuery) ([]entity.Observation, error) {
	ids := make([]string, 0, len(idbanks))
	for _, id := range idbanks {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, usecase.ErrNoIdentifiers
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	// クエリパラメータは指定されたもののみ付与
	if query.StartPeriod != "" {
		q.Set("startPeriod", query.StartPeriod)
	}
	if query.LastNObservations > 0 {
		q.Set("lastNObservations", strconv.Itoa(query.LastNObservations))
	}
	if query.Detail != "" {
		q.Set("detail", query.Detail)
	}
	if query.IncludeHistory {
		q.Set("includeHistory", "true")
	}
	if query.UpdatedAfter != "" {
		q.Set("updatedAfter", query.UpdatedAfter)
	}

	// 系列識別子は"+"で連結（URLエンコードしない）
	u := fmt.Sprintf("%s/series/data/SERIES_BDM/%s", c.cfg.BaseURL, strings.Join(ids, "+"))
	if len(q) > 0 {
		u = fmt.Sprintf("%s?%s", u, q.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("insee http %d", res.StatusCode)
	}

	var body dto.SeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}

	obs := make([]entity.Observation, 0)
	for _, s := range body.Series {
		// 識別子のキー揺れを吸収
		idbank := s.IDBank
		if idbank == "" {
			idbank = s.IDBankLower
		}
		if idbank == "" {
			idbank = s.ID
		}

		for _, raw := range s.Values {
			o, ok := parseObservation(idbank, raw)
			if !ok {
				continue
			}
			obs = append(obs, o)
		}
	}

	return obs, nil
}

// parseObservation は1観測エントリを解釈します。受理する形は2通りで、
// オブジェクト形 {date|time|period, value} と位置形 [date, value] です。
// 日付が取れないエントリはスキップし、値が数値でない場合はnilとして保持します。
func parseObservation(idbank string, raw json.RawMessage) (entity.Observation, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return entity.Observation{}, false
	}

	switch trimmed[0] {
	case '{':
		var p dto.ObservationPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return entity.Observation{}, false
		}
		date := p.Date
		if date == "" {
			date = p.Time
		}
		if date == "" {
			date = p.Period
		}
		if date == "" {
			return entity.Observation{}, false
		}
		return entity.Observation{IDBank: idbank, Date: date, Value: parseNumber(p.Value)}, true

	case '[':
		var pair []json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil || len(pair) == 0 {
			return entity.Observation{}, false
		}
		var date string
		if err := json.Unmarshal(pair[0], &date); err != nil || date == "" {
			return entity.Observation{}, false
		}
		var value *float64
		if len(pair) >= 2 {
			value = parseNumber(pair[1])
		}
		return entity.Observation{IDBank: idbank, Date: date, Value: value}, true
	}

	return entity.Observation{}, false
}

// parseNumber はJSON数値または数値文字列を*float64に変換します。
// null、欠損、数値として解釈できない値はnilになります。
func parseNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	// json.Unmarshalはnullをfloat64に対して無視するため先に判定する
	if string(bytes.TrimSpace(raw)) == "null" {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return &f
		}
	}

	return nil
}
