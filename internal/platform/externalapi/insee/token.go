package insee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"insee_backend/internal/platform/externalapi/insee/dto"
)

// defaultExpiresIn はトークンレスポンスがexpires_inを省略した場合の有効期間（秒）です。
const defaultExpiresIn = 3600

// ErrMissingCredentials is returned when the client ID or secret is empty.
var ErrMissingCredentials = errors.New("insee client credentials are required")

// TokenSource はclient_credentialsグラントでINSEEのアクセストークンを取得し、
// 有効期限までキャッシュします。ginハンドラーから並行に呼ばれるためミューテックスで保護します。
type TokenSource struct {
	cfg    Config
	client *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
	now    func() time.Time
}

// NewTokenSource は資格情報を検証した上でTokenSourceの新しいインスタンスを生成します。
// クライアントIDまたはシークレットが空白のみの場合はErrMissingCredentialsを返します。
func NewTokenSource(cfg Config, client *http.Client) (*TokenSource, error) {
	cfg.ClientID = strings.TrimSpace(cfg.ClientID)
	cfg.ClientSecret = strings.TrimSpace(cfg.ClientSecret)
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return &TokenSource{cfg: cfg, client: client, now: time.Now}, nil
}

// Token は有効なアクセストークンを返します。キャッシュ済みトークンが
// 期限内であればそれを再利用し、期限切れの場合のみ再取得します。
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && t.now().Before(t.expiry) {
		return t.token, nil
	}

	token, expiresIn, err := t.fetch(ctx)
	if err != nil {
		return "", err
	}

	t.token = token
	t.expiry = t.now().Add(time.Duration(expiresIn) * time.Second)
	slog.Info("insee access token renewed", "expires_in", expiresIn)

	return t.token, nil
}

// fetch はトークンエンドポイントへPOSTし、アクセストークンと有効期間（秒）を返します。
// ボディは空で、認証はHTTP Basicです。
func (t *TokenSource) fetch(ctx context.Context) (string, int64, error) {
	u := fmt.Sprintf("%s/token?grant_type=client_credentials", t.cfg.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return "", 0, err
	}
	req.SetBasicAuth(t.cfg.ClientID, t.cfg.ClientSecret)
	req.Header.Set("Accept", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return "", 0, fmt.Errorf("insee auth http %d", res.StatusCode)
	}

	var body dto.TokenResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", 0, err
	}
	if body.AccessToken == "" {
		return "", 0, errors.New("insee auth: empty access_token")
	}
	if body.ExpiresIn <= 0 {
		body.ExpiresIn = defaultExpiresIn
	}

	return body.AccessToken, body.ExpiresIn, nil
}
