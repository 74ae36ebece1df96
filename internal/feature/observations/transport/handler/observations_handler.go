// Package handler はobservationsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"insee_backend/internal/feature/observations/domain/entity"
	"insee_backend/internal/feature/observations/transport/http/dto"
	"insee_backend/internal/feature/observations/usecase"
	"insee_backend/internal/shared/api"
)

// ObservationsUsecase はBDM系列データ操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type ObservationsUsecase interface {
	FetchSeries(ctx context.Context, idbanks []string, q entity.SeriesQuery) ([]entity.Observation, error)
	DescribeSeries(ctx context.Context, idbanks []string, q entity.SeriesQuery) ([]entity.SeriesStats, error)
}

// ObservationsHandler は系列データに関するHTTPリクエストを処理します。
type ObservationsHandler struct {
	uc ObservationsUsecase
}

// NewObservationsHandler は指定されたusecaseでObservationsHandlerの新しいインスタンスを生成します。
func NewObservationsHandler(uc ObservationsUsecase) *ObservationsHandler {
	return &ObservationsHandler{uc: uc}
}

// splitIdbanks はパスパラメータをidbankのリストに分解します。
// 区切りは","と"+"の両方を受け付けます（BDMの慣例は"+"）。
func splitIdbanks(param string) []string {
	return strings.FieldsFunc(param, func(r rune) bool {
		return r == ',' || r == '+'
	})
}

// bindQuery はクエリパラメータをentity.SeriesQueryへ変換します。
func bindQuery(c *gin.Context) (entity.SeriesQuery, error) {
	var req dto.SeriesQueryReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return entity.SeriesQuery{}, err
	}
	return entity.SeriesQuery{
		StartPeriod:       req.StartPeriod,
		LastNObservations: req.LastNObservations,
		Detail:            req.Detail,
		IncludeHistory:    req.IncludeHistory,
		UpdatedAfter:      req.UpdatedAfter,
	}, nil
}

// GetSeries は指定されたidbank群の観測値を取得するAPIです。
//
// エンドポイント: GET /v1/series/:idbanks
// idbanksは","または"+"区切りで複数指定できます。
//
// 入力不正（識別子なし、未知のdetail値）は400、上流API呼び出しの失敗は502を返します。
func (h *ObservationsHandler) GetSeries(c *gin.Context) {
	idbanks := splitIdbanks(c.Param("idbanks"))

	q, err := bindQuery(c)
	if err != nil {
		slog.Warn("invalid series query", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid query parameters"})
		return
	}

	obs, err := h.uc.FetchSeries(c.Request.Context(), idbanks, q)
	if err != nil {
		h.writeFetchError(c, err, idbanks)
		return
	}

	out := make([]dto.ObservationItem, 0, len(obs))
	for _, o := range obs {
		out = append(out, dto.ObservationItem{Idbank: o.IDBank, Date: o.Date, Value: o.Value})
	}
	c.JSON(http.StatusOK, dto.SeriesRes{Count: len(out), Observations: out})
}

// GetSeriesStats は系列ごとの数値サマリーを取得するAPIです。
//
// エンドポイント: GET /v1/series/:idbanks/stats
func (h *ObservationsHandler) GetSeriesStats(c *gin.Context) {
	idbanks := splitIdbanks(c.Param("idbanks"))

	q, err := bindQuery(c)
	if err != nil {
		slog.Warn("invalid series query", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid query parameters"})
		return
	}

	stats, err := h.uc.DescribeSeries(c.Request.Context(), idbanks, q)
	if err != nil {
		h.writeFetchError(c, err, idbanks)
		return
	}

	out := make([]dto.SeriesStatsItem, 0, len(stats))
	for _, s := range stats {
		out = append(out, dto.SeriesStatsItem{
			Idbank: s.IDBank,
			Count:  s.Count,
			Nulls:  s.Nulls,
			Mean:   s.Mean,
			Std:    s.Std,
			Min:    s.Min,
			Max:    s.Max,
		})
	}
	c.JSON(http.StatusOK, out)
}

// writeFetchError は取得エラーをHTTPステータスへ対応付けます。
// 入力エラーは400、それ以外（上流HTTP・ネットワーク）は502です。
func (h *ObservationsHandler) writeFetchError(c *gin.Context, err error, idbanks []string) {
	if errors.Is(err, usecase.ErrNoIdentifiers) || errors.Is(err, usecase.ErrInvalidDetail) {
		slog.Warn("series request rejected", "error", err, "idbanks", idbanks)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	slog.Error("series fetch failed", "error", err, "idbanks", idbanks)
	c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
}
