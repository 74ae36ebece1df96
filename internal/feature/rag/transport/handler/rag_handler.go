// Package handler はragフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	obsentity "insee_backend/internal/feature/observations/domain/entity"
	obsusecase "insee_backend/internal/feature/observations/usecase"
	"insee_backend/internal/feature/rag/domain/entity"
	"insee_backend/internal/feature/rag/transport/http/dto"
	"insee_backend/internal/feature/rag/usecase"
	"insee_backend/internal/shared/api"
)

// RagUsecase はデータに基づく質問応答のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type RagUsecase interface {
	AskAboutSeries(ctx context.Context, idbanks []string, q obsentity.SeriesQuery, question string, opts usecase.AskOptions) (entity.Answer, error)
}

// RagHandler は質問応答のHTTPリクエストを処理します。
type RagHandler struct {
	uc RagUsecase
}

// NewRagHandler は指定されたusecaseでRagHandlerの新しいインスタンスを生成します。
func NewRagHandler(uc RagUsecase) *RagHandler {
	return &RagHandler{uc: uc}
}

// Ask は指定された系列を文脈として質問に回答します。
//
// エンドポイント: POST /v1/rag/ask
// Content-Type: application/json
//
// 系列取得の失敗はHTTPエラー（400/502）になり、回答生成の失敗は
// 200のまま診断文として返ります。
func (h *RagHandler) Ask(c *gin.Context) {
	var req dto.AskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("invalid ask request", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	q := obsentity.SeriesQuery{
		StartPeriod:       req.StartPeriod,
		LastNObservations: req.LastNObservations,
		Detail:            req.Detail,
		IncludeHistory:    req.IncludeHistory,
		UpdatedAfter:      req.UpdatedAfter,
	}
	opts := usecase.AskOptions{Model: req.Model, Temperature: req.Temperature}

	ans, err := h.uc.AskAboutSeries(c.Request.Context(), req.Idbanks, q, req.Question, opts)
	if err != nil {
		if errors.Is(err, obsusecase.ErrNoIdentifiers) || errors.Is(err, obsusecase.ErrInvalidDetail) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("series fetch failed", "error", err, "idbanks", req.Idbanks)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	if !ans.Ok() {
		slog.Warn("answer degraded", "diagnostic", ans.Diagnostic.String(), "detail", ans.Detail)
	}

	c.JSON(http.StatusOK, dto.AskRes{Answer: ans.Text, Diagnostic: ans.Diagnostic.String()})
}
