package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"insee_backend/internal/feature/serieslist/domain/entity"
	"insee_backend/internal/feature/serieslist/transport/http/dto"
	"insee_backend/internal/shared/api"
)

// SeriesUsecase は系列カタログに関するユースケースのインターフェースです。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type SeriesUsecase interface {
	ListActive(ctx context.Context) ([]entity.Series, error)
}

// SeriesHandler は系列カタログに関するHTTPリクエストを処理します。
type SeriesHandler struct {
	uc SeriesUsecase
}

// NewSeriesHandler は新しい SeriesHandler を作成します。
func NewSeriesHandler(uc SeriesUsecase) *SeriesHandler {
	return &SeriesHandler{uc: uc}
}

// List はアクティブな系列カタログの一覧を取得するAPIです。
// Usecaseを呼び出してカタログを取得し、DTOに変換してJSONレスポンスとして返します。
func (h *SeriesHandler) List(c *gin.Context) {
	series, err := h.uc.ListActive(c.Request.Context())
	if err != nil {
		slog.Error("catalog list failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list catalog"})
		return
	}
	out := make([]dto.SeriesItem, 0, len(series))
	for _, s := range series {
		out = append(out, dto.SeriesItem{Idbank: s.IDBank, Title: s.Title, Frequency: s.Frequency})
	}
	c.JSON(http.StatusOK, out)
}
