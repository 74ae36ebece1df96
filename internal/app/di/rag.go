package di

import (
	"context"
	"os"
	"strings"

	"insee_backend/internal/feature/rag/adapters/gemini"
	"insee_backend/internal/feature/rag/adapters/openai"
	"insee_backend/internal/feature/rag/usecase"
	infrahttp "insee_backend/internal/platform/http"
)

// NewAnswerClient creates an AnswerClient implementation.
// RAG_PROVIDER selects the backend: "gemini" or "openai" (default).
func NewAnswerClient(ctx context.Context) (usecase.AnswerClient, error) {
	switch strings.ToLower(os.Getenv("RAG_PROVIDER")) {
	case "gemini":
		return gemini.NewClient(ctx)
	default:
		cfg := openai.LoadConfig()
		return openai.NewClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout)), nil
	}
}
