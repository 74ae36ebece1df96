package gemini

import (
	"context"
	"errors"
	"testing"

	"insee_backend/internal/feature/rag/domain/entity"
	"insee_backend/internal/feature/rag/usecase"
)

// 資格情報なしでも生成は成功し、呼び出し時にErrMissingAPIKeyへ劣化することを検証します。
func TestNewClient_WithoutCredentials(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "")

	c, err := NewClient(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c == nil {
		t.Fatal("expected non-nil client")
	}

	_, err = c.Complete(context.Background(), entity.AnswerRequest{User: "Question ?"})
	if !errors.Is(err, usecase.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestHasCredentials(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "")

	if hasCredentials() {
		t.Error("expected no credentials")
	}

	t.Setenv("GEMINI_API_KEY", "key")
	if !hasCredentials() {
		t.Error("expected credentials via GEMINI_API_KEY")
	}

	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "True")
	if !hasCredentials() {
		t.Error("expected credentials via vertex flag")
	}
}
