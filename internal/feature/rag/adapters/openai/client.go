// Package openai はOpenAIチャット補完APIを使用した回答生成クライアントを提供します。
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"insee_backend/internal/feature/rag/adapters/openai/dto"
	"insee_backend/internal/feature/rag/domain/entity"
	"insee_backend/internal/feature/rag/usecase"
)

const (
	// DefaultModel は呼び出し側がモデルを指定しない場合に使うモデルです。
	DefaultModel = "gpt-3.5-turbo"
	// DefaultBaseURL はOpenAI APIの公開エンドポイントです。
	DefaultBaseURL = "https://api.openai.com/v1"

	// maxErrorBodyBytes はエラーレスポンス本文を診断用に保持する上限です。
	maxErrorBodyBytes = 512
)

// Config holds configuration for the OpenAI client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // Base URL for the API (e.g. "https://api.openai.com/v1")
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads OpenAI configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Timeout: 60 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if v := os.Getenv("OPENAI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

// Client はOpenAIチャット補完APIを呼び出すAnswerClient実装です。
// APIキーの有無は呼び出し時に検査され、欠落はusecase.ErrMissingAPIKeyになります。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがAnswerClientを実装していることをコンパイル時に検証します。
var _ usecase.AnswerClient = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{cfg: cfg, client: client}
}

// Complete はシステム指示とユーザーメッセージからモデルの生成テキストを返します。
// APIキーが未設定の場合はネットワークアクセスせずにusecase.ErrMissingAPIKeyを返します。
func (c *Client) Complete(ctx context.Context, req entity.AnswerRequest) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", usecase.ErrMissingAPIKey
	}

	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	messages := make([]dto.ChatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, dto.ChatMessage{Role: dto.RoleSystem, Content: req.System})
	}
	messages = append(messages, dto.ChatMessage{Role: dto.RoleUser, Content: req.User})

	payload := dto.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
	}
	if req.MaxTokens > 0 {
		payload.MaxTokens = &req.MaxTokens
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	u := fmt.Sprintf("%s/chat/completions", c.cfg.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		// 本文の先頭のみ診断用に残す
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
		return "", fmt.Errorf("openai http %d: %s", res.StatusCode, strings.TrimSpace(string(b)))
	}

	var out dto.ChatCompletionResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("openai: response contains no choices")
	}

	return out.Choices[0].Message.Content, nil
}
