// Package gemini はGoogle Gemini APIを使用した回答生成クライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"insee_backend/internal/feature/rag/domain/entity"
	"insee_backend/internal/feature/rag/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// Client はGoogle Gemini APIを呼び出すAnswerClient実装です。
// 資格情報が見つからない場合もクライアント自体は生成され、
// Completeがusecase.ErrMissingAPIKeyを返します。
type Client struct {
	client *genai.Client
	model  string
}

// ClientがAnswerClientを実装していることをコンパイル時に検証します。
var _ usecase.AnswerClient = (*Client)(nil)

// hasCredentials はGemini API（またはVertex AI経由のADC）の資格情報が
// 環境に存在するかを判定します。
func hasCredentials() bool {
	if os.Getenv("GEMINI_API_KEY") != "" || os.Getenv("GOOGLE_API_KEY") != "" {
		return true
	}
	return strings.EqualFold(os.Getenv("GOOGLE_GENAI_USE_VERTEXAI"), "true")
}

// NewClient はClientの新しいインスタンスを生成します。
// 環境変数 GEMINI_API_KEY（またはGOOGLE_API_KEY、Vertex AI利用時は
// GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION）を参照します。
func NewClient(ctx context.Context) (*Client, error) {
	if !hasCredentials() {
		return &Client{model: DefaultModel}, nil
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: client, model: DefaultModel}, nil
}

// Complete はシステム指示とユーザーメッセージからモデルの生成テキストを返します。
func (g *Client) Complete(ctx context.Context, req entity.AnswerRequest) (string, error) {
	if g.client == nil {
		return "", usecase.ErrMissingAPIKey
	}

	model := req.Model
	if model == "" {
		model = g.model
	}

	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(req.User), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}

	return resp.Text(), nil
}
