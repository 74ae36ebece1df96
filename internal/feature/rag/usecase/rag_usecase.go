package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	obsentity "insee_backend/internal/feature/observations/domain/entity"
	"insee_backend/internal/feature/rag/domain/entity"
	"insee_backend/internal/shared/ratelimiter"
)

const (
	// SystemPrompt は回答生成の固定システム指示です。
	SystemPrompt = "Tu es un assistant qui répond aux questions sur des données de l'INSEE en utilisant les informations fournies dans le contexte. Réponds en français de façon concise et claire."
	// userPromptFormat は文脈と質問を埋め込むユーザーメッセージの書式です。
	userPromptFormat = "Contexte des données:\n%s\n\nQuestion:\n%s"

	// DefaultTemperature は呼び出し側が温度を指定しない場合の既定値です。
	DefaultTemperature = 0.2
	// MaxAnswerTokens は生成トークン数の固定上限です。
	MaxAnswerTokens = 256

	// MsgClientUnavailable は言語モデルクライアントが未構成の場合の診断文です。
	MsgClientUnavailable = "Le client du modèle de langage n'est pas configuré. Vérifiez la configuration du serveur."
	// MsgMissingAPIKey はAPIキーが設定されていない場合の診断文です。
	MsgMissingAPIKey = "Aucune clé OPENAI_API_KEY ou GEMINI_API_KEY trouvée. Définissez cette variable d'environnement."
	// msgCallFailedFormat はモデル呼び出し失敗時の診断文の書式です。
	msgCallFailedFormat = "Erreur lors de l'appel au modèle de langage : %s"
)

// AnswerClient は言語モデルへの1回の呼び出しを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type AnswerClient interface {
	// Complete はリクエストに対するモデルの生成テキストを返します。
	Complete(ctx context.Context, req entity.AnswerRequest) (string, error)
}

// SeriesFetcher は質問対象となる観測値の取得を抽象化します。
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, idbanks []string, q obsentity.SeriesQuery) ([]obsentity.Observation, error)
}

// AskOptions は回答生成の呼び出し側オプションです。
type AskOptions struct {
	Model       string   // モデル名（空の場合はアダプターの既定値）
	Temperature *float64 // 生成温度（nilの場合はDefaultTemperature）
}

// ragUsecase はデータに基づく質問応答のユースケースを定義します。
type ragUsecase struct {
	client      AnswerClient
	series      SeriesFetcher
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewRagUsecase はragUsecaseの新しいインスタンスを生成します。
// clientはnilを許容し、その場合Askは診断メッセージに劣化します。
func NewRagUsecase(client AnswerClient, series SeriesFetcher, rl ratelimiter.RateLimiterInterface) *ragUsecase {
	return &ragUsecase{client: client, series: series, rateLimiter: rl}
}

// Ask は観測値を文脈として質問に回答します。このメソッドはエラーを返しません。
// 生成に失敗した場合もAnswer.Textに利用者向けの診断文を入れて返します。
// 上流データの取得エラーとは異なり、生成の失敗は会話として扱います。
func (ru *ragUsecase) Ask(ctx context.Context, question string, obs []obsentity.Observation, opts AskOptions) entity.Answer {
	if ru.client == nil {
		slog.Warn("answer client is not configured")
		return entity.Answer{Text: MsgClientUnavailable, Diagnostic: entity.DiagnosticClientUnavailable}
	}

	temperature := DefaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}

	req := entity.AnswerRequest{
		System:      SystemPrompt,
		User:        fmt.Sprintf(userPromptFormat, BuildContext(obs, DefaultMaxContextRows), question),
		Model:       opts.Model,
		Temperature: &temperature,
		MaxTokens:   MaxAnswerTokens,
	}

	ru.rateLimiter.WaitIfNeeded()

	text, err := ru.client.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, ErrMissingAPIKey) {
			slog.Warn("model api key is missing")
			return entity.Answer{Text: MsgMissingAPIKey, Diagnostic: entity.DiagnosticMissingCredential, Detail: err.Error()}
		}
		slog.Warn("model call failed", "error", err)
		return entity.Answer{Text: fmt.Sprintf(msgCallFailedFormat, err), Diagnostic: entity.DiagnosticCallFailed, Detail: err.Error()}
	}

	return entity.Answer{Text: strings.TrimSpace(text)}
}

// AskAboutSeries は系列を取得した上でAskに委譲します。
// 取得エラーは診断文にせず、そのまま呼び出し側へ伝播します。
func (ru *ragUsecase) AskAboutSeries(ctx context.Context, idbanks []string, q obsentity.SeriesQuery, question string, opts AskOptions) (entity.Answer, error) {
	obs, err := ru.series.FetchSeries(ctx, idbanks, q)
	if err != nil {
		return entity.Answer{}, err
	}

	return ru.Ask(ctx, question, obs, opts), nil
}
