// Package entity はragフィーチャーのドメインモデルを定義します。
package entity

// Diagnostic は回答生成が劣化した理由の分類です。
type Diagnostic int

const (
	// DiagnosticNone は正常に生成された回答を示します。
	DiagnosticNone Diagnostic = iota
	// DiagnosticClientUnavailable は言語モデルクライアントが未構成であることを示します。
	DiagnosticClientUnavailable
	// DiagnosticMissingCredential はAPIキーが設定されていないことを示します。
	DiagnosticMissingCredential
	// DiagnosticCallFailed はモデル呼び出しが失敗したことを示します。
	DiagnosticCallFailed
)

// String はログやレスポンス向けのスネークケース表現を返します。
func (d Diagnostic) String() string {
	switch d {
	case DiagnosticNone:
		return "none"
	case DiagnosticClientUnavailable:
		return "client_unavailable"
	case DiagnosticMissingCredential:
		return "missing_credential"
	case DiagnosticCallFailed:
		return "call_failed"
	default:
		return "unknown"
	}
}

// Answer は質問への回答です。生成に失敗した場合でもTextには
// 利用者向けの説明文が必ず入ります。
type Answer struct {
	Text       string     // 回答本文または診断メッセージ
	Diagnostic Diagnostic // 劣化理由（正常時はDiagnosticNone）
	Detail     string     // 失敗時の内部エラー詳細（ログ向け）
}

// Ok は回答が正常に生成されたかどうかを返します。
func (a Answer) Ok() bool {
	return a.Diagnostic == DiagnosticNone
}

// AnswerRequest は言語モデルへの1回の呼び出し内容を表します。
type AnswerRequest struct {
	System      string   // システム指示
	User        string   // ユーザーメッセージ（文脈と質問を含む）
	Model       string   // モデル名（空の場合はアダプターの既定値）
	Temperature *float64 // 生成温度（nilの場合は呼び出し側の既定値）
	MaxTokens   int      // 生成トークン数の上限
}
