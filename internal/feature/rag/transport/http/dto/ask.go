// Package dto defines data transfer objects for the rag HTTP API.
package dto

// AskReq は質問応答エンドポイントのリクエストボディです。
// 系列フィルタはBDM取得エンドポイントと同じ意味を持ちます。
type AskReq struct {
	Idbanks           []string `json:"idbanks" binding:"required"`
	Question          string   `json:"question" binding:"required"`
	StartPeriod       string   `json:"startPeriod"`
	LastNObservations int      `json:"lastNObservations"`
	Detail            string   `json:"detail"`
	IncludeHistory    bool     `json:"includeHistory"`
	UpdatedAfter      string   `json:"updatedAfter"`
	Model             string   `json:"model"`
	Temperature       *float64 `json:"temperature"`
}

// AskRes は質問応答エンドポイントのレスポンスボディです。
// 生成が劣化した場合もanswerに利用者向けの診断文が入ります。
type AskRes struct {
	Answer     string `json:"answer"`
	Diagnostic string `json:"diagnostic"`
}
