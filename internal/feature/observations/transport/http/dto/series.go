// Package dto defines data transfer objects for the observations HTTP API.
package dto

// SeriesQueryReq は系列取得エンドポイントのクエリパラメータです。
// フィルタはいずれも任意で、ゼロ値は上流リクエストに付与されません。
type SeriesQueryReq struct {
	StartPeriod       string `form:"startPeriod"`
	LastNObservations int    `form:"lastNObservations"`
	Detail            string `form:"detail"`
	IncludeHistory    bool   `form:"includeHistory"`
	UpdatedAfter      string `form:"updatedAfter"`
}

// ObservationItem represents one observation in the API response.
// Value is null when the upstream published no numeric value for the period.
type ObservationItem struct {
	Idbank string   `json:"idbank"`
	Date   string   `json:"date"`
	Value  *float64 `json:"value"`
}

// SeriesRes は系列取得エンドポイントのレスポンスボディです。
type SeriesRes struct {
	Count        int               `json:"count"`
	Observations []ObservationItem `json:"observations"`
}

// SeriesStatsItem represents the numeric summary of one series.
type SeriesStatsItem struct {
	Idbank string   `json:"idbank"`
	Count  int      `json:"count"`
	Nulls  int      `json:"nulls"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
}
