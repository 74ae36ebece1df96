package usecase

import (
	"strconv"
	"strings"

	obsentity "insee_backend/internal/feature/observations/domain/entity"
)

const (
	// DefaultMaxContextRows はプロンプトに埋め込む観測値の既定行数です。
	DefaultMaxContextRows = 5

	// MsgEmptyDataset は観測値が1件もない場合の固定メッセージです。
	MsgEmptyDataset = "Le jeu de données est vide."
)

// BuildContext は観測値の先頭maxRows行をプロンプト埋め込み用の簡易テーブル文字列に
// 変換します。maxRowsが0以下の場合は既定値を使います。欠損値は"null"と表記します。
// これはプレビューであり、完全なシリアライズではありません。
func BuildContext(obs []obsentity.Observation, maxRows int) string {
	if len(obs) == 0 {
		return MsgEmptyDataset
	}
	if maxRows <= 0 {
		maxRows = DefaultMaxContextRows
	}
	if len(obs) > maxRows {
		obs = obs[:maxRows]
	}

	var b strings.Builder
	b.WriteString("idbank\tdate\tvalue")
	for _, o := range obs {
		v := "null"
		if o.Value != nil {
			v = strconv.FormatFloat(*o.Value, 'g', -1, 64)
		}
		b.WriteString("\n")
		b.WriteString(o.IDBank)
		b.WriteString("\t")
		b.WriteString(o.Date)
		b.WriteString("\t")
		b.WriteString(v)
	}

	return b.String()
}
