package usecase

import (
	"context"
	"math"

	"insee_backend/internal/feature/observations/domain/entity"
)

// MaxLastNObservations はlastNObservationsフィルタの上限です。
// BDMポータルのフォームと同じ上限に揃えています。
const MaxLastNObservations = 400

// validDetails はBDMが受理するdetailレベルの一覧です。空文字は「未指定」。
var validDetails = map[string]struct{}{
	"":               {},
	"full":           {},
	"dataonly":       {},
	"serieskeysonly": {},
	"nodata":         {},
}

// BDMRepository はINSEE BDM APIからの系列データ取得を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type BDMRepository interface {
	// GetSeries は指定されたidbank群の観測値を取得します。
	GetSeries(ctx context.Context, idbanks []string, q entity.SeriesQuery) ([]entity.Observation, error)
}

// observationsUsecase はBDM系列データ操作のユースケースを定義します。
type observationsUsecase struct {
	bdm BDMRepository
}

// NewObservationsUsecase はobservationsUsecaseの新しいインスタンスを生成します。
func NewObservationsUsecase(bdm BDMRepository) *observationsUsecase {
	return &observationsUsecase{bdm: bdm}
}

// FetchSeries はクエリを正規化した上で系列データを取得します。
// lastNObservationsは[0, MaxLastNObservations]に丸め、detailは既知の値のみ許可します。
func (ou *observationsUsecase) FetchSeries(ctx context.Context, idbanks []string, q entity.SeriesQuery) ([]entity.Observation, error) {
	if q.LastNObservations < 0 {
		q.LastNObservations = 0
	}
	if q.LastNObservations > MaxLastNObservations {
		q.LastNObservations = MaxLastNObservations
	}
	if _, ok := validDetails[q.Detail]; !ok {
		return nil, ErrInvalidDetail
	}

	return ou.bdm.GetSeries(ctx, idbanks, q)
}

// DescribeSeries は系列ごとの数値サマリー（件数、欠損数、平均、標準偏差、最小、最大）を返します。
// 系列の並びは観測値の初出順を保ちます。
func (ou *observationsUsecase) DescribeSeries(ctx context.Context, idbanks []string, q entity.SeriesQuery) ([]entity.SeriesStats, error) {
	obs, err := ou.FetchSeries(ctx, idbanks, q)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0)
	grouped := make(map[string][]entity.Observation)
	for _, o := range obs {
		if _, seen := grouped[o.IDBank]; !seen {
			order = append(order, o.IDBank)
		}
		grouped[o.IDBank] = append(grouped[o.IDBank], o)
	}

	out := make([]entity.SeriesStats, 0, len(order))
	for _, id := range order {
		out = append(out, describe(id, grouped[id]))
	}

	return out, nil
}

// describe は1系列分の観測値から統計サマリーを計算します。
// 標準偏差は不偏分散（n-1）によるもので、数値が2件未満の場合はnilです。
func describe(idbank string, obs []entity.Observation) entity.SeriesStats {
	st := entity.SeriesStats{IDBank: idbank, Count: len(obs)}

	vals := make([]float64, 0, len(obs))
	for _, o := range obs {
		if o.Value == nil {
			st.Nulls++
			continue
		}
		vals = append(vals, *o.Value)
	}
	if len(vals) == 0 {
		return st
	}

	sum := 0.0
	minV, maxV := vals[0], vals[0]
	for _, v := range vals {
		sum += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	mean := sum / float64(len(vals))
	st.Mean = &mean
	st.Min = &minV
	st.Max = &maxV

	if len(vals) >= 2 {
		ss := 0.0
		for _, v := range vals {
			d := v - mean
			ss += d * d
		}
		std := math.Sqrt(ss / float64(len(vals)-1))
		st.Std = &std
	}

	return st
}
