package usecase

import (
	"context"
	"strings"

	"insee_backend/internal/feature/serieslist/domain/entity"
)

// SeriesRepository は系列カタログの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type SeriesRepository interface {
	// ListActive はsort_key、idbank順にすべてのアクティブな系列を返します。
	ListActive(ctx context.Context) ([]entity.Series, error)

	// ListActiveIdbanks はListActiveと同じ順序でidbankのみを返します。
	ListActiveIdbanks(ctx context.Context) ([]string, error)

	// FindByIDBank はidbankで系列を1件取得します。
	// 存在しない場合はErrSeriesNotFoundを返します。
	FindByIDBank(ctx context.Context, idbank string) (*entity.Series, error)

	// UpsertBatch は系列をidbankをキーに挿入または更新します。
	UpsertBatch(ctx context.Context, series []entity.Series) error
}

// SeriesUsecase provides business logic for series catalog operations.
type SeriesUsecase struct {
	repo SeriesRepository
}

// NewSeriesUsecase creates a new SeriesUsecase with the given repository.
func NewSeriesUsecase(r SeriesRepository) *SeriesUsecase {
	return &SeriesUsecase{repo: r}
}

// ListActive returns all active catalog entries.
func (u *SeriesUsecase) ListActive(ctx context.Context) ([]entity.Series, error) {
	return u.repo.ListActive(ctx)
}

// ActiveIdbanks はアクティブな系列のidbank一覧を表示順で返します。
func (u *SeriesUsecase) ActiveIdbanks(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveIdbanks(ctx)
}

// Register はカタログに系列をまとめて登録します。idbankとタイトルは
// 空白を除去した上で必須とし、1件でも欠けていれば何も書き込みません。
func (u *SeriesUsecase) Register(ctx context.Context, series []entity.Series) error {
	for i := range series {
		series[i].IDBank = strings.TrimSpace(series[i].IDBank)
		series[i].Title = strings.TrimSpace(series[i].Title)
		if series[i].IDBank == "" || series[i].Title == "" {
			return ErrInvalidSeries
		}
	}
	if len(series) == 0 {
		return nil
	}
	return u.repo.UpsertBatch(ctx, series)
}
