// Package adapters はserieslistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"insee_backend/internal/feature/serieslist/domain/entity"
	"insee_backend/internal/feature/serieslist/usecase"
)

// seriesGorm はSeriesRepositoryインターフェースのGORM実装です。
// MySQL、Postgres、SQLiteのいずれのドライバーでも動作します。
type seriesGorm struct {
	db *gorm.DB
}

// seriesGormがSeriesRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.SeriesRepository = (*seriesGorm)(nil)

// NewSeriesRepository は指定されたDB接続でseriesGormリポジトリの新しいインスタンスを生成します。
func NewSeriesRepository(db *gorm.DB) *seriesGorm {
	return &seriesGorm{db: db}
}

// ListActive はsort_key、idbank順にすべてのアクティブな系列を返します。
func (r *seriesGorm) ListActive(ctx context.Context) ([]entity.Series, error) {
	var series []entity.Series
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC, id_bank ASC").
		Find(&series).Error; err != nil {
		return nil, err
	}
	return series, nil
}

// ListActiveIdbanks はListActiveと同じ順序でidbankのみを返します。
func (r *seriesGorm) ListActiveIdbanks(ctx context.Context) ([]string, error) {
	var idbanks []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Series{}).
		Where("is_active = ?", true).
		Order("sort_key ASC, id_bank ASC").
		Pluck("id_bank", &idbanks).Error; err != nil {
		return nil, err
	}
	return idbanks, nil
}

// FindByIDBank はidbankで系列を1件取得します。
// 存在しない場合はusecase.ErrSeriesNotFoundを返します。
func (r *seriesGorm) FindByIDBank(ctx context.Context, idbank string) (*entity.Series, error) {
	var s entity.Series
	if err := r.db.WithContext(ctx).Where("id_bank = ?", idbank).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSeriesNotFound
		}
		return nil, err
	}
	return &s, nil
}

// UpsertBatch は系列をidbankをキーに挿入または更新します。
// ユニークキー重複はドライバーごとのエラーコードからusecase.ErrDuplicateIDBankへ変換します。
func (r *seriesGorm) UpsertBatch(ctx context.Context, series []entity.Series) error {
	if len(series) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id_bank"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "frequency", "is_active", "sort_key"}),
	}).Create(&series).Error
	if err != nil {
		return mapDuplicateError(err)
	}
	return nil
}

// mapDuplicateError はユニークキー重複エラーをusecase.ErrDuplicateIDBankへ変換します。
// MySQLはエラー1062、Postgresは SQLSTATE 23505 です。それ以外はそのまま返します。
func mapDuplicateError(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return usecase.ErrDuplicateIDBank
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return usecase.ErrDuplicateIDBank
	}
	return err
}
