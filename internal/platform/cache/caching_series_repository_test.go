package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"insee_backend/internal/feature/serieslist/domain/entity"
	"insee_backend/internal/feature/serieslist/usecase"
)

// mockSeriesRepository はテスト用のSeriesRepositoryモック実装です。
type mockSeriesRepository struct {
	listActiveFn  func(ctx context.Context) ([]entity.Series, error)
	listIdbanksFn func(ctx context.Context) ([]string, error)
	findFn        func(ctx context.Context, idbank string) (*entity.Series, error)
	upsertBatchFn func(ctx context.Context, series []entity.Series) error
}

func (m *mockSeriesRepository) ListActive(ctx context.Context) ([]entity.Series, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx)
	}
	return nil, nil
}

func (m *mockSeriesRepository) ListActiveIdbanks(ctx context.Context) ([]string, error) {
	if m.listIdbanksFn != nil {
		return m.listIdbanksFn(ctx)
	}
	return nil, nil
}

func (m *mockSeriesRepository) FindByIDBank(ctx context.Context, idbank string) (*entity.Series, error) {
	if m.findFn != nil {
		return m.findFn(ctx, idbank)
	}
	return nil, usecase.ErrSeriesNotFound
}

func (m *mockSeriesRepository) UpsertBatch(ctx context.Context, series []entity.Series) error {
	if m.upsertBatchFn != nil {
		return m.upsertBatchFn(ctx, series)
	}
	return nil
}

// TestNewCachingSeriesRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingSeriesRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{
			name:              "default values when zero/empty",
			ttl:               0,
			namespace:         "",
			expectedTTL:       DefaultTTL,
			expectedNamespace: "catalog",
		},
		{
			name:              "negative ttl uses default",
			ttl:               -1 * time.Minute,
			namespace:         "",
			expectedTTL:       DefaultTTL,
			expectedNamespace: "catalog",
		},
		{
			name:              "custom values preserved",
			ttl:               10 * time.Minute,
			namespace:         "custom",
			expectedTTL:       10 * time.Minute,
			expectedNamespace: "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingSeriesRepository(nil, tt.ttl, &mockSeriesRepository{}, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingSeriesRepository_ListActive_NilRedis はRedis未設定時に内側のリポジトリへ素通しすることを検証します。
func TestCachingSeriesRepository_ListActive_NilRedis(t *testing.T) {
	t.Parallel()

	want := []entity.Series{{IDBank: "001688406", Title: "IPC"}}
	inner := &mockSeriesRepository{
		listActiveFn: func(ctx context.Context) ([]entity.Series, error) {
			return want, nil
		},
	}
	repo := NewCachingSeriesRepository(nil, 0, inner, "")

	got, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].IDBank != "001688406" {
		t.Errorf("unexpected result: %+v", got)
	}
}

// TestCachingSeriesRepository_ListActive_CacheHit はキャッシュヒット時にDBへ行かないことを検証します。
func TestCachingSeriesRepository_ListActive_CacheHit(t *testing.T) {
	t.Parallel()

	cached := []entity.Series{{IDBank: "001688406", Title: "IPC"}}
	payload, err := json.Marshal(cached)
	if err != nil {
		t.Fatal(err)
	}

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("catalog:active").SetVal(string(payload))

	inner := &mockSeriesRepository{
		listActiveFn: func(ctx context.Context) ([]entity.Series, error) {
			t.Error("inner repository should not be called on cache hit")
			return nil, nil
		},
	}
	repo := NewCachingSeriesRepository(rdb, time.Minute, inner, "catalog")

	got, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].IDBank != "001688406" {
		t.Errorf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("redis expectations not met: %v", err)
	}
}

// TestCachingSeriesRepository_ListActive_CacheMiss はキャッシュミス時にDBから取得して保存することを検証します。
func TestCachingSeriesRepository_ListActive_CacheMiss(t *testing.T) {
	t.Parallel()

	fromDB := []entity.Series{{IDBank: "010000001", Title: "Population totale"}}
	payload, err := json.Marshal(fromDB)
	if err != nil {
		t.Fatal(err)
	}

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("catalog:active").RedisNil()
	mock.ExpectSet("catalog:active", payload, time.Minute).SetVal("OK")

	inner := &mockSeriesRepository{
		listActiveFn: func(ctx context.Context) ([]entity.Series, error) {
			return fromDB, nil
		},
	}
	repo := NewCachingSeriesRepository(rdb, time.Minute, inner, "catalog")

	got, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].IDBank != "010000001" {
		t.Errorf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("redis expectations not met: %v", err)
	}
}

// TestCachingSeriesRepository_ListActive_CorruptedEntry は壊れたキャッシュを削除してDBへフォールバックすることを検証します。
func TestCachingSeriesRepository_ListActive_CorruptedEntry(t *testing.T) {
	t.Parallel()

	fromDB := []entity.Series{{IDBank: "001688406", Title: "IPC"}}
	payload, err := json.Marshal(fromDB)
	if err != nil {
		t.Fatal(err)
	}

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("catalog:active").SetVal("not-json")
	mock.ExpectDel("catalog:active").SetVal(1)
	mock.ExpectSet("catalog:active", payload, time.Minute).SetVal("OK")

	inner := &mockSeriesRepository{
		listActiveFn: func(ctx context.Context) ([]entity.Series, error) {
			return fromDB, nil
		},
	}
	repo := NewCachingSeriesRepository(rdb, time.Minute, inner, "catalog")

	got, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("redis expectations not met: %v", err)
	}
}

// TestCachingSeriesRepository_UpsertBatch_Invalidates は書き込み後にカタログキーが無効化されることを検証します。
func TestCachingSeriesRepository_UpsertBatch_Invalidates(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	mock.ExpectScan(0, "catalog:*", 200).SetVal([]string{"catalog:active", "catalog:idbanks"}, 0)
	mock.ExpectDel("catalog:active", "catalog:idbanks").SetVal(2)

	upserted := false
	inner := &mockSeriesRepository{
		upsertBatchFn: func(ctx context.Context, series []entity.Series) error {
			upserted = true
			return nil
		},
	}
	repo := NewCachingSeriesRepository(rdb, time.Minute, inner, "catalog")

	err := repo.UpsertBatch(context.Background(), []entity.Series{{IDBank: "001688406", Title: "IPC"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !upserted {
		t.Error("inner repository should have been called")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("redis expectations not met: %v", err)
	}
}

// TestCachingSeriesRepository_UpsertBatch_InnerError は内側の書き込み失敗時にキャッシュを触らないことを検証します。
func TestCachingSeriesRepository_UpsertBatch_InnerError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("db down")
	rdb, mock := redismock.NewClientMock()

	inner := &mockSeriesRepository{
		upsertBatchFn: func(ctx context.Context, series []entity.Series) error {
			return wantErr
		},
	}
	repo := NewCachingSeriesRepository(rdb, time.Minute, inner, "catalog")

	err := repo.UpsertBatch(context.Background(), []entity.Series{{IDBank: "001688406", Title: "IPC"}})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected inner error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("redis expectations not met: %v", err)
	}
}
