package usecase_test

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"insee_backend/internal/feature/observations/domain/entity"
	"insee_backend/internal/feature/observations/usecase"
)

// ErrUpstream はモックと期待値の間で共有されるセンチネルエラーです。
var ErrUpstream = errors.New("upstream error")

// mockBDMRepository はBDMRepositoryインターフェースのモック実装です。
type mockBDMRepository struct {
	GetSeriesFunc  func(ctx context.Context, idbanks []string, q entity.SeriesQuery) ([]entity.Observation, error)
	GetSeriesCalls int
}

// GetSeries はGetSeriesFuncが設定されていればそれを呼び出し、呼び出し回数を記録します。
func (m *mockBDMRepository) GetSeries(ctx context.Context, idbanks []string, q entity.SeriesQuery) ([]entity.Observation, error) {
	m.GetSeriesCalls++
	if m.GetSeriesFunc != nil {
		return m.GetSeriesFunc(ctx, idbanks, q)
	}
	return nil, errors.New("GetSeriesFunc is not implemented")
}

func fptr(v float64) *float64 { return &v }

// TestObservationsUsecase_FetchSeries はクエリ正規化とリポジトリ呼び出しをテストします。
func TestObservationsUsecase_FetchSeries(t *testing.T) {
	ctx := context.Background()
	expected := []entity.Observation{
		{IDBank: "001688406", Date: "2024-01", Value: fptr(112.3)},
	}

	testCases := []struct {
		name          string
		inputQuery    entity.SeriesQuery
		expectedObs   []entity.Observation
		expectedErr   error
		expectedQuery entity.SeriesQuery // モックに渡されるべきクエリ
		expectCall    bool
	}{
		{
			name:          "success: query passed through unchanged",
			inputQuery:    entity.SeriesQuery{StartPeriod: "2020-01", LastNObservations: 12, Detail: "dataonly"},
			expectedObs:   expected,
			expectedQuery: entity.SeriesQuery{StartPeriod: "2020-01", LastNObservations: 12, Detail: "dataonly"},
			expectCall:    true,
		},
		{
			name:          "success: negative lastNObservations reset to zero",
			inputQuery:    entity.SeriesQuery{LastNObservations: -3},
			expectedObs:   expected,
			expectedQuery: entity.SeriesQuery{LastNObservations: 0},
			expectCall:    true,
		},
		{
			name:          "success: lastNObservations clamped to max",
			inputQuery:    entity.SeriesQuery{LastNObservations: 10000},
			expectedObs:   expected,
			expectedQuery: entity.SeriesQuery{LastNObservations: usecase.MaxLastNObservations},
			expectCall:    true,
		},
		{
			name:        "error: unknown detail level rejected before the repository",
			inputQuery:  entity.SeriesQuery{Detail: "everything"},
			expectedErr: usecase.ErrInvalidDetail,
			expectCall:  false,
		},
		{
			name:        "error: repository error is propagated",
			inputQuery:  entity.SeriesQuery{},
			expectedErr: ErrUpstream,
			expectCall:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &mockBDMRepository{
				GetSeriesFunc: func(ctx context.Context, idbanks []string, q entity.SeriesQuery) ([]entity.Observation, error) {
					if tc.expectedErr != nil {
						return nil, tc.expectedErr
					}
					// ユースケースが正規化済みクエリでリポジトリを呼び出すことを検証
					if !reflect.DeepEqual(q, tc.expectedQuery) {
						t.Errorf("GetSeries called with unexpected query: got %+v, want %+v", q, tc.expectedQuery)
					}
					return tc.expectedObs, nil
				},
			}
			uc := usecase.NewObservationsUsecase(mockRepo)

			obs, err := uc.FetchSeries(ctx, []string{"001688406"}, tc.inputQuery)

			if tc.expectedErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else if !errors.Is(err, tc.expectedErr) {
				t.Fatalf("expected %v, got %v", tc.expectedErr, err)
			}

			if tc.expectedErr == nil && !reflect.DeepEqual(obs, tc.expectedObs) {
				t.Errorf("result mismatch: got %v, want %v", obs, tc.expectedObs)
			}

			wantCalls := 0
			if tc.expectCall {
				wantCalls = 1
			}
			if mockRepo.GetSeriesCalls != wantCalls {
				t.Errorf("GetSeries was called %d times, expected %d", mockRepo.GetSeriesCalls, wantCalls)
			}
		})
	}
}

// almostEqual は浮動小数点の比較用ヘルパーです。
func almostEqual(got *float64, want float64) bool {
	return got != nil && math.Abs(*got-want) < 1e-9
}

// TestObservationsUsecase_DescribeSeries は系列ごとの統計サマリーの計算をテストします。
func TestObservationsUsecase_DescribeSeries(t *testing.T) {
	ctx := context.Background()

	obs := []entity.Observation{
		{IDBank: "001688406", Date: "2024-01", Value: fptr(1)},
		{IDBank: "001688406", Date: "2024-02", Value: fptr(2)},
		{IDBank: "010000001", Date: "2024-01", Value: fptr(5)},
		{IDBank: "001688406", Date: "2024-03", Value: nil},
		{IDBank: "001688406", Date: "2024-04", Value: fptr(3)},
		{IDBank: "001688406", Date: "2024-05", Value: fptr(4)},
	}
	mockRepo := &mockBDMRepository{
		GetSeriesFunc: func(ctx context.Context, idbanks []string, q entity.SeriesQuery) ([]entity.Observation, error) {
			return obs, nil
		},
	}
	uc := usecase.NewObservationsUsecase(mockRepo)

	stats, err := uc.DescribeSeries(ctx, []string{"001688406", "010000001"}, entity.SeriesQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stats) != 2 {
		t.Fatalf("expected 2 series, got %d", len(stats))
	}

	// 初出順が保たれること
	first := stats[0]
	if first.IDBank != "001688406" {
		t.Fatalf("expected first series 001688406, got %s", first.IDBank)
	}
	if first.Count != 5 || first.Nulls != 1 {
		t.Errorf("count mismatch: got count=%d nulls=%d, want count=5 nulls=1", first.Count, first.Nulls)
	}
	if !almostEqual(first.Mean, 2.5) {
		t.Errorf("mean mismatch: got %v, want 2.5", first.Mean)
	}
	// 値[1,2,3,4]の不偏標準偏差 sqrt(5/3)
	if !almostEqual(first.Std, math.Sqrt(5.0/3.0)) {
		t.Errorf("std mismatch: got %v, want %v", first.Std, math.Sqrt(5.0/3.0))
	}
	if !almostEqual(first.Min, 1) || !almostEqual(first.Max, 4) {
		t.Errorf("min/max mismatch: got min=%v max=%v", first.Min, first.Max)
	}

	// 数値1件の系列は標準偏差なし
	second := stats[1]
	if second.IDBank != "010000001" {
		t.Fatalf("expected second series 010000001, got %s", second.IDBank)
	}
	if second.Count != 1 || second.Nulls != 0 {
		t.Errorf("count mismatch: got count=%d nulls=%d, want count=1 nulls=0", second.Count, second.Nulls)
	}
	if !almostEqual(second.Mean, 5) {
		t.Errorf("mean mismatch: got %v, want 5", second.Mean)
	}
	if second.Std != nil {
		t.Errorf("expected nil std for a single value, got %v", *second.Std)
	}
}

// TestObservationsUsecase_DescribeSeries_AllNull は数値のない系列のサマリーをテストします。
func TestObservationsUsecase_DescribeSeries_AllNull(t *testing.T) {
	ctx := context.Background()

	mockRepo := &mockBDMRepository{
		GetSeriesFunc: func(ctx context.Context, idbanks []string, q entity.SeriesQuery) ([]entity.Observation, error) {
			return []entity.Observation{
				{IDBank: "001688406", Date: "2024-01", Value: nil},
				{IDBank: "001688406", Date: "2024-02", Value: nil},
			}, nil
		},
	}
	uc := usecase.NewObservationsUsecase(mockRepo)

	stats, err := uc.DescribeSeries(ctx, []string{"001688406"}, entity.SeriesQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 series, got %d", len(stats))
	}

	st := stats[0]
	if st.Count != 2 || st.Nulls != 2 {
		t.Errorf("count mismatch: got count=%d nulls=%d, want count=2 nulls=2", st.Count, st.Nulls)
	}
	if st.Mean != nil || st.Std != nil || st.Min != nil || st.Max != nil {
		t.Errorf("expected all nil stats, got %+v", st)
	}
}
