package recommender

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stataid/adapters/datareadiness"
	"stataid/domain/datareadiness/profiling"
	"stataid/domain/datareadiness/validation"
	"stataid/domain/dataset"
	"stataid/domain/recommendation"
	"stataid/domain/stats"
	"stataid/internal/testkit"
)

func numericCol(name string, std float64) profiling.ColumnProfile {
	summary := &profiling.NumericSummary{Mean: 10, Std: std, Min: 1, Q1: 5, Median: 10, Q3: 15, Max: 20}
	unique := 100
	if std == 0 {
		summary = &profiling.NumericSummary{Mean: 10, Min: 10, Q1: 10, Median: 10, Q3: 10, Max: 10}
		unique = 1
	}
	return profiling.ColumnProfile{
		Name: name, Type: profiling.TypeNumeric, NonMissingCount: 100, NumericCount: 100,
		UniqueCount: unique, Numeric: summary,
	}
}

func groupCol(name string, levels int) profiling.ColumnProfile {
	t := profiling.TypeCategorical
	if levels == 2 {
		t = profiling.TypeBinary
	}
	return profiling.ColumnProfile{Name: name, Type: t, NonMissingCount: 100, TextCount: 100, UniqueCount: levels}
}

func methodIDs(recs []recommendation.Recommendation) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.MethodID
	}
	return ids
}

func find(t *testing.T, recs []recommendation.Recommendation, methodID string) recommendation.Recommendation {
	t.Helper()
	for _, r := range recs {
		if r.MethodID == methodID {
			return r
		}
	}
	t.Fatalf("method %s not recommended; got %v", methodID, methodIDs(recs))
	return recommendation.Recommendation{}
}

func TestRecommend_Shapes(t *testing.T) {
	r := New(DefaultConfig(), zap.NewNop())

	tests := []struct {
		name      string
		profiles  []profiling.ColumnProfile
		wantFirst string
		wantTier  stats.Confidence
		contains  []string
	}{
		{
			name:      "single numeric",
			profiles:  []profiling.ColumnProfile{numericCol("x", 2)},
			wantFirst: "one_sample_t_test",
			wantTier:  stats.ConfidenceHigh,
			contains:  []string{"wilcoxon_signed_rank", "descriptive_statistics"},
		},
		{
			name:      "two groups",
			profiles:  []profiling.ColumnProfile{groupCol("g", 2), numericCol("v", 2)},
			wantFirst: "independent_t_test",
			wantTier:  stats.ConfidenceHigh,
			contains:  []string{"mann_whitney_u", "descriptive_by_group"},
		},
		{
			name:      "three groups",
			profiles:  []profiling.ColumnProfile{groupCol("g", 3), numericCol("v", 2)},
			wantFirst: "one_way_anova",
			wantTier:  stats.ConfidenceHigh,
			contains:  []string{"kruskal_wallis"},
		},
		{
			name:      "two categorical",
			profiles:  []profiling.ColumnProfile{groupCol("a", 3), groupCol("b", 4)},
			wantFirst: "chi_square_independence",
			wantTier:  stats.ConfidenceHigh,
			contains:  []string{"fisher_exact", "crosstab"},
		},
		{
			name:      "single categorical",
			profiles:  []profiling.ColumnProfile{groupCol("a", 3)},
			wantFirst: "chi_square_goodness_of_fit",
			wantTier:  stats.ConfidenceHigh,
			contains:  []string{"frequency_table"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := r.Recommend(Input{Profiles: tt.profiles, TotalRows: 100})
			require.NotEmpty(t, recs)
			assert.Equal(t, tt.wantFirst, recs[0].MethodID)
			assert.Equal(t, tt.wantTier, recs[0].Confidence)
			ids := methodIDs(recs)
			for _, want := range tt.contains {
				assert.Contains(t, ids, want)
			}
		})
	}
}

func TestRecommend_TwoGroupScenario(t *testing.T) {
	ds := testkit.GroupedDataset([]string{"a", "b"}, 50, 7)
	profiler := datareadiness.NewProfilerAdapter(nil, profiling.DefaultProfilingConfig(), zap.NewNop())
	profiles, err := profiler.ProfileDataset(context.Background(), ds)
	require.NoError(t, err)

	recs := New(DefaultConfig(), nil).Recommend(Input{Profiles: profiles, TotalRows: ds.RowCount()})
	require.NotEmpty(t, recs)

	top := recs[0]
	assert.Equal(t, "independent_t_test", top.MethodID)
	assert.Equal(t, stats.ConfidenceHigh, top.Confidence)
	assert.Equal(t, []string{"value", "group"}, top.RequiredColumns)
	assert.Contains(t, top.Assumptions, "normality")
	assert.True(t, top.Inferential)
	assert.Equal(t, recommendation.NewID("independent_t_test", []string{"value", "group"}), top.ID)
}

func TestRecommend_FourRowGroups(t *testing.T) {
	ds := dataset.FromRows([]dataset.Row{
		{"g": "A", "v": 10}, {"g": "A", "v": 12},
		{"g": "B", "v": 20}, {"g": "B", "v": 22},
	})
	profiler := datareadiness.NewProfilerAdapter(nil, profiling.DefaultProfilingConfig(), zap.NewNop())
	profiles, err := profiler.ProfileDataset(context.Background(), ds)
	require.NoError(t, err)

	recs := New(DefaultConfig(), zap.NewNop()).Recommend(Input{Profiles: profiles, TotalRows: ds.RowCount()})
	require.NotEmpty(t, recs)
	assert.Equal(t, "independent_t_test", recs[0].MethodID)
	assert.Equal(t, stats.ConfidenceHigh, recs[0].Confidence)
}

func TestRecommend_HighCardinalityGroup(t *testing.T) {
	r := New(DefaultConfig(), zap.NewNop())
	recs := r.Recommend(Input{
		Profiles:  []profiling.ColumnProfile{numericCol("v", 2), groupCol("store", 11)},
		TotalRows: 200,
	})

	require.Len(t, recs, 1)
	assert.Equal(t, "descriptive_by_group", recs[0].MethodID)
	assert.False(t, recs[0].Inferential)
	assert.Contains(t, recs[0].Rationale, `"store" has 11 categories`)
	assert.NotEqual(t, stats.ConfidenceHigh, recs[0].Confidence)
}

func TestRecommend_ZeroVariance(t *testing.T) {
	r := New(DefaultConfig(), zap.NewNop())
	recs := r.Recommend(Input{
		Profiles:  []profiling.ColumnProfile{groupCol("g", 2), numericCol("v", 0)},
		TotalRows: 50,
	})

	require.NotEmpty(t, recs)
	for _, rec := range recs {
		assert.False(t, rec.Inferential, rec.MethodID)
		assert.Contains(t, rec.Rationale, "zero variance")
	}
}

func TestRecommend_GuardsFallBackToDescriptive(t *testing.T) {
	r := New(DefaultConfig(), zap.NewNop())

	tests := []struct {
		name      string
		profiles  []profiling.ColumnProfile
		totalRows int
		note      string
	}{
		{
			name:      "two numerics, one constant",
			profiles:  []profiling.ColumnProfile{numericCol("x", 2), numericCol("y", 0)},
			totalRows: 50,
			note:      `column "y" has zero variance`,
		},
		{
			name:      "two numerics, three rows",
			profiles:  []profiling.ColumnProfile{numericCol("x", 2), numericCol("y", 3)},
			totalRows: 3,
			note:      "only 3 rows",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := r.Recommend(Input{Profiles: tt.profiles, TotalRows: tt.totalRows})

			require.Len(t, recs, 1)
			assert.Equal(t, "descriptive_statistics", recs[0].MethodID)
			assert.Equal(t, []string{"x", "y"}, recs[0].RequiredColumns)
			assert.False(t, recs[0].Inferential)
			assert.Equal(t, stats.ConfidenceMedium, recs[0].Confidence)
			assert.Contains(t, recs[0].Rationale, tt.note)
		})
	}
}

func TestRecommend_SmallSample(t *testing.T) {
	r := New(DefaultConfig(), zap.NewNop())
	recs := r.Recommend(Input{Profiles: []profiling.ColumnProfile{numericCol("x", 2)}, TotalRows: 3})

	assert.Equal(t, []string{"descriptive_statistics"}, methodIDs(recs))
	assert.Equal(t, stats.ConfidenceMedium, recs[0].Confidence)
	assert.Contains(t, recs[0].Rationale, "only 3 rows")
}

func TestRecommend_Empty(t *testing.T) {
	r := New(DefaultConfig(), zap.NewNop())

	t.Run("too few rows", func(t *testing.T) {
		recs := r.Recommend(Input{Profiles: []profiling.ColumnProfile{numericCol("x", 2)}, TotalRows: 2})
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
	})

	t.Run("no usable columns", func(t *testing.T) {
		text := profiling.ColumnProfile{Name: "notes", Type: profiling.TypeText, UniqueCount: 90}
		mixed := profiling.ColumnProfile{Name: "junk", Type: profiling.TypeMixed}
		recs := r.Recommend(Input{Profiles: []profiling.ColumnProfile{text, mixed}, TotalRows: 100})
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
	})

	t.Run("single-level grouping column is not a grouper", func(t *testing.T) {
		recs := r.Recommend(Input{Profiles: []profiling.ColumnProfile{groupCol("g", 1)}, TotalRows: 100})
		assert.Empty(t, recs)
	})
}

func TestRecommend_FamilyTieAndIntent(t *testing.T) {
	r := New(DefaultConfig(), zap.NewNop())
	profiles := []profiling.ColumnProfile{numericCol("price", 3), numericCol("sales", 4), groupCol("region", 2)}

	t.Run("competing families cap at medium", func(t *testing.T) {
		recs := r.Recommend(Input{Profiles: profiles, TotalRows: 100})
		require.NotEmpty(t, recs)
		for _, rec := range recs {
			assert.NotEqual(t, stats.ConfidenceHigh, rec.Confidence, rec.MethodID)
		}
		assert.Contains(t, recs[0].Rationale, "several method families")
	})

	t.Run("intent breaks the tie", func(t *testing.T) {
		recs := r.Recommend(Input{Profiles: profiles, TotalRows: 100, Intent: "Do sales differ between groups of regions?"})
		require.NotEmpty(t, recs)
		assert.Equal(t, "independent_t_test", recs[0].MethodID)
		assert.Equal(t, stats.ConfidenceHigh, recs[0].Confidence)
		assert.Contains(t, recs[0].Rationale, "research intent")
		assert.Equal(t, stats.ConfidenceMedium, find(t, recs, "pearson_correlation").Confidence)
	})

	t.Run("intent does not override guards", func(t *testing.T) {
		recs := r.Recommend(Input{
			Profiles:  []profiling.ColumnProfile{numericCol("y", 0)},
			TotalRows: 100,
			Intent:    "Describe the data",
		})
		require.Len(t, recs, 1)
		assert.Equal(t, "descriptive_statistics", recs[0].MethodID)
		assert.Equal(t, stats.ConfidenceMedium, recs[0].Confidence)
		assert.Contains(t, recs[0].Rationale, `research intent mentions "describe"`)
	})
}

func TestRecommend_OrderingDedupeAndCap(t *testing.T) {
	profiles := []profiling.ColumnProfile{
		numericCol("a", 1), numericCol("b", 2), numericCol("c", 3),
		groupCol("g", 3), groupCol("h", 2),
	}

	recs := New(DefaultConfig(), zap.NewNop()).Recommend(Input{Profiles: profiles, TotalRows: 500})
	assert.LessOrEqual(t, len(recs), DefaultConfig().MaxRecommendations)

	seen := map[string]bool{}
	for i, rec := range recs {
		assert.False(t, seen[rec.MethodID], "duplicate %s", rec.MethodID)
		seen[rec.MethodID] = true
		if i > 0 {
			assert.GreaterOrEqual(t, recs[i-1].Confidence.Rank(), rec.Confidence.Rank())
		}
	}

	wide := New(Config{MaxRecommendations: 50, SmallSampleThreshold: 4, MaxGroupLevels: 10, MinRows: 3}, nil).
		Recommend(Input{Profiles: profiles, TotalRows: 500})
	assert.Greater(t, len(wide), len(recs))
	assert.Contains(t, methodIDs(wide), "two_way_anova")
	assert.Contains(t, methodIDs(wide), "multiple_linear_regression")
}

func TestRecommend_TimeSeriesIsSpeculative(t *testing.T) {
	date := profiling.ColumnProfile{Name: "order_date", Type: profiling.TypeDate, NonMissingCount: 100, TextCount: 100, UniqueCount: 100}
	recs := New(DefaultConfig(), zap.NewNop()).Recommend(Input{
		Profiles:  []profiling.ColumnProfile{date, numericCol("revenue", 5)},
		TotalRows: 100,
	})

	trend := find(t, recs, "time_series_trend")
	assert.Equal(t, stats.ConfidenceLow, trend.Confidence)
	assert.Equal(t, []string{"order_date", "revenue"}, trend.RequiredColumns)
}

func TestRecommend_Deterministic(t *testing.T) {
	r := New(DefaultConfig(), zap.NewNop())
	in := Input{Profiles: []profiling.ColumnProfile{numericCol("x", 1), numericCol("y", 2), groupCol("g", 2)}, TotalRows: 40, Intent: "relationship"}
	assert.Equal(t, r.Recommend(in), r.Recommend(in))
}

func TestRecommendForValidation(t *testing.T) {
	r := New(DefaultConfig(), zap.NewNop())

	assert.Empty(t, r.RecommendForValidation(nil, ""))

	invalid := &validation.ValidationResult{IsValid: false, TotalRows: 100,
		ColumnProfiles: []profiling.ColumnProfile{numericCol("x", 2)}}
	assert.Empty(t, r.RecommendForValidation(invalid, ""))

	valid := &validation.ValidationResult{IsValid: true, TotalRows: 100,
		ColumnProfiles: []profiling.ColumnProfile{numericCol("x", 2)}}
	recs := r.RecommendForValidation(valid, "")
	require.NotEmpty(t, recs)
	assert.Equal(t, "one_sample_t_test", recs[0].MethodID)
}
