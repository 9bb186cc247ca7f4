package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"stataid/adapters/datareadiness"
	"stataid/adapters/postgres"
	"stataid/adapters/postgres/migrations"
	"stataid/adapters/stats/engine"
	"stataid/domain/assumptions"
	"stataid/domain/core"
	"stataid/domain/dataset"
	"stataid/domain/datareadiness/profiling"
	"stataid/domain/stats"
	"stataid/internal/recommender"
	"stataid/internal/resolver"
	"stataid/internal/testkit"
	validator "stataid/internal/validation"
	"stataid/ports"
)

func newService(t *testing.T, withRepo bool) *AdvisorService {
	t.Helper()
	profiler := datareadiness.NewProfilerAdapter(nil, profiling.DefaultProfilingConfig(), zap.NewNop())
	v := validator.NewValidator(profiler, engine.NewLocalEngine(), validator.DefaultConfig(), zap.NewNop())

	var repo ports.AnalysisRepository
	if withRepo {
		db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "advisor.db"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		require.NoError(t, migrations.NewMigrator(db, nil).Up(context.Background()))
		repo = postgres.NewAnalysisRepository(db)
	}
	return NewAdvisorService(v,
		recommender.New(recommender.DefaultConfig(), nil),
		resolver.New(resolver.DefaultConfig(), nil),
		repo, zap.NewNop())
}

func TestAnalyze_GroupedDataset(t *testing.T) {
	svc := newService(t, true)
	ds := testkit.GroupedDataset([]string{"control", "treatment"}, 40, 11)

	analysis, err := svc.Analyze(context.Background(), AnalyzeRequest{Dataset: ds, GroupColumn: "group", Intent: "compare the groups"})
	require.NoError(t, err)

	require.True(t, analysis.Validation.IsValid)
	require.NotEmpty(t, analysis.Validation.AssumptionTests, "local engine runs the tests")
	assert.Equal(t, "independent_t_test", analysis.Recommendations[0].MethodID)
	require.Len(t, analysis.Answers, 3)

	normality := analysis.Answers[0]
	assert.Equal(t, assumptions.QuestionNormality, normality.QuestionID)
	assert.NoError(t, normality.Validate())

	stored, err := svc.Answers(context.Background(), ds.Fingerprint())
	require.NoError(t, err)
	assert.Equal(t, analysis.Answers, stored)
}

func TestResolve_FromStoredValidation(t *testing.T) {
	svc := newService(t, true)
	ctx := context.Background()
	ds := testkit.NumericDataset(20, 3, "score")

	first, err := svc.Resolve(ctx, AnalyzeRequest{Dataset: ds, Questions: []assumptions.QuestionID{assumptions.QuestionVariableTypes}})
	require.NoError(t, err)
	require.Len(t, first.Answers, 1)

	fresh, err := svc.Resolve(ctx, AnalyzeRequest{
		ValidationID: first.Validation.ID,
		TestResults: map[assumptions.QuestionID][]stats.TestOutcome{
			assumptions.QuestionNormality: {stats.Result("shapiro_wilk", "score", 0.97, 0.62)},
		},
		Questions: []assumptions.QuestionID{assumptions.QuestionNormality},
	})
	require.NoError(t, err)
	require.Len(t, fresh.Answers, 1)
	assert.Equal(t, assumptions.SourceTestResult, fresh.Answers[0].Source)

	stored, err := svc.Answers(ctx, ds.Fingerprint())
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "yes", stored[0].Value)
	assert.Equal(t, stats.ConfidenceHigh, stored[0].Confidence)
}

func TestAnalyze_BlockedDataset(t *testing.T) {
	svc := newService(t, false)
	ds := dataset.FromRows([]dataset.Row{{"v": 1}, {"v": 2}})

	analysis, err := svc.Analyze(context.Background(), AnalyzeRequest{Dataset: ds})
	require.NoError(t, err)
	assert.False(t, analysis.Validation.IsValid)
	assert.NotEmpty(t, analysis.Validation.Errors)
	assert.Empty(t, analysis.Recommendations)
	assert.Empty(t, analysis.Answers)
}

func TestService_Errors(t *testing.T) {
	svc := newService(t, false)
	ctx := context.Background()

	_, err := svc.Analyze(ctx, AnalyzeRequest{})
	assert.True(t, core.IsMalformedInput(err))

	_, err = svc.Analyze(ctx, AnalyzeRequest{Dataset: dataset.New(nil, nil)})
	assert.True(t, core.IsMalformedInput(err))

	_, err = svc.Resolve(ctx, AnalyzeRequest{ValidationID: "abc"})
	assert.Error(t, err, "stored runs need a repository")

	_, err = svc.Answers(ctx, "fp")
	assert.Error(t, err)
}
