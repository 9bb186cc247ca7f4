package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"stataid/adapters/postgres/migrations"
	"stataid/domain/assumptions"
	"stataid/domain/core"
	"stataid/domain/datareadiness/profiling"
	"stataid/domain/datareadiness/validation"
	"stataid/domain/stats"
	apperrors "stataid/internal/errors"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "stataid.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.NewMigrator(db, nil).Up(context.Background()))
	return db
}

func TestAnalysisRepository_Validation(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalysisRepository(openTestDB(t))

	p := 0.4
	result := &validation.ValidationResult{
		ID:          core.NewID(),
		Fingerprint: "fp-1",
		IsValid:     true,
		TotalRows:   120,
		ColumnCount: 2,
		ColumnProfiles: []profiling.ColumnProfile{
			{Name: "v", Type: profiling.TypeNumeric, NonMissingCount: 120, Numeric: &profiling.NumericSummary{Mean: 3, Std: 1}},
		},
		AssumptionTests: []validation.ColumnAssumptionTests{
			{Column: "v", Normality: []stats.TestOutcome{{Kind: stats.OutcomeResult, Method: "jarque_bera", Label: "v", PValue: &p, Verdict: true}}},
		},
		CreatedAt: core.Timestamp(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	require.NoError(t, repo.SaveValidation(ctx, result))

	loaded, err := repo.GetValidation(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Fingerprint, loaded.Fingerprint)
	assert.Equal(t, 120, loaded.TotalRows)
	require.Len(t, loaded.AssumptionTests, 1)
	assert.InDelta(t, 0.4, *loaded.AssumptionTests[0].Normality[0].PValue, 1e-12)
	assert.True(t, result.CreatedAt.Time().Equal(loaded.CreatedAt.Time()))

	t.Run("save again overwrites", func(t *testing.T) {
		result.IsValid = false
		require.NoError(t, repo.SaveValidation(ctx, result))
		loaded, err := repo.GetValidation(ctx, result.ID)
		require.NoError(t, err)
		assert.False(t, loaded.IsValid)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.GetValidation(ctx, "nope")
		assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
	})

	t.Run("id required", func(t *testing.T) {
		err := repo.SaveValidation(ctx, &validation.ValidationResult{})
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
	})
}

func TestAnalysisRepository_ReplaceAnswers(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalysisRepository(openTestDB(t))
	fp := core.DatasetFingerprint("fp-answers")

	first := []assumptions.AutoAnswer{
		{QuestionID: assumptions.QuestionVariableTypes, Value: "mixed", Confidence: stats.ConfidenceHigh,
			Evidence: []string{"1 of 2 columns are numeric"}, Source: assumptions.SourceProfile},
		{QuestionID: assumptions.QuestionNormality, Value: "check", Confidence: stats.ConfidenceUnknown,
			Evidence: []string{"estimated sample size: 20 rows, no grouping"}, Source: assumptions.SourceHeuristic, RequiresConfirmation: true},
	}
	require.NoError(t, repo.ReplaceAnswers(ctx, fp, first))

	got, err := repo.ListAnswers(ctx, fp)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, assumptions.QuestionNormality, got[0].QuestionID, "catalog order")
	assert.True(t, got[0].RequiresConfirmation)
	assert.Equal(t, []string{"estimated sample size: 20 rows, no grouping"}, got[0].Evidence)

	upgraded := []assumptions.AutoAnswer{
		{QuestionID: assumptions.QuestionNormality, Value: "yes", Confidence: stats.ConfidenceHigh,
			Evidence: []string{"jarque_bera on v: statistic 0.5, p = 0.7788"}, Source: assumptions.SourceTestResult},
	}
	require.NoError(t, repo.ReplaceAnswers(ctx, fp, upgraded))

	got, err = repo.ListAnswers(ctx, fp)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "yes", got[0].Value)
	assert.Equal(t, assumptions.SourceTestResult, got[0].Source)
	assert.False(t, got[0].RequiresConfirmation)
	assert.Equal(t, "mixed", got[1].Value, "other questions keep their answer")

	other, err := repo.ListAnswers(ctx, "fp-other")
	require.NoError(t, err)
	assert.Empty(t, other)

	assert.Error(t, repo.ReplaceAnswers(ctx, "", upgraded))
}

func TestMigrator_Idempotent(t *testing.T) {
	db := openTestDB(t)
	m := migrations.NewMigrator(db, nil)
	require.NoError(t, m.Up(context.Background()))

	status, err := m.Status(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, status)
	for _, s := range status {
		assert.True(t, s.Applied, s.Version)
	}
}
