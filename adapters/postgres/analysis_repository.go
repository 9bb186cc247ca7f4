// Package postgres persists validation runs and auto answers with sqlx.
// The same queries run on PostgreSQL (lib/pq) and SQLite (modernc); placeholders
// are rebound per driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"stataid/domain/assumptions"
	"stataid/domain/core"
	"stataid/domain/datareadiness/validation"
	"stataid/domain/stats"
	apperrors "stataid/internal/errors"
	"stataid/ports"
)

// AnalysisRepositoryImpl implements ports.AnalysisRepository
type AnalysisRepositoryImpl struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *sqlx.DB) ports.AnalysisRepository {
	return &AnalysisRepositoryImpl{db: db, now: func() time.Time { return time.Now().UTC() }}
}

type answerRow struct {
	Fingerprint          string `db:"fingerprint"`
	QuestionID           string `db:"question_id"`
	Value                string `db:"value"`
	Confidence           string `db:"confidence"`
	Source               string `db:"source"`
	RequiresConfirmation bool   `db:"requires_confirmation"`
	Evidence             string `db:"evidence"`
	ResolvedAt           string `db:"resolved_at"`
}

// SaveValidation stores a validation run; saving the same id again overwrites it
func (r *AnalysisRepositoryImpl) SaveValidation(ctx context.Context, result *validation.ValidationResult) error {
	if result == nil || result.ID.IsEmpty() {
		return apperrors.InvalidInput("validation result needs an id")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal validation result: %w", err)
	}

	created := result.CreatedAt.Time()
	if created.IsZero() {
		created = r.now()
	}

	query := r.db.Rebind(`
		INSERT INTO validations (id, fingerprint, is_valid, total_rows, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			is_valid = excluded.is_valid,
			total_rows = excluded.total_rows,
			payload = excluded.payload`)
	_, err = r.db.ExecContext(ctx, query,
		string(result.ID), string(result.Fingerprint), result.IsValid, result.TotalRows,
		string(payload), created.Format(time.RFC3339Nano))
	if err != nil {
		return apperrors.DatabaseError("failed to save validation", err)
	}
	return nil
}

// GetValidation loads a validation run by id
func (r *AnalysisRepositoryImpl) GetValidation(ctx context.Context, id core.ID) (*validation.ValidationResult, error) {
	var payload string
	err := r.db.GetContext(ctx, &payload, r.db.Rebind(`SELECT payload FROM validations WHERE id = ?`), string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound(fmt.Sprintf("validation %s", id))
	}
	if err != nil {
		return nil, apperrors.DatabaseError("failed to load validation", err)
	}

	var result validation.ValidationResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal validation %s: %w", id, err)
	}
	return &result, nil
}

// ReplaceAnswers upserts answers by (fingerprint, question id). Questions not
// in answers keep their stored answer.
func (r *AnalysisRepositoryImpl) ReplaceAnswers(ctx context.Context, fingerprint core.DatasetFingerprint, answers []assumptions.AutoAnswer) error {
	if fingerprint == "" {
		return apperrors.InvalidInput("dataset fingerprint is required")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.DatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`
		INSERT INTO assumption_answers
			(fingerprint, question_id, value, confidence, source, requires_confirmation, evidence, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (fingerprint, question_id) DO UPDATE SET
			value = excluded.value,
			confidence = excluded.confidence,
			source = excluded.source,
			requires_confirmation = excluded.requires_confirmation,
			evidence = excluded.evidence,
			resolved_at = excluded.resolved_at`)

	resolvedAt := r.now().Format(time.RFC3339Nano)
	for _, a := range answers {
		evidence, err := json.Marshal(a.Evidence)
		if err != nil {
			return fmt.Errorf("failed to marshal evidence: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query,
			string(fingerprint), string(a.QuestionID), a.Value, string(a.Confidence), string(a.Source),
			a.RequiresConfirmation, string(evidence), resolvedAt); err != nil {
			return apperrors.DatabaseError(fmt.Sprintf("failed to store answer %s", a.QuestionID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.DatabaseError("failed to commit answers", err)
	}
	return nil
}

// ListAnswers returns the stored answers for a dataset in catalog order
func (r *AnalysisRepositoryImpl) ListAnswers(ctx context.Context, fingerprint core.DatasetFingerprint) ([]assumptions.AutoAnswer, error) {
	var rows []answerRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT fingerprint, question_id, value, confidence, source, requires_confirmation, evidence, resolved_at
		FROM assumption_answers
		WHERE fingerprint = ?`), string(fingerprint))
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list answers", err)
	}

	answers := make([]assumptions.AutoAnswer, 0, len(rows))
	for _, row := range rows {
		var evidence []string
		if err := json.Unmarshal([]byte(row.Evidence), &evidence); err != nil {
			return nil, fmt.Errorf("failed to unmarshal evidence for %s: %w", row.QuestionID, err)
		}
		answers = append(answers, assumptions.AutoAnswer{
			QuestionID:           assumptions.QuestionID(row.QuestionID),
			Value:                row.Value,
			Confidence:           stats.Confidence(row.Confidence),
			Evidence:             evidence,
			Source:               assumptions.Source(row.Source),
			RequiresConfirmation: row.RequiresConfirmation,
		})
	}

	sort.SliceStable(answers, func(i, j int) bool {
		return catalogIndex(answers[i].QuestionID) < catalogIndex(answers[j].QuestionID)
	})
	return answers, nil
}

func catalogIndex(q assumptions.QuestionID) int {
	for i, c := range assumptions.Catalog {
		if c == q {
			return i
		}
	}
	return len(assumptions.Catalog)
}
