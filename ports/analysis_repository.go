package ports

import (
	"context"

	"stataid/domain/assumptions"
	"stataid/domain/core"
	"stataid/domain/datareadiness/validation"
)

// AnalysisRepository persists validation runs and the current auto answers per dataset
type AnalysisRepository interface {
	SaveValidation(ctx context.Context, result *validation.ValidationResult) error
	GetValidation(ctx context.Context, id core.ID) (*validation.ValidationResult, error)

	// ReplaceAnswers supersedes any stored answer with the same question id
	ReplaceAnswers(ctx context.Context, fingerprint core.DatasetFingerprint, answers []assumptions.AutoAnswer) error
	ListAnswers(ctx context.Context, fingerprint core.DatasetFingerprint) ([]assumptions.AutoAnswer, error)
}
