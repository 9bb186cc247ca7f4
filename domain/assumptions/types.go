package assumptions

import (
	"fmt"

	"stataid/domain/stats"
)

// QuestionID names an assumption question from the fixed catalog
type QuestionID string

const (
	QuestionNormality           QuestionID = "normality"
	QuestionVarianceHomogeneity QuestionID = "variance_homogeneity"
	QuestionVariableTypes       QuestionID = "variable_types"
)

// Catalog is every question in answer order
var Catalog = []QuestionID{
	QuestionNormality,
	QuestionVarianceHomogeneity,
	QuestionVariableTypes,
}

// IsKnown reports whether q belongs to the catalog
func (q QuestionID) IsKnown() bool {
	for _, c := range Catalog {
		if c == q {
			return true
		}
	}
	return false
}

// Answer values
const (
	ValueYes     = "yes"
	ValueNo      = "no"
	ValueCheck   = "check"
	ValueNumeric = "numeric"
	ValueMixed   = "mixed"
)

// Source says where an answer came from
type Source string

const (
	SourceTestResult Source = "test-result"
	SourceHeuristic  Source = "heuristic"
	SourceProfile    Source = "profile" // read directly off column profiles
)

// AutoAnswer is a pre-filled answer with visible confidence and evidence
type AutoAnswer struct {
	QuestionID           QuestionID       `json:"question_id"`
	Value                string           `json:"value"`
	Confidence           stats.Confidence `json:"confidence"`
	Evidence             []string         `json:"evidence"`
	Source               Source           `json:"source"`
	RequiresConfirmation bool             `json:"requires_confirmation"`
}

// Validate checks the answer's structural invariants
func (a AutoAnswer) Validate() error {
	if len(a.Evidence) == 0 {
		return fmt.Errorf("answer %s has no evidence", a.QuestionID)
	}
	if a.Confidence == stats.ConfidenceUnknown && !a.RequiresConfirmation {
		return fmt.Errorf("answer %s has unknown confidence without requiring confirmation", a.QuestionID)
	}
	if a.Source == SourceTestResult && a.Confidence != stats.ConfidenceHigh && a.Confidence != stats.ConfidenceMedium {
		return fmt.Errorf("answer %s from a test result must be high or medium, got %s", a.QuestionID, a.Confidence)
	}
	return nil
}
