package recommendation

import (
	"strings"

	"stataid/domain/core"
	"stataid/domain/stats"
)

// Family groups methods that answer the same kind of question
type Family string

const (
	FamilyDescriptive  Family = "descriptive"
	FamilySingleSample Family = "single_sample"
	FamilyAssociation  Family = "association"
	FamilyRegression   Family = "regression"
	FamilyComparison   Family = "comparison"
	FamilyMultivariate Family = "multivariate"
	FamilyCategorical  Family = "categorical"
	FamilyTimeSeries   Family = "time_series"
)

// Recommendation is one candidate method with its confidence and rationale
type Recommendation struct {
	ID              core.ID          `json:"id"`
	Title           string           `json:"title"`
	MethodID        string           `json:"method_id"`
	Family          Family           `json:"family"`
	Confidence      stats.Confidence `json:"confidence"`
	RequiredColumns []string         `json:"required_columns"`
	Assumptions     []string         `json:"assumptions"`
	Rationale       string           `json:"rationale"`
	Inferential     bool             `json:"inferential"`
}

// NewID derives the recommendation id from the method and the columns it needs.
// Re-running on the same data yields the same id.
func NewID(methodID string, columns []string) core.ID {
	return core.NewDeterministicID(methodID, strings.Join(columns, ","))
}
