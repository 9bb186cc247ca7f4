package validation

import (
	"stataid/domain/core"
	"stataid/domain/datareadiness/profiling"
	"stataid/domain/stats"
)

// Severity separates blocking issues from advisory ones
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IssueCode identifies the rule that produced an issue
type IssueCode string

const (
	// Blocking
	CodeHardLimitExceeded IssueCode = "HARD_LIMIT_EXCEEDED"
	CodeInsufficientData  IssueCode = "INSUFFICIENT_DATA"

	// Data quality warnings
	CodeHighMissingRatio    IssueCode = "HIGH_MISSING_RATIO"
	CodeHighOutlierRatio    IssueCode = "HIGH_OUTLIER_RATIO"
	CodeMixedTypes          IssueCode = "MIXED_TYPES"
	CodeAllMissingColumn    IssueCode = "ALL_MISSING_COLUMN"
	CodeLargeDatasetSampled IssueCode = "LARGE_DATASET_SAMPLED"
)

// Issue is one validation finding
type Issue struct {
	Code     IssueCode `json:"code"`
	Severity Severity  `json:"severity"`
	Column   string    `json:"column,omitempty"`
	Message  string    `json:"message"`
}

// ColumnAssumptionTests holds the engine outcomes gathered for one numeric column.
// Normality has one entry per group (or a single entry when ungrouped).
type ColumnAssumptionTests struct {
	Column              string              `json:"column"`
	Normality           []stats.TestOutcome `json:"normality"`
	VarianceHomogeneity *stats.TestOutcome  `json:"variance_homogeneity,omitempty"`
}

// ValidationResult is the dataset-level verdict plus every column profile
type ValidationResult struct {
	ID              core.ID                      `json:"id"`
	Fingerprint     core.DatasetFingerprint      `json:"fingerprint"`
	IsValid         bool                         `json:"is_valid"`
	TotalRows       int                          `json:"total_rows"`
	ProfiledRows    int                          `json:"profiled_rows"`
	Sampled         bool                         `json:"sampled"`
	ColumnCount     int                          `json:"column_count"`
	MissingValues   int                          `json:"missing_values"`
	DuplicateRows   *int                         `json:"duplicate_rows,omitempty"`
	DataTypeSummary map[profiling.ColumnType]int `json:"data_type_summary"`
	Errors          []Issue                      `json:"errors"`
	Warnings        []Issue                      `json:"warnings"`
	ColumnProfiles  []profiling.ColumnProfile    `json:"column_profiles"`
	GroupColumn     string                       `json:"group_column,omitempty"`
	AssumptionTests []ColumnAssumptionTests      `json:"assumption_tests,omitempty"`
	CreatedAt       core.Timestamp               `json:"created_at"`
}

// AddIssue files the issue under errors or warnings and keeps IsValid in step
func (r *ValidationResult) AddIssue(issue Issue) {
	if issue.Severity == SeverityError {
		r.Errors = append(r.Errors, issue)
		r.IsValid = false
		return
	}
	r.Warnings = append(r.Warnings, issue)
}

// HasIssue reports whether an issue with the code was raised (either severity)
func (r *ValidationResult) HasIssue(code IssueCode) bool {
	for _, list := range [][]Issue{r.Errors, r.Warnings} {
		for _, i := range list {
			if i.Code == code {
				return true
			}
		}
	}
	return false
}

// Profile looks up a column profile by name
func (r *ValidationResult) Profile(name string) (profiling.ColumnProfile, bool) {
	for _, p := range r.ColumnProfiles {
		if p.Name == name {
			return p, true
		}
	}
	return profiling.ColumnProfile{}, false
}

// SummarizeTypes counts profiles per type
func SummarizeTypes(profiles []profiling.ColumnProfile) map[profiling.ColumnType]int {
	summary := make(map[profiling.ColumnType]int)
	for _, p := range profiles {
		summary[p.Type]++
	}
	return summary
}
