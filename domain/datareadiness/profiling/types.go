package profiling

// ColumnType is the statistical character assigned to a column
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeBinary      ColumnType = "binary"
	TypeOrdinal     ColumnType = "ordinal"
	TypeDate        ColumnType = "date"
	TypeCount       ColumnType = "count"
	TypeText        ColumnType = "text"
	TypeMixed       ColumnType = "mixed"
)

// AllColumnTypes lists every type in a stable order (used for summaries)
var AllColumnTypes = []ColumnType{
	TypeNumeric, TypeCategorical, TypeBinary, TypeOrdinal,
	TypeDate, TypeCount, TypeText, TypeMixed,
}

// IsNumeric reports whether the type can feed numeric methods
func (t ColumnType) IsNumeric() bool {
	return t == TypeNumeric || t == TypeCount
}

// IsGrouping reports whether the type can act as a grouping factor
func (t ColumnType) IsGrouping() bool {
	return t == TypeCategorical || t == TypeBinary || t == TypeOrdinal
}

// NumericKind refines a numeric column without changing its type
type NumericKind string

const (
	KindContinuous NumericKind = "continuous"
	KindCount      NumericKind = "count"
	KindBinary     NumericKind = "binary"
)

// ColumnProfile is the per-column statistical summary
type ColumnProfile struct {
	Name            string          `json:"name"`
	Type            ColumnType      `json:"type"`
	NonMissingCount int             `json:"non_missing_count"`
	MissingCount    int             `json:"missing_count"`
	NumericCount    int             `json:"numeric_count"`
	TextCount       int             `json:"text_count"`
	UniqueCount     int             `json:"unique_count"`
	Numeric         *NumericSummary `json:"numeric,omitempty"`
	NumericKind     NumericKind     `json:"numeric_kind,omitempty"`
	TopCategories   []CategoryCount `json:"top_categories,omitempty"`
	IDLikely        IDHeuristic     `json:"id_likely"`
}

// NumericSummary holds the numeric-only statistics
type NumericSummary struct {
	Mean     float64   `json:"mean"`
	Std      float64   `json:"std"` // sample standard deviation
	Min      float64   `json:"min"`
	Q1       float64   `json:"q1"`
	Median   float64   `json:"median"`
	Q3       float64   `json:"q3"`
	Max      float64   `json:"max"`
	Outliers []float64 `json:"outliers"` // ascending
}

// IQR returns q3 - q1
func (s *NumericSummary) IQR() float64 {
	return s.Q3 - s.Q1
}

// Fences returns the outlier fences [q1-1.5*IQR, q3+1.5*IQR]
func (s *NumericSummary) Fences() (lower, upper float64) {
	iqr := s.IQR()
	return s.Q1 - 1.5*iqr, s.Q3 + 1.5*iqr
}

// ZeroVariance reports whether every numeric value is identical
func (s *NumericSummary) ZeroVariance() bool {
	return s.Min == s.Max
}

// CategoryCount is a value and how often it appeared
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// IDHeuristic flags identifier-like columns. Advisory only.
type IDHeuristic struct {
	Likely    bool   `json:"likely"`
	Rationale string `json:"rationale,omitempty"`
}

// IsAllMissing reports whether the column had no usable value
func (p *ColumnProfile) IsAllMissing() bool {
	return p.NonMissingCount == 0
}

// MissingRatio is missing / (missing + non-missing)
func (p *ColumnProfile) MissingRatio() float64 {
	total := p.MissingCount + p.NonMissingCount
	if total == 0 {
		return 0
	}
	return float64(p.MissingCount) / float64(total)
}

// OutlierRatio is outliers / numericCount (0 for non-numeric columns)
func (p *ColumnProfile) OutlierRatio() float64 {
	if p.Numeric == nil || p.NumericCount == 0 {
		return 0
	}
	return float64(len(p.Numeric.Outliers)) / float64(p.NumericCount)
}

// ProfilingConfig defines the profiling parameters
type ProfilingConfig struct {
	TopCategories        int     `json:"top_categories" yaml:"top_categories"`                 // Cap on retained (value,count) pairs
	MaxCategoricalLevels int     `json:"max_categorical_levels" yaml:"max_categorical_levels"` // Distinct text values still treated as categorical
	CategoricalRatio     float64 `json:"categorical_ratio" yaml:"categorical_ratio"`           // Unique ratio still treated as categorical
	IDMinRows            int     `json:"id_min_rows" yaml:"id_min_rows"`                       // Rows needed before all-unique means identifier
	IDSampleSize         int     `json:"id_sample_size" yaml:"id_sample_size"`                 // Values checked against the UUID pattern
	LenientNumbers       bool    `json:"lenient_numbers" yaml:"lenient_numbers"`               // Accept "$1,200", "12%", "(5)"
}

// DefaultProfilingConfig returns sensible defaults
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		TopCategories:        10,
		MaxCategoricalLevels: 50,
		CategoricalRatio:     0.5,
		IDMinRows:            20,
		IDSampleSize:         20,
		LenientNumbers:       false,
	}
}
