package validation

// Config holds dataset limits, warning thresholds and engine settings
type Config struct {
	MaxRows               int
	MaxColumns            int
	LargeDatasetThreshold int // above this the profiles come from a sample
	MaxSampleRows         int
	MinRows               int
	MissingRatioThreshold float64
	OutlierRatioThreshold float64
	CountDuplicates       bool

	NormalityMethod   string
	VarianceMethod    string
	EngineConcurrency int
	MinGroupSize      int // groups smaller than this are not sent to the engine
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		MaxRows:               1_000_000,
		MaxColumns:            500,
		LargeDatasetThreshold: 50_000,
		MaxSampleRows:         10_000,
		MinRows:               3,
		MissingRatioThreshold: 0.5,
		OutlierRatioThreshold: 0.05,
		CountDuplicates:       true,
		NormalityMethod:       "jarque_bera",
		VarianceMethod:        "levene",
		EngineConcurrency:     4,
		MinGroupSize:          4,
	}
}
