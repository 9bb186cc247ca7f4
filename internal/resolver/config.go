package resolver

// Config holds the resolver's heuristic thresholds
type Config struct {
	// CLTThreshold is the per-group sample size at which normality of the
	// sampling distribution is assumed without a test
	CLTThreshold int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{CLTThreshold: 30}
}
