package recommender

// Config holds recommendation guards and caps
type Config struct {
	MaxRecommendations   int
	SmallSampleThreshold int // fewer rows than this: no inferential candidates
	MaxGroupLevels       int // grouping columns with more levels: no group comparisons
	MinRows              int // fewer rows than this: no recommendations at all
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		MaxRecommendations:   5,
		SmallSampleThreshold: 4,
		MaxGroupLevels:       10,
		MinRows:              3,
	}
}
