package stats

import (
	"fmt"
	"math"
)

// Confidence is the coarse reliability tier attached to recommendations and auto answers.
// Both the recommender and the resolver read tiers and p-value boundaries from here.
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceLow     Confidence = "low"
	ConfidenceUnknown Confidence = "unknown"
)

// P-value boundaries shared by every decision path
const (
	SignificanceLevel = 0.05 // p at or below: clear violation of the assumption
	MarginalLevel     = 0.10 // p in (0.05, 0.10]: borderline
)

var confidenceRank = map[Confidence]int{
	ConfidenceUnknown: 0,
	ConfidenceLow:     1,
	ConfidenceMedium:  2,
	ConfidenceHigh:    3,
}

// Rank orders tiers: unknown < low < medium < high
func (c Confidence) Rank() int {
	return confidenceRank[c]
}

// IsValid reports whether c is one of the four tiers
func (c Confidence) IsValid() bool {
	_, ok := confidenceRank[c]
	return ok
}

// Raise moves up one tier, saturating at high. Unknown stays unknown:
// nothing is learned by raising an answer nobody could make.
func (c Confidence) Raise() Confidence {
	switch c {
	case ConfidenceLow:
		return ConfidenceMedium
	case ConfidenceMedium, ConfidenceHigh:
		return ConfidenceHigh
	default:
		return c
	}
}

// Lower moves down one tier, saturating at low
func (c Confidence) Lower() Confidence {
	switch c {
	case ConfidenceHigh:
		return ConfidenceMedium
	case ConfidenceMedium, ConfidenceLow:
		return ConfidenceLow
	default:
		return c
	}
}

// Cap returns the lower of c and ceiling
func (c Confidence) Cap(ceiling Confidence) Confidence {
	if c.Rank() > ceiling.Rank() {
		return ceiling
	}
	return c
}

// MinConfidence returns the weakest tier in the list (unknown when empty)
func MinConfidence(tiers ...Confidence) Confidence {
	if len(tiers) == 0 {
		return ConfidenceUnknown
	}
	min := tiers[0]
	for _, t := range tiers[1:] {
		if t.Rank() < min.Rank() {
			min = t
		}
	}
	return min
}

// ConfidenceFromPValue maps distance from the significance boundary to a tier.
// p > 0.10 and p <= 0.05 are both high: a clear pass and a clear violation.
func ConfidenceFromPValue(p float64) Confidence {
	switch {
	case p > MarginalLevel:
		return ConfidenceHigh
	case p > SignificanceLevel:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}

// IsProbability reports whether p is a usable p-value
func IsProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

// ParseConfidence validates a tier received from outside the process
func ParseConfidence(s string) (Confidence, error) {
	c := Confidence(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid confidence %q: must be one of high, medium, low, unknown", s)
	}
	return c, nil
}
