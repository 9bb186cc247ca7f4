package stats

import (
	"fmt"
	"math"
)

// OutcomeKind tags a TestOutcome
type OutcomeKind string

const (
	// OutcomeNotRun means no test was requested for this question
	OutcomeNotRun OutcomeKind = "not_run"
	// OutcomeUnavailable means the engine was asked and failed, threw, or answered empty
	OutcomeUnavailable OutcomeKind = "unavailable"
	// OutcomeResult means the engine returned a usable statistic
	OutcomeResult OutcomeKind = "result"
)

// TestOutcome is what the external engine produced for one assumption test.
// Only the fields of the active kind are meaningful.
type TestOutcome struct {
	Kind      OutcomeKind `json:"kind"`
	Method    string      `json:"method,omitempty"`
	Label     string      `json:"label,omitempty"` // column or "column / group"
	Statistic float64     `json:"statistic,omitempty"`
	PValue    *float64    `json:"p_value,omitempty"`
	Verdict   bool        `json:"verdict,omitempty"` // true when the assumption holds
	Reason    string      `json:"reason,omitempty"`  // unavailable only
}

// NotRun builds an outcome for a test nobody requested
func NotRun(label string) TestOutcome {
	return TestOutcome{Kind: OutcomeNotRun, Label: label}
}

// Unavailable builds an outcome for a failed engine call
func Unavailable(method, label, reason string) TestOutcome {
	return TestOutcome{Kind: OutcomeUnavailable, Method: method, Label: label, Reason: reason}
}

// Result builds an outcome from a statistic and p-value.
// The verdict is "assumption holds" when p exceeds the significance level.
func Result(method, label string, statistic, pValue float64) TestOutcome {
	p := pValue
	return TestOutcome{
		Kind:      OutcomeResult,
		Method:    method,
		Label:     label,
		Statistic: statistic,
		PValue:    &p,
		Verdict:   pValue > SignificanceLevel,
	}
}

// ResultWithoutPValue builds an outcome where the engine gave a verdict but no p-value
func ResultWithoutPValue(method, label string, statistic float64, verdict bool) TestOutcome {
	return TestOutcome{Kind: OutcomeResult, Method: method, Label: label, Statistic: statistic, Verdict: verdict}
}

// IsResult reports whether the outcome carries a usable verdict
func (o TestOutcome) IsResult() bool {
	return o.Kind == OutcomeResult
}

// HasPValue reports whether the verdict is backed by a p-value
func (o TestOutcome) HasPValue() bool {
	return o.Kind == OutcomeResult && o.PValue != nil
}

// Holds reports whether the assumption holds. A p-value decides when present,
// so decoded outcomes need not carry a verdict.
func (o TestOutcome) Holds() bool {
	if o.HasPValue() {
		return *o.PValue > SignificanceLevel
	}
	return o.Kind == OutcomeResult && o.Verdict
}

// Confidence returns the tier implied by the p-value (low when the p-value is missing)
func (o TestOutcome) Confidence() Confidence {
	if !o.HasPValue() {
		return ConfidenceLow
	}
	return ConfidenceFromPValue(*o.PValue)
}

// Validate rejects results no decision can rest on: a non-finite statistic,
// or a p-value that is not a probability
func (o TestOutcome) Validate() error {
	if o.Kind != OutcomeResult {
		return nil
	}
	if math.IsNaN(o.Statistic) || math.IsInf(o.Statistic, 0) {
		return fmt.Errorf("%s on %s: statistic %v is not finite", o.Method, o.Label, o.Statistic)
	}
	if o.PValue != nil && !IsProbability(*o.PValue) {
		return fmt.Errorf("%s on %s: p-value %v is outside [0, 1]", o.Method, o.Label, *o.PValue)
	}
	return nil
}

// String renders the outcome for evidence text
func (o TestOutcome) String() string {
	switch o.Kind {
	case OutcomeResult:
		if o.PValue == nil {
			return fmt.Sprintf("%s on %s: statistic %.4g, no p-value", o.Method, o.Label, o.Statistic)
		}
		return fmt.Sprintf("%s on %s: statistic %.4g, p = %.4f", o.Method, o.Label, o.Statistic, *o.PValue)
	case OutcomeUnavailable:
		return fmt.Sprintf("%s on %s unavailable: %s", o.Method, o.Label, o.Reason)
	default:
		return fmt.Sprintf("no test run on %s", o.Label)
	}
}
