package ports

import "context"

// EngineOutput is what the external statistics engine returns for one test.
// Passed is the engine's own verdict, used when it reports no p-value.
type EngineOutput struct {
	Statistic *float64 `json:"statistic"`
	PValue    *float64 `json:"pValue"`
	Passed    *bool    `json:"passed,omitempty"`
}

// IsEmpty reports an answer that carries nothing usable
func (o *EngineOutput) IsEmpty() bool {
	return o == nil || (o.Statistic == nil && o.PValue == nil && o.Passed == nil)
}

// AssumptionTestEngine runs a named assumption test on numeric samples.
// One sample for normality, one per group for variance homogeneity.
// Ready returns false while the engine is still initialising; callers skip it then.
type AssumptionTestEngine interface {
	Ready() bool
	Run(ctx context.Context, method string, samples [][]float64) (*EngineOutput, error)
}
