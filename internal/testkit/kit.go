package testkit

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"stataid/domain/dataset"
	"stataid/ports"
)

// NormalSample draws n values from N(mu, sigma) with a fixed seed
func NormalSample(n int, mu, sigma float64, seed uint64) []float64 {
	dist := distuv.Normal{Mu: mu, Sigma: sigma, Src: rand.NewPCG(seed, seed+1)}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// GroupedDataset builds rows {group, value} with perGroup normal draws for each group.
// Group k is centred on 10*(k+1).
func GroupedDataset(groups []string, perGroup int, seed uint64) *dataset.Dataset {
	rows := make([]dataset.Row, 0, len(groups)*perGroup)
	for k, g := range groups {
		for _, v := range NormalSample(perGroup, float64(10*(k+1)), 2, seed+uint64(k)) {
			rows = append(rows, dataset.Row{"group": g, "value": v})
		}
	}
	return dataset.New([]string{"group", "value"}, rows)
}

// NumericDataset builds n rows with one normal column per name
func NumericDataset(n int, seed uint64, names ...string) *dataset.Dataset {
	rows := make([]dataset.Row, n)
	for i := range rows {
		rows[i] = dataset.Row{}
	}
	for c, name := range names {
		for i, v := range NormalSample(n, 50, 10, seed+uint64(c)) {
			rows[i][name] = v
		}
	}
	return dataset.New(names, rows)
}

// ScriptedResponse is what the scripted engine answers for one method
type ScriptedResponse struct {
	Output *ports.EngineOutput
	Err    error
	Panic  any
}

// ScriptedEngine is an AssumptionTestEngine answering from a per-method script.
// Labels are not visible to the engine, so an OnCall hook can vary answers by call.
type ScriptedEngine struct {
	NotReady  bool
	Responses map[string]ScriptedResponse
	OnCall    func(method string, samples [][]float64) *ScriptedResponse

	mu    sync.Mutex
	calls []string
}

// Ready implements ports.AssumptionTestEngine
func (e *ScriptedEngine) Ready() bool {
	return !e.NotReady
}

// Run implements ports.AssumptionTestEngine
func (e *ScriptedEngine) Run(ctx context.Context, method string, samples [][]float64) (*ports.EngineOutput, error) {
	e.mu.Lock()
	e.calls = append(e.calls, method)
	e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, ok := e.Responses[method]
	if e.OnCall != nil {
		if r := e.OnCall(method, samples); r != nil {
			resp, ok = *r, true
		}
	}
	if !ok {
		return nil, fmt.Errorf("no scripted response for %s", method)
	}
	if resp.Panic != nil {
		panic(resp.Panic)
	}
	return resp.Output, resp.Err
}

// Calls returns the methods invoked so far
func (e *ScriptedEngine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// PValue builds an engine output with a statistic and p-value
func PValue(statistic, p float64) *ports.EngineOutput {
	return &ports.EngineOutput{Statistic: &statistic, PValue: &p}
}
