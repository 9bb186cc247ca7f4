package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"stataid/ports"
)

// Methods understood by the local engine
const (
	MethodJarqueBera    = "jarque_bera"
	MethodLevene        = "levene"
	MethodBrownForsythe = "brown_forsythe"
)

// LocalEngine runs assumption tests in-process
type LocalEngine struct{}

// NewLocalEngine creates a local engine
func NewLocalEngine() *LocalEngine {
	return &LocalEngine{}
}

// Ready implements ports.AssumptionTestEngine; the local engine is always ready
func (e *LocalEngine) Ready() bool {
	return true
}

// Run implements ports.AssumptionTestEngine
func (e *LocalEngine) Run(ctx context.Context, method string, samples [][]float64) (*ports.EngineOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		statistic, p float64
		err          error
	)
	switch method {
	case MethodJarqueBera:
		if len(samples) != 1 {
			return nil, fmt.Errorf("%s takes one sample, got %d", method, len(samples))
		}
		statistic, p, err = jarqueBera(samples[0])
	case MethodLevene:
		statistic, p, err = levene(samples, mean)
	case MethodBrownForsythe:
		statistic, p, err = levene(samples, median)
	default:
		return nil, fmt.Errorf("local engine does not implement %q", method)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return &ports.EngineOutput{Statistic: &statistic, PValue: &p}, nil
}

// jarqueBera tests normality from sample skewness and excess kurtosis.
// JB = n/6 * (S^2 + K^2/4) is asymptotically chi-squared with 2 degrees of freedom.
func jarqueBera(x []float64) (float64, float64, error) {
	n := len(x)
	if n < 4 {
		return 0, 0, fmt.Errorf("need at least 4 values, got %d", n)
	}
	if stat.Variance(x, nil) == 0 {
		return 0, 0, fmt.Errorf("sample has zero variance")
	}
	s := stat.Skew(x, nil)
	k := stat.ExKurtosis(x, nil)
	jb := float64(n) / 6 * (s*s + k*k/4)
	p := distuv.ChiSquared{K: 2}.Survival(jb)
	return jb, p, nil
}

// levene tests equality of variances on absolute deviations from each group's centre.
// Centring on the mean is Levene's test; on the median, Brown-Forsythe.
func levene(groups [][]float64, centre func([]float64) float64) (float64, float64, error) {
	k := len(groups)
	if k < 2 {
		return 0, 0, fmt.Errorf("need at least 2 groups, got %d", k)
	}

	deviations := make([][]float64, k)
	groupMeans := make([]float64, k)
	total, sum := 0, 0.0
	for i, g := range groups {
		if len(g) < 2 {
			return 0, 0, fmt.Errorf("group %d has %d values; need at least 2", i, len(g))
		}
		c := centre(g)
		z := make([]float64, len(g))
		for j, v := range g {
			z[j] = math.Abs(v - c)
			sum += z[j]
		}
		deviations[i] = z
		groupMeans[i] = mean(z)
		total += len(g)
	}
	grand := sum / float64(total)

	between, within := 0.0, 0.0
	for i, z := range deviations {
		d := groupMeans[i] - grand
		between += float64(len(z)) * d * d
		for _, v := range z {
			w := v - groupMeans[i]
			within += w * w
		}
	}
	if within == 0 {
		return 0, 0, fmt.Errorf("no spread within groups")
	}

	d1, d2 := float64(k-1), float64(total-k)
	w := d2 / d1 * between / within
	p := 1 - distuv.F{D1: d1, D2: d2}.CDF(w)
	return w, p, nil
}

func mean(x []float64) float64 {
	return stat.Mean(x, nil)
}

// median copies before sorting; groups are never empty here
func median(x []float64) float64 {
	m, _ := stats.Median(x)
	return m
}
