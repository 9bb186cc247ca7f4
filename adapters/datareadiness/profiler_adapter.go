package datareadiness

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"stataid/adapters/datareadiness/coercer"
	"stataid/domain/core"
	"stataid/domain/datareadiness/profiling"
	"stataid/domain/dataset"
	"stataid/internal/textnorm"
)

// ProfilerAdapter implements ProfilerPort for data profiling
type ProfilerAdapter struct {
	coercer *coercer.TypeCoercer
	config  profiling.ProfilingConfig
	logger  *zap.Logger
}

// NewProfilerAdapter creates a new profiler adapter
func NewProfilerAdapter(typeCoercer *coercer.TypeCoercer, config profiling.ProfilingConfig, logger *zap.Logger) *ProfilerAdapter {
	if typeCoercer == nil {
		typeCoercer = coercer.NewTypeCoercer(coercer.CoercionConfig{Lenient: config.LenientNumbers})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfilerAdapter{coercer: typeCoercer, config: config, logger: logger}
}

// ProfileDataset profiles every column in column order
func (p *ProfilerAdapter) ProfileDataset(ctx context.Context, ds *dataset.Dataset) ([]profiling.ColumnProfile, error) {
	if ds.IsEmpty() {
		return nil, core.ErrEmptyDataset
	}

	profiles := make([]profiling.ColumnProfile, 0, ds.ColumnCount())
	for _, name := range ds.Columns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		profile, err := p.ProfileColumn(ds, name)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	p.logger.Debug("profiled dataset",
		zap.Int("rows", ds.RowCount()),
		zap.Int("columns", len(profiles)))
	return profiles, nil
}

// columnAccumulator carries everything gathered in the single classification pass
type columnAccumulator struct {
	numbers []float64
	n       float64
	mean    float64
	m2      float64

	allIntegers bool
	nonNegative bool
	zeroOne     bool
	distinctNum map[float64]struct{}

	allDates bool
	texts    []string

	freq  map[string]int
	order []string
}

// ProfileColumn computes the profile of one column in a single pass plus one sort
func (p *ProfilerAdapter) ProfileColumn(ds *dataset.Dataset, name string) (profiling.ColumnProfile, error) {
	if !ds.HasColumn(name) {
		return profiling.ColumnProfile{}, core.NewColumnNotFoundError(name)
	}

	profile := profiling.ColumnProfile{Name: name}
	acc := columnAccumulator{
		allIntegers: true,
		nonNegative: true,
		zeroOne:     true,
		distinctNum: make(map[float64]struct{}),
		allDates:    true,
		freq:        make(map[string]int),
	}

	for _, row := range ds.Rows {
		raw := row[name]
		if dataset.IsMissing(raw) {
			profile.MissingCount++
			continue
		}
		profile.NonMissingCount++

		text := dataset.Text(raw)
		if _, seen := acc.freq[text]; !seen {
			acc.order = append(acc.order, text)
		}
		acc.freq[text]++

		if x, ok := p.coercer.ParseNumber(raw); ok {
			profile.NumericCount++
			acc.numbers = append(acc.numbers, x)

			// Welford: mean and M2 in the same pass
			acc.n++
			delta := x - acc.mean
			acc.mean += delta / acc.n
			acc.m2 += delta * (x - acc.mean)

			if x != math.Trunc(x) {
				acc.allIntegers = false
			}
			if x < 0 {
				acc.nonNegative = false
			}
			if x != 0 && x != 1 {
				acc.zeroOne = false
			}
			if len(acc.distinctNum) <= 2 {
				acc.distinctNum[x] = struct{}{}
			}
			continue
		}

		profile.TextCount++
		if len(acc.texts) < p.config.IDSampleSize {
			acc.texts = append(acc.texts, text)
		}
		if acc.allDates && !p.coercer.IsDate(text) {
			acc.allDates = false
		}
	}

	profile.UniqueCount = len(acc.freq)
	profile.Type = p.assignType(&profile, &acc)

	if profile.Type.IsNumeric() {
		profile.Numeric = summarize(acc.numbers, acc.mean, acc.m2)
		profile.NumericKind = numericKind(&acc)
	} else if profile.NonMissingCount > 0 {
		profile.TopCategories = topCategories(acc.freq, acc.order, p.config.TopCategories)
	}

	profile.IDLikely = detectIdentifier(name, &profile, acc.texts, acc.allIntegers, p.config)

	return profile, nil
}

// assignType applies the type rules; numeric-only columns are always numeric
func (p *ProfilerAdapter) assignType(profile *profiling.ColumnProfile, acc *columnAccumulator) profiling.ColumnType {
	switch {
	case profile.NonMissingCount == 0:
		return profiling.TypeMixed
	case profile.NumericCount > 0 && profile.TextCount > 0:
		return profiling.TypeMixed
	case profile.TextCount == 0:
		return profiling.TypeNumeric
	}

	switch {
	case profile.UniqueCount == 2:
		return profiling.TypeBinary
	case acc.allDates:
		return profiling.TypeDate
	case profile.UniqueCount >= 3 && isOrdinalScale(acc.order):
		return profiling.TypeOrdinal
	}

	ratio := float64(profile.UniqueCount) / float64(profile.NonMissingCount)
	if profile.UniqueCount <= p.config.MaxCategoricalLevels || ratio <= p.config.CategoricalRatio {
		return profiling.TypeCategorical
	}
	return profiling.TypeText
}

func numericKind(acc *columnAccumulator) profiling.NumericKind {
	switch {
	case acc.zeroOne && len(acc.distinctNum) == 2:
		return profiling.KindBinary
	case acc.allIntegers && acc.nonNegative:
		return profiling.KindCount
	default:
		return profiling.KindContinuous
	}
}

// summarize sorts once and reads quartiles by position (nearest rank, no interpolation)
func summarize(values []float64, mean, m2 float64) *profiling.NumericSummary {
	n := len(values)
	if n == 0 {
		return nil
	}
	sort.Float64s(values)

	var median float64
	if n%2 == 0 {
		median = (values[n/2-1] + values[n/2]) / 2
	} else {
		median = values[n/2]
	}

	std := 0.0
	if n >= 2 {
		std = math.Sqrt(m2 / float64(n-1))
	}

	summary := &profiling.NumericSummary{
		Mean:     mean,
		Std:      std,
		Min:      values[0],
		Q1:       values[int(math.Floor(float64(n)*0.25))],
		Median:   median,
		Q3:       values[int(math.Floor(float64(n)*0.75))],
		Max:      values[n-1],
		Outliers: []float64{},
	}

	lower, upper := summary.Fences()
	for _, v := range values {
		if v < lower || v > upper {
			summary.Outliers = append(summary.Outliers, v)
		}
	}
	return summary
}

// topCategories keeps the most frequent values, ties by first appearance
func topCategories(freq map[string]int, order []string, limit int) []profiling.CategoryCount {
	counts := make([]profiling.CategoryCount, len(order))
	for i, v := range order {
		counts[i] = profiling.CategoryCount{Value: v, Count: freq[v]}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// Known ordinal scales, folded
var ordinalScales = [][]string{
	{"low", "medium", "high"},
	{"very low", "low", "moderate", "medium", "high", "very high"},
	{"strongly disagree", "disagree", "neutral", "neither agree nor disagree", "agree", "strongly agree"},
	{"never", "rarely", "sometimes", "often", "always"},
	{"poor", "fair", "good", "very good", "excellent"},
	{"none", "mild", "moderate", "severe"},
	{"small", "medium", "large"},
	{"xs", "s", "m", "l", "xl"},
}

// isOrdinalScale reports whether every distinct value belongs to one known scale
func isOrdinalScale(values []string) bool {
	for _, scale := range ordinalScales {
		members := make(map[string]struct{}, len(scale))
		for _, s := range scale {
			members[s] = struct{}{}
		}
		all := true
		for _, v := range values {
			if _, ok := members[textnorm.Fold(v)]; !ok {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// NumericSamples splits the numeric cells of column by the text of groupColumn.
// Rows with a missing group are dropped; an empty groupColumn yields one sample.
func (p *ProfilerAdapter) NumericSamples(ds *dataset.Dataset, column, groupColumn string) ([]string, [][]float64) {
	if groupColumn == "" {
		var sample []float64
		for _, row := range ds.Rows {
			if x, ok := p.parseCell(row[column]); ok {
				sample = append(sample, x)
			}
		}
		return []string{""}, [][]float64{sample}
	}

	index := make(map[string]int)
	var (
		groups  []string
		samples [][]float64
	)
	for _, row := range ds.Rows {
		g := row[groupColumn]
		if dataset.IsMissing(g) {
			continue
		}
		x, ok := p.parseCell(row[column])
		if !ok {
			continue
		}
		key := dataset.Text(g)
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, key)
			samples = append(samples, nil)
		}
		samples[i] = append(samples[i], x)
	}
	return groups, samples
}

func (p *ProfilerAdapter) parseCell(raw any) (float64, bool) {
	if dataset.IsMissing(raw) {
		return 0, false
	}
	return p.coercer.ParseNumber(raw)
}
