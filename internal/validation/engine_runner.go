package validation

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"stataid/domain/core"
	"stataid/domain/datareadiness/profiling"
	"stataid/domain/datareadiness/validation"
	"stataid/domain/dataset"
	"stataid/domain/stats"
)

type testKind int

const (
	normalityTest testKind = iota
	varianceTest
)

// testJob is one engine call; column indexes into the assembled result
type testJob struct {
	column  int
	kind    testKind
	method  string
	label   string
	samples [][]float64
	skip    string // non-empty: do not call the engine, report unavailable with this reason
}

// runAssumptionTests fans the engine calls out with bounded concurrency.
// Each call is isolated: an error, empty answer or panic becomes an unavailable outcome.
func (v *Validator) runAssumptionTests(ctx context.Context, ds *dataset.Dataset, profiles []profiling.ColumnProfile, groupColumn string) []validation.ColumnAssumptionTests {
	tests, jobs := v.planTests(ds, profiles, groupColumn)
	if len(jobs) == 0 {
		return tests
	}

	outcomes := make([]stats.TestOutcome, len(jobs))
	sem := semaphore.NewWeighted(int64(v.config.EngineConcurrency))
	var wg sync.WaitGroup

	for i, job := range jobs {
		if job.skip != "" {
			outcomes[i] = stats.Unavailable(job.method, job.label, job.skip)
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i] = stats.Unavailable(job.method, job.label, err.Error())
			continue
		}
		wg.Add(1)
		go func(i int, job testJob) {
			defer wg.Done()
			defer sem.Release(1)
			outcomes[i] = v.runOne(ctx, job)
		}(i, job)
	}
	wg.Wait()

	for i, job := range jobs {
		switch job.kind {
		case normalityTest:
			tests[job.column].Normality = append(tests[job.column].Normality, outcomes[i])
		case varianceTest:
			outcome := outcomes[i]
			tests[job.column].VarianceHomogeneity = &outcome
		}
	}
	return tests
}

// planTests lists, in column order, one normality job per column (per group when
// grouped) and one variance job per column across groups
func (v *Validator) planTests(ds *dataset.Dataset, profiles []profiling.ColumnProfile, groupColumn string) ([]validation.ColumnAssumptionTests, []testJob) {
	var (
		tests []validation.ColumnAssumptionTests
		jobs  []testJob
	)
	for _, p := range profiles {
		if !p.Type.IsNumeric() || p.Name == groupColumn {
			continue
		}
		col := len(tests)
		tests = append(tests, validation.ColumnAssumptionTests{Column: p.Name})

		groups, samples := v.profiler.NumericSamples(ds, p.Name, groupColumn)
		for g, sample := range samples {
			label := p.Name
			if groupColumn != "" {
				label = fmt.Sprintf("%s / %s", p.Name, groups[g])
			}
			job := testJob{
				column:  col,
				kind:    normalityTest,
				method:  v.config.NormalityMethod,
				label:   label,
				samples: [][]float64{sample},
			}
			if len(sample) < v.config.MinGroupSize {
				job.skip = fmt.Sprintf("only %d values; at least %d needed", len(sample), v.config.MinGroupSize)
			}
			jobs = append(jobs, job)
		}

		if groupColumn != "" && len(samples) >= 2 {
			jobs = append(jobs, testJob{
				column:  col,
				kind:    varianceTest,
				method:  v.config.VarianceMethod,
				label:   p.Name,
				samples: samples,
			})
		}
	}
	return tests, jobs
}

func (v *Validator) runOne(ctx context.Context, job testJob) (outcome stats.TestOutcome) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Warn("assumption test engine panicked",
				zap.String("method", job.method),
				zap.String("label", job.label),
				zap.Any("panic", r))
			outcome = stats.Unavailable(job.method, job.label, fmt.Sprintf("engine panicked: %v", r))
		}
	}()

	out, err := v.engine.Run(ctx, job.method, job.samples)
	if err != nil {
		err = core.NewTestUnavailableError(job.method, err)
		v.logger.Warn("assumption test unavailable",
			zap.String("label", job.label),
			zap.Error(err))
		return stats.Unavailable(job.method, job.label, err.Error())
	}
	if out.IsEmpty() {
		v.logger.Warn("assumption test returned nothing",
			zap.String("method", job.method),
			zap.String("label", job.label))
		return stats.Unavailable(job.method, job.label, core.ErrEmptyTestResult.Error())
	}

	statistic := 0.0
	if out.Statistic != nil {
		statistic = *out.Statistic
	}
	if out.PValue == nil && out.Passed == nil {
		return stats.Unavailable(job.method, job.label, "engine returned neither a p-value nor a verdict")
	}

	var result stats.TestOutcome
	if out.PValue != nil {
		result = stats.Result(job.method, job.label, statistic, *out.PValue)
	} else {
		result = stats.ResultWithoutPValue(job.method, job.label, statistic, *out.Passed)
	}
	if err := result.Validate(); err != nil {
		v.logger.Warn("assumption test returned an unusable result",
			zap.String("method", job.method),
			zap.String("label", job.label),
			zap.Error(err))
		return stats.Unavailable(job.method, job.label, "engine returned an unusable result: "+err.Error())
	}
	return result
}
