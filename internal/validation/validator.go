package validation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stataid/domain/core"
	"stataid/domain/datareadiness/profiling"
	"stataid/domain/datareadiness/validation"
	"stataid/domain/dataset"
	"stataid/internal/errors"
	"stataid/ports"
)

// Options are per-request validation settings
type Options struct {
	// GroupColumn splits numeric columns for per-group normality and variance tests
	GroupColumn string
}

// Validator wraps the profiler with dataset limits, quality warnings, sampling
// and optional assumption tests
type Validator struct {
	profiler ports.ProfilerPort
	engine   ports.AssumptionTestEngine
	config   Config
	logger   *zap.Logger
}

// NewValidator creates a validator. engine may be nil.
func NewValidator(profiler ports.ProfilerPort, engine ports.AssumptionTestEngine, config Config, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.EngineConcurrency <= 0 {
		config.EngineConcurrency = 1
	}
	return &Validator{
		profiler: profiler,
		engine:   engine,
		config:   config,
		logger:   logger,
	}
}

// Validate checks ds against the limits and profiles it.
// Blocking problems are reported as error issues; Go errors are returned only for malformed input.
func (v *Validator) Validate(ctx context.Context, ds *dataset.Dataset, opts Options) (*validation.ValidationResult, error) {
	if ds.IsEmpty() {
		return nil, core.ErrEmptyDataset
	}
	if opts.GroupColumn != "" && !ds.HasColumn(opts.GroupColumn) {
		return nil, core.NewColumnNotFoundError(opts.GroupColumn)
	}

	result := &validation.ValidationResult{
		ID:              core.NewID(),
		IsValid:         true,
		TotalRows:       ds.RowCount(),
		ColumnCount:     ds.ColumnCount(),
		DataTypeSummary: map[profiling.ColumnType]int{},
		Errors:          []validation.Issue{},
		Warnings:        []validation.Issue{},
		ColumnProfiles:  []profiling.ColumnProfile{},
		GroupColumn:     opts.GroupColumn,
		CreatedAt:       core.Now(),
	}

	if issue, exceeded := v.checkHardLimits(result.TotalRows, result.ColumnCount); exceeded {
		result.AddIssue(issue)
		v.logger.Info("dataset rejected by hard limits",
			zap.Int("rows", result.TotalRows),
			zap.Int("columns", result.ColumnCount))
		return result, nil
	}
	result.Fingerprint = ds.Fingerprint()

	if result.TotalRows < v.config.MinRows {
		result.AddIssue(validation.Issue{
			Code:     validation.CodeInsufficientData,
			Severity: validation.SeverityError,
			Message: fmt.Sprintf("dataset has %d rows; at least %d are needed to measure dispersion",
				result.TotalRows, v.config.MinRows),
		})
	}

	profiled := ds
	if result.TotalRows > v.config.LargeDatasetThreshold {
		profiled = ds.Subset(SystematicSample(result.TotalRows, v.config.MaxSampleRows))
		result.Sampled = true
		result.AddIssue(validation.Issue{
			Code:     validation.CodeLargeDatasetSampled,
			Severity: validation.SeverityWarning,
			Message: fmt.Sprintf("dataset has %d rows; profiles were computed from a systematic sample of %d rows",
				result.TotalRows, profiled.RowCount()),
		})
	}
	result.ProfiledRows = profiled.RowCount()

	profiles, err := v.profiler.ProfileDataset(ctx, profiled)
	if err != nil {
		return nil, errors.Wrap(err, "failed to profile dataset")
	}
	result.ColumnProfiles = profiles
	result.DataTypeSummary = validation.SummarizeTypes(profiles)

	for i := range profiles {
		result.MissingValues += profiles[i].MissingCount
		for _, issue := range v.columnWarnings(&profiles[i]) {
			result.AddIssue(issue)
		}
	}

	if v.config.CountDuplicates {
		dups := profiled.DuplicateRows()
		result.DuplicateRows = &dups
	}

	if result.IsValid && v.engineAvailable() {
		result.AssumptionTests = v.runAssumptionTests(ctx, profiled, profiles, opts.GroupColumn)
	}

	v.logger.Debug("validated dataset",
		zap.String("fingerprint", core.Hash(result.Fingerprint).Short()),
		zap.Bool("valid", result.IsValid),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Bool("sampled", result.Sampled))

	return result, nil
}

// checkHardLimits yields a single issue even when both limits are exceeded
func (v *Validator) checkHardLimits(rows, columns int) (validation.Issue, bool) {
	var msg string
	switch {
	case rows > v.config.MaxRows && columns > v.config.MaxColumns:
		msg = fmt.Sprintf("dataset has %d rows and %d columns; limits are %d rows and %d columns",
			rows, columns, v.config.MaxRows, v.config.MaxColumns)
	case rows > v.config.MaxRows:
		msg = fmt.Sprintf("dataset has %d rows; the limit is %d", rows, v.config.MaxRows)
	case columns > v.config.MaxColumns:
		msg = fmt.Sprintf("dataset has %d columns; the limit is %d", columns, v.config.MaxColumns)
	default:
		return validation.Issue{}, false
	}
	return validation.Issue{
		Code:     validation.CodeHardLimitExceeded,
		Severity: validation.SeverityError,
		Message:  msg,
	}, true
}

func (v *Validator) columnWarnings(p *profiling.ColumnProfile) []validation.Issue {
	if p.IsAllMissing() {
		return []validation.Issue{{
			Code:     validation.CodeAllMissingColumn,
			Severity: validation.SeverityWarning,
			Column:   p.Name,
			Message:  fmt.Sprintf("column %q has no values", p.Name),
		}}
	}

	var issues []validation.Issue
	if ratio := p.MissingRatio(); ratio > v.config.MissingRatioThreshold {
		issues = append(issues, validation.Issue{
			Code:     validation.CodeHighMissingRatio,
			Severity: validation.SeverityWarning,
			Column:   p.Name,
			Message:  fmt.Sprintf("column %q is %.0f%% missing", p.Name, ratio*100),
		})
	}
	if p.NumericCount > 0 && p.TextCount > 0 {
		issues = append(issues, validation.Issue{
			Code:     validation.CodeMixedTypes,
			Severity: validation.SeverityWarning,
			Column:   p.Name,
			Message:  fmt.Sprintf("column %q mixes %d numeric and %d text values", p.Name, p.NumericCount, p.TextCount),
		})
	}
	if p.Numeric != nil && p.NumericCount > 0 && p.OutlierRatio() >= v.config.OutlierRatioThreshold {
		issues = append(issues, validation.Issue{
			Code:     validation.CodeHighOutlierRatio,
			Severity: validation.SeverityWarning,
			Column:   p.Name,
			Message: fmt.Sprintf("column %q has %d outliers out of %d numeric values",
				p.Name, len(p.Numeric.Outliers), p.NumericCount),
		})
	}
	return issues
}

func (v *Validator) engineAvailable() bool {
	if v.engine == nil {
		return false
	}
	if !v.engine.Ready() {
		v.logger.Info("assumption test engine not ready; skipping tests")
		return false
	}
	return true
}
