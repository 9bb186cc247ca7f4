// Package resolver pre-answers recurring assumption questions from validation
// output and, when available, real test results from the statistics engine.
package resolver

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"stataid/domain/assumptions"
	"stataid/domain/core"
	"stataid/domain/datareadiness/profiling"
	"stataid/domain/datareadiness/validation"
	"stataid/domain/stats"
)

// Request is one resolution pass. TestResults override what the validation
// carries; Questions defaults to the full catalog.
type Request struct {
	Validation   *validation.ValidationResult
	GroupingHint string
	TestResults  map[assumptions.QuestionID][]stats.TestOutcome
	Questions    []assumptions.QuestionID
}

// Resolver answers assumption questions. It holds no state between calls;
// a new pass supersedes the previous answers for the same questions.
type Resolver struct {
	config Config
	logger *zap.Logger
}

// New creates a resolver
func New(config Config, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.CLTThreshold <= 0 {
		config.CLTThreshold = DefaultConfig().CLTThreshold
	}
	return &Resolver{config: config, logger: logger}
}

// Resolve returns one answer per requested question, in request order
func (r *Resolver) Resolve(req Request) ([]assumptions.AutoAnswer, error) {
	vr := req.Validation
	if vr == nil {
		return nil, core.ErrNilValidation
	}
	questions, err := normalizeQuestions(req.Questions)
	if err != nil {
		return nil, err
	}
	if err := validateResults(req.TestResults); err != nil {
		return nil, err
	}
	if req.GroupingHint != "" {
		if _, ok := vr.Profile(req.GroupingHint); !ok {
			return nil, fmt.Errorf("grouping hint: %w", core.NewColumnNotFoundError(req.GroupingHint))
		}
	}
	if !vr.IsValid {
		return []assumptions.AutoAnswer{}, nil
	}

	answers := make([]assumptions.AutoAnswer, 0, len(questions))
	for _, q := range questions {
		var answer assumptions.AutoAnswer
		switch q {
		case assumptions.QuestionNormality:
			answer = r.resolveNormality(req)
		case assumptions.QuestionVarianceHomogeneity:
			answer = r.resolveVariance(req)
		case assumptions.QuestionVariableTypes:
			answer = resolveVariableTypes(vr.ColumnProfiles)
		}
		if err := answer.Validate(); err != nil {
			return nil, fmt.Errorf("resolve %s: %w", q, err)
		}
		answers = append(answers, answer)
	}

	r.logger.Debug("resolved assumption questions",
		zap.String("fingerprint", string(vr.Fingerprint)),
		zap.Int("answers", len(answers)))
	return answers, nil
}

func normalizeQuestions(questions []assumptions.QuestionID) ([]assumptions.QuestionID, error) {
	if len(questions) == 0 {
		return assumptions.Catalog, nil
	}
	seen := make(map[assumptions.QuestionID]struct{}, len(questions))
	out := make([]assumptions.QuestionID, 0, len(questions))
	for _, q := range questions {
		if !q.IsKnown() {
			return nil, fmt.Errorf("%w: unknown question %q", core.ErrMalformedInput, q)
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out, nil
}

// validateResults rejects supplied results whose p-value is not a probability
func validateResults(results map[assumptions.QuestionID][]stats.TestOutcome) error {
	for q, outcomes := range results {
		for _, o := range outcomes {
			if err := o.Validate(); err != nil {
				return fmt.Errorf("%w: test results for %s: %v", core.ErrMalformedInput, q, err)
			}
		}
	}
	return nil
}

// outcomesFor prefers explicit results and falls back to the validation's own tests
func outcomesFor(req Request, q assumptions.QuestionID) []stats.TestOutcome {
	if explicit, ok := req.TestResults[q]; ok && len(explicit) > 0 {
		return explicit
	}
	var out []stats.TestOutcome
	for _, col := range req.Validation.AssumptionTests {
		switch q {
		case assumptions.QuestionNormality:
			out = append(out, col.Normality...)
		case assumptions.QuestionVarianceHomogeneity:
			if col.VarianceHomogeneity != nil {
				out = append(out, *col.VarianceHomogeneity)
			}
		}
	}
	return out
}

func (r *Resolver) resolveNormality(req Request) assumptions.AutoAnswer {
	outcomes := outcomesFor(req, assumptions.QuestionNormality)
	if answer, ok := fromOutcomes(assumptions.QuestionNormality, outcomes); ok {
		return answer
	}
	answer := r.cltHeuristic(req)
	answer.Evidence = append(answer.Evidence, unavailableEvidence(outcomes)...)
	return answer
}

func (r *Resolver) resolveVariance(req Request) assumptions.AutoAnswer {
	outcomes := outcomesFor(req, assumptions.QuestionVarianceHomogeneity)
	if answer, ok := fromOutcomes(assumptions.QuestionVarianceHomogeneity, outcomes); ok {
		return answer
	}
	evidence := []string{"no variance homogeneity test result; column profiles alone cannot establish equal variances"}
	return assumptions.AutoAnswer{
		QuestionID:           assumptions.QuestionVarianceHomogeneity,
		Value:                assumptions.ValueCheck,
		Confidence:           stats.ConfidenceUnknown,
		Evidence:             append(evidence, unavailableEvidence(outcomes)...),
		Source:               assumptions.SourceHeuristic,
		RequiresConfirmation: true,
	}
}

// fromOutcomes combines result outcomes conjunctively. ok is false when there are none.
func fromOutcomes(q assumptions.QuestionID, outcomes []stats.TestOutcome) (assumptions.AutoAnswer, bool) {
	var (
		results  []stats.TestOutcome
		evidence []string
		failed   []string
		tiers    []stats.Confidence
		noPValue bool
	)
	for _, o := range outcomes {
		if !o.IsResult() || o.Validate() != nil {
			continue
		}
		results = append(results, o)
		evidence = append(evidence, o.String())
		tiers = append(tiers, o.Confidence())
		if !o.HasPValue() {
			noPValue = true
		}
		if !o.Holds() {
			failed = append(failed, o.Label)
		}
	}
	if len(results) == 0 {
		return assumptions.AutoAnswer{}, false
	}

	value := assumptions.ValueYes
	switch {
	case len(failed) > 1 && len(failed) == len(results):
		value = assumptions.ValueNo
		evidence = append(evidence, fmt.Sprintf("assumption violated in all groups: %s", strings.Join(failed, ", ")))
	case len(failed) > 0 && len(results) > 1:
		value = assumptions.ValueNo
		evidence = append(evidence, fmt.Sprintf("assumption violated in some groups: %s", strings.Join(failed, ", ")))
	case len(failed) > 0:
		value = assumptions.ValueNo
		evidence = append(evidence, "assumption violated")
	case len(results) > 1:
		evidence = append(evidence, fmt.Sprintf("assumption holds in all groups (%d tests)", len(results)))
	default:
		evidence = append(evidence, "assumption holds")
	}

	answer := assumptions.AutoAnswer{
		QuestionID: q,
		Value:      value,
		Confidence: stats.MinConfidence(tiers...),
		Evidence:   evidence,
		Source:     assumptions.SourceTestResult,
	}
	if noPValue {
		answer.Confidence = stats.ConfidenceLow
		answer.Source = assumptions.SourceHeuristic
		answer.RequiresConfirmation = true
		answer.Evidence = append(answer.Evidence, "a test result has no p-value; please confirm")
	}
	return answer, true
}

// cltHeuristic estimates the per-group sample size and leans on the central limit theorem
func (r *Resolver) cltHeuristic(req Request) assumptions.AutoAnswer {
	vr := req.Validation
	groupColumn, groups := groupCount(vr.ColumnProfiles, req.GroupingHint)
	perGroup := vr.TotalRows / groups

	answer := assumptions.AutoAnswer{
		QuestionID: assumptions.QuestionNormality,
		Source:     assumptions.SourceHeuristic,
	}
	if groupColumn == "" {
		answer.Evidence = []string{fmt.Sprintf("estimated sample size: %d rows, no grouping", vr.TotalRows)}
	} else {
		answer.Evidence = []string{fmt.Sprintf("estimated %d observations per group (%d rows / %d groups of %q)",
			perGroup, vr.TotalRows, groups, groupColumn)}
	}

	if perGroup >= r.config.CLTThreshold {
		answer.Value = assumptions.ValueYes
		answer.Confidence = stats.ConfidenceMedium
		if groupColumn != "" {
			answer.Confidence = stats.ConfidenceLow
		}
		answer.Evidence = append(answer.Evidence, fmt.Sprintf(
			"central limit theorem: with at least %d observations per group the sampling distribution of the mean is approximately normal",
			r.config.CLTThreshold))
		return answer
	}

	answer.Value = assumptions.ValueCheck
	answer.Confidence = stats.ConfidenceUnknown
	answer.RequiresConfirmation = true
	answer.Evidence = append(answer.Evidence, fmt.Sprintf(
		"fewer than %d observations per group; normality cannot be assumed without a test", r.config.CLTThreshold))
	return answer
}

// groupCount returns the grouping column used and its number of categories (1 when ungrouped)
func groupCount(profiles []profiling.ColumnProfile, hint string) (string, int) {
	for _, p := range profiles {
		if hint != "" && p.Name != hint {
			continue
		}
		if hint == "" && !p.Type.IsGrouping() {
			continue
		}
		if p.UniqueCount < 1 {
			return p.Name, 1
		}
		return p.Name, p.UniqueCount
	}
	return "", 1
}

func unavailableEvidence(outcomes []stats.TestOutcome) []string {
	var evidence []string
	for _, o := range outcomes {
		if o.Kind == stats.OutcomeUnavailable {
			evidence = append(evidence, o.String())
		}
	}
	return evidence
}

func resolveVariableTypes(profiles []profiling.ColumnProfile) assumptions.AutoAnswer {
	numeric := 0
	var others []string
	for _, p := range profiles {
		if p.Type.IsNumeric() {
			numeric++
			continue
		}
		others = append(others, fmt.Sprintf("%s (%s)", p.Name, p.Type))
	}

	value := assumptions.ValueNumeric
	evidence := []string{fmt.Sprintf("%d of %d columns are numeric", numeric, len(profiles))}
	if len(others) > 0 || len(profiles) == 0 {
		value = assumptions.ValueMixed
		if len(others) > 0 {
			evidence = append(evidence, "non-numeric: "+strings.Join(others, ", "))
		}
	}
	return assumptions.AutoAnswer{
		QuestionID: assumptions.QuestionVariableTypes,
		Value:      value,
		Confidence: stats.ConfidenceHigh,
		Evidence:   evidence,
		Source:     assumptions.SourceProfile,
	}
}
