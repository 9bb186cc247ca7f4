package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stataid/domain/assumptions"
	"stataid/domain/core"
	"stataid/domain/dataset"
	"stataid/domain/datareadiness/validation"
	"stataid/domain/recommendation"
	"stataid/domain/stats"
	"stataid/internal/errors"
	"stataid/internal/recommender"
	"stataid/internal/resolver"
	validator "stataid/internal/validation"
	"stataid/ports"
)

// Analysis is everything one pass produces for a dataset
type Analysis struct {
	Validation      *validation.ValidationResult    `json:"validation" yaml:"validation"`
	Recommendations []recommendation.Recommendation `json:"recommendations" yaml:"recommendations"`
	Answers         []assumptions.AutoAnswer        `json:"answers" yaml:"answers"`
}

// AnalyzeRequest drives a full pass. Dataset is required unless ValidationID
// points at a stored run (re-resolution with fresh test results).
type AnalyzeRequest struct {
	Dataset      *dataset.Dataset
	ValidationID core.ID
	GroupColumn  string // sent to the engine for grouped tests
	GroupingHint string // overrides automatic group detection in the resolver
	Intent       string
	TestResults  map[assumptions.QuestionID][]stats.TestOutcome
	Questions    []assumptions.QuestionID
}

// AdvisorService wires validation, recommendation and resolution together
// and keeps the latest answers per dataset when a repository is configured.
type AdvisorService struct {
	validator   *validator.Validator
	recommender *recommender.Recommender
	resolver    *resolver.Resolver
	repo        ports.AnalysisRepository
	logger      *zap.Logger
}

// NewAdvisorService creates the service; repo may be nil
func NewAdvisorService(
	v *validator.Validator,
	rec *recommender.Recommender,
	res *resolver.Resolver,
	repo ports.AnalysisRepository,
	logger *zap.Logger,
) *AdvisorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvisorService{validator: v, recommender: rec, resolver: res, repo: repo, logger: logger}
}

// Validate profiles and checks a dataset, storing the run when possible
func (s *AdvisorService) Validate(ctx context.Context, ds *dataset.Dataset, groupColumn string) (*validation.ValidationResult, error) {
	result, err := s.validator.Validate(ctx, ds, validator.Options{GroupColumn: groupColumn})
	if err != nil {
		return nil, err
	}
	if s.repo != nil {
		if err := s.repo.SaveValidation(ctx, result); err != nil {
			// The result is still useful without persistence
			s.logger.Warn("failed to store validation", zap.String("id", string(result.ID)), zap.Error(err))
		}
	}
	return result, nil
}

// Recommend validates a dataset and ranks candidate methods for it
func (s *AdvisorService) Recommend(ctx context.Context, req AnalyzeRequest) (*Analysis, error) {
	result, err := s.validation(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Analysis{
		Validation:      result,
		Recommendations: s.recommender.RecommendForValidation(result, req.Intent),
	}, nil
}

// Resolve answers assumption questions and replaces the stored answers
func (s *AdvisorService) Resolve(ctx context.Context, req AnalyzeRequest) (*Analysis, error) {
	result, err := s.validation(ctx, req)
	if err != nil {
		return nil, err
	}
	answers, err := s.resolve(ctx, result, req)
	if err != nil {
		return nil, err
	}
	return &Analysis{Validation: result, Answers: answers}, nil
}

// Analyze runs validation, recommendation and resolution in one pass
func (s *AdvisorService) Analyze(ctx context.Context, req AnalyzeRequest) (*Analysis, error) {
	result, err := s.validation(ctx, req)
	if err != nil {
		return nil, err
	}
	answers, err := s.resolve(ctx, result, req)
	if err != nil {
		return nil, err
	}
	analysis := &Analysis{
		Validation:      result,
		Recommendations: s.recommender.RecommendForValidation(result, req.Intent),
		Answers:         answers,
	}
	s.logger.Info("analysis complete",
		zap.String("fingerprint", string(result.Fingerprint)),
		zap.Bool("valid", result.IsValid),
		zap.Int("recommendations", len(analysis.Recommendations)),
		zap.Int("answers", len(analysis.Answers)))
	return analysis, nil
}

// Answers lists the stored answers for a dataset fingerprint
func (s *AdvisorService) Answers(ctx context.Context, fingerprint core.DatasetFingerprint) ([]assumptions.AutoAnswer, error) {
	if s.repo == nil {
		return nil, errors.New(errors.CodeConfigInvalid, "no analysis repository configured")
	}
	return s.repo.ListAnswers(ctx, fingerprint)
}

// validation returns a fresh or stored validation result for the request
func (s *AdvisorService) validation(ctx context.Context, req AnalyzeRequest) (*validation.ValidationResult, error) {
	if req.Dataset != nil {
		return s.Validate(ctx, req.Dataset, req.GroupColumn)
	}
	if req.ValidationID.IsEmpty() {
		return nil, fmt.Errorf("%w: a dataset or a validation id is required", core.ErrMalformedInput)
	}
	if s.repo == nil {
		return nil, errors.New(errors.CodeConfigInvalid, "no analysis repository configured")
	}
	return s.repo.GetValidation(ctx, req.ValidationID)
}

func (s *AdvisorService) resolve(ctx context.Context, result *validation.ValidationResult, req AnalyzeRequest) ([]assumptions.AutoAnswer, error) {
	answers, err := s.resolver.Resolve(resolver.Request{
		Validation:   result,
		GroupingHint: req.GroupingHint,
		TestResults:  req.TestResults,
		Questions:    req.Questions,
	})
	if err != nil {
		return nil, err
	}
	if s.repo != nil && len(answers) > 0 {
		if err := s.repo.ReplaceAnswers(ctx, result.Fingerprint, answers); err != nil {
			return nil, errors.Wrap(err, "failed to store answers")
		}
	}
	return answers, nil
}
