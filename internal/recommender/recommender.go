package recommender

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"stataid/domain/datareadiness/profiling"
	"stataid/domain/datareadiness/validation"
	"stataid/domain/recommendation"
	"stataid/domain/stats"
)

// Input is what the recommender looks at
type Input struct {
	Profiles  []profiling.ColumnProfile
	TotalRows int
	Intent    string // optional free-text research question
}

// Recommender turns column profiles into ranked method recommendations.
// It is a pure function of its input; no external calls are made.
type Recommender struct {
	config Config
	logger *zap.Logger
}

// New creates a recommender
func New(config Config, logger *zap.Logger) *Recommender {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxRecommendations <= 0 {
		config.MaxRecommendations = DefaultConfig().MaxRecommendations
	}
	return &Recommender{config: config, logger: logger}
}

// RecommendForValidation recommends from a validation result; invalid results get nothing
func (r *Recommender) RecommendForValidation(vr *validation.ValidationResult, intent string) []recommendation.Recommendation {
	if vr == nil || !vr.IsValid {
		return []recommendation.Recommendation{}
	}
	return r.Recommend(Input{Profiles: vr.ColumnProfiles, TotalRows: vr.TotalRows, Intent: intent})
}

// Recommend returns deduplicated recommendations, highest confidence first
func (r *Recommender) Recommend(in Input) []recommendation.Recommendation {
	if in.TotalRows < r.config.MinRows {
		return []recommendation.Recommendation{}
	}
	sets := classify(in.Profiles)
	if !sets.usable() {
		return []recommendation.Recommendation{}
	}

	matches := detectShapes(sets)
	props := propose(matches)

	guarded := false
	input := guardInput{totalRows: in.TotalRows, sets: sets, config: r.config}
	for _, g := range guards {
		var fired bool
		props, fired = g.apply(input, props)
		if fired {
			guarded = true
			r.logger.Debug("recommendation guard fired", zap.String("guard", g.name))
		}
	}

	for i := range props {
		props[i].confidence = baseConfidence(props[i].candidate)
	}

	if families := primaryFamilies(props); len(families) > 1 {
		note := fmt.Sprintf("several method families fit this data (%s)", strings.Join(families, ", "))
		for i := range props {
			props[i].confidence = props[i].confidence.Cap(stats.ConfidenceMedium)
			props[i].notes = append(props[i].notes, note)
		}
	}

	for family, keyword := range matchIntent(in.Intent) {
		for i := range props {
			if props[i].family == family {
				props[i].confidence = props[i].confidence.Raise()
				props[i].notes = append(props[i].notes, fmt.Sprintf("research intent mentions %q", strings.TrimSpace(keyword)))
			}
		}
	}

	if guarded {
		for i := range props {
			props[i].confidence = props[i].confidence.Cap(stats.ConfidenceMedium)
		}
	}

	sort.SliceStable(props, func(i, j int) bool {
		return props[i].confidence.Rank() > props[j].confidence.Rank()
	})
	if len(props) > r.config.MaxRecommendations {
		props = props[:r.config.MaxRecommendations]
	}

	out := make([]recommendation.Recommendation, len(props))
	for i, p := range props {
		out[i] = p.toRecommendation()
	}

	r.logger.Debug("recommended methods",
		zap.Int("shapes", len(matches)),
		zap.Int("recommendations", len(out)))
	return out
}

// propose expands shapes into proposals, first occurrence of a method wins
func propose(matches []match) []proposal {
	seen := make(map[string]struct{})
	var props []proposal
	for _, m := range matches {
		for _, c := range shapeTable[m.shape] {
			if _, dup := seen[c.methodID]; dup {
				continue
			}
			seen[c.methodID] = struct{}{}
			props = append(props, proposal{
				candidate:   c,
				columns:     columnsFor(c, m),
				groupLevels: m.groupLevels,
			})
		}
	}
	return props
}

// columnsFor narrows a match's columns to what the candidate needs
func columnsFor(c candidate, m match) []string {
	if c.methodID == descriptiveByGroup.methodID && len(m.columns) > 2 {
		return m.columns[:2]
	}
	return append([]string(nil), m.columns...)
}

func baseConfidence(c candidate) stats.Confidence {
	switch c.role {
	case rolePrimary:
		return stats.ConfidenceHigh
	case roleAlternative, roleDescriptive:
		return stats.ConfidenceMedium
	default:
		return stats.ConfidenceLow
	}
}

// primaryFamilies lists the distinct families of the remaining primary candidates
func primaryFamilies(props []proposal) []string {
	seen := make(map[recommendation.Family]struct{})
	var families []string
	for _, p := range props {
		if p.role != rolePrimary || isDescriptive(p.candidate) {
			continue
		}
		if _, ok := seen[p.family]; !ok {
			seen[p.family] = struct{}{}
			families = append(families, string(p.family))
		}
	}
	return families
}

func (p proposal) toRecommendation() recommendation.Recommendation {
	rationale := p.rationale
	if len(p.notes) > 0 {
		rationale += "; " + strings.Join(p.notes, "; ")
	}
	assumptions := p.assumptions
	if assumptions == nil {
		assumptions = []string{}
	}
	return recommendation.Recommendation{
		ID:              recommendation.NewID(p.methodID, p.columns),
		Title:           p.title,
		MethodID:        p.methodID,
		Family:          p.family,
		Confidence:      p.confidence,
		RequiredColumns: p.columns,
		Assumptions:     assumptions,
		Rationale:       rationale,
		Inferential:     p.inferential,
	}
}
