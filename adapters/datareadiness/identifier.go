package datareadiness

import (
	"fmt"
	"regexp"

	"stataid/domain/datareadiness/profiling"
	"stataid/internal/textnorm"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// identifierTokens are name words (singular, folded) that mark an identifier column
var identifierTokens = map[string]struct{}{
	"id":         {},
	"uuid":       {},
	"guid":       {},
	"key":        {},
	"code":       {},
	"identifier": {},
}

// detectIdentifier flags identifier-like columns. It never changes the type.
func detectIdentifier(name string, profile *profiling.ColumnProfile, sampledTexts []string, allIntegers bool, config profiling.ProfilingConfig) profiling.IDHeuristic {
	for _, token := range textnorm.SingularTokens(name) {
		if _, ok := identifierTokens[token]; ok {
			return profiling.IDHeuristic{
				Likely:    true,
				Rationale: fmt.Sprintf("column name contains identifier word %q", token),
			}
		}
	}

	if profile.TextCount > 0 && len(sampledTexts) > 0 {
		matched := 0
		for _, s := range sampledTexts {
			if uuidPattern.MatchString(s) {
				matched++
			}
		}
		if matched == len(sampledTexts) {
			return profiling.IDHeuristic{
				Likely:    true,
				Rationale: fmt.Sprintf("all %d sampled values match the UUID pattern", matched),
			}
		}
	}

	eligible := profile.TextCount > 0 || (profile.Type.IsNumeric() && allIntegers)
	if eligible && profile.NonMissingCount >= config.IDMinRows && profile.UniqueCount == profile.NonMissingCount {
		return profiling.IDHeuristic{
			Likely:    true,
			Rationale: fmt.Sprintf("every one of %d non-missing values is distinct", profile.NonMissingCount),
		}
	}

	return profiling.IDHeuristic{}
}
