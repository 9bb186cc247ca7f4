package recommender

import (
	"stataid/domain/recommendation"
	"stataid/internal/textnorm"
)

// intentKeywords are folded stems; a match raises that family's confidence by one tier
var intentKeywords = []struct {
	family   recommendation.Family
	keywords []string
}{
	{recommendation.FamilyRegression, []string{"predict", "forecast", "impact", "effect of", "explain", "influence", "driver", "determin"}},
	{recommendation.FamilyComparison, []string{"difference", "differ", "compare", "comparison", "versus", " vs ", "between groups", "better than"}},
	{recommendation.FamilyAssociation, []string{"relationship", "relate", "correlat", "associat", "linked", "go together"}},
	{recommendation.FamilyTimeSeries, []string{"trend", "over time", "seasonal", "time series"}},
	{recommendation.FamilyCategorical, []string{"proportion", "frequenc", "share of", "independen"}},
	{recommendation.FamilyDescriptive, []string{"describe", "summar", "overview"}},
}

// matchIntent returns the families the free-text intent points at, with the keyword that matched
func matchIntent(intent string) map[recommendation.Family]string {
	folded := " " + textnorm.Fold(intent) + " "
	matched := make(map[recommendation.Family]string)
	if folded == "  " {
		return matched
	}
	for _, set := range intentKeywords {
		if k, ok := textnorm.ContainsAny(folded, set.keywords); ok {
			matched[set.family] = k
		}
	}
	return matched
}
