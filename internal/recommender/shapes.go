package recommender

import (
	"stataid/domain/datareadiness/profiling"
	"stataid/domain/recommendation"
	"stataid/internal/textnorm"
)

// Shape is the combination of column-type counts and grouping cardinalities
type Shape string

const (
	ShapeSingleNumeric          Shape = "single_numeric"
	ShapeNumericAssociation     Shape = "numeric_association"
	ShapeMultivariate           Shape = "multivariate"
	ShapeTwoGroups              Shape = "two_groups"
	ShapeMultiGroups            Shape = "multi_groups"
	ShapeTwoFactor              Shape = "two_factor"
	ShapeCategoricalSingle      Shape = "categorical_single"
	ShapeCategoricalAssociation Shape = "categorical_association"
	ShapeTimeSeries             Shape = "time_series"
)

type role int

const (
	rolePrimary role = iota
	roleAlternative
	roleDescriptive
	roleSpeculative
)

// candidate is one row of the shape table
type candidate struct {
	methodID    string
	title       string
	family      recommendation.Family
	role        role
	inferential bool // runs a hypothesis test
	comparison  bool // compares groups of a grouping column
	assumptions []string
	rationale   string
}

var (
	descriptiveStatistics = candidate{
		methodID: "descriptive_statistics", title: "Descriptive statistics",
		family: recommendation.FamilyDescriptive, role: roleDescriptive,
		rationale: "summarises centre, spread and shape of the numeric column",
	}
	descriptiveByGroup = candidate{
		methodID: "descriptive_by_group", title: "Descriptive statistics by group",
		family: recommendation.FamilyDescriptive, role: roleDescriptive,
		rationale: "summarises the numeric column separately for each group",
	}
)

// shapeTable maps each shape to its candidate methods, strongest first
var shapeTable = map[Shape][]candidate{
	ShapeSingleNumeric: {
		{
			methodID: "one_sample_t_test", title: "One-sample t-test",
			family: recommendation.FamilySingleSample, role: rolePrimary, inferential: true,
			assumptions: []string{"normality", "independent observations"},
			rationale:   "one numeric column can be tested against a reference value",
		},
		{
			methodID: "wilcoxon_signed_rank", title: "Wilcoxon signed-rank test",
			family: recommendation.FamilySingleSample, role: roleAlternative, inferential: true,
			assumptions: []string{"symmetric distribution", "independent observations"},
			rationale:   "rank-based alternative when normality is doubtful",
		},
		descriptiveStatistics,
	},
	ShapeNumericAssociation: {
		{
			methodID: "pearson_correlation", title: "Pearson correlation",
			family: recommendation.FamilyAssociation, role: rolePrimary, inferential: true,
			assumptions: []string{"linearity", "bivariate normality"},
			rationale:   "two numeric columns can be checked for a linear relationship",
		},
		{
			methodID: "simple_linear_regression", title: "Simple linear regression",
			family: recommendation.FamilyRegression, role: rolePrimary, inferential: true,
			assumptions: []string{"linearity", "normality of residuals", "homoscedasticity"},
			rationale:   "one numeric column may predict the other",
		},
		{
			methodID: "spearman_correlation", title: "Spearman rank correlation",
			family: recommendation.FamilyAssociation, role: roleAlternative, inferential: true,
			assumptions: []string{"monotonic relationship"},
			rationale:   "rank-based alternative robust to outliers and non-normality",
		},
	},
	ShapeMultivariate: {
		{
			methodID: "multiple_linear_regression", title: "Multiple linear regression",
			family: recommendation.FamilyRegression, role: rolePrimary, inferential: true,
			assumptions: []string{"linearity", "normality of residuals", "homoscedasticity", "no multicollinearity"},
			rationale:   "three or more numeric columns allow one outcome to be modelled on several predictors",
		},
		{
			methodID: "correlation_matrix", title: "Correlation matrix",
			family: recommendation.FamilyMultivariate, role: roleDescriptive,
			rationale: "pairwise correlations across all numeric columns",
		},
		{
			methodID: "principal_component_analysis", title: "Principal component analysis",
			family: recommendation.FamilyMultivariate, role: roleAlternative,
			assumptions: []string{"linearity", "adequate sample size"},
			rationale:   "reduces several correlated numeric columns to a few components",
		},
	},
	ShapeTwoGroups: {
		{
			methodID: "independent_t_test", title: "Independent samples t-test",
			family: recommendation.FamilyComparison, role: rolePrimary, inferential: true, comparison: true,
			assumptions: []string{"normality", "variance_homogeneity", "independent observations"},
			rationale:   "a numeric column split by a grouping column with exactly two groups",
		},
		{
			methodID: "mann_whitney_u", title: "Mann-Whitney U test",
			family: recommendation.FamilyComparison, role: roleAlternative, inferential: true, comparison: true,
			assumptions: []string{"independent observations", "similar distribution shapes"},
			rationale:   "rank-based alternative when normality is doubtful",
		},
		descriptiveByGroup,
	},
	ShapeMultiGroups: {
		{
			methodID: "one_way_anova", title: "One-way ANOVA",
			family: recommendation.FamilyComparison, role: rolePrimary, inferential: true, comparison: true,
			assumptions: []string{"normality", "variance_homogeneity", "independent observations"},
			rationale:   "a numeric column split by a grouping column with three or more groups",
		},
		{
			methodID: "kruskal_wallis", title: "Kruskal-Wallis test",
			family: recommendation.FamilyComparison, role: roleAlternative, inferential: true, comparison: true,
			assumptions: []string{"independent observations", "similar distribution shapes"},
			rationale:   "rank-based alternative when normality is doubtful",
		},
		descriptiveByGroup,
	},
	ShapeTwoFactor: {
		{
			methodID: "two_way_anova", title: "Two-way ANOVA",
			family: recommendation.FamilyComparison, role: rolePrimary, inferential: true, comparison: true,
			assumptions: []string{"normality", "variance_homogeneity", "independent observations"},
			rationale:   "a numeric column crossed by two grouping columns",
		},
		descriptiveByGroup,
	},
	ShapeCategoricalSingle: {
		{
			methodID: "frequency_table", title: "Frequency table",
			family: recommendation.FamilyDescriptive, role: roleDescriptive,
			rationale: "counts and proportions of each category",
		},
		{
			methodID: "chi_square_goodness_of_fit", title: "Chi-square goodness-of-fit test",
			family: recommendation.FamilyCategorical, role: rolePrimary, inferential: true,
			assumptions: []string{"expected count of at least 5 per category"},
			rationale:   "checks whether the categories occur in expected proportions",
		},
	},
	ShapeCategoricalAssociation: {
		{
			methodID: "chi_square_independence", title: "Chi-square test of independence",
			family: recommendation.FamilyCategorical, role: rolePrimary, inferential: true,
			assumptions: []string{"expected count of at least 5 per cell", "independent observations"},
			rationale:   "two categorical columns can be checked for association",
		},
		{
			methodID: "fisher_exact", title: "Fisher's exact test",
			family: recommendation.FamilyCategorical, role: roleAlternative, inferential: true,
			assumptions: []string{"fixed margins"},
			rationale:   "exact alternative when expected counts are small",
		},
		{
			methodID: "crosstab", title: "Cross-tabulation",
			family: recommendation.FamilyDescriptive, role: roleDescriptive,
			rationale: "joint counts of the two categorical columns",
		},
	},
	ShapeTimeSeries: {
		{
			methodID: "time_series_trend", title: "Trend over time",
			family: recommendation.FamilyTimeSeries, role: roleSpeculative, inferential: true,
			assumptions: []string{"rows ordered in time", "regular spacing"},
			rationale:   "a date-like column suggests the numeric values may form a time series; chronological order is not confirmed",
		},
	},
}

// columnSets is the classification of profiles used for shape matching
type columnSets struct {
	numeric  []profiling.ColumnProfile
	grouping []profiling.ColumnProfile // categorical, binary or ordinal with at least two levels
	dateLike []profiling.ColumnProfile
}

func (s columnSets) usable() bool {
	return len(s.numeric) > 0 || len(s.grouping) > 0
}

var dateWords = map[string]struct{}{
	"date": {}, "time": {}, "timestamp": {}, "datetime": {},
	"year": {}, "month": {}, "week": {}, "day": {}, "period": {},
}

func classify(profiles []profiling.ColumnProfile) columnSets {
	var sets columnSets
	for _, p := range profiles {
		switch {
		case p.Type.IsNumeric():
			sets.numeric = append(sets.numeric, p)
		case p.Type.IsGrouping() && p.UniqueCount >= 2:
			sets.grouping = append(sets.grouping, p)
		}
		if p.Type == profiling.TypeDate || hasDateWord(p.Name) {
			sets.dateLike = append(sets.dateLike, p)
		}
	}
	return sets
}

func hasDateWord(name string) bool {
	for _, token := range textnorm.SingularTokens(name) {
		if _, ok := dateWords[token]; ok {
			return true
		}
	}
	return false
}

// match is a detected shape and the columns it involves
type match struct {
	shape       Shape
	columns     []string
	groupLevels map[string]int // grouping column -> distinct levels
}

// detectShapes lists every shape the column sets satisfy
func detectShapes(sets columnSets) []match {
	n, g := len(sets.numeric), len(sets.grouping)
	var matches []match

	if n == 1 && g == 0 {
		matches = append(matches, match{shape: ShapeSingleNumeric, columns: names(sets.numeric[:1])})
	}
	if n >= 2 {
		matches = append(matches, match{shape: ShapeNumericAssociation, columns: names(sets.numeric[:2])})
	}
	if n >= 3 {
		matches = append(matches, match{shape: ShapeMultivariate, columns: names(sets.numeric)})
	}
	if n >= 1 && g >= 1 {
		grp := sets.grouping[0]
		m := match{
			columns:     []string{sets.numeric[0].Name, grp.Name},
			groupLevels: map[string]int{grp.Name: grp.UniqueCount},
		}
		if grp.UniqueCount == 2 {
			m.shape = ShapeTwoGroups
		} else {
			m.shape = ShapeMultiGroups
		}
		matches = append(matches, m)
	}
	if n >= 1 && g >= 2 {
		a, b := sets.grouping[0], sets.grouping[1]
		matches = append(matches, match{
			shape:       ShapeTwoFactor,
			columns:     []string{sets.numeric[0].Name, a.Name, b.Name},
			groupLevels: map[string]int{a.Name: a.UniqueCount, b.Name: b.UniqueCount},
		})
	}
	if n == 0 && g == 1 {
		matches = append(matches, match{shape: ShapeCategoricalSingle, columns: names(sets.grouping[:1])})
	}
	if n == 0 && g >= 2 {
		matches = append(matches, match{shape: ShapeCategoricalAssociation, columns: names(sets.grouping[:2])})
	}
	if n >= 1 && len(sets.dateLike) >= 1 {
		if date := firstOther(sets.dateLike, sets.numeric[0].Name); date != "" {
			matches = append(matches, match{shape: ShapeTimeSeries, columns: []string{date, sets.numeric[0].Name}})
		}
	}
	return matches
}

func names(profiles []profiling.ColumnProfile) []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Name
	}
	return out
}

func firstOther(profiles []profiling.ColumnProfile, exclude string) string {
	for _, p := range profiles {
		if p.Name != exclude {
			return p.Name
		}
	}
	return ""
}
