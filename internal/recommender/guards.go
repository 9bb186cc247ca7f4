package recommender

import (
	"fmt"

	"stataid/domain/recommendation"
	"stataid/domain/stats"
)

// proposal is a candidate bound to concrete columns, on its way to a recommendation
type proposal struct {
	candidate
	columns     []string
	groupLevels map[string]int
	confidence  stats.Confidence
	notes       []string
}

// guardInput is what guards may inspect besides the proposals
type guardInput struct {
	totalRows int
	sets      columnSets
	config    Config
}

// guard suppresses or replaces proposals. fired reports whether it changed anything.
type guard struct {
	name  string
	apply func(in guardInput, props []proposal) (out []proposal, fired bool)
}

// guards run in this order after shape lookup
var guards = []guard{
	{name: "small_sample", apply: smallSampleGuard},
	{name: "zero_variance", apply: zeroVarianceGuard},
	{name: "high_cardinality", apply: highCardinalityGuard},
}

// smallSampleGuard drops every inferential candidate when there are too few rows
func smallSampleGuard(in guardInput, props []proposal) ([]proposal, bool) {
	if in.totalRows >= in.config.SmallSampleThreshold {
		return props, false
	}
	note := fmt.Sprintf("only %d rows; inferential methods were withheld", in.totalRows)
	out, fired := keep(props, func(p proposal) bool { return !p.inferential }, note)
	return describeNumeric(in, out, note), fired
}

// zeroVarianceGuard drops every test-based candidate when any numeric column is constant
func zeroVarianceGuard(in guardInput, props []proposal) ([]proposal, bool) {
	constant := ""
	for _, p := range in.sets.numeric {
		if p.Numeric != nil && p.Numeric.ZeroVariance() {
			constant = p.Name
			break
		}
	}
	if constant == "" {
		return props, false
	}
	note := fmt.Sprintf("column %q has zero variance; only descriptive methods apply", constant)
	out, fired := keep(props, func(p proposal) bool { return !p.inferential }, note)
	return describeNumeric(in, out, note), fired
}

// describeNumeric falls back to descriptive statistics over the numeric columns
// when a guard left nothing to recommend
func describeNumeric(in guardInput, props []proposal, note string) []proposal {
	if len(props) > 0 || len(in.sets.numeric) == 0 {
		return props
	}
	return append(props, proposal{
		candidate: descriptiveStatistics,
		columns:   names(in.sets.numeric),
		notes:     []string{note},
	})
}

// highCardinalityGuard drops group comparisons on grouping columns with too many
// levels and falls back to descriptive statistics by group
func highCardinalityGuard(in guardInput, props []proposal) ([]proposal, bool) {
	var (
		out      []proposal
		fired    bool
		fallback *proposal
	)
	for _, p := range props {
		if !p.comparison {
			out = append(out, p)
			continue
		}
		wide, levels := widestGroup(p.groupLevels, in.config.MaxGroupLevels)
		if wide == "" {
			out = append(out, p)
			continue
		}
		fired = true
		if fallback == nil {
			fallback = &proposal{
				candidate: descriptiveByGroup,
				columns:   []string{p.columns[0], wide},
				notes: []string{fmt.Sprintf("grouping column %q has %d categories (more than %d); group comparisons were withheld",
					wide, levels, in.config.MaxGroupLevels)},
			}
		}
	}
	if !fired {
		return props, false
	}
	for i := range out {
		if out[i].methodID == descriptiveByGroup.methodID {
			out[i].notes = append(out[i].notes, fallback.notes...)
			return out, true
		}
	}
	return append(out, *fallback), true
}

func widestGroup(levels map[string]int, max int) (string, int) {
	name, widest := "", 0
	for col, n := range levels {
		if n > max && (n > widest || (n == widest && col < name)) {
			name, widest = col, n
		}
	}
	return name, widest
}

func keep(props []proposal, pred func(proposal) bool, note string) ([]proposal, bool) {
	out := make([]proposal, 0, len(props))
	fired := false
	for _, p := range props {
		if pred(p) {
			out = append(out, p)
			continue
		}
		fired = true
	}
	if fired {
		for i := range out {
			out[i].notes = append(out[i].notes, note)
		}
	}
	return out, fired
}

// isDescriptive reports a candidate that summarises rather than tests
func isDescriptive(c candidate) bool {
	return c.role == roleDescriptive || c.family == recommendation.FamilyDescriptive
}
