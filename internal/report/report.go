// Package report renders an analysis as Markdown or standalone HTML.
package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"stataid/app"
	"stataid/domain/datareadiness/profiling"
	"stataid/domain/datareadiness/validation"
)

// Markdown renders the analysis as a Markdown document
func Markdown(a *app.Analysis, title string) string {
	var b strings.Builder
	if title == "" {
		title = "Data readiness report"
	}
	fmt.Fprintf(&b, "# %s\n\n", cell(title))

	if vr := a.Validation; vr != nil {
		writeSummary(&b, vr)
		writeIssues(&b, "Errors", vr.Errors)
		writeIssues(&b, "Warnings", vr.Warnings)
		writeProfiles(&b, vr.ColumnProfiles)
		writeTests(&b, vr.AssumptionTests)
	}
	writeRecommendations(&b, a)
	writeAnswers(&b, a)
	return b.String()
}

// HTML renders the analysis as a self-contained HTML page
func HTML(a *app.Analysis, title string) []byte {
	if title == "" {
		title = "Data readiness report"
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	body := markdown.ToHTML([]byte(Markdown(a, title)), p, renderer)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("<style>body{font-family:sans-serif;max-width:60em;margin:auto}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:2px 6px}</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.Write(body)
	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}

func writeSummary(b *strings.Builder, vr *validation.ValidationResult) {
	status := "ready for analysis"
	if !vr.IsValid {
		status = "blocked"
	}
	b.WriteString("## Dataset\n\n")
	fmt.Fprintf(b, "- Status: **%s**\n", status)
	fmt.Fprintf(b, "- Rows: %d (profiled %d", vr.TotalRows, vr.ProfiledRows)
	if vr.Sampled {
		b.WriteString(", sampled")
	}
	b.WriteString(")\n")
	fmt.Fprintf(b, "- Columns: %d\n", vr.ColumnCount)
	fmt.Fprintf(b, "- Missing values: %d\n", vr.MissingValues)
	if vr.DuplicateRows != nil {
		fmt.Fprintf(b, "- Duplicate rows: %d\n", *vr.DuplicateRows)
	}
	var types []string
	for _, t := range profiling.AllColumnTypes {
		if n := vr.DataTypeSummary[t]; n > 0 {
			types = append(types, fmt.Sprintf("%s %d", t, n))
		}
	}
	if len(types) > 0 {
		fmt.Fprintf(b, "- Column types: %s\n", strings.Join(types, ", "))
	}
	b.WriteString("\n")
}

func writeIssues(b *strings.Builder, heading string, issues []validation.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, issue := range issues {
		if issue.Column != "" {
			fmt.Fprintf(b, "- `%s` (%s): %s\n", issue.Code, cell(issue.Column), issue.Message)
		} else {
			fmt.Fprintf(b, "- `%s`: %s\n", issue.Code, issue.Message)
		}
	}
	b.WriteString("\n")
}

func writeProfiles(b *strings.Builder, profiles []profiling.ColumnProfile) {
	if len(profiles) == 0 {
		return
	}
	b.WriteString("## Columns\n\n")
	b.WriteString("| Column | Type | Missing | Unique | Mean | Std | Median | Outliers | Notes |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, p := range profiles {
		mean, std, median, outliers := "", "", "", ""
		if p.Numeric != nil {
			mean = fmt.Sprintf("%.4g", p.Numeric.Mean)
			std = fmt.Sprintf("%.4g", p.Numeric.Std)
			median = fmt.Sprintf("%.4g", p.Numeric.Median)
			outliers = fmt.Sprintf("%d", len(p.Numeric.Outliers))
		}
		notes := ""
		if p.IDLikely.Likely {
			notes = "likely identifier"
		}
		fmt.Fprintf(b, "| %s | %s | %d | %d | %s | %s | %s | %s | %s |\n",
			cell(p.Name), p.Type, p.MissingCount, p.UniqueCount, mean, std, median, outliers, notes)
	}
	b.WriteString("\n")
}

func writeTests(b *strings.Builder, tests []validation.ColumnAssumptionTests) {
	if len(tests) == 0 {
		return
	}
	b.WriteString("## Assumption tests\n\n")
	for _, col := range tests {
		for _, o := range col.Normality {
			fmt.Fprintf(b, "- %s\n", cell(o.String()))
		}
		if col.VarianceHomogeneity != nil {
			fmt.Fprintf(b, "- %s\n", cell(col.VarianceHomogeneity.String()))
		}
	}
	b.WriteString("\n")
}

func writeRecommendations(b *strings.Builder, a *app.Analysis) {
	if len(a.Recommendations) == 0 {
		return
	}
	b.WriteString("## Recommended methods\n\n")
	for i, r := range a.Recommendations {
		fmt.Fprintf(b, "%d. **%s** (%s confidence) on %s\n", i+1, r.Title, r.Confidence, cell(strings.Join(r.RequiredColumns, ", ")))
		fmt.Fprintf(b, "   %s\n", cell(r.Rationale))
		if len(r.Assumptions) > 0 {
			fmt.Fprintf(b, "   Assumes: %s\n", strings.Join(r.Assumptions, ", "))
		}
	}
	b.WriteString("\n")
}

func writeAnswers(b *strings.Builder, a *app.Analysis) {
	if len(a.Answers) == 0 {
		return
	}
	b.WriteString("## Assumption answers\n\n")
	for _, ans := range a.Answers {
		confirm := ""
		if ans.RequiresConfirmation {
			confirm = ", please confirm"
		}
		fmt.Fprintf(b, "### %s: %s\n\n", ans.QuestionID, ans.Value)
		fmt.Fprintf(b, "Confidence %s from %s%s.\n\n", ans.Confidence, ans.Source, confirm)
		for _, e := range ans.Evidence {
			fmt.Fprintf(b, "- %s\n", cell(e))
		}
		b.WriteString("\n")
	}
}

var cellEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "|", "\\|")

// cell keeps user text from breaking tables or injecting markup
func cell(s string) string {
	return cellEscaper.Replace(s)
}
