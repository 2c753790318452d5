// Package report renders rule sets, itemsets and crosstabs as Markdown and
// HTML.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/crosstab"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/mining"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/rules"
)

// Options controls rule and itemset reports.
type Options struct {
	Title string
	// Top limits the rows printed per table; 0 prints all.
	Top int
	// Columns of the rule tables; nil uses DefaultRuleColumns.
	Columns []string
}

// DefaultRuleColumns are the rule columns shown unless Options.Columns is set.
var DefaultRuleColumns = []string{
	rules.ColAntecedents, rules.ColConsequents, rules.ColSupport, rules.ColConfidence, rules.ColLift,
}

// MetricSummary is the distribution of one numeric rule column.
type MetricSummary struct {
	Metric string
	Mean   float64
	Median float64
	Min    float64
	Max    float64
}

// Summarize computes MetricSummary for each metric over t. Empty tables give
// no summaries.
func Summarize(t rules.Table, metrics ...string) ([]MetricSummary, error) {
	if len(t) == 0 {
		return nil, nil
	}
	var out []MetricSummary
	for _, metric := range metrics {
		vals, err := t.Numbers(metric)
		if err != nil {
			return nil, err
		}
		data := stats.Float64Data(finite(vals))
		if data.Len() == 0 {
			continue
		}
		s := MetricSummary{Metric: metric}
		if s.Mean, err = data.Mean(); err != nil {
			return nil, fmt.Errorf("summarize %s: %w", metric, err)
		}
		if s.Median, err = data.Median(); err != nil {
			return nil, fmt.Errorf("summarize %s: %w", metric, err)
		}
		if s.Min, err = data.Min(); err != nil {
			return nil, fmt.Errorf("summarize %s: %w", metric, err)
		}
		if s.Max, err = data.Max(); err != nil {
			return nil, fmt.Errorf("summarize %s: %w", metric, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// finite drops infinite conviction values.
func finite(vals []float64) []float64 {
	out := vals[:0:0]
	for _, v := range vals {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Rules renders a rule set: header, metric summary, then the organized and
// raw tables.
func Rules(rs *rules.RuleSet, opt Options) (string, error) {
	raw := rs.Table()
	organized, hasOrganized := rs.Organized()
	by, asc := rs.SortKeys()

	var b strings.Builder
	title := opt.Title
	if title == "" {
		title = "Association rules"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- Rule set: `%s`\n", rs.ID())
	fmt.Fprintf(&b, "- Rules: %d\n", len(raw))
	if hasOrganized {
		fmt.Fprintf(&b, "- Organized: %d\n", len(organized))
	}
	fmt.Fprintf(&b, "- Sorted by: %s\n\n", sortDescription(by, asc))

	summarized := raw
	if hasOrganized {
		summarized = organized
	}
	sums, err := Summarize(summarized, rules.ColSupport, rules.ColConfidence, rules.ColLift)
	if err != nil {
		return "", err
	}
	if len(sums) > 0 {
		b.WriteString("## Summary\n\n")
		b.WriteString("| metric | mean | median | min | max |\n|---|---|---|---|---|\n")
		for _, s := range sums {
			fmt.Fprintf(&b, "| %s | %.4f | %.4f | %.4f | %.4f |\n", s.Metric, s.Mean, s.Median, s.Min, s.Max)
		}
		b.WriteString("\n")
	}

	cols := opt.Columns
	if cols == nil {
		cols = DefaultRuleColumns
	}
	if hasOrganized {
		b.WriteString("## Organized rules\n\n")
		writeRuleTable(&b, organized, cols, opt.Top)
	}
	b.WriteString("## Raw rules\n\n")
	writeRuleTable(&b, raw, cols, opt.Top)
	return b.String(), nil
}

func sortDescription(by []string, asc []bool) string {
	parts := make([]string, len(by))
	for i, c := range by {
		dir := "descending"
		if asc[i] {
			dir = "ascending"
		}
		parts[i] = c + " " + dir
	}
	return strings.Join(parts, ", ")
}

func writeRuleTable(b *strings.Builder, t rules.Table, cols []string, top int) {
	if len(t) == 0 {
		b.WriteString("_No rules._\n\n")
		return
	}
	b.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	b.WriteString(strings.Repeat("|---", len(cols)) + "|\n")
	n := limit(len(t), top)
	for _, r := range t[:n] {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = cell(r, c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	if n < len(t) {
		fmt.Fprintf(b, "\n_%d more not shown._\n", len(t)-n)
	}
	b.WriteString("\n")
}

func cell(r rules.Rule, col string) string {
	if v, ok := r.Number(col); ok {
		switch col {
		case rules.ColAntecedentLen, rules.ColConsequentLen, rules.ColRuleLen:
			return r.Field(col)
		}
		if math.IsInf(v, 1) {
			return "inf"
		}
		return fmt.Sprintf("%.4f", v)
	}
	return escape(r.Field(col))
}

// Itemsets renders frequent itemsets with support and count.
func Itemsets(sets []mining.Itemset, opt Options) string {
	var b strings.Builder
	title := opt.Title
	if title == "" {
		title = "Frequent itemsets"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- Itemsets: %d\n\n", len(sets))
	if len(sets) == 0 {
		b.WriteString("_No itemsets._\n")
		return b.String()
	}
	b.WriteString("| itemset | length | support | count |\n|---|---|---|---|\n")
	n := limit(len(sets), opt.Top)
	for _, s := range sets[:n] {
		fmt.Fprintf(&b, "| %s | %d | %.4f | %d |\n", escape(rules.Items(s.Items).String()), s.Len(), s.Support, s.Count)
	}
	if n < len(sets) {
		fmt.Fprintf(&b, "\n_%d more not shown._\n", len(sets)-n)
	}
	return b.String()
}

// Crosstab renders a crosstab's values; percent formats them as percentages.
func Crosstab(ct *crosstab.Table, title string, percent bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if ct.Empty() {
		b.WriteString("_No data._\n")
		return b.String()
	}
	b.WriteString("| |")
	for _, c := range ct.Cols {
		b.WriteString(" " + escape(c) + " |")
	}
	b.WriteString("\n|---|" + strings.Repeat("---|", len(ct.Cols)) + "\n")
	for i, row := range ct.Rows {
		b.WriteString("| " + escape(row) + " |")
		for j := range ct.Cols {
			v := ct.Value(i, j)
			if percent {
				fmt.Fprintf(&b, " %.1f%% |", v*100)
			} else {
				fmt.Fprintf(&b, " %g |", v)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTML converts a Markdown report into a standalone HTML page.
func HTML(title, md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(md))
	r := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(doc, r)
}

func limit(n, top int) int {
	if top > 0 && top < n {
		return top
	}
	return n
}

func escape(s string) string { return strings.ReplaceAll(s, "|", `\|`) }
