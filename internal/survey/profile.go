package survey

import (
	"fmt"
	"sort"
	"strings"
)

// ProfileOptions controls the column profile report.
type ProfileOptions struct {
	// NoResponse is counted separately from other answers.
	NoResponse string
	// TopAnswers limits the answers listed per column.
	TopAnswers int
	// SplitMulti splits answers on commas (after dropping parentheticals)
	// before counting, which suits multi-select questions.
	SplitMulti bool
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
}

// DefaultProfileOptions returns reasonable defaults for survey profiling.
func DefaultProfileOptions() ProfileOptions {
	return ProfileOptions{
		NoResponse: "Prefer not to say",
		TopAnswers: 8,
		SplitMulti: true,
		SampleRows: 0,
	}
}

// Report is a markdown-friendly profile of a survey table.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Samples  []Row
	Warnings []string
}

// ColumnSummary captures answer counts for one question.
type ColumnSummary struct {
	Name       string
	Answered   int
	Missing    int
	NoResponse int
	Unique     int
	TopAnswers []AnswerCount
}

type AnswerCount struct {
	Value string
	Count int
}

// Profile computes per-question answer statistics.
func Profile(name string, t *Table, opt ProfileOptions) *Report {
	rep := &Report{Name: name, Rows: t.Len()}
	top := opt.TopAnswers
	if top <= 0 {
		top = 8
	}
	for _, col := range t.Columns() {
		s := ColumnSummary{Name: col}
		counts := map[string]int{}
		for i := 0; i < t.Len(); i++ {
			v, ok := t.Value(i, col)
			if !ok {
				s.Missing++
				continue
			}
			if opt.NoResponse != "" && v == opt.NoResponse {
				s.NoResponse++
				continue
			}
			s.Answered++
			if opt.SplitMulti {
				for _, a := range SplitAnswers(v) {
					counts[a]++
				}
			} else {
				counts[v]++
			}
		}
		tops := make([]AnswerCount, 0, len(counts))
		for k, v := range counts {
			tops = append(tops, AnswerCount{Value: k, Count: v})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		s.Unique = len(tops)
		if len(tops) > top {
			tops = tops[:top]
		}
		s.TopAnswers = tops
		if s.Answered == 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %q has no answers", col))
		}
		rep.Cols = append(rep.Cols, s)
	}
	for i := 0; i < t.Len() && i < opt.SampleRows; i++ {
		rep.Samples = append(rep.Samples, t.Row(i))
	}
	return rep
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[SURVEY SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Respondents: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Questions: %d\n\n", len(r.Cols)))

	b.WriteString("[QUESTIONS]\n")
	for _, c := range r.Cols {
		total := c.Answered + c.Missing + c.NoResponse
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing+c.NoResponse) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: answered %d, missing %d, no response %d (%.1f%% unusable)",
			safeName(c.Name), c.Answered, c.Missing, c.NoResponse, missPct))
		if len(c.TopAnswers) > 0 {
			b.WriteString("; top: ")
			for i, kv := range c.TopAnswers {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopAnswers) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		}
		b.WriteString("\n")
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[SAMPLE ROWS]\n")
		for i, row := range r.Samples {
			b.WriteString(fmt.Sprintf("- row %d:\n", i))
			for _, c := range r.Cols {
				v, ok := row.Get(c.Name)
				if !ok {
					v = "(missing)"
				}
				if len(v) > 80 {
					v = v[:77] + "..."
				}
				b.WriteString(fmt.Sprintf("  • %s: %s\n", safeName(c.Name), safeVal(v)))
			}
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
