package survey

import (
	"regexp"
	"strings"
)

var parenthetical = regexp.MustCompile(`\([^()]*\)`)

// SplitAnswers breaks a multi-answer response into individual answers.
// Round-bracket groups are removed first, then the rest is split on commas,
// so "Europe (includes Russia), North America [NA] (includes Mexico, Caribbean)"
// yields "Europe" and "North America [NA]".
func SplitAnswers(raw string) []string {
	stripped := parenthetical.ReplaceAllString(raw, "")
	var out []string
	for _, part := range strings.Split(stripped, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// UniqueAnswers returns every distinct individual answer given in col, in
// first-seen order.
func UniqueAnswers(t *Table, col string) []string {
	var out []string
	seen := map[string]struct{}{}
	for i := 0; i < t.Len(); i++ {
		v, ok := t.Value(i, col)
		if !ok {
			continue
		}
		for _, a := range SplitAnswers(v) {
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}
