package rules

import (
	"strings"

	"github.com/google/uuid"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/mining"
)

// Location selects which side of a rule Search looks at.
type Location string

const (
	LocationAll         Location = "all"
	LocationAntecedents Location = "antecedents"
	LocationConsequents Location = "consequents"
)

// ParseLocation validates a location name.
func ParseLocation(s string) (Location, error) {
	switch l := Location(s); l {
	case LocationAll, LocationAntecedents, LocationConsequents:
		return l, nil
	}
	return "", mining.InvalidArgument("search", "location", s)
}

// OrganizeOptions bounds the rule shape and sets the sort order. Max bounds
// of 0 are unset.
type OrganizeOptions struct {
	MinAntecedents int
	MinConsequents int
	MinRuleLength  int
	MaxAntecedents int
	MaxConsequents int
	MaxRuleLength  int
	SortBy         []string
	SortAscending  []bool
}

// DefaultOrganizeOptions keeps every rule and sorts by confidence, highest
// first.
func DefaultOrganizeOptions() OrganizeOptions {
	return OrganizeOptions{MinAntecedents: 1, MinConsequents: 1, MinRuleLength: 2}
}

func (o OrganizeOptions) keep(r Rule) bool {
	switch {
	case r.AntecedentLen() < o.MinAntecedents,
		r.ConsequentLen() < o.MinConsequents,
		r.Len() < o.MinRuleLength:
		return false
	case o.MaxAntecedents > 0 && r.AntecedentLen() > o.MaxAntecedents,
		o.MaxConsequents > 0 && r.ConsequentLen() > o.MaxConsequents,
		o.MaxRuleLength > 0 && r.Len() > o.MaxRuleLength:
		return false
	}
	return true
}

// RuleSet holds a generated rule table, an optional organized view of it,
// and the sort order searches reuse.
type RuleSet struct {
	id           uuid.UUID
	original     Table
	organized    Table
	hasOrganized bool
	sortBy       []string
	sortAsc      []bool
}

// New wraps t. Searches sort by lift, highest first, until Organize is
// called.
func New(t Table) *RuleSet {
	return &RuleSet{
		id:       uuid.New(),
		original: t.Clone(),
		sortBy:   []string{ColLift},
		sortAsc:  []bool{false},
	}
}

// Derive wraps t in a new RuleSet that inherits the remembered sort order,
// so a search result can be searched again.
func (rs *RuleSet) Derive(t Table) *RuleSet {
	d := New(t)
	d.sortBy = append([]string(nil), rs.sortBy...)
	d.sortAsc = append([]bool(nil), rs.sortAsc...)
	return d
}

func (rs *RuleSet) ID() string { return rs.id.String() }

// Table returns a copy of the original rules.
func (rs *RuleSet) Table() Table { return rs.original.Clone() }

// Organized returns a copy of the organized view, if Organize has run.
func (rs *RuleSet) Organized() (Table, bool) {
	if !rs.hasOrganized {
		return nil, false
	}
	return rs.organized.Clone(), true
}

// SortKeys returns the remembered sort columns and directions.
func (rs *RuleSet) SortKeys() ([]string, []bool) {
	return append([]string(nil), rs.sortBy...), append([]bool(nil), rs.sortAsc...)
}

// Organize filters the original rules to the bounds in opt, sorts them, and
// stores the result as the organized view. On error nothing changes.
func (rs *RuleSet) Organize(opt OrganizeOptions) error {
	by, asc := opt.SortBy, opt.SortAscending
	if len(by) == 0 && len(asc) == 0 {
		by, asc = []string{ColConfidence}, []bool{false}
	}
	if err := checkSortKeys(by, asc); err != nil {
		return err
	}
	var kept Table
	for _, r := range rs.original {
		if opt.keep(r) {
			kept = append(kept, r)
		}
	}
	sorted, err := kept.Sorted(by, asc)
	if err != nil {
		return err
	}
	rs.organized = sorted
	rs.hasOrganized = true
	rs.sortBy = append([]string(nil), by...)
	rs.sortAsc = append([]bool(nil), asc...)
	return nil
}

// Search returns the rules whose antecedents or consequents (per loc) contain
// any of the terms in their "{a, b}" form, each rule at most once, sorted by
// the remembered order. The organized view is searched when useOrganized is
// set and it exists. No terms means no results.
func (rs *RuleSet) Search(oneOf []string, loc Location, useOrganized bool) (Table, error) {
	if _, err := ParseLocation(string(loc)); err != nil {
		return nil, err
	}
	src := rs.original
	if useOrganized && rs.hasOrganized {
		src = rs.organized
	}
	out := Table{}
	if len(oneOf) == 0 {
		return out, nil
	}
	for _, r := range src {
		if matchesAny(r, oneOf, loc) {
			out = append(out, r)
		}
	}
	return out.Sorted(rs.sortBy, rs.sortAsc)
}

func matchesAny(r Rule, terms []string, loc Location) bool {
	ante, cons := r.Antecedents.String(), r.Consequents.String()
	for _, term := range terms {
		if loc != LocationConsequents && strings.Contains(ante, term) {
			return true
		}
		if loc != LocationAntecedents && strings.Contains(cons, term) {
			return true
		}
	}
	return false
}
