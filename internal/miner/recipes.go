package miner

import (
	"sort"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/mining"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/rules"
)

// Search is one search applied to a recipe's rules. Successive searches
// narrow the result.
type Search struct {
	Terms    []string
	Location rules.Location
}

// Plan is what a recipe resolves to for a given table.
type Plan struct {
	Columns      []string
	Vocabularies [][]string
	// Threshold and Organize replace the miner's options when set.
	Threshold *float64
	Organize  *rules.OrganizeOptions
	Searches  []Search
}

// Recipe is a named mining plan.
type Recipe struct {
	Name        string
	Description string
	plan        func(m *Miner) Plan
}

var registry = map[string]Recipe{}

func register(r Recipe) { registry[r.Name] = r }

// Recipes lists the registered recipes sorted by name.
func Recipes() []Recipe {
	out := make([]Recipe, 0, len(registry))
	for _, r := range registry {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a recipe by name.
func Lookup(name string) (Recipe, error) {
	r, ok := registry[name]
	if !ok {
		return Recipe{}, mining.InvalidArgument("recipe", "name", name)
	}
	return r, nil
}

// Plan resolves the recipe against m's table.
func (m *Miner) Plan(name string) (Plan, error) {
	r, err := Lookup(name)
	if err != nil {
		return Plan{}, err
	}
	return r.plan(m), nil
}

// Run mines the named recipe. The returned RuleSet holds the recipe's final
// rules; when the recipe searches, it wraps the search result.
func (m *Miner) Run(name string) (*rules.RuleSet, error) {
	p, err := m.Plan(name)
	if err != nil {
		return nil, err
	}
	threshold := m.opt.Threshold
	if p.Threshold != nil {
		threshold = *p.Threshold
	}
	org := m.opt.Organize
	if p.Organize != nil {
		org = *p.Organize
	}
	rs, err := m.mine(p.Columns, p.Vocabularies, threshold, org)
	if err != nil {
		return nil, err
	}
	for _, s := range p.Searches {
		found, err := rs.Search(s.Terms, s.Location, true)
		if err != nil {
			return nil, err
		}
		rs = rs.Derive(found)
	}
	m.log.Debug("recipe finished", "recipe", name, "rules", len(rs.Table()))
	return rs, nil
}

// RunItemsets mines only the frequent itemsets of the named recipe.
func (m *Miner) RunItemsets(name string, removeSingles bool) ([]mining.Itemset, error) {
	p, err := m.Plan(name)
	if err != nil {
		return nil, err
	}
	return m.Itemsets(p.Columns, p.Vocabularies, removeSingles)
}

func init() {
	register(Recipe{
		Name:        "favorite-characters",
		Description: "Co-occurring favorite characters",
		plan: func(m *Miner) Plan {
			s := m.schema
			return Plan{
				Columns:      []string{s.Questions.Characters},
				Vocabularies: [][]string{s.Vocabularies.Characters},
			}
		},
	})
	register(Recipe{
		Name:        "favorite-band-members",
		Description: "Favorite member of each band, across bands",
		plan: func(m *Miner) Plan {
			s := m.schema
			p := Plan{}
			for _, q := range s.BandQuestions {
				p.Columns = append(p.Columns, q)
				p.Vocabularies = append(p.Vocabularies, s.Vocabularies.Characters)
			}
			return p
		},
	})
	register(Recipe{
		Name:        "character-reasons",
		Description: "Favorite characters and the reasons they are liked",
		plan: func(m *Miner) Plan { return characterReasons(m) },
	})
	register(Recipe{
		Name:        "character-reasons-by-character",
		Description: "Reasons predicted by favorite characters",
		plan: func(m *Miner) Plan {
			p := characterReasons(m)
			p.Searches = append(p.Searches, Search{Terms: m.schema.Vocabularies.Characters, Location: rules.LocationAntecedents})
			return p
		},
	})
	register(Recipe{
		Name:        "character-reasons-by-reason",
		Description: "Favorite characters predicted by reasons",
		plan: func(m *Miner) Plan {
			p := characterReasons(m)
			p.Searches = append(p.Searches, Search{Terms: m.schema.Vocabularies.CharacterReasons, Location: rules.LocationAntecedents})
			return p
		},
	})
	register(Recipe{
		Name:        "age-favorite-characters",
		Description: "Age bracket predicted by favorite characters",
		plan: func(m *Miner) Plan {
			s := m.schema
			ages := s.FilterAge(m.table).Unique(s.Questions.Age)
			return demographic(s.Questions.Characters, s.Vocabularies.Characters, s.Questions.Age, ages)
		},
	})
	register(Recipe{
		Name:        "gender-favorite-characters",
		Description: "Gender predicted by favorite characters",
		plan: func(m *Miner) Plan {
			s := m.schema
			genders := s.FilterGender(m.table).Unique(s.Questions.Gender)
			return demographic(s.Questions.Characters, s.Vocabularies.Characters, s.Questions.Gender, genders)
		},
	})
	register(Recipe{
		Name:        "region-favorite-characters",
		Description: "Region predicted by favorite characters (large-sample regions)",
		plan: func(m *Miner) Plan {
			s := m.schema
			regions := s.FilterRegion(m.table, false).Unique(s.Questions.Region)
			return demographic(s.Questions.Characters, s.Vocabularies.Characters, s.Questions.Region, regions)
		},
	})
	register(Recipe{
		Name:        "gender-favorite-bands",
		Description: "Gender predicted by favorite bands (by members)",
		plan: func(m *Miner) Plan {
			s := m.schema
			genders := s.FilterGender(m.table).Unique(s.Questions.Gender)
			return demographic(s.Questions.BandsChara, s.Vocabularies.Bands, s.Questions.Gender, genders)
		},
	})
	register(Recipe{
		Name:        "character-overview",
		Description: "Broad favorite-character patterns, shortest antecedents first",
		plan: func(m *Miner) Plan {
			s := m.schema
			threshold := 0.1
			org := rules.DefaultOrganizeOptions()
			org.MaxConsequents = 2
			org.SortBy = []string{rules.ColAntecedentLen, rules.ColLift}
			org.SortAscending = []bool{true, false}
			return Plan{
				Columns:      []string{s.Questions.Characters},
				Vocabularies: [][]string{s.Vocabularies.Characters},
				Threshold:    &threshold,
				Organize:     &org,
			}
		},
	})
}

func characterReasons(m *Miner) Plan {
	s := m.schema
	return Plan{
		Columns:      []string{s.Questions.Characters, s.Questions.CharacterReasons},
		Vocabularies: [][]string{s.Vocabularies.Characters, s.Vocabularies.CharacterReasons},
		Searches:     []Search{{Terms: s.Vocabularies.CharacterReasons, Location: rules.LocationAll}},
	}
}

// demographic mines answerCol together with a demographic column and keeps
// the rules that predict one of its values.
func demographic(answerCol string, answerVocab []string, demoCol string, values []string) Plan {
	return Plan{
		Columns:      []string{answerCol, demoCol},
		Vocabularies: [][]string{answerVocab, values},
		Searches:     []Search{{Terms: values, Location: rules.LocationConsequents}},
	}
}
