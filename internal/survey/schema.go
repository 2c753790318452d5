package survey

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var defaultSchemaYAML []byte

// Questions holds the column identifier of every question the tool reads.
type Questions struct {
	Region                 string `yaml:"region"`
	Gender                 string `yaml:"gender"`
	Age                    string `yaml:"age"`
	PlayStyle              string `yaml:"play_style"`
	OtherGamesIdol         string `yaml:"other_games_idol"`
	OtherGamesRhythm       string `yaml:"other_games_rhythm"`
	BandsMusic             string `yaml:"bands_music"`
	BandsChara             string `yaml:"bands_chara"`
	Characters             string `yaml:"characters"`
	CharacterReasons       string `yaml:"character_reasons"`
	SongsOriginal          string `yaml:"songs_original"`
	SongsCover             string `yaml:"songs_cover"`
	FranchiseParticipation string `yaml:"franchise_participation"`
	JPServer               string `yaml:"jp_server"`
	Seiyuu                 string `yaml:"seiyuu"`
}

// Vocabularies are the legal tokens of the multi-answer questions.
type Vocabularies struct {
	Bands            []string `yaml:"bands"`
	Characters       []string `yaml:"characters"`
	CharacterReasons []string `yaml:"character_reasons"`
}

// Regions lists region answers, split by sample size.
type Regions struct {
	Core        []string `yaml:"core"`
	SmallSample []string `yaml:"small_sample"`
}

// Schema is the fixed layout of the survey export: question identifiers,
// vocabularies and cleaning rules.
type Schema struct {
	NoResponse    string            `yaml:"no_response"`
	Questions     Questions         `yaml:"questions"`
	BandQuestions []string          `yaml:"band_questions"`
	Replacements  map[string]string `yaml:"replacements"`
	Vocabularies  Vocabularies      `yaml:"vocabularies"`
	Regions       Regions           `yaml:"regions"`
	AgesFirst     []string          `yaml:"ages_first"`
}

// DefaultSchema returns the schema of the 2019 community survey.
func DefaultSchema() *Schema {
	s, err := ParseSchema(defaultSchemaYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded schema: %v", err))
	}
	return s
}

// LoadSchema reads a schema from a YAML file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes a YAML schema document.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if s.NoResponse == "" {
		return nil, fmt.Errorf("parse schema: no_response is required")
	}
	return &s, nil
}

// Known returns every question identifier the schema names, in a fixed order.
func (s *Schema) Known() []string {
	q := s.Questions
	cols := []string{
		q.Region, q.Gender, q.Age, q.BandsMusic, q.BandsChara, q.Characters, q.CharacterReasons,
	}
	cols = append(cols, s.BandQuestions...)
	cols = append(cols,
		q.SongsOriginal, q.SongsCover, q.JPServer, q.FranchiseParticipation, q.Seiyuu,
		q.PlayStyle, q.OtherGamesIdol, q.OtherGamesRhythm,
	)
	out := cols[:0]
	for _, c := range cols {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Prepare projects t onto the schema's questions that are present and
// applies the value replacements.
func (s *Schema) Prepare(t *Table) *Table {
	var cols []string
	for _, c := range s.Known() {
		if t.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	out, _ := t.Select(cols...)
	keys := make([]string, 0, len(s.Replacements))
	for k := range s.Replacements {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = out.Replace(k, s.Replacements[k])
	}
	return out
}

// FilterGender drops rows without a usable gender answer.
func (s *Schema) FilterGender(t *Table) *Table {
	return t.FilterInvalid(s.Questions.Gender, s.NoResponse)
}

// FilterAge drops rows without a usable age answer.
func (s *Schema) FilterAge(t *Table) *Table {
	return t.FilterInvalid(s.Questions.Age, s.NoResponse)
}

// FilterRegion drops rows without a usable region answer. When keepAllLegal
// is false only the large-sample regions are kept.
func (s *Schema) FilterRegion(t *Table, keepAllLegal bool) *Table {
	if !keepAllLegal {
		t = t.FilterIn(s.Questions.Region, s.Regions.Core)
	}
	return t.FilterInvalid(s.Questions.Region, s.NoResponse)
}

// RegionOrder returns the display order of regions.
func (s *Schema) RegionOrder(all bool) []string {
	out := append([]string(nil), s.Regions.Core...)
	if all {
		out = append(out, s.Regions.SmallSample...)
	}
	return out
}

// AgeOrder sorts age brackets lexically and moves the AgesFirst entries to
// the front.
func (s *Schema) AgeOrder(values []string) []string {
	rest := append([]string(nil), values...)
	sort.Strings(rest)
	var head []string
	for _, first := range s.AgesFirst {
		for i, v := range rest {
			if v == first {
				head = append(head, v)
				rest = append(rest[:i], rest[i+1:]...)
				break
			}
		}
	}
	return append(head, rest...)
}

// Dimension resolves a short dimension name used on the command line to a
// question identifier and, for multi-answer questions, its vocabulary.
func (s *Schema) Dimension(name string) (col string, vocab []string, err error) {
	q := s.Questions
	switch name {
	case "age":
		return q.Age, nil, nil
	case "gender":
		return q.Gender, nil, nil
	case "region":
		return q.Region, nil, nil
	case "play-style":
		return q.PlayStyle, nil, nil
	case "bands-music":
		return q.BandsMusic, s.Vocabularies.Bands, nil
	case "bands-chara":
		return q.BandsChara, s.Vocabularies.Bands, nil
	case "characters":
		return q.Characters, s.Vocabularies.Characters, nil
	case "character-reasons":
		return q.CharacterReasons, s.Vocabularies.CharacterReasons, nil
	case "other-games-idol":
		return q.OtherGamesIdol, nil, nil
	case "other-games-rhythm":
		return q.OtherGamesRhythm, nil, nil
	case "franchise-participation":
		return q.FranchiseParticipation, nil, nil
	default:
		return "", nil, fmt.Errorf("unknown dimension %q", name)
	}
}

// Dimensions lists the names accepted by Dimension.
func Dimensions() []string {
	return []string{
		"age", "gender", "region", "play-style", "bands-music", "bands-chara",
		"characters", "character-reasons", "other-games-idol", "other-games-rhythm",
		"franchise-participation",
	}
}
