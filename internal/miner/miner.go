package miner

import (
	"io"
	"log/slog"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/mining"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/rules"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/survey"
)

// Options are the pipeline parameters shared by every recipe.
type Options struct {
	// MinSupport discards itemsets rarer than this fraction of respondents.
	MinSupport float64
	Algorithm  string
	Metric     string
	Threshold  float64
	Organize   rules.OrganizeOptions
	Logger     *slog.Logger
}

// DefaultOptions keeps itemsets of at least ~1% of respondents and rules with
// 30% confidence, then keeps single-antecedent rules sorted by lift.
func DefaultOptions() Options {
	org := rules.DefaultOrganizeOptions()
	org.MaxAntecedents = 1
	org.SortBy = []string{rules.ColLift}
	org.SortAscending = []bool{false}
	return Options{
		MinSupport: 0.01,
		Algorithm:  mining.AlgorithmFPGrowth,
		Metric:     rules.MetricConfidence,
		Threshold:  0.3,
		Organize:   org,
	}
}

// Miner runs the mining pipeline over one cleaned survey table. It never
// modifies the table, so one Miner may serve concurrent calls.
type Miner struct {
	table  *survey.Table
	schema *survey.Schema
	opt    Options
	log    *slog.Logger
}

// New prepares t with schema and returns a Miner over it.
func New(t *survey.Table, schema *survey.Schema, opt Options) *Miner {
	if schema == nil {
		schema = survey.DefaultSchema()
	}
	log := opt.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Miner{table: schema.Prepare(t), schema: schema, opt: opt, log: log}
}

// Table returns the cleaned table the miner works on.
func (m *Miner) Table() *survey.Table { return m.table }

// Schema returns the survey schema in use.
func (m *Miner) Schema() *survey.Schema { return m.schema }

// Options returns the pipeline parameters.
func (m *Miner) Options() Options { return m.opt }

// Mine builds transactions from columns, mines frequent itemsets, derives
// rules and organizes them with the miner's options.
func (m *Miner) Mine(columns []string, vocabularies [][]string) (*rules.RuleSet, error) {
	return m.mine(columns, vocabularies, m.opt.Threshold, m.opt.Organize)
}

func (m *Miner) mine(columns []string, vocabularies [][]string, threshold float64, org rules.OrganizeOptions) (*rules.RuleSet, error) {
	itemsets, err := m.frequent(columns, vocabularies)
	if err != nil {
		return nil, err
	}
	tbl, err := rules.Generate(itemsets, m.opt.Metric, threshold)
	if err != nil {
		return nil, err
	}
	rs := rules.New(tbl)
	if err := rs.Organize(org); err != nil {
		return nil, err
	}
	organized, _ := rs.Organized()
	m.log.Debug("rules generated",
		"metric", m.opt.Metric, "threshold", threshold,
		"rules", len(tbl), "organized", len(organized), "ruleset", rs.ID())
	return rs, nil
}

// Itemsets runs the first half of the pipeline and returns the frequent
// itemsets, without singletons when removeSingles is set.
func (m *Miner) Itemsets(columns []string, vocabularies [][]string, removeSingles bool) ([]mining.Itemset, error) {
	sets, err := m.frequent(columns, vocabularies)
	if err != nil {
		return nil, err
	}
	return mining.FilterItemsets(sets, removeSingles), nil
}

func (m *Miner) frequent(columns []string, vocabularies [][]string) ([]mining.Itemset, error) {
	txs, err := mining.BuildTransactions(m.table, columns, vocabularies, m.schema.NoResponse)
	if err != nil {
		return nil, err
	}
	matrix := mining.Encode(txs)
	sets, err := mining.FrequentItemsets(matrix, m.opt.MinSupport, m.opt.Algorithm)
	if err != nil {
		return nil, err
	}
	m.log.Debug("itemsets mined",
		"columns", len(columns), "transactions", len(txs), "tokens", len(matrix.Columns),
		"algorithm", m.opt.Algorithm, "min_support", m.opt.MinSupport, "itemsets", len(sets))
	return sets, nil
}
