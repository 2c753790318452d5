package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/export"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/miner"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/report"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/rules"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/utils"
	"github.com/spf13/cobra"
)

var (
	mineRecipe         string
	mineMinSupport     float64
	mineAlgorithm      string
	mineMetric         string
	mineThreshold      float64
	mineMaxAntecedents int
	mineMaxConsequents int
	mineMaxRuleLength  int
	mineSortBy         []string
	mineSortAscending  []bool
	mineSearch         []string
	mineLocation       string
	mineTop            int
	mineExport         string
	mineOutput         string
	mineHTML           bool
)

var mineCmd = &cobra.Command{
	Use:   "mine <file>",
	Short: "Mine association rules for a recipe and print a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if mineRecipe == "" {
			return fmt.Errorf("--recipe is required (see 'bandori-stats recipes')")
		}
		if _, err := miner.Lookup(mineRecipe); err != nil {
			return err
		}
		loc, err := rules.ParseLocation(mineLocation)
		if err != nil {
			return err
		}
		t, schema, err := loadSurvey(args[0])
		if err != nil {
			return err
		}
		opt := minerOptions(cmd, mineMinSupport, mineAlgorithm, mineMetric, mineThreshold)
		rs, err := miner.New(t, schema, opt).Run(mineRecipe)
		if err != nil {
			return err
		}

		f := cmd.Flags()
		if f.Changed("max-antecedents") || f.Changed("max-consequents") || f.Changed("max-rule-length") ||
			f.Changed("sort-by") || f.Changed("sort-ascending") {
			org := rules.DefaultOrganizeOptions()
			org.MaxAntecedents = mineMaxAntecedents
			org.MaxConsequents = mineMaxConsequents
			org.MaxRuleLength = mineMaxRuleLength
			org.SortBy, org.SortAscending = rs.SortKeys()
			if f.Changed("sort-by") || f.Changed("sort-ascending") {
				org.SortBy = mineSortBy
				org.SortAscending = mineSortAscending
			}
			if len(org.SortBy) > 0 && len(org.SortAscending) == 0 {
				org.SortAscending = make([]bool, len(org.SortBy))
			}
			if err := rs.Organize(org); err != nil {
				return err
			}
		}
		if len(mineSearch) > 0 {
			found, err := rs.Search(mineSearch, loc, true)
			if err != nil {
				return err
			}
			rs = rs.Derive(found)
		}

		top := mineTop
		if !f.Changed("top") && cfg != nil {
			top = cfg.ReportTop
		}
		title := "Rules: " + mineRecipe
		md, err := report.Rules(rs, report.Options{Title: title, Top: top})
		if err != nil {
			return err
		}
		if err := writeReport(title, md, mineOutput, mineHTML); err != nil {
			return err
		}
		if mineExport != "" {
			written, err := export.Rules(context.Background(), mineExport, rs)
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Printf("✓ Exported rules to %s\n", p)
			}
		}
		return nil
	},
}

// minerOptions starts from the config and applies the flags the user set.
func minerOptions(cmd *cobra.Command, minSupport float64, algorithm, metric string, threshold float64) miner.Options {
	opt := miner.DefaultOptions()
	opt.Logger = logger()
	if cfg != nil {
		opt.MinSupport = cfg.MinSupport
		if cfg.Algorithm != "" {
			opt.Algorithm = cfg.Algorithm
		}
		if cfg.Metric != "" {
			opt.Metric = cfg.Metric
		}
		opt.Threshold = cfg.MetricThreshold
	}
	f := cmd.Flags()
	if f.Changed("min-support") {
		opt.MinSupport = minSupport
	}
	if f.Changed("algorithm") {
		opt.Algorithm = strings.ToLower(strings.TrimSpace(algorithm))
	}
	if f.Changed("metric") {
		opt.Metric = strings.ToLower(strings.TrimSpace(metric))
	}
	if f.Changed("threshold") {
		opt.Threshold = threshold
	}
	return opt
}

// writeReport prints md, or writes it (optionally as HTML) to output.
func writeReport(title, md, output string, asHTML bool) error {
	data := []byte(md)
	if asHTML {
		data = report.HTML(title, md)
	}
	if output == "" {
		fmt.Println(string(data))
		return nil
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return err
		}
	}
	if err := utils.SafeWriteFile(output, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("✓ Wrote report to %s\n", output)
	return nil
}

func addMiningFlags(cmd *cobra.Command, minSupport *float64, algorithm, metric *string, threshold *float64) {
	cmd.Flags().Float64Var(minSupport, "min-support", 0.01, "minimum itemset support (overrides config)")
	cmd.Flags().StringVar(algorithm, "algorithm", "fpgrowth", "frequent itemset algorithm: fpgrowth|apriori (overrides config)")
	cmd.Flags().StringVar(metric, "metric", "confidence", "rule metric: support|confidence|lift|leverage|conviction (overrides config)")
	cmd.Flags().Float64Var(threshold, "threshold", 0.3, "minimum value of --metric (overrides config)")
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().StringVarP(&mineRecipe, "recipe", "r", "", "recipe name (see 'recipes')")
	addMiningFlags(mineCmd, &mineMinSupport, &mineAlgorithm, &mineMetric, &mineThreshold)
	mineCmd.Flags().IntVar(&mineMaxAntecedents, "max-antecedents", 0, "re-organize: maximum antecedents (0 = unbounded)")
	mineCmd.Flags().IntVar(&mineMaxConsequents, "max-consequents", 0, "re-organize: maximum consequents (0 = unbounded)")
	mineCmd.Flags().IntVar(&mineMaxRuleLength, "max-rule-length", 0, "re-organize: maximum rule length (0 = unbounded)")
	mineCmd.Flags().StringSliceVar(&mineSortBy, "sort-by", nil, "re-organize: sort columns, e.g. antecedent_len,lift")
	mineCmd.Flags().BoolSliceVar(&mineSortAscending, "sort-ascending", nil, "re-organize: parallel to --sort-by (default descending)")
	mineCmd.Flags().StringSliceVar(&mineSearch, "search", nil, "keep rules containing any of these terms")
	mineCmd.Flags().StringVar(&mineLocation, "location", "all", "where --search looks: all|antecedents|consequents")
	mineCmd.Flags().IntVar(&mineTop, "top", 25, "rows per table in the report (0 = all)")
	mineCmd.Flags().StringVar(&mineExport, "export", "", "export rules to .xlsx, .csv or .db")
	mineCmd.Flags().StringVarP(&mineOutput, "output", "o", "", "write the report to a file instead of stdout")
	mineCmd.Flags().BoolVar(&mineHTML, "html", false, "render the report as HTML")
}
