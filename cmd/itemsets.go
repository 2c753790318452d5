package cmd

import (
	"fmt"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/export"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/miner"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/report"
	"github.com/spf13/cobra"
)

var (
	isRecipe      string
	isMinSupport  float64
	isAlgorithm   string
	isKeepSingles bool
	isTop         int
	isExport      string
	isOutput      string
	isHTML        bool
)

var itemsetsCmd = &cobra.Command{
	Use:   "itemsets <file>",
	Short: "List the frequent itemsets behind a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if isRecipe == "" {
			return fmt.Errorf("--recipe is required (see 'bandori-stats recipes')")
		}
		if _, err := miner.Lookup(isRecipe); err != nil {
			return err
		}
		t, schema, err := loadSurvey(args[0])
		if err != nil {
			return err
		}
		opt := minerOptions(cmd, isMinSupport, isAlgorithm, "", 0)
		sets, err := miner.New(t, schema, opt).RunItemsets(isRecipe, !isKeepSingles)
		if err != nil {
			return err
		}
		title := "Itemsets: " + isRecipe
		if err := writeReport(title, report.Itemsets(sets, report.Options{Title: title, Top: isTop}), isOutput, isHTML); err != nil {
			return err
		}
		if isExport != "" {
			if err := export.Itemsets(isExport, sets); err != nil {
				return err
			}
			fmt.Printf("✓ Exported %d itemsets to %s\n", len(sets), isExport)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(itemsetsCmd)
	itemsetsCmd.Flags().StringVarP(&isRecipe, "recipe", "r", "", "recipe name (see 'recipes')")
	itemsetsCmd.Flags().Float64Var(&isMinSupport, "min-support", 0.01, "minimum itemset support (overrides config)")
	itemsetsCmd.Flags().StringVar(&isAlgorithm, "algorithm", "fpgrowth", "frequent itemset algorithm: fpgrowth|apriori (overrides config)")
	itemsetsCmd.Flags().BoolVar(&isKeepSingles, "keep-singles", false, "include single-answer itemsets")
	itemsetsCmd.Flags().IntVar(&isTop, "top", 50, "rows in the report (0 = all)")
	itemsetsCmd.Flags().StringVar(&isExport, "export", "", "export itemsets to .xlsx or .csv")
	itemsetsCmd.Flags().StringVarP(&isOutput, "output", "o", "", "write the report to a file instead of stdout")
	itemsetsCmd.Flags().BoolVar(&isHTML, "html", false, "render the report as HTML")
}
