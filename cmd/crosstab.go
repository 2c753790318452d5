package cmd

import (
	"fmt"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/crosstab"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/report"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/survey"
	"github.com/spf13/cobra"
)

var (
	ctBy          string
	ctAnswer      string
	ctNormalize   string
	ctCoreRegions bool
	ctTranspose   bool
	ctOutput      string
	ctHTML        bool
)

var crosstabCmd = &cobra.Command{
	Use:   "crosstab <file>",
	Short: "Tabulate answers by age, gender or region",
	Long: `crosstab counts answers per demographic group.

Multi-answer questions (bands, characters, reasons) give, per group, the share
of respondents who picked each answer. Single-answer questions give a plain
crosstab that --normalize can turn into shares of rows, columns or the total.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch ctBy {
		case "age", "gender", "region":
		default:
			return fmt.Errorf("unsupported --by: %s (use age|gender|region)", ctBy)
		}
		norm, err := crosstab.ParseNormalize(ctNormalize)
		if err != nil {
			return err
		}
		t, schema, err := loadSurvey(args[0])
		if err != nil {
			return err
		}
		groupCol, _, err := schema.Dimension(ctBy)
		if err != nil {
			return err
		}
		answerCol, vocab, err := schema.Dimension(ctAnswer)
		if err != nil {
			return fmt.Errorf("%w (use one of %v)", err, survey.Dimensions())
		}

		t = schema.Prepare(t)
		var order []string
		switch ctBy {
		case "age":
			t = schema.FilterAge(t)
			order = schema.AgeOrder(t.Unique(groupCol))
		case "gender":
			t = schema.FilterGender(t)
		case "region":
			t = schema.FilterRegion(t, !ctCoreRegions)
			order = schema.RegionOrder(!ctCoreRegions)
		}

		var ct *crosstab.Table
		percent := true
		if vocab != nil {
			ct, err = crosstab.GroupCounts(t, groupCol, answerCol, vocab, schema.NoResponse)
		} else {
			ct, err = crosstab.Crosstab(t, groupCol, answerCol, schema.NoResponse, norm)
			percent = norm != crosstab.NormalizeNone
		}
		if err != nil {
			return err
		}
		if order != nil {
			ct = ct.Reorder(order)
		}
		if ctTranspose {
			ct = ct.Transpose()
		}
		title := fmt.Sprintf("%s by %s", ctAnswer, ctBy)
		return writeReport(title, report.Crosstab(ct, title, percent), ctOutput, ctHTML)
	},
}

func init() {
	rootCmd.AddCommand(crosstabCmd)
	crosstabCmd.Flags().StringVar(&ctBy, "by", "age", "group by: age|gender|region")
	crosstabCmd.Flags().StringVar(&ctAnswer, "answer", "bands-music", "question to tabulate (e.g. bands-music, characters, play-style)")
	crosstabCmd.Flags().StringVar(&ctNormalize, "normalize", "none", "single-answer questions: none|rows|columns|all")
	crosstabCmd.Flags().BoolVar(&ctCoreRegions, "core-regions", true, "region: only regions with large samples")
	crosstabCmd.Flags().BoolVar(&ctTranspose, "transpose", false, "swap rows and columns")
	crosstabCmd.Flags().StringVarP(&ctOutput, "output", "o", "", "write the report to a file instead of stdout")
	crosstabCmd.Flags().BoolVar(&ctHTML, "html", false, "render the report as HTML")
}
