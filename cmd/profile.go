package cmd

import (
	"path/filepath"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/survey"
	"github.com/spf13/cobra"
)

var (
	profAll        bool
	profTop        int
	profSampleRows int
	profNoSplit    bool
	profOutput     string
	profHTML       bool
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Summarize answers per question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, schema, err := loadSurvey(args[0])
		if err != nil {
			return err
		}
		if !profAll {
			t = schema.Prepare(t)
		}
		opt := survey.DefaultProfileOptions()
		opt.NoResponse = schema.NoResponse
		opt.SplitMulti = !profNoSplit
		if profTop > 0 {
			opt.TopAnswers = profTop
		}
		opt.SampleRows = profSampleRows
		rep := survey.Profile(filepath.Base(args[0]), t, opt)
		return writeReport("Survey profile", rep.Markdown(), profOutput, profHTML)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().BoolVar(&profAll, "all-columns", false, "profile every column, not only the schema's questions")
	profileCmd.Flags().IntVar(&profTop, "top", 8, "answers listed per question")
	profileCmd.Flags().IntVar(&profSampleRows, "sample-rows", 0, "number of sample rows to include")
	profileCmd.Flags().BoolVar(&profNoSplit, "no-split", false, "count whole answers instead of splitting multi-answer questions")
	profileCmd.Flags().StringVarP(&profOutput, "output", "o", "", "write the report to a file instead of stdout")
	profileCmd.Flags().BoolVar(&profHTML, "html", false, "render the report as HTML")
}
