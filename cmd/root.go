package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	cfgpkg "github.com/supreme-chocomint/bandori-2019-stats/internal/config"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/survey"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile    string
	debug      bool
	schemaFile string
	sheetName  string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "bandori-stats",
	Short: "Mine association rules from the BanG Dream! community survey",
	Long: `bandori-stats loads the survey export (TSV, CSV or XLSX), turns multi-answer
questions into transactions, mines frequent itemsets and association rules,
and renders crosstabs and profiles over age, gender and region.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.bandori-stats/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&schemaFile, "schema", "", "survey schema YAML (default is the embedded 2019 schema)")
	rootCmd.PersistentFlags().StringVar(&sheetName, "sheet-name", "", "XLSX: sheet name to read")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{MinSupport: 0.01, Algorithm: "fpgrowth", Metric: "confidence", MetricThreshold: 0.3, ExportDir: "exports", ReportTop: 25, Workers: 4}
	}
	cfg = c
}

// logger returns the diagnostic logger: debug level on stderr with --debug,
// silent otherwise.
func logger() *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// loadSurvey reads the export at path and the schema selected by --schema or
// the config.
func loadSurvey(path string) (*survey.Table, *survey.Schema, error) {
	schema := survey.DefaultSchema()
	file := schemaFile
	if file == "" && cfg != nil {
		file = cfg.SchemaFile
	}
	if file != "" {
		s, err := survey.LoadSchema(file)
		if err != nil {
			return nil, nil, err
		}
		schema = s
	}
	opt := survey.LoadOptions{SheetName: sheetName}
	if opt.SheetName == "" && cfg != nil {
		opt.SheetName = cfg.SheetName
	}
	t, err := survey.Load(path, opt)
	if err != nil {
		return nil, nil, err
	}
	logger().Debug("survey loaded", "file", path, "rows", t.Len(), "columns", len(t.Columns()))
	return t, schema, nil
}
