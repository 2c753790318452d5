package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/supreme-chocomint/bandori-2019-stats/internal/config"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/mining"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/rules"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set bandori-stats configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("min_support: %.4f\n", cfg.MinSupport)
		fmt.Printf("algorithm: %s\n", cfg.Algorithm)
		fmt.Printf("metric: %s\n", cfg.Metric)
		fmt.Printf("metric_threshold: %.4f\n", cfg.MetricThreshold)
		if cfg.SchemaFile != "" {
			fmt.Printf("schema_file: %s\n", cfg.SchemaFile)
		}
		if cfg.SheetName != "" {
			fmt.Printf("sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Printf("export_dir: %s\n", cfg.ExportDir)
		fmt.Printf("report_top: %d\n", cfg.ReportTop)
		fmt.Printf("workers: %d\n", cfg.Workers)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "min_support":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("invalid float for min_support: %v (use 0..1)", val)
			}
			cfg.MinSupport = f
		case "algorithm":
			switch val {
			case mining.AlgorithmFPGrowth, mining.AlgorithmApriori:
				cfg.Algorithm = val
			default:
				return fmt.Errorf("invalid algorithm: %s (use fpgrowth or apriori)", val)
			}
		case "metric":
			switch val {
			case rules.MetricSupport, rules.MetricConfidence, rules.MetricLift, rules.MetricLeverage, rules.MetricConviction:
				cfg.Metric = val
			default:
				return fmt.Errorf("invalid metric: %s", val)
			}
		case "metric_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for metric_threshold: %w", err)
			}
			cfg.MetricThreshold = f
		case "schema_file":
			cfg.SchemaFile = val
		case "sheet_name":
			cfg.SheetName = val
		case "export_dir":
			cfg.ExportDir = val
		case "report_top":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for report_top: %v", val)
			}
			cfg.ReportTop = i
		case "workers":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for workers: %v", val)
			}
			cfg.Workers = i
		default:
			return fmt.Errorf("unknown key: %s (use one of %v)", key, cfgpkg.Keys)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
