package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/export"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/miner"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/report"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	mbRecipes    []string
	mbMinSupport float64
	mbAlgorithm  string
	mbMetric     string
	mbThreshold  float64
	mbExportDir  string
	mbFormat     string
	mbWorkers    int
	mbReports    bool
	mbQuiet      bool
)

var mineBatchCmd = &cobra.Command{
	Use:   "mine-batch <file>",
	Short: "Run several recipes in parallel and export each rule set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names := mbRecipes
		if len(names) == 0 {
			for _, r := range miner.Recipes() {
				names = append(names, r.Name)
			}
		}
		for _, n := range names {
			if _, err := miner.Lookup(n); err != nil {
				return err
			}
		}
		switch mbFormat {
		case "xlsx", "csv", "db":
		default:
			return fmt.Errorf("unsupported --format: %s (use xlsx|csv|db)", mbFormat)
		}

		f := cmd.Flags()
		outDir := mbExportDir
		if !f.Changed("export-dir") && cfg != nil && cfg.ExportDir != "" {
			outDir = cfg.ExportDir
		}
		workers := mbWorkers
		if !f.Changed("workers") && cfg != nil {
			workers = cfg.Workers
		}
		if workers < 1 {
			workers = 1
		}
		if err := utils.EnsureDir(outDir); err != nil {
			return err
		}

		t, schema, err := loadSurvey(args[0])
		if err != nil {
			return err
		}
		m := miner.New(t, schema, minerOptions(cmd, mbMinSupport, mbAlgorithm, mbMetric, mbThreshold))

		var mu sync.Mutex
		done := 0
		progress := func(format string, a ...any) {
			if mbQuiet {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			done++
			fmt.Printf("[%d/%d] "+format+"\n", append([]any{done, len(names)}, a...)...)
		}

		g, ctx := errgroup.WithContext(context.Background())
		g.SetLimit(workers)
		for _, name := range names {
			name := name
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				rs, err := m.Run(name)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				base := filepath.Join(outDir, utils.Slug(name))
				if _, err := export.Rules(ctx, base+"."+mbFormat, rs); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				if mbReports {
					md, err := report.Rules(rs, report.Options{Title: "Rules: " + name, Top: cfgReportTop()})
					if err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
					if err := utils.SafeWriteFile(base+".md", []byte(md)); err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
				}
				progress("✓ %s: %d rules → %s.%s", name, len(rs.Table()), base, mbFormat)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if !mbQuiet {
			fmt.Printf("✓ Mined %d recipes into %s\n", len(names), outDir)
		}
		return nil
	},
}

func cfgReportTop() int {
	if cfg != nil {
		return cfg.ReportTop
	}
	return 25
}

func init() {
	rootCmd.AddCommand(mineBatchCmd)
	mineBatchCmd.Flags().StringSliceVarP(&mbRecipes, "recipe", "r", nil, "recipes to run (default: all)")
	addMiningFlags(mineBatchCmd, &mbMinSupport, &mbAlgorithm, &mbMetric, &mbThreshold)
	mineBatchCmd.Flags().StringVar(&mbExportDir, "export-dir", "exports", "directory for exported rule sets (overrides config)")
	mineBatchCmd.Flags().StringVar(&mbFormat, "format", "xlsx", "export format: xlsx|csv|db")
	mineBatchCmd.Flags().IntVar(&mbWorkers, "workers", 4, "recipes mined concurrently (overrides config)")
	mineBatchCmd.Flags().BoolVar(&mbReports, "reports", false, "also write a Markdown report per recipe")
	mineBatchCmd.Flags().BoolVar(&mbQuiet, "quiet", false, "suppress progress and non-essential output")
}
