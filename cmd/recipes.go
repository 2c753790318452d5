package cmd

import (
	"fmt"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/miner"
	"github.com/spf13/cobra"
)

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "List the available mining recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, r := range miner.Recipes() {
			fmt.Printf("- %s: %s\n", r.Name, r.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recipesCmd)
}
