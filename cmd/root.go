package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drpal/commandments/config"
	"github.com/drpal/commandments/utils"
)

var rootCmd = &cobra.Command{
	Use:   "commandments",
	Short: "Daily habit scoring service",
	Long: `Dr. Pal's ten commandments: a daily habit scoring service.

Users tick off completed habits once per day, earn ten points per habit,
build streaks, log water, and compete on a shared leaderboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		return utils.InitLogger(cfg)
	},
	RunE: runServe,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reconcileCmd)
}
