package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Agentic investment advisor - simulated AI stock-picking pipeline",
	Long: `Agentic investment advisor.

Orchestrates a five-stage AI pipeline: trending tickers from social
chatter, a search-grounded financial summary, candidate narrowing,
schema-validated trade recommendations, and a simulated portfolio
valuation update.

Usage:
  go run ./cmd/advisor [command]

Examples:
  go run ./cmd/advisor api
  go run ./cmd/advisor cycle
  go run ./cmd/advisor cycle --strategy "focus on small caps"`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
