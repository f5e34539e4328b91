package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
)

// cycleCmd runs one investment cycle from the terminal
var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run one investment cycle and print the recommendations",
	Long: `Runs the five-stage pipeline once:

S1: Trend Detection (Grok primary, Gemini fallback)
S2: Financial Summary (search-grounded, with citations)
S3: Candidate Selection
S4: Trade Recommendation (schema-validated, exactly 5 or error)
S5: Valuation Update

Example:
  go run ./cmd/advisor cycle
  go run ./cmd/advisor cycle --strategy "focus on small caps"`,
	RunE: runCycle,
}

var cycleStrategy string

func init() {
	rootCmd.AddCommand(cycleCmd)
	cycleCmd.Flags().StringVar(&cycleStrategy, "strategy", "", "investment strategy text (default: built-in strategy)")
}

func runCycle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := wire(ctx)
	if err != nil {
		return err
	}

	if cycleStrategy != "" {
		if err := a.store.SetStrategy(cycleStrategy); err != nil {
			return err
		}
	}

	if err := a.orchestrator.RunCycle(ctx); err != nil {
		return fmt.Errorf("cycle failed: %s", err)
	}

	snap := a.store.Snapshot()

	fmt.Println("=== Stage outputs ===")
	for _, stage := range contracts.AllStages() {
		out, ok := snap.StageOutputs[stage]
		if !ok {
			continue
		}
		fmt.Printf("\n[%s] %s\n%s\n", stage.ShortName(), stage.DisplayName(), out.Text)
		for _, src := range out.Sources {
			fmt.Printf("  source: %s (%s)\n", src.Title, src.URI)
		}
	}

	fmt.Println("\n=== Recommended trades ===")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TICKER\tSTRATEGY\tLEGS\tPOP\tTHESIS")
	for _, t := range snap.Trades {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n", t.Ticker, t.Strategy, t.Legs, t.POP, t.Thesis)
	}
	w.Flush()

	last := snap.PortfolioHistory[len(snap.PortfolioHistory)-1]
	fmt.Printf("\nPortfolio value (day %d): $%d\n", last.Day, last.Value)

	return nil
}
