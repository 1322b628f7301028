package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// statusCmd prints the latest stored signals.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the latest signals from the store",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	rows, err := a.store.AllRows(ctx)
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}
	fmt.Printf("Series rows: %d\n", len(rows))
	if len(rows) > 0 {
		fmt.Printf("Latest date: %s\n", rows[len(rows)-1].Date.Format("2006-01-02"))
	}

	signals, err := a.signals.LatestSignals(ctx)
	if err != nil {
		return fmt.Errorf("load signals: %w", err)
	}
	if len(signals) == 0 {
		fmt.Println("No signals stored yet")
		return nil
	}

	fmt.Println()
	for _, sig := range signals {
		name := sig.Code
		if inst, ok := a.strategy.Instrument(sig.Code); ok {
			name = inst.Name
		}
		fmt.Printf("%-40s score %6.2f  highlight %-6s", name, sig.Score, sig.Highlight)
		if len(sig.Alerts) > 0 {
			fmt.Printf("  %s", strings.Join(sig.Alerts, " | "))
		}
		fmt.Println()
	}
	return nil
}
