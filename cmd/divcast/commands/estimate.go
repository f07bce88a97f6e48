package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate [symbol]",
	Short: "Estimate payment dates for one ticker",
	Long: `Fetches feed data for a ticker and prints the estimated last and
next dividend payment dates with their provenance.

Example:
  go run ./cmd/divcast estimate KO
  go run ./cmd/divcast estimate KO --as-of 2024-09-01
  go run ./cmd/divcast estimate KO --schedule`,
	Args: cobra.ExactArgs(1),
	RunE: runEstimate,
}

var (
	estimateAsOf     string
	estimateSchedule bool
)

func init() {
	rootCmd.AddCommand(estimateCmd)

	estimateCmd.Flags().StringVar(&estimateAsOf, "as-of", "", "reference date (YYYY-MM-DD, default today)")
	estimateCmd.Flags().BoolVar(&estimateSchedule, "schedule", false, "also print the projected payment schedule")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(args[0])

	asOf, err := parseAsOfFlag(estimateAsOf)
	if err != nil {
		return err
	}

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx := context.Background()
	est, err := d.service.Estimate(ctx, symbol, asOf)
	if err != nil {
		return fmt.Errorf("estimate %s: %w", symbol, err)
	}

	fmt.Printf("Symbol:             %s\n", est.Symbol)
	fmt.Printf("Frequency:          %s (cycle %d days, gap %d days)\n",
		est.Frequency, est.CycleDays, est.GapDays)
	fmt.Printf("Calendar:           %s\n", est.CalendarFreshness)
	fmt.Printf("Last payment:       %s  [%s]\n",
		formatDate(est.EstimatedLastPaymentDate), est.LastPayment.Method)
	fmt.Printf("Next payment:       %s  [%s]\n",
		formatDate(est.EstimatedNextPaymentDate), est.NextPayment.Method)
	fmt.Printf("Confidence:         +/- %d days\n", est.ConfidenceDays)
	if est.DividendRate > 0 {
		fmt.Printf("Dividend rate:      %.4f  [%s]\n", est.DividendRate, est.DividendRateMethod)
	}
	if est.PayoutRatio > 0 {
		fmt.Printf("Payout ratio:       %.4f  [%s]\n", est.PayoutRatio, est.PayoutRatioMethod)
	}

	if estimateSchedule {
		dates, err := d.service.Schedule(ctx, symbol, asOf)
		if err != nil {
			return fmt.Errorf("schedule %s: %w", symbol, err)
		}
		fmt.Println("\nProjected payments:")
		for _, date := range dates {
			fmt.Printf("  %s\n", date.Format("2006-01-02"))
		}
	}

	return nil
}

// parseAsOfFlag resolves an optional --as-of value, defaulting to now.
func parseAsOfFlag(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
	}
	return parsed, nil
}

// formatDate renders a nullable date.
func formatDate(t *time.Time) string {
	if t == nil {
		return "(unknown)"
	}
	return t.Format("2006-01-02")
}
