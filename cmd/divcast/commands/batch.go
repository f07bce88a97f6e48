package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [symbols...]",
	Short: "Estimate payment dates for many tickers",
	Long: `Evaluates several tickers through the bounded worker pool and
prints one line per ticker.

Example:
  go run ./cmd/divcast batch KO MSFT AAPL
  go run ./cmd/divcast batch KO MSFT --workers 8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

var (
	batchAsOf    string
	batchWorkers int
)

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchAsOf, "as-of", "", "reference date (YYYY-MM-DD, default today)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "concurrent feed fetches")
}

func runBatch(cmd *cobra.Command, args []string) error {
	symbols := make([]string, 0, len(args))
	for _, arg := range args {
		symbols = append(symbols, strings.ToUpper(arg))
	}

	asOf, err := parseAsOfFlag(batchAsOf)
	if err != nil {
		return err
	}

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	items := d.service.WithWorkers(batchWorkers).EstimateBatch(context.Background(), symbols, asOf)

	failed := 0
	for _, item := range items {
		if item.Error != "" {
			failed++
			fmt.Printf("%-8s ERROR  %s\n", item.Symbol, item.Error)
			continue
		}
		est := item.Estimate
		fmt.Printf("%-8s last=%s next=%s  %s (+/- %dd)\n",
			item.Symbol,
			formatDate(est.EstimatedLastPaymentDate),
			formatDate(est.EstimatedNextPaymentDate),
			est.EstimationMethod, est.ConfidenceDays)
	}

	fmt.Printf("\n%d of %d succeeded\n", len(items)-failed, len(items))
	return nil
}
