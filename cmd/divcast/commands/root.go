package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "divcast",
	Short: "Dividend payment-date estimation service",
	Long: `divcast estimates last and next dividend payment dates from
ex-dividend history and the feed's often-stale calendar.

Usage:
  go run ./cmd/divcast [command]

Examples:
  go run ./cmd/divcast api
  go run ./cmd/divcast estimate KO
  go run ./cmd/divcast batch KO MSFT AAPL
  go run ./cmd/divcast scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
