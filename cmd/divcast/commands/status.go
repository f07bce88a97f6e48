package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show service dependency health",
	Long: `Checks connectivity to Redis and the snapshot database and prints
the effective configuration.

Example:
  go run ./cmd/divcast status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fmt.Printf("Environment:  %s\n", d.cfg.Env)
	fmt.Printf("Feed:         %s\n", d.cfg.Feed.BaseURL)
	fmt.Printf("Cache TTL:    %s\n", d.cfg.Cache.TTL)

	if d.redis.Enabled() {
		if err := d.redis.Redis().Ping(ctx).Err(); err != nil {
			fmt.Printf("Redis:        unreachable (%v)\n", err)
		} else {
			fmt.Printf("Redis:        ok (%s:%s)\n", d.cfg.Redis.Host, d.cfg.Redis.Port)
		}
	} else {
		fmt.Println("Redis:        disabled")
	}

	if d.db != nil {
		health, err := d.db.HealthCheck(ctx)
		if err != nil {
			fmt.Printf("Database:     unhealthy (%v)\n", err)
		} else {
			fmt.Printf("Database:     ok (%s, %d/%d conns)\n",
				health.ResponseTime, health.Stats.AcquiredConns, health.Stats.MaxConns)
		}
	} else {
		fmt.Println("Database:     disabled")
	}

	return nil
}
