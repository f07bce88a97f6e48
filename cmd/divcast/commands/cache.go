package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nolan-veed/divcast/pkg/redis"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the ticker cache",
	Long: `Cache utilities.

Subcommands:
  status           - show cache connectivity
  clear [symbols]  - drop cached entries for the given tickers
  enable           - verify the cache accepts writes
  disable          - run with the cache bypassed (prints the env override)

Example:
  go run ./cmd/divcast cache status
  go run ./cmd/divcast cache clear KO MSFT`,
}

var (
	cacheStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show cache connectivity",
		RunE:  cacheStatus,
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear [symbols...]",
		Short: "Drop cached entries for tickers",
		Args:  cobra.MinimumNArgs(1),
		RunE:  cacheClear,
	}

	cacheEnableCmd = &cobra.Command{
		Use:   "enable",
		Short: "Verify the cache accepts writes",
		RunE:  cacheEnable,
	}

	cacheDisableCmd = &cobra.Command{
		Use:   "disable",
		Short: "Show how to run with the cache bypassed",
		RunE:  cacheDisable,
	}
)

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheEnableCmd)
	cacheCmd.AddCommand(cacheDisableCmd)
}

func cacheStatus(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	if !d.redis.Enabled() {
		fmt.Println("Cache: disabled (REDIS_ENABLED=false)")
		return nil
	}

	if err := d.redis.Redis().Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	fmt.Printf("Cache: connected (%s:%s, TTL %s)\n",
		d.cfg.Redis.Host, d.cfg.Redis.Port, d.cfg.Cache.TTL)
	return nil
}

func cacheClear(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx := context.Background()
	for _, arg := range args {
		symbol := strings.ToUpper(arg)
		for _, key := range []string{redis.TickerKey(symbol), redis.EstimateKey(symbol), redis.CalendarKey(symbol)} {
			if err := d.cache.Delete(ctx, key); err != nil {
				return fmt.Errorf("clear %s: %w", symbol, err)
			}
		}
		fmt.Printf("Cleared %s\n", symbol)
	}

	return nil
}

func cacheEnable(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	d.cache.Enable()
	if !d.cache.Enabled() {
		return fmt.Errorf("cache unavailable: Redis is disabled or unreachable")
	}

	// Round-trip probe
	ctx := context.Background()
	if err := d.cache.Set(ctx, "probe", "ok", redis.TTLShort); err != nil {
		return fmt.Errorf("cache write failed: %w", err)
	}
	_ = d.cache.Delete(ctx, "probe")

	fmt.Println("Cache is enabled and writable")
	return nil
}

func cacheDisable(cmd *cobra.Command, args []string) error {
	fmt.Println("Set CACHE bypass per process: REDIS_ENABLED=false")
	fmt.Println("Long-running commands (api, scheduler) pick it up at startup.")
	return nil
}
