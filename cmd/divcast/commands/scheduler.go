package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nolan-veed/divcast/internal/scheduler"
	"github.com/nolan-veed/divcast/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the refresh scheduler",
	Long: `Starts the scheduler daemon or inspects its jobs.

Registered jobs:
  watchlist_refresh - re-fetches every WATCHLIST ticker on SCHEDULER_REFRESH_SPEC

Example:
  go run ./cmd/divcast scheduler start
  go run ./cmd/divcast scheduler list
  go run ./cmd/divcast scheduler run watchlist_refresh
  go run ./cmd/divcast scheduler status`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job run statistics",
		RunE:  showStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	d, sched, err := initScheduler()
	if err != nil {
		return err
	}
	defer d.close()

	sched.Start()

	fmt.Println("Scheduler started")
	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	d, sched, err := initScheduler()
	if err != nil {
		return err
	}
	defer d.close()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	d, sched, err := initScheduler()
	if err != nil {
		return err
	}
	defer d.close()

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	fmt.Printf("Job %s started (running in background)\n", jobName)
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	d, sched, err := initScheduler()
	if err != nil {
		return err
	}
	defer d.close()

	stats := sched.GetJobStats()

	fmt.Println("Job statistics:")
	for jobName, stat := range stats {
		fmt.Printf("\n%s\n", jobName)
		fmt.Printf("  Schedule:   %s\n", stat.Schedule)
		fmt.Printf("  Total runs: %d\n", stat.TotalRuns)
		fmt.Printf("  Success:    %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("  Failures:   %d\n", stat.FailureCount)
		if stat.LastRun != nil {
			fmt.Printf("  Last run:   %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}
	}

	return nil
}

func initScheduler() (*deps, *scheduler.Scheduler, error) {
	d, err := initDeps()
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(d.log)
	if err := sched.AddJob(jobs.NewWatchlistRefreshJob(d.service, d.cfg, d.log)); err != nil {
		d.close()
		return nil, nil, fmt.Errorf("register refresh job: %w", err)
	}

	return d, sched, nil
}
