package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/geoscope/geoscope/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the collection scheduler",
	Long:  `Start the scheduler and execute collection schedules on their cron expressions until interrupted.`,
	RunE:  runScheduler,
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	logger.Info("🚀 Starting Geoscope Scheduler")

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	fmt.Printf("%s✅ Scheduler is running. Press Ctrl+C to stop.%s\n", SuccessStyle, Reset)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Printf("%s⏸️  Stopping scheduler...%s\n", WarningStyle, Reset)
	sched.Stop()

	fmt.Printf("%s✅ Scheduler stopped. Goodbye!%s\n", SuccessStyle, Reset)
	return nil
}
