package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoscope/geoscope/internal/api"
)

var apiWithScheduler bool

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Start the REST API server that backs the dashboard. With --scheduler
the collection scheduler runs in the same process.`,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().BoolVar(&apiWithScheduler, "scheduler", false, "also run the collection scheduler")
}

func runAPI(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if apiWithScheduler {
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()
	}

	server := api.NewServer(database, store, sched, cfg.API).WithStats(statsService)

	fmt.Printf("%s🌐 Geoscope API%s\n", HeaderStyle, Reset)
	fmt.Printf("%sListening on %s:%s%s\n", LabelStyle, cfg.API.Host, cfg.API.Port, Reset)
	if store.Get() != nil {
		fmt.Printf("%sLive snapshot loaded%s\n", DimStyle, Reset)
	} else {
		fmt.Printf("%sNo snapshot loaded yet - run 'geoscope collect' first%s\n", WarningStyle, Reset)
	}

	return server.Run(cfg.API.Host, cfg.API.Port)
}
