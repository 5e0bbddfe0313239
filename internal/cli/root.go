// Package cli implements the geoscope command line interface
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/geoscope/geoscope/internal/collector"
	"github.com/geoscope/geoscope/internal/config"
	"github.com/geoscope/geoscope/internal/db"
	"github.com/geoscope/geoscope/internal/db/mongodb"
	"github.com/geoscope/geoscope/internal/db/sqlite"
	"github.com/geoscope/geoscope/internal/llm"
	"github.com/geoscope/geoscope/internal/llm/anthropic"
	"github.com/geoscope/geoscope/internal/llm/google"
	"github.com/geoscope/geoscope/internal/llm/ollama"
	"github.com/geoscope/geoscope/internal/llm/openai"
	"github.com/geoscope/geoscope/internal/llm/perplexity"
	"github.com/geoscope/geoscope/internal/models"
	"github.com/geoscope/geoscope/internal/scheduler"
	"github.com/geoscope/geoscope/internal/snapshot"
	"github.com/geoscope/geoscope/internal/stats"
)

var (
	cfgFile      string
	cfg          *config.Config
	database     db.Database
	store        *snapshot.Store
	llmRegistry  *llm.Registry
	coll         *collector.Collector
	sched        *scheduler.Scheduler
	statsService *stats.Service
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "geoscope",
	Short: "AI visibility tracker for LLM answers",
	Long: `Geoscope measures how visible a brand is in LLM answers. It issues
tracked keyword prompts to multiple LLM providers, detects brand mentions and
cited sources in the answers, and derives competitor rankings, mention scores
and position breakdowns from the resulting snapshots.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip wiring for the init command itself
		if cmd.Name() == "init" {
			return nil
		}

		if cfgFile == "" {
			cfgFile = config.GetConfigPath()
		}
		if !config.Exists(cfgFile) {
			return fmt.Errorf("configuration file not found. Run 'geoscope init' to create one")
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Registry lives in SQLite, the snapshot archive in MongoDB
		registryDB, err := sqlite.New(&models.Config{
			Provider: cfg.SQLDatabase.Provider,
			URI:      cfg.SQLDatabase.URI,
			Database: cfg.SQLDatabase.Database,
			Options:  cfg.SQLDatabase.Options,
		})
		if err != nil {
			return fmt.Errorf("failed to create registry database: %w", err)
		}

		archiveDB, err := mongodb.New(&models.Config{
			Provider: cfg.NoSQLDatabase.Provider,
			URI:      cfg.NoSQLDatabase.URI,
			Database: cfg.NoSQLDatabase.Database,
			Options:  cfg.NoSQLDatabase.Options,
		})
		if err != nil {
			return fmt.Errorf("failed to create archive database: %w", err)
		}

		database = db.NewHybrid(registryDB, archiveDB)
		if err := database.Connect(context.Background()); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		statsService = stats.New(archiveDB.GetDatabase())

		// Register default providers; per-LLM API keys are passed at
		// generation time from the registry configs
		llmRegistry = llm.NewRegistry()
		llmRegistry.Register(openai.New("", ""))
		llmRegistry.Register(anthropic.New("", ""))
		llmRegistry.Register(google.New("", ""))
		llmRegistry.Register(ollama.New(""))
		llmRegistry.Register(perplexity.New(""))

		store = snapshot.NewStore()
		preloadLatestSnapshot(context.Background())

		coll = collector.New(database, llmRegistry, collector.Config{
			RequestsPerMinute: cfg.Collector.RequestsPerMinute,
			Temperature:       cfg.Collector.Temperature,
			MaxRetries:        cfg.Collector.MaxRetries,
			RetryDelay:        time.Duration(cfg.Collector.RetryDelaySecs) * time.Second,
		})
		sched = scheduler.New(database, coll, store)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if database != nil {
			return database.Disconnect(context.Background())
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.geoscope/config.yaml)")

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(brandCmd)
	rootCmd.AddCommand(keywordCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(migrateCmd)
}

// preloadLatestSnapshot loads the most recent archived snapshot for the
// subject brand so dashboard commands work right after startup. Best effort:
// a fresh install has no subject and no archive.
func preloadLatestSnapshot(ctx context.Context) {
	brands, err := database.ListBrands(ctx, boolPtr(true))
	if err != nil || len(brands) == 0 {
		return
	}

	subject := brands[0]
	for _, brand := range brands {
		if brand.Subject {
			subject = brand
			break
		}
	}

	snap, err := database.LatestSnapshot(ctx, subject.Name)
	if err != nil || snap == nil {
		return
	}
	store.Set(snap)
}

func boolPtr(b bool) *bool {
	return &b
}
