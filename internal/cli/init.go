package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geoscope/geoscope/internal/config"
	"github.com/geoscope/geoscope/internal/db/mongodb"
	"github.com/geoscope/geoscope/internal/db/sqlite"
	"github.com/geoscope/geoscope/internal/models"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize geoscope configuration",
	Long:  `Interactive wizard to set up geoscope configuration including the registry database, the snapshot archive and the API server.`,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("🚀 Welcome to Geoscope - AI Visibility Tracker Setup")
	fmt.Println("====================================================")
	fmt.Println()

	configPath := config.GetConfigPath()
	if config.Exists(configPath) {
		fmt.Printf("Configuration file already exists at: %s\n", configPath)
		confirmed, err := promptYesNo(reader, "Do you want to overwrite it? (y/N): ")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	// Registry database
	fmt.Println("\n📊 Registry Database (SQLite)")
	fmt.Println("------------------------------")

	sqlitePath, err := promptOptional(reader, "SQLite database path [geoscope.db]: ", "geoscope.db")
	if err != nil {
		return err
	}
	cfg.SQLDatabase.URI = sqlitePath

	// Snapshot archive
	fmt.Println("\n🗄️  Snapshot Archive (MongoDB)")
	fmt.Println("------------------------------")

	mongoURI, err := promptOptional(reader, "MongoDB URI [mongodb://localhost:27017]: ", "mongodb://localhost:27017")
	if err != nil {
		return err
	}
	cfg.NoSQLDatabase.URI = mongoURI

	mongoName, err := promptOptional(reader, "MongoDB database name [geoscope]: ", "geoscope")
	if err != nil {
		return err
	}
	cfg.NoSQLDatabase.Database = mongoName

	// API server
	fmt.Println("\n🌐 API Server")
	fmt.Println("-------------")

	port, err := promptOptional(reader, "API port [8989]: ", "8989")
	if err != nil {
		return err
	}
	cfg.API.Port = port

	// Test connections
	fmt.Println("\n🔌 Testing database connections...")
	ctx := context.Background()

	registryDB, err := sqlite.New(&models.Config{
		Provider: cfg.SQLDatabase.Provider,
		URI:      cfg.SQLDatabase.URI,
		Database: cfg.SQLDatabase.Database,
	})
	if err != nil {
		return fmt.Errorf("failed to create registry database: %w", err)
	}
	if err := registryDB.Connect(ctx); err != nil {
		fmt.Printf("❌ Failed to open SQLite database: %v\n", err)
		return err
	}
	defer registryDB.Disconnect(ctx)
	fmt.Println("✅ Registry database ready!")

	archiveDB, err := mongodb.New(&models.Config{
		Provider: cfg.NoSQLDatabase.Provider,
		URI:      cfg.NoSQLDatabase.URI,
		Database: cfg.NoSQLDatabase.Database,
	})
	if err != nil {
		return fmt.Errorf("failed to create archive database: %w", err)
	}
	if err := archiveDB.Connect(ctx); err != nil {
		fmt.Printf("❌ Failed to connect to MongoDB: %v\n", err)
		fmt.Println("\nPlease check your MongoDB configuration and try again.")
		return err
	}
	defer archiveDB.Disconnect(ctx)

	if err := archiveDB.Ping(ctx); err != nil {
		fmt.Printf("❌ Failed to ping MongoDB: %v\n", err)
		return err
	}
	fmt.Println("✅ Snapshot archive connection successful!")

	fmt.Println("\n💾 Saving configuration...")
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("✅ Configuration saved to: %s\n", configPath)

	fmt.Println("\n📋 Configuration Summary")
	fmt.Println("========================")
	fmt.Printf("Registry: sqlite (%s)\n", cfg.SQLDatabase.URI)
	fmt.Printf("Archive: mongodb (%s/%s)\n", cfg.NoSQLDatabase.URI, cfg.NoSQLDatabase.Database)
	fmt.Printf("API: %s:%s\n", cfg.API.Host, cfg.API.Port)
	fmt.Println()
	fmt.Println("🎉 Setup complete! You can now use geoscope.")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Add LLM providers: geoscope llm add --name gpt --provider openai --model gpt-4o-mini --api-key KEY")
	fmt.Println("  2. Track your brand: geoscope brand add --name 'Acme' --subject")
	fmt.Println("  3. Track competitors: geoscope brand add --name 'Beta'")
	fmt.Println("  4. Add keywords: geoscope keyword add --name widgets --prompt 'What are the best {keyword}?'")
	fmt.Println("  5. Run a collection: geoscope collect")
	fmt.Println("  6. Serve the dashboard: geoscope api")

	return nil
}
