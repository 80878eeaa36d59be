package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperflow/backend/internal/infrastructure/config"
	"github.com/hyperflow/backend/internal/infrastructure/logger"
	"github.com/hyperflow/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

var (
	migrationsPath string
	logLevel       string
	log            *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "HyperFlow database migration tool",
	Long: `Apply and manage the PostgreSQL schema of the HyperFlow backend.

Connection settings come from config.toml and HF_DATABASE_* environment
variables. Without --path the migrations compiled into the binary are used.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.New(config.LogConfig{Level: logLevel, Format: "console", Output: "stdout"}, "development")
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "migrations directory (default: embedded migrations)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// openMigrator connects to the configured database. The caller closes the
// migrator, which also closes the connection.
func openMigrator() (*migration.Migrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("migrations target postgres, configured driver is %q", cfg.Database.Driver)
	}

	if migrationsPath != "" {
		abs, err := filepath.Abs(migrationsPath)
		if err != nil {
			return nil, fmt.Errorf("resolve migrations path: %w", err)
		}
		log.Info("Using migrations from disk", zap.String("path", abs))
		return migration.NewFromURL(cfg.Database.DSN(), abs, log)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	m, err := migration.New(db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

// withMigrator runs fn against an open migrator
func withMigrator(fn func(m *migration.Migrator) error) error {
	m, err := openMigrator()
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return fn(m)
}

// sourceDir is the on-disk directory used by create and list
func sourceDir() string {
	if migrationsPath != "" {
		return migrationsPath
	}
	return defaultMigrationsPath
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
