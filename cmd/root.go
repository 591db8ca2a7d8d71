package cmd

import (
	"fmt"
	"os"

	"learnbase/config"
	"learnbase/database"
	"learnbase/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile           string
	dbPath            string // Bound to --dbpath flag
	appLogPathFlag    string
	accessLogPathFlag string
	logLevelFlag      string
)

var rootCmd = &cobra.Command{
	Use:   "learnbase",
	Short: "A personal knowledge base for learning notes",
	Long: `learnbase keeps markdown learning notes grouped by category and tagged,
serves them as a small web application with search and image uploads, and
offers command line access to the same store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(cfgFile, appLogPathFlag, accessLogPathFlag, logLevelFlag); err != nil {
			return fmt.Errorf("failed to initialize config in PersistentPreRunE: %w", err)
		}

		finalDBPath := config.AppConfig.Database.Path
		if dbPath != "" {
			finalDBPath = config.ExpandTilde(config.DatabasePath(dbPath))
			logger.Info("PersistentPreRunE: Using database path from --dbpath flag: '%s'", finalDBPath)
		}
		if finalDBPath == "" {
			logger.Error("PersistentPreRunE: Database path is empty after checking flag and config! Falling back to 'learnbase.db' in CWD.")
			finalDBPath = "learnbase.db"
		}
		config.AppConfig.Database.Path = finalDBPath

		logger.Info("PersistentPreRunE: Attempting to InitDB with final path: '%s'", finalDBPath)
		if err := database.InitDB(finalDBPath); err != nil {
			return fmt.Errorf("failed to initialize database at %s: %w", finalDBPath, err)
		}

		if config.AppConfig.Database.SeedSample {
			if seeded, err := database.SeedSampleNote(); err != nil {
				logger.Error("PersistentPreRunE: Seeding sample note failed: %v", err)
			} else if seeded {
				logger.Info("PersistentPreRunE: Seeded the sample note into an empty database.")
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return database.Close()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/learnbase/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "dbpath", "", "path to SQLite database file or sqlite:/// URL (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&appLogPathFlag, "app-log", "", "path for the application log file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&accessLogPathFlag, "access-log", "", "path for the HTTP access log file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR (overrides config/default)")
}
