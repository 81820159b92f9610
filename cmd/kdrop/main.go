// kdrop fetches the article of the day, asks Gemini for an analysis
// and drops the resulting note into an Obsidian vault.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	cfgPath string
	verbose bool

	// Logger
	logger   *zap.Logger
	logLevel zap.AtomicLevel
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "kdrop",
	Short: "kdrop - daily knowledge drop for your Obsidian vault",
	Long: `kdrop runs a small daily pipeline: pick the day's content source,
fetch an article (walking a fallback chain when a source is down),
fetch the Daily Stoic quote, generate a three-section analysis with
Gemini and write the assembled note into your Obsidian vault.

Run "kdrop run" for a single drop or "kdrop schedule" to keep it
running on a cron schedule.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if verbose {
			logLevel.SetLevel(zapcore.DebugLevel)
		}
		config := zap.NewProductionConfig()
		config.Level = logLevel
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "kdrop.yaml", "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	// Secrets and the vault location live in .env during development.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
