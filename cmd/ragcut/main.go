// Command ragcut runs the retrieval pipeline from the command line: load
// documents into an in-memory store, build their co-occurrence indices,
// then run a multi-topic query and print the rendered super chunks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kxddry/ragcut/internal/config"
	"github.com/kxddry/ragcut/internal/logging"
	"github.com/kxddry/ragcut/internal/storage"
)

var (
	configPath string
	logLevel   string

	appConfig *config.AppConfig
	store     *storage.Memory
)

var rootCmd = &cobra.Command{
	Use:   "ragcut",
	Short: "Pack the most relevant chunks of a document set into paste-ready super chunks",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(logLevel)
		store = storage.New()

		if configPath != "" {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			appConfig = cfg
			return nil
		}
		cfg, _, err := config.LoadDefault()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		appConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config YAML (defaults to ./config.yaml or ~/.config/ragcut/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(queryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
