package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alecgard/apicatalog/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "apicatalog",
	Short: "apicatalog - RFC 9727 API catalog server",
	Long:  "apicatalog publishes an RFC 9727 /.well-known/api-catalog linkset describing the APIs behind a host, resolving the public origin from the request or a fixed setting.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is normal.
		_ = godotenv.Load()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/apicatalog.yaml)")
}

// loadConfig reads and validates the config named by --config.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("configs/apicatalog.yaml"); err == nil {
			path = "configs/apicatalog.yaml"
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
