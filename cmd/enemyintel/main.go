// Command enemyintel serves and queries Elden Ring enemy statistics with
// cached tactical advice.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"enemyintel/internal/config"
	"enemyintel/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOut    bool
	ngLevel    string
	timeout    time.Duration

	cfg *config.Config
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "enemyintel",
		Short: "Elden Ring enemy stats with tactical advice",
		Long: `enemyintel ingests the enemy stats workbook (one sheet per NG level),
answers name, region and aggregate queries, and attaches reasoning-service
advice that is cached per enemy instance and per region.

Run "enemyintel serve" to start the HTTP API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			opts := cfg.Logging.Options()
			if verbose {
				opts.DebugMode = true
			}
			if err := logging.Initialize(opts); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "enemyintel.yaml", "Config file (missing file = defaults)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print raw JSON")
	root.PersistentFlags().StringVar(&ngLevel, "ng", "NG", "NG level (NG, NG+, NG+2 ... NG+7)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	root.AddCommand(
		newServeCmd(),
		newReloadCmd(),
		newHealthCmd(),
		newSearchCmd(),
		newEnemyCmd(),
		newRegionCmd(),
		newRegionEnemiesCmd(),
		newColumnsCmd(),
		newCacheCmd(),
		newConfigCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
