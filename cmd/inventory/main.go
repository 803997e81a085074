package main

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rl1809/inventory-tracker/internal/config"
	"github.com/rl1809/inventory-tracker/internal/core/service"
	"github.com/rl1809/inventory-tracker/internal/logging"
)

//go:embed demo.json
var demoScript []byte

var (
	// Global flags
	cfgFile     string
	dataFile    string
	backendName string
	verbose     bool

	// Root flags
	scriptFile string

	cfg       *config.Config
	logger    *zap.Logger
	logOutput io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Track item quantities in a persistent inventory",
	Long: `inventory keeps a mapping of item name to quantity.

Run without a subcommand to load the inventory, apply an operation script
(the built-in demo unless --script is given), log the query item and the
low-stock list, save, and print the report.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if dataFile != "" {
			cfg.DataFile = dataFile
		}
		if backendName != "" {
			cfg.Backend = backendName
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err = logging.New(cfg.Logging, logOutput)
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
	RunE: runScript,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultConfigFile, "Config file")
	rootCmd.PersistentFlags().StringVarP(&dataFile, "file", "f", "", "Inventory JSON file for the file backend")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Storage backend: file, redis, mysql or sqlite")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().StringVar(&scriptFile, "script", "", "JSON operation script to run instead of the demo")

	lowCmd.Flags().IntVar(&lowThreshold, "threshold", service.DefaultLowStockThreshold, "Low-stock threshold (overrides low_stock_threshold)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(lowCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runScript(cmd *cobra.Command, args []string) error {
	script := demoScript
	if scriptFile != "" {
		data, err := os.ReadFile(scriptFile)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		script = data
	}

	ctx := commandContext(cmd)
	b, err := openBackend(ctx, cfg, logger.Sugar())
	if err != nil {
		return err
	}
	defer b.Close()

	orchestrator := service.NewOrchestrator(b.repo, service.NewStockService(logger.Sugar()), logger.Sugar())
	_, err = orchestrator.Run(ctx, service.Plan{
		Script:            script,
		QueryItem:         cfg.QueryItem,
		LowStockThreshold: cfg.LowStockThreshold,
	})
	return err
}
