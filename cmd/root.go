package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/farewatch/farewatch/internal/amadeus"
	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/internal/iocache"
	"github.com/farewatch/farewatch/schema"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// historyManager is the global price history manager instance.
var historyManager contract.HistoryManager = iocache.Manager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "farewatch",
	Short: "Track round-trip flight fares and alert on price drops.",
	Long: `Farewatch scans configured trips against the Amadeus flight APIs, keeps a
price history per trip and cabin, and posts a Slack alert when fares fall
below their rolling average.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Secrets may live in a local .env file; a missing file is fine.
	_ = godotenv.Load()

	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".farewatch") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("FAREWATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Keys without flags still need defaults so Unmarshal sees their env values.
	viper.SetDefault("amadeus-api-key", "")
	viper.SetDefault("amadeus-api-secret", "")
	viper.SetDefault("slack-webhook-url", "")
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("history-backend", schema.SQLiteBackend)
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("top-offers", contract.DefaultTopOffers)
	viper.SetDefault("max-pairs", contract.DefaultMaxPairs)
	viper.SetDefault("color", "yes")
}

// loadConfig unmarshals config from all sources and runs validation.
func loadConfig() error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	color.NoColor = color.NoColor || !cfg.UseColors
	return nil
}

// sharedSetup loads the config and opens the history store.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// configSetupWrapper loads the config without touching the history store.
func configSetupWrapper(_ *cobra.Command, _ []string) error {
	return loadConfig()
}

// newSearcher builds the Amadeus client once credentials are known to be present.
func newSearcher() (*amadeus.Client, error) {
	if err := cfg.RequireProviderCredentials(); err != nil {
		return nil, err
	}
	return amadeus.NewClientFromConfig(cfg), nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetHistoryManager sets the global history manager.
func SetHistoryManager(mgr contract.HistoryManager) {
	historyManager = mgr
}
