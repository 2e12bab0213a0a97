// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the reference-archive CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/reference-archive/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	logger  = zap.NewNop()
	verbose bool
)

// rootCmd archives the references of a document. Maintenance commands hang
// off it as subcommands.
var rootCmd = &cobra.Command{
	Use:   "reference-archive INPUT TARGET",
	Short: "Archive the web pages, files, and DOIs cited in a bibliography",
	Long: `reference-archive reads a plain-text document, finds numbered references
("[12] ... https://..." or "[12] ... doi: 10.xxxx/...") and saves what each
one points at into TARGET, named by reference number:

  HTML pages     TARGET/<id>.mhtml   snapshot of the rendered page
  other files    TARGET/<id>.<ext>   extension from the Content-Type
  DOIs           TARGET/<id>.pdf     full text located through the mirror

Files that already exist are skipped (DOIs are always fetched again), so the
command can be re-run until every reference succeeds. Failures are reported
per reference and do not stop the run.`,
	Args: cobra.ExactArgs(2),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runArchive,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./reference-archive.yaml or ~/.config/reference-archive/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")

	flags := rootCmd.Flags()
	flags.Duration("timeout", 0, "connect and response-header timeout for HTTP requests (default 60s)")
	flags.String("user-agent", "", "User-Agent header for HTTP requests")
	flags.String("mirror", "", "DOI mirror base URL (default https://sci-hub.st)")
	flags.String("browser-bin", "", "Chrome binary to launch (default: managed download)")
	flags.Bool("headless", true, "run Chrome without a window")
	flags.Bool("stealth", true, "hide automation fingerprints from visited sites")
	flags.Duration("settle-grace", 0, "extra wait after network idle before a snapshot (default 1s)")

	for key, flag := range map[string]string{
		"http.timeout":         "timeout",
		"http.user_agent":      "user-agent",
		"mirror.base_url":      "mirror",
		"browser.bin":          "browser-bin",
		"browser.headless":     "headless",
		"browser.stealth":      "stealth",
		"browser.settle_grace": "settle-grace",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	setDefaults(types.DefaultArchiveConfig())
}

// setDefaults registers every configuration key with viper so that config
// files and REFERENCE_ARCHIVE_* variables can override it.
func setDefaults(d types.ArchiveConfig) {
	viper.SetDefault("http.timeout", d.HTTP.Timeout)
	viper.SetDefault("http.user_agent", d.HTTP.UserAgent)
	viper.SetDefault("browser.bin", d.Browser.Bin)
	viper.SetDefault("browser.headless", d.Browser.Headless)
	viper.SetDefault("browser.stealth", d.Browser.Stealth)
	viper.SetDefault("browser.navigation_timeout", d.Browser.NavigationTimeout)
	viper.SetDefault("browser.idle_timeout", d.Browser.IdleTimeout)
	viper.SetDefault("browser.settle_grace", d.Browser.SettleGrace)
	viper.SetDefault("mirror.base_url", d.Mirror.BaseURL)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("reference-archive")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "reference-archive"))
		}
	}

	viper.SetEnvPrefix("REFERENCE_ARCHIVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig returns the effective configuration: flags, then environment,
// then config file, then defaults.
func loadConfig() (types.ArchiveConfig, error) {
	var cfg types.ArchiveConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.ArchiveConfig{}, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
