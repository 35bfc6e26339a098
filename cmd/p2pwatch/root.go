package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	verbose  bool
	logLevel string

	// cfg merges the config file, P2PWATCH_* environment variables and flags.
	cfg = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "p2pwatch",
	Short: "Forward DreamBot chat and quest events to Discord",
	Long: `p2pwatch polls the newest DreamBot log file, picks out chat exchanges
(CHAT through SLOWLY TYPING RESPONSE / BAD RESPONSE) and quest completions,
and posts them to a Discord webhook.

Settings can come from flags, P2PWATCH_* environment variables, or a config
file (default: $HOME/.p2pwatch.yaml or .toml).`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	registerFlagCompletions()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: $HOME/.p2pwatch.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringP("log-dir", "d", "",
		"DreamBot log directory (auto-detected if not specified)")

	cobra.CheckErr(cfg.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(cfg.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir")))
}

func initConfig() {
	if cfgFile != "" {
		cfg.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.AddConfigPath(home)
		}
		cfg.AddConfigPath(".")
		cfg.SetConfigName(".p2pwatch")
	}

	cfg.SetEnvPrefix("P2PWATCH")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
	}
}

// newLogger builds the CLI logger. --verbose overrides --log-level.
func newLogger(w io.Writer) *slog.Logger {
	level := parseLevel(cfg.GetString("log_level"))
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// parseLevel converts "debug", "info", "warn" or "error" to a slog.Level.
// Unknown strings default to LevelInfo.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
