package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/p2pwatch/p2pwatch-go/pkg/p2pwatch"
)

var (
	scanFormat string
	scanChat   bool
	scanQuests bool
	scanRules  string
)

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Print the segments in a log file without sending anything",
	Long: `Scan a DreamBot log file once and print every chat segment and quest
completion it contains. Nothing is sent to the webhook.

Without an argument the newest logfile-*.log in the log directory is used.

Examples:
  # Scan the newest log as JSON Lines
  p2pwatch scan

  # Colour-coded output for a specific file
  p2pwatch scan --format pretty ~/DreamBot/Logs/DreamBot/logfile-2024-01-15.log

  # Try a rules file before using it with watch
  p2pwatch scan --chat=false --quests=false --rules rules.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.StringVarP(&scanFormat, "format", "f", "jsonl", "output format: jsonl, pretty")
	f.BoolVar(&scanChat, "chat", true, "include chat segments")
	f.BoolVar(&scanQuests, "quests", true, "include quest completions")
	f.StringVar(&scanRules, "rules", "", "YAML or TOML file with extra segment rules")

	rootCmd.AddCommand(scanCmd)
}

// scanOptions is the input to scan.
type scanOptions struct {
	LogDir string
	File   string // empty means the newest file in LogDir
	Format string
	Chat   bool
	Quests bool
	Rules  string
}

func runScan(cmd *cobra.Command, args []string) error {
	opts := scanOptions{
		LogDir: cfg.GetString("log_dir"),
		Format: scanFormat,
		Chat:   scanChat,
		Quests: scanQuests,
		Rules:  scanRules,
	}
	if len(args) == 1 {
		opts.File = args[0]
	}
	return scan(cmd.Context(), opts, cmd.OutOrStdout(), newLogger(cmd.ErrOrStderr()))
}

// scan runs a single poll with an empty state and no recent window, so
// every timestamped line in the file is searched.
func scan(ctx context.Context, opts scanOptions, out io.Writer, logger *slog.Logger) error {
	rs, err := loadRules(opts.Rules)
	if err != nil {
		return err
	}
	printer, err := newSegmentPrinter(opts.Format, out, rs.colors)
	if err != nil {
		return err
	}

	logDir := opts.LogDir
	if opts.File != "" {
		logDir = filepath.Dir(opts.File)
	}
	monOpts := append(rs.monitor,
		p2pwatch.WithLogDir(logDir),
		p2pwatch.WithChat(opts.Chat),
		p2pwatch.WithQuests(opts.Quests),
		p2pwatch.WithRecentWindow(0),
		p2pwatch.WithLogger(logger),
	)
	mon, err := p2pwatch.NewMonitor(monOpts...)
	if err != nil {
		return err
	}

	var res p2pwatch.PollResult
	if opts.File != "" {
		_, res = mon.PollFile(ctx, p2pwatch.NewState(), opts.File)
	} else {
		_, res = mon.Poll(ctx, p2pwatch.NewState())
	}
	if res.Err != nil {
		return res.Err
	}

	logger.Debug("scan complete", "file", res.File, "lines", res.Lines,
		"timestamped", res.NewLines, "segments", len(res.Segments))
	for _, seg := range res.Segments {
		if err := printer.OutputSegment(res.File, seg); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	return nil
}
