package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/p2pwatch/p2pwatch-go/internal/webhook"
	"github.com/p2pwatch/p2pwatch-go/pkg/p2pwatch"
)

var promptFlag bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll DreamBot logs and post new segments to a webhook",
	Long: `Poll the newest DreamBot log file at a fixed interval and post every new
chat segment and quest completion to a Discord webhook.

Only lines newer than the last processed timestamp are considered, and only
those inside the most recent interval are searched for segments. Progress is
kept in memory, so a restart starts fresh.

Examples:
  # Poll every 5 minutes (default)
  p2pwatch watch --webhook-url https://discord.com/api/webhooks/...

  # Ask which events to monitor and how often
  p2pwatch watch --prompt

  # Quests only, mention a user, custom log directory
  p2pwatch watch --chat=false --mention "<@1234567890>" -d ~/DreamBot/Logs/DreamBot`,
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.String("webhook-url", "", "Discord webhook URL (required)")
	f.String("mention", "", `mention prefixed to each message, e.g. "<@1234567890>"`)
	f.Duration("interval", p2pwatch.DefaultInterval, "time between polls")
	f.String("recent-window", "",
		"only search lines newer than this for segments (default: same as --interval, 0 = no limit)")
	f.Bool("chat", true, "monitor chat segments")
	f.Bool("quests", true, "monitor quest completions")
	f.String("rules", "", "YAML or TOML file with extra segment rules")
	f.Int("chunk-lines", webhook.DefaultChunkLines, "maximum log lines per message")
	f.BoolVar(&promptFlag, "prompt", false, "ask interactively what to monitor and how often")

	for key, flag := range map[string]string{
		"webhook_url":   "webhook-url",
		"mention":       "mention",
		"interval":      "interval",
		"recent_window": "recent-window",
		"chat":          "chat",
		"quests":        "quests",
		"rules":         "rules",
		"chunk_lines":   "chunk-lines",
	} {
		cobra.CheckErr(cfg.BindPFlag(key, f.Lookup(flag)))
	}

	rootCmd.AddCommand(watchCmd)
}

// watchSettings is the resolved configuration for the watch command.
type watchSettings struct {
	LogDir          string
	WebhookURL      string
	Mention         string
	Interval        time.Duration
	RecentWindow    time.Duration
	RecentWindowSet bool
	Chat            bool
	Quests          bool
	RulesFile       string
	ChunkLines      int
}

func loadWatchSettings(v *viper.Viper) (watchSettings, error) {
	s := watchSettings{
		LogDir:     v.GetString("log_dir"),
		WebhookURL: strings.TrimSpace(v.GetString("webhook_url")),
		Mention:    v.GetString("mention"),
		Chat:       v.GetBool("chat"),
		Quests:     v.GetBool("quests"),
		RulesFile:  v.GetString("rules"),
		ChunkLines: v.GetInt("chunk_lines"),
	}

	interval, err := parseInterval(v.Get("interval"))
	if err != nil {
		return s, err
	}
	s.Interval = interval

	if raw := strings.TrimSpace(v.GetString("recent_window")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return s, fmt.Errorf("invalid recent window %q: %w", raw, err)
		}
		s.RecentWindow = d
		s.RecentWindowSet = true
	}
	return s, nil
}

// parseInterval reads the interval setting. Durations ("90s", "5m") are
// taken as is; a bare number, from the config file or the environment,
// means minutes as in the interactive prompt.
func parseInterval(raw any) (time.Duration, error) {
	switch v := raw.(type) {
	case nil:
		return p2pwatch.DefaultInterval, nil
	case time.Duration:
		return v, nil
	case int, int64, float64:
		return minutesToDuration(fmt.Sprint(v))
	}

	str := strings.TrimSpace(fmt.Sprint(raw))
	if d, err := minutesToDuration(str); err == nil {
		return d, nil
	}
	d, err := time.ParseDuration(str)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: use a duration such as \"5m\" or a number of minutes", str)
	}
	return d, nil
}

func (s watchSettings) validate() error {
	if s.WebhookURL == "" {
		return errors.New("a webhook URL is required (--webhook-url or P2PWATCH_WEBHOOK_URL)")
	}
	if s.Interval < MinInterval {
		return fmt.Errorf("interval must be at least %v, got %v", MinInterval, s.Interval)
	}
	if !s.Chat && !s.Quests && s.RulesFile == "" {
		return errors.New("nothing to monitor: enable --chat, --quests or pass --rules")
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings, err := loadWatchSettings(cfg)
	if err != nil {
		return err
	}

	if promptFlag {
		answers, err := promptSettings(cmd.InOrStdin(), cmd.ErrOrStderr(), promptAnswers{
			Chat:     settings.Chat,
			Quests:   settings.Quests,
			Interval: settings.Interval,
		})
		if err != nil {
			return err
		}
		settings.Chat, settings.Quests, settings.Interval = answers.Chat, answers.Quests, answers.Interval
	}

	if err := settings.validate(); err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr())
	mon, err := buildMonitor(settings, logger)
	if err != nil {
		return err
	}

	_, err = mon.Run(ctx, p2pwatch.NewState(), nil)
	return err
}

// buildMonitor wires the webhook notifier, the optional rules file and
// the monitor together.
func buildMonitor(s watchSettings, logger *slog.Logger) (*p2pwatch.Monitor, error) {
	rs, err := loadRules(s.RulesFile)
	if err != nil {
		return nil, err
	}

	hookOpts := append(rs.webhook,
		webhook.WithMention(s.Mention),
		webhook.WithChunkLines(s.ChunkLines),
		webhook.WithLogger(logger),
	)
	notifier, err := webhook.New(s.WebhookURL, hookOpts...)
	if err != nil {
		return nil, err
	}

	monOpts := append(rs.monitor,
		p2pwatch.WithLogDir(s.LogDir),
		p2pwatch.WithInterval(s.Interval),
		p2pwatch.WithChat(s.Chat),
		p2pwatch.WithQuests(s.Quests),
		p2pwatch.WithNotifier(notifier),
		p2pwatch.WithLogger(logger),
	)
	if s.RecentWindowSet {
		monOpts = append(monOpts, p2pwatch.WithRecentWindow(s.RecentWindow))
	}
	return p2pwatch.NewMonitor(monOpts...)
}
