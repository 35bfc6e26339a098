package p2pwatch

import (
	"fmt"
	"log/slog"
	"time"
)

// DefaultInterval is the default time between polls.
const DefaultInterval = 5 * time.Minute

// Option configures a Monitor using the functional options pattern.
type Option func(*monitorConfig)

// monitorConfig holds internal configuration for the monitor.
type monitorConfig struct {
	logDir          string
	interval        time.Duration
	recentWindow    time.Duration
	recentWindowSet bool
	chat            bool
	quests          bool
	extra           []Extractor
	notifier        Notifier
	logger          *slog.Logger
	now             func() time.Time
}

// defaultMonitorConfig returns a monitorConfig with sensible defaults.
func defaultMonitorConfig() *monitorConfig {
	return &monitorConfig{
		interval: DefaultInterval,
		chat:     true,
		quests:   true,
		now:      time.Now,
	}
}

// applyOptions applies functional options to a monitorConfig.
func applyOptions(opts []Option) *monitorConfig {
	cfg := defaultMonitorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// validate checks for invalid option combinations.
func (c *monitorConfig) validate() error {
	if c.interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.interval)
	}
	if c.recentWindow < 0 {
		return fmt.Errorf("recent window must be non-negative, got %v", c.recentWindow)
	}
	if !c.chat && !c.quests && len(c.extra) == 0 {
		return ErrNoExtractors
	}
	if c.now == nil {
		return fmt.Errorf("clock must not be nil")
	}
	return nil
}

// window returns the effective recent-window length. Unless set
// explicitly it follows the poll interval.
func (c *monitorConfig) window() time.Duration {
	if c.recentWindowSet {
		return c.recentWindow
	}
	return c.interval
}

// extractor assembles the enabled extractors in a fixed order:
// chat, quests, then custom extractors.
func (c *monitorConfig) extractor() ExtractorChain {
	var chain ExtractorChain
	if c.chat {
		chain = append(chain, ChatExtractor())
	}
	if c.quests {
		chain = append(chain, QuestExtractor())
	}
	return append(chain, c.extra...)
}

// WithLogDir sets the DreamBot log directory.
// If not set, it is resolved from P2PWATCH_LOGDIR or the default locations.
func WithLogDir(dir string) Option {
	return func(c *monitorConfig) {
		c.logDir = dir
	}
}

// WithInterval sets the time between polls.
// Default: 5 minutes.
func WithInterval(interval time.Duration) Option {
	return func(c *monitorConfig) {
		c.interval = interval
	}
}

// WithRecentWindow restricts extraction to lines newer than now minus d.
// Lines older than that but newer than the mark still advance the mark and
// are never seen again. Zero disables the restriction.
// Default: the poll interval.
func WithRecentWindow(d time.Duration) Option {
	return func(c *monitorConfig) {
		c.recentWindow = d
		c.recentWindowSet = true
	}
}

// WithChat enables or disables chat segment monitoring. Default: true.
func WithChat(enabled bool) Option {
	return func(c *monitorConfig) {
		c.chat = enabled
	}
}

// WithQuests enables or disables quest completion monitoring. Default: true.
func WithQuests(enabled bool) Option {
	return func(c *monitorConfig) {
		c.quests = enabled
	}
}

// WithExtractors adds custom extractors after the built-in ones.
// A panic inside an extractor is recovered and reported as a
// PollParseFailure wrapping ErrPanic.
func WithExtractors(extractors ...Extractor) Option {
	return func(c *monitorConfig) {
		for _, e := range extractors {
			if e != nil {
				c.extra = append(c.extra, e)
			}
		}
	}
}

// WithNotifier sets where segments are delivered.
// Without a notifier, polls extract segments but deliver nothing.
func WithNotifier(n Notifier) Option {
	return func(c *monitorConfig) {
		c.notifier = n
	}
}

// WithLogger sets the logger for debug output.
// Default: discard all log output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *monitorConfig) {
		c.logger = logger
	}
}

// WithClock overrides the time source used for the recent window.
func WithClock(now func() time.Time) Option {
	return func(c *monitorConfig) {
		c.now = now
	}
}
