// Package webhook delivers segments to a Discord-compatible webhook.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/p2pwatch/p2pwatch-go/pkg/p2pwatch"
)

const (
	// DefaultChunkLines is the maximum number of lines per message.
	DefaultChunkLines = 20

	// DefaultMaxChunkChars caps the joined line text of one message.
	DefaultMaxChunkChars = 1000

	defaultTimeout = 10 * time.Second

	// maxErrorBody bounds how much of a failed response is kept.
	maxErrorBody = 512
)

// DefaultStyles are used for kinds without a style of their own.
var DefaultStyles = map[p2pwatch.Kind]Style{
	p2pwatch.KindChat: {
		Title:   "P2P Log CHAT/SLOWLY TYPING RESPONSE",
		Color:   0x7289da,
		Summary: "containing CHAT → SLOWLY TYPING RESPONSE",
		Notice:  "detected conversation segment.",
	},
	p2pwatch.KindQuest: {
		Title:   "Quest Completed",
		Color:   0x43b581,
		Summary: "containing a quest completion",
		Notice:  "quest completed.",
	},
}

var fallbackStyle = Style{Title: "P2P Log Event", Color: 0x99aab5, Notice: "detected log segment."}

// ErrInvalidURL is returned by New for an unusable webhook URL.
var ErrInvalidURL = errors.New("invalid webhook url")

// DeliveryError reports a webhook response other than 204 No Content.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("webhook: HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("webhook: HTTP %d", e.StatusCode)
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithMention sets the mention prefixed to every message, e.g. "<@1234>".
func WithMention(m string) Option {
	return func(n *Notifier) { n.mention = strings.TrimSpace(m) }
}

// WithChunkLines sets the maximum lines per message. Default: 20.
func WithChunkLines(lines int) Option {
	return func(n *Notifier) { n.chunkLines = lines }
}

// WithMaxChunkChars sets the character budget per message. Default: 1000.
func WithMaxChunkChars(chars int) Option {
	return func(n *Notifier) { n.maxChars = chars }
}

// WithStyle sets the presentation for a segment kind.
func WithStyle(kind p2pwatch.Kind, s Style) Option {
	return func(n *Notifier) { n.styles[kind] = s }
}

// WithTimeout sets the HTTP client timeout. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(n *Notifier) { n.client.Timeout = d }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) {
		if c != nil {
			n.client = c
		}
	}
}

// WithLogger sets the logger for delivery progress and failures.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) {
		if l != nil {
			n.log = l
		}
	}
}

// WithClock overrides the embed timestamp source.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		if now != nil {
			n.now = now
		}
	}
}

// Notifier posts one webhook message per chunk of each segment.
// Failed messages are logged and skipped; there is no retry.
type Notifier struct {
	client     *http.Client
	url        string
	mention    string
	chunkLines int
	maxChars   int
	styles     map[p2pwatch.Kind]Style
	now        func() time.Time
	log        *slog.Logger
}

// New creates a notifier targeting the given webhook URL.
func New(rawURL string, opts ...Option) (*Notifier, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: must be an absolute http(s) URL", ErrInvalidURL)
	}

	n := &Notifier{
		client:     &http.Client{Timeout: defaultTimeout},
		url:        u.String(),
		chunkLines: DefaultChunkLines,
		maxChars:   DefaultMaxChunkChars,
		styles:     make(map[p2pwatch.Kind]Style, len(DefaultStyles)),
		now:        time.Now,
		log:        slog.New(slog.DiscardHandler),
	}
	for k, s := range DefaultStyles {
		n.styles[k] = s
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.chunkLines <= 0 {
		return nil, fmt.Errorf("chunk lines must be positive, got %d", n.chunkLines)
	}
	if n.maxChars <= 0 {
		return nil, fmt.Errorf("max chunk chars must be positive, got %d", n.maxChars)
	}
	return n, nil
}

// Messages builds the payloads Notify would send, in order.
func (n *Notifier) Messages(source string, segments []p2pwatch.Segment) []Payload {
	stamp := n.now().UTC().Format(time.RFC3339)

	var out []Payload
	for si, seg := range segments {
		style := n.style(seg.Kind)

		desc := fmt.Sprintf("Captured segment from `%s`", source)
		if style.Summary != "" {
			desc += " " + style.Summary
		}

		for ci, text := range Chunks(seg.Lines, n.chunkLines, n.maxChars) {
			out = append(out, Payload{
				Content: n.content(style),
				Embeds: []Embed{{
					Title:       style.Title,
					Description: desc,
					Timestamp:   stamp,
					Color:       style.Color,
					Fields: []Field{{
						Name:  fmt.Sprintf("Segment %d Part %d", si+1, ci+1),
						Value: "```\n" + text + "\n```",
					}},
				}},
			})
		}
	}
	return out
}

// Notify implements p2pwatch.Notifier. Every message is attempted even
// if earlier ones fail; the failures are joined into the returned error.
func (n *Notifier) Notify(ctx context.Context, source string, segments []p2pwatch.Segment) error {
	msgs := n.Messages(source, segments)

	var errs []error
	for i, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		if err := n.Send(ctx, msg); err != nil {
			n.log.Warn("webhook delivery failed", "message", i+1, "of", len(msgs), "error", err)
			errs = append(errs, err)
			continue
		}
		n.log.Debug("webhook message sent", "message", i+1, "of", len(msgs), "title", msg.Embeds[0].Title)
	}
	return errors.Join(errs...)
}

// Send posts a single payload. Only 204 No Content counts as success.
func (n *Notifier) Send(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("webhook: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		// Drain so the connection can be reused; the message was delivered.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	respBody := strings.TrimSpace(string(msg))
	if err != nil {
		respBody = strings.TrimSpace(fmt.Sprintf("%s (reading body: %v)", respBody, err))
	}
	return &DeliveryError{StatusCode: resp.StatusCode, Body: respBody}
}

func (n *Notifier) style(k p2pwatch.Kind) Style {
	if s, ok := n.styles[k]; ok {
		return s
	}
	s := fallbackStyle
	s.Title = fmt.Sprintf("P2P Log %s", strings.ToUpper(string(k)))
	return s
}

func (n *Notifier) content(s Style) string {
	switch {
	case n.mention == "":
		return s.Notice
	case s.Notice == "":
		return n.mention
	default:
		return n.mention + " – " + s.Notice
	}
}

var _ p2pwatch.Notifier = (*Notifier)(nil)
