package main

import (
	"fmt"

	"github.com/p2pwatch/p2pwatch-go/internal/webhook"
	"github.com/p2pwatch/p2pwatch-go/pkg/p2pwatch"
	"github.com/p2pwatch/p2pwatch-go/pkg/p2pwatch/rules"
)

// ruleSet is what an optional rules file contributes to a command.
type ruleSet struct {
	monitor []p2pwatch.Option
	webhook []webhook.Option
	colors  map[p2pwatch.Kind]int
}

// loadRules loads an optional rules file. An empty path yields an empty
// ruleSet.
func loadRules(path string) (ruleSet, error) {
	var rs ruleSet
	if path == "" {
		return rs, nil
	}

	extractors, styles, err := rules.LoadExtractors(path)
	if err != nil {
		return rs, fmt.Errorf("rules file: %w", err)
	}

	rs.colors = make(map[p2pwatch.Kind]int, len(styles))
	for kind, p := range styles {
		rs.webhook = append(rs.webhook, webhook.WithStyle(kind, webhook.Style{
			Title:  p.Title,
			Color:  p.Color,
			Notice: fmt.Sprintf("detected %s segment.", kind),
		}))
		rs.colors[kind] = p.Color
	}
	rs.monitor = []p2pwatch.Option{p2pwatch.WithExtractors(extractors...)}
	return rs, nil
}
