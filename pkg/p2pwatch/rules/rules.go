// Package rules lets users define extra segment kinds in a YAML or TOML
// file, matched with the same marker-substring logic as the built-in chat
// and quest extractors.
package rules

// File represents the structure of a rules file.
//
// Example YAML file:
//
//	version: 1
//	rules:
//	  - id: trade
//	    kind: span
//	    start: ["Trade request"]
//	    end: ["Trade accepted", "Trade declined"]
//	    title: Trade
//	    color: "#f1c40f"
//	  - id: death
//	    kind: line
//	    start: ["Oh dear, you are dead!"]
type File struct {
	// Version is the rules file format version. Currently only version 1 is supported.
	Version int `yaml:"version" toml:"version"`

	// Rules is the list of rule definitions.
	Rules []Rule `yaml:"rules" toml:"rules"`
}

// Rule defines one custom segment kind.
type Rule struct {
	// ID names the rule and becomes the segment kind. Must be unique and
	// must not shadow the built-in "chat" and "quest" kinds.
	ID string `yaml:"id" toml:"id"`

	// Kind is "span" (start line through end line) or "line" (one line per match).
	Kind string `yaml:"kind" toml:"kind"`

	// Start lists markers that open a span, or select a line.
	Start []string `yaml:"start" toml:"start"`

	// End lists markers that close a span. Only valid for span rules.
	End []string `yaml:"end" toml:"end"`

	// Title and Color style the webhook embed. Color is hex, "#rrggbb" or "0xrrggbb".
	Title string `yaml:"title" toml:"title"`
	Color string `yaml:"color" toml:"color"`
}

// Rule kinds.
const (
	KindSpan = "span"
	KindLine = "line"
)
