package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/p2pwatch/p2pwatch-go/pkg/p2pwatch"
)

// ValidFormats lists all valid output formats.
var ValidFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

// segmentRecord is one JSON Lines record.
type segmentRecord struct {
	File  string        `json:"file"`
	Kind  p2pwatch.Kind `json:"kind"`
	Lines []string      `json:"lines"`
}

// defaultKindColors match the webhook embed colours.
var defaultKindColors = map[p2pwatch.Kind]int{
	p2pwatch.KindChat:  0x7289da,
	p2pwatch.KindQuest: 0x43b581,
}

const fallbackColor = "#999999"

// segmentPrinter writes segments in one output format.
type segmentPrinter struct {
	format string
	out    io.Writer
	colors map[p2pwatch.Kind]int
	r      *lipgloss.Renderer
}

// newSegmentPrinter returns a printer for format. Extra colours override
// the built-in ones per kind.
func newSegmentPrinter(format string, out io.Writer, extra map[p2pwatch.Kind]int) (*segmentPrinter, error) {
	if !ValidFormats[format] {
		return nil, fmt.Errorf("invalid format %q: must be 'jsonl' or 'pretty'", format)
	}
	colors := make(map[p2pwatch.Kind]int, len(defaultKindColors)+len(extra))
	for k, c := range defaultKindColors {
		colors[k] = c
	}
	for k, c := range extra {
		colors[k] = c
	}
	return &segmentPrinter{
		format: format,
		out:    out,
		colors: colors,
		r:      lipgloss.NewRenderer(out),
	}, nil
}

// OutputSegment writes one segment found in file.
func (p *segmentPrinter) OutputSegment(file string, seg p2pwatch.Segment) error {
	switch p.format {
	case "jsonl":
		return OutputJSON(file, seg, p.out)
	default:
		return p.outputPretty(file, seg)
	}
}

// OutputJSON writes a segment as a JSON Lines record.
func OutputJSON(file string, seg p2pwatch.Segment, out io.Writer) error {
	data, err := json.Marshal(segmentRecord{File: file, Kind: seg.Kind, Lines: seg.Lines})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func (p *segmentPrinter) outputPretty(file string, seg p2pwatch.Segment) error {
	color := lipgloss.Color(fallbackColor)
	if c, ok := p.colors[seg.Kind]; ok && c != 0 {
		color = lipgloss.Color(fmt.Sprintf("#%06x", c))
	}

	header := p.r.NewStyle().Bold(true).Foreground(color).
		Render(fmt.Sprintf("[%s]", seg.Kind))
	source := p.r.NewStyle().Faint(true).Render(file)
	bar := p.r.NewStyle().Foreground(color).Render("│")

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s (%d lines)\n", header, source, len(seg.Lines))
	for _, line := range seg.Lines {
		fmt.Fprintf(&sb, "  %s %s\n", bar, line)
	}
	_, err := io.WriteString(p.out, sb.String())
	return err
}
