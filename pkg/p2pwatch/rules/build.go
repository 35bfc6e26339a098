package rules

import (
	"fmt"

	"github.com/p2pwatch/p2pwatch-go/pkg/p2pwatch"
)

// Presentation is how a rule's segments should be rendered by a notifier.
type Presentation struct {
	Title string
	Color int
}

// Build turns a validated file into extractors, in file order, plus the
// presentation for each rule kind. Matching is case-insensitive.
func Build(f *File) ([]p2pwatch.Extractor, map[p2pwatch.Kind]Presentation, error) {
	if f == nil {
		return nil, nil, fmt.Errorf("rules file is nil")
	}
	if err := f.Validate(); err != nil {
		return nil, nil, err
	}

	extractors := make([]p2pwatch.Extractor, 0, len(f.Rules))
	styles := make(map[p2pwatch.Kind]Presentation, len(f.Rules))
	for _, r := range f.Rules {
		kind := p2pwatch.Kind(r.ID)

		switch r.Kind {
		case KindSpan:
			extractors = append(extractors, &p2pwatch.SpanExtractor{
				Kind:  kind,
				Start: nonEmpty(r.Start),
				End:   nonEmpty(r.End),
			})
		case KindLine:
			extractors = append(extractors, &p2pwatch.LineExtractor{
				Kind:       kind,
				Markers:    nonEmpty(r.Start),
				IgnoreCase: true,
				Transform:  p2pwatch.StripMarkup,
			})
		}

		color, _ := ParseColor(r.Color) // validated above
		title := r.Title
		if title == "" {
			title = r.ID
		}
		styles[kind] = Presentation{Title: title, Color: color}
	}
	return extractors, styles, nil
}

// LoadExtractors loads a rules file and builds it in one step.
func LoadExtractors(path string) ([]p2pwatch.Extractor, map[p2pwatch.Kind]Presentation, error) {
	f, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	return Build(f)
}
