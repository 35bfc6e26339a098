package p2pwatch

import "context"

// Extractor finds segments in an ordered batch of log lines.
// Returning no segments is not an error; errors are reserved for
// unexpected failures such as context cancellation.
type Extractor interface {
	Extract(ctx context.Context, lines []string) ([]Segment, error)
}

// ExtractorFunc is an adapter to allow ordinary functions to be used as Extractors.
type ExtractorFunc func(ctx context.Context, lines []string) ([]Segment, error)

// Extract implements the Extractor interface.
func (f ExtractorFunc) Extract(ctx context.Context, lines []string) ([]Segment, error) {
	return f(ctx, lines)
}

// ExtractorChain runs several extractors over the same lines and
// concatenates their segments in extractor order. Each extractor keeps
// the original line order within its own output.
type ExtractorChain []Extractor

// Extract implements the Extractor interface.
// On error the segments collected so far are returned with it.
func (c ExtractorChain) Extract(ctx context.Context, lines []string) ([]Segment, error) {
	var all []Segment
	for _, e := range c {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		if e == nil {
			continue
		}
		segs, err := e.Extract(ctx, lines)
		if err != nil {
			return all, err
		}
		all = append(all, segs...)
	}
	return all, nil
}

var _ Extractor = ExtractorChain(nil)
