// Package source reads the current contents of a DreamBot log file.
package source

import (
	"fmt"
	"strings"

	"github.com/nxadm/tail"

	"github.com/p2pwatch/p2pwatch-go/internal/safefile"
)

// ReadLines returns every line currently in the file at path, oldest first.
// The file is read to EOF without following; each poll re-reads it from the
// start and leaves deduplication to the caller's high-water mark.
func ReadLines(path string) ([]string, error) {
	if _, err := safefile.CheckRegular(path); err != nil {
		return nil, err
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:    false,
		ReOpen:    false,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	defer t.Cleanup()

	var lines []string
	var readErr error
	for line := range t.Lines {
		if line.Err != nil {
			if readErr == nil {
				readErr = line.Err
			}
			continue
		}
		lines = append(lines, strings.TrimRight(line.Text, "\r"))
	}

	if err := t.Wait(); err != nil && readErr == nil {
		readErr = err
	}
	if readErr != nil {
		return nil, fmt.Errorf("reading log: %w", readErr)
	}
	return lines, nil
}
