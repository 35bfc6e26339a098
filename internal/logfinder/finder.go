// Package logfinder provides DreamBot log directory and file detection.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// EnvLogDir is the environment variable name for specifying log directory.
const EnvLogDir = "P2PWATCH_LOGDIR"

// LogFilePattern is the glob DreamBot uses for its per-session log files.
const LogFilePattern = "logfile-*.log"

// Sentinel errors.
var (
	ErrLogDirNotFound = errors.New("log directory not found")
	ErrNoLogFiles     = errors.New("no log files found")
)

// DefaultLogDirs returns candidate DreamBot log directories in priority order.
func DefaultLogDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return nil
	}

	return []string{
		filepath.Join(home, "DreamBot", "Logs", "DreamBot"),
		filepath.Join(home, "DreamBot", "Logs"),
	}
}

// FindLogDir returns the DreamBot log directory.
//
// Priority:
//  1. explicit (if non-empty)
//  2. P2PWATCH_LOGDIR environment variable
//  3. Auto-detect from DefaultLogDirs()
//
// The directory only has to exist; it may not contain log files yet since
// the client creates them on start. The returned path has symlinks resolved.
func FindLogDir(explicit string) (string, error) {
	if explicit != "" {
		if resolved := resolveLogDir(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: specified directory is invalid", ErrLogDirNotFound)
	}

	if envDir := os.Getenv(EnvLogDir); envDir != "" {
		if resolved := resolveLogDir(envDir); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to invalid directory", ErrLogDirNotFound, EnvLogDir)
	}

	// Prefer a default directory that already holds logs.
	var fallback string
	for _, dir := range DefaultLogDirs() {
		resolved := resolveLogDir(dir)
		if resolved == "" {
			continue
		}
		if hasLogFiles(resolved) {
			return resolved, nil
		}
		if fallback == "" {
			fallback = resolved
		}
	}
	if fallback != "" {
		return fallback, nil
	}

	return "", ErrLogDirNotFound
}

// logCandidate holds a log file path and its cached modification time.
type logCandidate struct {
	path    string
	modTime int64
}

// FindLatestLogFile returns the path to the most recently modified
// logfile-*.log in the given directory.
//
// Returns ErrNoLogFiles if no log files are found. Stat results are cached
// so a file deleted between globbing and sorting cannot break the ordering.
func FindLatestLogFile(dir string) (string, error) {
	matches, err := globLogFiles(dir)
	if err != nil {
		return "", fmt.Errorf("globbing log files: %w", err)
	}

	candidates := make([]logCandidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, logCandidate{
			path:    m,
			modTime: info.ModTime().UnixNano(),
		})
	}

	if len(candidates) == 0 {
		return "", ErrNoLogFiles
	}

	// Newest first; ties broken by name so the choice is stable.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].modTime != candidates[j].modTime {
			return candidates[i].modTime > candidates[j].modTime
		}
		return candidates[i].path > candidates[j].path
	})

	return candidates[0].path, nil
}

// resolveLogDir resolves symlinks and checks the result is a directory.
// Returns the resolved path if valid, empty string otherwise.
func resolveLogDir(dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ""
	}
	return resolved
}

// globLogFiles lists the log files in dir. Matching runs against an
// fs.FS rooted at dir, so glob metacharacters in dir itself are literal.
func globLogFiles(dir string) ([]string, error) {
	names, err := doublestar.Glob(os.DirFS(dir), LogFilePattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, filepath.FromSlash(name))
	}
	return paths, nil
}

func hasLogFiles(dir string) bool {
	matches, err := globLogFiles(dir)
	return err == nil && len(matches) > 0
}
