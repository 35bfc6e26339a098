package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/p2pwatch/p2pwatch-go/internal/safefile"
)

const (
	// MaxFileSize is the maximum allowed size for a rules file (256KB).
	MaxFileSize = 256 * 1024

	// MaxRuleCount is the maximum number of rules in one file.
	MaxRuleCount = 100

	// MaxMarkerLength is the maximum length of a single marker.
	MaxMarkerLength = 256

	// SupportedVersion is the currently supported rules file format version.
	SupportedVersion = 1
)

// Format selects the rules file syntax.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// reservedIDs are the built-in segment kinds.
var reservedIDs = map[string]bool{"chat": true, "quest": true}

// sanitizePathError drops the path from os.PathError so messages don't
// echo file system locations.
func sanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

// FormatFromPath picks TOML for .toml files and YAML for everything else.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads and validates a rules file. The format follows the extension.
func Load(path string) (*File, error) {
	data, err := safefile.ReadLimited(path, MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", sanitizePathError(err))
	}
	return LoadBytes(data, FormatFromPath(path))
}

// LoadBytes parses and validates rules file content.
func LoadBytes(data []byte, format Format) (*File, error) {
	if len(data) == 0 {
		return nil, errors.New("rules file is empty")
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("rules file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}

	var f File
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported rules format %q", format)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the version, rule count, required fields, ID uniqueness,
// marker lengths and colours.
func (f *File) Validate() error {
	if f.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", f.Version, SupportedVersion),
		}
	}
	if len(f.Rules) == 0 {
		return &ValidationError{Field: "rules", Message: "at least one rule is required"}
	}
	if len(f.Rules) > MaxRuleCount {
		return &ValidationError{
			Field:   "rules",
			Message: fmt.Sprintf("too many rules (%d), maximum allowed is %d", len(f.Rules), MaxRuleCount),
		}
	}

	seen := make(map[string]int, len(f.Rules))
	for i, r := range f.Rules {
		if r.ID == "" {
			return &RuleError{Index: i, Field: "id", Message: "id is required"}
		}
		if reservedIDs[strings.ToLower(r.ID)] {
			return &RuleError{Index: i, ID: r.ID, Field: "id", Message: "id is reserved for a built-in kind"}
		}
		if prev, ok := seen[r.ID]; ok {
			return &RuleError{
				Index:   i,
				ID:      r.ID,
				Field:   "id",
				Message: fmt.Sprintf("duplicate id (previously defined at rule[%d])", prev),
			}
		}
		seen[r.ID] = i

		switch r.Kind {
		case KindSpan:
			if len(nonEmpty(r.End)) == 0 {
				return &RuleError{Index: i, ID: r.ID, Field: "end", Message: "span rules need at least one end marker"}
			}
		case KindLine:
			if len(r.End) > 0 {
				return &RuleError{Index: i, ID: r.ID, Field: "end", Message: "line rules take no end markers"}
			}
		case "":
			return &RuleError{Index: i, ID: r.ID, Field: "kind", Message: "kind is required"}
		default:
			return &RuleError{Index: i, ID: r.ID, Field: "kind", Message: fmt.Sprintf("unknown kind %q (want span or line)", r.Kind)}
		}

		if len(nonEmpty(r.Start)) == 0 {
			return &RuleError{Index: i, ID: r.ID, Field: "start", Message: "at least one start marker is required"}
		}
		for _, m := range append(append([]string{}, r.Start...), r.End...) {
			if len(m) > MaxMarkerLength {
				return &RuleError{
					Index:   i,
					ID:      r.ID,
					Field:   "marker",
					Message: fmt.Sprintf("marker too long: %d bytes (max %d)", len(m), MaxMarkerLength),
				}
			}
		}

		if _, err := ParseColor(r.Color); err != nil {
			return &RuleError{Index: i, ID: r.ID, Field: "color", Message: "invalid colour", Cause: err}
		}
	}
	return nil
}

// ParseColor parses "#rrggbb", "0xrrggbb" or "rrggbb". Empty means 0.
func ParseColor(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	if v > 0xffffff {
		return 0, fmt.Errorf("colour %#x out of range", v)
	}
	return int(v), nil
}

func nonEmpty(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
