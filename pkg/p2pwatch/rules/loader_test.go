package rules_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p2pwatch/p2pwatch-go/pkg/p2pwatch/rules"
)

func TestLoad_ValidYAML(t *testing.T) {
	f, err := rules.Load("testdata/valid.yaml")
	require.NoError(t, err)
	assert.Equal(t, 1, f.Version)
	require.Len(t, f.Rules, 2)
	assert.Equal(t, "trade", f.Rules[0].ID)
	assert.Equal(t, rules.KindSpan, f.Rules[0].Kind)
	assert.Equal(t, []string{"Trade accepted", "Trade declined"}, f.Rules[0].End)
	assert.Equal(t, rules.KindLine, f.Rules[1].Kind)
}

func TestLoad_ValidTOML(t *testing.T) {
	f, err := rules.Load("testdata/valid.toml")
	require.NoError(t, err)
	require.Len(t, f.Rules, 1)
	assert.Equal(t, "levelup", f.Rules[0].ID)
	assert.Equal(t, "Level Up", f.Rules[0].Title)
}

func TestLoad_DuplicateID(t *testing.T) {
	_, err := rules.Load("testdata/duplicate_id.yaml")
	var ruleErr *rules.RuleError
	require.True(t, errors.As(err, &ruleErr), "got %v", err)
	assert.Equal(t, 1, ruleErr.Index)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	_, err := rules.Load("testdata/unsupported_version.yaml")
	var valErr *rules.ValidationError
	require.True(t, errors.As(err, &valErr), "got %v", err)
	assert.Contains(t, err.Error(), "unsupported version")
}

func TestLoad_MissingEnd(t *testing.T) {
	_, err := rules.Load("testdata/missing_end.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end marker")
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := rules.Load("testdata/nonexistent.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read rules file")
	assert.NotContains(t, err.Error(), "testdata")
}

func TestLoad_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("#", rules.MaxFileSize+1)), 0644))

	_, err := rules.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestLoadBytes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"empty", "", "empty"},
		{"bad yaml", "version: [", "failed to parse YAML"},
		{"no rules", "version: 1\nrules: []\n", "at least one rule"},
		{"missing id", "version: 1\nrules:\n  - kind: line\n    start: [x]\n", "id is required"},
		{"reserved id", "version: 1\nrules:\n  - id: Chat\n    kind: line\n    start: [x]\n", "reserved"},
		{"missing kind", "version: 1\nrules:\n  - id: a\n    start: [x]\n", "kind is required"},
		{"unknown kind", "version: 1\nrules:\n  - id: a\n    kind: regex\n    start: [x]\n", "unknown kind"},
		{"line with end", "version: 1\nrules:\n  - id: a\n    kind: line\n    start: [x]\n    end: [y]\n", "no end markers"},
		{"blank start", "version: 1\nrules:\n  - id: a\n    kind: line\n    start: ['  ']\n", "start marker"},
		{"bad colour", "version: 1\nrules:\n  - id: a\n    kind: line\n    start: [x]\n    color: purple\n", "invalid colour"},
		{"marker too long", "version: 1\nrules:\n  - id: a\n    kind: line\n    start: [" + strings.Repeat("x", rules.MaxMarkerLength+1) + "]\n", "marker too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rules.LoadBytes([]byte(tt.data), rules.FormatYAML)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadBytes_BadTOML(t *testing.T) {
	_, err := rules.LoadBytes([]byte("version = "), rules.FormatTOML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TOML")
}

func TestLoadBytes_UnknownFormat(t *testing.T) {
	_, err := rules.LoadBytes([]byte("version: 1"), "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported rules format")
}

func TestLoadBytes_TooManyRules(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("version: 1\nrules:\n")
	for i := 0; i <= rules.MaxRuleCount; i++ {
		sb.WriteString("  - id: r")
		sb.WriteString(strings.Repeat("x", i+1))
		sb.WriteString("\n    kind: line\n    start: [x]\n")
	}
	_, err := rules.LoadBytes([]byte(sb.String()), rules.FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many rules")
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"#f1c40f", 0xf1c40f, false},
		{"0x3498DB", 0x3498db, false},
		{"43b581", 0x43b581, false},
		{"1000000", 0, true},
		{"zz", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := rules.ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, rules.FormatTOML, rules.FormatFromPath("rules.TOML"))
	assert.Equal(t, rules.FormatYAML, rules.FormatFromPath("rules.yml"))
	assert.Equal(t, rules.FormatYAML, rules.FormatFromPath("rules"))
}
