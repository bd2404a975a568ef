// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/sitewriter/internal/cli/output"
)

// SetupTestProject creates a temporary project with a content export and setup answers.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	content := `{
  "objects": [
    {
      "__metadata": {"modelName": "post", "projectId": "p1", "source": "cms", "createdAt": "2024-03-01T10:00:00Z"},
      "title": "Launch Day",
      "body": "We are live."
    },
    {
      "__metadata": {"modelName": "menu", "projectId": "p1", "source": "cms"},
      "label": "Home",
      "url": "/"
    }
  ]
}`
	if err := os.WriteFile(filepath.Join(tmpDir, "content.json"), []byte(content), 0600); err != nil {
		t.Fatalf("failed to create content.json: %v", err)
	}

	answers := `pages:
  - model: {modelName: post, projectId: p1, source: cms}
    location: {kind: collection, directory: posts, fileNameField: title}
    contentField: body
data:
  - model: {modelName: menu, projectId: p1, source: cms}
    location: {kind: static, fileName: data/menu.json}
    format: json
    isMultiple: true
`
	if err := os.WriteFile(filepath.Join(tmpDir, "sitewriter.answers.yml"), []byte(answers), 0600); err != nil {
		t.Fatalf("failed to create sitewriter.answers.yml: %v", err)
	}

	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererAuto creates a new test renderer with auto mode detection.
// In tests, non-TTY defaults to markdown output.
func NewTestRendererAuto() *TestRenderer {
	return NewTestRenderer(output.ModeAuto, false)
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the combined stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Reset clears both output buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and basic structure.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	// Check for balanced code fences
	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	// Check that headers have content
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}

// AssertOutputMode checks that the captured output matches the mode it was rendered in.
// Markdown and JSON output must be free of ANSI codes, and JSON stdout must decode.
func AssertOutputMode(t *testing.T, tr *TestRenderer, expectedMode output.OutputMode) {
	t.Helper()

	switch expectedMode {
	case output.ModeMarkdown:
		AssertNoANSI(t, tr.Output()+tr.ErrorOutput())
		AssertValidMarkdown(t, tr.Output())
	case output.ModeJSON:
		AssertNoANSI(t, tr.Output()+tr.ErrorOutput())
		if !json.Valid(tr.Out.Bytes()) {
			t.Errorf("output is not valid JSON: %q", tr.Output())
		}
	}
}
