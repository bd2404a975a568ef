package output

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"TEXT", ModeText},
		{"md", ModeMarkdown},
		{"markdown", ModeMarkdown},
		{"json", ModeJSON},
		{"xml", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	var out, errOut bytes.Buffer

	assert.Equal(t, ModeMarkdown, NewRendererWithTTY(&out, &errOut, false, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeText, NewRendererWithTTY(&out, &errOut, true, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeJSON, NewRendererWithTTY(&out, &errOut, true, ModeJSON).EffectiveMode())
	assert.False(t, NewRenderer(&out, &errOut, ModeAuto).IsTTY(), "buffers are never terminals")
}

func TestRenderer_Markdown(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeMarkdown)

	r.Header(1, "Routes")
	r.StatusLine("content/index.md", "success", "created")
	r.Success("done")
	r.Error("boom")

	assert.Equal(t, "# Routes\n- [x] content/index.md (created)\n**done**\n", out.String())
	assert.Equal(t, "Error: boom\n", errOut.String())
	assert.False(t, ansi.MatchString(out.String()))
}

func TestRenderer_TextWithoutColorOnPipe(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeText)

	r.Header(2, "Rules")
	r.StatusLine("a.md", "error", "")
	assert.Contains(t, out.String(), "Rules")
	assert.Contains(t, out.String(), "✗ a.md")
	assert.False(t, ansi.MatchString(out.String()), "ascii profile strips colors")
}

func TestRenderer_Table(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeMarkdown)

	r.Table([]string{"Model", "Kind"}, [][]string{{"post", "page"}})
	assert.Contains(t, out.String(), "| Model | Kind |")
	assert.Contains(t, out.String(), "| post | page |")
}

func TestRenderer_JSON(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeJSON)

	require.NoError(t, r.JSON(map[string]int{"files": 2}))
	assert.JSONEq(t, `{"files": 2}`, out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Data", FormatHeader(2, "Data"))
	assert.Equal(t, "# Data", FormatHeader(0, "Data"))
	assert.Equal(t, "- **Path**: a.json", FormatKeyValue("Path", "a.json"))
	assert.Equal(t, "```yaml\na: 1\n```", FormatCodeBlock("yaml", "a: 1\n"))
}
