package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sitewriter/pkg/core"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		content any
		opts    RenderOptions
		want    string
	}{
		{
			name:    "json object",
			format:  core.FormatJSON,
			content: map[string]any{"title": "Home", "order": 1},
			want:    "{\n  \"order\": 1,\n  \"title\": \"Home\"\n}\n",
		},
		{
			name:    "yaml list",
			format:  core.FormatYAML,
			content: []any{map[string]any{"label": "A"}, map[string]any{"label": "B"}},
			want:    "- label: A\n- label: B\n",
		},
		{
			name:   "page with body",
			format: core.FormatFrontmatterMarkdown,
			content: core.PageContent{
				Body:        "# Hello",
				Frontmatter: map[string]any{"title": "Hello", "layout": "post"},
			},
			want: "---\nlayout: post\ntitle: Hello\n---\n# Hello\n",
		},
		{
			name:    "page without body",
			format:  core.FormatFrontmatterMarkdown,
			content: core.PageContent{Body: map[string]any{}, Frontmatter: map[string]any{"title": "Empty"}},
			want:    "---\ntitle: Empty\n---\n",
		},
		{
			name:    "page with nil body and no frontmatter",
			format:  core.FormatFrontmatterMarkdown,
			content: core.PageContent{},
			want:    "---\n---\n",
		},
		{
			name:    "hook page shape",
			format:  core.FormatFrontmatterMarkdown,
			content: map[string]any{"body": "text\n", "frontmatter": map[string]any{"a": 1}},
			want:    "---\na: 1\n---\ntext\n",
		},
		{
			name:    "html body converted",
			format:  core.FormatFrontmatterMarkdown,
			content: core.PageContent{Body: "<p>Hello <strong>world</strong></p>"},
			opts:    RenderOptions{HTMLToMarkdown: true},
			want:    "---\n---\nHello **world**\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.format, tt.content, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestRender_Errors(t *testing.T) {
	_, err := Render("toml", map[string]any{}, RenderOptions{})
	assert.ErrorContains(t, err, `unsupported format "toml"`)

	_, err = Render(core.FormatFrontmatterMarkdown, 42, RenderOptions{})
	assert.ErrorContains(t, err, "must be a page")
}
