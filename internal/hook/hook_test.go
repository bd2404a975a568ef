package hook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sitewriter/internal/testutil"
	"github.com/leapstack-labs/sitewriter/pkg/core"
)

const postsScript = `
def write_file(entry, utils):
    meta = entry["__metadata"]
    if meta["modelName"] != "post":
        return None
    return {
        "content": {"body": entry.get("body", ""), "frontmatter": {"title": entry["title"]}},
        "format": "frontmatter-md",
        "path": "content/posts/" + utils.slugify(entry["title"]) + ".md",
    }
`

func testUtils() core.Utils {
	return core.Utils{Slugify: func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), " ", "-")
	}}
}

func postEntry(title string) core.Entry {
	return core.Entry{
		Metadata: &core.Metadata{ModelName: "post", ProjectID: "p", Source: "cms"},
		Fields:   map[string]any{"title": title, "body": "text"},
	}
}

func TestHook_Write(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "write.star", postsScript)

	h, err := Load(path, testutil.NewTestLogger(t))
	require.NoError(t, err)

	results, err := h.Write(postEntry("Hello World"), testUtils())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "content/posts/hello-world.md", r.Path)
	assert.Equal(t, core.FormatFrontmatterMarkdown, r.Format)
	assert.False(t, r.Append)
	assert.Equal(t, map[string]any{
		"body":        "text",
		"frontmatter": map[string]any{"title": "Hello World"},
	}, r.Content)

	other := core.Entry{Metadata: &core.Metadata{ModelName: "author"}, Fields: map[string]any{}}
	results, err = h.WriteFunc()(other, testUtils())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestHook_ListResult(t *testing.T) {
	h, err := Parse("list.star", []byte(`
def write_file(entry, utils):
    return [
        {"content": {"n": 1}, "format": "json", "path": "a.json", "append": True},
        {"content": {"n": 2}, "format": "yml", "path": "b.yml"},
    ]
`), nil)
	require.NoError(t, err)

	results, err := h.Write(postEntry("x"), testUtils())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Append)
	assert.Equal(t, map[string]any{"n": int64(1)}, results[0].Content)
	assert.Equal(t, core.FormatYAML, results[1].Format)
}

func TestHook_Errors(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		load    bool
		wantErr string
	}{
		{
			name:    "syntax error",
			script:  "def write_file(entry, utils)\n    return None\n",
			load:    true,
			wantErr: "syntaxerror.star",
		},
		{
			name:    "missing function",
			script:  "x = 1\n",
			load:    true,
			wantErr: "does not define write_file",
		},
		{
			name:    "not a function",
			script:  "write_file = 1\n",
			load:    true,
			wantErr: "must be a function",
		},
		{
			name:    "runtime failure",
			script:  "def write_file(entry, utils):\n    return entry[\"missing\"]\n",
			wantErr: "missing",
		},
		{
			name:    "bad format",
			script:  "def write_file(entry, utils):\n    return {\"path\": \"a.txt\", \"format\": \"txt\", \"content\": {}}\n",
			wantErr: `unknown format "txt"`,
		},
		{
			name:    "no path",
			script:  "def write_file(entry, utils):\n    return {\"format\": \"json\", \"content\": {}}\n",
			wantErr: "result has no path",
		},
		{
			name:    "scalar result",
			script:  "def write_file(entry, utils):\n    return 3\n",
			wantErr: "must return None, a dict or a list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Parse(strings.ReplaceAll(tt.name, " ", "")+".star", []byte(tt.script), nil)
			if tt.load {
				require.Error(t, err)
				var se *ScriptError
				require.ErrorAs(t, err, &se)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			_, err = h.Write(postEntry("x"), testUtils())
			require.Error(t, err)
			var se *ScriptError
			require.ErrorAs(t, err, &se)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHook_SlugifyUnavailable(t *testing.T) {
	h, err := Parse("slug.star", []byte(`
def write_file(entry, utils):
    return {"path": utils.slugify("A B"), "format": "json", "content": {}}
`), nil)
	require.NoError(t, err)

	_, err = h.Write(postEntry("x"), core.Utils{})
	assert.ErrorContains(t, err, "no slugify capability")
}
