package loader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sitewriter/internal/testutil"
	"github.com/leapstack-labs/sitewriter/pkg/core"
)

func TestSaveAndLoadAnswers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "sitewriter.answers.yml")

	post := core.ModelRef{ModelName: "post", ProjectID: "p1", Source: "cms"}
	nav := core.ModelRef{ModelName: "nav", ProjectID: "p1", Source: "cms"}

	answers := &core.SetupAnswers{}
	answers.AddPage(core.PageSpec{
		Model:        post,
		Location:     core.DirectoryCollection("content/posts", "title", true),
		ContentField: "body",
		Layout:       "post",
		LayoutSource: core.LayoutStatic,
	})
	answers.AddData(core.DataSpec{
		Model:      nav,
		Location:   core.StaticFile("data/nav.yml"),
		Format:     core.FormatYAML,
		IsMultiple: true,
	})

	require.NoError(t, SaveAnswers(path, answers))

	raw := testutil.ReadFile(t, filepath.Dir(path), filepath.Base(path))
	assert.Contains(t, raw, "# Generated by sitewriter init")
	assert.Contains(t, raw, "fileNameField: title")

	loaded, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.Equal(t, answers, loaded)
}

func TestLoadAnswers_Missing(t *testing.T) {
	_, err := LoadAnswers(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAnswers)
}

func TestLoadAnswers_JSON(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "answers.json", `{
  "pages": [{"model": {"modelName": "page", "projectId": "p", "source": "s"}, "location": {"fileNameField": "path"}}],
  "data": []
}`)

	answers, err := LoadAnswers(path)
	require.NoError(t, err)
	require.Len(t, answers.Pages, 1)
	assert.Equal(t, core.LocationField, answers.Pages[0].Location.EffectiveKind())
}

func TestValidateAnswers(t *testing.T) {
	ref := core.ModelRef{ModelName: "m", ProjectID: "p", Source: "s"}

	tests := []struct {
		name    string
		answers core.SetupAnswers
		wantErr string
	}{
		{
			name: "valid",
			answers: core.SetupAnswers{
				Pages: []core.PageSpec{{Model: ref, Location: core.StaticFile("index.md")}},
				Data:  []core.DataSpec{{Model: ref, Location: core.FieldDerivedFile("path"), Format: core.FormatJSON}},
			},
		},
		{
			name: "bad format",
			answers: core.SetupAnswers{
				Data: []core.DataSpec{{Model: ref, Location: core.StaticFile("a.toml"), Format: "toml"}},
			},
			wantErr: `format must be "json" or "yml"`,
		},
		{
			name: "collection data",
			answers: core.SetupAnswers{
				Data: []core.DataSpec{{Model: ref, Location: core.DirectoryCollection("d", "t", false), Format: core.FormatJSON}},
			},
			wantErr: "cannot use a collection location",
		},
		{
			name: "unknown layout source",
			answers: core.SetupAnswers{
				Pages: []core.PageSpec{{Model: ref, Location: core.StaticFile("a.md"), Layout: "x", LayoutSource: "dynamic"}},
			},
			wantErr: `unknown layoutSource "dynamic"`,
		},
		{
			name: "layout source without layout",
			answers: core.SetupAnswers{
				Pages: []core.PageSpec{{Model: ref, Location: core.StaticFile("a.md"), LayoutSource: core.LayoutField}},
			},
			wantErr: "layout is empty",
		},
		{
			name: "missing file name",
			answers: core.SetupAnswers{
				Pages: []core.PageSpec{{Model: ref, Location: core.LocationSpec{Kind: core.LocationStatic}}},
			},
			wantErr: "location.fileName is required",
		},
		{
			name: "missing model name",
			answers: core.SetupAnswers{
				Pages: []core.PageSpec{{Location: core.StaticFile("a.md")}},
			},
			wantErr: "model.modelName is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnswers(&tt.answers)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
