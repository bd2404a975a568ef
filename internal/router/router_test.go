package router

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sitewriter/internal/testutil"
	"github.com/leapstack-labs/sitewriter/pkg/core"
)

var (
	postRef   = core.ModelRef{ModelName: "post", ProjectID: "p1", Source: "sourcebit-source-cms"}
	authorRef = core.ModelRef{ModelName: "author", ProjectID: "p1", Source: "sourcebit-source-cms"}
)

func fakeSlugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

func testUtils() core.Utils {
	return core.Utils{Slugify: fakeSlugify}
}

func newEntry(ref core.ModelRef, createdAt string, fields map[string]any) core.Entry {
	return core.Entry{
		Metadata: &core.Metadata{
			ModelName: ref.ModelName,
			ProjectID: ref.ProjectID,
			Source:    ref.Source,
			CreatedAt: createdAt,
		},
		Fields: fields,
	}
}

func TestRoute_NoMetadata(t *testing.T) {
	r := Compile(&core.SetupAnswers{
		Data: []core.DataSpec{{Model: postRef, Location: core.StaticFile("data/x.json"), Format: core.FormatJSON}},
	})

	result, err := r.Route(core.Entry{Fields: map[string]any{"title": "T"}}, testUtils())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRoute_NoMatch(t *testing.T) {
	r := Compile(&core.SetupAnswers{
		Data: []core.DataSpec{{Model: postRef, Location: core.StaticFile("data/x.json"), Format: core.FormatJSON}},
	})

	tests := []struct {
		name string
		ref  core.ModelRef
	}{
		{name: "other model", ref: authorRef},
		{name: "other project", ref: core.ModelRef{ModelName: "post", ProjectID: "p2", Source: postRef.Source}},
		{name: "other source", ref: core.ModelRef{ModelName: "post", ProjectID: "p1", Source: "other"}},
		{name: "case differs", ref: core.ModelRef{ModelName: "Post", ProjectID: "p1", Source: postRef.Source}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.Route(newEntry(tt.ref, "", map[string]any{"title": "T"}), testUtils())
			require.NoError(t, err)
			assert.Nil(t, result)
		})
	}
}

func TestRoute_StaticDataFile(t *testing.T) {
	r := Compile(&core.SetupAnswers{
		Data: []core.DataSpec{{Model: postRef, Location: core.StaticFile("data/x.json"), Format: core.FormatJSON}},
	})

	fields := map[string]any{"title": "T", "count": 3}
	result, err := r.Route(newEntry(postRef, "2024-03-15T10:00:00Z", fields), testUtils())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "data/x.json", result.Path)
	assert.Equal(t, core.FormatJSON, result.Format)
	assert.Equal(t, fields, result.Content)
	assert.False(t, result.Append)
}

func TestRoute_DataContentIsCopy(t *testing.T) {
	r := Compile(&core.SetupAnswers{
		Data: []core.DataSpec{{Model: postRef, Location: core.StaticFile("x.yml"), Format: core.FormatYAML}},
	})

	fields := map[string]any{"title": "T"}
	result, err := r.Route(newEntry(postRef, "", fields), testUtils())
	require.NoError(t, err)

	content, ok := result.Content.(map[string]any)
	require.True(t, ok)
	content["title"] = "changed"
	assert.Equal(t, "T", fields["title"])
}

func TestRoute_IsMultiple(t *testing.T) {
	r := Compile(&core.SetupAnswers{
		Data: []core.DataSpec{{Model: authorRef, Location: core.FieldDerivedFile("file"), Format: core.FormatYAML, IsMultiple: true}},
	})

	for _, file := range []string{"data/a.yml", "data/b.yml"} {
		result, err := r.Route(newEntry(authorRef, "", map[string]any{"file": file}), testUtils())
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.Append)
		assert.Equal(t, file, result.Path)
		assert.Equal(t, core.FormatYAML, result.Format)
	}
}

func TestRoute_DirectoryCollectionPath(t *testing.T) {
	tests := []struct {
		name      string
		loc       core.LocationSpec
		createdAt string
		fields    map[string]any
		want      string
	}{
		{
			name:      "directory and date",
			loc:       core.DirectoryCollection("content/posts", "title", true),
			createdAt: "2024-03-15T10:00:00Z",
			fields:    map[string]any{"title": "Hello World"},
			want:      "content/posts/2024-03-15-hello-world.md",
		},
		{
			name:   "no directory no date",
			loc:    core.DirectoryCollection("", "title", false),
			fields: map[string]any{"title": "Hello World"},
			want:   "hello-world.md",
		},
		{
			name:      "short createdAt used whole",
			loc:       core.DirectoryCollection("posts", "title", true),
			createdAt: "2024",
			fields:    map[string]any{"title": "A"},
			want:      "posts/2024-a.md",
		},
		{
			name:      "non-ascii createdAt cut on rune boundary",
			loc:       core.DirectoryCollection("posts", "title", true),
			createdAt: "２０２４-03-15T10:00:00Z",
			fields:    map[string]any{"title": "A"},
			want:      "posts/２０２４-03-15-a.md",
		},
		{
			name:   "missing createdAt keeps separator",
			loc:    core.DirectoryCollection("posts", "title", true),
			fields: map[string]any{"title": "A"},
			want:   "posts/-a.md",
		},
		{
			name:   "missing field leaves empty segment",
			loc:    core.DirectoryCollection("posts", "title", false),
			fields: map[string]any{},
			want:   "posts/.md",
		},
		{
			name:   "numeric field",
			loc:    core.DirectoryCollection("posts", "number", false),
			fields: map[string]any{"number": 42},
			want:   "posts/42.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compile(&core.SetupAnswers{
				Pages: []core.PageSpec{{Model: postRef, Location: tt.loc}},
			})
			result, err := r.Route(newEntry(postRef, tt.createdAt, tt.fields), testUtils())
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.want, result.Path)
		})
	}
}

func TestRoute_FieldDerivedPageIsNotSlugified(t *testing.T) {
	r := Compile(&core.SetupAnswers{
		Pages: []core.PageSpec{{Model: postRef, Location: core.FieldDerivedFile("path")}},
	})

	result, err := r.Route(newEntry(postRef, "", map[string]any{"path": "About Us/index.md"}), core.Utils{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "About Us/index.md", result.Path)
}

func TestRoute_PageFrontmatter(t *testing.T) {
	r := Compile(&core.SetupAnswers{
		Pages: []core.PageSpec{{
			Model:        postRef,
			Location:     core.StaticFile("content/about.md"),
			ContentField: "body",
			Layout:       "post",
			LayoutSource: core.LayoutStatic,
		}},
	})

	result, err := r.Route(newEntry(postRef, "", map[string]any{"body": "text", "title": "T"}), testUtils())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, core.FormatFrontmatterMarkdown, result.Format)
	assert.Equal(t, "content/about.md", result.Path)
	assert.False(t, result.Append)

	content, ok := result.Content.(core.PageContent)
	require.True(t, ok)
	assert.Equal(t, "text", content.Body)
	assert.Equal(t, map[string]any{"title": "T", "layout": "post"}, content.Frontmatter)
}

func TestRoute_PageVariants(t *testing.T) {
	tests := []struct {
		name            string
		spec            core.PageSpec
		createdAt       string
		fields          map[string]any
		wantBody        any
		wantFrontmatter map[string]any
	}{
		{
			name:            "no content field gives empty mapping body",
			spec:            core.PageSpec{Model: postRef, Location: core.StaticFile("x.md")},
			fields:          map[string]any{"title": "T"},
			wantBody:        map[string]any{},
			wantFrontmatter: map[string]any{"title": "T"},
		},
		{
			name:            "absent content field gives nil body",
			spec:            core.PageSpec{Model: postRef, Location: core.StaticFile("x.md"), ContentField: "body"},
			fields:          map[string]any{"title": "T"},
			wantBody:        nil,
			wantFrontmatter: map[string]any{"title": "T"},
		},
		{
			name: "layout from field removes the field",
			spec: core.PageSpec{
				Model:        postRef,
				Location:     core.StaticFile("x.md"),
				ContentField: "body",
				Layout:       "template",
				LayoutSource: core.LayoutField,
			},
			fields:          map[string]any{"body": "b", "template": "landing", "title": "T"},
			wantBody:        "b",
			wantFrontmatter: map[string]any{"title": "T", "layout": "landing"},
		},
		{
			name: "absent layout field resolves to nil",
			spec: core.PageSpec{
				Model:        postRef,
				Location:     core.StaticFile("x.md"),
				Layout:       "template",
				LayoutSource: core.LayoutField,
			},
			fields:          map[string]any{"title": "T"},
			wantBody:        map[string]any{},
			wantFrontmatter: map[string]any{"title": "T", "layout": nil},
		},
		{
			name: "static layout overrides a layout field",
			spec: core.PageSpec{
				Model:        postRef,
				Location:     core.StaticFile("x.md"),
				Layout:       "post",
				LayoutSource: core.LayoutStatic,
			},
			fields:          map[string]any{"layout": "other"},
			wantBody:        map[string]any{},
			wantFrontmatter: map[string]any{"layout": "post"},
		},
		{
			name:            "date field",
			spec:            core.PageSpec{Model: postRef, Location: core.StaticFile("x.md"), AddDateField: true},
			createdAt:       "2019-12-31T08:00:00Z",
			fields:          map[string]any{"title": "T"},
			wantBody:        map[string]any{},
			wantFrontmatter: map[string]any{"title": "T", "date": "2019-12-31"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compile(&core.SetupAnswers{Pages: []core.PageSpec{tt.spec}})
			result, err := r.Route(newEntry(postRef, tt.createdAt, tt.fields), testUtils())
			require.NoError(t, err)
			require.NotNil(t, result)

			content, ok := result.Content.(core.PageContent)
			require.True(t, ok)
			assert.Equal(t, tt.wantBody, content.Body)
			assert.Equal(t, tt.wantFrontmatter, content.Frontmatter)
		})
	}
}

func TestRoute_PriorityOrder(t *testing.T) {
	t.Run("first page wins", func(t *testing.T) {
		r := Compile(&core.SetupAnswers{
			Pages: []core.PageSpec{
				{Model: postRef, Location: core.StaticFile("first.md")},
				{Model: postRef, Location: core.StaticFile("second.md")},
			},
		})
		result, err := r.Route(newEntry(postRef, "", nil), testUtils())
		require.NoError(t, err)
		assert.Equal(t, "first.md", result.Path)
	})

	t.Run("pages before data", func(t *testing.T) {
		r := Compile(&core.SetupAnswers{
			Data:  []core.DataSpec{{Model: postRef, Location: core.StaticFile("data.json"), Format: core.FormatJSON}},
			Pages: []core.PageSpec{{Model: postRef, Location: core.StaticFile("page.md")}},
		})
		result, err := r.Route(newEntry(postRef, "", nil), testUtils())
		require.NoError(t, err)
		assert.Equal(t, "page.md", result.Path)
		assert.Equal(t, core.FormatFrontmatterMarkdown, result.Format)
	})

	t.Run("first data wins", func(t *testing.T) {
		r := Compile(&core.SetupAnswers{
			Data: []core.DataSpec{
				{Model: authorRef, Location: core.StaticFile("a.json"), Format: core.FormatJSON},
				{Model: authorRef, Location: core.StaticFile("b.yml"), Format: core.FormatYAML},
			},
		})
		result, err := r.Route(newEntry(authorRef, "", nil), testUtils())
		require.NoError(t, err)
		assert.Equal(t, "a.json", result.Path)
	})
}

func TestRoute_SlugifyMissing(t *testing.T) {
	r := Compile(&core.SetupAnswers{
		Pages: []core.PageSpec{{Model: postRef, Location: core.DirectoryCollection("posts", "title", false)}},
		Data:  []core.DataSpec{{Model: authorRef, Location: core.StaticFile("a.json"), Format: core.FormatJSON}},
	})

	_, err := r.Route(newEntry(postRef, "", map[string]any{"title": "x"}), core.Utils{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSlugifyMissing))

	result, err := r.Route(newEntry(authorRef, "", nil), core.Utils{})
	require.NoError(t, err, "static locations do not need slugify")
	assert.Equal(t, "a.json", result.Path)
}

func TestRoute_Strict(t *testing.T) {
	answers := &core.SetupAnswers{
		Pages: []core.PageSpec{{
			Model:        postRef,
			Location:     core.DirectoryCollection("posts", "title", false),
			ContentField: "body",
		}},
	}

	lenient := Compile(answers)
	strict := Compile(answers, WithStrict())
	entry := newEntry(postRef, "", map[string]any{"title": "T"})

	result, err := lenient.Route(entry, testUtils())
	require.NoError(t, err)
	require.NotNil(t, result)

	_, err = strict.Route(entry, testUtils())
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "body", missing.Field)
	assert.Equal(t, "content", missing.Role)
	assert.Contains(t, err.Error(), `"body"`)

	_, err = strict.Route(newEntry(postRef, "", map[string]any{"body": "b"}), testUtils())
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "location", missing.Role)
}

func TestRoute_Deterministic(t *testing.T) {
	answers := &core.SetupAnswers{
		Pages: []core.PageSpec{{
			Model:        postRef,
			Location:     core.DirectoryCollection("content/posts", "title", true),
			ContentField: "body",
			Layout:       "post",
			LayoutSource: core.LayoutStatic,
		}},
		Data: []core.DataSpec{{Model: authorRef, Location: core.StaticFile("data/authors.json"), Format: core.FormatJSON, IsMultiple: true}},
	}
	entries := []core.Entry{
		newEntry(postRef, "2024-03-15T10:00:00Z", map[string]any{"title": "Hello World", "body": "hi", "tags": []any{"a"}}),
		newEntry(authorRef, "", map[string]any{"name": "Ada"}),
		{Fields: map[string]any{"orphan": true}},
	}

	first := Compile(answers, WithLogger(testutil.NewTestLogger(t)))
	second := Compile(answers)

	for i, entry := range entries {
		a, errA := first.Route(entry, testUtils())
		b, errB := second.Route(entry, testUtils())
		again, errAgain := first.Route(entry, testUtils())
		require.NoError(t, errA)
		require.NoError(t, errB)
		require.NoError(t, errAgain)
		assert.Equal(t, a, b, "entry %d: compiled twice", i)
		assert.Equal(t, a, again, "entry %d: evaluated twice", i)
	}
}

func TestCompile_CopiesAnswers(t *testing.T) {
	answers := &core.SetupAnswers{
		Data: []core.DataSpec{{Model: postRef, Location: core.StaticFile("before.json"), Format: core.FormatJSON}},
	}
	r := Compile(answers)
	answers.Data[0].Location = core.StaticFile("after.json")
	answers.AddPage(core.PageSpec{Model: postRef, Location: core.StaticFile("late.md")})

	result, err := r.Route(newEntry(postRef, "", nil), testUtils())
	require.NoError(t, err)
	assert.Equal(t, "before.json", result.Path)
	assert.Equal(t, 1, r.Len())
}

func TestCompile_Nil(t *testing.T) {
	r := Compile(nil)
	assert.Equal(t, 0, r.Len())

	result, err := r.Route(newEntry(postRef, "", nil), testUtils())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestWriteFunc(t *testing.T) {
	r := Compile(&core.SetupAnswers{
		Data: []core.DataSpec{{Model: postRef, Location: core.StaticFile("x.json"), Format: core.FormatJSON}},
	})
	write := r.WriteFunc()

	results, err := write(newEntry(postRef, "", map[string]any{"a": 1}), testUtils())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "x.json", results[0].Path)

	results, err = write(newEntry(authorRef, "", nil), testUtils())
	require.NoError(t, err)
	assert.Empty(t, results)
}
