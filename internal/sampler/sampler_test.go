package sampler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/sitewriter/pkg/core"
)

var ref = core.ModelRef{ModelName: "post", ProjectID: "p1", Source: "cms"}

func entry(r core.ModelRef, fields map[string]any) core.Entry {
	return core.Entry{
		Metadata: &core.Metadata{ModelName: r.ModelName, ProjectID: r.ProjectID, Source: r.Source},
		Fields:   fields,
	}
}

func TestExampleValues(t *testing.T) {
	entries := []core.Entry{
		{Fields: map[string]any{"title": "no metadata"}},
		entry(core.ModelRef{ModelName: "page", ProjectID: "p1", Source: "cms"}, map[string]any{"title": "other model"}),
		entry(ref, map[string]any{"title": "   ", "body": map[string]any{"nested": true}, "draft": false}),
		entry(ref, map[string]any{"title": "  First  ", "views": 12, "tags": []any{"a"}}),
		entry(ref, map[string]any{"title": "Second", "body": "Body text"}),
	}

	got := ExampleValues(ref, []string{"title", "body", "draft", "views", "tags", "missing"}, entries, 60)

	assert.Equal(t, map[string]string{
		"title": "First",
		"body":  "Body text",
		"draft": "false",
		"views": "12",
	}, got)
}

func TestExampleValues_Truncates(t *testing.T) {
	long := strings.Repeat("é", 80)
	got := ExampleValues(ref, []string{"title"}, []core.Entry{entry(ref, map[string]any{"title": long})}, 0)

	assert.Equal(t, strings.Repeat("é", DefaultMaxLength), got["title"])
}

func TestForModel(t *testing.T) {
	model := core.Model{ModelName: "post", ProjectID: "p1", Source: "cms", FieldNames: []string{"title"}}
	got := ForModel(model, []core.Entry{entry(ref, map[string]any{"title": "Hi"})})

	assert.Equal(t, map[string]string{"title": "Hi"}, got)
}
