package router

import (
	"log/slog"

	"github.com/leapstack-labs/sitewriter/pkg/core"
)

// Router is a compiled routing function. It is immutable and safe to reuse.
type Router struct {
	rules  []rule
	strict bool
	logger *slog.Logger
}

// Len returns the number of compiled rules.
func (r *Router) Len() int {
	return len(r.rules)
}

// Route decides whether and where entry is written.
// It returns nil, nil when the entry has no metadata or matches no rule.
func (r *Router) Route(entry core.Entry, utils core.Utils) (*core.RouteResult, error) {
	if entry.Metadata == nil {
		return nil, nil
	}

	ref := entry.Metadata.Ref()
	for i := range r.rules {
		if !r.rules[i].model.Equal(ref) {
			continue
		}
		if r.rules[i].kind == RulePage {
			return r.projectPage(&r.rules[i].page, entry, utils)
		}
		return r.projectData(&r.rules[i].data, entry, utils)
	}

	return nil, nil
}

// WriteFunc adapts the router to the transform driver's WriteFunc contract.
func (r *Router) WriteFunc() core.WriteFunc {
	return func(entry core.Entry, utils core.Utils) ([]core.RouteResult, error) {
		result, err := r.Route(entry, utils)
		if err != nil || result == nil {
			return nil, err
		}
		return []core.RouteResult{*result}, nil
	}
}

func (r *Router) projectPage(spec *core.PageSpec, entry core.Entry, utils core.Utils) (*core.RouteResult, error) {
	layoutField := ""
	if spec.LayoutSource == core.LayoutField {
		layoutField = spec.Layout
	}

	frontmatter := make(map[string]any, len(entry.Fields)+2)
	for name, value := range entry.Fields {
		if spec.ContentField != "" && name == spec.ContentField {
			continue
		}
		if layoutField != "" && name == layoutField {
			continue
		}
		frontmatter[name] = value
	}

	var body any = map[string]any{}
	if spec.ContentField != "" {
		value, err := r.lookup(spec.Model, entry, spec.ContentField, "content")
		if err != nil {
			return nil, err
		}
		body = value
	}

	switch spec.LayoutSource {
	case core.LayoutStatic:
		frontmatter["layout"] = spec.Layout
	case core.LayoutField:
		value, err := r.lookup(spec.Model, entry, spec.Layout, "layout")
		if err != nil {
			return nil, err
		}
		frontmatter["layout"] = value
	}

	if spec.AddDateField {
		frontmatter["date"] = datePrefix(entry.Metadata.CreatedAt)
	}

	path, err := r.resolvePath(spec.Model, spec.Location, entry, utils)
	if err != nil {
		return nil, err
	}

	return &core.RouteResult{
		Content: core.PageContent{
			Body:        body,
			Frontmatter: frontmatter,
		},
		Format: core.FormatFrontmatterMarkdown,
		Path:   path,
	}, nil
}

func (r *Router) projectData(spec *core.DataSpec, entry core.Entry, utils core.Utils) (*core.RouteResult, error) {
	path, err := r.resolvePath(spec.Model, spec.Location, entry, utils)
	if err != nil {
		return nil, err
	}

	return &core.RouteResult{
		Content: entry.CloneFields(),
		Format:  spec.Format,
		Path:    path,
		Append:  spec.IsMultiple,
	}, nil
}

// lookup returns a field value, reporting absence only in strict mode.
func (r *Router) lookup(model core.ModelRef, entry core.Entry, field, role string) (any, error) {
	value, ok := entry.Field(field)
	if !ok && r.strict {
		return nil, &MissingFieldError{Model: model, Field: field, Role: role}
	}
	return value, nil
}
