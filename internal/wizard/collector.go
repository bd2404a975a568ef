package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/sitewriter/internal/sampler"
	"github.com/leapstack-labs/sitewriter/internal/slugify"
	"github.com/leapstack-labs/sitewriter/pkg/core"
)

// Choice values used by the question flow.
const (
	valueSingle     = "single"
	valueCollection = "collection"
	valueField      = "field"
	valueStatic     = "static"
	valueDefault    = "default"
	valueOther      = "other"
	valueNone       = ""
)

// Collector runs the setup question flow over a dataset.
// Pages are configured before data objects, one model at a time.
type Collector struct {
	Prompter Prompter
	Logger   *slog.Logger
	// Slugify renders path hints; defaults to slugify.Make
	Slugify func(string) string
}

// Collect asks for each model's type and then configures every page and data model.
func (c *Collector) Collect(ctx context.Context, ds *core.Dataset) (*core.SetupAnswers, error) {
	if c.Prompter == nil {
		return nil, fmt.Errorf("wizard has no prompter")
	}
	answers := &core.SetupAnswers{Pages: []core.PageSpec{}, Data: []core.DataSpec{}}
	if ds == nil || len(ds.Models) == 0 {
		return answers, nil
	}

	rows := make([]ModelRow, len(ds.Models))
	for i, m := range ds.Models {
		rows[i] = ModelRow{Label: ModelLabel(m), Detail: "└" + m.Source}
	}
	types, err := c.Prompter.ChooseTypes(ctx, "Choose a type for each of the following models:", rows)
	if err != nil {
		return nil, err
	}
	if len(types) != len(ds.Models) {
		return nil, fmt.Errorf("expected %d model types, got %d", len(ds.Models), len(types))
	}

	var pages, data []core.Model
	for i, t := range types {
		switch t {
		case TypePage:
			pages = append(pages, ds.Models[i])
		case TypeData:
			data = append(data, ds.Models[i])
		}
	}
	c.logger().Debug("model types chosen", "pages", len(pages), "data", len(data), "skipped", len(types)-len(pages)-len(data))

	for i, m := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.Prompter.Announce(fmt.Sprintf("Configuring page: %s (%d of %d)", ModelLabel(m), i+1, len(pages)))
		spec, err := c.page(ctx, m, sampler.ForModel(m, ds.Objects))
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", m.ModelName, err)
		}
		answers.AddPage(spec)
	}

	for i, m := range data {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.Prompter.Announce(fmt.Sprintf("Configuring data object: %s (%d of %d)", ModelLabel(m), i+1, len(data)))
		spec, err := c.data(ctx, m, sampler.ForModel(m, ds.Objects))
		if err != nil {
			return nil, fmt.Errorf("data %s: %w", m.ModelName, err)
		}
		answers.AddData(spec)
	}

	return answers, nil
}

func (c *Collector) page(ctx context.Context, m core.Model, examples map[string]string) (core.PageSpec, error) {
	p := c.Prompter
	spec := core.PageSpec{Model: m.Ref()}
	pathHints := fieldChoices(m.FieldNames, examples, c.slugify())
	plainHints := fieldChoices(m.FieldNames, examples, nil)

	pageType, err := p.Select(ctx, "What is the type of this page?", []Choice{
		{Label: "Single page", Value: valueSingle},
		{Label: "Collection of entries", Value: valueCollection},
	})
	if err != nil {
		return spec, err
	}

	if pageType == valueCollection {
		if len(m.FieldNames) == 0 {
			return spec, fmt.Errorf("model has no fields to name collection files from")
		}
		suggested := "content/" + m.ModelName
		dir, err := p.Select(ctx, "Choose the directory for this collection:", []Choice{
			{Label: suggested, Value: suggested},
			{Label: "Other", Value: valueOther},
		})
		if err != nil {
			return spec, err
		}
		if dir == valueOther {
			if dir, err = p.Input(ctx, "Insert the location for this collection.", suggested); err != nil {
				return spec, err
			}
		}
		field, err := p.Select(ctx, "Choose a field to generate the file name from:", pathHints)
		if err != nil {
			return spec, err
		}
		useDate, err := p.Confirm(ctx, "Do you want to prefix file names with the entry date? (e.g. 2019-12-31-my-entry.md)", false)
		if err != nil {
			return spec, err
		}
		spec.Location = core.DirectoryCollection(strings.TrimSuffix(strings.TrimSpace(dir), "/"), field, useDate)
	} else {
		source := valueStatic
		if len(m.FieldNames) > 0 {
			if source, err = p.Select(ctx, "Choose the file path for this page", []Choice{
				{Label: "It comes from one of the page fields", Value: valueField},
				{Label: "It's a static value that I will specify", Value: valueStatic},
			}); err != nil {
				return spec, err
			}
		}
		if source == valueField {
			field, err := p.Select(ctx, "Choose the field that contains the path for this page:", pathHints)
			if err != nil {
				return spec, err
			}
			spec.Location = core.FieldDerivedFile(field)
		} else {
			fileName, err := p.Input(ctx, "Choose a location for this page", "content/"+m.ModelName+".md")
			if err != nil {
				return spec, err
			}
			spec.Location = core.StaticFile(strings.TrimSpace(fileName))
		}
	}

	layoutChoices := []Choice{{Label: "It's a static value that I will specify", Value: valueStatic}}
	if len(m.FieldNames) > 0 {
		layoutChoices = append([]Choice{{Label: "It comes from one of the page fields", Value: valueField}}, layoutChoices...)
	}
	layoutChoices = append(layoutChoices, Choice{Label: "None", Value: valueNone})
	layoutSource, err := p.Select(ctx, "Choose the name of the template (i.e. layout) for this page.", layoutChoices)
	if err != nil {
		return spec, err
	}
	switch layoutSource {
	case valueField:
		if spec.Layout, err = p.Select(ctx, "Select the layout field:", plainHints); err != nil {
			return spec, err
		}
		spec.LayoutSource = core.LayoutField
	case valueStatic:
		if spec.Layout, err = p.Input(ctx, "Insert the layout name", ""); err != nil {
			return spec, err
		}
		spec.Layout = strings.TrimSpace(spec.Layout)
		if spec.Layout != "" {
			spec.LayoutSource = core.LayoutStatic
		}
	}

	if spec.AddDateField, err = p.Confirm(ctx, "Do you want to add a 'date' field to the frontmatter? (e.g. date: 2019-12-31)", true); err != nil {
		return spec, err
	}

	contentChoices := append(append([]Choice{}, plainHints...), Choice{Label: "None", Value: valueNone})
	if spec.ContentField, err = p.Select(ctx, "Select the field that contains the page's content. The other fields will be added to the frontmatter.", contentChoices); err != nil {
		return spec, err
	}

	return spec, nil
}

func (c *Collector) data(ctx context.Context, m core.Model, examples map[string]string) (core.DataSpec, error) {
	p := c.Prompter
	spec := core.DataSpec{Model: m.Ref()}

	format, err := p.Select(ctx, "Choose a format for the file where the data objects will be stored:", []Choice{
		{Label: "JSON", Value: core.FormatJSON},
		{Label: "YAML", Value: core.FormatYAML},
	})
	if err != nil {
		return spec, err
	}
	spec.Format = format

	suggested := fmt.Sprintf("data/%s.%s", m.ModelName, format)
	locationChoices := []Choice{{Label: suggested, Value: valueDefault}}
	if len(m.FieldNames) > 0 {
		locationChoices = append(locationChoices, Choice{Label: "It comes from one of the model fields", Value: valueField})
	}
	locationChoices = append(locationChoices, Choice{Label: "Other", Value: valueOther})

	location, err := p.Select(ctx, "Choose a location for the file:", locationChoices)
	if err != nil {
		return spec, err
	}
	switch location {
	case valueField:
		field, err := p.Select(ctx, "Select the field that contains the file location", fieldChoices(m.FieldNames, examples, nil))
		if err != nil {
			return spec, err
		}
		spec.Location = core.FieldDerivedFile(field)
	case valueOther:
		fileName, err := p.Input(ctx, "Insert the location for the file", suggested)
		if err != nil {
			return spec, err
		}
		spec.Location = core.StaticFile(strings.TrimSpace(fileName))
	default:
		spec.Location = core.StaticFile(suggested)
	}

	spec.IsMultiple, err = p.Confirm(ctx, fmt.Sprintf(
		"Do you want to include multiple entries in the same file? If so, entries of %s are added as a list; if not, only one entry is kept.",
		m.ModelName), true)
	if err != nil {
		return spec, err
	}

	return spec, nil
}

func (c *Collector) slugify() func(string) string {
	if c.Slugify != nil {
		return c.Slugify
	}
	return slugify.Make
}

func (c *Collector) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}
