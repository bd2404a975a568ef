package wizard

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/sitewriter/pkg/core"
)

var titleCaser = cases.Title(language.English)

// ModelLabel returns the model's label, or a title-cased form of its name.
func ModelLabel(m core.Model) string {
	if strings.TrimSpace(m.ModelLabel) != "" {
		return m.ModelLabel
	}
	name := strings.NewReplacer("_", " ", "-", " ").Replace(m.ModelName)
	return titleCaser.String(name)
}

// fieldChoices lists a model's fields, decorated with example values.
// Path-producing questions pass slug so hints show the resulting file name.
func fieldChoices(fields []string, examples map[string]string, slug func(string) string) []Choice {
	choices := make([]Choice, 0, len(fields))
	for _, name := range fields {
		label := name
		if example, ok := examples[name]; ok {
			if slug != nil {
				example = slug(example)
			}
			label = fmt.Sprintf("%s (e.g. %s)", name, example)
		}
		choices = append(choices, Choice{Label: label, Value: name})
	}
	return choices
}
