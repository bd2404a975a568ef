// Package sampler finds short example values for a model's fields.
// The examples only decorate setup prompts; they never affect routing.
package sampler

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/sitewriter/pkg/core"
)

// DefaultMaxLength is the example length used by the setup wizard.
const DefaultMaxLength = 60

// ExampleValues returns, per field name, the first non-empty scalar value found
// in entries of the given model, trimmed and cut to maxLength characters.
// Entries whose metadata does not match ref exactly are skipped.
func ExampleValues(ref core.ModelRef, fieldNames []string, entries []core.Entry, maxLength int) map[string]string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	examples := make(map[string]string, len(fieldNames))
	for _, entry := range entries {
		if len(examples) == len(fieldNames) {
			break
		}
		if entry.Metadata == nil || !entry.Metadata.Ref().Equal(ref) {
			continue
		}

		for _, name := range fieldNames {
			if _, done := examples[name]; done {
				continue
			}
			value, ok := scalarString(entry.Fields[name])
			if !ok {
				continue
			}
			value = truncate(strings.TrimSpace(value), maxLength)
			if value != "" {
				examples[name] = value
			}
		}
	}

	return examples
}

// ForModel is ExampleValues for a model's declared fields.
func ForModel(model core.Model, entries []core.Entry) map[string]string {
	return ExampleValues(model.Ref(), model.FieldNames, entries, DefaultMaxLength)
}

func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return fmt.Sprint(val), true
	default:
		return "", false
	}
}

func truncate(s string, maxLength int) string {
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	return string([]rune(s)[:maxLength])
}
