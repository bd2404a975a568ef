package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sitewriter/pkg/core"
)

const answersHeader = "# Generated by sitewriter init. Rule order is match priority.\n"

// LoadAnswers reads setup answers from a YAML or JSON file.
// It returns ErrNoAnswers when the file does not exist.
func LoadAnswers(path string) (*core.SetupAnswers, error) {
	content, err := os.ReadFile(path) //nolint:gosec // path is operator supplied
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoAnswers, path)
		}
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}

	answers, err := ParseAnswers(content, formatOf(path))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	return answers, nil
}

// ParseAnswers decodes and validates setup answers.
func ParseAnswers(content []byte, format string) (*core.SetupAnswers, error) {
	answers := &core.SetupAnswers{}
	if err := unmarshal(content, format, answers); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid %s: %v", format, err)}
	}
	if err := ValidateAnswers(answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// ValidateAnswers checks every spec for values the router cannot use.
func ValidateAnswers(answers *core.SetupAnswers) error {
	var problems []string

	for i, p := range answers.Pages {
		prefix := fmt.Sprintf("pages[%d] (%s)", i, p.Model)
		if p.Model.ModelName == "" {
			problems = append(problems, prefix+": model.modelName is required")
		}
		switch p.LayoutSource {
		case core.LayoutNone, core.LayoutField, core.LayoutStatic:
		default:
			problems = append(problems, fmt.Sprintf("%s: unknown layoutSource %q", prefix, p.LayoutSource))
		}
		if p.LayoutSource != core.LayoutNone && p.Layout == "" {
			problems = append(problems, prefix+": layoutSource is set but layout is empty")
		}
		problems = append(problems, validateLocation(prefix, p.Location)...)
	}

	for i, d := range answers.Data {
		prefix := fmt.Sprintf("data[%d] (%s)", i, d.Model)
		if d.Model.ModelName == "" {
			problems = append(problems, prefix+": model.modelName is required")
		}
		if d.Format != core.FormatJSON && d.Format != core.FormatYAML {
			problems = append(problems, fmt.Sprintf("%s: format must be %q or %q, got %q",
				prefix, core.FormatJSON, core.FormatYAML, d.Format))
		}
		if d.Location.EffectiveKind() == core.LocationCollection {
			problems = append(problems, prefix+": data objects cannot use a collection location")
		}
		problems = append(problems, validateLocation(prefix, d.Location)...)
	}

	if len(problems) > 0 {
		return &ParseError{Message: "invalid setup answers:\n  " + strings.Join(problems, "\n  ")}
	}
	return nil
}

func validateLocation(prefix string, loc core.LocationSpec) []string {
	switch loc.EffectiveKind() {
	case core.LocationStatic:
		if loc.FileName == "" {
			return []string{prefix + ": location.fileName is required"}
		}
	case core.LocationField, core.LocationCollection:
		if loc.FileNameField == "" {
			return []string{prefix + ": location.fileNameField is required"}
		}
	default:
		return []string{fmt.Sprintf("%s: unknown location kind %q", prefix, loc.Kind)}
	}
	return nil
}

// SaveAnswers writes answers as YAML, creating parent directories.
func SaveAnswers(path string, answers *core.SetupAnswers) error {
	if answers == nil {
		answers = &core.SetupAnswers{}
	}

	var buf bytes.Buffer
	buf.WriteString(answersHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(answers); err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write answers: %w", err)
	}
	return nil
}
