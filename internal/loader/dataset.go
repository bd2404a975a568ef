// Package loader reads content datasets and setup answers from disk.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sitewriter/pkg/core"
)

// datasetFile is the on-disk shape of a dataset. A bare list of objects is also accepted.
// Files holds results an earlier step already queued; they are kept ahead of new ones.
type datasetFile struct {
	Models  []core.Model       `json:"models" yaml:"models"`
	Objects []map[string]any   `json:"objects" yaml:"objects"`
	Files   []core.RouteResult `json:"files" yaml:"files"`
}

var datasetKeys = map[string]bool{"models": true, "objects": true, "files": true}

// LoadDataset reads a dataset from a .json, .yaml or .yml file.
// When the file lists no models they are inferred from the objects.
func LoadDataset(path string) (*core.Dataset, error) {
	content, err := os.ReadFile(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	ds, err := ParseDataset(content, formatOf(path))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		var ue *UnknownFieldError
		if errors.As(err, &ue) {
			ue.File = path
		}
		return nil, err
	}
	return ds, nil
}

// ParseDataset decodes dataset content. format is "json" or "yaml".
func ParseDataset(content []byte, format string) (*core.Dataset, error) {
	var raw any
	if err := unmarshal(content, format, &raw); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid %s: %v", format, err)}
	}

	var file datasetFile
	switch v := raw.(type) {
	case nil:
	case []any:
		objects, err := toObjects(v)
		if err != nil {
			return nil, err
		}
		file.Objects = objects
	case map[string]any:
		for key := range v {
			if !datasetKeys[key] {
				return nil, &UnknownFieldError{Field: key}
			}
		}
		if err := unmarshal(content, format, &file); err != nil {
			return nil, &ParseError{Message: fmt.Sprintf("failed to decode dataset: %v", err)}
		}
	default:
		return nil, &ParseError{Message: fmt.Sprintf("dataset must be a mapping or a list, got %T", raw)}
	}

	ds := &core.Dataset{Models: file.Models, Files: file.Files}
	ds.Objects = make([]core.Entry, 0, len(file.Objects))
	for _, obj := range file.Objects {
		ds.Objects = append(ds.Objects, core.EntryFromMap(obj))
	}
	if len(ds.Models) == 0 {
		ds.Models = InferModels(ds.Objects)
	}

	return ds, nil
}

// InferModels derives models from the distinct ModelRefs of entries, in
// first-seen order. Each entry contributes its unseen field names in sorted order.
func InferModels(entries []core.Entry) []core.Model {
	var models []core.Model
	index := make(map[core.ModelRef]int)
	seenFields := make(map[core.ModelRef]map[string]bool)

	for _, entry := range entries {
		if entry.Metadata == nil {
			continue
		}
		ref := entry.Metadata.Ref()
		i, ok := index[ref]
		if !ok {
			i = len(models)
			index[ref] = i
			seenFields[ref] = make(map[string]bool)
			models = append(models, core.Model{
				ModelName:          ref.ModelName,
				ProjectID:          ref.ProjectID,
				ProjectEnvironment: entry.Metadata.ProjectEnvironment,
				Source:             ref.Source,
			})
		}
		for _, name := range sortedKeys(entry.Fields) {
			if seenFields[ref][name] {
				continue
			}
			seenFields[ref][name] = true
			models[i].FieldNames = append(models[i].FieldNames, name)
		}
	}

	return models
}

func toObjects(items []any) ([]map[string]any, error) {
	objects := make([]map[string]any, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &ParseError{Message: fmt.Sprintf("object %d is not a mapping", i)}
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func unmarshal(content []byte, format string, out any) error {
	if format == "json" {
		return json.Unmarshal(content, out)
	}
	return yaml.Unmarshal(content, out)
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}
