package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// MetadataKey is the reserved entry key holding an entry's metadata.
const MetadataKey = "__metadata"

// Metadata is the metadata object attached to every routable entry.
type Metadata struct {
	ModelName          string
	ProjectID          string
	ProjectEnvironment string
	Source             string
	// CreatedAt is an ISO-8601 timestamp; only its first 10 characters are used
	CreatedAt string
	// Extra holds metadata keys that have no dedicated field
	Extra map[string]any
}

// Ref returns the routing identity carried by the metadata.
func (m *Metadata) Ref() ModelRef {
	if m == nil {
		return ModelRef{}
	}
	return ModelRef{ModelName: m.ModelName, ProjectID: m.ProjectID, Source: m.Source}
}

// Entry is a single content object. Metadata is nil when the object carries none.
type Entry struct {
	Metadata *Metadata
	Fields   map[string]any
}

// Field returns the value of a field and whether it is present.
func (e Entry) Field(name string) (any, bool) {
	if e.Fields == nil {
		return nil, false
	}
	v, ok := e.Fields[name]
	return v, ok
}

// CloneFields returns a shallow copy of the entry's fields.
func (e Entry) CloneFields() map[string]any {
	out := make(map[string]any, len(e.Fields))
	for k, v := range e.Fields {
		out[k] = v
	}
	return out
}

// EntryFromMap splits a flat content object into metadata and fields.
// A missing or non-mapping __metadata value yields an entry without metadata.
func EntryFromMap(m map[string]any) Entry {
	entry := Entry{Fields: make(map[string]any, len(m))}
	for k, v := range m {
		if k == MetadataKey {
			if raw, ok := v.(map[string]any); ok {
				entry.Metadata = metadataFromMap(raw)
			}
			continue
		}
		entry.Fields[k] = v
	}
	return entry
}

// ToMap converts the entry back into its flat form.
func (e Entry) ToMap() map[string]any {
	out := e.CloneFields()
	if e.Metadata != nil {
		out[MetadataKey] = e.Metadata.toMap()
	}
	return out
}

// MarshalJSON encodes the entry in its flat form.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToMap())
}

// UnmarshalJSON decodes a flat content object.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = EntryFromMap(raw)
	return nil
}

func metadataFromMap(raw map[string]any) *Metadata {
	meta := &Metadata{}
	for k, v := range raw {
		switch k {
		case "modelName":
			meta.ModelName = scalarString(v)
		case "projectId":
			meta.ProjectID = scalarString(v)
		case "projectEnvironment":
			meta.ProjectEnvironment = scalarString(v)
		case "source":
			meta.Source = scalarString(v)
		case "createdAt":
			meta.CreatedAt = scalarString(v)
		default:
			if meta.Extra == nil {
				meta.Extra = make(map[string]any)
			}
			meta.Extra[k] = v
		}
	}
	return meta
}

func (m *Metadata) toMap() map[string]any {
	out := make(map[string]any, len(m.Extra)+5)
	for k, v := range m.Extra {
		out[k] = v
	}
	out["modelName"] = m.ModelName
	out["projectId"] = m.ProjectID
	out["source"] = m.Source
	if m.ProjectEnvironment != "" {
		out["projectEnvironment"] = m.ProjectEnvironment
	}
	if m.CreatedAt != "" {
		out["createdAt"] = m.CreatedAt
	}
	return out
}

func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
