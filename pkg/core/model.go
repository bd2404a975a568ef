package core

import "strings"

// ModelRef identifies a content model instance.
// Two entries route identically iff their ModelRef triples are equal.
type ModelRef struct {
	// ModelName is the model's machine name (e.g., "post")
	ModelName string `json:"modelName" yaml:"modelName"`
	// ProjectID identifies the CMS project the model belongs to
	ProjectID string `json:"projectId" yaml:"projectId"`
	// Source names the content source plugin that produced the model
	Source string `json:"source" yaml:"source"`
}

// Equal reports whether both references match exactly. No normalization is applied.
func (r ModelRef) Equal(other ModelRef) bool {
	return r.ModelName == other.ModelName &&
		r.ProjectID == other.ProjectID &&
		r.Source == other.Source
}

// String returns a compact "source/projectId/modelName" form for display.
func (r ModelRef) String() string {
	return r.Source + "/" + r.ProjectID + "/" + r.ModelName
}

// Model describes a content model as advertised by a content source.
type Model struct {
	// ModelName is the model's machine name
	ModelName string `json:"modelName" yaml:"modelName"`
	// ModelLabel is an optional human-readable name
	ModelLabel string `json:"modelLabel,omitempty" yaml:"modelLabel,omitempty"`
	// ProjectID identifies the CMS project
	ProjectID string `json:"projectId" yaml:"projectId"`
	// ProjectEnvironment is the CMS environment (informational only)
	ProjectEnvironment string `json:"projectEnvironment,omitempty" yaml:"projectEnvironment,omitempty"`
	// Source names the content source plugin
	Source string `json:"source" yaml:"source"`
	// FieldNames lists the model's fields in declaration order
	FieldNames []string `json:"fieldNames,omitempty" yaml:"fieldNames,omitempty"`
}

// Ref returns the routing identity of the model.
func (m Model) Ref() ModelRef {
	return ModelRef{ModelName: m.ModelName, ProjectID: m.ProjectID, Source: m.Source}
}

// DisplayName returns the label when set, otherwise the model name.
func (m Model) DisplayName() string {
	if strings.TrimSpace(m.ModelLabel) != "" {
		return m.ModelLabel
	}
	return m.ModelName
}
