package core

// LocationKind selects how an output path is derived.
type LocationKind string

// Location kinds.
const (
	// LocationStatic writes to a fixed path.
	LocationStatic LocationKind = "static"
	// LocationField takes the path from an entry field.
	LocationField LocationKind = "field"
	// LocationCollection builds directory/[date-]slug.md paths.
	LocationCollection LocationKind = "collection"
)

// LocationSpec describes how an output path is derived.
type LocationSpec struct {
	Kind LocationKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	// FileName is the fixed path for LocationStatic
	FileName string `json:"fileName,omitempty" yaml:"fileName,omitempty"`
	// FileNameField names the entry field holding the path (or the slug source)
	FileNameField string `json:"fileNameField,omitempty" yaml:"fileNameField,omitempty"`
	// Directory is the optional collection directory, without trailing slash
	Directory string `json:"directory,omitempty" yaml:"directory,omitempty"`
	// UseDate prefixes collection file names with the entry's creation date
	UseDate bool `json:"useDate,omitempty" yaml:"useDate,omitempty"`
}

// StaticFile returns a location with a fixed path.
func StaticFile(fileName string) LocationSpec {
	return LocationSpec{Kind: LocationStatic, FileName: fileName}
}

// FieldDerivedFile returns a location whose path is the value of a field.
func FieldDerivedFile(fileNameField string) LocationSpec {
	return LocationSpec{Kind: LocationField, FileNameField: fileNameField}
}

// DirectoryCollection returns a collection location.
func DirectoryCollection(directory, fileNameField string, useDate bool) LocationSpec {
	return LocationSpec{
		Kind:          LocationCollection,
		Directory:     directory,
		FileNameField: fileNameField,
		UseDate:       useDate,
	}
}

// EffectiveKind returns Kind, inferring it from the populated fields when unset.
// A fileName wins, then a directory or date flag, then a bare fileNameField.
func (l LocationSpec) EffectiveKind() LocationKind {
	if l.Kind != "" {
		return l.Kind
	}
	switch {
	case l.FileName != "":
		return LocationStatic
	case l.Directory != "" || l.UseDate:
		return LocationCollection
	case l.FileNameField != "":
		return LocationField
	default:
		return LocationStatic
	}
}

// LayoutSource selects whether a page's layout is a literal or a field reference.
type LayoutSource string

// Layout sources.
const (
	LayoutNone   LayoutSource = ""
	LayoutField  LayoutSource = "field"
	LayoutStatic LayoutSource = "static"
)

// PageSpec configures a page-type model. Pages are always written as frontmatter-md.
type PageSpec struct {
	Model    ModelRef     `json:"model" yaml:"model"`
	Location LocationSpec `json:"location" yaml:"location"`
	// ContentField selects the field that becomes the document body
	ContentField string `json:"contentField,omitempty" yaml:"contentField,omitempty"`
	// Layout is a literal layout name or a field name, depending on LayoutSource
	Layout       string       `json:"layout,omitempty" yaml:"layout,omitempty"`
	LayoutSource LayoutSource `json:"layoutSource,omitempty" yaml:"layoutSource,omitempty"`
	// AddDateField adds a date key (YYYY-MM-DD from createdAt) to the frontmatter
	AddDateField bool `json:"addDateField,omitempty" yaml:"addDateField,omitempty"`
}

// DataSpec configures a data-type model.
// Only LocationStatic and LocationField are meaningful for data objects.
type DataSpec struct {
	Model    ModelRef     `json:"model" yaml:"model"`
	Location LocationSpec `json:"location" yaml:"location"`
	// Format is "json" or "yml"
	Format string `json:"format" yaml:"format"`
	// IsMultiple asks the sink to accumulate entries in the target file
	IsMultiple bool `json:"isMultiple" yaml:"isMultiple"`
}

// SetupAnswers is the outcome of one setup session.
// Order is significant: it is the match priority of the compiled router.
type SetupAnswers struct {
	Pages []PageSpec `json:"pages" yaml:"pages"`
	Data  []DataSpec `json:"data" yaml:"data"`
}

// AddPage appends a page spec.
func (a *SetupAnswers) AddPage(spec PageSpec) {
	a.Pages = append(a.Pages, spec)
}

// AddData appends a data spec.
func (a *SetupAnswers) AddData(spec DataSpec) {
	a.Data = append(a.Data, spec)
}

// Len returns the total number of specs.
func (a *SetupAnswers) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Pages) + len(a.Data)
}

// Refs returns every spec's ModelRef in match-priority order.
func (a *SetupAnswers) Refs() []ModelRef {
	if a == nil {
		return nil
	}
	refs := make([]ModelRef, 0, a.Len())
	for _, p := range a.Pages {
		refs = append(refs, p.Model)
	}
	for _, d := range a.Data {
		refs = append(refs, d.Model)
	}
	return refs
}
