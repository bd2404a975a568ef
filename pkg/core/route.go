package core

// Output formats understood by the sink.
const (
	FormatJSON                = "json"
	FormatYAML                = "yml"
	FormatFrontmatterMarkdown = "frontmatter-md"
)

// PageContent is the content of a frontmatter-md document.
type PageContent struct {
	Body        any            `json:"body" yaml:"body"`
	Frontmatter map[string]any `json:"frontmatter" yaml:"frontmatter"`
}

// RouteResult describes one file to write.
// Content is a PageContent for pages and a field mapping for data objects.
type RouteResult struct {
	Content any    `json:"content" yaml:"content"`
	Format  string `json:"format" yaml:"format"`
	Path    string `json:"path" yaml:"path"`
	Append  bool   `json:"append,omitempty" yaml:"append,omitempty"`
}

// Utils carries capabilities injected at evaluation time.
type Utils struct {
	Slugify func(string) string
}

// WriteFunc decides whether and where an entry is written.
// Zero results means "do not write".
type WriteFunc func(entry Entry, utils Utils) ([]RouteResult, error)

// Dataset is the content pool flowing through a transform.
type Dataset struct {
	Models  []Model       `json:"models" yaml:"models"`
	Objects []Entry       `json:"objects" yaml:"objects"`
	Files   []RouteResult `json:"files,omitempty" yaml:"files,omitempty"`
}
