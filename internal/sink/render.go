package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sitewriter/pkg/core"
)

// RenderOptions tune how content is rendered.
type RenderOptions struct {
	// HTMLToMarkdown converts string page bodies from HTML to markdown
	HTMLToMarkdown bool
}

// Render encodes content in the given format.
func Render(format string, content any, opts RenderOptions) ([]byte, error) {
	switch format {
	case core.FormatJSON:
		return renderJSON(content)
	case core.FormatYAML:
		return renderYAML(content)
	case core.FormatFrontmatterMarkdown:
		if docs, ok := content.([]any); ok {
			return renderDocuments(docs, opts)
		}
		return renderDocument(content, opts)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func renderJSON(content any) ([]byte, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return append(data, '\n'), nil
}

func renderYAML(content any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(content); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func renderDocuments(docs []any, opts RenderOptions) ([]byte, error) {
	var buf bytes.Buffer
	for i, doc := range docs {
		data, err := renderDocument(doc, opts)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// renderDocument writes a frontmatter block followed by the body.
func renderDocument(content any, opts RenderOptions) ([]byte, error) {
	page, err := asPage(content)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	if len(page.Frontmatter) > 0 {
		fm, err := renderYAML(page.Frontmatter)
		if err != nil {
			return nil, err
		}
		buf.Write(fm)
	}
	buf.WriteString("---\n")

	body, err := renderBody(page.Body, opts)
	if err != nil {
		return nil, err
	}
	if body != "" {
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), nil
}

func asPage(content any) (core.PageContent, error) {
	switch v := content.(type) {
	case core.PageContent:
		return v, nil
	case *core.PageContent:
		if v == nil {
			return core.PageContent{}, nil
		}
		return *v, nil
	case map[string]any:
		// shape produced by hook scripts
		page := core.PageContent{Body: v["body"]}
		if fm, ok := v["frontmatter"].(map[string]any); ok {
			page.Frontmatter = fm
		}
		return page, nil
	case nil:
		return core.PageContent{}, nil
	default:
		return core.PageContent{}, fmt.Errorf("frontmatter-md content must be a page, got %T", content)
	}
}

func renderBody(body any, opts RenderOptions) (string, error) {
	switch v := body.(type) {
	case nil:
		return "", nil
	case string:
		if opts.HTMLToMarkdown && strings.Contains(v, "<") {
			md, err := htmltomarkdown.ConvertString(v)
			if err != nil {
				return "", fmt.Errorf("failed to convert html body: %w", err)
			}
			return md, nil
		}
		return v, nil
	case map[string]any:
		if len(v) == 0 {
			return "", nil
		}
	}
	data, err := renderYAML(body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
