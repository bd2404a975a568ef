package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sitewriter/pkg/core"
)

// FileStatus reports what happened to one output file.
type FileStatus string

// File statuses.
const (
	StatusCreated   FileStatus = "created"
	StatusUpdated   FileStatus = "updated"
	StatusUnchanged FileStatus = "unchanged"
	StatusSkipped   FileStatus = "skipped"
)

// FileReport describes one rendered file.
type FileReport struct {
	Path    string     `json:"path"`
	Format  string     `json:"format"`
	Entries int        `json:"entries"`
	Bytes   int        `json:"bytes"`
	Status  FileStatus `json:"status"`
	Reason  string     `json:"reason,omitempty"`
}

// Writer renders route results and persists them to a Store.
//
// Results sharing a path are merged in input order. Append results
// accumulate into a list; any other result replaces what came before it.
// Results with an unusable path are skipped and reported, unless Strict is set.
type Writer struct {
	Store   Store
	Options RenderOptions
	Logger  *slog.Logger
	Strict  bool
}

type pending struct {
	path    string
	format  string
	append  bool
	items   []any
	entries int
}

// Write renders and stores every result. Files are written in order of first
// appearance; skipped results are reported after them.
func (w *Writer) Write(ctx context.Context, results []core.RouteResult) ([]FileReport, error) {
	if w.Store == nil {
		return nil, fmt.Errorf("sink has no store")
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	files, skipped, err := merge(results, w.Strict, logger)
	if err != nil {
		return nil, err
	}

	reports := make([]FileReport, 0, len(files)+len(skipped))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		var content any
		if f.append {
			content = f.items
		} else {
			content = f.items[0]
		}
		data, err := Render(f.format, content, w.Options)
		if err != nil {
			return reports, fmt.Errorf("failed to render %s: %w", f.path, err)
		}

		status, err := w.store(ctx, f.path, data)
		if err != nil {
			return reports, err
		}
		logger.Debug("wrote file", "path", f.path, "format", f.format, "entries", f.entries, "status", status)
		reports = append(reports, FileReport{
			Path:    f.path,
			Format:  f.format,
			Entries: f.entries,
			Bytes:   len(data),
			Status:  status,
		})
	}
	return append(reports, skipped...), nil
}

func (w *Writer) store(ctx context.Context, path string, data []byte) (FileStatus, error) {
	status := StatusUpdated
	existing, err := w.Store.Read(ctx, path)
	switch {
	case errors.Is(err, ErrNotFound):
		status = StatusCreated
	case err != nil:
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	case bytes.Equal(existing, data):
		return StatusUnchanged, nil
	}
	if err := w.Store.Write(ctx, path, data); err != nil {
		return "", err
	}
	return status, nil
}

func merge(results []core.RouteResult, strict bool, logger *slog.Logger) ([]*pending, []FileReport, error) {
	var order []*pending
	var skipped []FileReport
	byPath := make(map[string]*pending)

	for i, r := range results {
		key, err := cleanPath(r.Path)
		if err != nil {
			if strict {
				return nil, nil, fmt.Errorf("result %d: %w", i, err)
			}
			logger.Warn("skipping result", "index", i, "path", r.Path, "error", err)
			skipped = append(skipped, FileReport{
				Path:    r.Path,
				Format:  r.Format,
				Entries: 1,
				Status:  StatusSkipped,
				Reason:  err.Error(),
			})
			continue
		}
		p, ok := byPath[key]
		if !ok {
			p = &pending{path: key}
			byPath[key] = p
			order = append(order, p)
		} else if p.format != r.Format {
			logger.Warn("format changed for path", "path", key, "from", p.format, "to", r.Format)
		}
		p.format = r.Format

		if r.Append {
			if !p.append {
				p.items = nil
				p.entries = 0
			}
			p.append = true
			p.items = append(p.items, r.Content)
			p.entries++
			continue
		}
		if p.entries > 0 {
			logger.Warn("overwriting earlier result", "path", key)
		}
		p.append = false
		p.items = []any{r.Content}
		p.entries = 1
	}
	return order, skipped, nil
}
