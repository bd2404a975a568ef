// Package transform runs a WriteFunc over every object of a dataset and
// queues the resulting file descriptors.
package transform

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sitewriter/pkg/core"
)

// AssetModelName marks a field value as an asset reference.
const AssetModelName = "__asset"

// Driver applies a WriteFunc to entries in input order.
type Driver struct {
	// Write decides the files for an entry. A nil Write leaves datasets untouched.
	Write core.WriteFunc
	// Utils is passed to every Write call
	Utils core.Utils
	// FullAssetObjects keeps asset objects instead of reducing them to their URL
	FullAssetObjects bool
	Logger           *slog.Logger
}

// Transform returns a copy of data whose Files are the existing files followed
// by the descriptors produced for each object, in object order.
// It stops at the first Write error.
func (d *Driver) Transform(data *core.Dataset) (*core.Dataset, error) {
	if data == nil {
		return nil, nil
	}
	if d.Write == nil {
		return data, nil
	}

	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	files := make([]core.RouteResult, 0, len(data.Files)+len(data.Objects))
	files = append(files, data.Files...)

	skipped := 0
	for i, object := range data.Objects {
		if !d.FullAssetObjects {
			object = FlattenAssets(object)
		}

		results, err := d.Write(object, d.Utils)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, describe(object), err)
		}
		if len(results) == 0 {
			skipped++
			logger.Debug("object not written", slog.Int("index", i), slog.String("model", describe(object)))
			continue
		}
		files = append(files, results...)
	}

	logger.Debug("transform complete",
		slog.Int("objects", len(data.Objects)),
		slog.Int("files", len(files)-len(data.Files)),
		slog.Int("skipped", skipped),
	)

	out := *data
	out.Files = files
	return &out, nil
}

// FlattenAssets returns a copy of entry where every asset-valued field is
// replaced by the asset's URL. Metadata is shared, not copied.
func FlattenAssets(entry core.Entry) core.Entry {
	fields := make(map[string]any, len(entry.Fields))
	for name, value := range entry.Fields {
		if url, ok := AssetURL(value); ok {
			fields[name] = url
			continue
		}
		fields[name] = value
	}
	return core.Entry{Metadata: entry.Metadata, Fields: fields}
}

// AssetURL reports whether v is an asset object and returns its url value.
func AssetURL(v any) (any, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	meta, ok := obj[core.MetadataKey].(map[string]any)
	if !ok || meta["modelName"] != AssetModelName {
		return nil, false
	}
	return obj["url"], true
}

func describe(entry core.Entry) string {
	if entry.Metadata == nil {
		return "no metadata"
	}
	return entry.Metadata.Ref().String()
}
