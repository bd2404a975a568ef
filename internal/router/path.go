package router

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sitewriter/pkg/core"
)

// dateLength is the rune length of the YYYY-MM-DD prefix of an ISO-8601 timestamp.
const dateLength = 10

func (r *Router) resolvePath(model core.ModelRef, loc core.LocationSpec, entry core.Entry, utils core.Utils) (string, error) {
	switch loc.EffectiveKind() {
	case core.LocationField:
		value, err := r.lookup(model, entry, loc.FileNameField, "location")
		if err != nil {
			return "", err
		}
		return pathSegment(value), nil

	case core.LocationCollection:
		if utils.Slugify == nil {
			return "", ErrSlugifyMissing
		}
		value, err := r.lookup(model, entry, loc.FileNameField, "location")
		if err != nil {
			return "", err
		}

		var b strings.Builder
		if loc.Directory != "" {
			b.WriteString(loc.Directory)
			b.WriteString("/")
		}
		if loc.UseDate {
			b.WriteString(datePrefix(entry.Metadata.CreatedAt))
			b.WriteString("-")
		}
		b.WriteString(utils.Slugify(pathSegment(value)))
		b.WriteString(".md")
		return b.String(), nil

	default:
		return loc.FileName, nil
	}
}

// pathSegment renders a field value for use in a path. Absent values render empty.
func pathSegment(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// datePrefix returns the first dateLength characters of createdAt.
func datePrefix(createdAt string) string {
	n := 0
	for i := range createdAt {
		if n == dateLength {
			return createdAt[:i]
		}
		n++
	}
	return createdAt
}
