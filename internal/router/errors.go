package router

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/sitewriter/pkg/core"
)

// ErrSlugifyMissing is returned when a collection rule runs without utils.Slugify.
var ErrSlugifyMissing = errors.New("utils.slugify is required to build collection paths")

// MissingFieldError reports a configured field absent from an entry.
// It is only produced by routers compiled WithStrict.
type MissingFieldError struct {
	Model core.ModelRef
	Field string
	// Role is what the field was configured for: "content", "layout" or "location"
	Role string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("entry of model %s has no %s field %q", e.Model, e.Role, e.Field)
}
