// Package wizard collects setup answers by asking questions about each model.
package wizard

import (
	"context"
	"errors"
)

// ErrAborted is returned when the operator cancels the wizard.
var ErrAborted = errors.New("setup aborted")

// ModelType is the role assigned to a model in the type table.
type ModelType string

// Model types.
const (
	TypePage ModelType = "page"
	TypeData ModelType = "data"
	TypeSkip ModelType = "skip"
)

// ModelRow is one row of the type table.
type ModelRow struct {
	Label  string
	Detail string
}

// Choice is one option of a Select question.
type Choice struct {
	Label string
	Value string
}

// Prompter asks the operator questions. Each call blocks until answered.
type Prompter interface {
	// ChooseTypes returns one ModelType per row, in row order.
	ChooseTypes(ctx context.Context, message string, rows []ModelRow) ([]ModelType, error)
	Select(ctx context.Context, message string, choices []Choice) (string, error)
	Input(ctx context.Context, message, def string) (string, error)
	Confirm(ctx context.Context, message string, def bool) (bool, error)
	// Announce shows a progress message between questions.
	Announce(message string)
}
