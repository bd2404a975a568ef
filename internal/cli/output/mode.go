// Package output renders command output as styled text, markdown or JSON.
//
// Auto mode picks styled text for terminals and markdown for pipes so that
// scripts and agents get stable, uncolored output.
package output

import "strings"

// OutputMode selects how a Renderer formats output.
type OutputMode string //nolint:revive // name kept for call-site clarity

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Mode parses a configured output format. Unknown or empty values mean auto.
func Mode(s string) OutputMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return ModeText
	case "markdown", "md":
		return ModeMarkdown
	case "json":
		return ModeJSON
	default:
		return ModeAuto
	}
}
