package commands

import (
	"fmt"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/leapstack-labs/sitewriter/internal/cli/output"
	"github.com/leapstack-labs/sitewriter/internal/router"
	"github.com/spf13/cobra"
)

// NewRoutesCommand creates the routes command.
func NewRoutesCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the compiled routing rules",
		Long: `List the rules compiled from the setup answers, in the order they are matched.

The first rule whose model matches an entry decides where it is written.
Rules for a model that already has an earlier rule never match and are
marked as shadowed.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List rules
  sitewriter routes

  # List rules as JSON
  sitewriter routes --output json

  # Dump the rule structures for debugging
  sitewriter routes --raw`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoutes(cmd, raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Dump the compiled rules verbatim")

	return cmd
}

func runRoutes(cmd *cobra.Command, raw bool) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	rt, err := cmdCtx.Router()
	if err != nil {
		return err
	}
	rules := rt.Rules()

	if raw {
		r.Println(spew.Sdump(rules))
		return nil
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rules)
	case output.ModeMarkdown:
		routesMarkdown(r, rules)
	default:
		routesText(r, rules)
	}
	return nil
}

func routesText(r *output.Renderer, rules []router.RuleInfo) {
	r.Header(1, fmt.Sprintf("Routes (%d rules)", len(rules)))
	if len(rules) == 0 {
		r.Muted("No rules. Run 'sitewriter init' to answer the setup questions.")
		return
	}

	rows := make([][]string, 0, len(rules))
	for _, rule := range rules {
		rows = append(rows, []string{
			strconv.Itoa(rule.Priority + 1),
			string(rule.Kind),
			rule.Model.String(),
			rule.Format,
			rule.PathTemplate,
			ruleNotes(rule),
		})
	}
	r.Table([]string{"#", "Kind", "Model", "Format", "Path", "Notes"}, rows)
}

func routesMarkdown(r *output.Renderer, rules []router.RuleInfo) {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Routes (%d rules)", len(rules))))
	r.Println("")

	for _, rule := range rules {
		r.Println(output.FormatHeader(2, fmt.Sprintf("%d. %s", rule.Priority+1, rule.Model.String())))
		r.Println(output.FormatKeyValue("Kind", string(rule.Kind)))
		r.Println(output.FormatKeyValue("Format", rule.Format))
		r.Println(output.FormatKeyValue("Path", rule.PathTemplate))
		if notes := ruleNotes(rule); notes != "" {
			r.Println(output.FormatKeyValue("Notes", notes))
		}
		r.Println("")
	}
}

func ruleNotes(rule router.RuleInfo) string {
	switch {
	case rule.Shadowed:
		return fmt.Sprintf("shadowed by #%d", rule.ShadowedBy+1)
	case rule.Append:
		return "append"
	default:
		return ""
	}
}
