package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/leapstack-labs/sitewriter/internal/cli/output"
	"github.com/leapstack-labs/sitewriter/internal/loader"
	"github.com/leapstack-labs/sitewriter/internal/router"
	"github.com/leapstack-labs/sitewriter/internal/wizard"
	"github.com/leapstack-labs/sitewriter/pkg/core"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Answer the setup questions for a content export",
		Long: `Walk through the models found in a content export and decide, for each one,
whether it becomes pages, data files or is skipped.

Pages are configured first, then data objects. The answers are saved to
sitewriter.answers.yml (or the path given with --answers). The order of the
saved entries is the order rules are matched in; edit the file to reorder.`,
		Example: `  # Configure routing for ./content.json
  sitewriter init

  # Use a different export and answers file
  sitewriter init --content export.yml --answers site/answers.yml

  # Start over, replacing existing answers
  sitewriter init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			if err := cmdCtx.Cfg.ValidateContent(); err != nil {
				return err
			}

			term := wizard.NewTerminal(os.Stdin, cmd.OutOrStdout())
			defer func() { _ = term.Close() }()

			return runInit(cmd.Context(), cmdCtx, term, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing setup answers")

	return cmd
}

func runInit(ctx context.Context, c *CommandContext, p wizard.Prompter, force bool) error {
	r := c.Renderer
	path := c.Cfg.Answers

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", path)
	}

	data, err := loader.LoadDataset(c.Cfg.Content)
	if err != nil {
		return err
	}
	if len(data.Models) == 0 {
		return fmt.Errorf("no models found in %s", c.Cfg.Content)
	}

	utils, err := c.Utils()
	if err != nil {
		return err
	}
	collector := &wizard.Collector{Prompter: p, Logger: c.Logger, Slugify: utils.Slugify}

	answers, err := collector.Collect(ctx, data)
	if errors.Is(err, wizard.ErrAborted) {
		r.Warning("setup aborted, nothing was saved")
		return nil
	}
	if err != nil {
		return err
	}

	if err := loader.SaveAnswers(path, answers); err != nil {
		return err
	}

	printInitSummary(r, path, answers)
	return nil
}

func printInitSummary(r *output.Renderer, path string, answers *core.SetupAnswers) {
	r.Println("")
	if len(answers.Pages) > 0 {
		r.Header(2, "Pages")
		for _, p := range answers.Pages {
			r.StatusLine(p.Model.ModelName, "success", router.DescribeLocation(p.Location))
		}
		r.Println("")
	}
	if len(answers.Data) > 0 {
		r.Header(2, "Data")
		for _, d := range answers.Data {
			r.StatusLine(d.Model.ModelName, "success", router.DescribeLocation(d.Location))
		}
		r.Println("")
	}
	if answers.Len() == 0 {
		r.Warning("every model was skipped; builds will not write any files")
	}

	r.Success("Setup answers saved to " + path)
	r.Println("")
	r.Println("Next steps:")
	r.Println("  sitewriter routes   Review the compiled routing rules")
	r.Println("  sitewriter build    Write pages and data files")
}
