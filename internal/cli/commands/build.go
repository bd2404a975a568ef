package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/sitewriter/internal/cli/output"
	"github.com/leapstack-labs/sitewriter/internal/loader"
	"github.com/leapstack-labs/sitewriter/internal/sink"
	"github.com/leapstack-labs/sitewriter/internal/transform"
	"github.com/spf13/cobra"
)

// BuildOptions holds options for the build command.
type BuildOptions struct {
	DryRun bool
	Watch  bool
}

// BuildSummary reports the outcome of one build.
type BuildSummary struct {
	RunID      string            `json:"run_id"`
	Source     string            `json:"source"`
	Store      string            `json:"store"`
	DryRun     bool              `json:"dry_run,omitempty"`
	Objects    int               `json:"objects"`
	Files      []sink.FileReport `json:"files"`
	DurationMS int64             `json:"duration_ms"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write site files from exported content",
		Long: `Route every content object through the setup answers (or a hook script)
and write the resulting pages and data files.

Files that share a path are merged: data models configured for multiple
entries accumulate into a list, anything else keeps the last entry.
Files whose rendered content did not change are left untouched.`,
		Example: `  # Build into the configured output directory
  sitewriter build

  # Show what would be written without touching the output
  sitewriter build --dry-run

  # Rebuild whenever the content export or answers change
  sitewriter build --watch

  # Build with JSON output for CI/CD integration
  sitewriter build -o json`,
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Render files in memory without writing them")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Rebuild when the content, answers or hook change")

	return cmd
}

func runBuild(cmd *cobra.Command, opts *BuildOptions) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.Cfg.ValidateContent(); err != nil {
		return err
	}

	if opts.Watch {
		return watchBuild(cmd.Context(), cmdCtx, opts.DryRun)
	}

	summary, err := build(cmd.Context(), cmdCtx, opts.DryRun)
	if err != nil {
		return err
	}
	return renderBuildSummary(cmdCtx.Renderer, summary)
}

// build runs one load, transform and write cycle.
func build(ctx context.Context, c *CommandContext, dryRun bool) (*BuildSummary, error) {
	start := time.Now()
	summary := &BuildSummary{
		RunID:  uuid.New().String(),
		Store:  c.storeName(),
		DryRun: dryRun,
	}
	logger := c.Logger.With(slog.String("run_id", summary.RunID))

	data, err := loader.LoadDataset(c.Cfg.Content)
	if err != nil {
		return nil, err
	}
	summary.Objects = len(data.Objects)

	write, source, err := c.WriteFunc()
	if err != nil {
		return nil, err
	}
	summary.Source = source

	utils, err := c.Utils()
	if err != nil {
		return nil, err
	}

	driver := &transform.Driver{
		Write:            write,
		Utils:            utils,
		FullAssetObjects: c.Cfg.FullAssetObjects,
		Logger:           logger,
	}
	out, err := driver.Transform(data)
	if err != nil {
		return nil, fmt.Errorf("transform failed: %w", err)
	}

	var store sink.Store
	if dryRun {
		store = sink.NewMemoryStore()
		summary.Store = "memory"
	} else if store, err = c.Store(); err != nil {
		return nil, err
	}

	w := &sink.Writer{
		Store:   store,
		Options: sink.RenderOptions{HTMLToMarkdown: c.Cfg.HTMLToMarkdown},
		Logger:  logger,
		Strict:  c.Cfg.Strict,
	}
	if summary.Files, err = w.Write(ctx, out.Files); err != nil {
		return nil, err
	}

	summary.DurationMS = time.Since(start).Milliseconds()
	logger.Info("build complete",
		slog.Int("objects", summary.Objects),
		slog.Int("files", len(summary.Files)),
		slog.Int64("duration_ms", summary.DurationMS),
	)
	return summary, nil
}

func renderBuildSummary(r *output.Renderer, s *BuildSummary) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(s)
	}

	title := "Build"
	if s.DryRun {
		title = "Build (dry run)"
	}
	r.Header(1, title)
	r.Println(output.FormatKeyValue("Run", s.RunID))
	r.Println(output.FormatKeyValue("Routing", s.Source))
	r.Println(output.FormatKeyValue("Output", s.Store))
	r.Println(output.FormatKeyValue("Objects", strconv.Itoa(s.Objects)))
	r.Println("")

	if len(s.Files) == 0 {
		r.Warning("no files were produced; check that the answers cover the exported models")
		return nil
	}

	rows := make([][]string, 0, len(s.Files))
	var created, updated, unchanged, skipped int
	for _, f := range s.Files {
		rows = append(rows, []string{f.Path, f.Format, strconv.Itoa(f.Entries), strconv.Itoa(f.Bytes), string(f.Status)})
		switch f.Status {
		case sink.StatusCreated:
			created++
		case sink.StatusUpdated:
			updated++
		case sink.StatusUnchanged:
			unchanged++
		case sink.StatusSkipped:
			skipped++
			r.Warning(fmt.Sprintf("skipped result with path %q: %s", f.Path, f.Reason))
		}
	}
	r.Table([]string{"Path", "Format", "Entries", "Bytes", "Status"}, rows)
	r.Println("")
	msg := fmt.Sprintf("%d files (%d created, %d updated, %d unchanged) in %s",
		len(s.Files)-skipped, created, updated, unchanged, time.Duration(s.DurationMS)*time.Millisecond)
	if skipped > 0 {
		msg += fmt.Sprintf(", %d results skipped", skipped)
	}
	r.Success(msg)
	return nil
}
