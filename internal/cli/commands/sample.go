package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sitewriter/internal/cli/output"
	"github.com/leapstack-labs/sitewriter/internal/loader"
	"github.com/leapstack-labs/sitewriter/internal/sampler"
	"github.com/leapstack-labs/sitewriter/internal/sink"
	"github.com/leapstack-labs/sitewriter/internal/transform"
	"github.com/leapstack-labs/sitewriter/pkg/core"
	"github.com/spf13/cobra"
)

// ModelSample is the example data shown for one model.
type ModelSample struct {
	Model   core.ModelRef     `json:"model"`
	Label   string            `json:"label,omitempty"`
	Entries int               `json:"entries"`
	Fields  []string          `json:"fields"`
	Values  map[string]string `json:"examples"`
	Preview []FilePreview     `json:"preview,omitempty"`
}

// FilePreview is one rendered file for the first entry of a model.
type FilePreview struct {
	Path    string `json:"path"`
	Format  string `json:"format"`
	Content string `json:"content"`
}

// NewSampleCommand creates the sample command.
func NewSampleCommand() *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "sample [model]",
		Short: "Show example field values for content models",
		Long: `Show the models found in the content export with an example value for each
field, taken from the first entry that has one.

With --preview, the first entry of the model is routed and the files it
would produce are rendered.`,
		Example: `  # Example values for every model
  sitewriter sample

  # Example values for one model
  sitewriter sample blog_post

  # Render the files the first blog_post entry would produce
  sitewriter sample blog_post --preview`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model := ""
			if len(args) > 0 {
				model = args[0]
			}
			return runSample(cmd, model, preview)
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "Render the files produced for the model's first entry")

	return cmd
}

func runSample(cmd *cobra.Command, modelName string, preview bool) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	if err := cmdCtx.Cfg.ValidateContent(); err != nil {
		return err
	}
	data, err := loader.LoadDataset(cmdCtx.Cfg.Content)
	if err != nil {
		return err
	}

	var models []core.Model
	for _, m := range data.Models {
		if modelName == "" || m.ModelName == modelName {
			models = append(models, m)
		}
	}
	if modelName != "" && len(models) == 0 {
		return fmt.Errorf("model %q not found in %s", modelName, cmdCtx.Cfg.Content)
	}
	if preview && modelName == "" {
		return fmt.Errorf("--preview requires a model name")
	}

	samples := make([]ModelSample, 0, len(models))
	for _, m := range models {
		samples = append(samples, sampleModel(m, data.Objects))
	}

	if preview {
		for i := range samples {
			if samples[i].Preview, err = previewModel(cmdCtx, models[i], data.Objects); err != nil {
				return err
			}
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(samples)
	case output.ModeMarkdown:
		sampleMarkdown(r, samples)
	default:
		sampleText(r, samples)
	}
	return nil
}

func sampleModel(m core.Model, objects []core.Entry) ModelSample {
	ref := m.Ref()
	count := 0
	for _, o := range objects {
		if o.Metadata.Ref() == ref {
			count++
		}
	}
	return ModelSample{
		Model:   ref,
		Label:   m.ModelLabel,
		Entries: count,
		Fields:  m.FieldNames,
		Values:  sampler.ForModel(m, objects),
	}
}

// previewModel routes the first entry of m and renders each resulting file.
func previewModel(c *CommandContext, m core.Model, objects []core.Entry) ([]FilePreview, error) {
	write, _, err := c.WriteFunc()
	if err != nil {
		return nil, err
	}
	utils, err := c.Utils()
	if err != nil {
		return nil, err
	}

	ref := m.Ref()
	for _, o := range objects {
		if o.Metadata.Ref() != ref {
			continue
		}
		if !c.Cfg.FullAssetObjects {
			o = transform.FlattenAssets(o)
		}
		results, err := write(o, utils)
		if err != nil {
			return nil, err
		}

		previews := make([]FilePreview, 0, len(results))
		for _, res := range results {
			content, err := sink.Render(res.Format, res.Content, sink.RenderOptions{HTMLToMarkdown: c.Cfg.HTMLToMarkdown})
			if err != nil {
				return nil, fmt.Errorf("%s: %w", res.Path, err)
			}
			previews = append(previews, FilePreview{Path: res.Path, Format: res.Format, Content: string(content)})
		}
		return previews, nil
	}
	return nil, nil
}

func sampleText(r *output.Renderer, samples []ModelSample) {
	for _, s := range samples {
		r.Header(1, fmt.Sprintf("%s (%d entries)", s.Model.String(), s.Entries))
		rows := make([][]string, 0, len(s.Fields))
		for _, f := range s.Fields {
			rows = append(rows, []string{f, s.Values[f]})
		}
		r.Table([]string{"Field", "Example"}, rows)
		printPreviews(r, s.Preview)
		r.Println("")
	}
}

func sampleMarkdown(r *output.Renderer, samples []ModelSample) {
	for _, s := range samples {
		r.Println(output.FormatHeader(1, s.Model.String()))
		r.Println(output.FormatKeyValue("Entries", fmt.Sprint(s.Entries)))
		r.Println("")
		for _, f := range s.Fields {
			r.Println(output.FormatKeyValue(f, s.Values[f]))
		}
		printPreviews(r, s.Preview)
		r.Println("")
	}
}

func printPreviews(r *output.Renderer, previews []FilePreview) {
	for _, p := range previews {
		r.Println("")
		r.Header(2, p.Path)
		lang := p.Format
		if lang == core.FormatFrontmatterMarkdown {
			lang = "markdown"
		}
		r.Println(output.FormatCodeBlock(lang, strings.TrimRight(p.Content, "\n")))
	}
}
