package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shelfplan/pkg/errors"
	"github.com/matzehuels/shelfplan/pkg/pipeline"
	"github.com/matzehuels/shelfplan/pkg/plan"
	"github.com/matzehuels/shelfplan/pkg/site"
)

// renderCommand creates the render command for drawing a plan.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		opts       pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [plan.json]",
		Short: "Render a shelf plan to drawings and exports",
		Long: `Render a shelf plan to drawings and exports.

Formats:
  svg, png, pdf   floor plan of one floor of the storage zone
  dot             site map of all zones, laid out with Graphviz
  xlsx            spreadsheet of shelves and supports
  json            the plan document itself
  scene           3D scene description of the site and shelving

The dot and scene formats need the site document (--site). The plan defaults
to the plan written by 'layout' next to the site.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := pipeline.ParseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.Formats = formats
			input := planPath(c.siteFile)
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), input, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", pipeline.DefaultFormat,
		"output format(s), comma-separated: "+strings.Join(pipeline.Formats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.Flags().IntVar(&opts.Floor, "floor", 0, "floor to draw, 1 is the ground floor (default: top floor)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "pixels per meter")
	cmd.Flags().BoolVar(&opts.NoSupports, "no-supports", false, "omit support columns from floor plans")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label site map zones with their dimensions")

	return cmd
}

// runRender loads the plan (and the site when available) and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)

	p, err := plan.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load plan %s: %w", input, err)
	}

	s, err := c.readSite(p)
	if err != nil {
		return err
	}
	if s == nil && opts.NeedsSite() {
		return errors.New(errors.ErrCodeInvalidInput,
			"formats dot and scene need the site document, %s not found", c.siteFile)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = logger

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	artifacts, stats, err := runner.RenderWithStats(ctx, p, s, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Rendered plan %s", StyleDim.Render(p.ID))
	for _, path := range paths {
		printFile(path)
	}
	printPlanStats(p.Summarize(), p.Rows, stats.CacheHit)
	return nil
}

// readSite reads --site for rendering. A missing file yields nil; a site
// that changed since the plan was generated is used with a warning.
func (c *CLI) readSite(p *plan.Plan) (*site.Site, error) {
	s, err := site.ReadFile(c.siteFile)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load site %s: %w", c.siteFile, err)
	}
	if p.SiteHash != "" {
		if h, err := pipeline.SiteHash(s); err == nil && h != p.SiteHash {
			printWarning("%s changed since the plan was generated", c.siteFile)
		}
	}
	return s, nil
}

// writeArtifacts writes one file per format and returns the paths in format
// order. A single format writes to output as given; several formats treat
// output as a base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return paths, errors.New(errors.ErrCodeInternal, "renderer produced no %s output", f)
		}
		path := artifactPath(f, len(formats), input, output)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactPath names the output file of one format.
func artifactPath(format string, count int, input, output string) string {
	if output != "" && count == 1 {
		return output
	}
	return basePath(input, output) + "." + pipeline.Extension(format)
}

// basePath strips known suffixes from output, or from input when output is empty.
func basePath(input, output string) string {
	base := output
	if base == "" {
		base = input
	}
	if strings.HasSuffix(base, planSuffix) {
		return strings.TrimSuffix(base, planSuffix)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
