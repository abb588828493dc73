package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shelfplan/pkg/pipeline"
	"github.com/matzehuels/shelfplan/pkg/plan"
)

// layoutCommand creates the layout command for generating a shelf plan.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [site.toml]",
		Short: "Generate a shelf plan for a storage zone",
		Long: `Generate a shelf plan for a storage zone.

The layout command reads the site document (default ./shelfplan.toml, created
with default values when missing), lays out the rows of shelves for the
selected storage zone and computes the support columns underneath. The result
is written to <site>.plan.json, which 'render' turns into drawings.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			if err := opts.ValidateForGenerate(); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), path, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <site>.plan.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.Flags().StringVarP(&opts.Zone, "zone", "z", "", "storage zone (default: the site's default zone)")
	cmd.Flags().StringVarP(&opts.Strategy, "strategy", "s", "", "layout strategy: rows, grid (default: from site)")
	cmd.Flags().BoolVar(&opts.Parallel, "parallel", false, "fill floors concurrently")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached plans")

	return cmd
}

// runLayout loads the site, generates the plan, and writes it next to the site.
func (c *CLI) runLayout(ctx context.Context, sitePath string, opts pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)

	prog := newProgress(logger)
	s, path, err := c.loadSite(ctx, sitePath)
	if err != nil {
		return err
	}
	prog.done("Loaded site " + s.Name)

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = logger

	spinner := newSpinner(ctx, "Laying out shelves...")
	spinner.Start()

	p, stats, err := runner.GenerateWithStats(ctx, s, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = planPath(path)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := plan.WriteFile(p, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete for zone %s", StyleHighlight.Render(p.Zone))
	printFile(outputPath)
	printPlanStats(p.Summarize(), p.Rows, stats.CacheHit)
	printWarnings(p.Warnings)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}
