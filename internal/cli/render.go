package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidegraph/pkg/pipeline"
)

// renderCommand creates the render command, which runs explore, layout and
// visualize in one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		pathStr    string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [board.txt|-]",
		Short: "Explore, lay out and render a board in one step",
		Long: `Explore, lay out and render a board in one step.

This is equivalent to running 'explore', 'layout' and 'visualize' in turn,
without writing the intermediate graph.json. Every stage is cached
separately, so changing only render flags reuses the cached layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			opts.Formats = parseFormats(formatsStr)
			if opts.Path, err = parsePath(pathStr); err != nil {
				return err
			}
			text, err := readBoard(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			opts.Board = text
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute every stage and overwrite cached results")
	cmd.Flags().IntVar(&opts.MaxStates, "max-states", 0, fmt.Sprintf("state budget (default %d)", pipeline.DefaultMaxStates))
	addLayoutFlags(cmd, &opts)
	addRenderFlags(cmd, &opts, &formatsStr, &pathStr)

	return cmd
}

// runRender executes the full pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	c.Config.Apply(&opts)
	opts.Logger = c.Logger
	opts.SetLayoutDefaults()

	spinner := newSpinnerWithContext(ctx, "Exploring and laying out...")
	opts.Snapshot = snapshotProgress(spinner, opts.Iterations)
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if res.Stats.Truncated {
		printWarning("State budget of %d reached; the graph is partial", res.Graph.MaxStates)
	}
	if res.Stats.LayoutTruncated {
		printWarning("Node cap of %d reached; deeper states were left out", res.Layout.MaxNodes)
	}

	opts.SetRenderDefaults()
	return writeArtifacts(artifactWriteParams{
		artifacts: res.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  res.CacheInfo.ExploreHit && res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit,
		nodes:     res.Stats.LayoutNodes,
		edges:     res.Stats.LayoutEdges,
	})
}
