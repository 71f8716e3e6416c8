package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidegraph/pkg/graph"
	"github.com/matzehuels/slidegraph/pkg/pipeline"
)

// exploreCommand creates the explore command, which turns a board into a
// state graph.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "explore [board.txt|-]",
		Short: "Explore every state reachable from a board",
		Long: `Explore every state reachable from a board.

The board is read from a file (or stdin with "-"), one line per row, with '.'
for empty cells and a letter or digit per vehicle. Every configuration
reachable by single-cell slides is enumerated breadth-first until the state
budget is reached. The result is written as graph.json, the input to 'layout'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), cmd, args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute and overwrite cached results")
	cmd.Flags().IntVar(&opts.MaxStates, "max-states", 0, fmt.Sprintf("state budget (default %d)", pipeline.DefaultMaxStates))

	return cmd
}

// runExplore reads the board, explores it, and writes graph.json.
func (c *CLI) runExplore(ctx context.Context, cmd *cobra.Command, input string, opts pipeline.Options, output string, noCache bool) error {
	text, err := readBoard(input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	opts.Board = text
	c.Config.Apply(&opts)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Exploring states...")
	spinner.Start()
	prog := newProgress(c.Logger)

	b, _, g, cacheHit, err := runner.ExploreWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Exploration failed")
		return err
	}
	spinner.Stop()
	prog.done("explored", "states", g.Len(), "edges", g.EdgeCount(), "cached", cacheHit)

	outputPath := output
	if outputPath == "" {
		outputPath = derivedPath(input, ".graph.json")
	}
	if err := graph.WriteGraphFile(b, g, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	stats := g.Stats()
	printSuccess("Exploration complete")
	printFile(outputPath)
	printStats([]count{
		{stats.States, "states"},
		{stats.UndirectedEdges, "edges"},
		{len(b.Vehicles), "vehicles"},
	}, cacheHit, stats.Truncated)
	if stats.Truncated {
		printWarning("State budget of %d reached; the graph is partial", g.MaxStates)
	}
	printNewline()
	printNextStep("Lay out", appName+" layout "+outputPath)

	return nil
}
