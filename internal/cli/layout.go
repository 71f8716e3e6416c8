package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidegraph/pkg/graph"
	"github.com/matzehuels/slidegraph/pkg/layout"
	"github.com/matzehuels/slidegraph/pkg/pipeline"
)

// layoutCommand creates the layout command for positioning a state graph.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a 3-D layout for an explored state graph",
		Long: `Compute a 3-D layout for an explored state graph.

The layout command takes a graph.json file (produced by 'explore'), selects
the states within --max-depth moves of the start (at most --max-nodes of them),
and positions them with a force-directed simulation. The output is a
layout.json file that 'visualize' renders.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute and overwrite cached results")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// addLayoutFlags registers the subset and simulation flags. Unset flags
// defer to the config file and then to the pipeline defaults.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	d := layout.DefaultOptions()
	cmd.Flags().Var(&intFlag{p: &opts.MaxDepth}, "max-depth", fmt.Sprintf("moves from the start to include, 0 for the start alone (default %d)", pipeline.DefaultMaxDepth))
	cmd.Flags().IntVar(&opts.MaxNodes, "max-nodes", 0, fmt.Sprintf("node cap for the layout (default %d)", pipeline.DefaultMaxNodes))
	cmd.Flags().Var(&uint64Flag{p: &opts.Seed}, "seed", fmt.Sprintf("random seed for the initial scatter (default %d)", pipeline.DefaultSeed))
	cmd.Flags().IntVar(&opts.Iterations, "iterations", 0, fmt.Sprintf("simulation steps (default %d)", d.Iterations))
	cmd.Flags().Float64Var(&opts.ViewRadius, "view-radius", 0, fmt.Sprintf("radius the layout is scaled to (default %g)", d.ViewRadius))
	cmd.Flags().Float64Var(&opts.MinDistance, "min-distance", 0, fmt.Sprintf("distance floor for repulsion (default %g)", d.MinDistance))
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "goroutines for the repulsion pass (0 or 1 runs serially)")
}

// intFlag is an int flag that stays nil until set, so an explicit 0 can be
// told apart from an omitted flag.
type intFlag struct{ p **int }

func (f *intFlag) String() string {
	if *f.p == nil {
		return ""
	}
	return strconv.Itoa(**f.p)
}

func (f *intFlag) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f.p = &v
	return nil
}

func (f *intFlag) Type() string { return "int" }

// uint64Flag is the uint64 counterpart of intFlag.
type uint64Flag struct{ p **uint64 }

func (f *uint64Flag) String() string {
	if *f.p == nil {
		return ""
	}
	return strconv.FormatUint(**f.p, 10)
}

func (f *uint64Flag) Set(s string) error {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*f.p = &v
	return nil
}

func (f *uint64Flag) Type() string { return "uint" }

// snapshotProgress reports simulation progress on the spinner.
func snapshotProgress(s *Spinner, total int) func(int, map[int]layout.Vec3) {
	return func(iter int, _ map[int]layout.Vec3) {
		if iter%25 == 0 || iter == total-1 {
			s.SetMessage(fmt.Sprintf("Computing layout... %d/%d", iter+1, total))
		}
	}
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	b, g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	c.Config.Apply(&opts)
	opts.Logger = c.Logger
	opts.SetLayoutDefaults()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	opts.Snapshot = snapshotProgress(spinner, opts.Iterations)
	spinner.Start()

	l, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, b, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = derivedPath(input, ".layout.json")
	}
	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats([]count{
		{len(l.Nodes), "nodes"},
		{len(l.Edges), "edges"},
		{l.MaxDepth, "moves deep"},
	}, cacheHit, l.Truncated)
	if l.Truncated {
		printWarning("Node cap of %d reached; deeper states were left out", l.MaxNodes)
	}
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}
