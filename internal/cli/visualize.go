package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidegraph/pkg/graph"
	"github.com/matzehuels/slidegraph/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		pathStr    string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a computed layout",
		Long: `Render a computed layout.

The visualize command takes a layout.json file (produced by 'layout') and
renders it. Formats: svg and png draw the projected node-link diagram, dot
emits the Graphviz source with pinned positions, json re-emits the layout,
and board draws one state (--state) as a puzzle thumbnail.

Use 'render' as a shortcut to go directly from a board to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			opts.Formats = parseFormats(formatsStr)
			if opts.Path, err = parsePath(pathStr); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render and overwrite cached artifacts")
	addRenderFlags(cmd, &opts, &formatsStr, &pathStr)

	return cmd
}

// addRenderFlags registers the artifact flags shared by visualize and render.
func addRenderFlags(cmd *cobra.Command, opts *pipeline.Options, formats, path *string) {
	cmd.Flags().StringVarP(formats, "format", "f", "", "output format(s): svg (default), png, dot, json, board (comma-separated)")
	cmd.Flags().StringVar(path, "path", "", "walk to highlight, as comma-separated node IDs")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "label nodes with their IDs")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "layout units per point (svg, dot)")
	cmd.Flags().Float64Var(&opts.NodeSize, "node-size", 0, fmt.Sprintf("node diameter hint (default %g)", pipeline.DefaultNodeSize))
	cmd.Flags().Float64Var(&opts.EdgeOpacity, "edge-opacity", 0, fmt.Sprintf("edge opacity hint in [0, 1] (default %g)", pipeline.DefaultEdgeOpacity))
	cmd.Flags().IntVar(&opts.State, "state", 0, "node drawn by the board format")
	cmd.Flags().IntVar(&opts.CellSize, "cell-size", 0, "cell size in pixels for the board format")
}

// parsePath parses "0,3,7" into node IDs.
func parsePath(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	path := make([]int, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || id < 0 {
			return nil, fmt.Errorf("invalid --path entry %q", f)
		}
		path = append(path, id)
	}
	return path, nil
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	c.Config.Apply(&opts)
	opts.Logger = c.Logger
	if opts.NodeSize != 0 {
		l.NodeSize = opts.NodeSize
	}
	if opts.EdgeOpacity != 0 {
		l.EdgeOpacity = opts.EdgeOpacity
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	opts.SetRenderDefaults()
	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  cacheHit,
		nodes:     len(l.Nodes),
		edges:     len(l.Edges),
	})
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactExt maps formats to file suffixes. Board thumbnails and layouts
// get compound suffixes so they do not collide with the diagram outputs.
var artifactExt = map[string]string{
	pipeline.FormatJSON:  ".layout.json",
	pipeline.FormatDOT:   ".dot",
	pipeline.FormatSVG:   ".svg",
	pipeline.FormatPNG:   ".png",
	pipeline.FormatBoard: ".board.png",
}

// knownExts lists artifactExt values longest first for suffix stripping.
var knownExts = []string{".layout.json", ".board.png", ".dot", ".svg", ".png"}

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool
	nodes     int
	edges     int
}

// artifactPaths decides where each format is written. A single format goes
// to output verbatim when given; otherwise output (minus any known
// extension) or the input name serves as the base path.
func artifactPaths(formats []string, input, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := derivedPath(input, "")
	if output != "" {
		base = output
		for _, ext := range knownExts {
			if strings.HasSuffix(base, ext) {
				base = strings.TrimSuffix(base, ext)
				break
			}
		}
	}
	for _, f := range formats {
		paths[f] = base + artifactExt[f]
	}
	return paths
}

func writeArtifacts(p artifactWriteParams) error {
	paths := artifactPaths(p.formats, p.input, p.output)

	printSuccess("Rendered %s", strings.Join(p.formats, ", "))
	for _, f := range p.formats {
		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, p.artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats([]count{{p.nodes, "nodes"}, {p.edges, "edges"}}, p.cacheHit, false)
	return nil
}
