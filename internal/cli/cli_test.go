package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/slidegraph/pkg/board"
	errs "github.com/matzehuels/slidegraph/pkg/errors"
	"github.com/matzehuels/slidegraph/pkg/graph"
	"github.com/matzehuels/slidegraph/pkg/pipeline"
)

const sampleBoard = "......\n......\n......\n..AA..\n..CB..\n..CB..\n"

// isolate points config and cache lookups at temporary directories.
func isolate(t *testing.T) (configHome, cacheHome string) {
	t.Helper()
	configHome, cacheHome = t.TempDir(), t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	t.Setenv("SLIDEGRAPH_REDIS_URL", "")
	t.Setenv("SLIDEGRAPH_MONGO_URI", "")
	return configHome, cacheHome
}

func writeBoard(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "puzzle.txt")
	if err := os.WriteFile(path, []byte(sampleBoard), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns what it wrote through
// cobra's output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
		dir, err := cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join("/tmp/xdg-cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		dir, err := cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		home, _ := os.UserHomeDir()
		if want := filepath.Join(home, ".cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"svg,png,dot", []string{"svg", "png", "dot"}},
		{" svg , board ,", []string{"svg", "board"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"0", []int{0}, false},
		{"0, 3,7", []int{0, 3, 7}, false},
		{"0,x", nil, true},
		{"-1", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parsePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("parsePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDerivedPath(t *testing.T) {
	tests := []struct {
		input, suffix, want string
	}{
		{"puzzle.txt", ".graph.json", "puzzle.graph.json"},
		{"puzzle.graph.json", ".layout.json", "puzzle.layout.json"},
		{"dir/puzzle.layout.json", "", "dir/puzzle"},
		{"-", ".graph.json", "slidegraph.graph.json"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := derivedPath(tt.input, tt.suffix); got != tt.want {
				t.Errorf("derivedPath(%q, %q) = %q, want %q", tt.input, tt.suffix, got, tt.want)
			}
		})
	}
}

func TestArtifactPaths(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		input   string
		output  string
		want    map[string]string
	}{
		{
			name:    "single format explicit output",
			formats: []string{"svg"},
			input:   "p.layout.json",
			output:  "out/graph.svg",
			want:    map[string]string{"svg": "out/graph.svg"},
		},
		{
			name:    "derived from input",
			formats: []string{"svg", "board"},
			input:   "p.layout.json",
			want:    map[string]string{"svg": "p.svg", "board": "p.board.png"},
		},
		{
			name:    "known extension stripped from base",
			formats: []string{"png", "json"},
			input:   "p.txt",
			output:  "x.board.png",
			want:    map[string]string{"png": "x.png", "json": "x.layout.json"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := artifactPaths(tt.formats, tt.input, tt.output)
			if len(got) != len(tt.want) {
				t.Fatalf("artifactPaths = %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("path[%s] = %q, want %q", f, got[f], p)
				}
			}
		})
	}
}

func TestReadBoard(t *testing.T) {
	dir := t.TempDir()
	path := writeBoard(t, dir)

	text, err := readBoard(path, nil)
	if err != nil || text != sampleBoard {
		t.Errorf("readBoard(file) = %q, %v", text, err)
	}

	text, err = readBoard(stdinArg, strings.NewReader(sampleBoard))
	if err != nil || text != sampleBoard {
		t.Errorf("readBoard(stdin) = %q, %v", text, err)
	}

	_, err = readBoard(filepath.Join(dir, "missing.txt"), nil)
	if code := errs.GetCode(err); code != errs.ErrCodeFileNotFound {
		t.Errorf("missing file code = %q, want %q", code, errs.ErrCodeFileNotFound)
	}

	_, err = readBoard(stdinArg, strings.NewReader("AA\x00"))
	if code := errs.GetCode(err); code != errs.ErrCodeInvalidBoard {
		t.Errorf("control character code = %q, want %q", code, errs.ErrCodeInvalidBoard)
	}
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"cache", "completion", "explore", "layout", "render", "serve", "show", "visualize", "walk"}
	var got []string
	for _, cmd := range root.Commands() {
		if cmd.Name() == "help" {
			continue
		}
		got = append(got, cmd.Name())
	}
	slices.Sort(got)
	if !slices.Equal(got, want) {
		t.Errorf("subcommands = %v, want %v", got, want)
	}
}

func TestLayoutExplicitZeroFlags(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeBoard(t, dir)

	graphPath := filepath.Join(dir, "puzzle.graph.json")
	if _, err := execute(t, "explore", input); err != nil {
		t.Fatalf("explore: %v", err)
	}
	layoutPath := filepath.Join(dir, "zero.layout.json")
	if _, err := execute(t, "layout", graphPath, "--max-depth", "0", "--seed", "0", "--iterations", "5", "-o", layoutPath); err != nil {
		t.Fatalf("layout: %v", err)
	}
	l, err := graph.ReadLayoutFile(layoutPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Nodes) != 1 || l.MaxDepth != 0 || l.Seed != 0 {
		t.Errorf("layout = %d nodes, depth %d, seed %d; want the start state alone", len(l.Nodes), l.MaxDepth, l.Seed)
	}

	if _, err := execute(t, "layout", graphPath, "--iterations", "5", "-o", layoutPath); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if l, err = graph.ReadLayoutFile(layoutPath); err != nil {
		t.Fatal(err)
	}
	if l.MaxDepth != pipeline.DefaultMaxDepth || l.Seed != pipeline.DefaultSeed {
		t.Errorf("unset flags gave depth %d seed %d", l.MaxDepth, l.Seed)
	}
}

func TestExploreLayoutVisualize(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeBoard(t, dir)

	graphPath := filepath.Join(dir, "puzzle.graph.json")
	if _, err := execute(t, "explore", input); err != nil {
		t.Fatalf("explore: %v", err)
	}
	b, g, err := graph.ReadGraphFile(graphPath)
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 89 || g.EdgeCount() != 336 {
		t.Errorf("graph = %d states, %d edges; want 89, 336", g.Len(), g.EdgeCount())
	}
	if len(b.Vehicles) != 3 {
		t.Errorf("vehicles = %d, want 3", len(b.Vehicles))
	}

	layoutPath := filepath.Join(dir, "puzzle.layout.json")
	if _, err := execute(t, "layout", graphPath, "--max-depth", "1", "--iterations", "5"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	l, err := graph.ReadLayoutFile(layoutPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Nodes) != 3 {
		t.Errorf("layout nodes = %d, want 3", len(l.Nodes))
	}

	if _, err := execute(t, "visualize", layoutPath, "-f", "dot,board", "--state", "1"); err != nil {
		t.Fatalf("visualize: %v", err)
	}
	dot, err := os.ReadFile(filepath.Join(dir, "puzzle.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(dot, []byte("graph G {")) {
		t.Errorf("dot output starts with %q", dot[:min(len(dot), 16)])
	}
	png, err := os.ReadFile(filepath.Join(dir, "puzzle.board.png"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("board output is not a PNG")
	}
}

func TestRenderCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeBoard(t, dir)
	base := filepath.Join(dir, "out", "tree")

	_, err := execute(t, "render", input, "-f", "dot,json", "--max-depth", "2", "--iterations", "5", "-o", base)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, p := range []string{base + ".dot", base + ".layout.json"} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
}

func TestRenderInvalidBoard(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(path, []byte("A.\n.A"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "render", path)
	if code := errs.GetCode(err); code != errs.ErrCodeInvalidBoard {
		t.Fatalf("code = %q (%v), want %q", code, err, errs.ErrCodeInvalidBoard)
	}
	var pe *board.ParseError
	if !errors.As(err, &pe) || pe.Symbol != 'A' {
		t.Errorf("want ParseError for 'A', got %v", err)
	}
}

func TestShowCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeBoard(t, dir)
	out := filepath.Join(dir, "start.png")

	if _, err := execute(t, "show", input, "--png", out, "--state", "1,4,4"); err != nil {
		t.Fatalf("show: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("show --png did not write a PNG")
	}

	if _, err := execute(t, "show", input, "--state", "9,4,4"); errs.GetCode(err) != errs.ErrCodeInvalidState {
		t.Errorf("out-of-range state error = %v", err)
	}
}

func TestCachePathCommand(t *testing.T) {
	_, cacheHome := isolate(t)
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(cacheHome, appName) + "\n"; out != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
}

func TestConfigFileApplies(t *testing.T) {
	configHome, _ := isolate(t)
	cfgDir := filepath.Join(configHome, appName)
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := "[explore]\nmax_states = 10\n\n[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	input := writeBoard(t, dir)
	if _, err := execute(t, "explore", input); err != nil {
		t.Fatal(err)
	}
	_, g, err := graph.ReadGraphFile(filepath.Join(dir, "puzzle.graph.json"))
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 10 || !g.Truncated {
		t.Errorf("graph = %d states truncated=%v, want 10 truncated", g.Len(), g.Truncated)
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine([]count{{89, "states"}, {168, "edges"}}, true, true)
	for _, want := range []string{"89 states", "168 edges", iconPartial, iconCached} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine = %q, missing %q", line, want)
		}
	}
	if fresh := statsLine(nil, false, false); !strings.Contains(fresh, iconFresh) || strings.Contains(fresh, iconPartial) {
		t.Errorf("statsLine(fresh) = %q", fresh)
	}
}

func TestStyledBoard(t *testing.T) {
	b, s, err := board.Parse(sampleBoard)
	if err != nil {
		t.Fatal(err)
	}
	// Without a terminal lipgloss renders plain text.
	if got, want := styledBoard(b, s), strings.TrimSuffix(sampleBoard, "\n"); got != want {
		t.Errorf("styledBoard = %q, want %q", got, want)
	}
}
