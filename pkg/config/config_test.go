package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/slidegraph/pkg/pipeline"
)

func TestParseTOML(t *testing.T) {
	data := []byte(`
[explore]
max_states = 5000

[layout]
max_depth = 8
seed = 7
view_radius = 50.5

[render]
formats = ["svg", "board"]

[cache]
backend = "none"

[sessions]
backend = "mongo"
mongo_uri = "mongodb://db:27017"
ttl = "2h"
`)
	cfg, err := Parse(data, ".toml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Explore.MaxStates != 5000 || cfg.Layout.MaxDepth == nil || *cfg.Layout.MaxDepth != 8 || cfg.Layout.Seed == nil || *cfg.Layout.Seed != 7 {
		t.Errorf("explore/layout = %+v %+v", cfg.Explore, cfg.Layout)
	}
	if cfg.Layout.ViewRadius != 50.5 {
		t.Errorf("ViewRadius = %g", cfg.Layout.ViewRadius)
	}
	if strings.Join(cfg.Render.Formats, ",") != "svg,board" {
		t.Errorf("Formats = %v", cfg.Render.Formats)
	}
	if cfg.Sessions.Backend != BackendMongo || cfg.Sessions.TTL != 2*time.Hour {
		t.Errorf("Sessions = %+v", cfg.Sessions)
	}
	// Unset sections keep defaults.
	if cfg.Sessions.MongoCollection != "walks" || cfg.Server.Addr != ":8080" {
		t.Errorf("defaults lost: %+v %+v", cfg.Sessions, cfg.Server)
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
layout:
  max_depth: 0
  max_nodes: 250
  workers: 4
server:
  addr: "127.0.0.1:9000"
  read_timeout: 5s
`)
	cfg, err := Parse(data, ".yml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Layout.MaxNodes != 250 || cfg.Layout.Workers != 4 {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	if cfg.Layout.MaxDepth == nil || *cfg.Layout.MaxDepth != 0 {
		t.Errorf("MaxDepth = %v, want explicit 0", cfg.Layout.MaxDepth)
	}
	if cfg.Layout.Seed != nil {
		t.Errorf("Seed = %v, want unset", *cfg.Layout.Seed)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Cache.Backend = %q, want default file", cfg.Cache.Backend)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		ext  string
	}{
		{"bad toml", "[layout\nmax_depth = 1", ".toml"},
		{"bad yaml", "layout: [", ".yaml"},
		{"unknown cache backend", "[cache]\nbackend = \"memcached\"", ".toml"},
		{"unknown session backend", "sessions:\n  backend: sqlite", ".yaml"},
		{"bad format", "[render]\nformats = [\"gif\"]", ".toml"},
		{"bad opacity", "[layout]\nedge_opacity = 1.5", ".toml"},
		{"negative depth", "[layout]\nmax_depth = -1", ".toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), tt.ext); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("SLIDEGRAPH_REDIS_URL", "")
	t.Setenv("SLIDEGRAPH_MONGO_URI", "")
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load without file: %v", err)
	}
	if cfg.Path() != "" || cfg.Cache.Backend != BackendFile {
		t.Errorf("expected defaults, got path %q backend %q", cfg.Path(), cfg.Cache.Backend)
	}

	dir := filepath.Join(home, "slidegraph")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("explore:\n  max_states: 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path() != path || cfg.Explore.MaxStates != 42 {
		t.Errorf("Load found %q with max_states %d", cfg.Path(), cfg.Explore.MaxStates)
	}

	if _, err := Load(filepath.Join(home, "missing.toml")); err == nil {
		t.Error("explicit missing path should fail")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SLIDEGRAPH_REDIS_URL", "redis://cache:6379/1")
	t.Setenv("SLIDEGRAPH_MONGO_URI", "mongodb://db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.RedisURL != "redis://cache:6379/1" || cfg.Sessions.RedisURL != "redis://cache:6379/1" {
		t.Errorf("redis urls = %q %q", cfg.Cache.RedisURL, cfg.Sessions.RedisURL)
	}
	if cfg.Sessions.MongoURI != "mongodb://db" {
		t.Errorf("MongoURI = %q", cfg.Sessions.MongoURI)
	}
}

func TestApply(t *testing.T) {
	cfg := Default()
	cfg.Explore.MaxStates = 500
	cfg.Layout.MaxDepth = pipeline.Int(6)
	cfg.Layout.Seed = pipeline.Uint64(9)
	cfg.Layout.ViewRadius = 40
	cfg.Render.Formats = []string{"png"}
	cfg.Render.Labels = true

	opts := pipeline.Options{MaxDepth: pipeline.Int(0), Formats: []string{"svg"}}
	cfg.Apply(&opts)

	if opts.MaxStates != 500 {
		t.Errorf("MaxStates = %d, want file value 500", opts.MaxStates)
	}
	if opts.Depth() != 0 {
		t.Errorf("MaxDepth = %d, flag value 0 should win", opts.Depth())
	}
	if opts.RandSeed() != 9 || opts.ViewRadius != 40 || !opts.Labels {
		t.Errorf("opts = %+v", opts)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "svg" {
		t.Errorf("Formats = %v, flag value should win", opts.Formats)
	}
}
