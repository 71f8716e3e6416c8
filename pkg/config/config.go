// Package config loads slidegraph's optional configuration file.
//
// The file lives at $XDG_CONFIG_HOME/slidegraph/config.toml (falling back to
// ~/.config). A config.yaml or config.yml next to it is read when no TOML
// file exists. Every field is optional; command-line flags always win over
// file values, which in turn win over built-in defaults.
//
// # Example
//
//	[explore]
//	max_states = 200000
//
//	[layout]
//	max_depth = 15
//	seed = 7
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[sessions]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//	ttl = "720h"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/slidegraph/pkg/pipeline"
)

const appName = "slidegraph"

// Backend names for caches and session stores.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config is the root of the configuration file.
type Config struct {
	Explore  Explore  `toml:"explore" yaml:"explore"`
	Layout   Layout   `toml:"layout" yaml:"layout"`
	Render   Render   `toml:"render" yaml:"render"`
	Cache    Cache    `toml:"cache" yaml:"cache"`
	Sessions Sessions `toml:"sessions" yaml:"sessions"`
	Server   Server   `toml:"server" yaml:"server"`

	// path is the file the config was read from, empty for defaults.
	path string
}

type Explore struct {
	MaxStates int `toml:"max_states" yaml:"max_states"`
}

type Layout struct {
	MaxDepth    *int    `toml:"max_depth" yaml:"max_depth"`
	MaxNodes    int     `toml:"max_nodes" yaml:"max_nodes"`
	Seed        *uint64 `toml:"seed" yaml:"seed"`
	Iterations  int     `toml:"iterations" yaml:"iterations"`
	ViewRadius  float64 `toml:"view_radius" yaml:"view_radius"`
	MinDistance float64 `toml:"min_distance" yaml:"min_distance"`
	NodeSize    float64 `toml:"node_size" yaml:"node_size"`
	EdgeOpacity float64 `toml:"edge_opacity" yaml:"edge_opacity"`
	Workers     int     `toml:"workers" yaml:"workers"`
}

type Render struct {
	Formats  []string `toml:"formats" yaml:"formats"`
	Scale    float64  `toml:"scale" yaml:"scale"`
	CellSize int      `toml:"cell_size" yaml:"cell_size"`
	Labels   bool     `toml:"labels" yaml:"labels"`
}

// Cache selects the pipeline cache backend.
type Cache struct {
	Backend  string `toml:"backend" yaml:"backend"`
	Dir      string `toml:"dir" yaml:"dir"`
	RedisURL string `toml:"redis_url" yaml:"redis_url"`
	Prefix   string `toml:"prefix" yaml:"prefix"`
}

// Sessions selects where walk sessions are stored.
type Sessions struct {
	Backend         string        `toml:"backend" yaml:"backend"`
	Dir             string        `toml:"dir" yaml:"dir"`
	RedisURL        string        `toml:"redis_url" yaml:"redis_url"`
	MongoURI        string        `toml:"mongo_uri" yaml:"mongo_uri"`
	MongoDatabase   string        `toml:"mongo_database" yaml:"mongo_database"`
	MongoCollection string        `toml:"mongo_collection" yaml:"mongo_collection"`
	TTL             time.Duration `toml:"ttl" yaml:"ttl"`
}

type Server struct {
	Addr         string        `toml:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout" yaml:"write_timeout"`
	// MaxStates caps exploration budgets accepted over HTTP.
	MaxStates int `toml:"max_states" yaml:"max_states"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Cache:    Cache{Backend: BackendFile, Prefix: appName + ":"},
		Sessions: Sessions{Backend: BackendFile, MongoDatabase: appName, MongoCollection: "walks", TTL: 30 * 24 * time.Hour},
		Server:   Server{Addr: ":8080", ReadTimeout: 30 * time.Second, WriteTimeout: 2 * time.Minute, MaxStates: pipeline.DefaultMaxStates},
	}
}

// Dir returns the configuration directory using XDG standard (~/.config/slidegraph/).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Load reads the config file at path. An empty path searches the config
// directory; finding nothing there returns Default without error.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := find()
		if err != nil || found == "" {
			return applyEnv(Default()), nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.path = path
	return applyEnv(cfg), nil
}

// Parse decodes config data. ext selects the syntax: ".yaml" and ".yml" are
// YAML, anything else is TOML. Missing fields keep their defaults.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func find() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// applyEnv lets SLIDEGRAPH_REDIS_URL and SLIDEGRAPH_MONGO_URI supply
// connection strings that should not live in a file.
func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("SLIDEGRAPH_REDIS_URL"); v != "" {
		if cfg.Cache.RedisURL == "" {
			cfg.Cache.RedisURL = v
		}
		if cfg.Sessions.RedisURL == "" {
			cfg.Sessions.RedisURL = v
		}
	}
	if v := os.Getenv("SLIDEGRAPH_MONGO_URI"); v != "" && cfg.Sessions.MongoURI == "" {
		cfg.Sessions.MongoURI = v
	}
	return cfg
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *Config) Path() string { return c.path }

// Validate checks backend names and value ranges.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendNone, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	switch c.Sessions.Backend {
	case BackendFile, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("sessions.backend: unknown backend %q", c.Sessions.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" && os.Getenv("SLIDEGRAPH_REDIS_URL") == "" {
		return fmt.Errorf("cache.redis_url is required for the redis backend")
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return fmt.Errorf("render.formats: %w", err)
	}
	if c.Layout.MaxDepth != nil && *c.Layout.MaxDepth < 0 {
		return fmt.Errorf("layout.max_depth must not be negative")
	}
	if c.Layout.EdgeOpacity < 0 || c.Layout.EdgeOpacity > 1 {
		return fmt.Errorf("layout.edge_opacity must be within [0, 1]")
	}
	return nil
}

// Apply copies file values into opts wherever opts still holds its zero
// value, so flags set by the user are never overwritten.
func (c *Config) Apply(opts *pipeline.Options) {
	setInt(&opts.MaxStates, c.Explore.MaxStates)
	setInt(&opts.MaxNodes, c.Layout.MaxNodes)
	setInt(&opts.Iterations, c.Layout.Iterations)
	setInt(&opts.Workers, c.Layout.Workers)
	setInt(&opts.CellSize, c.Render.CellSize)
	setFloat(&opts.ViewRadius, c.Layout.ViewRadius)
	setFloat(&opts.MinDistance, c.Layout.MinDistance)
	setFloat(&opts.NodeSize, c.Layout.NodeSize)
	setFloat(&opts.EdgeOpacity, c.Layout.EdgeOpacity)
	setFloat(&opts.Scale, c.Render.Scale)
	if opts.MaxDepth == nil && c.Layout.MaxDepth != nil {
		opts.MaxDepth = pipeline.Int(*c.Layout.MaxDepth)
	}
	if opts.Seed == nil && c.Layout.Seed != nil {
		opts.Seed = pipeline.Uint64(*c.Layout.Seed)
	}
	if len(opts.Formats) == 0 && len(c.Render.Formats) > 0 {
		opts.Formats = append([]string(nil), c.Render.Formats...)
	}
	opts.Labels = opts.Labels || c.Render.Labels
}

func setInt(dst *int, v int) {
	if *dst == 0 {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if *dst == 0 {
		*dst = v
	}
}
