package cache

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	// GraphKey keys an explored graph by the hash of its board text.
	GraphKey(boardHash string, opts GraphKeyOpts) string
	// LayoutKey keys a layout by the hash of its serialized graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys rendered output by the hash of its serialized layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts are the exploration parameters that change the graph.
type GraphKeyOpts struct {
	MaxStates int `json:"max_states"`
}

// LayoutKeyOpts are the subset and simulation parameters that change a layout.
type LayoutKeyOpts struct {
	MaxDepth    int     `json:"max_depth"`
	MaxNodes    int     `json:"max_nodes"`
	Seed        uint64  `json:"seed"`
	Iterations  int     `json:"iterations"`
	ViewRadius  float64 `json:"view_radius"`
	MinDistance float64 `json:"min_distance"`
}

// ArtifactKeyOpts are the render parameters that change an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Scale    float64 `json:"scale,omitempty"`
	CellSize int     `json:"cell_size,omitempty"`
	State    int     `json:"state,omitempty"`
	Path     []int   `json:"path,omitempty"`
	Labels   bool    `json:"labels,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) GraphKey(boardHash string, opts GraphKeyOpts) string {
	return hashKey("graph", boardHash, opts)
}

func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
