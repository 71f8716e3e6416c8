package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/slidegraph/pkg/board"
	"github.com/matzehuels/slidegraph/pkg/buildinfo"
	"github.com/matzehuels/slidegraph/pkg/cache"
	"github.com/matzehuels/slidegraph/pkg/cursor"
	errs "github.com/matzehuels/slidegraph/pkg/errors"
	"github.com/matzehuels/slidegraph/pkg/explore"
	"github.com/matzehuels/slidegraph/pkg/graph"
	"github.com/matzehuels/slidegraph/pkg/pipeline"
	"github.com/matzehuels/slidegraph/pkg/session"
)

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// =============================================================================
// Pipeline
// =============================================================================

type exploreResponse struct {
	Graph  graph.Graph   `json:"graph"`
	Stats  explore.Stats `json:"stats"`
	Hash   string        `json:"hash"`
	Cached bool          `json:"cached"`
}

type layoutResponse struct {
	Layout graph.Layout       `json:"layout"`
	Stats  explore.Stats      `json:"graph_stats"`
	Cache  pipeline.CacheInfo `json:"cache"`
}

// readOptions decodes pipeline options and enforces the server's budget cap.
func (s *Server) readOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	if err := decode(w, r, &opts); err != nil {
		return opts, err
	}
	if opts.MaxStates > s.maxStates {
		return opts, errs.New(errs.ErrCodeInvalidInput, "max_states %d exceeds server limit %d", opts.MaxStates, s.maxStates)
	}
	if opts.MaxStates == 0 {
		opts.MaxStates = min(pipeline.DefaultMaxStates, s.maxStates)
	}
	opts.Logger = s.logger
	return opts, nil
}

func (s *Server) handleExplore(w http.ResponseWriter, r *http.Request) {
	opts, err := s.readOptions(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	b, _, g, hit, err := s.runner.ExploreWithCacheInfo(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	gj := graph.FromExplore(b, g)
	data, err := graph.MarshalGraph(b, g)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exploreResponse{
		Graph:  gj,
		Stats:  g.Stats(),
		Hash:   cache.Hash(data),
		Cached: hit,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.readOptions(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	b, _, g, exploreHit, err := s.runner.ExploreWithCacheInfo(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	l, layoutHit, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), b, g, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Layout: l,
		Stats:  g.Stats(),
		Cache:  pipeline.CacheInfo{ExploreHit: exploreHit, LayoutHit: layoutHit},
	})
}

// handleRender runs the full pipeline for exactly one format and writes the
// artifact bytes directly.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.readOptions(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(opts.Formats) > 1 {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "render accepts one format, got %d", len(opts.Formats)))
		return
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	format := pipeline.FormatSVG
	if len(opts.Formats) == 1 {
		format = opts.Formats[0]
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("X-Graph-Hash", res.GraphHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// =============================================================================
// Moves
// =============================================================================

type neighborsRequest struct {
	Board string `json:"board"`
	State []int  `json:"state,omitempty"`
}

type moveJSON struct {
	Vehicle string `json:"vehicle"`
	Delta   int    `json:"delta"`
	Move    string `json:"move"`
	State   []int  `json:"state"`
}

type neighborsResponse struct {
	State []int      `json:"state"`
	Moves []moveJSON `json:"moves"`
}

func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	var req neighborsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := errs.ValidateBoardText(req.Board); err != nil {
		writeError(w, err)
		return
	}
	b, start, err := board.Parse(req.Board)
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidBoard, err, "parse board"))
		return
	}
	st := start
	if req.State != nil {
		st = board.State(req.State)
		if err := b.Validate(st); err != nil {
			writeError(w, errs.Wrap(errs.ErrCodeInvalidState, err, "state"))
			return
		}
	}

	moves := board.Moves(b, st)
	resp := neighborsResponse{State: []int(st), Moves: make([]moveJSON, len(moves))}
	for i, m := range moves {
		resp.Moves[i] = moveJSON{
			Vehicle: string(m.Name),
			Delta:   m.Delta,
			Move:    m.String(),
			State:   []int(m.State),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Walks
// =============================================================================

type createWalkRequest struct {
	Board     string `json:"board"`
	MaxStates int    `json:"max_states,omitempty"`
}

type selectRequest struct {
	State int `json:"state"`
}

// walkResponse is a walk plus the cursor's view of it.
type walkResponse struct {
	Walk      *session.Walk `json:"walk"`
	Selected  int           `json:"selected"`
	View      string        `json:"view"`
	Neighbors []int         `json:"neighbors"`
}

// loadCursor explores the walk's board (through the cache) and restores its
// path.
func (s *Server) loadCursor(r *http.Request, w *session.Walk) (*board.Board, *cursor.Cursor, error) {
	b, _, g, _, err := s.runner.ExploreWithCacheInfo(r.Context(), pipeline.Options{
		Board:     w.Board,
		MaxStates: w.MaxStates,
		Logger:    s.logger,
	})
	if err != nil {
		return nil, nil, err
	}
	c, err := cursor.Restore(g, w.Path)
	if err != nil {
		return nil, nil, err
	}
	return b, c, nil
}

func (s *Server) respondWalk(w http.ResponseWriter, status int, walk *session.Walk, b *board.Board, c *cursor.Cursor) {
	sel, _ := c.Selected()
	writeJSON(w, status, walkResponse{
		Walk:      walk,
		Selected:  sel,
		View:      b.Format(c.State()),
		Neighbors: c.Neighbors(),
	})
}

func (s *Server) handleCreateWalk(w http.ResponseWriter, r *http.Request) {
	var req createWalkRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MaxStates > s.maxStates {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "max_states %d exceeds server limit %d", req.MaxStates, s.maxStates))
		return
	}
	if req.MaxStates == 0 {
		req.MaxStates = min(pipeline.DefaultMaxStates, s.maxStates)
	}

	walk, err := session.New(req.Board, req.MaxStates, s.walkTTL)
	if err != nil {
		writeError(w, err)
		return
	}
	b, c, err := s.loadCursor(r, walk)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.sessions.Set(r.Context(), walk); err != nil {
		writeError(w, err)
		return
	}
	s.respondWalk(w, http.StatusCreated, walk, b, c)
}

// walkFor loads the walk named in the URL along with its cursor.
func (s *Server) walkFor(r *http.Request) (*session.Walk, *board.Board, *cursor.Cursor, error) {
	walk, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, nil, nil, err
	}
	b, c, err := s.loadCursor(r, walk)
	if err != nil {
		return nil, nil, nil, err
	}
	return walk, b, c, nil
}

func (s *Server) handleGetWalk(w http.ResponseWriter, r *http.Request) {
	walk, b, c, err := s.walkFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondWalk(w, http.StatusOK, walk, b, c)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	walk, b, c, err := s.walkFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := c.Select(req.State); err != nil {
		writeError(w, err)
		return
	}
	s.saveAndRespond(w, r, walk, b, c)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	walk, b, c, err := s.walkFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	c.Undo()
	s.saveAndRespond(w, r, walk, b, c)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	walk, b, c, err := s.walkFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	c.Reset()
	s.saveAndRespond(w, r, walk, b, c)
}

func (s *Server) saveAndRespond(w http.ResponseWriter, r *http.Request, walk *session.Walk, b *board.Board, c *cursor.Cursor) {
	walk.Touch(c.Path())
	if err := s.sessions.Set(r.Context(), walk); err != nil {
		writeError(w, err)
		return
	}
	s.respondWalk(w, http.StatusOK, walk, b, c)
}

func (s *Server) handleDeleteWalk(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
