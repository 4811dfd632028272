// Package session pairs one grid graph with the generator carving it.
//
// A maze session is the unit a driver restarts: when a maze completes (or the
// user asks for a new one) the whole session is discarded and a new one is
// built, since generators cannot be reset.
//
// # Usage
//
//	sess, err := session.New(session.Options{Width: 64, Height: 32, Seed: 42})
//	if err != nil {
//	    return err
//	}
//	for !sess.IsComplete() {
//	    res := sess.Step()
//	    redraw(sess.Graph(), res.Touched)
//	}
//
// Sessions are safe for concurrent use: steps are serialized and graph reads
// never see a half-applied step. The in-memory [Store] lets the HTTP API look
// sessions up by ID. Sessions are never persisted.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/mazegen/pkg/grid"
	"github.com/matzehuels/mazegen/pkg/maze"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidOptions is returned by [Options.Validate].
	ErrInvalidOptions = errors.New("invalid session options")
)

// Default dimensions match a 16:9 screen split into 64 columns.
const (
	DefaultWidth  = 64
	DefaultHeight = DefaultWidth / 2
)

// Options configures a new session.
type Options struct {
	Width  int               `json:"width"`
	Height int               `json:"height"`
	Start  grid.Key          `json:"start"`
	Seed   uint64            `json:"seed,omitempty"` // zero picks a random seed
	Conn   grid.Connectivity `json:"connectivity,omitempty"`

	// Selector overrides the neighbor selection policy. Nil means uniform.
	Selector maze.Selector `json:"-"`
}

// SetDefaults fills zero dimensions with the defaults.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
}

// Validate checks dimensions and that the start cell lies inside the grid.
func (o Options) Validate() error {
	if o.Width < 1 || o.Height < 1 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidOptions, o.Width, o.Height)
	}
	if o.Start.X < 0 || o.Start.Y < 0 || o.Start.X >= o.Width || o.Start.Y >= o.Height {
		return fmt.Errorf("%w: start %s outside %dx%d grid", maze.ErrInvalidStartKey, o.Start, o.Width, o.Height)
	}
	if o.Conn != grid.Conn4 && o.Conn != grid.Conn8 {
		return fmt.Errorf("%w: connectivity %d", ErrInvalidOptions, o.Conn)
	}
	return nil
}

// Session is one maze being generated.
type Session struct {
	ID        string
	Options   Options
	CreatedAt time.Time

	mu  sync.Mutex
	g   *grid.Graph
	gen *maze.Generator
}

// New builds a rectangular grid and a generator bound to opts.Start.
func New(opts Options) (*Session, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}

	g, err := grid.NewRect(opts.Width, opts.Height, grid.WithConnectivity(opts.Conn))
	if err != nil {
		return nil, err
	}
	gen, err := maze.New(g, opts.Start, maze.WithSeed(opts.Seed), maze.WithSelector(opts.Selector))
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        uuid.NewString(),
		Options:   opts,
		CreatedAt: time.Now(),
		g:         g,
		gen:       gen,
	}, nil
}

// Step advances the generator by one step.
func (s *Session) Step() maze.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen.Step()
}

// StepN advances the generator up to n times, stopping early at completion.
// The final KindComplete result is included; KindAlreadyComplete is only
// returned when the session was complete before the call.
func (s *Session) StepN(n int) []maze.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen.IsComplete() {
		return []maze.Result{s.gen.Step()}
	}
	out := make([]maze.Result, 0, min(n, 2*s.g.Len()))
	for i := 0; i < n && !s.gen.IsComplete(); i++ {
		out = append(out, s.gen.Step())
	}
	return out
}

// Graph returns the session's graph. Reads are safe at any time.
func (s *Session) Graph() *grid.Graph { return s.g }

// Status is a point-in-time summary of a session.
type Status struct {
	ID      string    `json:"id"`
	State   string    `json:"state"`
	Steps   int       `json:"steps"`
	Depth   int       `json:"depth"`
	Cells   int       `json:"cells"`
	Visited int       `json:"visited"`
	Edges   int       `json:"edges"`
	Active  *grid.Key `json:"active,omitempty"`
}

// Status returns a consistent summary of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		ID:      s.ID,
		State:   s.gen.State().String(),
		Steps:   s.gen.Steps(),
		Depth:   s.gen.Depth(),
		Cells:   s.g.Len(),
		Visited: s.g.VisitedCount(),
		Edges:   s.g.EdgeCount(),
	}
	if k, ok := s.g.ActiveKey(); ok {
		st.Active = &k
	}
	return st
}

// IsComplete reports whether the generator has finished.
func (s *Session) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen.IsComplete()
}

// Steps returns the number of effective steps taken.
func (s *Session) Steps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen.Steps()
}

// Store is the interface for session registries.
type Store interface {
	// Get retrieves a session by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Session, error)

	// Put stores a session under its ID.
	Put(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all sessions ordered by creation time.
	List(ctx context.Context) ([]*Session, error)
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Get retrieves a session by ID.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Put stores a session.
func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// List returns all sessions, oldest first.
func (m *MemoryStore) List(_ context.Context) ([]*Session, error) {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Session) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
