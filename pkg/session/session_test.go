package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mazegen/pkg/grid"
	"github.com/matzehuels/mazegen/pkg/maze"
)

func TestNewDefaults(t *testing.T) {
	s, err := New(Options{Seed: 1})
	require.NoError(t, err)

	assert.Equal(t, DefaultWidth, s.Options.Width)
	assert.Equal(t, DefaultHeight, s.Options.Height)
	assert.Equal(t, DefaultWidth*DefaultHeight, s.Graph().Len())
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.IsComplete())
}

func TestNewRandomSeed(t *testing.T) {
	s, err := New(Options{Width: 2, Height: 2})
	require.NoError(t, err)
	assert.NotZero(t, s.Options.Seed)
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"negative width", Options{Width: -1, Height: 2}, ErrInvalidOptions},
		{"start outside", Options{Width: 2, Height: 2, Start: grid.Key{X: 2}}, maze.ErrInvalidStartKey},
		{"negative start", Options{Width: 2, Height: 2, Start: grid.Key{Y: -1}}, maze.ErrInvalidStartKey},
		{"bad connectivity", Options{Width: 2, Height: 2, Conn: grid.Connectivity(6)}, ErrInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStepN(t *testing.T) {
	s, err := New(Options{Width: 3, Height: 3, Seed: 7})
	require.NoError(t, err)

	first := s.StepN(4)
	require.Len(t, first, 4)
	assert.Equal(t, 4, s.Steps())

	// 9 cells take 17 steps in total; asking for more stops at completion.
	rest := s.StepN(100)
	require.Len(t, rest, 13)
	assert.Equal(t, maze.KindComplete, rest[len(rest)-1].Kind)
	assert.True(t, s.IsComplete())

	after := s.StepN(5)
	require.Len(t, after, 1)
	assert.Equal(t, maze.KindAlreadyComplete, after[0].Kind)
}

func TestStatus(t *testing.T) {
	s, err := New(Options{Width: 4, Height: 2, Start: grid.Key{X: 1, Y: 1}, Seed: 3})
	require.NoError(t, err)

	st := s.Status()
	assert.Equal(t, s.ID, st.ID)
	assert.Equal(t, "running", st.State)
	assert.Equal(t, 8, st.Cells)
	assert.Equal(t, 1, st.Visited)
	assert.Equal(t, 0, st.Edges)
	require.NotNil(t, st.Active)
	assert.Equal(t, grid.Key{X: 1, Y: 1}, *st.Active)

	for !s.IsComplete() {
		s.Step()
	}
	st = s.Status()
	assert.Equal(t, "complete", st.State)
	assert.Equal(t, 8, st.Visited)
	assert.Equal(t, 7, st.Edges)
	assert.Equal(t, 0, st.Depth)
	assert.Nil(t, st.Active)
}

func TestSameSeedSameMaze(t *testing.T) {
	a, err := New(Options{Width: 6, Height: 4, Seed: 99})
	require.NoError(t, err)
	b, err := New(Options{Width: 6, Height: 4, Seed: 99})
	require.NoError(t, err)

	ra := a.StepN(1000)
	rb := b.StepN(1000)
	assert.Equal(t, ra, rb)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s1, err := New(Options{Width: 2, Height: 2, Seed: 1})
	require.NoError(t, err)
	s2, err := New(Options{Width: 2, Height: 2, Seed: 2})
	require.NoError(t, err)
	s2.CreatedAt = s1.CreatedAt.Add(time.Second)

	require.NoError(t, store.Put(ctx, s2))
	require.NoError(t, store.Put(ctx, s1))

	got, err := store.Get(ctx, s1.ID)
	require.NoError(t, err)
	assert.Same(t, s1, got)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Same(t, s1, list[0])
	assert.Same(t, s2, list[1])

	require.NoError(t, store.Delete(ctx, s1.ID))
	require.NoError(t, store.Delete(ctx, s1.ID))
	_, err = store.Get(ctx, s1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentStepAndStatus(t *testing.T) {
	s, err := New(Options{Width: 10, Height: 10, Seed: 5})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for !s.IsComplete() {
			s.Step()
		}
	}()
	for {
		st := s.Status()
		if st.Edges != st.Visited-1 {
			t.Fatalf("edges=%d visited=%d", st.Edges, st.Visited)
		}
		select {
		case <-done:
			assert.Equal(t, 99, s.Graph().EdgeCount())
			return
		default:
		}
	}
}
