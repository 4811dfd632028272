package driver

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	mazeerrors "github.com/matzehuels/mazegen/pkg/errors"
	"github.com/matzehuels/mazegen/pkg/maze"
	"github.com/matzehuels/mazegen/pkg/observability"
	"github.com/matzehuels/mazegen/pkg/session"
)

func newSession(t *testing.T, w, h int) *session.Session {
	t.Helper()
	s, err := session.New(session.Options{Width: w, Height: h, Seed: 11})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return s
}

func quietLogger() *log.Logger {
	var buf bytes.Buffer
	return log.NewWithOptions(&buf, log.Options{Level: log.ErrorLevel})
}

type recordingHooks struct {
	mu        sync.Mutex
	starts    int
	steps     map[string]int
	completes int
}

func (h *recordingHooks) OnSessionStart(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts++
}

func (h *recordingHooks) OnStep(_ context.Context, _ string, kind string, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.steps == nil {
		h.steps = make(map[string]int)
	}
	h.steps[kind]++
}

func (h *recordingHooks) OnComplete(context.Context, string, int, time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completes++
}

func TestNewDefaults(t *testing.T) {
	d, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	opts := d.Options()
	if opts.Rate != DefaultRate {
		t.Errorf("Rate = %v, want %v", opts.Rate, DefaultRate)
	}
	if opts.MaxCatchUp != DefaultMaxCatchUp {
		t.Errorf("MaxCatchUp = %d, want %d", opts.MaxCatchUp, DefaultMaxCatchUp)
	}
	if got, want := opts.Quantum(), time.Second/30; got != want {
		t.Errorf("Quantum() = %v, want %v", got, want)
	}
}

func TestNewInvalidRate(t *testing.T) {
	for _, rate := range []float64{-1, 20000} {
		_, err := New(Options{Rate: rate})
		if !mazeerrors.Is(err, mazeerrors.ErrCodeInvalidInput) {
			t.Errorf("New(rate=%v) error = %v, want INVALID_INPUT", rate, err)
		}
	}
}

func TestPacer(t *testing.T) {
	q := 10 * time.Millisecond
	tests := []struct {
		name       string
		maxCatchUp int
		elapsed    []time.Duration
		want       []int
	}{
		{"one per quantum", 1, []time.Duration{q, q, q}, []int{1, 1, 1}},
		{"short ticks accumulate", 1, []time.Duration{q / 2, q / 2, q / 2, q / 2}, []int{0, 1, 0, 1}},
		{"stall clamped", 1, []time.Duration{10 * q, q}, []int{1, 1}},
		{"stall catch up", 3, []time.Duration{10 * q, q}, []int{3, 1}},
		{"negative ignored", 1, []time.Duration{-q, q}, []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPacer(q, tt.maxCatchUp)
			for i, e := range tt.elapsed {
				if got := p.Advance(e); got != tt.want[i] {
					t.Fatalf("advance #%d(%v) = %d, want %d", i, e, got, tt.want[i])
				}
			}
		})
	}
}

func TestDrain(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetGeneratorHooks(hooks)
	t.Cleanup(observability.Reset)

	sess := newSession(t, 4, 4)
	var seen int
	d, err := New(Options{Logger: quietLogger(), OnStep: func(maze.Result) { seen++ }})
	if err != nil {
		t.Fatal(err)
	}
	stats := d.Drain(sess)

	if !stats.Complete || !sess.IsComplete() {
		t.Fatal("Drain did not complete the session")
	}
	if stats.Steps != 31 || stats.Progress != 15 || stats.Backtracks != 15 {
		t.Errorf("stats = %+v, want 31 steps, 15 progress, 15 backtracks", stats)
	}
	if seen != 31 {
		t.Errorf("OnStep called %d times, want 31", seen)
	}
	if hooks.starts != 1 || hooks.completes != 1 {
		t.Errorf("hooks starts=%d completes=%d, want 1 and 1", hooks.starts, hooks.completes)
	}
	if hooks.steps["progress"] != 15 || hooks.steps["complete"] != 1 {
		t.Errorf("hook steps = %v", hooks.steps)
	}

	// Draining again is a no-op.
	again := Drain(sess)
	if again.Steps != 0 || !again.Complete {
		t.Errorf("second Drain = %+v", again)
	}
}

func TestRunCompletes(t *testing.T) {
	sess := newSession(t, 3, 3)
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})

	d, err := New(Options{Rate: 2000, MaxCatchUp: 4, Logger: logger})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := d.Run(ctx, sess)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !stats.Complete || stats.Steps != 17 {
		t.Errorf("stats = %+v, want complete after 17 steps", stats)
	}
	if !strings.Contains(buf.String(), "maze complete") {
		t.Errorf("log output missing completion line: %q", buf.String())
	}
	if err := sess.Graph().Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	sess := newSession(t, 20, 20)
	d, err := New(Options{Rate: 200, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	stats, err := d.Run(ctx, sess)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want deadline exceeded", err)
	}
	if stats.Complete || sess.IsComplete() {
		t.Fatal("session should not be complete after cancellation")
	}
	if stats.Steps != sess.Steps() {
		t.Errorf("stats.Steps = %d, session steps = %d", stats.Steps, sess.Steps())
	}
	if err := sess.Graph().Validate(); err != nil {
		t.Errorf("partial forest invalid: %v", err)
	}
}

func TestRunAlreadyComplete(t *testing.T) {
	sess := newSession(t, 1, 1)
	d, err := New(Options{Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	stats, err := d.Run(context.Background(), sess)
	if err != nil || !stats.Complete || stats.Steps != 0 {
		t.Errorf("Run() = %+v, %v", stats, err)
	}
}
