// Package driver paces a maze session in wall-clock time.
//
// The core generator has no notion of time: every Step does one unit of work
// and returns. A [Driver] calls Step on a fixed schedule, by default 30 steps
// per second, so that a renderer can show the maze being carved.
//
// Pacing uses an accumulator. Every tick adds the elapsed time, clamped to
// MaxCatchUp quanta, and one step is taken per whole quantum accumulated. A
// stalled process therefore catches up by at most MaxCatchUp steps instead of
// bursting through the backlog.
//
// # Usage
//
//	d, err := driver.New(driver.Options{Rate: 30, Logger: logger})
//	if err != nil {
//	    return err
//	}
//	stats, err := d.Run(ctx, sess)
//
// Cancelling ctx stops the driver between steps, leaving a valid partial
// forest in the session's graph.
package driver

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mazegen/pkg/errors"
	"github.com/matzehuels/mazegen/pkg/maze"
	"github.com/matzehuels/mazegen/pkg/observability"
	"github.com/matzehuels/mazegen/pkg/session"
)

// Defaults for [Options].
const (
	DefaultRate       = 30.0
	DefaultMaxCatchUp = 1
)

// Options configures a [Driver].
type Options struct {
	Rate       float64           // steps per second
	MaxCatchUp int               // max steps taken for one tick
	OnStep     func(maze.Result) // called after every step, on the driver goroutine
	Logger     *log.Logger       // nil means log.Default()
}

// SetDefaults fills zero values with defaults.
func (o *Options) SetDefaults() {
	if o.Rate == 0 {
		o.Rate = DefaultRate
	}
	if o.MaxCatchUp <= 0 {
		o.MaxCatchUp = DefaultMaxCatchUp
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Quantum returns the time budget of one step.
func (o Options) Quantum() time.Duration {
	return time.Duration(float64(time.Second) / o.Rate)
}

// Stats summarizes a run.
type Stats struct {
	Steps      int           `json:"steps"`
	Progress   int           `json:"progress"`
	Backtracks int           `json:"backtracks"`
	Complete   bool          `json:"complete"`
	Duration   time.Duration `json:"duration"`
}

func (s *Stats) record(res maze.Result) {
	switch res.Kind {
	case maze.KindProgress:
		s.Steps++
		s.Progress++
	case maze.KindBacktrack:
		s.Steps++
		s.Backtracks++
	case maze.KindComplete:
		s.Steps++
		s.Complete = true
	case maze.KindAlreadyComplete:
		s.Complete = true
	}
}

// Driver steps sessions on a schedule.
type Driver struct {
	opts Options
}

// New creates a driver. It fails if the rate is not a usable positive number.
func New(opts Options) (*Driver, error) {
	opts.SetDefaults()
	if err := errors.ValidateRate(opts.Rate); err != nil {
		return nil, err
	}
	return &Driver{opts: opts}, nil
}

// Options returns the effective options.
func (d *Driver) Options() Options { return d.opts }

// Run steps sess at the configured rate until it completes or ctx is done.
// On cancellation it returns the stats so far together with ctx.Err().
func (d *Driver) Run(ctx context.Context, sess *session.Session) (Stats, error) {
	logger := d.opts.Logger.With("session", shortID(sess.ID))
	hooks := observability.Generator()
	hooks.OnSessionStart(ctx, sess.ID, sess.Graph().Len())

	var stats Stats
	start := time.Now()
	if sess.IsComplete() {
		stats.Complete = true
		return stats, nil
	}

	quantum := d.opts.Quantum()
	logger.Debug("driver started", "cells", sess.Graph().Len(), "quantum", quantum)

	ticker := time.NewTicker(quantum)
	defer ticker.Stop()
	p := NewPacer(quantum, d.opts.MaxCatchUp)
	last := start

	for {
		select {
		case <-ctx.Done():
			stats.Duration = time.Since(start)
			logger.Debug("driver stopped", "steps", stats.Steps, "err", ctx.Err())
			return stats, ctx.Err()
		case now := <-ticker.C:
			n := p.Advance(now.Sub(last))
			last = now
			for range n {
				if d.step(ctx, sess, &stats) {
					stats.Duration = time.Since(start)
					hooks.OnComplete(ctx, sess.ID, stats.Steps, stats.Duration)
					logger.Info("maze complete", "steps", stats.Steps, "elapsed", stats.Duration.Round(time.Millisecond))
					return stats, nil
				}
			}
		}
	}
}

// Drain steps sess to completion without pacing.
func (d *Driver) Drain(sess *session.Session) Stats {
	ctx := context.Background()
	hooks := observability.Generator()
	hooks.OnSessionStart(ctx, sess.ID, sess.Graph().Len())

	var stats Stats
	start := time.Now()
	for !stats.Complete {
		d.step(ctx, sess, &stats)
	}
	stats.Duration = time.Since(start)
	hooks.OnComplete(ctx, sess.ID, stats.Steps, stats.Duration)
	d.opts.Logger.Debug("maze drained", "session", shortID(sess.ID), "steps", stats.Steps)
	return stats
}

// Drain steps sess to completion with default options.
func Drain(sess *session.Session) Stats {
	d, _ := New(Options{})
	return d.Drain(sess)
}

// step takes one step and reports whether the session is now complete.
func (d *Driver) step(ctx context.Context, sess *session.Session, stats *Stats) bool {
	res := sess.Step()
	stats.record(res)
	if res.Kind != maze.KindAlreadyComplete {
		observability.Generator().OnStep(ctx, sess.ID, res.Kind.String(), len(res.Touched))
		if d.opts.OnStep != nil {
			d.opts.OnStep(res)
		}
	}
	return stats.Complete
}

// Pacer converts elapsed time into a whole number of steps. It is not safe
// for concurrent use.
type Pacer struct {
	quantum    time.Duration
	maxElapsed time.Duration
	acc        time.Duration
}

// NewPacer creates a pacer taking one step per quantum and at most
// maxCatchUp steps per call to Advance.
func NewPacer(quantum time.Duration, maxCatchUp int) *Pacer {
	maxCatchUp = max(maxCatchUp, 1)
	return &Pacer{quantum: quantum, maxElapsed: quantum * time.Duration(maxCatchUp)}
}

// Advance adds elapsed time and returns the number of steps now due.
func (p *Pacer) Advance(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	p.acc += min(elapsed, p.maxElapsed)
	n := int(p.acc / p.quantum)
	p.acc -= time.Duration(n) * p.quantum
	return n
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
