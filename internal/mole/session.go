// Package mole implements the whack-a-mole session: a countdown clock, a
// randomly relocating target and a score counter.
//
// Session is the pure state machine and is not safe for concurrent use.
// Runner wraps it with the two periodic activities and serializes every
// mutation onto a single goroutine.
package mole

import (
	"math/rand"
)

// DefaultDuration is the session length in clock ticks (seconds).
const DefaultDuration = 60

// Phase is the session lifecycle state.
type Phase string

const (
	PhaseRunning  Phase = "running"
	PhaseGameOver Phase = "game_over"
)

// MoveCause identifies why the target was repositioned.
type MoveCause int

const (
	MoveBootstrap MoveCause = iota // First valid area report
	MovePeriodic                   // Mover tick
	MoveTap                        // Accepted tap
	MoveResize                     // Area changed and the target fell outside it
)

// String returns a short name for the cause, used in logs.
func (c MoveCause) String() string {
	switch c {
	case MoveBootstrap:
		return "bootstrap"
	case MovePeriodic:
		return "periodic"
	case MoveTap:
		return "tap"
	case MoveResize:
		return "resize"
	default:
		return "unknown"
	}
}

// MoveStats counts successful repositions by cause.
type MoveStats struct {
	Bootstrap int
	Periodic  int
	Tap       int
	Resize    int
}

// Total returns the number of repositions of any cause.
func (m MoveStats) Total() int {
	return m.Bootstrap + m.Periodic + m.Tap + m.Resize
}

// State is an immutable snapshot of a session, published to the presentation layer.
type State struct {
	Elapsed   int // Clock ticks consumed, in [0, Duration]
	Duration  int
	Remaining int // Duration - Elapsed, never negative
	Over      bool
	Phase     Phase
	Score     int
	Position  Position
	Placed    bool // Whether the target has been placed at least once
	Area      PlayArea
	Bounds    Bounds
	Moves     MoveStats
}

// Session owns all mutable game state for one play-through.
type Session struct {
	layout   Layout
	duration int
	rng      *rand.Rand

	elapsed int
	over    bool
	score   int

	area   PlayArea
	bounds Bounds
	pos    Position
	placed bool // one-time latch for the bootstrap placement

	moves MoveStats
}

// NewSession creates a running session. A non-positive duration falls back to
// DefaultDuration.
func NewSession(layout Layout, duration int, seed int64) *Session {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Session{
		layout:   layout,
		duration: duration,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// ClockTick advances the elapsed counter by one. The tick that reaches the
// session duration ends the session. Ticks after that are ignored.
func (s *Session) ClockTick() {
	if s.over {
		return
	}
	s.elapsed++
	if s.elapsed >= s.duration {
		s.elapsed = s.duration
		s.over = true
	}
}

// MoverTick performs the periodic reposition.
// Returns true if the target moved.
func (s *Session) MoverTick() bool {
	return s.reposition(MovePeriodic)
}

// Tap registers a hit on the target. While running it scores one point and
// relocates the target immediately; after game over it does nothing.
// Returns true if the tap was accepted.
func (s *Session) Tap() bool {
	if s.over {
		return false
	}
	s.score++
	s.reposition(MoveTap)
	return true
}

// ReportArea records the playable surface size and recomputes bounds.
// The first report with valid bounds places the target. Later reports only
// move it when the current position no longer fits.
// A non-positive targetSize uses the layout default.
// Returns true if the target moved.
func (s *Session) ReportArea(width, height, targetSize int) bool {
	if targetSize <= 0 {
		targetSize = s.layout.TargetSize
	}
	s.area = PlayArea{Width: width, Height: height, TargetSize: targetSize}
	s.bounds = DeriveBounds(s.area, s.layout)

	if !s.placed {
		return s.reposition(MoveBootstrap)
	}
	if !s.bounds.Contains(s.pos) {
		return s.reposition(MoveResize)
	}
	return false
}

// reposition draws a new uniform random position. It is skipped when the
// bounds are not yet known or the session is over.
func (s *Session) reposition(cause MoveCause) bool {
	if s.over || !s.bounds.Valid() {
		return false
	}

	s.pos = Position{
		X: s.rng.Intn(s.bounds.MaxX),
		Y: s.rng.Intn(s.bounds.MaxY) + s.bounds.YMinOffset,
	}
	s.placed = true

	switch cause {
	case MoveBootstrap:
		s.moves.Bootstrap++
	case MovePeriodic:
		s.moves.Periodic++
	case MoveTap:
		s.moves.Tap++
	case MoveResize:
		s.moves.Resize++
	}
	return true
}

// Over reports whether the session has reached game over.
func (s *Session) Over() bool {
	return s.over
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	phase := PhaseRunning
	if s.over {
		phase = PhaseGameOver
	}
	remaining := s.duration - s.elapsed
	if remaining < 0 {
		remaining = 0
	}

	return State{
		Elapsed:   s.elapsed,
		Duration:  s.duration,
		Remaining: remaining,
		Over:      s.over,
		Phase:     phase,
		Score:     s.score,
		Position:  s.pos,
		Placed:    s.placed,
		Area:      s.area,
		Bounds:    s.bounds,
		Moves:     s.moves,
	}
}
