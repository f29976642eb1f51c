package mole

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// RunnerConfig contains the timing and geometry of a session.
type RunnerConfig struct {
	Layout        Layout
	Duration      int           // Session length in clock ticks
	ClockInterval time.Duration // Period of the session clock
	MoveInterval  time.Duration // Period of the target mover
}

// DefaultRunnerConfig returns the standard 60 second session.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Layout:        DefaultLayout(),
		Duration:      DefaultDuration,
		ClockInterval: time.Second,
		MoveInterval:  700 * time.Millisecond,
	}
}

type runnerStatus int

const (
	statusIdle runnerStatus = iota
	statusRunning
	statusStopped
)

// Runner drives a Session with two periodic activities, the session clock and
// the target mover. All session mutations happen on one owner goroutine;
// taps and area reports are delivered to it over channels.
type Runner struct {
	cfg    RunnerConfig
	clock  Clock
	logger *log.Logger
	seed   int64
	id     string

	session *Session

	taps    chan struct{}
	areas   chan PlayArea
	snaps   chan chan State
	updates chan State

	mu     sync.Mutex
	status runnerStatus
	cancel context.CancelFunc
	done   chan struct{}
	final  State // written by the owner goroutine before done is closed
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock sets the clock used to create the periodic tickers.
func WithClock(c Clock) RunnerOption {
	return func(r *Runner) {
		r.clock = c
	}
}

// WithLogger sets the logger for session lifecycle events.
func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSeed sets the RNG seed for target placement. Zero uses the current time.
func WithSeed(seed int64) RunnerOption {
	return func(r *Runner) {
		r.seed = seed
	}
}

// NewRunner creates a runner in the idle state. Call Start to begin the session.
func NewRunner(cfg RunnerConfig, opts ...RunnerOption) *Runner {
	if cfg.ClockInterval <= 0 {
		cfg.ClockInterval = time.Second
	}
	if cfg.MoveInterval <= 0 {
		cfg.MoveInterval = 700 * time.Millisecond
	}

	r := &Runner{
		cfg:     cfg,
		clock:   SystemClock,
		logger:  log.New(io.Discard),
		id:      uuid.NewString(),
		taps:    make(chan struct{}),
		areas:   make(chan PlayArea),
		snaps:   make(chan chan State),
		updates: make(chan State, 1),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.seed == 0 {
		r.seed = time.Now().UnixNano()
	}
	r.session = NewSession(cfg.Layout, cfg.Duration, r.seed)
	r.logger = r.logger.With("session", r.id)
	return r
}

// ID returns the unique identifier of this session.
func (r *Runner) ID() string {
	return r.id
}

// Start launches the session. Calling it again, or after Teardown, is a no-op.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != statusIdle {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.status = statusRunning

	r.logger.Info("session started",
		"duration", r.cfg.Duration,
		"clock", r.cfg.ClockInterval,
		"move", r.cfg.MoveInterval,
	)
	go r.run(ctx)
}

// Teardown cancels both periodic activities and waits for the owner goroutine
// to exit. It is safe to call more than once.
func (r *Runner) Teardown() {
	r.mu.Lock()
	switch r.status {
	case statusIdle:
		r.status = statusStopped
		r.final = r.session.State()
		close(r.done)
		r.mu.Unlock()
		return
	case statusRunning:
		r.status = statusStopped
		r.cancel()
	}
	r.mu.Unlock()

	<-r.done
}

// Done is closed once the session has been torn down.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Updates delivers the latest state after every change. Only the most recent
// state is kept if the reader falls behind.
func (r *Runner) Updates() <-chan State {
	return r.updates
}

// Tap registers a hit on the target.
func (r *Runner) Tap() {
	switch r.currentStatus() {
	case statusIdle:
		r.withIdleSession(func(s *Session) bool { return s.Tap() })
	case statusRunning:
		select {
		case r.taps <- struct{}{}:
		case <-r.done:
		}
	}
}

// ReportArea records the playable surface size.
func (r *Runner) ReportArea(width, height, targetSize int) {
	area := PlayArea{Width: width, Height: height, TargetSize: targetSize}
	switch r.currentStatus() {
	case statusIdle:
		r.withIdleSession(func(s *Session) bool {
			s.ReportArea(area.Width, area.Height, area.TargetSize)
			return true
		})
	case statusRunning:
		select {
		case r.areas <- area:
		case <-r.done:
		}
	}
}

// Snapshot returns the session state after every event delivered before the
// call has been applied.
func (r *Runner) Snapshot() State {
	r.mu.Lock()
	if r.status == statusIdle {
		defer r.mu.Unlock()
		return r.session.State()
	}
	r.mu.Unlock()

	reply := make(chan State, 1)
	select {
	case r.snaps <- reply:
		return <-reply
	case <-r.done:
		return r.final
	}
}

func (r *Runner) currentStatus() runnerStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// withIdleSession applies fn to the session before the owner goroutine exists.
// The mutex keeps Start from racing with it.
func (r *Runner) withIdleSession(fn func(*Session) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != statusIdle {
		return
	}
	if fn(r.session) {
		r.publish()
	}
}

// run is the owner goroutine. It is the only code touching the session while
// the runner is running.
func (r *Runner) run(ctx context.Context) {
	defer func() {
		r.final = r.session.State()
		close(r.done)
	}()

	clockTicker := r.clock.NewTicker(r.cfg.ClockInterval)
	moverTicker := r.clock.NewTicker(r.cfg.MoveInterval)
	clockC, moverC := clockTicker.C(), moverTicker.C()

	stopClock := func() {
		if clockTicker != nil {
			clockTicker.Stop()
			clockTicker, clockC = nil, nil
		}
	}
	stopMover := func() {
		if moverTicker != nil {
			moverTicker.Stop()
			moverTicker, moverC = nil, nil
		}
	}
	defer stopClock()
	defer stopMover()

	// The mover makes its first attempt immediately.
	if r.session.MoverTick() {
		r.logMove(MovePeriodic)
	}
	r.publish()

	for {
		select {
		case <-ctx.Done():
			st := r.session.State()
			r.logger.Info("session torn down", "score", st.Score, "elapsed", st.Elapsed)
			return

		case <-clockC:
			r.session.ClockTick()
			if r.session.Over() {
				// Game over and mover cancellation happen in the same step,
				// so no reposition can be observed after it.
				stopMover()
				stopClock()
				st := r.session.State()
				r.logger.Info("game over", "score", st.Score, "moves", st.Moves.Total())
			}
			r.publish()

		case <-moverC:
			if r.session.MoverTick() {
				r.logMove(MovePeriodic)
				r.publish()
			}

		case <-r.taps:
			if r.session.Tap() {
				r.logMove(MoveTap)
				r.publish()
			} else {
				r.logger.Debug("tap ignored after game over")
			}

		case area := <-r.areas:
			before := r.session.State().Moves
			r.session.ReportArea(area.Width, area.Height, area.TargetSize)
			after := r.session.State()
			r.logger.Debug("area reported",
				"width", area.Width,
				"height", area.Height,
				"target", after.Area.TargetSize,
				"valid", after.Bounds.Valid(),
			)
			switch {
			case after.Moves.Bootstrap > before.Bootstrap:
				r.logMove(MoveBootstrap)
			case after.Moves.Resize > before.Resize:
				r.logMove(MoveResize)
			}
			r.publish()

		case reply := <-r.snaps:
			reply <- r.session.State()
		}
	}
}

func (r *Runner) logMove(cause MoveCause) {
	st := r.session.State()
	r.logger.Debug("target moved", "cause", cause, "x", st.Position.X, "y", st.Position.Y)
}

// publish replaces any unread state with the current one.
func (r *Runner) publish() {
	st := r.session.State()
	select {
	case <-r.updates:
	default:
	}
	select {
	case r.updates <- st:
	default:
	}
}
