package mole

import (
	"context"
	"sync"
	"testing"
	"time"
)

const (
	testClockInterval = time.Second
	testMoveInterval  = 700 * time.Millisecond
)

// manualTicker only fires when the test sends on it.
type manualTicker struct {
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (m *manualTicker) C() <-chan time.Time { return m.c }

func (m *manualTicker) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
}

func (m *manualTicker) Stopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// manualClock hands out manual tickers keyed by interval.
type manualClock struct {
	mu      sync.Mutex
	tickers map[time.Duration]*manualTicker
	added   chan struct{}
}

func newManualClock() *manualClock {
	return &manualClock{
		tickers: make(map[time.Duration]*manualTicker),
		added:   make(chan struct{}, 16),
	}
}

func (m *manualClock) NewTicker(d time.Duration) Ticker {
	t := &manualTicker{c: make(chan time.Time)}
	m.mu.Lock()
	m.tickers[d] = t
	m.mu.Unlock()
	m.added <- struct{}{}
	return t
}

// ticker waits for the runner goroutine to create the ticker for d.
func (m *manualClock) ticker(t *testing.T, d time.Duration) *manualTicker {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		m.mu.Lock()
		tk, ok := m.tickers[d]
		m.mu.Unlock()
		if ok {
			return tk
		}
		select {
		case <-m.added:
		case <-deadline:
			t.Fatalf("ticker for %v was never created", d)
		}
	}
}

// fire delivers one tick and fails the test if the runner does not take it.
func (m *manualClock) fire(t *testing.T, d time.Duration) {
	t.Helper()
	if !m.tryFire(t, d, 2*time.Second) {
		t.Fatalf("tick for %v was not received", d)
	}
}

// tryFire reports whether the runner received a tick within the timeout.
func (m *manualClock) tryFire(t *testing.T, d time.Duration, timeout time.Duration) bool {
	t.Helper()
	tk := m.ticker(t, d)
	select {
	case tk.c <- time.Now():
		return true
	case <-time.After(timeout):
		return false
	}
}

func newTestRunner(t *testing.T) (*Runner, *manualClock) {
	t.Helper()
	clk := newManualClock()
	cfg := RunnerConfig{
		Layout:        DefaultLayout(),
		Duration:      DefaultDuration,
		ClockInterval: testClockInterval,
		MoveInterval:  testMoveInterval,
	}
	r := NewRunner(cfg, WithClock(clk), WithSeed(42))
	t.Cleanup(r.Teardown)
	return r, clk
}

func TestRunnerScenarioArea(t *testing.T) {
	r, _ := newTestRunner(t)
	r.Start(context.Background())

	r.ReportArea(1000, 2000, 150)
	st := r.Snapshot()

	if st.Bounds.MaxX != 850 || st.Bounds.MaxY != 1650 {
		t.Errorf("bounds = (%d, %d), expected (850, 1650)", st.Bounds.MaxX, st.Bounds.MaxY)
	}
	if !st.Placed || !st.Bounds.Contains(st.Position) {
		t.Errorf("initial placement %v (placed=%v) not within %+v", st.Position, st.Placed, st.Bounds)
	}
	if st.Moves.Bootstrap != 1 {
		t.Errorf("Bootstrap moves = %d, expected 1", st.Moves.Bootstrap)
	}
}

func TestRunnerSixtyTicksEndSession(t *testing.T) {
	r, clk := newTestRunner(t)
	r.Start(context.Background())
	r.ReportArea(1000, 2000, 150)

	for i := 1; i < DefaultDuration; i++ {
		clk.fire(t, testClockInterval)
		if st := r.Snapshot(); st.Over || st.Elapsed != i {
			t.Fatalf("after %d ticks: Elapsed = %d, Over = %v", i, st.Elapsed, st.Over)
		}
	}
	clk.fire(t, testClockInterval)

	st := r.Snapshot()
	if !st.Over || st.Elapsed != 60 {
		t.Fatalf("after 60 ticks: Elapsed = %d, Over = %v", st.Elapsed, st.Over)
	}

	mover := clk.ticker(t, testMoveInterval)
	if !mover.Stopped() {
		t.Error("mover ticker should be stopped at game over")
	}
	if !clk.ticker(t, testClockInterval).Stopped() {
		t.Error("clock ticker should be stopped at game over")
	}
	if clk.tryFire(t, testMoveInterval, 50*time.Millisecond) {
		t.Error("runner still receives mover ticks after game over")
	}

	r.Tap()
	after := r.Snapshot()
	if after.Score != st.Score {
		t.Errorf("Score changed after game over: %d -> %d", st.Score, after.Score)
	}
	if after.Position != st.Position || after.Moves != st.Moves {
		t.Errorf("target moved after game over: %v -> %v", st.Position, after.Position)
	}
}

func TestRunnerFiveTaps(t *testing.T) {
	r, clk := newTestRunner(t)
	r.Start(context.Background())
	r.ReportArea(1000, 2000, 150)

	// Interleave a few periodic moves with the taps
	clk.fire(t, testMoveInterval)
	for i := 0; i < 5; i++ {
		r.Tap()
		if i%2 == 0 {
			clk.fire(t, testMoveInterval)
		}
	}

	st := r.Snapshot()
	if st.Score != 5 {
		t.Errorf("Score = %d, expected 5", st.Score)
	}
	if st.Moves.Tap != 5 {
		t.Errorf("Tap moves = %d, expected 5", st.Moves.Tap)
	}
	if st.Moves.Periodic != 4 {
		t.Errorf("Periodic moves = %d, expected 4", st.Moves.Periodic)
	}
}

func TestRunnerStartIsIdempotent(t *testing.T) {
	clk := newManualClock()
	r := NewRunner(DefaultRunnerConfig(), WithClock(clk), WithSeed(1))
	t.Cleanup(r.Teardown)

	r.Start(context.Background())
	r.Start(context.Background())
	r.Snapshot()

	// One clock ticker and one mover ticker, no duplicates
	if n := len(clk.added); n != 2 {
		t.Errorf("created %d tickers, expected 2", n)
	}
}

func TestRunnerTeardownStopsBothTickers(t *testing.T) {
	r, clk := newTestRunner(t)
	r.Start(context.Background())
	clk.fire(t, testClockInterval)

	r.Teardown()

	select {
	case <-r.Done():
	default:
		t.Fatal("Done should be closed after Teardown")
	}
	if !clk.ticker(t, testClockInterval).Stopped() {
		t.Error("clock ticker still running after teardown")
	}
	if !clk.ticker(t, testMoveInterval).Stopped() {
		t.Error("mover ticker still running after teardown")
	}

	// Calls after teardown are no-ops and must not block
	r.Tap()
	r.ReportArea(1000, 2000, 150)
	r.Teardown()
	r.Start(context.Background())

	st := r.Snapshot()
	if st.Elapsed != 1 || st.Score != 0 {
		t.Errorf("final state = %+v, expected Elapsed 1 and Score 0", st)
	}
}

func TestRunnerContextCancel(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	cancel()

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after context cancel")
	}
}

func TestRunnerEventsBeforeStart(t *testing.T) {
	r, _ := newTestRunner(t)

	r.ReportArea(1000, 2000, 150)
	r.Tap()

	st := r.Snapshot()
	if st.Score != 1 || st.Moves.Bootstrap != 1 || st.Moves.Tap != 1 {
		t.Errorf("idle state = %+v, expected score 1 with bootstrap and tap moves", st)
	}

	r.Start(context.Background())
	if got := r.Snapshot().Score; got != 1 {
		t.Errorf("Score after Start = %d, expected 1", got)
	}
}

func TestRunnerTeardownBeforeStart(t *testing.T) {
	r, clk := newTestRunner(t)
	r.Teardown()
	r.Start(context.Background())

	select {
	case <-r.Done():
	default:
		t.Fatal("Done should be closed")
	}
	if n := len(clk.added); n != 0 {
		t.Errorf("created %d tickers after teardown, expected 0", n)
	}
}

func TestRunnerUpdatesLatestWins(t *testing.T) {
	r, clk := newTestRunner(t)
	r.Start(context.Background())
	r.ReportArea(1000, 2000, 150)

	for i := 0; i < 3; i++ {
		clk.fire(t, testClockInterval)
	}
	r.Snapshot()

	select {
	case st := <-r.Updates():
		if st.Elapsed != 3 {
			t.Errorf("latest update Elapsed = %d, expected 3", st.Elapsed)
		}
	default:
		t.Fatal("expected a pending update")
	}

	select {
	case st := <-r.Updates():
		t.Errorf("unexpected second update %+v", st)
	default:
	}
}

func TestRunnerWithSystemClock(t *testing.T) {
	cfg := RunnerConfig{
		Layout:        DefaultLayout(),
		Duration:      3,
		ClockInterval: 5 * time.Millisecond,
		MoveInterval:  2 * time.Millisecond,
	}
	r := NewRunner(cfg, WithSeed(7))
	r.ReportArea(1000, 2000, 150)
	r.Start(context.Background())
	defer r.Teardown()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-r.Updates():
			if st.Over {
				if st.Elapsed != 3 {
					t.Errorf("Elapsed = %d at game over, expected 3", st.Elapsed)
				}
				return
			}
		case <-deadline:
			t.Fatal("session did not reach game over")
		}
	}
}

func TestDefaultRunnerConfig(t *testing.T) {
	cfg := DefaultRunnerConfig()
	if cfg.Duration != 60 {
		t.Errorf("Duration = %d, expected 60", cfg.Duration)
	}
	if cfg.ClockInterval != time.Second {
		t.Errorf("ClockInterval = %v, expected 1s", cfg.ClockInterval)
	}
	if cfg.MoveInterval != 700*time.Millisecond {
		t.Errorf("MoveInterval = %v, expected 700ms", cfg.MoveInterval)
	}
	if cfg.Layout != DefaultLayout() {
		t.Errorf("Layout = %+v, expected %+v", cfg.Layout, DefaultLayout())
	}
}
