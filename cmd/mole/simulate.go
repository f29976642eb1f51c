package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-mole/internal/config"
	"github.com/vovakirdan/tui-mole/internal/mole"
)

var (
	flagTapsPerSecond float64
	flagSpeed         float64
	flagAccuracy      float64
	flagAreaWidth     int
	flagAreaHeight    int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless session with a scripted player",
	Long: `Run a session without a terminal UI. A scripted player taps at random
moments and hits the mole with the given accuracy. Session events are logged
to stderr (use --log-level debug to see every move) and the final score is
printed when the clock runs out.

--speed compresses time: with --speed 10 the 60 second session takes 6 seconds.

Examples:
  mole simulate
  mole simulate --speed 20 --taps-per-second 3 --accuracy 0.5
  mole simulate --log-level debug --seed 42`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Float64Var(&flagTapsPerSecond, "taps-per-second", 2, "Average taps per game second")
	simulateCmd.Flags().Float64Var(&flagSpeed, "speed", 1, "Time compression factor")
	simulateCmd.Flags().Float64Var(&flagAccuracy, "accuracy", 0.8, "Probability a tap hits the mole (0-1)")
	simulateCmd.Flags().IntVar(&flagAreaWidth, "width", 1000, "Width of the virtual play area")
	simulateCmd.Flags().IntVar(&flagAreaHeight, "height", 2000, "Height of the virtual play area")
}

// simOptions configures a headless session.
type simOptions struct {
	TapsPerSecond float64 // In game time
	Speed         float64
	Accuracy      float64
	Width         int
	Height        int
	TargetSize    int
	Seed          int64
}

func (o simOptions) validate() error {
	switch {
	case o.TapsPerSecond <= 0:
		return errors.New("--taps-per-second must be positive")
	case o.Speed <= 0:
		return errors.New("--speed must be positive")
	case o.Accuracy < 0 || o.Accuracy > 1:
		return errors.New("--accuracy must be between 0 and 1")
	case o.Width <= 0 || o.Height <= 0:
		return errors.New("--width and --height must be positive")
	}
	return nil
}

// scale divides a game-time interval by the speed factor.
func (o simOptions) scale(d time.Duration) time.Duration {
	scaled := time.Duration(float64(d) / o.Speed)
	if scaled <= 0 {
		return time.Nanosecond
	}
	return scaled
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadMole(flagConfig)
	if err != nil {
		return err
	}

	opts := simOptions{
		TapsPerSecond: flagTapsPerSecond,
		Speed:         flagSpeed,
		Accuracy:      flagAccuracy,
		Width:         flagAreaWidth,
		Height:        flagAreaHeight,
		TargetSize:    cfg.Layout.TargetSize,
		Seed:          flagSeed,
	}
	if err := opts.validate(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := simulate(ctx, cfg, opts, logger, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Final score: %d (%d/%d seconds, %d moves: %d periodic, %d after taps, %d on resize)\n",
		st.Score, st.Elapsed, st.Duration, st.Moves.Total(), st.Moves.Periodic, st.Moves.Tap, st.Moves.Resize)
	return nil
}

// simulate plays one session on a virtual play area until the clock runs out
// or ctx is cancelled, and returns the final state. A nil clock uses the
// system clock.
func simulate(ctx context.Context, cfg config.MoleConfig, opts simOptions, logger *log.Logger, clock mole.Clock) (mole.State, error) {
	rc := cfg.RunnerConfig(cfg.Layout)
	rc.ClockInterval = opts.scale(rc.ClockInterval)
	rc.MoveInterval = opts.scale(rc.MoveInterval)

	runnerOpts := []mole.RunnerOption{mole.WithLogger(logger), mole.WithSeed(opts.Seed)}
	if clock != nil {
		runnerOpts = append(runnerOpts, mole.WithClock(clock))
	} else {
		clock = mole.SystemClock
	}
	r := mole.NewRunner(rc, runnerOpts...)
	defer r.Teardown()

	r.ReportArea(opts.Width, opts.Height, opts.TargetSize)
	if !r.Snapshot().Placed {
		return mole.State{}, fmt.Errorf("play area %dx%d is too small for a %d target", opts.Width, opts.Height, opts.TargetSize)
	}

	r.Start(ctx)

	playerCtx, stopPlayer := context.WithCancel(ctx)
	defer stopPlayer()
	tapEvery := opts.scale(time.Duration(float64(time.Second) / opts.TapsPerSecond))
	go play(playerCtx, r, clock.NewTicker(tapEvery), opts.Accuracy, opts.Seed)

	for {
		select {
		case <-ctx.Done():
			logger.Warn("simulation interrupted")
			r.Teardown()
			return r.Snapshot(), nil
		case <-r.Done():
			return r.Snapshot(), nil
		case st := <-r.Updates():
			if st.Over {
				stopPlayer()
				r.Teardown()
				return r.Snapshot(), nil
			}
		}
	}
}

// play is the scripted player. Every tick it decides whether the tap lands
// on the mole; misses never reach the session.
func play(ctx context.Context, r *mole.Runner, ticker mole.Ticker, accuracy float64, seed int64) {
	defer ticker.Stop()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed + 1))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if rng.Float64() < accuracy {
				r.Tap()
			}
		}
	}
}
