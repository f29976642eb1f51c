package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-mole/internal/config"
	"github.com/vovakirdan/tui-mole/internal/core"
	"github.com/vovakirdan/tui-mole/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a 60 second session",
	Long: `Start a whack-a-mole session in the terminal.

Controls:
  Click     - Whack the mole
  R         - Play again (after game over)
  ?         - Toggle help
  Q/Ctrl+C  - Quit

The terminal must support mouse reporting.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadMole(flagConfig)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs only go to --log-file
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	// Get terminal size early; the first resize message corrects it
	rt := core.DefaultConfig()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rt.ScreenW = w
		rt.ScreenH = h
	}
	rt.Seed = flagSeed

	logger.Info("starting game", "width", rt.ScreenW, "height", rt.ScreenH, "seed", rt.Seed)

	if err := tui.Run(tui.Options{Config: cfg, Runtime: rt, Logger: logger}); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
