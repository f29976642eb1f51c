// Package tui provides the Bubble Tea front end for the whack-a-mole game.
// It maps window sizes and mouse clicks onto the session runner and draws
// the published state.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-mole/internal/mole"
)

// stateMsg carries a state published by the runner with the given ID.
type stateMsg struct {
	runnerID string
	state    mole.State
}

// runnerDoneMsg reports that the runner with the given ID was torn down.
type runnerDoneMsg struct {
	runnerID string
}

// flashDoneMsg ends the hit highlight started with the same sequence number.
type flashDoneMsg struct {
	seq int
}

// waitForUpdate returns a command that blocks until the runner publishes a
// new state or is torn down.
func waitForUpdate(r *mole.Runner) tea.Cmd {
	return func() tea.Msg {
		select {
		case st := <-r.Updates():
			return stateMsg{runnerID: r.ID(), state: st}
		case <-r.Done():
			return runnerDoneMsg{runnerID: r.ID()}
		}
	}
}

// flashCmd ends the hit highlight after d.
func flashCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return flashDoneMsg{seq: seq}
	})
}
