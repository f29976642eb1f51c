package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-mole/internal/config"
	"github.com/vovakirdan/tui-mole/internal/core"
	"github.com/vovakirdan/tui-mole/internal/mole"
)

// Options configures the game screen.
type Options struct {
	Config  config.MoleConfig
	Runtime core.RuntimeConfig
	Logger  *log.Logger
	Clock   mole.Clock // nil uses the system clock
}

// Model is the Bubble Tea model for the game screen. It owns one session
// runner at a time and renders the states it publishes.
type Model struct {
	opts     Options
	runner   *mole.Runner
	state    mole.State
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	width    int
	height   int
	flash    bool
	flashSeq int
	quitting bool
}

// NewModel creates the game screen with a fresh, not yet started session.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Runtime.ScreenW <= 0 || opts.Runtime.ScreenH <= 0 {
		def := core.DefaultConfig()
		opts.Runtime.ScreenW, opts.Runtime.ScreenH = def.ScreenW, def.ScreenH
	}

	m := Model{
		opts:   opts,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		width:  opts.Runtime.ScreenW,
		height: opts.Runtime.ScreenH,
	}
	m.screen = core.NewScreen(m.width, m.playHeight())
	m.runner = m.newRunner()
	m.state = m.runner.Snapshot()
	return m
}

// newRunner builds a session runner from the terminal layout.
func (m Model) newRunner() *mole.Runner {
	opts := []mole.RunnerOption{
		mole.WithLogger(m.opts.Logger),
		mole.WithSeed(m.opts.Runtime.Seed),
	}
	if m.opts.Clock != nil {
		opts = append(opts, mole.WithClock(m.opts.Clock))
	}
	cfg := m.opts.Config.RunnerConfig(m.opts.Config.Terminal.LayoutConfig)
	return mole.NewRunner(cfg, opts...)
}

// playHeight is the number of rows available to the game; the last row holds the help footer.
func (m Model) playHeight() int {
	return core.Max(m.height-1, 0)
}

// Init starts the session and reports the initial play area.
func (m Model) Init() tea.Cmd {
	m.startRunner()
	return waitForUpdate(m.runner)
}

func (m Model) startRunner() {
	m.runner.ReportArea(m.width, m.playHeight(), m.opts.Config.Terminal.TargetSize)
	m.runner.Start(context.Background())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case stateMsg:
		if msg.runnerID != m.runner.ID() {
			return m, nil // Stale runner from before a restart
		}
		m.state = msg.state
		m.keys.Restart.SetEnabled(m.state.Over)
		return m, waitForUpdate(m.runner)

	case runnerDoneMsg:
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = false
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.MapKey(msg) {
	case core.ActionQuit:
		m.Teardown()
		m.quitting = true
		return m, tea.Quit

	case core.ActionRestart:
		if !m.state.Over {
			return m, nil
		}
		return m.restart()

	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// handleMouse turns a click on the mole into a tap. Clicks are ignored once
// the session is over, independently of the core's own guard.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state.Over || !m.state.Placed {
		return m, nil
	}
	if MapMouse(msg, targetRect(m.state)) != core.ActionTap {
		return m, nil
	}

	m.runner.Tap()

	flashFor := m.opts.Config.Terminal.HitFlash()
	if flashFor <= 0 {
		return m, nil
	}
	m.flash = true
	m.flashSeq++
	return m, flashCmd(flashFor, m.flashSeq)
}

// handleResize reports the new play area to the session.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.screen.Resize(m.width, m.playHeight())

	m.runner.ReportArea(m.width, m.playHeight(), m.opts.Config.Terminal.TargetSize)
	return m, nil
}

// restart tears down the finished session and starts a new one on the same area.
func (m Model) restart() (tea.Model, tea.Cmd) {
	m.runner.Teardown()

	m.runner = m.newRunner()
	m.startRunner()
	m.state = m.runner.Snapshot()
	m.flash = false
	m.keys.Restart.SetEnabled(false)

	m.opts.Logger.Info("session restarted", "session", m.runner.ID())
	return m, waitForUpdate(m.runner)
}

// Teardown stops the current session's clock and mover.
func (m Model) Teardown() {
	m.runner.Teardown()
}

// State returns the last session state received by the model.
func (m Model) State() mole.State {
	return m.state
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	drawFrame(m.screen, m.state, m.flash)
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// Run starts the Bubble Tea program and tears the session down when it exits.
func Run(opts Options) error {
	model := NewModel(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Clicks are the taps
	)

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Teardown()
	} else {
		model.Teardown()
	}
	return err
}
