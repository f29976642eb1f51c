// Package config provides YAML-based configuration loading for the
// whack-a-mole game.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-mole/internal/mole"
)

// Validation errors returned by MoleConfig.Validate.
var (
	ErrInvalidSession = errors.New("config: invalid session timing")
	ErrInvalidLayout  = errors.New("config: invalid layout")
)

// MoleConfig contains all configuration for the whack-a-mole game.
type MoleConfig struct {
	Session  SessionConfig  `yaml:"session"`
	Layout   LayoutConfig   `yaml:"layout"`
	Terminal TerminalConfig `yaml:"terminal"`
}

// SessionConfig defines the session clock and target mover timing.
type SessionConfig struct {
	DurationSeconds int `yaml:"duration_seconds"`
	ClockIntervalMS int `yaml:"clock_interval_ms"`
	MoveIntervalMS  int `yaml:"move_interval_ms"`
}

// LayoutConfig defines the play-area geometry in the presentation layer's units.
type LayoutConfig struct {
	TargetSize int `yaml:"target_size"`
	TopInset   int `yaml:"top_inset"`
	YMinOffset int `yaml:"y_min_offset"`
}

// TerminalConfig is the cell-based layout used by the terminal UI.
type TerminalConfig struct {
	LayoutConfig `yaml:",inline"`
	HitFlashMS   int `yaml:"hit_flash_ms"`
}

// ClockInterval returns the session clock period.
func (s SessionConfig) ClockInterval() time.Duration {
	return time.Duration(s.ClockIntervalMS) * time.Millisecond
}

// MoveInterval returns the target mover period.
func (s SessionConfig) MoveInterval() time.Duration {
	return time.Duration(s.MoveIntervalMS) * time.Millisecond
}

// HitFlash returns how long a successful hit stays highlighted.
func (t TerminalConfig) HitFlash() time.Duration {
	return time.Duration(t.HitFlashMS) * time.Millisecond
}

// ToLayout converts the config section to a mole.Layout.
func (l LayoutConfig) ToLayout() mole.Layout {
	return mole.Layout{
		TargetSize: l.TargetSize,
		TopInset:   l.TopInset,
		YMinOffset: l.YMinOffset,
	}
}

// RunnerConfig builds the session runner configuration for the given layout.
func (c MoleConfig) RunnerConfig(layout LayoutConfig) mole.RunnerConfig {
	return mole.RunnerConfig{
		Layout:        layout.ToLayout(),
		Duration:      c.Session.DurationSeconds,
		ClockInterval: c.Session.ClockInterval(),
		MoveInterval:  c.Session.MoveInterval(),
	}
}

// Validate checks that every timing and size is usable.
func (c MoleConfig) Validate() error {
	s := c.Session
	if s.DurationSeconds <= 0 {
		return fmt.Errorf("%w: duration_seconds must be positive, got %d", ErrInvalidSession, s.DurationSeconds)
	}
	if s.ClockIntervalMS <= 0 {
		return fmt.Errorf("%w: clock_interval_ms must be positive, got %d", ErrInvalidSession, s.ClockIntervalMS)
	}
	if s.MoveIntervalMS <= 0 {
		return fmt.Errorf("%w: move_interval_ms must be positive, got %d", ErrInvalidSession, s.MoveIntervalMS)
	}

	if err := c.Layout.validate("layout"); err != nil {
		return err
	}
	if err := c.Terminal.validate("terminal"); err != nil {
		return err
	}
	if c.Terminal.HitFlashMS < 0 {
		return fmt.Errorf("%w: terminal.hit_flash_ms must not be negative, got %d", ErrInvalidLayout, c.Terminal.HitFlashMS)
	}
	return nil
}

func (l LayoutConfig) validate(section string) error {
	if l.TargetSize <= 0 {
		return fmt.Errorf("%w: %s.target_size must be positive, got %d", ErrInvalidLayout, section, l.TargetSize)
	}
	if l.TopInset < 0 {
		return fmt.Errorf("%w: %s.top_inset must not be negative, got %d", ErrInvalidLayout, section, l.TopInset)
	}
	if l.YMinOffset < 0 {
		return fmt.Errorf("%w: %s.y_min_offset must not be negative, got %d", ErrInvalidLayout, section, l.YMinOffset)
	}
	return nil
}
