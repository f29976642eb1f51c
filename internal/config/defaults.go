package config

import (
	_ "embed"
)

//go:embed defaults/mole.yaml
var defaultMoleYAML []byte

// DefaultMoleConfig returns the default whack-a-mole configuration.
func DefaultMoleConfig() MoleConfig {
	return MoleConfig{
		Session: SessionConfig{
			DurationSeconds: 60,
			ClockIntervalMS: 1000,
			MoveIntervalMS:  700,
		},
		Layout: LayoutConfig{
			TargetSize: 150,
			TopInset:   200,
			YMinOffset: 100,
		},
		Terminal: TerminalConfig{
			LayoutConfig: LayoutConfig{
				TargetSize: 4,
				TopInset:   4,
				YMinOffset: 2,
			},
			HitFlashMS: 250,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultMoleYAML
}
