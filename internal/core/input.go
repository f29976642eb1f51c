package core

// Action represents a semantic game action, abstracted from physical keys
// and mouse buttons.
type Action int

const (
	ActionNone    Action = iota
	ActionTap            // Left click on the mole
	ActionRestart        // R key - new session after game over
	ActionHelp           // ? key - toggle full help
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionTap:
		return "Tap"
	case ActionRestart:
		return "Restart"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
