package core

// Action represents a semantic game action, abstracted from physical key presses.
// Typed text travels separately in InputFrame.Runes because the typing engine
// needs the raw characters, not an intent.
type Action int

const (
	ActionNone    Action = iota
	ActionConfirm        // Enter - confirm selection / submit initials
	ActionBack           // Escape - leave a modal / back to menu
	ActionRestart        // Ctrl+R - restart after a terminal state
	ActionQuit           // Ctrl+C - exit game/session
	ActionPause          // Ctrl+P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame carries everything the player did between two simulation ticks:
// semantic actions plus typed printable characters and backspaces, in
// dispatch order.
type InputFrame struct {
	Actions    map[Action]bool
	Runes      []rune // Printable characters typed this frame, oldest first
	Backspaces int    // Number of backspace presses this frame
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has reports whether an action was triggered this frame.
func (f *InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Type appends a printable character to the frame.
func (f *InputFrame) Type(r rune) {
	f.Runes = append(f.Runes, r)
}

// Backspace records a backspace press.
func (f *InputFrame) Backspace() {
	f.Backspaces++
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Runes = f.Runes[:0]
	f.Backspaces = 0
}
