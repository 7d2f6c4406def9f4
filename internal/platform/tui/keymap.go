package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kkurian/typeattack/internal/core"
)

// KeyMapper translates Bubble Tea key messages into the engine's input
// frame. Printable characters are typed text, not bindings: every letter
// belongs to the gameplay, so control chords carry the semantic actions.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKeyToFrame updates the input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	switch msg.Type {
	case tea.KeyCtrlC:
		frame.Set(core.ActionQuit)
		return true
	case tea.KeyCtrlR:
		frame.Set(core.ActionRestart)
		return false
	case tea.KeyCtrlP:
		frame.Set(core.ActionPause)
		return false
	case tea.KeyEsc:
		frame.Set(core.ActionBack)
		return false
	case tea.KeyEnter:
		frame.Set(core.ActionConfirm)
		return false
	case tea.KeyBackspace:
		frame.Backspace()
		return false
	case tea.KeySpace:
		frame.Type(' ')
		return false
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			frame.Type(r)
		}
		return false
	}
	return false
}
