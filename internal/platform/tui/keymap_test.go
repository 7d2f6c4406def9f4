package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kkurian/typeattack/internal/core"
)

func TestMapKeyRunesToTypedText(t *testing.T) {
	km := NewKeyMapper()
	var frame core.InputFrame

	quit := km.MapKeyToFrame(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cat")}, &frame)
	if quit {
		t.Fatal("typed text reported as quit")
	}
	if string(frame.Runes) != "cat" {
		t.Errorf("frame runes = %q, expected cat", string(frame.Runes))
	}
}

func TestMapKeyActions(t *testing.T) {
	km := NewKeyMapper()

	cases := []struct {
		key    tea.KeyType
		action core.Action
	}{
		{tea.KeyCtrlR, core.ActionRestart},
		{tea.KeyCtrlP, core.ActionPause},
		{tea.KeyEsc, core.ActionBack},
		{tea.KeyEnter, core.ActionConfirm},
	}
	for _, tc := range cases {
		var frame core.InputFrame
		if quit := km.MapKeyToFrame(tea.KeyMsg{Type: tc.key}, &frame); quit {
			t.Errorf("%v reported as quit", tc.key)
		}
		if !frame.Has(tc.action) {
			t.Errorf("%v did not set %v", tc.key, tc.action)
		}
		if len(frame.Runes) != 0 {
			t.Errorf("%v leaked typed text", tc.key)
		}
	}
}

func TestMapKeyQuitAndBackspace(t *testing.T) {
	km := NewKeyMapper()
	var frame core.InputFrame

	if !km.MapKeyToFrame(tea.KeyMsg{Type: tea.KeyCtrlC}, &frame) {
		t.Error("ctrl+c not reported as quit")
	}

	frame = core.InputFrame{}
	km.MapKeyToFrame(tea.KeyMsg{Type: tea.KeyBackspace}, &frame)
	km.MapKeyToFrame(tea.KeyMsg{Type: tea.KeyBackspace}, &frame)
	if frame.Backspaces != 2 {
		t.Errorf("backspaces = %d, expected 2", frame.Backspaces)
	}
}

func TestRenderScreenGroupsRuns(t *testing.T) {
	s := core.NewScreen(4, 1)
	s.SetColor(0, 0, 'a', core.ColorRed)
	s.SetColor(1, 0, 'b', core.ColorRed)
	s.SetColor(2, 0, 'c', core.ColorGreen)
	s.SetColor(3, 0, 'd', core.ColorGreen)

	out := RenderScreen(s)
	if out == "" {
		t.Fatal("empty render")
	}
	// The raw characters survive styling in order.
	plain := []rune{}
	for _, r := range out {
		if r >= 'a' && r <= 'd' {
			plain = append(plain, r)
		}
	}
	if string(plain) != "abcd" {
		t.Errorf("rendered cells = %q, expected abcd", string(plain))
	}
}
