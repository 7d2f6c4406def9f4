package core

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestRectEdges(t *testing.T) {
	r := Rect{X: 5, Y: 10, W: 20, H: 15}

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestScreenSetAndResize(t *testing.T) {
	s := NewScreen(10, 4)
	s.SetColor(2, 1, 'x', ColorBrightGreen)

	if got := s.Get(2, 1); got != 'x' {
		t.Errorf("Get(2,1) = %q, expected 'x'", got)
	}
	if got := s.GetCell(2, 1).Color; got != ColorBrightGreen {
		t.Errorf("GetCell(2,1).Color = %d, expected ColorBrightGreen", got)
	}

	// Out-of-bounds writes are dropped, reads return a blank cell
	s.Set(-1, 0, 'y')
	s.Set(10, 0, 'y')
	if got := s.Get(99, 99); got != ' ' {
		t.Errorf("out-of-bounds Get = %q, expected space", got)
	}

	// Content survives a grow, is clipped on shrink
	s.Resize(20, 8)
	if got := s.Get(2, 1); got != 'x' {
		t.Errorf("after grow Get(2,1) = %q, expected 'x'", got)
	}
	s.Resize(2, 1)
	if got := s.Get(2, 1); got != ' ' {
		t.Errorf("after shrink Get(2,1) = %q, expected space", got)
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 2)
	s.DrawText(7, 0, "hello") // clipped at right edge

	if got := s.Row(0); got != "       hel" {
		t.Errorf("Row(0) = %q, expected %q", got, "       hel")
	}
}

func TestInputFrameClear(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionPause)
	f.Type('a')
	f.Type('b')
	f.Backspace()

	if !f.Has(ActionPause) {
		t.Error("expected ActionPause to be set")
	}
	if len(f.Runes) != 2 || f.Backspaces != 1 {
		t.Errorf("Runes=%v Backspaces=%d, expected 2 runes and 1 backspace", f.Runes, f.Backspaces)
	}

	f.Clear()
	if f.Has(ActionPause) || len(f.Runes) != 0 || f.Backspaces != 0 {
		t.Error("Clear() should reset actions, runes, and backspaces")
	}
}
