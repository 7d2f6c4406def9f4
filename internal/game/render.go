package game

import (
	"fmt"

	"github.com/kkurian/typeattack/internal/core"
)

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	g.renderHUD(dst)

	if g.tooSmall {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	// Kill edge
	edgeX := g.killEdgeX()
	for lane := 0; lane < g.cfg.Field.Lanes; lane++ {
		dst.SetColor(edgeX, g.laneY(lane), '║', core.ColorBrightRed)
	}

	g.renderWords(dst)

	for _, p := range g.popups {
		dst.DrawTextColor(p.x, p.y, p.text, core.ColorBrightYellow)
	}

	switch g.phase {
	case phaseTransition:
		spec := StageAt(g.stageIdx)
		g.renderOverlay(dst,
			fmt.Sprintf("Stage %d", g.stageIdx+1),
			spec.Description)
	case phaseGameOver:
		sub := "Ctrl+R to restart"
		if g.worthy {
			sub = "Leaderboard-worthy run!"
		}
		g.renderOverlay(dst, fmt.Sprintf("Game Over — %d", g.score), sub)
	case phaseLevelComplete:
		g.renderOverlay(dst, "Level Complete!", fmt.Sprintf("Final Score: %d", g.score))
	default:
		if g.paused {
			g.renderOverlay(dst, "Paused", "Ctrl+P to continue")
		}
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" TYPE ATTACK — Score: %d  Stage: %d/%d  Misses: %d/%d  WPM: %.0f",
		g.score, g.stageIdx+1, StageCount(), g.misses, g.cfg.Goal.MissLimit, g.wpm.WPM(g.tick))
	dst.DrawText(0, 0, hud)

	if g.combo.HotActive {
		tag := fmt.Sprintf(" HOT x%d (+%d) ", g.combo.Multiplier, g.combo.HotBonus)
		dst.DrawTextColor(dst.Width()-len(tag)-1, 0, tag, core.ColorOrange)
	} else if g.combo.Streak > 0 {
		tag := fmt.Sprintf(" streak %d ", g.combo.Streak)
		dst.DrawTextColor(dst.Width()-len(tag)-1, 0, tag, core.ColorGray)
	}

	for x := 0; x < dst.Width(); x++ {
		dst.Set(x, 1, '─')
	}
}

// renderWords draws every in-flight word: typed prefix in green, the active
// word's next expected character highlighted, completed words fading out.
func (g *Game) renderWords(dst *core.Screen) {
	for _, w := range g.words {
		x := int(w.X)
		y := g.laneY(w.Lane)

		for i, r := range w.Text {
			var color core.Color
			switch {
			case w.FullyTyped:
				color = core.ColorGray
			case i < w.TypedIndex:
				color = core.ColorBrightGreen
			case w.Active && i == w.TypedIndex:
				color = core.ColorBrightYellow
			case w.Active:
				color = core.ColorBrightWhite
			default:
				color = core.ColorWhite
			}
			dst.SetColor(x+i, y, r, color)
		}
	}
}

// renderOverlay draws a centered overlay message.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	w := dst.Width()
	h := dst.Height()

	maxLen := core.Max(len(line1), len(line2))
	box := core.Rect{
		X: (w - maxLen - 4) / 2,
		Y: (h - 5) / 2,
		W: maxLen + 4,
		H: 5,
	}
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}
