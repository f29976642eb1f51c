package tui

import (
	"fmt"

	"github.com/vovakirdan/tui-mole/internal/core"
	"github.com/vovakirdan/tui-mole/internal/mole"
)

const (
	title = "WHACK-A-MOLE"

	moleFill  = '█'
	moleTop   = '▄'
	moleEye   = '•'
	flashFill = '*'
)

// targetRect returns the on-screen rectangle of the mole.
func targetRect(st mole.State) core.Rect {
	size := st.Area.TargetSize
	return core.NewRect(st.Position.X, st.Position.Y, size, size)
}

// drawFrame renders the whole game screen for a state.
func drawFrame(dst *core.Screen, st mole.State, flash bool) {
	dst.Clear()
	drawHUD(dst, st)

	if st.Placed {
		drawMole(dst, targetRect(st), flash)
	}

	if st.Over {
		drawGameOver(dst, st.Score)
	}
}

// drawHUD draws the title, score and remaining time in the reserved header.
func drawHUD(dst *core.Screen, st mole.State) {
	dst.DrawTextCentered(0, title, core.ColorBrightYellow)

	timeColor := core.ColorBrightWhite
	if st.Remaining <= 10 {
		timeColor = core.ColorBrightRed
	}
	status := fmt.Sprintf("Score: %d   Time: %2ds", st.Score, st.Remaining)
	dst.DrawTextCentered(1, status, timeColor)

	if !st.Over && !st.Placed {
		dst.DrawTextCentered(dst.Height()/2, "Window too small for the mole", core.ColorGray)
	}
}

// drawMole draws the mole sprite filling r.
//
//	 ▄▄
//	█••█
//	████
func drawMole(dst *core.Screen, r core.Rect, flash bool) {
	if flash {
		dst.DrawRect(r, flashFill, core.ColorBrightYellow)
		return
	}

	dst.DrawRect(r, moleFill, core.ColorOrange)
	if r.W >= 3 {
		dst.DrawHLine(r.X, r.Y, r.W, ' ', core.ColorDefault)
		dst.DrawHLine(r.X+1, r.Y, r.W-2, moleTop, core.ColorOrange)
	}
	if r.H >= 2 && r.W >= 4 {
		dst.SetColored(r.X+1, r.Y+1, moleEye, core.ColorBrightWhite)
		dst.SetColored(r.Right()-2, r.Y+1, moleEye, core.ColorBrightWhite)
	}
}

// drawGameOver draws a message box with the final score in the middle of the screen.
func drawGameOver(dst *core.Screen, score int) {
	heading := "GAME OVER"
	result := fmt.Sprintf("Your score: %d", score)
	again := "Press R to play again"

	boxW := core.Max(len(result), len(again)) + 4
	boxH := 7
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorBrightRed)
	dst.DrawTextCentered(box.Y+1, heading, core.ColorBrightRed)
	dst.DrawTextCentered(box.Y+3, result, core.ColorBrightWhite)
	dst.DrawTextCentered(box.Y+5, again, core.ColorGray)
}
