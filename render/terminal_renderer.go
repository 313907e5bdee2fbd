// Package render draws the clock-face test onto a tcell screen.
package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cfart/export"
	"github.com/lixenwraith/cfart/game"
	"github.com/lixenwraith/cfart/geom"
	"github.com/lixenwraith/cfart/session"
)

// Glyphs
const (
	glyphInner    = '█'
	glyphOuter    = '▓'
	glyphCenter   = '░'
	glyphReticle  = '+'
	glyphBackdrop = ' '
)

const (
	playHint   = "Click the center to arm, then hit the target.  M: mute  Esc: quit"
	finishHint = "D: save detail CSV  P: save direction CSV  R: restart  Esc: quit"
)

// View is the read-only session surface the renderer needs
type View interface {
	Config() game.Config
	State() *game.State
	CurrentStats() session.Snapshot
	Notice(now float64) (string, bool)
	SubmissionStatus() string
}

// TerminalRenderer handles all terminal rendering
type TerminalRenderer struct {
	screen tcell.Screen
	vp     Viewport
}

// NewTerminalRenderer creates a renderer for a screen showing a play area of
// width x height
func NewTerminalRenderer(screen tcell.Screen, width, height float64) *TerminalRenderer {
	cols, rows := screen.Size()
	return &TerminalRenderer{
		screen: screen,
		vp:     NewViewport(cols, rows, width, height),
	}
}

// Resize refits the viewport after a terminal resize or config change
func (r *TerminalRenderer) Resize(cols, rows int, width, height float64) {
	r.vp = NewViewport(cols, rows, width, height)
}

// Viewport returns the current cell mapping
func (r *TerminalRenderer) Viewport() Viewport {
	return r.vp
}

// RenderFrame renders the entire frame
func (r *TerminalRenderer) RenderFrame(v View, now float64, muted bool) {
	defaultStyle := tcell.StyleDefault.Background(RgbBackground)
	r.screen.Fill(glyphBackdrop, defaultStyle)

	cfg := v.Config()
	st := v.State()

	r.drawMarkers(cfg, defaultStyle)
	r.drawCenter(cfg, st.Phase == game.PhaseWaitingAtCenter, defaultStyle)
	if st.Phase == game.PhaseTargetLive {
		r.drawTarget(st.CurrentTargetPos, cfg, defaultStyle)
	}

	r.drawHUD(st, cfg, now, defaultStyle)

	snap := v.CurrentStats()
	if st.TrialsDone > 0 {
		r.drawStatsTable(snap, defaultStyle)
	}
	if st.Phase == game.PhaseFinished {
		r.drawFinished(snap, cfg, v.SubmissionStatus(), defaultStyle)
	}

	r.drawFooter(v, now, st.Phase == game.PhaseFinished, muted, defaultStyle)

	r.screen.Show()
}

// drawMarkers draws faint clock labels at the twelve target positions
func (r *TerminalRenderer) drawMarkers(cfg game.Config, defaultStyle tcell.Style) {
	style := defaultStyle.Foreground(RgbMarker)
	for i := 0; i < geom.ClockPositions; i++ {
		col, row := r.vp.ToCell(cfg.TargetPosition(i))
		label := geom.ClockLabel(i)
		r.drawText(col-len(label)/2, row, label, style)
	}
}

// drawCenter draws the capture area while armed and the reticle always
func (r *TerminalRenderer) drawCenter(cfg game.Config, armed bool, defaultStyle tcell.Style) {
	center := cfg.Center()
	if armed {
		r.fillDisc(center, cfg.CenterRadius, glyphCenter, defaultStyle.Foreground(RgbCenterArmed))
	}
	col, row := r.vp.ToCell(center)
	r.screen.SetContent(col, row, glyphReticle, nil, defaultStyle.Foreground(RgbReticle))
}

// drawTarget draws the outer ring then the bullseye over it. The cell holding
// the exact target center is always drawn as bullseye.
func (r *TerminalRenderer) drawTarget(pos geom.Point, cfg game.Config, defaultStyle tcell.Style) {
	r.fillDisc(pos, cfg.OuterRadius, glyphOuter, defaultStyle.Foreground(RgbOuterRing))
	innerStyle := defaultStyle.Foreground(RgbBullseye)
	r.fillDisc(pos, cfg.InnerRadius, glyphInner, innerStyle)
	col, row := r.vp.ToCell(pos)
	r.screen.SetContent(col, row, glyphInner, nil, innerStyle)
}

// fillDisc sets every cell whose center lies within radius of p
func (r *TerminalRenderer) fillDisc(p geom.Point, radius float64, ch rune, style tcell.Style) {
	minCol, minRow := r.vp.ToCell(p.Add(-radius, -radius))
	maxCol, maxRow := r.vp.ToCell(p.Add(radius, radius))
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if geom.Distance(r.vp.ToWorld(col, row), p) <= radius {
				r.screen.SetContent(col, row, ch, nil, style)
			}
		}
	}
}

// drawHUD draws the trial counter and, while a target is live, the reaction timer
func (r *TerminalRenderer) drawHUD(st *game.State, cfg game.Config, now float64, defaultStyle tcell.Style) {
	r.drawText(1, 0, fmt.Sprintf("Trial %d / %d", st.DisplayTrial(cfg.Trials), cfg.Trials), defaultStyle.Foreground(RgbHUD))
	if st.Phase == game.PhaseTargetLive {
		r.drawText(1, 1, fmt.Sprintf("RT: %.0f ms", st.LiveReactionMs(now)), defaultStyle.Foreground(RgbLiveRT))
	}
}

// drawStatsTable draws the per-direction table in the top-right corner
func (r *TerminalRenderer) drawStatsTable(snap session.Snapshot, defaultStyle tcell.Style) {
	x := r.vp.Cols - len(export.DirectionTableHeader) - 1
	if x < 0 {
		x = 0
	}
	r.drawText(x, 0, export.DirectionTableTitle, defaultStyle.Foreground(RgbTableTitle))
	r.drawText(x, 1, export.DirectionTableHeader, defaultStyle.Foreground(RgbTableTitle))
	style := defaultStyle.Foreground(RgbTable)
	for i, line := range export.DirectionTable(snap.Directions) {
		r.drawText(x, 2+i, line, style)
	}
}

// drawFinished draws the centered end-of-session overlay
func (r *TerminalRenderer) drawFinished(snap session.Snapshot, cfg game.Config, status string, defaultStyle tcell.Style) {
	lines := []struct {
		text  string
		color tcell.Color
	}{
		{"Finished!", RgbOverlayTitle},
		{export.FinishedLine(snap.Overall, cfg.Trials), RgbOverlayText},
		{status, RgbOverlayText},
	}
	top := r.vp.Rows/2 - 4
	if top < 2 {
		top = 2
	}
	for i, l := range lines {
		r.drawCentered(top+i, l.text, defaultStyle.Foreground(l.color))
	}
}

// drawFooter draws the key hints, mute flag and any live notice on the bottom rows
func (r *TerminalRenderer) drawFooter(v View, now float64, finished, muted bool, defaultStyle tcell.Style) {
	bottom := r.vp.Rows - 1
	hint := playHint
	if finished {
		hint = finishHint
	}
	r.drawText(1, bottom, hint, defaultStyle.Foreground(RgbHint))
	if muted {
		const label = "[muted]"
		r.drawText(r.vp.Cols-len(label)-1, bottom, label, defaultStyle.Foreground(RgbMuted))
	}
	if msg, ok := v.Notice(now); ok && bottom > 0 {
		r.drawText(1, bottom-1, msg, defaultStyle.Foreground(RgbNotice))
	}
}

func (r *TerminalRenderer) drawCentered(row int, text string, style tcell.Style) {
	r.drawText((r.vp.Cols-len([]rune(text)))/2, row, text, style)
}

// drawText writes text from (x, y), clipping at the screen edges
func (r *TerminalRenderer) drawText(x, y int, text string, style tcell.Style) {
	if y < 0 || y >= r.vp.Rows {
		return
	}
	for _, ch := range text {
		if x >= r.vp.Cols {
			return
		}
		if x >= 0 {
			r.screen.SetContent(x, y, ch, nil, style)
		}
		x++
	}
}
