package main

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/lixenwraith/cfart/clock"
	"github.com/lixenwraith/cfart/export"
	"github.com/lixenwraith/cfart/game"
	"github.com/lixenwraith/cfart/geom"
	"github.com/lixenwraith/cfart/render"
	"github.com/lixenwraith/cfart/session"
)

// ebitenutil debug font cell
const (
	glyphW = 6
	glyphH = 16
)

const (
	playHint   = "Click the center to arm, then hit the target.  M: mute  Esc: quit"
	finishHint = "D: save detail CSV  P: save direction CSV  R: restart  Esc: quit"
)

// action is a key command decoded from one frame of input
type action int

const (
	actExportDetail action = iota
	actExportSummary
	actReset
	actMute
	actQuit
)

var keyActions = []struct {
	key ebiten.Key
	act action
}{
	{ebiten.KeyD, actExportDetail},
	{ebiten.KeyP, actExportSummary},
	{ebiten.KeyR, actReset},
	{ebiten.KeyM, actMute},
	{ebiten.KeyEscape, actQuit},
}

// frameInput is everything Update reads from ebiten in one tick
type frameInput struct {
	cursor  geom.Point
	clicked bool
	actions []action
}

func pollInput() frameInput {
	x, y := ebiten.CursorPosition()
	in := frameInput{
		cursor:  geom.Point{X: float64(x), Y: float64(y)},
		clicked: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
	}
	for _, k := range keyActions {
		if inpututil.IsKeyJustPressed(k.key) {
			in.actions = append(in.actions, k.act)
		}
	}
	return in
}

// cuePlayer is the audio surface the game drives
type cuePlayer interface {
	PlayEvent(ev session.Event)
	ToggleMute() bool
	IsMuted() bool
}

// Game implements ebiten.Game over a session
type Game struct {
	sess   *session.Session
	player cuePlayer
	watch  *clock.Stopwatch
	log    *zap.Logger
}

// Update advances the session one tick
func (g *Game) Update() error {
	return g.step(pollInput())
}

func (g *Game) step(in frameInput) error {
	for _, act := range in.actions {
		switch act {
		case actExportDetail:
			g.logExport(g.sess.OnExportDetailRequested())
		case actExportSummary:
			g.logExport(g.sess.OnExportSummaryRequested())
		case actReset:
			g.sess.OnResetRequested()
		case actMute:
			g.player.ToggleMute()
		case actQuit:
			return ebiten.Termination
		}
	}

	ev := g.sess.OnFrame(g.watch.Seconds(), in.cursor, in.clicked)
	g.player.PlayEvent(ev)
	return nil
}

func (g *Game) logExport(err error) {
	if err != nil && !errors.Is(err, session.ErrNotFinished) {
		g.log.Debug("export request failed", zap.Error(err))
	}
}

// Layout pins the logical screen to the play area so cursor positions are
// play-area coordinates at any window size
func (g *Game) Layout(_, _ int) (int, int) {
	cfg := g.sess.Config()
	return int(cfg.Width), int(cfg.Height)
}

// Draw renders the current frame
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(rgba(render.RgbBackground))

	cfg := g.sess.Config()
	st := g.sess.State()
	now := g.watch.Seconds()

	for i := 0; i < geom.ClockPositions; i++ {
		p := cfg.TargetPosition(i)
		label := geom.ClockLabel(i)
		printCentered(screen, label, p.X, p.Y-glyphH/2)
	}

	center := cfg.Center()
	if st.Phase == game.PhaseWaitingAtCenter {
		fillCircle(screen, center, cfg.CenterRadius, render.RgbCenterArmed)
	}
	strokeCircle(screen, center, cfg.CenterRadius, render.RgbReticle)

	if st.Phase == game.PhaseTargetLive {
		fillCircle(screen, st.CurrentTargetPos, cfg.OuterRadius, render.RgbOuterRing)
		fillCircle(screen, st.CurrentTargetPos, cfg.InnerRadius, render.RgbBullseye)
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Trial %d / %d", st.DisplayTrial(cfg.Trials), cfg.Trials), 12, 10)
	if st.Phase == game.PhaseTargetLive {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("RT: %.0f ms", st.LiveReactionMs(now)), 12, 10+glyphH)
	}

	snap := g.sess.CurrentStats()
	if st.TrialsDone > 0 {
		x := int(cfg.Width) - len(export.DirectionTableHeader)*glyphW - 12
		lines := append([]string{export.DirectionTableTitle, export.DirectionTableHeader}, export.DirectionTable(snap.Directions)...)
		for i, line := range lines {
			ebitenutil.DebugPrintAt(screen, line, x, 10+i*glyphH)
		}
	}

	if st.Phase == game.PhaseFinished {
		y := cfg.Height/2 - 3*glyphH
		for i, line := range []string{"Finished!", export.FinishedLine(snap.Overall, cfg.Trials), g.sess.SubmissionStatus()} {
			printCentered(screen, line, cfg.Width/2, y+float64(i*2*glyphH))
		}
	}

	hint := playHint
	if st.Phase == game.PhaseFinished {
		hint = finishHint
	}
	bottom := int(cfg.Height) - glyphH - 8
	ebitenutil.DebugPrintAt(screen, hint, 12, bottom)
	if g.player.IsMuted() {
		const label = "[muted]"
		ebitenutil.DebugPrintAt(screen, label, int(cfg.Width)-len(label)*glyphW-12, bottom)
	}
	if msg, ok := g.sess.Notice(now); ok {
		ebitenutil.DebugPrintAt(screen, msg, 12, bottom-glyphH-4)
	}
}

func fillCircle(dst *ebiten.Image, p geom.Point, r float64, c tcell.Color) {
	vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), float32(r), rgba(c), true)
}

func strokeCircle(dst *ebiten.Image, p geom.Point, r float64, c tcell.Color) {
	vector.StrokeCircle(dst, float32(p.X), float32(p.Y), float32(r), 2, rgba(c), true)
}

// printCentered draws debug text horizontally centered on x
func printCentered(dst *ebiten.Image, text string, x, y float64) {
	ebitenutil.DebugPrintAt(dst, text, int(x)-textWidth(text)/2, int(y))
}

func textWidth(text string) int {
	return len([]rune(text)) * glyphW
}

// rgba converts a palette entry to an opaque image color
func rgba(c tcell.Color) color.RGBA {
	r, g, b := c.RGB()
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}
