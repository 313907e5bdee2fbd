package main

import (
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/cfart/clock"
	"github.com/lixenwraith/cfart/game"
	"github.com/lixenwraith/cfart/geom"
	"github.com/lixenwraith/cfart/render"
	"github.com/lixenwraith/cfart/session"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

// cuePlayer is the audio surface the loop drives
type cuePlayer interface {
	PlayEvent(ev session.Event)
	ToggleMute() bool
	IsMuted() bool
}

// app is the terminal frontend: it turns tcell events into session calls and
// renders one frame per tick
type app struct {
	screen   tcell.Screen
	renderer *render.TerminalRenderer
	sess     *session.Session
	player   cuePlayer
	watch    *clock.Stopwatch
	log      *zap.Logger

	cursor     geom.Point
	buttonDown bool
}

func (a *app) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	eventChan := a.pollEvents(done)

	a.render()
	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !a.handleEvent(ev) {
				return
			}

		case <-ticker.C:
			a.frame(false)
			a.render()
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done
// closes. The returned channel closes when polling stops.
func (a *app) pollEvents(done <-chan struct{}) <-chan tcell.Event {
	eventChan := make(chan tcell.Event, 100)
	go func() {
		defer close(eventChan)
		for {
			select {
			case <-done:
				return
			default:
			}
			ev := a.screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()
	return eventChan
}

// handleEvent applies one input event. Returns false to quit.
func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)

	case *tcell.EventMouse:
		col, row := ev.Position()
		a.cursor = a.resolve(col, row)

		pressed := ev.Buttons()&tcell.Button1 != 0
		if pressed && !a.buttonDown {
			// Press edge is timestamped on arrival, not at the next tick
			a.frame(true)
		}
		a.buttonDown = pressed

	case *tcell.EventResize:
		a.screen.Sync()
		a.refit()
	}
	return true
}

func (a *app) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case 'd', 'D':
		a.logExport(a.sess.OnExportDetailRequested())
	case 'p', 'P':
		a.logExport(a.sess.OnExportSummaryRequested())
	case 'r', 'R':
		if a.sess.OnResetRequested() {
			a.refit()
		}
	case 'm', 'M':
		a.player.ToggleMute()
	}
	return true
}

func (a *app) logExport(err error) {
	if err != nil && !errors.Is(err, session.ErrNotFinished) {
		// The session already posted a notice; keep a record too
		a.log.Debug("export request failed", zap.Error(err))
	}
}

// frame advances the session at the current stopwatch time
func (a *app) frame(clicked bool) {
	ev := a.sess.OnFrame(a.watch.Seconds(), a.cursor, clicked)
	a.player.PlayEvent(ev)
}

func (a *app) render() {
	a.renderer.RenderFrame(a.sess, a.watch.Seconds(), a.player.IsMuted())
}

// resolve maps a cell to the play area, snapping to the center or live target
// when the cell contains it
func (a *app) resolve(col, row int) geom.Point {
	cfg := a.sess.Config()
	anchors := []geom.Point{cfg.Center()}
	if st := a.sess.State(); st.Phase == game.PhaseTargetLive {
		anchors = append(anchors, st.CurrentTargetPos)
	}
	return a.renderer.Viewport().Resolve(col, row, anchors...)
}

// refit resizes the viewport to the screen and the session's play area
func (a *app) refit() {
	cols, rows := a.screen.Size()
	cfg := a.sess.Config()
	a.renderer.Resize(cols, rows, cfg.Width, cfg.Height)
}
