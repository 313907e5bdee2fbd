package main

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/cfart/clock"
	"github.com/lixenwraith/cfart/game"
	"github.com/lixenwraith/cfart/render"
	"github.com/lixenwraith/cfart/session"
)

type fakePlayer struct {
	events []session.Event
	muted  bool
}

func (p *fakePlayer) PlayEvent(ev session.Event) { p.events = append(p.events, ev) }
func (p *fakePlayer) ToggleMute() bool           { p.muted = !p.muted; return p.muted }
func (p *fakePlayer) IsMuted() bool              { return p.muted }

type recordingSink struct {
	saved     []string
	submitted [][]byte
}

func (s *recordingSink) Save(name string, _ []byte) error {
	s.saved = append(s.saved, name)
	return nil
}

func (s *recordingSink) Submit(payload []byte) bool {
	s.submitted = append(s.submitted, payload)
	return true
}

func newTestGame(trials int) (*Game, *clock.MockTimeProvider, *fakePlayer, *recordingSink) {
	cfg := game.DefaultConfig()
	cfg.Trials = trials
	out := &recordingSink{}
	sess := session.New(session.Options{
		Game:        cfg,
		Source:      game.NewSequenceSource(0, 6),
		Sink:        out,
		DetailFile:  "detail.csv",
		SummaryFile: "dirs.csv",
	})
	mock := clock.NewMockTimeProvider(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	player := &fakePlayer{}
	g := &Game{
		sess:   sess,
		player: player,
		watch:  clock.NewStopwatch(mock),
		log:    zap.NewNop(),
	}
	return g, mock, player, out
}

func TestStepPlaysSession(t *testing.T) {
	g, mock, player, out := newTestGame(2)
	center := g.sess.Config().Center()

	// Idle frame: no click, nothing recorded
	if err := g.step(frameInput{cursor: center}); err != nil {
		t.Fatal(err)
	}

	g.step(frameInput{cursor: center, clicked: true})
	target := g.sess.State().CurrentTargetPos
	mock.Advance(400 * time.Millisecond)
	g.step(frameInput{cursor: target.Add(20, 0), clicked: true}) // outer ring

	g.step(frameInput{cursor: center, clicked: true})
	target = g.sess.State().CurrentTargetPos
	mock.Advance(200 * time.Millisecond)
	g.step(frameInput{cursor: target, clicked: true})

	st := g.sess.State()
	if st.Phase != game.PhaseFinished {
		t.Fatalf("phase = %v, want Finished", st.Phase)
	}
	if st.Trials[0].TargetIndex != 0 || st.Trials[1].TargetIndex != 6 {
		t.Errorf("indices = %d, %d, want 0, 6", st.Trials[0].TargetIndex, st.Trials[1].TargetIndex)
	}
	if st.Trials[0].Score != 5 || st.Trials[1].Score != 10 {
		t.Errorf("scores = %d, %d, want 5, 10", st.Trials[0].Score, st.Trials[1].Score)
	}
	if len(out.submitted) != 1 {
		t.Errorf("submissions = %d, want 1", len(out.submitted))
	}
	if len(player.events) != 5 {
		t.Errorf("played %d events, want 5", len(player.events))
	}
	if !player.events[len(player.events)-1].Finished {
		t.Error("last event should be Finished")
	}

	// Further frames never resubmit
	g.step(frameInput{cursor: center, clicked: true})
	if len(out.submitted) != 1 {
		t.Errorf("submissions after extra frame = %d, want 1", len(out.submitted))
	}
}

func TestStepActions(t *testing.T) {
	g, mock, player, out := newTestGame(1)
	center := g.sess.Config().Center()

	g.step(frameInput{actions: []action{actExportDetail}})
	if len(out.saved) != 0 {
		t.Errorf("saved before finish: %v", out.saved)
	}

	g.step(frameInput{cursor: center, clicked: true})
	mock.Advance(300 * time.Millisecond)
	g.step(frameInput{cursor: g.sess.State().CurrentTargetPos, clicked: true})

	g.step(frameInput{actions: []action{actExportDetail, actExportSummary, actMute}})
	if len(out.saved) != 2 || out.saved[0] != "detail.csv" || out.saved[1] != "dirs.csv" {
		t.Errorf("saved = %v", out.saved)
	}
	if !player.muted {
		t.Error("mute action should toggle mute")
	}

	g.step(frameInput{actions: []action{actReset}})
	if st := g.sess.State(); st.Phase != game.PhaseWaitingAtCenter || st.TrialsDone != 0 {
		t.Errorf("after reset: phase %v, trials %d", st.Phase, st.TrialsDone)
	}

	if err := g.step(frameInput{actions: []action{actQuit}}); !errors.Is(err, ebiten.Termination) {
		t.Errorf("quit = %v, want ebiten.Termination", err)
	}
}

func TestLayoutFollowsPlayArea(t *testing.T) {
	g, _, _, _ := newTestGame(1)
	w, h := g.Layout(1920, 1080)
	if w != 1280 || h != 720 {
		t.Errorf("Layout = %dx%d, want 1280x720", w, h)
	}

	cfg := g.sess.Config()
	cfg.Width, cfg.Height = 800, 600
	g.sess.UpdateConfig(cfg)
	g.step(frameInput{cursor: g.sess.Config().Center(), clicked: true})
	// Pending config applies only at reset after Finished
	if w, h := g.Layout(0, 0); w != 1280 || h != 720 {
		t.Errorf("Layout mid-session = %dx%d, want 1280x720", w, h)
	}
}

func TestRGBA(t *testing.T) {
	got := rgba(render.RgbBullseye)
	want := color.RGBA{R: 255, G: 255, B: 0, A: 255}
	if got != want {
		t.Errorf("rgba(bullseye) = %v, want %v", got, want)
	}
}

func TestTextWidth(t *testing.T) {
	if w := textWidth("Finished!"); w != 9*glyphW {
		t.Errorf("textWidth = %d, want %d", w, 9*glyphW)
	}
	if w := textWidth("Bull%"); w != 5*glyphW {
		t.Errorf("textWidth = %d, want %d", w, 5*glyphW)
	}
}
