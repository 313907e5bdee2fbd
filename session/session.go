// Package session glues the trial state machine to exports and submission.
// Frontends call OnFrame once per frame and the On*Requested methods on key
// presses; everything runs on the frame loop except UpdateConfig.
package session

import (
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/cfart/export"
	"github.com/lixenwraith/cfart/game"
	"github.com/lixenwraith/cfart/geom"
	"github.com/lixenwraith/cfart/stats"
)

// ErrNotFinished is returned by export requests made before the last trial
var ErrNotFinished = errors.New("session: not finished")

// NoticeTTL is how long, in seconds, a transient notice stays visible
const NoticeTTL = 3.0

// Sink stores reports and optionally submits the summary elsewhere
type Sink interface {
	Save(name string, data []byte) error
	// Submit hands off payload and reports whether a submission was dispatched
	Submit(payload []byte) bool
}

// Options configure a Session
type Options struct {
	Game        game.Config
	Source      game.IndexSource // nil uses a time-seeded source
	Sink        Sink
	Logger      *zap.Logger
	DetailFile  string
	SummaryFile string
}

// Event reports what a frame did
type Event struct {
	Outcome  game.Outcome
	Finished bool // true only on the frame that recorded the last trial
}

// Snapshot is the derived statistics for the current trials
type Snapshot struct {
	Overall    stats.Overall
	Directions stats.Directions
}

// Session owns one machine and its state for the lifetime of the program
type Session struct {
	machine     *game.Machine
	sink        Sink
	log         *zap.Logger
	detailFile  string
	summaryFile string

	// Written by UpdateConfig from the watcher goroutine, consumed on reset
	pending atomic.Pointer[game.Config]

	submitted bool
	lastNow   float64
	notice    string
	noticeAt  float64
}

// New creates a session waiting at center
func New(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		machine:     game.NewMachine(opts.Game, opts.Source),
		sink:        opts.Sink,
		log:         log,
		detailFile:  opts.DetailFile,
		summaryFile: opts.SummaryFile,
	}
}

// OnFrame advances the session by one frame. clicked is the press edge of the
// primary button, cursor is in play-area coordinates and now is seconds
// since start.
func (s *Session) OnFrame(now float64, cursor geom.Point, clicked bool) Event {
	s.lastNow = now

	var ev Event
	if clicked {
		ev.Outcome = s.machine.Click(now, cursor)
		s.logOutcome(ev.Outcome)
	}

	if s.machine.Phase() == game.PhaseFinished && s.machine.MarkPosted() {
		ev.Finished = true
		s.dispatchSummary()
	}
	return ev
}

func (s *Session) logOutcome(o game.Outcome) {
	st := s.machine.State()
	switch {
	case o == game.OutcomeSpawned:
		s.log.Debug("target spawned",
			zap.Int("index", st.CurrentTargetIndex),
			zap.Float64("spawnTime", st.TargetSpawnTime))
	case o.Recorded():
		t := st.Trials[len(st.Trials)-1]
		s.log.Debug("trial recorded",
			zap.Int("trial", st.TrialsDone),
			zap.Int("index", t.TargetIndex),
			zap.Float64("reactionMs", t.ReactionMs),
			zap.Int("score", t.Score))
	}
}

// dispatchSummary runs once per finished session, guarded by the Posted latch
func (s *Session) dispatchSummary() {
	cfg := s.machine.Config()
	trials := s.machine.State().Trials
	o := stats.ComputeOverallStats(trials, cfg.Trials)
	s.log.Info("session finished",
		zap.Int("hits", o.HitCount),
		zap.Int("bullseyes", o.BullseyeCount),
		zap.Int("totalScore", o.TotalScore),
		zap.Float64("avgReactionMs", o.AvgReactionMs))

	if s.sink == nil {
		return
	}
	payload, err := export.ToSummaryRecord(trials, cfg.Trials).JSON()
	if err != nil {
		s.log.Error("encode summary", zap.Error(err))
		return
	}
	s.submitted = s.sink.Submit(payload)
}

// OnExportDetailRequested writes the per-trial CSV. Ignored with
// ErrNotFinished before the session ends.
func (s *Session) OnExportDetailRequested() error {
	if s.machine.Phase() != game.PhaseFinished {
		return ErrNotFinished
	}
	data, err := export.DetailCSV(s.machine.State().Trials)
	if err != nil {
		return s.exportFailed(s.detailFile, err)
	}
	return s.save(s.detailFile, data)
}

// OnExportSummaryRequested writes the per-direction CSV. Ignored with
// ErrNotFinished before the session ends.
func (s *Session) OnExportSummaryRequested() error {
	if s.machine.Phase() != game.PhaseFinished {
		return ErrNotFinished
	}
	data, err := export.DirectionSummaryCSV(s.machine.State().Trials)
	if err != nil {
		return s.exportFailed(s.summaryFile, err)
	}
	return s.save(s.summaryFile, data)
}

func (s *Session) save(name string, data []byte) error {
	if s.sink == nil {
		return s.exportFailed(name, errors.New("no sink configured"))
	}
	if err := s.sink.Save(name, data); err != nil {
		return s.exportFailed(name, err)
	}
	s.setNotice("Saved " + name)
	return nil
}

func (s *Session) exportFailed(name string, err error) error {
	s.log.Error("export failed", zap.String("file", name), zap.Error(err))
	s.setNotice("Export failed: " + name)
	return fmt.Errorf("export %s: %w", name, err)
}

// OnResetRequested starts a new session when finished, applying any config
// received through UpdateConfig. Returns false and does nothing otherwise.
func (s *Session) OnResetRequested() bool {
	next := s.pending.Load()
	cfg := s.machine.Config()
	if next != nil {
		cfg = *next
	}
	if !s.machine.ResetWith(cfg) {
		return false
	}
	if next != nil {
		s.pending.CompareAndSwap(next, nil)
		s.log.Info("applied updated configuration", zap.Int("trials", cfg.Trials))
	}
	s.submitted = false
	s.notice = ""
	s.log.Info("session reset")
	return true
}

// UpdateConfig queues cfg for the next reset. Safe to call from any goroutine.
func (s *Session) UpdateConfig(cfg game.Config) {
	s.pending.Store(&cfg)
}

// Config returns the parameters of the running session
func (s *Session) Config() game.Config {
	return s.machine.Config()
}

// CurrentPhase returns the machine phase
func (s *Session) CurrentPhase() game.Phase {
	return s.machine.Phase()
}

// State returns the live state for rendering. Do not modify.
func (s *Session) State() *game.State {
	return s.machine.State()
}

// CurrentStats derives statistics from the trials recorded so far
func (s *Session) CurrentStats() Snapshot {
	trials := s.machine.State().Trials
	return Snapshot{
		Overall:    stats.ComputeOverallStats(trials, s.machine.Config().Trials),
		Directions: stats.ComputeDirectionStats(trials),
	}
}

// Submitted reports whether the finished session's summary was dispatched
func (s *Session) Submitted() bool {
	return s.submitted
}

// SubmissionStatus is the finished-overlay line describing submission
func (s *Session) SubmissionStatus() string {
	if s.submitted {
		return "Results posted."
	}
	return "Submission disabled."
}

func (s *Session) setNotice(msg string) {
	s.notice = msg
	s.noticeAt = s.lastNow
}

// Notice returns the latest transient message if it is younger than NoticeTTL
func (s *Session) Notice(now float64) (string, bool) {
	if s.notice == "" || now-s.noticeAt >= NoticeTTL {
		return "", false
	}
	return s.notice, true
}
