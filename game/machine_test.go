package game

import (
	"testing"

	"github.com/lixenwraith/cfart/geom"
	"github.com/lixenwraith/cfart/trial"
)

func newTestMachine(trials int, seq ...int) *Machine {
	cfg := DefaultConfig()
	cfg.Trials = trials
	if len(seq) == 0 {
		seq = []int{0}
	}
	return NewMachine(cfg, NewSequenceSource(seq...))
}

// assertInvariant checks TrialsDone == len(Trials) and the ring/score pairing
func assertInvariant(t *testing.T, m *Machine) {
	t.Helper()
	s := m.State()
	if s.TrialsDone != len(s.Trials) {
		t.Fatalf("TrialsDone=%d but len(Trials)=%d", s.TrialsDone, len(s.Trials))
	}
	for i, tr := range s.Trials {
		if tr.HitInner && !tr.HitOuter {
			t.Fatalf("trial %d: inner without outer", i)
		}
		if tr.Score != trial.ScoreFor(tr.HitOuter, tr.HitInner) {
			t.Fatalf("trial %d: score %d does not match rings", i, tr.Score)
		}
	}
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		PhaseWaitingAtCenter: "WaitingAtCenter",
		PhaseTargetLive:      "TargetLive",
		PhaseFinished:        "Finished",
		Phase(42):            "Unknown",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, got, want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	valid := []struct{ from, to Phase }{
		{PhaseWaitingAtCenter, PhaseTargetLive},
		{PhaseTargetLive, PhaseWaitingAtCenter},
		{PhaseTargetLive, PhaseFinished},
		{PhaseFinished, PhaseWaitingAtCenter},
	}
	for _, tc := range valid {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be valid", tc.from, tc.to)
		}
	}

	invalid := []struct{ from, to Phase }{
		{PhaseWaitingAtCenter, PhaseFinished},
		{PhaseWaitingAtCenter, PhaseWaitingAtCenter},
		{PhaseTargetLive, PhaseTargetLive},
		{PhaseFinished, PhaseTargetLive},
		{PhaseFinished, PhaseFinished},
	}
	for _, tc := range invalid {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestInitialState(t *testing.T) {
	m := newTestMachine(100)
	s := m.State()
	if s.Phase != PhaseWaitingAtCenter {
		t.Errorf("initial phase = %s, want WaitingAtCenter", s.Phase)
	}
	if s.TrialsDone != 0 || len(s.Trials) != 0 || s.Posted {
		t.Errorf("initial state not empty: %+v", s)
	}
}

func TestCenterClickOutsideCaptureIgnored(t *testing.T) {
	m := newTestMachine(10)
	center := m.Config().Center()

	out := m.Click(1.0, center.Add(DefaultCenterRadius+0.5, 0))
	if out != OutcomeNone {
		t.Errorf("outcome = %s, want none", out)
	}
	if m.Phase() != PhaseWaitingAtCenter {
		t.Errorf("phase = %s, want WaitingAtCenter", m.Phase())
	}
	assertInvariant(t, m)
}

func TestCenterClickOnCaptureBoundarySpawns(t *testing.T) {
	m := newTestMachine(10, 3)
	center := m.Config().Center()

	out := m.Click(2.5, center.Add(0, DefaultCenterRadius))
	if out != OutcomeSpawned {
		t.Fatalf("outcome = %s, want spawned", out)
	}
	s := m.State()
	if s.Phase != PhaseTargetLive {
		t.Fatalf("phase = %s, want TargetLive", s.Phase)
	}
	if s.CurrentTargetIndex != 3 {
		t.Errorf("target index = %d, want 3", s.CurrentTargetIndex)
	}
	if s.TargetSpawnTime != 2.5 {
		t.Errorf("spawn time = %f, want 2.5", s.TargetSpawnTime)
	}
	want := geom.PositionForIndex(center, DefaultClockRadius, 3)
	if s.CurrentTargetPos != want {
		t.Errorf("target pos = %v, want %v", s.CurrentTargetPos, want)
	}
}

func TestBullseyeScenario(t *testing.T) {
	m := newTestMachine(100, 0)
	center := m.Config().Center()

	m.Click(10.0, center)
	out := m.Click(10.25, m.State().CurrentTargetPos)
	if out != OutcomeBullseye {
		t.Fatalf("outcome = %s, want bullseye", out)
	}

	want := trial.Trial{
		TargetIndex: 0,
		SpawnTime:   10.0,
		ClickTime:   10.25,
		ReactionMs:  250.0,
		HitOuter:    true,
		HitInner:    true,
		Score:       10,
	}
	s := m.State()
	if len(s.Trials) != 1 || s.Trials[0] != want {
		t.Fatalf("trials = %+v, want [%+v]", s.Trials, want)
	}
	if s.Phase != PhaseWaitingAtCenter {
		t.Errorf("phase = %s, want WaitingAtCenter", s.Phase)
	}
	assertInvariant(t, m)
}

func TestMissKeepsTargetLive(t *testing.T) {
	m := newTestMachine(10, 6)
	m.Click(1.0, m.Config().Center())
	pos := m.State().CurrentTargetPos

	out := m.Click(1.5, pos.Add(DefaultOuterRadius+1, 0))
	if out != OutcomeMiss {
		t.Fatalf("outcome = %s, want miss", out)
	}
	s := m.State()
	if s.Phase != PhaseTargetLive {
		t.Errorf("phase = %s, want TargetLive", s.Phase)
	}
	if s.CurrentTargetPos != pos || s.TargetSpawnTime != 1.0 {
		t.Error("miss must not respawn the target")
	}
	assertInvariant(t, m)

	// Second attempt lands; reaction runs from the original spawn
	out = m.Click(2.0, pos)
	if out != OutcomeBullseye {
		t.Fatalf("outcome = %s, want bullseye", out)
	}
	if got := s.Trials[0].ReactionMs; got != 1000 {
		t.Errorf("reaction = %f, want 1000", got)
	}
}

func TestRingBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		offset    float64
		want      Outcome
		wantScore int
	}{
		{"inner boundary", DefaultInnerRadius, OutcomeBullseye, trial.ScoreInner},
		{"outer boundary", DefaultOuterRadius, OutcomeHit, trial.ScoreOuter},
		{"between rings", (DefaultInnerRadius + DefaultOuterRadius) / 2, OutcomeHit, trial.ScoreOuter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// index 0 sits at (640, 100): offsets along x are exact
			m := newTestMachine(10, 0)
			m.Click(0, m.Config().Center())
			pos := m.State().CurrentTargetPos

			out := m.Click(0.3, pos.Add(tt.offset, 0))
			if out != tt.want {
				t.Fatalf("outcome = %s, want %s", out, tt.want)
			}
			if got := m.State().Trials[0].Score; got != tt.wantScore {
				t.Errorf("score = %d, want %d", got, tt.wantScore)
			}
		})
	}
}

func TestClickInFinishedIgnored(t *testing.T) {
	m := newTestMachine(1, 0)
	m.Click(0, m.Config().Center())
	m.Click(0.2, m.State().CurrentTargetPos)
	if m.Phase() != PhaseFinished {
		t.Fatalf("phase = %s, want Finished", m.Phase())
	}

	if out := m.Click(1, m.Config().Center()); out != OutcomeNone {
		t.Errorf("outcome = %s, want none", out)
	}
	if m.State().TrialsDone != 1 {
		t.Errorf("TrialsDone = %d, want 1", m.State().TrialsDone)
	}
}

func TestFullSession(t *testing.T) {
	m := newTestMachine(100, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)
	center := m.Config().Center()
	now := 0.0

	for i := 0; i < 100; i++ {
		if m.Phase() == PhaseFinished {
			t.Fatalf("finished early after %d trials", i)
		}
		now += 0.5
		if out := m.Click(now, center); out != OutcomeSpawned {
			t.Fatalf("trial %d: spawn outcome %s", i, out)
		}
		now += 0.3
		out := m.Click(now, m.State().CurrentTargetPos)
		if !out.Recorded() {
			t.Fatalf("trial %d: hit outcome %s", i, out)
		}
		assertInvariant(t, m)
	}

	if m.Phase() != PhaseFinished {
		t.Fatalf("phase = %s, want Finished", m.Phase())
	}
	if m.State().TrialsDone != 100 {
		t.Errorf("TrialsDone = %d, want 100", m.State().TrialsDone)
	}
	for i, tr := range m.State().Trials {
		if tr.TargetIndex != i%12 {
			t.Errorf("trial %d: index %d, want %d", i, tr.TargetIndex, i%12)
		}
	}
}

func TestResetOnlyFromFinished(t *testing.T) {
	m := newTestMachine(2, 0)
	if m.Reset() {
		t.Error("reset accepted while waiting at center")
	}
	m.Click(0, m.Config().Center())
	if m.Reset() {
		t.Error("reset accepted while target live")
	}
	if m.Phase() != PhaseTargetLive {
		t.Errorf("phase changed by rejected reset: %s", m.Phase())
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	m := newTestMachine(1, 0)
	held := m.State()

	m.Click(0, m.Config().Center())
	m.Click(0.2, m.State().CurrentTargetPos)
	if !m.MarkPosted() {
		t.Fatal("MarkPosted should latch on first call")
	}

	if !m.Reset() {
		t.Fatal("reset rejected from Finished")
	}
	s := m.State()
	if s.Phase != PhaseWaitingAtCenter || s.TrialsDone != 0 || len(s.Trials) != 0 || s.Posted {
		t.Errorf("state after reset = %+v", s)
	}
	if held != s {
		t.Error("reset must keep the state pointer stable")
	}
}

func TestResetWithInstallsConfig(t *testing.T) {
	m := newTestMachine(1, 0)
	m.Click(0, m.Config().Center())
	m.Click(0.1, m.State().CurrentTargetPos)

	next := DefaultConfig()
	next.Trials = 5
	if !m.ResetWith(next) {
		t.Fatal("ResetWith rejected from Finished")
	}
	if m.Config().Trials != 5 {
		t.Errorf("trials = %d, want 5", m.Config().Trials)
	}
}

func TestMarkPostedLatch(t *testing.T) {
	m := newTestMachine(1, 0)
	if m.MarkPosted() {
		t.Error("latch set before Finished")
	}
	m.Click(0, m.Config().Center())
	m.Click(0.1, m.State().CurrentTargetPos)

	if !m.MarkPosted() {
		t.Error("first MarkPosted in Finished should succeed")
	}
	if m.MarkPosted() {
		t.Error("second MarkPosted should be a no-op")
	}
}

func TestDisplayTrialAndLiveReaction(t *testing.T) {
	m := newTestMachine(3, 0)
	s := m.State()

	if got := s.DisplayTrial(3); got != 0 {
		t.Errorf("DisplayTrial before start = %d, want 0", got)
	}
	if got := s.LiveReactionMs(5); got != 0 {
		t.Errorf("LiveReactionMs without target = %f, want 0", got)
	}

	m.Click(1.0, m.Config().Center())
	if got := s.DisplayTrial(3); got != 1 {
		t.Errorf("DisplayTrial with live target = %d, want 1", got)
	}
	if got := s.LiveReactionMs(1.5); got != 500 {
		t.Errorf("LiveReactionMs = %f, want 500", got)
	}

	for s.Phase != PhaseFinished {
		if s.Phase == PhaseWaitingAtCenter {
			m.Click(2, m.Config().Center())
		}
		m.Click(2.1, s.CurrentTargetPos)
	}
	if got := s.DisplayTrial(3); got != 3 {
		t.Errorf("DisplayTrial when finished = %d, want 3", got)
	}
}

func TestSequenceSource(t *testing.T) {
	src := NewSequenceSource(1, 13, -1)
	want := []int{1, 1, 11, 1}
	for i, w := range want {
		if got := src.IntN(12); got != w {
			t.Errorf("draw %d = %d, want %d", i, got, w)
		}
	}
	if got := NewSequenceSource().IntN(12); got != 0 {
		t.Errorf("empty source = %d, want 0", got)
	}
}

func TestTimeSeededSourceRange(t *testing.T) {
	src := NewTimeSeededSource()
	for i := 0; i < 1000; i++ {
		if idx := RandomIndex(src); !geom.ValidIndex(idx) {
			t.Fatalf("RandomIndex = %d, out of range", idx)
		}
	}
}
