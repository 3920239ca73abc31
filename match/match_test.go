package match_test

import (
	"log/slog"
	"testing"

	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
	"github.com/ahlgreen/handsim/match"
	"github.com/ahlgreen/handsim/roster"
	"github.com/ahlgreen/handsim/tactics"
)

// snapshot captures everything a replay must reproduce exactly.
type snapshot struct {
	score     [2]int
	tick      int
	ballPos   geom.Vec3
	positions []geom.Vec2
	outcomes  []match.OutcomeKind
}

func runShortMatch(t *testing.T, seed string, halfSeconds float64) snapshot {
	t.Helper()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Rules.HalfSeconds = halfSeconds

	logger := slog.New(slog.DiscardHandler)
	m := match.New(cfg, logger, seed)

	center := geom.Vec2{X: cfg.Derived.CenterX, Y: cfg.Derived.CenterY}
	for _, lu := range roster.Generate(seed) {
		m.Spawn(lu, center)
	}
	m.SetTactics(tactics.NewPlaybook())

	var snap snapshot
	m.Subscribe(match.HandlerFunc(func(o match.Outcome) {
		snap.outcomes = append(snap.outcomes, o.Kind)
	}))

	m.Kickoff()
	for !m.Done() {
		m.Step()
	}

	snap.score = m.Score()
	snap.tick = m.Tick()
	snap.ballPos = m.Ball().Pos
	for _, e := range m.Players() {
		snap.positions = append(snap.positions, m.Transform(e).Pos)
	}
	return snap
}

func TestMatchReplaysDeterministically(t *testing.T) {
	a := runShortMatch(t, "replay-check", 45)
	b := runShortMatch(t, "replay-check", 45)

	if a.score != b.score {
		t.Errorf("scores differ: %v vs %v", a.score, b.score)
	}
	if a.tick != b.tick {
		t.Errorf("tick counts differ: %d vs %d", a.tick, b.tick)
	}
	if a.ballPos != b.ballPos {
		t.Errorf("ball positions differ: %v vs %v", a.ballPos, b.ballPos)
	}
	if len(a.positions) != len(b.positions) {
		t.Fatalf("player counts differ: %d vs %d", len(a.positions), len(b.positions))
	}
	for i := range a.positions {
		if a.positions[i] != b.positions[i] {
			t.Errorf("player %d positions differ: %v vs %v", i, a.positions[i], b.positions[i])
		}
	}
	if len(a.outcomes) != len(b.outcomes) {
		t.Fatalf("outcome streams differ in length: %d vs %d", len(a.outcomes), len(b.outcomes))
	}
	for i := range a.outcomes {
		if a.outcomes[i] != b.outcomes[i] {
			t.Fatalf("outcome %d differs: %v vs %v", i, a.outcomes[i], b.outcomes[i])
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := runShortMatch(t, "seed-alpha", 45)
	b := runShortMatch(t, "seed-beta", 45)

	same := a.ballPos == b.ballPos
	for i := range a.positions {
		same = same && a.positions[i] == b.positions[i]
	}
	if same {
		t.Error("different seeds produced identical final state")
	}
}

func TestMatchRunsToCompletion(t *testing.T) {
	snap := runShortMatch(t, "completion-check", 30)

	if snap.tick == 0 {
		t.Fatal("match never stepped")
	}
	if len(snap.outcomes) == 0 {
		t.Fatal("no outcomes emitted")
	}

	// The stream must open with a throw-off and close with the final whistle,
	// with both half boundaries in between.
	if snap.outcomes[0] != match.OutcomeThrowOff {
		t.Errorf("first outcome = %v, want throw-off", snap.outcomes[0])
	}
	if last := snap.outcomes[len(snap.outcomes)-1]; last != match.OutcomeMatchEnd {
		t.Errorf("last outcome = %v, want match end", last)
	}
	var halfEnds int
	for _, k := range snap.outcomes {
		if k == match.OutcomeHalfEnd {
			halfEnds++
		}
	}
	if halfEnds != 1 {
		t.Errorf("half ends = %d, want 1", halfEnds)
	}

	if snap.score[0] < 0 || snap.score[1] < 0 {
		t.Errorf("negative score %v", snap.score)
	}
}

func TestSpawnAndLookups(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	logger := slog.New(slog.DiscardHandler)
	m := match.New(cfg, logger, "lookup-check")

	center := geom.Vec2{X: cfg.Derived.CenterX, Y: cfg.Derived.CenterY}
	lineups := roster.Generate("lookup-check")
	for _, lu := range lineups {
		m.Spawn(lu, center)
	}

	if got := len(m.Players()); got != len(lineups) {
		t.Fatalf("players = %d, want %d", got, len(lineups))
	}

	for team := 0; team < 2; team++ {
		keeper, ok := m.Keeper(team)
		if !ok {
			t.Fatalf("team %d has no keeper", team)
		}
		if ag := m.Agent(keeper); ag.Team != team {
			t.Errorf("keeper agent team = %d, want %d", ag.Team, team)
		}
	}

	if _, ok := m.Holder(); ok {
		t.Error("ball held before kickoff")
	}

	// Teams attack opposite goals.
	if m.AttackedGoalX(0) == m.AttackedGoalX(1) {
		t.Error("both teams attack the same goal")
	}
	if m.AttackedGoalX(0) != m.DefendedGoalX(1) {
		t.Error("goal assignment inconsistent between teams")
	}
}
