package match

import (
	"log/slog"
	"testing"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/geom"
)

func newStepMatch(t *testing.T) *Match {
	t.Helper()
	cfg := testConfig(t)
	return New(cfg, slog.New(slog.DiscardHandler), "step-test")
}

func spawnFieldPlayer(m *Match, team int, role components.Role, pos geom.Vec2) int {
	e := m.Spawn(Lineup{
		Number: len(m.players) + 1,
		Name:   "P",
		Team:   team,
		Role:   role,
		Attrs:  components.Attributes{Pace: 60, Strength: 60, Passing: 60},
	}, pos)
	return m.indexOf[e]
}

func TestTravelViolationTurnsOverOnce(t *testing.T) {
	m := newStepMatch(t)
	cy := m.cfg.Derived.CenterY

	ci := spawnFieldPlayer(m, 0, components.RoleCenterBack, geom.Vec2{X: 10, Y: cy})
	spawnFieldPlayer(m, 1, components.RoleCenterBack, geom.Vec2{X: 30, Y: cy})
	carrier := m.players[ci]

	travels := 0
	freeThrows := 0
	m.Subscribe(HandlerFunc(func(o Outcome) {
		switch o.Kind {
		case OutcomeTravelViolation:
			travels++
		case OutcomeFreeThrow:
			freeThrows++
		}
	}))

	m.giveBall(carrier)
	ag := m.agentMap.Get(carrier)
	ag.State = components.ActionMoveWithBall
	ag.TargetPos = geom.Vec2{X: 35, Y: cy}
	ag.HasTargetPos = true

	// Ten simulated seconds: enough to dribble well past the step budget and
	// for the free throw pause to expire.
	for i := 0; i < 300; i++ {
		m.Step()
	}

	if travels != 1 {
		t.Fatalf("travel violations = %d, want exactly 1", travels)
	}
	if freeThrows == 0 {
		t.Error("restart never fired after the violation")
	}
	if ag.HasBall {
		t.Error("violator kept the ball")
	}
	if ag.Steps != 0 {
		t.Errorf("violator steps = %d, want 0 after the whistle", ag.Steps)
	}
	if m.possession != 1 {
		t.Errorf("possession = %d, want turnover to team 1", m.possession)
	}
}

func TestDeadFlightDoesNotScore(t *testing.T) {
	m := newStepMatch(t)
	cfg := m.cfg

	inMouth := geom.Vec3{X: cfg.Pitch.Length, Y: cfg.Derived.CenterY, Z: 0.5}
	m.ball.Mode = components.BallInFlight
	m.ball.Pos = inMouth
	m.ball.Vel = geom.Vec3{X: 5}
	m.ball.Dead = true

	m.detectLooseGoal()
	if m.score != [2]int{} {
		t.Fatalf("dead ball over the line changed the score: %v", m.score)
	}

	m.ball.Dead = false
	m.detectLooseGoal()
	if m.score[0] != 1 {
		t.Fatalf("live ball over the line did not score, score = %v", m.score)
	}
}

func TestMissedShotStaysDeadUntilRelease(t *testing.T) {
	m := newStepMatch(t)
	m.ball.Mode = components.BallInFlight
	m.ball.Dead = true

	m.ball.Release(geom.Vec3{X: 3}, geom.Vec3{}, 0)
	if m.ball.Dead {
		t.Error("new release still marked dead")
	}

	m.ball.Dead = true
	m.ball.SetHeld(m.Spawn(Lineup{Team: 0}, geom.Vec2{X: 5, Y: 5}), 0)
	if m.ball.Dead {
		t.Error("held ball still marked dead")
	}
}

func TestSecondHalfClearsStepBookkeeping(t *testing.T) {
	m := newStepMatch(t)
	cy := m.cfg.Derived.CenterY
	ci := spawnFieldPlayer(m, 0, components.RoleCenterBack, geom.Vec2{X: 10, Y: cy})
	carrier := m.players[ci]

	m.giveBall(carrier)
	ag := m.agentMap.Get(carrier)
	ag.Steps = 2
	m.stepDist[ci] = 0.4

	m.beginSecondHalf()

	if m.half != 2 {
		t.Fatalf("half = %d, want 2", m.half)
	}
	if ag.HasBall || m.ball.HasHolder {
		t.Error("possession not cleared at the interval")
	}
	if ag.Steps != 0 {
		t.Errorf("steps = %d, want 0 after the interval", ag.Steps)
	}
	if m.stepDist[ci] != 0 {
		t.Errorf("step distance = %v, want 0 after the interval", m.stepDist[ci])
	}
}
