package match

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
	"github.com/ahlgreen/handsim/systems"
)

// shotAccuracy shapes the accuracy of one shot in [0,1]. Pressure is
// amplified non-linearly and partly relieved by composure; long range and
// fatigue cost accuracy linearly. Higher accuracy tightens the angular
// deviation envelope at release.
func shotAccuracy(shooting, composure, dist, pressure, stamina float64, cfg *config.Config) float64 {
	a := cfg.Shot.BaseAccuracy
	a *= 0.5 + geom.SkillSigmoid(shooting, cfg.Shot.SkillSteepness)

	if dist > cfg.Shot.LongShotDistance {
		over := geom.Clamp01((dist - cfg.Shot.LongShotDistance) / cfg.Shot.LongShotDistance)
		a *= 1 - cfg.Shot.DistancePenalty*over
	}

	press := geom.PowerCurve(pressure, cfg.Shot.PressureExponent)
	relief := 1 - cfg.Shot.ComposureRelief*geom.Attr01(composure)
	a *= 1 - cfg.Shot.PressurePenalty*press*relief

	a *= 1 - cfg.Shot.FatiguePenalty*(1-geom.Clamp01(stamina))
	return geom.Clamp01(a)
}

// resolveShot fires when a shot wind-up (grounded or jumping) completes.
// Accuracy turns into an angular deviation off the picked goal-mouth target;
// the deviated trajectory is projected onto the goal plane, then run through
// the blocker gauntlet and the keeper before it can score.
func (m *Match) resolveShot(e ecs.Entity) {
	ag := m.agentMap.Get(e)
	jumping := ag.State == components.ActionJumpShot
	ag.State = components.ActionMoveToPosition
	if !ag.HasBall {
		return
	}

	cfg := m.cfg
	tf := m.posMap.Get(e)
	attrs := m.attrMap.Get(e)
	cond := m.condMap.Get(e)
	air := m.airMap.Get(e)

	goalX := m.AttackedGoalX(ag.Team)
	goalCenter := geom.Vec2{X: goalX, Y: cfg.Derived.CenterY}
	dist := tf.Pos.Dist(goalCenter)

	acc := shotAccuracy(attrs.Shooting, attrs.Composure, dist, m.pressureOn(e), cond.Stamina, cfg)

	// Pick a goal-mouth target: a corner biased by decision making, low or
	// high at random.
	cy := cfg.Derived.CenterY
	margin := 3 * cfg.Ball.Radius
	side := 1.0
	if m.rng.Float64() < 0.5 {
		side = -1
	}
	cornerPull := geom.Lerp(0.55, 0.92, geom.Attr01(attrs.DecisionMaking))
	targetY := cy + side*cornerPull*(cfg.Pitch.GoalWidth/2-margin)
	targetZ := margin
	if m.rng.Float64() < 0.5 {
		targetZ = cfg.Pitch.GoalHeight - margin
	}

	// Deviation envelope shrinks with accuracy, capped by config.
	devDeg := (1 - acc) * cfg.Shot.MaxDeviationDeg
	yaw := (m.rng.Float64()*2 - 1) * devDeg * math.Pi / 180
	pitchErr := (m.rng.Float64()*2 - 1) * devDeg * math.Pi / 180

	speed := cfg.Shot.ReleaseSpeed + cfg.Shot.SpeedPerPower*geom.Attr01(attrs.Power)

	releaseZ := cfg.Player.HoldHeight + air.Z
	if jumping {
		releaseZ += 0.3
	}

	aim := geom.Vec2{X: goalX, Y: targetY}
	dir := aim.Sub(tf.Pos).Norm().Rotate(yaw)
	if dir == (geom.Vec2{}) {
		dir = geom.Vec2{X: m.AttackSign(ag.Team)}
	}

	flight := dist / speed
	baseVZ := (targetZ-releaseZ)/math.Max(flight, 1e-3) + 0.5*cfg.Physics.Gravity*flight
	vz := baseVZ + speed*math.Tan(pitchErr)*0.25

	vel := geom.Vec3{X: dir.X * speed, Y: dir.Y * speed, Z: vz}
	spin := geom.Vec3{Z: side * cfg.Shot.SpinMax * geom.Attr01(attrs.Technique) * (m.rng.Float64()*0.5 + 0.5)}

	ag.HasBall = false
	ag.Steps = 0
	m.ball.Pos = geom.Vec3From(tf.Pos.Add(dir.Scale(cfg.Player.HoldOffset)), releaseZ)
	m.ball.Release(vel, spin, ag.Team)
	m.ball.ClearReceiver()
	m.possession = components.NoTeam
	tf.Facing = dir.Angle()

	impact, t, ok := systems.GoalLineImpact(m.ball.Pos, vel, goalX, cfg)
	onTarget := ok && m.impactInFrame(impact)

	// Blockers get their chance whether or not the shot is true.
	if blocker, blocked := m.runBlockGauntlet(e, ag, dir); blocked {
		m.deflectBlockedShot(blocker, ag)
		return
	}

	if !onTarget {
		// The attempt is spent; the flight cannot score on the way out.
		m.ball.Dead = true
		m.emit(Outcome{
			Kind:         OutcomeShotMissed,
			Team:         ag.Team,
			Player:       ag.ID,
			Other:        -1,
			PossessionTo: components.NoTeam,
			Impact:       impact,
			Reason:       "off target",
		})
		return
	}

	if keeper, saved := m.resolveSave(e, ag, impact, t, speed); saved {
		ka := m.agentMap.Get(keeper)
		m.giveBall(keeper)
		ka.State = components.ActionMoveWithBall
		m.emit(Outcome{
			Kind:         OutcomeShotSaved,
			Team:         ag.Team,
			Player:       ag.ID,
			Other:        ka.ID,
			PossessionTo: ka.Team,
			Impact:       impact,
		})
		return
	}

	m.goalScored(OutcomeShotGoal, ag.Team, ag.ID, impact, "field shot")
}

// impactInFrame reports whether a goal-plane impact point is inside the
// goal mouth with the ball fully past the posts.
func (m *Match) impactInFrame(impact geom.Vec3) bool {
	cfg := m.cfg
	if math.Abs(impact.Y-cfg.Derived.CenterY) > cfg.Pitch.GoalWidth/2-cfg.Ball.Radius {
		return false
	}
	return impact.Z > cfg.Ball.Radius && impact.Z < cfg.Pitch.GoalHeight-cfg.Ball.Radius
}

// deflectBlockedShot turns a blocked shot into one of the configured
// follow-ups: blocker catch, out over the line, to a blocker teammate, or
// simply loose.
func (m *Match) deflectBlockedShot(blocker ecs.Entity, shooter *components.Agent) {
	cfg := m.cfg
	ba := m.agentMap.Get(blocker)
	btf := m.posMap.Get(blocker)

	m.emit(Outcome{
		Kind:         OutcomeShotBlocked,
		Team:         shooter.Team,
		Player:       shooter.ID,
		Other:        ba.ID,
		PossessionTo: components.NoTeam,
	})

	roll := m.rng.Float64()
	switch {
	case roll < cfg.Block.CatchShare:
		m.giveBall(blocker)
		ba.State = components.ActionMoveWithBall

	case roll < cfg.Block.CatchShare+cfg.Block.OutShare:
		// Deflected out of play: restart throw for the attacking side is
		// approximated as a sideline free throw.
		m.ball.Mode = components.BallStopped
		m.ball.Vel = geom.Vec3{}
		m.freeThrow(shooter.Team, btf.Pos)

	case roll < cfg.Block.CatchShare+cfg.Block.OutShare+cfg.Block.TeammateShare:
		if mate, ok := m.nearestCourtPlayer(ba.Team, btf.Pos); ok && mate != blocker {
			m.giveBall(mate)
			m.agentMap.Get(mate).State = components.ActionMoveWithBall
			return
		}
		fallthrough

	default:
		dir := geom.FromAngle(m.rng.Float64() * 2 * math.Pi).Scale(3 + m.rng.Float64()*3)
		m.ball.Pos = geom.Vec3From(btf.Pos, cfg.Player.HoldHeight)
		m.ball.Release(geom.Vec3{X: dir.X, Y: dir.Y, Z: 1.5}, geom.Vec3{}, ba.Team)
		m.ball.ClearReceiver()
		m.possession = components.NoTeam
	}
}
