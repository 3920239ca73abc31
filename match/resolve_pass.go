package match

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
	"github.com/ahlgreen/handsim/systems"
)

// passChance shapes the completion probability for one pass. Base chance is
// scaled by a skill sigmoid centered on the benchmark, halved over distance,
// reduced under pressure and fatigue, and nudged by per-attempt noise. The
// result is clamped to [0,1] so it is always a valid probability.
func passChance(passing, dist, pressure, stamina, noise float64, cfg *config.Config) float64 {
	p := cfg.Pass.BaseChance
	p *= 0.5 + geom.SkillSigmoid(passing, cfg.Pass.SkillSteepness)
	p *= 1 / (1 + dist/cfg.Pass.DistanceHalf)
	p *= 1 - cfg.Pass.PressurePenalty*geom.Clamp01(pressure)
	p *= 1 - cfg.Pass.FatiguePenalty*(1-geom.Clamp01(stamina))
	p += noise
	return geom.Clamp01(p)
}

// resolvePass fires when a pass wind-up completes. The chance multiplies a
// base by skill, distance, pressure, and fatigue factors plus a small noise
// term, clamped to [0,1] before the draw. A made pass flies to the receiver's
// projected position with a tight angular error; a failed one sprays wide and
// leaves the ball loose. Defenders sitting in the lane get a pre-release
// poke attempt first.
func (m *Match) resolvePass(e ecs.Entity) {
	ag := m.agentMap.Get(e)
	ag.State = components.ActionMoveToPosition
	if !ag.HasBall || !ag.HasTarget {
		return
	}
	recv := ag.Target
	ag.HasTarget = false

	ra := m.agentMap.Get(recv)
	if ra == nil || !ra.OnCourt || ra.Team != ag.Team {
		return
	}

	if m.prePassSteal(e, recv) {
		return
	}

	cfg := m.cfg
	tf := m.posMap.Get(e)
	attrs := m.attrMap.Get(e)
	cond := m.condMap.Get(e)
	rtf := m.posMap.Get(recv)

	dist := tf.Pos.Dist(rtf.Pos)
	speed := cfg.Pass.ReleaseSpeed + cfg.Pass.SpeedPerSkill*geom.Attr01(attrs.Passing)
	flight := dist / speed

	// Lead the receiver by their current velocity over the flight time.
	aim := rtf.Pos.Add(rtf.Vel.Scale(flight))

	noise := (m.rng.Float64()*2 - 1) * cfg.Pass.NoiseSpan
	p := passChance(attrs.Passing, dist, m.pressureOn(e), cond.Stamina, noise, cfg)

	made := m.rng.Float64() < p

	offsetDeg := cfg.Pass.AccurateOffsetDeg
	if !made {
		offsetDeg = cfg.Pass.WildOffsetDeg
	}
	offset := (m.rng.Float64()*2 - 1) * offsetDeg * math.Pi / 180

	dir := aim.Sub(tf.Pos).Norm().Rotate(offset)
	if dir == (geom.Vec2{}) {
		dir = geom.FromAngle(tf.Facing)
	}

	// Vertical release solves the ballistic arc from hold height to catch
	// height over the expected flight time, ignoring drag.
	vz := 0.0
	if flight > 0 {
		dz := cfg.Player.HoldHeight - m.ball.Pos.Z
		vz = dz/flight + 0.5*cfg.Physics.Gravity*flight
	}
	vel := geom.Vec3{X: dir.X * speed, Y: dir.Y * speed, Z: vz}

	ag.HasBall = false
	ag.Steps = 0
	m.ball.Release(vel, geom.Vec3{}, ag.Team)
	tf.Facing = dir.Angle()

	if made {
		m.ball.Receiver = recv
		m.ball.HasReceiver = true
		m.lastPasser = ag.ID
		ra.State = components.ActionReceivePass
		ra.TargetPos = aim
		ra.HasTargetPos = true
		return
	}

	m.ball.ClearReceiver()
	m.possession = components.NoTeam
	m.emit(Outcome{
		Kind:         OutcomePassIncomplete,
		Team:         ag.Team,
		Player:       ag.ID,
		Other:        ra.ID,
		PossessionTo: components.NoTeam,
		Reason:       "wild release",
	})
}

// prePassSteal gives defenders already committed to the lane a reduced-
// ceiling poke before the ball leaves the hand. Returns true if the pass
// died in the hand.
func (m *Match) prePassSteal(passer, recv ecs.Entity) bool {
	cfg := m.cfg
	ptf := m.posMap.Get(passer)
	rtf := m.posMap.Get(recv)
	pa := m.agentMap.Get(passer)

	for _, e := range m.players {
		ag := m.agentMap.Get(e)
		if !ag.OnCourt || ag.Team == pa.Team || ag.State != components.ActionAttemptIntercept {
			continue
		}
		tf := m.posMap.Get(e)
		laneDist, _ := geom.PointSegmentDist(tf.Pos, ptf.Pos, rtf.Pos)
		if laneDist > cfg.Pass.LaneReach {
			continue
		}

		attrs := m.attrMap.Get(e)
		p := cfg.Interception.PrePassChance
		p *= geom.SkillSigmoid(attrs.Anticipation, cfg.Interception.SkillSteepness) * 2
		p *= 1 / (1 + laneDist/cfg.Interception.LaneDistanceHalf)
		p = geom.Clamp01(p)

		if m.rng.Float64() >= p {
			continue
		}

		pa.HasBall = false
		pa.Steps = 0
		poke := tf.Pos.Sub(ptf.Pos).Norm().Scale(2)
		m.ball.Release(geom.Vec3{X: poke.X, Y: poke.Y, Z: 1}, geom.Vec3{}, ag.Team)
		m.ball.ClearReceiver()
		m.possession = components.NoTeam
		m.emit(Outcome{
			Kind:         OutcomePassIntercepted,
			Team:         ag.Team,
			Player:       ag.ID,
			Other:        pa.ID,
			PossessionTo: components.NoTeam,
			Reason:       "poked at release",
		})
		return true
	}
	return false
}

// resolveInterception rolls one committed defender against the pass in
// flight. Factors: lane distance, distance to the ball, pass progress
// (peaking mid-flight), ball speed, closing velocity, and whether the
// defender is facing the play.
func (m *Match) resolveInterception(e ecs.Entity) bool {
	cfg := m.cfg
	b := &m.ball
	ag := m.agentMap.Get(e)
	tf := m.posMap.Get(e)
	attrs := m.attrMap.Get(e)

	recvTf := m.posMap.Get(b.Receiver)
	if recvTf == nil {
		return false
	}

	ground := b.Pos.XY()
	laneDist, _ := geom.PointSegmentDist(tf.Pos, b.ReleasePos, recvTf.Pos)
	ballDist := tf.Pos.Dist(ground)
	if b.Pos.Z > systems.ReachHeight(m.airMap.Get(e), cfg)+cfg.Player.CatchRadius {
		return false
	}

	total := b.ReleasePos.Dist(recvTf.Pos)
	progress := 0.0
	if total > 0 {
		progress = geom.Clamp01(b.PassLength / total)
	}
	// Triangular profile peaking at the configured progress point. Early
	// the passer still guards the lane, late the receiver does.
	peak := cfg.Interception.ProgressPeak
	progFactor := 1.0
	if progress < peak {
		progFactor = progress / peak
	} else if peak < 1 {
		progFactor = (1 - progress) / (1 - peak)
	}

	ballSpeed := b.Vel.XY().Len()

	toBall := ground.Sub(tf.Pos)
	closing := 0.0
	if d := toBall.Len(); d > 1e-9 {
		closing = geom.Clamp01(tf.Vel.Dot(toBall.Scale(1/d)) / cfg.Save.ReachSpeed)
	}

	aware := 1.0
	if toBall.LenSq() > 1e-9 {
		off := math.Abs(geom.NormalizeAngle(toBall.Angle() - tf.Facing))
		if off > cfg.Interception.AwarenessCone {
			aware = 0.5
		}
	}

	p := cfg.Interception.BaseChance
	p *= geom.SkillSigmoid(attrs.Anticipation, cfg.Interception.SkillSteepness) * 2
	p *= 1 / (1 + laneDist/cfg.Interception.LaneDistanceHalf)
	p *= 1 / (1 + ballDist/cfg.Interception.BallDistanceHalf)
	p *= progFactor
	p *= 1 / (1 + ballSpeed/cfg.Interception.SpeedPenaltyHalf)
	p *= 1 + cfg.Interception.ClosingBonus*closing
	p *= aware
	// Scale to a per-tick hazard so a pass in flight is one effective roll.
	p = geom.Clamp01(p * cfg.Physics.DT / math.Max(cfg.Ball.InterceptHorizon, cfg.Physics.DT))

	if m.rng.Float64() >= p {
		return false
	}

	other := m.lastPasser
	m.lastPasser = -1
	m.giveBall(e)
	ag.State = components.ActionMoveWithBall
	m.emit(Outcome{
		Kind:         OutcomePassIntercepted,
		Team:         ag.Team,
		Player:       ag.ID,
		Other:        other,
		PossessionTo: ag.Team,
	})
	return true
}
