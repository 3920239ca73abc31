// Package tactics supplies movement targets and action intents to the match
// each tick. It is deliberately simple: positional handball in a 6-0 shape,
// with hazard-rate decisions so behavior stays deterministic under the match
// RNG but does not retrigger every tick.
package tactics

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/geom"
	"github.com/ahlgreen/handsim/match"
	"github.com/ahlgreen/handsim/systems"
)

// Playbook directs both teams. One instance drives a match; it keeps no
// state of its own beyond what lives on the agents.
type Playbook struct {
	// ShotDesire is the per-second hazard of a holder in range choosing to
	// shoot; PassDesire likewise for moving the ball on.
	ShotDesire float64
	PassDesire float64
	// TackleCommit is the per-second hazard of a close defender committing
	// to a tackle on the carrier.
	TackleCommit float64
}

// NewPlaybook returns a playbook with the default tempo.
func NewPlaybook() *Playbook {
	return &Playbook{
		ShotDesire:   0.9,
		PassDesire:   1.4,
		TackleCommit: 0.8,
	}
}

// Direct implements match.TargetProvider.
func (pb *Playbook) Direct(m *match.Match) {
	for _, e := range m.Players() {
		ag := m.Agent(e)
		if !ag.OnCourt || ag.State.Preparing() || ag.State == components.ActionSuspended {
			continue
		}

		if ag.Role == components.RoleKeeper {
			pb.directKeeper(m, e)
			continue
		}

		switch {
		case ag.HasBall:
			pb.directCarrier(m, e)
		case m.Possession() == ag.Team:
			pb.directAttacker(m, e)
		case m.Possession() == components.NoTeam:
			pb.directLooseBall(m, e)
		default:
			pb.directDefender(m, e)
		}
	}
}

// attackSpot is where a role sets up in the opponent's half: wings wide and
// deep, backs on an arc outside the nine, pivot leaning on the six.
func attackSpot(m *match.Match, team int, role components.Role) geom.Vec2 {
	cfg := m.Config()
	goalX := m.AttackedGoalX(team)
	sign := m.AttackSign(team)
	cy := cfg.Derived.CenterY

	out := func(d float64) float64 { return goalX - sign*d }

	switch role {
	case components.RoleLeftWing:
		return geom.Vec2{X: out(3), Y: cy - 0.44*cfg.Pitch.Width*sign}
	case components.RoleRightWing:
		return geom.Vec2{X: out(3), Y: cy + 0.44*cfg.Pitch.Width*sign}
	case components.RoleLeftBack:
		return geom.Vec2{X: out(cfg.Pitch.FreeThrowRadius + 1.5), Y: cy - 0.2*cfg.Pitch.Width*sign}
	case components.RoleRightBack:
		return geom.Vec2{X: out(cfg.Pitch.FreeThrowRadius + 1.5), Y: cy + 0.2*cfg.Pitch.Width*sign}
	case components.RolePivot:
		return geom.Vec2{X: out(cfg.Pitch.GoalAreaRadius + 0.6), Y: cy}
	}
	// Center back.
	return geom.Vec2{X: out(cfg.Pitch.FreeThrowRadius + 2), Y: cy}
}

// defendSpot is the matching defensive anchor: collapse onto the six meter
// line between the attacker of the same role slot and the defended goal.
func defendSpot(m *match.Match, team int, role components.Role) geom.Vec2 {
	cfg := m.Config()
	goalX := m.DefendedGoalX(team)
	sign := m.AttackSign(team)
	cy := cfg.Derived.CenterY

	out := func(d float64) float64 { return goalX + sign*d }
	spread := map[components.Role]float64{
		components.RoleLeftWing:   -0.35,
		components.RoleLeftBack:   -0.14,
		components.RoleCenterBack: 0,
		components.RolePivot:      0.02,
		components.RoleRightBack:  0.14,
		components.RoleRightWing:  0.35,
	}
	return geom.Vec2{
		X: out(cfg.Pitch.GoalAreaRadius + 0.6),
		Y: cy + spread[role]*cfg.Pitch.Width*sign,
	}
}

// hazard converts a per-second decision rate into a per-tick probability.
func hazard(rate, dt float64) float64 {
	return geom.Clamp01(rate * dt)
}

func (pb *Playbook) directCarrier(m *match.Match, e ecs.Entity) {
	cfg := m.Config()
	ag := m.Agent(e)
	tf := m.Transform(e)
	dt := cfg.Physics.DT

	goal := geom.Vec2{X: m.AttackedGoalX(ag.Team), Y: cfg.Derived.CenterY}
	distGoal := tf.Pos.Dist(goal)

	// Shoot when in range, weighted up close to the nine meter line and
	// down under a tight step budget.
	if distGoal < cfg.Shot.LongShotDistance+3 {
		urgency := 1.0
		if ag.Steps >= cfg.Player.MaxSteps-1 {
			urgency = 3
		}
		if m.Rand().Float64() < hazard(pb.ShotDesire*urgency, dt) {
			ag.State = components.ActionPrepareShot
			if distGoal < cfg.Pitch.FreeThrowRadius+1 && m.Rand().Float64() < 0.5 {
				ag.State = components.ActionJumpShot
			}
			ag.Timer = cfg.Shot.PrepTime
			ag.HasTargetPos = false
			return
		}
	}

	// Move the ball on before the steps run out.
	urgency := 1.0
	if ag.Steps >= cfg.Player.MaxSteps-1 {
		urgency = 4
	}
	if m.Rand().Float64() < hazard(pb.PassDesire*urgency, dt) {
		if recv, ok := pb.bestReceiver(m, e); ok {
			ag.State = components.ActionPreparePass
			ag.Timer = cfg.Pass.PrepTime
			ag.Target = recv
			ag.HasTarget = true
			ag.HasTargetPos = false
			return
		}
	}

	// Otherwise advance toward the goal, shielding when crowded.
	if pressured(m, e) && geom.Attr01(m.Attributes(e).BallProtection) > 0.55 &&
		m.Rand().Float64() < hazard(0.6, dt) {
		ag.State = components.ActionShieldBall
		ag.Timer = 0
		ag.HasTargetPos = false
		return
	}

	ag.State = components.ActionMoveWithBall
	ag.TargetPos = attackSpot(m, ag.Team, ag.Role).Add(goal.Sub(tf.Pos).Norm().Scale(1.5))
	ag.HasTargetPos = true
}

// bestReceiver scores teammates by openness and progression and returns the
// best candidate.
func (pb *Playbook) bestReceiver(m *match.Match, passer ecs.Entity) (ecs.Entity, bool) {
	pa := m.Agent(passer)
	ptf := m.Transform(passer)
	goalX := m.AttackedGoalX(pa.Team)

	var best ecs.Entity
	bestScore := math.Inf(-1)
	found := false

	for _, e := range m.Players() {
		ag := m.Agent(e)
		if e == passer || ag.Team != pa.Team || !ag.OnCourt || ag.Role == components.RoleKeeper {
			continue
		}
		tf := m.Transform(e)
		dist := ptf.Pos.Dist(tf.Pos)
		if dist < 1 {
			continue
		}

		// Openness: distance from the nearest opponent to the lane.
		laneGap := math.Inf(1)
		for _, o := range m.Players() {
			oa := m.Agent(o)
			if oa.Team == pa.Team || !oa.OnCourt {
				continue
			}
			d, _ := geom.PointSegmentDist(m.Transform(o).Pos, ptf.Pos, tf.Pos)
			if d < laneGap {
				laneGap = d
			}
		}

		progress := math.Abs(goalX-ptf.Pos.X) - math.Abs(goalX-tf.Pos.X)
		score := math.Min(laneGap, 4)*2 + progress - dist*0.15
		if score > bestScore {
			best = e
			bestScore = score
			found = true
		}
	}
	return best, found
}

func (pb *Playbook) directAttacker(m *match.Match, e ecs.Entity) {
	ag := m.Agent(e)
	if ag.State == components.ActionReceivePass {
		// Keep converging on the ball's landing area.
		b := m.Ball()
		if b.HasReceiver && b.Receiver == e {
			ag.TargetPos = b.Pos.XY().Add(b.Vel.XY().Scale(0.2))
			ag.HasTargetPos = true
			return
		}
		ag.State = components.ActionMoveToPosition
	}
	ag.State = components.ActionMoveToPosition
	ag.TargetPos = attackSpot(m, ag.Team, ag.Role)
	ag.HasTargetPos = true
}

func (pb *Playbook) directDefender(m *match.Match, e ecs.Entity) {
	cfg := m.Config()
	ag := m.Agent(e)
	tf := m.Transform(e)
	dt := cfg.Physics.DT

	holder, hasHolder := m.Holder()
	if hasHolder {
		ha := m.Agent(holder)
		htf := m.Transform(holder)
		distToCarrier := tf.Pos.Dist(htf.Pos)

		// Close defenders may commit to a tackle.
		if distToCarrier < cfg.Tackle.Range*1.6 &&
			m.Rand().Float64() < hazard(pb.TackleCommit, dt) {
			ag.State = components.ActionAttemptTackle
			ag.Timer = cfg.Tackle.PrepTime
			ag.Target = holder
			ag.HasTarget = true
			ag.TargetPos = htf.Pos
			ag.HasTargetPos = true
			return
		}

		// Defenders in front of a winding-up shooter raise the wall.
		if (ha.State == components.ActionPrepareShot || ha.State == components.ActionJumpShot) &&
			distToCarrier < cfg.Block.ActiveRadius*2.5 {
			ag.State = components.ActionAttemptBlock
			if ha.State == components.ActionJumpShot && m.Rand().Float64() < 0.5 {
				ag.State = components.ActionJumpBlock
			}
			ag.Timer = cfg.Block.PrepTime
			ag.HasTargetPos = false
			return
		}

		// Anticipative defenders jump passing lanes while a pass winds up.
		if ha.State == components.ActionPreparePass &&
			geom.Attr01(m.Attributes(e).Anticipation) > 0.6 &&
			m.Rand().Float64() < hazard(1.2, dt) {
			ag.State = components.ActionAttemptIntercept
			ag.TargetPos = tf.Pos
			ag.HasTargetPos = true
			return
		}
	}

	// A pass in flight pulls nearby defenders into interception runs.
	b := m.Ball()
	if b.HasReceiver && b.Mode == components.BallInFlight {
		point, _ := systems.EstimateInterceptPoint(b, tf.Pos, m.Condition(e).EffectiveSpeed, cfg)
		if tf.Pos.Dist(point) < 4 {
			ag.State = components.ActionAttemptIntercept
			ag.TargetPos = point
			ag.HasTargetPos = true
			return
		}
	}

	ag.State = components.ActionMarkPlayer
	ag.TargetPos = defendSpot(m, ag.Team, ag.Role)
	ag.HasTargetPos = true
}

func (pb *Playbook) directLooseBall(m *match.Match, e ecs.Entity) {
	cfg := m.Config()
	ag := m.Agent(e)
	tf := m.Transform(e)
	b := m.Ball()

	point, _ := systems.EstimateInterceptPoint(b, tf.Pos, m.Condition(e).EffectiveSpeed, cfg)
	if pb.isClosestToPoint(m, e, point) {
		ag.State = components.ActionChaseBall
		ag.TargetPos = point
		ag.HasTargetPos = true
		return
	}

	ag.State = components.ActionMoveToPosition
	ag.TargetPos = defendSpot(m, ag.Team, ag.Role)
	ag.HasTargetPos = true
}

// isClosestToPoint reports whether e is their team's nearest court player to
// the point, ties broken by spawn order.
func (pb *Playbook) isClosestToPoint(m *match.Match, e ecs.Entity, p geom.Vec2) bool {
	ag := m.Agent(e)
	my := m.Transform(e).Pos.DistSq(p)
	for _, o := range m.Players() {
		if o == e {
			continue
		}
		oa := m.Agent(o)
		if oa.Team != ag.Team || !oa.OnCourt || oa.Role == components.RoleKeeper {
			continue
		}
		d := m.Transform(o).Pos.DistSq(p)
		if d < my {
			return false
		}
		if d == my && m.Agent(o).ID < ag.ID {
			return false
		}
	}
	return true
}

func (pb *Playbook) directKeeper(m *match.Match, e ecs.Entity) {
	cfg := m.Config()
	ag := m.Agent(e)

	goal := geom.Vec2{X: m.DefendedGoalX(ag.Team), Y: cfg.Derived.CenterY}
	ballAt := m.Ball().Pos.XY()

	dir := ballAt.Sub(goal).Norm()
	if dir == (geom.Vec2{}) {
		dir = geom.Vec2{X: m.AttackSign(ag.Team)}
	}

	// Hold a short arc off the line, facing the ball.
	ag.State = components.ActionKeeperPositioning
	ag.TargetPos = goal.Add(dir.Scale(1.2))
	ag.HasTargetPos = true
	m.Transform(e).Facing = dir.Angle()
}

// pressured reports whether an opponent is within touching distance.
func pressured(m *match.Match, e ecs.Entity) bool {
	cfg := m.Config()
	ag := m.Agent(e)
	tf := m.Transform(e)
	for _, o := range m.Players() {
		oa := m.Agent(o)
		if oa.Team == ag.Team || !oa.OnCourt {
			continue
		}
		if m.Transform(o).Pos.Dist(tf.Pos) < cfg.Physics.NeighborRadius {
			return true
		}
	}
	return false
}
