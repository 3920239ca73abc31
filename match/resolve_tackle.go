package match

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
)

// tackleSuccessChance shapes the chance of cleanly dislodging the ball: the
// tackler's tackling against the carrier's ball protection, centered so an
// even matchup yields the base rate.
func tackleSuccessChance(tackling, protection float64, cfg *config.Config) float64 {
	diff := geom.SaneAttr(tackling) - geom.SaneAttr(protection)
	p := cfg.Tackle.BaseSuccess * 2 * geom.Sigmoid(diff*cfg.Tackle.SkillSteepness)
	return geom.Clamp01(p)
}

// tackleFoulChance shapes the chance the attempt is whistled. Approaching
// from behind, arriving at reckless closing speed, and denying a clear
// chance all multiply the base rate.
func tackleFoulChance(aggression float64, fromBehind, highSpeed, clearChance bool, cfg *config.Config) float64 {
	p := cfg.Tackle.BaseFoul
	p *= 0.5 + geom.Attr01(aggression)
	if fromBehind {
		p *= cfg.Tackle.FromBehindFoulMult
	}
	if highSpeed {
		p *= cfg.Tackle.HighSpeedFoulMult
	}
	if clearChance {
		p *= cfg.Tackle.ClearChanceFoulMult
	}
	return geom.Clamp01(p)
}

// resolveTackle fires when a tackle wind-up completes. The foul roll runs
// first; only a clean attempt proceeds to the dispossession roll.
func (m *Match) resolveTackle(e ecs.Entity) {
	ag := m.agentMap.Get(e)
	ag.State = components.ActionMoveToPosition
	if !ag.HasTarget {
		return
	}
	target := ag.Target
	ag.HasTarget = false

	ta := m.agentMap.Get(target)
	if ta == nil || !ta.OnCourt || ta.Team == ag.Team || !ta.HasBall {
		return
	}

	cfg := m.cfg
	tf := m.posMap.Get(e)
	ttf := m.posMap.Get(target)

	if tf.Pos.Dist(ttf.Pos) > cfg.Tackle.Range {
		m.emit(Outcome{
			Kind:         OutcomeTackleMissed,
			Team:         ag.Team,
			Player:       ag.ID,
			Other:        ta.ID,
			PossessionTo: components.NoTeam,
			Reason:       "out of range",
		})
		return
	}

	// From behind: the tackler sits inside the cone around the carrier's
	// back, opposite their facing.
	approach := tf.Pos.Sub(ttf.Pos)
	backAngle := geom.NormalizeAngle(ttf.Facing + math.Pi)
	fromBehind := math.Abs(geom.NormalizeAngle(approach.Angle()-backAngle)) <= cfg.Tackle.FromBehindCone/2

	closing := tf.Vel.Sub(ttf.Vel).Len()
	highSpeed := closing > cfg.Tackle.HighSpeedClose

	clearChance := m.isClearChance(target, ta)

	attrs := m.attrMap.Get(e)
	tattrs := m.attrMap.Get(target)

	foulP := tackleFoulChance(attrs.Aggression, fromBehind, highSpeed, clearChance, cfg)
	if m.rng.Float64() < foulP {
		m.applyFoul(e, target, fromBehind, highSpeed, clearChance)
		return
	}

	winP := tackleSuccessChance(attrs.Tackling, tattrs.BallProtection, cfg)
	if m.rng.Float64() < winP {
		m.giveBall(e)
		ag.State = components.ActionMoveWithBall
		ta.State = components.ActionMoveToPosition
		m.condMap.Get(target).StumbleTimer = cfg.Player.StumbleTime
		m.emit(Outcome{
			Kind:         OutcomeTackleWon,
			Team:         ag.Team,
			Player:       ag.ID,
			Other:        ta.ID,
			PossessionTo: ag.Team,
		})
		return
	}

	m.emit(Outcome{
		Kind:         OutcomeTackleMissed,
		Team:         ag.Team,
		Player:       ag.ID,
		Other:        ta.ID,
		PossessionTo: components.NoTeam,
	})
}

// isClearChance reports whether the carrier is through on goal: inside long
// shot range with no defender other than the keeper between them and the
// goal mouth.
func (m *Match) isClearChance(carrier ecs.Entity, ca *components.Agent) bool {
	cfg := m.cfg
	tf := m.posMap.Get(carrier)
	goal := geom.Vec2{X: m.AttackedGoalX(ca.Team), Y: cfg.Derived.CenterY}
	if tf.Pos.Dist(goal) > cfg.Shot.LongShotDistance {
		return false
	}
	for _, e := range m.players {
		ag := m.agentMap.Get(e)
		if e == carrier || !ag.OnCourt || ag.Team == ca.Team || ag.Role == components.RoleKeeper {
			continue
		}
		laneDist, _ := geom.PointSegmentDist(m.posMap.Get(e).Pos, tf.Pos, goal)
		if laneDist < cfg.Block.PassiveRadius {
			return false
		}
	}
	return true
}
