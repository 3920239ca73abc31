package match

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
)

// blockChance shapes one defender's chance of getting a hand or body on a
// shot. Active blockers (committed to a block, in the shot cone) use the
// skill-scaled base with a timing factor; any other body in the narrow
// passive cone contributes only the flat passive chance.
func blockChance(active bool, blocking, timing float64, cfg *config.Config) float64 {
	if !active {
		return geom.Clamp01(cfg.Block.PassiveChance)
	}
	p := cfg.Block.ActiveChance
	p *= 2 * geom.SkillSigmoid(blocking, cfg.Block.SkillSteepness)
	p *= timing
	return geom.Clamp01(p)
}

// runBlockGauntlet rolls every candidate defender between the shooter and
// the goal, in stable player order. Chances combine independently, so three
// defenders at 0.4 each stop 1-(0.6)^3 of shots between them. Returns the
// first blocker to connect.
func (m *Match) runBlockGauntlet(shooter ecs.Entity, sa *components.Agent, dir geom.Vec2) (ecs.Entity, bool) {
	cfg := m.cfg
	stf := m.posMap.Get(shooter)
	goalX := m.AttackedGoalX(sa.Team)
	lineEnd := stf.Pos.Add(dir.Scale(stf.Pos.Dist(geom.Vec2{X: goalX, Y: cfg.Derived.CenterY})))

	activeCone := cfg.Block.ActiveConeDeg * math.Pi / 180
	passiveCone := cfg.Block.PassiveConeDeg * math.Pi / 180
	shotAngle := dir.Angle()

	for _, e := range m.players {
		ag := m.agentMap.Get(e)
		if !ag.OnCourt || ag.Team == sa.Team || ag.Role == components.RoleKeeper {
			continue
		}
		tf := m.posMap.Get(e)

		toDef := tf.Pos.Sub(stf.Pos)
		if toDef.Dot(dir) <= 0 {
			continue
		}
		off := math.Abs(geom.NormalizeAngle(toDef.Angle() - shotAngle))
		laneDist, _ := geom.PointSegmentDist(tf.Pos, stf.Pos, lineEnd)

		active := ag.State == components.ActionAttemptBlock || ag.State == components.ActionJumpBlock
		var p float64
		switch {
		case active && off <= activeCone && laneDist <= cfg.Block.ActiveRadius:
			timing := cfg.Block.TimingPenalty
			if ag.Timer <= cfg.Block.TimingWindow {
				timing = cfg.Block.TimingBonus
			}
			p = blockChance(true, m.attrMap.Get(e).Blocking, timing, cfg)
		case off <= passiveCone && laneDist <= cfg.Block.PassiveRadius:
			p = blockChance(false, 0, 0, cfg)
		default:
			continue
		}

		if m.rng.Float64() < p {
			ag.State = components.ActionMoveToPosition
			ag.Timer = 0
			return e, true
		}
	}
	return ecs.Entity{}, false
}
