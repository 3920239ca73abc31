package match

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
)

// penaltySaveChance shapes the keeper's chance in the seven meter duel.
// Diving into the right zone dominates; the shooter-keeper attribute gap
// shifts the base by at most the configured blend.
func penaltySaveChance(matched bool, reflexes, shooting float64, cfg *config.Config) float64 {
	base := cfg.Penalty.BaseSaveUnmatched
	if matched {
		base = cfg.Penalty.BaseSaveMatched
	}
	diff := 2*geom.Sigmoid((geom.SaneAttr(reflexes)-geom.SaneAttr(shooting))*cfg.Save.SkillSteepness) - 1
	return geom.Clamp01(base * (1 + cfg.Penalty.AttributeBlend*diff))
}

// keeperZonePick draws the keeper's dive zone. The center bias models the
// keeper's reluctance to stand still: center probability shrinks by the
// bias, the remainder splits evenly between the corners.
func keeperZonePick(rng *rand.Rand, cfg *config.Config) int {
	pCenter := (1.0 / 3.0) * (1 - cfg.Penalty.CenterBias)
	r := rng.Float64()
	switch {
	case r < pCenter:
		return 1
	case r < pCenter+(1-pCenter)/2:
		return 0
	default:
		return 2
	}
}

// resolvePenalty fires the seven meter throw as a three zone duel: the
// shooter commits to a zone during the wind-up, the keeper dives on release.
// A small composure-driven miss chance precedes the duel.
func (m *Match) resolvePenalty(e ecs.Entity) {
	ag := m.agentMap.Get(e)
	ag.State = components.ActionMoveToPosition
	if !ag.HasBall {
		return
	}

	cfg := m.cfg
	attrs := m.attrMap.Get(e)

	shotZone := ag.AimZone
	if shotZone < 0 || shotZone > 2 {
		shotZone = m.rng.Intn(3)
	}
	keeperZone := keeperZonePick(m.rng, cfg)

	keeper, hasKeeper := m.Keeper(1 - ag.Team)

	// Impact point for telemetry: zone center on the goal plane.
	goalX := m.AttackedGoalX(ag.Team)
	zoneY := cfg.Derived.CenterY + float64(shotZone-1)*cfg.Pitch.GoalWidth/3
	impact := geom.Vec3{X: goalX, Y: zoneY, Z: cfg.Pitch.GoalHeight * 0.45}

	ag.HasBall = false
	ag.Steps = 0
	m.ball.HasHolder = false
	m.ball.ClearReceiver()

	pMiss := geom.Clamp01(0.12 * (1 - geom.SkillSigmoid(attrs.Composure, cfg.Shot.SkillSteepness)))
	if m.rng.Float64() < pMiss {
		m.ball.Mode = components.BallStopped
		m.ball.Vel = geom.Vec3{}
		m.possession = components.NoTeam
		m.emit(Outcome{
			Kind:         OutcomePenaltyMissed,
			Team:         ag.Team,
			Player:       ag.ID,
			Other:        -1,
			PossessionTo: 1 - ag.Team,
			Impact:       impact,
			Reason:       "off target",
		})
		m.freeThrow(1-ag.Team, geom.Vec2{X: m.DefendedGoalX(1-ag.Team), Y: cfg.Derived.CenterY})
		return
	}

	if hasKeeper {
		kattrs := m.attrMap.Get(keeper)
		p := penaltySaveChance(keeperZone == shotZone, kattrs.Reflexes, attrs.Shooting, cfg)
		if m.rng.Float64() < p {
			ka := m.agentMap.Get(keeper)
			m.giveBall(keeper)
			ka.State = components.ActionMoveWithBall
			m.emit(Outcome{
				Kind:         OutcomePenaltySaved,
				Team:         ag.Team,
				Player:       ag.ID,
				Other:        ka.ID,
				PossessionTo: ka.Team,
				Impact:       impact,
			})
			return
		}
	}

	m.goalScored(OutcomePenaltyGoal, ag.Team, ag.ID, impact, "seven meter throw")
}
