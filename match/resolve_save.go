package match

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
)

// saveChance shapes the keeper's chance against an on-target shot. The
// keeper must physically cover the impact point within the flight time;
// impacts beyond reach, skidding under the dive, or arriving from outside
// the facing cone collapse the chance instead of merely reducing it.
func saveChance(reflexes, handling, agility, shooterPower float64,
	lateral, impactZ, flight, dist float64, inCone bool, cfg *config.Config) float64 {

	agility01 := geom.Attr01(agility)
	reach := cfg.Save.ArmReach + cfg.Save.ReachSpeed*(1+cfg.Save.AgilityReachSpan*(2*agility01-1))*math.Max(flight, 0)
	if lateral > reach {
		return 0
	}

	p := cfg.Save.BaseChance
	p *= 2 * geom.SkillSigmoid(reflexes, cfg.Save.SkillSteepness)
	p *= 0.75 + 0.5*geom.SkillSigmoid(handling, cfg.Save.SkillSteepness)

	// Stretch saves at the edge of reach succeed less than central ones.
	p *= 1 - 0.5*geom.Clamp01(lateral/reach)

	if impactZ < cfg.Save.MinHeight {
		p *= 0.4
	}
	if !inCone {
		p *= 0.3
	}

	switch {
	case dist <= cfg.Save.CloseRange:
		p *= geom.Lerp(0.45, 1, dist/cfg.Save.CloseRange)
	case dist >= cfg.Save.LongRange:
		p *= 1.3
	}

	p *= 1 - cfg.Save.PowerCounter*geom.Attr01(shooterPower)
	return geom.Clamp01(p)
}

// resolveSave rolls the defending keeper against an on-target shot.
func (m *Match) resolveSave(shooter ecs.Entity, sa *components.Agent, impact geom.Vec3, flight, speed float64) (ecs.Entity, bool) {
	cfg := m.cfg

	keeper, ok := m.Keeper(1 - sa.Team)
	if !ok {
		return ecs.Entity{}, false
	}

	ktf := m.posMap.Get(keeper)
	kattrs := m.attrMap.Get(keeper)
	stf := m.posMap.Get(shooter)

	lateral := math.Abs(impact.Y - ktf.Pos.Y)
	dist := stf.Pos.Dist(ktf.Pos)

	toShot := stf.Pos.Sub(ktf.Pos)
	inCone := true
	if toShot.LenSq() > 1e-9 {
		off := math.Abs(geom.NormalizeAngle(toShot.Angle() - ktf.Facing))
		inCone = off <= cfg.Save.FacingConeDeg*math.Pi/180
	}

	p := saveChance(
		kattrs.Reflexes, kattrs.Handling, kattrs.Agility, m.attrMap.Get(shooter).Power,
		lateral, impact.Z, flight, dist, inCone, cfg,
	)

	return keeper, m.rng.Float64() < p
}
