package systems

import (
	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
)

// UpdateStamina evolves a player's fatigue for one tick. Effort is current
// speed over effective top speed; significant movement drains, rest
// recovers, and both rates are attribute-weighted. Stamina is clamped to
// [0,1] and effective speed is recomputed so the feedback applies next tick.
func UpdateStamina(cond *components.Condition, attrs *components.Attributes, tf *components.Transform, cfg *config.Config) {
	dt := cfg.Physics.DT

	effort := 0.0
	if cond.EffectiveSpeed > 0 {
		effort = tf.Vel.Len() / cond.EffectiveSpeed
	}

	if effort > cfg.Stamina.MoveThreshold {
		drain := cfg.Stamina.DrainRate
		if effort > cfg.Stamina.SprintThreshold {
			drain *= cfg.Stamina.SprintMultiplier
		}

		// A high stamina attribute attenuates drain on a gentle power
		// curve; determination, work rate, and resilience shave a little
		// more off for players who pace themselves.
		drain *= 1.6 - geom.PowerCurve(geom.Attr01(attrs.Stamina), cfg.Stamina.StaminaAttrPower)
		drain *= 1.0 - 0.1*(geom.Attr01(attrs.Determination)-0.5)
		drain *= 1.0 - 0.1*(geom.Attr01(attrs.WorkRate)-0.5)
		drain *= 1.0 - 0.1*(geom.Attr01(attrs.Resilience)-0.5)

		cond.Stamina -= drain * dt
	} else {
		recover := cfg.Stamina.RecoveryRate
		recover *= 0.5 + geom.SkillSigmoid(attrs.NaturalFitness, cfg.Stamina.FitnessSteepness)
		cond.Stamina += recover * dt
	}

	cond.Stamina = geom.Clamp01(cond.Stamina)
	cond.EffectiveSpeed = EffectiveSpeed(cond.BaseSpeed, cond.Stamina, cfg)

	if cond.StumbleTimer > 0 {
		cond.StumbleTimer -= dt
		if cond.StumbleTimer < 0 {
			cond.StumbleTimer = 0
		}
	}
}
