package systems

import (
	"math"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
)

// Integrate advances one player's ground motion toward the target position
// supplied by the tactical layer. The desired velocity is converted into an
// acceleration-limited update: sprint gating and arrival slowdown shape the
// target speed, then the required acceleration is clamped to agility-scaled
// accel/decel limits and integrated by explicit Euler.
func Integrate(tf *components.Transform, cond *components.Condition, attrs *components.Attributes, target geom.Vec2, allowSprint, arrival bool, cfg *config.Config) {
	dt := cfg.Physics.DT
	toTarget := target.Sub(tf.Pos)
	dist := toTarget.Len()

	targetSpeed := cond.EffectiveSpeed
	if !allowSprint || dist < cfg.Motion.SprintMinDistance || cond.Stamina < cfg.Motion.SprintMinStamina {
		targetSpeed *= cfg.Motion.CruiseFactor
	}
	if cond.StumbleTimer > 0 {
		targetSpeed *= cfg.Motion.StumbleSpeedCap
	}

	// Square-root ease-out inside the arrival radius keeps approach speed
	// proportional to sqrt(distance), which stops without overshoot under
	// the decel limit below.
	if arrival && dist < cfg.Motion.ArrivalRadius && cfg.Motion.ArrivalRadius > 0 {
		targetSpeed *= math.Sqrt(dist / cfg.Motion.ArrivalRadius)
	}

	var targetVel geom.Vec2
	if dist > 1e-9 {
		targetVel = toTarget.Scale(targetSpeed / dist)
	}

	// Required acceleration to hit the target velocity this tick.
	accel := targetVel.Sub(tf.Vel).Scale(1.0 / dt)

	agility := geom.Attr01(attrs.Agility)
	scale := 1.0 + cfg.Motion.AgilityAccelSpan*(2*agility-1)
	limit := cfg.Motion.BaseAccel * scale
	// Slowing down is easier than speeding up.
	if targetVel.LenSq() < tf.Vel.LenSq() {
		limit = cfg.Motion.BaseDecel * scale
	}

	if mag := accel.Len(); mag > limit {
		accel = accel.Scale(limit / mag)
	}

	tf.Vel = tf.Vel.Add(accel.Scale(dt))
	tf.Pos = tf.Pos.Add(tf.Vel.Scale(dt))

	if tf.Vel.LenSq() > 0.01 {
		tf.Facing = tf.Vel.Angle()
	}
}

// EffectiveSpeed applies the convex stamina falloff to a player's base
// speed. Full stamina gives the full base speed; the curve drops steeply
// only once stamina is well depleted.
func EffectiveSpeed(baseSpeed, stamina float64, cfg *config.Config) float64 {
	s := geom.Clamp01(stamina)
	frac := cfg.Stamina.EffectiveFloor + (1-cfg.Stamina.EffectiveFloor)*geom.PowerCurve(s, cfg.Stamina.EffectivePower)
	return baseSpeed * frac
}

// BaseSpeed derives a player's top speed from the pace attribute.
func BaseSpeed(pace float64, cfg *config.Config) float64 {
	return cfg.Player.BaseSpeed + cfg.Player.SpeedPerPace*geom.Attr01(pace)
}

// PlayerMass derives collision mass from the strength attribute.
func PlayerMass(strength float64, cfg *config.Config) float64 {
	return cfg.Player.BaseMass + cfg.Player.MassPerStr*geom.SaneAttr(strength)
}
