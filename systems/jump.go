package systems

import (
	"math"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
)

// StartJump launches a player into parabolic vertical motion. Apex height
// scales with the jumping attribute; horizontal motion is untouched.
func StartJump(air *components.Airborne, jumping float64, cfg *config.Config) {
	if air.Active {
		return
	}
	apex := cfg.Jump.BaseHeight + cfg.Jump.HeightSpan*geom.Attr01(jumping)
	air.Active = true
	air.Z = 0
	air.VZ = math.Sqrt(2 * cfg.Physics.Gravity * apex)
}

// UpdateJump integrates vertical motion and the landing recovery window.
func UpdateJump(air *components.Airborne, cfg *config.Config) {
	dt := cfg.Physics.DT

	if air.Active {
		air.VZ -= cfg.Physics.Gravity * dt
		air.Z += air.VZ * dt
		if air.Z <= 0 {
			air.Z = 0
			air.VZ = 0
			air.Active = false
			air.Recover = cfg.Jump.RecoveryTime
		}
		return
	}

	if air.Recover > 0 {
		air.Recover -= dt
		if air.Recover < 0 {
			air.Recover = 0
		}
	}
}

// ReachHeight is how high a player can contest the ball right now.
func ReachHeight(air *components.Airborne, cfg *config.Config) float64 {
	return cfg.Player.ReachHeight + air.Z
}
