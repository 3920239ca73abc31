package systems

import (
	"testing"

	"github.com/ahlgreen/handsim/components"
)

func TestJumpApexScalesWithJumping(t *testing.T) {
	cfg := testConfig(t)

	apex := func(jumping float64) float64 {
		air := &components.Airborne{}
		StartJump(air, jumping, cfg)
		top := 0.0
		for i := 0; i < 300 && (air.Active || top == 0); i++ {
			UpdateJump(air, cfg)
			if air.Z > top {
				top = air.Z
			}
		}
		return top
	}

	low := apex(20)
	high := apex(80)
	if high <= low {
		t.Errorf("jumping 80 apex %v not above jumping 20 apex %v", high, low)
	}
	if low < cfg.Jump.BaseHeight*0.5 {
		t.Errorf("apex %v implausibly low for base height %v", low, cfg.Jump.BaseHeight)
	}
}

func TestJumpLandingRecovery(t *testing.T) {
	cfg := testConfig(t)
	air := &components.Airborne{}
	StartJump(air, 50, cfg)

	for i := 0; i < 300 && air.Active; i++ {
		UpdateJump(air, cfg)
	}
	if air.Active {
		t.Fatal("jump never landed")
	}
	if air.Z != 0 || air.VZ != 0 {
		t.Errorf("landed state z=%v vz=%v, want zeros", air.Z, air.VZ)
	}
	if air.Recover != cfg.Jump.RecoveryTime {
		t.Errorf("recovery = %v, want %v on landing", air.Recover, cfg.Jump.RecoveryTime)
	}

	for i := 0; i < 600 && air.Recover > 0; i++ {
		UpdateJump(air, cfg)
	}
	if air.Recover != 0 {
		t.Errorf("recovery never drained: %v", air.Recover)
	}
}

func TestStartJumpWhileAirborneIgnored(t *testing.T) {
	cfg := testConfig(t)
	air := &components.Airborne{}
	StartJump(air, 50, cfg)
	vz := air.VZ

	StartJump(air, 95, cfg)
	if air.VZ != vz {
		t.Errorf("mid-air relaunch changed vz %v -> %v", vz, air.VZ)
	}
}

func TestReachHeightTracksAirborne(t *testing.T) {
	cfg := testConfig(t)
	grounded := &components.Airborne{}
	jumping := &components.Airborne{Active: true, Z: 0.4}

	if got := ReachHeight(grounded, cfg); got != cfg.Player.ReachHeight {
		t.Errorf("grounded reach = %v, want %v", got, cfg.Player.ReachHeight)
	}
	if got := ReachHeight(jumping, cfg); got != cfg.Player.ReachHeight+0.4 {
		t.Errorf("airborne reach = %v, want %v", got, cfg.Player.ReachHeight+0.4)
	}
}
