package systems

import (
	"testing"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/geom"
)

func TestStaminaDrainsWhenSprinting(t *testing.T) {
	cfg := testConfig(t)
	attrs := neutralAttrs()
	cond := freshCondition(attrs, cfg)
	tf := &components.Transform{Vel: geom.Vec2{X: cond.EffectiveSpeed}}

	for i := 0; i < 300; i++ {
		UpdateStamina(cond, attrs, tf, cfg)
		tf.Vel = geom.Vec2{X: cond.EffectiveSpeed}
	}
	if cond.Stamina >= 1 {
		t.Errorf("stamina = %v after 10s sprint, want drained", cond.Stamina)
	}
	if cond.EffectiveSpeed >= cond.BaseSpeed {
		t.Errorf("effective speed %v did not drop below base %v", cond.EffectiveSpeed, cond.BaseSpeed)
	}
}

func TestStaminaRecoversAtRest(t *testing.T) {
	cfg := testConfig(t)
	attrs := neutralAttrs()
	cond := freshCondition(attrs, cfg)
	cond.Stamina = 0.4
	cond.EffectiveSpeed = EffectiveSpeed(cond.BaseSpeed, cond.Stamina, cfg)
	tf := &components.Transform{}

	UpdateStamina(cond, attrs, tf, cfg)
	if cond.Stamina <= 0.4 {
		t.Errorf("stamina = %v, want recovery above 0.4", cond.Stamina)
	}
}

func TestStaminaStaysClamped(t *testing.T) {
	cfg := testConfig(t)
	attrs := neutralAttrs()

	cond := freshCondition(attrs, cfg)
	cond.Stamina = 0.001
	tf := &components.Transform{Vel: geom.Vec2{X: 50}}
	for i := 0; i < 600; i++ {
		UpdateStamina(cond, attrs, tf, cfg)
	}
	if cond.Stamina < 0 || cond.Stamina > 1 {
		t.Errorf("stamina = %v, want within [0,1]", cond.Stamina)
	}

	cond.Stamina = 0.999
	tf.Vel = geom.Vec2{}
	for i := 0; i < 600; i++ {
		UpdateStamina(cond, attrs, tf, cfg)
	}
	if cond.Stamina < 0 || cond.Stamina > 1 {
		t.Errorf("stamina = %v, want within [0,1]", cond.Stamina)
	}
}

func TestStaminaAttributeSlowsDrain(t *testing.T) {
	cfg := testConfig(t)

	drainAfter := func(staminaAttr float64) float64 {
		attrs := neutralAttrs()
		attrs.Stamina = staminaAttr
		cond := freshCondition(attrs, cfg)
		tf := &components.Transform{Vel: geom.Vec2{X: cond.EffectiveSpeed}}
		for i := 0; i < 300; i++ {
			UpdateStamina(cond, attrs, tf, cfg)
			tf.Vel = geom.Vec2{X: cond.EffectiveSpeed}
		}
		return cond.Stamina
	}

	fit := drainAfter(80)
	unfit := drainAfter(20)
	if fit <= unfit {
		t.Errorf("stamina attr 80 ends at %v, not above attr 20 at %v", fit, unfit)
	}
}

func TestStumbleTimerDecrements(t *testing.T) {
	cfg := testConfig(t)
	attrs := neutralAttrs()
	cond := freshCondition(attrs, cfg)
	cond.StumbleTimer = 2 * cfg.Physics.DT
	tf := &components.Transform{}

	UpdateStamina(cond, attrs, tf, cfg)
	if cond.StumbleTimer <= 0 {
		t.Errorf("stumble timer expired too early: %v", cond.StumbleTimer)
	}
	UpdateStamina(cond, attrs, tf, cfg)
	UpdateStamina(cond, attrs, tf, cfg)
	if cond.StumbleTimer != 0 {
		t.Errorf("stumble timer = %v, want 0", cond.StumbleTimer)
	}
}
