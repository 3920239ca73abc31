package systems

import (
	"math"
	"testing"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/geom"
)

func TestResolvePlayerPairSymmetric(t *testing.T) {
	cfg := testConfig(t)
	attrs := neutralAttrs()
	condA := freshCondition(attrs, cfg)
	condB := freshCondition(attrs, cfg)

	tfA := &components.Transform{Pos: geom.Vec2{X: 10, Y: 10}, Vel: geom.Vec2{X: 2}}
	tfB := &components.Transform{Pos: geom.Vec2{X: 10.3, Y: 10}, Vel: geom.Vec2{X: -2}}

	pxBefore := condA.Mass*tfA.Vel.X + condB.Mass*tfB.Vel.X
	if !ResolvePlayerPair(tfA, condA, 0, tfB, condB, 0, cfg) {
		t.Fatal("overlapping pair reported no contact")
	}

	// Equal masses, no shield: displacement and velocity change mirror.
	if math.Abs((10-tfA.Pos.X)-(tfB.Pos.X-10.3)) > 1e-9 {
		t.Errorf("asymmetric separation: A at %v, B at %v", tfA.Pos.X, tfB.Pos.X)
	}
	pxAfter := condA.Mass*tfA.Vel.X + condB.Mass*tfB.Vel.X
	if math.Abs(pxAfter-pxBefore) > 1e-9 {
		t.Errorf("momentum changed: %v -> %v", pxBefore, pxAfter)
	}
	if tfA.Vel.X >= 2 || tfB.Vel.X <= -2 {
		t.Errorf("closing pair did not rebound: A %v, B %v", tfA.Vel.X, tfB.Vel.X)
	}
}

func TestResolvePlayerPairNoContact(t *testing.T) {
	cfg := testConfig(t)
	attrs := neutralAttrs()
	condA := freshCondition(attrs, cfg)
	condB := freshCondition(attrs, cfg)

	tfA := &components.Transform{Pos: geom.Vec2{X: 5, Y: 5}}
	tfB := &components.Transform{Pos: geom.Vec2{X: 5 + 2*cfg.Player.Radius + 0.01, Y: 5}}

	if ResolvePlayerPair(tfA, condA, 0, tfB, condB, 0, cfg) {
		t.Error("separated pair reported contact")
	}
	if tfA.Pos.X != 5 {
		t.Errorf("no-contact resolution moved a player to %v", tfA.Pos.X)
	}
}

func TestStrengthReducesDisplacement(t *testing.T) {
	cfg := testConfig(t)

	strong := neutralAttrs()
	strong.Strength = 80
	weak := neutralAttrs()
	weak.Strength = 20

	condS := freshCondition(strong, cfg)
	condW := freshCondition(weak, cfg)

	// Head-on at equal speed.
	tfS := &components.Transform{Pos: geom.Vec2{X: 10, Y: 10}, Vel: geom.Vec2{X: 3}}
	tfW := &components.Transform{Pos: geom.Vec2{X: 10.2, Y: 10}, Vel: geom.Vec2{X: -3}}

	ResolvePlayerPair(tfS, condS, 0, tfW, condW, 0, cfg)

	moveS := math.Abs(tfS.Pos.X - 10)
	moveW := math.Abs(tfW.Pos.X - 10.2)
	if moveS >= moveW {
		t.Errorf("strong player displaced %v, weak %v; want strong < weak", moveS, moveW)
	}

	dvS := math.Abs(tfS.Vel.X - 3)
	dvW := math.Abs(tfW.Vel.X - (-3))
	if dvW <= dvS {
		t.Errorf("weak player velocity change %v not above strong player's %v", dvW, dvS)
	}
}

func TestShieldAttenuatesDisplacement(t *testing.T) {
	cfg := testConfig(t)
	attrs := neutralAttrs()

	displacement := func(shield float64) float64 {
		condA := freshCondition(attrs, cfg)
		condB := freshCondition(attrs, cfg)
		tfA := &components.Transform{Pos: geom.Vec2{X: 10, Y: 10}}
		tfB := &components.Transform{Pos: geom.Vec2{X: 10.2, Y: 10}}
		ResolvePlayerPair(tfA, condA, shield, tfB, condB, 0, cfg)
		return math.Abs(tfA.Pos.X - 10)
	}

	if shielded, open := displacement(1), displacement(0); shielded >= open {
		t.Errorf("shielded displacement %v not below unshielded %v", shielded, open)
	}
}

func TestSpacingNudge(t *testing.T) {
	cfg := testConfig(t)

	tfA := &components.Transform{Pos: geom.Vec2{X: 10, Y: 10}, Vel: geom.Vec2{X: 1}}
	tfB := &components.Transform{Pos: geom.Vec2{X: 10 + cfg.Collision.SpacingDistance/2, Y: 10}}

	SpacingNudge(tfA, tfB, cfg)
	if tfA.Pos.X >= 10 || tfB.Pos.X <= 10+cfg.Collision.SpacingDistance/2 {
		t.Errorf("nudge did not separate: A %v, B %v", tfA.Pos.X, tfB.Pos.X)
	}
	if tfA.Vel.X != 1 {
		t.Errorf("nudge touched velocity: %v", tfA.Vel.X)
	}

	// Outside the spacing radius nothing moves.
	far := &components.Transform{Pos: geom.Vec2{X: 10 + cfg.Collision.SpacingDistance + 1, Y: 10}}
	before := tfA.Pos
	SpacingNudge(tfA, far, cfg)
	if tfA.Pos != before {
		t.Error("nudge acted beyond spacing distance")
	}
}

func TestDeflectBall(t *testing.T) {
	cfg := testConfig(t)
	attrs := neutralAttrs()
	cond := freshCondition(attrs, cfg)
	air := &components.Airborne{}
	tf := &components.Transform{Pos: geom.Vec2{X: 10, Y: 10}}

	b := &components.Ball{
		Mode:        components.BallInFlight,
		Pos:         geom.Vec3{X: 10 - cfg.Player.Radius, Y: 10, Z: 1},
		Vel:         geom.Vec3{X: 8, Y: 0, Z: 0},
		HasReceiver: true,
	}

	if !DeflectBall(b, tf, cond, attrs, air, cfg) {
		t.Fatal("ball inside the body did not deflect")
	}
	if b.Vel.X >= 0 {
		t.Errorf("deflected vel.X = %v, want reversed", b.Vel.X)
	}
	if b.HasReceiver {
		t.Error("deflection must make the ball loose")
	}
	if cond.StumbleTimer != cfg.Player.StumbleTime {
		t.Errorf("stumble timer = %v, want %v", cond.StumbleTimer, cfg.Player.StumbleTime)
	}
	if dist := b.Pos.XY().Dist(tf.Pos); dist < cfg.Player.Radius+cfg.Ball.Radius-1e-9 {
		t.Errorf("ball still embedded at distance %v", dist)
	}
}

func TestDeflectBallIgnoresHighBall(t *testing.T) {
	cfg := testConfig(t)
	attrs := neutralAttrs()
	cond := freshCondition(attrs, cfg)
	air := &components.Airborne{}
	tf := &components.Transform{Pos: geom.Vec2{X: 10, Y: 10}}

	b := &components.Ball{
		Mode: components.BallInFlight,
		Pos:  geom.Vec3{X: 10, Y: 10, Z: ReachHeight(air, cfg) + 0.5},
		Vel:  geom.Vec3{X: 8},
	}
	if DeflectBall(b, tf, cond, attrs, air, cfg) {
		t.Error("ball above reach height deflected")
	}

	held := &components.Ball{Mode: components.BallHeld, HasHolder: true, Pos: geom.Vec3{X: 10, Y: 10, Z: 1}}
	if DeflectBall(held, tf, cond, attrs, air, cfg) {
		t.Error("held ball deflected")
	}
}

func TestClampPlayerToPitchIdempotent(t *testing.T) {
	cfg := testConfig(t)
	tf := &components.Transform{Pos: geom.Vec2{X: -3, Y: 100}}

	ClampPlayerToPitch(tf, cfg)
	first := tf.Pos
	ClampPlayerToPitch(tf, cfg)
	if tf.Pos != first {
		t.Errorf("second clamp moved the player: %v -> %v", first, tf.Pos)
	}

	margin := cfg.Physics.SidelineBuffer + cfg.Player.Radius
	if tf.Pos.X < margin-1e-9 || tf.Pos.Y > cfg.Pitch.Width-margin+1e-9 {
		t.Errorf("clamped position %v outside playable bounds", tf.Pos)
	}
}
