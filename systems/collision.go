package systems

import (
	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
)

// ResolvePlayerPair separates two overlapping players and exchanges an
// impulse along the contact normal. Positional correction is split by
// inverse mass, so stronger (heavier) players are displaced less; the
// impulse itself is the standard equal-and-opposite elastic form. A shield
// factor in [0,1] attenuates both the displacement and the impulse received
// by a ball carrier actively shielding.
func ResolvePlayerPair(tfA *components.Transform, condA *components.Condition, shieldA float64,
	tfB *components.Transform, condB *components.Condition, shieldB float64, cfg *config.Config) bool {

	minDist := 2 * cfg.Player.Radius
	delta := tfB.Pos.Sub(tfA.Pos)
	dist := delta.Len()
	if dist >= minDist {
		return false
	}

	var normal geom.Vec2
	if dist < 1e-9 {
		// Coincident players; pick a stable axis.
		normal = geom.Vec2{X: 1}
		dist = 1e-9
	} else {
		normal = delta.Scale(1 / dist)
	}

	attenA := 1 - cfg.Collision.ShieldAttenuation*geom.Clamp01(shieldA)
	attenB := 1 - cfg.Collision.ShieldAttenuation*geom.Clamp01(shieldB)

	invA := 1 / condA.Mass
	invB := 1 / condB.Mass
	invSum := invA + invB

	overlap := minDist - dist
	tfA.Pos = tfA.Pos.Sub(normal.Scale(overlap * (invA / invSum) * attenA))
	tfB.Pos = tfB.Pos.Add(normal.Scale(overlap * (invB / invSum) * attenB))

	// Impulse only when the pair is closing.
	relVel := tfB.Vel.Sub(tfA.Vel)
	approach := relVel.Dot(normal)
	if approach < 0 {
		j := -(1 + cfg.Collision.Restitution) * approach / invSum
		tfA.Vel = tfA.Vel.Sub(normal.Scale(j * invA * attenA))
		tfB.Vel = tfB.Vel.Add(normal.Scale(j * invB * attenB))
	}

	return true
}

// SpacingNudge applies the soft same-team repulsion that keeps formations
// from clustering. The push strength follows a power curve in proximity and
// acts on positions only, so it never injects momentum into collisions.
func SpacingNudge(tfA, tfB *components.Transform, cfg *config.Config) {
	spacing := cfg.Collision.SpacingDistance
	delta := tfB.Pos.Sub(tfA.Pos)
	dist := delta.Len()
	if dist >= spacing || dist < 1e-9 {
		return
	}

	normal := delta.Scale(1 / dist)
	closeness := 1 - dist/spacing
	push := cfg.Collision.SpacingStrength * geom.PowerCurve(closeness, cfg.Collision.SpacingPower) * cfg.Physics.DT

	tfA.Pos = tfA.Pos.Sub(normal.Scale(push / 2))
	tfB.Pos = tfB.Pos.Add(normal.Scale(push / 2))
}

// DeflectBall resolves contact between a free ball and a player's body.
// The ball's velocity is reflected about the contact normal, scaled by the
// deflection restitution, and blended back toward its incoming direction by
// the player's technique (a skilled body softens the ricochet). The player
// stumbles for a short recovery window. Returns true on contact.
func DeflectBall(b *components.Ball, tf *components.Transform, cond *components.Condition,
	attrs *components.Attributes, air *components.Airborne, cfg *config.Config) bool {

	if b.HasHolder {
		return false
	}
	if b.Pos.Z > ReachHeight(air, cfg) {
		return false
	}

	minDist := cfg.Player.Radius + cfg.Ball.Radius
	delta := b.Pos.XY().Sub(tf.Pos)
	dist := delta.Len()
	if dist >= minDist || dist < 1e-9 {
		return false
	}

	normal := delta.Scale(1 / dist)

	// Separate the ball out of the body.
	ground := tf.Pos.Add(normal.Scale(minDist))
	b.Pos.X = ground.X
	b.Pos.Y = ground.Y

	in := b.Vel
	horiz := geom.Vec2{X: in.X, Y: in.Y}
	dot := horiz.Dot(normal)
	reflected := horiz.Sub(normal.Scale(2 * dot))

	blend := cfg.Collision.DeflectTechBlend * geom.Attr01(attrs.Technique)
	out := geom.Vec2{
		X: geom.Lerp(reflected.X, horiz.X, blend),
		Y: geom.Lerp(reflected.Y, horiz.Y, blend),
	}.Scale(cfg.Collision.DeflectRestitution)

	b.Vel.X = out.X
	b.Vel.Y = out.Y
	b.Vel.Z = in.Z * cfg.Collision.DeflectRestitution
	if b.Mode == components.BallStopped {
		b.Mode = components.BallRolling
	}
	b.ClearReceiver()

	cond.StumbleTimer = cfg.Player.StumbleTime
	return true
}

// ClampPlayerToPitch keeps a player inside the court bounds minus the
// sideline buffer. Clamping a position already in bounds is a no-op.
func ClampPlayerToPitch(tf *components.Transform, cfg *config.Config) {
	margin := cfg.Physics.SidelineBuffer + cfg.Player.Radius
	tf.Pos.X = geom.Clamp(tf.Pos.X, margin, cfg.Pitch.Length-margin)
	tf.Pos.Y = geom.Clamp(tf.Pos.Y, margin, cfg.Pitch.Width-margin)
}
