package systems

import (
	"math"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
)

// ballAccel computes the force model for a free ball: gravity, quadratic
// drag opposing velocity, and a simplified Magnus term proportional to
// spin × velocity.
func ballAccel(vel, spin geom.Vec3, cfg *config.Config) geom.Vec3 {
	acc := geom.Vec3{Z: -cfg.Physics.Gravity}

	speed := vel.Len()
	if speed > 0 {
		drag := vel.Scale(-cfg.Ball.DragCoeff * speed)
		acc = acc.Add(drag)
	}

	magnus := spin.Cross(vel).Scale(cfg.Ball.MagnusCoeff)
	return acc.Add(magnus)
}

// AdvanceBall advances a free ball by one tick. Held balls are positioned
// from their holder elsewhere; this handles InFlight and Rolling, including
// the transitions between flight, bouncing, rolling, and stopped.
func AdvanceBall(b *components.Ball, cfg *config.Config) {
	switch b.Mode {
	case components.BallInFlight:
		advanceFlight(b, cfg)
	case components.BallRolling:
		advanceRolling(b, cfg)
	}

	// Numerical degeneracy is unrecoverable mid-flight; force-stop the
	// ball in place rather than letting NaN spread through the match.
	if !b.Pos.IsFinite() || !b.Vel.IsFinite() {
		b.Pos = geom.Vec3{X: cfg.Derived.CenterX, Y: cfg.Derived.CenterY, Z: cfg.Ball.Radius}
		b.Vel = geom.Vec3{}
		b.Spin = geom.Vec3{}
		b.Mode = components.BallStopped
		b.ClearReceiver()
	}

	ClampBallToPitch(b, cfg)
}

// advanceFlight integrates the in-flight ball with a midpoint (RK2) step,
// decays spin exponentially, and resolves goal-frame and ground contacts.
func advanceFlight(b *components.Ball, cfg *config.Config) {
	dt := cfg.Physics.DT

	k1 := ballAccel(b.Vel, b.Spin, cfg)
	midVel := b.Vel.Add(k1.Scale(dt / 2))
	k2 := ballAccel(midVel, b.Spin, cfg)

	b.Pos = b.Pos.Add(midVel.Scale(dt))
	b.Vel = b.Vel.Add(k2.Scale(dt))
	b.Spin = b.Spin.Scale(math.Exp(-cfg.Ball.SpinDecay * dt))

	collideGoalFrame(b, cfg)

	if b.Pos.Z <= cfg.Ball.Radius && b.Vel.Z < 0 {
		bounce(b, cfg)
	}
}

// bounce reflects the vertical velocity with restitution and bleeds
// horizontal speed through sliding friction. A bounce too weak to continue
// transitions to rolling.
func bounce(b *components.Ball, cfg *config.Config) {
	b.Pos.Z = cfg.Ball.Radius
	b.Vel.Z = -b.Vel.Z * cfg.Ball.GroundRestitution
	b.Vel.X *= cfg.Ball.SlideFriction
	b.Vel.Y *= cfg.Ball.SlideFriction

	horiz := b.Vel.XY().Len()
	if b.Vel.Z < cfg.Ball.RollVzMax && horiz < cfg.Ball.RollSpeedMax {
		b.Mode = components.BallRolling
		b.Vel.Z = 0
		b.Spin = geom.Vec3{}
		b.ClearReceiver()
	}
}

// advanceRolling decelerates the grounded ball by rolling friction until it
// stops.
func advanceRolling(b *components.Ball, cfg *config.Config) {
	dt := cfg.Physics.DT
	b.Pos.Z = cfg.Ball.Radius
	b.Vel.Z = 0

	horiz := b.Vel.XY()
	speed := horiz.Len()
	if speed <= cfg.Ball.StopSpeed {
		b.Vel = geom.Vec3{}
		b.Mode = components.BallStopped
		return
	}

	decel := cfg.Ball.RollFriction * cfg.Physics.Gravity * dt
	newSpeed := speed - decel
	if newSpeed < 0 {
		newSpeed = 0
	}
	scaled := horiz.Scale(newSpeed / speed)
	b.Pos.X += scaled.X * dt
	b.Pos.Y += scaled.Y * dt
	b.Vel.X = scaled.X
	b.Vel.Y = scaled.Y
}

// FollowHolder derives the held ball's position from the holder each tick:
// a fixed offset in the holder's facing direction at carrying height.
func FollowHolder(b *components.Ball, holder *components.Transform, cfg *config.Config) {
	dir := geom.FromAngle(holder.Facing)
	at := holder.Pos.Add(dir.Scale(cfg.Player.HoldOffset))
	b.Pos = geom.Vec3From(at, cfg.Player.HoldHeight)
	b.Vel = geom.Vec3{}
	b.Spin = geom.Vec3{}
}

// ClampBallToPitch keeps the ball inside the court extents.
func ClampBallToPitch(b *components.Ball, cfg *config.Config) {
	buf := cfg.Physics.SidelineBuffer
	b.Pos.X = geom.Clamp(b.Pos.X, buf, cfg.Pitch.Length-buf)
	b.Pos.Y = geom.Clamp(b.Pos.Y, buf, cfg.Pitch.Width-buf)
	if b.Pos.Z < cfg.Ball.Radius {
		b.Pos.Z = cfg.Ball.Radius
	}
}

// goalFrameSegments returns the two posts and the crossbar of the goal at
// the given end of the attack axis.
func goalFrameSegments(goalX float64, cfg *config.Config) [3][2]geom.Vec3 {
	cy := cfg.Derived.CenterY
	hw := cfg.Pitch.GoalWidth / 2
	h := cfg.Pitch.GoalHeight

	left := [2]geom.Vec3{{X: goalX, Y: cy - hw, Z: 0}, {X: goalX, Y: cy - hw, Z: h}}
	right := [2]geom.Vec3{{X: goalX, Y: cy + hw, Z: 0}, {X: goalX, Y: cy + hw, Z: h}}
	bar := [2]geom.Vec3{{X: goalX, Y: cy - hw, Z: h}, {X: goalX, Y: cy + hw, Z: h}}
	return [3][2]geom.Vec3{left, right, bar}
}

// collideGoalFrame tests the ball against both goal frames and reflects it
// with restitution on contact. Frame hits make the ball loose.
func collideGoalFrame(b *components.Ball, cfg *config.Config) {
	hitRadius := cfg.Ball.Radius + cfg.Pitch.PostRadius

	for _, goalX := range cfg.Derived.GoalCenterX {
		for _, seg := range goalFrameSegments(goalX, cfg) {
			dist, closest := geom.PointSegmentDist3(b.Pos, seg[0], seg[1])
			if dist >= hitRadius || dist == 0 {
				continue
			}
			normal := b.Pos.Sub(closest).Norm()
			// Push out of the frame, then reflect the approaching
			// component of velocity.
			b.Pos = closest.Add(normal.Scale(hitRadius))
			approach := b.Vel.Dot(normal)
			if approach < 0 {
				b.Vel = b.Vel.Sub(normal.Scale((1 + cfg.Ball.PostRestitution) * approach))
			}
			b.ClearReceiver()
		}
	}
}

// GoalLineImpact projects where the ball's current velocity carries it
// through the goal plane at goalX. The solve is linear along the attack
// axis; times outside a plausible window are rejected. The Y coordinate is
// clamped to the pitch width.
func GoalLineImpact(pos, vel geom.Vec3, goalX float64, cfg *config.Config) (geom.Vec3, float64, bool) {
	if math.Abs(vel.X) < 1e-9 {
		return geom.Vec3{}, 0, false
	}
	t := (goalX - pos.X) / vel.X
	if t <= 0 || t > cfg.Ball.ProjectionMaxTime {
		return geom.Vec3{}, 0, false
	}
	impact := geom.Vec3{
		X: goalX,
		Y: geom.Clamp(pos.Y+vel.Y*t, 0, cfg.Pitch.Width),
		Z: pos.Z + vel.Z*t - 0.5*cfg.Physics.Gravity*t*t,
	}
	return impact, t, true
}

// EstimateInterceptPoint samples the ball's projected flight and picks the
// moment where the distance the runner must cover best matches the distance
// the runner can cover at their current speed. Returns the meeting point and
// the time to it.
func EstimateInterceptPoint(b *components.Ball, runner geom.Vec2, runnerSpeed float64, cfg *config.Config) (geom.Vec2, float64) {
	samples := cfg.Ball.InterceptSamples
	horizon := cfg.Ball.InterceptHorizon
	step := horizon / float64(samples)

	// Walk a copy of the ball forward with the same force model.
	pos, vel, spin := b.Pos, b.Vel, b.Spin
	dt := cfg.Physics.DT

	bestPoint := b.Pos.XY()
	bestTime := 0.0
	bestScore := math.Inf(1)

	elapsed := 0.0
	for i := 1; i <= samples; i++ {
		target := float64(i) * step
		for elapsed < target {
			acc := ballAccel(vel, spin, cfg)
			vel = vel.Add(acc.Scale(dt))
			pos = pos.Add(vel.Scale(dt))
			elapsed += dt
		}

		ground := pos.XY()
		need := runner.Dist(ground)
		can := runnerSpeed * target
		score := math.Abs(need - can)
		if score < bestScore {
			bestScore = score
			bestPoint = ground
			bestTime = target
		}
	}

	return bestPoint, bestTime
}
