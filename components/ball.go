package components

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ahlgreen/handsim/geom"
)

// BallMode is the ball's physics state. At most one mode is active; Held
// derives position from the holder, the free modes integrate forces.
type BallMode uint8

const (
	BallHeld BallMode = iota
	BallInFlight
	BallRolling
	BallStopped
)

// String returns a stable lowercase name for logs and telemetry.
func (m BallMode) String() string {
	switch m {
	case BallHeld:
		return "held"
	case BallInFlight:
		return "in_flight"
	case BallRolling:
		return "rolling"
	case BallStopped:
		return "stopped"
	}
	return "unknown"
}

// Ball is the single match ball. Mode transitions are triggered only by
// action resolvers and by ground/post collisions in the ball physics system.
type Ball struct {
	Mode BallMode
	Pos  geom.Vec3
	Vel  geom.Vec3
	Spin geom.Vec3 // angular velocity (rad/s)

	Holder    ecs.Entity
	HasHolder bool

	// Receiver is set while a deliberate pass is in flight; a ball without
	// one is loose in the domain sense.
	Receiver    ecs.Entity
	HasReceiver bool

	// Pass bookkeeping for interception progress factors.
	ReleasePos geom.Vec2
	PassLength float64
	LastTouch  int // team index of last contact, NoTeam if none

	// Dead marks a flight whose attempt has already been resolved (a shot
	// called off target). A dead ball crossing the goal line scores nothing.
	Dead bool
}

// Loose reports whether nobody controls the ball and no deliberate pass is
// in flight toward a known receiver.
func (b *Ball) Loose() bool {
	return !b.HasHolder && !b.HasReceiver
}

// SetHeld attaches the ball to a holder, zeroing free motion.
func (b *Ball) SetHeld(holder ecs.Entity, team int) {
	b.Mode = BallHeld
	b.Holder = holder
	b.HasHolder = true
	b.Receiver = ecs.Entity{}
	b.HasReceiver = false
	b.Vel = geom.Vec3{}
	b.Spin = geom.Vec3{}
	b.LastTouch = team
	b.Dead = false
}

// Release detaches the ball into flight with the given velocity and spin.
func (b *Ball) Release(vel, spin geom.Vec3, team int) {
	b.Mode = BallInFlight
	b.Holder = ecs.Entity{}
	b.HasHolder = false
	b.Vel = vel
	b.Spin = spin
	b.LastTouch = team
	b.ReleasePos = b.Pos.XY()
	b.PassLength = 0
	b.Dead = false
}

// ClearReceiver drops the intended receiver, making the ball loose.
func (b *Ball) ClearReceiver() {
	b.Receiver = ecs.Entity{}
	b.HasReceiver = false
}
