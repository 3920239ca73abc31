// Package components defines ECS components for the match simulation.
package components

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ahlgreen/handsim/geom"
)

// Team indexes are 0 and 1 throughout; NoTeam marks contested possession.
const NoTeam = -1

// Role is a player's tactical role.
type Role uint8

const (
	RoleKeeper Role = iota
	RoleLeftWing
	RoleLeftBack
	RoleCenterBack
	RoleRightBack
	RoleRightWing
	RolePivot
)

// String returns the roster label for a role.
func (r Role) String() string {
	switch r {
	case RoleKeeper:
		return "GK"
	case RoleLeftWing:
		return "LW"
	case RoleLeftBack:
		return "LB"
	case RoleCenterBack:
		return "CB"
	case RoleRightBack:
		return "RB"
	case RoleRightWing:
		return "RW"
	case RolePivot:
		return "PV"
	}
	return "??"
}

// Transform holds a player's ground-plane kinematic state.
type Transform struct {
	Pos    geom.Vec2
	Vel    geom.Vec2
	Facing float64 // radians; follows movement or possession direction
}

// Airborne holds the vertical jump state, decoupled from ground motion.
type Airborne struct {
	Active  bool
	Z       float64 // height above floor (m)
	VZ      float64 // vertical velocity (m/s)
	Recover float64 // landing recovery countdown (s)
}

// Attributes is the fixed skill set parameterizing every probability
// formula. Conventional range is 0-100; out-of-range values are treated as
// the neutral benchmark by the shaping helpers.
type Attributes struct {
	Pace           float64 `csv:"pace"`
	Strength       float64 `csv:"strength"`
	Agility        float64 `csv:"agility"`
	Jumping        float64 `csv:"jumping"`
	Technique      float64 `csv:"technique"`
	Passing        float64 `csv:"passing"`
	Shooting       float64 `csv:"shooting"`
	Power          float64 `csv:"power"`
	Blocking       float64 `csv:"blocking"`
	Tackling       float64 `csv:"tackling"`
	Anticipation   float64 `csv:"anticipation"`
	Positioning    float64 `csv:"positioning"`
	DecisionMaking float64 `csv:"decision_making"`
	Composure      float64 `csv:"composure"`
	Aggression     float64 `csv:"aggression"`
	BallProtection float64 `csv:"ball_protection"`
	WorkRate       float64 `csv:"work_rate"`
	Determination  float64 `csv:"determination"`
	Resilience     float64 `csv:"resilience"`
	Stamina        float64 `csv:"stamina"`
	NaturalFitness float64 `csv:"natural_fitness"`
	Reflexes       float64 `csv:"reflexes"` // goalkeepers
	Handling       float64 `csv:"handling"` // goalkeepers
}

// Condition holds the per-tick fatigue state. Stamina stays in [0,1] and
// feeds back into EffectiveSpeed every tick.
type Condition struct {
	Stamina        float64
	EffectiveSpeed float64 // m/s, base speed × stamina curve
	BaseSpeed      float64 // m/s, from pace attribute
	Mass           float64 // kg, from strength attribute
	StumbleTimer   float64 // s remaining of reduced control after ball contact
}

// Agent holds identity, action-state machine data, and externally supplied
// movement targets.
type Agent struct {
	ID     int
	Number int
	Name   string
	Team   int
	Role   Role

	OnCourt bool
	HasBall bool
	Steps   int // steps taken while holding the ball

	State      ActionState
	Timer      float64 // prep countdown for the current action (s)
	Suspension float64 // time left off court (s); >0 implies !OnCourt

	TargetPos    geom.Vec2 // supplied by the tactical layer each tick
	HasTargetPos bool
	Target       ecs.Entity // pass/tackle/mark target
	HasTarget    bool

	// Penalty duel intent, chosen before the resolver fires.
	AimZone int // 0 left, 1 center, 2 right
}
