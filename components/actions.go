package components

// ActionState is a player's discrete action-machine state. Prep states carry
// a countdown in Agent.Timer; the matching resolver fires when it reaches
// zero. Suspended and active-prep states suppress normal movement updates.
type ActionState uint8

const (
	ActionIdle ActionState = iota
	ActionMoveToPosition
	ActionMoveWithBall
	ActionChaseBall
	ActionMarkPlayer
	ActionReceivePass
	ActionAttemptIntercept
	ActionPreparePass
	ActionPrepareShot
	ActionPreparePenalty
	ActionAttemptTackle
	ActionAttemptBlock
	ActionSetScreen
	ActionUseScreen
	ActionDribble
	ActionShieldBall
	ActionJumpShot
	ActionJumpBlock
	ActionSuspended
	ActionKeeperPositioning
)

var actionNames = map[ActionState]string{
	ActionIdle:              "idle",
	ActionMoveToPosition:    "move_to_position",
	ActionMoveWithBall:      "move_with_ball",
	ActionChaseBall:         "chase_ball",
	ActionMarkPlayer:        "mark_player",
	ActionReceivePass:       "receive_pass",
	ActionAttemptIntercept:  "attempt_intercept",
	ActionPreparePass:       "prepare_pass",
	ActionPrepareShot:       "prepare_shot",
	ActionPreparePenalty:    "prepare_penalty",
	ActionAttemptTackle:     "attempt_tackle",
	ActionAttemptBlock:      "attempt_block",
	ActionSetScreen:         "set_screen",
	ActionUseScreen:         "use_screen",
	ActionDribble:           "dribble",
	ActionShieldBall:        "shield_ball",
	ActionJumpShot:          "jump_shot",
	ActionJumpBlock:         "jump_block",
	ActionSuspended:         "suspended",
	ActionKeeperPositioning: "keeper_positioning",
}

// String returns a stable lowercase name for logs and telemetry.
func (s ActionState) String() string {
	if n, ok := actionNames[s]; ok {
		return n
	}
	return "unknown"
}

// Preparing reports whether the state is an action wind-up whose resolver
// fires when the timer expires.
func (s ActionState) Preparing() bool {
	switch s {
	case ActionPreparePass, ActionPrepareShot, ActionPreparePenalty,
		ActionAttemptTackle, ActionAttemptBlock, ActionJumpShot, ActionJumpBlock:
		return true
	}
	return false
}

// SuppressesMovement reports whether normal target-seeking movement is
// suspended for the state. Movement with the ball stays allowed; wind-ups,
// shielding, and suspensions pin the player.
func (s ActionState) SuppressesMovement() bool {
	switch s {
	case ActionPreparePass, ActionPrepareShot, ActionPreparePenalty,
		ActionAttemptTackle, ActionAttemptBlock, ActionJumpShot,
		ActionJumpBlock, ActionSetScreen, ActionShieldBall, ActionSuspended:
		return true
	}
	return false
}

// AllowsSprint reports whether the state permits full sprint speed.
// Careful states (dribbling, marking, keeper work) cruise instead.
func (s ActionState) AllowsSprint() bool {
	switch s {
	case ActionChaseBall, ActionMoveToPosition, ActionMoveWithBall, ActionUseScreen:
		return true
	}
	return false
}

// ArrivalSlowdown reports whether approach to the target should ease out.
// Ball chasing runs through the target at full tilt.
func (s ActionState) ArrivalSlowdown() bool {
	return s != ActionChaseBall
}
