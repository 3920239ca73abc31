package match

import "github.com/ahlgreen/handsim/geom"

// OutcomeKind identifies a resolved discrete event.
type OutcomeKind uint8

const (
	OutcomePassComplete OutcomeKind = iota
	OutcomePassIncomplete
	OutcomePassIntercepted
	OutcomeShotGoal
	OutcomeShotSaved
	OutcomeShotBlocked
	OutcomeShotMissed
	OutcomePenaltyGoal
	OutcomePenaltySaved
	OutcomePenaltyMissed
	OutcomeTackleWon
	OutcomeTackleMissed
	OutcomeFoul
	OutcomeTravelViolation
	OutcomeThrowOff
	OutcomeFreeThrow
	OutcomePenaltyAwarded
	OutcomeHalfEnd
	OutcomeMatchEnd
)

var outcomeNames = map[OutcomeKind]string{
	OutcomePassComplete:    "pass_complete",
	OutcomePassIncomplete:  "pass_incomplete",
	OutcomePassIntercepted: "pass_intercepted",
	OutcomeShotGoal:        "shot_goal",
	OutcomeShotSaved:       "shot_saved",
	OutcomeShotBlocked:     "shot_blocked",
	OutcomeShotMissed:      "shot_missed",
	OutcomePenaltyGoal:     "penalty_goal",
	OutcomePenaltySaved:    "penalty_saved",
	OutcomePenaltyMissed:   "penalty_missed",
	OutcomeTackleWon:       "tackle_won",
	OutcomeTackleMissed:    "tackle_missed",
	OutcomeFoul:            "foul",
	OutcomeTravelViolation: "travel_violation",
	OutcomeThrowOff:        "throw_off",
	OutcomeFreeThrow:       "free_throw",
	OutcomePenaltyAwarded:  "penalty_awarded",
	OutcomeHalfEnd:         "half_end",
	OutcomeMatchEnd:        "match_end",
}

// String returns a stable lowercase name for logs and telemetry.
func (k OutcomeKind) String() string {
	if n, ok := outcomeNames[k]; ok {
		return n
	}
	return "unknown"
}

// FoulSeverity is the sanction attached to a foul outcome.
type FoulSeverity uint8

const (
	FoulFreeThrow FoulSeverity = iota
	FoulSuspension
	FoulRedCard
)

// String returns the sanction name.
func (s FoulSeverity) String() string {
	switch s {
	case FoulFreeThrow:
		return "free_throw"
	case FoulSuspension:
		return "suspension"
	case FoulRedCard:
		return "red_card"
	}
	return "unknown"
}

// Outcome is one resolved event. Player IDs refer to Agent.ID; Other is the
// second party where one exists (receiver, tackled player, keeper) and -1
// otherwise. PossessionTo names the team gaining possession, or NoTeam when
// possession is unchanged or contested.
type Outcome struct {
	Tick  int
	Clock float64
	Kind  OutcomeKind

	Team   int
	Player int
	Other  int

	Severity     FoulSeverity
	PossessionTo int

	// Impact is the projected goal-plane point for shot outcomes.
	Impact geom.Vec3

	Reason string
}

// Handler receives every resolved outcome in tick order. Handlers must not
// mutate match state.
type Handler interface {
	HandleOutcome(Outcome)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(Outcome)

// HandleOutcome calls f.
func (f HandlerFunc) HandleOutcome(o Outcome) { f(o) }
