package match

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
)

// foulSeverity accumulates aggravating factors into a [0,1+] severity score.
// Thresholds in config split the score into free throw, two minute
// suspension, and red card bands.
func foulSeverity(aggression float64, fromBehind, highSpeed, clearChance bool, cfg *config.Config) float64 {
	s := 0.25
	if fromBehind {
		s += cfg.Foul.FromBehindBonus
	}
	if highSpeed {
		s += cfg.Foul.HighSpeedBonus
	}
	if clearChance {
		s += cfg.Foul.ClearChanceBonus
	}
	s += cfg.Foul.AggressionBonus * geom.Attr01(aggression)
	return s
}

// applyFoul books a whistled tackle: classifies severity, sanctions the
// offender, and restarts with a free throw or a seven meter throw when a
// clear chance was denied.
func (m *Match) applyFoul(offender, victim ecs.Entity, fromBehind, highSpeed, clearChance bool) {
	cfg := m.cfg
	oa := m.agentMap.Get(offender)
	va := m.agentMap.Get(victim)

	sev := foulSeverity(m.attrMap.Get(offender).Aggression, fromBehind, highSpeed, clearChance, cfg)

	severity := FoulFreeThrow
	switch {
	case sev >= cfg.Foul.RedCardAt:
		severity = FoulRedCard
	case clearChance && m.rng.Float64() < cfg.Foul.DeniedChanceRed:
		// Denying a clear scoring chance can escalate straight to red.
		severity = FoulRedCard
	case sev >= cfg.Foul.SuspensionAt:
		severity = FoulSuspension
	}

	reason := "body contact"
	if fromBehind {
		reason = "from behind"
	}
	if clearChance {
		reason = "denied clear chance"
	}

	m.emit(Outcome{
		Kind:         OutcomeFoul,
		Team:         oa.Team,
		Player:       oa.ID,
		Other:        va.ID,
		Severity:     severity,
		PossessionTo: va.Team,
		Reason:       reason,
	})

	switch severity {
	case FoulSuspension:
		m.suspend(offender, false)
		m.log.Info("two minute suspension", "player", oa.Name, "team", oa.Team)
	case FoulRedCard:
		m.suspend(offender, true)
		m.log.Info("red card", "player", oa.Name, "team", oa.Team)
	}

	// Restart: seven meters for a denied clear chance, otherwise a free
	// throw from the spot.
	if va.HasBall {
		va.HasBall = false
		va.Steps = 0
		m.ball.HasHolder = false
	}
	m.ball.Mode = components.BallStopped
	m.ball.Vel = geom.Vec3{}
	m.ball.ClearReceiver()

	if clearChance {
		m.penaltyThrow(va.Team, victim)
		return
	}
	m.freeThrow(va.Team, m.posMap.Get(victim).Pos)
}
