package match

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/geom"
	"github.com/ahlgreen/handsim/systems"
)

// Step advances the match by one fixed tick. Phases run in a fixed order on
// the single shared state: admin (clock, suspensions, restarts), tactics,
// motion, stamina, jumps, collisions, ball physics, action resolution, and
// finally ball possession transitions.
func (m *Match) Step() {
	if m.done {
		return
	}
	dt := m.cfg.Physics.DT
	m.tick++

	paused := m.updatePause(dt)
	if !paused {
		m.updateClock(dt)
		if m.done {
			return
		}
	}
	m.updateSuspensions(dt)

	if m.tactics != nil {
		m.tactics.Direct(m)
	}

	m.updateMovement()
	m.updateStamina()
	m.updateJumps()
	m.rebuildGrid()
	m.resolveCollisions()

	m.updateBall(paused)

	if !paused {
		m.fireResolvers(dt)
		m.updateInterceptors()
		m.updateReception()
		m.updatePickup()
		m.detectLooseGoal()
	}
}

// Run steps until the match ends.
func (m *Match) Run() {
	for !m.done {
		m.Step()
	}
}

// updatePause advances the restart countdown. Returns true while paused.
func (m *Match) updatePause(dt float64) bool {
	if m.pause <= 0 {
		return false
	}
	m.pause -= dt
	if m.pause <= 0 {
		m.pause = 0
		if m.restart != nil {
			f := m.restart
			m.restart = nil
			f()
		}
		return false
	}
	return true
}

func (m *Match) updateClock(dt float64) {
	m.clock += dt
	if m.clock < m.cfg.Rules.HalfSeconds {
		return
	}
	if m.half == 1 {
		m.emit(Outcome{Kind: OutcomeHalfEnd, Team: components.NoTeam, Player: -1, Other: -1, PossessionTo: components.NoTeam})
		m.beginSecondHalf()
		return
	}
	m.done = true
	m.emit(Outcome{Kind: OutcomeMatchEnd, Team: components.NoTeam, Player: -1, Other: -1, PossessionTo: components.NoTeam})
	m.log.Info("match finished", "score_home", m.score[0], "score_away", m.score[1])
}

func (m *Match) updateSuspensions(dt float64) {
	for _, e := range m.players {
		ag := m.agentMap.Get(e)
		if ag.Suspension <= 0 {
			continue
		}
		ag.Suspension -= dt
		if ag.Suspension <= 0 {
			ag.Suspension = 0
			if ag.State == components.ActionSuspended {
				ag.OnCourt = true
				ag.State = components.ActionMoveToPosition
				m.log.Info("suspension over", "player", ag.Name, "team", ag.Team)
			}
		}
	}
}

func (m *Match) updateMovement() {
	for i, e := range m.players {
		ag := m.agentMap.Get(e)
		if !ag.OnCourt || ag.State.SuppressesMovement() || !ag.HasTargetPos {
			continue
		}
		tf := m.posMap.Get(e)
		cond := m.condMap.Get(e)
		attrs := m.attrMap.Get(e)

		before := tf.Pos
		systems.Integrate(tf, cond, attrs, ag.TargetPos, ag.State.AllowsSprint(), ag.State.ArrivalSlowdown(), m.cfg)

		if ag.HasBall && ag.State != components.ActionDribble {
			m.stepDist[i] += tf.Pos.Dist(before)
			for m.stepDist[i] >= m.cfg.Player.StepLength {
				m.stepDist[i] -= m.cfg.Player.StepLength
				ag.Steps++
			}
			if ag.Steps > m.cfg.Player.MaxSteps {
				m.travelViolation(e)
			}
		}
	}
}

func (m *Match) updateStamina() {
	for _, e := range m.players {
		ag := m.agentMap.Get(e)
		if !ag.OnCourt {
			continue
		}
		systems.UpdateStamina(m.condMap.Get(e), m.attrMap.Get(e), m.posMap.Get(e), m.cfg)
	}
}

func (m *Match) updateJumps() {
	for _, e := range m.players {
		ag := m.agentMap.Get(e)
		if !ag.OnCourt {
			continue
		}
		air := m.airMap.Get(e)
		if (ag.State == components.ActionJumpShot || ag.State == components.ActionJumpBlock) &&
			!air.Active && air.Recover <= 0 {
			systems.StartJump(air, m.attrMap.Get(e).Jumping, m.cfg)
		}
		systems.UpdateJump(air, m.cfg)
	}
}

func (m *Match) rebuildGrid() {
	m.grid.Clear()
	for _, e := range m.players {
		if !m.agentMap.Get(e).OnCourt {
			continue
		}
		tf := m.posMap.Get(e)
		m.grid.Insert(e, tf.Pos.X, tf.Pos.Y)
	}
}

// resolveCollisions handles player-player contact, teammate spacing, and
// free-ball deflection off bodies. Pairs resolve once, in stable spawn order.
func (m *Match) resolveCollisions() {
	for i, e := range m.players {
		ag := m.agentMap.Get(e)
		if !ag.OnCourt {
			continue
		}
		tf := m.posMap.Get(e)

		m.neighbors = m.grid.QueryRadiusInto(m.neighbors[:0], tf.Pos.X, tf.Pos.Y, m.cfg.Physics.NeighborRadius, e, m.posMap)
		for _, n := range m.neighbors {
			j, ok := m.indexOf[n.E]
			if !ok || j <= i {
				continue
			}
			oa := m.agentMap.Get(n.E)
			if !oa.OnCourt {
				continue
			}
			otf := m.posMap.Get(n.E)

			if oa.Team == ag.Team {
				if !systems.ResolvePlayerPair(tf, m.condMap.Get(e), 0, otf, m.condMap.Get(n.E), 0, m.cfg) {
					systems.SpacingNudge(tf, otf, m.cfg)
				}
				continue
			}
			systems.ResolvePlayerPair(
				tf, m.condMap.Get(e), m.shieldFactor(e, ag),
				otf, m.condMap.Get(n.E), m.shieldFactor(n.E, oa),
				m.cfg,
			)
		}
	}

	if m.ball.Loose() && m.ball.Mode != components.BallHeld {
		for _, e := range m.players {
			ag := m.agentMap.Get(e)
			if !ag.OnCourt {
				continue
			}
			if systems.DeflectBall(&m.ball, m.posMap.Get(e), m.condMap.Get(e), m.attrMap.Get(e), m.airMap.Get(e), m.cfg) {
				m.ball.LastTouch = ag.Team
				break
			}
		}
	}

	for _, e := range m.players {
		if m.agentMap.Get(e).OnCourt {
			systems.ClampPlayerToPitch(m.posMap.Get(e), m.cfg)
		}
	}
}

// shieldFactor is how strongly a player's ball shielding attenuates contact.
func (m *Match) shieldFactor(e ecs.Entity, ag *components.Agent) float64 {
	if !ag.HasBall || ag.State != components.ActionShieldBall {
		return 0
	}
	return geom.Attr01(m.attrMap.Get(e).BallProtection)
}

func (m *Match) updateBall(paused bool) {
	if m.ball.HasHolder {
		systems.FollowHolder(&m.ball, m.posMap.Get(m.ball.Holder), m.cfg)
		return
	}
	if paused {
		return
	}
	systems.AdvanceBall(&m.ball, m.cfg)
	if m.ball.HasReceiver {
		m.ball.PassLength = m.ball.Pos.XY().Dist(m.ball.ReleasePos)
	}
}

// fireResolvers counts down wind-up timers and fires the matching resolver
// when one expires.
func (m *Match) fireResolvers(dt float64) {
	for _, e := range m.players {
		ag := m.agentMap.Get(e)
		if !ag.OnCourt || !ag.State.Preparing() {
			continue
		}
		ag.Timer -= dt
		if ag.Timer > 0 {
			continue
		}
		ag.Timer = 0

		switch ag.State {
		case components.ActionPreparePass:
			m.resolvePass(e)
		case components.ActionPrepareShot, components.ActionJumpShot:
			m.resolveShot(e)
		case components.ActionPreparePenalty:
			m.resolvePenalty(e)
		case components.ActionAttemptTackle:
			m.resolveTackle(e)
		case components.ActionAttemptBlock, components.ActionJumpBlock:
			// Blocks are reactive; an expired window just stands down.
			ag.State = components.ActionMoveToPosition
		}
	}
}

// updateInterceptors gives defenders committed to an interception their roll
// against a pass in flight.
func (m *Match) updateInterceptors() {
	if !m.ball.HasReceiver || m.ball.Mode != components.BallInFlight {
		return
	}
	for _, e := range m.players {
		ag := m.agentMap.Get(e)
		if !ag.OnCourt || ag.State != components.ActionAttemptIntercept {
			continue
		}
		if ag.Team == m.ball.LastTouch {
			continue
		}
		if m.resolveInterception(e) {
			return
		}
	}
}

// updateReception completes a pass when the intended receiver meets the ball.
func (m *Match) updateReception() {
	if !m.ball.HasReceiver || m.ball.HasHolder {
		return
	}
	recv := m.ball.Receiver
	ag := m.agentMap.Get(recv)
	if ag == nil || !ag.OnCourt {
		m.ball.ClearReceiver()
		return
	}
	tf := m.posMap.Get(recv)
	if tf.Pos.Dist(m.ball.Pos.XY()) > m.cfg.Player.CatchRadius {
		return
	}
	if m.ball.Pos.Z > systems.ReachHeight(m.airMap.Get(recv), m.cfg) {
		return
	}

	passer := m.lastPasser
	m.lastPasser = -1
	m.giveBall(recv)
	ag.State = components.ActionMoveWithBall
	m.emit(Outcome{
		Kind:         OutcomePassComplete,
		Team:         ag.Team,
		Player:       ag.ID,
		Other:        passer,
		PossessionTo: ag.Team,
	})
}

// updatePickup lets the closest player collect a loose ball in reach. No
// pickups between a whistle and the restart.
func (m *Match) updatePickup() {
	if m.pause > 0 {
		return
	}
	if !m.ball.Loose() || m.ball.HasHolder {
		return
	}
	if m.ball.Pos.Z > m.cfg.Player.HoldHeight {
		return
	}

	ground := m.ball.Pos.XY()
	best := ecs.Entity{}
	bestDist := m.cfg.Player.PickupRadius
	found := false
	for _, e := range m.players {
		ag := m.agentMap.Get(e)
		if !ag.OnCourt {
			continue
		}
		air := m.airMap.Get(e)
		if air.Active {
			continue
		}
		d := m.posMap.Get(e).Pos.Dist(ground)
		if d < bestDist || (!found && d == bestDist) {
			best = e
			bestDist = d
			found = true
		}
	}
	if !found {
		return
	}
	ag := m.agentMap.Get(best)
	m.giveBall(best)
	ag.State = components.ActionMoveWithBall
	m.log.Debug("loose ball collected", "player", ag.Name, "team", ag.Team)
}

// detectLooseGoal scores a ball that ends up in the goal without a shot
// resolution, e.g. a wild pass or a deflection that carries through.
func (m *Match) detectLooseGoal() {
	if m.ball.HasHolder || m.ball.Dead || m.ball.Mode != components.BallInFlight {
		return
	}
	cfg := m.cfg
	cy := cfg.Derived.CenterY
	halfW := cfg.Pitch.GoalWidth/2 - cfg.Ball.Radius
	maxZ := cfg.Pitch.GoalHeight - cfg.Ball.Radius

	for goal, goalX := range cfg.Derived.GoalCenterX {
		margin := cfg.Physics.SidelineBuffer + cfg.Ball.Radius + 0.01
		onLine := (goal == 0 && m.ball.Pos.X <= goalX+margin) ||
			(goal == 1 && m.ball.Pos.X >= goalX-margin)
		if !onLine {
			continue
		}
		if math.Abs(m.ball.Pos.Y-cy) > halfW {
			continue
		}
		if m.ball.Pos.Z > maxZ {
			continue
		}
		scorer := 1 - goal // team attacking this goal
		m.goalScored(OutcomeShotGoal, scorer, -1, m.ball.Pos, "loose ball over the line")
		return
	}
}

// travelViolation turns the ball over for exceeding the step budget. The
// ball is taken from the violator before the restart is queued, so one
// dribble produces exactly one whistle.
func (m *Match) travelViolation(e ecs.Entity) {
	ag := m.agentMap.Get(e)
	team := ag.Team

	ag.HasBall = false
	ag.Steps = 0
	m.stepDist[m.indexOf[e]] = 0
	m.ball.HasHolder = false
	m.ball.Mode = components.BallStopped
	m.ball.Vel = geom.Vec3{}
	m.ball.ClearReceiver()

	m.emit(Outcome{
		Kind:         OutcomeTravelViolation,
		Team:         team,
		Player:       ag.ID,
		Other:        -1,
		PossessionTo: 1 - team,
		Reason:       "steps over budget",
	})
	m.freeThrow(1-team, m.posMap.Get(e).Pos)
}
