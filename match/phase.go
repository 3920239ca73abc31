package match

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/geom"
)

// Restart handling. A whistle freezes action resolution, players walk back
// into shape during the pause, and the queued restart function then puts the
// ball back in play.

// baseSpot is the formation anchor for a role, expressed for a team defending
// goalX and attacking the other end. Wings sit wide, backs arc around the
// nine meter line, the pivot leans on the six.
func (m *Match) baseSpot(team int, role components.Role) geom.Vec2 {
	cfg := m.cfg
	ownGoalX := m.DefendedGoalX(team)
	sign := m.AttackSign(team)
	cy := cfg.Derived.CenterY

	depth := func(d float64) float64 { return ownGoalX + sign*d }

	switch role {
	case components.RoleKeeper:
		return geom.Vec2{X: depth(0.8), Y: cy}
	case components.RoleLeftWing:
		return geom.Vec2{X: depth(11), Y: cy - 0.42*cfg.Pitch.Width*sign}
	case components.RoleRightWing:
		return geom.Vec2{X: depth(11), Y: cy + 0.42*cfg.Pitch.Width*sign}
	case components.RoleLeftBack:
		return geom.Vec2{X: depth(13), Y: cy - 0.22*cfg.Pitch.Width*sign}
	case components.RoleRightBack:
		return geom.Vec2{X: depth(13), Y: cy + 0.22*cfg.Pitch.Width*sign}
	case components.RolePivot:
		return geom.Vec2{X: depth(cfg.Pitch.GoalAreaRadius + 1), Y: cy}
	}
	// Center back.
	return geom.Vec2{X: depth(14), Y: cy}
}

// resetFormations snaps every on-court player to their base spot with zero
// velocity and an idle state. Used for throw-offs and half starts.
func (m *Match) resetFormations() {
	for i, e := range m.players {
		ag := m.agentMap.Get(e)
		if !ag.OnCourt {
			continue
		}
		tf := m.posMap.Get(e)
		tf.Pos = m.baseSpot(ag.Team, ag.Role)
		tf.Vel = geom.Vec2{}
		ag.State = components.ActionIdle
		ag.HasBall = false
		ag.HasTarget = false
		ag.HasTargetPos = false
		ag.Steps = 0
		m.stepDist[i] = 0
		air := m.airMap.Get(e)
		air.Active = false
		air.Z = 0
		air.VZ = 0
	}
}

// throwOffPlayer picks the restarting team's center back, or any court
// player as fallback.
func (m *Match) throwOffPlayer(team int) (ecs.Entity, bool) {
	var fallback ecs.Entity
	found := false
	for _, e := range m.players {
		ag := m.agentMap.Get(e)
		if ag.Team != team || !ag.OnCourt {
			continue
		}
		if ag.Role == components.RoleCenterBack {
			return e, true
		}
		if !found {
			fallback = e
			found = true
		}
	}
	return fallback, found
}

// scheduleThrowOff queues a center restart for the given team.
func (m *Match) scheduleThrowOff(team int) {
	m.pause = m.cfg.Rules.ThrowOffPause
	m.possession = team
	m.restart = func() {
		m.resetFormations()
		e, ok := m.throwOffPlayer(team)
		if !ok {
			return
		}
		tf := m.posMap.Get(e)
		tf.Pos = geom.Vec2{X: m.cfg.Derived.CenterX, Y: m.cfg.Derived.CenterY}
		m.giveBall(e)
		m.agentMap.Get(e).State = components.ActionMoveWithBall
		m.emit(Outcome{
			Kind:         OutcomeThrowOff,
			Team:         team,
			Player:       m.agentMap.Get(e).ID,
			Other:        -1,
			PossessionTo: team,
		})
	}
}

// freeThrow restarts play for a team at the given spot. The spot is pushed
// out to the nine meter line when the violation happened closer to goal.
func (m *Match) freeThrow(team int, at geom.Vec2) {
	cfg := m.cfg
	goal := geom.Vec2{X: m.AttackedGoalX(team), Y: cfg.Derived.CenterY}
	if at.Dist(goal) < cfg.Pitch.FreeThrowRadius {
		dir := at.Sub(goal).Norm()
		if dir == (geom.Vec2{}) {
			dir = geom.Vec2{X: -m.AttackSign(team)}
		}
		at = goal.Add(dir.Scale(cfg.Pitch.FreeThrowRadius))
	}

	m.pause = cfg.Rules.FreeThrowPause
	m.possession = team
	spot := at
	m.restart = func() {
		e, ok := m.nearestCourtPlayer(team, spot)
		if !ok {
			return
		}
		tf := m.posMap.Get(e)
		tf.Pos = spot
		tf.Vel = geom.Vec2{}
		m.giveBall(e)
		m.agentMap.Get(e).State = components.ActionMoveWithBall
		m.emit(Outcome{
			Kind:         OutcomeFreeThrow,
			Team:         team,
			Player:       m.agentMap.Get(e).ID,
			Other:        -1,
			PossessionTo: team,
		})
	}
}

// penaltyThrow sets up a seven meter throw for the team against the
// defending keeper.
func (m *Match) penaltyThrow(team int, shooter ecs.Entity) {
	cfg := m.cfg
	goalX := m.AttackedGoalX(team)
	spot := geom.Vec2{
		X: goalX - m.AttackSign(team)*7,
		Y: cfg.Derived.CenterY,
	}

	m.pause = cfg.Rules.FreeThrowPause
	m.possession = team
	m.restart = func() {
		ag := m.agentMap.Get(shooter)
		if ag == nil || !ag.OnCourt {
			var ok bool
			shooter, ok = m.nearestCourtPlayer(team, spot)
			if !ok {
				return
			}
			ag = m.agentMap.Get(shooter)
		}
		tf := m.posMap.Get(shooter)
		tf.Pos = spot
		tf.Vel = geom.Vec2{}
		m.giveBall(shooter)
		ag.State = components.ActionPreparePenalty
		ag.Timer = cfg.Shot.PrepTime
		ag.AimZone = m.rng.Intn(3)

		if keeper, ok := m.Keeper(1 - team); ok {
			ktf := m.posMap.Get(keeper)
			ktf.Pos = geom.Vec2{X: m.DefendedGoalX(1-team) + m.AttackSign(1-team)*0.5, Y: cfg.Derived.CenterY}
			ktf.Vel = geom.Vec2{}
			m.agentMap.Get(keeper).State = components.ActionKeeperPositioning
		}

		m.emit(Outcome{
			Kind:         OutcomePenaltyAwarded,
			Team:         team,
			Player:       ag.ID,
			Other:        -1,
			PossessionTo: team,
		})
	}
}

// goalScored books a goal and queues the opposing throw-off.
func (m *Match) goalScored(kind OutcomeKind, team, scorerID int, impact geom.Vec3, reason string) {
	m.score[team]++
	m.ball.Mode = components.BallStopped
	m.ball.Vel = geom.Vec3{}
	m.ball.Spin = geom.Vec3{}
	m.ball.ClearReceiver()
	m.possession = 1 - team

	m.emit(Outcome{
		Kind:         kind,
		Team:         team,
		Player:       scorerID,
		Other:        -1,
		PossessionTo: 1 - team,
		Impact:       impact,
		Reason:       reason,
	})
	m.log.Info("goal",
		"team", team,
		"score_home", m.score[0],
		"score_away", m.score[1],
	)
	m.scheduleThrowOff(1 - team)
}

// beginSecondHalf resets the clock and gives the throw-off to the team that
// did not start the match.
func (m *Match) beginSecondHalf() {
	m.half = 2
	m.clock = 0
	m.ball.Mode = components.BallStopped
	m.ball.Vel = geom.Vec3{}
	m.ball.ClearReceiver()
	if holder, ok := m.Holder(); ok {
		pa := m.agentMap.Get(holder)
		pa.HasBall = false
		pa.Steps = 0
		m.stepDist[m.indexOf[holder]] = 0
	}
	m.ball.HasHolder = false
	m.scheduleThrowOff(1)
}

// Kickoff queues the opening throw-off for team 0. Call once after the
// lineups are spawned.
func (m *Match) Kickoff() {
	m.resetFormations()
	m.scheduleThrowOff(0)
	// No whistle delay on the opening throw.
	m.pause = m.cfg.Physics.DT
}

// nearestCourtPlayer finds the closest non-keeper court player of a team to
// a point, falling back to the keeper.
func (m *Match) nearestCourtPlayer(team int, p geom.Vec2) (ecs.Entity, bool) {
	var best ecs.Entity
	bestDist := 0.0
	found := false
	for _, e := range m.players {
		ag := m.agentMap.Get(e)
		if ag.Team != team || !ag.OnCourt || ag.Role == components.RoleKeeper {
			continue
		}
		d := m.posMap.Get(e).Pos.DistSq(p)
		if !found || d < bestDist {
			best = e
			bestDist = d
			found = true
		}
	}
	if found {
		return best, true
	}
	return m.Keeper(team)
}

// suspend takes a player off court for the standard suspension.
func (m *Match) suspend(e ecs.Entity, red bool) {
	ag := m.agentMap.Get(e)
	ag.OnCourt = false
	ag.HasBall = false
	ag.Steps = 0
	m.stepDist[m.indexOf[e]] = 0
	ag.State = components.ActionSuspended
	if red {
		// A red card is permanent; park the timer past the match.
		ag.Suspension = 2*m.cfg.Rules.HalfSeconds + 1
		return
	}
	ag.Suspension = m.cfg.Foul.SuspensionSeconds
}
