// Package match owns the authoritative simulation state and the fixed-tick
// loop that advances it. All mutation happens inside Step on a single
// goroutine; tactics and telemetry plug in through narrow interfaces.
package match

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
	"github.com/ahlgreen/handsim/systems"
)

// TargetProvider supplies movement targets and action intents each tick. The
// provider mutates Agent fields (State, TargetPos, Target, AimZone) through
// the match accessors and nothing else.
type TargetProvider interface {
	Direct(m *Match)
}

// Lineup describes one player to spawn.
type Lineup struct {
	Number int
	Name   string
	Team   int
	Role   components.Role
	Attrs  components.Attributes
}

// Match is the authoritative state of one simulated handball match.
type Match struct {
	cfg *config.Config
	log *slog.Logger
	rng *rand.Rand

	world  *ecs.World
	mapper *ecs.Map5[components.Transform, components.Airborne, components.Attributes, components.Condition, components.Agent]

	posMap   *ecs.Map1[components.Transform]
	airMap   *ecs.Map1[components.Airborne]
	attrMap  *ecs.Map1[components.Attributes]
	condMap  *ecs.Map1[components.Condition]
	agentMap *ecs.Map1[components.Agent]

	// players is the stable iteration order for every per-player pass. Map
	// iteration never drives simulation, so identical seeds replay
	// identically.
	players  []ecs.Entity
	indexOf  map[ecs.Entity]int
	stepDist []float64 // holder step accounting, parallel to players

	ball components.Ball

	grid      *systems.SpatialGrid
	neighbors []systems.Neighbor

	tick       int
	clock      float64
	half       int
	score      [2]int
	possession int

	// pause freezes action resolution between a whistle and the restart.
	pause   float64
	restart func()

	// lastPasser is the Agent.ID of the most recent pass release, for
	// completion bookkeeping. -1 when no pass is live.
	lastPasser int

	done bool

	tactics  TargetProvider
	handlers []Handler
}

// New creates a match with the given string seed. The seed is hashed with
// FNV-1a so any label ("final-leg-2", a UUID) yields a well-mixed RNG state,
// and the same seed always yields the same match.
func New(cfg *config.Config, log *slog.Logger, seed string) *Match {
	if log == nil {
		log = slog.Default()
	}

	m := &Match{
		cfg:        cfg,
		log:        log,
		rng:        rand.New(rand.NewSource(hashSeed(seed))),
		world:      ecs.NewWorld(),
		indexOf:    make(map[ecs.Entity]int),
		possession: 0,
		half:       1,
		lastPasser: -1,
	}

	m.mapper = ecs.NewMap5[components.Transform, components.Airborne, components.Attributes, components.Condition, components.Agent](m.world)
	m.posMap = ecs.NewMap1[components.Transform](m.world)
	m.airMap = ecs.NewMap1[components.Airborne](m.world)
	m.attrMap = ecs.NewMap1[components.Attributes](m.world)
	m.condMap = ecs.NewMap1[components.Condition](m.world)
	m.agentMap = ecs.NewMap1[components.Agent](m.world)

	m.grid = systems.NewSpatialGrid(cfg.Pitch.Length, cfg.Pitch.Width, cfg.Derived.GridCellSize)
	m.neighbors = make([]systems.Neighbor, 0, 16)

	m.ball = components.Ball{
		Mode:      components.BallStopped,
		Pos:       geom.Vec3{X: cfg.Derived.CenterX, Y: cfg.Derived.CenterY, Z: cfg.Ball.Radius},
		LastTouch: components.NoTeam,
	}

	return m
}

// hashSeed maps a seed label to an RNG source with FNV-1a.
func hashSeed(seed string) int64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return int64(h.Sum64())
}

// Spawn adds one player. Spawn order fixes the deterministic iteration order,
// so callers must add full lineups before the first Step.
func (m *Match) Spawn(lu Lineup, pos geom.Vec2) ecs.Entity {
	tf := components.Transform{Pos: pos}
	air := components.Airborne{}
	attrs := lu.Attrs

	cond := components.Condition{
		Stamina:   1,
		BaseSpeed: systems.BaseSpeed(attrs.Pace, m.cfg),
		Mass:      systems.PlayerMass(attrs.Strength, m.cfg),
	}
	cond.EffectiveSpeed = systems.EffectiveSpeed(cond.BaseSpeed, cond.Stamina, m.cfg)

	agent := components.Agent{
		ID:      len(m.players),
		Number:  lu.Number,
		Name:    lu.Name,
		Team:    lu.Team,
		Role:    lu.Role,
		OnCourt: true,
		State:   components.ActionIdle,
	}

	e := m.mapper.NewEntity(&tf, &air, &attrs, &cond, &agent)
	m.indexOf[e] = len(m.players)
	m.players = append(m.players, e)
	m.stepDist = append(m.stepDist, 0)
	return e
}

// SetTactics installs the tactical layer consulted at the top of every tick.
func (m *Match) SetTactics(t TargetProvider) { m.tactics = t }

// Subscribe registers an outcome handler. Handlers fire synchronously in
// registration order.
func (m *Match) Subscribe(h Handler) { m.handlers = append(m.handlers, h) }

// emit delivers an outcome to every handler and logs it.
func (m *Match) emit(o Outcome) {
	o.Tick = m.tick
	o.Clock = m.clock
	m.log.Debug("outcome",
		"kind", o.Kind.String(),
		"team", o.Team,
		"player", o.Player,
		"clock", fmt.Sprintf("%.1f", o.Clock),
	)
	for _, h := range m.handlers {
		h.HandleOutcome(o)
	}
}

// Accessors used by tactics, telemetry, and tests. Pointers returned here
// alias live match state; only the tactical layer may write through them, and
// only to Agent intent fields.

// Config returns the match configuration.
func (m *Match) Config() *config.Config { return m.cfg }

// Players returns the stable player entity order.
func (m *Match) Players() []ecs.Entity { return m.players }

// Transform returns the player's kinematic state.
func (m *Match) Transform(e ecs.Entity) *components.Transform { return m.posMap.Get(e) }

// Airborne returns the player's jump state.
func (m *Match) Airborne(e ecs.Entity) *components.Airborne { return m.airMap.Get(e) }

// Attributes returns the player's skill set.
func (m *Match) Attributes(e ecs.Entity) *components.Attributes { return m.attrMap.Get(e) }

// Condition returns the player's fatigue state.
func (m *Match) Condition(e ecs.Entity) *components.Condition { return m.condMap.Get(e) }

// Agent returns the player's identity and action state.
func (m *Match) Agent(e ecs.Entity) *components.Agent { return m.agentMap.Get(e) }

// Ball returns the match ball.
func (m *Match) Ball() *components.Ball { return &m.ball }

// Possession returns the team currently in control, or NoTeam.
func (m *Match) Possession() int { return m.possession }

// Score returns the current score by team index.
func (m *Match) Score() [2]int { return m.score }

// Clock returns elapsed simulation seconds in the current half.
func (m *Match) Clock() float64 { return m.clock }

// Half returns the current half, 1 or 2.
func (m *Match) Half() int { return m.half }

// Tick returns the number of completed ticks.
func (m *Match) Tick() int { return m.tick }

// Done reports whether the match has ended.
func (m *Match) Done() bool { return m.done }

// Rand exposes the match RNG so tactical decisions share the deterministic
// stream. Draw order is part of the replay contract.
func (m *Match) Rand() *rand.Rand { return m.rng }

// AttackSign returns the attack direction along the X axis for a team:
// team 0 attacks +X (the goal at Length), team 1 attacks -X.
func (m *Match) AttackSign(team int) float64 {
	if team == 0 {
		return 1
	}
	return -1
}

// AttackedGoalX returns the X coordinate of the goal the team attacks.
func (m *Match) AttackedGoalX(team int) float64 {
	if team == 0 {
		return m.cfg.Derived.GoalCenterX[1]
	}
	return m.cfg.Derived.GoalCenterX[0]
}

// DefendedGoalX returns the X coordinate of the goal the team defends.
func (m *Match) DefendedGoalX(team int) float64 {
	return m.AttackedGoalX(1 - team)
}

// Keeper returns the on-court goalkeeper entity for a team.
func (m *Match) Keeper(team int) (ecs.Entity, bool) {
	for _, e := range m.players {
		ag := m.agentMap.Get(e)
		if ag.Team == team && ag.Role == components.RoleKeeper && ag.OnCourt {
			return e, true
		}
	}
	return ecs.Entity{}, false
}

// Holder returns the entity holding the ball, if any.
func (m *Match) Holder() (ecs.Entity, bool) {
	if !m.ball.HasHolder {
		return ecs.Entity{}, false
	}
	return m.ball.Holder, true
}

// giveBall hands the ball to a player and updates possession.
func (m *Match) giveBall(e ecs.Entity) {
	if prev, ok := m.Holder(); ok {
		pa := m.agentMap.Get(prev)
		pa.HasBall = false
		pa.Steps = 0
	}
	ag := m.agentMap.Get(e)
	ag.HasBall = true
	ag.Steps = 0
	m.stepDist[m.indexOf[e]] = 0
	m.ball.SetHeld(e, ag.Team)
	m.possession = ag.Team
	systems.FollowHolder(&m.ball, m.posMap.Get(e), m.cfg)
}

// dropBall releases the ball as loose with the given velocity.
func (m *Match) dropBall(vel geom.Vec3, team int) {
	if prev, ok := m.Holder(); ok {
		pa := m.agentMap.Get(prev)
		pa.HasBall = false
		pa.Steps = 0
	}
	m.ball.Release(vel, geom.Vec3{}, team)
	m.ball.ClearReceiver()
	m.possession = components.NoTeam
}

// pressureOn measures how crowded a player is by the nearest on-court
// opponent inside the neighbor radius. Returns a value in [0, 1].
func (m *Match) pressureOn(e ecs.Entity) float64 {
	tf := m.posMap.Get(e)
	ag := m.agentMap.Get(e)

	m.neighbors = m.grid.QueryRadiusInto(m.neighbors[:0], tf.Pos.X, tf.Pos.Y, m.cfg.Physics.NeighborRadius, e, m.posMap)

	best := 0.0
	for _, n := range m.neighbors {
		oa := m.agentMap.Get(n.E)
		if oa == nil || oa.Team == ag.Team || !oa.OnCourt {
			continue
		}
		d := n.DistSq
		r := m.cfg.Physics.NeighborRadius
		closeness := 1 - d/(r*r)
		if closeness > best {
			best = closeness
		}
	}
	return geom.Clamp01(best)
}
