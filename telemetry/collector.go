// Package telemetry aggregates match outcomes into windowed statistics and
// CSV output files.
package telemetry

import (
	"log/slog"

	"github.com/ahlgreen/handsim/match"
)

// Collector subscribes to match outcomes, accumulates them into fixed
// windows, and flushes rows through an OutputManager. A nil OutputManager
// still keeps the running totals.
type Collector struct {
	m   *match.Match
	out *OutputManager
	log *slog.Logger

	windowTicks int
	windowStart int

	cur    WindowStats
	totals WindowStats
}

// NewCollector wires a collector to a match. windowSec is how much
// simulation time each stats row covers.
func NewCollector(m *match.Match, out *OutputManager, windowSec float64, log *slog.Logger) *Collector {
	if log == nil {
		log = slog.Default()
	}
	ticks := int(windowSec / m.Config().Physics.DT)
	if ticks < 1 {
		ticks = 1
	}
	c := &Collector{
		m:           m,
		out:         out,
		log:         log,
		windowTicks: ticks,
	}
	m.Subscribe(c)
	return c
}

// HandleOutcome implements match.Handler.
func (c *Collector) HandleOutcome(o match.Outcome) {
	c.record(&c.cur, o)
	c.record(&c.totals, o)

	if c.out != nil {
		rec := EventRecord{
			Tick:     o.Tick,
			Clock:    o.Clock,
			Half:     c.m.Half(),
			Kind:     o.Kind.String(),
			Team:     o.Team,
			Player:   o.Player,
			Other:    o.Other,
			ImpactY:  o.Impact.Y,
			ImpactZ:  o.Impact.Z,
			Reason:   o.Reason,
		}
		if o.Kind == match.OutcomeFoul {
			rec.Severity = o.Severity.String()
		}
		if err := c.out.WriteEvent(rec); err != nil {
			c.log.Warn("event write failed", "err", err)
		}
	}

	if o.Kind == match.OutcomeMatchEnd {
		c.Flush()
	}
}

func (c *Collector) record(w *WindowStats, o match.Outcome) {
	switch o.Kind {
	case match.OutcomePassComplete:
		w.Passes++
		w.PassesMade++
	case match.OutcomePassIncomplete:
		w.Passes++
	case match.OutcomePassIntercepted:
		w.Passes++
		w.Interceptions++
	case match.OutcomeShotGoal:
		w.Shots++
		w.Goals++
	case match.OutcomeShotSaved:
		w.Shots++
		w.Saves++
	case match.OutcomeShotBlocked:
		w.Shots++
		w.Blocks++
	case match.OutcomeShotMissed:
		w.Shots++
		w.Misses++
	case match.OutcomePenaltyGoal:
		w.Shots++
		w.Goals++
	case match.OutcomePenaltySaved:
		w.Shots++
		w.Saves++
	case match.OutcomePenaltyMissed:
		w.Shots++
		w.Misses++
	case match.OutcomePenaltyAwarded:
		w.Penalties++
	case match.OutcomeTackleWon:
		w.Tackles++
		w.TacklesWon++
	case match.OutcomeTackleMissed:
		w.Tackles++
	case match.OutcomeFoul:
		w.Fouls++
		switch o.Severity {
		case match.FoulSuspension:
			w.Suspensions++
		case match.FoulRedCard:
			w.RedCards++
		}
	case match.OutcomeTravelViolation:
		w.Travels++
	}
}

// Tick must be called once per simulation tick, after Step. It closes and
// writes the current window when its tick budget is spent.
func (c *Collector) Tick() {
	if c.m.Tick()-c.windowStart < c.windowTicks {
		return
	}
	c.Flush()
}

// Flush closes the current window immediately.
func (c *Collector) Flush() {
	w := c.cur
	w.WindowEndTick = c.m.Tick()
	w.SimTimeSec = c.m.Clock()
	w.Half = c.m.Half()
	score := c.m.Score()
	w.ScoreHome = score[0]
	w.ScoreAway = score[1]
	w.distill(c.staminaSample())

	if c.out != nil {
		if err := c.out.WriteStats(w); err != nil {
			c.log.Warn("stats write failed", "err", err)
		}
	}

	c.cur = WindowStats{}
	c.windowStart = c.m.Tick()
}

// Totals returns the whole-match accumulation so far.
func (c *Collector) Totals() WindowStats {
	t := c.totals
	t.WindowEndTick = c.m.Tick()
	t.SimTimeSec = c.m.Clock()
	score := c.m.Score()
	t.ScoreHome = score[0]
	t.ScoreAway = score[1]
	t.distill(c.staminaSample())
	return t
}

func (c *Collector) staminaSample() []float64 {
	var sample []float64
	for _, e := range c.m.Players() {
		if !c.m.Agent(e).OnCourt {
			continue
		}
		sample = append(sample, c.m.Condition(e).Stamina)
	}
	return sample
}
