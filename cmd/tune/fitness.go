package main

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
	"github.com/ahlgreen/handsim/match"
	"github.com/ahlgreen/handsim/roster"
	"github.com/ahlgreen/handsim/tactics"
	"github.com/ahlgreen/handsim/telemetry"
)

// Targets are realistic full-match statistics the tuner steers toward.
// Totals are per match across both teams.
type Targets struct {
	Goals      float64
	PassRate   float64
	ShotPct    float64
	Fouls      float64
	StaminaP50 float64
}

// DefaultTargets returns figures in line with top-league averages.
func DefaultTargets() Targets {
	return Targets{
		Goals:      55,
		PassRate:   0.92,
		ShotPct:    0.58,
		Fouls:      22,
		StaminaP50: 0.55,
	}
}

// FitnessEvaluator runs headless matches and scores configs against the
// target statistics.
type FitnessEvaluator struct {
	params  *ParamVector
	seeds   []string
	baseCfg *config.Config
	targets Targets

	mu       sync.Mutex
	lastFit  float64
	lastDesc string
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, seeds []string, baseCfg *config.Config, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:  params,
		seeds:   seeds,
		baseCfg: baseCfg,
		targets: targets,
	}
}

// LastDescription returns a short summary of the most recent evaluation.
func (fe *FitnessEvaluator) LastDescription() string {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastDesc
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// All seeds run in parallel; the fitness is the mean squared relative error
// against the targets.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, raw)

	results := make([]telemetry.WindowStats, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s string) {
			defer wg.Done()
			results[idx] = runMatch(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var goals, passRate, shotPct, fouls, stamina float64
	for _, r := range results {
		goals += float64(r.Goals)
		passRate += r.PassRate
		shotPct += r.ShotPct
		fouls += float64(r.Fouls)
		stamina += r.StaminaP50
	}
	n := float64(len(results))
	goals /= n
	passRate /= n
	shotPct /= n
	fouls /= n
	stamina /= n

	t := fe.targets
	fit := relErrSq(goals, t.Goals) +
		relErrSq(passRate, t.PassRate) +
		relErrSq(shotPct, t.ShotPct) +
		relErrSq(fouls, t.Fouls) +
		relErrSq(stamina, t.StaminaP50)

	fe.mu.Lock()
	fe.lastFit = fit
	fe.lastDesc = fmt.Sprintf("goals=%.1f pass=%.2f shot=%.2f fouls=%.1f stamina=%.2f",
		goals, passRate, shotPct, fouls, stamina)
	fe.mu.Unlock()
	return fit
}

func relErrSq(got, want float64) float64 {
	if want == 0 {
		return got * got
	}
	d := (got - want) / want
	return d * d
}

// runMatch plays one silent full match and returns its totals.
func runMatch(cfg *config.Config, seed string) telemetry.WindowStats {
	logger := slog.New(slog.DiscardHandler)

	m := match.New(cfg, logger, seed)
	center := geom.Vec2{X: cfg.Derived.CenterX, Y: cfg.Derived.CenterY}
	for _, lu := range roster.Generate(seed) {
		m.Spawn(lu, center)
	}
	m.SetTactics(tactics.NewPlaybook())
	collector := telemetry.NewCollector(m, nil, cfg.Telemetry.StatsWindow, logger)

	m.Kickoff()
	for !m.Done() {
		m.Step()
		collector.Tick()
	}
	return collector.Totals()
}

// copyConfig clones the base config by value. All fields are scalars, so a
// shallow copy is a deep copy.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseCfg
	return &cfg
}
