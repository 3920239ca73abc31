// Package main runs headless handball matches and reports the results.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ahlgreen/handsim/config"
	"github.com/ahlgreen/handsim/geom"
	"github.com/ahlgreen/handsim/match"
	"github.com/ahlgreen/handsim/roster"
	"github.com/ahlgreen/handsim/tactics"
	"github.com/ahlgreen/handsim/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = embedded defaults)")
	seed := flag.String("seed", "friendly-1", "Match seed label; identical seeds replay identically")
	matches := flag.Int("matches", 1, "Number of independent matches to run")
	rosterPath := flag.String("roster", "", "Squad CSV for both teams (empty = generated squads)")
	writeRoster := flag.String("write-roster", "", "Write the generated squads to this CSV and exit")
	outputDir := flag.String("output", "", "Output directory for events.csv and stats.csv (empty = no files)")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	var lineups []match.Lineup
	if *rosterPath != "" {
		var err error
		lineups, err = roster.Load(*rosterPath)
		if err != nil {
			log.Fatalf("failed to load roster: %v", err)
		}
	} else {
		lineups = roster.Generate(*seed)
	}

	if *writeRoster != "" {
		if err := roster.Save(*writeRoster, lineups); err != nil {
			log.Fatalf("failed to write roster: %v", err)
		}
		fmt.Printf("roster written to %s\n", *writeRoster)
		return
	}

	if *matches < 1 {
		log.Fatalf("matches must be at least 1, got %d", *matches)
	}

	var aggregate telemetry.WindowStats
	for i := 0; i < *matches; i++ {
		matchSeed := *seed
		dir := *outputDir
		if *matches > 1 {
			matchSeed = fmt.Sprintf("%s-%d", *seed, i+1)
			if dir != "" {
				dir = filepath.Join(dir, matchSeed)
			}
		}

		totals, score, err := runMatch(cfg, logger, matchSeed, dir, lineups)
		if err != nil {
			log.Fatalf("match %s failed: %v", matchSeed, err)
		}

		fmt.Printf("[%s] final score %d-%d\n", matchSeed, score[0], score[1])
		aggregate.Passes += totals.Passes
		aggregate.PassesMade += totals.PassesMade
		aggregate.Interceptions += totals.Interceptions
		aggregate.Shots += totals.Shots
		aggregate.Goals += totals.Goals
		aggregate.Saves += totals.Saves
		aggregate.Blocks += totals.Blocks
		aggregate.Misses += totals.Misses
		aggregate.Fouls += totals.Fouls
		aggregate.Suspensions += totals.Suspensions
		aggregate.Penalties += totals.Penalties
	}

	fmt.Printf("shots=%d goals=%d saves=%d blocks=%d misses=%d\n",
		aggregate.Shots, aggregate.Goals, aggregate.Saves, aggregate.Blocks, aggregate.Misses)
	fmt.Printf("passes=%d made=%d intercepted=%d fouls=%d suspensions=%d penalties=%d\n",
		aggregate.Passes, aggregate.PassesMade, aggregate.Interceptions,
		aggregate.Fouls, aggregate.Suspensions, aggregate.Penalties)
}

// runMatch simulates one full match with its own state so batch runs stay
// independent.
func runMatch(cfg *config.Config, logger *slog.Logger, seed, outputDir string, lineups []match.Lineup) (telemetry.WindowStats, [2]int, error) {
	out, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return telemetry.WindowStats{}, [2]int{}, fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return telemetry.WindowStats{}, [2]int{}, fmt.Errorf("writing config: %w", err)
	}

	m := match.New(cfg, logger, seed)
	center := geom.Vec2{X: cfg.Derived.CenterX, Y: cfg.Derived.CenterY}
	for _, lu := range lineups {
		m.Spawn(lu, center)
	}
	m.SetTactics(tactics.NewPlaybook())

	collector := telemetry.NewCollector(m, out, cfg.Telemetry.StatsWindow, logger)

	m.Kickoff()
	for !m.Done() {
		m.Step()
		collector.Tick()
	}

	return collector.Totals(), m.Score(), nil
}
