// Package roster loads squads from CSV files and can generate plausible
// default squads for quick runs.
package roster

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/ahlgreen/handsim/components"
	"github.com/ahlgreen/handsim/geom"
	"github.com/ahlgreen/handsim/match"
)

// Row is one player in a squad CSV file. Attribute columns come from the
// embedded component's csv tags.
type Row struct {
	Number int    `csv:"number"`
	Name   string `csv:"name"`
	Team   int    `csv:"team"`
	Role   string `csv:"role"`

	components.Attributes
}

// roleFromLabel maps roster labels to roles.
func roleFromLabel(label string) (components.Role, error) {
	switch label {
	case "GK":
		return components.RoleKeeper, nil
	case "LW":
		return components.RoleLeftWing, nil
	case "LB":
		return components.RoleLeftBack, nil
	case "CB":
		return components.RoleCenterBack, nil
	case "RB":
		return components.RoleRightBack, nil
	case "RW":
		return components.RoleRightWing, nil
	case "PV":
		return components.RolePivot, nil
	}
	return 0, fmt.Errorf("roster: unknown role %q", label)
}

// Load reads a squad CSV and returns lineups in file order.
func Load(path string) ([]match.Lineup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster: %w", err)
	}
	defer f.Close()

	var rows []Row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}

	lineups := make([]match.Lineup, 0, len(rows))
	for i, r := range rows {
		role, err := roleFromLabel(r.Role)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if r.Team != 0 && r.Team != 1 {
			return nil, fmt.Errorf("row %d: team must be 0 or 1, got %d", i+1, r.Team)
		}
		lineups = append(lineups, match.Lineup{
			Number: r.Number,
			Name:   r.Name,
			Team:   r.Team,
			Role:   role,
			Attrs:  r.Attributes,
		})
	}
	return lineups, nil
}

// Save writes lineups to a squad CSV.
func Save(path string, lineups []match.Lineup) error {
	rows := make([]Row, 0, len(lineups))
	for _, lu := range lineups {
		rows = append(rows, Row{
			Number:     lu.Number,
			Name:       lu.Name,
			Team:       lu.Team,
			Role:       lu.Role.String(),
			Attributes: lu.Attrs,
		})
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating roster: %w", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("writing roster: %w", err)
	}
	return nil
}

var courtRoles = []components.Role{
	components.RoleKeeper,
	components.RoleLeftWing,
	components.RoleLeftBack,
	components.RoleCenterBack,
	components.RoleRightBack,
	components.RoleRightWing,
	components.RolePivot,
}

// Generate builds two full squads from a seed label. The same seed always
// yields the same squads. Attributes center on the benchmark with a spread
// that keeps everything inside the conventional range.
func Generate(seed string) []match.Lineup {
	h := fnv.New64a()
	h.Write([]byte(seed))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	var lineups []match.Lineup
	for team := 0; team < 2; team++ {
		for i, role := range courtRoles {
			lineups = append(lineups, match.Lineup{
				Number: i + 1,
				Name:   fmt.Sprintf("T%d-%s", team, role.String()),
				Team:   team,
				Role:   role,
				Attrs:  generateAttributes(rng, role),
			})
		}
	}
	return lineups
}

// generateAttributes draws a skill set around the benchmark, nudged by role:
// keepers get reflexes and handling, wings pace and jumping, backs shooting
// and power, pivots strength and ball protection.
func generateAttributes(rng *rand.Rand, role components.Role) components.Attributes {
	draw := func(center float64) float64 {
		return geom.Clamp(center+rng.NormFloat64()*12, 5, 95)
	}
	base := func() float64 { return draw(geom.BenchmarkSkill) }
	high := func() float64 { return draw(68) }

	a := components.Attributes{
		Pace:           base(),
		Strength:       base(),
		Agility:        base(),
		Jumping:        base(),
		Technique:      base(),
		Passing:        base(),
		Shooting:       base(),
		Power:          base(),
		Blocking:       base(),
		Tackling:       base(),
		Anticipation:   base(),
		Positioning:    base(),
		DecisionMaking: base(),
		Composure:      base(),
		Aggression:     base(),
		BallProtection: base(),
		WorkRate:       base(),
		Determination:  base(),
		Resilience:     base(),
		Stamina:        base(),
		NaturalFitness: base(),
		Reflexes:       draw(35),
		Handling:       draw(35),
	}

	switch role {
	case components.RoleKeeper:
		a.Reflexes = high()
		a.Handling = high()
		a.Positioning = high()
	case components.RoleLeftWing, components.RoleRightWing:
		a.Pace = high()
		a.Jumping = high()
		a.Agility = high()
	case components.RoleLeftBack, components.RoleRightBack:
		a.Shooting = high()
		a.Power = high()
	case components.RoleCenterBack:
		a.Passing = high()
		a.DecisionMaking = high()
	case components.RolePivot:
		a.Strength = high()
		a.BallProtection = high()
		a.Blocking = high()
	}
	return a
}
