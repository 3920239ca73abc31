package match

import (
	"math"
	"math/rand"
	"testing"

	"github.com/ahlgreen/handsim/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

func TestPassChance(t *testing.T) {
	cfg := testConfig(t)

	// A skilled passer over half a meter is near automatic.
	if p := passChance(90, 0.5, 0, 1, 0, cfg); p <= 0.9 {
		t.Errorf("elite short pass chance = %v, want > 0.9", p)
	}

	// Monotonic in distance and pressure.
	near := passChance(50, 3, 0, 1, 0, cfg)
	far := passChance(50, 20, 0, 1, 0, cfg)
	if far >= near {
		t.Errorf("longer pass %v not below shorter %v", far, near)
	}
	open := passChance(50, 8, 0, 1, 0, cfg)
	pressed := passChance(50, 8, 1, 1, 0, cfg)
	if pressed >= open {
		t.Errorf("pressured pass %v not below open %v", pressed, open)
	}
	fresh := passChance(50, 8, 0, 1, 0, cfg)
	tired := passChance(50, 8, 0, 0.1, 0, cfg)
	if tired >= fresh {
		t.Errorf("tired pass %v not below fresh %v", tired, fresh)
	}
}

func TestPassChanceClamped(t *testing.T) {
	cfg := testConfig(t)
	cases := []struct{ passing, dist, pressure, stamina, noise float64 }{
		{95, 0, 0, 1, 1},
		{5, 50, 1, 0, -1},
		{50, 10, 0.5, 0.5, 0},
		{math.NaN(), 10, 0, 1, 0},
	}
	for _, c := range cases {
		p := passChance(c.passing, c.dist, c.pressure, c.stamina, c.noise, cfg)
		if p < 0 || p > 1 || math.IsNaN(p) {
			t.Errorf("passChance(%+v) = %v, want within [0,1]", c, p)
		}
	}
}

func TestShotAccuracy(t *testing.T) {
	cfg := testConfig(t)

	// No distance penalty inside the long shot threshold.
	inside := shotAccuracy(50, 50, cfg.Shot.LongShotDistance-1, 0, 1, cfg)
	atLine := shotAccuracy(50, 50, cfg.Shot.LongShotDistance, 0, 1, cfg)
	if math.Abs(inside-atLine) > 1e-9 {
		t.Errorf("accuracy changed inside long shot range: %v vs %v", inside, atLine)
	}
	long := shotAccuracy(50, 50, cfg.Shot.LongShotDistance*1.8, 0, 1, cfg)
	if long >= atLine {
		t.Errorf("long shot %v not below threshold shot %v", long, atLine)
	}

	// Composure relieves the pressure penalty.
	calm := shotAccuracy(50, 90, 8, 1, 1, cfg)
	rattled := shotAccuracy(50, 10, 8, 1, 1, cfg)
	if calm <= rattled {
		t.Errorf("composed shooter %v not above rattled %v under pressure", calm, rattled)
	}

	for _, press := range []float64{0, 0.5, 1} {
		a := shotAccuracy(95, 95, 0, press, 1, cfg)
		if a < 0 || a > 1 {
			t.Errorf("accuracy %v outside [0,1] at pressure %v", a, press)
		}
	}
}

func TestShotDeviationEnvelope(t *testing.T) {
	cfg := testConfig(t)

	// The worst realistic release: bottom-rung shooter, no composure, double
	// the long shot line, full pressure, empty tank. The envelope must open
	// up to near the configured ceiling without ever crossing it.
	a := shotAccuracy(5, 5, 2*cfg.Shot.LongShotDistance, 1, 0, cfg)
	dev := (1 - a) * cfg.Shot.MaxDeviationDeg
	if dev > cfg.Shot.MaxDeviationDeg {
		t.Errorf("deviation %v exceeds ceiling %v", dev, cfg.Shot.MaxDeviationDeg)
	}
	if dev < 0.8*cfg.Shot.MaxDeviationDeg {
		t.Errorf("deviation %v not near the ceiling %v for a worst-case release", dev, cfg.Shot.MaxDeviationDeg)
	}
}

func TestBlockChance(t *testing.T) {
	cfg := testConfig(t)

	// Passive bodies contribute the flat rate regardless of skill.
	if p := blockChance(false, 95, cfg.Block.TimingBonus, cfg); p != cfg.Block.PassiveChance {
		t.Errorf("passive chance = %v, want %v", p, cfg.Block.PassiveChance)
	}

	skilled := blockChance(true, 80, 1, cfg)
	clumsy := blockChance(true, 20, 1, cfg)
	if skilled <= clumsy {
		t.Errorf("blocking 80 chance %v not above blocking 20 chance %v", skilled, clumsy)
	}

	sharp := blockChance(true, 50, cfg.Block.TimingBonus, cfg)
	late := blockChance(true, 50, cfg.Block.TimingPenalty, cfg)
	if sharp <= late {
		t.Errorf("well-timed block %v not above late block %v", sharp, late)
	}
}

func TestIndependentBlockRolls(t *testing.T) {
	// Three defenders at 0.4 each stop 1-(0.6)^3 of shots between them; the
	// gauntlet relies on this combination holding.
	q := 1.0
	for i := 0; i < 3; i++ {
		q *= 1 - 0.4
	}
	if got := 1 - q; math.Abs(got-0.784) > 1e-9 {
		t.Errorf("combined stop rate = %v, want 0.784", got)
	}
}

func TestTackleSuccessChance(t *testing.T) {
	cfg := testConfig(t)

	// Even matchup lands on the base rate.
	if p := tackleSuccessChance(50, 50, cfg); math.Abs(p-cfg.Tackle.BaseSuccess) > 1e-9 {
		t.Errorf("even matchup = %v, want base %v", p, cfg.Tackle.BaseSuccess)
	}

	strong := tackleSuccessChance(85, 30, cfg)
	weak := tackleSuccessChance(30, 85, cfg)
	if strong <= cfg.Tackle.BaseSuccess || weak >= cfg.Tackle.BaseSuccess {
		t.Errorf("matchup gap not reflected: strong %v, weak %v around base %v",
			strong, weak, cfg.Tackle.BaseSuccess)
	}
}

func TestTackleFoulChance(t *testing.T) {
	cfg := testConfig(t)

	clean := tackleFoulChance(50, false, false, false, cfg)
	behind := tackleFoulChance(50, true, false, false, cfg)
	if math.Abs(behind/clean-cfg.Tackle.FromBehindFoulMult) > 1e-9 {
		t.Errorf("from-behind ratio = %v, want %v", behind/clean, cfg.Tackle.FromBehindFoulMult)
	}

	everything := tackleFoulChance(95, true, true, true, cfg)
	if everything < behind {
		t.Errorf("fully aggravated chance %v below from-behind alone %v", everything, behind)
	}
	if everything > 1 {
		t.Errorf("foul chance %v not clamped", everything)
	}
}

func TestFoulSeverityBands(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name        string
		aggression  float64
		fromBehind  bool
		highSpeed   bool
		clearChance bool
		wantBand    FoulSeverity
	}{
		{"routine contact", 50, false, false, false, FoulFreeThrow},
		{"from behind", 50, true, false, false, FoulSuspension},
		{"reckless denial", 95, true, true, true, FoulRedCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := foulSeverity(tt.aggression, tt.fromBehind, tt.highSpeed, tt.clearChance, cfg)
			var band FoulSeverity
			switch {
			case s >= cfg.Foul.RedCardAt:
				band = FoulRedCard
			case s >= cfg.Foul.SuspensionAt:
				band = FoulSuspension
			default:
				band = FoulFreeThrow
			}
			if band != tt.wantBand {
				t.Errorf("severity %v classified %v, want %v", s, band, tt.wantBand)
			}
		})
	}
}

func TestPenaltySaveChance(t *testing.T) {
	cfg := testConfig(t)

	matched := penaltySaveChance(true, 50, 50, cfg)
	unmatched := penaltySaveChance(false, 50, 50, cfg)
	if matched <= unmatched {
		t.Errorf("matched dive %v not above unmatched %v", matched, unmatched)
	}

	// Equal attributes leave the base untouched.
	if math.Abs(matched-cfg.Penalty.BaseSaveMatched) > 1e-9 {
		t.Errorf("even duel = %v, want base %v", matched, cfg.Penalty.BaseSaveMatched)
	}

	eliteKeeper := penaltySaveChance(true, 90, 50, cfg)
	eliteShooter := penaltySaveChance(true, 50, 90, cfg)
	if eliteKeeper <= matched || eliteShooter >= matched {
		t.Errorf("attribute gap not reflected: keeper %v, shooter %v around %v",
			eliteKeeper, eliteShooter, matched)
	}
}

func TestKeeperZonePick(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))

	var counts [3]int
	for i := 0; i < 30000; i++ {
		z := keeperZonePick(rng, cfg)
		if z < 0 || z > 2 {
			t.Fatalf("zone = %d, want 0..2", z)
		}
		counts[z]++
	}

	// Center bias pushes the keeper toward the corners.
	if counts[1] >= counts[0] || counts[1] >= counts[2] {
		t.Errorf("center picked %d times vs corners %d/%d, want fewest", counts[1], counts[0], counts[2])
	}
}

func TestSaveChance(t *testing.T) {
	cfg := testConfig(t)

	// An instant impact beyond arm reach cannot be saved.
	if p := saveChance(90, 90, 90, 50, cfg.Save.ArmReach+0.5, 1, 0, 9, true, cfg); p != 0 {
		t.Errorf("out-of-reach save chance = %v, want 0", p)
	}

	central := saveChance(50, 50, 50, 50, 0, 1, 0.4, 9, true, cfg)
	stretched := saveChance(50, 50, 50, 50, 1.0, 1, 0.4, 9, true, cfg)
	if stretched >= central {
		t.Errorf("stretch save %v not below central %v", stretched, central)
	}

	skimming := saveChance(50, 50, 50, 50, 0, cfg.Save.MinHeight/2, 0.4, 9, true, cfg)
	if skimming >= central {
		t.Errorf("low skidder %v not below chest-height shot %v", skimming, central)
	}

	blind := saveChance(50, 50, 50, 50, 0, 1, 0.4, 9, false, cfg)
	if blind >= central {
		t.Errorf("out-of-cone shot %v not below faced shot %v", blind, central)
	}

	pointBlank := saveChance(50, 50, 50, 50, 0, 1, 0.2, 1, true, cfg)
	distant := saveChance(50, 50, 50, 50, 0, 1, 0.6, cfg.Save.LongRange+2, true, cfg)
	if pointBlank >= distant {
		t.Errorf("point-blank save %v not below long-range save %v", pointBlank, distant)
	}

	for _, power := range []float64{5, 50, 95} {
		p := saveChance(95, 95, 95, power, 0, 1, 0.5, 8, true, cfg)
		if p < 0 || p > 1 {
			t.Errorf("save chance %v outside [0,1] at power %v", p, power)
		}
	}
}
