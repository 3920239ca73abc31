package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated match statistics for one time window.
type WindowStats struct {
	WindowEndTick int     `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`
	Half          int     `csv:"half"`

	ScoreHome int `csv:"score_home"`
	ScoreAway int `csv:"score_away"`

	Passes        int     `csv:"passes"`
	PassesMade    int     `csv:"passes_made"`
	Interceptions int     `csv:"interceptions"`
	PassRate      float64 `csv:"pass_rate"`

	Shots   int     `csv:"shots"`
	Goals   int     `csv:"goals"`
	Saves   int     `csv:"saves"`
	Blocks  int     `csv:"blocks"`
	Misses  int     `csv:"misses"`
	ShotPct float64 `csv:"shot_pct"`

	Tackles     int `csv:"tackles"`
	TacklesWon  int `csv:"tackles_won"`
	Fouls       int `csv:"fouls"`
	Suspensions int `csv:"suspensions"`
	RedCards    int `csv:"red_cards"`
	Penalties   int `csv:"penalties"`
	Travels     int `csv:"travels"`

	// Stamina distribution across on-court players at window end.
	StaminaMean float64 `csv:"stamina_mean"`
	StaminaStd  float64 `csv:"stamina_std"`
	StaminaP10  float64 `csv:"stamina_p10"`
	StaminaP50  float64 `csv:"stamina_p50"`
	StaminaP90  float64 `csv:"stamina_p90"`
}

// distill fills the distribution fields from a stamina sample.
func (w *WindowStats) distill(stamina []float64) {
	if len(stamina) == 0 {
		return
	}
	w.StaminaMean = stat.Mean(stamina, nil)
	w.StaminaStd = stat.StdDev(stamina, nil)

	sorted := append([]float64(nil), stamina...)
	sort.Float64s(sorted)
	w.StaminaP10 = stat.Quantile(0.1, stat.Empirical, sorted, nil)
	w.StaminaP50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	w.StaminaP90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)

	if w.Passes > 0 {
		w.PassRate = float64(w.PassesMade) / float64(w.Passes)
	}
	if w.Shots > 0 {
		w.ShotPct = float64(w.Goals) / float64(w.Shots)
	}
}
