package main

import (
	"github.com/ahlgreen/handsim/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable resolver parameters.
// These are the base rates that dominate match statistics; geometry and
// physics stay locked.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "pass_base_chance", Min: 0.7, Max: 0.98, Default: 0.9},
			{Name: "pass_pressure_penalty", Min: 0.1, Max: 0.5, Default: 0.25},
			{Name: "shot_base_accuracy", Min: 0.6, Max: 0.95, Default: 0.82},
			{Name: "shot_pressure_penalty", Min: 0.2, Max: 0.6, Default: 0.4},
			{Name: "save_base_chance", Min: 0.15, Max: 0.55, Default: 0.32},
			{Name: "block_active_chance", Min: 0.2, Max: 0.6, Default: 0.38},
			{Name: "block_passive_chance", Min: 0.05, Max: 0.25, Default: 0.12},
			{Name: "tackle_base_success", Min: 0.25, Max: 0.6, Default: 0.42},
			{Name: "tackle_base_foul", Min: 0.1, Max: 0.4, Default: 0.22},
			{Name: "intercept_base_chance", Min: 0.3, Max: 0.8, Default: 0.55},
			{Name: "stamina_drain_rate", Min: 0.002, Max: 0.015, Default: 0.006},
			{Name: "stamina_recovery_rate", Min: 0.004, Max: 0.02, Default: 0.009},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct. Order must
// match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	v := pv.Clamp(values)
	cfg.Pass.BaseChance = v[0]
	cfg.Pass.PressurePenalty = v[1]
	cfg.Shot.BaseAccuracy = v[2]
	cfg.Shot.PressurePenalty = v[3]
	cfg.Save.BaseChance = v[4]
	cfg.Block.ActiveChance = v[5]
	cfg.Block.PassiveChance = v[6]
	cfg.Tackle.BaseSuccess = v[7]
	cfg.Tackle.BaseFoul = v[8]
	cfg.Interception.BaseChance = v[9]
	cfg.Stamina.DrainRate = v[10]
	cfg.Stamina.RecoveryRate = v[11]
}
