// Package config provides configuration loading and access for the match
// simulation. Every empirically tuned constant (thresholds, weights, base
// chances) lives here so resolver logic never needs touching to re-tune.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Physics      PhysicsConfig      `yaml:"physics" json:"physics"`
	Pitch        PitchConfig        `yaml:"pitch" json:"pitch"`
	Player       PlayerConfig       `yaml:"player" json:"player"`
	Motion       MotionConfig       `yaml:"motion" json:"motion"`
	Stamina      StaminaConfig      `yaml:"stamina" json:"stamina"`
	Collision    CollisionConfig    `yaml:"collision" json:"collision"`
	Ball         BallConfig         `yaml:"ball" json:"ball"`
	Jump         JumpConfig         `yaml:"jump" json:"jump"`
	Pass         PassConfig         `yaml:"pass" json:"pass"`
	Shot         ShotConfig         `yaml:"shot" json:"shot"`
	Penalty      PenaltyConfig      `yaml:"penalty" json:"penalty"`
	Tackle       TackleConfig       `yaml:"tackle" json:"tackle"`
	Block        BlockConfig        `yaml:"block" json:"block"`
	Interception InterceptionConfig `yaml:"interception" json:"interception"`
	Foul         FoulConfig         `yaml:"foul" json:"foul"`
	Save         SaveConfig         `yaml:"save" json:"save"`
	Rules        RulesConfig        `yaml:"rules" json:"rules"`
	Telemetry    TelemetryConfig    `yaml:"telemetry" json:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" json:"-"`
}

// PhysicsConfig holds timestep and spatial index parameters.
type PhysicsConfig struct {
	DT             float64 `yaml:"dt" json:"dt"`                             // seconds per tick
	GridCellFactor float64 `yaml:"grid_cell_factor" json:"grid_cell_factor"` // grid cell = factor × player radius
	NeighborRadius float64 `yaml:"neighbor_radius" json:"neighbor_radius"`   // player-player query radius (m)
	SidelineBuffer float64 `yaml:"sideline_buffer" json:"sideline_buffer"`   // clamp margin inside pitch bounds (m)
	Gravity        float64 `yaml:"gravity" json:"gravity"`                   // m/s²
}

// PitchConfig holds court and goal geometry. Dimensions follow IHF defaults
// but remain configurable for small-court variants.
type PitchConfig struct {
	Length          float64 `yaml:"length" json:"length"`                       // attack axis extent (m)
	Width           float64 `yaml:"width" json:"width"`                         // m
	GoalWidth       float64 `yaml:"goal_width" json:"goal_width"`               // m
	GoalHeight      float64 `yaml:"goal_height" json:"goal_height"`             // m
	GoalAreaRadius  float64 `yaml:"goal_area_radius" json:"goal_area_radius"`   // 6m line
	FreeThrowRadius float64 `yaml:"free_throw_radius" json:"free_throw_radius"` // 9m line
	PostRadius      float64 `yaml:"post_radius" json:"post_radius"`             // goal frame tube radius (m)
}

// PlayerConfig holds per-player physical parameters.
type PlayerConfig struct {
	Radius       float64 `yaml:"radius" json:"radius"`                 // collision radius (m)
	BaseMass     float64 `yaml:"base_mass" json:"base_mass"`           // kg before strength scaling
	MassPerStr   float64 `yaml:"mass_per_str" json:"mass_per_str"`     // kg added per strength point
	BaseSpeed    float64 `yaml:"base_speed" json:"base_speed"`         // m/s at pace 0
	SpeedPerPace float64 `yaml:"speed_per_pace" json:"speed_per_pace"` // m/s added at pace 100
	ReachHeight  float64 `yaml:"reach_height" json:"reach_height"`     // standing deflection height (m)
	CatchRadius  float64 `yaml:"catch_radius" json:"catch_radius"`     // reception distance (m)
	PickupRadius float64 `yaml:"pickup_radius" json:"pickup_radius"`   // loose-ball pickup distance (m)
	HoldOffset   float64 `yaml:"hold_offset" json:"hold_offset"`       // held-ball offset from holder (m)
	HoldHeight   float64 `yaml:"hold_height" json:"hold_height"`       // held-ball height (m)
	StumbleTime  float64 `yaml:"stumble_time" json:"stumble_time"`     // recovery window after ball contact (s)
	StepLength   float64 `yaml:"step_length" json:"step_length"`       // meters counted as one step with the ball
	MaxSteps     int     `yaml:"max_steps" json:"max_steps"`           // traveling violation step budget
}

// MotionConfig holds motion integrator parameters.
type MotionConfig struct {
	SprintMinDistance float64 `yaml:"sprint_min_distance" json:"sprint_min_distance"` // m
	SprintMinStamina  float64 `yaml:"sprint_min_stamina" json:"sprint_min_stamina"`   // [0,1]
	CruiseFactor      float64 `yaml:"cruise_factor" json:"cruise_factor"`             // non-sprint speed cap fraction
	ArrivalRadius     float64 `yaml:"arrival_radius" json:"arrival_radius"`           // sqrt slowdown radius (m)
	BaseAccel         float64 `yaml:"base_accel" json:"base_accel"`                   // m/s² at neutral agility
	BaseDecel         float64 `yaml:"base_decel" json:"base_decel"`                   // m/s² at neutral agility
	AgilityAccelSpan  float64 `yaml:"agility_accel_span" json:"agility_accel_span"`   // ± fraction across agility range
	StumbleSpeedCap   float64 `yaml:"stumble_speed_cap" json:"stumble_speed_cap"`     // speed fraction while stumbling
}

// StaminaConfig holds the fatigue model parameters.
type StaminaConfig struct {
	MoveThreshold    float64 `yaml:"move_threshold" json:"move_threshold"`         // effort above which drain applies
	SprintThreshold  float64 `yaml:"sprint_threshold" json:"sprint_threshold"`     // effort above which drain multiplies
	DrainRate        float64 `yaml:"drain_rate" json:"drain_rate"`                 // stamina/s at threshold effort
	SprintMultiplier float64 `yaml:"sprint_multiplier" json:"sprint_multiplier"`   // extra drain above sprint threshold
	StaminaAttrPower float64 `yaml:"stamina_attr_power" json:"stamina_attr_power"` // power-curve exponent on stamina attr
	RecoveryRate     float64 `yaml:"recovery_rate" json:"recovery_rate"`           // stamina/s when resting
	FitnessSteepness float64 `yaml:"fitness_steepness" json:"fitness_steepness"`   // sigmoid steepness on natural fitness
	EffectiveFloor   float64 `yaml:"effective_floor" json:"effective_floor"`       // speed fraction at zero stamina
	EffectivePower   float64 `yaml:"effective_power" json:"effective_power"`       // convex falloff exponent
}

// CollisionConfig holds pairwise collision resolution parameters.
type CollisionConfig struct {
	Restitution        float64 `yaml:"restitution" json:"restitution"`                 // player-player impulse elasticity
	ShieldAttenuation  float64 `yaml:"shield_attenuation" json:"shield_attenuation"`   // max push reduction from shielding
	SpacingDistance    float64 `yaml:"spacing_distance" json:"spacing_distance"`       // teammate repulsion threshold (m)
	SpacingStrength    float64 `yaml:"spacing_strength" json:"spacing_strength"`       // repulsion nudge (m/s)
	SpacingPower       float64 `yaml:"spacing_power" json:"spacing_power"`             // proximity power-curve exponent
	DeflectTechBlend   float64 `yaml:"deflect_tech_blend" json:"deflect_tech_blend"`   // max blend toward direction-preserving
	DeflectRestitution float64 `yaml:"deflect_restitution" json:"deflect_restitution"` // ball speed kept on body contact
}

// BallConfig holds ball flight and ground parameters.
type BallConfig struct {
	Radius            float64 `yaml:"radius" json:"radius"`                           // m
	DragCoeff         float64 `yaml:"drag_coeff" json:"drag_coeff"`                   // quadratic drag per unit mass
	MagnusCoeff       float64 `yaml:"magnus_coeff" json:"magnus_coeff"`               // Magnus acceleration scale
	SpinDecay         float64 `yaml:"spin_decay" json:"spin_decay"`                   // 1/s exponential decay
	GroundRestitution float64 `yaml:"ground_restitution" json:"ground_restitution"`   // bounce elasticity
	PostRestitution   float64 `yaml:"post_restitution" json:"post_restitution"`       // frame bounce elasticity
	SlideFriction     float64 `yaml:"slide_friction" json:"slide_friction"`           // horizontal loss per bounce
	RollFriction      float64 `yaml:"roll_friction" json:"roll_friction"`             // rolling deceleration coefficient
	RollSpeedMax      float64 `yaml:"roll_speed_max" json:"roll_speed_max"`           // flight→rolling horizontal bound (m/s)
	RollVzMax         float64 `yaml:"roll_vz_max" json:"roll_vz_max"`                 // flight→rolling vertical bound (m/s)
	StopSpeed         float64 `yaml:"stop_speed" json:"stop_speed"`                   // rolling→stopped bound (m/s)
	ProjectionMaxTime float64 `yaml:"projection_max_time" json:"projection_max_time"` // goal-line projection window (s)
	InterceptSamples  int     `yaml:"intercept_samples" json:"intercept_samples"`     // pass-intercept estimation samples
	InterceptHorizon  float64 `yaml:"intercept_horizon" json:"intercept_horizon"`     // forward sampling horizon (s)
}

// JumpConfig holds the vertical jump model parameters.
type JumpConfig struct {
	BaseHeight   float64 `yaml:"base_height" json:"base_height"`     // apex at jumping 0 (m)
	HeightSpan   float64 `yaml:"height_span" json:"height_span"`     // extra apex at jumping 100 (m)
	RecoveryTime float64 `yaml:"recovery_time" json:"recovery_time"` // landing recovery (s)
}

// PassConfig holds pass resolver parameters.
type PassConfig struct {
	BaseChance        float64 `yaml:"base_chance" json:"base_chance"`
	SkillSteepness    float64 `yaml:"skill_steepness" json:"skill_steepness"`
	DistanceHalf      float64 `yaml:"distance_half" json:"distance_half"`             // distance (m) halving accuracy bonus
	PressurePenalty   float64 `yaml:"pressure_penalty" json:"pressure_penalty"`       // max multiplier loss at pressure 1
	FatiguePenalty    float64 `yaml:"fatigue_penalty" json:"fatigue_penalty"`         // max multiplier loss at stamina 0
	NoiseSpan         float64 `yaml:"noise_span" json:"noise_span"`                   // ± per-tick random modifier
	AccurateOffsetDeg float64 `yaml:"accurate_offset_deg" json:"accurate_offset_deg"` // max angular error on success
	WildOffsetDeg     float64 `yaml:"wild_offset_deg" json:"wild_offset_deg"`         // max angular error on failure
	ReleaseSpeed      float64 `yaml:"release_speed" json:"release_speed"`             // m/s at neutral passing
	SpeedPerSkill     float64 `yaml:"speed_per_skill" json:"speed_per_skill"`         // extra m/s at passing 100
	LaneReach         float64 `yaml:"lane_reach" json:"lane_reach"`                   // defender-to-lane distance for checks (m)
	PrepTime          float64 `yaml:"prep_time" json:"prep_time"`                     // seconds of wind-up
}

// ShotConfig holds shot resolver parameters.
type ShotConfig struct {
	BaseAccuracy     float64 `yaml:"base_accuracy" json:"base_accuracy"`
	SkillSteepness   float64 `yaml:"skill_steepness" json:"skill_steepness"`
	LongShotDistance float64 `yaml:"long_shot_distance" json:"long_shot_distance"` // m
	DistancePenalty  float64 `yaml:"distance_penalty" json:"distance_penalty"`     // accuracy loss at/beyond long range
	PressureExponent float64 `yaml:"pressure_exponent" json:"pressure_exponent"`   // non-linear pressure amplification
	PressurePenalty  float64 `yaml:"pressure_penalty" json:"pressure_penalty"`
	ComposureRelief  float64 `yaml:"composure_relief" json:"composure_relief"` // pressure mitigation at composure 100
	FatiguePenalty   float64 `yaml:"fatigue_penalty" json:"fatigue_penalty"`
	MaxDeviationDeg  float64 `yaml:"max_deviation_deg" json:"max_deviation_deg"` // angular envelope ceiling
	ReleaseSpeed     float64 `yaml:"release_speed" json:"release_speed"`         // m/s at neutral power
	SpeedPerPower    float64 `yaml:"speed_per_power" json:"speed_per_power"`
	SpinMax          float64 `yaml:"spin_max" json:"spin_max"` // rad/s at technique 100
	PrepTime         float64 `yaml:"prep_time" json:"prep_time"`
}

// PenaltyConfig holds the three-zone penalty shot model.
type PenaltyConfig struct {
	BaseSaveMatched   float64 `yaml:"base_save_matched" json:"base_save_matched"`     // keeper dives into shot zone
	BaseSaveUnmatched float64 `yaml:"base_save_unmatched" json:"base_save_unmatched"` // keeper guesses wrong
	AttributeBlend    float64 `yaml:"attribute_blend" json:"attribute_blend"`         // weight of shooter-vs-keeper skills
	CenterBias        float64 `yaml:"center_bias" json:"center_bias"`                 // keeper reluctance to stay central
}

// TackleConfig holds tackle resolver parameters.
type TackleConfig struct {
	BaseSuccess         float64 `yaml:"base_success" json:"base_success"`
	BaseFoul            float64 `yaml:"base_foul" json:"base_foul"`
	SkillSteepness      float64 `yaml:"skill_steepness" json:"skill_steepness"`
	FromBehindFoulMult  float64 `yaml:"from_behind_foul_mult" json:"from_behind_foul_mult"`
	FromBehindCone      float64 `yaml:"from_behind_cone" json:"from_behind_cone"` // radians around target's back
	HighSpeedClose      float64 `yaml:"high_speed_close" json:"high_speed_close"` // closing speed (m/s) counted as reckless
	HighSpeedFoulMult   float64 `yaml:"high_speed_foul_mult" json:"high_speed_foul_mult"`
	ClearChanceFoulMult float64 `yaml:"clear_chance_foul_mult" json:"clear_chance_foul_mult"`
	Range               float64 `yaml:"range" json:"range"` // max tackle distance (m)
	PrepTime            float64 `yaml:"prep_time" json:"prep_time"`
}

// BlockConfig holds block resolver parameters.
type BlockConfig struct {
	ActiveChance   float64 `yaml:"active_chance" json:"active_chance"`       // base for standing/jumping blockers
	PassiveChance  float64 `yaml:"passive_chance" json:"passive_chance"`     // flat chance for in-the-way bodies
	ActiveConeDeg  float64 `yaml:"active_cone_deg" json:"active_cone_deg"`   // half-angle
	PassiveConeDeg float64 `yaml:"passive_cone_deg" json:"passive_cone_deg"` // half-angle
	ActiveRadius   float64 `yaml:"active_radius" json:"active_radius"`       // m from shot line
	PassiveRadius  float64 `yaml:"passive_radius" json:"passive_radius"`
	TimingWindow   float64 `yaml:"timing_window" json:"timing_window"`   // s around predicted arrival
	TimingBonus    float64 `yaml:"timing_bonus" json:"timing_bonus"`     // multiplier inside the window
	TimingPenalty  float64 `yaml:"timing_penalty" json:"timing_penalty"` // multiplier outside the window
	SkillSteepness float64 `yaml:"skill_steepness" json:"skill_steepness"`
	CatchShare     float64 `yaml:"catch_share" json:"catch_share"` // deflection outcome weights
	OutShare       float64 `yaml:"out_share" json:"out_share"`
	TeammateShare  float64 `yaml:"teammate_share" json:"teammate_share"` // remainder is loose
	PrepTime       float64 `yaml:"prep_time" json:"prep_time"`
}

// InterceptionConfig holds interception resolver parameters.
type InterceptionConfig struct {
	BaseChance       float64 `yaml:"base_chance" json:"base_chance"`
	PrePassChance    float64 `yaml:"pre_pass_chance" json:"pre_pass_chance"`       // lower ceiling before release
	LaneDistanceHalf float64 `yaml:"lane_distance_half" json:"lane_distance_half"` // m
	BallDistanceHalf float64 `yaml:"ball_distance_half" json:"ball_distance_half"` // m
	ProgressPeak     float64 `yaml:"progress_peak" json:"progress_peak"`           // pass progress with max factor
	SpeedPenaltyHalf float64 `yaml:"speed_penalty_half" json:"speed_penalty_half"` // ball speed (m/s) halving chance
	ClosingBonus     float64 `yaml:"closing_bonus" json:"closing_bonus"`           // max bonus for closing velocity
	AwarenessCone    float64 `yaml:"awareness_cone" json:"awareness_cone"`         // facing half-angle (rad) for full factor
	SkillSteepness   float64 `yaml:"skill_steepness" json:"skill_steepness"`
}

// FoulConfig holds foul severity parameters.
type FoulConfig struct {
	FromBehindBonus   float64 `yaml:"from_behind_bonus" json:"from_behind_bonus"`
	HighSpeedBonus    float64 `yaml:"high_speed_bonus" json:"high_speed_bonus"`
	AggressionBonus   float64 `yaml:"aggression_bonus" json:"aggression_bonus"` // at aggression 100
	ClearChanceBonus  float64 `yaml:"clear_chance_bonus" json:"clear_chance_bonus"`
	SuspensionAt      float64 `yaml:"suspension_at" json:"suspension_at"` // severity threshold
	RedCardAt         float64 `yaml:"red_card_at" json:"red_card_at"`
	DeniedChanceRed   float64 `yaml:"denied_chance_red" json:"denied_chance_red"` // elevated red roll on denied clear chance
	SuspensionSeconds float64 `yaml:"suspension_seconds" json:"suspension_seconds"`
}

// SaveConfig holds goalkeeper save parameters.
type SaveConfig struct {
	BaseChance       float64 `yaml:"base_chance" json:"base_chance"`
	ReachSpeed       float64 `yaml:"reach_speed" json:"reach_speed"`               // keeper lateral speed (m/s)
	AgilityReachSpan float64 `yaml:"agility_reach_span" json:"agility_reach_span"` // ± reach fraction across agility
	ArmReach         float64 `yaml:"arm_reach" json:"arm_reach"`                   // static reach (m)
	FacingConeDeg    float64 `yaml:"facing_cone_deg" json:"facing_cone_deg"`       // outside = gap shot
	MinHeight        float64 `yaml:"min_height" json:"min_height"`                 // below = gap shot (m)
	CloseRange       float64 `yaml:"close_range" json:"close_range"`               // m, close-range weighting band
	LongRange        float64 `yaml:"long_range" json:"long_range"`                 // m, long shots favor the keeper
	SkillSteepness   float64 `yaml:"skill_steepness" json:"skill_steepness"`
	PowerCounter     float64 `yaml:"power_counter" json:"power_counter"` // save reduction at shooter power 100
}

// RulesConfig holds match administration parameters.
type RulesConfig struct {
	HalfSeconds    float64 `yaml:"half_seconds" json:"half_seconds"`
	ThrowOffPause  float64 `yaml:"throw_off_pause" json:"throw_off_pause"` // s between goal and restart
	FreeThrowPause float64 `yaml:"free_throw_pause" json:"free_throw_pause"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window" json:"stats_window"` // simulation seconds per stats row
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	GridCellSize float64    // Physics.GridCellFactor × Player.Radius
	GoalCenterX  [2]float64 // attack-axis coordinate of each goal mouth
	CenterX      float64
	CenterY      float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations that violate simulation invariants.
// A non-positive timestep or degenerate geometry cannot be recovered from at
// runtime, so these are fatal at load time.
func (c *Config) Validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("config: physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Physics.GridCellFactor <= 0 {
		return fmt.Errorf("config: physics.grid_cell_factor must be positive, got %v", c.Physics.GridCellFactor)
	}
	if c.Pitch.Length <= 0 || c.Pitch.Width <= 0 {
		return fmt.Errorf("config: pitch dimensions must be positive, got %vx%v", c.Pitch.Length, c.Pitch.Width)
	}
	if c.Pitch.GoalWidth <= 0 || c.Pitch.GoalHeight <= 0 {
		return fmt.Errorf("config: goal dimensions must be positive, got %vx%v", c.Pitch.GoalWidth, c.Pitch.GoalHeight)
	}
	if c.Player.Radius <= 0 {
		return fmt.Errorf("config: player.radius must be positive, got %v", c.Player.Radius)
	}
	if c.Ball.Radius <= 0 {
		return fmt.Errorf("config: ball.radius must be positive, got %v", c.Ball.Radius)
	}
	if c.Ball.InterceptSamples < 1 {
		return fmt.Errorf("config: ball.intercept_samples must be at least 1, got %d", c.Ball.InterceptSamples)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.GridCellSize = c.Physics.GridCellFactor * c.Player.Radius
	c.Derived.GoalCenterX = [2]float64{0, c.Pitch.Length}
	c.Derived.CenterX = c.Pitch.Length / 2
	c.Derived.CenterY = c.Pitch.Width / 2
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
