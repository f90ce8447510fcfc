// Package config loads the engine configuration from a TOML
// document (github.com/BurntSushi/toml), overlaying it on documented
// defaults field by field. Unknown keys are rejected — a typo in a config
// file should fail loudly at `init`, not silently no-op.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Dynamics holds the Activation Engine's tunables.
type Dynamics struct {
	SpreadDampening       float64 `toml:"spread_dampening"`
	MaxSteps              int     `toml:"max_steps"`
	MinCaptureSteps       int     `toml:"min_capture_steps"`
	LearningRate          float64 `toml:"learning_rate"`
	DecayConstant         float64 `toml:"decay_constant"`
	EdgeRemovalThreshold  float64 `toml:"edge_removal_threshold"`
	PerturbInterval       int     `toml:"perturb_interval"`
	PerturbStrength       float64 `toml:"perturb_strength"`
	HealInterval          int     `toml:"heal_interval"`
	RecordingThreshold    float64 `toml:"recording_threshold"`
	AntiHebbianOnEscape   bool    `toml:"anti_hebbian_on_escape"`
	AntiHebbianFactor     float64 `toml:"anti_hebbian_factor"`
	NumericFaultLimit     int     `toml:"numeric_fault_limit"`
	HealEdgeWeight        float64 `toml:"heal_edge_weight"`
	DeadZoneHopLimit      int     `toml:"dead_zone_hop_limit"`
}

// Coherence holds the Coherence Evaluator's tunables.
type Coherence struct {
	NStimuli            int     `toml:"n_stimuli"`
	FoundationThreshold float64 `toml:"foundation_threshold"`
	AspirationThreshold float64 `toml:"aspirational_threshold"`
	MinCoverage         int     `toml:"min_coverage"`
	MaxDominance        float64 `toml:"max_dominance"`
	GrowthThreshold     float64 `toml:"growth_threshold"`
}

// Mercy holds the Mercy Machine's tunables.
type Mercy struct {
	MaxWarnings   int           `toml:"max_warnings"`
	WarningDecay  time.Duration `toml:"-"`
	WarningDecayS string        `toml:"warning_decay"` // e.g. "24h", parsed into WarningDecay
	GracePeriod   int           `toml:"grace_period"`
	HarmRepeatK   int           `toml:"harm_repeat_k"`
}

// Kiln holds the evolution loop's tunables.
type Kiln struct {
	Population     int     `toml:"population"`
	MaxGenerations int     `toml:"max_generations"`
	MutationRate   float64 `toml:"mutation_rate"`
	CrossoverRate  float64 `toml:"crossover_rate"`
	Elites         int     `toml:"elites"`
	Selection      string  `toml:"selection"` // Tournament | Truncation | Roulette
	TournamentK    int     `toml:"tournament_k"`
	TargetFraction float64 `toml:"target_fraction"`
	AddEdgeProb    float64 `toml:"add_edge_prob"`
	RemoveEdgeProb float64 `toml:"remove_edge_prob"`
	MutationSigma  float64 `toml:"mutation_sigma"`
}

// Config is the full recognized-options surface of the engine.
type Config struct {
	Dynamics  Dynamics  `toml:"dynamics"`
	Coherence Coherence `toml:"coherence"`
	Mercy     Mercy     `toml:"mercy"`
	Kiln      Kiln      `toml:"kiln"`
}

// Default returns the documented defaults verbatim.
func Default() Config {
	return Config{
		Dynamics: Dynamics{
			SpreadDampening:      0.8,
			MaxSteps:             1000,
			MinCaptureSteps:      3,
			LearningRate:         0.01,
			DecayConstant:        0.97,
			EdgeRemovalThreshold: 0.01,
			PerturbInterval:      100,
			PerturbStrength:      0.7,
			HealInterval:         100,
			RecordingThreshold:   0.5,
			AntiHebbianOnEscape:  false,
			AntiHebbianFactor:    0.999,
			NumericFaultLimit:    5,
			HealEdgeWeight:       0.05,
			DeadZoneHopLimit:     3,
		},
		Coherence: Coherence{
			NStimuli:            100,
			FoundationThreshold: 0.99,
			AspirationThreshold: 0.80,
			MinCoverage:         10,
			MaxDominance:        0.40,
			GrowthThreshold:     0.05,
		},
		Mercy: Mercy{
			MaxWarnings:   3,
			WarningDecay:  24 * time.Hour,
			WarningDecayS: "24h",
			GracePeriod:   3,
			HarmRepeatK:   3,
		},
		Kiln: Kiln{
			Population:     50,
			MaxGenerations: 100,
			MutationRate:   0.1,
			CrossoverRate:  0.7,
			Elites:         2,
			Selection:      "Tournament",
			TournamentK:    3,
			TargetFraction: 0.5,
			AddEdgeProb:    0.02,
			RemoveEdgeProb: 0.02,
			MutationSigma:  0.1,
		},
	}
}

// Load overlays a TOML file at path on top of Default(), rejecting unknown
// keys so a typo'd config fails `init` loudly instead of silently no-op.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config: %s: unknown keys %v", path, undecoded)
	}
	if err := cfg.Mercy.resolveDuration(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (m *Mercy) resolveDuration() error {
	if m.WarningDecayS == "" {
		return nil
	}
	d, err := time.ParseDuration(m.WarningDecayS)
	if err != nil {
		return fmt.Errorf("mercy.warning_decay %q: %w", m.WarningDecayS, err)
	}
	m.WarningDecay = d
	return nil
}
