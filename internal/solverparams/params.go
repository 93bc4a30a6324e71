// Package solverparams holds the global numerical constants threaded
// into every solver call (spec §9: "belong in a single SolverParams value
// ... no process-wide state"), loaded and saved the way
// internal/config/config.go loads and saves simulation configs in the
// teacher this module descends from — a plain struct with yaml tags and
// a DefaultX() constructor.
package solverparams

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SolverParams collects every tolerance, step size, and iteration limit
// the LQ solver, the iLQ outer loop, and the receding-horizon driver
// consume.
type SolverParams struct {
	Dt float64 `yaml:"dt"`

	EpsU     float64 `yaml:"eps_u"`     // convergence: max per-step nominal control change
	EpsJ     float64 `yaml:"eps_j"`     // convergence: max per-player cost improvement
	EpsAlpha float64 `yaml:"eps_alpha"` // line search: minimum step size before giving up
	EpsRoll  float64 `yaml:"eps_roll"`  // rollout-at-alpha-0 identity tolerance

	TrustRegionRadius     float64 `yaml:"trust_region_radius"`
	TrustRegionDimensions []int   `yaml:"trust_region_dimensions"`

	MaxIterations           int `yaml:"max_iterations"`
	MaxNoProgressIterations int `yaml:"max_no_progress_iterations"`
	LineSearchMaxHalvings   int `yaml:"line_search_max_halvings"`

	// RecedingHorizonSlack is the kExtraTime slack (spec §4.5, §9 open
	// question): an additional fixed duration the driver advances the
	// plant by after each splice, beyond the measured solve wall-time.
	RecedingHorizonSlack float64 `yaml:"receding_horizon_slack"`
}

// DefaultSolverParams returns the defaults used throughout this module's
// tests and scenarios.
func DefaultSolverParams() SolverParams {
	return SolverParams{
		Dt:                      0.1,
		EpsU:                    1e-3,
		EpsJ:                    1e-3,
		EpsAlpha:                1e-3,
		EpsRoll:                 1e-9,
		TrustRegionRadius:       0,
		TrustRegionDimensions:   nil,
		MaxIterations:           100,
		MaxNoProgressIterations: 3,
		LineSearchMaxHalvings:   10,
		RecedingHorizonSlack:    0.1,
	}
}

func Load(path string) (*SolverParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := DefaultSolverParams()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func Save(path string, p *SolverParams) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
