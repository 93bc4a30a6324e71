// Package scenario is a small named registry of complete problem
// geometries (dynamics + costs + horizon), used only to exercise the
// core in tests and the concrete scenarios of spec §8. It follows the
// name-to-factory lookup shape of internal/experiment/registry.go in the
// simulation teacher this module descends from; the concrete dynamics
// and cost catalogs it wires up are themselves explicitly out of scope
// as a shipped product (spec §1's "treated as external collaborators").
package scenario

import (
	"fmt"

	"github.com/san-kum/ilqgame/internal/cost"
	"github.com/san-kum/ilqgame/internal/dynamics"
	"github.com/san-kum/ilqgame/internal/traj"
	"gonum.org/v1/gonum/mat"
)

// Scenario bundles everything needed to construct a problem.Problem.
type Scenario struct {
	Name     string
	System   dynamics.System
	Costs    []cost.PlayerCost
	X0       traj.Vector
	K        int
	Dt       float64
	UDims    []int
	Proximal float64 // minimum inter-agent distance, if applicable; 0 otherwise
}

// Get looks up a scenario by name.
func Get(name string) (*Scenario, error) {
	switch name {
	case "point-mass-2p":
		return pointMassTwoPlayer(), nil
	case "unicycle-oncoming":
		return unicycleOncoming(), nil
	default:
		return nil, fmt.Errorf("scenario: unknown scenario %q", name)
	}
}

func Names() []string {
	return []string{"point-mass-2p", "unicycle-oncoming"}
}

// pointMassTwoPlayer is spec §8 scenario 1: a 1-D point mass driven by
// two players' accelerations, with cross-coupled quadratic control
// costs. It is the same game internal/solve's tests build directly to
// check the LQ solver against the two-player discrete Lyapunov fixed
// point; here it drives the problem and receding-horizon tests.
func pointMassTwoPlayer() *Scenario {
	sys := dynamics.NewPointMass()

	q1 := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	q2 := mat.NewDense(2, 2, []float64{2, 0, 0, 2})
	r11 := mat.NewDense(1, 1, []float64{1})
	r12 := mat.NewDense(1, 1, []float64{0.5})
	r21 := mat.NewDense(1, 1, []float64{0.25})
	r22 := mat.NewDense(1, 1, []float64{1})

	costs := []cost.PlayerCost{
		&cost.LQTracking{
			Player:         0,
			StateWeight:    q1,
			Target:         traj.Vector{0, 0},
			ControlWeights: map[int]*mat.Dense{0: r11, 1: r12},
		},
		&cost.LQTracking{
			Player:         1,
			StateWeight:    q2,
			Target:         traj.Vector{0, 0},
			ControlWeights: map[int]*mat.Dense{0: r21, 1: r22},
		},
	}

	return &Scenario{
		Name:   "point-mass-2p",
		System: sys,
		Costs:  costs,
		X0:     traj.Vector{1, 0},
		K:      10,
		Dt:     0.1,
		UDims:  []int{1, 1},
	}
}

// unicycleOncoming supplements the safety scenario dropped from
// original_source/include/ilqgames/examples/oncoming_example.h: two
// unicycle agents on a collision course, each tracking a goal state
// while penalized for approaching the other too closely.
func unicycleOncoming() *Scenario {
	sys := dynamics.NewMultiUnicycle(2)
	n := sys.XDim() // joint state dimension, 4 per agent

	// Per-player state weights only penalize that player's own block of
	// the joint state; the other agent's block carries zero weight so its
	// target value is irrelevant.
	q0 := mat.NewDense(n, n, nil)
	q1 := mat.NewDense(n, n, nil)
	for i := 0; i < 4; i++ {
		q0.Set(i, i, 1.0)
		q1.Set(4+i, 4+i, 1.0)
	}

	goal0 := traj.Vector{10, 0, 0, 1, 0, 0, 0, 0}
	goal1 := traj.Vector{0, 0, 0, 0, -10, 0, 3.14159265, 1}

	rWeight := mat.NewDense(2, 2, []float64{1, 0, 0, 1})

	minDistance := 2.0

	costs := []cost.PlayerCost{
		&cost.Sum{Player: 0, Terms: []cost.PlayerCost{
			&cost.Quadratic{Player: 0, StateWeight: q0, Target: goal0, ControlWeight: rWeight, ControlTarget: traj.Vector{0, 0}},
			&cost.Proximity{Player: 0, SelfXIdx: 0, SelfYIdx: 1, Other: 1, OtherXIdx: 4, OtherYIdx: 5, MinDistance: minDistance, Weight: 50, StateDim: n, ControlDim: 2},
		}},
		&cost.Sum{Player: 1, Terms: []cost.PlayerCost{
			&cost.Quadratic{Player: 1, StateWeight: q1, Target: goal1, ControlWeight: rWeight, ControlTarget: traj.Vector{0, 0}},
			&cost.Proximity{Player: 1, SelfXIdx: 4, SelfYIdx: 5, Other: 0, OtherXIdx: 0, OtherYIdx: 1, MinDistance: minDistance, Weight: 50, StateDim: n, ControlDim: 2},
		}},
	}

	x0 := traj.Vector{-10, 0.5, 0, 1, 10, -0.5, 3.14159265, 1}

	return &Scenario{
		Name:     "unicycle-oncoming",
		System:   sys,
		Costs:    costs,
		X0:       x0,
		K:        100,
		Dt:       0.1,
		UDims:    []int{2, 2},
		Proximal: minDistance,
	}
}
