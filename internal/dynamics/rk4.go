package dynamics

import "github.com/san-kum/ilqgame/internal/traj"

// RK4 is a classical fixed-step Runge-Kutta-4 stepper. It keeps its
// intermediate-slope buffers across calls and only reallocates them when
// the state dimension changes, the same discipline
// internal/integrators/rk4.go in the simulation teacher this module is
// descended from used for a single-player state.
type RK4 struct {
	k1, k2, k3, k4 traj.Vector
	scratch        traj.Vector
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(traj.Vector, n)
		r.k2 = make(traj.Vector, n)
		r.k3 = make(traj.Vector, n)
		r.k4 = make(traj.Vector, n)
		r.scratch = make(traj.Vector, n)
	}
}

// Step advances x by dt under the fixed control u, evaluated through sys.
func (r *RK4) Step(sys System, x traj.Vector, u []traj.Vector, t, dt float64) traj.Vector {
	n := len(x)
	r.ensureScratch(n)

	k1 := sys.Evaluate(t, x, u)
	copy(r.k1, k1)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	k2 := sys.Evaluate(t+dt*0.5, r.scratch, u)
	copy(r.k2, k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	k3 := sys.Evaluate(t+dt*0.5, r.scratch, u)
	copy(r.k3, k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	k4 := sys.Evaluate(t+dt, r.scratch, u)
	copy(r.k4, k4)

	result := make(traj.Vector, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return result
}
