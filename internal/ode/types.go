package ode

import (
	"fmt"
	"math"

	"github.com/RMahshie/cardiosynth/pkg/models"
)

// State is a point in phase space
type State []float64

// Clone returns an independent copy of the state
func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is a vector field dy/dt = f(t, y)
type System interface {
	Derive(t float64, y State) State
}

// SystemFunc adapts a plain function to System
type SystemFunc func(t float64, y State) State

// Derive implements System
func (f SystemFunc) Derive(t float64, y State) State {
	return f(t, y)
}

// Options controls step-size adaptation
type Options struct {
	Tolerance   float64 // maximum accepted error norm per step
	MinStep     float64 // steps at or below this size are always accepted
	MaxStep     float64 // upper bound on h
	InitialStep float64 // first attempted h, clamped into [MinStep, MaxStep]
	Samples     int     // when > 0, resample onto this many uniform points over [t0, tf]
}

// DefaultOptions returns the solver defaults
func DefaultOptions() Options {
	return Options{
		Tolerance:   1e-6,
		MinStep:     1e-8,
		MaxStep:     0.01,
		InitialStep: 1e-3,
	}
}

// Validate rejects option sets the solver cannot honour
func (o Options) Validate() error {
	if !(o.Tolerance > 0) {
		return models.NewConfigurationError("tolerance", o.Tolerance, "must be positive")
	}
	if !(o.MinStep > 0) {
		return models.NewConfigurationError("min_step", o.MinStep, "must be positive")
	}
	if o.MaxStep < o.MinStep {
		return models.NewConfigurationError("max_step", o.MaxStep, fmt.Sprintf("must be at least min_step %g", o.MinStep))
	}
	if o.Samples < 0 {
		return models.NewConfigurationError("samples", o.Samples, "must not be negative")
	}
	return nil
}

// Trajectory is the ordered output of one integration run
type Trajectory struct {
	Times  []float64
	States []State

	Steps       int // accepted steps
	Rejected    int // rejected attempts
	ForcedSteps int // accepted at MinStep with error above tolerance
}

// Len returns the number of recorded points
func (tr *Trajectory) Len() int {
	return len(tr.Times)
}

// Last returns the final recorded state
func (tr *Trajectory) Last() State {
	return tr.States[len(tr.States)-1]
}

// Component extracts one state component across the trajectory
func (tr *Trajectory) Component(i int) []float64 {
	out := make([]float64, len(tr.States))
	for k, s := range tr.States {
		out[k] = s[i]
	}
	return out
}

func (tr *Trajectory) record(t float64, y State) {
	tr.Times = append(tr.Times, t)
	tr.States = append(tr.States, y)
}
