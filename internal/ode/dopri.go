package ode

import (
	"fmt"
	"math"

	"github.com/RMahshie/cardiosynth/pkg/models"
)

// Dormand–Prince 5(4) tableau
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}

	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}

	dpB5 = [7]float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0}
	dpB4 = [7]float64{5179.0 / 57600, 0, 7571.0 / 16695, 393.0 / 640, -92097.0 / 339200, 187.0 / 2100, 1.0 / 40}
)

const (
	growthLimit  = 2.0
	shrinkLimit  = 0.1
	safetyFactor = 0.9
)

// stepper holds the stage buffers for one integration run
type stepper struct {
	k   [7]State
	tmp State
}

func newStepper(n int) *stepper {
	return &stepper{tmp: make(State, n)}
}

// step attempts one step of size h from (t, y) and returns the 5th-order
// estimate together with the RMS difference to the embedded 4th-order one.
func (s *stepper) step(sys System, t float64, y State, h float64) (State, float64) {
	n := len(y)

	s.k[0] = sys.Derive(t, y)
	for i := 1; i < len(dpC); i++ {
		for j := 0; j < n; j++ {
			acc := 0.0
			for m := 0; m < i; m++ {
				acc += dpA[i][m] * s.k[m][j]
			}
			s.tmp[j] = y[j] + h*acc
		}
		s.k[i] = sys.Derive(t+dpC[i]*h, s.tmp)
	}

	y5 := make(State, n)
	sumSq := 0.0
	for j := 0; j < n; j++ {
		var acc5, acc4 float64
		for i := range dpB5 {
			acc5 += dpB5[i] * s.k[i][j]
			acc4 += dpB4[i] * s.k[i][j]
		}
		y5[j] = y[j] + h*acc5
		diff := h * (acc5 - acc4)
		sumSq += diff * diff
	}

	return y5, math.Sqrt(sumSq / float64(n))
}

// Integrate advances sys from y0 at t0 to tf. The System must not retain the
// state slice passed to Derive; it is reused between stages.
func Integrate(sys System, y0 State, t0, tf float64, opts Options) (*Trajectory, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(y0) == 0 {
		return nil, models.NewConfigurationError("initial_state", y0, "must not be empty")
	}
	if !y0.IsValid() {
		return nil, models.NewConfigurationError("initial_state", y0, "must be finite")
	}
	if tf < t0 {
		return nil, models.NewConfigurationError("time_span", [2]float64{t0, tf}, "tf must not precede t0")
	}

	tol := opts.Tolerance
	tr := &Trajectory{}
	t := t0
	y := y0.Clone()
	tr.record(t, y)

	h := opts.InitialStep
	if h <= 0 {
		h = opts.MaxStep
	}
	h = clampStep(h, opts)

	st := newStepper(len(y0))
	for t < tf {
		last := false
		if t+h >= tf {
			h = tf - t
			last = true
		}

		y5, errNorm := st.step(sys, t, y, h)
		if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) {
			return tr, fmt.Errorf("ode: non-finite error estimate at t=%g (h=%g): %w", t, h, models.ErrNumericalInstability)
		}

		if errNorm < tol || h <= opts.MinStep {
			if errNorm >= tol {
				tr.ForcedSteps++
			}
			if last {
				t = tf
			} else {
				t += h
			}
			y = y5
			tr.record(t, y)
			tr.Steps++

			factor := growthLimit
			if errNorm > 0 {
				factor = math.Min(growthLimit, safetyFactor*math.Pow(tol/errNorm, 0.2))
			}
			h = clampStep(h*factor, opts)
			continue
		}

		tr.Rejected++
		factor := math.Max(shrinkLimit, safetyFactor*math.Pow(tol/errNorm, 0.25))
		h = math.Max(opts.MinStep, h*factor)
	}

	if opts.Samples > 0 {
		return tr.Resample(Linspace(t0, tf, opts.Samples)), nil
	}
	return tr, nil
}

func clampStep(h float64, opts Options) float64 {
	return math.Max(opts.MinStep, math.Min(opts.MaxStep, h))
}
