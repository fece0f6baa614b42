package ode

import "sort"

// Linspace returns n evenly spaced points over [a, b] inclusive
func Linspace(a, b float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = a
		return out
	}
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	out[n-1] = b
	return out
}

// At returns the state at time t by componentwise linear interpolation between
// the bracketing recorded points. Exact hits return the stored point; times
// outside the recorded span clamp to the first or last point.
func (tr *Trajectory) At(t float64) State {
	n := len(tr.Times)
	i := sort.SearchFloat64s(tr.Times, t)
	switch {
	case i < n && tr.Times[i] == t:
		return tr.States[i].Clone()
	case i == 0:
		return tr.States[0].Clone()
	case i >= n:
		return tr.States[n-1].Clone()
	}

	t0, t1 := tr.Times[i-1], tr.Times[i]
	s0, s1 := tr.States[i-1], tr.States[i]
	w := (t - t0) / (t1 - t0)
	out := make(State, len(s0))
	for j := range out {
		out[j] = s0[j] + w*(s1[j]-s0[j])
	}
	return out
}

// Resample returns a new trajectory evaluated at the given times. Step
// counters are carried over unchanged.
func (tr *Trajectory) Resample(times []float64) *Trajectory {
	out := &Trajectory{
		Times:       append([]float64(nil), times...),
		States:      make([]State, len(times)),
		Steps:       tr.Steps,
		Rejected:    tr.Rejected,
		ForcedSteps: tr.ForcedSteps,
	}
	for i, t := range times {
		out.States[i] = tr.At(t)
	}
	return out
}
