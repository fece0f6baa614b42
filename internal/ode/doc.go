// Package ode integrates first-order ordinary differential equation systems
// with an adaptive embedded Runge–Kutta 5(4) scheme.
//
// Algorithm (Dormand–Prince pair, one attempted step of size h):
//  1. Evaluate the vector field at t and at six intermediate nodes
//     c = {1/5, 3/10, 4/5, 8/9, 1, 1} using the tableau rows a[i][j].
//  2. Combine the seven stage derivatives with weights b5 (5th order) and
//     b4 (4th order) to obtain two estimates of y(t+h).
//  3. errNorm = sqrt(Σ(y5ᵢ - y4ᵢ)² / n).
//  4. Accept when errNorm < Tolerance or h has reached MinStep, then grow h by
//     min(2, 0.9·(tol/errNorm)^0.2) up to MaxStep.
//  5. Otherwise shrink h by max(0.1, 0.9·(tol/errNorm)^0.25) down to MinStep
//     and retry from the same point.
//
// The final step is clamped to land exactly on tf. Steps forced through at
// MinStep are counted in Trajectory.ForcedSteps rather than failing.
//
// Usage:
//
//	opts := ode.DefaultOptions()
//	opts.Samples = 1000
//	traj, err := ode.Integrate(sys, ode.State{1, 0, 0}, 0, 1, opts)
//
// Integration never touches shared state; independent calls may run on
// separate goroutines.
package ode
