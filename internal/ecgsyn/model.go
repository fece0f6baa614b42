package ecgsyn

import (
	"math"

	"github.com/RMahshie/cardiosynth/internal/ode"
)

// ScaleFactor converts raw z excursions into mV
const ScaleFactor = 80.0

// InitialState is the canonical starting point (x, y, z) = (1, 0, 0)
func InitialState() ode.State {
	return ode.State{1, 0, 0}
}

// Model is the ECGSYN vector field for one fixed parameter set
type Model struct {
	params Parameters
	omega  float64
}

// NewModel validates p and binds it to a vector field
func NewModel(p Parameters) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Model{
		params: p,
		omega:  2 * math.Pi / p.RRInterval(),
	}, nil
}

// Omega returns the angular velocity in rad/s
func (m *Model) Omega() float64 {
	return m.omega
}

// Parameters returns the bound parameter set
func (m *Model) Parameters() Parameters {
	return m.params
}

// Baseline returns the respiratory baseline z₀(t), zero when unconfigured
func (m *Model) Baseline(t float64) float64 {
	p := m.params
	if p.RespiratoryRate == 0 || p.RespiratoryAmplitude == 0 {
		return 0
	}
	return p.RespiratoryAmplitude * math.Sin(2*math.Pi*p.RespiratoryRate/60*t)
}

// Derive implements ode.System
func (m *Model) Derive(t float64, y ode.State) ode.State {
	x, yy, z := y[0], y[1], y[2]

	alpha := 1 - math.Hypot(x, yy)
	theta := math.Atan2(yy, x)

	dz := 0.0
	for _, w := range m.params.Waves {
		dTheta := wrapAngle(theta - w.Position)
		dz -= w.Amplitude * m.omega * dTheta * math.Exp(-dTheta*dTheta/(2*w.Width*w.Width))
	}
	dz -= z - m.Baseline(t)

	return ode.State{
		alpha*x - m.omega*yy,
		alpha*yy + m.omega*x,
		dz,
	}
}

// wrapAngle folds a into [-π, π]
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
