package ecgsyn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/RMahshie/cardiosynth/pkg/models"
)

// Wave indexes the five wave components
type Wave int

const (
	WaveP Wave = iota
	WaveQ
	WaveR
	WaveS
	WaveT
)

const numWaves = 5

// AllWaves lists every component in cycle order
var AllWaves = [numWaves]Wave{WaveP, WaveQ, WaveR, WaveS, WaveT}

func (w Wave) String() string {
	switch w {
	case WaveP:
		return "P"
	case WaveQ:
		return "Q"
	case WaveR:
		return "R"
	case WaveS:
		return "S"
	case WaveT:
		return "T"
	default:
		return fmt.Sprintf("Wave(%d)", int(w))
	}
}

// WaveParameters describes one Gaussian wave term
type WaveParameters struct {
	Amplitude float64 // gain a, mV-equivalent
	Width     float64 // b in radians, must be positive
	Position  float64 // θ in radians, taken mod 2π
}

// Scaled returns the wave with amplitude and width multiplied
func (w WaveParameters) Scaled(amplitude, width float64) WaveParameters {
	w.Amplitude *= amplitude
	w.Width *= width
	return w
}

// Shifted returns the wave moved by delta radians
func (w WaveParameters) Shifted(delta float64) WaveParameters {
	w.Position += delta
	return w
}

// WithAmplitude returns the wave with its amplitude replaced
func (w WaveParameters) WithAmplitude(a float64) WaveParameters {
	w.Amplitude = a
	return w
}

// Parameters fully determines one noise-free trace. It is a value type:
// every transform returns a new Parameters.
type Parameters struct {
	Waves     [numWaves]WaveParameters
	HeartRate float64 // bpm

	// Respiratory baseline; zero means not configured
	RespiratoryRate      float64 // breaths per minute
	RespiratoryAmplitude float64 // mV
}

// DefaultParameters returns a normal sinus beat at the given heart rate. The
// oscillator starts at θ = 0, which sits in diastole ahead of the P wave.
func DefaultParameters(heartRate float64) Parameters {
	return Parameters{
		Waves: [numWaves]WaveParameters{
			WaveP: {Amplitude: 0.04, Width: 0.25, Position: math.Pi / 6},
			WaveQ: {Amplitude: -0.3, Width: 0.1, Position: 5 * math.Pi / 12},
			WaveR: {Amplitude: 1.2, Width: 0.12, Position: math.Pi / 2},
			WaveS: {Amplitude: -0.5, Width: 0.1, Position: 7 * math.Pi / 12},
			WaveT: {Amplitude: 0.025, Width: 0.4, Position: math.Pi},
		},
		HeartRate: heartRate,
	}
}

// Wave returns one wave component
func (p Parameters) Wave(w Wave) WaveParameters {
	return p.Waves[w]
}

// WithWave returns a copy with one wave rewritten by fn
func (p Parameters) WithWave(w Wave, fn func(WaveParameters) WaveParameters) Parameters {
	p.Waves[w] = fn(p.Waves[w])
	return p
}

// WithHeartRate returns a copy with the heart rate replaced
func (p Parameters) WithHeartRate(hr float64) Parameters {
	p.HeartRate = hr
	return p
}

// RRInterval returns the beat period in seconds
func (p Parameters) RRInterval() float64 {
	return 60 / p.HeartRate
}

// Validate enforces HeartRate > 0 and Width > 0 for every wave
func (p Parameters) Validate() error {
	if !(p.HeartRate > 0) || math.IsInf(p.HeartRate, 0) {
		return models.NewConfigurationError("heart_rate", p.HeartRate, "must be positive and finite")
	}
	for _, w := range AllWaves {
		wp := p.Waves[w]
		if !(wp.Width > 0) || math.IsInf(wp.Width, 0) {
			return models.NewConfigurationError(w.String()+".width", wp.Width, "must be positive and finite")
		}
		if math.IsNaN(wp.Amplitude) || math.IsInf(wp.Amplitude, 0) {
			return models.NewConfigurationError(w.String()+".amplitude", wp.Amplitude, "must be finite")
		}
		if math.IsNaN(wp.Position) || math.IsInf(wp.Position, 0) {
			return models.NewConfigurationError(w.String()+".position", wp.Position, "must be finite")
		}
	}
	if p.RespiratoryRate < 0 || math.IsNaN(p.RespiratoryRate) {
		return models.NewConfigurationError("respiratory_rate", p.RespiratoryRate, "must not be negative")
	}
	if math.IsNaN(p.RespiratoryAmplitude) || math.IsInf(p.RespiratoryAmplitude, 0) {
		return models.NewConfigurationError("respiratory_amplitude", p.RespiratoryAmplitude, "must be finite")
	}
	return nil
}

// Jittered returns a copy with every wave perturbed by up to ±fraction of its
// amplitude and width, and positions by up to ±0.1·fraction rad. It models
// beat-to-beat biological variation; fraction 0 returns p unchanged.
func (p Parameters) Jittered(fraction float64, rng *rand.Rand) Parameters {
	if fraction <= 0 {
		return p
	}
	spread := func() float64 { return fraction * (2*rng.Float64() - 1) }
	for _, w := range AllWaves {
		wp := p.Waves[w]
		wp.Amplitude *= 1 + spread()
		wp.Width *= 1 + spread()
		wp.Position += 0.1 * spread()
		p.Waves[w] = wp
	}
	return p
}
