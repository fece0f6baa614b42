package synthesis

import (
	"math"
	"math/rand"

	"github.com/RMahshie/cardiosynth/pkg/models"
)

const (
	DefaultPowerlineFrequency = 50.0

	muscleMinFreq = 20.0
	muscleMaxFreq = 50.0
)

func validateNoise(n *models.NoiseOptions) error {
	if n == nil {
		return nil
	}
	if bw := n.BaselineWander; bw != nil {
		if !isFinite(bw.Amplitude) {
			return models.NewConfigurationError("noise.baseline_wander.amplitude", bw.Amplitude, "must be finite")
		}
		if !isFinite(bw.Frequency) || bw.Frequency < 0 {
			return models.NewConfigurationError("noise.baseline_wander.frequency", bw.Frequency, "must not be negative")
		}
	}
	if pl := n.Powerline; pl != nil {
		if !isFinite(pl.Amplitude) {
			return models.NewConfigurationError("noise.powerline.amplitude", pl.Amplitude, "must be finite")
		}
		if pl.Frequency != 0 && pl.Frequency != 50 && pl.Frequency != 60 {
			return models.NewConfigurationError("noise.powerline.frequency", pl.Frequency, "must be 50 or 60 Hz")
		}
	}
	if m := n.Muscle; m != nil && !isFinite(m.Amplitude) {
		return models.NewConfigurationError("noise.muscle.amplitude", m.Amplitude, "must be finite")
	}
	if g := n.Gaussian; g != nil {
		if !isFinite(g.Amplitude) || g.Amplitude < 0 {
			return models.NewConfigurationError("noise.gaussian.amplitude", g.Amplitude, "standard deviation must not be negative")
		}
	}
	return nil
}

// applyNoise adds every configured component to signal in place
func applyNoise(signal, times []float64, n *models.NoiseOptions, rng *rand.Rand) {
	if n == nil {
		return
	}
	if bw := n.BaselineWander; bw != nil {
		addSinusoid(signal, times, bw.Amplitude, bw.Frequency)
	}
	if pl := n.Powerline; pl != nil {
		freq := pl.Frequency
		if freq == 0 {
			freq = DefaultPowerlineFrequency
		}
		addSinusoid(signal, times, pl.Amplitude, freq)
	}
	if m := n.Muscle; m != nil {
		addMuscleArtifact(signal, times, m.Amplitude, rng)
	}
	if g := n.Gaussian; g != nil {
		addGaussianNoise(signal, g.Amplitude, rng)
	}
}

// addSinusoid covers both baseline wander and powerline hum
func addSinusoid(signal, times []float64, amplitude, freq float64) {
	for i, t := range times {
		signal[i] += amplitude * math.Sin(2*math.Pi*freq*t)
	}
}

// addMuscleArtifact redraws frequency and phase on every sample
func addMuscleArtifact(signal, times []float64, amplitude float64, rng *rand.Rand) {
	for i, t := range times {
		u := rng.Float64() - 0.5
		f := muscleMinFreq + (muscleMaxFreq-muscleMinFreq)*rng.Float64()
		phi := 2 * math.Pi * rng.Float64()
		signal[i] += amplitude * u * math.Sin(2*math.Pi*f*t+phi)
	}
}

func addGaussianNoise(signal []float64, stddev float64, rng *rand.Rand) {
	for i := range signal {
		signal[i] += stddev * boxMuller(rng)
	}
}

// boxMuller returns one standard normal variate
func boxMuller(rng *rand.Rand) float64 {
	u1 := 1 - rng.Float64() // (0, 1]
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
