package synthesis

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func TestApplyNoise_Sinusoids(t *testing.T) {
	times := uniformTimes(1, 1000)

	t.Run("baseline wander", func(t *testing.T) {
		signal := make([]float64, len(times))
		applyNoise(signal, times, &models.NoiseOptions{
			BaselineWander: &models.BaselineWander{Amplitude: 0.2, Frequency: 0.5},
		}, rand.New(rand.NewSource(1)))

		for i, tm := range times {
			require.InDelta(t, 0.2*math.Sin(2*math.Pi*0.5*tm), signal[i], 1e-12)
		}
	})

	t.Run("powerline defaults to 50 Hz", func(t *testing.T) {
		signal := make([]float64, len(times))
		applyNoise(signal, times, &models.NoiseOptions{
			Powerline: &models.Powerline{Amplitude: 0.05},
		}, rand.New(rand.NewSource(1)))

		for i, tm := range times {
			require.InDelta(t, 0.05*math.Sin(2*math.Pi*50*tm), signal[i], 1e-12)
		}
	})

	t.Run("powerline 60 Hz", func(t *testing.T) {
		signal := make([]float64, len(times))
		applyNoise(signal, times, &models.NoiseOptions{
			Powerline: &models.Powerline{Amplitude: 0.05, Frequency: 60},
		}, rand.New(rand.NewSource(1)))

		assert.InDelta(t, 0.05*math.Sin(2*math.Pi*60*times[7]), signal[7], 1e-12)
	})
}

func TestApplyNoise_NilIsNoOp(t *testing.T) {
	signal := []float64{1, 2, 3}
	applyNoise(signal, []float64{0, 1, 2}, nil, rand.New(rand.NewSource(1)))
	applyNoise(signal, []float64{0, 1, 2}, &models.NoiseOptions{}, rand.New(rand.NewSource(1)))
	assert.Equal(t, []float64{1, 2, 3}, signal)
}

func TestAddMuscleArtifact_Bounded(t *testing.T) {
	times := uniformTimes(2, 1000)
	signal := make([]float64, len(times))

	addMuscleArtifact(signal, times, 0.4, rand.New(rand.NewSource(9)))

	assert.LessOrEqual(t, floats.Max(signal), 0.2)
	assert.GreaterOrEqual(t, floats.Min(signal), -0.2)
	assert.Greater(t, stat.Variance(signal, nil), 0.0)
}

func TestBoxMuller_StandardNormal(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	samples := make([]float64, 50000)
	for i := range samples {
		samples[i] = boxMuller(rng)
		require.False(t, math.IsInf(samples[i], 0) || math.IsNaN(samples[i]))
	}

	mean, variance := stat.MeanVariance(samples, nil)
	assert.InDelta(t, 0, mean, 0.02)
	assert.InDelta(t, 1, variance, 0.03)
}

func TestAddGaussianNoise_StandardDeviation(t *testing.T) {
	signal := make([]float64, 50000)
	addGaussianNoise(signal, 0.1, rand.New(rand.NewSource(5)))
	assert.InDelta(t, 0.1, stat.StdDev(signal, nil), 0.005)
}

func TestValidateNoise(t *testing.T) {
	tests := []struct {
		name    string
		noise   *models.NoiseOptions
		wantErr bool
	}{
		{"nil", nil, false},
		{"all components", &models.NoiseOptions{
			BaselineWander: &models.BaselineWander{Amplitude: 0.1, Frequency: 0.3},
			Powerline:      &models.Powerline{Amplitude: 0.02, Frequency: 60},
			Muscle:         &models.MuscleArtifact{Amplitude: 0.05},
			Gaussian:       &models.GaussianNoise{Amplitude: 0.01},
		}, false},
		{"powerline 55 Hz", &models.NoiseOptions{Powerline: &models.Powerline{Frequency: 55}}, true},
		{"negative wander frequency", &models.NoiseOptions{BaselineWander: &models.BaselineWander{Frequency: -1}}, true},
		{"NaN muscle", &models.NoiseOptions{Muscle: &models.MuscleArtifact{Amplitude: math.NaN()}}, true},
		{"negative deviation", &models.NoiseOptions{Gaussian: &models.GaussianNoise{Amplitude: -0.1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateNoise(tt.noise)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, models.ErrConfiguration))
				return
			}
			assert.NoError(t, err)
		})
	}
}
