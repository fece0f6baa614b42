package analysis

import (
	"errors"
	"math"

	"github.com/RMahshie/cardiosynth/pkg/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrEmptySignal = errors.New("analysis: empty signal")

// Summarize computes amplitude statistics. Variance is the unbiased estimate.
func Summarize(signal []float64) (models.SignalSummary, error) {
	if len(signal) == 0 {
		return models.SignalSummary{}, ErrEmptySignal
	}

	s := models.SignalSummary{
		Samples: len(signal),
		Min:     floats.Min(signal),
		Max:     floats.Max(signal),
	}
	s.PeakToPeak = s.Max - s.Min
	s.RMS = floats.Norm(signal, 2) / math.Sqrt(float64(len(signal)))

	if len(signal) == 1 {
		s.Mean = signal[0]
		return s, nil
	}
	s.Mean, s.Variance = stat.MeanVariance(signal, nil)
	s.StdDev = math.Sqrt(s.Variance)
	return s, nil
}
