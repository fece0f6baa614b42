package analysis

import (
	"github.com/RMahshie/cardiosynth/pkg/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PeakDetector finds R peaks as maxima of excursions above a threshold
type PeakDetector struct {
	// Threshold is the detection level as a fraction of the signal range
	// above its minimum
	Threshold float64

	// Refractory is the minimum spacing between peaks in seconds
	Refractory float64
}

// DefaultPeakDetector suits Lead II traces between 30 and 250 bpm
func DefaultPeakDetector() PeakDetector {
	return PeakDetector{Threshold: 0.6, Refractory: 0.2}
}

// Detect returns the sample indices of R peaks. times and signal must be
// index-aligned and times increasing; the grid need not be uniform.
func (d PeakDetector) Detect(times, signal []float64) []int {
	if len(signal) < 2 || len(times) != len(signal) {
		return nil
	}

	lo, hi := floats.Min(signal), floats.Max(signal)
	if hi == lo {
		return nil
	}
	level := lo + d.Threshold*(hi-lo)

	var peaks []int
	lastPeak := -1
	for i := 1; i < len(signal); i++ {
		if !(signal[i-1] < level && signal[i] >= level) {
			continue
		}

		// walk the excursion and keep its maximum
		best := i
		j := i
		for ; j < len(signal) && signal[j] >= level; j++ {
			if signal[j] > signal[best] {
				best = j
			}
		}

		if lastPeak < 0 || times[best]-times[lastPeak] > d.Refractory {
			peaks = append(peaks, best)
			lastPeak = best
		} else if signal[best] > signal[lastPeak] {
			peaks[len(peaks)-1] = best
			lastPeak = best
		}
		i = j
	}
	return peaks
}

// Rhythm describes beat timing derived from detected peaks
type Rhythm struct {
	Beats     int       `json:"beats"`
	HeartRate float64   `json:"heart_rate"` // bpm from the mean RR interval, 0 with fewer than two beats
	RRMean    float64   `json:"rr_mean"`
	RRStdDev  float64   `json:"rr_std_dev"`
	Intervals []float64 `json:"-"`
}

// AnalyzeRhythm measures RR intervals between the given peaks
func AnalyzeRhythm(times []float64, peaks []int) Rhythm {
	r := Rhythm{Beats: len(peaks)}
	if len(peaks) < 2 {
		return r
	}

	r.Intervals = make([]float64, len(peaks)-1)
	for k := 1; k < len(peaks); k++ {
		r.Intervals[k-1] = times[peaks[k]] - times[peaks[k-1]]
	}
	r.RRMean, r.RRStdDev = stat.MeanStdDev(r.Intervals, nil)
	if len(r.Intervals) == 1 {
		r.RRStdDev = 0
	}
	if r.RRMean > 0 {
		r.HeartRate = 60 / r.RRMean
	}
	return r
}

// Summary drops the interval list
func (r Rhythm) Summary() models.RhythmSummary {
	return models.RhythmSummary{
		Beats:     r.Beats,
		HeartRate: r.HeartRate,
		RRMean:    r.RRMean,
		RRStdDev:  r.RRStdDev,
	}
}

// EstimateRhythm runs the default detector and measures the result
func EstimateRhythm(times, signal []float64) Rhythm {
	return AnalyzeRhythm(times, DefaultPeakDetector().Detect(times, signal))
}
