package synthesis

import (
	"math"
	"math/rand"

	"github.com/RMahshie/cardiosynth/internal/ecgsyn"
)

const (
	// ST elevation assumes a fixed 70 bpm cycle regardless of the heart rate
	stReferenceCycle = 60.0 / 70.0
	stWindowStart    = 0.35
	stWindowEnd      = 0.44
	stPeak           = 0.3

	uWindowStart = 0.65
	uWindowEnd   = 0.80
	uPeak        = 0.15

	fibrillationAmplitude = 0.02
	fibrillationMinFreq   = 350.0
	fibrillationMaxFreq   = 600.0
	fibrillationFreqStep  = 50.0

	rrMinFactor = 0.4
	rrMaxFactor = 1.5
)

// postProcess runs the signal edits for the request's pathology. Every edit
// except RR irregularization works in place and keeps the time grid.
func postProcess(req *request, times, signal []float64, rng *rand.Rand) ([]float64, []float64) {
	switch req.pathology {
	case ecgsyn.STEMI:
		addSTElevation(signal, times)
	case ecgsyn.Hypokalemia:
		addUWaves(signal, times, req.params.RRInterval())
	case ecgsyn.AtrialFibrillation:
		addFibrillatoryBaseline(signal, times, rng)
		times, signal = irregularizeRR(times, signal, req.samplingRate, req.duration, req.params.RRInterval(), rng)
	case ecgsyn.CompleteHeartBlock:
		times, signal = dissociateAV(times, signal)
	}
	return times, signal
}

// addWindowBump adds a Gaussian bump centred in [start, end] of each cycle.
// Sigma is a quarter of the window so the bump has decayed to e^-2 at the edges.
func addWindowBump(signal, times []float64, cycle, start, end, peak float64) {
	center := (start + end) / 2
	sigma := (end - start) / 4
	for i, t := range times {
		phase := math.Mod(t, cycle) / cycle
		if phase < start || phase > end {
			continue
		}
		d := phase - center
		signal[i] += peak * math.Exp(-d*d/(2*sigma*sigma))
	}
}

func addSTElevation(signal, times []float64) {
	addWindowBump(signal, times, stReferenceCycle, stWindowStart, stWindowEnd, stPeak)
}

func addUWaves(signal, times []float64, rr float64) {
	addWindowBump(signal, times, rr, uWindowStart, uWindowEnd, uPeak)
}

// addFibrillatoryBaseline superimposes fixed-frequency f-waves with random phases
func addFibrillatoryBaseline(signal, times []float64, rng *rand.Rand) {
	var freqs, phases []float64
	for f := fibrillationMinFreq; f <= fibrillationMaxFreq; f += fibrillationFreqStep {
		freqs = append(freqs, f)
		phases = append(phases, 2*math.Pi*rng.Float64())
	}
	for i, t := range times {
		var sum float64
		for k, f := range freqs {
			sum += math.Sin(2*math.Pi*f*t + phases[k])
		}
		signal[i] += fibrillationAmplitude * sum
	}
}

// irregularizeRR rebuilds the trace beat by beat with RR intervals drawn from
// avgRR·[0.4, 1.5). Output beat k replays source beat k (wrapping over the
// complete source beats) at its local phase modulo avgRR. The result lies on
// a non-uniform grid covering duration seconds from times[0].
func irregularizeRR(times, signal []float64, samplingRate int, duration, avgRR float64, rng *rand.Rand) ([]float64, []float64) {
	if len(signal) == 0 || !(avgRR > 0) {
		return times, signal
	}

	sr := float64(samplingRate)
	dt := 1 / sr
	origin := 0.0
	if len(times) > 0 {
		origin = times[0]
	}
	beatLen := max(int(math.Round(avgRR*sr)), 1)
	// a source shorter than one beat is replayed until it runs out
	complete := float64(len(signal))*dt >= avgRR
	sourceBeats := max(int(float64(len(signal))*dt/avgRR), 1)

	outT := make([]float64, 0, len(signal))
	outS := make([]float64, 0, len(signal))

	beatStart := 0.0
	for beat := 0; beatStart < duration; beat++ {
		rr := avgRR * (rrMinFactor + (rrMaxFactor-rrMinFactor)*rng.Float64())
		srcStart := int(math.Round(float64(beat%sourceBeats) * avgRR * sr))

		exhausted := false
		for j := 0; ; j++ {
			local := float64(j) * dt
			t := beatStart + local
			if local >= rr || t >= duration {
				break
			}
			phase := int(math.Round(math.Mod(local, avgRR) * sr))
			if phase >= beatLen {
				phase = 0
			}
			idx := srcStart + phase
			if idx >= len(signal) {
				if !complete {
					exhausted = true
					break
				}
				idx = len(signal) - 1
			}
			outT = append(outT, origin+t)
			outS = append(outS, signal[idx])
		}
		if exhausted {
			break
		}
		beatStart += rr
	}

	return outT, outS
}

// dissociateAV would clock atrial and ventricular activity independently.
// That needs a second oscillator in the model; for now the trace passes
// through unchanged.
func dissociateAV(times, signal []float64) ([]float64, []float64) {
	return times, signal
}
