package synthesis

import (
	"math"
	"math/rand"

	"github.com/RMahshie/cardiosynth/internal/ecgsyn"
	"github.com/RMahshie/cardiosynth/pkg/models"
)

// request is a fully validated GenerateOptions with defaults filled in
type request struct {
	samplingRate int
	duration     float64
	pathology    ecgsyn.Pathology
	params       ecgsyn.Parameters
	tolerance    float64
	noise        *models.NoiseOptions
	seed         int64
}

// resolve validates opts, applies defaults and builds the transformed model
// parameters. The returned rng has already been used for parameter jitter and
// continues to feed post-processing and noise.
func (g *Generator) resolve(opts models.GenerateOptions) (*request, *rand.Rand, error) {
	req := &request{
		samplingRate: opts.SamplingRate,
		duration:     opts.Duration,
		tolerance:    opts.SolverTolerance,
		noise:        opts.Noise,
	}

	if req.samplingRate == 0 {
		req.samplingRate = g.samplingRate
	}
	if req.samplingRate < MinSamplingRate {
		return nil, nil, models.NewConfigurationError("sampling_rate", req.samplingRate, "must be at least 250 Hz")
	}
	if !isFinite(req.duration) || req.duration <= 0 {
		return nil, nil, models.NewConfigurationError("duration", req.duration, "must be positive")
	}

	hr := opts.HeartRate
	if hr == 0 {
		hr = DefaultHeartRate
	}
	if !isFinite(hr) || hr < 0 {
		return nil, nil, models.NewConfigurationError("heart_rate", opts.HeartRate, "must be positive")
	}

	if req.tolerance == 0 {
		req.tolerance = g.tolerance
	}
	if !isFinite(req.tolerance) || req.tolerance < 0 {
		return nil, nil, models.NewConfigurationError("solver_tolerance", opts.SolverTolerance, "must be positive")
	}

	if !isFinite(opts.Variability) || opts.Variability < 0 || opts.Variability > MaxVariability {
		return nil, nil, models.NewConfigurationError("variability", opts.Variability, "must be within [0, 0.5]")
	}

	pathology := ecgsyn.Normal
	if opts.Pathology != "" {
		p, err := ecgsyn.ParsePathology(opts.Pathology)
		if err != nil {
			return nil, nil, err
		}
		pathology = p
	}
	req.pathology = pathology

	if err := validateNoise(opts.Noise); err != nil {
		return nil, nil, err
	}

	if opts.Seed != nil {
		req.seed = *opts.Seed
	} else {
		req.seed = g.seeds.next()
	}
	rng := rand.New(rand.NewSource(req.seed))

	base, err := applyCustomParams(ecgsyn.DefaultParameters(hr), opts.CustomParams)
	if err != nil {
		return nil, nil, err
	}
	if opts.Variability > 0 {
		base = base.Jittered(opts.Variability, rng)
	}

	params, err := ecgsyn.Transform(g.family, pathology, base)
	if err != nil {
		return nil, nil, err
	}
	req.params = params

	return req, rng, nil
}

// applyCustomParams overlays the non-nil fields of c onto p
func applyCustomParams(p ecgsyn.Parameters, c *models.CustomParams) (ecgsyn.Parameters, error) {
	if c == nil {
		return p, nil
	}

	overrides := []struct {
		wave ecgsyn.Wave
		o    *models.WaveOverride
	}{
		{ecgsyn.WaveP, c.P},
		{ecgsyn.WaveQ, c.Q},
		{ecgsyn.WaveR, c.R},
		{ecgsyn.WaveS, c.S},
		{ecgsyn.WaveT, c.T},
	}
	for _, ov := range overrides {
		if ov.o == nil {
			continue
		}
		o := ov.o
		p = p.WithWave(ov.wave, func(w ecgsyn.WaveParameters) ecgsyn.WaveParameters {
			if o.Amplitude != nil {
				w.Amplitude = *o.Amplitude
			}
			if o.Width != nil {
				w.Width = *o.Width
			}
			if o.Position != nil {
				w.Position = *o.Position
			}
			return w
		})
	}

	if c.RespiratoryRate != nil {
		p.RespiratoryRate = *c.RespiratoryRate
	}
	if c.RespiratoryAmplitude != nil {
		p.RespiratoryAmplitude = *c.RespiratoryAmplitude
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
