package synthesis

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/RMahshie/cardiosynth/internal/ecgsyn"
	"github.com/RMahshie/cardiosynth/internal/ode"
	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/rs/zerolog"
)

const (
	// MinSamplingRate is the lowest rate that still resolves a QRS complex
	MinSamplingRate = 250

	DefaultHeartRate = 60.0
	DefaultTolerance = 1e-6

	// MaxVariability bounds the jitter fraction so widths stay positive
	MaxVariability = 0.5

	defaultMinStep = 1e-8
)

// Generator produces ECG traces. It holds no per-call state and is safe for
// concurrent use.
type Generator struct {
	samplingRate int
	tolerance    float64
	family       ecgsyn.Family
	deriver      LeadDeriver
	logger       zerolog.Logger
	seeds        *seedSource
}

// Option configures a Generator
type Option func(*Generator)

// WithFamily selects the pathology recipe family
func WithFamily(f ecgsyn.Family) Option {
	return func(g *Generator) { g.family = f }
}

// WithTolerance changes the tolerance used when a request leaves it unset
func WithTolerance(tol float64) Option {
	return func(g *Generator) { g.tolerance = tol }
}

// WithLeadDeriver replaces the default ScalarProjection strategy
func WithLeadDeriver(d LeadDeriver) Option {
	return func(g *Generator) { g.deriver = d }
}

// WithLogger attaches a logger; the default discards everything
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithSeed makes seeds for calls without GenerateOptions.Seed reproducible
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.seeds = newSeedSource(seed) }
}

// NewGenerator creates a generator whose default sampling rate is samplingRate
func NewGenerator(samplingRate int, opts ...Option) (*Generator, error) {
	if samplingRate < MinSamplingRate {
		return nil, models.NewConfigurationError("sampling_rate", samplingRate, fmt.Sprintf("must be at least %d Hz", MinSamplingRate))
	}

	g := &Generator{
		samplingRate: samplingRate,
		tolerance:    DefaultTolerance,
		family:       ecgsyn.Baseline,
		deriver:      ScalarProjection{},
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if !(g.tolerance > 0) {
		return nil, models.NewConfigurationError("solver_tolerance", g.tolerance, "must be positive")
	}
	if g.seeds == nil {
		g.seeds = newSeedSource(time.Now().UnixNano())
	}
	return g, nil
}

// SamplingRate returns the default sampling rate in Hz
func (g *Generator) SamplingRate() int {
	return g.samplingRate
}

// Family returns the pathology family in use
func (g *Generator) Family() ecgsyn.Family {
	return g.family
}

// Generate produces one Lead II trace
func (g *Generator) Generate(opts models.GenerateOptions) (*models.ECGResult, error) {
	req, rng, err := g.resolve(opts)
	if err != nil {
		return nil, err
	}
	res, _, err := g.render(req, rng, ecgsyn.InitialState(), 0)
	return res, err
}

// Validate reports the configuration error Generate would return for opts
// without integrating anything.
func (g *Generator) Validate(opts models.GenerateOptions) error {
	if opts.Seed == nil {
		var trial int64
		opts.Seed = &trial
	}
	_, _, err := g.resolve(opts)
	return err
}

// GenerateMultiLead generates one trace and derives each requested lead from
// it. An empty lead list selects all twelve standard leads.
func (g *Generator) GenerateMultiLead(opts models.GenerateOptions, leads []Lead) (map[Lead]*models.ECGResult, error) {
	if len(leads) == 0 {
		leads = StandardLeads
	}
	for _, l := range leads {
		if !l.Valid() {
			return nil, models.NewConfigurationError("lead", string(l), "unknown lead")
		}
	}

	source, err := g.Generate(opts)
	if err != nil {
		return nil, err
	}

	out := make(map[Lead]*models.ECGResult, len(leads))
	for _, l := range leads {
		derived, err := g.deriver.Derive(source, l)
		if err != nil {
			return nil, fmt.Errorf("derive lead %s: %w", l, err)
		}
		out[l] = derived
	}
	return out, nil
}

// render integrates the resolved request from state y0 at absolute time t0
// and returns the finished trace plus the integrator state at the end of the
// span. Result times, post-processing and noise all run on the same clock
// starting at t0.
func (g *Generator) render(req *request, rng *rand.Rand, y0 ode.State, t0 float64) (*models.ECGResult, ode.State, error) {
	sr := float64(req.samplingRate)
	n := int(math.Round(req.duration * sr))
	if n < 1 {
		return nil, nil, models.NewConfigurationError("duration", req.duration, "shorter than one sample period")
	}

	model, err := ecgsyn.NewModel(req.params)
	if err != nil {
		return nil, nil, err
	}

	dt := 1 / sr
	traj, err := ode.Integrate(model, y0, t0, t0+float64(n)*dt, ode.Options{
		Tolerance:   req.tolerance,
		MinStep:     defaultMinStep,
		MaxStep:     dt,
		InitialStep: dt,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("integrate: %w", err)
	}
	if traj.ForcedSteps > 0 {
		g.logger.Warn().
			Err(models.ErrNumericalInstability).
			Int("forced_steps", traj.ForcedSteps).
			Float64("tolerance", req.tolerance).
			Msg("Integrator accepted steps above tolerance")
	}

	times := make([]float64, n)
	signal := make([]float64, n)
	for i := range times {
		times[i] = t0 + float64(i)/sr
		signal[i] = ecgsyn.ScaleFactor * traj.At(times[i])[2]
	}

	times, signal = postProcess(req, times, signal, rng)
	applyNoise(signal, times, req.noise, rng)

	g.logger.Debug().
		Str("pathology", req.pathology.String()).
		Float64("heart_rate", req.params.HeartRate).
		Int("samples", len(signal)).
		Int("steps", traj.Steps).
		Int("rejected", traj.Rejected).
		Int64("seed", req.seed).
		Msg("ECG generated")

	return &models.ECGResult{
		Time:         times,
		Signal:       signal,
		SamplingRate: req.samplingRate,
		Metadata: models.Metadata{
			Duration:    req.duration,
			HeartRate:   req.params.HeartRate,
			Pathology:   req.pathology.String(),
			Noise:       req.noise,
			Seed:        req.seed,
			Lead:        string(LeadII),
			ForcedSteps: traj.ForcedSteps,
		},
	}, traj.Last(), nil
}

// seedSource hands out seeds for calls that did not supply one
type seedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newSeedSource(seed int64) *seedSource {
	return &seedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *seedSource) next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int63()
}
