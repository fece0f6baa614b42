package synthesis

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/RMahshie/cardiosynth/internal/ecgsyn"
	"github.com/RMahshie/cardiosynth/internal/ode"
	"github.com/RMahshie/cardiosynth/pkg/models"
)

// ErrStreamDone is returned by Stream.Next once a finite stream is exhausted
var ErrStreamDone = errors.New("synthesis: stream exhausted")

// StreamOptions configures chunked generation
type StreamOptions struct {
	// ChunkDuration is the length of every chunk except possibly the last, in seconds
	ChunkDuration float64

	// CarryState continues the oscillator from where the previous chunk
	// ended. When false every chunk restarts at the initial state.
	CarryState bool
}

// Stream yields consecutive time-contiguous chunks. It must not be iterated
// from more than one goroutine.
type Stream struct {
	gen      *Generator
	opts     models.GenerateOptions
	chunk    float64
	total    float64 // 0 means unbounded
	carry    bool
	baseSeed int64

	index   int
	elapsed float64
	state   ode.State
}

// GenerateStream streams opts in chunks of chunkDuration seconds.
// opts.Duration of zero streams forever.
func (g *Generator) GenerateStream(opts models.GenerateOptions, chunkDuration float64) (*Stream, error) {
	return g.NewStream(opts, StreamOptions{ChunkDuration: chunkDuration})
}

// NewStream validates opts up front so configuration errors surface before
// the first chunk is requested.
func (g *Generator) NewStream(opts models.GenerateOptions, so StreamOptions) (*Stream, error) {
	if !isFinite(so.ChunkDuration) || so.ChunkDuration <= 0 {
		return nil, models.NewConfigurationError("chunk_duration", so.ChunkDuration, "must be positive")
	}
	if !isFinite(opts.Duration) || opts.Duration < 0 {
		return nil, models.NewConfigurationError("duration", opts.Duration, "must not be negative")
	}

	trial := opts
	trial.Duration = so.ChunkDuration
	if opts.Seed == nil {
		seed := g.seeds.next()
		trial.Seed = &seed
	}
	req, _, err := g.resolve(trial)
	if err != nil {
		return nil, err
	}
	if math.Round(so.ChunkDuration*float64(req.samplingRate)) < 1 {
		return nil, models.NewConfigurationError("chunk_duration", so.ChunkDuration, "shorter than one sample period")
	}

	return &Stream{
		gen:      g,
		opts:     opts,
		chunk:    so.ChunkDuration,
		total:    opts.Duration,
		carry:    so.CarryState,
		baseSeed: *trial.Seed,
	}, nil
}

// Next generates the following chunk. A failed chunk leaves the stream
// position unchanged.
func (s *Stream) Next() (*models.ECGResult, error) {
	d := s.chunk
	if s.total > 0 {
		remaining := s.total - s.elapsed
		if remaining*float64(s.sampleRate()) < 0.5 {
			return nil, ErrStreamDone
		}
		d = min(d, remaining)
	}

	opts := s.opts
	opts.Duration = d
	seed := s.baseSeed + int64(s.index)
	opts.Seed = &seed

	req, rng, err := s.gen.resolve(opts)
	if err != nil {
		return nil, fmt.Errorf("chunk %d: %w", s.index, err)
	}

	// a restarted chunk is rendered on its own clock and shifted afterwards
	y0, t0 := ecgsyn.InitialState(), 0.0
	if s.carry && s.state != nil {
		y0, t0 = s.state, s.elapsed
	}

	res, final, err := s.gen.render(req, rng, y0, t0)
	if err != nil {
		return nil, fmt.Errorf("chunk %d: %w", s.index, err)
	}
	if shift := s.elapsed - t0; shift != 0 {
		for i := range res.Time {
			res.Time[i] += shift
		}
	}

	sr := float64(req.samplingRate)
	s.elapsed += math.Round(d*sr) / sr
	s.index++
	s.state = final
	return res, nil
}

// Chunks adapts Next to a range-over-func iterator. Iteration ends when the
// stream is exhausted, after the first error, or when the loop breaks.
func (s *Stream) Chunks() iter.Seq2[*models.ECGResult, error] {
	return func(yield func(*models.ECGResult, error) bool) {
		for {
			res, err := s.Next()
			if errors.Is(err, ErrStreamDone) {
				return
			}
			if !yield(res, err) || err != nil {
				return
			}
		}
	}
}

// Elapsed returns the stream time covered by the chunks delivered so far
func (s *Stream) Elapsed() float64 {
	return s.elapsed
}

// Index returns the number of chunks delivered so far
func (s *Stream) Index() int {
	return s.index
}

// Seed returns the seed of chunk zero
func (s *Stream) Seed() int64 {
	return s.baseSeed
}

func (s *Stream) sampleRate() int {
	if s.opts.SamplingRate > 0 {
		return s.opts.SamplingRate
	}
	return s.gen.samplingRate
}
