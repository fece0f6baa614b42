package handlers

import (
	"context"

	"github.com/RMahshie/cardiosynth/internal/cache"
	"github.com/RMahshie/cardiosynth/internal/ecgsyn"
	"github.com/RMahshie/cardiosynth/internal/synthesis"
	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/rs/zerolog/log"
)

// ECGHandler serves synchronous generation requests
type ECGHandler struct {
	generator   *synthesis.Generator
	cache       cache.ResultCache
	maxDuration float64
}

// NewECGHandler creates a new ECG handler. resultCache may be nil.
func NewECGHandler(generator *synthesis.Generator, resultCache cache.ResultCache, maxDuration float64) *ECGHandler {
	return &ECGHandler{
		generator:   generator,
		cache:       resultCache,
		maxDuration: maxDuration,
	}
}

// Generate returns a single Lead II trace
func (h *ECGHandler) Generate(ctx context.Context, req *models.GenerateRequest) (*models.GenerateResponse, error) {
	opts := req.Body
	if err := checkDuration(opts, h.maxDuration); err != nil {
		return nil, err
	}

	if h.cache != nil {
		cached, ok, err := h.cache.Get(ctx, opts)
		if err != nil {
			log.Warn().Err(err).Msg("Result cache lookup failed")
		}
		if ok {
			return &models.GenerateResponse{Cache: "HIT", Body: cached}, nil
		}
	}

	result, err := h.generator.Generate(opts)
	if err != nil {
		return nil, generationError(err)
	}

	log.Debug().
		Str("pathology", result.Metadata.Pathology).
		Int("samples", result.Len()).
		Int64("seed", result.Metadata.Seed).
		Msg("Generated trace")

	if h.cache != nil {
		if err := h.cache.Set(ctx, opts, result); err != nil {
			log.Warn().Err(err).Msg("Result cache store failed")
		}
	}

	return &models.GenerateResponse{Cache: "MISS", Body: result}, nil
}

// GenerateLeads derives the requested leads from one trace
func (h *ECGHandler) GenerateLeads(ctx context.Context, req *models.GenerateLeadsRequest) (*models.GenerateLeadsResponse, error) {
	if err := checkDuration(req.Body.Options, h.maxDuration); err != nil {
		return nil, err
	}
	leads, err := synthesis.ParseLeads(req.Body.Leads)
	if err != nil {
		return nil, generationError(err)
	}

	traces, err := h.generator.GenerateMultiLead(req.Body.Options, leads)
	if err != nil {
		return nil, generationError(err)
	}

	resp := &models.GenerateLeadsResponse{}
	resp.Body.Leads = make(map[string]*models.ECGResult, len(traces))
	for l, res := range traces {
		resp.Body.Leads[string(l)] = res
	}
	return resp, nil
}

// ListPathologies reports every pathology and which recipe families define it
func (h *ECGHandler) ListPathologies(ctx context.Context, _ *struct{}) (*models.ListPathologiesResponse, error) {
	resp := &models.ListPathologiesResponse{}
	resp.Body.Family = h.generator.Family().String()
	for _, p := range ecgsyn.Pathologies() {
		resp.Body.Pathologies = append(resp.Body.Pathologies, models.PathologyInfo{
			Name:     p.String(),
			Baseline: ecgsyn.Baseline.Defines(p),
			Enhanced: ecgsyn.Enhanced.Defines(p),
		})
	}
	return resp, nil
}

