package handlers

import (
	"errors"

	"github.com/RMahshie/cardiosynth/internal/repository"
	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/danielgtaylor/huma/v2"
)

// generationError maps engine failures onto HTTP errors
func generationError(err error) error {
	var cfgErr *models.ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		return huma.Error400BadRequest(cfgErr.Error(), err)
	case errors.Is(err, models.ErrNumericalInstability):
		return huma.Error422UnprocessableEntity("Integration did not converge. Try a looser solver tolerance.", err)
	default:
		return huma.Error500InternalServerError("Generation failed", err)
	}
}

// lookupError maps repository lookups onto HTTP errors
func lookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return huma.Error404NotFound("Recording not found", err)
	}
	return huma.Error500InternalServerError("Failed to load recording", err)
}

// checkDuration enforces the server's per-request duration limit
func checkDuration(opts models.GenerateOptions, maxDuration float64) error {
	if maxDuration > 0 && opts.Duration > maxDuration {
		return huma.Error400BadRequest("Duration exceeds the server limit", models.NewConfigurationError("duration", opts.Duration, "exceeds MAX_DURATION"))
	}
	return nil
}
