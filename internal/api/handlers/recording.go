package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/RMahshie/cardiosynth/internal/encoding"
	"github.com/RMahshie/cardiosynth/internal/processing"
	"github.com/RMahshie/cardiosynth/internal/repository"
	"github.com/RMahshie/cardiosynth/internal/storage"
	"github.com/RMahshie/cardiosynth/internal/synthesis"
	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RecordingHandler handles archived recording jobs
type RecordingHandler struct {
	repo          repository.RecordingRepository
	s3Service     storage.S3Service
	processingSvc processing.RecordingService
	generator     *synthesis.Generator
	maxDuration   float64
}

// NewRecordingHandler creates a new recording handler
func NewRecordingHandler(repo repository.RecordingRepository, s3Service storage.S3Service, processingSvc processing.RecordingService, generator *synthesis.Generator, maxDuration float64) *RecordingHandler {
	return &RecordingHandler{
		repo:          repo,
		s3Service:     s3Service,
		processingSvc: processingSvc,
		generator:     generator,
		maxDuration:   maxDuration,
	}
}

// CreateRecording validates the request and stores a pending recording
func (h *RecordingHandler) CreateRecording(ctx context.Context, req *models.CreateRecordingRequest) (*models.CreateRecordingResponse, error) {
	opts := req.Body.Options
	if err := checkDuration(opts, h.maxDuration); err != nil {
		return nil, err
	}
	if err := h.generator.Validate(opts); err != nil {
		return nil, generationError(err)
	}
	leads, err := synthesis.ParseLeads(req.Body.Leads)
	if err != nil {
		return nil, generationError(err)
	}
	format, err := encoding.ParseFormat(req.Body.Format)
	if err != nil {
		return nil, generationError(err)
	}

	names := make([]string, len(leads))
	for i, l := range leads {
		names[i] = string(l)
	}

	now := time.Now().UTC()
	recording := &models.Recording{
		ID:        uuid.New().String(),
		Status:    models.StatusPending,
		Options:   opts,
		Leads:     names,
		Format:    string(format),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.repo.Create(ctx, recording); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create recording", err)
	}

	log.Info().
		Str("recordingID", recording.ID).
		Float64("duration", opts.Duration).
		Strs("leads", names).
		Str("format", recording.Format).
		Msg("Recording created")

	resp := &models.CreateRecordingResponse{}
	resp.Body.ID = recording.ID
	resp.Body.Status = recording.Status
	return resp, nil
}

// StartProcessing renders the recording in the background
func (h *RecordingHandler) StartProcessing(ctx context.Context, req *models.RecordingIDRequest) (*models.StartProcessingResponse, error) {
	recordingID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid recording ID", err)
	}

	recording, err := h.repo.GetByID(ctx, recordingID)
	if err != nil {
		return nil, lookupError(err)
	}
	if recording.Status != models.StatusPending {
		return nil, huma.Error409Conflict("Recording already processed",
			fmt.Errorf("recording status is %s", recording.Status))
	}

	// Start processing in background (don't wait for completion)
	go func() {
		if err := h.processingSvc.ProcessRecording(context.Background(), recordingID); err != nil {
			log.Error().Err(err).Str("recordingID", recordingID.String()).Msg("Recording processing failed")
		}
	}()

	resp := &models.StartProcessingResponse{}
	resp.Body.Message = "Processing started successfully"
	return resp, nil
}

// GetRecordingStatus returns the current status of a recording
func (h *RecordingHandler) GetRecordingStatus(ctx context.Context, req *models.RecordingIDRequest) (*models.GetRecordingStatusResponse, error) {
	recordingID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid recording ID", err)
	}

	recording, err := h.repo.GetByID(ctx, recordingID)
	if err != nil {
		return nil, lookupError(err)
	}

	resp := &models.GetRecordingStatusResponse{}
	resp.Body.ID = recording.ID
	resp.Body.Status = recording.Status
	resp.Body.Progress = recording.Progress
	resp.Body.Message = statusMessage(recording.Status, recording.Progress)
	resp.Body.Error = recording.ErrorMsg
	return resp, nil
}

// GetRecordingResults returns statistics and a download link for a completed recording
func (h *RecordingHandler) GetRecordingResults(ctx context.Context, req *models.RecordingIDRequest) (*models.GetRecordingResultsResponse, error) {
	recordingID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid recording ID", err)
	}

	recording, err := h.repo.GetByID(ctx, recordingID)
	if err != nil {
		return nil, lookupError(err)
	}
	if recording.Status != models.StatusCompleted || recording.ObjectKey == nil {
		return nil, huma.Error409Conflict("Recording not yet completed",
			fmt.Errorf("recording status is %s", recording.Status))
	}

	results, err := h.repo.GetResults(ctx, recordingID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get results", err)
	}

	url, err := h.s3Service.GenerateDownloadURL(ctx, *recording.ObjectKey)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to prepare download", err)
	}

	leads := recording.Leads
	if len(leads) == 0 {
		for _, l := range synthesis.StandardLeads {
			leads = append(leads, string(l))
		}
	}

	resp := &models.GetRecordingResultsResponse{}
	resp.Body.ID = recording.ID
	resp.Body.DownloadURL = url
	resp.Body.Format = recording.Format
	resp.Body.Leads = leads
	resp.Body.Seed = results.Seed
	resp.Body.Samples = results.Samples
	resp.Body.Summaries = results.Summaries
	resp.Body.Rhythm = results.Rhythm
	resp.Body.CreatedAt = results.CreatedAt
	return resp, nil
}

// statusMessage creates a human-readable status message
func statusMessage(status string, progress int) string {
	switch status {
	case models.StatusPending:
		return "Recording queued for processing..."
	case models.StatusProcessing:
		if progress < 40 {
			return "Integrating the model..."
		} else if progress < 60 {
			return "Encoding leads..."
		} else if progress < 80 {
			return "Uploading archive..."
		} else {
			return "Computing summaries..."
		}
	case models.StatusCompleted:
		return "Recording complete!"
	case models.StatusFailed:
		return "Recording failed. Please try again."
	default:
		return "Unknown status"
	}
}
