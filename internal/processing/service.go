package processing

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/RMahshie/cardiosynth/internal/analysis"
	"github.com/RMahshie/cardiosynth/internal/encoding"
	"github.com/RMahshie/cardiosynth/internal/repository"
	"github.com/RMahshie/cardiosynth/internal/storage"
	"github.com/RMahshie/cardiosynth/internal/synthesis"
	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RecordingService renders a stored recording request and archives it
type RecordingService interface {
	ProcessRecording(ctx context.Context, recordingID uuid.UUID) error
}

type recordingService struct {
	generator  *synthesis.Generator
	s3         storage.S3Service
	repository repository.RecordingRepository
	logger     zerolog.Logger
}

func NewRecordingService(generator *synthesis.Generator, s3Service storage.S3Service, repo repository.RecordingRepository, logger zerolog.Logger) RecordingService {
	return &recordingService{
		generator:  generator,
		s3:         s3Service,
		repository: repo,
		logger:     logger.With().Str("component", "recording_processor").Logger(),
	}
}

// ProcessRecording moves a recording from pending to completed. Any failure
// after the recording is loaded marks it failed and is also returned.
func (s *recordingService) ProcessRecording(ctx context.Context, recordingID uuid.UUID) error {
	log := s.logger.With().Str("recording_id", recordingID.String()).Logger()

	// Step 1: Update to processing status
	if err := s.repository.UpdateStatus(ctx, recordingID, models.StatusProcessing, 10); err != nil {
		return err
	}

	// Step 2: Get recording details
	recording, err := s.repository.GetByID(ctx, recordingID)
	if err != nil {
		return err
	}

	leads, err := synthesis.ParseLeads(recording.Leads)
	if err != nil {
		return s.fail(ctx, recordingID, "Invalid lead list", err)
	}
	if len(leads) == 0 {
		leads = synthesis.StandardLeads
	}
	format, err := encoding.ParseFormat(recording.Format)
	if err != nil {
		return s.fail(ctx, recordingID, "Invalid archive format", err)
	}

	// Step 3: Generate every lead, plus Lead II for rhythm analysis
	rendered := leads
	if !slices.Contains(leads, synthesis.LeadII) {
		rendered = append(slices.Clone(leads), synthesis.LeadII)
	}
	started := time.Now()
	traces, err := s.generator.GenerateMultiLead(recording.Options, rendered)
	if err != nil {
		return s.fail(ctx, recordingID, "Generation failed", err)
	}
	log.Info().
		Int("leads", len(leads)).
		Dur("elapsed", time.Since(started)).
		Msg("Recording generated")

	if err := s.repository.UpdateStatus(ctx, recordingID, models.StatusProcessing, 40); err != nil {
		return s.fail(ctx, recordingID, "Failed to update progress", err)
	}

	// Step 4: Encode the archive
	channels := make([]encoding.Channel, 0, len(leads))
	for _, l := range leads {
		channels = append(channels, encoding.Channel{Name: string(l), Result: traces[l]})
	}
	var buf bytes.Buffer
	if err := encoding.Encode(&buf, format, channels); err != nil {
		return s.fail(ctx, recordingID, "Encoding failed", err)
	}

	if err := s.repository.UpdateStatus(ctx, recordingID, models.StatusProcessing, 60); err != nil {
		return s.fail(ctx, recordingID, "Failed to update progress", err)
	}

	// Step 5: Upload to S3
	key := storage.RecordingKey(recording.ID, format.Extension())
	if err := s.s3.UploadFile(ctx, key, format.ContentType(), buf.Bytes()); err != nil {
		return s.fail(ctx, recordingID, "Failed to upload recording", err)
	}
	if err := s.repository.SetObjectKey(ctx, recordingID, key); err != nil {
		if delErr := s.s3.DeleteFile(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("object_key", key).Msg("Failed to remove orphaned archive")
		}
		return s.fail(ctx, recordingID, "Failed to save object key", err)
	}

	if err := s.repository.UpdateStatus(ctx, recordingID, models.StatusProcessing, 80); err != nil {
		return s.fail(ctx, recordingID, "Failed to update progress", err)
	}

	// Step 6: Summaries and rhythm
	summaries := make(map[string]models.SignalSummary, len(leads))
	for _, ch := range channels {
		summary, err := analysis.Summarize(ch.Result.Signal)
		if err != nil {
			return s.fail(ctx, recordingID, "Analysis failed", err)
		}
		summaries[ch.Name] = summary
	}
	lead2 := traces[synthesis.LeadII]
	rhythm := analysis.EstimateRhythm(lead2.Time, lead2.Signal)

	results := &models.RecordingResults{
		ID:          uuid.New().String(),
		RecordingID: recording.ID,
		Seed:        lead2.Metadata.Seed,
		Samples:     lead2.Len(),
		Summaries:   summaries,
		Rhythm:      rhythm.Summary(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repository.StoreResults(ctx, results); err != nil {
		return s.fail(ctx, recordingID, "Failed to store results", err)
	}

	if err := s.repository.UpdateStatus(ctx, recordingID, models.StatusProcessing, 90); err != nil {
		return s.fail(ctx, recordingID, "Failed to update progress", err)
	}

	// Step 7: Mark complete
	if err := s.repository.UpdateStatus(ctx, recordingID, models.StatusCompleted, 100); err != nil {
		return s.fail(ctx, recordingID, "Failed to mark recording complete", err)
	}

	log.Info().
		Str("object_key", key).
		Int64("seed", results.Seed).
		Float64("measured_hr", results.Rhythm.HeartRate).
		Msg("Recording completed")
	return nil
}

func (s *recordingService) fail(ctx context.Context, recordingID uuid.UUID, msg string, cause error) error {
	if err := s.repository.UpdateError(ctx, recordingID, fmt.Sprintf("%s: %v", msg, cause)); err != nil {
		s.logger.Error().Err(err).Str("recording_id", recordingID.String()).Msg("Failed to record failure")
	}
	return fmt.Errorf("%s: %w", msg, cause)
}
