package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a recording or its results do not exist
var ErrNotFound = errors.New("repository: not found")

// RecordingRepository defines the interface for recording data operations
type RecordingRepository interface {
	Create(ctx context.Context, recording *models.Recording) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Recording, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	SetObjectKey(ctx context.Context, id uuid.UUID, key string) error
	StoreResults(ctx context.Context, results *models.RecordingResults) error
	GetResults(ctx context.Context, recordingID uuid.UUID) (*models.RecordingResults, error)
}
