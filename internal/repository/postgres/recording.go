package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RMahshie/cardiosynth/internal/repository"
	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/google/uuid"
)

// PostgresRecordingRepository implements RecordingRepository for PostgreSQL
type PostgresRecordingRepository struct {
	db *sql.DB
}

// NewPostgresRecordingRepository creates a new PostgreSQL recording repository
func NewPostgresRecordingRepository(db *sql.DB) repository.RecordingRepository {
	return &PostgresRecordingRepository{db: db}
}

// Create inserts a new recording record
func (r *PostgresRecordingRepository) Create(ctx context.Context, recording *models.Recording) error {
	options, err := json.Marshal(recording.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}
	leads, err := json.Marshal(recording.Leads)
	if err != nil {
		return fmt.Errorf("failed to marshal leads: %w", err)
	}

	query := `
		INSERT INTO recordings (id, status, progress, options, leads, format, object_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		recording.ID,
		recording.Status,
		recording.Progress,
		string(options),
		string(leads),
		recording.Format,
		recording.ObjectKey,
		recording.CreatedAt,
		recording.UpdatedAt)

	return err
}

// GetByID retrieves a recording by ID
func (r *PostgresRecordingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recording, error) {
	query := `
		SELECT id, status, progress, options, leads, format, object_key, error_message, created_at, updated_at, completed_at
		FROM recordings
		WHERE id = $1`

	var recording models.Recording
	var options, leads []byte
	var objectKey, errorMsg sql.NullString
	var completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&recording.ID,
		&recording.Status,
		&recording.Progress,
		&options,
		&leads,
		&recording.Format,
		&objectKey,
		&errorMsg,
		&recording.CreatedAt,
		&recording.UpdatedAt,
		&completedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(options, &recording.Options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	if err := json.Unmarshal(leads, &recording.Leads); err != nil {
		return nil, fmt.Errorf("failed to unmarshal leads: %w", err)
	}
	if objectKey.Valid {
		recording.ObjectKey = &objectKey.String
	}
	if errorMsg.Valid {
		recording.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		recording.CompletedAt = &completedAt.Time
	}

	return &recording, nil
}

// UpdateStatus updates the status and progress of a recording
func (r *PostgresRecordingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE recordings
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $4 THEN NOW() ELSE completed_at END
		WHERE id = $3`

	return r.execOne(ctx, query, status, progress, id, status == models.StatusCompleted)
}

// UpdateError marks a recording failed with a reason
func (r *PostgresRecordingRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE recordings
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	return r.execOne(ctx, query, errorMsg, id)
}

// SetObjectKey records where the archive was uploaded
func (r *PostgresRecordingRepository) SetObjectKey(ctx context.Context, id uuid.UUID, key string) error {
	query := `
		UPDATE recordings
		SET object_key = $1, updated_at = NOW()
		WHERE id = $2`

	return r.execOne(ctx, query, key, id)
}

// StoreResults stores recording results
func (r *PostgresRecordingRepository) StoreResults(ctx context.Context, results *models.RecordingResults) error {
	summaries, err := json.Marshal(results.Summaries)
	if err != nil {
		return fmt.Errorf("failed to marshal summaries: %w", err)
	}
	rhythm, err := json.Marshal(results.Rhythm)
	if err != nil {
		return fmt.Errorf("failed to marshal rhythm: %w", err)
	}

	query := `
		INSERT INTO recording_results (id, recording_id, seed, samples, summaries, rhythm, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		results.ID,
		results.RecordingID,
		results.Seed,
		results.Samples,
		string(summaries),
		string(rhythm),
		results.CreatedAt)

	return err
}

// GetResults retrieves recording results
func (r *PostgresRecordingRepository) GetResults(ctx context.Context, recordingID uuid.UUID) (*models.RecordingResults, error) {
	query := `
		SELECT id, recording_id, seed, samples, summaries, rhythm, created_at
		FROM recording_results
		WHERE recording_id = $1`

	var results models.RecordingResults
	var summaries, rhythm []byte

	err := r.db.QueryRowContext(ctx, query, recordingID).Scan(
		&results.ID,
		&results.RecordingID,
		&results.Seed,
		&results.Samples,
		&summaries,
		&rhythm,
		&results.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(summaries, &results.Summaries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summaries: %w", err)
	}
	if err := json.Unmarshal(rhythm, &results.Rhythm); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rhythm: %w", err)
	}

	return &results, nil
}

// execOne runs an UPDATE and reports ErrNotFound when no row matched
func (r *PostgresRecordingRepository) execOne(ctx context.Context, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
