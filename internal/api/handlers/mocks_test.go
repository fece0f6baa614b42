package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/RMahshie/cardiosynth/internal/synthesis"
	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRecordingRepository implements repository.RecordingRepository for testing
type MockRecordingRepository struct {
	mock.Mock
}

func (m *MockRecordingRepository) Create(ctx context.Context, recording *models.Recording) error {
	args := m.Called(ctx, recording)
	return args.Error(0)
}

func (m *MockRecordingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recording, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*models.Recording)
	return rec, args.Error(1)
}

func (m *MockRecordingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	args := m.Called(ctx, id, status, progress)
	return args.Error(0)
}

func (m *MockRecordingRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

func (m *MockRecordingRepository) SetObjectKey(ctx context.Context, id uuid.UUID, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

func (m *MockRecordingRepository) StoreResults(ctx context.Context, results *models.RecordingResults) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

func (m *MockRecordingRepository) GetResults(ctx context.Context, recordingID uuid.UUID) (*models.RecordingResults, error) {
	args := m.Called(ctx, recordingID)
	res, _ := args.Get(0).(*models.RecordingResults)
	return res, args.Error(1)
}

// MockS3Service implements storage.S3Service for testing
type MockS3Service struct {
	mock.Mock
}

func (m *MockS3Service) UploadFile(ctx context.Context, key string, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockS3Service) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockS3Service) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockRecordingService implements processing.RecordingService for testing
type MockRecordingService struct {
	mock.Mock
}

func (m *MockRecordingService) ProcessRecording(ctx context.Context, recordingID uuid.UUID) error {
	args := m.Called(ctx, recordingID)
	return args.Error(0)
}

// MockResultCache implements cache.ResultCache for testing
type MockResultCache struct {
	mock.Mock
}

func (m *MockResultCache) Get(ctx context.Context, opts models.GenerateOptions) (*models.ECGResult, bool, error) {
	args := m.Called(ctx, opts)
	res, _ := args.Get(0).(*models.ECGResult)
	return res, args.Bool(1), args.Error(2)
}

func (m *MockResultCache) Set(ctx context.Context, opts models.GenerateOptions, result *models.ECGResult) error {
	args := m.Called(ctx, opts, result)
	return args.Error(0)
}

func newTestGenerator(t *testing.T) *synthesis.Generator {
	t.Helper()
	gen, err := synthesis.NewGenerator(250, synthesis.WithSeed(3))
	require.NoError(t, err)
	return gen
}

// statusOf returns the HTTP status carried by a huma error
func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.True(t, errors.As(err, &se), "not a huma status error: %v", err)
	return se.GetStatus()
}

func seed(v int64) *int64 { return &v }
