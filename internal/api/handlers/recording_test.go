package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/RMahshie/cardiosynth/internal/repository"
	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRecordingHandler(t *testing.T) (*RecordingHandler, *MockRecordingRepository, *MockS3Service, *MockRecordingService) {
	repo := &MockRecordingRepository{}
	s3 := &MockS3Service{}
	proc := &MockRecordingService{}
	return NewRecordingHandler(repo, s3, proc, newTestGenerator(t), 300), repo, s3, proc
}

func TestCreateRecording(t *testing.T) {
	tests := []struct {
		name      string
		options   models.GenerateOptions
		leads     []string
		format    string
		mockSetup func(*MockRecordingRepository)
		wantCode  int
	}{
		{
			name:    "valid request",
			options: models.GenerateOptions{Duration: 30, Pathology: "stemi"},
			leads:   []string{"ii", "v1"},
			format:  "csv",
			mockSetup: func(repo *MockRecordingRepository) {
				repo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Recording) bool {
					return r.Status == models.StatusPending &&
						r.Format == "csv" &&
						assert.ObjectsAreEqual([]string{"II", "V1"}, r.Leads)
				})).Return(nil).Once()
			},
		},
		{
			name:    "format defaults to json",
			options: models.GenerateOptions{Duration: 30},
			mockSetup: func(repo *MockRecordingRepository) {
				repo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Recording) bool {
					return r.Format == "json" && len(r.Leads) == 0
				})).Return(nil).Once()
			},
		},
		{
			name:      "invalid options rejected before storage",
			options:   models.GenerateOptions{Duration: 10, HeartRate: -1},
			mockSetup: func(*MockRecordingRepository) {},
			wantCode:  400,
		},
		{
			name:      "unknown lead",
			options:   models.GenerateOptions{Duration: 10},
			leads:     []string{"V8"},
			mockSetup: func(*MockRecordingRepository) {},
			wantCode:  400,
		},
		{
			name:      "unknown format",
			options:   models.GenerateOptions{Duration: 10},
			format:    "edf",
			mockSetup: func(*MockRecordingRepository) {},
			wantCode:  400,
		},
		{
			name:      "over the duration limit",
			options:   models.GenerateOptions{Duration: 3600},
			mockSetup: func(*MockRecordingRepository) {},
			wantCode:  400,
		},
		{
			name:    "database failure",
			options: models.GenerateOptions{Duration: 10},
			mockSetup: func(repo *MockRecordingRepository) {
				repo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError).Once()
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, repo, _, _ := newRecordingHandler(t)
			tt.mockSetup(repo)

			req := &models.CreateRecordingRequest{}
			req.Body.Options = tt.options
			req.Body.Leads = tt.leads
			req.Body.Format = tt.format

			resp, err := handler.CreateRecording(context.Background(), req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, statusOf(t, err))
			} else {
				require.NoError(t, err)
				_, err := uuid.Parse(resp.Body.ID)
				assert.NoError(t, err)
				assert.Equal(t, models.StatusPending, resp.Body.Status)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestStartProcessing(t *testing.T) {
	t.Run("starts pending recording", func(t *testing.T) {
		handler, repo, _, proc := newRecordingHandler(t)
		id := uuid.New()

		done := make(chan struct{})
		repo.On("GetByID", mock.Anything, id).Return(&models.Recording{ID: id.String(), Status: models.StatusPending}, nil)
		proc.On("ProcessRecording", mock.Anything, id).Run(func(mock.Arguments) { close(done) }).Return(nil).Once()

		resp, err := handler.StartProcessing(context.Background(), &models.RecordingIDRequest{ID: id.String()})
		require.NoError(t, err)
		assert.Equal(t, "Processing started successfully", resp.Body.Message)

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("processing was not started")
		}
		proc.AssertExpectations(t)
	})

	t.Run("already processed", func(t *testing.T) {
		handler, repo, _, proc := newRecordingHandler(t)
		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(&models.Recording{ID: id.String(), Status: models.StatusCompleted}, nil)

		_, err := handler.StartProcessing(context.Background(), &models.RecordingIDRequest{ID: id.String()})
		require.Error(t, err)
		assert.Equal(t, 409, statusOf(t, err))
		proc.AssertNotCalled(t, "ProcessRecording", mock.Anything, mock.Anything)
	})

	t.Run("unknown recording", func(t *testing.T) {
		handler, repo, _, _ := newRecordingHandler(t)
		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

		_, err := handler.StartProcessing(context.Background(), &models.RecordingIDRequest{ID: id.String()})
		require.Error(t, err)
		assert.Equal(t, 404, statusOf(t, err))
	})

	t.Run("malformed id", func(t *testing.T) {
		handler, _, _, _ := newRecordingHandler(t)

		_, err := handler.StartProcessing(context.Background(), &models.RecordingIDRequest{ID: "not-a-uuid"})
		require.Error(t, err)
		assert.Equal(t, 400, statusOf(t, err))
	})
}

func TestGetRecordingStatus(t *testing.T) {
	handler, repo, _, _ := newRecordingHandler(t)
	id := uuid.New()
	reason := "Generation failed: boom"
	repo.On("GetByID", mock.Anything, id).Return(&models.Recording{
		ID:       id.String(),
		Status:   models.StatusFailed,
		Progress: 10,
		ErrorMsg: &reason,
	}, nil)

	resp, err := handler.GetRecordingStatus(context.Background(), &models.RecordingIDRequest{ID: id.String()})
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, resp.Body.Status)
	assert.Equal(t, "Recording failed. Please try again.", resp.Body.Message)
	require.NotNil(t, resp.Body.Error)
	assert.Equal(t, reason, *resp.Body.Error)

	missing := uuid.New()
	repo.On("GetByID", mock.Anything, missing).Return(nil, repository.ErrNotFound)
	_, err = handler.GetRecordingStatus(context.Background(), &models.RecordingIDRequest{ID: missing.String()})
	require.Error(t, err)
	assert.Equal(t, 404, statusOf(t, err))
}

func TestStatusMessage(t *testing.T) {
	tests := []struct {
		status   string
		progress int
		want     string
	}{
		{models.StatusPending, 0, "Recording queued for processing..."},
		{models.StatusProcessing, 10, "Integrating the model..."},
		{models.StatusProcessing, 40, "Encoding leads..."},
		{models.StatusProcessing, 60, "Uploading archive..."},
		{models.StatusProcessing, 90, "Computing summaries..."},
		{models.StatusCompleted, 100, "Recording complete!"},
		{"paused", 0, "Unknown status"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusMessage(tt.status, tt.progress))
	}
}

func TestGetRecordingResults(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		handler, repo, s3, _ := newRecordingHandler(t)
		id := uuid.New()
		key := "recordings/" + id.String() + ".json"

		repo.On("GetByID", mock.Anything, id).Return(&models.Recording{
			ID:        id.String(),
			Status:    models.StatusCompleted,
			Format:    "json",
			ObjectKey: &key,
		}, nil)
		repo.On("GetResults", mock.Anything, id).Return(&models.RecordingResults{
			RecordingID: id.String(),
			Seed:        99,
			Samples:     5000,
			Summaries:   map[string]models.SignalSummary{"II": {Samples: 5000}},
			Rhythm:      models.RhythmSummary{Beats: 12, HeartRate: 72},
		}, nil)
		s3.On("GenerateDownloadURL", mock.Anything, key).Return("https://example.com/download", nil)

		resp, err := handler.GetRecordingResults(context.Background(), &models.RecordingIDRequest{ID: id.String()})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/download", resp.Body.DownloadURL)
		assert.Equal(t, int64(99), resp.Body.Seed)
		assert.Len(t, resp.Body.Leads, 12, "empty lead list means all twelve")
		assert.Equal(t, 72.0, resp.Body.Rhythm.HeartRate)
		s3.AssertExpectations(t)
	})

	t.Run("not yet completed", func(t *testing.T) {
		handler, repo, s3, _ := newRecordingHandler(t)
		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(&models.Recording{ID: id.String(), Status: models.StatusProcessing}, nil)

		_, err := handler.GetRecordingResults(context.Background(), &models.RecordingIDRequest{ID: id.String()})
		require.Error(t, err)
		assert.Equal(t, 409, statusOf(t, err))
		s3.AssertNotCalled(t, "GenerateDownloadURL", mock.Anything, mock.Anything)
	})

	t.Run("presign failure", func(t *testing.T) {
		handler, repo, s3, _ := newRecordingHandler(t)
		id := uuid.New()
		key := "recordings/x.csv"
		repo.On("GetByID", mock.Anything, id).Return(&models.Recording{ID: id.String(), Status: models.StatusCompleted, ObjectKey: &key}, nil)
		repo.On("GetResults", mock.Anything, id).Return(&models.RecordingResults{}, nil)
		s3.On("GenerateDownloadURL", mock.Anything, key).Return("", assert.AnError)

		_, err := handler.GetRecordingResults(context.Background(), &models.RecordingIDRequest{ID: id.String()})
		require.Error(t, err)
		assert.Equal(t, 500, statusOf(t, err))
	})
}
