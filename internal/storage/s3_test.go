package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/minio"
)

func TestValidateContentType(t *testing.T) {
	assert.NoError(t, ValidateContentType("application/json"))
	assert.NoError(t, ValidateContentType("text/csv"))
	assert.ErrorContains(t, ValidateContentType("audio/wav"), "invalid content type")
}

func TestRecordingKey(t *testing.T) {
	assert.Equal(t, "recordings/abc.csv", RecordingKey("abc", ".csv"))
}

func TestNewS3Service_RequiresBucket(t *testing.T) {
	_, err := NewS3Service(context.Background(), S3Config{})
	assert.ErrorContains(t, err, "S3_BUCKET")
}

func TestEnsureBucket_NoEndpointIsNoOp(t *testing.T) {
	assert.NoError(t, EnsureBucket(context.Background(), S3Config{Bucket: "unused"}))
}

// TestS3Service_Integration round-trips an archive through MinIO
func TestS3Service_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	minioContainer, err := minio.Run(ctx,
		"minio/minio:RELEASE.2024-10-29T16-01-48Z",
		minio.WithUsername("minioadmin"),
		minio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)
	defer func() { require.NoError(t, minioContainer.Terminate(ctx)) }()

	minioURL, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := S3Config{
		Bucket:    "cardiosynth-test-" + uuid.New().String()[:8],
		Endpoint:  minioURL,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	}
	require.NoError(t, EnsureBucket(ctx, cfg))
	require.NoError(t, EnsureBucket(ctx, cfg), "second call finds the bucket")

	svc, err := NewS3Service(ctx, cfg)
	require.NoError(t, err)

	key := RecordingKey(uuid.New().String(), ".csv")
	payload := []byte("time,II\n0.000000,0.1\n")

	require.NoError(t, svc.UploadFile(ctx, key, "text/csv", payload))
	assert.Error(t, svc.UploadFile(ctx, key, "audio/wav", payload))

	data, err := svc.DownloadFile(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	url, err := svc.GenerateDownloadURL(ctx, key)
	require.NoError(t, err)
	assert.Contains(t, url, cfg.Bucket)

	require.NoError(t, svc.DeleteFile(ctx, key))
	_, err = svc.DownloadFile(ctx, key)
	assert.Error(t, err)
}
