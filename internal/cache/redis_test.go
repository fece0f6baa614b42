package cache

import (
	"context"
	"testing"
	"time"

	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func seed(v int64) *int64 { return &v }

func TestRedisCache_Key(t *testing.T) {
	c := NewRedisCache("localhost:0", "", 0, time.Minute, "baseline/500/scalar")
	defer c.Close()

	_, ok := c.Key(models.GenerateOptions{Duration: 1})
	assert.False(t, ok, "unseeded requests are not cacheable")

	a, ok := c.Key(models.GenerateOptions{Duration: 1, Seed: seed(1)})
	require.True(t, ok)
	b, _ := c.Key(models.GenerateOptions{Duration: 1, Seed: seed(1)})
	assert.Equal(t, a, b)
	assert.Contains(t, a, "ecg:result:")

	other, _ := c.Key(models.GenerateOptions{Duration: 1, Seed: seed(2)})
	assert.NotEqual(t, a, other)

	enhanced := NewRedisCache("localhost:0", "", 0, time.Minute, "enhanced/500/scalar")
	defer enhanced.Close()
	ns, _ := enhanced.Key(models.GenerateOptions{Duration: 1, Seed: seed(1)})
	assert.NotEqual(t, a, ns)
}

func TestRedisCache_UnseededSkipsRedis(t *testing.T) {
	// nothing listens on this address, so any round trip would fail
	c := NewRedisCache("127.0.0.1:1", "", 0, time.Minute, "test")
	defer c.Close()

	ctx := context.Background()
	res, ok, err := c.Get(ctx, models.GenerateOptions{Duration: 1})
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, res)
	assert.NoError(t, c.Set(ctx, models.GenerateOptions{Duration: 1}, &models.ECGResult{}))
}

func TestRedisCache_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, container.Terminate(ctx)) }()

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	c := NewRedisCache(addr, "", 0, time.Minute, "test")
	defer c.Close()
	require.NoError(t, c.Ping(ctx))

	opts := models.GenerateOptions{Duration: 0.01, HeartRate: 60, Seed: seed(5)}
	_, ok, err := c.Get(ctx, opts)
	require.NoError(t, err)
	assert.False(t, ok)

	result := &models.ECGResult{
		Time:         []float64{0, 0.002, 0.004},
		Signal:       []float64{0.01, 0.2, -0.1},
		SamplingRate: 500,
		Metadata:     models.Metadata{Duration: 0.01, HeartRate: 60, Pathology: "normal", Seed: 5, Lead: "II"},
	}
	require.NoError(t, c.Set(ctx, opts, result))

	cached, ok, err := c.Get(ctx, opts)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, result, cached)
}
