package encoding

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChannels() []Channel {
	meta := models.Metadata{Duration: 0.012, HeartRate: 60, Pathology: "normal", Seed: 3}
	ii := &models.ECGResult{
		Time:         []float64{0, 0.004, 0.008},
		Signal:       []float64{0.1, 1.25, -0.3},
		SamplingRate: 250,
		Metadata:     meta,
	}
	ii.Metadata.Lead = "II"
	avr := ii.Clone()
	avr.Signal = []float64{-0.05, -0.625, 0.15}
	avr.Metadata.Lead = "aVR"
	return []Channel{{Name: "II", Result: ii}, {Name: "aVR", Result: avr}}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	assert.Equal(t, "text/csv", f.ContentType())
	assert.Equal(t, ".csv", f.Extension())
	assert.Equal(t, "application/json", FormatJSON.ContentType())

	_, err = ParseFormat("xml")
	assert.True(t, errors.Is(err, models.ErrConfiguration))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatCSV, testChannels()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"time", "II", "aVR"}, records[0])
	assert.Equal(t, []string{"0.004000", "1.25", "-0.625"}, records[2])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, testChannels()))

	doc, err := ReadJSON(&buf)
	require.NoError(t, err)

	expected := &Document{
		SamplingRate: 250,
		Time:         []float64{0, 0.004, 0.008},
		Leads: map[string][]float64{
			"II":  {0.1, 1.25, -0.3},
			"aVR": {-0.05, -0.625, 0.15},
		},
		Metadata: models.Metadata{Duration: 0.012, HeartRate: 60, Pathology: "normal", Seed: 3},
	}
	if diff := cmp.Diff(expected, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_Errors(t *testing.T) {
	var buf bytes.Buffer

	assert.ErrorIs(t, Encode(&buf, FormatCSV, nil), ErrNoChannels)

	channels := testChannels()
	channels[1].Result.Signal = channels[1].Result.Signal[:2]
	channels[1].Result.Time = channels[1].Result.Time[:2]
	err := Encode(&buf, FormatJSON, channels)
	assert.ErrorIs(t, err, ErrMisalignedLeads)
	assert.True(t, strings.Contains(err.Error(), "aVR"))

	assert.Error(t, Encode(&buf, Format("xml"), testChannels()))
}

func TestFrame(t *testing.T) {
	signal := []float64{0, 1.5, -0.25, 3.14159}

	frame := EncodeFrame(signal)
	require.Len(t, frame, 16)
	assert.Equal(t, []byte{0, 0, 0xc0, 0x3f}, frame[4:8], "1.5 as little-endian float32")

	decoded, err := DecodeFrame(frame)
	require.NoError(t, err)
	require.Len(t, decoded, len(signal))
	for i, v := range signal {
		assert.InDelta(t, v, float64(decoded[i]), 1e-6)
	}

	_, err = DecodeFrame(frame[:7])
	assert.Error(t, err)

	assert.Len(t, AppendFrame(frame, signal[:1]), 20)
}
