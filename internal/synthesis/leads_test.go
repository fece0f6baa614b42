package synthesis

import (
	"errors"
	"math"
	"testing"

	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestParseLead(t *testing.T) {
	tests := []struct {
		in       string
		expected Lead
		wantErr  bool
	}{
		{"II", LeadII, false},
		{"avr", LeadAVR, false},
		{"AVF", LeadAVF, false},
		{"v4", LeadV4, false},
		{"V7", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			l, err := ParseLead(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, models.ErrConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, l)
		})
	}

	leads, err := ParseLeads([]string{"i", "aVL"})
	require.NoError(t, err)
	assert.Equal(t, []Lead{LeadI, LeadAVL}, leads)

	_, err = ParseLeads([]string{"I", "X"})
	assert.Error(t, err)
}

func TestScalarProjection(t *testing.T) {
	source := &models.ECGResult{
		Time:         []float64{0, 0.004, 0.008},
		Signal:       []float64{0, 1, -0.5},
		SamplingRate: 250,
		Metadata:     models.Metadata{Lead: string(LeadII), Pathology: "normal"},
	}
	gains := map[Lead]float64{
		LeadI: 0.8, LeadII: 1.0, LeadIII: 0.6, LeadAVR: -0.5, LeadAVL: 0.4, LeadAVF: 0.7,
		LeadV1: 0.3, LeadV2: 0.5, LeadV3: 0.8, LeadV4: 1.1, LeadV5: 0.9, LeadV6: 0.7,
	}

	var p ScalarProjection
	for lead, gain := range gains {
		out, err := p.Derive(source, lead)
		require.NoError(t, err)
		assert.Equal(t, source.Time, out.Time)
		assert.Equal(t, source.SamplingRate, out.SamplingRate)
		assert.Equal(t, string(lead), out.Metadata.Lead)
		assert.InDelta(t, gain, out.Signal[1], 1e-12)
		assert.InDelta(t, -0.5*gain, out.Signal[2], 1e-12)
	}

	assert.Equal(t, []float64{0, 1, -0.5}, source.Signal, "source must not be modified")
	assert.Equal(t, string(LeadII), source.Metadata.Lead)

	_, err := p.Derive(source, Lead("V9"))
	assert.True(t, errors.Is(err, models.ErrConfiguration))
}

func TestAxisProjection(t *testing.T) {
	a := DefaultAxisProjection()
	require.NotNil(t, a)

	gain := func(l Lead) float64 {
		g, err := a.Gain(l)
		require.NoError(t, err)
		return g
	}

	assert.InDelta(t, 1.0, gain(LeadII), 1e-12)
	assert.InDelta(t, 0.5, gain(LeadI), 1e-12)
	assert.InDelta(t, math.Sqrt(3)/2, gain(LeadAVF), 1e-12)
	assert.InDelta(t, -math.Sqrt(3)/2, gain(LeadAVR), 1e-12)
	assert.Less(t, gain(LeadV1), 0.0)
	assert.Greater(t, gain(LeadV5), gain(LeadV2))

	// Einthoven: I + III = II
	assert.InDelta(t, gain(LeadII), gain(LeadI)+gain(LeadIII), 1e-12)
	// Goldberger with unit lead vectors: aVR = -(I + II)/sqrt(3)
	assert.InDelta(t, -(gain(LeadI)+gain(LeadII))/math.Sqrt(3), gain(LeadAVR), 1e-12)

	_, err := a.Gain(Lead("V9"))
	assert.Error(t, err)

	t.Run("left axis deviation", func(t *testing.T) {
		lad, err := NewAxisProjection(-20, 20)
		require.NoError(t, err)
		g, err := lad.Gain(LeadIII)
		require.NoError(t, err)
		assert.Less(t, g, 0.0)
	})

	t.Run("axis perpendicular to lead II", func(t *testing.T) {
		_, err := NewAxisProjection(-30, 20)
		assert.True(t, errors.Is(err, models.ErrConfiguration))

		_, err = NewAxisProjection(math.NaN(), 0)
		assert.Error(t, err)
	})
}

func TestGenerator_GenerateMultiLead(t *testing.T) {
	g := newTestGenerator(t)
	opts := models.GenerateOptions{Duration: 2, HeartRate: 70, Seed: seed(4)}

	t.Run("aVR is inverted", func(t *testing.T) {
		leads, err := g.GenerateMultiLead(opts, []Lead{LeadII, LeadAVR})
		require.NoError(t, err)
		require.Len(t, leads, 2)

		ii, avr := leads[LeadII].Signal, leads[LeadAVR].Signal
		assert.Less(t, floats.Max(avr), floats.Max(ii))
		assert.Greater(t, math.Abs(floats.Min(avr)), floats.Max(avr))
		assert.Equal(t, leads[LeadII].Time, leads[LeadAVR].Time)
	})

	t.Run("all leads by default", func(t *testing.T) {
		leads, err := g.GenerateMultiLead(opts, nil)
		require.NoError(t, err)
		assert.Len(t, leads, len(StandardLeads))
		for _, l := range StandardLeads {
			require.Contains(t, leads, l)
			assert.Equal(t, string(l), leads[l].Metadata.Lead)
			assert.Len(t, leads[l].Signal, 2000)
		}
	})

	t.Run("unknown lead", func(t *testing.T) {
		_, err := g.GenerateMultiLead(opts, []Lead{LeadII, "aVX"})
		assert.True(t, errors.Is(err, models.ErrConfiguration))
	})

	t.Run("axis strategy", func(t *testing.T) {
		ag := newTestGenerator(t, WithLeadDeriver(DefaultAxisProjection()))
		leads, err := ag.GenerateMultiLead(opts, []Lead{LeadII, LeadI})
		require.NoError(t, err)
		for i := range leads[LeadII].Signal {
			require.InDelta(t, 0.5*leads[LeadII].Signal[i], leads[LeadI].Signal[i], 1e-12)
		}
	})
}
