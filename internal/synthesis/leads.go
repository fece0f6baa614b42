package synthesis

import (
	"fmt"
	"math"
	"strings"

	"github.com/RMahshie/cardiosynth/pkg/models"
)

// Lead names one of the twelve standard ECG views
type Lead string

const (
	LeadI   Lead = "I"
	LeadII  Lead = "II"
	LeadIII Lead = "III"
	LeadAVR Lead = "aVR"
	LeadAVL Lead = "aVL"
	LeadAVF Lead = "aVF"
	LeadV1  Lead = "V1"
	LeadV2  Lead = "V2"
	LeadV3  Lead = "V3"
	LeadV4  Lead = "V4"
	LeadV5  Lead = "V5"
	LeadV6  Lead = "V6"
)

// StandardLeads lists the twelve leads in conventional order
var StandardLeads = []Lead{
	LeadI, LeadII, LeadIII, LeadAVR, LeadAVL, LeadAVF,
	LeadV1, LeadV2, LeadV3, LeadV4, LeadV5, LeadV6,
}

// Valid reports whether l is one of StandardLeads
func (l Lead) Valid() bool {
	for _, s := range StandardLeads {
		if l == s {
			return true
		}
	}
	return false
}

// ParseLead resolves a lead name case-insensitively ("avr" → aVR)
func ParseLead(name string) (Lead, error) {
	for _, l := range StandardLeads {
		if strings.EqualFold(string(l), name) {
			return l, nil
		}
	}
	return "", models.NewConfigurationError("lead", name, "unknown lead")
}

// ParseLeads parses a list of lead names, failing on the first unknown one
func ParseLeads(names []string) ([]Lead, error) {
	leads := make([]Lead, 0, len(names))
	for _, n := range names {
		l, err := ParseLead(n)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, nil
}

// LeadDeriver maps a Lead II trace onto another lead. Derived results share
// the source's time grid and sampling rate.
type LeadDeriver interface {
	Derive(source *models.ECGResult, lead Lead) (*models.ECGResult, error)
}

// scaleLead copies source with every sample multiplied by factor
func scaleLead(source *models.ECGResult, lead Lead, factor float64) *models.ECGResult {
	out := source.Clone()
	for i := range out.Signal {
		out.Signal[i] *= factor
	}
	out.Metadata.Lead = string(lead)
	return out
}

// ScalarProjection derives leads with a fixed gain per lead
type ScalarProjection struct{}

var scalarGains = map[Lead]float64{
	LeadI:   0.8,
	LeadII:  1.0,
	LeadIII: 0.6,
	LeadAVR: -0.5,
	LeadAVL: 0.4,
	LeadAVF: 0.7,
	LeadV1:  0.3,
	LeadV2:  0.5,
	LeadV3:  0.8,
	LeadV4:  1.1,
	LeadV5:  0.9,
	LeadV6:  0.7,
}

// Gain returns the multiplier applied for lead
func (ScalarProjection) Gain(lead Lead) (float64, error) {
	g, ok := scalarGains[lead]
	if !ok {
		return 0, models.NewConfigurationError("lead", string(lead), "unknown lead")
	}
	return g, nil
}

func (s ScalarProjection) Derive(source *models.ECGResult, lead Lead) (*models.ECGResult, error) {
	g, err := s.Gain(lead)
	if err != nil {
		return nil, err
	}
	return scaleLead(source, lead, g), nil
}

// Lead angles in degrees. Limb leads sit on the hexaxial reference system,
// precordial leads on the horizontal plane with V6 at 0°.
var (
	frontalAngles = map[Lead]float64{
		LeadI:   0,
		LeadII:  60,
		LeadIII: 120,
		LeadAVR: -150,
		LeadAVL: -30,
		LeadAVF: 90,
	}
	horizontalAngles = map[Lead]float64{
		LeadV1: 120,
		LeadV2: 90,
		LeadV3: 75,
		LeadV4: 60,
		LeadV5: 30,
		LeadV6: 0,
	}
)

// AxisProjection derives leads by projecting a mean cardiac vector onto each
// lead axis. Limb gains are normalised so Lead II is 1.
type AxisProjection struct {
	FrontalAxis    float64 // degrees
	HorizontalAxis float64 // degrees
	iiNorm         float64
}

// NewAxisProjection validates the axes. A frontal axis nearly perpendicular
// to Lead II cannot be recovered from a Lead II trace and is rejected.
func NewAxisProjection(frontalAxis, horizontalAxis float64) (*AxisProjection, error) {
	if !isFinite(frontalAxis) || !isFinite(horizontalAxis) {
		return nil, models.NewConfigurationError("axis", fmt.Sprintf("%v/%v", frontalAxis, horizontalAxis), "must be finite")
	}
	norm := math.Cos(degToRad(frontalAngles[LeadII] - frontalAxis))
	if math.Abs(norm) < 0.1 {
		return nil, models.NewConfigurationError("frontal_axis", frontalAxis, "nearly perpendicular to lead II")
	}
	return &AxisProjection{FrontalAxis: frontalAxis, HorizontalAxis: horizontalAxis, iiNorm: norm}, nil
}

// DefaultAxisProjection uses a normal +60° frontal axis and a 20° horizontal axis
func DefaultAxisProjection() *AxisProjection {
	a, _ := NewAxisProjection(60, 20)
	return a
}

// Gain returns the projection factor for lead
func (a *AxisProjection) Gain(lead Lead) (float64, error) {
	if angle, ok := frontalAngles[lead]; ok {
		return math.Cos(degToRad(angle-a.FrontalAxis)) / a.iiNorm, nil
	}
	if angle, ok := horizontalAngles[lead]; ok {
		return math.Cos(degToRad(angle - a.HorizontalAxis)), nil
	}
	return 0, models.NewConfigurationError("lead", string(lead), "unknown lead")
}

func (a *AxisProjection) Derive(source *models.ECGResult, lead Lead) (*models.ECGResult, error) {
	g, err := a.Gain(lead)
	if err != nil {
		return nil, err
	}
	return scaleLead(source, lead, g), nil
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180
}
