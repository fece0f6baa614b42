package ecgsyn

import (
	"fmt"
	"strings"

	"github.com/RMahshie/cardiosynth/pkg/models"
)

// Pathology is the closed set of simulated conditions
type Pathology int

const (
	Normal Pathology = iota
	AtrialFibrillation
	FirstDegreeAVBlock
	VentricularTachycardia
	STEMI
	Bradycardia
	Tachycardia
	CompleteHeartBlock
	LBBB
	RBBB
	Hyperkalemia
	Hypokalemia
	LVH
	Pericarditis
	numPathologies
)

var pathologyNames = [numPathologies]string{
	Normal:                 "normal",
	AtrialFibrillation:     "atrialFibrillation",
	FirstDegreeAVBlock:     "firstDegreeAVBlock",
	VentricularTachycardia: "ventricularTachycardia",
	STEMI:                  "stemi",
	Bradycardia:            "bradycardia",
	Tachycardia:            "tachycardia",
	CompleteHeartBlock:     "completeHeartBlock",
	LBBB:                   "lbbb",
	RBBB:                   "rbbb",
	Hyperkalemia:           "hyperkalemia",
	Hypokalemia:            "hypokalemia",
	LVH:                    "lvh",
	Pericarditis:           "pericarditis",
}

func (p Pathology) String() string {
	if p < 0 || p >= numPathologies {
		return fmt.Sprintf("Pathology(%d)", int(p))
	}
	return pathologyNames[p]
}

// Valid reports whether p is one of the enumerated pathologies
func (p Pathology) Valid() bool {
	return p >= 0 && p < numPathologies
}

// Pathologies returns every pathology in declaration order
func Pathologies() []Pathology {
	out := make([]Pathology, numPathologies)
	for i := range out {
		out[i] = Pathology(i)
	}
	return out
}

// ParsePathology maps an identifier such as "atrialFibrillation" to its
// Pathology. Matching ignores case; unknown names fail.
func ParsePathology(name string) (Pathology, error) {
	for i, n := range pathologyNames {
		if strings.EqualFold(n, name) {
			return Pathology(i), nil
		}
	}
	return 0, models.NewConfigurationError("pathology", name, "unknown pathology")
}

// MarshalText implements encoding.TextMarshaler
func (p Pathology) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, models.NewConfigurationError("pathology", int(p), "unknown pathology")
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Pathology) UnmarshalText(text []byte) error {
	parsed, err := ParsePathology(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Family selects which recipe set defines each pathology
type Family int

const (
	// Baseline carries the conservative recipes for the core rhythm set
	Baseline Family = iota
	// Enhanced carries clinically exaggerated recipes for every pathology
	Enhanced
)

func (f Family) String() string {
	switch f {
	case Baseline:
		return "baseline"
	case Enhanced:
		return "enhanced"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// ParseFamily maps "baseline" or "enhanced" to a Family
func ParseFamily(name string) (Family, error) {
	switch strings.ToLower(name) {
	case "baseline", "":
		return Baseline, nil
	case "enhanced":
		return Enhanced, nil
	default:
		return 0, models.NewConfigurationError("pathology_family", name, "must be baseline or enhanced")
	}
}

// TransformFunc maps base parameters to pathology-adjusted parameters
type TransformFunc func(Parameters) Parameters

// Defines reports whether the family has its own recipe for p
func (f Family) Defines(p Pathology) bool {
	_, ok := f.recipe(p)
	return ok
}

func (f Family) recipe(p Pathology) (TransformFunc, bool) {
	switch f {
	case Baseline:
		return baselineRecipe(p)
	case Enhanced:
		return enhancedRecipe(p)
	default:
		return nil, false
	}
}

func (f Family) other() Family {
	if f == Baseline {
		return Enhanced
	}
	return Baseline
}

// Transform applies the recipe for p from family f to base. When f has no
// recipe for p, the other family's recipe for the same pathology is used.
// The result is validated; base is never modified.
func Transform(f Family, p Pathology, base Parameters) (Parameters, error) {
	fn, ok := f.recipe(p)
	if !ok {
		fn, ok = f.other().recipe(p)
	}
	if !ok {
		return Parameters{}, models.NewConfigurationError("pathology", p.String(), "no transform defined")
	}

	out := fn(base)
	if err := out.Validate(); err != nil {
		return Parameters{}, fmt.Errorf("%s transform: %w", p, err)
	}
	return out, nil
}

func identity(p Parameters) Parameters { return p }

// scaleWaves multiplies amplitude and width of each listed wave
func scaleWaves(p Parameters, amplitude, width float64, waves ...Wave) Parameters {
	for _, w := range waves {
		p.Waves[w] = p.Waves[w].Scaled(amplitude, width)
	}
	return p
}

func baselineRecipe(p Pathology) (TransformFunc, bool) {
	switch p {
	case Normal:
		return identity, true
	case AtrialFibrillation:
		// no organised atrial activity; rhythm irregularity is added after integration
		return func(b Parameters) Parameters {
			return b.WithWave(WaveP, func(w WaveParameters) WaveParameters { return w.WithAmplitude(0) })
		}, true
	case FirstDegreeAVBlock:
		// PR prolongation
		return func(b Parameters) Parameters {
			return b.WithWave(WaveP, func(w WaveParameters) WaveParameters { return w.Shifted(-0.35) })
		}, true
	case VentricularTachycardia:
		return func(b Parameters) Parameters {
			b = b.WithHeartRate(170)
			b = b.WithWave(WaveP, func(w WaveParameters) WaveParameters { return w.WithAmplitude(0) })
			b = scaleWaves(b, 1, 2.5, WaveQ, WaveR, WaveS)
			return b.WithWave(WaveT, func(w WaveParameters) WaveParameters { return w.Scaled(-1.5, 1) })
		}, true
	case STEMI:
		// hyperacute T; the ST segment itself is injected after integration
		return func(b Parameters) Parameters {
			b = b.WithWave(WaveT, func(w WaveParameters) WaveParameters { return w.Scaled(2, 1) })
			return b.WithWave(WaveS, func(w WaveParameters) WaveParameters { return w.Scaled(0.3, 1) })
		}, true
	case Bradycardia:
		return func(b Parameters) Parameters { return b.WithHeartRate(45) }, true
	case Tachycardia:
		return func(b Parameters) Parameters {
			b = b.WithHeartRate(120)
			return b.WithWave(WaveT, func(w WaveParameters) WaveParameters { return w.Scaled(1, 0.8) })
		}, true
	case CompleteHeartBlock:
		// ventricular escape rhythm with broad complexes
		return func(b Parameters) Parameters {
			b = b.WithHeartRate(38)
			return scaleWaves(b, 1, 1.6, WaveQ, WaveR, WaveS)
		}, true
	default:
		return nil, false
	}
}

func enhancedRecipe(p Pathology) (TransformFunc, bool) {
	switch p {
	case Normal:
		return identity, true
	case AtrialFibrillation:
		return func(b Parameters) Parameters {
			b = b.WithWave(WaveP, func(w WaveParameters) WaveParameters { return w.WithAmplitude(0) })
			return b.WithHeartRate(b.HeartRate * 1.25)
		}, true
	case FirstDegreeAVBlock:
		return func(b Parameters) Parameters {
			return b.WithWave(WaveP, func(w WaveParameters) WaveParameters { return w.Shifted(-0.5) })
		}, true
	case VentricularTachycardia:
		return func(b Parameters) Parameters {
			b = b.WithHeartRate(180)
			b = b.WithWave(WaveP, func(w WaveParameters) WaveParameters { return w.WithAmplitude(0) })
			b = scaleWaves(b, 1.2, 3, WaveQ, WaveR, WaveS)
			return b.WithWave(WaveT, func(w WaveParameters) WaveParameters { return w.Scaled(-2, 1.2) })
		}, true
	case STEMI:
		return func(b Parameters) Parameters {
			b = b.WithWave(WaveT, func(w WaveParameters) WaveParameters { return w.Scaled(2.5, 1.1) })
			b = b.WithWave(WaveS, func(w WaveParameters) WaveParameters { return w.Scaled(0.1, 1) })
			return b.WithWave(WaveR, func(w WaveParameters) WaveParameters { return w.Scaled(0.9, 1) })
		}, true
	case Bradycardia:
		return func(b Parameters) Parameters { return b.WithHeartRate(40) }, true
	case Tachycardia:
		return func(b Parameters) Parameters {
			b = b.WithHeartRate(140)
			return b.WithWave(WaveT, func(w WaveParameters) WaveParameters { return w.Scaled(0.9, 0.7) })
		}, true
	case CompleteHeartBlock:
		return func(b Parameters) Parameters {
			b = b.WithHeartRate(35)
			return scaleWaves(b, 1, 2, WaveQ, WaveR, WaveS)
		}, true
	case LBBB:
		// septal q lost, broad R, discordant T
		return func(b Parameters) Parameters {
			b = b.WithWave(WaveQ, func(w WaveParameters) WaveParameters { return w.WithAmplitude(0) })
			b = scaleWaves(b, 1, 2.2, WaveR, WaveS)
			b = b.WithWave(WaveR, func(w WaveParameters) WaveParameters { return w.Scaled(1.1, 1) })
			return b.WithWave(WaveT, func(w WaveParameters) WaveParameters { return w.Scaled(-1, 1) })
		}, true
	case RBBB:
		// wide slurred terminal S
		return func(b Parameters) Parameters {
			b = b.WithWave(WaveS, func(w WaveParameters) WaveParameters { return w.Scaled(1.8, 2.5).Shifted(0.08) })
			return b.WithWave(WaveR, func(w WaveParameters) WaveParameters { return w.Scaled(1, 1.4) })
		}, true
	case Hyperkalemia:
		// tall narrow T, flattened broad P, QRS widening
		return func(b Parameters) Parameters {
			b = b.WithWave(WaveT, func(w WaveParameters) WaveParameters { return w.Scaled(3, 0.6) })
			b = b.WithWave(WaveP, func(w WaveParameters) WaveParameters { return w.Scaled(0.4, 1.4) })
			return scaleWaves(b, 1, 1.3, WaveQ, WaveR, WaveS)
		}, true
	case Hypokalemia:
		// flat T; the U wave is injected after integration
		return func(b Parameters) Parameters {
			return b.WithWave(WaveT, func(w WaveParameters) WaveParameters { return w.Scaled(0.4, 1.3) })
		}, true
	case LVH:
		// high voltage with strain pattern
		return func(b Parameters) Parameters {
			b = scaleWaves(b, 1.8, 1, WaveR, WaveS)
			return b.WithWave(WaveT, func(w WaveParameters) WaveParameters { return w.Scaled(-0.6, 1) })
		}, true
	case Pericarditis:
		return func(b Parameters) Parameters {
			b = b.WithWave(WaveT, func(w WaveParameters) WaveParameters { return w.Scaled(1.4, 1.2) })
			return b.WithWave(WaveR, func(w WaveParameters) WaveParameters { return w.Scaled(0.9, 1) })
		}, true
	default:
		return nil, false
	}
}
