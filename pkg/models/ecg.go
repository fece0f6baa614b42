package models

// ECGResult is a generated trace. Time and Signal are index-aligned.
type ECGResult struct {
	Time         []float64 `json:"time" doc:"Sample times in seconds"`
	Signal       []float64 `json:"signal" doc:"Voltage samples in mV"`
	SamplingRate int       `json:"sampling_rate" doc:"Sampling rate in Hz"`
	Metadata     Metadata  `json:"metadata" doc:"Generation metadata"`
}

// Metadata describes how an ECGResult was produced
type Metadata struct {
	Duration    float64       `json:"duration" doc:"Requested duration in seconds"`
	HeartRate   float64       `json:"heart_rate" doc:"Effective heart rate in bpm after the pathology transform"`
	Pathology   string        `json:"pathology" doc:"Pathology identifier"`
	Noise       *NoiseOptions `json:"noise,omitempty" doc:"Noise applied to the trace"`
	Seed        int64         `json:"seed" doc:"Random seed used for this trace"`
	Lead        string        `json:"lead,omitempty" doc:"Lead name for derived leads"`
	ForcedSteps int           `json:"forced_steps,omitempty" doc:"Integrator steps accepted above tolerance"`
}

// Len returns the number of samples
func (r *ECGResult) Len() int {
	return len(r.Signal)
}

// Clone returns a deep copy so callers can keep a result for later comparison
func (r *ECGResult) Clone() *ECGResult {
	c := *r
	c.Time = append([]float64(nil), r.Time...)
	c.Signal = append([]float64(nil), r.Signal...)
	if r.Metadata.Noise != nil {
		n := *r.Metadata.Noise
		c.Metadata.Noise = &n
	}
	return &c
}

// NoiseOptions selects the additive artifacts. Nil components are skipped.
type NoiseOptions struct {
	BaselineWander *BaselineWander `json:"baseline_wander,omitempty" doc:"Low-frequency respiratory drift"`
	Powerline      *Powerline      `json:"powerline,omitempty" doc:"Mains interference"`
	Muscle         *MuscleArtifact `json:"muscle,omitempty" doc:"EMG artifact"`
	Gaussian       *GaussianNoise  `json:"gaussian,omitempty" doc:"White noise"`
}

// BaselineWander is amplitude * sin(2*pi*frequency*t)
type BaselineWander struct {
	Amplitude float64 `json:"amplitude" doc:"Amplitude in mV"`
	Frequency float64 `json:"frequency" doc:"Frequency in Hz"`
}

// Powerline is mains hum at 50 or 60 Hz
type Powerline struct {
	Amplitude float64 `json:"amplitude" doc:"Amplitude in mV"`
	Frequency float64 `json:"frequency,omitempty" enum:"0,50,60" doc:"Mains frequency in Hz, 50 when omitted"`
}

// MuscleArtifact is high-frequency irregular EMG noise
type MuscleArtifact struct {
	Amplitude float64 `json:"amplitude" doc:"Amplitude in mV"`
}

// GaussianNoise is white noise; Amplitude is the standard deviation
type GaussianNoise struct {
	Amplitude float64 `json:"amplitude" doc:"Standard deviation in mV"`
}

// WaveOverride partially overrides one wave component
type WaveOverride struct {
	Amplitude *float64 `json:"amplitude,omitempty" doc:"Gaussian gain"`
	Width     *float64 `json:"width,omitempty" doc:"Angular width in radians, must be positive"`
	Position  *float64 `json:"position,omitempty" doc:"Angular position in radians"`
}

// CustomParams is a partial override of the model parameters
type CustomParams struct {
	P                    *WaveOverride `json:"p,omitempty"`
	Q                    *WaveOverride `json:"q,omitempty"`
	R                    *WaveOverride `json:"r,omitempty"`
	S                    *WaveOverride `json:"s,omitempty"`
	T                    *WaveOverride `json:"t,omitempty"`
	RespiratoryRate      *float64      `json:"respiratory_rate,omitempty" doc:"Breaths per minute"`
	RespiratoryAmplitude *float64      `json:"respiratory_amplitude,omitempty" doc:"Baseline modulation in mV"`
}

// GenerateOptions drives one generation call. Zero values select defaults where noted.
type GenerateOptions struct {
	SamplingRate    int           `json:"sampling_rate,omitempty" doc:"Sampling rate in Hz (>=250), generator default when omitted"`
	Duration        float64       `json:"duration" doc:"Duration in seconds"`
	HeartRate       float64       `json:"heart_rate,omitempty" doc:"Heart rate in bpm, 60 when omitted"`
	Pathology       string        `json:"pathology,omitempty" doc:"Pathology identifier, normal when omitted"`
	Noise           *NoiseOptions `json:"noise,omitempty" doc:"Additive noise"`
	CustomParams    *CustomParams `json:"custom_params,omitempty" doc:"Partial model parameter override"`
	SolverTolerance float64       `json:"solver_tolerance,omitempty" doc:"Integrator tolerance, 1e-6 when omitted"`
	Seed            *int64        `json:"seed,omitempty" doc:"Random seed for reproducible output"`
	Variability     float64       `json:"variability,omitempty" minimum:"0" maximum:"0.5" doc:"Biological jitter fraction applied to wave parameters"`
}
