package models

import "time"

// Recording lifecycle states
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Recording is an archived multi-lead generation job (for internal use)
type Recording struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Progress    int             `json:"progress"`
	Options     GenerateOptions `json:"options"`
	Leads       []string        `json:"leads"`
	Format      string          `json:"format"`
	ObjectKey   *string         `json:"object_key,omitempty"`
	ErrorMsg    *string         `json:"error_message,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// SignalSummary holds amplitude statistics of one lead, in mV
type SignalSummary struct {
	Samples    int     `json:"samples" doc:"Number of samples"`
	Mean       float64 `json:"mean" doc:"Mean amplitude"`
	StdDev     float64 `json:"std_dev" doc:"Standard deviation"`
	Variance   float64 `json:"variance" doc:"Unbiased variance"`
	Min        float64 `json:"min" doc:"Minimum amplitude"`
	Max        float64 `json:"max" doc:"Maximum amplitude"`
	PeakToPeak float64 `json:"peak_to_peak" doc:"Max minus min"`
	RMS        float64 `json:"rms" doc:"Root mean square"`
}

// RhythmSummary describes beat timing detected in Lead II
type RhythmSummary struct {
	Beats     int     `json:"beats" doc:"Detected R peaks"`
	HeartRate float64 `json:"heart_rate" doc:"Measured heart rate in bpm"`
	RRMean    float64 `json:"rr_mean" doc:"Mean RR interval in seconds"`
	RRStdDev  float64 `json:"rr_std_dev" doc:"RR interval standard deviation in seconds"`
}

// RecordingResults is the stored outcome of a completed recording
type RecordingResults struct {
	ID          string                   `json:"id"`
	RecordingID string                   `json:"recording_id"`
	Seed        int64                    `json:"seed"`
	Samples     int                      `json:"samples"`
	Summaries   map[string]SignalSummary `json:"summaries"`
	Rhythm      RhythmSummary            `json:"rhythm"`
	CreatedAt   time.Time                `json:"created_at"`
}
