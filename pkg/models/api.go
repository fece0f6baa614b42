package models

import "time"

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// GenerateRequest asks for one Lead II trace
type GenerateRequest struct {
	Body GenerateOptions
}

// GenerateResponse carries the generated trace
type GenerateResponse struct {
	Cache string `header:"X-Cache" doc:"HIT when served from the result cache"`
	Body  *ECGResult
}

// GenerateLeadsRequest asks for several leads from one generation
type GenerateLeadsRequest struct {
	Body struct {
		Options GenerateOptions `json:"options" doc:"Generation options"`
		Leads   []string        `json:"leads,omitempty" doc:"Lead names, all twelve when omitted"`
	}
}

// GenerateLeadsResponse maps lead name to trace
type GenerateLeadsResponse struct {
	Body struct {
		Leads map[string]*ECGResult `json:"leads" doc:"Derived leads keyed by name"`
	}
}

// PathologyInfo describes one supported pathology
type PathologyInfo struct {
	Name     string `json:"name" doc:"Pathology identifier"`
	Baseline bool   `json:"baseline" doc:"Defined by the baseline recipe family"`
	Enhanced bool   `json:"enhanced" doc:"Defined by the enhanced recipe family"`
}

// ListPathologiesResponse lists every pathology identifier
type ListPathologiesResponse struct {
	Body struct {
		Family      string          `json:"family" doc:"Recipe family used by this server"`
		Pathologies []PathologyInfo `json:"pathologies" doc:"Supported pathologies"`
	}
}

// CreateRecordingRequest represents a request to archive a multi-lead recording
type CreateRecordingRequest struct {
	Body struct {
		Options GenerateOptions `json:"options" doc:"Generation options"`
		Leads   []string        `json:"leads,omitempty" doc:"Lead names, all twelve when omitted"`
		Format  string          `json:"format,omitempty" enum:"json,csv" doc:"Archive format, json when omitted"`
	}
}

// CreateRecordingResponse represents the response from creating a recording
type CreateRecordingResponse struct {
	Body struct {
		ID     string `json:"id" doc:"Recording unique identifier"`
		Status string `json:"status" doc:"Initial status"`
	}
}

// RecordingIDRequest addresses one recording by path
type RecordingIDRequest struct {
	ID string `path:"id" doc:"Recording ID"`
}

// GetRecordingStatusResponse represents the current status of a recording
type GetRecordingStatusResponse struct {
	Body struct {
		ID       string  `json:"id" doc:"Recording ID"`
		Status   string  `json:"status" enum:"pending,processing,completed,failed" doc:"Recording status"`
		Progress int     `json:"progress" minimum:"0" maximum:"100" doc:"Progress percentage"`
		Message  string  `json:"message,omitempty" doc:"Human-readable status message"`
		Error    *string `json:"error,omitempty" doc:"Failure reason"`
	}
}

// GetRecordingResultsResponse represents a completed recording
type GetRecordingResultsResponse struct {
	Body struct {
		ID          string                   `json:"id" doc:"Recording ID"`
		DownloadURL string                   `json:"download_url" doc:"Pre-signed URL of the archived recording"`
		Format      string                   `json:"format" doc:"Archive format"`
		Leads       []string                 `json:"leads" doc:"Archived leads"`
		Seed        int64                    `json:"seed" doc:"Seed that reproduces the recording"`
		Samples     int                      `json:"samples" doc:"Samples per lead"`
		Summaries   map[string]SignalSummary `json:"summaries" doc:"Per-lead amplitude statistics"`
		Rhythm      RhythmSummary            `json:"rhythm" doc:"Lead II rhythm analysis"`
		CreatedAt   time.Time                `json:"created_at" doc:"Results creation timestamp"`
	}
}

// StartProcessingResponse confirms a background job start
type StartProcessingResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}
