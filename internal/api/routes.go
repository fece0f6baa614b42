package api

import (
	"net/http"

	"github.com/RMahshie/cardiosynth/internal/api/handlers"
	"github.com/RMahshie/cardiosynth/internal/broadcast"
	"github.com/RMahshie/cardiosynth/internal/cache"
	"github.com/RMahshie/cardiosynth/internal/processing"
	"github.com/RMahshie/cardiosynth/internal/repository"
	"github.com/RMahshie/cardiosynth/internal/storage"
	"github.com/RMahshie/cardiosynth/internal/synthesis"
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Dependencies carries everything the routes need. Cache and Hub may be nil.
type Dependencies struct {
	Generator      *synthesis.Generator
	Cache          cache.ResultCache
	Recordings     repository.RecordingRepository
	S3             storage.S3Service
	Processing     processing.RecordingService
	Hub            *broadcast.Hub
	Logger         zerolog.Logger
	MaxDuration    float64
	ChunkSeconds   float64
	AllowedOrigins []string
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(router chi.Router, api huma.API, deps Dependencies) {
	// Initialize handlers
	ecgHandler := handlers.NewECGHandler(deps.Generator, deps.Cache, deps.MaxDuration)
	recordingHandler := handlers.NewRecordingHandler(deps.Recordings, deps.S3, deps.Processing, deps.Generator, deps.MaxDuration)

	// Register synchronous generation routes
	huma.Register(api, huma.Operation{
		OperationID: "generateECG",
		Method:      http.MethodPost,
		Path:        "/api/ecg/generate",
		Summary:     "Generate an ECG trace",
		Description: "Synthesizes a Lead II trace. Seeded requests may be served from cache.",
		Tags:        []string{"ECG"},
	}, ecgHandler.Generate)

	huma.Register(api, huma.Operation{
		OperationID: "generateLeads",
		Method:      http.MethodPost,
		Path:        "/api/ecg/leads",
		Summary:     "Generate derived leads",
		Description: "Synthesizes one trace and projects it onto the requested standard leads",
		Tags:        []string{"ECG"},
	}, ecgHandler.GenerateLeads)

	huma.Register(api, huma.Operation{
		OperationID: "listPathologies",
		Method:      http.MethodGet,
		Path:        "/api/ecg/pathologies",
		Summary:     "List pathologies",
		Description: "Returns every supported pathology and the recipe families that define it",
		Tags:        []string{"ECG"},
	}, ecgHandler.ListPathologies)

	// Register recording routes
	huma.Register(api, huma.Operation{
		OperationID:   "createRecording",
		Method:        http.MethodPost,
		Path:          "/api/recordings",
		Summary:       "Create a recording",
		Description:   "Validates generation options and queues a multi-lead archive",
		Tags:          []string{"Recording"},
		DefaultStatus: http.StatusCreated,
	}, recordingHandler.CreateRecording)

	huma.Register(api, huma.Operation{
		OperationID: "getRecordingStatus",
		Method:      http.MethodGet,
		Path:        "/api/recordings/{id}/status",
		Summary:     "Get recording status",
		Description: "Returns the current status and progress of a recording",
		Tags:        []string{"Recording"},
	}, recordingHandler.GetRecordingStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getRecordingResults",
		Method:      http.MethodGet,
		Path:        "/api/recordings/{id}/results",
		Summary:     "Get recording results",
		Description: "Returns lead statistics, rhythm analysis and a download URL for the archive",
		Tags:        []string{"Recording"},
	}, recordingHandler.GetRecordingResults)

	huma.Register(api, huma.Operation{
		OperationID: "startRecordingProcessing",
		Method:      http.MethodPost,
		Path:        "/api/recordings/{id}/process",
		Summary:     "Start processing a recording",
		Description: "Renders, encodes and archives a pending recording in the background",
		Tags:        []string{"Recording"},
	}, recordingHandler.StartProcessing)

	// Websocket routes bypass huma
	router.Handle("/ws/ecg", handlers.NewStreamHandler(deps.Generator, deps.ChunkSeconds, deps.MaxDuration, deps.AllowedOrigins, deps.Logger))
	if deps.Hub != nil {
		router.Handle("/ws/live", handlers.NewLiveHandler(deps.Hub, deps.AllowedOrigins))
	}
}
