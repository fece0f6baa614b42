package handlers

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/RMahshie/cardiosynth/internal/broadcast"
	"github.com/RMahshie/cardiosynth/internal/encoding"
	"github.com/RMahshie/cardiosynth/internal/synthesis"
	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 2 * time.Second

// StreamStart is the text message sent before the first chunk frame
type StreamStart struct {
	Seed          int64   `json:"seed"`
	SamplingRate  int     `json:"sampling_rate"`
	ChunkDuration float64 `json:"chunk_duration"`
	Pathology     string  `json:"pathology"`
}

// StreamHandler pushes a live generated trace over a websocket, one binary
// float32 frame per chunk, paced at real time.
type StreamHandler struct {
	generator    *synthesis.Generator
	chunkSeconds float64
	maxChunk     float64
	upgrader     websocket.Upgrader
	logger       zerolog.Logger
}

// NewStreamHandler accepts websocket origins from allowedOrigins; an empty
// list accepts any origin. A single chunk may not exceed maxDuration seconds.
func NewStreamHandler(generator *synthesis.Generator, chunkSeconds, maxDuration float64, allowedOrigins []string, logger zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		generator:    generator,
		chunkSeconds: chunkSeconds,
		maxChunk:     maxDuration,
		upgrader:     websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)},
		logger:       logger.With().Str("component", "ecg_stream").Logger(),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || len(allowed) == 0 || slices.Contains(allowed, origin)
	}
}

// streamQuery reads generation options from the query string. Unset values
// keep the generator defaults; duration 0 streams until the client leaves.
func (h *StreamHandler) streamQuery(q url.Values) (models.GenerateOptions, synthesis.StreamOptions, error) {
	var opts models.GenerateOptions
	so := synthesis.StreamOptions{ChunkDuration: h.chunkSeconds}

	floatParam := func(name string, dst *float64) error {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return models.NewConfigurationError(name, v, "not a number")
			}
			*dst = f
		}
		return nil
	}

	if err := floatParam("heartRate", &opts.HeartRate); err != nil {
		return opts, so, err
	}
	if err := floatParam("duration", &opts.Duration); err != nil {
		return opts, so, err
	}
	if err := floatParam("chunk", &so.ChunkDuration); err != nil {
		return opts, so, err
	}
	if h.maxChunk > 0 && so.ChunkDuration > h.maxChunk {
		return opts, so, models.NewConfigurationError("chunk", so.ChunkDuration, "exceeds MAX_DURATION")
	}
	if err := floatParam("variability", &opts.Variability); err != nil {
		return opts, so, err
	}
	if v := q.Get("samplingRate"); v != "" {
		sr, err := strconv.Atoi(v)
		if err != nil {
			return opts, so, models.NewConfigurationError("samplingRate", v, "not an integer")
		}
		opts.SamplingRate = sr
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return opts, so, models.NewConfigurationError("seed", v, "not an integer")
		}
		opts.Seed = &seed
	}
	if v := q.Get("carry"); v != "" {
		carry, err := strconv.ParseBool(v)
		if err != nil {
			return opts, so, models.NewConfigurationError("carry", v, "not a boolean")
		}
		so.CarryState = carry
	}
	opts.Pathology = q.Get("pathology")
	return opts, so, nil
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	opts, so, err := h.streamQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	stream, err := h.generator.NewStream(opts, so)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// the read loop only notices the client going away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	sr := opts.SamplingRate
	if sr == 0 {
		sr = h.generator.SamplingRate()
	}
	start := StreamStart{
		Seed:          stream.Seed(),
		SamplingRate:  sr,
		ChunkDuration: so.ChunkDuration,
		Pathology:     opts.Pathology,
	}
	if start.Pathology == "" {
		start.Pathology = "normal"
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(start); err != nil {
		return
	}

	log := h.logger.With().Int64("seed", stream.Seed()).Logger()
	log.Info().Float64("chunk", so.ChunkDuration).Msg("Stream opened")

	ticker := time.NewTicker(time.Duration(so.ChunkDuration * float64(time.Second)))
	defer ticker.Stop()

	for chunk, err := range stream.Chunks() {
		if err != nil {
			log.Error().Err(err).Int("chunk", stream.Index()).Msg("Stream chunk failed")
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "generation failed"),
				time.Now().Add(writeWait))
			return
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.BinaryMessage, encoding.EncodeFrame(chunk.Signal)); err != nil {
			log.Debug().Err(err).Msg("Client write failed")
			return
		}

		select {
		case <-ctx.Done():
			log.Info().Int("chunks", stream.Index()).Float64("elapsed", stream.Elapsed()).Msg("Stream closed by client")
			return
		case <-ticker.C:
		}
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream complete"),
		time.Now().Add(writeWait))
	log.Info().Int("chunks", stream.Index()).Msg("Stream complete")
}

// LiveHandler attaches websocket clients to a broadcast hub fed from NATS
type LiveHandler struct {
	hub      *broadcast.Hub
	upgrader websocket.Upgrader
}

func NewLiveHandler(hub *broadcast.Hub, allowedOrigins []string) *LiveHandler {
	return &LiveHandler{
		hub:      hub,
		upgrader: websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)},
	}
}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.hub.Add(conn)
	defer func() {
		h.hub.Remove(conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
