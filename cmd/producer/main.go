package main

import (
	"context"
	"flag"
	"os"
	osSignal "os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/cardiosynth/internal/analysis"
	"github.com/RMahshie/cardiosynth/internal/broadcast"
	"github.com/RMahshie/cardiosynth/internal/config"
	"github.com/RMahshie/cardiosynth/internal/synthesis"
	"github.com/RMahshie/cardiosynth/pkg/models"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	var (
		natsURL   = flag.String("nats", cfg.NATS.URL, "NATS url")
		subject   = flag.String("subject", cfg.NATS.Subject, "subject")
		hr        = flag.Float64("hr", synthesis.DefaultHeartRate, "heart rate bpm")
		pathology = flag.String("pathology", "normal", "pathology identifier")
		chunkSecs = flag.Float64("chunk", cfg.Engine.ChunkSeconds, "seconds per message")
		seed      = flag.Int64("seed", 0, "base seed, random when 0")
		threshold = flag.Float64("threshold", 0.6, "R peak detection level in mV")
	)
	flag.Parse()

	nc, err := broadcast.Connect(*natsURL, "cardiosynth-producer")
	if err != nil {
		log.Fatal().Err(err).Str("url", *natsURL).Msg("Failed to connect to NATS")
	}
	defer nc.Drain()

	generator, err := cfg.NewGenerator(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create generator")
	}

	opts := models.GenerateOptions{HeartRate: *hr, Pathology: *pathology}
	if *seed != 0 {
		opts.Seed = seed
	}
	stream, err := generator.NewStream(opts, synthesis.StreamOptions{
		ChunkDuration: *chunkSecs,
		CarryState:    true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid stream options")
	}

	publisher := broadcast.NewNATSPublisher(nc, *subject)
	detector := analysis.NewHRDetector(*threshold)

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	osSignal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-ch
		cancel()
	}()

	ticker := time.NewTicker(time.Duration(*chunkSecs * float64(time.Second)))
	defer ticker.Stop()

	log.Info().
		Str("subject", *subject).
		Int64("seed", stream.Seed()).
		Str("pathology", *pathology).
		Msg("producer running")

	for chunk, err := range stream.Chunks() {
		if err != nil {
			log.Error().Err(err).Int("chunk", stream.Index()).Msg("Chunk generation failed")
			return
		}

		if err := publisher.PublishChunk(chunk); err != nil {
			log.Warn().Err(err).Msg("Publish failed")
		}

		for i, v := range chunk.Signal {
			if bpm, ok := detector.Process(v, chunk.Time[i]); ok {
				if err := publisher.PublishRate(chunk.Time[i], bpm); err != nil {
					log.Warn().Err(err).Msg("Rate publish failed")
				}
				log.Debug().Float64("bpm", bpm).Msg("HR detected")
			}
		}

		select {
		case <-ctx.Done():
			log.Info().Float64("elapsed", stream.Elapsed()).Msg("producer: stopping")
			return
		case <-ticker.C:
		}
	}
}
