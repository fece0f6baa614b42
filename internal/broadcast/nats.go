package broadcast

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/RMahshie/cardiosynth/internal/encoding"
	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/nats-io/nats.go"
)

// Chunk frame headers
const (
	HeaderSamplingRate = "Sampling-Rate"
	HeaderStart        = "Start-Time"
	HeaderSeed         = "Seed"
	HeaderPathology    = "Pathology"
)

// ErrEmptyChunk is returned when a chunk carries no samples
var ErrEmptyChunk = errors.New("broadcast: empty chunk")

// Connect dials NATS and keeps reconnecting for the life of the process
func Connect(url, name string) (*nats.Conn, error) {
	return nats.Connect(
		url,
		nats.Name(name),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
}

// ParamsSubject is the subject rhythm updates for subject are published on
func ParamsSubject(subject string) string {
	return subject + ".params"
}

// RateUpdate is the JSON payload of a params message
type RateUpdate struct {
	Subject   string  `json:"subject"`
	Timestamp int64   `json:"ts"`
	Time      float64 `json:"t"`
	HeartRate float64 `json:"hr"`
}

// Publisher sends stream chunks to subscribers
type Publisher interface {
	PublishChunk(chunk *models.ECGResult) error
	PublishRate(t, bpm float64) error
}

// NATSPublisher publishes chunks as float32 frames
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

func NewNATSPublisher(conn *nats.Conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject}
}

// PublishChunk sends the chunk samples with timing metadata in headers
func (p *NATSPublisher) PublishChunk(chunk *models.ECGResult) error {
	if chunk == nil || chunk.Len() == 0 {
		return ErrEmptyChunk
	}

	msg := nats.NewMsg(p.subject)
	msg.Header.Set(HeaderSamplingRate, strconv.Itoa(chunk.SamplingRate))
	msg.Header.Set(HeaderStart, strconv.FormatFloat(chunk.Time[0], 'f', -1, 64))
	msg.Header.Set(HeaderSeed, strconv.FormatInt(chunk.Metadata.Seed, 10))
	msg.Header.Set(HeaderPathology, chunk.Metadata.Pathology)
	msg.Data = encoding.EncodeFrame(chunk.Signal)

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish chunk: %w", err)
	}
	return nil
}

// PublishRate sends a heart rate detected at stream time t
func (p *NATSPublisher) PublishRate(t, bpm float64) error {
	subject := ParamsSubject(p.subject)
	data, err := json.Marshal(RateUpdate{
		Subject:   subject,
		Timestamp: time.Now().UnixMilli(),
		Time:      t,
		HeartRate: bpm,
	})
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, data)
}
