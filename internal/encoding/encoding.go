package encoding

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RMahshie/cardiosynth/pkg/models"
)

// Format selects the archive encoding of a recording
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

var (
	ErrNoChannels      = errors.New("encoding: no channels")
	ErrMisalignedLeads = errors.New("encoding: leads do not share a time axis")
)

// ParseFormat accepts "json" or "csv"; empty selects JSON
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", models.NewConfigurationError("format", s, "must be json or csv")
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Channel is one named lead of a recording
type Channel struct {
	Name   string
	Result *models.ECGResult
}

// Document is the JSON layout of a multi-lead recording. Leads share Time.
type Document struct {
	SamplingRate int                  `json:"sampling_rate"`
	Time         []float64            `json:"time"`
	Leads        map[string][]float64 `json:"leads"`
	Metadata     models.Metadata      `json:"metadata"`
}

// Encode writes channels in format f
func Encode(w io.Writer, f Format, channels []Channel) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, channels)
	case FormatJSON:
		return WriteJSON(w, channels)
	}
	return models.NewConfigurationError("format", string(f), "must be json or csv")
}

func checkAligned(channels []Channel) error {
	if len(channels) == 0 {
		return ErrNoChannels
	}
	ref := channels[0].Result
	for _, c := range channels[1:] {
		if c.Result.Len() != ref.Len() || c.Result.SamplingRate != ref.SamplingRate {
			return fmt.Errorf("%w: %s", ErrMisalignedLeads, c.Name)
		}
	}
	return nil
}

// WriteJSON writes a Document built from channels
func WriteJSON(w io.Writer, channels []Channel) error {
	if err := checkAligned(channels); err != nil {
		return err
	}

	first := channels[0].Result
	doc := Document{
		SamplingRate: first.SamplingRate,
		Time:         first.Time,
		Leads:        make(map[string][]float64, len(channels)),
		Metadata:     first.Metadata,
	}
	doc.Metadata.Lead = ""
	for _, c := range channels {
		doc.Leads[c.Name] = c.Result.Signal
	}

	return json.NewEncoder(w).Encode(doc)
}

// ReadJSON decodes a Document written by WriteJSON
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode recording: %w", err)
	}
	return &doc, nil
}

// WriteCSV writes a header "time,<lead>..." and one row per sample
func WriteCSV(w io.Writer, channels []Channel) error {
	if err := checkAligned(channels); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := make([]string, 0, len(channels)+1)
	header = append(header, "time")
	for _, c := range channels {
		header = append(header, c.Name)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	times := channels[0].Result.Time
	for i, t := range times {
		row[0] = strconv.FormatFloat(t, 'f', 6, 64)
		for k, c := range channels {
			row[k+1] = strconv.FormatFloat(c.Result.Signal[i], 'g', 8, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
