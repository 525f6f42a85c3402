// Package gateway receives telemetry frames from wearable units,
// persists them, and republishes them as JSON for downstream
// consumers.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/telemetry"
)

// Record is one decoded report as stored and republished.
type Record struct {
	ID          string    `json:"id"`
	ReceivedAt  time.Time `json:"received_at"`
	Status      string    `json:"status"`
	SpO2        uint8     `json:"spo2"`
	HeartRate   uint16    `json:"heart_rate"`
	Systolic    uint16    `json:"systolic"`
	Diastolic   uint16    `json:"diastolic"`
	Temperature float64   `json:"temperature"`
	Fall        bool      `json:"fall"`
	NoMovement  bool      `json:"no_movement"`
}

// NewRecord stamps a decoded report with an ID and arrival time.
func NewRecord(r telemetry.Report, at time.Time) Record {
	return Record{
		ID:          uuid.NewString(),
		ReceivedAt:  at.UTC(),
		Status:      r.Status.String(),
		SpO2:        r.SpO2,
		HeartRate:   r.HeartRate,
		Systolic:    r.Systolic,
		Diastolic:   r.Diastolic,
		Temperature: r.Temperature,
		Fall:        r.FallDetected,
		NoMovement:  r.NoMovement,
	}
}

// ScanPackets is a bufio.SplitFunc that extracts telemetry frames from
// a byte stream. Garbage between frames is skipped; a start marker not
// followed by a valid end marker is treated as garbage and the scan
// resynchronizes on the next start marker.
func ScanPackets(data []byte, atEOF bool) (int, []byte, error) {
	for offset := 0; ; {
		i := bytes.IndexByte(data[offset:], telemetry.StartMarker)
		if i < 0 {
			// No start marker anywhere, discard the buffer.
			return len(data), nil, nil
		}
		start := offset + i

		if len(data)-start < telemetry.PacketLen {
			if atEOF {
				return len(data), nil, nil
			}
			return start, nil, nil
		}

		frame := data[start : start+telemetry.PacketLen]
		if frame[telemetry.PacketLen-1] == telemetry.EndMarker {
			return start + telemetry.PacketLen, frame, nil
		}

		// False start marker, resume the search one byte later.
		offset = start + 1
	}
}

// Sink consumes decoded records. The store and the MQTT publisher both
// implement it.
type Sink interface {
	Ingest(Record) error
}

// Gateway decodes frames from an in-process channel and fans them out
// to the configured sinks.
type Gateway struct {
	packets <-chan []byte
	sinks   []Sink
	log     *zap.Logger
	now     func() time.Time
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(g *Gateway) { g.log = log }
}

// WithNow overrides the arrival clock, used by tests.
func WithNow(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// New creates a gateway reading frames from packets.
func New(packets <-chan []byte, sinks []Sink, opts ...Option) *Gateway {
	g := &Gateway{
		packets: packets,
		sinks:   sinks,
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run ingests frames until the context is cancelled or the packet
// channel closes. Bad frames and sink failures are logged and skipped;
// the loop never stops on them.
func (g *Gateway) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-g.packets:
			if !ok {
				return nil
			}
			g.handle(frame)
		}
	}
}

func (g *Gateway) handle(frame []byte) {
	report, err := telemetry.Decode(frame)
	if err != nil {
		g.log.Warn("dropping bad frame", zap.Error(err), zap.Int("len", len(frame)))
		return
	}

	rec := NewRecord(report, g.now())
	for _, sink := range g.sinks {
		if err := sink.Ingest(rec); err != nil {
			g.log.Warn("sink rejected record", zap.Error(err), zap.String("id", rec.ID))
		}
	}

	g.log.Info("report ingested",
		zap.String("id", rec.ID),
		zap.String("status", rec.Status),
		zap.Uint8("spo2", rec.SpO2),
		zap.Uint16("heart_rate", rec.HeartRate),
	)
}

// JSON renders the record for republication.
func (r Record) JSON() ([]byte, error) {
	return json.Marshal(r)
}
