package gateway

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/telemetry"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/vitals"
)

func frame(status vitals.Status, spo2 uint8) []byte {
	p := telemetry.Encode(vitals.Snapshot{
		SpO2: spo2, HeartRate: 75, Systolic: 120, Diastolic: 80, Temperature: 36.6,
	}, status)
	return p[:]
}

func scanAll(t *testing.T, stream []byte) [][]byte {
	t.Helper()
	scanner := bufio.NewScanner(bytes.NewReader(stream))
	scanner.Split(ScanPackets)

	var frames [][]byte
	for scanner.Scan() {
		f := make([]byte, len(scanner.Bytes()))
		copy(f, scanner.Bytes())
		frames = append(frames, f)
	}
	require.NoError(t, scanner.Err())
	return frames
}

func TestScanPackets(t *testing.T) {
	a := frame(vitals.StatusNormal, 97)
	b := frame(vitals.StatusEmergency, 80)

	tests := []struct {
		name     string
		stream   []byte
		expected [][]byte
	}{
		{"back to back", append(append([]byte{}, a...), b...), [][]byte{a, b}},
		{"garbage prefix", append([]byte{0x00, 0x13, 0x37}, a...), [][]byte{a}},
		{"garbage between", append(append(append([]byte{}, a...), 0xFF, 0x00), b...), [][]byte{a, b}},
		{"trailing garbage", append(append([]byte{}, a...), 0xDE, 0xAD), [][]byte{a}},
		{"only garbage", []byte{0x01, 0x02, 0x03}, nil},
		{"truncated frame", a[:10], nil},
		{
			// A stray start marker mid-stream must not desynchronize the
			// real frame that follows.
			"false start marker",
			append([]byte{telemetry.StartMarker, 0x00, 0x00}, a...),
			[][]byte{a},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, scanAll(t, test.stream))
		})
	}
}

func TestScanPacketsSplitAcrossReads(t *testing.T) {
	a := frame(vitals.StatusCritical, 90)

	// One-byte reads force the scanner to reassemble the frame.
	scanner := bufio.NewScanner(iotest.OneByteReader(bytes.NewReader(a)))
	scanner.Split(ScanPackets)

	require.True(t, scanner.Scan())
	assert.Equal(t, a, scanner.Bytes())
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	defer store.Close()

	report, err := telemetry.Decode(frame(vitals.StatusWarning, 90))
	require.NoError(t, err)

	first := NewRecord(report, time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	second := NewRecord(report, time.Date(2026, 8, 30, 10, 5, 0, 0, time.UTC))
	require.NoError(t, store.Ingest(first))
	require.NoError(t, store.Ingest(second))

	records, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, second.ID, records[0].ID, "newest first")
	assert.Equal(t, "WARNING", records[0].Status)
	assert.Equal(t, uint8(90), records[0].SpO2)
	assert.Equal(t, second.ReceivedAt, records[0].ReceivedAt)

	limited, err := store.Recent(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStoreRejectsDuplicateID(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	defer store.Close()

	report, err := telemetry.Decode(frame(vitals.StatusNormal, 97))
	require.NoError(t, err)

	rec := NewRecord(report, time.Now())
	require.NoError(t, store.Ingest(rec))
	assert.Error(t, store.Ingest(rec))
}

type memorySink struct {
	records []Record
	err     error
}

func (m *memorySink) Ingest(r Record) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, r)
	return nil
}

func TestGatewayRun(t *testing.T) {
	packets := make(chan []byte, 4)
	sink := &memorySink{}
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	g := New(packets, []Sink{sink}, WithNow(func() time.Time { return at }))

	packets <- frame(vitals.StatusEmergency, 80)
	packets <- []byte{0x01, 0x02} // bad frame, dropped
	packets <- frame(vitals.StatusNormal, 97)
	close(packets)

	require.NoError(t, g.Run(context.Background()))

	require.Len(t, sink.records, 2)
	assert.Equal(t, "EMERGENCY", sink.records[0].Status)
	assert.Equal(t, uint8(80), sink.records[0].SpO2)
	assert.Equal(t, "NORMAL", sink.records[1].Status)
	assert.Equal(t, at, sink.records[0].ReceivedAt)
	assert.NotEqual(t, sink.records[0].ID, sink.records[1].ID)
}

func TestGatewaySinkFailureDoesNotStop(t *testing.T) {
	packets := make(chan []byte, 2)
	failing := &memorySink{err: assert.AnError}
	working := &memorySink{}
	g := New(packets, []Sink{failing, working})

	packets <- frame(vitals.StatusNormal, 97)
	close(packets)

	require.NoError(t, g.Run(context.Background()))
	assert.Len(t, working.records, 1)
}

func TestGatewayRunCancellation(t *testing.T) {
	packets := make(chan []byte)
	g := New(packets, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, g.Run(ctx), context.Canceled)
}

func TestRecordJSON(t *testing.T) {
	report, err := telemetry.Decode(frame(vitals.StatusCritical, 88))
	require.NoError(t, err)
	rec := NewRecord(report, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))

	payload, err := rec.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "CRITICAL", decoded["status"])
	assert.Equal(t, float64(88), decoded["spo2"])
	assert.Equal(t, false, decoded["fall"])
}

func TestReceive(t *testing.T) {
	a := frame(vitals.StatusNormal, 96)
	b := frame(vitals.StatusWarning, 90)
	stream := append(append([]byte{0xEE}, a...), b...)

	out := make(chan []byte, 4)
	require.NoError(t, Receive(context.Background(), bytes.NewReader(stream), out))

	var frames [][]byte
	for f := range out {
		frames = append(frames, f)
	}
	assert.Equal(t, [][]byte{a, b}, frames)
}
