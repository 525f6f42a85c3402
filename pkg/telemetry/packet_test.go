package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/vitals"
)

func TestEncodeKnownFrame(t *testing.T) {
	s := vitals.Snapshot{
		SpO2:        90,
		HeartRate:   130,
		Systolic:    150,
		Diastolic:   95,
		Temperature: 37.25,
	}

	p := Encode(s, vitals.StatusCritical)

	expected := []byte{
		0xAA, 0x02, 0x5A,
		0x00, 0x82,
		0x00, 0x96,
		0x00, 0x5F,
		0x0E, 0x8D,
		0x00, 0x00,
		0x55,
	}
	assert.Equal(t, expected, p[:])
}

func TestEncodeFlags(t *testing.T) {
	tests := []struct {
		name     string
		fall     bool
		noMove   bool
		expected byte
	}{
		{"no flags", false, false, 0x00},
		{"fall only", true, false, 0x02},
		{"no movement only", false, true, 0x01},
		{"both", true, true, 0x03},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := vitals.Snapshot{FallDetected: test.fall, NoMovement: test.noMove}
			p := Encode(s, vitals.StatusEmergency)
			assert.Equal(t, test.expected, p[11])
		})
	}
}

func TestRoundTrip(t *testing.T) {
	s := vitals.Snapshot{
		SpO2:         95,
		HeartRate:    72,
		Systolic:     118,
		Diastolic:    79,
		Temperature:  36.73,
		FallDetected: true,
	}

	p := Encode(s, vitals.StatusEmergency)
	r, err := Decode(p[:])
	require.NoError(t, err)

	assert.Equal(t, vitals.StatusEmergency, r.Status)
	assert.Equal(t, s.SpO2, r.SpO2)
	assert.Equal(t, s.HeartRate, r.HeartRate)
	assert.Equal(t, s.Systolic, r.Systolic)
	assert.Equal(t, s.Diastolic, r.Diastolic)
	assert.InDelta(t, s.Temperature, r.Temperature, 0.01)
	assert.True(t, r.FallDetected)
	assert.False(t, r.NoMovement)
}

func TestDecodeErrors(t *testing.T) {
	good := Encode(vitals.Snapshot{}, vitals.StatusNormal)

	tests := []struct {
		name     string
		data     []byte
		expected error
	}{
		{"short frame", good[:13], ErrBadLength},
		{"long frame", append(append([]byte{}, good[:]...), 0x00), ErrBadLength},
		{"empty", nil, ErrBadLength},
		{"bad start marker", func() []byte {
			p := good
			p[0] = 0xAB
			return p[:]
		}(), ErrBadMarker},
		{"bad end marker", func() []byte {
			p := good
			p[13] = 0x54
			return p[:]
		}(), ErrBadMarker},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Decode(test.data)
			assert.ErrorIs(t, err, test.expected)
		})
	}
}

func TestChanSender(t *testing.T) {
	s := NewChanSender(1)

	payload := []byte{0xAA, 0x01, 0x02}
	require.NoError(t, s.Send(payload, false))

	// Mutating the caller's buffer must not touch the queued frame.
	payload[1] = 0xFF
	frame := <-s.Packets()
	assert.Equal(t, []byte{0xAA, 0x01, 0x02}, frame)

	require.NoError(t, s.Send(payload, false))
	assert.Error(t, s.Send(payload, true), "full buffer drops the frame")

	require.NoError(t, s.Close())
}
