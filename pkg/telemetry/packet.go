// Package telemetry encodes vital-signs snapshots into the fixed
// 14-byte uplink frame and decodes them on the receiving side.
package telemetry

import (
	"encoding/binary"
	"fmt"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/vitals"
)

// Frame layout, all multi-byte fields big-endian.
const (
	PacketLen   = 14
	StartMarker = 0xAA
	EndMarker   = 0x55
)

// Flag bits in the packet flags byte.
const (
	FlagNoMovement = 1 << 0
	FlagFall       = 1 << 1
)

var (
	ErrBadLength = fmt.Errorf("telemetry: packet is not %d bytes", PacketLen)
	ErrBadMarker = fmt.Errorf("telemetry: bad start or end marker")
)

// Encode packs a snapshot and its health status into the wire frame.
// Temperature is carried as °C × 100 in a uint16; the byte at offset 12
// is reserved and always zero.
func Encode(s vitals.Snapshot, status vitals.Status) [PacketLen]byte {
	var p [PacketLen]byte

	p[0] = StartMarker
	p[1] = byte(status)
	p[2] = s.SpO2
	binary.BigEndian.PutUint16(p[3:5], s.HeartRate)
	binary.BigEndian.PutUint16(p[5:7], s.Systolic)
	binary.BigEndian.PutUint16(p[7:9], s.Diastolic)
	binary.BigEndian.PutUint16(p[9:11], uint16(s.Temperature*100))

	if s.NoMovement {
		p[11] |= FlagNoMovement
	}
	if s.FallDetected {
		p[11] |= FlagFall
	}

	p[13] = EndMarker
	return p
}

// Report is a decoded telemetry frame.
type Report struct {
	Status       vitals.Status
	SpO2         uint8
	HeartRate    uint16
	Systolic     uint16
	Diastolic    uint16
	Temperature  float64 // °C
	FallDetected bool
	NoMovement   bool
}

// Decode unpacks a wire frame. The frame must be exactly PacketLen
// bytes with both markers in place.
func Decode(data []byte) (Report, error) {
	if len(data) != PacketLen {
		return Report{}, ErrBadLength
	}
	if data[0] != StartMarker || data[13] != EndMarker {
		return Report{}, ErrBadMarker
	}

	return Report{
		Status:       vitals.Status(data[1]),
		SpO2:         data[2],
		HeartRate:    binary.BigEndian.Uint16(data[3:5]),
		Systolic:     binary.BigEndian.Uint16(data[5:7]),
		Diastolic:    binary.BigEndian.Uint16(data[7:9]),
		Temperature:  float64(binary.BigEndian.Uint16(data[9:11])) / 100,
		FallDetected: data[11]&FlagFall != 0,
		NoMovement:   data[11]&FlagNoMovement != 0,
	}, nil
}
