// Package bus provides the addressed byte-level transport shared by all
// sensor drivers. One adapter exists per physical bus: SPI for the
// chip-select devices (ADS1292R, ICM-42688) and I2C for the two-wire
// devices (MAX30102, TMP117). Framing differs per bus class but is opaque
// to the drivers above it.
package bus

import "fmt"

// Bus is the register-level transport contract consumed by sensor drivers.
// A failed transfer is reported immediately; adapters never retry.
type Bus interface {
	// WriteReg writes data to a device register.
	WriteReg(reg byte, data ...byte) error
	// ReadReg reads n bytes starting at a device register.
	ReadReg(reg byte, n int) ([]byte, error)
	// Close releases the underlying bus handle.
	Close() error
}

// Error reports a transport-level failure: the operation, the device the
// adapter serves, and the underlying cause.
type Error struct {
	Op     string
	Device string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("bus: %s: %s failed", e.Device, e.Op)
	}
	return fmt.Sprintf("bus: %s: %s failed: %v", e.Device, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
