package bus

import (
	"fmt"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"
)

// Txer is the write-then-read primitive an I2C adapter is built on.
// i2c.Dev satisfies it; simulated buses provide their own implementation.
type Txer interface {
	Tx(w, r []byte) error
}

// I2C adapts an addressed two-wire connection to the Bus contract. Reads
// use a write-then-read sequence: the register pointer is sent first, then
// the payload is clocked in.
type I2C struct {
	device string
	dev    Txer
	bus    i2c.BusCloser
}

var _ Bus = (*I2C)(nil)

// OpenI2C opens a named I2C bus ("/dev/i2c-1", "I2C1", "1", or "" for the
// first available) and addresses a device on it.
func OpenI2C(busName, device string, addr uint16) (*I2C, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("bus: could not initialize host: %w", err)
	}

	b, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("bus: could not open I2C bus %s: %w", busName, err)
	}

	return &I2C{
		device: device,
		dev:    &i2c.Dev{Addr: addr, Bus: b},
		bus:    b,
	}, nil
}

// NewI2C wraps an existing device connection. Used by the simulator and
// tests.
func NewI2C(device string, dev Txer) *I2C {
	return &I2C{device: device, dev: dev}
}

// WriteReg writes data to a register in a single transaction.
func (d *I2C) WriteReg(reg byte, data ...byte) error {
	w := make([]byte, 0, 1+len(data))
	w = append(w, reg)
	w = append(w, data...)

	if err := d.dev.Tx(w, nil); err != nil {
		return &Error{Op: fmt.Sprintf("write reg %#02x", reg), Device: d.device, Err: err}
	}
	return nil
}

// ReadReg sends the register pointer and reads n bytes back.
func (d *I2C) ReadReg(reg byte, n int) ([]byte, error) {
	r := make([]byte, n)
	if err := d.dev.Tx([]byte{reg}, r); err != nil {
		return nil, &Error{Op: fmt.Sprintf("read reg %#02x", reg), Device: d.device, Err: err}
	}
	return r, nil
}

// Close closes the underlying bus, if the adapter owns one.
func (d *I2C) Close() error {
	if d.bus == nil {
		return nil
	}
	return d.bus.Close()
}
