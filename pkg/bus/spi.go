package bus

import (
	"fmt"
	"io"

	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

// Conn is the full-duplex transfer primitive an SPI adapter is built on.
// periph.io connections satisfy it directly; simulated buses provide their
// own implementation.
type Conn interface {
	Tx(w, r []byte) error
}

// Framing describes how a register access is put on the wire for one SPI
// device family. The ADS1292R frames register access as a command byte
// plus a count byte; the ICM-42688 sets a read bit in the address itself.
type Framing struct {
	ReadFlag   byte `yaml:"read_flag"`   // OR'd into the register address on reads
	WriteFlag  byte `yaml:"write_flag"`  // OR'd into the register address on writes
	LengthByte bool `yaml:"length_byte"` // insert a "count minus one" byte after the address
}

// SPI adapts a chip-select SPI connection to the Bus contract. Chip-select
// assert/deassert around each transfer is handled by the underlying port.
type SPI struct {
	device string
	conn   Conn
	closer io.Closer
	frame  Framing
}

var _ Bus = (*SPI)(nil)

// OpenSPI opens a named SPI port (for example "SPI1.0") and connects at
// the given frequency and mode.
func OpenSPI(name, device string, freq physic.Frequency, mode spi.Mode, frame Framing) (*SPI, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("bus: could not initialize host: %w", err)
	}

	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("bus: could not open SPI port %s: %w", name, err)
	}

	conn, err := port.Connect(freq, mode, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("bus: could not connect SPI port %s: %w", name, err)
	}

	return &SPI{device: device, conn: conn, closer: port, frame: frame}, nil
}

// NewSPI wraps an existing connection. Used by the simulator and tests.
func NewSPI(device string, conn Conn, frame Framing) *SPI {
	return &SPI{device: device, conn: conn, frame: frame}
}

// WriteReg frames a register write and performs a single transfer.
func (s *SPI) WriteReg(reg byte, data ...byte) error {
	w := make([]byte, 0, 2+len(data))
	w = append(w, s.frame.WriteFlag|reg)
	if s.frame.LengthByte {
		w = append(w, byte(len(data)-1))
	}
	w = append(w, data...)

	if err := s.conn.Tx(w, make([]byte, len(w))); err != nil {
		return &Error{Op: fmt.Sprintf("write reg %#02x", reg), Device: s.device, Err: err}
	}
	return nil
}

// ReadReg frames a register read and returns the n payload bytes that
// follow the header on the wire.
func (s *SPI) ReadReg(reg byte, n int) ([]byte, error) {
	hdr := 1
	w := make([]byte, 0, 2+n)
	w = append(w, s.frame.ReadFlag|reg)
	if s.frame.LengthByte {
		w = append(w, byte(n-1))
		hdr = 2
	}
	w = append(w, make([]byte, n)...)

	r := make([]byte, len(w))
	if err := s.conn.Tx(w, r); err != nil {
		return nil, &Error{Op: fmt.Sprintf("read reg %#02x", reg), Device: s.device, Err: err}
	}
	return r[hdr:], nil
}

// Exchange performs a raw framed transfer: the command bytes in w are
// clocked out, then n further bytes are clocked in. Drivers use it for
// single-byte commands (n = 0) and command-initiated data reads.
func (s *SPI) Exchange(w []byte, n int) ([]byte, error) {
	tx := make([]byte, len(w)+n)
	copy(tx, w)

	r := make([]byte, len(tx))
	if err := s.conn.Tx(tx, r); err != nil {
		return nil, &Error{Op: fmt.Sprintf("exchange %#02x", w[0]), Device: s.device, Err: err}
	}
	return r[len(w):], nil
}

// Close closes the underlying port, if the adapter owns one.
func (s *SPI) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
