package telemetry

import (
	"fmt"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// Sender delivers an encoded packet to the outside world. The priority
// flag is true for emergency frames; transports that support message
// priority may honor it, others ignore it.
type Sender interface {
	Send(payload []byte, priority bool) error
	Close() error
}

// SerialSender writes packets to a serial uplink.
type SerialSender struct {
	port serial.Port
	log  *zap.Logger
}

var _ Sender = (*SerialSender)(nil)

// OpenSerial opens the named serial port at the given baud rate.
func OpenSerial(name string, baud int, log *zap.Logger) (*SerialSender, error) {
	if log == nil {
		log = zap.NewNop()
	}
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("telemetry: could not open serial port %s: %w", name, err)
	}
	return &SerialSender{port: port, log: log}, nil
}

func (s *SerialSender) Send(payload []byte, priority bool) error {
	n, err := s.port.Write(payload)
	if err != nil {
		return fmt.Errorf("telemetry: could not write packet: %w", err)
	}
	if n != len(payload) {
		return fmt.Errorf("telemetry: short write: %d of %d bytes", n, len(payload))
	}
	s.log.Debug("packet sent", zap.Int("bytes", n), zap.Bool("priority", priority))
	return nil
}

func (s *SerialSender) Close() error {
	return s.port.Close()
}

// ChanSender hands packets to an in-process channel, used to wire the
// device loop to a gateway running in the same binary.
type ChanSender struct {
	ch chan []byte
}

var _ Sender = (*ChanSender)(nil)

// NewChanSender creates an in-process sender with the given buffer
// depth.
func NewChanSender(depth int) *ChanSender {
	return &ChanSender{ch: make(chan []byte, depth)}
}

// Packets is the receive side of the sender.
func (s *ChanSender) Packets() <-chan []byte { return s.ch }

// Send delivers a copy of the payload. A full buffer drops the frame
// rather than blocking the acquisition loop.
func (s *ChanSender) Send(payload []byte, priority bool) error {
	frame := make([]byte, len(payload))
	copy(frame, payload)
	select {
	case s.ch <- frame:
		return nil
	default:
		return fmt.Errorf("telemetry: channel full, packet dropped")
	}
}

func (s *ChanSender) Close() error {
	close(s.ch)
	return nil
}
