package gateway

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"go.bug.st/serial"
)

// OpenSerial opens the receiver side of the telemetry link.
func OpenSerial(name string, baud int) (io.ReadCloser, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("gateway: open serial port %s: %w", name, err)
	}
	return port, nil
}

// Receive extracts telemetry frames from the byte stream and delivers
// them on out until the stream ends or the context is cancelled. The
// channel is closed on return.
func Receive(ctx context.Context, r io.Reader, out chan<- []byte) error {
	defer close(out)

	scanner := bufio.NewScanner(r)
	scanner.Split(ScanPackets)

	for scanner.Scan() {
		frame := make([]byte, len(scanner.Bytes()))
		copy(frame, scanner.Bytes())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- frame:
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("gateway: read telemetry stream: %w", err)
	}
	return nil
}
