package bus

import (
	"fmt"
	"sync"
)

// RegWrite records one register write seen by a Mem bus.
type RegWrite struct {
	Reg  byte
	Data []byte
}

// Mem is an in-memory register-map bus used by the simulator and by
// driver tests. Reads are served from the register map unless an OnRead
// hook overrides them; writes update the map and are recorded for
// assertions. Setting Fail makes every transfer return that error, which
// models a dead bus.
type Mem struct {
	mu sync.Mutex

	Device string
	Regs   map[byte][]byte
	Writes []RegWrite
	Fail   error

	// Hooks let a simulated device synthesize dynamic register contents.
	// Returning false falls through to the default behavior.
	OnRead     func(reg byte, n int) ([]byte, bool)
	OnWrite    func(reg byte, data []byte) bool
	OnExchange func(w []byte, n int) ([]byte, bool)
}

var _ Bus = (*Mem)(nil)

// NewMem creates an empty in-memory bus for the named device.
func NewMem(device string) *Mem {
	return &Mem{Device: device, Regs: make(map[byte][]byte)}
}

func (m *Mem) WriteReg(reg byte, data ...byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Fail != nil {
		return &Error{Op: fmt.Sprintf("write reg %#02x", reg), Device: m.Device, Err: m.Fail}
	}

	cp := append([]byte(nil), data...)
	m.Writes = append(m.Writes, RegWrite{Reg: reg, Data: cp})

	if m.OnWrite != nil && m.OnWrite(reg, cp) {
		return nil
	}
	m.Regs[reg] = cp
	return nil
}

func (m *Mem) ReadReg(reg byte, n int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Fail != nil {
		return nil, &Error{Op: fmt.Sprintf("read reg %#02x", reg), Device: m.Device, Err: m.Fail}
	}

	if m.OnRead != nil {
		if b, ok := m.OnRead(reg, n); ok {
			return pad(b, n), nil
		}
	}
	return pad(m.Regs[reg], n), nil
}

// Exchange mirrors the raw SPI transfer used for command-initiated reads.
func (m *Mem) Exchange(w []byte, n int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Fail != nil {
		return nil, &Error{Op: fmt.Sprintf("exchange %#02x", w[0]), Device: m.Device, Err: m.Fail}
	}

	if m.OnExchange != nil {
		if b, ok := m.OnExchange(w, n); ok {
			return pad(b, n), nil
		}
	}
	return make([]byte, n), nil
}

func (m *Mem) Close() error { return nil }

// LastWrite returns the most recent value written to a register and
// whether the register was ever written.
func (m *Mem) LastWrite(reg byte) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.Writes) - 1; i >= 0; i-- {
		if m.Writes[i].Reg == reg {
			return m.Writes[i].Data, true
		}
	}
	return nil, false
}

func pad(b []byte, n int) []byte {
	out := make([]byte, n)
	copy(out, b)
	return out
}
