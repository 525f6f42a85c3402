package tmp117

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/bus"
)

func tempMem(raw uint16) *bus.Mem {
	m := bus.NewMem("tmp117")
	m.Regs[RegDeviceID] = []byte{0x01, 0x17}
	m.Regs[RegConfig] = []byte{byte(cfgDataReady >> 8), 0x00}
	m.Regs[RegTemp] = []byte{byte(raw >> 8), byte(raw)}
	return m
}

func newTestDevice(t *testing.T, m *bus.Mem) *Device {
	t.Helper()
	d := New(m, DefaultConfig(), WithSleep(func(_ time.Duration) {}))
	require.NoError(t, d.Init())
	return d
}

func TestReadTemperature(t *testing.T) {
	tests := []struct {
		name string
		raw  uint16
		want float64
	}{
		{name: "body temperature", raw: 0x1240, want: 36.5},
		{name: "zero", raw: 0x0000, want: 0.0},
		{name: "negative", raw: 0xFF80, want: -1.0},
		{name: "fever", raw: 0x1380, want: 39.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDevice(t, tempMem(tt.raw))

			got, err := d.ReadTemperature()
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestReadTemperatureBeforeInit(t *testing.T) {
	d := New(tempMem(0x1240), DefaultConfig())

	_, err := d.ReadTemperature()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestInitFailsOnDeadBus(t *testing.T) {
	m := tempMem(0x1240)
	m.Fail = errors.New("nack")

	d := New(m, DefaultConfig(), WithSleep(func(_ time.Duration) {}))
	err := d.Init()
	require.Error(t, err)

	var busErr *bus.Error
	assert.ErrorAs(t, err, &busErr)
}

func TestDataReadyTimeoutStillReads(t *testing.T) {
	m := tempMem(0x1240)
	m.Regs[RegConfig] = []byte{0x00, 0x00} // data-ready never asserts

	d := newTestDevice(t, m)
	got, err := d.ReadTemperature()
	require.NoError(t, err)
	assert.InDelta(t, 36.5, got, 1e-9)
}

func TestSleepAndWakeup(t *testing.T) {
	m := tempMem(0x1240)
	d := newTestDevice(t, m)

	require.NoError(t, d.Sleep())
	cfg, _ := m.LastWrite(RegConfig)
	assert.Equal(t, []byte{byte(cfgModeShutdown >> 8), 0x00}, cfg)

	require.NoError(t, d.Wakeup())
	cfg, _ = m.LastWrite(RegConfig)
	assert.Equal(t, []byte{0x00, 0x00}, cfg)
}

func TestSetAlertLimits(t *testing.T) {
	m := tempMem(0x1240)
	d := newTestDevice(t, m)

	require.NoError(t, d.SetAlertLimits(40.0, 35.0))

	high, ok := m.LastWrite(RegHighLimit)
	require.True(t, ok)
	assert.Equal(t, []byte{0x14, 0x00}, high) // 40 / 0.0078125 = 5120

	low, ok := m.LastWrite(RegLowLimit)
	require.True(t, ok)
	assert.Equal(t, []byte{0x11, 0x80}, low) // 35 / 0.0078125 = 4480
}
