// Package tmp117 drives the TMP117 high-accuracy digital temperature
// sensor over I2C.
package tmp117

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/bus"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/decode"
)

// Register addresses.
const (
	RegTemp       = 0x00
	RegConfig     = 0x01
	RegHighLimit  = 0x02
	RegLowLimit   = 0x03
	RegTempOffset = 0x07
	RegDeviceID   = 0x0F
)

// Configuration register bits.
const (
	cfgDataReady    = 1 << 13
	cfgModeContinue = 0 << 10
	cfgModeShutdown = 1 << 10
)

// DeviceID is the identity of the TMP117 in the low 12 bits of the
// device-ID register.
const DeviceID = 0x0117

// DefaultAddr is the factory I2C address.
const DefaultAddr = 0x48

// ErrNotInitialized is returned by reads before a successful Init.
var ErrNotInitialized = errors.New("tmp117: device not initialized")

// Config carries the startup parameters.
type Config struct {
	Addr              uint16 `yaml:"addr"`
	ExpectedID        uint16 `yaml:"expected_id"`
	DataReadyAttempts int    `yaml:"data_ready_attempts"` // 1 ms apart
}

// DefaultConfig returns the factory address and a 100 ms data-ready
// budget.
func DefaultConfig() Config {
	return Config{
		Addr:              DefaultAddr,
		ExpectedID:        DeviceID,
		DataReadyAttempts: 100,
	}
}

// Validate rejects unusable parameters.
func (c Config) Validate() error {
	if c.Addr == 0 {
		return errors.New("tmp117: device address must be set")
	}
	if c.DataReadyAttempts <= 0 {
		return fmt.Errorf("tmp117: data-ready attempts must be positive, got %d", c.DataReadyAttempts)
	}
	return nil
}

// Device is a TMP117 on a two-wire bus.
type Device struct {
	bus   bus.Bus
	cfg   Config
	log   *zap.Logger
	sleep func(time.Duration)

	initialized bool
}

// Option configures a Device.
type Option func(*Device)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(d *Device) { d.log = log }
}

// WithSleep replaces the delay function.
func WithSleep(sleep func(time.Duration)) Option {
	return func(d *Device) { d.sleep = sleep }
}

// New creates a driver over the given bus.
func New(b bus.Bus, cfg Config, opts ...Option) *Device {
	d := &Device{
		bus:   b,
		cfg:   cfg,
		log:   zap.NewNop(),
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init verifies the device identity and configures continuous conversion.
// An unexpected ID is logged as a warning only; a bus failure leaves the
// device uninitialized, and every later read reports ErrNotInitialized so
// the aggregator can substitute the safe default temperature.
func (d *Device) Init() error {
	if err := d.cfg.Validate(); err != nil {
		return err
	}

	id, err := d.readReg16(RegDeviceID)
	if err != nil {
		return fmt.Errorf("tmp117: could not read device ID: %w", err)
	}
	if id&0x0FFF != d.cfg.ExpectedID {
		d.log.Warn("tmp117 device ID mismatch",
			zap.Uint16("got", id),
			zap.Uint16("want", d.cfg.ExpectedID))
	}

	if err := d.writeReg16(RegConfig, cfgModeContinue); err != nil {
		return fmt.Errorf("tmp117: could not configure conversion mode: %w", err)
	}
	d.sleep(50 * time.Millisecond) // first conversion

	d.initialized = true
	d.log.Info("tmp117 initialized", zap.Uint16("device_id", id))
	return nil
}

// Wakeup restores continuous conversion after shutdown.
func (d *Device) Wakeup() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if err := d.writeReg16(RegConfig, cfgModeContinue); err != nil {
		return err
	}
	d.sleep(20 * time.Millisecond)
	return nil
}

// Sleep puts the device into shutdown mode.
func (d *Device) Sleep() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	return d.writeReg16(RegConfig, cfgModeShutdown)
}

// ReadTemperature returns the temperature in °C after a bounded wait for
// the data-ready flag. A timeout is tolerated: the conversion result
// register always holds the most recent completed conversion.
func (d *Device) ReadTemperature() (float64, error) {
	if !d.initialized {
		return 0, ErrNotInitialized
	}

	err := bus.Poll(func() (bool, error) {
		cfg, err := d.readReg16(RegConfig)
		if err != nil {
			return false, err
		}
		return cfg&cfgDataReady != 0, nil
	}, d.cfg.DataReadyAttempts, func() { d.sleep(time.Millisecond) })
	if err != nil && !errors.Is(err, bus.ErrWaitTimeout) {
		return 0, err
	}
	if errors.Is(err, bus.ErrWaitTimeout) {
		d.log.Warn("tmp117 data-ready timeout, reading stale conversion")
	}

	raw, err := d.readReg16(RegTemp)
	if err != nil {
		return 0, err
	}
	return decode.Temperature(raw), nil
}

// SetAlertLimits programs the high/low temperature alert thresholds.
func (d *Device) SetAlertLimits(high, low float64) error {
	if !d.initialized {
		return ErrNotInitialized
	}

	highRaw := int16(high / decode.TempResolution)
	lowRaw := int16(low / decode.TempResolution)

	if err := d.writeReg16(RegHighLimit, uint16(highRaw)); err != nil {
		return err
	}
	if err := d.writeReg16(RegLowLimit, uint16(lowRaw)); err != nil {
		return err
	}

	d.log.Info("tmp117 alert limits set",
		zap.Float64("low_c", low),
		zap.Float64("high_c", high))
	return nil
}

func (d *Device) readReg16(reg byte) (uint16, error) {
	b, err := d.bus.ReadReg(reg, 2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func (d *Device) writeReg16(reg byte, value uint16) error {
	return d.bus.WriteReg(reg, byte(value>>8), byte(value))
}
