// Package max30102 drives the MAX30102 pulse oximeter over I2C.
//
// The photoplethysmography pipeline is a development stub: ReadVitals
// returns counter-derived synthetic values behind the production read
// contract. A real implementation would drain the FIFO and run
// ratio-of-ratios SpO2 estimation on the red/IR channels.
package max30102

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/bus"
)

// Register addresses.
const (
	RegIntStatus = 0x00
	RegIntEnable = 0x02
	RegFIFOWr    = 0x04
	RegFIFORd    = 0x06
	RegFIFOData  = 0x07
	RegModeCfg   = 0x09
	RegSpO2Cfg   = 0x0A
	RegLED1PA    = 0x0C
	RegLED2PA    = 0x0D
	RegPartID    = 0xFF
)

// PartID is the part identity byte of the MAX30102.
const PartID = 0x15

// Mode configuration values.
const (
	modeReset    = 0x40
	modeSpO2     = 0x03
	modeShutdown = 0x80
)

// DefaultAddr is the factory I2C address.
const DefaultAddr = 0x57

// ErrNotInitialized is returned by power control before a successful Init.
var ErrNotInitialized = errors.New("max30102: device not initialized")

// Config carries the startup register values.
type Config struct {
	Addr       uint16 `yaml:"addr"`
	ExpectedID byte   `yaml:"expected_id"`
	SpO2Cfg    byte   `yaml:"spo2_cfg"` // ADC range, sample rate, pulse width
	RedLEDAmp  byte   `yaml:"red_led_amp"`
	IRLEDAmp   byte   `yaml:"ir_led_amp"`
}

// DefaultConfig returns the stock configuration: 4096 nA ADC range,
// 100 samples/s, 411 µs pulse width, both LEDs at 7.2 mA.
func DefaultConfig() Config {
	return Config{
		Addr:       DefaultAddr,
		ExpectedID: PartID,
		SpO2Cfg:    0x27,
		RedLEDAmp:  0x24,
		IRLEDAmp:   0x24,
	}
}

// Validate checks that the register table is usable.
func (c Config) Validate() error {
	if c.Addr == 0 {
		return errors.New("max30102: device address must be set")
	}
	return nil
}

// Device is a MAX30102 on a two-wire bus.
type Device struct {
	bus   bus.Bus
	cfg   Config
	log   *zap.Logger
	sleep func(time.Duration)

	counter     uint8
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

// Init resets the sensor and configures SpO2 mode. A part-ID mismatch is
// logged but not fatal.
func (d *Device) Init() error {
	part, err := d.bus.ReadReg(RegPartID, 1)
	if err != nil {
		return fmt.Errorf("max30102: could not read part ID: %w", err)
	}
	if part[0] != d.cfg.ExpectedID {
		d.log.Warn("max30102 part ID mismatch",
			zap.Uint8("got", part[0]),
			zap.Uint8("want", d.cfg.ExpectedID))
	}

	if err := d.bus.WriteReg(RegModeCfg, modeReset); err != nil {
		return fmt.Errorf("max30102: could not reset device: %w", err)
	}
	d.sleep(100 * time.Millisecond)

	writes := []struct {
		reg   byte
		value byte
	}{
		{RegModeCfg, modeSpO2},
		{RegSpO2Cfg, d.cfg.SpO2Cfg},
		{RegLED1PA, d.cfg.RedLEDAmp},
		{RegLED2PA, d.cfg.IRLEDAmp},
	}
	for _, w := range writes {
		if err := d.bus.WriteReg(w.reg, w.value); err != nil {
			return fmt.Errorf("max30102: could not write reg %#02x: %w", w.reg, err)
		}
	}

	d.initialized = true
	d.log.Info("max30102 initialized", zap.Uint8("part_id", part[0]))
	return nil
}

// PowerOn restores SpO2 mode after shutdown.
func (d *Device) PowerOn() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	return d.bus.WriteReg(RegModeCfg, modeSpO2)
}

// PowerOff puts the sensor into shutdown mode.
func (d *Device) PowerOff() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	return d.bus.WriteReg(RegModeCfg, modeShutdown)
}

// ReadVitals returns the SpO2 percentage and heart rate.
//
// Development stub: values are derived from an internal counter in the
// 95–99 % / 70–89 bpm bands, with a low-SpO2 excursion every 50th call
// and a tachycardia excursion every 73rd so the downstream escalation
// logic gets exercised. The stub never fails; the aggregator depends on
// that.
func (d *Device) ReadVitals() (spo2 uint8, heartRate uint16) {
	d.counter++

	spo2 = 95 + d.counter%5
	heartRate = 70 + uint16(d.counter%20)

	if d.counter%50 == 0 {
		spo2 = 88
		d.log.Warn("simulating low SpO2 condition", zap.Uint8("spo2", spo2))
	}
	if d.counter%73 == 0 {
		heartRate = 125
		d.log.Warn("simulating high heart rate", zap.Uint16("heart_rate", heartRate))
	}

	return spo2, heartRate
}
