// Package ads1292r drives the ADS1292R dual-channel 24-bit biopotential
// front end over SPI. It owns the ECG acquisition window, the R-peak
// heart-rate extractor, and the heart-rate-based blood-pressure estimate.
package ads1292r

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/bus"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/decode"
)

// ErrNotInitialized is returned by reads before a successful Init. The
// caller substitutes safe defaults and keeps monitoring.
var ErrNotInitialized = errors.New("ads1292r: device not initialized")

// Transport is the SPI access the driver needs: framed register access
// plus raw command exchanges for RDATA frames.
type Transport interface {
	bus.Bus
	Exchange(w []byte, n int) ([]byte, error)
}

// Framing returns the SPI register framing of the ADS1292R: RREG/WREG
// command opcodes followed by a register-count byte.
func Framing() bus.Framing {
	return bus.Framing{ReadFlag: CmdRReg, WriteFlag: CmdWReg, LengthByte: true}
}

// Device is an ADS1292R attached to a chip-select SPI bus.
type Device struct {
	bus       Transport
	cfg       Config
	log       *zap.Logger
	sleep     func(time.Duration)
	dataReady func() (bool, error)

	detector    PeakDetector
	window      []int32
	initialized bool
}

// Option configures a Device.
type Option func(*Device)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(d *Device) { d.log = log }
}

// WithSleep replaces the delay function, letting tests run without real
// warm-up waits.
func WithSleep(sleep func(time.Duration)) Option {
	return func(d *Device) { d.sleep = sleep }
}

// WithDataReady installs the DRDY readiness probe (a GPIO line on real
// hardware). Without one, every sample is assumed ready.
func WithDataReady(ready func() (bool, error)) Option {
	return func(d *Device) { d.dataReady = ready }
}

// New creates a driver over the given transport. Init must be called
// before the device produces data.
func New(t Transport, cfg Config, opts ...Option) *Device {
	d := &Device{
		bus:   t,
		cfg:   cfg,
		log:   zap.NewNop(),
		sleep: time.Sleep,
		detector: PeakDetector{
			SamplingRate: cfg.SamplingRate,
			Threshold:    cfg.PeakThreshold,
			Refractory:   cfg.RefractorySamples,
			DefaultRate:  uint16(cfg.DefaultHeartRate),
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init resets the device, verifies its ID and writes the configuration
// registers. An ID mismatch is logged but not fatal: the wearable keeps
// monitoring on whatever is wired to the bus.
func (d *Device) Init() error {
	if err := d.cfg.Validate(); err != nil {
		return err
	}

	if err := d.command(CmdReset); err != nil {
		return fmt.Errorf("ads1292r: could not reset device: %w", err)
	}
	d.sleep(100 * time.Millisecond)

	if err := d.command(CmdSDataC); err != nil {
		return fmt.Errorf("ads1292r: could not stop continuous mode: %w", err)
	}
	d.sleep(10 * time.Millisecond)

	id, err := d.bus.ReadReg(RegID, 1)
	if err != nil {
		return fmt.Errorf("ads1292r: could not read device ID: %w", err)
	}
	if id[0] != d.cfg.ExpectedID {
		d.log.Warn("ads1292r device ID mismatch",
			zap.Uint8("got", id[0]),
			zap.Uint8("want", d.cfg.ExpectedID))
	}

	regs := []struct {
		reg   byte
		value byte
	}{
		{RegConfig1, d.cfg.Config1},
		{RegConfig2, d.cfg.Config2},
		{RegCh1Set, d.cfg.Ch1Set},
		{RegCh2Set, d.cfg.Ch2Set},
		{RegRLDSens, d.cfg.RLDSens},
	}
	for _, r := range regs {
		if err := d.bus.WriteReg(r.reg, r.value); err != nil {
			return fmt.Errorf("ads1292r: could not write reg %#02x: %w", r.reg, err)
		}
	}

	if err := d.command(CmdStart); err != nil {
		return fmt.Errorf("ads1292r: could not start conversion: %w", err)
	}

	d.initialized = true
	d.log.Info("ads1292r initialized", zap.Uint8("id", id[0]))
	return nil
}

// PowerOn wakes the device from standby and restarts conversion.
func (d *Device) PowerOn() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if err := d.command(CmdWakeup); err != nil {
		return err
	}
	if err := d.command(CmdStart); err != nil {
		return err
	}
	d.sleep(10 * time.Millisecond)
	return nil
}

// PowerOff stops conversion and puts the device into standby.
func (d *Device) PowerOff() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if err := d.command(CmdStop); err != nil {
		return err
	}
	if err := d.command(CmdStandby); err != nil {
		return err
	}
	d.sleep(10 * time.Millisecond)
	return nil
}

// ReadECGAndBP acquires one ECG window, extracts the heart rate from the
// R-peaks and derives the blood-pressure estimate from it. The ECG-derived
// heart rate is returned for logging; the snapshot heart rate comes from
// the pulse oximeter.
func (d *Device) ReadECGAndBP() (systolic, diastolic, ecgRate uint16, err error) {
	if !d.initialized {
		return 0, 0, 0, ErrNotInitialized
	}

	window, err := d.readWindow()
	if err != nil {
		return 0, 0, 0, err
	}

	ecgRate = d.detector.HeartRate(window)
	systolic, diastolic = EstimateBloodPressure(ecgRate)

	d.log.Debug("ecg window processed",
		zap.Int("samples", len(window)),
		zap.Uint16("ecg_heart_rate", ecgRate),
		zap.Uint16("systolic", systolic),
		zap.Uint16("diastolic", diastolic))
	return systolic, diastolic, ecgRate, nil
}

// RawECG returns the channel-1 samples of the most recent window.
func (d *Device) RawECG() []int32 {
	out := make([]int32, len(d.window))
	copy(out, d.window)
	return out
}

// readWindow collects WindowSize samples in continuous-conversion mode.
// A sample whose data-ready line never asserts within the bounded poll is
// recorded as zero; the count of such degraded samples is logged because a
// zero is indistinguishable from a flatline downstream.
func (d *Device) readWindow() ([]int32, error) {
	if err := d.command(CmdRDataC); err != nil {
		return nil, fmt.Errorf("ads1292r: could not enter continuous mode: %w", err)
	}
	d.sleep(10 * time.Millisecond)

	window := make([]int32, 0, d.cfg.WindowSize)
	timeouts := 0
	for i := 0; i < d.cfg.WindowSize; i++ {
		ch1, _, err := d.readSample()
		if errors.Is(err, bus.ErrWaitTimeout) {
			ch1 = 0
			timeouts++
		} else if err != nil {
			return nil, err
		}
		window = append(window, ch1)
	}

	if err := d.command(CmdSDataC); err != nil {
		return nil, fmt.Errorf("ads1292r: could not leave continuous mode: %w", err)
	}

	if timeouts > 0 {
		d.log.Warn("ecg samples degraded to zero on data-ready timeout",
			zap.Int("count", timeouts),
			zap.Int("window", d.cfg.WindowSize))
	}

	d.window = window
	return window, nil
}

// readSample reads one RDATA frame and decodes both channels.
func (d *Device) readSample() (ch1, ch2 int32, err error) {
	if d.dataReady != nil {
		err := bus.Poll(d.dataReady, d.cfg.DataReadyAttempts, func() {
			d.sleep(10 * time.Microsecond)
		})
		if err != nil {
			return 0, 0, err
		}
	}

	frame, err := d.bus.Exchange([]byte{CmdRData}, frameLen)
	if err != nil {
		return 0, 0, err
	}

	ch1 = decode.Int24(frame[3], frame[4], frame[5])
	ch2 = decode.Int24(frame[6], frame[7], frame[8])
	return ch1, ch2, nil
}

func (d *Device) command(cmd byte) error {
	_, err := d.bus.Exchange([]byte{cmd}, 0)
	if err == nil {
		d.sleep(10 * time.Microsecond)
	}
	return err
}
