// Package sim models a wearer without hardware: it implements the
// sensor interfaces the vitals aggregator consumes, synthesizing
// realistic readings with periodic anomalies, and provides
// register-level simulated buses for running the real drivers.
package sim

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/icm42688"
)

// Anomaly schedule: every Nth measurement injects an abnormal reading.
const (
	lowSpO2Every   = 8
	highHeartEvery = 12
	fallEvery      = 15
)

// Wearer synthesizes one miner's vital signs. It satisfies the
// aggregator's four sensor interfaces and the controller's power
// contract, so the whole pipeline runs unchanged against it.
type Wearer struct {
	rng     *rand.Rand
	log     *zap.Logger
	battery *Battery
	fall    *icm42688.FallDetector

	// Cycle state, fixed when the oximeter is read and reused by the
	// other sensors of the same cycle.
	count   int
	fallNow bool
}

// WearerOption customizes a Wearer.
type WearerOption func(*Wearer)

// WithWearerLogger sets the logger.
func WithWearerLogger(log *zap.Logger) WearerOption {
	return func(w *Wearer) { w.log = log }
}

// WithBattery attaches a battery model drained by wake/sleep cycles.
func WithBattery(b *Battery) WearerOption {
	return func(w *Wearer) { w.battery = b }
}

// NewWearer creates a deterministic wearer model for the given seed.
func NewWearer(seed int64, opts ...WearerOption) *Wearer {
	cfg := icm42688.DefaultConfig()
	w := &Wearer{
		rng: rand.New(rand.NewSource(seed)),
		log: zap.NewNop(),
		fall: &icm42688.FallDetector{
			FreeFallThreshold: cfg.FreeFallThreshold,
			ImpactThreshold:   cfg.ImpactThreshold,
			FreeFallSamples:   cfg.FreeFallSamples,
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ReadVitals starts a new measurement cycle and returns SpO2 and heart
// rate. The aggregator reads the oximeter first, so the anomaly
// schedule advances here.
func (w *Wearer) ReadVitals() (uint8, uint16) {
	w.count++
	w.fallNow = w.count%fallEvery == 0

	spo2 := uint8(95 + w.rng.Intn(5))
	if w.count%lowSpO2Every == 0 {
		spo2 = uint8(87 + w.rng.Intn(5))
		w.log.Info("simulating low SpO2", zap.Uint8("spo2", spo2))
	}

	hr := uint16(70 + w.rng.Intn(21))
	if w.count%highHeartEvery == 0 {
		hr = uint16(122 + w.rng.Intn(14))
		w.log.Info("simulating elevated heart rate", zap.Uint16("heart_rate", hr))
	}

	return spo2, hr
}

// ReadECGAndBP returns a blood pressure in the normal band.
func (w *Wearer) ReadECGAndBP() (uint16, uint16, uint16, error) {
	sys := uint16(110 + w.rng.Intn(21))
	dia := uint16(70 + w.rng.Intn(16))
	rate := uint16(65 + w.rng.Intn(21))
	return sys, dia, rate, nil
}

// ReadTemperature returns a body temperature around 36.2 to 37.2 °C.
func (w *Wearer) ReadTemperature() (float64, error) {
	return 36.2 + w.rng.Float64(), nil
}

// ReadAccel returns a gravity vector with small jitter, or an impact
// sample when the schedule calls for a fall.
func (w *Wearer) ReadAccel() (float32, float32, float32, error) {
	if w.fallNow {
		w.log.Warn("simulating fall event", zap.Int("measurement", w.count))
		x := float32(w.rng.Float64()*6 - 3)
		y := float32(w.rng.Float64()*6 - 3)
		z := float32(3.5 + w.rng.Float64())
		return x, y, z, nil
	}
	x := float32(w.rng.Float64()*0.4 - 0.2)
	y := float32(w.rng.Float64()*0.4 - 0.2)
	z := float32(0.9 + w.rng.Float64()*0.2)
	return x, y, z, nil
}

// UpdateFall feeds the sample through a real fall detector so the
// cross-cycle free-fall state behaves as on hardware.
func (w *Wearer) UpdateFall(x, y, z float32) bool {
	fall, _ := w.fall.Update(x, y, z)
	return fall
}

// Measurements reports how many cycles have started.
func (w *Wearer) Measurements() int { return w.count }

// Wakeup drains the battery at the active rate.
func (w *Wearer) Wakeup() error {
	if w.battery != nil {
		w.battery.Drain(true)
	}
	return nil
}

// Sleep drains the battery at the idle rate.
func (w *Wearer) Sleep() error {
	if w.battery != nil {
		w.battery.Drain(false)
	}
	return nil
}
