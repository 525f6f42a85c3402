package vitals

import (
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"
)

// Oximeter supplies blood oxygen saturation and heart rate.
type Oximeter interface {
	ReadVitals() (spo2 uint8, heartRate uint16)
}

// ECGFrontEnd supplies the blood pressure estimate derived from an ECG
// capture window. The ECG-derived rate is informational only; the
// snapshot's heart rate comes from the oximeter.
type ECGFrontEnd interface {
	ReadECGAndBP() (systolic, diastolic, ecgRate uint16, err error)
}

// Thermometer supplies body temperature in °C.
type Thermometer interface {
	ReadTemperature() (float64, error)
}

// Motion supplies one accelerometer sample per cycle and runs the
// cross-cycle fall detector on it.
type Motion interface {
	ReadAccel() (x, y, z float32, err error)
	UpdateFall(x, y, z float32) bool
}

// AggregatorConfig tunes the motion-derived flags.
type AggregatorConfig struct {
	// ImpactThreshold is the acceleration magnitude in g above which a
	// single sample flags a fall.
	ImpactThreshold float32 `yaml:"impact_threshold"`
	// FreeFallThreshold is the magnitude in g below which the wearer is
	// considered motionless.
	FreeFallThreshold float32 `yaml:"free_fall_threshold"`
}

// DefaultAggregatorConfig returns the stock motion thresholds.
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		ImpactThreshold:   3.5,
		FreeFallThreshold: 0.5,
	}
}

// Aggregator runs one acquisition cycle across all four sensors and
// folds the results into a Snapshot. Sensor faults degrade the affected
// fields to safe defaults instead of failing the cycle.
type Aggregator struct {
	oximeter Oximeter
	ecg      ECGFrontEnd
	thermo   Thermometer
	motion   Motion

	cfg AggregatorConfig
	log *zap.Logger
	now func() uint32

	start time.Time
}

// AggregatorOption customizes an Aggregator.
type AggregatorOption func(*Aggregator)

// WithAggregatorLogger sets the logger.
func WithAggregatorLogger(log *zap.Logger) AggregatorOption {
	return func(a *Aggregator) { a.log = log }
}

// WithClock overrides the monotonic-tick source, used by tests.
func WithClock(now func() uint32) AggregatorOption {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator wires the four sensor interfaces into an acquisition
// cycle.
func NewAggregator(ox Oximeter, ecg ECGFrontEnd, th Thermometer, mo Motion, cfg AggregatorConfig, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		oximeter: ox,
		ecg:      ecg,
		thermo:   th,
		motion:   mo,
		cfg:      cfg,
		log:      zap.NewNop(),
		start:    time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.now == nil {
		a.now = func() uint32 { return uint32(time.Since(a.start) / time.Millisecond) }
	}
	return a
}

// Acquire runs one full acquisition cycle and returns the snapshot.
// It never returns an error: failed sensors mark their fields degraded
// and the cycle completes on safe defaults.
func (a *Aggregator) Acquire() Snapshot {
	s := Snapshot{Timestamp: a.now()}

	s.SpO2, s.HeartRate = a.oximeter.ReadVitals()

	sys, dia, ecgRate, err := a.ecg.ReadECGAndBP()
	if err != nil {
		a.log.Warn("ECG capture failed, using default blood pressure", zap.Error(err))
		sys, dia = DefaultSystolic, DefaultDiastolic
		s.Degraded |= DegradedBloodPressure
	} else {
		a.log.Debug("ECG window captured", zap.Uint16("ecg_rate", ecgRate))
	}
	s.Systolic, s.Diastolic = sys, dia

	temp, err := a.thermo.ReadTemperature()
	if err != nil {
		a.log.Warn("temperature read failed, using default", zap.Error(err))
		temp = DefaultTemperature
		s.Degraded |= DegradedTemperature
	}
	s.Temperature = temp

	x, y, z, err := a.motion.ReadAccel()
	if err != nil {
		a.log.Warn("accelerometer read failed, assuming at rest", zap.Error(err))
		x, y, z = 0, 0, 1
		s.Degraded |= DegradedAccel
	}
	s.AccelX, s.AccelY, s.AccelZ = x, y, z

	// The stateful detector tracks free-fall followed by impact across
	// cycles; its confirmation is logged but the flag the classifier
	// consumes comes from the single-sample impact check below.
	if a.motion.UpdateFall(x, y, z) {
		a.log.Warn("fall detector confirmed free-fall followed by impact")
	}

	mag := math32.Sqrt(x*x + y*y + z*z)
	s.FallDetected = mag > a.cfg.ImpactThreshold
	s.NoMovement = s.FallDetected && mag < a.cfg.FreeFallThreshold

	a.log.Info("vitals acquired",
		zap.Uint8("spo2", s.SpO2),
		zap.Uint16("heart_rate", s.HeartRate),
		zap.Uint16("systolic", s.Systolic),
		zap.Uint16("diastolic", s.Diastolic),
		zap.Float64("temperature", s.Temperature),
		zap.Float32("accel_magnitude", mag),
		zap.Bool("fall", s.FallDetected),
		zap.Uint8("degraded", uint8(s.Degraded)),
	)

	return s
}
