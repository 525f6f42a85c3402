package icm42688

import "fmt"

// Config carries the configuration values written at initialization and
// the fall-detection parameters.
type Config struct {
	ExpectedID byte `yaml:"expected_id"`

	AccelConfig0 byte `yaml:"accel_config0"` // full-scale range and ODR
	GyroConfig0  byte `yaml:"gyro_config0"`

	AccelFullScale float32 `yaml:"accel_full_scale"` // g
	GyroFullScale  float32 `yaml:"gyro_full_scale"`  // dps

	FreeFallThreshold float32 `yaml:"free_fall_threshold"` // g
	ImpactThreshold   float32 `yaml:"impact_threshold"`    // g
	FreeFallSamples   int     `yaml:"free_fall_samples"`   // consecutive low-g samples to arm
}

// DefaultConfig returns the stock configuration: ±16 g accelerometer and
// ±2000 dps gyro, both at 100 Hz, with the free-fall/impact fall
// thresholds at 0.5 g and 3.5 g.
func DefaultConfig() Config {
	return Config{
		ExpectedID:        WhoAmI,
		AccelConfig0:      (3 << 5) | 0x05, // ±16g, 100 Hz
		GyroConfig0:       (3 << 5) | 0x05, // ±2000 dps, 100 Hz
		AccelFullScale:    16.0,
		GyroFullScale:     2000.0,
		FreeFallThreshold: 0.5,
		ImpactThreshold:   3.5,
		FreeFallSamples:   10, // 100 ms at 100 Hz
	}
}

// Validate rejects parameter combinations the fall detector cannot
// interpret.
func (c Config) Validate() error {
	if c.AccelFullScale <= 0 {
		return fmt.Errorf("icm42688: accel full scale must be positive, got %g", c.AccelFullScale)
	}
	if c.FreeFallThreshold <= 0 || c.ImpactThreshold <= c.FreeFallThreshold {
		return fmt.Errorf("icm42688: impact threshold %g must exceed free-fall threshold %g",
			c.ImpactThreshold, c.FreeFallThreshold)
	}
	if c.FreeFallSamples <= 0 {
		return fmt.Errorf("icm42688: free-fall sample count must be positive, got %d", c.FreeFallSamples)
	}
	return nil
}
