package ads1292r

import "fmt"

// Config carries the mode bytes written at initialization and the ECG
// acquisition parameters. The values vary by wiring and part revision, so
// they are overridable rather than hard-coded.
type Config struct {
	ExpectedID byte `yaml:"expected_id"` // device ID, 0x73 for the ADS1292R

	Config1 byte `yaml:"config1"`  // conversion mode and data rate
	Config2 byte `yaml:"config2"`  // reference and test-signal control
	Ch1Set  byte `yaml:"ch1_set"`  // channel 1 gain and mux
	Ch2Set  byte `yaml:"ch2_set"`  // channel 2 gain and mux
	RLDSens byte `yaml:"rld_sens"` // right-leg-drive sensing

	SamplingRate      int   `yaml:"sampling_rate"`       // Hz
	WindowSize        int   `yaml:"window_size"`         // samples per acquisition window
	PeakThreshold     int32 `yaml:"peak_threshold"`      // R-peak amplitude threshold
	RefractorySamples int   `yaml:"refractory_samples"`  // minimum gap between peaks
	DefaultHeartRate  int   `yaml:"default_heart_rate"`  // bpm reported when no peaks are found
	DataReadyAttempts int   `yaml:"data_ready_attempts"` // bounded poll per sample
}

// DefaultConfig returns the stock register values: HR mode at 500 SPS,
// reference buffer enabled, both channels at gain 6.
func DefaultConfig() Config {
	return Config{
		ExpectedID:        0x73,
		Config1:           0x02,
		Config2:           0xA0,
		Ch1Set:            0x00,
		Ch2Set:            0x00,
		RLDSens:           0x2C,
		SamplingRate:      500,
		WindowSize:        500,
		PeakThreshold:     100000,
		RefractorySamples: 100,
		DefaultHeartRate:  70,
		DataReadyAttempts: 1000,
	}
}

// Validate checks the acquisition parameters for values the extractor
// cannot work with.
func (c Config) Validate() error {
	if c.SamplingRate <= 0 {
		return fmt.Errorf("ads1292r: sampling rate must be positive, got %d", c.SamplingRate)
	}
	if c.WindowSize <= 4 {
		return fmt.Errorf("ads1292r: window size must exceed 4 samples, got %d", c.WindowSize)
	}
	if c.RefractorySamples <= 0 {
		return fmt.Errorf("ads1292r: refractory period must be positive, got %d", c.RefractorySamples)
	}
	if c.DataReadyAttempts <= 0 {
		return fmt.Errorf("ads1292r: data-ready attempts must be positive, got %d", c.DataReadyAttempts)
	}
	return nil
}
