// Package config loads and saves the monitor configuration as YAML.
// Missing files and missing fields fall back to defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/monitor"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/ads1292r"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/icm42688"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/max30102"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/tmp117"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/vitals"
)

// Config represents the application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Bus     BusConfig     `yaml:"bus"`
	Serial  SerialConfig  `yaml:"serial"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Gateway GatewayConfig `yaml:"gateway"`

	Oximeter    max30102.Config `yaml:"oximeter"`
	ECG         ads1292r.Config `yaml:"ecg"`
	Thermometer tmp117.Config   `yaml:"thermometer"`
	Motion      icm42688.Config `yaml:"motion"`

	Thresholds  vitals.Thresholds       `yaml:"thresholds"`
	MotionFlags vitals.AggregatorConfig `yaml:"motion_flags"`
	Monitor     monitor.Config          `yaml:"monitor"`
}

// LogConfig contains logger configuration.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// BusConfig names the hardware buses the drivers attach to.
type BusConfig struct {
	SPIPort    string `yaml:"spi_port"`     // e.g. "SPI0.0"
	SPIPortIMU string `yaml:"spi_port_imu"` // e.g. "SPI0.1"
	SPIFreqHz  int64  `yaml:"spi_freq_hz"`
	I2CBus     string `yaml:"i2c_bus"` // e.g. "1"
}

// SerialConfig contains the telemetry uplink serial port.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// MQTTConfig contains the gateway's broker connection.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// GatewayConfig contains the gateway receiver settings.
type GatewayConfig struct {
	DBPath string `yaml:"db_path"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Bus: BusConfig{
			SPIPort:    "SPI0.0",
			SPIPortIMU: "SPI0.1",
			SPIFreqHz:  1_000_000,
			I2CBus:     "1",
		},
		Serial: SerialConfig{
			Port: "/dev/ttyS0",
			Baud: 115200,
		},
		MQTT: MQTTConfig{
			Broker: "tcp://localhost:1883",
			Topic:  "miner/vitals",
		},
		Gateway: GatewayConfig{
			DBPath: "healthmon.db",
		},
		Oximeter:    max30102.DefaultConfig(),
		ECG:         ads1292r.DefaultConfig(),
		Thermometer: tmp117.DefaultConfig(),
		Motion:      icm42688.DefaultConfig(),
		Thresholds:  vitals.DefaultThresholds(),
		MotionFlags: vitals.DefaultAggregatorConfig(),
		Monitor:     monitor.DefaultConfig(),
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks every device table and the monitor policy.
func (c *Config) Validate() error {
	if err := c.Oximeter.Validate(); err != nil {
		return fmt.Errorf("config: oximeter: %w", err)
	}
	if err := c.ECG.Validate(); err != nil {
		return fmt.Errorf("config: ecg: %w", err)
	}
	if err := c.Thermometer.Validate(); err != nil {
		return fmt.Errorf("config: thermometer: %w", err)
	}
	if err := c.Motion.Validate(); err != nil {
		return fmt.Errorf("config: motion: %w", err)
	}
	if c.Monitor.WarningEscalation <= 0 {
		return fmt.Errorf("config: monitor: warning_escalation must be positive")
	}
	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}

	if c.Bus.SPIPort == "" {
		c.Bus.SPIPort = def.Bus.SPIPort
	}
	if c.Bus.SPIPortIMU == "" {
		c.Bus.SPIPortIMU = def.Bus.SPIPortIMU
	}
	if c.Bus.SPIFreqHz == 0 {
		c.Bus.SPIFreqHz = def.Bus.SPIFreqHz
	}
	if c.Bus.I2CBus == "" {
		c.Bus.I2CBus = def.Bus.I2CBus
	}

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = def.Serial.Baud
	}

	if c.MQTT.Broker == "" {
		c.MQTT.Broker = def.MQTT.Broker
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = def.MQTT.Topic
	}

	if c.Gateway.DBPath == "" {
		c.Gateway.DBPath = def.Gateway.DBPath
	}

	if c.Oximeter.Addr == 0 {
		c.Oximeter.Addr = def.Oximeter.Addr
	}
	if c.Oximeter.ExpectedID == 0 {
		c.Oximeter.ExpectedID = def.Oximeter.ExpectedID
	}
	if c.Oximeter.SpO2Cfg == 0 {
		c.Oximeter.SpO2Cfg = def.Oximeter.SpO2Cfg
	}
	if c.Oximeter.RedLEDAmp == 0 {
		c.Oximeter.RedLEDAmp = def.Oximeter.RedLEDAmp
	}
	if c.Oximeter.IRLEDAmp == 0 {
		c.Oximeter.IRLEDAmp = def.Oximeter.IRLEDAmp
	}

	if c.ECG.ExpectedID == 0 {
		c.ECG.ExpectedID = def.ECG.ExpectedID
	}
	if c.ECG.SamplingRate == 0 {
		c.ECG.SamplingRate = def.ECG.SamplingRate
	}
	if c.ECG.WindowSize == 0 {
		c.ECG.WindowSize = def.ECG.WindowSize
	}
	if c.ECG.PeakThreshold == 0 {
		c.ECG.PeakThreshold = def.ECG.PeakThreshold
	}
	if c.ECG.RefractorySamples == 0 {
		c.ECG.RefractorySamples = def.ECG.RefractorySamples
	}
	if c.ECG.DefaultHeartRate == 0 {
		c.ECG.DefaultHeartRate = def.ECG.DefaultHeartRate
	}
	if c.ECG.DataReadyAttempts == 0 {
		c.ECG.DataReadyAttempts = def.ECG.DataReadyAttempts
	}

	if c.Thermometer.Addr == 0 {
		c.Thermometer.Addr = def.Thermometer.Addr
	}
	if c.Thermometer.ExpectedID == 0 {
		c.Thermometer.ExpectedID = def.Thermometer.ExpectedID
	}
	if c.Thermometer.DataReadyAttempts == 0 {
		c.Thermometer.DataReadyAttempts = def.Thermometer.DataReadyAttempts
	}

	if c.Motion.ExpectedID == 0 {
		c.Motion.ExpectedID = def.Motion.ExpectedID
	}
	if c.Motion.AccelFullScale == 0 {
		c.Motion.AccelFullScale = def.Motion.AccelFullScale
	}
	if c.Motion.GyroFullScale == 0 {
		c.Motion.GyroFullScale = def.Motion.GyroFullScale
	}
	if c.Motion.FreeFallThreshold == 0 {
		c.Motion.FreeFallThreshold = def.Motion.FreeFallThreshold
	}
	if c.Motion.ImpactThreshold == 0 {
		c.Motion.ImpactThreshold = def.Motion.ImpactThreshold
	}
	if c.Motion.FreeFallSamples == 0 {
		c.Motion.FreeFallSamples = def.Motion.FreeFallSamples
	}

	if c.Thresholds.SpO2Min == 0 {
		c.Thresholds = def.Thresholds
	}
	if c.MotionFlags.ImpactThreshold == 0 {
		c.MotionFlags.ImpactThreshold = def.MotionFlags.ImpactThreshold
	}
	if c.MotionFlags.FreeFallThreshold == 0 {
		c.MotionFlags.FreeFallThreshold = def.MotionFlags.FreeFallThreshold
	}

	if c.Monitor.NormalInterval == 0 {
		c.Monitor.NormalInterval = def.Monitor.NormalInterval
	}
	if c.Monitor.ExtendedInterval == 0 {
		c.Monitor.ExtendedInterval = def.Monitor.ExtendedInterval
	}
	if c.Monitor.EmergencyInterval == 0 {
		c.Monitor.EmergencyInterval = def.Monitor.EmergencyInterval
	}
	if c.Monitor.WarmupDelay == 0 {
		c.Monitor.WarmupDelay = def.Monitor.WarmupDelay
	}
	if c.Monitor.WarningEscalation == 0 {
		c.Monitor.WarningEscalation = def.Monitor.WarningEscalation
	}
}
