package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "SPI0.0", cfg.Bus.SPIPort)
	assert.Equal(t, "/dev/ttyS0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.Baud)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "miner/vitals", cfg.MQTT.Topic)

	assert.Equal(t, byte(0x73), cfg.ECG.ExpectedID)
	assert.Equal(t, 500, cfg.ECG.SamplingRate)
	assert.Equal(t, byte(0x47), cfg.Motion.ExpectedID)
	assert.Equal(t, uint16(0x48), cfg.Thermometer.Addr)
	assert.Equal(t, uint16(0x57), cfg.Oximeter.Addr)

	assert.Equal(t, uint8(92), cfg.Thresholds.SpO2Min)
	assert.Equal(t, 35*time.Second, cfg.Monitor.NormalInterval)
	assert.Equal(t, 2, cfg.Monitor.WarningEscalation)
}

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyS0", cfg.Serial.Port)
}

func TestLoad_ValidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
log:
  level: debug

serial:
  port: "/dev/ttyUSB0"
  baud: 9600

thresholds:
  spo2_min: 94
  spo2_critical_min: 88

monitor:
  normal_interval: 20s
  warning_escalation: 3

ecg:
  sampling_rate: 250
  window_size: 250
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Port)
	assert.Equal(t, 9600, cfg.Serial.Baud)
	assert.Equal(t, uint8(94), cfg.Thresholds.SpO2Min)
	assert.Equal(t, 20*time.Second, cfg.Monitor.NormalInterval)
	assert.Equal(t, 3, cfg.Monitor.WarningEscalation)
	assert.Equal(t, 250, cfg.ECG.SamplingRate)

	// Fields missing from the file keep their defaults.
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 10*time.Second, cfg.Monitor.ExtendedInterval)
	assert.Equal(t, byte(0x73), cfg.ECG.ExpectedID)
	assert.Equal(t, int32(100000), cfg.ECG.PeakThreshold)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serial: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Serial.Port = "/dev/ttyAMA0"
	cfg.Thresholds.SpO2Min = 93
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyAMA0", loaded.Serial.Port)
	assert.Equal(t, uint8(93), loaded.Thresholds.SpO2Min)
	assert.Equal(t, cfg.Monitor, loaded.Monitor)
}

func TestValidateRejectsBadPolicy(t *testing.T) {
	cfg := Default()
	cfg.Monitor.WarningEscalation = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroAddress(t *testing.T) {
	cfg := Default()
	cfg.Thermometer.Addr = 0
	// ensureDefaults would restore it on Load; a hand-built config must
	// still fail validation.
	assert.Error(t, cfg.Validate())
}
