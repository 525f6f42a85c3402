package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/ads1292r"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/icm42688"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/tmp117"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/vitals"
)

func TestWearerNormalCycle(t *testing.T) {
	w := NewWearer(1)

	spo2, hr := w.ReadVitals()
	assert.GreaterOrEqual(t, spo2, uint8(95))
	assert.LessOrEqual(t, spo2, uint8(99))
	assert.GreaterOrEqual(t, hr, uint16(70))
	assert.LessOrEqual(t, hr, uint16(90))

	sys, dia, rate, err := w.ReadECGAndBP()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sys, uint16(110))
	assert.LessOrEqual(t, sys, uint16(130))
	assert.GreaterOrEqual(t, dia, uint16(70))
	assert.LessOrEqual(t, dia, uint16(85))
	assert.NotZero(t, rate)

	temp, err := w.ReadTemperature()
	require.NoError(t, err)
	assert.InDelta(t, 36.7, temp, 0.5)

	x, y, z, err := w.ReadAccel()
	require.NoError(t, err)
	assert.InDelta(t, 0, x, 0.2)
	assert.InDelta(t, 0, y, 0.2)
	assert.InDelta(t, 1, z, 0.1)
}

func TestWearerAnomalySchedule(t *testing.T) {
	w := NewWearer(7)

	for i := 1; i <= 60; i++ {
		spo2, hr := w.ReadVitals()
		x, y, z, err := w.ReadAccel()
		require.NoError(t, err)

		if i%lowSpO2Every == 0 {
			assert.Less(t, spo2, uint8(92), "measurement %d should dip SpO2", i)
		}
		if i%highHeartEvery == 0 {
			assert.Greater(t, hr, uint16(120), "measurement %d should raise heart rate", i)
		}
		mag := x*x + y*y + z*z
		if i%fallEvery == 0 {
			assert.Greater(t, mag, float32(3.5*3.5), "measurement %d should be an impact", i)
		} else {
			assert.Less(t, mag, float32(4), "measurement %d should be at rest", i)
		}
	}
	assert.Equal(t, 60, w.Measurements())
}

func TestWearerDeterministic(t *testing.T) {
	a, b := NewWearer(42), NewWearer(42)
	for i := 0; i < 20; i++ {
		spo2A, hrA := a.ReadVitals()
		spo2B, hrB := b.ReadVitals()
		assert.Equal(t, spo2A, spo2B)
		assert.Equal(t, hrA, hrB)
	}
}

func TestWearerDrivesAggregator(t *testing.T) {
	w := NewWearer(3)
	agg := vitals.NewAggregator(w, w, w, w, vitals.DefaultAggregatorConfig())

	th := vitals.DefaultThresholds()
	sawEmergency := false
	for i := 0; i < fallEvery; i++ {
		s := agg.Acquire()
		assert.Zero(t, s.Degraded)
		if vitals.Classify(s, th) == vitals.StatusEmergency {
			sawEmergency = true
		}
	}
	assert.True(t, sawEmergency, "the scripted fall must classify as an emergency")
}

func TestBatteryDrain(t *testing.T) {
	b := NewBattery()
	assert.InDelta(t, 100, b.Level(), 0.001)

	b.Drain(true)
	assert.InDelta(t, 99.92, b.Level(), 0.001)
	b.Drain(false)
	assert.InDelta(t, 99.90, b.Level(), 0.001)

	for i := 0; i < 10000; i++ {
		b.Drain(true)
	}
	assert.Equal(t, float64(0), b.Level())
	assert.True(t, b.Low())
	assert.True(t, b.Critical())
}

func TestWearerDrainsBattery(t *testing.T) {
	b := NewBattery()
	w := NewWearer(1, WithBattery(b))

	require.NoError(t, w.Wakeup())
	require.NoError(t, w.Sleep())
	assert.InDelta(t, 99.90, b.Level(), 0.001)
}

func TestPowerTable(t *testing.T) {
	table := PowerTable()
	assert.Len(t, table, 5)
	assert.InDelta(t, 15.0, table["MAX30102"].PowerMW, 0.001)
	assert.InDelta(t, 0.15, table["TMP117"].PowerMW, 0.001)
}

func TestECGBusDrivesDriver(t *testing.T) {
	d := ads1292r.New(ECGBus(75), ads1292r.DefaultConfig(),
		ads1292r.WithLogger(zap.NewNop()),
		ads1292r.WithSleep(func(time.Duration) {}),
	)
	require.NoError(t, d.Init())

	_, _, rate, err := d.ReadECGAndBP()
	require.NoError(t, err)
	assert.Equal(t, uint16(75), rate)
}

func TestTempBusDrivesDriver(t *testing.T) {
	d := tmp117.New(TempBus(37.5), tmp117.DefaultConfig(),
		tmp117.WithLogger(zap.NewNop()),
		tmp117.WithSleep(func(time.Duration) {}),
	)
	require.NoError(t, d.Init())

	temp, err := d.ReadTemperature()
	require.NoError(t, err)
	assert.InDelta(t, 37.5, temp, 0.01)
}

func TestIMUBusFallScript(t *testing.T) {
	d := icm42688.New(IMUBus(FallScript()), icm42688.DefaultConfig(),
		icm42688.WithLogger(zap.NewNop()),
		icm42688.WithSleep(func(time.Duration) {}),
	)
	require.NoError(t, d.Init())

	confirmed := false
	for i := 0; i < len(FallScript()); i++ {
		fall, err := d.DetectFall()
		require.NoError(t, err)
		if fall {
			confirmed = true
		}
	}
	assert.True(t, confirmed, "the scripted free-fall and impact must confirm a fall")
}
