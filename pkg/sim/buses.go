package sim

import (
	"github.com/Criz-007/miner-health-monitoring-system/pkg/bus"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/ads1292r"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/icm42688"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/max30102"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/tmp117"
)

// The register-level buses below let the real drivers run unmodified:
// each returns an in-memory bus whose registers answer the way the
// hardware would.

// peakAmplitude is comfortably above the R-peak detection threshold.
var peakAmplitude = 150000

// ECGBus answers RDATA exchanges with a synthetic ECG whose R-peaks
// produce the given heart rate at the driver's default sampling rate.
func ECGBus(heartRate int) *bus.Mem {
	cfg := ads1292r.DefaultConfig()
	m := bus.NewMem("ads1292r")
	m.Regs[ads1292r.RegID] = []byte{cfg.ExpectedID}

	spacing := 0
	if heartRate > 0 {
		spacing = 60 * cfg.SamplingRate / heartRate
	}

	sample := 0
	m.OnExchange = func(w []byte, n int) ([]byte, bool) {
		if w[0] != ads1292r.CmdRData || n != 9 {
			return nil, false
		}
		frame := make([]byte, 9)
		if spacing > 0 && sample%spacing == 0 {
			frame[3] = byte(peakAmplitude >> 16)
			frame[4] = byte(peakAmplitude >> 8)
			frame[5] = byte(peakAmplitude)
		}
		sample++
		return frame, true
	}
	return m
}

// TempBus serves a fixed temperature with the data-ready bit always
// set.
func TempBus(tempC float64) *bus.Mem {
	raw := uint16(tempC / 0.0078125)
	m := bus.NewMem("tmp117")
	m.Regs[tmp117.RegDeviceID] = []byte{0x01, 0x17}
	m.Regs[tmp117.RegTemp] = []byte{byte(raw >> 8), byte(raw)}
	m.OnRead = func(reg byte, n int) ([]byte, bool) {
		if reg == tmp117.RegConfig {
			return []byte{0x20, 0x00}, true // data ready
		}
		return nil, false
	}
	return m
}

// IMUBus serves accelerometer samples from the script, repeating the
// last entry when the script runs out. A nil script holds the wearer
// at rest.
func IMUBus(script [][3]float32) *bus.Mem {
	cfg := icm42688.DefaultConfig()
	if script == nil {
		script = [][3]float32{{0, 0, 1}}
	}

	m := bus.NewMem("icm42688")
	m.Regs[icm42688.RegWhoAmI] = []byte{cfg.ExpectedID}

	idx := 0
	m.OnRead = func(reg byte, n int) ([]byte, bool) {
		if reg != icm42688.RegAccelDataX1 || n != 6 {
			return nil, false
		}
		s := script[idx]
		if idx < len(script)-1 {
			idx++
		}

		data := make([]byte, 6)
		for i, g := range s {
			raw := int16(g * 32768 / cfg.AccelFullScale)
			data[2*i] = byte(raw >> 8)
			data[2*i+1] = byte(raw)
		}
		return data, true
	}
	return m
}

// FallScript is an IMU script for a complete fall: free-fall long
// enough to arm the detector, then an impact.
func FallScript() [][3]float32 {
	script := make([][3]float32, 0, 14)
	for i := 0; i < 12; i++ {
		script = append(script, [3]float32{0, 0, 0.2})
	}
	script = append(script, [3]float32{0, 0, 4.0}, [3]float32{0, 0, 1})
	return script
}

// OximeterBus serves the part identity; the MAX30102 driver needs
// nothing else from the bus.
func OximeterBus() *bus.Mem {
	m := bus.NewMem("max30102")
	m.Regs[max30102.RegPartID] = []byte{max30102.PartID}
	return m
}
