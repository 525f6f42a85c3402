// Package vitals defines the per-cycle vital-signs snapshot, the
// acquisition aggregator that produces it, and the threshold classifier
// that grades it.
package vitals

// Status is the overall health grade of one snapshot. The order is
// meaningful: escalation compares statuses numerically.
type Status uint8

const (
	StatusNormal Status = iota
	StatusWarning
	StatusCritical
	StatusEmergency
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "NORMAL"
	case StatusWarning:
		return "WARNING"
	case StatusCritical:
		return "CRITICAL"
	case StatusEmergency:
		return "EMERGENCY"
	default:
		return "UNKNOWN"
	}
}

// Degraded flags which snapshot fields were substituted with safe
// defaults after a sensor fault. Classification on degraded data still
// happens, since the monitor never halts on a single-sensor fault, but
// consumers can weigh the result accordingly.
type Degraded uint8

const (
	DegradedBloodPressure Degraded = 1 << iota
	DegradedTemperature
	DegradedAccel
)

// Has reports whether all given flags are set.
func (d Degraded) Has(f Degraded) bool { return d&f == f }

// Snapshot is one complete acquisition cycle's worth of vital signs.
// It is created once by the Aggregator and read-only afterwards.
type Snapshot struct {
	SpO2        uint8   // blood oxygen saturation, %
	HeartRate   uint16  // beats per minute
	Systolic    uint16  // mmHg
	Diastolic   uint16  // mmHg
	Temperature float64 // °C
	AccelX      float32 // g
	AccelY      float32 // g
	AccelZ      float32 // g

	FallDetected bool // single-sample impact signal
	NoMovement   bool // fall flagged this cycle and magnitude below the free-fall floor

	Timestamp uint32 // monotonic tick at acquisition
	Degraded  Degraded
}

// Safe defaults substituted when a sensor read fails. The monitor keeps
// producing snapshots on degraded data rather than halting.
const (
	DefaultTemperature = 36.5
	DefaultSystolic    = 120
	DefaultDiastolic   = 80
)
