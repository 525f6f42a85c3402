package vitals

// Thresholds bounds the normal and critical bands for each vital sign.
// Values outside the normal band but inside the critical band count as
// warnings; values outside the critical band count as criticals.
type Thresholds struct {
	SpO2Min         uint8 `yaml:"spo2_min"`
	SpO2CriticalMin uint8 `yaml:"spo2_critical_min"`

	HeartRateMin         uint16 `yaml:"heart_rate_min"`
	HeartRateMax         uint16 `yaml:"heart_rate_max"`
	HeartRateCriticalMin uint16 `yaml:"heart_rate_critical_min"`
	HeartRateCriticalMax uint16 `yaml:"heart_rate_critical_max"`

	TempMin         float64 `yaml:"temp_min"`
	TempMax         float64 `yaml:"temp_max"`
	TempCriticalMin float64 `yaml:"temp_critical_min"`
	TempCriticalMax float64 `yaml:"temp_critical_max"`

	SystolicMin uint16 `yaml:"systolic_min"`
	SystolicMax uint16 `yaml:"systolic_max"`
}

// DefaultThresholds returns the stock clinical bands.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SpO2Min:         92,
		SpO2CriticalMin: 85,

		HeartRateMin:         45,
		HeartRateMax:         120,
		HeartRateCriticalMin: 40,
		HeartRateCriticalMax: 150,

		TempMin:         35.5,
		TempMax:         38.5,
		TempCriticalMin: 35.0,
		TempCriticalMax: 40.0,

		SystolicMin: 90,
		SystolicMax: 160,
	}
}

// Tally counts the warning and critical findings of one snapshot:
// vitals outside their bands plus the fall flags.
type Tally struct {
	Warnings  int
	Criticals int
}

// Evaluate grades a snapshot against the thresholds and reports the
// per-band tallies alongside the resolved status.
//
// Resolution order: any critical reading or a fall forces EMERGENCY,
// two or more warnings resolve to CRITICAL, a single warning to
// WARNING, otherwise NORMAL.
func Evaluate(s Snapshot, th Thresholds) (Status, Tally) {
	var t Tally

	switch {
	case s.SpO2 < th.SpO2CriticalMin:
		t.Criticals++
	case s.SpO2 < th.SpO2Min:
		t.Warnings++
	}

	switch {
	case s.HeartRate < th.HeartRateCriticalMin || s.HeartRate > th.HeartRateCriticalMax:
		t.Criticals++
	case s.HeartRate < th.HeartRateMin || s.HeartRate > th.HeartRateMax:
		t.Warnings++
	}

	switch {
	case s.Temperature < th.TempCriticalMin || s.Temperature > th.TempCriticalMax:
		t.Criticals++
	case s.Temperature < th.TempMin || s.Temperature > th.TempMax:
		t.Warnings++
	}

	// Blood pressure has a single band; out of range counts as a warning.
	if s.Systolic < th.SystolicMin || s.Systolic > th.SystolicMax {
		t.Warnings++
	}

	// A fall with no movement afterwards tallies as critical, a fall
	// with movement as a warning. Either way the fall itself forces
	// EMERGENCY below.
	if s.FallDetected {
		if s.NoMovement {
			t.Criticals++
		} else {
			t.Warnings++
		}
	}

	switch {
	case t.Criticals > 0 || s.FallDetected:
		return StatusEmergency, t
	case t.Warnings >= 2:
		return StatusCritical, t
	case t.Warnings == 1:
		return StatusWarning, t
	default:
		return StatusNormal, t
	}
}

// Classify grades a snapshot without exposing the tallies.
func Classify(s Snapshot, th Thresholds) Status {
	status, _ := Evaluate(s, th)
	return status
}
