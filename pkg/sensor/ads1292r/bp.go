package ads1292r

// Blood-pressure estimation bounds, mmHg.
const (
	systolicBase  = 120.0
	diastolicBase = 80.0
	systolicMin   = 90
	systolicMax   = 180
	diastolicMin  = 60
	diastolicMax  = 110
)

// EstimateBloodPressure derives a blood-pressure figure from the heart
// rate alone: the deviation from a 70 bpm baseline scales the 120/80
// baseline pressure, clamped to [90,180]/[60,110].
//
// This is an approximation standing in for pulse-transit-time estimation,
// which needs a second optical sensor and per-wearer calibration. It is
// kept intentionally, not an oversight.
func EstimateBloodPressure(heartRate uint16) (systolic, diastolic uint16) {
	factor := (float64(heartRate) - 70.0) / 70.0

	sys := int(systolicBase + factor*20.0)
	dia := int(diastolicBase + factor*10.0)

	if sys < systolicMin {
		sys = systolicMin
	}
	if sys > systolicMax {
		sys = systolicMax
	}
	if dia < diastolicMin {
		dia = diastolicMin
	}
	if dia > diastolicMax {
		dia = diastolicMax
	}

	return uint16(sys), uint16(dia)
}
