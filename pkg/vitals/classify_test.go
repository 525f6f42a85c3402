package vitals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseline() Snapshot {
	return Snapshot{
		SpO2:        97,
		HeartRate:   75,
		Systolic:    120,
		Diastolic:   80,
		Temperature: 36.6,
		AccelZ:      1,
	}
}

func TestEvaluate(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name     string
		mutate   func(*Snapshot)
		expected Status
		warnings int
		critical int
	}{
		{"all normal", func(s *Snapshot) {}, StatusNormal, 0, 0},
		{"low spo2 warning", func(s *Snapshot) { s.SpO2 = 90 }, StatusWarning, 1, 0},
		{"spo2 at normal floor", func(s *Snapshot) { s.SpO2 = 92 }, StatusNormal, 0, 0},
		{"spo2 at critical floor", func(s *Snapshot) { s.SpO2 = 85 }, StatusWarning, 1, 0},
		{"critical spo2", func(s *Snapshot) { s.SpO2 = 84 }, StatusEmergency, 0, 1},
		{"bradycardia warning", func(s *Snapshot) { s.HeartRate = 42 }, StatusWarning, 1, 0},
		{"heart rate at normal ceiling", func(s *Snapshot) { s.HeartRate = 120 }, StatusNormal, 0, 0},
		{"tachycardia critical", func(s *Snapshot) { s.HeartRate = 155 }, StatusEmergency, 0, 1},
		{"hypothermia warning", func(s *Snapshot) { s.Temperature = 35.2 }, StatusWarning, 1, 0},
		{"fever critical", func(s *Snapshot) { s.Temperature = 40.5 }, StatusEmergency, 0, 1},
		{"hypertension warning", func(s *Snapshot) { s.Systolic = 170 }, StatusWarning, 1, 0},
		{
			"two warnings escalate to critical",
			func(s *Snapshot) { s.SpO2 = 90; s.HeartRate = 130 },
			StatusCritical, 2, 0,
		},
		{
			"three warnings still critical",
			func(s *Snapshot) { s.SpO2 = 90; s.HeartRate = 130; s.Temperature = 39.0 },
			StatusCritical, 3, 0,
		},
		{"fall forces emergency", func(s *Snapshot) { s.FallDetected = true }, StatusEmergency, 1, 0},
		{
			"fall with no movement is emergency",
			func(s *Snapshot) { s.FallDetected = true; s.NoMovement = true },
			StatusEmergency, 0, 1,
		},
		{
			"fall tallies on top of vital warnings",
			func(s *Snapshot) { s.FallDetected = true; s.SpO2 = 90 },
			StatusEmergency, 2, 0,
		},
		{
			"critical outranks warnings",
			func(s *Snapshot) { s.SpO2 = 80; s.HeartRate = 130 },
			StatusEmergency, 1, 1,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := baseline()
			test.mutate(&s)

			status, tally := Evaluate(s, th)
			assert.Equal(t, test.expected, status)
			assert.Equal(t, test.warnings, tally.Warnings)
			assert.Equal(t, test.critical, tally.Criticals)
			assert.Equal(t, test.expected, Classify(s, th))
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "NORMAL", StatusNormal.String())
	assert.Equal(t, "WARNING", StatusWarning.String())
	assert.Equal(t, "CRITICAL", StatusCritical.String())
	assert.Equal(t, "EMERGENCY", StatusEmergency.String())
	assert.Equal(t, "UNKNOWN", Status(9).String())
}

func TestStatusOrdering(t *testing.T) {
	assert.True(t, StatusNormal < StatusWarning)
	assert.True(t, StatusWarning < StatusCritical)
	assert.True(t, StatusCritical < StatusEmergency)
}
