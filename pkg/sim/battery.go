package sim

// Discharge per measurement, in percent.
const (
	activeDischarge = 0.08
	sleepDischarge  = 0.02
)

// SensorPower describes one sensor's power budget.
type SensorPower struct {
	PowerMW      float64
	EfficiencyPc int
	HeatMW       float64
}

// PowerTable lists the power budget of every component on the board.
func PowerTable() map[string]SensorPower {
	return map[string]SensorPower{
		"MAX30102": {PowerMW: 15.0, EfficiencyPc: 95, HeatMW: 2.5},
		"ADS1292R": {PowerMW: 12.0, EfficiencyPc: 92, HeatMW: 3.0},
		"TMP117":   {PowerMW: 0.15, EfficiencyPc: 98, HeatMW: 0.05},
		"ICM42688": {PowerMW: 8.0, EfficiencyPc: 94, HeatMW: 1.8},
		"nRF52840": {PowerMW: 25.0, EfficiencyPc: 88, HeatMW: 4.5},
	}
}

// Battery is a simple discharge model: active measurements cost more
// than sleep cycles, and the level floors at zero.
type Battery struct {
	level float64
}

// NewBattery returns a full battery.
func NewBattery() *Battery {
	return &Battery{level: 100}
}

// Drain discharges one cycle's worth of charge.
func (b *Battery) Drain(active bool) {
	rate := sleepDischarge
	if active {
		rate = activeDischarge
	}
	b.level -= rate
	if b.level < 0 {
		b.level = 0
	}
}

// Level reports the remaining charge in percent.
func (b *Battery) Level() float64 { return b.level }

// Low reports whether the charge is in the low band.
func (b *Battery) Low() bool { return b.level < 50 }

// Critical reports whether the charge is in the critical band.
func (b *Battery) Critical() bool { return b.level < 20 }
