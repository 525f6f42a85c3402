// Package decode converts raw multi-byte register payloads into signed
// physical quantities. All functions are pure: no state, no I/O.
package decode

// TempResolution is the TMP117 conversion factor in °C per LSB.
const TempResolution = 0.0078125

// Int24 reconstructs a signed value from a 24-bit two's-complement sample,
// MSB first. The three bytes are shifted into the top of a 32-bit word and
// then arithmetically shifted right by 8, which propagates the sign bit.
func Int24(msb, mid, lsb byte) int32 {
	return (int32(msb)<<24 | int32(mid)<<16 | int32(lsb)<<8) >> 8
}

// Temperature converts a raw 16-bit TMP117 reading to °C. The register
// value is two's complement at a fixed resolution of 0.0078125 °C/LSB.
func Temperature(raw uint16) float64 {
	return float64(int16(raw)) * TempResolution
}

// Int16 combines two big-endian bytes into a signed 16-bit value.
func Int16(msb, lsb byte) int16 {
	return int16(uint16(msb)<<8 | uint16(lsb))
}

// Accel converts a raw 16-bit accelerometer or gyro reading into physical
// units given the configured full-scale range (g or dps).
func Accel(raw int16, fullScale float32) float32 {
	return float32(raw) * fullScale / 32768.0
}
