package icm42688

// Register addresses, bank 0.
const (
	RegDeviceConfig    = 0x11
	RegDriveConfig     = 0x13
	RegIntConfig       = 0x14
	RegTempData1       = 0x1D
	RegAccelDataX1     = 0x1F
	RegGyroDataX1      = 0x25
	RegSignalPathReset = 0x4B
	RegPwrMgmt0        = 0x4E
	RegGyroConfig0     = 0x4F
	RegAccelConfig0    = 0x50
	RegWhoAmI          = 0x75
)

// WhoAmI is the identity byte of the ICM-42688-P.
const WhoAmI = 0x47

// PWR_MGMT0 bits.
const (
	pwrGyroLowNoise  = 3 << 2
	pwrAccelLowNoise = 3 << 0
	pwrOff           = 0x00
)

// readFlag is OR'd into the register address for SPI reads.
const readFlag = 0x80
