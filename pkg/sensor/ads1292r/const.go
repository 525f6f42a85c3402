package ads1292r

// Register addresses.
const (
	RegID       = 0x00
	RegConfig1  = 0x01
	RegConfig2  = 0x02
	RegLoff     = 0x03
	RegCh1Set   = 0x04
	RegCh2Set   = 0x05
	RegRLDSens  = 0x06
	RegLoffSens = 0x07
	RegLoffStat = 0x08
	RegResp1    = 0x09
	RegResp2    = 0x0A
)

// Command bytes.
const (
	CmdWakeup  = 0x02
	CmdStandby = 0x04
	CmdReset   = 0x06
	CmdStart   = 0x08
	CmdStop    = 0x0A
	CmdRDataC  = 0x10 // continuous conversion
	CmdSDataC  = 0x11 // stop continuous conversion
	CmdRData   = 0x12 // single data read
	CmdRReg    = 0x20
	CmdWReg    = 0x40
)

// RDATA frame layout: 3 status bytes, then 3 bytes per channel.
const frameLen = 9
