package record

// Size/time constants ported from pcrc/constant.py, used by the rollover
// and minimum-file-size checks below.
const (
	BytePerKB              = 1024
	BytePerMB              = BytePerKB * 1024
	MilliSecondPerHour     = 60 * 60 * 1000
	MinimumLegalFileSize   = 10 * BytePerKB
	DefaultShowInfoPeriod  = 5 * 60 * 1000 // ms between console progress logs
	DefaultShowInfoPackets = 100000        // or every N packets, whichever comes first
)
