package record

import "github.com/pcrc-go/pcrc/packetproc"

// Config mirrors the subset of spec §6's recognized options that the
// recorder itself consults (the rest belong to conn/auth/chat/client).
type Config struct {
	ServerName string

	WithPlayerOnly       bool
	DelayBeforeAFKSeconds int64
	RecordPacketsWhenAFK bool

	FileSizeLimitMB       int64
	FileBufferSizeMB      int64
	TimeRecordedLimitHour int64

	TempFileDirectory    string
	StorageDirectory     string

	packetproc.Options // minimal_packets, remove_items/bats/phantoms, daytime, weather
}
