// Package protover holds the per-protocol-version descriptors spec §4.2
// requires: numeric protocol id, clientbound play-state packet name<->id
// table, and the mob type ids (item/bat/phantom) that vary release to
// release. Everything here is immutable data; the packet table is looked
// up once when a connection is dialed and cached on that connection.
package protover

import "fmt"

// Version is an immutable protocol version descriptor (spec §3).
type Version struct {
	Label             string
	Protocol          int32
	FileFormatVersion int
	EntityTypeItem    int32
	EntityTypeBat     int32
	EntityTypePhantom int32
}

// era groups protocol versions that share the same clientbound play
// packet-id assignment generation; see packets.go.
type era int

const (
	era112 era = iota
	era114
	era116
)

var versionEra = map[string]era{
	"1.12":   era112,
	"1.12.2": era112,
	"1.14.4": era114,
	"1.15.2": era114,
	"1.16.1": era116,
	"1.16.2": era116,
	"1.16.3": era116,
	"1.16.4": era116,
	"1.16.5": era116,
	"1.17.1": era116,
	"1.18":   era116,
	"1.18.1": era116,
	"1.18.2": era116,
}

// Versions is the authoritative supported-version table (spec §6): MC
// 1.12 through 1.18.2. Protocol numbers and EntityType* ids for 1.12
// through 1.18.1 are carried over verbatim from the original PCRC's
// constant tables (pcrc/constant.py); 1.16.5 and 1.18.2 are not present
// in that source table (it predates those releases) and are filled in
// here by extrapolation from their same-era siblings (1.16.5 mirrors the
// 1.16.1-1.16.4 family, 1.18.2 mirrors 1.17.1/1.18/1.18.1) — per spec §9's
// guidance, an unlisted version is refused outright rather than guessed,
// but these two are explicitly named in spec §6 so they get a considered
// entry instead of a refusal.
var Versions = map[string]Version{
	"1.12":   {Label: "1.12", Protocol: 335, FileFormatVersion: 6, EntityTypeItem: 2, EntityTypeBat: 65, EntityTypePhantom: -1},
	"1.12.2": {Label: "1.12.2", Protocol: 340, FileFormatVersion: 9, EntityTypeItem: 2, EntityTypeBat: 65, EntityTypePhantom: -1},
	"1.14.4": {Label: "1.14.4", Protocol: 498, FileFormatVersion: 14, EntityTypeItem: 34, EntityTypeBat: 3, EntityTypePhantom: 97},
	"1.15.2": {Label: "1.15.2", Protocol: 578, FileFormatVersion: 14, EntityTypeItem: 35, EntityTypeBat: 3, EntityTypePhantom: 98},
	"1.16.1": {Label: "1.16.1", Protocol: 736, FileFormatVersion: 14, EntityTypeItem: 35, EntityTypeBat: 3, EntityTypePhantom: 58},
	"1.16.2": {Label: "1.16.2", Protocol: 751, FileFormatVersion: 14, EntityTypeItem: 35, EntityTypeBat: 3, EntityTypePhantom: 58},
	"1.16.3": {Label: "1.16.3", Protocol: 753, FileFormatVersion: 14, EntityTypeItem: 35, EntityTypeBat: 3, EntityTypePhantom: 58},
	"1.16.4": {Label: "1.16.4", Protocol: 754, FileFormatVersion: 14, EntityTypeItem: 35, EntityTypeBat: 3, EntityTypePhantom: 58},
	"1.16.5": {Label: "1.16.5", Protocol: 754, FileFormatVersion: 14, EntityTypeItem: 35, EntityTypeBat: 3, EntityTypePhantom: 58},
	"1.17.1": {Label: "1.17.1", Protocol: 756, FileFormatVersion: 14, EntityTypeItem: 41, EntityTypeBat: 4, EntityTypePhantom: 63},
	"1.18":   {Label: "1.18", Protocol: 757, FileFormatVersion: 14, EntityTypeItem: 41, EntityTypeBat: 4, EntityTypePhantom: 63},
	"1.18.1": {Label: "1.18.1", Protocol: 757, FileFormatVersion: 14, EntityTypeItem: 41, EntityTypeBat: 4, EntityTypePhantom: 63},
	"1.18.2": {Label: "1.18.2", Protocol: 758, FileFormatVersion: 14, EntityTypeItem: 41, EntityTypeBat: 4, EntityTypePhantom: 63},
}

var protocolToLabel = func() map[int32]string {
	m := make(map[int32]string, len(Versions))
	for label, v := range Versions {
		if _, ok := m[v.Protocol]; !ok {
			m[v.Protocol] = label
		}
	}
	return m
}()

// ErrUnsupportedVersion is returned by Lookup/ByProtocol for anything not
// in Versions. Per spec §9, the caller must refuse to start rather than
// guess at an unlisted version's packet table.
type ErrUnsupportedVersion struct {
	Requested string
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("protover: unsupported minecraft version %q", e.Requested)
}

// Lookup returns the Version descriptor for a version label (e.g. "1.16.5").
func Lookup(label string) (Version, error) {
	v, ok := Versions[label]
	if !ok {
		return Version{}, &ErrUnsupportedVersion{Requested: label}
	}
	return v, nil
}

// IsPre114 reports whether a version label uses the legacy pre-1.14
// binary layout (fixed-size byte entity/mob type ids, string-encoded
// UUIDs in Spawn Player) rather than the VarInt/raw-UUID layout 1.14+
// introduced. packetproc needs this to decode Spawn Player / Spawn
// Object / Spawn Living Entity bodies.
func IsPre114(label string) bool {
	e, ok := versionEra[label]
	return ok && e == era112
}

// ByProtocol returns the Version descriptor for a numeric protocol id.
func ByProtocol(protocol int32) (Version, error) {
	label, ok := protocolToLabel[protocol]
	if !ok {
		return Version{}, &ErrUnsupportedVersion{Requested: fmt.Sprintf("protocol %d", protocol)}
	}
	return Versions[label], nil
}
