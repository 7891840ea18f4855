// Package packetproc implements the clientbound play-packet inspector
// chain (spec §4.5): filtering, rewriting, player-list bookkeeping and
// entity bookkeeping performed on every packet before it reaches the
// recorder. It operates on symbolic packet names resolved through a
// protover.PacketTable rather than on raw wire ids, so the same logic
// runs unchanged across every supported protocol era.
package packetproc

import (
	"fmt"

	"github.com/pcrc-go/pcrc/protover"
	"github.com/pcrc-go/pcrc/wire"
)

// NamedPacket pairs a decoded wire.Packet with the symbolic name its id
// resolves to in the connection's protocol era.
type NamedPacket struct {
	wire.Packet
	Name string
}

// Resolve looks up p's name in table, returning an error for ids the
// table doesn't know (this should not happen for a well-formed server
// stream; a mismatch usually means the wrong protocol table was wired
// to the connection).
func Resolve(p wire.Packet, table *protover.PacketTable) (NamedPacket, error) {
	name, ok := table.NameOf(p.ID)
	if !ok {
		return NamedPacket{}, fmt.Errorf("packetproc: unknown clientbound play packet id %d", p.ID)
	}
	return NamedPacket{Packet: p, Name: name}, nil
}
