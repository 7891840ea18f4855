package conn

import (
	"context"

	"github.com/pcrc-go/pcrc/packetproc"
	"github.com/pcrc-go/pcrc/wire"
)

// Play starts the play-state read loop in its own goroutine and returns
// a channel of resolved inbound packets plus a channel that receives at
// most one terminal error (spec §4.4 step 5, §5's NetIO task). The read
// loop also handles the mechanical auto-replies spec §4.4 calls out —
// Keep Alive echo, Teleport Confirm, and the Position And Look
// spawn-confirmation reply — inline, since they require no recorder
// involvement.
func (c *Connection) Play(ctx context.Context) (<-chan packetproc.NamedPacket, <-chan error) {
	out := make(chan packetproc.NamedPacket, 64)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)
		for {
			select {
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			default:
			}

			pkt, err := c.fr.ReadPacket()
			if err != nil {
				errc <- &ConnectionError{Kind: ErrorIO, Err: err}
				return
			}

			name, ok := c.table.NameOf(pkt.ID)
			if !ok {
				// Unrecognized id for this version's table; skip rather
				// than abort the whole session on one unknown packet.
				continue
			}
			np := packetproc.NamedPacket{Packet: pkt, Name: name}

			switch name {
			case "Keep Alive (clientbound)":
				if err := c.SendPacket(idKeepAliveOut, pkt.Body); err != nil {
					errc <- err
					return
				}
			case "Player Position And Look":
				if err := c.handlePositionAndLook(pkt.Body); err != nil {
					errc <- err
					return
				}
			}

			select {
			case out <- np:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()

	return out, errc
}

// handlePositionAndLook sends Teleport Confirm with the packet's
// teleport id, then echoes {x, feet_y, z, yaw, pitch, on_ground=true}
// back as a serverbound Position And Look so the server considers the
// player spawned (spec §4.4's "Player-position reply").
func (c *Connection) handlePositionAndLook(body []byte) error {
	pos, err := packetproc.DecodePlayerPositionAndLook(body)
	if err != nil {
		return &ConnectionError{Kind: ErrorIO, Err: err}
	}

	confirmBody := wire.EncodeVarInt(pos.TeleportID)
	if err := c.SendPacket(idTeleportConfirmOut, confirmBody); err != nil {
		return err
	}

	var replyBody []byte
	replyBody = wire.PutDouble(replyBody, pos.X)
	replyBody = wire.PutDouble(replyBody, pos.Y)
	replyBody = wire.PutDouble(replyBody, pos.Z)
	replyBody = wire.PutFloat(replyBody, pos.Yaw)
	replyBody = wire.PutFloat(replyBody, pos.Pitch)
	replyBody = wire.PutBool(replyBody, true) // on_ground
	return c.SendPacket(idPlayerPositionLookOut, replyBody)
}
