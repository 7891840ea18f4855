package packetproc

// BadPackets are packets ReplayMod itself ignores; they are never
// recorded regardless of configuration. Ported verbatim from the name
// list in utils/constant.py's BAD_PACKETS.
var BadPackets = map[string]bool{
	"Unlock Recipes":                  true,
	"Advancements":                    true,
	"Select Advancement Tab":          true,
	"Update Health":                   true,
	"Open Window":                     true,
	"Close Window (clientbound)":      true,
	"Set Slot":                        true,
	"Window Items":                    true,
	"Open Sign Editor":                true,
	"Statistics":                      true,
	"Set Experience":                  true,
	"Camera":                          true,
	"Player Abilities (clientbound)":  true,
	"Title":                           true,
	"Sculk Vibration Signal":          true,
}

// UselessPackets are additionally dropped when minimal_packets is set.
// Ported from utils/constant.py's USELESS_PACKETS (Chat Message is
// deliberately excluded, same as the original: chat is cheap and useful
// even in minimal mode).
var UselessPackets = map[string]bool{
	"Keep Alive (clientbound)":          true,
	"Statistics":                        true,
	"Server Difficulty":                 true,
	"Tab-Complete (clientbound)":        true,
	"Confirm Transaction (clientbound)": true,
	"Window Property":                   true,
	"Set Cooldown":                      true,
	"Named Sound Effect":                true,
	"Map":                               true,
	"Resource Pack Send":                true,
	"Display Scoreboard":                true,
	"Scoreboard Objective":              true,
	"Teams":                             true,
	"Update Score":                      true,
	"Sound Effect":                      true,
}

// ImportantPackets are always recorded even while the recorder is AFK, so
// the replay keeps accurate player metadata across AFK gaps (spec §4.8).
var ImportantPackets = map[string]bool{
	"Player List Item": true,
}

// EntityIDFirstPackets is the fixed list of packet names whose body opens
// with a VarInt entity id (spec §4.5 step 8): movement, rotation,
// equipment, metadata, effects, teleports, velocity, sound, animation.
// The exact set varies a little release to release (entries added in
// 1.14 are included here since this project's packet tables start at
// 1.12 and keep the same symbolic names across eras where the packet
// still carries an entity id first).
var EntityIDFirstPackets = map[string]bool{
	"Entity":                           true,
	"Entity Relative Move":             true,
	"Entity Look And Relative Move":    true,
	"Entity Look":                      true,
	"Entity Teleport":                  true,
	"Entity Status":                    true,
	"Remove Entity Effect":             true,
	"Entity Head Look":                 true,
	"Entity Metadata":                  true,
	"Entity Velocity":                  true,
	"Entity Equipment":                 true,
	"Entity Properties":                true,
	"Entity Effect":                    true,
	"Entity Sound Effect":              true,
	"Entity Movement":                  true,
	"Entity Rotation":                  true,
	"Entity Position and Rotation":     true,
	"Entity Position":                  true,
	"Entity Animation (clientbound)":   true,
	"Collect Item":                     true,
	"Attach Entity":                    true,
	"Set Passengers":                   true,
}

// IsImportant reports whether packetName should be recorded even while
// the recorder is considered AFK (spec §4.8's is_important).
func IsImportant(packetName string) bool {
	return ImportantPackets[packetName]
}
