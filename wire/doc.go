// Package wire implements the Minecraft Java Edition framing primitives:
// VarInt/VarLong encoding, the length-prefixed primitive types used in
// packet bodies, and the frame reader/writer that layers zlib compression
// and AES-128/CFB8 encryption on top of a raw connection.
//
// Nothing in this package knows about packet names or ids beyond the
// leading VarInt id every frame carries; packet semantics live in
// protover and packetproc.
package wire
