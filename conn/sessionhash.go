package conn

import (
	"crypto/sha1"
	"math/big"
)

// ServerHash implements the legacy Minecraft session-join hash: SHA1 of
// serverID || sharedSecret || publicKey, interpreted as a big-endian
// two's-complement signed integer and printed in lowercase hex (with a
// leading "-" for negative values, matching Java's
// new BigInteger(digest).toString(16)). Ported from the original
// project's SARC/utils.py login() and wiki.vg's "Server ID" algorithm.
func ServerHash(serverID string, sharedSecret, publicKey []byte) string {
	h := sha1.New()
	h.Write([]byte(serverID))
	h.Write(sharedSecret)
	h.Write(publicKey)
	digest := h.Sum(nil)

	n := new(big.Int).SetBytes(digest)
	if digest[0]&0x80 != 0 {
		// Interpret as a negative two's-complement integer: value - 2^(8*len).
		max := new(big.Int).Lsh(big.NewInt(1), uint(len(digest)*8))
		n.Sub(n, max)
	}
	return n.Text(16)
}
