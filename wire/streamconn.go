package wire

import (
	"crypto/cipher"
	"net"
)

// StreamConn wraps a net.Conn and optionally applies AES-128/CFB8
// encryption to everything read from / written to it, per spec §4.1:
// "If encryption is enabled, all socket-level reads pass through AES-128/
// CFB8 stream decryption first." Writes are serialized by the caller
// (spec §5 — CFB8 is a stateful stream, so concurrent writers would
// corrupt it); StreamConn itself does no locking.
type StreamConn struct {
	net.Conn
	encryptStream cipher.Stream
	decryptStream cipher.Stream
}

func NewStreamConn(c net.Conn) *StreamConn {
	return &StreamConn{Conn: c}
}

// EnableEncryption installs AES-128/CFB8 read/write streams keyed by the
// shared secret negotiated during login (spec §4.4).
func (c *StreamConn) EnableEncryption(sharedSecret []byte) error {
	enc, err := NewAESCFB8Encrypter(sharedSecret)
	if err != nil {
		return err
	}
	dec, err := NewAESCFB8Decrypter(sharedSecret)
	if err != nil {
		return err
	}
	c.encryptStream = enc
	c.decryptStream = dec
	return nil
}

func (c *StreamConn) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	if n > 0 && c.decryptStream != nil {
		c.decryptStream.XORKeyStream(b[:n], b[:n])
	}
	return n, err
}

func (c *StreamConn) Write(b []byte) (int, error) {
	if c.encryptStream == nil {
		return c.Conn.Write(b)
	}
	out := make([]byte, len(b))
	c.encryptStream.XORKeyStream(out, b)
	return c.Conn.Write(out)
}
