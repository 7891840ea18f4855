package wire

import (
	"crypto/aes"
	"crypto/cipher"
)

// cfb8 implements AES-128/CFB8 stream encryption, the mode Minecraft's
// protocol uses for the post-encryption-response socket stream. Go's
// standard library only ships whole-block CFB (cipher.NewCFBEncrypter),
// so CFB8 is hand-rolled here; no third-party package in the retrieved
// corpus implements CFB8 either (see DESIGN.md).
type cfb8 struct {
	block     cipher.Block
	iv        []byte
	decrypt   bool
	blockSize int
}

func newCFB8(block cipher.Block, iv []byte, decrypt bool) *cfb8 {
	shiftReg := make([]byte, len(iv))
	copy(shiftReg, iv)
	return &cfb8{block: block, iv: shiftReg, decrypt: decrypt, blockSize: block.BlockSize()}
}

// XORKeyStream encrypts or decrypts src into dst, one byte at a time, per
// the CFB8 feedback loop: E(shiftReg) XOR byte, then shift the result (for
// decryption, the received ciphertext byte) into the register.
func (c *cfb8) XORKeyStream(dst, src []byte) {
	tmp := make([]byte, c.blockSize)
	for i, b := range src {
		c.block.Encrypt(tmp, c.iv)
		out := tmp[0] ^ b
		var feedback byte
		if c.decrypt {
			feedback = b
		} else {
			feedback = out
		}
		copy(c.iv, c.iv[1:])
		c.iv[len(c.iv)-1] = feedback
		dst[i] = out
	}
}

// NewAESCFB8Encrypter builds an encrypting CFB8 stream over key/iv
// (both 16 bytes, the Minecraft shared secret doubling as the IV).
func NewAESCFB8Encrypter(key []byte) (cipher.Stream, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return newCFB8(block, key, false), nil
}

// NewAESCFB8Decrypter builds a decrypting CFB8 stream over key/iv.
func NewAESCFB8Decrypter(key []byte) (cipher.Stream, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return newCFB8(block, key, true), nil
}
