package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Reader bundles a bufio.Reader so VarInt decoding (which needs ReadByte)
// composes with the fixed-width primitives below.
type Reader struct {
	*bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return &Reader{br}
	}
	return &Reader{bufio.NewReader(r)}
}

func (r *Reader) ReadString(maxLen int) (string, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if n < 0 || (maxLen > 0 && int(n) > maxLen*4) {
		return "", newCodecError(BadVarInt, errors.New("string length out of range"))
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", newCodecError(TruncatedFrame, err)
	}
	if !utf8.Valid(buf) {
		return "", newCodecError(BadUTF8, errors.New("invalid utf8 string"))
	}
	return string(buf), nil
}

func (r *Reader) ReadUUID() (uuid.UUID, error) {
	var buf [16]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return uuid.UUID{}, newCodecError(TruncatedFrame, err)
	}
	return uuid.FromBytes(buf[:])
}

func (r *Reader) ReadLong() (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, newCodecError(TruncatedFrame, err)
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

func (r *Reader) ReadInt() (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, newCodecError(TruncatedFrame, err)
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

func (r *Reader) ReadShort() (int16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, newCodecError(TruncatedFrame, err)
	}
	return int16(binary.BigEndian.Uint16(buf[:])), nil
}

func (r *Reader) ReadFloat() (float32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, newCodecError(TruncatedFrame, err)
	}
	return math.Float32frombits(binary.BigEndian.Uint32(buf[:])), nil
}

func (r *Reader) ReadDouble() (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, newCodecError(TruncatedFrame, err)
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf[:])), nil
}

func (r *Reader) ReadByteArray() ([]byte, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, newCodecError(BadVarInt, errors.New("negative byte array length"))
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, newCodecError(TruncatedFrame, err)
	}
	return buf, nil
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, newCodecError(TruncatedFrame, err)
	}
	return b != 0, nil
}

// PutString appends a length-prefixed UTF-8 string to dst.
func PutString(dst []byte, s string) []byte {
	dst = PutVarInt(dst, int32(len(s)))
	return append(dst, s...)
}

// PutUUID appends the 16 raw bytes of id to dst.
func PutUUID(dst []byte, id uuid.UUID) []byte {
	b, _ := id.MarshalBinary()
	return append(dst, b...)
}

// PutLong appends the big-endian 8-byte encoding of v to dst.
func PutLong(dst []byte, v int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return append(dst, buf[:]...)
}

// PutInt appends the big-endian 4-byte encoding of v to dst.
func PutInt(dst []byte, v int32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	return append(dst, buf[:]...)
}

// PutShort appends the big-endian 2-byte encoding of v to dst.
func PutShort(dst []byte, v int16) []byte {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(v))
	return append(dst, buf[:]...)
}

// PutFloat appends the big-endian 4-byte IEEE-754 encoding of v to dst.
func PutFloat(dst []byte, v float32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], math.Float32bits(v))
	return append(dst, buf[:]...)
}

// PutDouble appends the big-endian 8-byte IEEE-754 encoding of v to dst.
func PutDouble(dst []byte, v float64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
	return append(dst, buf[:]...)
}

// PutByteArray appends a VarInt-length-prefixed byte array to dst.
func PutByteArray(dst []byte, b []byte) []byte {
	dst = PutVarInt(dst, int32(len(b)))
	return append(dst, b...)
}

// PutBool appends a single 0/1 byte to dst.
func PutBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}
