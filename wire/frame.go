package wire

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Packet is the decoded envelope described in spec §3: the id, the body
// that follows it, and a copy of the full frame bytes (id + body, after
// decompression) exactly as they arrived. The raw copy lets a recorder
// emit bit-exact frames for packets it never interprets.
type Packet struct {
	ID   int32
	Body []byte
	Raw  []byte
}

const maxFrameLength = 2 * 1024 * 1024 // 2 MiB, generous upper bound for a single MC frame

// FrameReader decodes the length-prefixed, optionally-compressed frame
// stream described in spec §4.1. It reads from whatever io.Reader it is
// given — the caller is responsible for handing it an already-decrypted
// stream when encryption is active (see StreamConn).
type FrameReader struct {
	r         *Reader
	threshold int // -1 when compression is disabled
}

func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: NewReader(r), threshold: -1}
}

// SetCompression enables compression handling with the given threshold.
// A negative threshold disables compression again.
func (f *FrameReader) SetCompression(threshold int) {
	f.threshold = threshold
}

// ReadPacket reads and decodes the next frame.
func (f *FrameReader) ReadPacket() (Packet, error) {
	length, err := ReadVarInt(f.r)
	if err != nil {
		return Packet{}, err
	}
	if length <= 0 || int(length) > maxFrameLength {
		return Packet{}, newCodecError(TruncatedFrame, errors.New("invalid frame length"))
	}
	frame := make([]byte, length)
	if _, err := io.ReadFull(f.r, frame); err != nil {
		return Packet{}, newCodecError(TruncatedFrame, err)
	}

	data := frame
	if f.threshold >= 0 {
		br := NewReader(bytes.NewReader(frame))
		dataLength, err := ReadVarInt(br)
		if err != nil {
			return Packet{}, err
		}
		rest, _ := io.ReadAll(br)
		if dataLength == 0 {
			data = rest
		} else {
			zr, err := zlib.NewReader(bytes.NewReader(rest))
			if err != nil {
				return Packet{}, newCodecError(DecompressFailed, err)
			}
			out := make([]byte, dataLength)
			if _, err := io.ReadFull(zr, out); err != nil {
				zr.Close()
				return Packet{}, newCodecError(DecompressFailed, err)
			}
			zr.Close()
			data = out
		}
	}

	pr := NewReader(bytes.NewReader(data))
	id, err := ReadVarInt(pr)
	if err != nil {
		return Packet{}, err
	}
	body, _ := io.ReadAll(pr)

	raw := make([]byte, 0, len(data))
	raw = PutVarInt(raw, id)
	raw = append(raw, body...)

	return Packet{ID: id, Body: body, Raw: raw}, nil
}

// FrameWriter mirrors FrameReader for the outbound direction.
type FrameWriter struct {
	w         io.Writer
	threshold int
}

func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w, threshold: -1}
}

func (f *FrameWriter) SetCompression(threshold int) {
	f.threshold = threshold
}

// WritePacket frames and writes id+body, applying compression if enabled.
func (f *FrameWriter) WritePacket(id int32, body []byte) error {
	inner := make([]byte, 0, len(body)+maxVarIntBytes)
	inner = PutVarInt(inner, id)
	inner = append(inner, body...)

	var frame []byte
	if f.threshold < 0 {
		frame = inner
	} else if len(inner) < f.threshold {
		frame = PutVarInt(make([]byte, 0, len(inner)+1), 0)
		frame = append(frame, inner...)
	} else {
		var compressed bytes.Buffer
		zw := zlib.NewWriter(&compressed)
		if _, err := zw.Write(inner); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		frame = PutVarInt(make([]byte, 0, maxVarIntBytes), int32(len(inner)))
		frame = append(frame, compressed.Bytes()...)
	}

	lengthPrefix := PutVarInt(make([]byte, 0, maxVarIntBytes), int32(len(frame)))
	if _, err := f.w.Write(lengthPrefix); err != nil {
		return err
	}
	_, err := f.w.Write(frame)
	return err
}
