package varint

import (
	"errors"
	"fmt"
	"io"
)

// Integers are self-describing. The first byte is a marker:
// - 0x01..0xCF: the value is marker-1, no more bytes follow
// - 0xF0..0xFE: (marker+1)&0x0F is a mask of the non-zero bytes of the value. Bit i set means
//   byte i (little-endian index) is present. Present bytes follow, most significant first.
// Any other marker is invalid. Only the minimal form is accepted by Decode.
const (
	MaxShortValue = uint32(0xCF) - 1

	shortMarkerFirst = byte(0x01)
	shortMarkerLast  = byte(0xCF)
	longMarkerFirst  = byte(0xF0)
	longMarkerLast   = byte(0xFE)
	longMarkerMask   = byte(0x0F)

	MaxSize = 5
)

var (
	ErrUnexpectedEndOfStream = errors.New("unexpected end of stream")
	ErrInvalidVarInt         = errors.New("invalid varint")
)

// IsMarker returns true if b can start an encoded integer
func IsMarker(b byte) bool {
	return (b >= shortMarkerFirst && b <= shortMarkerLast) || (b >= longMarkerFirst && b <= longMarkerLast)
}

// Size returns the number of bytes Encode produces for v
func Size(v uint32) int {
	if v <= MaxShortValue {
		return 1
	}
	ret := 1
	for i := 0; i < 4; i++ {
		if byte(v>>(8*i)) != 0 {
			ret++
		}
	}
	return ret
}

// Append appends minimal encoding of v to buf
func Append(buf []byte, v uint32) []byte {
	if v <= MaxShortValue {
		return append(buf, byte(v)+1)
	}
	markerPos := len(buf)
	buf = append(buf, 0)
	var mask byte
	for i := 3; i >= 0; i-- {
		if b := byte(v >> (8 * i)); b != 0 {
			mask |= 1 << i
			buf = append(buf, b)
		}
	}
	buf[markerPos] = longMarkerFirst + mask - 1
	return buf
}

func Encode(v uint32) []byte {
	return Append(make([]byte, 0, Size(v)), v)
}

func Write(w io.Writer, v uint32) error {
	_, err := w.Write(Encode(v))
	return err
}

// Decode reads one integer from the beginning of data. Returns value and number of consumed bytes
func Decode(data []byte) (uint32, int, error) {
	if len(data) == 0 {
		return 0, 0, ErrUnexpectedEndOfStream
	}
	marker := data[0]
	switch {
	case marker >= shortMarkerFirst && marker <= shortMarkerLast:
		return uint32(marker - 1), 1, nil
	case marker >= longMarkerFirst && marker <= longMarkerLast:
	default:
		return 0, 0, fmt.Errorf("%w: marker 0x%02x", ErrInvalidVarInt, marker)
	}
	mask := (marker + 1) & longMarkerMask
	var ret uint32
	pos := 1
	for i := 3; i >= 0; i-- {
		if mask&(1<<i) == 0 {
			continue
		}
		if pos >= len(data) {
			return 0, 0, ErrUnexpectedEndOfStream
		}
		b := data[pos]
		if b == 0 {
			return 0, 0, fmt.Errorf("%w: zero byte %d with marker 0x%02x", ErrInvalidVarInt, i, marker)
		}
		ret |= uint32(b) << (8 * i)
		pos++
	}
	if ret <= MaxShortValue {
		return 0, 0, fmt.Errorf("%w: non-minimal encoding of %d", ErrInvalidVarInt, ret)
	}
	return ret, pos, nil
}

// Read decodes an integer from data and returns the rest of the data
func Read(data []byte) (uint32, []byte, error) {
	v, n, err := Decode(data)
	if err != nil {
		return 0, nil, err
	}
	return v, data[n:], nil
}

func MustDecode(data []byte) uint32 {
	v, n, err := Decode(data)
	if err != nil {
		panic(err)
	}
	if n != len(data) {
		panic(fmt.Errorf("varint.MustDecode: %d bytes left", len(data)-n))
	}
	return v
}
