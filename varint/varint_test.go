package varint

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// canonicalSize computes the expected size from the little-endian bytes of v
func canonicalSize(v uint32) int {
	if v < 0xCF {
		return 1
	}
	var le [4]byte
	binary.LittleEndian.PutUint32(le[:], v)
	return 1 + 4 - bytes.Count(le[:], []byte{0})
}

var boundaries = []uint32{
	0, 1, 2, 3, 0xCD, 0xCE, 0xCF, 0xD0, 0xFF, 0x100, 0x101, 0x1FF, 0xFFFF, 0x10000, 0x10001,
	0xFF00, 0xFF0000, 0xFF000000, 0x01000000, 0x00FF00FF, 0xFFFFFF, 0x1000000, math.MaxUint32 - 1, math.MaxUint32,
}

func TestRoundTrip(t *testing.T) {
	t.Run("boundaries", func(t *testing.T) {
		for _, v := range boundaries {
			bin := Encode(v)
			require.EqualValues(t, canonicalSize(v), len(bin), "value %d", v)
			require.EqualValues(t, Size(v), len(bin))
			back, n, err := Decode(bin)
			require.NoError(t, err)
			require.EqualValues(t, v, back)
			require.EqualValues(t, len(bin), n)
		}
	})
	t.Run("random", func(t *testing.T) {
		rnd := rand.New(rand.NewSource(1))
		for i := 0; i < 100000; i++ {
			v := rnd.Uint32() >> uint(rnd.Intn(32))
			bin := Encode(v)
			require.EqualValues(t, canonicalSize(v), len(bin))
			back, n, err := Decode(bin)
			require.NoError(t, err)
			require.EqualValues(t, v, back)
			require.EqualValues(t, len(bin), n)
		}
	})
	t.Run("with tail", func(t *testing.T) {
		bin := append(Encode(0x1234), 0x03, 0x55)
		v, rest, err := Read(bin)
		require.NoError(t, err)
		require.EqualValues(t, 0x1234, v)
		require.EqualValues(t, []byte{0x03, 0x55}, rest)
	})
}

func TestKnownEncodings(t *testing.T) {
	t.Run("1", func(t *testing.T) {
		require.EqualValues(t, []byte{0x01}, Encode(0))
		require.EqualValues(t, []byte{0x02}, Encode(1))
		require.EqualValues(t, []byte{0xCF}, Encode(0xCE))
	})
	t.Run("2", func(t *testing.T) {
		require.EqualValues(t, []byte{0xF0, 0xCF}, Encode(0xCF))
		require.EqualValues(t, []byte{0xF1, 0x01}, Encode(0x100))
		require.EqualValues(t, []byte{0xF2, 0x01, 0x01}, Encode(0x101))
		require.EqualValues(t, []byte{0xFE, 0xFF, 0xFF, 0xFF, 0xFF}, Encode(math.MaxUint32))
		require.EqualValues(t, []byte{0xF7, 0x01}, Encode(0x01000000))
	})
}

func TestDecodeErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, _, err := Decode(nil)
		require.True(t, errors.Is(err, ErrUnexpectedEndOfStream))
	})
	t.Run("truncated", func(t *testing.T) {
		bin := Encode(0x01020304)
		for i := 1; i < len(bin); i++ {
			_, _, err := Decode(bin[:i])
			require.True(t, errors.Is(err, ErrUnexpectedEndOfStream))
		}
	})
	t.Run("bad markers", func(t *testing.T) {
		for _, m := range []byte{0x00, 0xD0, 0xD8, 0xE0, 0xEF, 0xFF} {
			_, _, err := Decode([]byte{m, 1, 1, 1, 1})
			require.True(t, errors.Is(err, ErrInvalidVarInt), "marker %x", m)
			require.False(t, IsMarker(m))
		}
	})
	t.Run("zero body byte", func(t *testing.T) {
		_, _, err := Decode([]byte{0xF2, 0x00, 0x05})
		require.True(t, errors.Is(err, ErrInvalidVarInt))
	})
	t.Run("non minimal", func(t *testing.T) {
		_, _, err := Decode([]byte{0xF0, 0x05})
		require.True(t, errors.Is(err, ErrInvalidVarInt))
	})
	t.Run("must", func(t *testing.T) {
		require.Panics(t, func() {
			MustDecode([]byte{0x02, 0x02})
		})
		require.EqualValues(t, 1, MustDecode([]byte{0x02}))
	})
}
