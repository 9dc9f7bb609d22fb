package lazyslice

import (
	"bytes"
	"errors"
	"testing"

	"github.com/lunfardo314/sestring/varint"
	"github.com/stretchr/testify/require"
)

const howMany = 250

var data [][]byte

func init() {
	data = make([][]byte, howMany)
	for i := range data {
		data[i] = varint.Encode(uint32(i * 1000))
	}
}

func TestLazySliceSemantics(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		ls := ArrayFromBytes(nil)
		require.EqualValues(t, 0, len(ls.Bytes()))
		require.Panics(t, func() {
			ls.NumElements()
		})
	})
	t.Run("empty", func(t *testing.T) {
		ls := EmptyArray()
		require.EqualValues(t, []byte{0x01}, ls.Bytes())
		require.EqualValues(t, 0, ls.NumElements())
	})
	t.Run("serialize all nil", func(t *testing.T) {
		ls := EmptyArray()
		for i := 0; i < 3; i++ {
			require.EqualValues(t, i, ls.Push(nil))
		}
		lsBin := ls.Bytes()
		require.EqualValues(t, []byte{0x04, 0x01, 0x01, 0x01}, lsBin)
		lsBack := ArrayFromBytes(lsBin)
		require.EqualValues(t, 3, lsBack.NumElements())
		for i := 0; i < 3; i++ {
			require.EqualValues(t, 0, len(lsBack.At(i)))
		}
	})
	t.Run("serialize some nil", func(t *testing.T) {
		ls := EmptyArray()
		ls.Push(nil)
		ls.Push(nil)
		ls.Push(data[17])
		ls.Push(nil)
		ls.Push([]byte("1234567890"))
		require.EqualValues(t, 5, ls.NumElements())
		lsBin := ls.Bytes()
		lsBack := ArrayFromBytes(lsBin)
		require.EqualValues(t, 5, lsBack.NumElements())
		require.EqualValues(t, 0, len(lsBack.At(0)))
		require.EqualValues(t, 0, len(lsBack.At(1)))
		require.EqualValues(t, data[17], lsBack.At(2))
		require.EqualValues(t, 0, len(lsBack.At(3)))
		require.EqualValues(t, []byte("1234567890"), lsBack.At(4))
		require.Nil(t, lsBack.At(5))
	})
	t.Run("deserialize rubbish", func(t *testing.T) {
		ls := EmptyArray()
		ls.Push(data[17])
		lsBin := ls.Bytes()
		lsBack := ArrayFromBytes(lsBin)
		require.NotPanics(t, func() {
			require.EqualValues(t, data[17], lsBack.At(0))
		})
		lsBinWrong := append(bytes.Clone(lsBin), 1, 2, 3)
		lsBack = ArrayFromBytes(lsBinWrong)
		require.Panics(t, func() {
			lsBack.At(0)
		})
		_, err := ParseArray(lsBinWrong)
		require.True(t, errors.Is(err, ErrNotAllConsumed))
		_, err = ParseArray([]byte{0x02, 0x05, 'a'})
		require.True(t, errors.Is(err, varint.ErrUnexpectedEndOfStream))
		_, err = ParseArray([]byte{0xD0})
		require.True(t, errors.Is(err, varint.ErrInvalidVarInt))
	})
	t.Run("push+boundaries", func(t *testing.T) {
		ls := ArrayFromBytes(nil)
		require.Panics(t, func() {
			ls.Push(data[17])
		})
		ls = EmptyArray()
		require.NotPanics(t, func() {
			ls.Push(data[17])
		})
		require.EqualValues(t, data[17], ls.At(0))
		require.EqualValues(t, 1, ls.NumElements())
		ser := ls.Bytes()
		lsBack := ArrayFromBytes(ser)
		require.EqualValues(t, 1, lsBack.NumElements())
		require.EqualValues(t, ls.At(0), lsBack.At(0))
		require.Nil(t, lsBack.At(100))

		lsBack.Push([]byte("x"))
		again, err := ParseArray(lsBack.Bytes())
		require.NoError(t, err)
		require.EqualValues(t, 2, again.NumElements())
		require.EqualValues(t, data[17], again.At(0))
		require.EqualValues(t, []byte("x"), again.At(1))
	})
	t.Run("too long", func(t *testing.T) {
		require.NotPanics(t, func() {
			ls := EmptyArray()
			ls.Push(bytes.Repeat(data[1], 256))
		})
		require.Panics(t, func() {
			ls := EmptyArray(300)
			for i := 0; i < 301; i++ {
				ls.Push(data[0])
			}
		})
		ls := EmptyArray(2)
		ls.Push(nil)
		ls.Push(nil)
		require.Panics(t, func() {
			ls.Push(nil)
		})
		_, err := ParseArray(ls.Bytes(), 1)
		require.Error(t, err)
	})
	t.Run("serialize long", func(t *testing.T) {
		ls := EmptyArray()
		for i := 0; i < 100; i++ {
			ls.Push(bytes.Repeat(data[i], 2000))
		}
		lsBack, err := ParseArray(ls.Bytes())
		require.NoError(t, err)
		require.EqualValues(t, ls.NumElements(), lsBack.NumElements())
		for i := 0; i < 100; i++ {
			require.EqualValues(t, ls.At(i), lsBack.At(i))
		}
		require.EqualValues(t, ls.Bytes(), lsBack.Bytes())
	})
}
