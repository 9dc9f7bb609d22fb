package sestring

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lunfardo314/sestring/expr"
	"github.com/stretchr/testify/require"
)

// frameOf builds a frame by hand. Body length must fit the one byte varint form
func frameOf(code MacroCode, body ...byte) []byte {
	ret := []byte{FrameStart, byte(code), byte(len(body) + 1)}
	ret = append(ret, body...)
	return append(ret, FrameEnd)
}

func concat(data ...[]byte) []byte {
	return bytes.Join(data, nil)
}

// payloadBytes makes payload sequences comparable with cmp
func payloadBytes(s *SeString) [][]byte {
	ret := make([][]byte, s.Len())
	for i, p := range s.Payloads() {
		ret[i] = append([]byte{byte(p.Type())}, p.Bytes()...)
	}
	return ret
}

func TestFromBytesScenarios(t *testing.T) {
	t.Run("1", func(t *testing.T) {
		data := concat([]byte("Hi "), frameOf(CodeNewLine), []byte("!"))
		s, err := FromBytes(data)
		require.NoError(t, err)
		require.EqualValues(t, 3, s.Len())
		require.EqualValues(t, TextPayload("Hi "), s.Payloads()[0])
		m, ok := s.Payloads()[1].(*EmptyMacro)
		require.True(t, ok)
		require.EqualValues(t, CodeNewLine, m.Code())
		require.EqualValues(t, 0, len(m.Args()))
		require.EqualValues(t, TextPayload("!"), s.Payloads()[2])
		require.EqualValues(t, data, s.Bytes())
		require.EqualValues(t, "Hi <br>!", s.String())
		require.EqualValues(t, "Hi !", s.Text())
	})
	t.Run("2", func(t *testing.T) {
		data := []byte("Hello, world. Ünïcödé ok")
		s, err := FromBytes(data)
		require.NoError(t, err)
		require.EqualValues(t, 1, s.Len())
		require.EqualValues(t, TextPayload(data), s.Payloads()[0])

		res, err := s.Resolve(NewContext(English))
		require.NoError(t, err)
		require.True(t, res.Equal(s))
		require.EqualValues(t, string(data), res.Text())
	})
	t.Run("3", func(t *testing.T) {
		s, err := FromBytes(nil)
		require.NoError(t, err)
		require.EqualValues(t, 0, s.Len())
		require.EqualValues(t, 0, len(s.Bytes()))
	})
	t.Run("4", func(t *testing.T) {
		// sheet name "Item", person 1, row 4. No optional fields
		chunk := []byte{FrameStart, byte(CodeEnNoun), 0x09, 0xFF, 0x05, 'I', 't', 'e', 'm', 0x02, 0x05, FrameEnd}
		s, err := FromBytes(chunk)
		require.NoError(t, err)
		require.EqualValues(t, 1, s.Len())
		n, ok := s.Payloads()[0].(*NounMacro)
		require.True(t, ok)
		require.True(t, expr.Equal(expr.String("Item"), n.SheetName))
		require.True(t, expr.Equal(expr.Integer(DefaultPerson), n.PersonOrDefault()))
		require.True(t, expr.Equal(expr.Integer(4), n.RowID))
		require.Nil(t, n.Amount)
		require.Nil(t, n.Case)
		require.Nil(t, n.Extra)
		require.True(t, expr.Equal(expr.Integer(1), n.AmountOrDefault()))
		require.True(t, expr.Equal(expr.Integer(0), n.CaseOrDefault()))
		require.True(t, expr.Equal(expr.Integer(1), n.ExtraOrDefault()))
		require.EqualValues(t, English, n.Language())
		require.EqualValues(t, chunk, s.Bytes())
	})
}

func TestRawFallback(t *testing.T) {
	t.Run("unregistered known code", func(t *testing.T) {
		chunk := frameOf(CodePcName, 0x05)
		data := concat([]byte("a"), chunk, []byte("b"))
		s, err := FromBytes(data)
		require.NoError(t, err)
		require.EqualValues(t, 3, s.Len())
		raw, ok := s.Payloads()[1].(RawPayload)
		require.True(t, ok)
		require.EqualValues(t, chunk, raw.Bytes())
		code, ok := raw.Code()
		require.True(t, ok)
		require.EqualValues(t, CodePcName, code)
		require.EqualValues(t, data, s.Bytes())
	})
	t.Run("unknown code", func(t *testing.T) {
		chunk := frameOf(MacroCode(0x7F), 0x01, 0x02, 0x03)
		s, err := FromBytes(chunk)
		require.NoError(t, err)
		require.EqualValues(t, 1, s.Len())
		require.EqualValues(t, PayloadRaw, s.Payloads()[0].Type())
		require.EqualValues(t, chunk, s.Bytes())
		require.False(t, MacroCode(0x7F).IsKnown())
	})
	t.Run("zero length rule", func(t *testing.T) {
		chunk := frameOf(CodeNewLine, 0x02)
		_, err := MacroFromBytes(chunk)
		require.True(t, errors.Is(err, ErrExpectedZeroLength))
		require.True(t, errors.Is(err, ErrLengthMismatch))

		s, err := FromBytes(concat(chunk, frameOf(CodeNewLine)))
		require.NoError(t, err)
		require.EqualValues(t, 2, s.Len())
		require.EqualValues(t, PayloadRaw, s.Payloads()[0].Type())
		require.EqualValues(t, PayloadMacro, s.Payloads()[1].Type())
	})
	t.Run("missing end byte", func(t *testing.T) {
		data := []byte{FrameStart, byte(CodeNewLine), 0x01, 0x04, 'x'}
		_, err := MacroFromBytes(data[:4])
		require.True(t, errors.Is(err, ErrExpectedEndByte))
		require.True(t, errors.Is(err, ErrFraming))

		s, err := FromBytes(data)
		require.NoError(t, err)
		require.EqualValues(t, 2, s.Len())
		require.EqualValues(t, RawPayload(data[:4]), s.Payloads()[0])
		require.EqualValues(t, TextPayload("x"), s.Payloads()[1])
		require.EqualValues(t, data, s.Bytes())
	})
	t.Run("malformed length", func(t *testing.T) {
		data := []byte{'a', FrameStart, 0xD0, 'b'}
		s, err := FromBytes(data)
		require.NoError(t, err)
		require.EqualValues(t, 3, s.Len())
		require.EqualValues(t, RawPayload{FrameStart}, s.Payloads()[1])
		require.EqualValues(t, TextPayload([]byte{0xD0, 'b'}), s.Payloads()[2])
		require.EqualValues(t, data, s.Bytes())
	})
	t.Run("missing mandatory field", func(t *testing.T) {
		chunk := frameOf(CodeNum)
		_, err := MacroFromBytes(chunk)
		require.True(t, errors.Is(err, ErrMissingField))

		s, err := FromBytes(chunk)
		require.NoError(t, err)
		require.EqualValues(t, PayloadRaw, s.Payloads()[0].Type())
	})
	t.Run("truncated", func(t *testing.T) {
		for _, data := range [][]byte{
			{FrameStart},
			{'a', FrameStart, byte(CodeNewLine)},
			{FrameStart, byte(CodeNewLine), 0xF1},
			{FrameStart, byte(CodeNewLine), 0x05, FrameEnd},
			{FrameStart, byte(CodeNewLine), 0x01},
		} {
			_, err := FromBytes(data)
			require.True(t, errors.Is(err, ErrUnexpectedEndOfStream), "%x", data)
		}
	})
}

func TestRoundTripRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(1337))
	// bytes likely to form frames, expressions and varints
	alphabet := []byte{
		FrameStart, FrameEnd, 0x01, 0x02, 0x03, 0x05, 0xFF, 0xE8, 0xEA, 0xE0, 0xD8, 0xF0, 0xF1, 0xCF, 0xD0,
		byte(CodeNewLine), byte(CodeNum), byte(CodeIf), byte(CodeEnNoun), byte(CodeBold), byte(CodeSwitch), 'a', ' ',
	}
	decoded := 0
	for i := 0; i < 20000; i++ {
		data := make([]byte, rnd.Intn(24))
		for j := range data {
			if rnd.Intn(4) == 0 {
				data[j] = byte(rnd.Intn(256))
			} else {
				data[j] = alphabet[rnd.Intn(len(alphabet))]
			}
		}
		s, err := FromBytes(data)
		if err != nil {
			require.True(t, errors.Is(err, ErrUnexpectedEndOfStream), "%x: %v", data, err)
			continue
		}
		decoded++
		require.True(t, bytes.Equal(data, s.Bytes()), "%x", data)
		for _, p := range s.Payloads() {
			if p.Type() == PayloadText {
				require.False(t, bytes.Contains(p.Bytes(), []byte{FrameStart}))
			}
		}
	}
	require.True(t, decoded > 0)
}

func TestRoundTripConstructed(t *testing.T) {
	cond := expr.MustNewOperator(expr.Op(expr.TagGreaterOrEqual), expr.LocalNumber(1), expr.Integer(2))
	s := NewBuilder().
		Text("You have ").
		Macro(MustNewParamMacro(CodeNum, expr.LocalNumber(1))).
		Text(" ").
		Macro(MustNewArgsMacro(CodeIf, cond, expr.String("potions"), expr.String("potion"))).
		Macro(MustNewEmptyMacro(CodeNewLine)).
		Macro(MustNewValueMacro(CodeBold, expr.Integer(1))).
		Macro(MustNewNounMacro(CodeDeNoun, expr.String("Item"), expr.Integer(300), WithCase(expr.Integer(3)))).
		Raw([]byte{FrameStart, 0x7F, 0x01, FrameEnd}).
		Build()

	back, err := FromBytes(s.Bytes())
	require.NoError(t, err)
	if diff := cmp.Diff(payloadBytes(s), payloadBytes(back)); diff != "" {
		t.Errorf("payloads differ (-constructed +decoded):\n%s", diff)
	}
	require.True(t, s.Equal(back))
	require.EqualValues(t, s.Hash(), back.Hash())
	require.EqualValues(t, s.String(), back.String())
}

func TestBuilder(t *testing.T) {
	t.Run("merge", func(t *testing.T) {
		s := NewBuilder().Text("a").Text("").Text("b").Raw([]byte{1}).Text("c").Payload(TextPayload("d")).Build()
		require.EqualValues(t, 3, s.Len())
		require.EqualValues(t, TextPayload("ab"), s.Payloads()[0])
		require.EqualValues(t, TextPayload("cd"), s.Payloads()[2])
	})
	t.Run("new keeps payloads", func(t *testing.T) {
		s := New(TextPayload("a"), TextPayload("b"))
		require.EqualValues(t, 2, s.Len())
		s.Append(MustNewEmptyMacro(CodeHyphen))
		require.EqualValues(t, 3, s.Len())
		require.EqualValues(t, []byte{'a', 'b', FrameStart, byte(CodeHyphen), 0x01, FrameEnd}, s.Bytes())
	})
	t.Run("hash", func(t *testing.T) {
		s1 := New(TextPayload("ab"))
		s2 := New(TextPayload("a"), TextPayload("b"))
		require.EqualValues(t, s1.Hash(), s2.Hash())
		require.NotEqualValues(t, s1.Hash(), New(TextPayload("ba")).Hash())
	})
}
