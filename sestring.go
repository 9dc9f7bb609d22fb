package sestring

import (
	"bytes"
	"errors"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// SeString is a sequence of payloads in render order
type SeString struct {
	payloads []Payload
}

func New(payloads ...Payload) *SeString {
	return &SeString{payloads: payloads}
}

// FromBytes decodes a byte stream. Frames which cannot be decoded into a registered macro are
// kept as raw payloads, so that Bytes() reproduces the input exactly
func FromBytes(data []byte) (*SeString, error) {
	ret := &SeString{}
	for len(data) > 0 {
		if data[0] != FrameStart {
			end := bytes.IndexByte(data, FrameStart)
			if end < 0 {
				end = len(data)
			}
			ret.payloads = append(ret.payloads, TextPayload(data[:end]))
			data = data[end:]
			continue
		}
		p, size, err := readPayload(data)
		if err != nil {
			return nil, err
		}
		ret.payloads = append(ret.payloads, p)
		data = data[size:]
	}
	return ret, nil
}

func MustFromBytes(data []byte) *SeString {
	ret, err := FromBytes(data)
	if err != nil {
		panic(err)
	}
	return ret
}

// readPayload reads one frame. Only a truncated frame is an error
func readPayload(data []byte) (Payload, int, error) {
	f, err := readFrame(data)
	switch {
	case errors.Is(err, ErrInvalidVarInt):
		return RawPayload{FrameStart}, 1, nil
	case errors.Is(err, ErrUnexpectedEndOfStream):
		return nil, 0, err
	case err != nil:
		return rawFrame(data, f.size), f.size, nil
	}
	if !f.code.IsRegistered() {
		return rawFrame(data, f.size), f.size, nil
	}
	m, err := decodeFrame(f)
	if err != nil || !bytes.Equal(m.Bytes(), data[:f.size]) {
		return rawFrame(data, f.size), f.size, nil
	}
	return m, f.size, nil
}

func rawFrame(data []byte, size int) RawPayload {
	return bytes.Clone(data[:size])
}

func (s *SeString) Append(p ...Payload) *SeString {
	s.payloads = append(s.payloads, p...)
	return s
}

func (s *SeString) Payloads() []Payload {
	return s.payloads
}

func (s *SeString) Len() int {
	return len(s.payloads)
}

func (s *SeString) Bytes() []byte {
	var ret []byte
	for _, p := range s.payloads {
		ret = p.appendBytes(ret)
	}
	return ret
}

// Text concatenates text payloads
func (s *SeString) Text() string {
	var buf strings.Builder
	for _, p := range s.payloads {
		if t, ok := p.(TextPayload); ok {
			buf.WriteString(string(t))
		}
	}
	return buf.String()
}

func (s *SeString) String() string {
	var buf strings.Builder
	for _, p := range s.payloads {
		buf.WriteString(p.String())
	}
	return buf.String()
}

func (s *SeString) Equal(s1 *SeString) bool {
	if s == nil || s1 == nil {
		return s == nil && s1 == nil
	}
	return bytes.Equal(s.Bytes(), s1.Bytes())
}

func (s *SeString) Hash() [32]byte {
	return blake2b.Sum256(s.Bytes())
}

// Builder collects payloads merging adjacent text. Empty text is skipped
type Builder struct {
	payloads []Payload
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Payload(p ...Payload) *Builder {
	for _, pl := range p {
		t, isText := pl.(TextPayload)
		if !isText {
			b.payloads = append(b.payloads, pl)
			continue
		}
		if len(t) == 0 {
			continue
		}
		if n := len(b.payloads); n > 0 {
			if prev, ok := b.payloads[n-1].(TextPayload); ok {
				b.payloads[n-1] = prev + t
				continue
			}
		}
		b.payloads = append(b.payloads, t)
	}
	return b
}

func (b *Builder) Text(s string) *Builder {
	return b.Payload(TextPayload(s))
}

func (b *Builder) Macro(m Macro) *Builder {
	return b.Payload(m)
}

func (b *Builder) Raw(data []byte) *Builder {
	return b.Payload(RawPayload(bytes.Clone(data)))
}

func (b *Builder) Build() *SeString {
	return &SeString{payloads: b.payloads}
}
