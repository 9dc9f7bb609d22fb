package sestring

import (
	"fmt"

	"github.com/lunfardo314/easyfl"
)

const (
	FrameStart = byte(0x02)
	FrameEnd   = byte(0x03)
)

type PayloadType byte

const (
	PayloadText = PayloadType(iota)
	PayloadRaw
	PayloadMacro
)

func (t PayloadType) String() string {
	switch t {
	case PayloadText:
		return "text"
	case PayloadRaw:
		return "raw"
	case PayloadMacro:
		return "macro"
	}
	return fmt.Sprintf("payload_type(%d)", byte(t))
}

// Payload is an element of SeString. Implementations: TextPayload, RawPayload and Macro variants
type Payload interface {
	Type() PayloadType
	Bytes() []byte
	String() string
	appendBytes(buf []byte) []byte
}

// TextPayload is a run of literal bytes outside of frames
type TextPayload string

func NewTextPayload(s string) TextPayload {
	return TextPayload(s)
}

func (t TextPayload) Type() PayloadType {
	return PayloadText
}

func (t TextPayload) appendBytes(buf []byte) []byte {
	return append(buf, t...)
}

func (t TextPayload) Bytes() []byte {
	return []byte(t)
}

func (t TextPayload) String() string {
	return string(t)
}

// RawPayload keeps bytes of an unsupported or malformed frame verbatim
type RawPayload []byte

func NewRawPayload(data []byte) RawPayload {
	return data
}

func (r RawPayload) Type() PayloadType {
	return PayloadRaw
}

func (r RawPayload) appendBytes(buf []byte) []byte {
	return append(buf, r...)
}

func (r RawPayload) Bytes() []byte {
	return r
}

func (r RawPayload) String() string {
	return fmt.Sprintf("<raw(%s)>", easyfl.Fmt(r))
}

// Code returns the macro code of the raw frame, if it looks like one
func (r RawPayload) Code() (MacroCode, bool) {
	if len(r) < 2 || r[0] != FrameStart {
		return 0, false
	}
	return MacroCode(r[1]), true
}

func PayloadsEqual(p1, p2 Payload) bool {
	if p1 == nil || p2 == nil {
		return p1 == nil && p2 == nil
	}
	return p1.Type() == p2.Type() && string(p1.Bytes()) == string(p2.Bytes())
}
