package expr

import (
	"fmt"

	"github.com/lunfardo314/sestring/varint"
)

// Parse reads one expression from the beginning of data and returns the remaining bytes
func Parse(data []byte) (Expression, []byte, error) {
	return parse(data, 0)
}

// FromBytes parses exactly one expression
func FromBytes(data []byte) (Expression, error) {
	ret, rest, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("expr.FromBytes: %d bytes left after expression %s", len(rest), ret)
	}
	return ret, nil
}

// ParseAll reads expressions until data is exhausted
func ParseAll(data []byte) ([]Expression, error) {
	ret := make([]Expression, 0)
	var e Expression
	var err error
	for len(data) > 0 {
		if e, data, err = Parse(data); err != nil {
			return nil, err
		}
		ret = append(ret, e)
	}
	return ret, nil
}

func parse(data []byte, depth int) (Expression, []byte, error) {
	if depth >= MaxDepth {
		return nil, nil, ErrExpressionTooDeep
	}
	if len(data) == 0 {
		return nil, nil, ErrUnexpectedEndOfStream
	}
	tag := data[0]
	if varint.IsMarker(tag) {
		v, rest, err := varint.Read(data)
		if err != nil {
			return nil, nil, err
		}
		return Integer(v), rest, nil
	}
	switch tag {
	case TagString:
		sz, rest, err := varint.Read(data[1:])
		if err != nil {
			return nil, nil, err
		}
		if uint32(len(rest)) < sz {
			return nil, nil, ErrUnexpectedEndOfStream
		}
		return String(rest[:sz]), rest[sz:], nil
	case TagLocalNumber, TagGlobalNumber, TagLocalString, TagGlobalString:
		idx, rest, err := varint.Read(data[1:])
		if err != nil {
			return nil, nil, err
		}
		p := Parameter{Index: idx}
		if tag == TagGlobalNumber || tag == TagGlobalString {
			p.Scope = Global
		}
		if tag == TagLocalString || tag == TagGlobalString {
			p.Kind = TextKind
		}
		return p, rest, nil
	}
	op := Op(tag)
	arity := op.Arity()
	if arity < 0 {
		return nil, nil, fmt.Errorf("%w: 0x%02x", ErrUnknownExpressionTag, tag)
	}
	ret := &Operator{
		Op:       op,
		Operands: make([]Expression, arity),
	}
	rest := data[1:]
	var err error
	for i := range ret.Operands {
		if ret.Operands[i], rest, err = parse(rest, depth+1); err != nil {
			return nil, nil, err
		}
	}
	return ret, rest, nil
}
