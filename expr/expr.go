package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lunfardo314/sestring/varint"
)

// Expression is one argument of a macro. The set of implementations is closed:
// Integer, String, Parameter and *Operator
type Expression interface {
	Bytes() []byte
	String() string
	appendBytes(buf []byte) []byte
}

// tag byte ranges. Integer literals occupy the varint marker ranges 0x01..0xCF and 0xF0..0xFE
const (
	TagMillisecond = byte(0xD8)
	TagSecond      = byte(0xD9)
	TagMinute      = byte(0xDA)
	TagHour        = byte(0xDB)
	TagDay         = byte(0xDC)
	TagWeekday     = byte(0xDD)
	TagMonth       = byte(0xDE)
	TagYear        = byte(0xDF)

	TagGreaterOrEqual = byte(0xE0)
	TagGreater        = byte(0xE1)
	TagLessOrEqual    = byte(0xE2)
	TagLess           = byte(0xE3)
	TagEqual          = byte(0xE4)
	TagNotEqual       = byte(0xE5)

	TagLocalNumber  = byte(0xE8)
	TagGlobalNumber = byte(0xE9)
	TagLocalString  = byte(0xEA)
	TagGlobalString = byte(0xEB)

	TagStackColor = byte(0xEC)

	TagString = byte(0xFF)
)

// MaxDepth limits nesting of operator expressions
const MaxDepth = 32

var (
	ErrUnexpectedEndOfStream = varint.ErrUnexpectedEndOfStream
	ErrInvalidVarInt         = varint.ErrInvalidVarInt
	ErrExpressionTooDeep     = errors.New("expression too deep")
	ErrUnknownExpressionTag  = errors.New("unknown expression tag")
	ErrParameterOutOfRange   = errors.New("parameter out of range")
	ErrOperandCount          = errors.New("wrong number of operands")
)

// Integer is an integer literal
type Integer uint32

func (i Integer) appendBytes(buf []byte) []byte {
	return varint.Append(buf, uint32(i))
}

func (i Integer) Bytes() []byte {
	return i.appendBytes(nil)
}

func (i Integer) String() string {
	return strconv.FormatUint(uint64(i), 10)
}

// String is a string literal. Its content is an encoded string which may contain macros itself
type String string

func (s String) appendBytes(buf []byte) []byte {
	buf = append(buf, TagString)
	buf = varint.Append(buf, uint32(len(s)))
	return append(buf, s...)
}

func (s String) Bytes() []byte {
	return s.appendBytes(nil)
}

func (s String) String() string {
	return strconv.Quote(string(s))
}

type Scope byte

const (
	Local = Scope(iota)
	Global
)

type Kind byte

const (
	NumberKind = Kind(iota)
	TextKind
)

// Parameter references a local or global parameter by 1-based index
type Parameter struct {
	Scope Scope
	Kind  Kind
	Index uint32
}

func LocalNumber(idx uint32) Parameter {
	return Parameter{Scope: Local, Kind: NumberKind, Index: idx}
}

func LocalText(idx uint32) Parameter {
	return Parameter{Scope: Local, Kind: TextKind, Index: idx}
}

func GlobalNumber(idx uint32) Parameter {
	return Parameter{Scope: Global, Kind: NumberKind, Index: idx}
}

func GlobalText(idx uint32) Parameter {
	return Parameter{Scope: Global, Kind: TextKind, Index: idx}
}

func (p Parameter) tag() byte {
	switch {
	case p.Scope == Local && p.Kind == NumberKind:
		return TagLocalNumber
	case p.Scope == Global && p.Kind == NumberKind:
		return TagGlobalNumber
	case p.Scope == Local:
		return TagLocalString
	}
	return TagGlobalString
}

func (p Parameter) appendBytes(buf []byte) []byte {
	buf = append(buf, p.tag())
	return varint.Append(buf, p.Index)
}

func (p Parameter) Bytes() []byte {
	return p.appendBytes(nil)
}

func (p Parameter) String() string {
	scope := "l"
	if p.Scope == Global {
		scope = "g"
	}
	kind := "num"
	if p.Kind == TextKind {
		kind = "str"
	}
	return fmt.Sprintf("%s%s%d", scope, kind, p.Index)
}

// Op is the tag byte of an operator expression
type Op byte

type opInfo struct {
	name  string
	arity int
}

var operators = map[Op]opInfo{
	Op(TagMillisecond):    {"t_msec", 0},
	Op(TagSecond):         {"t_sec", 0},
	Op(TagMinute):         {"t_min", 0},
	Op(TagHour):           {"t_hour", 0},
	Op(TagDay):            {"t_day", 0},
	Op(TagWeekday):        {"t_wday", 0},
	Op(TagMonth):          {"t_mon", 0},
	Op(TagYear):           {"t_year", 0},
	Op(TagGreaterOrEqual): {">=", 2},
	Op(TagGreater):        {">", 2},
	Op(TagLessOrEqual):    {"<=", 2},
	Op(TagLess):           {"<", 2},
	Op(TagEqual):          {"==", 2},
	Op(TagNotEqual):       {"!=", 2},
	Op(TagStackColor):     {"stackcolor", 0},
}

func (op Op) Arity() int {
	if info, ok := operators[op]; ok {
		return info.arity
	}
	return -1
}

func (op Op) String() string {
	if info, ok := operators[op]; ok {
		return info.name
	}
	return fmt.Sprintf("op(0x%02x)", byte(op))
}

// Operator is a clock placeholder, the stack color marker or a comparison
type Operator struct {
	Op       Op
	Operands []Expression
}

// NewOperator checks the operator code and arity
func NewOperator(op Op, operands ...Expression) (*Operator, error) {
	arity := op.Arity()
	if arity < 0 {
		return nil, fmt.Errorf("%w: 0x%02x is not an operator", ErrUnknownExpressionTag, byte(op))
	}
	if len(operands) != arity {
		return nil, fmt.Errorf("operator '%s' expects %d operands, got %d", op, arity, len(operands))
	}
	for i, o := range operands {
		if o == nil {
			return nil, fmt.Errorf("operator '%s': operand %d is nil", op, i)
		}
	}
	return &Operator{Op: op, Operands: operands}, nil
}

func MustNewOperator(op Op, operands ...Expression) *Operator {
	ret, err := NewOperator(op, operands...)
	if err != nil {
		panic(err)
	}
	return ret
}

func (o *Operator) appendBytes(buf []byte) []byte {
	buf = append(buf, byte(o.Op))
	for _, e := range o.Operands {
		if e != nil {
			buf = e.appendBytes(buf)
		}
	}
	return buf
}

func (o *Operator) Bytes() []byte {
	return o.appendBytes(nil)
}

func (o *Operator) String() string {
	switch len(o.Operands) {
	case 0:
		return o.Op.String()
	case 2:
		return fmt.Sprintf("[%s%s%s]", o.Operands[0], o.Op, o.Operands[1])
	}
	args := make([]string, len(o.Operands))
	for i, e := range o.Operands {
		if e != nil {
			args[i] = e.String()
		}
	}
	return fmt.Sprintf("%s(%s)", o.Op, strings.Join(args, ","))
}

// Concat encodes a sequence of expressions. nil expressions encode to nothing
func Concat(exprs ...Expression) []byte {
	var ret []byte
	for _, e := range exprs {
		if e != nil {
			ret = e.appendBytes(ret)
		}
	}
	return ret
}

func Equal(e1, e2 Expression) bool {
	if e1 == nil || e2 == nil {
		return e1 == nil && e2 == nil
	}
	return string(e1.Bytes()) == string(e2.Bytes())
}
