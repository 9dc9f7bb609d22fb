package sestring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lunfardo314/sestring/expr"
	"github.com/lunfardo314/sestring/varint"
)

// Macro is a framed payload: FrameStart, code, varint body length, body, FrameEnd
type Macro interface {
	Payload
	Code() MacroCode
	// Args returns public fields in wire order
	Args() []expr.Expression
	body() []byte
}

var errUnsupportedCode = errors.New("unsupported macro code")

func appendFrame(buf []byte, code MacroCode, body []byte) []byte {
	buf = append(buf, FrameStart, byte(code))
	buf = varint.Append(buf, uint32(len(body)))
	buf = append(buf, body...)
	return append(buf, FrameEnd)
}

func macroBytes(m Macro) []byte {
	return appendFrame(nil, m.Code(), m.body())
}

func macroString(code MacroCode, args []expr.Expression) string {
	if len(args) == 0 {
		return fmt.Sprintf("<%s>", code)
	}
	s := make([]string, len(args))
	for i, a := range args {
		if a == nil {
			s[i] = "nil"
			continue
		}
		s[i] = a.String()
	}
	return fmt.Sprintf("<%s(%s)>", code, strings.Join(s, ","))
}

type frame struct {
	code MacroCode
	body []byte
	// size of the whole frame. 0 if unknown
	size int
}

// readFrame reads frame at the beginning of data. If the declared length is known, the returned
// frame has size set even when the frame is invalid
func readFrame(data []byte) (frame, error) {
	if len(data) == 0 {
		return frame{}, ErrUnexpectedEndOfStream
	}
	if data[0] != FrameStart {
		return frame{}, fmt.Errorf("%w: got 0x%02x", ErrExpectedStartByte, data[0])
	}
	if len(data) < 2 {
		return frame{}, ErrUnexpectedEndOfStream
	}
	ret := frame{code: MacroCode(data[1])}
	length, n, err := varint.Decode(data[2:])
	if err != nil {
		return frame{}, err
	}
	bodyStart := 2 + n
	end := uint64(bodyStart) + uint64(length)
	if end >= uint64(len(data)) {
		return frame{}, fmt.Errorf("%w: frame '%s' declares %d bytes, %d available",
			ErrUnexpectedEndOfStream, ret.code, length, len(data)-bodyStart)
	}
	ret.size = int(end) + 1
	ret.body = data[bodyStart:end]
	if data[end] != FrameEnd {
		return ret, fmt.Errorf("%w: frame '%s', got 0x%02x", ErrExpectedEndByte, ret.code, data[end])
	}
	return ret, nil
}

func decodeFrame(f frame) (Macro, error) {
	rec, ok := lookupMacro(f.code)
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02x", errUnsupportedCode, byte(f.code))
	}
	ret, err := rec.decode(f.code, f.body)
	if err != nil {
		return nil, fmt.Errorf("macro '%s': %w", f.code, err)
	}
	if ret.Code() != f.code {
		return nil, fmt.Errorf("%w: '%s' decoded as '%s'", ErrExpectedMacroCode, f.code, ret.Code())
	}
	return ret, nil
}

// MacroFromBytes decodes exactly one frame of a registered macro
func MacroFromBytes(data []byte) (Macro, error) {
	f, err := readFrame(data)
	if err != nil {
		return nil, err
	}
	if f.size != len(data) {
		return nil, fmt.Errorf("%w: %d bytes after the frame", ErrLengthMismatch, len(data)-f.size)
	}
	return decodeFrame(f)
}

func checkShape(code MacroCode, s shape) (*macroRecord, error) {
	rec, ok := lookupMacro(code)
	if !ok {
		return nil, fmt.Errorf("%w: '%s' is not registered", ErrWrongShape, code)
	}
	if rec.shape != s {
		return nil, fmt.Errorf("%w: '%s' is %s, not %s", ErrWrongShape, code, rec.shape, s)
	}
	return rec, nil
}

func checkNotNil(code MacroCode, args ...expr.Expression) error {
	for i, a := range args {
		if a == nil {
			return fmt.Errorf("%w: '%s' argument %d", ErrMissingField, code, i)
		}
	}
	return nil
}

//------------------------------------------------------------------------------

// EmptyMacro has no arguments and an empty body
type EmptyMacro struct {
	code MacroCode
}

func NewEmptyMacro(code MacroCode) (*EmptyMacro, error) {
	if _, err := checkShape(code, shapeEmpty); err != nil {
		return nil, err
	}
	return &EmptyMacro{code: code}, nil
}

func MustNewEmptyMacro(code MacroCode) *EmptyMacro {
	ret, err := NewEmptyMacro(code)
	if err != nil {
		panic(err)
	}
	return ret
}

func decodeEmpty(code MacroCode, body []byte) (Macro, error) {
	if len(body) != 0 {
		return nil, fmt.Errorf("%w: body is %d bytes", ErrExpectedZeroLength, len(body))
	}
	return &EmptyMacro{code: code}, nil
}

func (m *EmptyMacro) Type() PayloadType { return PayloadMacro }
func (m *EmptyMacro) Code() MacroCode { return m.code }
func (m *EmptyMacro) Args() []expr.Expression { return nil }
func (m *EmptyMacro) body() []byte { return nil }
func (m *EmptyMacro) Bytes() []byte { return macroBytes(m) }
func (m *EmptyMacro) appendBytes(buf []byte) []byte { return appendFrame(buf, m.code, nil) }
func (m *EmptyMacro) String() string { return macroString(m.code, nil) }

//------------------------------------------------------------------------------

// ValueMacro has exactly one argument
type ValueMacro struct {
	code  MacroCode
	Value expr.Expression
}

func NewValueMacro(code MacroCode, value expr.Expression) (*ValueMacro, error) {
	if _, err := checkShape(code, shapeValue); err != nil {
		return nil, err
	}
	if err := checkNotNil(code, value); err != nil {
		return nil, err
	}
	return &ValueMacro{code: code, Value: value}, nil
}

func MustNewValueMacro(code MacroCode, value expr.Expression) *ValueMacro {
	ret, err := NewValueMacro(code, value)
	if err != nil {
		panic(err)
	}
	return ret
}

func decodeValue(code MacroCode, body []byte) (Macro, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: value", ErrMissingField)
	}
	e, rest, err := expr.Parse(body)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d bytes after the value", ErrLengthMismatch, len(rest))
	}
	return &ValueMacro{code: code, Value: e}, nil
}

func (m *ValueMacro) Type() PayloadType { return PayloadMacro }
func (m *ValueMacro) Code() MacroCode { return m.code }
func (m *ValueMacro) Args() []expr.Expression { return []expr.Expression{m.Value} }
func (m *ValueMacro) body() []byte { return expr.Concat(m.Value) }
func (m *ValueMacro) Bytes() []byte { return macroBytes(m) }
func (m *ValueMacro) String() string { return macroString(m.code, m.Args()) }

func (m *ValueMacro) appendBytes(buf []byte) []byte {
	return appendFrame(buf, m.code, m.body())
}

//------------------------------------------------------------------------------

// ParamMacro substitutes a parameter value. In encoded form the value may be followed by a
// terminator expression. The terminator is kept only to reproduce the original bytes
type ParamMacro struct {
	code       MacroCode
	Value      expr.Expression
	terminator expr.Expression
}

func NewParamMacro(code MacroCode, value expr.Expression) (*ParamMacro, error) {
	if _, err := checkShape(code, shapeParam); err != nil {
		return nil, err
	}
	if err := checkNotNil(code, value); err != nil {
		return nil, err
	}
	return &ParamMacro{code: code, Value: value}, nil
}

func MustNewParamMacro(code MacroCode, value expr.Expression) *ParamMacro {
	ret, err := NewParamMacro(code, value)
	if err != nil {
		panic(err)
	}
	return ret
}

func decodeParam(code MacroCode, body []byte) (Macro, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: value", ErrMissingField)
	}
	ret := &ParamMacro{code: code}
	var err error
	if ret.Value, body, err = expr.Parse(body); err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return ret, nil
	}
	if ret.terminator, body, err = expr.Parse(body); err != nil {
		return nil, fmt.Errorf("terminator: %w", err)
	}
	if len(body) != 0 {
		return nil, fmt.Errorf("%w: %d bytes after the terminator", ErrLengthMismatch, len(body))
	}
	return ret, nil
}

func (m *ParamMacro) Type() PayloadType { return PayloadMacro }
func (m *ParamMacro) Code() MacroCode { return m.code }
func (m *ParamMacro) Args() []expr.Expression { return []expr.Expression{m.Value} }
func (m *ParamMacro) Bytes() []byte { return macroBytes(m) }
func (m *ParamMacro) String() string { return macroString(m.code, m.Args()) }

func (m *ParamMacro) body() []byte {
	return expr.Concat(m.Value, m.terminator)
}

func (m *ParamMacro) appendBytes(buf []byte) []byte {
	return appendFrame(buf, m.code, m.body())
}

//------------------------------------------------------------------------------

// ArgsMacro has a list of arguments. Bounds of the list depend on the code
type ArgsMacro struct {
	code      MacroCode
	Arguments []expr.Expression
}

func NewArgsMacro(code MacroCode, args ...expr.Expression) (*ArgsMacro, error) {
	rec, err := checkShape(code, shapeArgs)
	if err != nil {
		return nil, err
	}
	if err = checkNotNil(code, args...); err != nil {
		return nil, err
	}
	if err = rec.checkArity(len(args)); err != nil {
		return nil, err
	}
	return &ArgsMacro{code: code, Arguments: args}, nil
}

func MustNewArgsMacro(code MacroCode, args ...expr.Expression) *ArgsMacro {
	ret, err := NewArgsMacro(code, args...)
	if err != nil {
		panic(err)
	}
	return ret
}

func decodeArgs(code MacroCode, body []byte) (Macro, error) {
	rec, ok := lookupMacro(code)
	if !ok {
		return nil, errUnsupportedCode
	}
	args, err := expr.ParseAll(body)
	if err != nil {
		return nil, err
	}
	if err = rec.checkArity(len(args)); err != nil {
		return nil, err
	}
	return &ArgsMacro{code: code, Arguments: args}, nil
}

func (m *ArgsMacro) Type() PayloadType { return PayloadMacro }
func (m *ArgsMacro) Code() MacroCode { return m.code }
func (m *ArgsMacro) Args() []expr.Expression { return m.Arguments }
func (m *ArgsMacro) body() []byte { return expr.Concat(m.Arguments...) }
func (m *ArgsMacro) Bytes() []byte { return macroBytes(m) }
func (m *ArgsMacro) String() string { return macroString(m.code, m.Arguments) }

func (m *ArgsMacro) appendBytes(buf []byte) []byte {
	return appendFrame(buf, m.code, m.body())
}

// Arg returns i-th argument or nil if it is absent
func (m *ArgsMacro) Arg(i int) expr.Expression {
	if i < len(m.Arguments) {
		return m.Arguments[i]
	}
	return nil
}
