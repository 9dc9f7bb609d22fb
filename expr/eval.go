package expr

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Value is a result of evaluation: either a number or a text
type Value struct {
	isText bool
	num    uint32
	text   string
}

func Number(n uint32) Value {
	return Value{num: n}
}

func Text(s string) Value {
	return Value{isText: true, text: s}
}

func (v Value) IsText() bool {
	return v.isText
}

// Number coerces the value to a number. Text which is not a decimal number is 0
func (v Value) Number() uint32 {
	if !v.isText {
		return v.num
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v.text), 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

// Text coerces the value to text
func (v Value) Text() string {
	if v.isText {
		return v.text
	}
	return strconv.FormatUint(uint64(v.num), 10)
}

// Truth is non-zero for numbers, non-empty for texts
func (v Value) Truth() bool {
	if v.isText {
		return len(v.text) > 0
	}
	return v.num != 0
}

func (v Value) String() string {
	if v.isText {
		return strconv.Quote(v.text)
	}
	return v.Text()
}

// Context is everything evaluation needs from outside
type Context interface {
	// Parameter returns value of the 1-based parameter. ErrParameterOutOfRange if there's no such
	Parameter(scope Scope, idx uint32) (Value, error)
	// NestedString resolves an encoded string embedded in a string literal.
	// Returns encoding of the resolved string and its plain text
	NestedString(data []byte) ([]byte, string, error)
	Now() time.Time
}

func Eval(e Expression, ctx Context) (Value, error) {
	switch e := e.(type) {
	case Integer:
		return Number(uint32(e)), nil
	case String:
		_, txt, err := ctx.NestedString([]byte(e))
		if err != nil {
			return Value{}, err
		}
		return Text(txt), nil
	case Parameter:
		v, err := ctx.Parameter(e.Scope, e.Index)
		if err != nil {
			return Value{}, err
		}
		if e.Kind == TextKind {
			return Text(v.Text()), nil
		}
		return Number(v.Number()), nil
	case *Operator:
		return evalOperator(e, ctx)
	case nil:
		return Value{}, fmt.Errorf("expr.Eval: nil expression")
	}
	panic(fmt.Sprintf("expr.Eval: unexpected expression type %T", e))
}

func EvalNumber(e Expression, ctx Context) (uint32, error) {
	v, err := Eval(e, ctx)
	if err != nil {
		return 0, err
	}
	return v.Number(), nil
}

func EvalText(e Expression, ctx Context) (string, error) {
	v, err := Eval(e, ctx)
	if err != nil {
		return "", err
	}
	return v.Text(), nil
}

func evalOperator(o *Operator, ctx Context) (Value, error) {
	if arity := o.Op.Arity(); arity < 0 || len(o.Operands) != arity {
		return Value{}, fmt.Errorf("%w: operator '%s' expects %d, got %d", ErrOperandCount, o.Op, arity, len(o.Operands))
	}
	args := make([]Value, len(o.Operands))
	var err error
	for i, e := range o.Operands {
		if args[i], err = Eval(e, ctx); err != nil {
			return Value{}, err
		}
	}
	switch byte(o.Op) {
	case TagStackColor:
		return Number(0), nil
	case TagMillisecond, TagSecond, TagMinute, TagHour, TagDay, TagWeekday, TagMonth, TagYear:
		return Number(clockField(o.Op, ctx.Now())), nil
	}
	c := compare(args[0], args[1])
	var ret bool
	switch byte(o.Op) {
	case TagGreaterOrEqual:
		ret = c >= 0
	case TagGreater:
		ret = c > 0
	case TagLessOrEqual:
		ret = c <= 0
	case TagLess:
		ret = c < 0
	case TagEqual:
		ret = c == 0
	case TagNotEqual:
		ret = c != 0
	}
	if ret {
		return Number(1), nil
	}
	return Number(0), nil
}

// compare compares texts if both are texts, otherwise numbers
func compare(a, b Value) int {
	if a.isText && b.isText {
		return strings.Compare(a.text, b.text)
	}
	an, bn := a.Number(), b.Number()
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	}
	return 0
}

// clockField weekday is 1 for Sunday
func clockField(op Op, t time.Time) uint32 {
	switch byte(op) {
	case TagMillisecond:
		return uint32(t.Nanosecond() / int(time.Millisecond))
	case TagSecond:
		return uint32(t.Second())
	case TagMinute:
		return uint32(t.Minute())
	case TagHour:
		return uint32(t.Hour())
	case TagDay:
		return uint32(t.Day())
	case TagWeekday:
		return uint32(t.Weekday()) + 1
	case TagMonth:
		return uint32(t.Month())
	case TagYear:
		return uint32(t.Year())
	}
	return 0
}

// Substitute replaces every parameter reference in e by a literal of its value and every
// string literal by its resolved form. Operators keep their structure
func Substitute(e Expression, ctx Context) (Expression, error) {
	switch e := e.(type) {
	case Integer:
		return e, nil
	case String:
		bin, _, err := ctx.NestedString([]byte(e))
		if err != nil {
			return nil, err
		}
		return String(bin), nil
	case Parameter:
		v, err := Eval(e, ctx)
		if err != nil {
			return nil, err
		}
		if v.IsText() {
			return String(v.Text()), nil
		}
		return Integer(v.Number()), nil
	case *Operator:
		ret := &Operator{
			Op:       e.Op,
			Operands: make([]Expression, len(e.Operands)),
		}
		var err error
		for i, o := range e.Operands {
			if ret.Operands[i], err = Substitute(o, ctx); err != nil {
				return nil, err
			}
		}
		return ret, nil
	}
	return nil, fmt.Errorf("expr.Substitute: unexpected expression type %T", e)
}
