package sestring

import (
	"fmt"

	"github.com/lunfardo314/sestring/expr"
)

// Resolve replaces every macro with its output in the context. The result contains only text
// and raw payloads, so resolving it again changes nothing
func (s *SeString) Resolve(ctx *Context) (*SeString, error) {
	payloads, err := resolvePayloads(s.payloads, ctx)
	if err != nil {
		return nil, err
	}
	return New(payloads...), nil
}

func resolvePayloads(payloads []Payload, ctx *Context) ([]Payload, error) {
	b := NewBuilder()
	for _, p := range payloads {
		m, isMacro := p.(Macro)
		if !isMacro {
			b.Payload(p)
			continue
		}
		out, err := resolveMacro(m, ctx)
		if err != nil {
			return nil, err
		}
		b.Payload(out...)
	}
	return b.payloads, nil
}

func resolveMacro(m Macro, ctx *Context) ([]Payload, error) {
	rec, ok := lookupMacro(m.Code())
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02x", errUnsupportedCode, byte(m.Code()))
	}
	ret, err := rec.resolve(m, ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve '%s': %w", m.Code(), err)
	}
	return ret, nil
}

func fixedText(s string) resolveFunc {
	return func(_ Macro, _ *Context) ([]Payload, error) {
		return []Payload{TextPayload(s)}, nil
	}
}

func substituteAll(args []expr.Expression, ctx *Context) ([]expr.Expression, error) {
	ret := make([]expr.Expression, len(args))
	var err error
	for i, a := range args {
		if ret[i], err = expr.Substitute(a, ctx); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// resolveFrozen keeps the macro for the renderer: parameters are substituted by their values and the
// re-encoded frame is emitted as a raw payload
func resolveFrozen(m Macro, ctx *Context) ([]Payload, error) {
	args, err := substituteAll(m.Args(), ctx)
	if err != nil {
		return nil, err
	}
	var frozen Macro
	switch m.(type) {
	case *ValueMacro:
		frozen = &ValueMacro{code: m.Code(), Value: args[0]}
	case *ArgsMacro:
		frozen = &ArgsMacro{code: m.Code(), Arguments: args}
	default:
		return nil, fmt.Errorf("%w: can't freeze %T", ErrWrongShape, m)
	}
	return []Payload{RawPayload(frozen.Bytes())}, nil
}

// resolveBranch resolves a string literal as a nested string keeping its payloads.
// Any other expression is evaluated to text
func resolveBranch(e expr.Expression, ctx *Context) ([]Payload, error) {
	if e == nil {
		return nil, nil
	}
	if lit, ok := e.(expr.String); ok {
		s, err := FromBytes([]byte(lit))
		if err != nil {
			return nil, err
		}
		return ctx.resolveNested(s)
	}
	txt, err := expr.EvalText(e, ctx)
	if err != nil {
		return nil, err
	}
	return []Payload{TextPayload(txt)}, nil
}

func resolveNum(m Macro, ctx *Context) ([]Payload, error) {
	n, err := expr.EvalNumber(m.(*ParamMacro).Value, ctx)
	if err != nil {
		return nil, err
	}
	return []Payload{TextPayload(expr.Number(n).Text())}, nil
}

func resolveString(m Macro, ctx *Context) ([]Payload, error) {
	return resolveBranch(m.(*ParamMacro).Value, ctx)
}

func resolveIf(m Macro, ctx *Context) ([]Payload, error) {
	a := m.(*ArgsMacro)
	cond, err := expr.Eval(a.Arg(0), ctx)
	if err != nil {
		return nil, err
	}
	if cond.Truth() {
		return resolveBranch(a.Arg(1), ctx)
	}
	return resolveBranch(a.Arg(2), ctx)
}

// resolveSwitch selects 1-based case by the value of the first argument
func resolveSwitch(m Macro, ctx *Context) ([]Payload, error) {
	a := m.(*ArgsMacro)
	n, err := expr.EvalNumber(a.Arg(0), ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 || int(n) >= len(a.Arguments) {
		return nil, nil
	}
	return resolveBranch(a.Arguments[n], ctx)
}

func resolveNoun(m Macro, ctx *Context) ([]Payload, error) {
	n := m.(*NounMacro)
	if ctx.Data == nil {
		return nil, ErrNoDataService
	}
	sheet, err := expr.EvalText(n.SheetName, ctx)
	if err != nil {
		return nil, err
	}
	var vals [5]uint32
	for i, e := range []expr.Expression{n.RowID, n.PersonOrDefault(), n.AmountOrDefault(), n.CaseOrDefault(), n.ExtraOrDefault()} {
		if vals[i], err = expr.EvalNumber(e, ctx); err != nil {
			return nil, err
		}
	}
	s, err := ctx.Data.ResolveNoun(n.Language(), sheet, vals[0], vals[1], vals[2], vals[3], vals[4])
	if err != nil {
		return nil, err
	}
	return ctx.resolveNested(s)
}

// resolveSheet arguments: sheet name, row id, column (default 0). The fourth argument is passed
// to the renderer by the game and has no effect on text
func resolveSheet(m Macro, ctx *Context) ([]Payload, error) {
	a := m.(*ArgsMacro)
	if ctx.Data == nil {
		return nil, ErrNoDataService
	}
	sheet, err := expr.EvalText(a.Arg(0), ctx)
	if err != nil {
		return nil, err
	}
	rowID, err := expr.EvalNumber(a.Arg(1), ctx)
	if err != nil {
		return nil, err
	}
	var column uint32
	if c := a.Arg(2); c != nil {
		if column, err = expr.EvalNumber(c, ctx); err != nil {
			return nil, err
		}
	}
	s, err := ctx.Data.SheetColumn(ctx.Language, sheet, rowID, column)
	if err != nil {
		return nil, err
	}
	return ctx.resolveNested(s)
}
