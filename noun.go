package sestring

import (
	"fmt"

	"github.com/lunfardo314/sestring/expr"
)

// defaults of the noun fields absent in the encoded form
const (
	DefaultPerson = uint32(1)
	DefaultAmount = uint32(1)
	DefaultCase   = uint32(0)
	DefaultExtra  = uint32(1)
)

// NounMacro references a row of a sheet and renders it with articles, number and case of the language.
// SheetName, Person and RowID are mandatory in the encoded form. Amount, Case and Extra are optional
// trailing fields. nil means the field is absent
type NounMacro struct {
	code      MacroCode
	SheetName expr.Expression
	Person    expr.Expression
	RowID     expr.Expression
	Amount    expr.Expression
	Case      expr.Expression
	Extra     expr.Expression
}

type NounOption func(m *NounMacro)

func WithPerson(e expr.Expression) NounOption {
	return func(m *NounMacro) { m.Person = e }
}

func WithAmount(e expr.Expression) NounOption {
	return func(m *NounMacro) { m.Amount = e }
}

func WithCase(e expr.Expression) NounOption {
	return func(m *NounMacro) { m.Case = e }
}

func WithExtra(e expr.Expression) NounOption {
	return func(m *NounMacro) { m.Extra = e }
}

// NewNounMacro creates noun macro with every field set. Fields not given in options take defaults
func NewNounMacro(code MacroCode, sheetName, rowID expr.Expression, opts ...NounOption) (*NounMacro, error) {
	if _, err := checkShape(code, shapeNoun); err != nil {
		return nil, err
	}
	if err := checkNotNil(code, sheetName, rowID); err != nil {
		return nil, err
	}
	ret := &NounMacro{
		code:      code,
		SheetName: sheetName,
		RowID:     rowID,
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.Person = ret.PersonOrDefault()
	ret.Amount = ret.AmountOrDefault()
	ret.Case = ret.CaseOrDefault()
	ret.Extra = ret.ExtraOrDefault()
	return ret, nil
}

func MustNewNounMacro(code MacroCode, sheetName, rowID expr.Expression, opts ...NounOption) *NounMacro {
	ret, err := NewNounMacro(code, sheetName, rowID, opts...)
	if err != nil {
		panic(err)
	}
	return ret
}

func decodeNoun(code MacroCode, body []byte) (Macro, error) {
	ret := &NounMacro{code: code}
	mandatory := []*expr.Expression{&ret.SheetName, &ret.Person, &ret.RowID}
	names := []string{"sheet name", "person", "row id"}
	var err error
	for i, f := range mandatory {
		if len(body) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, names[i])
		}
		if *f, body, err = expr.Parse(body); err != nil {
			return nil, fmt.Errorf("%s: %w", names[i], err)
		}
	}
	for _, f := range []*expr.Expression{&ret.Amount, &ret.Case, &ret.Extra} {
		if len(body) == 0 {
			break
		}
		if *f, body, err = expr.Parse(body); err != nil {
			return nil, err
		}
	}
	if len(body) != 0 {
		return nil, fmt.Errorf("%w: %d bytes after the last field", ErrLengthMismatch, len(body))
	}
	return ret, nil
}

func orDefault(e expr.Expression, def uint32) expr.Expression {
	if e == nil {
		return expr.Integer(def)
	}
	return e
}

func (m *NounMacro) PersonOrDefault() expr.Expression {
	return orDefault(m.Person, DefaultPerson)
}

func (m *NounMacro) AmountOrDefault() expr.Expression {
	return orDefault(m.Amount, DefaultAmount)
}

func (m *NounMacro) CaseOrDefault() expr.Expression {
	return orDefault(m.Case, DefaultCase)
}

func (m *NounMacro) ExtraOrDefault() expr.Expression {
	return orDefault(m.Extra, DefaultExtra)
}

// Language of the grammar rules, determined by the code
func (m *NounMacro) Language() Language {
	switch m.code {
	case CodeJaNoun:
		return Japanese
	case CodeDeNoun:
		return German
	case CodeFrNoun:
		return French
	case CodeChNoun:
		return Chinese
	}
	return English
}

// Args returns the fields to be encoded: mandatory ones and optional ones up to the last present
func (m *NounMacro) Args() []expr.Expression {
	ret := []expr.Expression{m.SheetName, m.PersonOrDefault(), m.RowID}
	switch {
	case m.Extra != nil:
		return append(ret, m.AmountOrDefault(), m.CaseOrDefault(), m.Extra)
	case m.Case != nil:
		return append(ret, m.AmountOrDefault(), m.Case)
	case m.Amount != nil:
		return append(ret, m.Amount)
	}
	return ret
}

func (m *NounMacro) Type() PayloadType { return PayloadMacro }
func (m *NounMacro) Code() MacroCode { return m.code }
func (m *NounMacro) body() []byte { return expr.Concat(m.Args()...) }
func (m *NounMacro) Bytes() []byte { return macroBytes(m) }
func (m *NounMacro) String() string { return macroString(m.code, m.Args()) }

func (m *NounMacro) appendBytes(buf []byte) []byte {
	return appendFrame(buf, m.code, m.body())
}
