package sestring

import (
	"fmt"
	"strings"
	"time"

	"github.com/lunfardo314/sestring/expr"
)

// MaxNestingDepth limits resolution of strings embedded in string literals and in data service results
const MaxNestingDepth = 16

type Language byte

const (
	Japanese = Language(iota)
	English
	German
	French
	Chinese
)

var languageNames = []string{"ja", "en", "de", "fr", "zh"}

func (l Language) String() string {
	if int(l) < len(languageNames) {
		return languageNames[l]
	}
	return fmt.Sprintf("language(%d)", byte(l))
}

func ParseLanguage(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range languageNames {
		if s == n {
			return Language(i), nil
		}
	}
	return 0, fmt.Errorf("unknown language '%s'", s)
}

// DataService provides sheet data and grammar. Must be safe for concurrent reads
type DataService interface {
	ResolveNoun(lang Language, sheet string, rowID, person, amount, grammaticalCase, extra uint32) (*SeString, error)
	SheetColumn(lang Language, sheet string, rowID, column uint32) (*SeString, error)
}

type GlobalProvider interface {
	GlobalParameter(index uint32) (expr.Value, error)
}

// StaticGlobals is a fixed set of global parameters by 1-based index
type StaticGlobals map[uint32]expr.Value

func (g StaticGlobals) GlobalParameter(index uint32) (expr.Value, error) {
	if v, ok := g[index]; ok {
		return v, nil
	}
	return expr.Value{}, fmt.Errorf("%w: global parameter %d", ErrParameterOutOfRange, index)
}

// Context is everything resolution of a string needs from outside. It is not modified during resolve
type Context struct {
	Language Language
	// Locals are local parameters. Index 1 on the wire is Locals[0]
	Locals  []expr.Value
	Globals GlobalProvider
	Data    DataService
	// Clock is time.Now if nil
	Clock func() time.Time

	depth int
}

func NewContext(lang Language, locals ...expr.Value) *Context {
	return &Context{
		Language: lang,
		Locals:   locals,
	}
}

// WithLocals returns a copy of the context with another set of local parameters
func (c *Context) WithLocals(locals ...expr.Value) *Context {
	ret := *c
	ret.Locals = locals
	return &ret
}

func (c *Context) Parameter(scope expr.Scope, idx uint32) (expr.Value, error) {
	if scope == expr.Global {
		if c.Globals == nil {
			return expr.Value{}, fmt.Errorf("%w: global parameter %d, no globals", ErrParameterOutOfRange, idx)
		}
		return c.Globals.GlobalParameter(idx)
	}
	if idx == 0 || int(idx) > len(c.Locals) {
		return expr.Value{}, fmt.Errorf("%w: local parameter %d, %d provided", ErrParameterOutOfRange, idx, len(c.Locals))
	}
	return c.Locals[idx-1], nil
}

func (c *Context) Now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock()
}

// NestedString decodes and resolves an encoded string one level deeper
func (c *Context) NestedString(data []byte) ([]byte, string, error) {
	s, err := FromBytes(data)
	if err != nil {
		return nil, "", err
	}
	payloads, err := c.resolveNested(s)
	if err != nil {
		return nil, "", err
	}
	ret := New(payloads...)
	return ret.Bytes(), ret.Text(), nil
}

func (c *Context) resolveNested(s *SeString) ([]Payload, error) {
	if c.depth >= MaxNestingDepth {
		return nil, fmt.Errorf("%w: more than %d levels", ErrNestingTooDeep, MaxNestingDepth)
	}
	nested := *c
	nested.depth++
	return resolvePayloads(s.payloads, &nested)
}
