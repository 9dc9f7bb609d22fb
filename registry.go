package sestring

import (
	"fmt"

	"github.com/lunfardo314/unitrie/common"
)

// shape is the structural variant a registered code decodes into
type shape byte

const (
	shapeEmpty = shape(iota)
	shapeValue
	shapeParam
	shapeNoun
	shapeArgs
)

func (s shape) String() string {
	switch s {
	case shapeEmpty:
		return "empty"
	case shapeValue:
		return "value"
	case shapeParam:
		return "param"
	case shapeNoun:
		return "noun"
	case shapeArgs:
		return "args"
	}
	return fmt.Sprintf("shape(%d)", byte(s))
}

type (
	decodeFunc  func(code MacroCode, body []byte) (Macro, error)
	resolveFunc func(m Macro, ctx *Context) ([]Payload, error)

	macroRecord struct {
		code  MacroCode
		shape shape
		// bounds of the argument list. maxArgs < 0 means unbounded
		minArgs int
		maxArgs int
		decode  decodeFunc
		resolve resolveFunc
	}
)

var decoders = map[shape]decodeFunc{
	shapeEmpty: decodeEmpty,
	shapeValue: decodeValue,
	shapeParam: decodeParam,
	shapeNoun:  decodeNoun,
	shapeArgs:  decodeArgs,
}

// macros is filled in init and read-only afterwards
var macros [256]*macroRecord

func lookupMacro(code MacroCode) (*macroRecord, bool) {
	ret := macros[code]
	return ret, ret != nil
}

func (r *macroRecord) checkArity(n int) error {
	if n < r.minArgs {
		return fmt.Errorf("%w: '%s' expects at least %d arguments, got %d", ErrMissingField, r.code, r.minArgs, n)
	}
	if r.maxArgs >= 0 && n > r.maxArgs {
		return fmt.Errorf("%w: '%s' expects at most %d arguments, got %d", ErrArity, r.code, r.maxArgs, n)
	}
	return nil
}

func registerMacro(code MacroCode, s shape, minArgs, maxArgs int, resolve resolveFunc) {
	common.Assert(code.IsKnown(), "registerMacro: unknown code 0x%02x", byte(code))
	common.Assert(macros[code] == nil, "registerMacro: repeating code '%s'", code)
	common.Assert(resolve != nil, "registerMacro: '%s' has no resolver", code)
	common.Assert(maxArgs < 0 || minArgs <= maxArgs, "registerMacro: '%s' wrong arity bounds", code)
	macros[code] = &macroRecord{
		code:    code,
		shape:   s,
		minArgs: minArgs,
		maxArgs: maxArgs,
		decode:  decoders[s],
		resolve: resolve,
	}
}

func init() {
	registerMacro(CodeNewLine, shapeEmpty, 0, 0, fixedText("\n"))
	registerMacro(CodeSoftHyphen, shapeEmpty, 0, 0, fixedText("\u00ad"))
	registerMacro(CodeNonBreakingSpace, shapeEmpty, 0, 0, fixedText("\u00a0"))
	registerMacro(CodeHyphen, shapeEmpty, 0, 0, fixedText("-"))

	for _, code := range []MacroCode{
		CodeSetTime, CodeWait, CodeIcon, CodeColor, CodeEdgeColor, CodeShadowColor, CodeBold, CodeItalic,
		CodeEdge, CodeShadow, CodeIcon2, CodeTime, CodeColorType, CodeEdgeColorType,
	} {
		registerMacro(code, shapeValue, 1, 1, resolveFrozen)
	}
	registerMacro(CodeHex, shapeValue, 1, 1, formatValue(formatHex))
	registerMacro(CodeSec, shapeValue, 1, 1, formatValue(formatSec))
	registerMacro(CodeCaps, shapeValue, 1, 1, formatValue(formatCaps))
	registerMacro(CodeHead, shapeValue, 1, 1, formatValue(formatHead))
	registerMacro(CodeHeadAll, shapeValue, 1, 1, formatValue(formatHeadAll))
	registerMacro(CodeLower, shapeValue, 1, 1, formatValue(formatLower))
	registerMacro(CodeLowerHead, shapeValue, 1, 1, formatValue(formatLowerHead))
	registerMacro(CodeOrdinal, shapeValue, 1, 1, formatValue(formatOrdinal))

	registerMacro(CodeNum, shapeParam, 1, 1, resolveNum)
	registerMacro(CodeString, shapeParam, 1, 1, resolveString)

	for _, code := range []MacroCode{CodeJaNoun, CodeEnNoun, CodeDeNoun, CodeFrNoun, CodeChNoun} {
		registerMacro(code, shapeNoun, 3, 6, resolveNoun)
	}

	registerMacro(CodeSetResetTime, shapeArgs, 1, 2, resolveFrozen)
	registerMacro(CodeIf, shapeArgs, 2, 3, resolveIf)
	registerMacro(CodeSwitch, shapeArgs, 2, -1, resolveSwitch)
	registerMacro(CodeKilo, shapeArgs, 2, 2, resolveKilo)
	registerMacro(CodeFloat, shapeArgs, 3, 3, resolveFloat)
	registerMacro(CodeLink, shapeArgs, 1, -1, resolveFrozen)
	registerMacro(CodeSheet, shapeArgs, 2, 4, resolveSheet)
	registerMacro(CodeSplit, shapeArgs, 3, 3, resolveSplit)
	registerMacro(CodeFixed, shapeArgs, 1, -1, resolveFrozen)
	registerMacro(CodeDigit, shapeArgs, 2, 2, resolveDigit)
}
