package sestring

import (
	"errors"
	"fmt"

	"github.com/lunfardo314/sestring/expr"
	"github.com/lunfardo314/sestring/varint"
)

var (
	ErrFraming           = errors.New("framing error")
	ErrExpectedStartByte = fmt.Errorf("%w: expected start byte", ErrFraming)
	ErrExpectedEndByte   = fmt.Errorf("%w: expected end byte", ErrFraming)
	ErrExpectedMacroCode = fmt.Errorf("%w: expected macro code", ErrFraming)

	ErrLengthMismatch     = errors.New("length mismatch")
	ErrExpectedZeroLength = fmt.Errorf("%w: expected zero length", ErrLengthMismatch)

	ErrUnexpectedEndOfStream = varint.ErrUnexpectedEndOfStream
	ErrInvalidVarInt         = varint.ErrInvalidVarInt
	ErrExpressionTooDeep     = expr.ErrExpressionTooDeep
	ErrUnknownExpressionTag  = expr.ErrUnknownExpressionTag
	ErrParameterOutOfRange   = expr.ErrParameterOutOfRange

	ErrMissingField   = errors.New("missing mandatory field")
	ErrArity          = errors.New("wrong number of arguments")
	ErrWrongShape     = errors.New("macro code does not belong to the payload variant")
	ErrNoDataService  = errors.New("data service is not available")
	ErrNestingTooDeep = errors.New("nested strings too deep")
)
