package sestring

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lunfardo314/sestring/expr"
	"github.com/rivo/uniseg"
)

func formatValue(format func(v expr.Value) string) resolveFunc {
	return func(m Macro, ctx *Context) ([]Payload, error) {
		v, err := expr.Eval(m.(*ValueMacro).Value, ctx)
		if err != nil {
			return nil, err
		}
		return []Payload{TextPayload(format(v))}, nil
	}
}

func formatHex(v expr.Value) string {
	return fmt.Sprintf("0x%08X", v.Number())
}

func formatSec(v expr.Value) string {
	return fmt.Sprintf("%02d", v.Number())
}

func formatCaps(v expr.Value) string {
	return strings.ToUpper(v.Text())
}

func formatLower(v expr.Value) string {
	return strings.ToLower(v.Text())
}

func formatHead(v expr.Value) string {
	return ChangeHead(v.Text(), strings.ToUpper)
}

func formatLowerHead(v expr.Value) string {
	return ChangeHead(v.Text(), strings.ToLower)
}

// formatHeadAll capitalizes every word
func formatHeadAll(v expr.Value) string {
	txt := v.Text()
	var buf strings.Builder
	wordStart := true
	gr := uniseg.NewGraphemes(txt)
	for gr.Next() {
		cluster := gr.Str()
		r := gr.Runes()[0]
		switch {
		case unicode.IsSpace(r) || r == '-':
			wordStart = true
			buf.WriteString(cluster)
		case wordStart:
			wordStart = false
			buf.WriteString(strings.ToUpper(cluster))
		default:
			buf.WriteString(cluster)
		}
	}
	return buf.String()
}

// ChangeHead applies change to the first grapheme cluster of s
func ChangeHead(s string, change func(string) string) string {
	if s == "" {
		return s
	}
	head, rest, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return change(head) + rest
}

// formatOrdinal English ordinal suffix: 1st, 2nd, 3rd, 11th
func formatOrdinal(v expr.Value) string {
	n := v.Number()
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.FormatUint(uint64(n), 10) + suffix
}

func evalArgs(a *ArgsMacro, ctx *Context) ([]expr.Value, error) {
	ret := make([]expr.Value, len(a.Arguments))
	var err error
	for i, e := range a.Arguments {
		if ret[i], err = expr.Eval(e, ctx); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// GroupDigits inserts separator every three digits from the right
func GroupDigits(n uint32, separator string) string {
	digits := strconv.FormatUint(uint64(n), 10)
	if separator == "" || len(digits) <= 3 {
		return digits
	}
	var buf strings.Builder
	first := len(digits) % 3
	if first > 0 {
		buf.WriteString(digits[:first])
	}
	for i := first; i < len(digits); i += 3 {
		if i > 0 {
			buf.WriteString(separator)
		}
		buf.WriteString(digits[i : i+3])
	}
	return buf.String()
}

// resolveKilo arguments: value, separator
func resolveKilo(m Macro, ctx *Context) ([]Payload, error) {
	args, err := evalArgs(m.(*ArgsMacro), ctx)
	if err != nil {
		return nil, err
	}
	return []Payload{TextPayload(GroupDigits(args[0].Number(), args[1].Text()))}, nil
}

// resolveFloat arguments: value, radix, separator. Radix 10^k gives k fraction digits
func resolveFloat(m Macro, ctx *Context) ([]Payload, error) {
	args, err := evalArgs(m.(*ArgsMacro), ctx)
	if err != nil {
		return nil, err
	}
	value, radix := args[0].Number(), args[1].Number()
	if radix <= 1 {
		return []Payload{TextPayload(strconv.FormatUint(uint64(value), 10))}, nil
	}
	width := len(strconv.FormatUint(uint64(radix), 10)) - 1
	txt := fmt.Sprintf("%d%s%0*d", value/radix, args[2].Text(), width, value%radix)
	return []Payload{TextPayload(txt)}, nil
}

// maxDigits bounds zero padding
const maxDigits = 32

// resolveDigit arguments: value, number of digits
func resolveDigit(m Macro, ctx *Context) ([]Payload, error) {
	args, err := evalArgs(m.(*ArgsMacro), ctx)
	if err != nil {
		return nil, err
	}
	width := min(int(args[1].Number()), maxDigits)
	return []Payload{TextPayload(fmt.Sprintf("%0*d", width, args[0].Number()))}, nil
}

// resolveSplit arguments: text, separator, 1-based index of the part
func resolveSplit(m Macro, ctx *Context) ([]Payload, error) {
	args, err := evalArgs(m.(*ArgsMacro), ctx)
	if err != nil {
		return nil, err
	}
	txt, sep, idx := args[0].Text(), args[1].Text(), args[2].Number()
	parts := []string{txt}
	if sep != "" {
		parts = strings.Split(txt, sep)
	}
	if idx == 0 || int(idx) > len(parts) {
		return nil, nil
	}
	return []Payload{TextPayload(parts[idx-1])}, nil
}
