package sestring

import "fmt"

// MacroCode is the byte following FrameStart
type MacroCode byte

const (
	CodeSetResetTime     = MacroCode(0x06)
	CodeSetTime          = MacroCode(0x07)
	CodeIf               = MacroCode(0x08)
	CodeSwitch           = MacroCode(0x09)
	CodePcName           = MacroCode(0x0A)
	CodeIfPcGender       = MacroCode(0x0B)
	CodeIfPcName         = MacroCode(0x0C)
	CodeJosa             = MacroCode(0x0D)
	CodeJosaro           = MacroCode(0x0E)
	CodeIfSelf           = MacroCode(0x0F)
	CodeNewLine          = MacroCode(0x10)
	CodeWait             = MacroCode(0x11)
	CodeIcon             = MacroCode(0x12)
	CodeColor            = MacroCode(0x13)
	CodeEdgeColor        = MacroCode(0x14)
	CodeShadowColor      = MacroCode(0x15)
	CodeSoftHyphen       = MacroCode(0x16)
	CodeKey              = MacroCode(0x17)
	CodeScale            = MacroCode(0x18)
	CodeBold             = MacroCode(0x19)
	CodeItalic           = MacroCode(0x1A)
	CodeEdge             = MacroCode(0x1B)
	CodeShadow           = MacroCode(0x1C)
	CodeNonBreakingSpace = MacroCode(0x1D)
	CodeIcon2            = MacroCode(0x1E)
	CodeHyphen           = MacroCode(0x1F)
	CodeNum              = MacroCode(0x20)
	CodeHex              = MacroCode(0x21)
	CodeKilo             = MacroCode(0x22)
	CodeByte             = MacroCode(0x23)
	CodeSec              = MacroCode(0x24)
	CodeTime             = MacroCode(0x25)
	CodeFloat            = MacroCode(0x26)
	CodeLink             = MacroCode(0x27)
	CodeSheet            = MacroCode(0x28)
	CodeString           = MacroCode(0x29)
	CodeCaps             = MacroCode(0x2A)
	CodeHead             = MacroCode(0x2B)
	CodeSplit            = MacroCode(0x2C)
	CodeHeadAll          = MacroCode(0x2D)
	CodeFixed            = MacroCode(0x2E)
	CodeLower            = MacroCode(0x2F)
	CodeJaNoun           = MacroCode(0x30)
	CodeEnNoun           = MacroCode(0x31)
	CodeDeNoun           = MacroCode(0x32)
	CodeFrNoun           = MacroCode(0x33)
	CodeChNoun           = MacroCode(0x34)
	CodeLowerHead        = MacroCode(0x40)
	CodeColorType        = MacroCode(0x48)
	CodeEdgeColorType    = MacroCode(0x49)
	CodeDigit            = MacroCode(0x50)
	CodeOrdinal          = MacroCode(0x51)
	CodeSound            = MacroCode(0x60)
	CodeLevelPos         = MacroCode(0x61)
)

var codeNames = map[MacroCode]string{
	CodeSetResetTime:     "setresettime",
	CodeSetTime:          "settime",
	CodeIf:               "if",
	CodeSwitch:           "switch",
	CodePcName:           "pcname",
	CodeIfPcGender:       "ifpcgender",
	CodeIfPcName:         "ifpcname",
	CodeJosa:             "josa",
	CodeJosaro:           "josaro",
	CodeIfSelf:           "ifself",
	CodeNewLine:          "br",
	CodeWait:             "wait",
	CodeIcon:             "icon",
	CodeColor:            "color",
	CodeEdgeColor:        "edgecolor",
	CodeShadowColor:      "shadowcolor",
	CodeSoftHyphen:       "-",
	CodeKey:              "key",
	CodeScale:            "scale",
	CodeBold:             "bold",
	CodeItalic:           "italic",
	CodeEdge:             "edge",
	CodeShadow:           "shadow",
	CodeNonBreakingSpace: "nbsp",
	CodeIcon2:            "icon2",
	CodeHyphen:           "--",
	CodeNum:              "num",
	CodeHex:              "hex",
	CodeKilo:             "kilo",
	CodeByte:             "byte",
	CodeSec:              "sec",
	CodeTime:             "time",
	CodeFloat:            "float",
	CodeLink:             "link",
	CodeSheet:            "sheet",
	CodeString:           "string",
	CodeCaps:             "caps",
	CodeHead:             "head",
	CodeSplit:            "split",
	CodeHeadAll:          "headall",
	CodeFixed:            "fixed",
	CodeLower:            "lower",
	CodeJaNoun:           "janoun",
	CodeEnNoun:           "ennoun",
	CodeDeNoun:           "denoun",
	CodeFrNoun:           "frnoun",
	CodeChNoun:           "chnoun",
	CodeLowerHead:        "lowerhead",
	CodeColorType:        "colortype",
	CodeEdgeColorType:    "edgecolortype",
	CodeDigit:            "digit",
	CodeOrdinal:          "ordinal",
	CodeSound:            "sound",
	CodeLevelPos:         "levelpos",
}

func (c MacroCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("macro_0x%02x", byte(c))
}

// IsKnown is true for every code of the game, registered or not
func (c MacroCode) IsKnown() bool {
	_, ok := codeNames[c]
	return ok
}

// IsRegistered is true if payloads with the code are decoded into a macro variant
func (c MacroCode) IsRegistered() bool {
	_, ok := lookupMacro(c)
	return ok
}
