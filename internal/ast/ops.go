package ast

// UnaryOp is a prefix operator.
type UnaryOp uint8

const (
	UnNeg UnaryOp = iota
	UnNot
	UnBitNot
	UnDeref
	UnConstRef
	UnMutRef
)

var unaryNames = [...]string{
	UnNeg:      "Neg",
	UnNot:      "Not",
	UnBitNot:   "BitNot",
	UnDeref:    "Deref",
	UnConstRef: "ConstRef",
	UnMutRef:   "MutRef",
}

var unarySymbols = [...]string{
	UnNeg:      "-",
	UnNot:      "!",
	UnBitNot:   "~",
	UnDeref:    "*",
	UnConstRef: "@",
	UnMutRef:   "&",
}

func (op UnaryOp) String() string { return unaryNames[op] }

// Symbol returns the source spelling.
func (op UnaryOp) Symbol() string { return unarySymbols[op] }

// BinaryOp is an infix operator; ranges are binary too.
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinPow
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
	BinBitAnd
	BinBitOr
	BinBitXor
	BinShl
	BinShr
	BinRange
)

var binaryNames = [...]string{
	BinAdd:    "Add",
	BinSub:    "Sub",
	BinMul:    "Mul",
	BinDiv:    "Div",
	BinMod:    "Mod",
	BinPow:    "Pow",
	BinEq:     "Eq",
	BinNe:     "Ne",
	BinLt:     "Lt",
	BinLe:     "Le",
	BinGt:     "Gt",
	BinGe:     "Ge",
	BinAnd:    "And",
	BinOr:     "Or",
	BinBitAnd: "BitAnd",
	BinBitOr:  "BitOr",
	BinBitXor: "BitXor",
	BinShl:    "Shl",
	BinShr:    "Shr",
	BinRange:  "Range",
}

var binarySymbols = [...]string{
	BinAdd:    "+",
	BinSub:    "-",
	BinMul:    "*",
	BinDiv:    "/",
	BinMod:    "%",
	BinPow:    "**",
	BinEq:     "==",
	BinNe:     "!=",
	BinLt:     "<",
	BinLe:     "<=",
	BinGt:     ">",
	BinGe:     ">=",
	BinAnd:    "&&",
	BinOr:     "||",
	BinBitAnd: "&",
	BinBitOr:  "|",
	BinBitXor: "^",
	BinShl:    "<<",
	BinShr:    ">>",
	BinRange:  "..",
}

func (op BinaryOp) String() string { return binaryNames[op] }

// Symbol returns the source spelling.
func (op BinaryOp) Symbol() string { return binarySymbols[op] }

// AssignOp is the operator of an assignment statement.
type AssignOp uint8

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignBitAnd
	AssignBitOr
	AssignBitXor
	AssignShl
)

var assignSymbols = [...]string{
	AssignPlain:  "=",
	AssignAdd:    "+=",
	AssignSub:    "-=",
	AssignMul:    "*=",
	AssignDiv:    "/=",
	AssignMod:    "%=",
	AssignBitAnd: "&=",
	AssignBitOr:  "|=",
	AssignBitXor: "^=",
	AssignShl:    "<<=",
}

func (op AssignOp) String() string { return assignSymbols[op] }

// AssignOpFromText maps an assignment lexeme to its operator.
func AssignOpFromText(text string) (AssignOp, bool) {
	for i, s := range assignSymbols {
		if s == text {
			return AssignOp(i), true
		}
	}
	return AssignPlain, false
}
