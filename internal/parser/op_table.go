package parser

import "soul/internal/ast"

// Binding powers, low to high. Unary operators bind tighter than any binary one.
const (
	precRange = iota + 1
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precCompare
	precShift
	precAdditive
	precMultiplicative
	precPow
	precUnary
)

type binaryInfo struct {
	op    ast.BinaryOp
	prec  int
	right bool // right-associative
}

var binaryOps = map[string]binaryInfo{
	"..": {ast.BinRange, precRange, false},
	"||": {ast.BinOr, precOr, false},
	"&&": {ast.BinAnd, precAnd, false},
	"|":  {ast.BinBitOr, precBitOr, false},
	"^":  {ast.BinBitXor, precBitXor, false},
	"&":  {ast.BinBitAnd, precBitAnd, false},
	"==": {ast.BinEq, precEquality, false},
	"!=": {ast.BinNe, precEquality, false},
	"<":  {ast.BinLt, precCompare, false},
	"<=": {ast.BinLe, precCompare, false},
	">":  {ast.BinGt, precCompare, false},
	">=": {ast.BinGe, precCompare, false},
	"<<": {ast.BinShl, precShift, false},
	"+":  {ast.BinAdd, precAdditive, false},
	"-":  {ast.BinSub, precAdditive, false},
	"*":  {ast.BinMul, precMultiplicative, false},
	"/":  {ast.BinDiv, precMultiplicative, false},
	"%":  {ast.BinMod, precMultiplicative, false},
	"**": {ast.BinPow, precPow, true},
}

// shiftRight is built from two adjacent '>' tokens.
var shiftRight = binaryInfo{ast.BinShr, precShift, false}

// unaryOps maps a prefix token to the operators it stands for, outermost first.
// `**` and `&&` in prefix position are two operators.
var unaryOps = map[string][]ast.UnaryOp{
	"-":  {ast.UnNeg},
	"!":  {ast.UnNot},
	"~":  {ast.UnBitNot},
	"*":  {ast.UnDeref},
	"@":  {ast.UnConstRef},
	"&":  {ast.UnMutRef},
	"**": {ast.UnDeref, ast.UnDeref},
	"&&": {ast.UnMutRef, ast.UnMutRef},
}
