package parser

import (
	"soul/internal/diag"
	"soul/internal/token"
)

// StmtClass is the statement category decided by lookahead.
type StmtClass uint8

const (
	ClassVariable StmtClass = iota
	ClassAssignment
	ClassFunctionCall
	ClassFunction
	ClassStructConstructor
	ClassExpression
	ClassIf
	ClassElse
	ClassWhile
	ClassFor
	ClassMatch
	ClassReturn
	ClassBreak
	ClassContinue
	ClassStruct
	ClassClass
	ClassTrait
	ClassEnum
	ClassUnion
	ClassTypeDef
	ClassUse
	ClassOpenBlock
	ClassCloseBlock
	ClassEndOfLine
)

var classNames = [...]string{
	ClassVariable:          "Variable",
	ClassAssignment:        "Assignment",
	ClassFunctionCall:      "FunctionCall",
	ClassFunction:          "Function",
	ClassStructConstructor: "StructConstructor",
	ClassExpression:        "Expression",
	ClassIf:                "If",
	ClassElse:              "Else",
	ClassWhile:             "While",
	ClassFor:               "For",
	ClassMatch:             "Match",
	ClassReturn:            "Return",
	ClassBreak:             "Break",
	ClassContinue:          "Continue",
	ClassStruct:            "Struct",
	ClassClass:             "Class",
	ClassTrait:             "Trait",
	ClassEnum:              "Enum",
	ClassUnion:             "Union",
	ClassTypeDef:           "TypeDef",
	ClassUse:               "Use",
	ClassOpenBlock:         "OpenBlock",
	ClassCloseBlock:        "CloseBlock",
	ClassEndOfLine:         "EndOfLine",
}

func (c StmtClass) String() string { return classNames[c] }

// IsTypeDecl reports whether the class declares a named type.
func (c StmtClass) IsTypeDecl() bool {
	switch c {
	case ClassStruct, ClassClass, ClassTrait, ClassEnum, ClassUnion, ClassTypeDef:
		return true
	}
	return false
}

var leadingKeywords = map[string]StmtClass{
	"if":       ClassIf,
	"else":     ClassElse,
	"while":    ClassWhile,
	"for":      ClassFor,
	"match":    ClassMatch,
	"return":   ClassReturn,
	"break":    ClassBreak,
	"continue": ClassContinue,
	"struct":   ClassStruct,
	"class":    ClassClass,
	"trait":    ClassTrait,
	"enum":     ClassEnum,
	"union":    ClassUnion,
	"type":     ClassTypeDef,
	"use":      ClassUse,
	"{":        ClassOpenBlock,
	"}":        ClassCloseBlock,
	"fn":       ClassExpression,
}

// classify decides what the statement at the cursor is without building
// anything. The cursor is left where it was.
func (p *Parser) classify() (StmtClass, error) {
	start := p.ts.CurrentIndex()
	defer p.ts.GoToIndex(start)

	tok, ok := p.ts.Current()
	if !ok || tok.IsEndOfLine() {
		return ClassEndOfLine, nil
	}
	if c, ok := leadingKeywords[tok.Text]; ok {
		return c, nil
	}

	var (
		parens, brackets, curlies, angles int
		names                             int
		modifier, sawParen, prevName      bool
		lastClose                         = -1 // index of the last top-level ')'
	)
	top := func() bool { return parens == 0 && brackets == 0 && curlies == 0 }

	// endOfLine решает по накопленному состоянию
	endOfLine := func() StmtClass {
		if sawParen && lastClose >= 0 {
			p.ts.GoToIndex(lastClose + 1)
			p.ts.SkipNewlines()
			if p.at("{") || p.at("where") {
				return ClassFunction
			}
		}
		if names > 1 || modifier {
			return ClassVariable
		}
		if sawParen {
			return ClassFunctionCall
		}
		return ClassExpression
	}

	for {
		tok, ok := p.ts.Current()
		if !ok {
			if !top() {
				return 0, diag.New(diag.UnmatchedParenthesis, p.ts.CurrentSpan(), "unclosed bracket at end of input")
			}
			return endOfLine(), nil
		}
		text := tok.Text
		isName := false

		switch {
		case tok.IsEndOfLine():
			if top() {
				return endOfLine(), nil
			}
		case text == "(":
			if top() {
				sawParen = true
			}
			parens++
		case text == ")":
			parens--
			if parens < 0 {
				return 0, diag.New(diag.UnmatchedParenthesis, tok.Span, "a ')' without a matching '('")
			}
			if top() {
				lastClose = p.ts.CurrentIndex()
				// группа ведёт себя как тип: `(int, str) t = ...`
				names = 1
				isName = true
			}
		case text == "[":
			brackets++
		case text == "]":
			brackets--
			if brackets < 0 {
				return 0, diag.New(diag.UnmatchedParenthesis, tok.Span, "a ']' without a matching '['")
			}
			isName = prevName && top()
		case text == "{":
			if top() {
				if sawParen {
					return ClassFunction, nil
				}
				return ClassStructConstructor, nil
			}
			curlies++
		case text == "}":
			if curlies > 0 {
				curlies--
				break
			}
			if top() {
				return endOfLine(), nil
			}
			return 0, diag.New(diag.UnmatchedParenthesis, tok.Span, "a '}' without a matching '{'")
		case !top():
			// внутри скобок ничего не решаем
		case text == "<" && prevName:
			angles++
			isName = true
		case text == ">" && angles > 0:
			angles--
			isName = true
		case angles > 0:
			// аргументы дженерика не считаются именами: `<T: A = B>`
			isName = true
		case text == ":=":
			return ClassVariable, nil
		case text == "=":
			if modifier || names > 1 {
				return ClassVariable, nil
			}
			return ClassAssignment, nil
		case token.IsAssignOp(text):
			return ClassAssignment, nil
		case text == "where" && sawParen:
			return ClassFunction, nil
		case token.IsTypeModifier(text):
			modifier = true
		case text == ".":
			names = 0
			isName = true
		case token.IsNameLike(text):
			names++
			isName = true
		case tok.IsLifetime(), text == "*", text == "**", text == "&", text == "&&", text == "@":
			// обёртки типа не разрывают цепочку имён
			isName = prevName
		default:
			names = 0
		}
		prevName = isName
		p.ts.Next()
	}
}
