package token

// keywords - зарезервированные слова Soul; регистр важен.
var keywords = map[string]struct{}{
	"if":       {},
	"else":     {},
	"while":    {},
	"for":      {},
	"in":       {},
	"match":    {},
	"return":   {},
	"break":    {},
	"continue": {},
	"struct":   {},
	"class":    {},
	"trait":    {},
	"enum":     {},
	"union":    {},
	"type":     {},
	"use":      {},
	"as":       {},
	"impl":     {},
	"where":    {},
	"fn":       {},
	"this":     {},
	"const":    {},
	"Literal":  {},
}

// typeModifiers are the keywords that may prefix a type or declaration.
var typeModifiers = map[string]struct{}{
	"const":   {},
	"Literal": {},
}

// IsKeyword reports whether text is a reserved word.
func IsKeyword(text string) bool {
	_, ok := keywords[text]
	return ok
}

// IsTypeModifier reports whether text is a type modifier keyword.
func IsTypeModifier(text string) bool {
	_, ok := typeModifiers[text]
	return ok
}
