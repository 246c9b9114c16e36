package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

const tabWidth = 4

// Preprocess strips comments, expands tabs and normalises string literals to NFC.
//
// Line structure is preserved: a block comment spanning several lines
// leaves its newlines behind so spans keep pointing at the original lines.
// An unterminated block comment swallows the rest of the input.
func Preprocess(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			i += 2
			for i < len(src) && !(src[i] == '*' && i+1 < len(src) && src[i+1] == '/') {
				if src[i] == '\n' {
					out = append(out, '\n')
				}
				i++
			}
			i += 2
			out = append(out, ' ')
		case c == '\t':
			out = append(out, bytes.Repeat([]byte{' '}, tabWidth)...)
			i++
		case c == '"':
			end := stringEnd(src, i)
			out = append(out, norm.NFC.Bytes(src[i:end])...)
			i = end
		case c == '\'' && i+2 < len(src) && src[i+2] == '\'':
			// '"' как char-литерал не должен открывать строку
			out = append(out, src[i:i+3]...)
			i += 3
		default:
			out = append(out, c)
			i++
		}
	}
	return out
}

// stringEnd returns the index right after the closing quote of the string
// starting at i, or the end of its line when it is unterminated.
func stringEnd(src []byte, i int) int {
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		case '\n':
			return j
		}
	}
	return len(src)
}
