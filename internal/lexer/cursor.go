package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"soul/internal/source"
)

// Cursor представляет собой позицию в файле: байтовое смещение и line/col.
type Cursor struct {
	src  []byte
	Off  int
	Line uint32
	Col  uint32
}

// NewCursor creates a new cursor at line 1, column 1.
func NewCursor(src []byte) Cursor {
	return Cursor{src: src, Line: 1, Col: 1}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= len(c.src)
}

// Peek читает текущую руну, если есть, иначе возвращает 0
func (c *Cursor) Peek() rune {
	return c.PeekAt(0)
}

// PeekAt читает руну через n рун от курсора.
func (c *Cursor) PeekAt(n int) rune {
	off := c.Off
	for ; n > 0 && off < len(c.src); n-- {
		_, size := utf8.DecodeRune(c.src[off:])
		off += size
	}
	if off >= len(c.src) {
		return 0
	}
	r, _ := utf8.DecodeRune(c.src[off:])
	return r
}

// Bump перемещает курсор на одну руну вперед и возвращает её
func (c *Cursor) Bump() rune {
	if c.EOF() {
		return 0
	}
	r, size := utf8.DecodeRune(c.src[c.Off:])
	c.Off += size
	if r == '\n' {
		c.Line++
		c.Col = 1
	} else {
		c.Col++
	}
	return r
}

// Eat consumes the next rune if it matches.
func (c *Cursor) Eat(r rune) bool {
	if !c.EOF() && c.Peek() == r {
		c.Bump()
		return true
	}
	return false
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark struct {
	off  int
	line uint32
	col  uint32
}

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark{off: c.Off, line: c.Line, col: c.Col}
}

// SpanFrom получает Span для фрагмента, начиная с метки.
// Токены однострочные, поэтому Len - число рун.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	n, err := safecast.Conv[uint32](utf8.RuneCount(c.src[m.off:c.Off]))
	if err != nil {
		panic(fmt.Errorf("token length overflow: %w", err))
	}
	return source.Span{Line: m.line, Col: m.col, Len: n}
}

// TextFrom returns the source text read since the mark.
func (c *Cursor) TextFrom(m Mark) string {
	return string(c.src[m.off:c.Off])
}
