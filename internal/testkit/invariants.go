package testkit

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"soul/internal/ast"
	"soul/internal/parser"
	"soul/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parse result:
// 1) every statement span is non-empty and starts on a line of the source
// 2) statements of one block start strictly one after another
// 3) function bodies in the declaration arena obey the same rules
func CheckSpanInvariants(resp *parser.ParserResponse, src []byte) error {
	if resp == nil {
		return fmt.Errorf("nil parse response")
	}
	lines, err := safecast.Conv[uint32](bytes.Count(src, []byte{'\n'}) + 1)
	if err != nil {
		return fmt.Errorf("line count overflow: %w", err)
	}
	c := checker{lines: lines}
	if err := c.block("root", &resp.Tree.Root); err != nil {
		return err
	}
	if resp.Tree.Decls == nil {
		return nil
	}
	for i := range resp.Tree.Decls.Functions.Data {
		fn := &resp.Tree.Decls.Functions.Data[i]
		if err := c.block("function "+fn.Signature.Name, &fn.Body); err != nil {
			return err
		}
	}
	return nil
}

type checker struct {
	lines uint32
}

func (c *checker) block(where string, b *ast.Block) error {
	var prev source.Span
	for i := range b.Statements {
		st := &b.Statements[i]
		sp := st.Span
		if sp.IsZero() {
			return fmt.Errorf("%s: statement %d (%s) has an empty span", where, i, st.Kind)
		}
		if sp.Line > c.lines {
			return fmt.Errorf("%s: statement %d starts on line %d of %d", where, i, sp.Line, c.lines)
		}
		if !prev.IsZero() && (sp.Line < prev.Line || sp.Line == prev.Line && sp.Col <= prev.Col) {
			return fmt.Errorf("%s: statement %d at %s does not follow %s", where, i, sp, prev)
		}
		prev = sp
		if err := c.nested(where, st); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) nested(where string, st *ast.Statement) error {
	switch st.Kind {
	case ast.StmtBlock:
		return c.block(where, st.Block)
	case ast.StmtIf:
		if err := c.block(where, &st.If.Body); err != nil {
			return err
		}
		for i := range st.If.Else {
			if err := c.block(where, &st.If.Else[i].Body); err != nil {
				return err
			}
		}
	case ast.StmtWhile:
		return c.block(where, &st.While.Body)
	case ast.StmtFor:
		return c.block(where, &st.For.Body)
	}
	return nil
}
