// Package token defines Soul tokens and the seekable Stream the parser walks.
// Invariants:
//   - Token.Text is the exact lexeme; Token.Span covers it on a single line.
//   - Newlines are significant and appear as tokens with Text "\n".
//   - Comments never reach the token sequence; preprocessing strips them.
//   - The sequence has no EOF token. Running off either end is reported by
//     the Stream (ok == false) and parks it on a sentinel index.
//   - The lexer never produces ">>": nested generic arguments close one '>' at a time.
package token
