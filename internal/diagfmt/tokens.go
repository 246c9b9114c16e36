package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"soul/internal/source"
	"soul/internal/token"
)

// TokenOutput is the JSON form of a token.
type TokenOutput struct {
	Kind string      `json:"kind"`
	Text string      `json:"text"`
	Span source.Span `json:"span"`
}

// FormatTokensPretty prints one token per line: index, kind, text, position.
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%4d: %-10s %-16q at %s\n", i+1, tok.Kind(), tok.String(), tok.Span); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON prints the tokens as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, TokenOutput{Kind: tok.Kind().String(), Text: tok.Text, Span: tok.Span})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
