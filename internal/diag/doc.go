// Package diag defines the error model shared by the Soul front end.
//
// # Data model
//
// SoulError is the central record. It carries an ordered stack of frames,
// each a (ErrorKind, Span, message) triple. Frames are stored innermost cause
// first; renderers print them outermost first so the user reads the context
// ("while parsing function 'foo'") before the concrete failure.
//
//   - ErrorKind – closed enum with a stable numeric code (SOUL1001, ...).
//   - Span – source.Span of the frame; the innermost frame's span is primary.
//   - Message – short human oriented text.
//
// # Propagation
//
// Producers create errors with New/Newf and add context while unwinding with
// Wrap/Wrapf. Wrapping never loses the innermost kind, message or span.
// Non-fatal problems (duplicate declarations) are emitted through a Reporter
// into a Bag and parsing continues; every other error is returned and aborts
// the current file only.
//
// Package diag does no formatting or IO. Rendering against source lines lives
// in internal/diagfmt.
package diag
