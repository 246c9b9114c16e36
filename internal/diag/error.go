package diag

import (
	"errors"
	"fmt"
	"strings"

	"soul/internal/source"
)

// Frame is one level of a SoulError stack.
type Frame struct {
	Kind    ErrorKind
	Span    source.Span
	Message string
	// Note marks a secondary location ("previously declared here"). Notes
	// are not part of the context stack and render after it.
	Note bool
}

// SoulError is an error with a stack of frames, innermost cause first.
// Notes may be interleaved; they keep their insertion order.
type SoulError struct {
	frames []Frame
}

// New creates an error with a single frame.
func New(kind ErrorKind, span source.Span, msg string) *SoulError {
	return &SoulError{frames: []Frame{{Kind: kind, Span: span, Message: msg}}}
}

// Newf is New with fmt formatting.
func Newf(kind ErrorKind, span source.Span, format string, args ...any) *SoulError {
	return New(kind, span, fmt.Sprintf(format, args...))
}

// Kind returns the kind of the innermost frame.
func (e *SoulError) Kind() ErrorKind {
	if e == nil || len(e.frames) == 0 {
		return UnknownKind
	}
	return e.frames[0].Kind
}

// Span returns the primary (innermost) span.
func (e *SoulError) Span() source.Span {
	if e == nil || len(e.frames) == 0 {
		return source.Span{}
	}
	return e.frames[0].Span
}

// Message returns the innermost message.
func (e *SoulError) Message() string {
	if e == nil || len(e.frames) == 0 {
		return ""
	}
	return e.frames[0].Message
}

// Frames returns the frames innermost first. Do not modify the result.
func (e *SoulError) Frames() []Frame {
	if e == nil {
		return nil
	}
	return e.frames
}

// Outermost returns the frames in rendering order: the context stack
// outermost first, then the notes.
func (e *SoulError) Outermost() []Frame {
	out := make([]Frame, 0, len(e.frames))
	for i := len(e.frames) - 1; i >= 0; i-- {
		if !e.frames[i].Note {
			out = append(out, e.frames[i])
		}
	}
	for _, f := range e.frames {
		if f.Note {
			out = append(out, f)
		}
	}
	return out
}

// Wrap returns a copy of e with an outer context frame. The frame inherits
// the innermost kind so the classification survives any amount of wrapping.
func (e *SoulError) Wrap(span source.Span, msg string) *SoulError {
	frames := make([]Frame, len(e.frames), len(e.frames)+1)
	copy(frames, e.frames)
	frames = append(frames, Frame{Kind: e.Kind(), Span: span, Message: msg})
	return &SoulError{frames: frames}
}

// WithNote returns a copy of e with a secondary location attached.
func (e *SoulError) WithNote(span source.Span, msg string) *SoulError {
	frames := make([]Frame, len(e.frames), len(e.frames)+1)
	copy(frames, e.frames)
	frames = append(frames, Frame{Kind: e.Kind(), Span: span, Message: msg, Note: true})
	return &SoulError{frames: frames}
}

func (e *SoulError) Error() string {
	if e == nil || len(e.frames) == 0 {
		return "<nil>"
	}
	var sb strings.Builder
	for i, f := range e.Outermost() {
		switch {
		case f.Note:
			sb.WriteString(" (note: ")
			sb.WriteString(f.Message)
			sb.WriteString(")")
		case i > 0:
			sb.WriteString(": ")
			fallthrough
		default:
			sb.WriteString(f.Message)
		}
	}
	return sb.String()
}

// Is matches another *SoulError by innermost kind, so errors.Is works on kinds.
func (e *SoulError) Is(target error) bool {
	var other *SoulError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind() == e.Kind()
}

// Wrapf adds a context frame to err. Foreign errors become an
// InternalError frame first so nothing is lost.
func Wrapf(err error, span source.Span, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return As(err).Wrap(span, fmt.Sprintf(format, args...))
}

// As converts any error into a *SoulError.
func As(err error) *SoulError {
	if err == nil {
		return nil
	}
	var se *SoulError
	if errors.As(err, &se) {
		return se
	}
	return New(InternalError, source.Span{}, err.Error())
}

// KindOf reports the innermost kind of err, UnknownKind for foreign errors.
func KindOf(err error) ErrorKind {
	var se *SoulError
	if errors.As(err, &se) {
		return se.Kind()
	}
	return UnknownKind
}

// Internal reports a broken invariant.
func Internal(span source.Span, format string, args ...any) *SoulError {
	return Newf(InternalError, span, format, args...)
}

// FromFrames rebuilds an error from frames in Frames order (used by the cache).
func FromFrames(frames []Frame) *SoulError {
	if len(frames) == 0 {
		return nil
	}
	return &SoulError{frames: append([]Frame(nil), frames...)}
}
