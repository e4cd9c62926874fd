package cmd

import (
	"log/slog"
	"slices"
)

// Error is a command error carrying structured log attributes.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns a sentinel error with the given message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error joins the message and the wrapped error with ": ", omitting
// whichever is empty.
func (e *Error) Error() string {
	switch {
	case e.err == nil:
		return e.msg
	case e.msg == "":
		return e.err.Error()
	default:
		return e.msg + ": " + e.err.Error()
	}
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && t.msg != "" && t.msg == e.msg
}

// LogValue implements [slog.LogValuer].
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended to its log attributes.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: append(slices.Clip(e.attrs), attrs...),
	}
}

var (
	ErrWriteConfig    = NewError("write configuration file")
	ErrFileExists     = NewError("file exists (use --force to overwrite)")
	ErrLoadVocabulary = NewError("load option vocabulary")
	ErrWriteOutput    = NewError("write output")
	ErrPredicateFalse = NewError("predicate is false")
)
