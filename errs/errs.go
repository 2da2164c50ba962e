// Package errs carries the reference engine's ErrorHandler idiom
// (_examples/shaban-macaudio/errors.go: ErrorHandler/DefaultErrorHandler/
// LoggingErrorHandler/PanicErrorHandler) forward, generalized to tag each
// error with one of the kinds §7 names so a caller-supplied handler can
// discriminate user-visible failures (DeviceNotFound, StreamOpen, ...)
// from the ones the spec requires to stay silent on the real-time path
// (BufferOverflow, BufferUnderrun, InternalInvariantViolation never go
// through a Handler — they are handled in place, per §7).
package errs

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Kind names one of §7's error kinds.
type Kind string

const (
	KindDeviceNotFound    Kind = "device_not_found"
	KindEnumeration       Kind = "enumeration"
	KindStreamOpen        Kind = "stream_open"
	KindStreamStart       Kind = "stream_start"
	KindDecodeError       Kind = "decode_error"
	KindFileNotFound      Kind = "file_not_found"
	KindInternalInvariant Kind = "internal_invariant_violation"
)

// Error wraps a plain error with the §7 kind it belongs to.
type Error struct {
	Kind Kind
	Err  error
}

func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Handler is the reference engine's ErrorHandler interface, unchanged in
// shape: something that wants to know about a supervisor-path error as
// it happens (logging it, counting it, or — in tests — panicking on it).
type Handler interface {
	HandleError(error)
}

// DefaultHandler is the reference engine's DefaultErrorHandler, ported
// from fmt.Printf to this module's structured logger. It is the engine's
// implicit handler when no other is installed.
type DefaultHandler struct {
	logger *log.Logger
}

// NewDefaultHandler wraps logger (log.Default() if nil) as a Handler.
func NewDefaultHandler(logger *log.Logger) *DefaultHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &DefaultHandler{logger: logger}
}

func (h *DefaultHandler) HandleError(err error) {
	if tagged, ok := err.(*Error); ok {
		h.logger.Error("engine error", "kind", tagged.Kind, "err", tagged.Err)
		return
	}
	h.logger.Error("engine error", "err", err)
}

// LoggingHandler is the reference engine's LoggingErrorHandler: it wraps
// an underlying Handler and additionally reports every error to a custom
// sink (a metrics counter, a crash reporter) before delegating.
type LoggingHandler struct {
	underlying Handler
	sink       func(error)
}

// NewLoggingHandler wraps underlying with sink, called before
// underlying.HandleError on every error.
func NewLoggingHandler(underlying Handler, sink func(error)) *LoggingHandler {
	return &LoggingHandler{underlying: underlying, sink: sink}
}

func (h *LoggingHandler) HandleError(err error) {
	if h.sink != nil {
		h.sink(err)
	}
	if h.underlying != nil {
		h.underlying.HandleError(err)
	}
}

// PanicHandler is the reference engine's PanicErrorHandler, used by
// tests that want any supervisor-path error to fail loudly rather than
// be logged and swallowed.
type PanicHandler struct{}

func (PanicHandler) HandleError(err error) {
	panic(fmt.Sprintf("engine error: %v", err))
}
