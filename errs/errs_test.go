package errs

import (
	"errors"
	"testing"
)

func TestErrorWrapsKindAndUnwraps(t *testing.T) {
	cause := errors.New("device gone")
	err := New(KindDeviceNotFound, cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find the wrapped cause")
	}
	if err.Kind != KindDeviceNotFound {
		t.Fatalf("expected kind %q, got %q", KindDeviceNotFound, err.Kind)
	}
}

func TestDefaultHandlerDoesNotPanic(t *testing.T) {
	h := NewDefaultHandler(nil)
	h.HandleError(New(KindStreamOpen, errors.New("boom")))
	h.HandleError(errors.New("untagged"))
}

func TestLoggingHandlerReportsToSinkAndUnderlying(t *testing.T) {
	var sunk []error
	var delegated []error
	underlying := sinkHandler(func(err error) { delegated = append(delegated, err) })

	h := NewLoggingHandler(underlying, func(err error) { sunk = append(sunk, err) })
	err := New(KindDecodeError, errors.New("bad wav"))
	h.HandleError(err)

	if len(sunk) != 1 || sunk[0] != error(err) {
		t.Fatalf("expected sink to see the error once, got %v", sunk)
	}
	if len(delegated) != 1 || delegated[0] != error(err) {
		t.Fatalf("expected underlying handler to see the error once, got %v", delegated)
	}
}

type sinkHandler func(error)

func (f sinkHandler) HandleError(err error) { f(err) }

func TestPanicHandlerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected PanicHandler to panic")
		}
	}()
	PanicHandler{}.HandleError(errors.New("boom"))
}
