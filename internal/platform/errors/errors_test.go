package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Errorf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestErrorCodeString(t *testing.T) {
	if ErrorCodeTimeout.String() != "timeout" || ErrorCodeInvalidArgument.String() != "invalid_argument" {
		t.Fatal("unexpected code names")
	}
	if ErrorCode(77).String() != "unknown" {
		t.Fatal("out of range codes should read unknown")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render = %q", nilErr.Error())
	}

	cause := stderrs.New("socket closed")
	err := Wrap(cause, ErrorCodeUnavailable, "read sample bounds")
	if !stderrs.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if err.Error() != "read sample bounds: socket closed" {
		t.Fatalf("render = %q", err.Error())
	}
	if Root(fmt.Errorf("outer: %w", err)) != cause {
		t.Fatal("Root should reach the innermost error")
	}
	if Wrap(nil, ErrorCodeDB, "x") != nil || Wrapf(nil, ErrorCodeDB, "x %d", 1) != nil {
		t.Fatal("wrapping nil must stay nil")
	}
	e, _ := As(Wrapf(cause, ErrorCodeDB, "window %d", 3))
	if e.Message() != "window 3" || e.Code() != ErrorCodeDB {
		t.Fatalf("got %q %v", e.Message(), e.Code())
	}
}

func TestCodeOfThroughForeignWrap(t *testing.T) {
	inner := InvalidArgf("months must be >= 0")
	outer := fmt.Errorf("generate: %w", inner)
	if !IsCode(outer, ErrorCodeInvalidArgument) {
		t.Fatalf("code = %v", CodeOf(outer))
	}
	if HTTPStatus(outer) != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", HTTPStatus(outer))
	}
	if CodeOf(stderrs.New("plain")) != ErrorCodeUnknown {
		t.Fatal("foreign errors are unknown")
	}
	if CodeOf(nil) != ErrorCodeUnknown {
		t.Fatal("nil is unknown")
	}
}

func TestWithFieldCopies(t *testing.T) {
	base := New(ErrorCodeValidation, "bad end")
	withField := WithField(base, "end")

	if e, _ := As(base); e.Field() != "" {
		t.Fatal("WithField mutated the original")
	}
	if e, _ := As(withField); e.Field() != "end" {
		t.Fatalf("field = %q", e.Field())
	}

	plain := stderrs.New("plain")
	if WithField(plain, "x") != plain {
		t.Fatal("foreign errors pass through")
	}
}

func TestWireFrom(t *testing.T) {
	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("nil wire = %+v", w)
	}
	w := WireFrom(WithField(Wrap(stderrs.New("hidden"), ErrorCodeJSON, "bad json"), "body"))
	if w.Code != ErrorCodeJSON || w.Message != "bad json" || w.Field != "body" {
		t.Fatalf("wire = %+v", w)
	}
	if w := WireFrom(stderrs.New("raw")); w.Code != ErrorCodeUnknown || w.Message != "raw" {
		t.Fatalf("foreign wire = %+v", w)
	}
}

func TestSugar(t *testing.T) {
	cases := map[ErrorCode]error{
		ErrorCodeNotFound:        NotFoundf("site %s", "x"),
		ErrorCodeInvalidArgument: InvalidArgf("n"),
		ErrorCodeDB:              DBf("d"),
		ErrorCodeJSON:            JSONErrf("j"),
		ErrorCodePanic:           PanicErrf("p"),
		ErrorCodeUnavailable:     Unavailablef("u"),
		ErrorCodeUnknown:         Internalf("i"),
	}
	for want, err := range cases {
		if got := CodeOf(err); got != want {
			t.Errorf("%v: got %v", err, got)
		}
	}
	if !IsCode(ErrNotFound, ErrorCodeNotFound) {
		t.Fatal("ErrNotFound code")
	}
}
