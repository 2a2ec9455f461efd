package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestError_Format(t *testing.T) {
	err := Generic("could not reply with string")

	got := err.Error()
	if got != "[generic] could not reply with string" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestError_FormatWithCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Decode("call reply", cause)

	got := err.Error()
	if !strings.Contains(got, "[decode]") {
		t.Fatalf("missing kind in %q", got)
	}
	if !strings.Contains(got, "caused by: boom") {
		t.Fatalf("missing cause in %q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("bad digit")
	err := Parse("12x", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected errors.Is to reach the cause")
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	err := Genericf("operation %s failed", "open_key")

	if !stderrors.Is(err, &Error{Kind: KindGeneric}) {
		t.Fatal("expected kind match")
	}
	if stderrors.Is(err, &Error{Kind: KindDecode}) {
		t.Fatal("unexpected cross-kind match")
	}
}

func TestInvalidUTF8_Preview(t *testing.T) {
	data := make([]byte, 64)
	for i := range data {
		data[i] = 0xff
	}
	err := InvalidUTF8("argument 1", data)

	// Preview is capped at 32 bytes (64 hex chars).
	if strings.Count(err.Error(), "ff") > 32 {
		t.Fatalf("preview too long: %q", err.Error())
	}
	if !IsKind(err, KindDecode) {
		t.Fatal("expected decode kind")
	}
}

func TestIsKind_NonSDKError(t *testing.T) {
	if IsKind(stderrors.New("plain"), KindGeneric) {
		t.Fatal("plain errors must not match")
	}
}
