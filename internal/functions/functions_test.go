package functions

import (
	"testing"

	"github.com/konflab/konf/internal/value"
)

func TestRegistryExecuteUnknownFunction(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Execute("nope", value.String("x"), nil); err == nil {
		t.Fatalf("expected an error for an unregistered function")
	}
}

func TestTrimUpperLower(t *testing.T) {
	r := NewRegistry()

	got, err := r.Execute("trim", value.String("  hi  "), nil)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if s, _ := got.AsString(); s != "hi" {
		t.Fatalf("trim: got %q, want %q", s, "hi")
	}

	got, err = r.Execute("upper", value.String("hi"), nil)
	if err != nil {
		t.Fatalf("upper: %v", err)
	}
	if s, _ := got.AsString(); s != "HI" {
		t.Fatalf("upper: got %q, want %q", s, "HI")
	}

	got, err = r.Execute("lower", value.String("HI"), nil)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if s, _ := got.AsString(); s != "hi" {
		t.Fatalf("lower: got %q, want %q", s, "hi")
	}
}

func TestStringFunctionsRejectNonString(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"trim", "upper", "lower"} {
		if _, err := r.Execute(name, value.Int(5), nil); err == nil {
			t.Fatalf("%s should reject an int input", name)
		}
	}
}

func TestBase64RoundTrip(t *testing.T) {
	r := NewRegistry()

	enc, err := r.Execute("base64", value.String("hello"), nil)
	if err != nil {
		t.Fatalf("base64: %v", err)
	}
	encoded, _ := enc.AsString()
	if encoded != "aGVsbG8=" {
		t.Fatalf("got %q, want aGVsbG8=", encoded)
	}

	dec, err := r.Execute("base64_decode", enc, nil)
	if err != nil {
		t.Fatalf("base64_decode: %v", err)
	}
	if s, _ := dec.AsString(); s != "hello" {
		t.Fatalf("got %q, want hello", s)
	}
}

func TestBase64DecodeRejectsInvalidUTF8(t *testing.T) {
	r := NewRegistry()
	// 0xff 0xfe is valid base64 input but decodes to bytes that are not
	// valid UTF-8.
	if _, err := r.Execute("base64_decode", value.String("//4="), nil); err == nil {
		t.Fatalf("expected an error for non-UTF-8 decoded bytes")
	}
}

func TestBase64DecodeRejectsMalformedInput(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Execute("base64_decode", value.String("not base64!"), nil); err == nil {
		t.Fatalf("expected an error for malformed base64")
	}
}

func TestURLEscape(t *testing.T) {
	r := NewRegistry()
	got, err := r.Execute("url_escape", value.String("a b/c"), nil)
	if err != nil {
		t.Fatalf("url_escape: %v", err)
	}
	if s, _ := got.AsString(); s != "a%20b%2Fc" {
		t.Fatalf("got %q, want a%%20b%%2Fc", s)
	}
}

func TestURLEscapeHelloWorld(t *testing.T) {
	r := NewRegistry()
	got, err := r.Execute("url_escape", value.String("hello world"), nil)
	if err != nil {
		t.Fatalf("url_escape: %v", err)
	}
	if s, _ := got.AsString(); s != "hello%20world" {
		t.Fatalf("got %q, want hello%%20world", s)
	}
}

func TestDefaultPassesThroughNonNull(t *testing.T) {
	r := NewRegistry()
	got, err := r.Execute("default", value.Int(7), []Arg{IntArg(0)})
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if i, _ := got.AsInt(); i != 7 {
		t.Fatalf("got %d, want 7 (non-null input unchanged)", i)
	}
}

func TestDefaultSubstitutesOnNull(t *testing.T) {
	r := NewRegistry()
	got, err := r.Execute("default", value.Null(), []Arg{StringArg("fallback")})
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if s, _ := got.AsString(); s != "fallback" {
		t.Fatalf("got %q, want fallback", s)
	}
}

func TestDefaultRequiresAnArgument(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Execute("default", value.Null(), nil); err == nil {
		t.Fatalf("default with no argument and a null input should error")
	}
}
