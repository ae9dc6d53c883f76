package perr

import (
	"errors"
	"strings"
	"testing"
)

func TestNewHasEmptyProps(t *testing.T) {
	e := New(CodeExpectedFrom, "expected FROM")
	if e.Code != CodeExpectedFrom {
		t.Errorf("Code = %q, want %q", e.Code, CodeExpectedFrom)
	}
	if len(e.Props) != 0 {
		t.Errorf("Props = %v, want empty", e.Props)
	}
}

func TestNewf(t *testing.T) {
	e := Newf(CodeUnexpectedToken, "expected %s, got %s", "FROM", "WHERE")
	want := "expected FROM, got WHERE"
	if e.Message != want {
		t.Errorf("Message = %q, want %q", e.Message, want)
	}
}

func TestWithChainsAndMutates(t *testing.T) {
	e := New(CodeUnexpectedToken, "bad token")
	got := e.With("expected", "FROM")
	if got != e {
		t.Error("With should return the same *Error it was called on")
	}
	if e.Props["expected"] != "FROM" {
		t.Errorf("Props[expected] = %v, want FROM", e.Props["expected"])
	}
}

func TestAtSpanRecordsLineColumnLength(t *testing.T) {
	e := New(CodeExpectedFrom, "expected FROM").AtSpan(3, 7, 4)
	if e.Props["line"] != 3 || e.Props["column"] != 7 || e.Props["length"] != 4 {
		t.Errorf("Props = %v, want line=3 column=7 length=4", e.Props)
	}
}

func TestErrorStringWithSpan(t *testing.T) {
	e := New(CodeExpectedFrom, "expected FROM").AtSpan(3, 7, 4)
	got := e.Error()
	if !strings.Contains(got, "expected_from") || !strings.Contains(got, "line 3") || !strings.Contains(got, "column 7") {
		t.Errorf("Error() = %q, missing expected substrings", got)
	}
}

func TestErrorStringWithoutSpan(t *testing.T) {
	e := New(CodeInterrupted, "canceled")
	want := "interrupted: canceled"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
}

func TestInternalCarriesStackAndCode(t *testing.T) {
	err := Internal("unexpected tag %d", 7)
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("Internal error does not unwrap to *Error: %v", err)
	}
	if pe.Code != CodeMalformedParseTree {
		t.Errorf("Code = %q, want %q", pe.Code, CodeMalformedParseTree)
	}
	if !strings.Contains(err.Error(), "unexpected tag 7") {
		t.Errorf("Error() = %q, missing formatted message", err.Error())
	}
}
