package lexer

import "testing"

// TestReaderReadPanic tests the case where the reader reads from an invalid
// UTF-8 encoded byte slice.
func TestReaderReadPanic(t *testing.T) {
	defer func() {
		resultPanic := recover()
		if resultPanic == nil {
			t.Fatal("not panic")
		}
		if resultPanic.(string) != "utf-8 encoding invalid" {
			t.Errorf("invalid panic message: %v", resultPanic)
		}
	}()
	r := newReader([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	r.readRune()
}

// TestReaderUnreadOnStart tests that unreadRune reports onStart once the
// reader is back at offset 0.
func TestReaderUnreadOnStart(t *testing.T) {
	r := newReader([]byte("a"))
	r.readRune()
	onStart := r.unreadRune()
	if !onStart {
		t.Error("not on start")
	}
}

// TestReaderPositionTracking tests that line/column advance across
// newlines and reset the column.
func TestReaderPositionTracking(t *testing.T) {
	r := newReader([]byte("ab\ncd"))
	for _, want := range []struct {
		line, col int
	}{{1, 1}, {1, 2}, {1, 3}, {2, 1}, {2, 2}} {
		line, col := r.position()
		if line != want.line || col != want.col {
			t.Errorf("position() = %d,%d, want %d,%d", line, col, want.line, want.col)
		}
		r.readRune()
	}
}

// TestReaderPeekDoesNotConsume tests that peekRune can be called repeatedly
// without advancing the reader.
func TestReaderPeekDoesNotConsume(t *testing.T) {
	r := newReader([]byte("xy"))
	first, _ := r.peekRune()
	second, _ := r.peekRune()
	if first != 'x' || second != 'x' {
		t.Errorf("peekRune not idempotent: %q, %q", first, second)
	}
	rn, eof := r.readRune()
	if eof || rn != 'x' {
		t.Errorf("readRune after peek = %q, %v, want x, false", rn, eof)
	}
}

// TestReaderEOF tests that reading past the end reports eof without
// panicking.
func TestReaderEOF(t *testing.T) {
	r := newReader([]byte(""))
	_, eof := r.readRune()
	if !eof {
		t.Error("expected eof on empty input")
	}
}
