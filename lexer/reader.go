package lexer

import (
	"unicode/utf8"
)

// reader reads runes from a UTF-8 encoded byte slice, tracking the
// line/column of the rune the next readRune will return.
type reader struct {
	// code is the source being read.
	code []byte
	// offset is the current byte offset on code.
	offset int64
	// line, col are the 1-based position of the rune at offset, i.e. the
	// position the NEXT readRune will report.
	line, col int
	// prevLine, prevCol hold the position before the last readRune, so a
	// single unreadRune can restore it exactly.
	prevLine, prevCol int
	prevWidth         int64
}

// newReader creates a new reader that reads from code.
func newReader(code []byte) *reader {
	return &reader{code: code, line: 1, col: 1}
}

// readRune reads the next rune from the code, advancing the line/column
// bookkeeping. It panics on invalid UTF-8, mirroring the reference lexer
// this package is built from: a byte slice that fails to decode as UTF-8
// is a host-level misuse, not a recoverable lexical error.
func (r *reader) readRune() (rn rune, eof bool) {
	rn, size := utf8.DecodeRune(r.code[r.offset:])
	if rn == utf8.RuneError {
		if size == 0 {
			return 0, true
		}
		panic("utf-8 encoding invalid")
	}
	r.prevLine, r.prevCol = r.line, r.col
	r.prevWidth = int64(size)
	r.offset += int64(size)
	if rn == '\n' {
		r.line++
		r.col = 1
	} else {
		r.col++
	}
	return rn, false
}

// unreadRune seeks to the start of the rune before the current offset,
// restoring the line/column it had. It only ever needs to undo the single
// most recent readRune call — no caller in this package unreads twice in a
// row without an intervening read.
func (r *reader) unreadRune() (onStart bool) {
	if r.offset == 0 {
		return true
	}
	r.offset -= r.prevWidth
	r.line, r.col = r.prevLine, r.prevCol
	return r.offset == 0
}

// peekRune reports the next rune without consuming it.
func (r *reader) peekRune() (rn rune, eof bool) {
	rn, eof = r.readRune()
	if !eof {
		r.unreadRune()
	}
	return rn, eof
}

// position returns the line/column of the rune at the current offset.
func (r *reader) position() (line, col int) {
	return r.line, r.col
}
