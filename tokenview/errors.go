package tokenview

import (
	"github.com/partiql-go/partiql/perr"
	"github.com/partiql-go/partiql/token"
)

func newExpectedTypeError(tok *token.Token, want token.Kind) *perr.Error {
	return perr.Newf(perr.CodeUnexpectedToken, "expected %s, got %s", want, tok.Kind).
		With("expected", want.String()).
		AtSpan(tok.Span.Line, tok.Span.Column, tok.Span.Length)
}

func newExpectedKeywordError(tok *token.Token, kw string) *perr.Error {
	return perr.Newf(perr.CodeUnexpectedToken, "expected %q, got %s", kw, tok.Kind).
		With("expected", kw).
		AtSpan(tok.Span.Line, tok.Span.Column, tok.Span.Length)
}
