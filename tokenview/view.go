// Package tokenview provides a lightweight, purely functional view over a
// token stream. It is the only thing the parser's sub-parsers read from:
// head/tail operations, typed peeks, keyword lookups, and the operator
// precedence table all live here so that the grammar in package parser
// never pokes at a raw token slice.
package tokenview

import (
	"github.com/partiql-go/partiql/token"
)

// View is an immutable cursor over a token stream. Advancing a View never
// mutates it; it returns a new View whose Head is the next token. This
// mirrors the parse node's own "new tail on every derive" shape (see
// package parsetree) so that neither layer hides aliased mutable state
// from the other.
type View struct {
	toks []*token.Token
	pos  int
}

// New creates a View over toks, which must end with a KindEOF token.
func New(toks []*token.Token) View {
	return View{toks: toks}
}

// Head returns the current token. Once the view is exhausted it keeps
// returning the trailing EOF token.
func (v View) Head() *token.Token {
	return v.Peek(0)
}

// Peek returns the token n places ahead of Head, clamped to the final (EOF)
// token if n runs past the end of the stream.
func (v View) Peek(n int) *token.Token {
	i := v.pos + n
	if i >= len(v.toks) {
		return v.toks[len(v.toks)-1]
	}
	return v.toks[i]
}

// HeadKeyword returns the normalized keyword text of Head, or "" if Head is
// not a keyword-bearing token.
func (v View) HeadKeyword() string {
	return v.Head().KeywordText
}

// Advance returns the View that starts just past the current Head.
func (v View) Advance() View {
	if v.Head().Kind == token.KindEOF {
		return v
	}
	return View{toks: v.toks, pos: v.pos + 1}
}

// Len reports how many tokens remain, including the trailing EOF.
func (v View) Len() int {
	return len(v.toks) - v.pos
}

// OnlyEndOfStatement reports whether only EOF and/or semicolons remain.
func (v View) OnlyEndOfStatement() bool {
	for i := v.pos; i < len(v.toks); i++ {
		k := v.toks[i].Kind
		if k != token.KindEOF && k != token.KindSemicolon {
			return false
		}
	}
	return true
}

// RequireType advances past Head if it has kind k, returning the consumed
// token; otherwise it returns an error describing what was expected.
func (v View) RequireType(k token.Kind) (*token.Token, View, error) {
	if v.Head().Kind != k {
		return nil, v, newExpectedTypeError(v.Head(), k)
	}
	return v.Head(), v.Advance(), nil
}

// RequireKeyword advances past Head if its normalized keyword text is kw;
// otherwise it returns an error describing what was expected.
func (v View) RequireKeyword(kw string) (*token.Token, View, error) {
	if !v.Head().IsKeyword(kw) {
		return nil, v, newExpectedKeywordError(v.Head(), kw)
	}
	return v.Head(), v.Advance(), nil
}
