// Package parser implements the PartiQL recursive-descent parser: a Pratt
// expression parser fused with a family of context-sensitive, keyword
// driven sub-parsers, producing the intermediate tree defined by package
// parsetree. Package ast turns that tree into the typed AST.
//
// Every sub-parser is a pure function of a tokenview.View: it returns the
// parse node it built together with the view left over, or an error. No
// sub-parser mutates its input or attempts error recovery — the first
// error found stops the parse, per the specification's fail-fast error
// model.
package parser

import (
	"context"

	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/perr"
	"github.com/partiql-go/partiql/token"
	"github.com/partiql-go/partiql/tokenview"
)

// Parser parses a token stream into an intermediate parsetree.Node.
type Parser struct {
	ctx context.Context
	// depth is the current recursive-descent depth. It is bookkeeping for
	// the stack-depth cap described in the specification's concurrency and
	// resource model, not grammar state: no sub-parser reads it to decide
	// what to parse.
	depth int
}

// maxDepth bounds the recursion depth of the expression parser so that a
// pathologically nested input fails with a parser error instead of
// exhausting the host stack.
const maxDepth = 2000

// New creates a Parser. ctx is checked cooperatively at each entry to the
// expression parser; canceling it aborts the parse with perr.CodeInterrupted.
func New(ctx context.Context) *Parser {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Parser{ctx: ctx}
}

// enter bumps the recursion depth for the duration of a sub-parser call,
// returning an error if the cap is exceeded.
func (p *Parser) enter() (func(), error) {
	p.depth++
	if p.depth > maxDepth {
		p.depth--
		return func() {}, perr.New(perr.CodeUnsupportedSyntax, "expression nesting too deep")
	}
	return func() { p.depth-- }, nil
}

// checkCancel returns perr.CodeInterrupted if the parser's context has been
// canceled.
func (p *Parser) checkCancel() error {
	select {
	case <-p.ctx.Done():
		return perr.New(perr.CodeInterrupted, "parsing was interrupted")
	default:
		return nil
	}
}

// ParseTopLevel parses a single top-level statement: an expression query,
// a DML statement, a DDL statement, or EXEC. It validates top-level
// placement (every top-level-only tag appears only at the root or directly
// beneath a DML_LIST) and requires the remaining tokens to be only
// EOF/semicolons, reporting "extra tokens after the statement" as a
// distinct error from "extra tokens after the terminating semicolon".
func (p *Parser) ParseTopLevel(v tokenview.View) (*parsetree.Node, error) {
	node, rest, err := p.statement(v)
	if err != nil {
		return nil, err
	}

	if err := validateTopLevel(node, 0, false); err != nil {
		return nil, err
	}

	if rest.Head().Kind == token.KindSemicolon {
		afterSemi := rest.Advance()
		if !afterSemi.OnlyEndOfStatement() {
			return nil, perr.New(perr.CodeExtraAfterSemicolon, "extra tokens after terminating semicolon").
				AtSpan(afterSemi.Head().Span.Line, afterSemi.Head().Span.Column, afterSemi.Head().Span.Length)
		}
		return node, nil
	}

	if !rest.OnlyEndOfStatement() {
		return nil, perr.New(perr.CodeExtraAfterStatement, "extra tokens after statement").
			AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
	}

	return node, nil
}

// statement dispatches to the appropriate top-level sub-parser based on the
// leading keyword(s).
func (p *Parser) statement(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	if err := p.checkCancel(); err != nil {
		return nil, v, err
	}

	h := v.Head()
	switch {
	case h.IsKeyword("select"):
		return p.selectStatement(v)
	case h.IsKeyword("pivot"):
		return p.pivotStatement(v)
	case h.IsKeyword("with"):
		return p.withStatement(v)
	case h.IsKeyword("insert_into") || h.IsKeyword("insert"):
		return p.insertStatement(v)
	case h.IsKeyword("set") || h.IsKeyword("update"):
		return p.updateSetStatement(v)
	case h.IsKeyword("remove"):
		return p.removeStatement(v)
	case h.IsKeyword("delete"):
		return p.deleteStatement(v)
	case h.IsKeyword("from"):
		return p.fromDmlStatement(v)
	case h.IsKeyword("create"):
		return p.createStatement(v)
	case h.IsKeyword("drop"):
		return p.dropStatement(v)
	case h.IsKeyword("exec"):
		return p.execStatement(v)
	default:
		return p.expression(v, tokenview.TopLevel)
	}
}
