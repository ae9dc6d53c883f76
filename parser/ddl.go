package parser

import (
	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/perr"
	"github.com/partiql-go/partiql/token"
	"github.com/partiql-go/partiql/tokenview"
)

// createStatement parses "CREATE TABLE <ident>" and "CREATE INDEX ON <table> ( <simple-path> (, …)* )".
func (p *Parser) createStatement(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	rest := v.Advance()

	switch {
	case rest.Head().IsKeyword("table"):
		rest = rest.Advance()
		ident, rest, err := rest.RequireType(token.KindIdentifier)
		if err != nil {
			return nil, v, err
		}
		identNode := parsetree.New(parsetree.TagAtom, ident, rest)
		return parsetree.New(parsetree.TagCreateTable, name, rest, identNode), rest, nil

	case rest.Head().IsKeyword("index"):
		rest = rest.Advance()
		_, rest, err := rest.RequireKeyword("on")
		if err != nil {
			return nil, v, err
		}
		table, rest, err := rest.RequireType(token.KindIdentifier)
		if err != nil {
			return nil, v, err
		}
		tableNode := parsetree.New(parsetree.TagAtom, table, rest)
		keys, rest, err := parenList(rest, p.simplePath)
		if err != nil {
			return nil, v, err
		}
		children := append([]*parsetree.Node{tableNode}, keys...)
		return parsetree.New(parsetree.TagCreateIndex, name, rest, children...), rest, nil

	default:
		return nil, v, perr.New(perr.CodeUnsupportedSyntax, "expected \"table\" or \"index\" after \"create\"").
			AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
	}
}

// dropStatement parses "DROP TABLE <ident>" and "DROP INDEX <ident> ON <table>".
func (p *Parser) dropStatement(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	rest := v.Advance()

	switch {
	case rest.Head().IsKeyword("table"):
		rest = rest.Advance()
		ident, rest, err := rest.RequireType(token.KindIdentifier)
		if err != nil {
			return nil, v, err
		}
		identNode := parsetree.New(parsetree.TagAtom, ident, rest)
		return parsetree.New(parsetree.TagDropTable, name, rest, identNode), rest, nil

	case rest.Head().IsKeyword("index"):
		rest = rest.Advance()
		ident, rest, err := rest.RequireType(token.KindIdentifier)
		if err != nil {
			return nil, v, err
		}
		identNode := parsetree.New(parsetree.TagAtom, ident, rest)
		_, rest, err = rest.RequireKeyword("on")
		if err != nil {
			return nil, v, err
		}
		table, rest, err := rest.RequireType(token.KindIdentifier)
		if err != nil {
			return nil, v, err
		}
		tableNode := parsetree.New(parsetree.TagAtom, table, rest)
		return parsetree.New(parsetree.TagDropIndex, name, rest, identNode, tableNode), rest, nil

	default:
		return nil, v, perr.New(perr.CodeUnsupportedSyntax, "expected \"table\" or \"index\" after \"drop\"").
			AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
	}
}

// execStatement parses "EXEC <proc-name> [<expr> (, <expr>)*]". A following
// "(" is an error; arguments are comma-separated, not parenthesized.
// Arguments are required once any token beyond EOF/semicolon follows the
// procedure name, and the "exec" keyword may not reappear in the tail.
func (p *Parser) execStatement(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	rest := v.Advance()

	proc, rest, err := rest.RequireType(token.KindIdentifier)
	if err != nil {
		return nil, v, err
	}
	procNode := parsetree.New(parsetree.TagAtom, proc, rest)

	if rest.Head().Kind == token.KindLeftParen {
		return nil, v, perr.New(perr.CodeNoStoredProcedure, "exec arguments are not parenthesized").
			AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
	}

	children := []*parsetree.Node{procNode}
	if !rest.OnlyEndOfStatement() {
		args, rest2, err := commaList(rest, func(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
			return p.expression(v, tokenview.TopLevel)
		})
		if err != nil {
			return nil, v, err
		}
		for _, a := range args {
			if containsExecKeyword(a) {
				return nil, v, perr.New(perr.CodeNoStoredProcedure, "\"exec\" may not appear in an exec argument").
					AtSpan(name.Span.Line, name.Span.Column, name.Span.Length)
			}
		}
		children = append(children, args...)
		rest = rest2
	}

	return parsetree.New(parsetree.TagExec, name, rest, children...), rest, nil
}

func containsExecKeyword(n *parsetree.Node) bool {
	if n.Token != nil && n.Token.IsKeyword("exec") {
		return true
	}
	for _, c := range n.Children {
		if containsExecKeyword(c) {
			return true
		}
	}
	return false
}
