package parser

import (
	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/perr"
	"github.com/partiql-go/partiql/token"
	"github.com/partiql-go/partiql/tokenview"
)

// pathMode controls which path components are legal after the root term.
type pathMode int

const (
	// modeFull allows every component: dot, dot-star, bracket expression,
	// bracket-star, anywhere.
	modeFull pathMode = iota
	// modeQuery forbids wildcards and unpivot components; only identifiers
	// are accepted at the root.
	modeQuery
	// modeSimple is used for DML lvalues: only dot and bracket-with-literal
	// components are accepted.
	modeSimple
)

// pathTerm parses a root term and any trailing path components, producing a
// PATH node when at least one component follows, or the bare root term
// otherwise.
func (p *Parser) pathTerm(v tokenview.View, mode pathMode, queryLevel bool) (*parsetree.Node, tokenview.View, error) {
	root, rest, err := p.term(v, mode, queryLevel)
	if err != nil {
		return nil, v, err
	}

	components := []*parsetree.Node{}
	for {
		head := rest.Head()
		switch head.Kind {
		case token.KindDot:
			comp, rest2, err := p.pathDotComponent(rest, mode)
			if err != nil {
				return nil, v, err
			}
			components = append(components, comp)
			rest = rest2
			continue
		case token.KindLeftBracket:
			comp, rest2, err := p.pathBracketComponent(rest, mode)
			if err != nil {
				return nil, v, err
			}
			components = append(components, comp)
			rest = rest2
			continue
		}
		break
	}

	if len(components) == 0 {
		return root, rest, nil
	}

	children := append([]*parsetree.Node{root}, components...)
	return parsetree.New(parsetree.TagPath, nil, rest, children...), rest, nil
}

// pathDotComponent parses ".<identifier>", ".<quoted identifier>", or ".*".
func (p *Parser) pathDotComponent(v tokenview.View, mode pathMode) (*parsetree.Node, tokenview.View, error) {
	rest := v.Advance()
	head := rest.Head()

	switch head.Kind {
	case token.KindIdentifier:
		lit := token.Token{Kind: token.KindLiteral, Text: head.Text, Value: token.NewTextValue(head.Text), Span: head.Span}
		return parsetree.New(parsetree.TagPathDot, &lit, rest.Advance()), rest.Advance(), nil
	case token.KindQuotedIdentifier:
		lit := token.Token{Kind: token.KindLiteral, Text: head.Text, Value: token.NewTextValue(head.Text), Span: head.Span}
		return parsetree.New(parsetree.TagPathDot, &lit, rest.Advance()).WithMeta("caseSensitive", true), rest.Advance(), nil
	case token.KindStar:
		if mode != modeFull {
			return nil, v, perr.New(perr.CodeInvalidPathComponent, "\".*\" is not allowed here").
				AtSpan(head.Span.Line, head.Span.Column, head.Span.Length)
		}
		return parsetree.New(parsetree.TagPathUnpivot, head, rest.Advance()), rest.Advance(), nil
	default:
		return nil, v, perr.New(perr.CodeInvalidPathComponent, "expected an identifier, quoted identifier, or \"*\" after \".\"").
			AtSpan(head.Span.Line, head.Span.Column, head.Span.Length)
	}
}

// pathBracketComponent parses "[ <expr> ]" or "[ * ]".
func (p *Parser) pathBracketComponent(v tokenview.View, mode pathMode) (*parsetree.Node, tokenview.View, error) {
	open := v.Head()
	rest := v.Advance()

	if rest.Head().Kind == token.KindStar {
		if mode != modeFull {
			return nil, v, perr.New(perr.CodeInvalidPathComponent, "\"[*]\" is not allowed here").
				AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
		}
		star := rest.Head()
		rest = rest.Advance()
		_, rest, err := rest.RequireType(token.KindRightBracket)
		if err != nil {
			return nil, v, err
		}
		return parsetree.New(parsetree.TagPathWildcard, star, rest), rest, nil
	}

	inner, rest, err := p.expression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	if mode == modeSimple && inner.Tag != parsetree.TagAtom {
		return nil, v, perr.New(perr.CodeInvalidPathComponent, "expected a literal inside \"[]\" here").
			AtSpan(open.Span.Line, open.Span.Column, open.Span.Length)
	}
	_, rest, err = rest.RequireType(token.KindRightBracket)
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagPathSqb, nil, rest, inner), rest, nil
}
