package parser

import (
	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/perr"
	"github.com/partiql-go/partiql/token"
	"github.com/partiql-go/partiql/tokenview"
)

// term parses a single term: an atom, a parenthesized group/sub-query, a
// collection literal, a function call, a parameter placeholder, or any of
// the keyword-introduced constructs (CASE, CAST, a sub-query, …).
func (p *Parser) term(v tokenview.View, mode pathMode, queryLevel bool) (*parsetree.Node, tokenview.View, error) {
	head := v.Head()

	switch head.Kind {
	case token.KindOperator:
		if head.Text == "@" {
			return p.parseScopeQualifier(v)
		}
		return nil, v, perr.New(perr.CodeUnexpectedOperator, "unexpected operator \""+head.Text+"\"").
			AtSpan(head.Span.Line, head.Span.Column, head.Span.Length)

	case token.KindKeyword:
		return p.keywordTerm(v, mode, queryLevel)

	case token.KindLeftParen:
		return p.parenTerm(v)

	case token.KindLeftBracket:
		return p.listLiteral(v)

	case token.KindLeftDoubleAngleBracket:
		return p.bagLiteral(v)

	case token.KindLeftCurly:
		return p.structLiteral(v)

	case token.KindIdentifier, token.KindQuotedIdentifier:
		if v.Peek(1).Kind == token.KindLeftParen {
			return p.functionCall(v)
		}
		return p.identifierAtom(v), v.Advance(), nil

	case token.KindQuestionMark:
		return parsetree.New(parsetree.TagParameter, head, v.Advance()), v.Advance(), nil

	case token.KindLiteral, token.KindIonLiteral, token.KindNull, token.KindMissing, token.KindTrimSpecification:
		return parsetree.New(parsetree.TagAtom, head, v.Advance()), v.Advance(), nil

	default:
		return nil, v, perr.New(perr.CodeUnexpectedTerm, "unexpected token "+head.Kind.String()).
			AtSpan(head.Span.Line, head.Span.Column, head.Span.Length)
	}
}

// identifierAtom builds the CASE_INSENSITIVE_ATOM (or CASE_SENSITIVE_ATOM
// for quoted identifiers) node for a bare name reference.
func (p *Parser) identifierAtom(v tokenview.View) *parsetree.Node {
	head := v.Head()
	if head.Kind == token.KindQuotedIdentifier {
		return parsetree.New(parsetree.TagCaseSensitiveAtom, head, v.Advance())
	}
	return parsetree.New(parsetree.TagCaseInsensitiveAtom, head, v.Advance())
}

// parseScopeQualifier handles a leading "@" before an identifier, which
// names a lexically-scoped variable reference rather than a column
// reference. It is folded into a rewrite at AST-build time; here it is only
// a UNARY("@", atom) node.
func (p *Parser) parseScopeQualifier(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	at := v.Head()
	rest := v.Advance()
	if rest.Head().Kind != token.KindIdentifier && rest.Head().Kind != token.KindQuotedIdentifier {
		return nil, v, perr.New(perr.CodeMissingIdentifierAfterAt, "expected an identifier after \"@\"").
			AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
	}
	atom := p.identifierAtom(rest)
	after := rest.Advance()
	return parsetree.New(parsetree.TagUnary, at, after, atom), after, nil
}

// parenTerm parses "( ... )": a parenthesized sub-query when the content
// begins with SELECT/PIVOT/WITH, otherwise a comma-separated argument list
// (a grouping for one element, a row-constructor LIST for more than one).
func (p *Parser) parenTerm(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	open := v.Head()
	rest := v.Advance()

	if rest.Head().IsKeyword("select", "pivot", "with") {
		inner, rest2, err := p.statement(rest)
		if err != nil {
			return nil, v, err
		}
		_, rest2, err = rest2.RequireType(token.KindRightParen)
		if err != nil {
			return nil, v, err
		}
		return inner, rest2, nil
	}

	if rest.Head().Kind == token.KindRightParen {
		return nil, v, perr.New(perr.CodeExpectedExpression, "expected an expression inside \"()\"").
			AtSpan(open.Span.Line, open.Span.Column, open.Span.Length)
	}

	items, rest, err := commaList(rest, func(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
		return p.expression(v, tokenview.TopLevel)
	})
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireType(token.KindRightParen)
	if err != nil {
		return nil, v, err
	}

	if len(items) == 1 {
		return items[0], rest, nil
	}
	return parsetree.New(parsetree.TagList, nil, rest, items...), rest, nil
}

// listLiteral parses "[ e (, e)* ]".
func (p *Parser) listLiteral(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	rest := v.Advance()
	if rest.Head().Kind == token.KindRightBracket {
		return parsetree.New(parsetree.TagList, nil, rest.Advance()), rest.Advance(), nil
	}
	items, rest, err := commaList(rest, func(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
		return p.expression(v, tokenview.TopLevel)
	})
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireType(token.KindRightBracket)
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagList, nil, rest, items...), rest, nil
}

// bagLiteral parses "<< e (, e)* >>".
func (p *Parser) bagLiteral(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	rest := v.Advance()
	if rest.Head().Kind == token.KindRightDoubleAngleBracket {
		return parsetree.New(parsetree.TagBag, nil, rest.Advance()), rest.Advance(), nil
	}
	items, rest, err := commaList(rest, func(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
		return p.expression(v, tokenview.TopLevel)
	})
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireType(token.KindRightDoubleAngleBracket)
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagBag, nil, rest, items...), rest, nil
}

// structLiteral parses "{ key : value (, key : value)* }".
func (p *Parser) structLiteral(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	rest := v.Advance()
	if rest.Head().Kind == token.KindRightCurly {
		return parsetree.New(parsetree.TagStruct, nil, rest.Advance()), rest.Advance(), nil
	}
	members, rest, err := commaList(rest, p.structMember)
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireType(token.KindRightCurly)
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagStruct, nil, rest, members...), rest, nil
}

func (p *Parser) structMember(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	key, rest, err := p.expression(v, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireType(token.KindColon)
	if err != nil {
		return nil, v, err
	}
	value, rest, err := p.expression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagMember, nil, rest, key, value), rest, nil
}
