package parser

import (
	"github.com/shopspring/decimal"

	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/perr"
	"github.com/partiql-go/partiql/token"
	"github.com/partiql-go/partiql/tokenview"
)

// expression parses a general expression, accepting every infix operator in
// the precedence table.
func (p *Parser) expression(v tokenview.View, minPrec int) (*parsetree.Node, tokenview.View, error) {
	return p.exprAt(v, minPrec, false)
}

// queryExpression parses an expression that may additionally be a
// set-operator chain of queries (UNION/INTERSECT/EXCEPT), used for WITH-list
// bodies and other query-level positions.
func (p *Parser) queryExpression(v tokenview.View, minPrec int) (*parsetree.Node, tokenview.View, error) {
	return p.exprAt(v, minPrec, true)
}

func (p *Parser) exprAt(v tokenview.View, minPrec int, queryLevel bool) (*parsetree.Node, tokenview.View, error) {
	done, err := p.enter()
	if err != nil {
		return nil, v, err
	}
	defer done()
	if err := p.checkCancel(); err != nil {
		return nil, v, err
	}

	left, rest, err := p.unary(v, queryLevel)
	if err != nil {
		return nil, v, err
	}

	for {
		tok := rest.Head()
		prec, ok := tokenview.InfixPrecedence(tok, queryLevel)
		if !ok || prec <= minPrec {
			return left, rest, nil
		}

		switch {
		case tok.IsKeyword("is", "is_not"):
			left, rest, err = p.parseIs(left, tok, rest)
		case tok.IsKeyword("in", "not_in"):
			left, rest, err = p.parseIn(left, tok, rest, queryLevel)
		case tok.IsKeyword("between", "not_between"):
			left, rest, err = p.parseBetween(left, tok, rest, prec, queryLevel)
		case tok.IsKeyword("like", "not_like"):
			left, rest, err = p.parseLike(left, tok, rest, prec, queryLevel)
		default:
			var rhs *parsetree.Node
			rhs, rest, err = p.exprAt(rest.Advance(), prec, queryLevel)
			if err == nil {
				left = parsetree.New(parsetree.TagBinary, tok, rest, left, rhs)
			}
		}
		if err != nil {
			return nil, v, err
		}
	}
}

// unary parses a unary (prefix) operator application, or falls through to a
// path term when the head is not one.
func (p *Parser) unary(v tokenview.View, queryLevel bool) (*parsetree.Node, tokenview.View, error) {
	tok := v.Head()
	prec, ok := tokenview.PrefixPrecedence(tok)
	if !ok {
		return p.pathTerm(v, modeFull, queryLevel)
	}

	operand, rest, err := p.exprAt(v.Advance(), prec, queryLevel)
	if err != nil {
		return nil, v, err
	}

	if tok.Kind == token.KindOperator && (tok.Text == "+" || tok.Text == "-") {
		if operand.Tag == parsetree.TagAtom && operand.Token != nil && operand.Token.Value.IsNumeric() {
			if tok.Text == "-" {
				folded := negateNumberToken(operand.Token)
				return parsetree.New(parsetree.TagAtom, folded, rest), rest, nil
			}
			return operand, rest, nil
		}
	}

	return parsetree.New(parsetree.TagUnary, tok, rest, operand), rest, nil
}

// negateNumberToken returns a copy of tok, a numeric literal token, with its
// value negated. Used to constant-fold a leading unary minus into the
// literal itself rather than emitting a UNARY node.
func negateNumberToken(tok *token.Token) *token.Token {
	neg := *tok
	neg.Value = token.NewNumberValue(tok.Value.Number().Neg())
	return &neg
}

// parseIs handles `e IS [NOT] <type>`: the right-hand side of IS is a type
// name, not an expression.
func (p *Parser) parseIs(left *parsetree.Node, tok *token.Token, v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	typ, rest, err := p.parseType(v.Advance())
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagBinary, tok, rest, left, typ), rest, nil
}

// parseIn handles `e [NOT] IN (...)`: a parenthesized list not immediately
// introducing a sub-query is wrapped as a LIST literal; otherwise the
// right-hand side is a normal expression at the operator's own precedence.
func (p *Parser) parseIn(left *parsetree.Node, tok *token.Token, v tokenview.View, queryLevel bool) (*parsetree.Node, tokenview.View, error) {
	prec, _ := tokenview.InfixPrecedence(tok, queryLevel)
	rest := v.Advance()

	if rest.Head().Kind == token.KindLeftParen {
		next := rest.Peek(1)
		if !next.IsKeyword("select", "values") {
			items, after, err := parenList(rest, func(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
				return p.expression(v, tokenview.TopLevel)
			})
			if err != nil {
				return nil, v, err
			}
			list := parsetree.New(parsetree.TagList, nil, after, items...)
			return parsetree.New(parsetree.TagBinary, tok, after, left, list), after, nil
		}
	}

	rhs, after, err := p.exprAt(rest, prec, queryLevel)
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagBinary, tok, after, left, rhs), after, nil
}

// parseBetween handles `e [NOT] BETWEEN lo AND hi`.
func (p *Parser) parseBetween(left *parsetree.Node, tok *token.Token, v tokenview.View, prec int, queryLevel bool) (*parsetree.Node, tokenview.View, error) {
	lo, rest, err := p.exprAt(v.Advance(), prec, queryLevel)
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireKeyword("and")
	if err != nil {
		return nil, v, err
	}
	hi, rest, err := p.exprAt(rest, prec, queryLevel)
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagTernary, tok, rest, left, lo, hi), rest, nil
}

// parseLike handles `e [NOT] LIKE pattern [ESCAPE escapeChar]`.
func (p *Parser) parseLike(left *parsetree.Node, tok *token.Token, v tokenview.View, prec int, queryLevel bool) (*parsetree.Node, tokenview.View, error) {
	pattern, rest, err := p.exprAt(v.Advance(), prec, queryLevel)
	if err != nil {
		return nil, v, err
	}
	if rest.Head().IsKeyword("escape") {
		esc, rest2, err := p.exprAt(rest.Advance(), prec, queryLevel)
		if err != nil {
			return nil, v, err
		}
		return parsetree.New(parsetree.TagTernary, tok, rest2, left, pattern, esc), rest2, nil
	}
	return parsetree.New(parsetree.TagBinary, tok, rest, left, pattern), rest, nil
}

// parseNumberLiteral parses a LITERAL token known to carry a numeric value.
func parseNumberLiteral(v tokenview.View) (decimal.Decimal, error) {
	tok := v.Head()
	if !tok.Value.IsNumeric() {
		return decimal.Decimal{}, perr.New(perr.CodeExpectedExpression, "expected a numeric literal").
			AtSpan(tok.Span.Line, tok.Span.Column, tok.Span.Length)
	}
	return tok.Value.Number(), nil
}
