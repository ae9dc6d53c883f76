package parser

import (
	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/perr"
	"github.com/partiql-go/partiql/token"
	"github.com/partiql-go/partiql/tokenview"
)

// aggregateNames are the standard aggregates, besides count, that accept an
// optional leading ALL/DISTINCT and exactly one argument.
var aggregateNames = map[string]bool{
	"avg": true, "min": true, "max": true, "sum": true,
	"any": true, "some": true, "every": true,
}

// keywordTerm dispatches a leading keyword token to the sub-parser for the
// construct it introduces.
func (p *Parser) keywordTerm(v tokenview.View, mode pathMode, queryLevel bool) (*parsetree.Node, tokenview.View, error) {
	head := v.Head()
	switch head.KeywordText {
	case "select":
		return p.selectStatement(v)
	case "pivot":
		return p.pivotStatement(v)
	case "with":
		return p.withStatement(v)
	case "case":
		return p.caseExpression(v)
	case "cast":
		return p.castExpression(v)
	case "date":
		return p.dateLiteral(v)
	case "time":
		return p.timeLiteral(v)
	case "exec":
		return p.execStatement(v)
	case "substring":
		return p.substringCall(v)
	case "trim":
		return p.trimCall(v)
	case "extract":
		return p.extractCall(v)
	case "date_add", "date_diff":
		return p.dateMathCall(v)
	default:
		if head.KeywordText != "" && v.Peek(1).Kind == token.KindLeftParen {
			return p.functionCall(v)
		}
		return nil, v, perr.New(perr.CodeUnexpectedKeyword, "unexpected keyword \""+head.KeywordText+"\"").
			AtSpan(head.Span.Line, head.Span.Column, head.Span.Length)
	}
}

// functionCall parses "<name> ( ... )", dispatching count/aggregate surface
// forms and falling back to a plain CALL for everything else.
func (p *Parser) functionCall(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	rest := v.Advance()

	if name.IsKeyword("count") {
		return p.countCall(name, rest)
	}
	if aggregateNames[name.KeywordText] {
		return p.aggregateCall(name, rest)
	}

	_, rest, err := rest.RequireType(token.KindLeftParen)
	if err != nil {
		return nil, v, err
	}

	if rest.Head().Kind == token.KindStar {
		return nil, v, perr.New(perr.CodeUnsupportedCallWithStar, "\"*\" is only accepted by count()").
			AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
	}

	if rest.Head().Kind == token.KindRightParen {
		return parsetree.New(parsetree.TagCall, name, rest.Advance()), rest.Advance(), nil
	}

	args, rest, err := commaList(rest, func(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
		return p.expression(v, tokenview.TopLevel)
	})
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireType(token.KindRightParen)
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagCall, name, rest, args...), rest, nil
}

// countCall parses count's three surface forms.
func (p *Parser) countCall(name *token.Token, v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	_, rest, err := v.RequireType(token.KindLeftParen)
	if err != nil {
		return nil, v, err
	}

	if rest.Head().Kind == token.KindStar {
		star := rest.Head()
		rest = rest.Advance()
		if rest.Head().Kind != token.KindRightParen {
			return nil, v, perr.New(perr.CodeUnsupportedCallWithStar, "count(*) takes no further arguments").
				AtSpan(star.Span.Line, star.Span.Column, star.Span.Length)
		}
		return parsetree.New(parsetree.TagCallAggWildcard, name, rest.Advance()), rest.Advance(), nil
	}

	distinct := rest.Head().IsKeyword("distinct")
	all := rest.Head().IsKeyword("all")
	if distinct || all {
		rest = rest.Advance()
	}
	if distinct && rest.Head().Kind == token.KindStar {
		return nil, v, perr.New(perr.CodeNonUnaryAggregate, "count(distinct *) is not supported").
			AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
	}

	arg, rest, err := p.expression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	if err := rejectExtraAggregateArgs(rest); err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireType(token.KindRightParen)
	if err != nil {
		return nil, v, err
	}

	if distinct {
		return parsetree.New(parsetree.TagCallDistinctAgg, name, rest, arg), rest, nil
	}
	return parsetree.New(parsetree.TagCallAgg, name, rest, arg), rest, nil
}

// aggregateCall parses avg/min/max/sum/any/some/every: optional leading
// ALL/DISTINCT, exactly one argument, and never "*".
func (p *Parser) aggregateCall(name *token.Token, v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	_, rest, err := v.RequireType(token.KindLeftParen)
	if err != nil {
		return nil, v, err
	}
	if rest.Head().Kind == token.KindStar {
		return nil, v, perr.New(perr.CodeUnsupportedCallWithStar, "\"*\" is only accepted by count()").
			AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
	}

	distinct := rest.Head().IsKeyword("distinct")
	all := rest.Head().IsKeyword("all")
	if distinct || all {
		rest = rest.Advance()
	}

	arg, rest, err := p.expression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	if err := rejectExtraAggregateArgs(rest); err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireType(token.KindRightParen)
	if err != nil {
		return nil, v, err
	}

	if distinct {
		return parsetree.New(parsetree.TagCallDistinctAgg, name, rest, arg), rest, nil
	}
	return parsetree.New(parsetree.TagCallAgg, name, rest, arg), rest, nil
}

func rejectExtraAggregateArgs(v tokenview.View) error {
	if v.Head().Kind == token.KindComma {
		return perr.New(perr.CodeNonUnaryAggregate, "aggregate functions accept exactly one argument").
			AtSpan(v.Head().Span.Line, v.Head().Span.Column, v.Head().Span.Length)
	}
	return nil
}

// substringCall parses "substring(s FROM p [FOR l])" or
// "substring(s, p [, l])"; the branch is chosen by the delimiter following
// the first argument.
func (p *Parser) substringCall(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	_, rest, err := v.Advance().RequireType(token.KindLeftParen)
	if err != nil {
		return nil, v, err
	}

	s, rest, err := p.expression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}

	args := []*parsetree.Node{s}
	switch {
	case rest.Head().IsKeyword("from"):
		rest = rest.Advance()
	case rest.Head().Kind == token.KindComma:
		rest = rest.Advance()
	default:
		return nil, v, perr.New(perr.CodeExpectedArgumentDelim, "expected \"from\" or \",\" in substring()").
			AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
	}

	pos, rest, err := p.expression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	args = append(args, pos)

	if rest.Head().Kind == token.KindFor || rest.Head().Kind == token.KindComma {
		rest = rest.Advance()
		length, rest2, err := p.expression(rest, tokenview.TopLevel)
		if err != nil {
			return nil, v, err
		}
		args = append(args, length)
		rest = rest2
	}

	_, rest, err = rest.RequireType(token.KindRightParen)
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagCall, name, rest, args...), rest, nil
}

// trimCall parses "trim([[spec] [chars] FROM] source)".
func (p *Parser) trimCall(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	_, rest, err := v.Advance().RequireType(token.KindLeftParen)
	if err != nil {
		return nil, v, err
	}

	var args []*parsetree.Node

	if rest.Head().Kind == token.KindTrimSpecification {
		spec := parsetree.New(parsetree.TagAtom, rest.Head(), rest.Advance())
		args = append(args, spec)
		rest = rest.Advance()
	}

	// Look ahead for a FROM delimiter to tell "[chars] FROM source" apart
	// from a bare "source". Parenthesized groups are skipped so that a FROM
	// inside chars/source itself (e.g. a sub-query) isn't mistaken for the
	// trim delimiter.
	hasFrom := false
	depth := 0
	for n := 0; ; n++ {
		tok := rest.Peek(n)
		if tok.Kind == token.KindEOF {
			break
		}
		if tok.Kind == token.KindRightParen {
			if depth == 0 {
				break
			}
			depth--
		} else if tok.Kind == token.KindLeftParen {
			depth++
		} else if depth == 0 && tok.IsKeyword("from") {
			hasFrom = true
			break
		}
	}

	if hasFrom {
		chars, rest2, err := p.expression(rest, tokenview.TopLevel)
		if err != nil {
			return nil, v, err
		}
		args = append(args, chars)
		_, rest2, err = rest2.RequireKeyword("from")
		if err != nil {
			return nil, v, err
		}
		rest = rest2
	}

	source, rest, err := p.expression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	args = append(args, source)

	_, rest, err = rest.RequireType(token.KindRightParen)
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagCall, name, rest, args...), rest, nil
}

// extractCall parses "extract(date_part FROM ts)".
func (p *Parser) extractCall(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	_, rest, err := v.Advance().RequireType(token.KindLeftParen)
	if err != nil {
		return nil, v, err
	}
	part, rest, err := rest.RequireType(token.KindDatePart)
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireKeyword("from")
	if err != nil {
		return nil, v, err
	}
	ts, rest, err := p.expression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireType(token.KindRightParen)
	if err != nil {
		return nil, v, err
	}
	partNode := parsetree.New(parsetree.TagAtom, part, rest)
	return parsetree.New(parsetree.TagCall, name, rest, partNode, ts), rest, nil
}

// dateMathCall parses "date_add(date_part, a, b)" and "date_diff(date_part, a, b)".
func (p *Parser) dateMathCall(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	_, rest, err := v.Advance().RequireType(token.KindLeftParen)
	if err != nil {
		return nil, v, err
	}
	part, rest, err := rest.RequireType(token.KindDatePart)
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireType(token.KindComma)
	if err != nil {
		return nil, v, err
	}
	a, rest, err := p.expression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireType(token.KindComma)
	if err != nil {
		return nil, v, err
	}
	b, rest, err := p.expression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireType(token.KindRightParen)
	if err != nil {
		return nil, v, err
	}
	partNode := parsetree.New(parsetree.TagAtom, part, rest)
	return parsetree.New(parsetree.TagCall, name, rest, partNode, a, b), rest, nil
}
