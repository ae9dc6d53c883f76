package parser

import (
	"strconv"
	"strings"

	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/perr"
	"github.com/partiql-go/partiql/token"
	"github.com/partiql-go/partiql/tokenview"
)

// arityRange is the inclusive [min,max] count of type parameters a type
// name accepts.
type arityRange struct{ min, max int }

// typeArities is the closed name→arity-range map of recognized SQL type
// names.
var typeArities = map[string]arityRange{
	"int": {0, 0}, "integer": {0, 0}, "smallint": {0, 0}, "bigint": {0, 0},
	"boolean": {0, 0}, "bool": {0, 0},
	"float": {0, 0}, "real": {0, 0}, "double_precision": {0, 0},
	"decimal": {0, 2}, "numeric": {0, 2},
	"char": {0, 1}, "character": {0, 1}, "varchar": {0, 1}, "character_varying": {0, 1},
	"string": {0, 0}, "symbol": {0, 0},
	"clob": {0, 1}, "blob": {0, 1},
	"date": {0, 0}, "time": {0, 1}, "timestamp": {0, 1},
	"struct": {0, 0}, "list": {0, 0}, "bag": {0, 0}, "sexp": {0, 0}, "tuple": {0, 0},
	"any": {0, 0}, "null": {0, 0}, "missing": {0, 0},
}

// parseType parses a TYPE node: a recognized type name, optionally followed
// by a parenthesized, unsigned-integer argument list whose length must fall
// within the name's arity range. TIME additionally accepts a trailing
// "WITH TIME ZONE", which rewrites the type name to time_with_time_zone.
func (p *Parser) parseType(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	if name.Kind != token.KindKeyword && name.Kind != token.KindIdentifier &&
		name.Kind != token.KindNull && name.Kind != token.KindMissing {
		return nil, v, perr.New(perr.CodeExpectedTypeName, "expected a type name").
			AtSpan(name.Span.Line, name.Span.Column, name.Span.Length)
	}
	key := name.KeywordText
	if key == "" {
		key = strings.ToLower(name.Text)
	}
	arity, ok := typeArities[key]
	if !ok {
		return nil, v, perr.New(perr.CodeExpectedTypeName, "unrecognized type name \""+key+"\"").
			AtSpan(name.Span.Line, name.Span.Column, name.Span.Length)
	}
	rest := v.Advance()

	var args []*parsetree.Node
	if rest.Head().Kind == token.KindLeftParen {
		var err error
		args, rest, err = parenList(rest, p.typeParameter)
		if err != nil {
			return nil, v, err
		}
		if len(args) < arity.min || len(args) > arity.max {
			return nil, v, perr.New(perr.CodeCastArityMismatch, "\""+key+"\" takes between "+strconv.Itoa(arity.min)+" and "+strconv.Itoa(arity.max)+" parameters").
				AtSpan(name.Span.Line, name.Span.Column, name.Span.Length).
				With("typeName", key)
		}
		if key == "time" && len(args) == 1 {
			n := int(args[0].Token.Value.Long())
			if n < 0 || n > 9 {
				return nil, v, perr.New(perr.CodeInvalidTimePrecision, "time precision must be between 0 and 9").
					AtSpan(args[0].Token.Span.Line, args[0].Token.Span.Column, args[0].Token.Span.Length)
			}
		}
	}

	if key == "time" && rest.Head().IsKeyword("with") {
		_, rest2, err := rest.RequireKeyword("with")
		if err != nil {
			return nil, v, err
		}
		_, rest2, err = rest2.RequireKeyword("time")
		if err != nil {
			return nil, v, err
		}
		_, rest2, err = rest2.RequireKeyword("zone")
		if err != nil {
			return nil, v, err
		}
		node := parsetree.New(parsetree.TagType, name, rest2, args...)
		return node.WithMeta("typeName", "time_with_time_zone"), rest2, nil
	}

	return parsetree.New(parsetree.TagType, name, rest, args...).WithMeta("typeName", key), rest, nil
}

// typeParameter parses a single type-parameter argument, requiring it to be
// an unsigned integer literal.
func (p *Parser) typeParameter(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	node, rest, err := p.expression(v, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	if node.Tag != parsetree.TagAtom || node.Token == nil || !node.Token.Value.IsUnsignedInteger() {
		return nil, v, perr.New(perr.CodeInvalidTypeParameter, "type parameter must be an unsigned integer literal").
			AtSpan(v.Head().Span.Line, v.Head().Span.Column, v.Head().Span.Length)
	}
	return node, rest, nil
}

// castExpression parses "CAST ( e AS <type> )".
func (p *Parser) castExpression(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	_, rest, err := v.Advance().RequireType(token.KindLeftParen)
	if err != nil {
		return nil, v, err
	}
	e, rest, err := p.expression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireKeyword("as")
	if err != nil {
		return nil, v, perr.New(perr.CodeExpectedAs, "expected \"as\" in cast expression").
			AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
	}
	typ, rest, err := p.parseType(rest)
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireType(token.KindRightParen)
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagCast, name, rest, e, typ), rest, nil
}

// caseExpression parses both searched and simple CASE forms:
//
//	CASE [e] (WHEN cond THEN result)+ [ELSE result] END
func (p *Parser) caseExpression(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	rest := v.Advance()

	var subject *parsetree.Node
	if !rest.Head().IsKeyword("when") {
		var err error
		subject, rest, err = p.expression(rest, tokenview.TopLevel)
		if err != nil {
			return nil, v, err
		}
	}

	var whens []*parsetree.Node
	for rest.Head().IsKeyword("when") {
		whenTok := rest.Head()
		rest = rest.Advance()
		cond, rest2, err := p.expression(rest, tokenview.TopLevel)
		if err != nil {
			return nil, v, err
		}
		_, rest2, err = rest2.RequireKeyword("then")
		if err != nil {
			return nil, v, err
		}
		result, rest2, err := p.expression(rest2, tokenview.TopLevel)
		if err != nil {
			return nil, v, err
		}
		whens = append(whens, parsetree.New(parsetree.TagWhen, whenTok, rest2, cond, result))
		rest = rest2
	}
	if len(whens) == 0 {
		return nil, v, perr.New(perr.CodeExpectedWhen, "expected \"when\" in case expression").
			AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
	}

	var elseNode *parsetree.Node
	if rest.Head().IsKeyword("else") {
		elseTok := rest.Head()
		rest = rest.Advance()
		result, rest2, err := p.expression(rest, tokenview.TopLevel)
		if err != nil {
			return nil, v, err
		}
		elseNode = parsetree.New(parsetree.TagElse, elseTok, rest2, result)
		rest = rest2
	}

	_, rest, err := rest.RequireKeyword("end")
	if err != nil {
		return nil, v, err
	}

	children := whens
	if subject != nil {
		children = append([]*parsetree.Node{subject}, children...)
	}
	if elseNode != nil {
		children = append(children, elseNode)
	}
	return parsetree.New(parsetree.TagCase, name, rest, children...), rest, nil
}
