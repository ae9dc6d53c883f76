package parser

import (
	"strings"

	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/perr"
	"github.com/partiql-go/partiql/token"
	"github.com/partiql-go/partiql/tokenview"
)

// selectStatement parses a SELECT query and every one of its trailing
// clauses, in the fixed order the grammar requires.
func (p *Parser) selectStatement(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	rest := v.Advance()

	var children []*parsetree.Node

	if rest.Head().IsKeyword("distinct") {
		d := rest.Head()
		rest = rest.Advance()
		children = append(children, parsetree.New(parsetree.TagDistinct, d, rest))
	} else if rest.Head().IsKeyword("all") {
		rest = rest.Advance()
	}

	tag := parsetree.TagSelectList
	switch {
	case rest.Head().IsKeyword("value"):
		tag = parsetree.TagSelectValue
		rest = rest.Advance()
		value, rest2, err := p.expression(rest, tokenview.TopLevel)
		if err != nil {
			return nil, v, err
		}
		children = append(children, value)
		rest = rest2
	case rest.Head().Kind == token.KindStar:
		star := rest.Head()
		rest = rest.Advance()
		children = append(children, parsetree.New(parsetree.TagProjectAll, star, rest))
	default:
		items, rest2, err := commaList(rest, p.selectItem)
		if err != nil {
			return nil, v, err
		}
		if err := validateSelectList(items); err != nil {
			return nil, v, err
		}
		children = append(children, items...)
		rest = rest2
	}

	rest, clauses, err := p.selectTrailingClauses(rest)
	if err != nil {
		return nil, v, err
	}
	children = append(children, clauses...)

	return parsetree.New(tag, name, rest, children...), rest, nil
}

// pivotStatement parses "PIVOT <value> AT <name> FROM ...", reusing the
// SELECT trailing-clause parser for everything after the FROM.
func (p *Parser) pivotStatement(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	rest := v.Advance()

	value, rest, err := p.expression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireKeyword("at")
	if err != nil {
		return nil, v, err
	}
	at, rest, err := p.expression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}

	children := []*parsetree.Node{value, at}
	rest, clauses, err := p.selectTrailingClauses(rest)
	if err != nil {
		return nil, v, err
	}
	children = append(children, clauses...)
	return parsetree.New(parsetree.TagPivot, name, rest, children...), rest, nil
}

// selectTrailingClauses parses FROM [LET] [WHERE] [ORDER BY] [GROUP [PARTIAL] BY ... [GROUP AS name]] [HAVING] [LIMIT]
// in exactly that order, returning every clause node present.
func (p *Parser) selectTrailingClauses(v tokenview.View) (tokenview.View, []*parsetree.Node, error) {
	var clauses []*parsetree.Node

	from, rest, err := p.fromClause(v)
	if err != nil {
		return v, nil, err
	}
	clauses = append(clauses, from)

	if rest.Head().IsKeyword("let") {
		letTok := rest.Head()
		bindings, rest2, err := commaList(rest.Advance(), p.letBinding)
		if err != nil {
			return v, nil, err
		}
		clauses = append(clauses, parsetree.New(parsetree.TagLet, letTok, rest2, bindings...))
		rest = rest2
	}

	if rest.Head().IsKeyword("where") {
		whereTok := rest.Head()
		e, rest2, err := p.expression(rest.Advance(), tokenview.TopLevel)
		if err != nil {
			return v, nil, err
		}
		clauses = append(clauses, parsetree.New(parsetree.TagWhere, whereTok, rest2, e))
		rest = rest2
	}

	if rest.Head().IsKeyword("order") {
		orderTok := rest.Head()
		rest2 := rest.Advance()
		_, rest2, err := rest2.RequireKeyword("by")
		if err != nil {
			return v, nil, err
		}
		specs, rest3, err := commaList(rest2, p.sortSpec)
		if err != nil {
			return v, nil, err
		}
		clauses = append(clauses, parsetree.New(parsetree.TagOrderBy, orderTok, rest3, specs...))
		rest = rest3
	}

	if rest.Head().IsKeyword("group") {
		groupTok := rest.Head()
		rest2 := rest.Advance()
		tag := parsetree.TagGroup
		if rest2.Head().IsKeyword("partial") {
			tag = parsetree.TagGroupPartial
			rest2 = rest2.Advance()
		}
		_, rest2, err := rest2.RequireKeyword("by")
		if err != nil {
			return v, nil, err
		}
		items, rest3, err := commaList(rest2, p.groupByItem)
		if err != nil {
			return v, nil, err
		}
		rest2 = rest3
		if rest2.Head().IsKeyword("group") && rest2.Peek(1).IsKeyword("as") {
			rest2 = rest2.Advance().Advance()
			aliasTok, rest3, err := rest2.RequireType(token.KindIdentifier)
			if err != nil {
				return v, nil, err
			}
			items = append(items, parsetree.New(parsetree.TagByAlias, aliasTok, rest3))
			rest2 = rest3
		}
		clauses = append(clauses, parsetree.New(tag, groupTok, rest2, items...))
		rest = rest2
	}

	if rest.Head().IsKeyword("having") {
		havingTok := rest.Head()
		e, rest2, err := p.expression(rest.Advance(), tokenview.TopLevel)
		if err != nil {
			return v, nil, err
		}
		clauses = append(clauses, parsetree.New(parsetree.TagHaving, havingTok, rest2, e))
		rest = rest2
	}

	if rest.Head().IsKeyword("limit") {
		limitTok := rest.Head()
		e, rest2, err := p.expression(rest.Advance(), tokenview.TopLevel)
		if err != nil {
			return v, nil, err
		}
		clauses = append(clauses, parsetree.New(parsetree.TagLimit, limitTok, rest2, e))
		rest = rest2
	}

	return rest, clauses, nil
}

// selectItem parses one projection-list item: an expression, with the
// trailing-dot-star-to-PROJECT_ALL rewrite and bracket-star rejection
// applied, and an optional AS alias.
func (p *Parser) selectItem(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	expr, rest, err := p.expression(v, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	expr, err = rewriteSelectItemPath(expr)
	if err != nil {
		return nil, v, err
	}

	if rest.Head().IsKeyword("as") {
		asTok := rest.Head()
		rest2 := rest.Advance()
		alias, rest3, err := rest2.RequireType(token.KindIdentifier)
		if err != nil {
			return nil, v, perr.New(perr.CodeExpectedIdentifierAlias, "expected an identifier after \"as\"").
				AtSpan(rest2.Head().Span.Line, rest2.Head().Span.Column, rest2.Head().Span.Length)
		}
		aliasNode := parsetree.New(parsetree.TagAsAlias, alias, rest3)
		return parsetree.New(parsetree.TagAsAlias, asTok, rest3, expr, aliasNode), rest3, nil
	}

	return expr, rest, nil
}

// rewriteSelectItemPath demotes a path ending in a trailing ".*" to
// PROJECT_ALL, and rejects "[*]" and any non-trailing ".*" in select-list
// position.
func rewriteSelectItemPath(expr *parsetree.Node) (*parsetree.Node, error) {
	if expr.Tag != parsetree.TagPath {
		return expr, nil
	}
	root := expr.Children[0]
	comps := expr.Children[1:]

	for i, c := range comps {
		if c.Tag == parsetree.TagPathWildcard {
			return nil, perr.New(perr.CodeMixedBracketStarInSelect, "cannot mix \"[]\" and \"*\" in select list").
				AtSpan(c.Token.Span.Line, c.Token.Span.Column, c.Token.Span.Length)
		}
		if c.Tag == parsetree.TagPathUnpivot && i != len(comps)-1 {
			return nil, perr.New(perr.CodeInvalidPathComponent, "\".*\" may only appear at the end of a select-list path").
				AtSpan(c.Token.Span.Line, c.Token.Span.Column, c.Token.Span.Length)
		}
	}

	last := comps[len(comps)-1]
	if last.Tag != parsetree.TagPathUnpivot {
		return expr, nil
	}
	for _, c := range comps[:len(comps)-1] {
		if c.Tag == parsetree.TagPathSqb {
			return nil, perr.New(perr.CodeMixedBracketStarInSelect, "cannot mix \"[]\" and \"*\" in select list").
				AtSpan(last.Token.Span.Line, last.Token.Span.Column, last.Token.Span.Length)
		}
	}
	if len(comps) == 1 {
		return parsetree.New(parsetree.TagProjectAll, last.Token, expr.Remaining, root), nil
	}
	children := append([]*parsetree.Node{root}, comps[:len(comps)-1]...)
	path := parsetree.New(parsetree.TagPath, nil, expr.Remaining, children...)
	return parsetree.New(parsetree.TagProjectAll, last.Token, expr.Remaining, path), nil
}

// validateSelectList enforces that a bare "*" in a projection list is the
// list's only item.
func validateSelectList(items []*parsetree.Node) error {
	for _, it := range items {
		if it.Tag == parsetree.TagProjectAll && it.Token != nil && it.Token.Kind == token.KindStar && len(items) > 1 {
			return perr.New(perr.CodeAsteriskNotAlone, "\"*\" must appear alone in the select list").
				AtSpan(it.Token.Span.Line, it.Token.Span.Column, it.Token.Span.Length)
		}
	}
	return nil
}

func (p *Parser) letBinding(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	e, rest, err := p.expression(v, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireKeyword("as")
	if err != nil {
		return nil, v, perr.New(perr.CodeExpectedAs, "expected \"as\" in let binding").
			AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
	}
	name, rest, err := rest.RequireType(token.KindIdentifier)
	if err != nil {
		return nil, v, err
	}
	alias := parsetree.New(parsetree.TagAsAlias, name, rest)
	return parsetree.New(parsetree.TagAsAlias, nil, rest, e, alias), rest, nil
}

func (p *Parser) sortSpec(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	e, rest, err := p.expression(v, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	var dir *token.Token
	if rest.Head().IsKeyword("asc") || rest.Head().IsKeyword("desc") {
		dir = rest.Head()
		rest = rest.Advance()
	}
	children := []*parsetree.Node{e}
	if dir != nil {
		children = append(children, parsetree.New(parsetree.TagOrderingSpec, dir, rest))
	}
	return parsetree.New(parsetree.TagSortSpec, nil, rest, children...), rest, nil
}

// groupByItem parses a GROUP BY item: an expression with an optional AS
// alias. Literals, including ordinal references, are rejected.
func (p *Parser) groupByItem(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	e, rest, err := p.expression(v, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	if e.Tag == parsetree.TagAtom && e.Token != nil && e.Token.Kind == token.KindLiteral {
		return nil, v, perr.New(perr.CodeUnsupportedGroupByLit, "literals are not allowed in group by").
			AtSpan(e.Token.Span.Line, e.Token.Span.Column, e.Token.Span.Length)
	}
	if rest.Head().IsKeyword("as") {
		asTok := rest.Head()
		rest2 := rest.Advance()
		alias, rest3, err := rest2.RequireType(token.KindIdentifier)
		if err != nil {
			return nil, v, err
		}
		aliasNode := parsetree.New(parsetree.TagAsAlias, alias, rest3)
		return parsetree.New(parsetree.TagAsAlias, asTok, rest3, e, aliasNode), rest3, nil
	}
	return e, rest, nil
}

// fromClause parses "FROM <from-source-list>".
func (p *Parser) fromClause(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	fromTok, rest, err := v.RequireKeyword("from")
	if err != nil {
		return nil, v, perr.New(perr.CodeExpectedFrom, "expected \"from\"").
			AtSpan(v.Head().Span.Line, v.Head().Span.Column, v.Head().Span.Length)
	}
	tree, rest, err := p.fromSourceJoinTree(rest)
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagFromClause, fromTok, rest, tree), rest, nil
}

// fromSourceJoinTree parses a left-associative tree of FROM sources joined
// by commas or JOIN keyword variants.
func (p *Parser) fromSourceJoinTree(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	left, rest, err := p.fromSource(v)
	if err != nil {
		return nil, v, err
	}

	for {
		head := rest.Head()
		if head.Kind == token.KindComma {
			right, rest2, err := p.fromSource(rest.Advance())
			if err != nil {
				return nil, v, err
			}
			left = parsetree.New(parsetree.TagFromSourceJoin, head, rest2, left, right).
				WithMeta("implicitJoin", true).WithMeta("cross", true)
			rest = rest2
			continue
		}

		tag, isCross, ok := joinTag(head.KeywordText)
		if !ok {
			break
		}
		joinTok := head
		right, rest2, err := p.fromSource(rest.Advance())
		if err != nil {
			return nil, v, err
		}

		children := []*parsetree.Node{left, right}
		if !isCross {
			_, rest3, err := rest2.RequireKeyword("on")
			if err != nil {
				return nil, v, perr.New(perr.CodeMalformedJoin, "expected \"on\" for a non-cross join").
					AtSpan(rest2.Head().Span.Line, rest2.Head().Span.Column, rest2.Head().Span.Length)
			}
			cond, rest4, err := p.expression(rest3, tokenview.TopLevel)
			if err != nil {
				return nil, v, err
			}
			children = append(children, cond)
			rest2 = rest4
		}

		left = parsetree.New(tag, joinTok, rest2, children...).WithMeta("cross", isCross)
		rest = rest2
	}

	return left, rest, nil
}

func joinTag(kw string) (parsetree.Tag, bool, bool) {
	switch kw {
	case "join", "inner_join", "cross_join":
		return parsetree.TagInnerJoin, strings.Contains(kw, "cross"), true
	case "left_join", "left_outer_join", "left_cross_join":
		return parsetree.TagLeftJoin, strings.Contains(kw, "cross"), true
	case "right_join", "right_outer_join", "right_cross_join":
		return parsetree.TagRightJoin, strings.Contains(kw, "cross"), true
	case "outer_join", "outer_cross_join":
		return parsetree.TagOuterJoin, strings.Contains(kw, "cross"), true
	default:
		return 0, false, false
	}
}

// fromSource parses one FROM source atom together with its optional
// AS/AT/BY aliases, in that order.
func (p *Parser) fromSource(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	node, rest, err := p.fromSourceAtom(v)
	if err != nil {
		return nil, v, err
	}

	if rest.Head().IsKeyword("as") {
		asTok := rest.Head()
		rest2 := rest.Advance()
		alias, rest3, err := rest2.RequireType(token.KindIdentifier)
		if err != nil {
			return nil, v, err
		}
		node = parsetree.New(parsetree.TagAsAlias, asTok, rest3, node, parsetree.New(parsetree.TagAsAlias, alias, rest3))
		rest = rest3
	} else if rest.Head().Kind == token.KindIdentifier {
		alias := rest.Head()
		rest2 := rest.Advance()
		node = parsetree.New(parsetree.TagAsAlias, nil, rest2, node, parsetree.New(parsetree.TagAsAlias, alias, rest2))
		rest = rest2
	}

	if rest.Head().IsKeyword("at") {
		atTok := rest.Head()
		rest2 := rest.Advance()
		alias, rest3, err := rest2.RequireType(token.KindIdentifier)
		if err != nil {
			return nil, v, err
		}
		node = parsetree.New(parsetree.TagAtAlias, atTok, rest3, node, parsetree.New(parsetree.TagAtAlias, alias, rest3))
		rest = rest3
	}

	if rest.Head().IsKeyword("by") {
		byTok := rest.Head()
		rest2 := rest.Advance()
		alias, rest3, err := rest2.RequireType(token.KindIdentifier)
		if err != nil {
			return nil, v, err
		}
		node = parsetree.New(parsetree.TagByAlias, byTok, rest3, node, parsetree.New(parsetree.TagByAlias, alias, rest3))
		rest = rest3
	}

	return node, rest, nil
}

// fromSourceAtom parses the unaliased root of a FROM source: a parenthesized
// sub-query/literal expression, a parenthesized nested source tree, an
// UNPIVOT source, or a plain expression.
func (p *Parser) fromSourceAtom(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	if v.Head().Kind == token.KindLeftParen {
		next := v.Peek(1)
		if !(next.IsKeyword("select", "pivot", "with") || next.Kind == token.KindLiteral) {
			inner, rest, err := p.fromSourceJoinTree(v.Advance())
			if err != nil {
				return nil, v, err
			}
			_, rest, err = rest.RequireType(token.KindRightParen)
			if err != nil {
				return nil, v, err
			}
			return inner, rest, nil
		}
	}

	if v.Head().IsKeyword("unpivot") {
		tok := v.Head()
		e, rest, err := p.expression(v.Advance(), tokenview.TopLevel)
		if err != nil {
			return nil, v, err
		}
		return parsetree.New(parsetree.TagUnpivot, tok, rest, e), rest, nil
	}

	return p.expression(v, tokenview.TopLevel)
}

// withStatement parses "WITH [RECURSIVE] binding (, binding)* query" where
// binding ::= name AS [NOT] MATERIALIZED ( query ).
func (p *Parser) withStatement(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	rest := v.Advance()

	var children []*parsetree.Node
	if rest.Head().IsKeyword("recursive") {
		r := rest.Head()
		rest = rest.Advance()
		children = append(children, parsetree.New(parsetree.TagRecursive, r, rest))
	}

	bindings, rest, err := commaList(rest, p.withBinding)
	if err != nil {
		return nil, v, err
	}
	children = append(children, bindings...)

	query, rest, err := p.statement(rest)
	if err != nil {
		return nil, v, err
	}
	children = append(children, query)

	return parsetree.New(parsetree.TagWith, name, rest, children...), rest, nil
}

func (p *Parser) withBinding(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	bindingName, rest, err := v.RequireType(token.KindIdentifier)
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireKeyword("as")
	if err != nil {
		return nil, v, perr.New(perr.CodeExpectedAs, "expected \"as\" in with binding").
			AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
	}

	var matNode *parsetree.Node
	if rest.Head().IsKeyword("not_materialized") {
		matNode = parsetree.New(parsetree.TagMaterialized, rest.Head(), rest.Advance()).WithMeta("not", true)
		rest = rest.Advance()
	} else if rest.Head().IsKeyword("materialized") {
		matNode = parsetree.New(parsetree.TagMaterialized, rest.Head(), rest.Advance())
		rest = rest.Advance()
	} else {
		matNode = parsetree.New(parsetree.TagMaterialized, nil, rest)
	}

	_, rest, err = rest.RequireType(token.KindLeftParen)
	if err != nil {
		return nil, v, err
	}
	query, rest, err := p.queryExpression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireType(token.KindRightParen)
	if err != nil {
		return nil, v, err
	}

	nameNode := parsetree.New(parsetree.TagAsAlias, bindingName, rest)
	return parsetree.New(parsetree.TagAsAlias, nil, rest, nameNode, matNode, query), rest, nil
}
