package parser

import (
	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/perr"
	"github.com/partiql-go/partiql/token"
	"github.com/partiql-go/partiql/tokenview"
)

// simplePath parses a path in the restricted mode legal as a DML lvalue:
// dot components and bracket components whose index is a literal.
func (p *Parser) simplePath(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	return p.pathTerm(v, modeSimple, false)
}

// insertStatement parses "INSERT INTO <path> <values-expr>" and
// "INSERT INTO <path> VALUE <expr> [AT <expr>] [ON CONFLICT WHERE <expr> DO NOTHING] [RETURNING …]".
func (p *Parser) insertStatement(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	rest := v.Advance()

	path, rest, err := p.simplePath(rest)
	if err != nil {
		return nil, v, err
	}

	if !rest.Head().IsKeyword("value") {
		values, rest2, err := p.expression(rest, tokenview.TopLevel)
		if err != nil {
			return nil, v, err
		}
		return parsetree.New(parsetree.TagInsert, name, rest2, path, values), rest2, nil
	}

	rest = rest.Advance()
	value, rest, err := p.expression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	children := []*parsetree.Node{path, value}

	if rest.Head().IsKeyword("at") {
		atExpr, rest2, err := p.expression(rest.Advance(), tokenview.TopLevel)
		if err != nil {
			return nil, v, err
		}
		children = append(children, atExpr.WithMeta("role", "at"))
		rest = rest2
	}

	if rest.Head().IsKeyword("on_conflict") {
		onTok := rest.Head()
		rest2 := rest.Advance()
		_, rest2, err := rest2.RequireKeyword("where")
		if err != nil {
			return nil, v, perr.New(perr.CodeExpectedWhere, "expected \"where\" after \"on conflict\"").
				AtSpan(rest2.Head().Span.Line, rest2.Head().Span.Column, rest2.Head().Span.Length)
		}
		cond, rest2, err := p.expression(rest2, tokenview.TopLevel)
		if err != nil {
			return nil, v, err
		}
		var action *token.Token
		if rest2.Head().IsKeyword("do_nothing") {
			action = rest2.Head()
			rest2 = rest2.Advance()
		} else {
			return nil, v, perr.New(perr.CodeExpectedConflictAction, "expected a conflict action").
				AtSpan(rest2.Head().Span.Line, rest2.Head().Span.Column, rest2.Head().Span.Length)
		}
		actionNode := parsetree.New(parsetree.TagConflictAction, action, rest2)
		children = append(children, parsetree.New(parsetree.TagOnConflict, onTok, rest2, cond, actionNode))
		rest = rest2
	}

	if rest.Head().IsKeyword("returning") {
		ret, rest2, err := p.returningClause(rest)
		if err != nil {
			return nil, v, err
		}
		children = append(children, ret)
		rest = rest2
	}

	return parsetree.New(parsetree.TagInsertValue, name, rest, children...), rest, nil
}

// updateSetStatement parses the SET/UPDATE family: a bare "SET <path> = <expr> (, …)*"
// op list, or the legacy "UPDATE <target> <dml-op>+ …" form.
func (p *Parser) updateSetStatement(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	if v.Head().IsKeyword("set") {
		return p.dmlOpSequence(nil, v)
	}
	target, rest, err := p.dmlTarget(v.Advance())
	if err != nil {
		return nil, v, err
	}
	return p.dmlOpSequence(target, rest)
}

// removeStatement parses a bare "REMOVE <path>" op.
func (p *Parser) removeStatement(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	return p.dmlOpSequence(nil, v)
}

// deleteStatement parses the legacy "DELETE FROM <target> [WHERE …] [RETURNING …]" form.
func (p *Parser) deleteStatement(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	_, rest, err := v.Advance().RequireKeyword("from")
	if err != nil {
		return nil, v, err
	}
	target, rest, err := p.dmlTarget(rest)
	if err != nil {
		return nil, v, err
	}
	del := parsetree.New(parsetree.TagDelete, name, rest)
	return p.finishDmlList(target, []*parsetree.Node{del}, rest)
}

// fromDmlStatement parses "FROM <target> <dml-op>+ [WHERE …] [RETURNING …]".
func (p *Parser) fromDmlStatement(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	target, rest, err := p.dmlTarget(v.Advance())
	if err != nil {
		return nil, v, err
	}
	return p.dmlOpSequence(target, rest)
}

// dmlTarget parses a DML target: a simple-path source with optional
// AS/AT/BY aliases.
func (p *Parser) dmlTarget(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	node, rest, err := p.simplePath(v)
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

// dmlOpSequence parses one or more consecutive SET/REMOVE/INSERT-INTO
// operations over the same target, then the optional WHERE and RETURNING
// clauses (see finishDmlList for when the result is a DML_LIST).
func (p *Parser) dmlOpSequence(target *parsetree.Node, v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	var ops []*parsetree.Node
	rest := v

	for {
		switch {
		case rest.Head().IsKeyword("set") || rest.Head().IsKeyword("update"):
			op, rest2, err := p.setOp(rest)
			if err != nil {
				return nil, v, err
			}
			ops = append(ops, op)
			rest = rest2
		case rest.Head().IsKeyword("remove"):
			tok := rest.Head()
			path, rest2, err := p.simplePath(rest.Advance())
			if err != nil {
				return nil, v, err
			}
			ops = append(ops, parsetree.New(parsetree.TagRemove, tok, rest2, path))
			rest = rest2
		case rest.Head().IsKeyword("insert_into"):
			op, rest2, err := p.insertStatement(rest)
			if err != nil {
				return nil, v, err
			}
			ops = append(ops, op)
			rest = rest2
		default:
			goto done
		}
	}
done:
	if len(ops) == 0 {
		return nil, v, perr.New(perr.CodeMissingSetAssignment, "expected a set, remove, or insert into operation").
			AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
	}
	return p.finishDmlList(target, ops, rest)
}

// setOp parses "SET <path> = <expr> (, <path> = <expr>)*": one SET (or
// legacy UPDATE) keyword introducing a comma-separated list of assignments.
func (p *Parser) setOp(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	tok := v.Head()
	assignments, rest, err := commaList(v.Advance(), p.assignment)
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagSet, tok, rest, assignments...), rest, nil
}

func (p *Parser) assignment(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	path, rest, err := p.simplePath(v)
	if err != nil {
		return nil, v, err
	}
	if rest.Head().Kind != token.KindOperator || rest.Head().Text != "=" {
		return nil, v, perr.New(perr.CodeMissingSetAssignment, "expected \"=\" in set assignment").
			AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
	}
	rest = rest.Advance()
	value, rest, err := p.expression(rest, tokenview.TopLevel)
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagAssignment, nil, rest, path, value), rest, nil
}

// finishDmlList appends the optional WHERE and RETURNING clauses and
// attaches the DML target, if any, as the FROM source. A single op with no
// target, WHERE or RETURNING is returned as is; anything else is wrapped in
// a DML_LIST.
func (p *Parser) finishDmlList(target *parsetree.Node, ops []*parsetree.Node, v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	rest := v
	var where, returning *parsetree.Node

	if rest.Head().IsKeyword("where") {
		whereTok := rest.Head()
		e, rest2, err := p.expression(rest.Advance(), tokenview.TopLevel)
		if err != nil {
			return nil, v, err
		}
		where = parsetree.New(parsetree.TagWhere, whereTok, rest2, e)
		rest = rest2
	}

	if rest.Head().IsKeyword("returning") {
		var err error
		returning, rest, err = p.returningClause(rest)
		if err != nil {
			return nil, v, err
		}
	}

	var extras []*parsetree.Node
	if target != nil {
		extras = append(extras, target.WithMeta("role", "from"))
	}
	if where != nil {
		extras = append(extras, where)
	}
	if returning != nil {
		extras = append(extras, returning)
	}

	if len(ops) == 1 && len(extras) == 0 {
		return ops[0], rest, nil
	}

	children := append(append([]*parsetree.Node{}, ops...), extras...)
	return parsetree.New(parsetree.TagDmlList, nil, rest, children...), rest, nil
}

// returningClause parses "RETURNING <elem> (, <elem>)*" where
// <elem> ::= (MODIFIED|ALL) (OLD|NEW) (* | <path>), limiting path depth to
// two components.
func (p *Parser) returningClause(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	tok := v.Head()
	elems, rest, err := commaList(v.Advance(), p.returningElem)
	if err != nil {
		return nil, v, err
	}
	return parsetree.New(parsetree.TagReturning, tok, rest, elems...), rest, nil
}

func (p *Parser) returningElem(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	mapping := v.Head()
	if !mapping.IsKeyword("modified_old", "modified_new", "all_old", "all_new") {
		return nil, v, perr.New(perr.CodeExpectedReturningClause, "expected a returning mapping keyword").
			AtSpan(mapping.Span.Line, mapping.Span.Column, mapping.Span.Length)
	}
	rest := v.Advance()
	mappingNode := parsetree.New(parsetree.TagReturningMapping, mapping, rest)

	if rest.Head().Kind == token.KindStar {
		star := rest.Head()
		rest = rest.Advance()
		wc := parsetree.New(parsetree.TagReturningWildcard, star, rest)
		return parsetree.New(parsetree.TagReturningElem, nil, rest, mappingNode, wc), rest, nil
	}

	path, rest, err := p.pathTerm(rest, modeSimple, false)
	if err != nil {
		return nil, v, err
	}
	if path.Tag == parsetree.TagPath && len(path.Children)-1 > 2 {
		return nil, v, perr.New(perr.CodeInvalidPathComponent, "returning paths are limited to two components").
			AtSpan(mapping.Span.Line, mapping.Span.Column, mapping.Span.Length)
	}
	return parsetree.New(parsetree.TagReturningElem, nil, rest, mappingNode, path), rest, nil
}
