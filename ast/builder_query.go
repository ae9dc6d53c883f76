package ast

import (
	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/perr"
)

func buildSelect(n *parsetree.Node) (Expr, error) {
	s, err := buildSelectStmt(n)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func buildPivot(n *parsetree.Node) (Expr, error) {
	p, err := buildPivotStmt(n)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func buildWith(n *parsetree.Node) (Expr, error) {
	w, err := buildWithStmt(n)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func isClauseTag(t parsetree.Tag) bool {
	switch t {
	case parsetree.TagFromClause, parsetree.TagLet, parsetree.TagWhere, parsetree.TagOrderBy,
		parsetree.TagGroup, parsetree.TagGroupPartial, parsetree.TagHaving, parsetree.TagLimit:
		return true
	}
	return false
}

type trailingClauses struct {
	from    FromSource
	let     []LetBinding
	where   Expr
	groupBy *GroupByClause
	having  Expr
	orderBy []OrderByItem
	limit   Expr
}

func buildTrailingClauses(nodes []*parsetree.Node) (trailingClauses, error) {
	var out trailingClauses
	for _, c := range nodes {
		var err error
		switch c.Tag {
		case parsetree.TagFromClause:
			out.from, err = buildFromSource(c.Children[0])
		case parsetree.TagLet:
			out.let, err = buildLet(c)
		case parsetree.TagWhere:
			out.where, err = buildExpr(c.Children[0])
		case parsetree.TagOrderBy:
			out.orderBy, err = buildOrderBy(c)
		case parsetree.TagGroup, parsetree.TagGroupPartial:
			out.groupBy, err = buildGroupBy(c)
		case parsetree.TagHaving:
			out.having, err = buildExpr(c.Children[0])
		case parsetree.TagLimit:
			out.limit, err = buildExpr(c.Children[0])
		}
		if err != nil {
			return trailingClauses{}, err
		}
	}
	return out, nil
}

func buildProjItems(nodes []*parsetree.Node) ([]ProjItem, error) {
	items := make([]ProjItem, 0, len(nodes))
	for _, c := range nodes {
		item := c
		var alias *string
		if c.Tag == parsetree.TagAsAlias && len(c.Children) == 2 {
			item = c.Children[0]
			name := c.Children[1].Token.Text
			alias = &name
		}
		e, err := buildExpr(item)
		if err != nil {
			return nil, err
		}
		items = append(items, ProjItem{Expr: e, Alias: alias})
	}
	return items, nil
}

func buildSelectStmt(n *parsetree.Node) (*Select, error) {
	children := n.Children
	quant := QuantifierAll
	if len(children) > 0 && children[0].Tag == parsetree.TagDistinct {
		quant = QuantifierDistinct
		children = children[1:]
	}

	idx := 0
	for idx < len(children) && !isClauseTag(children[idx].Tag) {
		idx++
	}
	projNodes, clauseNodes := children[:idx], children[idx:]

	var proj Projection
	if n.Tag == parsetree.TagSelectValue {
		val, err := buildExpr(projNodes[0])
		if err != nil {
			return nil, err
		}
		proj = ProjValue{Value: val}
	} else {
		items, err := buildProjItems(projNodes)
		if err != nil {
			return nil, err
		}
		proj = ProjList{Items: items}
	}

	clauses, err := buildTrailingClauses(clauseNodes)
	if err != nil {
		return nil, err
	}

	return &Select{
		base:       base{metaOf(n.Token)},
		Quantifier: quant,
		Projection: proj,
		From:       clauses.from,
		Let:        clauses.let,
		Where:      clauses.where,
		GroupBy:    clauses.groupBy,
		Having:     clauses.having,
		OrderBy:    clauses.orderBy,
		Limit:      clauses.limit,
	}, nil
}

func buildPivotStmt(n *parsetree.Node) (*Pivot, error) {
	value, err := buildExpr(n.Children[0])
	if err != nil {
		return nil, err
	}
	at, err := buildExpr(n.Children[1])
	if err != nil {
		return nil, err
	}
	clauses, err := buildTrailingClauses(n.Children[2:])
	if err != nil {
		return nil, err
	}
	return &Pivot{
		base:    base{metaOf(n.Token)},
		Value:   value,
		At:      at,
		From:    clauses.from,
		Let:     clauses.let,
		Where:   clauses.where,
		GroupBy: clauses.groupBy,
		Having:  clauses.having,
		OrderBy: clauses.orderBy,
		Limit:   clauses.limit,
	}, nil
}

func buildWithStmt(n *parsetree.Node) (*WithQuery, error) {
	children := n.Children
	recursive := false
	if len(children) > 0 && children[0].Tag == parsetree.TagRecursive {
		recursive = true
		children = children[1:]
	}

	var bindings []WithBinding
	i := 0
	for i < len(children)-1 {
		b := children[i]
		if b.Tag != parsetree.TagAsAlias || len(b.Children) != 3 || b.Children[1].Tag != parsetree.TagMaterialized {
			break
		}
		query, err := buildStatement(b.Children[2])
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, WithBinding{
			Name:         b.Children[0].Token.Text,
			Materialized: !b.Children[1].HasMeta("not"),
			Query:        query,
		})
		i++
	}
	if i >= len(children) {
		return nil, perr.Internal("with query missing final query")
	}
	finalQuery, err := buildStatement(children[i])
	if err != nil {
		return nil, err
	}
	return &WithQuery{base: base{metaOf(n.Token)}, Recursive: recursive, Bindings: bindings, Query: finalQuery}, nil
}

// peelFromAliases strips any number of AS/AT/BY alias wrapper layers from a
// FROM source node, returning the accumulated aliases and the underlying
// core node.
func peelFromAliases(n *parsetree.Node) (FromAliases, *parsetree.Node) {
	var al FromAliases
	for {
		if len(n.Children) != 2 {
			break
		}
		switch n.Tag {
		case parsetree.TagAsAlias:
			name := n.Children[1].Token.Text
			al.As = &name
		case parsetree.TagAtAlias:
			name := n.Children[1].Token.Text
			al.At = &name
		case parsetree.TagByAlias:
			name := n.Children[1].Token.Text
			al.By = &name
		default:
			return al, n
		}
		n = n.Children[0]
	}
	return al, n
}

func joinKindFor(t parsetree.Tag) JoinKind {
	switch t {
	case parsetree.TagLeftJoin:
		return JoinLeft
	case parsetree.TagRightJoin:
		return JoinRight
	case parsetree.TagOuterJoin:
		return JoinOuter
	default:
		return JoinInner
	}
}

func buildFromSource(n *parsetree.Node) (FromSource, error) {
	aliases, core := peelFromAliases(n)

	switch core.Tag {
	case parsetree.TagFromSourceJoin, parsetree.TagInnerJoin, parsetree.TagLeftJoin, parsetree.TagRightJoin, parsetree.TagOuterJoin:
		left, err := buildFromSource(core.Children[0])
		if err != nil {
			return nil, err
		}
		right, err := buildFromSource(core.Children[1])
		if err != nil {
			return nil, err
		}
		var on Expr
		if len(core.Children) > 2 {
			on, err = buildExpr(core.Children[2])
			if err != nil {
				return nil, err
			}
		}
		cross, _ := core.Meta["cross"].(bool)
		return FromJoin{
			Kind:     joinKindFor(core.Tag),
			Cross:    cross,
			Implicit: core.HasMeta("implicitJoin"),
			Left:     left,
			Right:    right,
			On:       on,
			Aliases:  aliases,
		}, nil
	case parsetree.TagUnpivot:
		e, err := buildExpr(core.Children[0])
		if err != nil {
			return nil, err
		}
		return FromUnpivot{Expr: e, Aliases: aliases}, nil
	default:
		e, err := buildExpr(core)
		if err != nil {
			return nil, err
		}
		return FromExpr{Expr: e, Aliases: aliases}, nil
	}
}

func buildLet(n *parsetree.Node) ([]LetBinding, error) {
	out := make([]LetBinding, 0, len(n.Children))
	for _, c := range n.Children {
		e, err := buildExpr(c.Children[0])
		if err != nil {
			return nil, err
		}
		out = append(out, LetBinding{Expr: e, Name: c.Children[1].Token.Text})
	}
	return out, nil
}

func buildOrderBy(n *parsetree.Node) ([]OrderByItem, error) {
	items := make([]OrderByItem, 0, len(n.Children))
	for _, c := range n.Children {
		e, err := buildExpr(c.Children[0])
		if err != nil {
			return nil, err
		}
		item := OrderByItem{Expr: e}
		if len(c.Children) > 1 {
			item.HasDir = true
			if c.Children[1].Token.IsKeyword("desc") {
				item.Direction = OrderDesc
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func buildGroupBy(n *parsetree.Node) (*GroupByClause, error) {
	strategy := GroupFull
	if n.Tag == parsetree.TagGroupPartial {
		strategy = GroupPartial
	}

	children := n.Children
	var groupAs *string
	if len(children) > 0 {
		last := children[len(children)-1]
		if last.Tag == parsetree.TagByAlias && len(last.Children) == 0 {
			name := last.Token.Text
			groupAs = &name
			children = children[:len(children)-1]
		}
	}

	items := make([]GroupByItem, 0, len(children))
	for _, c := range children {
		item := c
		var alias *string
		if c.Tag == parsetree.TagAsAlias && len(c.Children) == 2 {
			item = c.Children[0]
			name := c.Children[1].Token.Text
			alias = &name
		}
		e, err := buildExpr(item)
		if err != nil {
			return nil, err
		}
		items = append(items, GroupByItem{Expr: e, Alias: alias})
	}
	return &GroupByClause{Strategy: strategy, Items: items, GroupAs: groupAs}, nil
}
