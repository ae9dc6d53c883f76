package ast

import (
	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/perr"
	"github.com/partiql-go/partiql/token"
)

func metaOf(tok *token.Token) Meta {
	if tok == nil {
		return Meta{}
	}
	return Meta{Line: tok.Span.Line, Column: tok.Span.Column, Length: tok.Span.Length}
}

// BuildExpr builds the AST for a parse tree rooted at an expression-shaped
// node.
func BuildExpr(n *parsetree.Node) (Expr, error) {
	return buildExpr(n)
}

// BuildStatement builds the AST for a parse tree rooted at a
// statement-shaped node.
func BuildStatement(n *parsetree.Node) (Statement, error) {
	return buildStatement(n)
}

func buildStatement(n *parsetree.Node) (Statement, error) {
	if n == nil {
		return nil, perr.Internal("nil node where a statement was expected")
	}
	switch n.Tag {
	case parsetree.TagSelectList, parsetree.TagSelectValue:
		return buildSelectStmt(n)
	case parsetree.TagPivot:
		return buildPivotStmt(n)
	case parsetree.TagWith:
		return buildWithStmt(n)
	case parsetree.TagInsert, parsetree.TagInsertValue, parsetree.TagSet, parsetree.TagRemove, parsetree.TagDelete, parsetree.TagDmlList:
		return buildDataManipulation(n)
	case parsetree.TagCreateTable:
		return buildCreateTable(n)
	case parsetree.TagDropTable:
		return buildDropTable(n)
	case parsetree.TagCreateIndex:
		return buildCreateIndex(n)
	case parsetree.TagDropIndex:
		return buildDropIndex(n)
	case parsetree.TagExec:
		return buildExecStatement(n)
	default:
		return nil, perr.Internal("unexpected parse node %s where a statement was expected", n.Tag)
	}
}

func buildExpr(n *parsetree.Node) (Expr, error) {
	if n == nil {
		return nil, perr.Internal("nil node where an expression was expected")
	}
	switch n.Tag {
	case parsetree.TagAtom, parsetree.TagCaseSensitiveAtom, parsetree.TagCaseInsensitiveAtom:
		return buildAtom(n)
	case parsetree.TagPath:
		return buildPath(n)
	case parsetree.TagProjectAll:
		return buildProjectAll(n)
	case parsetree.TagUnary:
		return buildUnary(n)
	case parsetree.TagBinary:
		return buildBinary(n)
	case parsetree.TagTernary:
		return buildTernary(n)
	case parsetree.TagList:
		return buildSeq(n, SeqList)
	case parsetree.TagBag:
		return buildSeq(n, SeqBag)
	case parsetree.TagStruct:
		return buildStruct(n)
	case parsetree.TagCast:
		return buildCast(n)
	case parsetree.TagCase:
		return buildCase(n)
	case parsetree.TagParameter:
		return &Parameter{base{metaOf(n.Token)}, n.Token.Value.Ordinal()}, nil
	case parsetree.TagDate:
		return &DateLiteral{base{metaOf(n.Token)}, n.Children[0].Token.Value.String()}, nil
	case parsetree.TagTime, parsetree.TagTimeWithTimeZone:
		return buildTimeLiteral(n)
	case parsetree.TagCall:
		return buildCall(n)
	case parsetree.TagCallAgg, parsetree.TagCallDistinctAgg, parsetree.TagCallAggWildcard:
		return buildAggregate(n)
	case parsetree.TagSelectList, parsetree.TagSelectValue:
		return buildSelect(n)
	case parsetree.TagPivot:
		return buildPivot(n)
	case parsetree.TagWith:
		return buildWith(n)
	default:
		return nil, perr.Internal("unexpected parse node %s where an expression was expected", n.Tag)
	}
}

func buildAtom(n *parsetree.Node) (Expr, error) {
	tok := n.Token
	switch n.Tag {
	case parsetree.TagCaseSensitiveAtom:
		return &VarRef{base{metaOf(tok)}, tok.Text, true, ScopeUnqualified}, nil
	case parsetree.TagCaseInsensitiveAtom:
		return &VarRef{base{metaOf(tok)}, tok.Text, false, ScopeUnqualified}, nil
	}

	switch tok.Kind {
	case token.KindNull:
		return &Literal{base{metaOf(tok)}, LiteralNull, tok.Value}, nil
	case token.KindMissing:
		return &Literal{base{metaOf(tok)}, LiteralMissing, tok.Value}, nil
	case token.KindIonLiteral:
		return &Literal{base{metaOf(tok)}, LiteralIon, tok.Value}, nil
	case token.KindLiteral:
		kind := LiteralText
		switch tok.Value.Kind {
		case token.ValueKindNumber:
			kind = LiteralNumber
		case token.ValueKindBoolean:
			kind = LiteralBoolean
		}
		return &Literal{base{metaOf(tok)}, kind, tok.Value}, nil
	case token.KindTrimSpecification, token.KindDatePart:
		return &Literal{base{metaOf(tok)}, LiteralText, token.NewTextValue(tok.KeywordText)}, nil
	case token.KindIdentifier:
		return &VarRef{base{metaOf(tok)}, tok.Text, false, ScopeUnqualified}, nil
	case token.KindQuotedIdentifier:
		return &VarRef{base{metaOf(tok)}, tok.Text, true, ScopeUnqualified}, nil
	default:
		return nil, perr.Internal("unexpected atom token kind %s", tok.Kind)
	}
}

func buildPath(n *parsetree.Node) (Expr, error) {
	root, err := buildExpr(n.Children[0])
	if err != nil {
		return nil, err
	}
	components := make([]PathComponent, 0, len(n.Children)-1)
	for _, c := range n.Children[1:] {
		switch c.Tag {
		case parsetree.TagPathDot:
			components = append(components, DotComponent{Name: c.Token.Value.String(), CaseSensitive: c.HasMeta("caseSensitive")})
		case parsetree.TagPathUnpivot:
			components = append(components, UnpivotComponent{})
		case parsetree.TagPathWildcard:
			components = append(components, WildcardComponent{})
		case parsetree.TagPathSqb:
			idx, err := buildExpr(c.Children[0])
			if err != nil {
				return nil, err
			}
			components = append(components, IndexComponent{Index: idx})
		default:
			return nil, perr.Internal("unexpected path component %s", c.Tag)
		}
	}
	return &PathExpr{base{metaOf(nil)}, root, components}, nil
}

func buildProjectAll(n *parsetree.Node) (Expr, error) {
	if len(n.Children) == 0 {
		return &ProjectAll{base: base{metaOf(n.Token)}}, nil
	}
	path, err := buildExpr(n.Children[0])
	if err != nil {
		return nil, err
	}
	return &ProjectAll{base: base{metaOf(n.Token)}, Path: path}, nil
}

func buildUnary(n *parsetree.Node) (Expr, error) {
	if n.Token.Text == "@" {
		inner, err := buildAtom(n.Children[0])
		if err != nil {
			return nil, err
		}
		ref := inner.(*VarRef)
		ref.Scope = ScopeLexical
		return ref, nil
	}
	operand, err := buildExpr(n.Children[0])
	if err != nil {
		return nil, err
	}
	return &UnaryOp{base{metaOf(n.Token)}, opText(n.Token), operand}, nil
}

// negatedOps maps a negated keyword spelling to its positive operator plus
// a flag saying it should be rewritten as NOT(positive(...)).
var negatedOps = map[string]string{
	"not_between": "between", "not_like": "like", "not_in": "in", "is_not": "is",
}

func buildBinary(n *parsetree.Node) (Expr, error) {
	left, err := buildExpr(n.Children[0])
	if err != nil {
		return nil, err
	}
	kw := n.Token.KeywordText

	if positive, negated := negatedOps[kw]; negated {
		inner, err := buildBinaryOp(positive, n, left)
		if err != nil {
			return nil, err
		}
		return &UnaryOp{base{metaOf(n.Token)}, "not", inner}, nil
	}
	return buildBinaryOp(opText(n.Token), n, left)
}

func buildBinaryOp(op string, n *parsetree.Node, left Expr) (Expr, error) {
	if op == "is" {
		typ, err := buildType(n.Children[1])
		if err != nil {
			return nil, err
		}
		return &TypedOp{base: base{metaOf(n.Token)}, Kind: "is", Operand: left, Type: typ}, nil
	}
	right, err := buildExpr(n.Children[1])
	if err != nil {
		return nil, err
	}
	return &BinaryOp{base{metaOf(n.Token)}, op, left, right}, nil
}

func buildTernary(n *parsetree.Node) (Expr, error) {
	first, err := buildExpr(n.Children[0])
	if err != nil {
		return nil, err
	}
	kw := n.Token.KeywordText
	positive, negated := negatedOps[kw]
	if !negated {
		positive = opText(n.Token)
	}
	mid, err := buildExpr(n.Children[1])
	if err != nil {
		return nil, err
	}
	last, err := buildExpr(n.Children[2])
	if err != nil {
		return nil, err
	}
	inner := Expr(&TernaryOp{base{metaOf(n.Token)}, positive, first, mid, last})
	if negated {
		return &UnaryOp{base{metaOf(n.Token)}, "not", inner}, nil
	}
	return inner, nil
}

func opText(tok *token.Token) string {
	if tok.KeywordText != "" {
		return tok.KeywordText
	}
	return tok.Text
}

func buildSeq(n *parsetree.Node, kind SeqKind) (Expr, error) {
	elems := make([]Expr, 0, len(n.Children))
	for _, c := range n.Children {
		e, err := buildExpr(c)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	return &SeqExpr{base{metaOf(n.Token)}, kind, elems}, nil
}

func buildStruct(n *parsetree.Node) (Expr, error) {
	members := make([]StructMember, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Tag != parsetree.TagMember || len(c.Children) != 2 {
			return nil, perr.Internal("malformed struct member")
		}
		key, err := buildExpr(c.Children[0])
		if err != nil {
			return nil, err
		}
		val, err := buildExpr(c.Children[1])
		if err != nil {
			return nil, err
		}
		members = append(members, StructMember{Key: key, Value: val})
	}
	return &StructExpr{base{metaOf(n.Token)}, members}, nil
}

func buildCast(n *parsetree.Node) (Expr, error) {
	operand, err := buildExpr(n.Children[0])
	if err != nil {
		return nil, err
	}
	typ, err := buildType(n.Children[1])
	if err != nil {
		return nil, err
	}
	return &TypedOp{base: base{metaOf(n.Token)}, Kind: "cast", Operand: operand, Type: typ}, nil
}

func buildType(n *parsetree.Node) (DataType, error) {
	name, _ := n.Meta["typeName"].(string)
	params := make([]int64, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Token == nil {
			return DataType{}, perr.Internal("malformed type parameter")
		}
		params = append(params, c.Token.Value.Long())
	}
	return DataType{Name: name, Parameters: params}, nil
}

func buildCase(n *parsetree.Node) (Expr, error) {
	children := n.Children
	var subject Expr
	if len(children) > 0 && children[0].Tag != parsetree.TagWhen {
		s, err := buildExpr(children[0])
		if err != nil {
			return nil, err
		}
		subject = s
		children = children[1:]
	}
	var whens []WhenClause
	for len(children) > 0 && children[0].Tag == parsetree.TagWhen {
		w := children[0]
		cond, err := buildExpr(w.Children[0])
		if err != nil {
			return nil, err
		}
		result, err := buildExpr(w.Children[1])
		if err != nil {
			return nil, err
		}
		whens = append(whens, WhenClause{Cond: cond, Result: result})
		children = children[1:]
	}
	var elseExpr Expr
	if len(children) > 0 && children[0].Tag == parsetree.TagElse {
		e, err := buildExpr(children[0].Children[0])
		if err != nil {
			return nil, err
		}
		elseExpr = e
	}
	return &CaseExpr{base{metaOf(n.Token)}, subject, whens, elseExpr}, nil
}

func buildTimeLiteral(n *parsetree.Node) (Expr, error) {
	var lit *parsetree.Node
	var precisionNode *parsetree.Node
	for _, c := range n.Children {
		if c.Tag == parsetree.TagPrecision {
			precisionNode = c
		} else {
			lit = c
		}
	}
	precision := 0
	if precisionNode != nil {
		precision = int(precisionNode.Token.Value.Long())
	} else if p, ok := n.Meta["derivedPrecision"].(int); ok {
		precision = p
	}
	return &TimeLiteral{
		base:         base{metaOf(n.Token)},
		Text:         lit.Token.Value.String(),
		Precision:    precision,
		WithTimeZone: n.Tag == parsetree.TagTimeWithTimeZone,
	}, nil
}

func buildCall(n *parsetree.Node) (Expr, error) {
	args := make([]Expr, 0, len(n.Children))
	for _, c := range n.Children {
		e, err := buildExpr(c)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	name := n.Token.KeywordText
	if name == "" {
		name = n.Token.Text
	}
	return &Call{base{metaOf(n.Token)}, name, args}, nil
}

func buildAggregate(n *parsetree.Node) (Expr, error) {
	name := n.Token.KeywordText
	call := &AggregateCall{base: base{metaOf(n.Token)}, Name: name}
	switch n.Tag {
	case parsetree.TagCallAggWildcard:
		call.Wildcard = true
		call.Quantifier = QuantifierAll
	case parsetree.TagCallDistinctAgg:
		call.Quantifier = QuantifierDistinct
		arg, err := buildExpr(n.Children[0])
		if err != nil {
			return nil, err
		}
		call.Arg = arg
	case parsetree.TagCallAgg:
		call.Quantifier = QuantifierAll
		arg, err := buildExpr(n.Children[0])
		if err != nil {
			return nil, err
		}
		call.Arg = arg
	}
	return call, nil
}
