// Package sexpr renders an ast.Expr or ast.Statement into its canonical,
// version-V0 s-expression form: a closed textual encoding used as the
// `Parse` public entry point's return value and as a round-trip oracle in
// tests. The mapping is a table-driven closed switch per sum type, in the
// same spirit as parsetree.Tag's own table-driven String method and the
// ast builder's own switch-on-tag dispatch: every concrete node type has
// exactly one rendering, chosen at compile time, with a perr.Internal
// fallback for the type-switch default case that can only be reached by a
// bug (an Expr/Statement implementation the switch forgot).
package sexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/partiql-go/partiql/ast"
	"github.com/partiql-go/partiql/perr"
)

// Marshal renders n, which must be an ast.Expr or ast.Statement, to its
// canonical V0 s-expression form. Meta (source position) is deliberately
// excluded: two structurally-identical trees built from differently
// positioned source render identically.
func Marshal(n any) (string, error) {
	switch v := n.(type) {
	case ast.Expr:
		return exprSexpr(v)
	case ast.Statement:
		return stmtSexpr(v)
	default:
		return "", perr.Internal("sexpr: %T is neither an ast.Expr nor an ast.Statement", n)
	}
}

// list builds "(tag arg...)", omitting the trailing space when there are
// no args.
func list(tag string, args ...string) string {
	if len(args) == 0 {
		return "(" + tag + ")"
	}
	return "(" + tag + " " + strings.Join(args, " ") + ")"
}

// seq wraps a repeated field's already-rendered items in a parenthesized
// sibling list, e.g. the items of a SELECT's projection.
func seq(items ...string) string {
	return "(" + strings.Join(items, " ") + ")"
}

// str renders a quoted string atom, backslash-escaping quotes and
// backslashes.
func str(s string) string {
	return strconv.Quote(s)
}

// strOrNil renders *s as a quoted atom, or the bare "nil" atom if s is nil.
func strOrNil(s *string) string {
	if s == nil {
		return "nil"
	}
	return str(*s)
}

// exprOrNil renders e's sexpr, or the bare "nil" atom if e is nil.
func exprOrNil(e ast.Expr) (string, error) {
	if e == nil {
		return "nil", nil
	}
	return exprSexpr(e)
}

func boolAtom(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func intAtom(n int64) string { return strconv.FormatInt(n, 10) }

func exprSexpr(e ast.Expr) (string, error) {
	switch v := e.(type) {
	case *ast.VarRef:
		return list("var_ref", str(v.Name), boolAtom(v.CaseSensitive), scopeAtom(v.Scope)), nil
	case *ast.Literal:
		return literalSexpr(v)
	case *ast.PathExpr:
		return pathSexpr(v)
	case *ast.ProjectAll:
		path, err := exprOrNil(v.Path)
		if err != nil {
			return "", err
		}
		return list("project_all", path), nil
	case *ast.UnaryOp:
		operand, err := exprSexpr(v.Operand)
		if err != nil {
			return "", err
		}
		return list("unary_op", str(v.Op), operand), nil
	case *ast.BinaryOp:
		left, err := exprSexpr(v.Left)
		if err != nil {
			return "", err
		}
		right, err := exprSexpr(v.Right)
		if err != nil {
			return "", err
		}
		return list("binary_op", str(v.Op), left, right), nil
	case *ast.TernaryOp:
		first, err := exprSexpr(v.First)
		if err != nil {
			return "", err
		}
		mid, err := exprSexpr(v.Mid)
		if err != nil {
			return "", err
		}
		last, err := exprSexpr(v.Last)
		if err != nil {
			return "", err
		}
		return list("ternary_op", str(v.Op), first, mid, last), nil
	case *ast.TypedOp:
		operand, err := exprSexpr(v.Operand)
		if err != nil {
			return "", err
		}
		return list("typed_op", str(v.Kind), operand, dataTypeSexpr(v.Type)), nil
	case *ast.CaseExpr:
		return caseSexpr(v)
	case *ast.SeqExpr:
		return seqExprSexpr(v)
	case *ast.StructExpr:
		return structSexpr(v)
	case *ast.Parameter:
		return list("parameter", intAtom(int64(v.Ordinal))), nil
	case *ast.DateLiteral:
		return list("date_literal", str(v.Text)), nil
	case *ast.TimeLiteral:
		return list("time_literal", str(v.Text), intAtom(int64(v.Precision)), boolAtom(v.WithTimeZone)), nil
	case *ast.AggregateCall:
		return aggregateCallSexpr(v)
	case *ast.Call:
		return callSexpr(v)
	case *ast.Select:
		return selectSexpr(v)
	case *ast.Pivot:
		return pivotSexpr(v)
	case *ast.WithQuery:
		return withQuerySexpr(v)
	default:
		return "", perr.Internal("sexpr: unhandled ast.Expr variant %T", e)
	}
}

func stmtSexpr(s ast.Statement) (string, error) {
	switch v := s.(type) {
	case *ast.Select:
		return selectSexpr(v)
	case *ast.Pivot:
		return pivotSexpr(v)
	case *ast.WithQuery:
		return withQuerySexpr(v)
	case *ast.DataManipulation:
		return dataManipulationSexpr(v)
	case *ast.CreateTable:
		return list("create_table", str(v.Name)), nil
	case *ast.DropTable:
		return list("drop_table", str(v.Name)), nil
	case *ast.CreateIndex:
		keys, err := exprList(v.Keys)
		if err != nil {
			return "", err
		}
		return list("create_index", str(v.Table), keys), nil
	case *ast.DropIndex:
		return list("drop_index", str(v.Name), str(v.Table)), nil
	case *ast.ExecStatement:
		args, err := exprList(v.Args)
		if err != nil {
			return "", err
		}
		return list("exec_statement", str(v.Proc), args), nil
	default:
		return "", perr.Internal("sexpr: unhandled ast.Statement variant %T", s)
	}
}

func scopeAtom(s ast.ScopeQualifier) string {
	if s == ast.ScopeLexical {
		return "lexical"
	}
	return "unqualified"
}

func literalSexpr(v *ast.Literal) (string, error) {
	switch v.Kind {
	case ast.LiteralText:
		return list("literal", "text", str(v.Value.String())), nil
	case ast.LiteralNumber:
		return list("literal", "number", v.Value.Number().String()), nil
	case ast.LiteralBoolean:
		return list("literal", "boolean", boolAtom(v.Value.Bool())), nil
	case ast.LiteralNull:
		return list("literal", "null"), nil
	case ast.LiteralMissing:
		return list("literal", "missing"), nil
	case ast.LiteralIon:
		return list("literal", "ion", str(v.Value.String())), nil
	default:
		return "", perr.Internal("sexpr: unhandled ast.LiteralKind %d", v.Kind)
	}
}

func pathSexpr(v *ast.PathExpr) (string, error) {
	root, err := exprSexpr(v.Root)
	if err != nil {
		return "", err
	}
	comps := make([]string, len(v.Components))
	for i, c := range v.Components {
		s, err := pathComponentSexpr(c)
		if err != nil {
			return "", err
		}
		comps[i] = s
	}
	return list("path_expr", root, seq(comps...)), nil
}

func pathComponentSexpr(c ast.PathComponent) (string, error) {
	switch v := c.(type) {
	case ast.DotComponent:
		return list("dot", str(v.Name), boolAtom(v.CaseSensitive)), nil
	case ast.IndexComponent:
		idx, err := exprSexpr(v.Index)
		if err != nil {
			return "", err
		}
		return list("index", idx), nil
	case ast.WildcardComponent:
		return list("wildcard"), nil
	case ast.UnpivotComponent:
		return list("unpivot"), nil
	default:
		return "", perr.Internal("sexpr: unhandled ast.PathComponent variant %T", c)
	}
}

func dataTypeSexpr(t ast.DataType) string {
	params := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		params[i] = intAtom(p)
	}
	return list("data_type", str(t.Name), seq(params...))
}

func caseSexpr(v *ast.CaseExpr) (string, error) {
	subject, err := exprOrNil(v.Subject)
	if err != nil {
		return "", err
	}
	whens := make([]string, len(v.Whens))
	for i, w := range v.Whens {
		cond, err := exprSexpr(w.Cond)
		if err != nil {
			return "", err
		}
		result, err := exprSexpr(w.Result)
		if err != nil {
			return "", err
		}
		whens[i] = list("when", cond, result)
	}
	elseExpr, err := exprOrNil(v.Else)
	if err != nil {
		return "", err
	}
	return list("case_expr", subject, seq(whens...), elseExpr), nil
}

func seqExprSexpr(v *ast.SeqExpr) (string, error) {
	elems, err := exprList(v.Elements)
	if err != nil {
		return "", err
	}
	return list("seq_expr", seqKindAtom(v.Kind), elems), nil
}

func seqKindAtom(k ast.SeqKind) string {
	switch k {
	case ast.SeqList:
		return "list"
	case ast.SeqBag:
		return "bag"
	case ast.SeqSexp:
		return "sexp"
	default:
		return "list"
	}
}

func structSexpr(v *ast.StructExpr) (string, error) {
	members := make([]string, len(v.Members))
	for i, m := range v.Members {
		key, err := exprSexpr(m.Key)
		if err != nil {
			return "", err
		}
		val, err := exprSexpr(m.Value)
		if err != nil {
			return "", err
		}
		members[i] = list("member", key, val)
	}
	return list("struct_expr", seq(members...)), nil
}

func aggregateCallSexpr(v *ast.AggregateCall) (string, error) {
	arg, err := exprOrNil(v.Arg)
	if err != nil {
		return "", err
	}
	return list("aggregate_call", str(v.Name), quantifierAtom(v.Quantifier), arg, boolAtom(v.Wildcard)), nil
}

func quantifierAtom(q ast.SetQuantifier) string {
	if q == ast.QuantifierDistinct {
		return "distinct"
	}
	return "all"
}

func callSexpr(v *ast.Call) (string, error) {
	args, err := exprList(v.Args)
	if err != nil {
		return "", err
	}
	return list("call", str(v.Name), args), nil
}

func exprList(exprs []ast.Expr) (string, error) {
	items := make([]string, len(exprs))
	for i, e := range exprs {
		s, err := exprSexpr(e)
		if err != nil {
			return "", err
		}
		items[i] = s
	}
	return seq(items...), nil
}

func selectSexpr(v *ast.Select) (string, error) {
	proj, err := projectionSexpr(v.Projection)
	if err != nil {
		return "", err
	}
	from, err := fromSourceOrNil(v.From)
	if err != nil {
		return "", err
	}
	let, err := letBindingsSexpr(v.Let)
	if err != nil {
		return "", err
	}
	where, err := exprOrNil(v.Where)
	if err != nil {
		return "", err
	}
	groupBy, err := groupByOrNil(v.GroupBy)
	if err != nil {
		return "", err
	}
	having, err := exprOrNil(v.Having)
	if err != nil {
		return "", err
	}
	orderBy, err := orderByItemsSexpr(v.OrderBy)
	if err != nil {
		return "", err
	}
	limit, err := exprOrNil(v.Limit)
	if err != nil {
		return "", err
	}
	return list("select", quantifierAtom(v.Quantifier), proj, from, let, where, groupBy, having, orderBy, limit), nil
}

func pivotSexpr(v *ast.Pivot) (string, error) {
	value, err := exprSexpr(v.Value)
	if err != nil {
		return "", err
	}
	at, err := exprSexpr(v.At)
	if err != nil {
		return "", err
	}
	from, err := fromSourceOrNil(v.From)
	if err != nil {
		return "", err
	}
	let, err := letBindingsSexpr(v.Let)
	if err != nil {
		return "", err
	}
	where, err := exprOrNil(v.Where)
	if err != nil {
		return "", err
	}
	groupBy, err := groupByOrNil(v.GroupBy)
	if err != nil {
		return "", err
	}
	having, err := exprOrNil(v.Having)
	if err != nil {
		return "", err
	}
	orderBy, err := orderByItemsSexpr(v.OrderBy)
	if err != nil {
		return "", err
	}
	limit, err := exprOrNil(v.Limit)
	if err != nil {
		return "", err
	}
	return list("pivot", value, at, from, let, where, groupBy, having, orderBy, limit), nil
}

func withQuerySexpr(v *ast.WithQuery) (string, error) {
	bindings := make([]string, len(v.Bindings))
	for i, b := range v.Bindings {
		query, err := stmtSexpr(b.Query)
		if err != nil {
			return "", err
		}
		bindings[i] = list("with_binding", str(b.Name), boolAtom(b.Materialized), query)
	}
	query, err := stmtSexpr(v.Query)
	if err != nil {
		return "", err
	}
	return list("with_query", boolAtom(v.Recursive), seq(bindings...), query), nil
}

func projectionSexpr(p ast.Projection) (string, error) {
	switch v := p.(type) {
	case ast.ProjList:
		items := make([]string, len(v.Items))
		for i, it := range v.Items {
			e, err := exprSexpr(it.Expr)
			if err != nil {
				return "", err
			}
			items[i] = list("proj_item", e, strOrNil(it.Alias))
		}
		return list("proj_list", seq(items...)), nil
	case ast.ProjValue:
		e, err := exprSexpr(v.Value)
		if err != nil {
			return "", err
		}
		return list("proj_value", e), nil
	default:
		return "", perr.Internal("sexpr: unhandled ast.Projection variant %T", p)
	}
}

func fromSourceOrNil(f ast.FromSource) (string, error) {
	if f == nil {
		return "nil", nil
	}
	return fromSourceSexpr(f)
}

func fromSourceSexpr(f ast.FromSource) (string, error) {
	switch v := f.(type) {
	case ast.FromExpr:
		e, err := exprSexpr(v.Expr)
		if err != nil {
			return "", err
		}
		return list("from_expr", e, fromAliasesSexpr(v.Aliases)), nil
	case ast.FromUnpivot:
		e, err := exprSexpr(v.Expr)
		if err != nil {
			return "", err
		}
		return list("from_unpivot", e, fromAliasesSexpr(v.Aliases)), nil
	case ast.FromJoin:
		left, err := fromSourceSexpr(v.Left)
		if err != nil {
			return "", err
		}
		right, err := fromSourceSexpr(v.Right)
		if err != nil {
			return "", err
		}
		on, err := exprOrNil(v.On)
		if err != nil {
			return "", err
		}
		return list("from_join", joinKindAtom(v.Kind), boolAtom(v.Cross), boolAtom(v.Implicit),
			left, right, on, fromAliasesSexpr(v.Aliases)), nil
	default:
		return "", perr.Internal("sexpr: unhandled ast.FromSource variant %T", f)
	}
}

func fromAliasesSexpr(a ast.FromAliases) string {
	return list("aliases", strOrNil(a.As), strOrNil(a.At), strOrNil(a.By))
}

func joinKindAtom(k ast.JoinKind) string {
	switch k {
	case ast.JoinInner:
		return "inner"
	case ast.JoinLeft:
		return "left"
	case ast.JoinRight:
		return "right"
	case ast.JoinOuter:
		return "outer"
	default:
		return "inner"
	}
}

func letBindingsSexpr(bindings []ast.LetBinding) (string, error) {
	items := make([]string, len(bindings))
	for i, b := range bindings {
		e, err := exprSexpr(b.Expr)
		if err != nil {
			return "", err
		}
		items[i] = list("let_binding", e, str(b.Name))
	}
	return list("let", seq(items...)), nil
}

func groupByOrNil(g *ast.GroupByClause) (string, error) {
	if g == nil {
		return "nil", nil
	}
	items := make([]string, len(g.Items))
	for i, it := range g.Items {
		e, err := exprSexpr(it.Expr)
		if err != nil {
			return "", err
		}
		items[i] = list("group_item", e, strOrNil(it.Alias))
	}
	return list("group_by", groupStrategyAtom(g.Strategy), seq(items...), strOrNil(g.GroupAs)), nil
}

func groupStrategyAtom(s ast.GroupStrategy) string {
	if s == ast.GroupPartial {
		return "partial"
	}
	return "full"
}

func orderByItemsSexpr(items []ast.OrderByItem) (string, error) {
	rendered := make([]string, len(items))
	for i, it := range items {
		e, err := exprSexpr(it.Expr)
		if err != nil {
			return "", err
		}
		dir := "none"
		if it.HasDir {
			dir = orderDirectionAtom(it.Direction)
		}
		rendered[i] = list("order_item", e, dir)
	}
	return list("order_by", seq(rendered...)), nil
}

func orderDirectionAtom(d ast.OrderDirection) string {
	if d == ast.OrderDesc {
		return "desc"
	}
	return "asc"
}

func dataManipulationSexpr(v *ast.DataManipulation) (string, error) {
	ops := make([]string, len(v.Ops))
	for i, op := range v.Ops {
		s, err := dmlOpSexpr(op)
		if err != nil {
			return "", err
		}
		ops[i] = s
	}
	from, err := fromSourceOrNil(v.From)
	if err != nil {
		return "", err
	}
	where, err := exprOrNil(v.Where)
	if err != nil {
		return "", err
	}
	returning := make([]string, len(v.Returning))
	for i, r := range v.Returning {
		s, err := returningItemSexpr(r)
		if err != nil {
			return "", err
		}
		returning[i] = s
	}
	return list("data_manipulation", seq(ops...), from, where, seq(returning...)), nil
}

func dmlOpSexpr(op ast.DmlOp) (string, error) {
	switch v := op.(type) {
	case ast.InsertOp:
		path, err := exprSexpr(v.Path)
		if err != nil {
			return "", err
		}
		values, err := exprSexpr(v.Values)
		if err != nil {
			return "", err
		}
		return list("insert_op", path, values), nil
	case ast.InsertValueOp:
		path, err := exprSexpr(v.Path)
		if err != nil {
			return "", err
		}
		value, err := exprSexpr(v.Value)
		if err != nil {
			return "", err
		}
		position, err := exprOrNil(v.Position)
		if err != nil {
			return "", err
		}
		conflict, err := onConflictOrNil(v.OnConflict)
		if err != nil {
			return "", err
		}
		return list("insert_value_op", path, value, position, conflict), nil
	case ast.SetOp:
		assignments := make([]string, len(v.Assignments))
		for i, a := range v.Assignments {
			path, err := exprSexpr(a.Path)
			if err != nil {
				return "", err
			}
			value, err := exprSexpr(a.Value)
			if err != nil {
				return "", err
			}
			assignments[i] = list("assignment", path, value)
		}
		return list("set_op", seq(assignments...)), nil
	case ast.RemoveOp:
		path, err := exprSexpr(v.Path)
		if err != nil {
			return "", err
		}
		return list("remove_op", path), nil
	case ast.DeleteOp:
		return list("delete_op"), nil
	default:
		return "", perr.Internal("sexpr: unhandled ast.DmlOp variant %T", op)
	}
}

func onConflictOrNil(c *ast.OnConflict) (string, error) {
	if c == nil {
		return "nil", nil
	}
	cond, err := exprOrNil(c.Condition)
	if err != nil {
		return "", err
	}
	return list("on_conflict", cond, conflictActionAtom(c.Action)), nil
}

func conflictActionAtom(a ast.ConflictAction) string {
	switch a {
	case ast.ConflictDoNothing:
		return "do_nothing"
	default:
		return "do_nothing"
	}
}

func returningItemSexpr(r ast.ReturningItem) (string, error) {
	path, err := exprOrNil(r.Path)
	if err != nil {
		return "", err
	}
	return list("returning_item", returningMappingAtom(r.Mapping), boolAtom(r.Wildcard), path), nil
}

func returningMappingAtom(m ast.ReturningMapping) string {
	switch m {
	case ast.ModifiedOld:
		return "modified_old"
	case ast.ModifiedNew:
		return "modified_new"
	case ast.AllOld:
		return "all_old"
	case ast.AllNew:
		return "all_new"
	default:
		return fmt.Sprintf("unknown_mapping_%d", int(m))
	}
}
