package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/partiql-go/partiql/ast"
	"github.com/partiql-go/partiql/lexer"
	"github.com/partiql-go/partiql/sexpr"
	"github.com/partiql-go/partiql/tokenview"
)

// parseStatement runs the full lexer -> parser -> ast pipeline and fails the
// test on any error, returning the typed statement.
func parseStatement(t *testing.T, src string) ast.Statement {
	t.Helper()
	toks, err := lexer.New([]byte(src)).All()
	if err != nil {
		t.Fatalf("lex(%q): %v", src, err)
	}
	node, err := New(context.Background()).ParseTopLevel(tokenview.New(toks))
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	stmt, err := ast.BuildStatement(node)
	if err != nil {
		t.Fatalf("build(%q): %v", src, err)
	}
	return stmt
}

func mustSexpr(t *testing.T, src string) string {
	t.Helper()
	stmt := parseStatement(t, src)
	s, err := sexpr.Marshal(stmt)
	if err != nil {
		t.Fatalf("marshal(%q): %v", src, err)
	}
	return s
}

func TestParseSelectStar(t *testing.T) {
	stmt := parseStatement(t, "SELECT * FROM t")
	sel, ok := stmt.(*ast.Select)
	if !ok {
		t.Fatalf("got %T, want *ast.Select", stmt)
	}
	if _, ok := sel.Projection.(ast.ProjList); !ok {
		t.Fatalf("Projection = %T, want ast.ProjList", sel.Projection)
	}
	from, ok := sel.From.(ast.FromExpr)
	if !ok {
		t.Fatalf("From = %T, want ast.FromExpr", sel.From)
	}
	ref, ok := from.Expr.(*ast.VarRef)
	if !ok || ref.Name != "t" {
		t.Errorf("From.Expr = %#v, want VarRef{Name: t}", from.Expr)
	}
}

func TestParseSelectStarSexprIsStable(t *testing.T) {
	got := mustSexpr(t, "SELECT * FROM t")
	want := `(select all (proj_list ((proj_item (project_all nil) nil))) (from_expr (var_ref "t" false unqualified) (aliases nil nil nil)) (let ()) nil nil nil (order_by ()) nil)`
	if got != want {
		t.Errorf("sexpr =\n%s\nwant\n%s", got, want)
	}
}

func TestParseSelectDistinctWithAlias(t *testing.T) {
	stmt := parseStatement(t, "SELECT DISTINCT a AS x, b FROM t")
	sel := stmt.(*ast.Select)
	if sel.Quantifier != ast.QuantifierDistinct {
		t.Error("expected DISTINCT quantifier")
	}
	list, ok := sel.Projection.(ast.ProjList)
	if !ok || len(list.Items) != 2 {
		t.Fatalf("Projection = %#v, want a 2-item ProjList", sel.Projection)
	}
	if list.Items[0].Alias == nil || *list.Items[0].Alias != "x" {
		t.Errorf("Items[0].Alias = %v, want x", list.Items[0].Alias)
	}
	if list.Items[1].Alias != nil {
		t.Errorf("Items[1].Alias = %v, want nil", list.Items[1].Alias)
	}
}

func TestParseSelectValue(t *testing.T) {
	stmt := parseStatement(t, "SELECT VALUE a FROM t")
	sel := stmt.(*ast.Select)
	val, ok := sel.Projection.(ast.ProjValue)
	if !ok {
		t.Fatalf("Projection = %T, want ast.ProjValue", sel.Projection)
	}
	if _, ok := val.Value.(*ast.VarRef); !ok {
		t.Errorf("Value = %#v, want *ast.VarRef", val.Value)
	}
}

func TestParseWhereBinaryPrecedence(t *testing.T) {
	stmt := parseStatement(t, "SELECT * FROM t WHERE a = 1 AND b > 2 OR c")
	sel := stmt.(*ast.Select)
	top, ok := sel.Where.(*ast.BinaryOp)
	if !ok || top.Op != "or" {
		t.Fatalf("Where = %#v, want top-level OR", sel.Where)
	}
	left, ok := top.Left.(*ast.BinaryOp)
	if !ok || left.Op != "and" {
		t.Errorf("Where.Left = %#v, want AND", top.Left)
	}
}

func TestParseNotBindsTighterThanAnd(t *testing.T) {
	stmt := parseStatement(t, "SELECT * FROM t WHERE NOT a AND b")
	sel := stmt.(*ast.Select)
	top, ok := sel.Where.(*ast.BinaryOp)
	if !ok || top.Op != "and" {
		t.Fatalf("Where = %#v, want top-level AND, i.e. (NOT a) AND b", sel.Where)
	}
	left, ok := top.Left.(*ast.UnaryOp)
	if !ok || left.Op != "not" {
		t.Errorf("Where.Left = %#v, want UnaryOp{not, a}", top.Left)
	}
	if _, ok := top.Right.(*ast.VarRef); !ok {
		t.Errorf("Where.Right = %#v, want bare VarRef b", top.Right)
	}
}

func TestParseBetweenAndNotBetween(t *testing.T) {
	stmt := parseStatement(t, "SELECT * FROM t WHERE a BETWEEN 1 AND 10")
	sel := stmt.(*ast.Select)
	tern, ok := sel.Where.(*ast.TernaryOp)
	if !ok || tern.Op != "between" {
		t.Fatalf("Where = %#v, want TernaryOp{between}", sel.Where)
	}

	stmt = parseStatement(t, "SELECT * FROM t WHERE a NOT BETWEEN 1 AND 10")
	sel = stmt.(*ast.Select)
	un, ok := sel.Where.(*ast.UnaryOp)
	if !ok || un.Op != "not" {
		t.Fatalf("Where = %#v, want UnaryOp{not}", sel.Where)
	}
	inner, ok := un.Operand.(*ast.TernaryOp)
	if !ok || inner.Op != "between" {
		t.Errorf("Where.Operand = %#v, want TernaryOp{between}", un.Operand)
	}
}

func TestParseLikeNotLikeAndEscape(t *testing.T) {
	stmt := parseStatement(t, "SELECT * FROM t WHERE a LIKE '%x' ESCAPE '\\'")
	sel := stmt.(*ast.Select)
	if _, ok := sel.Where.(*ast.TernaryOp); !ok {
		t.Fatalf("Where = %#v, want TernaryOp for LIKE ... ESCAPE", sel.Where)
	}

	stmt = parseStatement(t, "SELECT * FROM t WHERE a NOT LIKE 'x'")
	sel = stmt.(*ast.Select)
	un, ok := sel.Where.(*ast.UnaryOp)
	if !ok || un.Op != "not" {
		t.Fatalf("Where = %#v, want UnaryOp{not}", sel.Where)
	}
	if _, ok := un.Operand.(*ast.BinaryOp); !ok {
		t.Errorf("Where.Operand = %#v, want BinaryOp{like}", un.Operand)
	}
}

func TestParseInAndNotIn(t *testing.T) {
	stmt := parseStatement(t, "SELECT * FROM t WHERE a NOT IN (1, 2, 3)")
	sel := stmt.(*ast.Select)
	un, ok := sel.Where.(*ast.UnaryOp)
	if !ok || un.Op != "not" {
		t.Fatalf("Where = %#v, want UnaryOp{not}", sel.Where)
	}
	if bin, ok := un.Operand.(*ast.BinaryOp); !ok || bin.Op != "in" {
		t.Errorf("Where.Operand = %#v, want BinaryOp{in}", un.Operand)
	}
}

func TestParseIsAndIsNot(t *testing.T) {
	stmt := parseStatement(t, "SELECT * FROM t WHERE a IS NULL")
	sel := stmt.(*ast.Select)
	typed, ok := sel.Where.(*ast.TypedOp)
	if !ok || typed.Kind != "is" {
		t.Fatalf("Where = %#v, want TypedOp{is}", sel.Where)
	}

	stmt = parseStatement(t, "SELECT * FROM t WHERE a IS NOT NULL")
	sel = stmt.(*ast.Select)
	un, ok := sel.Where.(*ast.UnaryOp)
	if !ok || un.Op != "not" {
		t.Fatalf("Where = %#v, want UnaryOp{not}", sel.Where)
	}
	if typed, ok := un.Operand.(*ast.TypedOp); !ok || typed.Kind != "is" {
		t.Errorf("Where.Operand = %#v, want TypedOp{is}", un.Operand)
	}
}

func TestParseCast(t *testing.T) {
	stmt := parseStatement(t, "SELECT * FROM t WHERE CAST(a AS INTEGER) > 1")
	sel := stmt.(*ast.Select)
	bin := sel.Where.(*ast.BinaryOp)
	typed, ok := bin.Left.(*ast.TypedOp)
	if !ok || typed.Kind != "cast" || typed.Type.Name != "integer" {
		t.Errorf("Left = %#v, want TypedOp{cast, integer}", bin.Left)
	}
}

func TestParseCastTimePrecisionOutOfRangeIsAnError(t *testing.T) {
	toks, err := lexer.New([]byte("SELECT CAST(a AS TIME(15)) FROM t")).All()
	if err != nil {
		t.Fatal(err)
	}
	_, err = New(context.Background()).ParseTopLevel(tokenview.New(toks))
	if err == nil {
		t.Fatal("expected an error for TIME(15), precision out of [0,9]")
	}
	if !strings.Contains(err.Error(), "invalid_precision_for_time") {
		t.Errorf("err = %v, want invalid_precision_for_time", err)
	}
}

func TestParseCastTimePrecisionInRange(t *testing.T) {
	stmt := parseStatement(t, "SELECT CAST(a AS TIME(6)) FROM t")
	sel := stmt.(*ast.Select)
	list := sel.Projection.(ast.ProjList)
	typed, ok := list.Items[0].Expr.(*ast.TypedOp)
	if !ok || typed.Kind != "cast" || typed.Type.Name != "time" {
		t.Errorf("got %#v, want TypedOp{cast, time}", list.Items[0].Expr)
	}
}

func TestParseInnerJoinWithOn(t *testing.T) {
	stmt := parseStatement(t, "SELECT * FROM a INNER JOIN b ON a.id = b.id")
	sel := stmt.(*ast.Select)
	join, ok := sel.From.(ast.FromJoin)
	if !ok {
		t.Fatalf("From = %T, want ast.FromJoin", sel.From)
	}
	if join.Kind != ast.JoinInner || join.Cross || join.Implicit {
		t.Errorf("join = %#v, want a plain explicit inner join", join)
	}
	if join.On == nil {
		t.Error("expected a non-nil ON condition")
	}
}

func TestParseLeftOuterJoin(t *testing.T) {
	stmt := parseStatement(t, "SELECT * FROM a LEFT OUTER JOIN b ON a.id = b.id")
	sel := stmt.(*ast.Select)
	join := sel.From.(ast.FromJoin)
	if join.Kind != ast.JoinLeft {
		t.Errorf("Kind = %v, want JoinLeft", join.Kind)
	}
}

func TestParseImplicitCommaJoin(t *testing.T) {
	stmt := parseStatement(t, "SELECT * FROM a, b")
	sel := stmt.(*ast.Select)
	join, ok := sel.From.(ast.FromJoin)
	if !ok || !join.Implicit || !join.Cross {
		t.Fatalf("From = %#v, want an implicit cross join", sel.From)
	}
}

func TestParseFromAsAtByAliases(t *testing.T) {
	stmt := parseStatement(t, "SELECT * FROM t AS x AT y BY z")
	sel := stmt.(*ast.Select)
	from := sel.From.(ast.FromExpr)
	if from.Aliases.As == nil || *from.Aliases.As != "x" {
		t.Errorf("As = %v, want x", from.Aliases.As)
	}
	if from.Aliases.At == nil || *from.Aliases.At != "y" {
		t.Errorf("At = %v, want y", from.Aliases.At)
	}
	if from.Aliases.By == nil || *from.Aliases.By != "z" {
		t.Errorf("By = %v, want z", from.Aliases.By)
	}
}

func TestParseGroupByWithAliasAndGroupAs(t *testing.T) {
	stmt := parseStatement(t, "SELECT a FROM t GROUP BY a AS x GROUP AS g")
	sel := stmt.(*ast.Select)
	if sel.GroupBy == nil {
		t.Fatal("expected a non-nil GroupBy")
	}
	if sel.GroupBy.Strategy != ast.GroupFull {
		t.Errorf("Strategy = %v, want GroupFull", sel.GroupBy.Strategy)
	}
	if len(sel.GroupBy.Items) != 1 || sel.GroupBy.Items[0].Alias == nil || *sel.GroupBy.Items[0].Alias != "x" {
		t.Fatalf("Items = %#v, want one item aliased x", sel.GroupBy.Items)
	}
	if sel.GroupBy.GroupAs == nil || *sel.GroupBy.GroupAs != "g" {
		t.Errorf("GroupAs = %v, want g", sel.GroupBy.GroupAs)
	}
}

func TestParseGroupPartialBy(t *testing.T) {
	stmt := parseStatement(t, "SELECT a FROM t GROUP PARTIAL BY a")
	sel := stmt.(*ast.Select)
	if sel.GroupBy.Strategy != ast.GroupPartial {
		t.Errorf("Strategy = %v, want GroupPartial", sel.GroupBy.Strategy)
	}
}

func TestParseOrderByAscDesc(t *testing.T) {
	stmt := parseStatement(t, "SELECT a FROM t ORDER BY a DESC, b ASC, c")
	sel := stmt.(*ast.Select)
	if len(sel.OrderBy) != 3 {
		t.Fatalf("got %d order items, want 3", len(sel.OrderBy))
	}
	if !sel.OrderBy[0].HasDir || sel.OrderBy[0].Direction != ast.OrderDesc {
		t.Errorf("item 0 = %#v, want DESC", sel.OrderBy[0])
	}
	if !sel.OrderBy[1].HasDir || sel.OrderBy[1].Direction != ast.OrderAsc {
		t.Errorf("item 1 = %#v, want ASC", sel.OrderBy[1])
	}
	if sel.OrderBy[2].HasDir {
		t.Errorf("item 2 = %#v, want no explicit direction", sel.OrderBy[2])
	}
}

func TestParseHavingAndLimit(t *testing.T) {
	stmt := parseStatement(t, "SELECT a FROM t GROUP BY a HAVING COUNT(*) > 1 LIMIT 5")
	sel := stmt.(*ast.Select)
	if sel.Having == nil {
		t.Error("expected a non-nil Having")
	}
	if sel.Limit == nil {
		t.Error("expected a non-nil Limit")
	}
}

func TestParsePivot(t *testing.T) {
	stmt := parseStatement(t, "PIVOT v AT k FROM t WHERE k > 0")
	piv, ok := stmt.(*ast.Pivot)
	if !ok {
		t.Fatalf("got %T, want *ast.Pivot", stmt)
	}
	if _, ok := piv.Value.(*ast.VarRef); !ok {
		t.Errorf("Value = %#v, want *ast.VarRef", piv.Value)
	}
	if piv.Where == nil {
		t.Error("expected a non-nil Where")
	}
}

func TestParseWithMaterializedQuery(t *testing.T) {
	stmt := parseStatement(t, "WITH x AS MATERIALIZED (SELECT * FROM t) SELECT * FROM x")
	with, ok := stmt.(*ast.WithQuery)
	if !ok {
		t.Fatalf("got %T, want *ast.WithQuery", stmt)
	}
	if with.Recursive {
		t.Error("did not expect RECURSIVE")
	}
	if len(with.Bindings) != 1 || with.Bindings[0].Name != "x" || !with.Bindings[0].Materialized {
		t.Fatalf("Bindings = %#v, want one materialized binding named x", with.Bindings)
	}
	if _, ok := with.Query.(*ast.Select); !ok {
		t.Errorf("Query = %T, want *ast.Select", with.Query)
	}
}

func TestParseWithRecursiveNotMaterialized(t *testing.T) {
	stmt := parseStatement(t, "WITH RECURSIVE x AS NOT MATERIALIZED (SELECT * FROM t) SELECT * FROM x")
	with := stmt.(*ast.WithQuery)
	if !with.Recursive {
		t.Error("expected RECURSIVE")
	}
	if with.Bindings[0].Materialized {
		t.Error("expected NOT MATERIALIZED binding")
	}
}

func TestParseInsertValues(t *testing.T) {
	stmt := parseStatement(t, "INSERT INTO t.items << 1, 2, 3 >>")
	dm, ok := stmt.(*ast.DataManipulation)
	if !ok {
		t.Fatalf("got %T, want *ast.DataManipulation", stmt)
	}
	if len(dm.Ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(dm.Ops))
	}
	if _, ok := dm.Ops[0].(ast.InsertOp); !ok {
		t.Errorf("Ops[0] = %#v, want ast.InsertOp", dm.Ops[0])
	}
}

func TestParseInsertValueWithAtAndOnConflict(t *testing.T) {
	stmt := parseStatement(t, "INSERT INTO t.items VALUE 1 AT 'k' ON CONFLICT WHERE x = 1 DO NOTHING")
	dm := stmt.(*ast.DataManipulation)
	op, ok := dm.Ops[0].(ast.InsertValueOp)
	if !ok {
		t.Fatalf("Ops[0] = %#v, want ast.InsertValueOp", dm.Ops[0])
	}
	if op.Position == nil {
		t.Error("expected a non-nil Position (AT clause)")
	}
	if op.OnConflict == nil || op.OnConflict.Condition == nil {
		t.Fatal("expected a non-nil OnConflict with a condition")
	}
	if op.OnConflict.Action != ast.ConflictDoNothing {
		t.Errorf("Action = %v, want ConflictDoNothing", op.OnConflict.Action)
	}
}

func TestParseInsertValueWithReturning(t *testing.T) {
	stmt := parseStatement(t, "INSERT INTO t.items VALUE 1 RETURNING MODIFIED NEW *")
	dm := stmt.(*ast.DataManipulation)
	if len(dm.Returning) != 1 {
		t.Fatalf("got %d returning items, want 1", len(dm.Returning))
	}
	item := dm.Returning[0]
	if item.Mapping != ast.ModifiedNew || !item.Wildcard {
		t.Errorf("item = %#v, want ModifiedNew wildcard", item)
	}
}

func TestParseSetStatement(t *testing.T) {
	stmt := parseStatement(t, "UPDATE t SET a = 1, b = 2 WHERE c = 3")
	dm := stmt.(*ast.DataManipulation)
	if len(dm.Ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(dm.Ops))
	}
	set, ok := dm.Ops[0].(ast.SetOp)
	if !ok || len(set.Assignments) != 2 {
		t.Fatalf("Ops[0] = %#v, want a SetOp with 2 assignments", dm.Ops[0])
	}
	if dm.From == nil {
		t.Error("expected a non-nil From for the legacy UPDATE target")
	}
	if dm.Where == nil {
		t.Error("expected a non-nil Where")
	}
}

func TestParseBareSetStatement(t *testing.T) {
	stmt := parseStatement(t, "SET a = 1")
	dm := stmt.(*ast.DataManipulation)
	if dm.From != nil {
		t.Error("expected a nil From for the bare SET form")
	}
	if _, ok := dm.Ops[0].(ast.SetOp); !ok {
		t.Errorf("Ops[0] = %#v, want ast.SetOp", dm.Ops[0])
	}
}

func TestParseRemoveStatement(t *testing.T) {
	stmt := parseStatement(t, "REMOVE t.a")
	dm := stmt.(*ast.DataManipulation)
	if _, ok := dm.Ops[0].(ast.RemoveOp); !ok {
		t.Errorf("Ops[0] = %#v, want ast.RemoveOp", dm.Ops[0])
	}
}

func TestParseDeleteFrom(t *testing.T) {
	stmt := parseStatement(t, "DELETE FROM t WHERE a = 1")
	dm := stmt.(*ast.DataManipulation)
	if _, ok := dm.Ops[0].(ast.DeleteOp); !ok {
		t.Errorf("Ops[0] = %#v, want ast.DeleteOp", dm.Ops[0])
	}
	if dm.From == nil || dm.Where == nil {
		t.Error("expected non-nil From and Where")
	}
}

func TestParseCreateAndDropTable(t *testing.T) {
	stmt := parseStatement(t, "CREATE TABLE t")
	ct, ok := stmt.(*ast.CreateTable)
	if !ok || ct.Name != "t" {
		t.Fatalf("got %#v, want CreateTable{Name: t}", stmt)
	}

	stmt = parseStatement(t, "DROP TABLE t")
	dt, ok := stmt.(*ast.DropTable)
	if !ok || dt.Name != "t" {
		t.Fatalf("got %#v, want DropTable{Name: t}", stmt)
	}
}

func TestParseCreateAndDropIndex(t *testing.T) {
	stmt := parseStatement(t, "CREATE INDEX ON t (a, b)")
	ci, ok := stmt.(*ast.CreateIndex)
	if !ok || ci.Table != "t" || len(ci.Keys) != 2 {
		t.Fatalf("got %#v, want CreateIndex{Table: t, 2 keys}", stmt)
	}

	stmt = parseStatement(t, "DROP INDEX idx ON t")
	di, ok := stmt.(*ast.DropIndex)
	if !ok || di.Name != "idx" || di.Table != "t" {
		t.Fatalf("got %#v, want DropIndex{Name: idx, Table: t}", stmt)
	}
}

func TestParseExecWithArgs(t *testing.T) {
	stmt := parseStatement(t, "EXEC my_proc 1, 'x'")
	ex, ok := stmt.(*ast.ExecStatement)
	if !ok || ex.Proc != "my_proc" || len(ex.Args) != 2 {
		t.Fatalf("got %#v, want ExecStatement{Proc: my_proc, 2 args}", stmt)
	}
}

func TestParseExecRejectsParenthesizedArgs(t *testing.T) {
	toks, err := lexer.New([]byte("EXEC my_proc(1, 2)")).All()
	if err != nil {
		t.Fatal(err)
	}
	_, err = New(context.Background()).ParseTopLevel(tokenview.New(toks))
	if err == nil {
		t.Error("expected an error for parenthesized EXEC arguments")
	}
}

func TestParseCaseExpr(t *testing.T) {
	stmt := parseStatement(t, "SELECT CASE WHEN a > 1 THEN 'x' ELSE 'y' END FROM t")
	sel := stmt.(*ast.Select)
	list := sel.Projection.(ast.ProjList)
	ce, ok := list.Items[0].Expr.(*ast.CaseExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.CaseExpr", list.Items[0].Expr)
	}
	if ce.Subject != nil {
		t.Error("expected a searched CASE (nil Subject)")
	}
	if len(ce.Whens) != 1 || ce.Else == nil {
		t.Fatalf("got %#v, want one WHEN and a non-nil Else", ce)
	}
}

func TestParseSimpleCaseExpr(t *testing.T) {
	stmt := parseStatement(t, "SELECT CASE a WHEN 1 THEN 'x' END FROM t")
	sel := stmt.(*ast.Select)
	list := sel.Projection.(ast.ProjList)
	ce := list.Items[0].Expr.(*ast.CaseExpr)
	if ce.Subject == nil {
		t.Error("expected a simple CASE with a non-nil Subject")
	}
}

func TestParseStructAndListLiterals(t *testing.T) {
	stmt := parseStatement(t, "SELECT {'a': 1, 'b': 2} FROM t")
	sel := stmt.(*ast.Select)
	list := sel.Projection.(ast.ProjList)
	sx, ok := list.Items[0].Expr.(*ast.StructExpr)
	if !ok || len(sx.Members) != 2 {
		t.Fatalf("got %#v, want a 2-member StructExpr", list.Items[0].Expr)
	}

	stmt = parseStatement(t, "SELECT [1, 2, 3] FROM t")
	sel = stmt.(*ast.Select)
	list = sel.Projection.(ast.ProjList)
	seq, ok := list.Items[0].Expr.(*ast.SeqExpr)
	if !ok || seq.Kind != ast.SeqList || len(seq.Elements) != 3 {
		t.Fatalf("got %#v, want a 3-element SeqList", list.Items[0].Expr)
	}
}

func TestParsePathAccess(t *testing.T) {
	// Exercised outside select-list position: a trailing ".*" there gets
	// demoted to a PROJECT_ALL node rather than staying a path component.
	stmt := parseStatement(t, "SELECT * FROM t WHERE a.b[0].c")
	sel := stmt.(*ast.Select)
	pe, ok := sel.Where.(*ast.PathExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.PathExpr", sel.Where)
	}
	if len(pe.Components) != 3 {
		t.Fatalf("got %d components, want 3", len(pe.Components))
	}
	if d, ok := pe.Components[0].(ast.DotComponent); !ok || d.Name != "b" {
		t.Errorf("component 0 = %#v, want DotComponent{Name: b}", pe.Components[0])
	}
	if _, ok := pe.Components[1].(ast.IndexComponent); !ok {
		t.Errorf("component 1 = %#v, want IndexComponent", pe.Components[1])
	}
	if d, ok := pe.Components[2].(ast.DotComponent); !ok || d.Name != "c" {
		t.Errorf("component 2 = %#v, want DotComponent{Name: c}", pe.Components[2])
	}
}

func TestParsePathTrailingUnpivotComponent(t *testing.T) {
	stmt := parseStatement(t, "SELECT * FROM t WHERE a.*")
	sel := stmt.(*ast.Select)
	pe, ok := sel.Where.(*ast.PathExpr)
	if !ok || len(pe.Components) != 1 {
		t.Fatalf("got %#v, want a 1-component *ast.PathExpr", sel.Where)
	}
	if _, ok := pe.Components[0].(ast.UnpivotComponent); !ok {
		t.Errorf("component 0 = %#v, want UnpivotComponent", pe.Components[0])
	}
}

func TestParseSelectListRejectsBracketThenTrailingStar(t *testing.T) {
	toks, err := lexer.New([]byte("SELECT a[1].* FROM t")).All()
	if err != nil {
		t.Fatal(err)
	}
	_, err = New(context.Background()).ParseTopLevel(tokenview.New(toks))
	if err == nil {
		t.Fatal("expected an error for \"a[1].*\" in select-list position")
	}
	if !strings.Contains(err.Error(), "cannot_mix_bracket_and_star_in_select_list") {
		t.Errorf("err = %v, want cannot_mix_bracket_and_star_in_select_list", err)
	}
}

func TestParseOrdinalParameter(t *testing.T) {
	stmt := parseStatement(t, "SELECT * FROM t WHERE a = ?")
	sel := stmt.(*ast.Select)
	bin := sel.Where.(*ast.BinaryOp)
	if _, ok := bin.Right.(*ast.Parameter); !ok {
		t.Errorf("Right = %#v, want *ast.Parameter", bin.Right)
	}
}

func TestParseExtraTokensAfterStatementIsAnError(t *testing.T) {
	toks, err := lexer.New([]byte("SELECT * FROM t AS x garbage")).All()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(context.Background()).ParseTopLevel(tokenview.New(toks)); err == nil {
		t.Error("expected an error for trailing garbage after the statement")
	}
}

func TestParseExtraTokensAfterSemicolonIsADistinctError(t *testing.T) {
	toks, err := lexer.New([]byte("SELECT * FROM t; garbage")).All()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(context.Background()).ParseTopLevel(tokenview.New(toks)); err == nil || !strings.Contains(err.Error(), "extra_token_after_semicolon") {
		t.Errorf("err = %v, want extra_token_after_semicolon for trailing garbage after the terminating semicolon", err)
	}
}
