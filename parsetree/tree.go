// Package parsetree defines the intermediate parse tree produced by
// package parser. It sits one level of abstraction above a concrete
// syntax tree (it already groups tokens into constructions) and one
// below the typed AST built by package ast: every tag has a deterministic
// mapping to an AST node, but the parse tree itself carries no semantics
// beyond shape.
//
// A Node is immutable once produced: sub-parsers build a new Node with a
// new Remaining view rather than mutating anything reachable from their
// input, mirroring tokenview.View's own copy-on-advance discipline.
package parsetree

import (
	"github.com/partiql-go/partiql/token"
	"github.com/partiql-go/partiql/tokenview"
)

// Tag is the kind of a parse node, drawn from a closed set.
type Tag int

const (
	TagAtom Tag = iota
	TagCaseSensitiveAtom
	TagCaseInsensitiveAtom
	TagProjectAll
	TagPathWildcard
	TagPathUnpivot
	TagLet
	TagSelectList
	TagSelectValue
	TagPivot
	TagDistinct
	TagRecursive
	TagMaterialized
	TagInnerJoin
	TagLeftJoin
	TagRightJoin
	TagOuterJoin
	TagFrom
	TagFromClause
	TagFromSourceJoin
	TagWhere
	TagOrderBy
	TagSortSpec
	TagOrderingSpec
	TagGroup
	TagGroupPartial
	TagHaving
	TagLimit
	TagUnpivot
	TagCall
	TagCallAgg
	TagCallDistinctAgg
	TagCallAggWildcard
	TagDate
	TagTime
	TagTimeWithTimeZone
	TagArgList
	TagAsAlias
	TagAtAlias
	TagByAlias
	TagPath
	TagPathDot
	TagPathSqb
	TagUnary
	TagBinary
	TagTernary
	TagList
	TagBag
	TagStruct
	TagMember
	TagCast
	TagType
	TagCase
	TagWhen
	TagElse
	TagInsert
	TagInsertValue
	TagRemove
	TagSet
	TagUpdate
	TagDelete
	TagAssignment
	TagCheck
	TagOnConflict
	TagConflictAction
	TagDmlList
	TagReturning
	TagReturningElem
	TagReturningMapping
	TagReturningWildcard
	TagCreateTable
	TagDropTable
	TagDropIndex
	TagCreateIndex
	TagParameter
	TagExec
	TagPrecision
	TagWith
)

var tagStrings = [...]string{
	"Atom", "CaseSensitiveAtom", "CaseInsensitiveAtom", "ProjectAll", "PathWildcard", "PathUnpivot", "Let",
	"SelectList", "SelectValue", "Pivot", "Distinct", "Recursive", "Materialized", "InnerJoin", "LeftJoin",
	"RightJoin", "OuterJoin", "From", "FromClause", "FromSourceJoin", "Where", "OrderBy", "SortSpec",
	"OrderingSpec", "Group", "GroupPartial", "Having", "Limit", "Unpivot", "Call", "CallAgg", "CallDistinctAgg",
	"CallAggWildcard", "Date", "Time", "TimeWithTimeZone", "ArgList", "AsAlias", "AtAlias", "ByAlias", "Path",
	"PathDot", "PathSqb", "Unary", "Binary", "Ternary", "List", "Bag", "Struct", "Member", "Cast", "Type",
	"Case", "When", "Else", "Insert", "InsertValue", "Remove", "Set", "Update", "Delete", "Assignment",
	"Check", "OnConflict", "ConflictAction", "DmlList", "Returning", "ReturningElem", "ReturningMapping",
	"ReturningWildcard", "CreateTable", "DropTable", "DropIndex", "CreateIndex", "Parameter", "Exec",
	"Precision", "With",
}

// String returns a string representation of t.
func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagStrings) {
		return "Tag(?)"
	}
	return tagStrings[t]
}

type attrs struct {
	isJoin, isTopLevel, isDml bool
}

var tagAttrs = map[Tag]attrs{
	TagInnerJoin: {isJoin: true},
	TagLeftJoin:  {isJoin: true},
	TagRightJoin: {isJoin: true},
	TagOuterJoin: {isJoin: true},

	TagInsert:      {isTopLevel: true, isDml: true},
	TagInsertValue: {isTopLevel: true, isDml: true},
	TagRemove:      {isTopLevel: true, isDml: true},
	TagSet:         {isTopLevel: true, isDml: true},
	TagUpdate:      {isTopLevel: true, isDml: true},
	TagDelete:      {isTopLevel: true, isDml: true},
	TagDmlList:     {isTopLevel: true},
	TagCreateTable: {isTopLevel: true},
	TagDropTable:   {isTopLevel: true},
	TagCreateIndex: {isTopLevel: true},
	TagDropIndex:   {isTopLevel: true},
	TagExec:        {isTopLevel: true},
}

// Node is a node of the intermediate parse tree.
type Node struct {
	// Tag is the kind of the node.
	Tag Tag
	// Token is the token that introduced this node, when there is a single
	// distinguished one (e.g. the operator of a BINARY node, the keyword of
	// a WHERE node). It is nil for nodes assembled purely from children.
	Token *token.Token
	// Children is the ordered list of child nodes.
	Children []*Node
	// Remaining is the token view left over after this node, and everything
	// it contains, was consumed.
	Remaining tokenview.View
	// Meta carries small, informal annotations that do not warrant a first
	// class AST variant: "legacy logical NOT", "implicit join", and so on.
	// See the ast package for where these are read back out.
	Meta map[string]any
}

// New creates a Node. remaining is the view left over after consuming tok
// (if any) and all of children.
func New(tag Tag, tok *token.Token, remaining tokenview.View, children ...*Node) *Node {
	return &Node{Tag: tag, Token: tok, Children: children, Remaining: remaining}
}

// WithMeta attaches a meta annotation to n and returns n.
func (n *Node) WithMeta(key string, value any) *Node {
	if n.Meta == nil {
		n.Meta = map[string]any{}
	}
	n.Meta[key] = value
	return n
}

// HasMeta reports whether n carries the given meta annotation.
func (n *Node) HasMeta(key string) bool {
	if n == nil || n.Meta == nil {
		return false
	}
	_, ok := n.Meta[key]
	return ok
}

// IsJoin reports whether n's tag is one of the join tags.
func (n *Node) IsJoin() bool { return tagAttrs[n.Tag].isJoin }

// IsTopLevel reports whether n's tag may only appear at the root of the
// tree, or directly beneath a DML_LIST.
func (n *Node) IsTopLevel() bool { return tagAttrs[n.Tag].isTopLevel }

// IsDml reports whether n's tag is a DML operation tag.
func (n *Node) IsDml() bool { return tagAttrs[n.Tag].isDml }
