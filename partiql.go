// Package partiql is the public entry point of this module: it wires the
// lexer, parser, AST builder, and canonical serializer into the three
// surface operations a caller actually wants — an intermediate parse
// tree, a typed AST, or a canonical s-expression — and a convenience
// lexing helper for callers who only have raw source text.
//
// Every entry point below takes an already-lexed token stream rather than
// a source []byte, because package token's own doc comment treats the
// lexer as an external collaborator the parser and token packages agree
// on a contract with, not a fixed implementation this package should
// hardwire into the parser's own signature. Use Lex to go from source text
// to tokens with this module's own reference lexer.
package partiql

import (
	"context"

	"github.com/partiql-go/partiql/ast"
	"github.com/partiql-go/partiql/lexer"
	"github.com/partiql-go/partiql/parser"
	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/sexpr"
	"github.com/partiql-go/partiql/token"
	"github.com/partiql-go/partiql/tokenview"
)

// Lex scans src with this module's reference lexer, returning the token
// stream terminated by a KindEOF token.
func Lex(src []byte) ([]*token.Token, error) {
	return lexer.New(src).All()
}

// ParseExprNode parses tokens as a single top-level statement and returns
// the intermediate parse tree produced by package parser, before AST
// construction. This is the lower-level of the two parse results: it is
// the tree package ast.BuildStatement itself consumes.
func ParseExprNode(ctx context.Context, tokens []*token.Token) (*parsetree.Node, error) {
	return parser.New(ctx).ParseTopLevel(tokenview.New(tokens))
}

// ParseASTStatement parses tokens into the typed ast.Statement tree.
func ParseASTStatement(ctx context.Context, tokens []*token.Token) (ast.Statement, error) {
	node, err := ParseExprNode(ctx, tokens)
	if err != nil {
		return nil, err
	}
	return ast.BuildStatement(node)
}

// Parse parses tokens and renders the result as its canonical, version-V0
// s-expression form.
func Parse(ctx context.Context, tokens []*token.Token) (string, error) {
	stmt, err := ParseASTStatement(ctx, tokens)
	if err != nil {
		return "", err
	}
	return sexpr.Marshal(stmt)
}
