package tokenview

import (
	"github.com/partiql-go/partiql/token"
)

// Precedence levels, low to high. TopLevel is the sentinel minimum
// precedence a caller passes to start parsing an expression from scratch;
// it is lower than every real operator so nothing is ever excluded by it.
const (
	TopLevel = -1

	precUnionIntersectExcept = 1 // query-level set operators only
	precOr                   = 2
	precAnd                  = 3
	precNotBoolean           = 4
	precIsLikeBetweenIn      = 5
	precComparison           = 6
	precConcat               = 7
	precAddSub               = 8
	precMulDivMod            = 9
	precUnaryPrefix          = 10
	precPath                 = 11
)

// operator symbols recognized directly by their OPERATOR token text.
var symbolInfix = map[string]int{
	"+": precAddSub, "-": precAddSub,
	"*": precMulDivMod, "/": precMulDivMod, "%": precMulDivMod,
	"||": precConcat,
	"<": precComparison, "<=": precComparison, ">": precComparison, ">=": precComparison,
	"=": precComparison, "<>": precComparison, "!=": precComparison,
}

// keyword-driven infix operators, by normalized keyword text.
var keywordInfix = map[string]int{
	"or":          precOr,
	"and":         precAnd,
	"is":          precIsLikeBetweenIn,
	"is_not":      precIsLikeBetweenIn,
	"in":          precIsLikeBetweenIn,
	"not_in":      precIsLikeBetweenIn,
	"like":        precIsLikeBetweenIn,
	"not_like":    precIsLikeBetweenIn,
	"between":     precIsLikeBetweenIn,
	"not_between": precIsLikeBetweenIn,
	"union":       precUnionIntersectExcept,
	"union_all":   precUnionIntersectExcept,
	"intersect":   precUnionIntersectExcept,
	"except":      precUnionIntersectExcept,
}

// query-level infix operators: the subset legal inside a WITH-list body
// (parseQueryExpression, see package parser).
var queryLevelOnly = map[string]bool{
	"union": true, "union_all": true, "intersect": true, "except": true,
}

var symbolPrefix = map[string]int{
	"+": precUnaryPrefix, "-": precUnaryPrefix,
}

var keywordPrefix = map[string]int{
	"not": precNotBoolean,
}

// IsUnaryOperator reports whether tok can start a unary (prefix) operator
// expression.
func IsUnaryOperator(tok *token.Token) bool {
	if tok.Kind == token.KindOperator {
		_, ok := symbolPrefix[tok.Text]
		return ok
	}
	if tok.Kind == token.KindKeyword {
		_, ok := keywordPrefix[tok.KeywordText]
		return ok
	}
	return false
}

// IsBinaryOperator reports whether tok can appear as an infix operator,
// irrespective of query-level restriction.
func IsBinaryOperator(tok *token.Token) bool {
	if tok.Kind == token.KindOperator {
		_, ok := symbolInfix[tok.Text]
		return ok
	}
	if tok.Kind == token.KindKeyword {
		_, ok := keywordInfix[tok.KeywordText]
		return ok
	}
	return false
}

// PrefixPrecedence returns the binding power of tok used as a prefix
// (unary) operator, and whether tok is one at all.
func PrefixPrecedence(tok *token.Token) (int, bool) {
	if tok.Kind == token.KindOperator {
		p, ok := symbolPrefix[tok.Text]
		return p, ok
	}
	if tok.Kind == token.KindKeyword {
		p, ok := keywordPrefix[tok.KeywordText]
		return p, ok
	}
	return 0, false
}

// InfixPrecedence returns the binding power of tok used as an infix
// operator, and whether tok is one at all. When queryLevel is true, only
// query-level operators (set operators) are reported as infix; this
// implements the distinction between parseExpression and
// parseQueryExpression described in the specification.
func InfixPrecedence(tok *token.Token, queryLevel bool) (int, bool) {
	var p int
	var ok bool
	if tok.Kind == token.KindOperator {
		p, ok = symbolInfix[tok.Text]
	} else if tok.Kind == token.KindKeyword {
		p, ok = keywordInfix[tok.KeywordText]
	}
	if !ok {
		return 0, false
	}
	if queryLevel {
		return p, true
	}
	if queryLevelOnly[tok.KeywordText] {
		return 0, false
	}
	return p, true
}

// IsQueryLevelOperator reports whether kw names a query-level-only infix
// operator (a set operator).
func IsQueryLevelOperator(kw string) bool {
	return queryLevelOnly[kw]
}
