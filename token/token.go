// Package token deals with the lexical tokens consumed by the parser.
//
// The lexical scanner itself is an external collaborator (see the lexer
// package for a reference implementation); this package only fixes the
// shape of a token so that the parser and the lexer agree on a contract.
package token

import (
	"fmt"
	"strconv"
)

// Kind is the kind of a token.
type Kind int

const (
	KindIdentifier Kind = iota
	KindQuotedIdentifier
	KindKeyword
	KindOperator
	KindLiteral
	KindIonLiteral
	KindNull
	KindMissing
	KindTrimSpecification
	KindDatePart
	KindLeftParen
	KindRightParen
	KindLeftBracket
	KindRightBracket
	KindLeftCurly
	KindRightCurly
	KindLeftDoubleAngleBracket
	KindRightDoubleAngleBracket
	KindComma
	KindDot
	KindColon
	KindSemicolon
	KindStar
	KindAs
	KindAt
	KindBy
	KindAsc
	KindDesc
	KindFor
	KindQuestionMark
	KindEOF
)

var kindStrings = [...]string{
	"Identifier", "QuotedIdentifier", "Keyword", "Operator", "Literal", "IonLiteral", "Null", "Missing",
	"TrimSpecification", "DatePart", "LeftParen", "RightParen", "LeftBracket", "RightBracket", "LeftCurly",
	"RightCurly", "LeftDoubleAngleBracket", "RightDoubleAngleBracket", "Comma", "Dot", "Colon", "Semicolon",
	"Star", "As", "At", "By", "Asc", "Desc", "For", "QuestionMark", "EOF",
}

// String returns a string representation of k.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindStrings) {
		return strconv.Itoa(int(k))
	}
	return kindStrings[k]
}

// Span is the source position of a token.
type Span struct {
	// Line is the 1-based line where the token starts.
	Line int
	// Column is the 1-based column where the token starts.
	Column int
	// Length is the number of runes that make up the token's lexeme.
	Length int
}

// Token is a single lexical token produced by the lexer.
type Token struct {
	// Kind is the kind of the token.
	Kind Kind
	// Text is the raw lexeme as it appeared in the source, except for
	// quoted identifiers and strings where it is the unquoted, unescaped
	// content.
	Text string
	// KeywordText is set when Kind is KindKeyword, KindTrimSpecification,
	// KindDatePart, KindAs, KindAt, KindBy, KindAsc, KindDesc, or KindFor. It
	// is the lowercase, normalized spelling of the keyword; multi-word
	// keywords are joined with underscores (e.g. "inner_join", "is_not").
	KeywordText string
	// Value is the literal value carried by the token, when any (LITERAL,
	// ION_LITERAL, the numeric ordinal of a QUESTION_MARK, and so on).
	Value Value
	// Span is the position of the token in the source.
	Span Span
}

// IsKeyword reports whether tok carries normalized keyword text equal to
// one of kws. Comparisons are against the normalized, lowercase form.
func (t *Token) IsKeyword(kws ...string) bool {
	if t.KeywordText == "" {
		return false
	}
	for _, kw := range kws {
		if t.KeywordText == kw {
			return true
		}
	}
	return false
}

// String returns a debugging representation of t.
func (t *Token) String() string {
	if t.KeywordText != "" {
		return fmt.Sprintf("<%s %q>", t.Kind, t.KeywordText)
	}
	if t.Text != "" {
		return fmt.Sprintf("<%s %q>", t.Kind, t.Text)
	}
	return fmt.Sprintf("<%s>", t.Kind)
}
