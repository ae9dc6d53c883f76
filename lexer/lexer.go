// Package lexer implements the reference lexical scanner for PartiQL
// source text. It is "the lexer" package.token's own doc comment refers
// callers to: it turns raw bytes into the ordered token.Token sequence the
// parser consumes, but the parser package never imports it directly —
// package parser only ever depends on the token/tokenview contract, so any
// conforming lexer may stand in its place.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/partiql-go/partiql/perr"
	"github.com/partiql-go/partiql/token"
)

// Lexer scans a byte slice of PartiQL source into tokens.
type Lexer struct {
	r       *reader
	queue   []*token.Token
	ordinal int
	done    bool
}

// New creates a Lexer that reads from src.
func New(src []byte) *Lexer {
	return &Lexer{r: newReader(src)}
}

// Next returns the next token, merging adjacent keyword tokens into the
// normalized multi-word keyword_text the grammar looks up as a single
// unit (see package lexer's keyword merge tables). Once EOF has been
// returned, subsequent calls keep returning it.
func (l *Lexer) Next() (*token.Token, error) {
	if err := l.fill(3); err != nil {
		return nil, err
	}
	if len(l.queue) == 0 {
		return l.eofToken(), nil
	}

	head := l.queue[0]
	if head.Kind == token.KindKeyword && mergeStarters[head.KeywordText] {
		if len(l.queue) >= 3 {
			if merged, ok := threeWordJoin(head.KeywordText, l.queue[1].KeywordText, l.queue[2].KeywordText); ok {
				tok := mergeTokens(merged, l.queue[0], l.queue[1], l.queue[2])
				l.queue = l.queue[3:]
				return tok, nil
			}
		}
		if len(l.queue) >= 2 {
			if merged, ok := twoWordPhrase(head.KeywordText, l.queue[1].KeywordText); ok {
				tok := mergeTokens(merged, l.queue[0], l.queue[1])
				l.queue = l.queue[2:]
				return tok, nil
			}
		}
	}

	l.queue = l.queue[1:]
	return head, nil
}

// All drains Next into a slice terminated by EOF, stopping at the first
// error (matching the parser's own fail-fast discipline: the first error
// found stops the scan).
func (l *Lexer) All() ([]*token.Token, error) {
	var out []*token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Kind == token.KindEOF {
			return out, nil
		}
	}
}

// fill ensures the lookahead queue holds at least n raw tokens, or fewer
// if EOF was reached first.
func (l *Lexer) fill(n int) error {
	for len(l.queue) < n && !l.done {
		tok, err := l.rawNext()
		if err != nil {
			return err
		}
		if tok.Kind == token.KindEOF {
			l.done = true
		}
		l.queue = append(l.queue, tok)
	}
	return nil
}

func (l *Lexer) eofToken() *token.Token {
	line, col := l.r.position()
	return &token.Token{Kind: token.KindEOF, Span: token.Span{Line: line, Column: col, Length: 0}}
}

// mergeTokens folds 2 or 3 adjacent keyword tokens into one, spanning from
// the first token's position through the last.
func mergeTokens(merged string, parts ...*token.Token) *token.Token {
	first, last := parts[0], parts[len(parts)-1]
	texts := make([]string, len(parts))
	for i, p := range parts {
		texts[i] = p.Text
	}
	length := first.Span.Length
	if last.Span.Line == first.Span.Line {
		length = last.Span.Column + last.Span.Length - first.Span.Column
	} else {
		for _, p := range parts {
			length += p.Span.Length
		}
	}
	return &token.Token{
		Kind:        token.KindKeyword,
		Text:        strings.Join(texts, " "),
		KeywordText: merged,
		Span:        token.Span{Line: first.Span.Line, Column: first.Span.Column, Length: length},
	}
}

// rawNext scans a single primitive token, with no keyword merging.
func (l *Lexer) rawNext() (*token.Token, error) {
	l.skipTrivia()

	line, col := l.r.position()
	rn, eof := l.r.readRune()
	if eof {
		return &token.Token{Kind: token.KindEOF, Span: token.Span{Line: line, Column: col}}, nil
	}

	switch {
	case unicode.IsDigit(rn):
		return l.scanNumber(rn, line, col)
	case rn == '\'':
		return l.scanQuoted(rn, line, col, '\'', func(s string) *token.Token {
			return &token.Token{Kind: token.KindLiteral, Text: s, Value: token.NewTextValue(s)}
		})
	case rn == '"':
		return l.scanQuoted(rn, line, col, '"', func(s string) *token.Token {
			return &token.Token{Kind: token.KindQuotedIdentifier, Text: s}
		})
	case rn == '`':
		return l.scanIon(line, col)
	case isIdentStart(rn):
		return l.scanIdentOrKeyword(rn, line, col)
	case rn == '?':
		l.ordinal++
		return &token.Token{Kind: token.KindQuestionMark, Text: "?", Value: token.NewOrdinalValue(l.ordinal),
			Span: token.Span{Line: line, Column: col, Length: 1}}, nil
	default:
		return l.scanPunctuation(rn, line, col)
	}
}

// skipTrivia consumes whitespace, "--" line comments, and "/* */" block
// comments between tokens.
func (l *Lexer) skipTrivia() {
	for {
		rn, eof := l.r.peekRune()
		if eof {
			return
		}
		switch {
		case unicode.IsSpace(rn):
			l.r.readRune()
			continue
		case rn == '-':
			l.r.readRune()
			next, eof2 := l.r.peekRune()
			if !eof2 && next == '-' {
				l.r.readRune()
				for {
					c, eof3 := l.r.readRune()
					if eof3 || c == '\n' {
						break
					}
				}
				continue
			}
			l.r.unreadRune()
			return
		case rn == '/':
			l.r.readRune()
			next, eof2 := l.r.peekRune()
			if !eof2 && next == '*' {
				l.r.readRune()
				for {
					c, eof3 := l.r.readRune()
					if eof3 {
						break
					}
					if c == '*' {
						if n2, eof4 := l.r.peekRune(); !eof4 && n2 == '/' {
							l.r.readRune()
							break
						}
					}
				}
				continue
			}
			l.r.unreadRune()
			return
		default:
			return
		}
	}
}

func isIdentStart(rn rune) bool {
	return rn == '_' || unicode.IsLetter(rn)
}

func isIdentPart(rn rune) bool {
	return rn == '_' || unicode.IsLetter(rn) || unicode.IsDigit(rn)
}

// scanIdentOrKeyword scans the maximal identifier run starting at rn and
// classifies it as a keyword, a literal (TRUE/FALSE), or a plain
// identifier.
func (l *Lexer) scanIdentOrKeyword(rn rune, line, col int) (*token.Token, error) {
	var b strings.Builder
	b.WriteRune(rn)
	for {
		next, eof := l.r.peekRune()
		if eof || !isIdentPart(next) {
			break
		}
		l.r.readRune()
		b.WriteRune(next)
	}
	text := b.String()
	lower := strings.ToLower(text)
	length := utf8.RuneCountInString(text)
	span := token.Span{Line: line, Column: col, Length: length}

	switch {
	case booleanWords[lower]:
		return &token.Token{Kind: token.KindLiteral, Text: text, Value: token.NewBooleanValue(lower == "true"), Span: span}, nil
	case datePartWords[lower]:
		return &token.Token{Kind: token.KindDatePart, Text: text, KeywordText: lower, Span: span}, nil
	case trimSpecWords[lower]:
		return &token.Token{Kind: token.KindTrimSpecification, Text: text, KeywordText: lower, Span: span}, nil
	}
	if kind, ok := keywordKind[lower]; ok {
		tok := &token.Token{Kind: kind, Text: text, Span: span}
		switch kind {
		case token.KindNull:
			tok.Value = token.NewNullValue()
		case token.KindMissing:
			tok.Value = token.NewMissingValue()
		default:
			tok.KeywordText = lower
		}
		return tok, nil
	}
	if keywords[lower] {
		return &token.Token{Kind: token.KindKeyword, Text: text, KeywordText: lower, Span: span}, nil
	}
	return &token.Token{Kind: token.KindIdentifier, Text: text, Span: span}, nil
}

// scanNumber scans an integer or decimal literal, optionally with a
// fractional part and/or exponent, holding the result as an exact
// decimal.Decimal rather than a lossy float.
func (l *Lexer) scanNumber(rn rune, line, col int) (*token.Token, error) {
	var b strings.Builder
	b.WriteRune(rn)
	for {
		next, eof := l.r.peekRune()
		if eof || !unicode.IsDigit(next) {
			break
		}
		l.r.readRune()
		b.WriteRune(next)
	}
	if next, eof := l.r.peekRune(); !eof && next == '.' {
		l.r.readRune()
		b.WriteRune('.')
		for {
			next, eof := l.r.peekRune()
			if eof || !unicode.IsDigit(next) {
				break
			}
			l.r.readRune()
			b.WriteRune(next)
		}
	}
	if next, eof := l.r.peekRune(); !eof && (next == 'e' || next == 'E') {
		l.r.readRune()
		exp := string(next)
		if sign, eof2 := l.r.peekRune(); !eof2 && (sign == '+' || sign == '-') {
			l.r.readRune()
			exp += string(sign)
		}
		for {
			next, eof := l.r.peekRune()
			if eof || !unicode.IsDigit(next) {
				break
			}
			l.r.readRune()
			exp += string(next)
		}
		b.WriteString(exp)
	}
	text := b.String()
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil, perr.New(perr.CodeInvalidNumericLiteral, "invalid numeric literal \""+text+"\"").
			AtSpan(line, col, utf8.RuneCountInString(text))
	}
	return &token.Token{
		Kind: token.KindLiteral, Text: text, Value: token.NewNumberValue(d),
		Span: token.Span{Line: line, Column: col, Length: utf8.RuneCountInString(text)},
	}, nil
}

// scanQuoted scans a delim-quoted run with delim-delim as an escaped delim,
// returning the unescaped content wrapped by build.
func (l *Lexer) scanQuoted(open rune, line, col int, delim rune, build func(string) *token.Token) (*token.Token, error) {
	var b strings.Builder
	length := 1
	for {
		rn, eof := l.r.readRune()
		if eof {
			return nil, perr.New(perr.CodeUnterminatedLiteral, "unterminated literal").
				AtSpan(line, col, length)
		}
		length++
		if rn == delim {
			if next, eof2 := l.r.peekRune(); !eof2 && next == delim {
				l.r.readRune()
				length++
				b.WriteRune(delim)
				continue
			}
			break
		}
		b.WriteRune(rn)
	}
	tok := build(b.String())
	tok.Span = token.Span{Line: line, Column: col, Length: length}
	return tok, nil
}

// scanIon scans a backtick-delimited Ion literal. Its content is captured
// verbatim and not interpreted: the grammar treats Ion literals as opaque
// tagged values.
func (l *Lexer) scanIon(line, col int) (*token.Token, error) {
	var b strings.Builder
	length := 1
	for {
		rn, eof := l.r.readRune()
		if eof {
			return nil, perr.New(perr.CodeUnterminatedLiteral, "unterminated ion literal").
				AtSpan(line, col, length)
		}
		length++
		if rn == '`' {
			break
		}
		b.WriteRune(rn)
	}
	return &token.Token{
		Kind: token.KindIonLiteral, Text: b.String(), Value: token.NewIonValue(b.String()),
		Span: token.Span{Line: line, Column: col, Length: length},
	}, nil
}

// scanPunctuation scans operators and single-character structural tokens.
func (l *Lexer) scanPunctuation(rn rune, line, col int) (*token.Token, error) {
	span1 := token.Span{Line: line, Column: col, Length: 1}
	two := func(text string) *token.Token {
		return &token.Token{Kind: token.KindOperator, Text: text, Span: token.Span{Line: line, Column: col, Length: 2}}
	}

	switch rn {
	case '(':
		return &token.Token{Kind: token.KindLeftParen, Text: "(", Span: span1}, nil
	case ')':
		return &token.Token{Kind: token.KindRightParen, Text: ")", Span: span1}, nil
	case '[':
		return &token.Token{Kind: token.KindLeftBracket, Text: "[", Span: span1}, nil
	case ']':
		return &token.Token{Kind: token.KindRightBracket, Text: "]", Span: span1}, nil
	case '{':
		return &token.Token{Kind: token.KindLeftCurly, Text: "{", Span: span1}, nil
	case '}':
		return &token.Token{Kind: token.KindRightCurly, Text: "}", Span: span1}, nil
	case ',':
		return &token.Token{Kind: token.KindComma, Text: ",", Span: span1}, nil
	case '.':
		return &token.Token{Kind: token.KindDot, Text: ".", Span: span1}, nil
	case ':':
		return &token.Token{Kind: token.KindColon, Text: ":", Span: span1}, nil
	case ';':
		return &token.Token{Kind: token.KindSemicolon, Text: ";", Span: span1}, nil
	case '*':
		return &token.Token{Kind: token.KindStar, Text: "*", Span: span1}, nil
	case '@':
		return &token.Token{Kind: token.KindOperator, Text: "@", Span: span1}, nil
	case '+', '-', '/', '%':
		return &token.Token{Kind: token.KindOperator, Text: string(rn), Span: span1}, nil
	case '<':
		if next, eof := l.r.peekRune(); !eof {
			switch next {
			case '<':
				l.r.readRune()
				return &token.Token{Kind: token.KindLeftDoubleAngleBracket, Text: "<<", Span: token.Span{Line: line, Column: col, Length: 2}}, nil
			case '=':
				l.r.readRune()
				return two("<="), nil
			case '>':
				l.r.readRune()
				return two("<>"), nil
			}
		}
		return &token.Token{Kind: token.KindOperator, Text: "<", Span: span1}, nil
	case '>':
		if next, eof := l.r.peekRune(); !eof {
			switch next {
			case '>':
				l.r.readRune()
				return &token.Token{Kind: token.KindRightDoubleAngleBracket, Text: ">>", Span: token.Span{Line: line, Column: col, Length: 2}}, nil
			case '=':
				l.r.readRune()
				return two(">="), nil
			}
		}
		return &token.Token{Kind: token.KindOperator, Text: ">", Span: span1}, nil
	case '=':
		return &token.Token{Kind: token.KindOperator, Text: "=", Span: span1}, nil
	case '!':
		if next, eof := l.r.peekRune(); !eof && next == '=' {
			l.r.readRune()
			return two("!="), nil
		}
		return nil, perr.New(perr.CodeInvalidCharacter, "unexpected character \"!\"").AtSpan(line, col, 1)
	case '|':
		if next, eof := l.r.peekRune(); !eof && next == '|' {
			l.r.readRune()
			return two("||"), nil
		}
		return nil, perr.New(perr.CodeInvalidCharacter, "unexpected character \"|\"").AtSpan(line, col, 1)
	default:
		return nil, perr.New(perr.CodeInvalidCharacter, "unexpected character "+string(rn)).AtSpan(line, col, 1)
	}
}
