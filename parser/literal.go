package parser

import (
	"regexp"
	"time"

	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/perr"
	"github.com/partiql-go/partiql/token"
	"github.com/partiql-go/partiql/tokenview"
)

// dateStringPattern matches a strict "[+-]?YYYY...-MM-DD" date string; the
// year may carry a leading sign and more than four digits to express dates
// outside the proleptic Gregorian calendar's usual range.
var dateStringPattern = regexp.MustCompile(`^[+-]?\d{4,}-\d{2}-\d{2}$`)

// timeStringPattern matches "HH:MM:SS[.frac][(+|-)HH:MM]".
var timeStringPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})(\.\d+)?(([+-])(\d{2}):(\d{2}))?$`)

// dateLiteral parses "date '<string>'", validating the text against a
// strict date-string pattern and a calendar-valid parse.
func (p *Parser) dateLiteral(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	rest := v.Advance()
	lit, rest, err := rest.RequireType(token.KindLiteral)
	if err != nil {
		return nil, v, err
	}
	if !lit.Value.IsText() || !dateStringPattern.MatchString(lit.Value.String()) {
		return nil, v, perr.New(perr.CodeInvalidDateString, "invalid date string "+quoteString(lit.Value.String())).
			AtSpan(lit.Span.Line, lit.Span.Column, lit.Span.Length)
	}
	if _, err := time.Parse("2006-01-02", normalizeDateForParse(lit.Value.String())); err != nil {
		return nil, v, perr.New(perr.CodeInvalidDateString, "invalid date string "+quoteString(lit.Value.String())).
			AtSpan(lit.Span.Line, lit.Span.Column, lit.Span.Length)
	}
	litNode := parsetree.New(parsetree.TagAtom, lit, rest)
	return parsetree.New(parsetree.TagDate, name, rest, litNode), rest, nil
}

// normalizeDateForParse strips an explicit "+" sign so that time.Parse can
// validate month/day calendar correctness. A sign-stripped string longer
// than 11 characters has its year replaced by 9999, so such years are
// accepted on pattern match alone; a shorter one is passed through as is,
// so a five-digit year, or a four-digit year with a leading "-", is
// rejected by time.Parse.
func normalizeDateForParse(s string) string {
	if len(s) > 0 && s[0] == '+' {
		s = s[1:]
	}
	if len(s) > 11 { // sign-stripped, longer than an 11-character date
		rest := s[len(s)-6:] // "-MM-DD"
		return "9999" + rest
	}
	return s
}

// timePrecisionDefault derives a TIME literal's precision from the number
// of fractional-second digits present in its string when no explicit
// precision was given.
func timePrecisionDefault(frac string) int {
	if frac == "" {
		return 0
	}
	return len(frac) - 1 // exclude the leading '.'
}

// timeLiteral parses "time [(p)] [with time zone] '<string>'".
func (p *Parser) timeLiteral(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
	name := v.Head()
	rest := v.Advance()

	var precision *parsetree.Node
	if rest.Head().Kind == token.KindLeftParen {
		args, rest2, err := parenList(rest, func(v tokenview.View) (*parsetree.Node, tokenview.View, error) {
			return p.expression(v, tokenview.TopLevel)
		})
		if err != nil {
			return nil, v, err
		}
		if len(args) != 1 || args[0].Token == nil || !args[0].Token.Value.IsUnsignedInteger() {
			return nil, v, perr.New(perr.CodeInvalidTimePrecision, "time precision must be a single unsigned integer").
				AtSpan(rest.Head().Span.Line, rest.Head().Span.Column, rest.Head().Span.Length)
		}
		n := int(args[0].Token.Value.Long())
		if n < 0 || n > 9 {
			return nil, v, perr.New(perr.CodeInvalidTimePrecision, "time precision must be between 0 and 9").
				AtSpan(args[0].Token.Span.Line, args[0].Token.Span.Column, args[0].Token.Span.Length)
		}
		precision = parsetree.New(parsetree.TagPrecision, args[0].Token, rest2)
		rest = rest2
	}

	withTimeZone := false
	if rest.Head().IsKeyword("with") {
		_, rest2, err := rest.RequireKeyword("with")
		if err != nil {
			return nil, v, err
		}
		_, rest2, err = rest2.RequireKeyword("time")
		if err != nil {
			return nil, v, err
		}
		_, rest2, err = rest2.RequireKeyword("zone")
		if err != nil {
			return nil, v, err
		}
		withTimeZone = true
		rest = rest2
	}

	lit, rest, err := rest.RequireType(token.KindLiteral)
	if err != nil {
		return nil, v, err
	}
	m := timeStringPattern.FindStringSubmatch(lit.Value.String())
	if !lit.Value.IsText() || m == nil {
		return nil, v, perr.New(perr.CodeInvalidTimeString, "invalid time string "+quoteString(lit.Value.String())).
			AtSpan(lit.Span.Line, lit.Span.Column, lit.Span.Length)
	}
	hasOffset := m[5] != ""
	if !hasOffset && withTimeZone {
		// the system offset is substituted at evaluation time; the parser
		// only records that no offset was given.
	}
	if hasOffset {
		offHour, offMin := parseOffset(m[7]), parseOffset(m[8])
		totalMin := offHour*60 + offMin
		if totalMin < -18*60 || totalMin > 18*60 {
			return nil, v, perr.New(perr.CodeInvalidTimeString, "time zone offset out of range").
				AtSpan(lit.Span.Line, lit.Span.Column, lit.Span.Length)
		}
	}

	litNode := parsetree.New(parsetree.TagAtom, lit, rest)
	var children []*parsetree.Node
	if precision != nil {
		children = append(children, precision)
	}
	children = append(children, litNode)

	tag := parsetree.TagTime
	if withTimeZone {
		tag = parsetree.TagTimeWithTimeZone
	}
	node := parsetree.New(tag, name, rest, children...)
	if precision == nil {
		node = node.WithMeta("derivedPrecision", timePrecisionDefault(m[4]))
	}
	return node, rest, nil
}

func parseOffset(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

func quoteString(s string) string {
	return "'" + s + "'"
}
