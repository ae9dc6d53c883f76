package lexer

import (
	"testing"

	"github.com/partiql-go/partiql/token"
)

// scanAll lexes code and fails the test immediately on error, returning the
// resulting token kinds and keyword/identifier text for comparison.
func scanAll(t *testing.T, code string) []*token.Token {
	t.Helper()
	toks, err := New([]byte(code)).All()
	if err != nil {
		t.Fatalf("code=%q: unexpected error: %v", code, err)
	}
	return toks
}

func kinds(toks []*token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func eqKinds(t *testing.T, code string, toks []*token.Token, want ...token.Kind) {
	t.Helper()
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("code=%q: got %d tokens %v, want %d %v", code, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("code=%q: token %d kind = %s, want %s", code, i, got[i], want[i])
		}
	}
}

func TestLexerSimpleTokens(t *testing.T) {
	cases := []struct {
		code string
		want []token.Kind
	}{
		{"", []token.Kind{token.KindEOF}},
		{"  \t\n  ", []token.Kind{token.KindEOF}},
		{"abc", []token.Kind{token.KindIdentifier, token.KindEOF}},
		{"SELECT", []token.Kind{token.KindKeyword, token.KindEOF}},
		{"\"a b\"", []token.Kind{token.KindQuotedIdentifier, token.KindEOF}},
		{"'hi'", []token.Kind{token.KindLiteral, token.KindEOF}},
		{"`{a:1}`", []token.Kind{token.KindIonLiteral, token.KindEOF}},
		{"42", []token.Kind{token.KindLiteral, token.KindEOF}},
		{"3.14", []token.Kind{token.KindLiteral, token.KindEOF}},
		{"1e10", []token.Kind{token.KindLiteral, token.KindEOF}},
		{"TRUE", []token.Kind{token.KindLiteral, token.KindEOF}},
		{"NULL", []token.Kind{token.KindNull, token.KindEOF}},
		{"MISSING", []token.Kind{token.KindMissing, token.KindEOF}},
		{"AS", []token.Kind{token.KindAs, token.KindEOF}},
		{"?", []token.Kind{token.KindQuestionMark, token.KindEOF}},
		{"(a, b)", []token.Kind{token.KindLeftParen, token.KindIdentifier, token.KindComma,
			token.KindIdentifier, token.KindRightParen, token.KindEOF}},
		{"a.b", []token.Kind{token.KindIdentifier, token.KindDot, token.KindIdentifier, token.KindEOF}},
		{"<<1>>", []token.Kind{token.KindLeftDoubleAngleBracket, token.KindLiteral,
			token.KindRightDoubleAngleBracket, token.KindEOF}},
		{"<= >= <> != ||", []token.Kind{token.KindOperator, token.KindOperator, token.KindOperator,
			token.KindOperator, token.KindOperator, token.KindEOF}},
		{"-- comment\nSELECT", []token.Kind{token.KindKeyword, token.KindEOF}},
		{"/* block \n comment */ SELECT", []token.Kind{token.KindKeyword, token.KindEOF}},
	}
	for _, c := range cases {
		toks := scanAll(t, c.code)
		eqKinds(t, c.code, toks, c.want...)
	}
}

func TestLexerKeywordMerging(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"INSERT INTO", "insert_into"},
		{"ON CONFLICT", "on_conflict"},
		{"DO NOTHING", "do_nothing"},
		{"NOT BETWEEN", "not_between"},
		{"NOT LIKE", "not_like"},
		{"NOT IN", "not_in"},
		{"IS NOT", "is_not"},
		{"UNION ALL", "union_all"},
		{"INNER JOIN", "inner_join"},
		{"CROSS JOIN", "cross_join"},
		{"LEFT JOIN", "left_join"},
		{"RIGHT JOIN", "right_join"},
		{"OUTER JOIN", "outer_join"},
		{"LEFT OUTER JOIN", "left_outer_join"},
		{"LEFT CROSS JOIN", "left_cross_join"},
		{"RIGHT OUTER JOIN", "right_outer_join"},
		{"RIGHT CROSS JOIN", "right_cross_join"},
		{"OUTER CROSS JOIN", "outer_cross_join"},
		{"MODIFIED OLD", "modified_old"},
		{"MODIFIED NEW", "modified_new"},
		{"ALL OLD", "all_old"},
		{"ALL NEW", "all_new"},
		{"NOT MATERIALIZED", "not_materialized"},
	}
	for _, c := range cases {
		toks := scanAll(t, c.code)
		if len(toks) != 2 {
			t.Fatalf("code=%q: got %d tokens, want 1 merged keyword + EOF", c.code, len(toks))
		}
		if toks[0].Kind != token.KindKeyword {
			t.Errorf("code=%q: kind = %s, want Keyword", c.code, toks[0].Kind)
		}
		if toks[0].KeywordText != c.want {
			t.Errorf("code=%q: keyword_text = %q, want %q", c.code, toks[0].KeywordText, c.want)
		}
	}
}

// TestLexerNoMergeWithoutFollowOn tests that a bare LEFT used
// outside of a join phrase is left as its own keyword token, since the
// merge is only ever attempted when a longer match actually exists.
func TestLexerNoMergeWithoutFollowOn(t *testing.T) {
	toks := scanAll(t, "LEFT x")
	eqKinds(t, "LEFT x", toks, token.KindKeyword, token.KindIdentifier, token.KindEOF)
	if toks[0].KeywordText != "left" {
		t.Errorf("keyword_text = %q, want left", toks[0].KeywordText)
	}
}

// TestLexerWithTimeZoneNotMerged tests that "with time zone" stays three
// separate keyword tokens, since the type-name grammar consumes them one
// at a time.
func TestLexerWithTimeZoneNotMerged(t *testing.T) {
	toks := scanAll(t, "WITH TIME ZONE")
	eqKinds(t, "WITH TIME ZONE", toks, token.KindKeyword, token.KindKeyword, token.KindKeyword, token.KindEOF)
	got := []string{toks[0].KeywordText, toks[1].KeywordText, toks[2].KeywordText}
	want := []string{"with", "time", "zone"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d keyword_text = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLexerDatePartAndTrimSpecification(t *testing.T) {
	toks := scanAll(t, "YEAR LEADING")
	eqKinds(t, "YEAR LEADING", toks, token.KindDatePart, token.KindTrimSpecification, token.KindEOF)
	if toks[0].KeywordText != "year" {
		t.Errorf("keyword_text = %q, want year", toks[0].KeywordText)
	}
	if toks[1].KeywordText != "leading" {
		t.Errorf("keyword_text = %q, want leading", toks[1].KeywordText)
	}
}

func TestLexerOrdinalParameters(t *testing.T) {
	toks := scanAll(t, "? ?  ?")
	if len(toks) != 4 {
		t.Fatalf("got %d tokens, want 3 placeholders + EOF", len(toks))
	}
	for i, want := range []int{1, 2, 3} {
		if toks[i].Value.Ordinal() != want {
			t.Errorf("token %d ordinal = %d, want %d", i, toks[i].Value.Ordinal(), want)
		}
	}
}

func TestLexerQuoteEscaping(t *testing.T) {
	toks := scanAll(t, "'it''s'")
	if toks[0].Value.String() != "it's" {
		t.Errorf("value = %q, want it's", toks[0].Value.String())
	}

	toks = scanAll(t, `"a""b"`)
	if toks[0].Text != `a"b` {
		t.Errorf("text = %q, want a\"b", toks[0].Text)
	}
}

func TestLexerUnterminatedStringError(t *testing.T) {
	_, err := New([]byte("'abc")).All()
	if err == nil {
		t.Fatal("expected error for unterminated string literal")
	}
}

func TestLexerUnterminatedIonError(t *testing.T) {
	_, err := New([]byte("`abc")).All()
	if err == nil {
		t.Fatal("expected error for unterminated ion literal")
	}
}

func TestLexerNumberValue(t *testing.T) {
	toks := scanAll(t, "123.50")
	if !toks[0].Value.IsNumeric() {
		t.Fatal("expected numeric value")
	}
	if got := toks[0].Value.Number().String(); got != "123.5" {
		t.Errorf("number = %q, want 123.5", got)
	}
}
