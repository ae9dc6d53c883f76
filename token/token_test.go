package token

import "testing"

func TestKindString(t *testing.T) {
	if got := KindIdentifier.String(); got != "Identifier" {
		t.Errorf("KindIdentifier.String() = %q, want Identifier", got)
	}
	if got := KindEOF.String(); got != "EOF" {
		t.Errorf("KindEOF.String() = %q, want EOF", got)
	}
	if got := Kind(-1).String(); got != "-1" {
		t.Errorf("Kind(-1).String() = %q, want -1", got)
	}
	if got := Kind(10000).String(); got != "10000" {
		t.Errorf("Kind(10000).String() = %q, want 10000", got)
	}
}

func TestIsKeywordMatchesNormalizedText(t *testing.T) {
	tok := &Token{Kind: KindKeyword, KeywordText: "left_outer_join"}
	if !tok.IsKeyword("select", "left_outer_join") {
		t.Error("expected IsKeyword to match left_outer_join")
	}
	if tok.IsKeyword("select", "from") {
		t.Error("did not expect IsKeyword to match unrelated keywords")
	}
}

func TestIsKeywordFalseWhenNoKeywordText(t *testing.T) {
	tok := &Token{Kind: KindIdentifier, Text: "select"}
	if tok.IsKeyword("select") {
		t.Error("an identifier spelled like a keyword should not match IsKeyword")
	}
}

func TestTokenStringPrefersKeywordText(t *testing.T) {
	tok := &Token{Kind: KindKeyword, Text: "SELECT", KeywordText: "select"}
	got := tok.String()
	if got != `<Keyword "select">` {
		t.Errorf("String() = %q, want <Keyword \"select\">", got)
	}
}

func TestTokenStringFallsBackToText(t *testing.T) {
	tok := &Token{Kind: KindIdentifier, Text: "x"}
	got := tok.String()
	if got != `<Identifier "x">` {
		t.Errorf("String() = %q, want <Identifier \"x\">", got)
	}
}

func TestTokenStringBare(t *testing.T) {
	tok := &Token{Kind: KindEOF}
	if got := tok.String(); got != "<EOF>" {
		t.Errorf("String() = %q, want <EOF>", got)
	}
}
