package lexer

import "github.com/partiql-go/partiql/token"

// keywordKind maps a single reserved word's lowercase spelling to the
// dedicated token.Kind it carries. Everything in the closed keyword set
// that is not listed here carries token.KindKeyword.
var keywordKind = map[string]token.Kind{
	"as":      token.KindAs,
	"at":      token.KindAt,
	"by":      token.KindBy,
	"asc":     token.KindAsc,
	"desc":    token.KindDesc,
	"for":     token.KindFor,
	"null":    token.KindNull,
	"missing": token.KindMissing,
}

// datePartWords are the DATE_PART-kind identifiers accepted by EXTRACT,
// DATE_ADD and DATE_DIFF.
var datePartWords = map[string]bool{
	"year": true, "month": true, "day": true, "hour": true, "minute": true,
	"second": true, "timezone_hour": true, "timezone_minute": true,
}

// trimSpecWords are the TRIM_SPECIFICATION-kind identifiers accepted by TRIM.
var trimSpecWords = map[string]bool{
	"leading": true, "trailing": true, "both": true,
}

// booleanWords are surface keywords that lex straight to a boolean literal.
var booleanWords = map[string]bool{"true": true, "false": true}

// keywords is the closed set of reserved words recognized as KindKeyword
// (after the dedicated-kind and literal-producing words above have been
// pulled out). An identifier that doesn't match any of these, datePartWords,
// trimSpecWords, booleanWords, or keywordKind is an ordinary KindIdentifier.
var keywords = map[string]bool{
	"select": true, "pivot": true, "with": true, "case": true, "cast": true,
	"when": true, "else": true, "end": true, "then": true,
	"from": true, "where": true, "let": true, "group": true, "partial": true,
	"having": true, "order": true, "limit": true, "distinct": true, "all": true,
	"value": true, "values": true, "unpivot": true,
	"and": true, "or": true, "not": true, "in": true, "like": true, "escape": true,
	"between": true, "is": true, "union": true, "intersect": true, "except": true,
	"insert": true, "into": true, "on": true, "conflict": true, "do": true, "nothing": true,
	"update": true, "delete": true, "remove": true, "set": true, "returning": true,
	"modified": true, "old": true, "new": true,
	"materialized": true, "recursive": true,
	"create": true, "drop": true, "table": true, "index": true, "exec": true,
	"count": true, "avg": true, "min": true, "max": true, "sum": true,
	"any": true, "some": true, "every": true,
	"substring": true, "trim": true, "extract": true, "date_add": true, "date_diff": true,
	"date": true, "time": true, "zone": true,
	"list": true, "bag": true, "sexp": true,
	"join": true, "inner": true, "cross": true, "left": true, "right": true, "outer": true,
}

// threeWordJoin matches w1, w2, w3 against a three-keyword join phrase,
// returning the merged keyword_text.
func threeWordJoin(w1, w2, w3 string) (string, bool) {
	switch {
	case w1 == "left" && w2 == "outer" && w3 == "join":
		return "left_outer_join", true
	case w1 == "left" && w2 == "cross" && w3 == "join":
		return "left_cross_join", true
	case w1 == "right" && w2 == "outer" && w3 == "join":
		return "right_outer_join", true
	case w1 == "right" && w2 == "cross" && w3 == "join":
		return "right_cross_join", true
	case w1 == "outer" && w2 == "cross" && w3 == "join":
		return "outer_cross_join", true
	}
	return "", false
}

// twoWordPhrase matches w1, w2 against every two-keyword merge the grammar
// looks up as a single normalized keyword_text.
func twoWordPhrase(w1, w2 string) (string, bool) {
	switch {
	case w1 == "insert" && w2 == "into":
		return "insert_into", true
	case w1 == "on" && w2 == "conflict":
		return "on_conflict", true
	case w1 == "do" && w2 == "nothing":
		return "do_nothing", true
	case w1 == "modified" && w2 == "old":
		return "modified_old", true
	case w1 == "modified" && w2 == "new":
		return "modified_new", true
	case w1 == "all" && w2 == "old":
		return "all_old", true
	case w1 == "all" && w2 == "new":
		return "all_new", true
	case w1 == "not" && w2 == "materialized":
		return "not_materialized", true
	case w1 == "not" && w2 == "between":
		return "not_between", true
	case w1 == "not" && w2 == "like":
		return "not_like", true
	case w1 == "not" && w2 == "in":
		return "not_in", true
	case w1 == "is" && w2 == "not":
		return "is_not", true
	case w1 == "union" && w2 == "all":
		return "union_all", true
	case w1 == "inner" && w2 == "join":
		return "inner_join", true
	case w1 == "cross" && w2 == "join":
		return "cross_join", true
	case w1 == "left" && w2 == "join":
		return "left_join", true
	case w1 == "right" && w2 == "join":
		return "right_join", true
	case w1 == "outer" && w2 == "join":
		return "outer_join", true
	}
	return "", false
}

// mergeStarters are the keyword spellings that can ever begin a
// threeWordJoin/twoWordPhrase match. Next() only attempts a merge lookahead
// when the head keyword is one of these, so an ordinary "inner" used as a
// bare identifier-shaped keyword elsewhere never pays for a lookahead it
// can't use. "inner" and "cross" only ever appear as join prefixes in this
// grammar; they are in the base keywords set and are listed here too.
var mergeStarters = map[string]bool{
	"insert": true, "on": true, "do": true, "modified": true, "all": true,
	"not": true, "is": true, "union": true,
	"inner": true, "cross": true, "left": true, "right": true, "outer": true, "join": true,
}
