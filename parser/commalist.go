package parser

import (
	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/token"
	"github.com/partiql-go/partiql/tokenview"
)

// commaList repeatedly applies parseOne, consuming a KindComma between each
// application, until the next token is not a comma. It always parses at
// least one element; callers that allow zero elements check for that shape
// before calling commaList.
func commaList(v tokenview.View, parseOne func(tokenview.View) (*parsetree.Node, tokenview.View, error)) ([]*parsetree.Node, tokenview.View, error) {
	first, rest, err := parseOne(v)
	if err != nil {
		return nil, v, err
	}
	items := []*parsetree.Node{first}
	for rest.Head().Kind == token.KindComma {
		next, rest2, err := parseOne(rest.Advance())
		if err != nil {
			return nil, rest, err
		}
		items = append(items, next)
		rest = rest2
	}
	return items, rest, nil
}

// parenList parses "( <item> (, <item>)* )" and returns its items; the
// parentheses are required.
func parenList(v tokenview.View, parseOne func(tokenview.View) (*parsetree.Node, tokenview.View, error)) ([]*parsetree.Node, tokenview.View, error) {
	_, rest, err := v.RequireType(token.KindLeftParen)
	if err != nil {
		return nil, v, err
	}
	items, rest, err := commaList(rest, parseOne)
	if err != nil {
		return nil, v, err
	}
	_, rest, err = rest.RequireType(token.KindRightParen)
	if err != nil {
		return nil, v, err
	}
	return items, rest, nil
}
