package parser

import (
	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/perr"
)

// validateTopLevel walks the parse tree and enforces that a top-level-only
// tag appears only at the root (depth 0) or directly beneath a DML_LIST at
// the root (depth 1, underDmlList). Any other occurrence is a second
// top-level-only tag, or one nested too deep, and is rejected.
func validateTopLevel(n *parsetree.Node, depth int, underDmlList bool) error {
	if n == nil {
		return nil
	}

	if n.IsTopLevel() {
		allowed := depth == 0 || (depth == 1 && underDmlList)
		if !allowed {
			pos := n.Token
			line, col, length := 0, 0, 0
			if pos != nil {
				line, col, length = pos.Span.Line, pos.Span.Column, pos.Span.Length
			}
			return perr.New(perr.CodeUnexpectedTerm, "unexpected term: "+n.Tag.String()+" is only valid at the top level").
				AtSpan(line, col, length)
		}
	}

	nextUnderDmlList := n.Tag == parsetree.TagDmlList && depth == 0
	for _, c := range n.Children {
		if err := validateTopLevel(c, depth+1, nextUnderDmlList); err != nil {
			return err
		}
	}
	return nil
}
