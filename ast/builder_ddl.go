package ast

import (
	"github.com/partiql-go/partiql/parsetree"
)

func buildCreateTable(n *parsetree.Node) (*CreateTable, error) {
	return &CreateTable{base: base{metaOf(n.Token)}, Name: n.Children[0].Token.Text}, nil
}

func buildDropTable(n *parsetree.Node) (*DropTable, error) {
	return &DropTable{base: base{metaOf(n.Token)}, Name: n.Children[0].Token.Text}, nil
}

func buildCreateIndex(n *parsetree.Node) (*CreateIndex, error) {
	keys := make([]Expr, 0, len(n.Children)-1)
	for _, c := range n.Children[1:] {
		e, err := buildExpr(c)
		if err != nil {
			return nil, err
		}
		keys = append(keys, e)
	}
	return &CreateIndex{base: base{metaOf(n.Token)}, Table: n.Children[0].Token.Text, Keys: keys}, nil
}

func buildDropIndex(n *parsetree.Node) (*DropIndex, error) {
	return &DropIndex{
		base:  base{metaOf(n.Token)},
		Name:  n.Children[0].Token.Text,
		Table: n.Children[1].Token.Text,
	}, nil
}

func buildExecStatement(n *parsetree.Node) (*ExecStatement, error) {
	args := make([]Expr, 0, len(n.Children)-1)
	for _, c := range n.Children[1:] {
		e, err := buildExpr(c)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	return &ExecStatement{base: base{metaOf(n.Token)}, Proc: n.Children[0].Token.Text, Args: args}, nil
}
