package ast

import (
	"github.com/partiql-go/partiql/parsetree"
	"github.com/partiql-go/partiql/perr"
)

func isDmlOpTag(t parsetree.Tag) bool {
	switch t {
	case parsetree.TagInsert, parsetree.TagInsertValue, parsetree.TagSet, parsetree.TagRemove, parsetree.TagDelete:
		return true
	}
	return false
}

// buildDmlOp builds the op itself plus, for INSERT VALUE, any RETURNING
// clause the op carries inline (the op and the DML_LIST it may sit inside
// each parse their own optional RETURNING independently).
func buildDmlOp(n *parsetree.Node) (DmlOp, *parsetree.Node, error) {
	switch n.Tag {
	case parsetree.TagInsert:
		path, err := buildExpr(n.Children[0])
		if err != nil {
			return nil, nil, err
		}
		values, err := buildExpr(n.Children[1])
		if err != nil {
			return nil, nil, err
		}
		return InsertOp{Path: path, Values: values}, nil, nil

	case parsetree.TagInsertValue:
		path, err := buildExpr(n.Children[0])
		if err != nil {
			return nil, nil, err
		}
		value, err := buildExpr(n.Children[1])
		if err != nil {
			return nil, nil, err
		}
		var position Expr
		var onConflict *OnConflict
		var returningNode *parsetree.Node
		for _, c := range n.Children[2:] {
			switch {
			case c.HasMeta("role"):
				position, err = buildExpr(c)
				if err != nil {
					return nil, nil, err
				}
			case c.Tag == parsetree.TagOnConflict:
				onConflict, err = buildOnConflict(c)
				if err != nil {
					return nil, nil, err
				}
			case c.Tag == parsetree.TagReturning:
				returningNode = c
			}
		}
		return InsertValueOp{Path: path, Value: value, Position: position, OnConflict: onConflict}, returningNode, nil

	case parsetree.TagSet:
		assigns := make([]Assignment, 0, len(n.Children))
		for _, c := range n.Children {
			path, err := buildExpr(c.Children[0])
			if err != nil {
				return nil, nil, err
			}
			value, err := buildExpr(c.Children[1])
			if err != nil {
				return nil, nil, err
			}
			assigns = append(assigns, Assignment{Path: path, Value: value})
		}
		return SetOp{Assignments: assigns}, nil, nil

	case parsetree.TagRemove:
		path, err := buildExpr(n.Children[0])
		if err != nil {
			return nil, nil, err
		}
		return RemoveOp{Path: path}, nil, nil

	case parsetree.TagDelete:
		return DeleteOp{}, nil, nil

	default:
		return nil, nil, perr.Internal("unexpected dml op %s", n.Tag)
	}
}

func buildOnConflict(n *parsetree.Node) (*OnConflict, error) {
	cond, err := buildExpr(n.Children[0])
	if err != nil {
		return nil, err
	}
	return &OnConflict{Condition: cond, Action: ConflictDoNothing}, nil
}

func returningMappingFor(kw string) (ReturningMapping, error) {
	switch kw {
	case "modified_old":
		return ModifiedOld, nil
	case "modified_new":
		return ModifiedNew, nil
	case "all_old":
		return AllOld, nil
	case "all_new":
		return AllNew, nil
	default:
		return 0, perr.Internal("unrecognized returning mapping %q", kw)
	}
}

func buildReturning(n *parsetree.Node) ([]ReturningItem, error) {
	items := make([]ReturningItem, 0, len(n.Children))
	for _, c := range n.Children {
		mapping, err := returningMappingFor(c.Children[0].Token.KeywordText)
		if err != nil {
			return nil, err
		}
		item := ReturningItem{Mapping: mapping}
		second := c.Children[1]
		if second.Tag == parsetree.TagReturningWildcard {
			item.Wildcard = true
		} else {
			item.Path, err = buildExpr(second)
			if err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func buildDataManipulation(n *parsetree.Node) (*DataManipulation, error) {
	if isDmlOpTag(n.Tag) {
		op, returningNode, err := buildDmlOp(n)
		if err != nil {
			return nil, err
		}
		dm := &DataManipulation{base: base{metaOf(n.Token)}, Ops: []DmlOp{op}}
		if returningNode != nil {
			dm.Returning, err = buildReturning(returningNode)
			if err != nil {
				return nil, err
			}
		}
		return dm, nil
	}
	return buildDmlList(n)
}

func buildDmlList(n *parsetree.Node) (*DataManipulation, error) {
	dm := &DataManipulation{base: base{metaOf(n.Token)}}
	var fallbackReturning []ReturningItem

	for _, c := range n.Children {
		switch {
		case isDmlOpTag(c.Tag):
			op, retNode, err := buildDmlOp(c)
			if err != nil {
				return nil, err
			}
			dm.Ops = append(dm.Ops, op)
			if retNode != nil {
				items, err := buildReturning(retNode)
				if err != nil {
					return nil, err
				}
				fallbackReturning = items
			}
		case c.HasMeta("role"):
			fs, err := buildFromSource(c)
			if err != nil {
				return nil, err
			}
			dm.From = fs
		case c.Tag == parsetree.TagWhere:
			e, err := buildExpr(c.Children[0])
			if err != nil {
				return nil, err
			}
			dm.Where = e
		case c.Tag == parsetree.TagReturning:
			items, err := buildReturning(c)
			if err != nil {
				return nil, err
			}
			dm.Returning = items
		}
	}

	if dm.Returning == nil {
		dm.Returning = fallbackReturning
	}
	return dm, nil
}
