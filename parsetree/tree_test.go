package parsetree

import (
	"testing"

	"github.com/partiql-go/partiql/tokenview"
)

func TestTagString(t *testing.T) {
	if got := TagAtom.String(); got != "Atom" {
		t.Errorf("TagAtom.String() = %q, want Atom", got)
	}
	if got := Tag(-1).String(); got != "Tag(?)" {
		t.Errorf("Tag(-1).String() = %q, want Tag(?)", got)
	}
	if got := Tag(10000).String(); got != "Tag(?)" {
		t.Errorf("Tag(10000).String() = %q, want Tag(?)", got)
	}
}

func TestNewNodeHasNoMetaByDefault(t *testing.T) {
	n := New(TagAtom, nil, tokenview.View{})
	if n.HasMeta("legacy_not") {
		t.Error("a freshly built node should carry no meta annotations")
	}
}

func TestWithMetaRoundTrips(t *testing.T) {
	n := New(TagBinary, nil, tokenview.View{})
	n.WithMeta("legacy_not", true)
	if !n.HasMeta("legacy_not") {
		t.Error("WithMeta did not record the annotation HasMeta can see")
	}
	if n.Meta["legacy_not"] != true {
		t.Errorf("Meta[legacy_not] = %v, want true", n.Meta["legacy_not"])
	}
}

func TestWithMetaReturnsSameNode(t *testing.T) {
	n := New(TagAtom, nil, tokenview.View{})
	if n.WithMeta("k", 1) != n {
		t.Error("WithMeta should return the receiver")
	}
}

func TestIsJoin(t *testing.T) {
	for _, tag := range []Tag{TagInnerJoin, TagLeftJoin, TagRightJoin, TagOuterJoin} {
		n := New(tag, nil, tokenview.View{})
		if !n.IsJoin() {
			t.Errorf("%s should be a join tag", tag)
		}
	}
	n := New(TagAtom, nil, tokenview.View{})
	if n.IsJoin() {
		t.Error("Atom should not be a join tag")
	}
}

func TestIsTopLevelAndIsDml(t *testing.T) {
	cases := []struct {
		tag             Tag
		topLevel, isDml bool
	}{
		{TagInsert, true, true},
		{TagDelete, true, true},
		{TagCreateTable, true, false},
		{TagDropIndex, true, false},
		{TagAtom, false, false},
		{TagBinary, false, false},
	}
	for _, c := range cases {
		n := New(c.tag, nil, tokenview.View{})
		if n.IsTopLevel() != c.topLevel {
			t.Errorf("%s: IsTopLevel() = %v, want %v", c.tag, n.IsTopLevel(), c.topLevel)
		}
		if n.IsDml() != c.isDml {
			t.Errorf("%s: IsDml() = %v, want %v", c.tag, n.IsDml(), c.isDml)
		}
	}
}

func TestNewNodeChildrenAndToken(t *testing.T) {
	child := New(TagAtom, nil, tokenview.View{})
	parent := New(TagPath, nil, tokenview.View{}, child)
	if len(parent.Children) != 1 || parent.Children[0] != child {
		t.Error("New did not record the given children")
	}
}

func TestHasMetaOnNilNode(t *testing.T) {
	var n *Node
	if n.HasMeta("anything") {
		t.Error("HasMeta on a nil node should report false, not panic")
	}
}
