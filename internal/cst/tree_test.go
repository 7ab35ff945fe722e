package cst

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

// buildCall builds `foo(a, b)` by hand.
func buildCall(t *testing.T) (*Tree, map[string]NodeID) {
	t.Helper()
	tr := NewTree(1, 16)
	ids := map[string]NodeID{
		"foo": tr.NewLeaf(token.Name, "foo", "", source.Span{}),
		"(":   tr.NewLeaf(token.LPar, "(", "", source.Span{}),
		"a":   tr.NewLeaf(token.Name, "a", "", source.Span{}),
		",":   tr.NewLeaf(token.Comma, ",", "", source.Span{}),
		"b":   tr.NewLeaf(token.Name, "b", " ", source.Span{}),
		")":   tr.NewLeaf(token.RPar, ")", "", source.Span{}),
	}
	ids["arglist"] = tr.NewNode(Arglist, ids["a"], ids[","], ids["b"])
	ids["trailer"] = tr.NewNode(Trailer, ids["("], ids["arglist"], ids[")"])
	ids["power"] = tr.NewNode(Power, ids["foo"], ids["trailer"])
	tr.Root = tr.NewNode(FileInput, ids["power"])
	return tr, ids
}

func TestLeavesAndRender(t *testing.T) {
	tr, ids := buildCall(t)
	got := slices.Collect(tr.Leaves(tr.Root))
	assert.Equal(t, []NodeID{ids["foo"], ids["("], ids["a"], ids[","], ids["b"], ids[")"]}, got)
	assert.Equal(t, "foo(a, b)", tr.String())
	assert.Equal(t, "(a, b)", tr.Render(ids["trailer"]))
}

func TestSiblingsAndParents(t *testing.T) {
	tr, ids := buildCall(t)
	assert.Equal(t, ids["arglist"], tr.Parent(ids["a"]))
	assert.Equal(t, Trailer, tr.ParentSym(ids["arglist"]))
	assert.Equal(t, ids[","], tr.NextSibling(ids["a"]))
	assert.Equal(t, ids["a"], tr.PrevSibling(ids[","]))
	assert.False(t, tr.PrevSibling(ids["a"]).IsValid())
	assert.False(t, tr.NextSibling(ids["b"]).IsValid())
	assert.Equal(t, ids["foo"], tr.FirstLeaf(tr.Root))
	assert.Equal(t, ids[")"], tr.LastLeaf(tr.Root))
	assert.True(t, tr.IsName(ids["foo"], "foo"))
	assert.Equal(t, token.Invalid, tr.Kind(ids["power"]))
}

func TestReplaceAndRemove(t *testing.T) {
	tr, ids := buildCall(t)
	c := tr.NewLeaf(token.Name, "c", " ", source.Span{})
	tr.Replace(ids["b"], c)
	assert.Equal(t, "foo(a, c)", tr.String())
	assert.False(t, tr.Parent(ids["b"]).IsValid())

	require.Equal(t, 1, tr.Remove(ids[","]))
	assert.Equal(t, "foo(a c)", tr.String())

	tr.InsertChild(ids["arglist"], 1, ids[","])
	assert.Equal(t, "foo(a, c)", tr.String())
}

func TestRewindDropsSpeculativeNodes(t *testing.T) {
	tr, _ := buildCall(t)
	mark := tr.Mark()
	tr.NewLeaf(token.Name, "x", "", source.Span{})
	require.Equal(t, mark+1, tr.Len())
	tr.Rewind(mark)
	assert.Equal(t, mark, tr.Len())
	assert.Nil(t, tr.Node(NodeID(mark+1)))
}

func TestAnnotations(t *testing.T) {
	tr, ids := buildCall(t)
	tr.SetBracketDepth(ids["a"], 1)
	tr.SetOpeningBracket(ids[")"], ids["("])
	assert.Equal(t, 1, tr.BracketDepth(ids["a"]))
	assert.Equal(t, ids["("], tr.OpeningBracket(ids[")"]))
	assert.Equal(t, 0, tr.BracketDepth(NoNodeID))
}

func TestDump(t *testing.T) {
	tr, _ := buildCall(t)
	want := "file_input\n" +
		"└─ power\n" +
		"   ├─ NAME \"foo\"\n" +
		"   └─ trailer\n" +
		"      ├─ LPAR \"(\"\n" +
		"      ├─ arglist\n" +
		"      │  ├─ NAME \"a\"\n" +
		"      │  ├─ COMMA \",\"\n" +
		"      │  └─ NAME \"b\" prefix=\" \"\n" +
		"      └─ RPAR \")\"\n"
	assert.Equal(t, want, tr.DumpString(tr.Root))
}
