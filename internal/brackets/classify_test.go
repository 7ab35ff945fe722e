package brackets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyfmt/internal/brackets"
	"pyfmt/internal/cst"
	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

func TestPriorityScaleIsStrict(t *testing.T) {
	order := []brackets.Priority{
		brackets.NoPriority,
		brackets.PowerPriority,
		brackets.UnaryPriority,
		brackets.TermPriority,
		brackets.ArithPriority,
		brackets.ShiftPriority,
		brackets.BitAndPriority,
		brackets.BitXorPriority,
		brackets.BitOrPriority,
		brackets.DotPriority,
		brackets.ComparatorPriority,
		brackets.StringPriority,
		brackets.LogicPriority,
		brackets.TernaryPriority,
		brackets.CommaPriority,
		brackets.ComprehensionPriority,
	}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1], order[i], "%s vs %s", order[i-1], order[i])
	}
	assert.Equal(t, "comprehension", brackets.ComprehensionPriority.String())
	assert.Equal(t, brackets.ShiftPriority, brackets.MathPriority(token.RightShift))
	assert.Equal(t, brackets.NoPriority, brackets.MathPriority(token.Comma))
}

func TestIsVararg(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"f(*args)\n", true},
		{"f(a, **kw)\n", true},
		{"[*a, *b]\n", true},
		{"*a, b = c\n", true},
		{"def f(a, /, *, b): pass\n", true},
		{"a * b\n", false},
		{"a ** b\n", false},
		{"a / b\n", false},
	}
	within := make(brackets.SymbolSet)
	for sym := range brackets.VarargsParents {
		within[sym] = struct{}{}
	}
	for sym := range brackets.UnpackingParents {
		within[sym] = struct{}{}
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree, leaves := parseLine(t, tt.src)
			var star cst.NodeID
			for _, l := range leaves {
				switch tree.Kind(l) {
				case token.Star, token.DoubleStar, token.Slash:
					star = l
				}
				if star.IsValid() {
					break
				}
			}
			require.True(t, star.IsValid())
			assert.Equal(t, tt.want, brackets.IsVararg(tree, star, within))
		})
	}
}

func TestDotInImportsNeverSplits(t *testing.T) {
	for _, src := range []string{"import a.b.c\n", "from a.b import c\n"} {
		tree, leaves := parseLine(t, src)
		bt := track(t, tree, leaves)
		assert.Empty(t, bt.Delimiters, src)
	}
}

func TestLeadingDotSplits(t *testing.T) {
	tree, leaves := parseLine(t, "a.b\n")
	dot := leaves[1]
	assert.Equal(t, brackets.DotPriority, brackets.IsSplitBeforeDelimiter(tree, dot, cst.NoNodeID))
	assert.Equal(t, brackets.NoPriority, brackets.IsSplitBeforeDelimiter(tree, dot, leaves[0]))
}

func TestMaxDelimiterPriorityInAtom(t *testing.T) {
	tests := []struct {
		src  string
		want brackets.Priority
	}{
		{"x = (a)\n", brackets.NoPriority},
		{"x = (a, b)\n", brackets.CommaPriority},
		{"x = (a + b * c)\n", brackets.ArithPriority},
		{"x = (\"a\" \"b\")\n", brackets.StringPriority},
		{"x = (y for y in z if y)\n", brackets.ComprehensionPriority},
		{"x = (y async for y in z)\n", brackets.ComprehensionPriority},
		{"x = (lambda a, b: a)\n", brackets.NoPriority},
		{"x = [a, b]\n", brackets.NoPriority},
		{"x = a\n", brackets.NoPriority},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree, _ := parseLine(t, tt.src)
			stmt := tree.Children(tree.Root)[0]
			rhs := tree.Children(tree.Children(stmt)[0])[2]
			assert.Equal(t, tt.want, brackets.MaxDelimiterPriorityInAtom(tree, rhs))
		})
	}
}

func TestAsyncComprehensionCountsOnce(t *testing.T) {
	tree, leaves := parseLine(t, "x = [y async for y in z]\n")
	bt := brackets.NewTracker(tree)
	for _, l := range leaves[3 : len(leaves)-1] {
		require.NoError(t, bt.Track(l))
	}
	assert.Equal(t, map[cst.NodeID]brackets.Priority{
		nth(t, tree, leaves, "y", 0): brackets.ComprehensionPriority,
	}, bt.Delimiters)
}

func TestLeavesInsideMatchingBrackets(t *testing.T) {
	tree := cst.NewTree(0, 16)
	mk := func(kind token.Kind, v string) cst.NodeID {
		return tree.NewLeaf(kind, v, "", source.Span{})
	}
	leaves := []cst.NodeID{
		mk(token.RPar, ")"),
		mk(token.Name, "a"),
		mk(token.LPar, "("),
		mk(token.Name, "b"),
		mk(token.LSqb, "["),
		mk(token.Name, "c"),
		mk(token.RSqb, "]"),
		mk(token.RPar, ")"),
		mk(token.LPar, "("),
		mk(token.Name, "d"),
	}
	got := brackets.LeavesInsideMatchingBrackets(tree, leaves)
	want := map[cst.NodeID]struct{}{}
	for _, l := range leaves[2:8] {
		want[l] = struct{}{}
	}
	assert.Equal(t, want, got)

	mismatched := []cst.NodeID{
		mk(token.LPar, "("),
		mk(token.Name, "e"),
		mk(token.RPar, ")"),
		mk(token.LSqb, "["),
		mk(token.RBrace, "}"),
		mk(token.LPar, "("),
		mk(token.RPar, ")"),
	}
	got = brackets.LeavesInsideMatchingBrackets(tree, mismatched)
	assert.Len(t, got, 3)
	assert.Contains(t, got, mismatched[1])
	assert.NotContains(t, got, mismatched[5])

	assert.Empty(t, brackets.LeavesInsideMatchingBrackets(tree, leaves[:2]))
}
