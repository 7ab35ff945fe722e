package linegen_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyfmt/internal/brackets"
	"pyfmt/internal/cst"
	"pyfmt/internal/linegen"
	"pyfmt/internal/parser"
	"pyfmt/internal/trace"
)

func parse(t *testing.T, src string) *cst.Tree {
	t.Helper()
	tree, err := parser.Parse(src, nil, parser.Options{})
	require.NoError(t, err)
	return tree
}

func generate(t *testing.T, tree *cst.Tree) []*linegen.Line {
	t.Helper()
	lines, err := linegen.Generate(context.Background(), tree)
	require.NoError(t, err)
	return lines
}

func values(tree *cst.Tree, ids []cst.NodeID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, tree.Value(id))
	}
	return out
}

func TestGenerateLogicalLines(t *testing.T) {
	src := `import os
x = f(a, b)  # trailing
if x: y = 1; z = 2
def g(a,
      b):
    # standalone
    return a
@dec
class C: pass
# end
`
	lines := generate(t, parse(t, src))

	type want struct {
		text   string
		depth  int
		inline bool
	}
	wants := []want{
		{"import os", 0, false},
		{"x = f(a, b)  # trailing", 0, false},
		{"if x:", 0, false},
		{"    y = 1", 1, true},
		{"    z = 2", 1, true},
		{"def g(a, b):", 0, false},
		{"    return a", 1, false},
		{"@dec", 0, false},
		{"class C:", 0, false},
		{"    pass", 1, true},
	}
	require.Len(t, lines, len(wants)+1)
	for i, w := range wants {
		assert.Equal(t, w.text, lines[i].String(), "line %d", i)
		assert.Equal(t, w.depth, lines[i].Depth, "line %d", i)
		assert.Equal(t, w.inline, lines[i].Inline, "line %d", i)
	}

	assert.Equal(t, []string{"# standalone"}, lines[6].Before)
	assert.True(t, lines[5].IsDef())
	assert.True(t, lines[7].IsDecorator())
	assert.True(t, lines[8].IsDef())
	assert.False(t, lines[0].IsDef())

	last := lines[len(lines)-1]
	assert.True(t, last.IsEmpty())
	assert.Equal(t, []string{"# end"}, last.Before)
}

func TestLinePriorities(t *testing.T) {
	tests := []struct {
		src    string
		max    brackets.Priority
		splits []string
	}{
		{"x = a and b or c\n", brackets.LogicPriority, []string{"a", "b"}},
		{"f(a, b), g\n", brackets.CommaPriority, []string{","}},
		{"a + b * c\n", brackets.ArithPriority, []string{"a"}},
		{"x = 1\n", brackets.NoPriority, nil},
		{"y = [i for i in range(3) if i]\n", brackets.NoPriority, nil},
	}
	for _, tt := range tests {
		tree := parse(t, tt.src)
		line := generate(t, tree)[0]
		assert.Equal(t, tt.max, line.MaxPriority(), tt.src)
		if tt.splits == nil {
			assert.Empty(t, line.SplitPoints(), tt.src)
		} else {
			assert.Equal(t, tt.splits, values(tree, line.SplitPoints()), tt.src)
		}
	}
}

func TestBracketedLeaves(t *testing.T) {
	tree := parse(t, "x = f(a) + b\n")
	line := generate(t, tree)[0]
	got := line.Bracketed()
	var inside []string
	for _, l := range line.Leaves {
		if _, ok := got[l]; ok {
			inside = append(inside, tree.Value(l))
		}
	}
	assert.Equal(t, []string{"(", "a", ")"}, inside)
}

func TestMagicTrailingComma(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"x = [1, 2,]\n", true},
		{"f(a,)\n", true},
		{"x = {1: 2,}\n", true},
		{"x = (1,)\n", false},
		{"x[1,]\n", false},
		{"x = [1, 2]\n", false},
	}
	for _, tt := range tests {
		line := generate(t, parse(t, tt.src))[0]
		assert.Equal(t, tt.want, line.MagicTrailingComma(), tt.src)
	}
}

func TestGenerateTracesLines(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDebug, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tr)
	_, err := linegen.Generate(ctx, parse(t, "a = 1\nb = c or d\n"))
	require.NoError(t, err)
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "• line"))
	assert.Contains(t, out, "max=logic")
}

func TestNormalizeInvisibleParens(t *testing.T) {
	tests := []struct{ src, want string }{
		{"def f():\n    return (x)\n", "def f():\n    return x\n"},
		{"x = (1)\n", "x = 1\n"},
		{"x = ( 1 )\n", "x = 1\n"},
		{"x = (1, 2)\n", "x = (1, 2)\n"},
		{"del (a, b)\n", "del a, b\n"},
		{"for (x, y) in (z):\n    pass\n", "for x, y in z:\n    pass\n"},
		{"for(x)in y:\n    pass\n", "for x in y:\n    pass\n"},
		{"if(a):\n    pass\nelif (b):\n    pass\n", "if a:\n    pass\nelif b:\n    pass\n"},
		{"while ((a)):\n    pass\n", "while a:\n    pass\n"},
		{"def f():\n    return 1,\n", "def f():\n    return (1,)\n"},
		{"x = ('a' 'b')\n", "x = 'a' 'b'\n"},
		{"x += (y)\n", "x += y\n"},
	}
	for _, tt := range tests {
		tree := parse(t, tt.src)
		linegen.NormalizeInvisibleParens(tree)
		assert.Equal(t, tt.want, tree.String(), tt.src)
	}
}

func TestNormalizeKeepsNeededParens(t *testing.T) {
	for _, src := range []string{
		"x = (yield)\n",
		"x = (y := 1)\n",
		"x = ()\n",
		"x = (1,)\n",
		"x = (  # c\n    1\n)\n",
		"x = (\n    1\n)\n",
		"for x in (i for i in y):\n    pass\n",
		"for x in (*a, *b):\n    pass\n",
		"x = (i for i in y)\n",
	} {
		tree := parse(t, src)
		linegen.NormalizeInvisibleParens(tree)
		assert.Equal(t, src, tree.String())
	}
}

func TestInvisibleParensReachTracker(t *testing.T) {
	tree := parse(t, "x = a + b\n")
	assert.Equal(t, brackets.ArithPriority, generate(t, tree)[0].MaxPriority())

	linegen.NormalizeInvisibleParens(tree)
	line := generate(t, tree)[0]
	assert.Equal(t, brackets.NoPriority, line.MaxPriority())
	assert.Len(t, line.Brackets.Invisible, 2)
	assert.Equal(t, "x = a + b", line.String())

	linegen.NormalizeInvisibleParens(tree)
	assert.Equal(t, "x = a + b\n", tree.String())
}
