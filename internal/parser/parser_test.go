package parser_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyfmt/internal/cst"
	"pyfmt/internal/diag"
	"pyfmt/internal/grammar"
	"pyfmt/internal/lexer"
	"pyfmt/internal/mode"
	"pyfmt/internal/parser"
)

const sample = `import os.path as osp, sys
from . import (a, b as c,)
from ..pkg.mod import *


@decorator(arg=1)
class Foo(Base, metaclass=Meta):
    """Doc."""

    x: int = 0

    def method(self, a, /, b: int = 2, *args, c, **kwargs) -> "Foo":
        # comment
        if a and not b or c is not None:
            return [i ** 2 for i in range(10) if i % 2]
        elif a in b and c not in d:
            yield from gen()
        else:
            del a, b
        while True:
            break
        for k, v in d.items():
            continue
        try:
            raise ValueError("x") from None
        except (TypeError, ValueError) as e:
            pass
        finally:
            pass
        with open(p) as f, lock:
            data = f.read()[1:-1:2]
        lam = lambda x, *y, **z: x if y else z
        s = {1, 2, *rest}
        m = {"a": 1, **other}
        g = sum(x for x in data)
        z = x @ y >> 2 | ~w ^ v & u
        t = -x ** -y
        n += 1; global q
        assert x, "msg"
        return (yield)


async def main():
    async with session as s:
        await s.get()
    async for item in aiter():
        print(item)
    return [y async for y in agen()]
`

func TestParseRoundTrip(t *testing.T) {
	tree, err := parser.Parse(sample, nil, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, sample, tree.String())
	assert.Equal(t, cst.FileInput, tree.Sym(tree.Root))
}

func TestParseAddsTrailingNewline(t *testing.T) {
	tree, err := parser.Parse("x = 1", nil, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", tree.String())
}

func TestParseEmptySourceIsWrapped(t *testing.T) {
	tree, err := parser.Parse("", nil, parser.Options{})
	require.NoError(t, err)
	require.Equal(t, cst.FileInput, tree.Sym(tree.Root))
	kids := tree.Children(tree.Root)
	require.Len(t, kids, 1)
	assert.True(t, tree.IsLeaf(kids[0]))
}

func TestTreeShape(t *testing.T) {
	tree, err := parser.Parse("x = a if b else c\n", nil, parser.Options{})
	require.NoError(t, err)

	stmt := tree.Children(tree.Root)[0]
	require.Equal(t, cst.SimpleStmt, tree.Sym(stmt))
	expr := tree.Children(stmt)[0]
	require.Equal(t, cst.ExprStmt, tree.Sym(expr))
	kids := tree.Children(expr)
	require.Len(t, kids, 3)
	assert.True(t, tree.IsName(kids[0], "x"))
	assert.Equal(t, cst.Test, tree.Sym(kids[2]))
}

func TestComprehensionFlavours(t *testing.T) {
	tree, err := parser.Parse("f(x for x in y)\n[x for x in y if x]\n", nil, parser.Options{})
	require.NoError(t, err)

	var syms []cst.Symbol
	for id := range tree.PreOrder(tree.Root) {
		switch s := tree.Sym(id); s {
		case cst.CompFor, cst.OldCompFor, cst.CompIf, cst.OldCompIf:
			syms = append(syms, s)
		}
	}
	assert.Equal(t, []cst.Symbol{cst.CompFor, cst.OldCompFor, cst.OldCompIf}, syms)
}

func TestTwoWordComparisons(t *testing.T) {
	tree, err := parser.Parse("a not in b is not c <> d\n", nil, parser.Options{})
	require.NoError(t, err)

	ops := 0
	for id := range tree.PreOrder(tree.Root) {
		if tree.Sym(id) == cst.CompOp {
			ops++
		}
	}
	assert.Equal(t, 2, ops)
}

func TestAsyncIdentifierFallsBackToClassic(t *testing.T) {
	src := "async = 1\nawait = async\n"
	tree, err := parser.Parse(src, nil, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, src, tree.String())

	assert.False(t, parser.MatchesGrammar(src, grammar.AsyncKeywords))
	assert.True(t, parser.MatchesGrammar(src, grammar.Classic))

	_, err = parser.Parse(src, []mode.TargetVersion{mode.PY37}, parser.Options{})
	var inv *parser.InvalidInput
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "Cannot parse for target version Python 3.7: 1:6: async = 1", inv.Error())
}

func TestMatchNeedsSoftKeywords(t *testing.T) {
	src := "match command:\n    case [x, *rest] if x:\n        pass\n    case {\"k\": v, **kw}:\n        pass\n    case Point(x=0) | None as p:\n        pass\n    case _:\n        pass\n"

	tree, err := parser.Parse(src, nil, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, src, tree.String())
	assert.Equal(t, cst.MatchStmt, tree.Sym(tree.Children(tree.Root)[0]))

	assert.False(t, parser.MatchesGrammar(src, grammar.AsyncKeywords))
	assert.False(t, parser.MatchesGrammar(src, grammar.Classic))
	assert.True(t, parser.MatchesGrammar(src, grammar.SoftKeywords))

	_, err = parser.Parse(src, []mode.TargetVersion{mode.PY39}, parser.Options{})
	var inv *parser.InvalidInput
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "Cannot parse for target version Python 3.9: 1:6: match command:", inv.Error())
}

func TestSoftKeywordsStayIdentifiers(t *testing.T) {
	src := "match = 1\nmatch(x)\ncase = match[0]\n"
	tree, err := parser.Parse(src, []mode.TargetVersion{mode.PY310}, parser.Options{})
	require.NoError(t, err)
	for id := range tree.PreOrder(tree.Root) {
		assert.NotEqual(t, cst.MatchStmt, tree.Sym(id))
	}
}

func TestInvalidInputReportsHighestGrammar(t *testing.T) {
	_, err := parser.Parse("def f(:\n    pass\n", nil, parser.Options{})
	var inv *parser.InvalidInput
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "Cannot parse: 1:6: def f(:", inv.Error())
	assert.Same(t, grammar.SoftKeywords, inv.Grammar)

	var pe *parser.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestInvalidInputFromTokenizer(t *testing.T) {
	bag := diag.NewBag(10)
	_, err := parser.Parse("x = (1,\n", nil, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	var inv *parser.InvalidInput
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "Cannot parse: 2:0: EOF in multi-line statement", inv.Error())

	var le *lexer.Error
	assert.ErrorAs(t, err, &le)
	// одна и та же ошибка токенизатора приходит от каждого варианта грамматики
	assert.Equal(t, 1, bag.Len())
}

func TestInvalidInputWithTargets(t *testing.T) {
	_, err := parser.Parse("print 'hello'\n", []mode.TargetVersion{mode.PY36, mode.PY38}, parser.Options{})
	var inv *parser.InvalidInput
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, 1, inv.Line)
	assert.Equal(t, 6, inv.Column)
	assert.Equal(t, "print 'hello'", inv.Excerpt)
	assert.Equal(t, mode.PY38, inv.Target)
}

func TestParseFileReportsParseError(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line uint32
		col  uint32
	}{
		{"missing colon", "if x\n    pass\n", 1, 4},
		{"bad indent", "if x:\npass\n", 2, 0},
		{"reserved name", "class = 1\n", 1, 6},
		{"stray closing", "x = 1)\n", 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok := parser.MatchesGrammar(tt.src, grammar.Classic)
			assert.False(t, ok)

			_, err := parser.Parse(tt.src, nil, parser.Options{})
			var pe *parser.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.line, pe.Pos.Line)
			assert.Equal(t, tt.col, pe.Pos.Col)
		})
	}
}
