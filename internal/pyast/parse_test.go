package pyast_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyfmt/internal/mode"
	"pyfmt/internal/pyast"
)

func TestVersionGates(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		too, ok  mode.TargetVersion
		contains string
	}{
		{"posonly", "def f(a, /): pass\n", mode.PY37, mode.PY38, "positional-only"},
		{"walrus", "(y := 1)\n", mode.PY37, mode.PY38, "assignment expressions"},
		{"annotation", "x: int = 1\n", mode.PY35, mode.PY36, "variable annotations"},
		{"fstring", "f'{x}'\n", mode.PY35, mode.PY36, "f-strings"},
		{"underscores", "x = 1_000\n", mode.PY35, mode.PY36, "underscores"},
		{"matmul", "a @ b\n", mode.PY34, mode.PY35, "'@' operator"},
		{"star subscript", "x[*a]\n", mode.PY310, mode.PY311, "star expressions"},
		{"decorator", "@a[0]\ndef f(): pass\n", mode.PY38, mode.PY39, "invalid syntax"},
		{"return unpacking", "def f():\n    return *a, b\n", mode.PY37, mode.PY38, "iterable unpacking"},
		{"match", "match x:\n    case 1:\n        pass\n", mode.PY39, mode.PY310, "invalid syntax"},
	}
	c := pyast.NewCache()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ParseVersion(tt.src, tt.too, false)
			var se *pyast.SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Contains(t, se.Msg, tt.contains)
			assert.Equal(t, tt.too, se.Version)

			_, err = c.ParseVersion(tt.src, tt.ok, false)
			assert.NoError(t, err)
		})
	}
}

func TestRejectedEverywhere(t *testing.T) {
	tests := []struct{ src, msg string }{
		{"a <> b\n", "invalid syntax"},
		{"x = 012\n", "leading zeros"},
		{"x = 10L\n", "invalid syntax"},
		{"def f(a=1, b): pass\n", "non-default argument follows default argument"},
		{"def f(*): pass\n", "named arguments must follow bare *"},
		{"f(a=1, b)\n", "positional argument follows keyword argument"},
		{"f(**k, *a)\n", "iterable argument unpacking follows keyword argument unpacking"},
		{"f(x for x in y, 1)\n", "Generator expression must be parenthesized"},
		{"f(a.b=1)\n", "expression cannot contain assignment"},
		{"1 = x\n", "cannot assign to literal"},
		{"f() = x\n", "cannot assign to function call"},
		{"del f()\n", "cannot delete function call"},
		{"x = b'a' 'b'\n", "cannot mix bytes and nonbytes literals"},
		{"a, b += 1\n", "illegal expression for augmented assignment"},
		{"try:\n    pass\nexcept A, e:\n    pass\n", "multiple exception types must be parenthesized"},
		{"{**a for a in b}\n", "dict unpacking cannot be used in dict comprehension"},
	}
	for _, tt := range tests {
		_, err := pyast.NewCache().Parse(tt.src)
		var se *pyast.SyntaxError
		if assert.ErrorAs(t, err, &se, tt.src) {
			assert.Contains(t, se.Msg, tt.msg, tt.src)
		}
	}
}

func TestParseReportsOldestTypeCommentAttempt(t *testing.T) {
	_, err := pyast.NewCache().Parse("print 'x'\n")
	var se *pyast.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, mode.PY33, se.Version)
	assert.True(t, se.TypeComments)
	assert.Equal(t, 1, se.Line)
	assert.Equal(t, "invalid syntax (<unknown>, line 1)", se.Error())
}

func TestParseErrorLineFollowsOldestGrammar(t *testing.T) {
	src := "match x:\n    case 1:\n        pass\nx = = 2\n"
	c := pyast.NewCache()

	_, newest := c.ParseVersion(src, mode.PY313, true)
	var se *pyast.SyntaxError
	require.ErrorAs(t, newest, &se)
	assert.Equal(t, 4, se.Line)

	_, err := c.Parse(src)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, mode.PY33, se.Version)
	assert.True(t, se.TypeComments)
	assert.Equal(t, 1, se.Line)
	assert.Equal(t, "invalid syntax (<unknown>, line 1)", se.Error())
}

func TestParseFallsBackToOlderGrammar(t *testing.T) {
	src := "async = 1\nawait = async\n"
	c := pyast.NewCache()

	_, err := c.ParseVersion(src, mode.PY313, true)
	require.Error(t, err)

	tree, err := c.Parse(src)
	require.NoError(t, err)
	assert.Len(t, tree.Items("body"), 2)
}

func TestTypeComments(t *testing.T) {
	c := pyast.NewCache()

	t.Run("assignment", func(t *testing.T) {
		tree, err := c.ParseVersion("x = []  # type: List[int]\n", mode.PY313, true)
		require.NoError(t, err)
		assert.Equal(t, pyast.Str("List[int]"), tree.Items("body")[0].Get("type_comment"))

		tree, err = c.ParseVersion("x = []  # type: List[int]\n", mode.PY313, false)
		require.NoError(t, err)
		assert.Equal(t, pyast.None, tree.Items("body")[0].Get("type_comment"))
	})

	t.Run("for and with", func(t *testing.T) {
		tree, err := c.ParseVersion("for x in y:  # type: int\n    pass\nwith a as b:  #type:str\n    pass\n", mode.PY313, true)
		require.NoError(t, err)
		body := tree.Items("body")
		assert.Equal(t, pyast.Str("int"), body[0].Get("type_comment"))
		assert.Equal(t, pyast.Str("str"), body[1].Get("type_comment"))
	})

	t.Run("function", func(t *testing.T) {
		src := "def f(a,  # type: int\n      b):\n    # type: (...) -> None\n    pass\n"
		tree, err := c.ParseVersion(src, mode.PY313, true)
		require.NoError(t, err)
		def := tree.Items("body")[0]
		assert.Equal(t, pyast.Str("(...) -> None"), def.Get("type_comment"))
		args := def.Child("args").Items("args")
		require.Len(t, args, 2)
		assert.Equal(t, pyast.Str("int"), args[0].Get("type_comment"))
		assert.Equal(t, pyast.None, args[1].Get("type_comment"))
	})

	t.Run("ignore", func(t *testing.T) {
		_, err := c.ParseVersion("import x  # type: ignored\n", mode.PY313, true)
		require.Error(t, err, "'ignored' is not an ignore comment")

		tree, err := c.ParseVersion("import x  # type: ignore[attr]\n", mode.PY313, true)
		require.NoError(t, err)
		ignores := tree.Items("type_ignores")
		require.Len(t, ignores, 1)
		assert.Equal(t, pyast.Str("[attr]"), ignores[0].Get("tag"))
		assert.Equal(t, pyast.Int("1"), ignores[0].Get("lineno"))

		lines := pyast.Lines(tree)
		assert.Contains(t, lines, "    TypeIgnore(")
		assert.Contains(t, lines, "    )  # /TypeIgnore")
	})

	t.Run("misplaced", func(t *testing.T) {
		src := "x = 1\n# type: int\ny = 2\n"
		_, err := c.ParseVersion(src, mode.PY313, true)
		var se *pyast.SyntaxError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, 2, se.Line)

		tree, err := c.Parse(src)
		require.NoError(t, err)
		assert.Len(t, tree.Items("body"), 2)
	})
}

func TestMatchPatterns(t *testing.T) {
	src := `match p:
    case Point(x=0, y=0) | None:
        pass
    case [a, *rest] if a:
        pass
    case {"k": v, **kw}:
        pass
    case -1 | 1+2j | Color.RED as c:
        pass
    case (1, _):
        pass
    case _:
        pass
`
	tree, err := pyast.NewCache().ParseVersion(src, mode.PY310, false)
	require.NoError(t, err)
	cases := tree.Items("body")[0].Items("cases")
	require.Len(t, cases, 6)

	types := make([]string, 0, len(cases))
	for _, c := range cases {
		types = append(types, c.Child("pattern").Type)
	}
	assert.Equal(t, []string{"MatchOr", "MatchSequence", "MatchMapping", "MatchAs", "MatchSequence", "MatchAs"}, types)

	cls := cases[0].Child("pattern").Items("patterns")[0]
	assert.Equal(t, "MatchClass", cls.Type)
	assert.Equal(t, pyast.Names{"x", "y"}, cls.Get("kwd_attrs"))
	assert.Equal(t, "MatchSingleton", cases[0].Child("pattern").Items("patterns")[1].Type)

	seq := cases[1].Child("pattern").Items("patterns")
	require.Len(t, seq, 2)
	assert.Equal(t, pyast.Str("rest"), seq[1].Get("name"))
	assert.Equal(t, "Name", cases[1].Child("guard").Type)

	assert.Equal(t, pyast.Str("kw"), cases[2].Child("pattern").Get("rest"))

	as := cases[3].Child("pattern")
	assert.Equal(t, pyast.Str("c"), as.Get("name"))
	alts := as.Child("pattern").Items("patterns")
	require.Len(t, alts, 3)
	for _, alt := range alts {
		assert.Equal(t, "MatchValue", alt.Type)
	}

	assert.Equal(t, pyast.None, cases[5].Child("pattern").Get("name"))

	_, err = pyast.NewCache().ParseVersion("match x:\n    case a as _:\n        pass\n", mode.PY310, false)
	assert.Error(t, err)
}

func TestCacheMemoizesConcurrentParses(t *testing.T) {
	c := pyast.NewCache()
	src := "def f(a, *args, b=1, **kw):\n    return [x for x in a]\n"

	var wg sync.WaitGroup
	trees := make([]*pyast.Node, 8)
	for i := range trees {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree, err := c.ParseVersion(src, mode.PY312, false)
			assert.NoError(t, err)
			trees[i] = tree
		}()
	}
	wg.Wait()

	for _, tree := range trees[1:] {
		assert.Same(t, trees[0], tree)
	}
	assert.Equal(t, 1, c.Len())

	_, err := c.Parse(src)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len(), "PY313 with type comments is tried first")
}

func TestCRLFSource(t *testing.T) {
	a, err := pyast.NewCache().Parse("if x:\r\n    y = 1\r\n")
	require.NoError(t, err)
	b, err := pyast.NewCache().Parse("if x:\n    y = 1\n")
	require.NoError(t, err)
	assert.True(t, pyast.Equivalent(a, b))
}

func TestArguments(t *testing.T) {
	tree, err := pyast.NewCache().ParseVersion("def f(a, b=1, /, c=2, *args, d, e=3, **kw): pass\n", mode.PY38, false)
	require.NoError(t, err)
	args := tree.Items("body")[0].Child("args")

	names := func(field string) []string {
		var out []string
		for _, a := range args.Items(field) {
			out = append(out, string(a.Get("arg").(pyast.Str)))
		}
		return out
	}
	assert.Equal(t, []string{"a", "b"}, names("posonlyargs"))
	assert.Equal(t, []string{"c"}, names("args"))
	assert.Equal(t, []string{"d", "e"}, names("kwonlyargs"))
	assert.Len(t, args.Items("defaults"), 2)
	kwDefaults := args.Items("kw_defaults")
	require.Len(t, kwDefaults, 2)
	assert.Nil(t, kwDefaults[0])
	assert.Equal(t, "Constant", kwDefaults[1].Type)
	assert.Equal(t, "args", string(args.Child("vararg").Get("arg").(pyast.Str)))
	assert.Equal(t, "kw", string(args.Child("kwarg").Get("arg").(pyast.Str)))
}
