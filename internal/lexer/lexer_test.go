package lexer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyfmt/internal/diag"
	"pyfmt/internal/lexer"
	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

func tokenize(t *testing.T, input string, opts lexer.Options) ([]token.Token, error) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(input)))
	return lexer.Tokenize(file, opts)
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestSimpleStatement(t *testing.T) {
	toks, err := tokenize(t, "x = a.b(1, 'y')\n", lexer.Options{})
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.Name, token.Equal, token.Name, token.Dot, token.Name, token.LPar,
		token.Number, token.Comma, token.String, token.RPar, token.Newline, token.EndMarker,
	}, kinds(toks))
	assert.Equal(t, " ", toks[1].Prefix)
	assert.Equal(t, "'y'", toks[8].Text)
}

func TestPrefixesReproduceSource(t *testing.T) {
	src := "# header\n\ndef f(a,  # first\n      b):\n    return (a +\n            b)  # sum\n\n\n# tail\n"
	toks, err := tokenize(t, src, lexer.Options{})
	require.NoError(t, err)
	var b strings.Builder
	for _, tok := range toks {
		b.WriteString(tok.Prefix)
		b.WriteString(tok.Text)
	}
	assert.Equal(t, src, b.String())
	assert.Equal(t, "# header\n\n", toks[0].Prefix)
	assert.Equal(t, "\n\n# tail\n", toks[len(toks)-1].Prefix)
}

func TestIndentDedent(t *testing.T) {
	src := "if x:\n    y\n    if z:\n        w\nv\n"
	toks, err := tokenize(t, src, lexer.Options{})
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.Name, token.Name, token.Colon, token.Newline,
		token.Indent, token.Name, token.Newline,
		token.Name, token.Name, token.Colon, token.Newline,
		token.Indent, token.Name, token.Newline,
		token.Dedent, token.Dedent, token.Name, token.Newline, token.EndMarker,
	}, kinds(toks))
	indent := toks[4]
	assert.Empty(t, indent.Text)
	assert.Empty(t, indent.Prefix)
	assert.Equal(t, "    ", toks[5].Prefix)
}

func TestImplicitJoiningInsideBrackets(t *testing.T) {
	toks, err := tokenize(t, "f(a,\n  b)\n", lexer.Options{})
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.Name, token.LPar, token.Name, token.Comma, token.Name, token.RPar,
		token.Newline, token.EndMarker,
	}, kinds(toks))
	assert.Equal(t, "\n  ", toks[4].Prefix)
}

func TestBackslashContinuation(t *testing.T) {
	toks, err := tokenize(t, "x = 1 + \\\n    2\n", lexer.Options{})
	require.NoError(t, err)
	assert.Equal(t, " \\\n    ", toks[4].Prefix)
	assert.Equal(t, token.Number, toks[4].Kind)
}

func TestOperators(t *testing.T) {
	toks, err := tokenize(t, "a **= b // c <> d -> e := f ... @ g\n", lexer.Options{})
	require.NoError(t, err)
	want := []token.Kind{
		token.Name, token.DoubleStarEqual, token.Name, token.DoubleSlash, token.Name,
		token.NotEqual, token.Name, token.RArrow, token.Name, token.ColonEqual, token.Name,
		token.Ellipsis, token.At, token.Name, token.Newline, token.EndMarker,
	}
	assert.Equal(t, want, kinds(toks))
}

func TestNumbersAndStrings(t *testing.T) {
	toks, err := tokenize(t, "0XFF 1_000 .5 1. 1e-3 10J rb'\\d' F\"x\" '''a\nb'''\n", lexer.Options{})
	require.NoError(t, err)
	var texts []string
	for _, tok := range toks[:9] {
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []string{"0XFF", "1_000", ".5", "1.", "1e-3", "10J", `rb'\d'`, `F"x"`, "'''a\nb'''"}, texts)
	for _, tok := range toks[:6] {
		assert.Equal(t, token.Number, tok.Kind, tok.Text)
	}
	for _, tok := range toks[6:9] {
		assert.Equal(t, token.String, tok.Kind, tok.Text)
	}
}

func TestAsyncClassicMode(t *testing.T) {
	src := "async = 1\nasync def f():\n    await x\nawait = 2\n"
	toks, err := tokenize(t, src, lexer.Options{})
	require.NoError(t, err)
	var got []token.Kind
	for _, tok := range toks {
		if tok.Text == "async" || tok.Text == "await" {
			got = append(got, tok.Kind)
		}
	}
	assert.Equal(t, []token.Kind{token.Name, token.Async, token.Await, token.Name}, got)
}

func TestAsyncKeywordMode(t *testing.T) {
	toks, err := tokenize(t, "async = 1\n", lexer.Options{AsyncKeywords: true})
	require.NoError(t, err)
	assert.Equal(t, token.Async, toks[0].Kind)
}

func TestFatalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
		line uint32
		col  uint32
	}{
		{"open bracket", "foo(\n", "EOF in multi-line statement", 2, 0},
		{"triple quote", "x = '''abc\n", "EOF in multi-line string", 1, 4},
		{"bad dedent", "if x:\n    a\n  b\n", "unindent does not match any outer indentation level", 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := diag.NewBag(10)
			toks, err := tokenize(t, tt.src, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
			require.Error(t, err)
			var lerr *lexer.Error
			require.ErrorAs(t, err, &lerr)
			assert.Equal(t, tt.msg, lerr.Msg)
			assert.Equal(t, tt.line, lerr.Pos.Line)
			assert.Equal(t, tt.col, lerr.Pos.Col)
			assert.Equal(t, token.Invalid, toks[len(toks)-1].Kind)
			assert.True(t, bag.HasErrors())
		})
	}
}

func TestUnterminatedSingleQuoteIsInvalidToken(t *testing.T) {
	bag := diag.NewBag(10)
	toks, err := tokenize(t, "x = 'abc\ny = 1\n", lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	require.NoError(t, err)
	assert.Equal(t, token.Invalid, toks[2].Kind)
	assert.Equal(t, "'abc", toks[2].Text)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.LexUnterminatedString, bag.Items()[0].Code)
}

func TestMissingTrailingNewline(t *testing.T) {
	toks, err := tokenize(t, "if x:\n    pass", lexer.Options{})
	require.NoError(t, err)
	n := len(toks)
	assert.Equal(t, []token.Kind{token.Newline, token.Dedent, token.EndMarker}, kinds(toks[n-3:]))
}
