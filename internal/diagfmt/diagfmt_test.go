package diagfmt_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyfmt/internal/diag"
	"pyfmt/internal/diagfmt"
	"pyfmt/internal/lexer"
	"pyfmt/internal/linegen"
	"pyfmt/internal/parser"
	"pyfmt/internal/source"
)

const badSource = "x = 1\ndef f(:\n    pass\n"

func badBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("/home/user/project/src/test.py", []byte(badSource))
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SynCannotParse,
		Primary:  source.Span{File: id, Start: 12, End: 13},
		Message:  "Cannot parse: 2:6: def f(:",
		Notes:    []diag.Note{{Msg: "last grammar tried: first\nsecond"}},
	})
	return bag, fs
}

func TestPrettyPathModes(t *testing.T) {
	bag, fs := badBag(t)
	tests := []struct {
		mode diagfmt.PathMode
		want string
	}{
		{diagfmt.PathModeAbsolute, "/home/user/project/src/test.py:2:7: "},
		{diagfmt.PathModeRelative, "src/test.py:2:7: "},
		{diagfmt.PathModeBasename, "test.py:2:7: "},
		{diagfmt.PathModeAuto, "src/test.py:2:7: "},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project", Context: -1})
		assert.True(t, strings.HasPrefix(buf.String(), tt.want), buf.String())
		assert.Contains(t, buf.String(), "ERROR SYN2002: Cannot parse: 2:6: def f(:")
	}
}

func TestPrettySnippet(t *testing.T) {
	bag, fs := badBag(t)
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{PathMode: diagfmt.PathModeBasename, Context: 1, ShowNotes: true})
	want := "test.py:2:7: ERROR SYN2002: Cannot parse: 2:6: def f(:\n" +
		"1 | x = 1\n" +
		"2 | def f(:\n" +
		"  |       ^\n" +
		"3 |     pass\n" +
		"  note: last grammar tried: first\n" +
		"    second\n"
	assert.Equal(t, want, buf.String())
}

func TestPrettyUnderlineWidth(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("wide.py", []byte("名 = (\nvalue = 1\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.LexEOFInStatement, Primary: source.Span{File: id, Start: 6, End: 7}, Message: "EOF"})
	bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.BrkNoDelims, Primary: source.Span{File: id, Start: 8, End: 13}, Message: "word"})

	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{Context: 0})
	out := buf.String()
	assert.Contains(t, out, "1 | 名 = (\n  |      ^\n")
	assert.Contains(t, out, "wide.py:2:1: WARNING BRK3002: word\n2 | value = 1\n  | ^~~~~\n")
}

func TestPrettyWithoutLocation(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("a.py", []byte("x = 1\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.VerNotEquivalent, Message: "INTERNAL ERROR"})

	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{Context: 2})
	assert.Equal(t, "a.py: ERROR VER4001: INTERNAL ERROR\n", buf.String())

	buf.Reset()
	diagfmt.Pretty(&buf, bag, nil, diagfmt.PrettyOpts{})
	assert.Equal(t, "ERROR VER4001: INTERNAL ERROR\n", buf.String())
}

func TestPrettyColor(t *testing.T) {
	bag, fs := badBag(t)
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{Color: true, Context: 0})
	assert.Contains(t, buf.String(), "\x1b[")

	buf.Reset()
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{Color: false, Context: 0})
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestDiagnosticsJSONAndYAML(t *testing.T) {
	bag, fs := badBag(t)
	bag.Add(diag.Diagnostic{Severity: diag.SevInfo, Code: diag.ObsTimings, Message: "timings", Notes: []diag.Note{{Msg: `{"kind":"fmt"}`}}})

	var buf bytes.Buffer
	require.NoError(t, diagfmt.JSON(&buf, bag, fs, diagfmt.JSONOpts{IncludePositions: true, PathMode: diagfmt.PathModeBasename}))
	var out diagfmt.DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, 2, out.Count)

	first := out.Diagnostics[0]
	assert.Equal(t, "ERROR", first.Severity)
	assert.Equal(t, "SYN2002", first.Code)
	assert.Equal(t, "Cannot parse source", first.Title)
	require.NotNil(t, first.Location)
	assert.Equal(t, "test.py", first.Location.File)
	assert.Equal(t, uint32(2), first.Location.StartLine)
	assert.Equal(t, uint32(6), first.Location.StartCol)
	assert.Empty(t, first.Notes)
	assert.Len(t, out.Diagnostics[1].Notes, 1)

	out = diagfmt.BuildDiagnosticsOutput(bag, fs, diagfmt.JSONOpts{Max: 1, IncludeNotes: true})
	assert.Equal(t, 1, out.Count)
	assert.Len(t, out.Diagnostics[0].Notes, 1)

	buf.Reset()
	require.NoError(t, diagfmt.YAML(&buf, bag, fs, diagfmt.JSONOpts{}))
	assert.Contains(t, buf.String(), "code: SYN2002")
	assert.Contains(t, buf.String(), "count: 2")
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]diagfmt.Format{"": diagfmt.FormatPretty, "JSON": diagfmt.FormatJSON, "yml": diagfmt.FormatYAML} {
		got, err := diagfmt.ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := diagfmt.ParseFormat("xml")
	assert.Error(t, err)

	m, err := diagfmt.ParsePathMode("rel")
	require.NoError(t, err)
	assert.Equal(t, diagfmt.PathModeRelative, m)
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.py", []byte("x = 1  # c\n")))
	toks, err := lexer.Tokenize(file, lexer.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, diagfmt.FormatTokens(&buf, toks, fs, diagfmt.FormatPretty))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, `  1: NAME            "x" at 1:0-1:1`, lines[0])
	assert.Contains(t, buf.String(), `NEWLINE`)
	assert.Contains(t, buf.String(), `(prefix: "  # c")`)
	assert.Contains(t, lines[len(lines)-1], "ENDMARKER")

	buf.Reset()
	require.NoError(t, diagfmt.FormatTokens(&buf, toks, fs, diagfmt.FormatJSON))
	var out []diagfmt.TokenOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "NAME", out[0].Kind)
	assert.Equal(t, "ENDMARKER", out[len(out)-1].Kind)
}

func TestFormatTreeAndLines(t *testing.T) {
	tree, err := parser.Parse("a + b, c\n", nil, parser.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, diagfmt.FormatTree(&buf, tree, nil, diagfmt.FormatPretty))
	assert.True(t, strings.HasPrefix(buf.String(), "file_input\n"))

	out := diagfmt.BuildTreeOutput(tree, tree.Root, nil)
	assert.Equal(t, "file_input", out.Type)
	assert.NotEmpty(t, out.Children)

	buf.Reset()
	require.NoError(t, diagfmt.FormatTree(&buf, tree, nil, diagfmt.FormatYAML))
	assert.Contains(t, buf.String(), "type: file_input")

	lines, err := linegen.Generate(context.Background(), tree)
	require.NoError(t, err)
	los := diagfmt.BuildLinesOutput(tree, lines)
	require.Len(t, los, 1)
	assert.Equal(t, "a + b, c", los[0].Text)
	assert.Equal(t, "comma", los[0].MaxPriority)
	assert.Equal(t, 2, los[0].Delimiters)
	require.Len(t, los[0].Leaves, 5)
	assert.Equal(t, "arith", los[0].Leaves[0].Delimiter)
	assert.Equal(t, "comma", los[0].Leaves[3].Delimiter)

	buf.Reset()
	require.NoError(t, diagfmt.FormatLines(&buf, tree, lines, diagfmt.FormatPretty))
	assert.Contains(t, buf.String(), "line 1 depth=0 max=comma delimiters=2: a + b, c\n")
	assert.Contains(t, buf.String(), `delimiter=arith`)
}
