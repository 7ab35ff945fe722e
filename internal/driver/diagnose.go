package driver

import (
	"errors"
	"io/fs"

	"fortio.org/safecast"

	"pyfmt/internal/brackets"
	"pyfmt/internal/diag"
	"pyfmt/internal/lexer"
	"pyfmt/internal/parser"
	"pyfmt/internal/pyast"
	"pyfmt/internal/source"
)

// Diagnose turns a formatting failure into a diagnostic anchored in file.
// file may be nil when the failure happened before the file was loaded.
func Diagnose(file *source.File, err error) diag.Diagnostic {
	d := diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.UnknownCode,
		Message:  err.Error(),
	}
	var (
		inv     *parser.InvalidInput
		safety  *pyast.SafetyError
		syn     *pyast.SyntaxError
		bracket *brackets.BracketMatchError
		pathErr *fs.PathError
	)
	switch {
	case errors.As(err, &inv):
		d.Code = diag.SynCannotParse
		d.Message = inv.Error()
		d.Primary = invalidInputSpan(file, inv)
		var le *lexer.Error
		if errors.As(inv.Err, &le) {
			d.Code = lexerCode(le.Msg)
		}
		if inv.Grammar != nil {
			d = d.WithNote(source.Span{}, "last grammar tried: "+inv.Grammar.String())
		}
	case errors.As(err, &safety):
		d.Code = diag.VerNotEquivalent
		d.Message = "INTERNAL ERROR: " + safety.Msg
		if safety.Err != nil {
			d = d.WithNote(source.Span{}, safety.Err.Error())
		}
		if safety.Diff != "" {
			d = d.WithNote(source.Span{}, safety.Diff)
		}
	case errors.Is(err, ErrUnstable):
		d.Code = diag.VerUnstable
	case errors.As(err, &syn):
		d.Code = diag.VerSourceInvalid
		d.Primary = spanAt(file, syn.Line, syn.Column)
	case errors.As(err, &bracket):
		d.Code = diag.BrkUnmatched
	case errors.As(err, &pathErr):
		d.Code = diag.IOLoadFailed
	}
	return d
}

func lexerCode(msg string) diag.Code {
	switch msg {
	case diag.LexEOFInStatement.Title():
		return diag.LexEOFInStatement
	case "EOF in multi-line string":
		return diag.LexUnterminatedString
	case "unindent does not match any outer indentation level":
		return diag.LexBadIndent
	}
	return diag.SynCannotParse
}

// invalidInputSpan prefers the offending token over the line/column pair.
// Spans produced by the parser point into its own virtual file, whose
// content matches file byte for byte.
func invalidInputSpan(file *source.File, inv *parser.InvalidInput) source.Span {
	var pe *parser.ParseError
	if file != nil && errors.As(inv.Err, &pe) && !pe.Tok.Span.Empty() {
		sp := pe.Tok.Span
		sp.File = file.ID
		return clampSpan(file, sp)
	}
	return spanAt(file, inv.Line, inv.Column)
}

// spanAt returns a one-byte span at a 1-based line and 0-based column.
func spanAt(file *source.File, line, col int) source.Span {
	if file == nil || line < 1 {
		return source.Span{}
	}
	var start uint32
	if line > 1 {
		if line-2 >= len(file.LineIdx) {
			end := contentLen(file)
			return source.Span{File: file.ID, Start: end, End: end}
		}
		start = file.LineIdx[line-2] + 1
	}
	c, err := safecast.Conv[uint32](col)
	if err != nil {
		c = 0
	}
	return clampSpan(file, source.Span{File: file.ID, Start: start + c, End: start + c + 1})
}

func clampSpan(file *source.File, sp source.Span) source.Span {
	n := contentLen(file)
	sp.Start = min(sp.Start, n)
	sp.End = min(max(sp.End, sp.Start), n)
	return sp
}

func contentLen(file *source.File) uint32 {
	n, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return 0
	}
	return n
}
