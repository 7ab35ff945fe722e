package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pyfmt/internal/diag"
	"pyfmt/internal/source"
)

type palette struct {
	path, code, gutter, caret, note *color.Color
	sev                             map[diag.Severity]*color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path:   color.New(color.Bold),
		code:   color.New(color.Faint),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan),
		},
	}
	all := []*color.Color{p.path, p.code, p.gutter, p.caret, p.note}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	if c, ok := p.sev[s]; ok {
		return c
	}
	return p.code
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
// Колонка в заголовке считается с 1.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	file := fileOf(fs, d.Primary)
	located := file != nil && hasLocation(d.Primary)

	var head strings.Builder
	if file != nil {
		head.WriteString(p.path.Sprint(location(fs, file, d.Primary, opts.PathMode, opts.BaseDir)))
		head.WriteString(": ")
	}
	head.WriteString(p.severity(d.Severity).Sprint(d.Severity.String()))
	head.WriteString(" ")
	head.WriteString(p.code.Sprint(d.Code.ID()))
	head.WriteString(": ")
	head.WriteString(d.Message)
	fmt.Fprintln(w, head.String())

	if located && opts.Context >= 0 {
		snippet(w, fs, file, d.Primary, opts.Context, p)
	}
	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		prefix := "  " + p.note.Sprint("note") + ": "
		if nf := fileOf(fs, n.Span); nf != nil && hasLocation(n.Span) {
			prefix += location(fs, nf, n.Span, opts.PathMode, opts.BaseDir) + ": "
		}
		lines := strings.Split(strings.TrimRight(n.Msg, "\n"), "\n")
		fmt.Fprintln(w, prefix+lines[0])
		for _, l := range lines[1:] {
			fmt.Fprintln(w, "    "+l)
		}
	}
}

func fileOf(fs *source.FileSet, sp source.Span) *source.File {
	if fs == nil {
		return nil
	}
	return fs.Get(sp.File)
}

// hasLocation: нулевой span в начале файла означает «без позиции».
func hasLocation(sp source.Span) bool {
	return sp.Start != 0 || sp.End != 0
}

func location(fs *source.FileSet, file *source.File, sp source.Span, mode PathMode, base string) string {
	path := formatPath(file.Path, mode, base)
	if !hasLocation(sp) {
		return path
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col+1)
}

// snippet prints numbered lines around the primary line and a caret
// underline below it. Wide runes and tabs are measured for display width.
func snippet(w io.Writer, fs *source.FileSet, file *source.File, sp source.Span, context int, p palette) {
	start, end := fs.Resolve(sp)
	first := max(1, int(start.Line)-context)
	last := min(int(file.LineCount()), int(start.Line)+context)
	width := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		text, ok := file.GetLine(uint32(n)) // #nosec G115 -- n is within LineCount
		if !ok {
			continue
		}
		text = expandTabs(strings.TrimSuffix(text, "\r"))
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, n), text)
		if n != int(start.Line) {
			continue
		}
		raw, _ := file.GetLine(uint32(n)) // #nosec G115 -- n is within LineCount
		col := min(int(start.Col), len(raw))
		stop := len(raw)
		if end.Line == start.Line {
			stop = min(max(int(end.Col), col), len(raw))
		}
		pad := runewidth.StringWidth(expandTabs(raw[:col]))
		mark := max(1, runewidth.StringWidth(expandTabs(raw[col:stop])))
		underline := "^" + strings.Repeat("~", mark-1)
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), strings.Repeat(" ", pad), p.caret.Sprint(underline))
	}
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", "    ")
}
