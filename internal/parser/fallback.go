package parser

import (
	"errors"
	"fmt"
	"strings"

	"pyfmt/internal/cst"
	"pyfmt/internal/diag"
	"pyfmt/internal/grammar"
	"pyfmt/internal/lexer"
	"pyfmt/internal/mode"
	"pyfmt/internal/source"
)

const defaultPath = "<string>"

// InvalidInput is returned when no grammar variant accepts the source.
// Line is 1-based, Column is 0-based.
type InvalidInput struct {
	Line    int
	Column  int
	Excerpt string
	// Target is the highest requested target version; zero when none was given.
	Target  mode.TargetVersion
	Grammar *grammar.Grammar
	Err     error
}

func (e *InvalidInput) Error() string {
	tv := ""
	if e.Target != 0 {
		tv = " for target version " + e.Target.Pretty()
	}
	return fmt.Sprintf("Cannot parse%s: %d:%d: %s", tv, e.Line, e.Column, e.Excerpt)
}

func (e *InvalidInput) Unwrap() error { return e.Err }

const missingLine = "<line number missing in source>"

// Parse runs the grammar variants chosen for targets until one accepts src.
// When all of them fail the error of the highest grammar version is returned
// as *InvalidInput.
func Parse(src string, targets []mode.TargetVersion, opts Options) (*cst.Tree, error) {
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	if opts.Path == "" {
		opts.Path = defaultPath
	}
	if opts.Reporter != nil {
		opts.Reporter = diag.NewDedupReporter(opts.Reporter)
	}

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(opts.Path, []byte(src)))

	var maxTarget mode.TargetVersion
	if len(targets) > 0 {
		maxTarget = mode.MaxVersion(targets)
	}

	var worst *InvalidInput
	for _, g := range grammar.ForTargets(targets) {
		tree, err := ParseFile(file, g, opts)
		if err == nil {
			if tree.IsLeaf(tree.Root) {
				tree.Root = tree.NewNode(cst.FileInput, tree.Root)
			}
			return tree, nil
		}
		inv := newInvalidInput(file, err, maxTarget, g)
		if worst == nil || !g.Version.Less(worst.Grammar.Version) {
			worst = inv
		}
	}
	if worst == nil {
		return nil, &InvalidInput{Line: 1, Excerpt: missingLine, Target: maxTarget}
	}
	return nil, worst
}

func newInvalidInput(file *source.File, err error, target mode.TargetVersion, g *grammar.Grammar) *InvalidInput {
	inv := &InvalidInput{Target: target, Grammar: g, Err: err}

	var (
		pe *ParseError
		le *lexer.Error
	)
	switch {
	case errors.As(err, &pe):
		inv.Line, inv.Column = int(pe.Pos.Line), int(pe.Pos.Col)
		line, ok := file.GetLine(pe.Pos.Line)
		if !ok {
			line = missingLine
		}
		inv.Excerpt = strings.TrimSuffix(line, "\r")
	case errors.As(err, &le):
		// у ошибок токенизатора нет осмысленной строки-цитаты
		inv.Line, inv.Column = int(le.Pos.Line), int(le.Pos.Col)
		inv.Excerpt = le.Msg
	default:
		inv.Line, inv.Excerpt = 1, err.Error()
	}
	return inv
}

// MatchesGrammar reports whether src parses with g.
func MatchesGrammar(src string, g *grammar.Grammar) bool {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(defaultPath, []byte(src)))
	_, err := ParseFile(file, g, Options{})
	return err == nil
}
