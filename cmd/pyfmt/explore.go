package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"pyfmt/internal/diag"
	"pyfmt/internal/diagfmt"
	"pyfmt/internal/lexer"
	"pyfmt/internal/linegen"
	"pyfmt/internal/mode"
	"pyfmt/internal/parser"
)

const (
	explorePrompt  = ">>> "
	exploreCont    = "... "
	exploreHistory = ".pyfmt_history"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Interactively inspect bracket depths and split priorities",
	Long: `Explore reads Python statements and prints every logical line with the
bracket depth of each leaf and the priority of the delimiters it could be
split at. Commands: :targets [py38 ...], :tree, :quit`,
	Args: cobra.NoArgs,
	RunE: runExplore,
}

// explorer keeps the REPL settings between inputs.
type explorer struct {
	ctx      context.Context
	out      io.Writer
	targets  []mode.TargetVersion
	showTree bool
	errColor *color.Color
}

func runExplore(cmd *cobra.Command, args []string) error {
	colored, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	ex := &explorer{ctx: cmd.Context(), out: os.Stdout, errColor: color.New(color.FgRed)}
	if !colored {
		ex.errColor.DisableColor()
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, exploreHistory)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readStatement(ln)
		if !ok {
			fmt.Fprintln(ex.out)
			return nil
		}
		trimmed := strings.TrimSpace(src)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, ":"):
			if quit := ex.command(trimmed); quit {
				return nil
			}
		default:
			ex.explore(src)
		}
		ln.AppendHistory(strings.ReplaceAll(strings.TrimRight(src, "\n"), "\n", " "))
	}
}

// readStatement collects input lines until they form a complete statement.
// A line ending in ':' opens a block that an empty line closes.
func readStatement(ln *liner.State) (string, bool) {
	var b strings.Builder
	block := false
	for {
		prompt := explorePrompt
		if b.Len() > 0 {
			prompt = exploreCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if err != nil {
			return "", false
		}
		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true
		}
		b.WriteString(line)
		b.WriteByte('\n')

		if block {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			continue
		}
		if strings.HasSuffix(strings.TrimSpace(line), ":") {
			block = true
			continue
		}
		if !incomplete(b.String()) {
			return b.String(), true
		}
	}
}

// incomplete reports whether src only fails because input ended inside
// brackets or a triple-quoted string.
func incomplete(src string) bool {
	_, err := parser.Parse(src, nil, parser.Options{Path: "<stdin>"})
	var le *lexer.Error
	if !errors.As(err, &le) {
		return false
	}
	return le.Msg == diag.LexEOFInStatement.Title() || le.Msg == "EOF in multi-line string"
}

func (ex *explorer) command(line string) (quit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":tree":
		ex.showTree = !ex.showTree
		fmt.Fprintf(ex.out, "tree dump %s\n", onOff(ex.showTree))
	case ":targets":
		if len(fields) == 1 {
			fmt.Fprintf(ex.out, "targets: %s\n", joinStrings(ex.targets))
			return false
		}
		targets, err := mode.ParseTargetVersions(fields[1:])
		if err != nil {
			ex.errColor.Fprintln(ex.out, err.Error())
			return false
		}
		ex.targets = targets
		fmt.Fprintf(ex.out, "targets: %s\n", joinStrings(ex.targets))
	default:
		ex.errColor.Fprintf(ex.out, "unknown command %s. Try :targets, :tree or :quit\n", fields[0])
	}
	return false
}

func (ex *explorer) explore(src string) {
	tree, err := parser.Parse(src, ex.targets, parser.Options{Path: "<stdin>"})
	if err != nil {
		ex.errColor.Fprintln(ex.out, err.Error())
		return
	}
	if ex.showTree {
		_ = tree.Dump(ex.out, tree.Root)
	}
	linegen.NormalizeInvisibleParens(tree)
	lines, err := linegen.Generate(ex.ctx, tree)
	if err != nil {
		ex.errColor.Fprintln(ex.out, err.Error())
		return
	}
	if err := diagfmt.FormatLines(ex.out, tree, lines, diagfmt.FormatPretty); err != nil {
		ex.errColor.Fprintln(ex.out, err.Error())
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
