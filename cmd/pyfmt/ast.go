package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pyfmt/internal/diag"
	"pyfmt/internal/diagfmt"
	"pyfmt/internal/driver"
	"pyfmt/internal/pyast"
	"pyfmt/internal/source"
)

var astCmd = &cobra.Command{
	Use:   "ast [flags] file.py [other.py]",
	Short: "Print the canonical AST of a file, or compare two files",
	Long: `Ast prints the canonical line stream used to prove that formatting kept the
program unchanged. With two files it compares them the same way fmt does and
prints the difference.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAST,
}

func init() {
	astCmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
}

type astOutput struct {
	Path  string   `json:"path" yaml:"path"`
	Lines []string `json:"lines" yaml:"lines"`
}

func runAST(cmd *cobra.Command, args []string) error {
	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	outFormat, err := diagfmt.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	trees := make([]*pyast.Node, 0, len(args))
	bag := diag.NewBag(len(args))
	for _, path := range args {
		id, err := fs.Load(path)
		if err != nil {
			return fmt.Errorf("ast: %w", err)
		}
		file := fs.Get(id)
		tree, err := pyast.Parse(string(file.Content))
		if err != nil {
			bag.Add(driver.Diagnose(file, err))
			continue
		}
		trees = append(trees, tree)
	}
	if bag.Len() > 0 {
		if err := printBag(cmd, bag, fs); err != nil {
			return err
		}
		return errors.New("ast: cannot parse source")
	}

	if len(trees) == 2 {
		if err := pyast.Compare(trees[0], trees[1]); err != nil {
			var safety *pyast.SafetyError
			if errors.As(err, &safety) {
				fmt.Fprint(os.Stdout, safety.Diff)
			}
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return &exitError{code: 1, msg: fmt.Sprintf("%s and %s are not equivalent", args[0], args[1])}
		}
		fmt.Fprintf(os.Stdout, "%s and %s are equivalent\n", args[0], args[1])
		return nil
	}

	lines := pyast.Lines(trees[0])
	if outFormat != diagfmt.FormatPretty {
		return diagfmt.Encode(os.Stdout, astOutput{Path: args[0], Lines: lines}, outFormat)
	}
	_, err = fmt.Fprintln(os.Stdout, strings.Join(lines, "\n"))
	return err
}
