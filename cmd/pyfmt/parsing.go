package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pyfmt/internal/diag"
	"pyfmt/internal/diagfmt"
	"pyfmt/internal/driver"
	"pyfmt/internal/linegen"
	"pyfmt/internal/mode"
	"pyfmt/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.py",
	Short: "Parse a Python file and print its syntax tree",
	Long: `Parse tries the grammars allowed by --target-version (all of them by default)
and prints the concrete syntax tree of the first one that accepts the file`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

var bracketsCmd = &cobra.Command{
	Use:   "brackets [flags] file.py",
	Short: "Print logical lines with bracket depths and delimiter priorities",
	Args:  cobra.ExactArgs(1),
	RunE:  runBrackets,
}

func init() {
	for _, cmd := range []*cobra.Command{parseCmd, bracketsCmd} {
		cmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
		cmd.Flags().StringSlice("target-version", nil, "Python versions to parse for (py33..py313)")
	}
}

// parseCommon parses args[0] and prints the diagnostics. A nil tree in the
// result means no grammar accepted the file.
func parseCommon(cmd *cobra.Command, path string) (*driver.ParseResult, diagfmt.Format, error) {
	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get format flag: %w", err)
	}
	outFormat, err := diagfmt.ParseFormat(formatFlag)
	if err != nil {
		return nil, 0, err
	}
	items, err := cmd.Flags().GetStringSlice("target-version")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get target-version flag: %w", err)
	}
	targets, err := mode.ParseTargetVersions(items)
	if err != nil {
		return nil, 0, err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	res, err := driver.Parse(path, targets, maxDiagnostics)
	if err != nil {
		return nil, 0, fmt.Errorf("parse failed: %w", err)
	}
	if err := printBag(cmd, res.Bag, res.FileSet); err != nil {
		return nil, 0, err
	}
	return res, outFormat, nil
}

// printBag renders diagnostics to stderr honoring --color.
func printBag(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	colored, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	bag.Sort()
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:     colored,
		Context:   2,
		ShowNotes: true,
	})
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	res, outFormat, err := parseCommon(cmd, args[0])
	if err != nil {
		return err
	}
	if res.Tree == nil {
		return fmt.Errorf("parse failed: cannot parse %s", args[0])
	}
	if err := diagfmt.FormatTree(os.Stdout, res.Tree, res.FileSet, outFormat); err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	if outFormat == diagfmt.FormatPretty && !quiet {
		fmt.Fprintf(os.Stderr, "features: %s\n", joinStrings(res.Features))
		fmt.Fprintf(os.Stderr, "targets:  %s\n", joinStrings(res.Targets))
	}
	return nil
}

func runBrackets(cmd *cobra.Command, args []string) error {
	res, outFormat, err := parseCommon(cmd, args[0])
	if err != nil {
		return err
	}
	if res.Tree == nil {
		return fmt.Errorf("brackets: cannot parse %s", args[0])
	}
	linegen.NormalizeInvisibleParens(res.Tree)
	lines, err := linegen.Generate(cmd.Context(), res.Tree)
	if err != nil {
		res.Bag.Add(driver.Diagnose(res.File, err))
		if perr := printBag(cmd, res.Bag, res.FileSet); perr != nil {
			return perr
		}
		return fmt.Errorf("brackets: %w", err)
	}
	return diagfmt.FormatLines(os.Stdout, res.Tree, lines, outFormat)
}

func joinStrings[T fmt.Stringer](items []T) string {
	if len(items) == 0 {
		return "-"
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, ", ")
}
