package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyfmt/internal/diagfmt"
	"pyfmt/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.py",
	Short: "Tokenize a Python source file",
	Long:  `Tokenize breaks down a Python source file into its tokens, with the whitespace and comments before each one`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
	tokenizeCmd.Flags().Bool("async-keywords", false, "treat async and await as keywords everywhere")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	outFormat, err := diagfmt.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	asyncKeywords, err := cmd.Flags().GetBool("async-keywords")
	if err != nil {
		return fmt.Errorf("failed to get async-keywords flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Tokenize(filePath, maxDiagnostics, asyncKeywords)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Диагностика в stderr, токены в stdout
	if err := printBag(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}
	return diagfmt.FormatTokens(os.Stdout, result.Tokens, result.FileSet, outFormat)
}
