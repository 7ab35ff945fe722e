package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"pyfmt/internal/format"
	"pyfmt/internal/pyast"
)

// ErrUnstable is wrapped by AssertStable when a second pass changes the output.
var ErrUnstable = errors.New("formatting is not stable")

// AssertEquivalent parses src and dst into canonical ASTs and compares them.
// A dst that does not parse or differs from src yields *pyast.SafetyError.
// A src that does not parse is a plain wrapped error: there is nothing to
// compare against.
func AssertEquivalent(src, dst string) error {
	srcAST, err := pyast.Parse(src)
	if err != nil {
		return fmt.Errorf("cannot parse source into AST: %w", err)
	}
	dstAST, err := pyast.Parse(dst)
	if err != nil {
		return pyast.InvalidOutput(err)
	}
	return pyast.Compare(srcAST, dstAST)
}

// AssertStable formats dst once more and fails when that changes it.
// src is the input dst was produced from.
func AssertStable(ctx context.Context, src, dst string, opts format.Options) error {
	if src == dst {
		return nil
	}
	res, err := format.Format(ctx, dst, opts)
	if err != nil {
		return fmt.Errorf("%w: second pass failed: %w", ErrUnstable, err)
	}
	if res.Output == dst {
		return nil
	}
	return fmt.Errorf("%w: second pass changed the output\n%s", ErrUnstable, textDiff(dst, res.Output, "first pass", "second pass"))
}

// textDiff renders a unified diff of two sources.
func textDiff(a, b, fromName, toName string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("diff unavailable: %v", err)
	}
	if !strings.HasSuffix(diff, "\n") && diff != "" {
		diff += "\n"
	}
	return diff
}
