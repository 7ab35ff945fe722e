package format

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"pyfmt/internal/linegen"
	"pyfmt/internal/mode"
	"pyfmt/internal/parser"
	"pyfmt/internal/token"
	"pyfmt/internal/trace"
)

// ErrNothingChanged is returned when formatting leaves the source as is.
var ErrNothingChanged = errors.New("nothing changed")

type Options struct {
	// TargetVersions limits the grammars tried; empty means infer from the source.
	TargetVersions []mode.TargetVersion
	// SkipStringNormalization leaves string prefixes alone.
	SkipStringNormalization bool
	// Path names the source in parse errors.
	Path string
}

// Result is one formatted source.
type Result struct {
	Output  string
	Changed bool
	// Lines is the number of logical lines the tracker saw.
	Lines int
	// Features used by the source; Targets are the versions that support them
	// when Options.TargetVersions is empty, else the given ones.
	Features []mode.Feature
	Targets  []mode.TargetVersion
}

// FormatSource formats src. Unchanged input yields ErrNothingChanged.
func FormatSource(src string, opts Options) (string, error) {
	res, err := Format(context.Background(), src, opts)
	if err != nil {
		return "", err
	}
	if !res.Changed {
		return "", ErrNothingChanged
	}
	return res.Output, nil
}

// Format parses src with grammar fallback, applies every pass and renders
// the tree. Parse failures are *parser.InvalidInput; a bracket mismatch on a
// line is *brackets.BracketMatchError.
func Format(ctx context.Context, src string, opts Options) (*Result, error) {
	if strings.TrimSpace(src) == "" {
		return &Result{Output: src, Targets: opts.TargetVersions}, nil
	}
	ctx, span := trace.Start(ctx, trace.ScopePass, "format")
	defer span.End("")

	tree, err := parser.Parse(src, opts.TargetVersions, parser.Options{Path: opts.Path})
	if err != nil {
		return nil, err
	}

	ev := FeaturesUsed(tree)
	res := &Result{Features: ev.Features(), Targets: opts.TargetVersions}
	if len(res.Targets) == 0 {
		res.Targets = mode.InferTargetVersions(ev)
	}

	for leaf := range tree.Leaves(tree.Root) {
		n := tree.Node(leaf)
		switch n.Tok {
		case token.Number:
			n.Value = NormalizeNumber(n.Value)
		case token.String:
			if !opts.SkipStringNormalization {
				n.Value = NormalizeStringPrefix(n.Value)
			}
		}
	}
	linegen.NormalizeInvisibleParens(tree)

	lines, err := linegen.Generate(ctx, tree)
	if err != nil {
		return nil, err
	}
	res.Lines = len(lines)
	res.Output = tree.String()
	res.Changed = res.Output != src
	span.WithExtra("lines", strconv.Itoa(res.Lines))
	return res, nil
}
