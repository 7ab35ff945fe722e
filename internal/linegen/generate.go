package linegen

import (
	"context"
	"strconv"
	"strings"

	"pyfmt/internal/cst"
	"pyfmt/internal/source"
	"pyfmt/internal/token"
	"pyfmt/internal/trace"
)

// Generate splits the tree into logical lines: simple statements (split at
// ';'), compound statement headers and decorators. Every leaf goes through
// the line's bracket tracker; a *brackets.BracketMatchError aborts.
func Generate(ctx context.Context, tree *cst.Tree) ([]*Line, error) {
	g := &generator{tree: tree, tracer: trace.FromContext(ctx), parent: trace.ParentSpan(ctx)}
	for leaf := range tree.Leaves(tree.Root) {
		if err := g.visit(leaf); err != nil {
			return nil, err
		}
	}
	g.flush()
	return g.lines, nil
}

type generator struct {
	tree   *cst.Tree
	lines  []*Line
	cur    *Line
	depth  int
	inline bool
	tracer trace.Tracer
	parent uint64
}

func (g *generator) visit(leaf cst.NodeID) error {
	tree := g.tree
	n := tree.Node(leaf)
	switch n.Tok {
	case token.Indent:
		g.depth++
		return nil
	case token.Dedent:
		g.depth--
		return nil
	case token.Newline:
		if err := g.comments(n.Prefix); err != nil {
			return err
		}
		g.flush()
		g.inline = false
		return nil
	case token.EndMarker:
		g.flush()
		if cs := comments(n.Prefix); len(cs) > 0 {
			g.lines = append(g.lines, &Line{Depth: 0, Before: cs, tree: tree})
		}
		return nil
	case token.Semi:
		if tree.ParentSym(leaf) == cst.SimpleStmt {
			g.flush()
			return nil
		}
	}

	if g.cur == nil {
		depth := g.depth
		if g.inline {
			depth++
		}
		g.cur = newLine(tree, depth)
		g.cur.Inline = g.inline
		g.cur.Before = comments(n.Prefix)
	} else if err := g.comments(n.Prefix); err != nil {
		return err
	}
	if err := g.cur.Append(leaf); err != nil {
		return err
	}
	if n.Tok == token.Colon && tree.Sym(tree.NextSibling(leaf)) == cst.SimpleStmt {
		g.flush()
		g.inline = true
	}
	return nil
}

// comments materializes the comments of an in-line prefix as COMMENT leaves.
func (g *generator) comments(prefix string) error {
	for _, c := range comments(prefix) {
		if g.cur == nil {
			continue
		}
		if err := g.cur.Append(g.tree.NewLeaf(token.Comment, c, "", source.Span{})); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) flush() {
	if g.cur == nil {
		return
	}
	l := g.cur
	g.cur = nil
	g.lines = append(g.lines, l)
	if g.tracer.Enabled() {
		trace.Point(g.tracer, trace.ScopeLine, "line",
			"depth="+strconv.Itoa(l.Depth)+" max="+l.MaxPriority().String(), g.parent)
	}
}

// comments returns the comment texts of a prefix, right-trimmed.
func comments(prefix string) []string {
	if !strings.Contains(prefix, "#") {
		return nil
	}
	var out []string
	for line := range strings.SplitSeq(prefix, "\n") {
		line = strings.TrimLeft(line, " \t\f\\\r")
		if strings.HasPrefix(line, "#") {
			out = append(out, strings.TrimRight(line, " \t\f\r"))
		}
	}
	return out
}
