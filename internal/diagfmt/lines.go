package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"pyfmt/internal/cst"
	"pyfmt/internal/linegen"
)

// LeafOutput is one leaf of a logical line with its tracker annotations.
// Delimiter is the split priority recorded on the leaf, if any.
type LeafOutput struct {
	Kind      string `json:"kind" yaml:"kind"`
	Value     string `json:"value" yaml:"value"`
	Depth     int    `json:"depth" yaml:"depth"`
	Invisible bool   `json:"invisible,omitempty" yaml:"invisible,omitempty"`
	Delimiter string `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
}

type LineOutput struct {
	Index       int          `json:"index" yaml:"index"`
	Depth       int          `json:"depth" yaml:"depth"`
	Text        string       `json:"text" yaml:"text"`
	MaxPriority string       `json:"max_priority" yaml:"max_priority"`
	Delimiters  int          `json:"delimiters" yaml:"delimiters"`
	Comments    []string     `json:"comments,omitempty" yaml:"comments,omitempty"`
	Leaves      []LeafOutput `json:"leaves,omitempty" yaml:"leaves,omitempty"`
}

// BuildLinesOutput converts generated lines; empty trailing lines that only
// carry comments are kept so nothing from the source disappears.
func BuildLinesOutput(tree *cst.Tree, lines []*linegen.Line) []LineOutput {
	out := make([]LineOutput, 0, len(lines))
	for i, l := range lines {
		lo := LineOutput{
			Index:       i + 1,
			Depth:       l.Depth,
			Text:        strings.TrimSpace(l.String()),
			MaxPriority: l.MaxPriority().String(),
			Comments:    l.Before,
		}
		if l.Brackets != nil {
			lo.Delimiters = len(l.Brackets.Delimiters)
		}
		for _, leaf := range l.Leaves {
			n := tree.Node(leaf)
			lf := LeafOutput{
				Kind:      n.Tok.String(),
				Value:     n.Value,
				Depth:     tree.BracketDepth(leaf),
				Invisible: n.Value == "" && (n.Tok.IsOpeningBracket() || n.Tok.IsClosingBracket()),
			}
			if l.Brackets != nil {
				if p, ok := l.Brackets.Delimiters[leaf]; ok {
					lf.Delimiter = p.String()
				}
			}
			lo.Leaves = append(lo.Leaves, lf)
		}
		out = append(out, lo)
	}
	return out
}

// FormatLines renders logical lines with bracket depths and delimiter
// priorities.
func FormatLines(w io.Writer, tree *cst.Tree, lines []*linegen.Line, f Format) error {
	out := BuildLinesOutput(tree, lines)
	if f != FormatPretty {
		return Encode(w, out, f)
	}
	for _, l := range out {
		if _, err := fmt.Fprintf(w, "line %d depth=%d max=%s delimiters=%d: %s\n", l.Index, l.Depth, l.MaxPriority, l.Delimiters, l.Text); err != nil {
			return err
		}
		for _, c := range l.Comments {
			if _, err := fmt.Fprintf(w, "  comment %s\n", c); err != nil {
				return err
			}
		}
		for _, lf := range l.Leaves {
			value := fmt.Sprintf("%q", lf.Value)
			if lf.Invisible {
				value = "(invisible)"
			}
			row := fmt.Sprintf("  %-10s %-16s depth=%d", lf.Kind, value, lf.Depth)
			if lf.Delimiter != "" {
				row += " delimiter=" + lf.Delimiter
			}
			if _, err := fmt.Fprintln(w, row); err != nil {
				return err
			}
		}
	}
	return nil
}
