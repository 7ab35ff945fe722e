package diagfmt

import (
	"io"

	"pyfmt/internal/cst"
	"pyfmt/internal/source"
)

type TreeNodeOutput struct {
	Type     string           `json:"type" yaml:"type"`
	Value    string           `json:"value,omitempty" yaml:"value,omitempty"`
	Prefix   string           `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Line     uint32           `json:"line,omitempty" yaml:"line,omitempty"`
	Col      uint32           `json:"col,omitempty" yaml:"col,omitempty"`
	Children []TreeNodeOutput `json:"children,omitempty" yaml:"children,omitempty"`
}

// BuildTreeOutput converts the subtree at id. Positions are filled for
// leaves when fs knows the tree's file.
func BuildTreeOutput(tree *cst.Tree, id cst.NodeID, fs *source.FileSet) TreeNodeOutput {
	n := tree.Node(id)
	if n == nil {
		return TreeNodeOutput{Type: "<nil>"}
	}
	if n.IsLeaf() {
		out := TreeNodeOutput{Type: n.Tok.String(), Value: n.Value, Prefix: n.Prefix}
		if f := fileOf(fs, n.Span); f != nil && hasLocation(n.Span) {
			pos, _ := fs.Resolve(n.Span)
			out.Line, out.Col = pos.Line, pos.Col
		}
		return out
	}
	out := TreeNodeOutput{Type: n.Sym.String()}
	for _, c := range tree.Children(id) {
		out.Children = append(out.Children, BuildTreeOutput(tree, c, fs))
	}
	return out
}

// FormatTree renders a concrete syntax tree: an indented guide tree for
// FormatPretty, nested nodes for JSON and YAML.
func FormatTree(w io.Writer, tree *cst.Tree, fs *source.FileSet, f Format) error {
	if f == FormatPretty {
		return tree.Dump(w, tree.Root)
	}
	return Encode(w, BuildTreeOutput(tree, tree.Root, fs), f)
}
