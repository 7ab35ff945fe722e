package cst

import (
	"fmt"
	"io"
	"strings"
)

// Label describes a node on one line: "expr_stmt" or `NAME "x"`.
func (t *Tree) Label(id NodeID) string {
	n := t.Node(id)
	if n == nil {
		return "<nil>"
	}
	if !n.IsLeaf() {
		return n.Sym.String()
	}
	label := fmt.Sprintf("%s %q", n.Tok, n.Value)
	if n.Prefix != "" {
		label += fmt.Sprintf(" prefix=%q", n.Prefix)
	}
	return label
}

// Dump writes the subtree as an indented tree with ├─/└─ guides.
func (t *Tree) Dump(w io.Writer, id NodeID) error {
	if _, err := fmt.Fprintln(w, t.Label(id)); err != nil {
		return err
	}
	return t.dumpChildren(w, id, "")
}

func (t *Tree) dumpChildren(w io.Writer, id NodeID, prefix string) error {
	kids := t.Children(id)
	for i, c := range kids {
		branch, next := "├─ ", "│  "
		if i == len(kids)-1 {
			branch, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, t.Label(c)); err != nil {
			return err
		}
		if err := t.dumpChildren(w, c, prefix+next); err != nil {
			return err
		}
	}
	return nil
}

// DumpString is Dump into a string.
func (t *Tree) DumpString(id NodeID) string {
	var b strings.Builder
	_ = t.Dump(&b, id)
	return b.String()
}
