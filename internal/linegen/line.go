package linegen

import (
	"strings"

	"pyfmt/internal/brackets"
	"pyfmt/internal/cst"
	"pyfmt/internal/token"
)

// Line is one logical line. Leaves are in source order and include
// synthetic COMMENT leaves for comments inside the line; invisible
// brackets are kept.
type Line struct {
	Depth  int
	Leaves []cst.NodeID
	// Before holds standalone comments on the lines preceding the first leaf.
	Before []string
	// Inline is set for the body of a compound header written on the same
	// source line ("if x: pass").
	Inline   bool
	Brackets *brackets.Tracker

	tree *cst.Tree
}

func newLine(tree *cst.Tree, depth int) *Line {
	return &Line{Depth: depth, Brackets: brackets.NewTracker(tree), tree: tree}
}

// Append tracks leaf and adds it to the line.
func (l *Line) Append(leaf cst.NodeID) error {
	if err := l.Brackets.Track(leaf); err != nil {
		return err
	}
	l.Leaves = append(l.Leaves, leaf)
	return nil
}

// IsEmpty reports a line without leaves: only trailing comments of a file.
func (l *Line) IsEmpty() bool { return len(l.Leaves) == 0 }

// MaxPriority is the highest delimiter priority, NoPriority when none.
func (l *Line) MaxPriority() brackets.Priority {
	p, err := l.Brackets.MaxDelimiterPriority()
	if err != nil {
		return brackets.NoPriority
	}
	return p
}

// SplitPoints returns the delimiters with the highest priority in order.
func (l *Line) SplitPoints() []cst.NodeID {
	top := l.MaxPriority()
	if top == brackets.NoPriority {
		return nil
	}
	var out []cst.NodeID
	for _, leaf := range l.Leaves {
		if l.Brackets.Delimiters[leaf] == top {
			out = append(out, leaf)
		}
	}
	return out
}

// Bracketed returns the leaves enclosed by matched brackets.
func (l *Line) Bracketed() map[cst.NodeID]struct{} {
	return brackets.LeavesInsideMatchingBrackets(l.tree, l.Leaves)
}

func (l *Line) first() cst.NodeID {
	for _, leaf := range l.Leaves {
		if l.tree.Kind(leaf) != token.Comment {
			return leaf
		}
	}
	return cst.NoNodeID
}

func (l *Line) IsDecorator() bool {
	return l.tree.Kind(l.first()) == token.At
}

// IsDef reports "def", "async def" and "class" headers.
func (l *Line) IsDef() bool {
	f := l.first()
	if l.tree.Kind(f) == token.Async || l.tree.IsName(f, "async") {
		return len(l.Leaves) > 1 && l.tree.IsName(l.Leaves[1], "def")
	}
	return l.tree.IsName(f, "def") || l.tree.IsName(f, "class")
}

// MagicTrailingComma reports a closing bracket right after a comma, other
// than the comma of a one-element tuple or subscript.
func (l *Line) MagicTrailingComma() bool {
	tree := l.tree
	var prev cst.NodeID
	for _, leaf := range l.Leaves {
		kind := tree.Kind(leaf)
		if kind == token.Comment {
			continue
		}
		if kind.IsClosingBracket() && tree.Kind(prev) == token.Comma && tree.Value(leaf) != "" {
			switch kind {
			case token.RBrace:
				return true
			case token.RSqb:
				if tree.ParentSym(prev) != cst.Subscriptlist || len(tree.Children(tree.Parent(prev))) > 2 {
					return true
				}
			case token.RPar:
				if !isOneTuple(tree, tree.Parent(leaf)) {
					return true
				}
			}
		}
		prev = leaf
	}
	return false
}

// String renders the line on one row with single spaces where the source
// had any whitespace.
func (l *Line) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("    ", l.Depth))
	pending, started := false, false
	for _, leaf := range l.Leaves {
		n := l.tree.Node(leaf)
		space := pending || strings.ContainsAny(n.Prefix, " \t\n\\")
		if n.Tok == token.Comment {
			space = true
		}
		if n.Value == "" {
			pending = space
			continue
		}
		if started && space {
			if n.Tok == token.Comment {
				sb.WriteString("  ")
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(n.Value)
		pending, started = false, true
	}
	return sb.String()
}
