package brackets

import (
	"pyfmt/internal/cst"
	"pyfmt/internal/token"
)

// MaxDelimiterPriorityInAtom returns the highest delimiter priority inside a
// parenthesized atom. Anything that is not "( ... )" yields NoPriority, as
// does an atom without delimiters.
func MaxDelimiterPriorityInAtom(tree *cst.Tree, node cst.NodeID) Priority {
	if tree.Sym(node) != cst.Atom {
		return NoPriority
	}
	kids := tree.Children(node)
	if len(kids) < 2 || tree.Kind(kids[0]) != token.LPar || tree.Kind(kids[len(kids)-1]) != token.RPar {
		return NoPriority
	}

	bt := NewTracker(tree)
	for _, c := range kids[1 : len(kids)-1] {
		for leaf := range tree.Leaves(c) {
			if err := bt.Track(leaf); err != nil {
				return NoPriority
			}
		}
	}
	p, err := bt.MaxDelimiterPriority()
	if err != nil {
		return NoPriority
	}
	return p
}

// LeavesInsideMatchingBrackets returns the leaves enclosed by matched
// bracket pairs, the brackets included. Unmatched brackets may appear at
// either end of leaves; scanning starts at the first opening bracket and
// stops at the first closing bracket that does not match.
func LeavesInsideMatchingBrackets(tree *cst.Tree, leaves []cst.NodeID) map[cst.NodeID]struct{} {
	ids := make(map[cst.NodeID]struct{})
	start := -1
	for i, l := range leaves {
		if tree.Kind(l).IsOpeningBracket() {
			start = i
			break
		}
	}
	if start < 0 {
		return ids
	}

	type open struct {
		closing token.Kind
		index   int
	}
	var stack []open
	for i := start; i < len(leaves); i++ {
		kind := tree.Kind(leaves[i])
		if kind.IsOpeningBracket() {
			stack = append(stack, open{token.ClosingFor(kind), i})
		}
		if !kind.IsClosingBracket() {
			continue
		}
		if len(stack) == 0 || stack[len(stack)-1].closing != kind {
			break
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, l := range leaves[top.index : i+1] {
			ids[l] = struct{}{}
		}
	}
	return ids
}
