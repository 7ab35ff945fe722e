package linegen

import (
	"strings"

	"pyfmt/internal/brackets"
	"pyfmt/internal/cst"
	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

// parensAfter lists, per statement, the leaves whose following child gets
// normalized parentheses, and whether commas may lose their brackets there.
var parensAfter = map[cst.Symbol]struct {
	after      []string
	allowComma bool
}{
	cst.ReturnStmt: {after: []string{"return"}},
	cst.DelStmt:    {after: []string{"del"}, allowComma: true},
	cst.ForStmt:    {after: []string{"for", "in"}, allowComma: true},
	cst.IfStmt:     {after: []string{"if", "elif"}},
	cst.WhileStmt:  {after: []string{"while"}},
}

// NormalizeInvisibleParens makes redundant parentheses after statement
// keywords and assignment operators invisible and wraps bare children in
// invisible parentheses, so every such child is an atom the tracker sees as
// a bracket pair. A one-element tuple without brackets gets visible ones.
func NormalizeInvisibleParens(tree *cst.Tree) {
	var stmts []cst.NodeID
	for id := range tree.PreOrder(tree.Root) {
		switch tree.Sym(id) {
		case cst.ReturnStmt, cst.DelStmt, cst.ForStmt, cst.IfStmt, cst.WhileStmt, cst.ExprStmt:
			stmts = append(stmts, id)
		}
	}
	for _, stmt := range stmts {
		kids := append([]cst.NodeID(nil), tree.Children(stmt)...)
		rule, known := parensAfter[tree.Sym(stmt)]
		for i := 0; i+1 < len(kids); i++ {
			prev, child := kids[i], kids[i+1]
			switch {
			case known && tree.IsLeaf(prev) && containsName(rule.after, tree.Value(prev)):
				normalizeChild(tree, prev, child, rule.allowComma)
			case !known && (tree.Kind(prev) == token.Equal || tree.Kind(prev).IsAugAssign()):
				normalizeChild(tree, prev, child, false)
			}
		}
	}
}

func containsName(names []string, v string) bool {
	for _, n := range names {
		if n == v {
			return true
		}
	}
	return false
}

func normalizeChild(tree *cst.Tree, prev, child cst.NodeID, allowComma bool) {
	switch {
	case tree.Sym(child) == cst.Atom:
		if maybeMakeInvisible(tree, prev, child, allowComma) {
			wrap(tree, child, false)
		}
	case isOneTuple(tree, child):
		wrap(tree, child, true)
	default:
		wrap(tree, child, false)
	}
}

// maybeMakeInvisible hides the parentheses of a redundant "( ... )" atom. It
// returns true when the atom is bracketed otherwise and should be wrapped.
func maybeMakeInvisible(tree *cst.Tree, prev, atom cst.NodeID, allowComma bool) bool {
	kids := tree.Children(atom)
	first, last := kids[0], kids[len(kids)-1]
	if tree.Kind(first) != token.LPar || tree.Kind(last) != token.RPar {
		return true
	}
	if len(kids) != 3 {
		return false
	}
	middle := kids[1]
	if isOneTuple(tree, atom) || isYield(tree, middle) || tree.Sym(middle) == cst.NamedexprTest ||
		hasStarredOrComprehension(tree, middle) || !singleLine(tree, atom) {
		return false
	}
	if !allowComma && brackets.MaxDelimiterPriorityInAtom(tree, atom) >= brackets.CommaPriority {
		return false
	}

	lpar, rpar := tree.Node(first), tree.Node(last)
	if lpar.Value == "" {
		return false
	}
	if lpar.Prefix == "" && tree.Kind(prev) == token.Name {
		lpar.Prefix = " "
	}
	lpar.Value, rpar.Value, rpar.Prefix = "", "", ""
	tree.SetPrefix(middle, "")
	if next := tree.FirstLeaf(tree.NextSibling(atom)); tree.Kind(next) == token.Name && tree.Node(next).Prefix == "" {
		tree.Node(next).Prefix = " "
	}
	if tree.Sym(middle) == cst.Atom {
		maybeMakeInvisible(tree, cst.NoNodeID, middle, allowComma)
	}
	return false
}

// wrap puts child into a new atom between parentheses; the prefix moves to
// the opening one.
func wrap(tree *cst.Tree, child cst.NodeID, visible bool) {
	parent := tree.Parent(child)
	idx := tree.Remove(child)
	if idx < 0 {
		return
	}
	open, closing := "", ""
	if visible {
		open, closing = "(", ")"
	}
	lpar := tree.NewLeaf(token.LPar, open, tree.Prefix(child), source.Span{})
	tree.SetPrefix(child, "")
	rpar := tree.NewLeaf(token.RPar, closing, "", source.Span{})
	tree.InsertChild(parent, idx, tree.NewNode(cst.Atom, lpar, child, rpar))
}

// isOneTuple reports "x," or "(x,)".
func isOneTuple(tree *cst.Tree, id cst.NodeID) bool {
	if tree.Sym(id) == cst.Atom {
		kids := tree.Children(id)
		if len(kids) != 3 || tree.Kind(kids[0]) != token.LPar {
			return false
		}
		id = kids[1]
		if tree.Sym(id) != cst.TestlistGexp {
			return false
		}
	} else {
		switch tree.Sym(id) {
		case cst.Testlist, cst.TestlistStarExpr, cst.Exprlist:
		default:
			return false
		}
	}
	kids := tree.Children(id)
	return len(kids) == 2 && tree.Kind(kids[1]) == token.Comma
}

func isYield(tree *cst.Tree, id cst.NodeID) bool {
	return tree.Sym(id) == cst.YieldExpr || tree.IsName(id, "yield")
}

func hasStarredOrComprehension(tree *cst.Tree, id cst.NodeID) bool {
	if tree.Sym(id) == cst.StarExpr {
		return true
	}
	if tree.Sym(id) != cst.TestlistGexp {
		return false
	}
	for _, c := range tree.Children(id) {
		switch sym := tree.Sym(c); {
		case sym == cst.StarExpr, sym == cst.NamedexprTest, sym.IsCompFor():
			return true
		}
	}
	return false
}

func singleLine(tree *cst.Tree, atom cst.NodeID) bool {
	skip := true
	for leaf := range tree.Leaves(atom) {
		if skip {
			skip = false
			continue
		}
		if strings.ContainsAny(tree.Node(leaf).Prefix, "\n#\\") {
			return false
		}
	}
	return true
}
