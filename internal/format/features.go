package format

import (
	"strings"

	"pyfmt/internal/cst"
	"pyfmt/internal/mode"
	"pyfmt/internal/token"
)

// FeaturesUsed records the version-dependent features the tree uses.
func FeaturesUsed(tree *cst.Tree) *mode.Evidence {
	ev := mode.NewEvidence()
	for id := range tree.PreOrder(tree.Root) {
		n := tree.Node(id)
		switch {
		case n.Tok == token.String && n.IsLeaf():
			if i := strings.IndexAny(n.Value, `'"`); i > 0 && strings.ContainsAny(n.Value[:i], "fF") {
				ev.Add(mode.FStrings, n.Span)
			}
		case n.Tok == token.Number && n.IsLeaf():
			if strings.Contains(n.Value, "_") {
				ev.Add(mode.NumericUnderscores, n.Span)
			}
		case n.Tok == token.ColonEqual && n.IsLeaf():
			ev.Add(mode.AssignmentExpressions, n.Span)
		case n.Tok == token.Slash && n.IsLeaf():
			switch tree.ParentSym(id) {
			case cst.Typedargslist, cst.Varargslist, cst.Parameters:
				ev.Add(mode.PosOnlyArguments, n.Span)
			}
		case n.IsLeaf() && n.Tok == token.Name && (n.Value == "async" || n.Value == "await"):
			ev.Add(mode.AsyncIdentifiers, n.Span)
		case n.Sym == cst.MatchStmt:
			ev.Add(mode.PatternMatching, n.Span)
		case n.Sym == cst.ReturnStmt || n.Sym == cst.YieldExpr:
			if kids := n.Children; len(kids) == 2 && hasStarred(tree, kids[1]) {
				ev.Add(mode.UnpackingOnFlow, n.Span)
			}
		case n.Sym == cst.Decorator:
			if !isSimpleDecorator(tree, n.Children[1]) {
				ev.Add(mode.RelaxedDecorators, n.Span)
			}
		case n.Sym == cst.ImportFrom:
			if isFutureAnnotations(tree, id) {
				ev.Add(mode.FutureAnnotations, n.Span)
			}
		}
	}
	return ev
}

func hasStarred(tree *cst.Tree, id cst.NodeID) bool {
	switch tree.Sym(id) {
	case cst.TestlistStarExpr, cst.Testlist:
		for _, c := range tree.Children(id) {
			if tree.Sym(c) == cst.StarExpr {
				return true
			}
		}
	}
	return false
}

// isSimpleDecorator accepts a dotted name optionally followed by one call.
func isSimpleDecorator(tree *cst.Tree, expr cst.NodeID) bool {
	if tree.Kind(expr) == token.Name {
		return true
	}
	if tree.Sym(expr) != cst.Power {
		return false
	}
	kids := tree.Children(expr)
	if tree.Kind(kids[0]) != token.Name {
		return false
	}
	for i, tr := range kids[1:] {
		first := tree.Kind(tree.FirstLeaf(tr))
		switch {
		case first == token.Dot:
		case first == token.LPar && i == len(kids)-2:
		default:
			return false
		}
	}
	return true
}

func isFutureAnnotations(tree *cst.Tree, id cst.NodeID) bool {
	kids := tree.Children(id)
	if len(kids) < 4 || !tree.IsName(kids[1], "__future__") {
		return false
	}
	for leaf := range tree.Leaves(id) {
		if tree.IsName(leaf, "annotations") {
			return true
		}
	}
	return false
}
