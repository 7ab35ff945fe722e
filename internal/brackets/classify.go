package brackets

import (
	"pyfmt/internal/cst"
	"pyfmt/internal/token"
)

// SymbolSet is a small set of grammar symbols.
type SymbolSet map[cst.Symbol]struct{}

func symbols(syms ...cst.Symbol) SymbolSet {
	s := make(SymbolSet, len(syms))
	for _, sym := range syms {
		s[sym] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s SymbolSet) Has(sym cst.Symbol) bool {
	_, ok := s[sym]
	return ok
}

var (
	// VarargsParents are the contexts where '*', '**' and '/' mark
	// variadic arguments or parameters.
	VarargsParents = symbols(cst.Arglist, cst.Argument, cst.Trailer, cst.Typedargslist, cst.Varargslist)
	// UnpackingParents are the contexts where '*' and '**' unpack.
	UnpackingParents = symbols(cst.Atom, cst.Listmaker, cst.TestlistGexp, cst.TestlistStarExpr,
		cst.SubjectExpr, cst.Pattern)

	varargsOrUnpacking = union(VarargsParents, UnpackingParents)
)

func union(sets ...SymbolSet) SymbolSet {
	out := make(SymbolSet)
	for _, s := range sets {
		for sym := range s {
			out[sym] = struct{}{}
		}
	}
	return out
}

// IsVararg reports whether leaf is a '*', '**' or '/' marker whose parent
// (looking through a star_expr) is one of within.
func IsVararg(tree *cst.Tree, leaf cst.NodeID, within SymbolSet) bool {
	switch tree.Kind(leaf) {
	case token.Star, token.DoubleStar, token.Slash:
	default:
		return false
	}
	p := tree.Parent(leaf)
	if !p.IsValid() {
		return false
	}
	if tree.Sym(p) == cst.StarExpr {
		p = tree.Parent(p)
		if !p.IsValid() {
			return false
		}
	}
	return within.Has(tree.Sym(p))
}

// IsSplitAfterDelimiter returns the priority of a break right after leaf.
// Only a bare comma qualifies.
func IsSplitAfterDelimiter(tree *cst.Tree, leaf cst.NodeID) Priority {
	if tree.Kind(leaf) == token.Comma {
		return CommaPriority
	}
	return NoPriority
}

// IsSplitBeforeDelimiter returns the priority of a break right before leaf.
// previous may be cst.NoNodeID at the start of a line.
func IsSplitBeforeDelimiter(tree *cst.Tree, leaf, previous cst.NodeID) Priority {
	if IsVararg(tree, leaf, varargsOrUnpacking) {
		// распаковка приклеена к операнду
		return NoPriority
	}

	kind := tree.Kind(leaf)
	parent := tree.Parent(leaf)
	psym := tree.Sym(parent)

	switch {
	case kind == token.Dot:
		if parent.IsValid() && psym != cst.ImportFrom && psym != cst.DottedName &&
			(!previous.IsValid() || tree.Kind(previous).IsClosingBracket()) {
			return DotPriority
		}
		return NoPriority
	case mathPriorities[kind] != NoPriority:
		if parent.IsValid() && psym != cst.Factor && psym != cst.StarExpr {
			return mathPriorities[kind]
		}
		return NoPriority
	case kind.IsComparison():
		return ComparatorPriority
	case kind == token.String:
		if previous.IsValid() && tree.Kind(previous) == token.String {
			return StringPriority
		}
		return NoPriority
	case kind != token.Name && kind != token.Async:
		return NoPriority
	}

	value := tree.Value(leaf)
	if (value == "for" && psym.IsCompFor()) || kind == token.Async {
		prev := tree.PrevSibling(leaf)
		if !tree.IsLeaf(prev) || tree.Value(prev) != "async" {
			return ComprehensionPriority
		}
	}
	if value == "if" && psym.IsCompIf() {
		return ComprehensionPriority
	}
	if (value == "if" || value == "else") && psym == cst.Test {
		return TernaryPriority
	}
	if value == "is" {
		return ComparatorPriority
	}
	if value == "in" && (psym == cst.CompOp || psym == cst.Comparison) && !tree.IsName(previous, "not") {
		return ComparatorPriority
	}
	if value == "not" && psym == cst.CompOp && !tree.IsName(previous, "is") {
		return ComparatorPriority
	}
	if (value == "and" || value == "or") && parent.IsValid() {
		return LogicPriority
	}
	return NoPriority
}
