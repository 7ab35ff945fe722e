package pyast

import (
	"pyfmt/internal/cst"
	"pyfmt/internal/mode"
	"pyfmt/internal/token"
)

// match_stmt: match subject ':' NEWLINE INDENT case_block+ DEDENT
func (b *builder) matchStmt(id cst.NodeID) *Node {
	b.require(id, mode.PatternMatching, "pattern matching is only supported in Python 3.10 and greater")
	kids := b.kids(id)
	cases := List{}
	for _, block := range kids[5 : len(kids)-1] {
		cases = append(cases, b.matchCase(block))
	}
	return mk("Match", b.line(id), f("subject", b.tupleOrExpr(kids[1])), f("cases", cases))
}

func (b *builder) matchCase(id cst.NodeID) *Node {
	kids := b.kids(id)
	var guard Value = None
	if b.sym(kids[2]) == cst.Guard {
		guard = b.expr(b.kids(kids[2])[1])
	}
	return mk("match_case", 0,
		f("pattern", b.pattern(kids[1])), f("guard", guard), f("body", b.suite(kids[len(kids)-1])))
}

// Паттерны разобраны как выражения; здесь они переводятся в Match* узлы.
func (b *builder) pattern(id cst.NodeID) *Node {
	line := b.line(id)
	if b.tree.IsLeaf(id) {
		return b.leafPattern(id)
	}
	kids := b.kids(id)
	switch b.sym(id) {
	case cst.Patterns:
		return mk("MatchSequence", line, f("patterns", b.patterns(b.items(id, cst.Patterns))))
	case cst.Pattern:
		name := kids[2]
		if !b.isKind(name, token.Name) {
			return b.fail(name, "invalid pattern target")
		}
		if b.isName(name, "_") {
			return b.fail(name, "cannot use '_' as a target")
		}
		return mk("MatchAs", line, f("pattern", b.pattern(kids[0])), f("name", Str(b.name(name))))
	case cst.Expr:
		var alts List
		for i, kid := range kids {
			if i%2 == 1 {
				continue
			}
			alts = append(alts, b.pattern(kid))
		}
		return mk("MatchOr", line, f("patterns", alts))
	case cst.StarExpr:
		if b.isName(kids[1], "_") {
			return mk("MatchStar", line, f("name", None))
		}
		if !b.isKind(kids[1], token.Name) {
			return b.fail(kids[1], "invalid syntax")
		}
		return mk("MatchStar", line, f("name", Str(b.name(kids[1]))))
	case cst.Factor, cst.ArithExpr:
		return b.valuePattern(id)
	case cst.Power:
		return b.classOrValuePattern(id)
	case cst.Atom:
		return b.atomPattern(id)
	}
	return b.fail(id, "invalid pattern")
}

func (b *builder) patterns(ids []cst.NodeID) List {
	out := make(List, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.pattern(id))
	}
	return out
}

func (b *builder) leafPattern(id cst.NodeID) *Node {
	line := b.line(id)
	switch b.tree.Kind(id) {
	case token.Number, token.String:
		return mk("MatchValue", line, f("value", b.expr(id)))
	case token.Name:
		switch v := b.tree.Value(id); v {
		case "_":
			return mk("MatchAs", line, f("pattern", None), f("name", None))
		case "None":
			return mk("MatchSingleton", line, f("value", None))
		case "True", "False":
			return mk("MatchSingleton", line, f("value", Bool(v == "True")))
		}
		return mk("MatchAs", line, f("pattern", None), f("name", Str(b.name(id))))
	}
	return b.fail(id, "invalid pattern")
}

// valuePattern accepts signed numbers and complex literals such as -1 or 1+2j.
func (b *builder) valuePattern(id cst.NodeID) *Node {
	v := b.expr(id)
	if !isNumericPattern(v) {
		return b.fail(id, "patterns may only match literals and attribute lookups")
	}
	return mk("MatchValue", b.line(id), f("value", v))
}

func isNumericPattern(n *Node) bool {
	switch n.Type {
	case "Constant":
		return true
	case "UnaryOp":
		return n.Child("op").Is("USub") && isNumericPattern(n.Child("operand"))
	case "BinOp":
		op := n.Child("op")
		if !op.Is("Add", "Sub") {
			return false
		}
		_, imag := n.Child("right").Get("value").(Complex)
		return isNumericPattern(n.Child("left")) && imag
	}
	return false
}

// classOrValuePattern handles a.b.C(...) class patterns and a.b value
// patterns.
func (b *builder) classOrValuePattern(id cst.NodeID) *Node {
	kids := b.kids(id)
	line := b.line(id)
	if !b.isKind(kids[0], token.Name) {
		return b.fail(id, "invalid pattern")
	}
	ref := mk("Name", line, f("id", Str(b.name(kids[0]))), f("ctx", loadCtx))
	trailers := kids[1:]
	for i, tr := range trailers {
		if b.sym(tr) != cst.Trailer {
			return b.fail(tr, "invalid pattern")
		}
		tk := b.kids(tr)
		switch {
		case b.isKind(tk[0], token.Dot):
			ref = mk("Attribute", line, f("value", ref), f("attr", Str(b.name(tk[1]))), f("ctx", loadCtx))
		case b.isKind(tk[0], token.LPar) && i == len(trailers)-1:
			return b.classPattern(ref, tr)
		default:
			return b.fail(tr, "invalid pattern")
		}
	}
	return mk("MatchValue", line, f("value", ref))
}

func (b *builder) classPattern(cls *Node, tr cst.NodeID) *Node {
	tk := b.kids(tr)
	patterns, kwdPatterns := List{}, List{}
	kwdAttrs := Names{}
	if len(tk) == 3 {
		for _, it := range b.items(tk[1], cst.Arglist) {
			if b.sym(it) == cst.Argument {
				ak := b.kids(it)
				if len(ak) != 3 || !b.isKind(ak[1], token.Equal) || !b.isKind(ak[0], token.Name) {
					return b.fail(it, "invalid pattern")
				}
				kwdAttrs = append(kwdAttrs, b.name(ak[0]))
				kwdPatterns = append(kwdPatterns, b.pattern(ak[2]))
				continue
			}
			if len(kwdAttrs) > 0 {
				return b.fail(it, "positional patterns follow keyword patterns")
			}
			patterns = append(patterns, b.pattern(it))
		}
	}
	return mk("MatchClass", cls.Line,
		f("cls", cls), f("patterns", patterns), f("kwd_attrs", kwdAttrs), f("kwd_patterns", kwdPatterns))
}

func (b *builder) atomPattern(id cst.NodeID) *Node {
	kids := b.kids(id)
	line := b.line(id)
	if b.isKind(kids[0], token.String) {
		return mk("MatchValue", line, f("value", b.expr(id)))
	}
	empty := len(kids) == 2
	switch b.tree.Kind(kids[0]) {
	case token.LPar:
		if empty {
			return mk("MatchSequence", line, f("patterns", List{}))
		}
		inner := kids[1]
		if b.sym(inner) == cst.TestlistGexp {
			return mk("MatchSequence", line, f("patterns", b.patterns(b.items(inner, cst.TestlistGexp))))
		}
		return b.pattern(inner)
	case token.LSqb:
		if empty {
			return mk("MatchSequence", line, f("patterns", List{}))
		}
		return mk("MatchSequence", line, f("patterns", b.patterns(b.items(kids[1], cst.Listmaker))))
	case token.LBrace:
		if empty {
			return mk("MatchMapping", line, f("keys", List{}), f("patterns", List{}), f("rest", None))
		}
		return b.mappingPattern(kids[1])
	}
	return b.fail(id, "invalid pattern")
}

func (b *builder) mappingPattern(id cst.NodeID) *Node {
	line := b.line(id)
	keys, patterns := List{}, List{}
	var rest Value = None
	kids := []cst.NodeID{id}
	if b.sym(id) == cst.Dictsetmaker {
		kids = b.kids(id)
	}
	for i := 0; i < len(kids); {
		switch {
		case b.isKind(kids[i], token.Comma):
			i++
		case b.isKind(kids[i], token.DoubleStar):
			if !b.isKind(kids[i+1], token.Name) {
				return b.fail(kids[i+1], "invalid pattern")
			}
			rest = Str(b.name(kids[i+1]))
			i += 2
		case i+2 < len(kids) && b.isKind(kids[i+1], token.Colon):
			keys = append(keys, b.mappingKey(kids[i]))
			patterns = append(patterns, b.pattern(kids[i+2]))
			i += 3
		default:
			return b.fail(kids[i], "invalid pattern")
		}
	}
	return mk("MatchMapping", line, f("keys", keys), f("patterns", patterns), f("rest", rest))
}

// mappingKey builds a literal or dotted-name key of a mapping pattern.
func (b *builder) mappingKey(id cst.NodeID) *Node {
	key := b.expr(id)
	if key.Is("Attribute") || isNumericPattern(key) {
		return key
	}
	return b.fail(id, "mapping pattern keys may only match literals and attribute lookups")
}
