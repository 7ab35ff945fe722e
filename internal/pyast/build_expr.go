package pyast

import (
	"pyfmt/internal/cst"
	"pyfmt/internal/mode"
	"pyfmt/internal/token"
)

var binaryOps = map[string]string{
	"+": "Add", "-": "Sub", "*": "Mult", "@": "MatMult", "/": "Div", "//": "FloorDiv",
	"%": "Mod", "**": "Pow", "<<": "LShift", ">>": "RShift", "|": "BitOr", "^": "BitXor",
	"&": "BitAnd",
}

var unaryOps = map[string]string{"+": "UAdd", "-": "USub", "~": "Invert", "not": "Not"}

var compareOps = map[string]string{
	"==": "Eq", "!=": "NotEq", "<": "Lt", "<=": "LtE", ">": "Gt", ">=": "GtE",
	"is": "Is", "is not": "IsNot", "in": "In", "not in": "NotIn",
}

func binaryOp(op string) *Node { return leafNode(binaryOps[op]) }

// tupleSyms are the list rules that denote an unparenthesized tuple.
var tupleSyms = map[cst.Symbol]bool{
	cst.Exprlist: true, cst.Testlist: true, cst.TestlistStarExpr: true, cst.SubjectExpr: true,
}

// tupleOrExpr builds an expression where a bare comma list means a tuple.
func (b *builder) tupleOrExpr(id cst.NodeID) *Node {
	sym := b.sym(id)
	if !tupleSyms[sym] {
		return b.expr(id)
	}
	return mk("Tuple", b.line(id), f("elts", b.exprs(b.items(id, sym))), f("ctx", loadCtx))
}

func (b *builder) exprs(ids []cst.NodeID) List {
	out := make(List, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.expr(id))
	}
	return out
}

// target marks n as an assignment or deletion target.
func (b *builder) target(n *Node, id cst.NodeID, ctx *Node) *Node {
	b.setCtx(n, ctx)
	if bad := invalidTarget(n); bad != "" {
		verb := "assign to"
		if ctx == delCtx {
			verb = "delete"
		}
		b.fail(id, "cannot "+verb+" "+bad)
	}
	return n
}

// setCtx rewrites the context of n and of the elements it unpacks into.
func (b *builder) setCtx(n *Node, ctx *Node) {
	switch n.Type {
	case "Name", "Attribute", "Subscript":
		n.Set("ctx", ctx)
	case "Starred":
		n.Set("ctx", ctx)
		b.setCtx(n.Child("value"), ctx)
	case "List", "Tuple":
		n.Set("ctx", ctx)
		for _, e := range n.Items("elts") {
			b.setCtx(e, ctx)
		}
	}
}

// invalidTarget names what n is when it cannot be a target, or "".
func invalidTarget(n *Node) string {
	switch n.Type {
	case "Name", "Attribute", "Subscript", "Invalid":
		return ""
	case "Starred":
		return invalidTarget(n.Child("value"))
	case "List", "Tuple":
		for _, e := range n.Items("elts") {
			if bad := invalidTarget(e); bad != "" {
				return bad
			}
		}
		return ""
	case "Constant", "JoinedStr":
		return "literal"
	case "Call":
		return "function call"
	case "Lambda":
		return "lambda"
	case "Compare":
		return "comparison"
	case "IfExp":
		return "conditional expression"
	case "NamedExpr":
		return "named expression"
	case "ListComp", "SetComp", "DictComp", "GeneratorExp":
		return "comprehension"
	case "Dict":
		return "dict literal"
	case "Set":
		return "set display"
	case "Await":
		return "await expression"
	case "Yield", "YieldFrom":
		return "yield expression"
	}
	return "expression"
}

func (b *builder) expr(id cst.NodeID) *Node {
	if b.tree.IsLeaf(id) {
		return b.leafExpr(id)
	}
	line := b.line(id)
	kids := b.kids(id)
	switch b.sym(id) {
	case cst.Atom:
		return b.atom(id)
	case cst.NamedexprTest:
		b.require(id, mode.AssignmentExpressions, "assignment expressions are only supported in Python 3.8 and greater")
		target := b.expr(kids[0])
		if !target.Is("Name") {
			b.fail(kids[0], "cannot use assignment expressions with "+invalidTargetName(target))
		}
		b.setCtx(target, storeCtx)
		return mk("NamedExpr", line, f("target", target), f("value", b.expr(kids[2])))
	case cst.Test:
		return mk("IfExp", line, f("test", b.expr(kids[2])), f("body", b.expr(kids[0])), f("orelse", b.expr(kids[4])))
	case cst.Lambdef:
		args := emptyArguments()
		if len(kids) == 4 {
			args = b.paramList(kids[1], false)
		}
		return mk("Lambda", line, f("args", args), f("body", b.expr(kids[len(kids)-1])))
	case cst.OrTest, cst.AndTest:
		op := "Or"
		if b.sym(id) == cst.AndTest {
			op = "And"
		}
		var values List
		for i := 0; i < len(kids); i += 2 {
			values = append(values, b.expr(kids[i]))
		}
		return mk("BoolOp", line, f("op", leafNode(op)), f("values", values))
	case cst.NotTest:
		return mk("UnaryOp", line, f("op", leafNode("Not")), f("operand", b.expr(kids[1])))
	case cst.Comparison:
		return b.comparison(id)
	case cst.StarExpr:
		return mk("Starred", line, f("value", b.expr(kids[1])), f("ctx", loadCtx))
	case cst.Expr, cst.XorExpr, cst.AndExpr, cst.ShiftExpr, cst.ArithExpr, cst.Term:
		left := b.expr(kids[0])
		for i := 1; i+1 < len(kids); i += 2 {
			op := b.tree.Value(kids[i])
			if op == "@" {
				b.since(kids[i], 5, "the '@' operator is only supported in Python 3.5 and greater")
			}
			left = mk("BinOp", line, f("left", left), f("op", binaryOp(op)), f("right", b.expr(kids[i+1])))
		}
		return left
	case cst.Factor:
		return mk("UnaryOp", line, f("op", leafNode(unaryOps[b.tree.Value(kids[0])])), f("operand", b.expr(kids[1])))
	case cst.Power:
		return b.power(id)
	case cst.Exprlist, cst.Testlist, cst.TestlistStarExpr, cst.SubjectExpr:
		return b.tupleOrExpr(id)
	case cst.YieldExpr:
		return b.yieldExpr(id)
	}
	return b.fail(id, "invalid syntax")
}

func invalidTargetName(n *Node) string {
	if bad := invalidTarget(n); bad != "" {
		return bad
	}
	return "expression"
}

func (b *builder) leafExpr(id cst.NodeID) *Node {
	line := b.line(id)
	v := b.tree.Value(id)
	switch b.tree.Kind(id) {
	case token.Name, token.Async, token.Await:
		switch v {
		case "None":
			return mk("Constant", line, f("value", None), f("kind", None))
		case "True", "False":
			return mk("Constant", line, f("value", Bool(v == "True")), f("kind", None))
		case "yield":
			return mk("Yield", line, f("value", None))
		}
		return mk("Name", line, f("id", Str(ident(v))), f("ctx", loadCtx))
	case token.Number:
		return b.number(id)
	case token.String:
		return b.strings([]cst.NodeID{id})
	case token.Ellipsis:
		return mk("Constant", line, f("value", Ellipsis), f("kind", None))
	}
	return b.fail(id, "invalid syntax")
}

func (b *builder) comparison(id cst.NodeID) *Node {
	kids := b.kids(id)
	var ops, comparators List
	for i := 1; i+1 < len(kids); i += 2 {
		op := kids[i]
		text := b.tree.Value(op)
		if !b.tree.IsLeaf(op) {
			parts := b.kids(op)
			text = b.tree.Value(parts[0]) + " " + b.tree.Value(parts[1])
		}
		if text == "<>" {
			b.fail(op, "invalid syntax")
		}
		ops = append(ops, leafNode(compareOps[text]))
		comparators = append(comparators, b.expr(kids[i+1]))
	}
	return mk("Compare", b.line(id), f("left", b.expr(kids[0])), f("ops", ops), f("comparators", comparators))
}

func (b *builder) yieldExpr(id cst.NodeID) *Node {
	kids := b.kids(id)
	arg := kids[1]
	if b.sym(arg) == cst.YieldArg {
		return mk("YieldFrom", b.line(id), f("value", b.expr(b.kids(arg)[1])))
	}
	b.checkUnpackingOnFlow(arg)
	return mk("Yield", b.line(id), f("value", b.tupleOrExpr(arg)))
}

// ===== atom =====

func (b *builder) atom(id cst.NodeID) *Node {
	kids := b.kids(id)
	line := b.line(id)
	open := kids[0]
	if b.isKind(open, token.String) {
		return b.strings(kids)
	}
	empty := len(kids) == 2
	switch b.tree.Kind(open) {
	case token.LPar:
		if empty {
			return mk("Tuple", line, f("elts", List{}), f("ctx", loadCtx))
		}
		inner := kids[1]
		switch b.sym(inner) {
		case cst.TestlistGexp:
			if elt, comp, ok := b.comprehensionParts(inner); ok {
				return mk("GeneratorExp", line, f("elt", b.expr(elt)), f("generators", b.generators(comp)))
			}
			return mk("Tuple", line, f("elts", b.exprs(b.items(inner, cst.TestlistGexp))), f("ctx", loadCtx))
		case cst.StarExpr:
			return b.fail(inner, "cannot use starred expression here")
		}
		return b.expr(inner)
	case token.LSqb:
		if empty {
			return mk("List", line, f("elts", List{}), f("ctx", loadCtx))
		}
		inner := kids[1]
		if elt, comp, ok := b.comprehensionParts(inner); ok {
			return mk("ListComp", line, f("elt", b.expr(elt)), f("generators", b.generators(comp)))
		}
		return mk("List", line, f("elts", b.exprs(b.items(inner, cst.Listmaker))), f("ctx", loadCtx))
	case token.LBrace:
		if empty {
			return mk("Dict", line, f("keys", List{}), f("values", List{}))
		}
		return b.dictOrSet(kids[1])
	}
	return b.fail(id, "invalid syntax")
}

// comprehensionParts splits "elt comp_for" inside a bracket.
func (b *builder) comprehensionParts(id cst.NodeID) (elt, comp cst.NodeID, ok bool) {
	switch b.sym(id) {
	case cst.TestlistGexp, cst.Listmaker:
		kids := b.kids(id)
		if len(kids) == 2 && b.sym(kids[1]).IsCompFor() {
			return kids[0], kids[1], true
		}
	}
	return cst.NoNodeID, cst.NoNodeID, false
}

func (b *builder) dictOrSet(id cst.NodeID) *Node {
	line := b.line(id)
	if b.sym(id) != cst.Dictsetmaker {
		return mk("Set", line, f("elts", List{b.expr(id)}))
	}
	kids := b.kids(id)
	last := kids[len(kids)-1]
	isDict := b.isKind(kids[0], token.DoubleStar) || (len(kids) > 1 && b.isKind(kids[1], token.Colon))

	if b.sym(last).IsCompFor() {
		gens := b.generators(last)
		if !isDict {
			return mk("SetComp", line, f("elt", b.expr(kids[0])), f("generators", gens))
		}
		if b.isKind(kids[0], token.DoubleStar) {
			return b.fail(kids[0], "dict unpacking cannot be used in dict comprehension")
		}
		return mk("DictComp", line, f("key", b.expr(kids[0])), f("value", b.expr(kids[2])), f("generators", gens))
	}

	if !isDict {
		return mk("Set", line, f("elts", b.exprs(b.items(id, cst.Dictsetmaker))))
	}
	keys, values := List{}, List{}
	for i := 0; i < len(kids); {
		switch {
		case b.isKind(kids[i], token.Comma):
			i++
		case b.isKind(kids[i], token.DoubleStar):
			keys = append(keys, nil)
			values = append(values, b.expr(kids[i+1]))
			i += 2
		default:
			keys = append(keys, b.expr(kids[i]))
			values = append(values, b.expr(kids[i+2]))
			i += 3
		}
	}
	return mk("Dict", line, f("keys", keys), f("values", values))
}

// generators flattens a comp_for chain into comprehension nodes; comp_if
// clauses attach to the nearest preceding for.
func (b *builder) generators(id cst.NodeID) List {
	var out List
	var cur *Node
	for id.IsValid() {
		kids := b.kids(id)
		next := cst.NoNodeID
		if b.sym(id).IsCompFor() {
			isAsync := "0"
			if b.isKind(kids[0], token.Async) {
				isAsync = "1"
				kids = kids[1:]
			}
			target := b.target(b.tupleOrExpr(kids[1]), kids[1], storeCtx)
			cur = mk("comprehension", 0,
				f("target", target), f("iter", b.expr(kids[3])), f("ifs", List{}), f("is_async", Int(isAsync)))
			out = append(out, cur)
			if len(kids) > 4 {
				next = kids[4]
			}
		} else {
			cur.Set("ifs", append(cur.Items("ifs"), b.expr(kids[1])))
			if len(kids) > 2 {
				next = kids[2]
			}
		}
		id = next
	}
	return out
}

// ===== power / trailers =====

func (b *builder) power(id cst.NodeID) *Node {
	kids := b.kids(id)
	line := b.line(id)
	await := b.isKind(kids[0], token.Await)
	if await {
		b.since(kids[0], 5, "await expressions are only supported in Python 3.5 and greater")
		kids = kids[1:]
	}
	var exp cst.NodeID
	if n := len(kids); n >= 3 && b.isKind(kids[n-2], token.DoubleStar) {
		exp = kids[n-1]
		kids = kids[:n-2]
	}
	node := b.expr(kids[0])
	for _, tr := range kids[1:] {
		node = b.trailer(node, tr)
	}
	if await {
		node = mk("Await", line, f("value", node))
	}
	if exp.IsValid() {
		node = mk("BinOp", line, f("left", node), f("op", binaryOp("**")), f("right", b.expr(exp)))
	}
	return node
}

func (b *builder) trailer(value *Node, tr cst.NodeID) *Node {
	kids := b.kids(tr)
	line := value.Line
	switch b.tree.Kind(kids[0]) {
	case token.Dot:
		return mk("Attribute", line, f("value", value), f("attr", Str(b.name(kids[1]))), f("ctx", loadCtx))
	case token.LPar:
		args, keywords := List{}, List{}
		if len(kids) == 3 {
			args, keywords = b.callArgs(kids[1])
		}
		return mk("Call", line, f("func", value), f("args", args), f("keywords", keywords))
	}
	return mk("Subscript", line, f("value", value), f("slice", b.slice(kids[1])), f("ctx", loadCtx))
}

func (b *builder) slice(id cst.NodeID) *Node {
	line := b.line(id)
	switch b.sym(id) {
	case cst.Subscriptlist:
		var elts List
		for _, it := range b.items(id, cst.Subscriptlist) {
			elts = append(elts, b.sliceItem(it))
		}
		return mk("Tuple", line, f("elts", elts), f("ctx", loadCtx))
	case cst.StarExpr:
		return mk("Tuple", line, f("elts", List{b.sliceItem(id)}), f("ctx", loadCtx))
	}
	return b.sliceItem(id)
}

func (b *builder) sliceItem(id cst.NodeID) *Node {
	if b.sym(id) == cst.StarExpr {
		b.require(id, mode.VariadicGenerics, "star expressions in subscripts are only supported in Python 3.11 and greater")
		return b.expr(id)
	}
	if b.sym(id) != cst.Subscript && !b.isKind(id, token.Colon) {
		return b.expr(id)
	}
	var lower, upper, step Value = None, None, None
	kids := []cst.NodeID{id}
	if b.sym(id) == cst.Subscript {
		kids = b.kids(id)
	}
	colons := 0
	for _, kid := range kids {
		switch {
		case b.sym(kid) == cst.Sliceop:
			step = b.expr(b.kids(kid)[1])
			colons++
		case b.isKind(kid, token.Colon):
			colons++
		case colons == 0:
			lower = b.expr(kid)
		default:
			upper = b.expr(kid)
		}
	}
	return mk("Slice", b.line(id), f("lower", lower), f("upper", upper), f("step", step))
}
