package pyast

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"pyfmt/internal/cst"
	"pyfmt/internal/mode"
	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

// builder переводит конкретное дерево в AST для одной версии языка.
// Первая ошибка запоминается, дальше сборка идёт вхолостую: вместо узлов
// возвращается заглушка, результат отбрасывается.
type builder struct {
	tree         *cst.Tree
	file         *source.File
	ver          mode.TargetVersion
	typeComments bool

	comments    []*typeComment
	commentsAt  map[cst.NodeID][]*typeComment
	typeIgnores List
	err         *SyntaxError
}

func newBuilder(tree *cst.Tree, file *source.File, ver mode.TargetVersion, typeComments bool) *builder {
	return &builder{
		tree:         tree,
		file:         file,
		ver:          ver,
		typeComments: typeComments,
		commentsAt:   make(map[cst.NodeID][]*typeComment),
	}
}

func (b *builder) module() (*Node, error) {
	b.scanComments()
	var body List
	root := b.tree.Root
	if b.tree.Sym(root) == cst.FileInput {
		for _, kid := range b.tree.Children(root) {
			if b.tree.IsLeaf(kid) {
				continue
			}
			body = append(body, b.stmt(kid)...)
		}
	}
	b.checkComments()
	if b.err != nil {
		return nil, b.err
	}
	if body == nil {
		body = List{}
	}
	ignores := b.typeIgnores
	if ignores == nil {
		ignores = List{}
	}
	return mk("Module", 1, f("body", body), f("type_ignores", ignores)), nil
}

// ===== служебное =====

func (b *builder) pos(id cst.NodeID) source.LineCol {
	leaf := b.tree.FirstLeaf(id)
	if !leaf.IsValid() {
		return source.LineCol{Line: 1}
	}
	return b.file.Position(b.tree.Node(leaf).Span.Start)
}

func (b *builder) line(id cst.NodeID) int {
	return int(b.pos(id).Line)
}

func (b *builder) fail(id cst.NodeID, msg string) *Node {
	if b.err == nil {
		p := b.pos(id)
		b.err = &SyntaxError{Msg: msg, Line: int(p.Line), Column: int(p.Col), Version: b.ver, TypeComments: b.typeComments}
	}
	return &Node{Type: "Invalid"}
}

// require сообщает об ошибке, если фича недоступна в текущей версии.
func (b *builder) require(id cst.NodeID, f mode.Feature, msg string) {
	if !b.ver.Supports(f) {
		b.fail(id, msg)
	}
}

// since — то же для конструкций, не заведённых отдельной фичей.
func (b *builder) since(id cst.NodeID, minor int, msg string) {
	if b.ver.Minor() < minor {
		b.fail(id, msg)
	}
}

func (b *builder) kids(id cst.NodeID) []cst.NodeID {
	return b.tree.Children(id)
}

func (b *builder) sym(id cst.NodeID) cst.Symbol {
	return b.tree.Sym(id)
}

func (b *builder) isKind(id cst.NodeID, k token.Kind) bool {
	return b.tree.IsLeaf(id) && b.tree.Kind(id) == k
}

// items returns the children of a comma-separated list node, commas dropped.
// A node of another symbol is a one-element list.
func (b *builder) items(id cst.NodeID, list cst.Symbol) []cst.NodeID {
	if b.sym(id) != list {
		return []cst.NodeID{id}
	}
	var out []cst.NodeID
	for _, kid := range b.kids(id) {
		if !b.isKind(kid, token.Comma) {
			out = append(out, kid)
		}
	}
	return out
}

func ident(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return norm.NFKC.String(s)
		}
	}
	return s
}

func (b *builder) name(id cst.NodeID) string {
	return ident(b.tree.Value(id))
}

// dotted joins a dotted_name (or a single NAME) into "a.b.c".
func (b *builder) dotted(id cst.NodeID) string {
	if b.tree.IsLeaf(id) {
		return b.name(id)
	}
	var parts []string
	for _, kid := range b.kids(id) {
		if !b.isKind(kid, token.Dot) {
			parts = append(parts, b.name(kid))
		}
	}
	return strings.Join(parts, ".")
}

// ===== операторы =====

func (b *builder) stmt(id cst.NodeID) []*Node {
	switch b.sym(id) {
	case cst.SimpleStmt:
		return b.simpleStmt(id)
	case cst.IfStmt:
		return []*Node{b.ifStmt(id)}
	case cst.WhileStmt:
		return []*Node{b.whileStmt(id)}
	case cst.ForStmt:
		return []*Node{b.forStmt(id, false)}
	case cst.TryStmt:
		return []*Node{b.tryStmt(id)}
	case cst.WithStmt:
		return []*Node{b.withStmt(id, false)}
	case cst.Funcdef:
		return []*Node{b.funcdef(id, nil, false)}
	case cst.Classdef:
		return []*Node{b.classdef(id, nil)}
	case cst.Decorated:
		return []*Node{b.decorated(id)}
	case cst.AsyncStmt, cst.AsyncFuncdef:
		return []*Node{b.asyncStmt(id, nil)}
	case cst.MatchStmt:
		return []*Node{b.matchStmt(id)}
	}
	return []*Node{b.fail(id, "invalid syntax")}
}

func (b *builder) simpleStmt(id cst.NodeID) []*Node {
	kids := b.kids(id)
	nl := kids[len(kids)-1]
	var small []cst.NodeID
	for _, kid := range kids[:len(kids)-1] {
		if !b.isKind(kid, token.Semi) {
			small = append(small, kid)
		}
	}
	out := make([]*Node, 0, len(small))
	for i, s := range small {
		var comment cst.NodeID
		if i == len(small)-1 {
			comment = nl
		}
		out = append(out, b.smallStmt(s, comment))
	}
	return out
}

// smallStmt builds one statement of a simple_stmt. nl is the NEWLINE leaf
// closing the line when s is its last statement: a trailing type comment
// lives in its prefix.
func (b *builder) smallStmt(s, nl cst.NodeID) *Node {
	line := b.line(s)
	if b.tree.IsLeaf(s) {
		switch b.tree.Value(s) {
		case "pass":
			return mk("Pass", line)
		case "break":
			return mk("Break", line)
		case "continue":
			return mk("Continue", line)
		case "return":
			return mk("Return", line, f("value", None))
		case "raise":
			return mk("Raise", line, f("exc", None), f("cause", None))
		}
		return mk("Expr", line, f("value", b.expr(s)))
	}
	kids := b.kids(s)
	switch b.sym(s) {
	case cst.ExprStmt:
		return b.exprStmt(s, nl)
	case cst.DelStmt:
		var targets List
		for _, t := range b.items(kids[1], cst.Exprlist) {
			targets = append(targets, b.target(b.expr(t), t, delCtx))
		}
		return mk("Delete", line, f("targets", targets))
	case cst.ReturnStmt:
		b.checkUnpackingOnFlow(kids[1])
		return mk("Return", line, f("value", b.tupleOrExpr(kids[1])))
	case cst.RaiseStmt:
		var cause Value = None
		if len(kids) == 4 {
			cause = b.expr(kids[3])
		}
		return mk("Raise", line, f("exc", b.expr(kids[1])), f("cause", cause))
	case cst.ImportName:
		return mk("Import", line, f("names", b.dottedAsNames(kids[1])))
	case cst.ImportFrom:
		return b.importFrom(s)
	case cst.GlobalStmt:
		var names Names
		for _, kid := range kids[1:] {
			if !b.isKind(kid, token.Comma) {
				names = append(names, b.name(kid))
			}
		}
		typ := "Global"
		if b.tree.Value(kids[0]) == "nonlocal" {
			typ = "Nonlocal"
		}
		return mk(typ, line, f("names", names))
	case cst.AssertStmt:
		var msg Value = None
		if len(kids) == 4 {
			msg = b.expr(kids[3])
		}
		return mk("Assert", line, f("test", b.expr(kids[1])), f("msg", msg))
	}
	return mk("Expr", line, f("value", b.expr(s)))
}

func (b *builder) exprStmt(s, nl cst.NodeID) *Node {
	line := b.line(s)
	kids := b.kids(s)
	first := kids[0]

	if b.sym(kids[1]) == cst.AnnAssign {
		b.since(kids[1], 6, "variable annotations are only supported in Python 3.6 and greater")
		ann := b.kids(kids[1])
		target := b.expr(first)
		if !target.Is("Name", "Attribute", "Subscript") {
			b.fail(first, "only single target (not tuple) can be annotated")
		}
		b.setCtx(target, storeCtx)
		var value Value = None
		if len(ann) == 4 {
			if b.sym(ann[3]) == cst.TestlistStarExpr {
				b.require(ann[3], mode.AnnAssignExtendedRHS, "unparenthesized tuples in annotated assignments are only supported in Python 3.8 and greater")
			}
			value = b.tupleOrExpr(ann[3])
		}
		simple := Int("0")
		if b.isKind(first, token.Name) {
			simple = "1"
		}
		return mk("AnnAssign", line,
			f("target", target), f("annotation", b.expr(ann[1])), f("value", value), f("simple", simple))
	}

	if op := kids[1]; b.tree.IsLeaf(op) && b.tree.Kind(op).IsAugAssign() {
		target := b.expr(first)
		if !target.Is("Name", "Attribute", "Subscript") {
			b.fail(first, "illegal expression for augmented assignment")
		}
		b.setCtx(target, storeCtx)
		return mk("AugAssign", line,
			f("target", target), f("op", binaryOp(strings.TrimSuffix(b.tree.Value(op), "="))),
			f("value", b.tupleOrExpr(kids[2])))
	}

	var targets List
	for i := 0; i < len(kids)-1; i += 2 {
		t := kids[i]
		if b.sym(t) == cst.YieldExpr || b.isName(t, "yield") {
			b.fail(t, "assignment to yield expression not possible")
		}
		targets = append(targets, b.target(b.tupleOrExpr(t), t, storeCtx))
	}
	value := b.tupleOrExpr(kids[len(kids)-1])
	return mk("Assign", line,
		f("targets", targets), f("value", value), f("type_comment", b.takeTypeComment(nl)))
}

func (b *builder) isName(id cst.NodeID, v string) bool {
	return b.tree.IsName(id, v)
}

// checkUnpackingOnFlow rejects "return *a, b" before 3.8.
func (b *builder) checkUnpackingOnFlow(id cst.NodeID) {
	if b.sym(id) != cst.TestlistStarExpr {
		return
	}
	for _, it := range b.items(id, cst.TestlistStarExpr) {
		if b.sym(it) == cst.StarExpr {
			b.require(it, mode.UnpackingOnFlow, "unparenthesized iterable unpacking in return and yield is only supported in Python 3.8 and greater")
			return
		}
	}
}

func (b *builder) dottedAsNames(id cst.NodeID) List {
	var out List
	for _, it := range b.items(id, cst.DottedAsNames) {
		if b.sym(it) == cst.DottedAsName {
			kids := b.kids(it)
			out = append(out, mk("alias", b.line(it), f("name", Str(b.dotted(kids[0]))), f("asname", Str(b.name(kids[2])))))
			continue
		}
		out = append(out, mk("alias", b.line(it), f("name", Str(b.dotted(it))), f("asname", None)))
	}
	return out
}

func (b *builder) importFrom(s cst.NodeID) *Node {
	kids := b.kids(s)
	level := 0
	var module Value = None
	i := 1
	for ; i < len(kids); i++ {
		kid := kids[i]
		if b.isKind(kid, token.Dot) {
			level++
			continue
		}
		if b.isKind(kid, token.Ellipsis) {
			level += 3
			continue
		}
		if b.isName(kid, "import") {
			break
		}
		module = Str(b.dotted(kid))
	}
	var names List
	rest := kids[i+1:]
	switch {
	case b.isKind(rest[0], token.Star):
		names = List{mk("alias", b.line(rest[0]), f("name", Str("*")), f("asname", None))}
	case b.isKind(rest[0], token.LPar):
		names = b.importAsNames(rest[1])
	default:
		names = b.importAsNames(rest[0])
	}
	return mk("ImportFrom", b.line(s), f("module", module), f("names", names), f("level", Int(strconv.Itoa(level))))
}

func (b *builder) importAsNames(id cst.NodeID) List {
	var out List
	for _, it := range b.items(id, cst.ImportAsNames) {
		if b.sym(it) == cst.ImportAsName {
			kids := b.kids(it)
			out = append(out, mk("alias", b.line(it), f("name", Str(b.name(kids[0]))), f("asname", Str(b.name(kids[2])))))
			continue
		}
		out = append(out, mk("alias", b.line(it), f("name", Str(b.name(it))), f("asname", None)))
	}
	return out
}

// ===== составные операторы =====

func (b *builder) suite(id cst.NodeID) List {
	if b.sym(id) != cst.Suite {
		return b.simpleStmt(id)
	}
	var out List
	for _, kid := range b.kids(id) {
		if !b.tree.IsLeaf(kid) {
			out = append(out, b.stmt(kid)...)
		}
	}
	return out
}

// suiteNewline returns the NEWLINE right after a block header's colon.
func (b *builder) suiteNewline(suite cst.NodeID) cst.NodeID {
	if b.sym(suite) == cst.Suite {
		return b.kids(suite)[0]
	}
	return cst.NoNodeID
}

type clause struct {
	kw, cond, body cst.NodeID
}

// clauses splits "kw [cond] ':' suite" runs of a compound statement.
func (b *builder) clauses(id cst.NodeID) []clause {
	kids := b.kids(id)
	var out []clause
	for i := 0; i < len(kids); {
		c := clause{kw: kids[i]}
		if b.isKind(kids[i+1], token.Colon) {
			c.body = kids[i+2]
			i += 3
		} else {
			c.cond = kids[i+1]
			c.body = kids[i+3]
			i += 4
		}
		out = append(out, c)
	}
	return out
}

func (b *builder) ifStmt(id cst.NodeID) *Node {
	cs := b.clauses(id)
	orelse := List{}
	end := len(cs)
	if b.isName(cs[end-1].kw, "else") {
		orelse = b.suite(cs[end-1].body)
		end--
	}
	var node *Node
	for i := end - 1; i >= 0; i-- {
		c := cs[i]
		node = mk("If", b.line(c.kw),
			f("test", b.expr(c.cond)), f("body", b.suite(c.body)), f("orelse", orelse))
		orelse = List{node}
	}
	return node
}

func (b *builder) whileStmt(id cst.NodeID) *Node {
	cs := b.clauses(id)
	orelse := List{}
	if len(cs) == 2 {
		orelse = b.suite(cs[1].body)
	}
	return mk("While", b.line(id),
		f("test", b.expr(cs[0].cond)), f("body", b.suite(cs[0].body)), f("orelse", orelse))
}

func (b *builder) forStmt(id cst.NodeID, async bool) *Node {
	kids := b.kids(id)
	target := b.target(b.tupleOrExpr(kids[1]), kids[1], storeCtx)
	body := kids[5]
	orelse := List{}
	if len(kids) > 6 {
		orelse = b.suite(kids[8])
	}
	typ := "For"
	if async {
		typ = "AsyncFor"
	}
	comment := b.takeTypeComment(b.suiteNewline(body))
	return mk(typ, b.line(id),
		f("target", target), f("iter", b.tupleOrExpr(kids[3])), f("body", b.suite(body)),
		f("orelse", orelse), f("type_comment", comment))
}

func (b *builder) tryStmt(id cst.NodeID) *Node {
	kids := b.kids(id)
	body := b.suite(kids[2])
	handlers, orelse, finalbody := List{}, List{}, List{}
	for i := 3; i < len(kids); {
		kw := kids[i]
		switch {
		case b.isName(kw, "else"):
			orelse = b.suite(kids[i+2])
		case b.isName(kw, "finally"):
			finalbody = b.suite(kids[i+2])
		default:
			handlers = append(handlers, b.exceptHandler(kw, kids[i+2]))
		}
		i += 3
	}
	return mk("Try", b.line(id),
		f("body", body), f("handlers", handlers), f("orelse", orelse), f("finalbody", finalbody))
}

func (b *builder) exceptHandler(clause, suite cst.NodeID) *Node {
	var typ, name Value = None, None
	if !b.tree.IsLeaf(clause) {
		kids := b.kids(clause)
		typ = b.expr(kids[1])
		if len(kids) == 4 {
			if !b.isName(kids[2], "as") {
				b.fail(kids[2], "multiple exception types must be parenthesized")
			} else if !b.isKind(kids[3], token.Name) {
				b.fail(kids[3], "invalid syntax")
			} else {
				name = Str(b.name(kids[3]))
			}
		}
	}
	return mk("ExceptHandler", b.line(clause), f("type", typ), f("name", name), f("body", b.suite(suite)))
}

func (b *builder) withStmt(id cst.NodeID, async bool) *Node {
	kids := b.kids(id)
	var items List
	var colon int
	for i := 1; i < len(kids); i++ {
		kid := kids[i]
		if b.isKind(kid, token.Colon) {
			colon = i
			break
		}
		if b.isKind(kid, token.Comma) {
			continue
		}
		items = append(items, b.withItems(kid)...)
	}
	body := kids[colon+1]
	if len(items) == 1 && colon == 2 {
		items = b.splitParenthesizedItems(kids[1], items)
	}
	typ := "With"
	if async {
		typ = "AsyncWith"
	}
	comment := b.takeTypeComment(b.suiteNewline(body))
	return mk(typ, b.line(id), f("items", items), f("body", b.suite(body)), f("type_comment", comment))
}

func (b *builder) withItems(id cst.NodeID) List {
	if b.sym(id) == cst.AsexprTest {
		kids := b.kids(id)
		vars := b.target(b.expr(kids[2]), kids[2], storeCtx)
		return List{mk("withitem", 0, f("context_expr", b.expr(kids[0])), f("optional_vars", vars))}
	}
	return List{mk("withitem", 0, f("context_expr", b.expr(id)), f("optional_vars", None))}
}

// splitParenthesizedItems: since 3.9 "with (a, b):" holds two context
// managers rather than one tuple.
func (b *builder) splitParenthesizedItems(id cst.NodeID, items List) List {
	if !b.ver.Supports(mode.ParenthesizedContextManagers) || b.sym(id) != cst.Atom {
		return items
	}
	kids := b.kids(id)
	if len(kids) != 3 || !b.isKind(kids[0], token.LPar) || b.sym(kids[1]) != cst.TestlistGexp {
		return items
	}
	if inner := b.kids(kids[1]); len(inner) == 2 && b.sym(inner[1]) == cst.OldCompFor {
		return items
	}
	var out List
	for _, it := range b.items(kids[1], cst.TestlistGexp) {
		out = append(out, b.withItems(it)...)
	}
	return out
}

func (b *builder) funcdef(id cst.NodeID, decorators List, async bool) *Node {
	kids := b.kids(id)
	name := b.name(kids[1])
	args := b.parameters(kids[2])
	var returns Value = None
	i := 3
	if b.isKind(kids[i], token.RArrow) {
		returns = b.expr(kids[i+1])
		i += 2
	}
	body := kids[i+1]

	comment := b.takeTypeComment(b.suiteNewline(body))
	if comment == None && b.sym(body) == cst.Suite {
		// тип функции может стоять и отдельной строкой сразу после заголовка
		comment = b.takeTypeComment(b.tree.FirstLeaf(b.kids(body)[2]))
	}
	if decorators == nil {
		decorators = List{}
	}
	typ := "FunctionDef"
	if async {
		typ = "AsyncFunctionDef"
	}
	return mk(typ, b.line(id),
		f("name", Str(name)), f("args", args), f("body", b.suite(body)),
		f("decorator_list", decorators), f("returns", returns),
		f("type_comment", comment), f("type_params", List{}))
}

func (b *builder) classdef(id cst.NodeID, decorators List) *Node {
	kids := b.kids(id)
	bases, keywords := List{}, List{}
	if b.isKind(kids[2], token.LPar) && !b.isKind(kids[3], token.RPar) {
		bases, keywords = b.callArgs(kids[3])
	}
	if decorators == nil {
		decorators = List{}
	}
	return mk("ClassDef", b.line(id),
		f("name", Str(b.name(kids[1]))), f("bases", bases), f("keywords", keywords),
		f("body", b.suite(kids[len(kids)-1])), f("decorator_list", decorators), f("type_params", List{}))
}

func (b *builder) decorated(id cst.NodeID) *Node {
	kids := b.kids(id)
	var decorators List
	for _, dec := range b.items(kids[0], cst.Decorators) {
		expr := b.kids(dec)[1]
		b.checkDecorator(expr)
		decorators = append(decorators, b.expr(expr))
	}
	def := kids[1]
	switch b.sym(def) {
	case cst.Funcdef:
		return b.funcdef(def, decorators, false)
	case cst.Classdef:
		return b.classdef(def, decorators)
	}
	return b.asyncStmt(def, decorators)
}

// checkDecorator enforces "dotted_name [call]" decorators before 3.9.
func (b *builder) checkDecorator(id cst.NodeID) {
	if b.ver.Supports(mode.RelaxedDecorators) {
		return
	}
	if b.isKind(id, token.Name) {
		return
	}
	if b.sym(id) != cst.Power || !b.isKind(b.kids(id)[0], token.Name) {
		b.fail(id, "invalid syntax")
		return
	}
	trailers := b.kids(id)[1:]
	for i, tr := range trailers {
		if b.sym(tr) != cst.Trailer {
			b.fail(tr, "invalid syntax")
			return
		}
		open := b.kids(tr)[0]
		switch {
		case b.isKind(open, token.Dot):
		case b.isKind(open, token.LPar) && i == len(trailers)-1:
		default:
			b.fail(tr, "invalid syntax")
			return
		}
	}
}

func (b *builder) asyncStmt(id cst.NodeID, decorators List) *Node {
	kids := b.kids(id)
	stmt := kids[1]
	switch b.sym(stmt) {
	case cst.Funcdef:
		b.since(id, 5, "async functions are only supported in Python 3.5 and greater")
		return b.funcdef(stmt, decorators, true)
	case cst.WithStmt:
		b.since(id, 5, "async with statements are only supported in Python 3.5 and greater")
		return b.withStmt(stmt, true)
	case cst.ForStmt:
		b.since(id, 5, "async for loops are only supported in Python 3.5 and greater")
		return b.forStmt(stmt, true)
	}
	return b.fail(id, "invalid syntax")
}
