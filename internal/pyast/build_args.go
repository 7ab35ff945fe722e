package pyast

import (
	"pyfmt/internal/cst"
	"pyfmt/internal/mode"
	"pyfmt/internal/token"
)

func emptyArguments() *Node {
	return mk("arguments", 0,
		f("posonlyargs", List{}), f("args", List{}), f("vararg", None),
		f("kwonlyargs", List{}), f("kw_defaults", List{}), f("kwarg", None), f("defaults", List{}))
}

// parameters builds the arguments of a def from its '(' [list] ')' node.
func (b *builder) parameters(id cst.NodeID) *Node {
	kids := b.kids(id)
	if len(kids) == 2 {
		return emptyArguments()
	}
	return b.paramList(kids[1], true)
}

// paramList walks a flat typedargslist/varargslist. def parameters may carry
// per-argument type comments after each comma and before the closing paren.
func (b *builder) paramList(id cst.NodeID, isDef bool) *Node {
	elems := []cst.NodeID{id}
	if sym := b.sym(id); sym == cst.Typedargslist || sym == cst.Varargslist {
		elems = b.kids(id)
	}

	var (
		posonly, args, kwonly List
		defaults, kwDefaults  List
		vararg, kwarg         Value = None, None
		star, slash           bool
		last                  *Node
	)
	for i := 0; i < len(elems); i++ {
		el := elems[i]
		switch {
		case b.isKind(el, token.Comma):
			if isDef && last != nil {
				b.attachArgComment(last, b.nextLeaf(el))
			}
			continue
		case b.isKind(el, token.Slash):
			b.require(el, mode.PosOnlyArguments, "positional-only parameters are only supported in Python 3.8 and greater")
			if slash || star || len(args) == 0 {
				b.fail(el, "invalid syntax")
			}
			slash = true
			posonly, args = args, nil
			last = nil
		case b.isKind(el, token.Star):
			if star {
				b.fail(el, "* argument may appear only once")
			}
			star = true
			last = nil
			if i+1 < len(elems) && !b.isKind(elems[i+1], token.Comma) {
				i++
				last = b.arg(elems[i])
				vararg = last
			} else if i+1 >= len(elems) || !b.followedByNamed(elems[i+1:]) {
				b.fail(el, "named arguments must follow bare *")
			}
		case b.isKind(el, token.DoubleStar):
			i++
			last = b.arg(elems[i])
			kwarg = last
		default:
			last = b.arg(el)
			var def *Node
			if i+2 < len(elems) && b.isKind(elems[i+1], token.Equal) {
				def = b.expr(elems[i+2])
				i += 2
			}
			if star {
				kwonly = append(kwonly, last)
				kwDefaults = append(kwDefaults, def)
				continue
			}
			args = append(args, last)
			if def != nil {
				defaults = append(defaults, def)
			} else if len(defaults) > 0 {
				b.fail(el, "non-default argument follows default argument")
			}
		}
	}
	if isDef && last != nil {
		if closing := b.nextLeaf(id); closing.IsValid() {
			b.attachArgComment(last, closing)
		}
	}
	return mk("arguments", 0,
		f("posonlyargs", orEmpty(posonly)), f("args", orEmpty(args)), f("vararg", vararg),
		f("kwonlyargs", orEmpty(kwonly)), f("kw_defaults", orEmpty(kwDefaults)),
		f("kwarg", kwarg), f("defaults", orEmpty(defaults)))
}

func orEmpty(l List) List {
	if l == nil {
		return List{}
	}
	return l
}

// followedByNamed reports whether a parameter name follows a bare '*'.
func (b *builder) followedByNamed(rest []cst.NodeID) bool {
	for _, el := range rest {
		if b.isKind(el, token.DoubleStar) {
			return false
		}
		if !b.tree.IsLeaf(el) || b.isKind(el, token.Name) {
			return true
		}
	}
	return false
}

func (b *builder) arg(id cst.NodeID) *Node {
	if b.tree.IsLeaf(id) {
		return mk("arg", b.line(id), f("arg", Str(b.name(id))), f("annotation", None), f("type_comment", None))
	}
	kids := b.kids(id)
	return mk("arg", b.line(id),
		f("arg", Str(b.name(kids[0]))), f("annotation", b.expr(kids[2])), f("type_comment", None))
}

func (b *builder) attachArgComment(a *Node, leaf cst.NodeID) {
	if c := b.takeTypeComment(leaf); c != None {
		a.Set("type_comment", c)
	}
}

// nextLeaf returns the leaf right after id in source order.
func (b *builder) nextLeaf(id cst.NodeID) cst.NodeID {
	for id.IsValid() {
		if next := b.tree.NextSibling(id); next.IsValid() {
			return b.tree.FirstLeaf(next)
		}
		id = b.tree.Parent(id)
	}
	return cst.NoNodeID
}

// callArgs splits an arglist into positional arguments and keywords.
func (b *builder) callArgs(id cst.NodeID) (args, keywords List) {
	args, keywords = List{}, List{}
	items := b.items(id, cst.Arglist)
	sawKeyword, sawKwUnpack := false, false
	for _, it := range items {
		if b.sym(it) != cst.Argument {
			if sawKwUnpack {
				b.fail(it, "positional argument follows keyword argument unpacking")
			} else if sawKeyword {
				b.fail(it, "positional argument follows keyword argument")
			}
			args = append(args, b.expr(it))
			continue
		}
		kids := b.kids(it)
		line := b.line(it)
		switch {
		case b.isKind(kids[0], token.Star):
			if sawKwUnpack {
				b.fail(it, "iterable argument unpacking follows keyword argument unpacking")
			}
			args = append(args, mk("Starred", line, f("value", b.expr(kids[1])), f("ctx", loadCtx)))
		case b.isKind(kids[0], token.DoubleStar):
			sawKwUnpack = true
			keywords = append(keywords, mk("keyword", line, f("arg", None), f("value", b.expr(kids[1]))))
		case len(kids) == 2:
			if len(items) > 1 || b.sym(id) == cst.Arglist {
				b.fail(it, "Generator expression must be parenthesized")
			}
			args = append(args, mk("GeneratorExp", line, f("elt", b.expr(kids[0])), f("generators", b.generators(kids[1]))))
		case b.isKind(kids[1], token.ColonEqual):
			b.require(it, mode.AssignmentExpressions, "assignment expressions are only supported in Python 3.8 and greater")
			target := b.expr(kids[0])
			if !target.Is("Name") {
				b.fail(kids[0], "cannot use assignment expressions with "+invalidTargetName(target))
			}
			b.setCtx(target, storeCtx)
			args = append(args, mk("NamedExpr", line, f("target", target), f("value", b.expr(kids[2]))))
		default:
			if !b.isKind(kids[0], token.Name) {
				b.fail(kids[0], `expression cannot contain assignment, perhaps you meant "=="?`)
			}
			sawKeyword = true
			keywords = append(keywords, mk("keyword", line, f("arg", Str(b.name(kids[0]))), f("value", b.expr(kids[2]))))
		}
	}
	return args, keywords
}
