package parser

import (
	"pyfmt/internal/cst"
	"pyfmt/internal/token"
)

// namedexpr_test: test [':=' test]
func (p *Parser) parseNamedexprTest() (cst.NodeID, bool) {
	target, ok := p.parseTest()
	if !ok {
		return cst.NoNodeID, false
	}
	if !p.at(token.ColonEqual) {
		return target, true
	}
	op := p.leaf()
	val, ok := p.parseTest()
	if !ok {
		return cst.NoNodeID, false
	}
	return p.tree.NewNode(cst.NamedexprTest, target, op, val), true
}

// test: or_test ['if' or_test 'else' test] | lambdef
func (p *Parser) parseTest() (cst.NodeID, bool) {
	if p.atName("lambda") {
		return p.parseLambdef(p.parseTest)
	}
	body, ok := p.parseOrTest()
	if !ok {
		return cst.NoNodeID, false
	}
	if !p.atName("if") {
		return body, true
	}
	kw := p.leaf()
	cond, ok := p.parseOrTest()
	if !ok {
		return cst.NoNodeID, false
	}
	els, ok := p.expectName("else")
	if !ok {
		return cst.NoNodeID, false
	}
	orelse, ok := p.parseTest()
	if !ok {
		return cst.NoNodeID, false
	}
	return p.tree.NewNode(cst.Test, body, kw, cond, els, orelse), true
}

// old_test: or_test | old_lambdef
func (p *Parser) parseOldTest() (cst.NodeID, bool) {
	if p.atName("lambda") {
		return p.parseLambdef(p.parseOldTest)
	}
	return p.parseOrTest()
}

// lambdef: 'lambda' [varargslist] ':' test
func (p *Parser) parseLambdef(body func() (cst.NodeID, bool)) (cst.NodeID, bool) {
	kids := []cst.NodeID{p.leaf()}
	if !p.at(token.Colon) {
		args, ok := p.parseParamList(lambdaParams)
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, args)
	}
	colon, ok := p.expect(token.Colon, "':'")
	if !ok {
		return cst.NoNodeID, false
	}
	val, ok := body()
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, colon, val)
	return p.tree.NewNode(cst.Lambdef, kids...), true
}

// or_test: and_test ('or' and_test)*
func (p *Parser) parseOrTest() (cst.NodeID, bool) {
	return p.keywordChain(cst.OrTest, "or", p.parseAndTest)
}

// and_test: not_test ('and' not_test)*
func (p *Parser) parseAndTest() (cst.NodeID, bool) {
	return p.keywordChain(cst.AndTest, "and", p.parseNotTest)
}

func (p *Parser) keywordChain(sym cst.Symbol, kw string, next func() (cst.NodeID, bool)) (cst.NodeID, bool) {
	first, ok := next()
	if !ok {
		return cst.NoNodeID, false
	}
	kids := []cst.NodeID{first}
	for p.atName(kw) {
		kids = append(kids, p.leaf())
		operand, ok := next()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, operand)
	}
	return p.node(sym, kids...), true
}

// not_test: 'not' not_test | comparison
func (p *Parser) parseNotTest() (cst.NodeID, bool) {
	if !p.atName("not") {
		return p.parseComparison()
	}
	kw := p.leaf()
	operand, ok := p.parseNotTest()
	if !ok {
		return cst.NoNodeID, false
	}
	return p.tree.NewNode(cst.NotTest, kw, operand), true
}

// comparison: expr (comp_op expr)*
func (p *Parser) parseComparison() (cst.NodeID, bool) {
	first, ok := p.parseExpr()
	if !ok {
		return cst.NoNodeID, false
	}
	kids := []cst.NodeID{first}
	for {
		op, ok := p.parseCompOp()
		if !ok {
			break
		}
		operand, ok := p.parseExpr()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, op, operand)
	}
	return p.node(cst.Comparison, kids...), true
}

// comp_op: '<'|'>'|'=='|'>='|'<='|'<>'|'!='|'in'|'not' 'in'|'is'|'is' 'not'
// Двухсловные операторы становятся узлом comp_op.
func (p *Parser) parseCompOp() (cst.NodeID, bool) {
	tok := p.peek()
	switch {
	case tok.Kind.IsComparison(), tok.Is("in"):
		return p.leaf(), true
	case tok.Is("not") && p.peekAt(1).Is("in"):
		not := p.leaf()
		return p.tree.NewNode(cst.CompOp, not, p.leaf()), true
	case tok.Is("is"):
		is := p.leaf()
		if p.atName("not") {
			return p.tree.NewNode(cst.CompOp, is, p.leaf()), true
		}
		return is, true
	}
	return cst.NoNodeID, false
}

// star_expr: '*' expr
func (p *Parser) parseStarExpr() (cst.NodeID, bool) {
	star := p.leaf()
	operand, ok := p.parseExpr()
	if !ok {
		return cst.NoNodeID, false
	}
	return p.tree.NewNode(cst.StarExpr, star, operand), true
}

func (p *Parser) parseTestOrStar() (cst.NodeID, bool) {
	if p.at(token.Star) {
		return p.parseStarExpr()
	}
	return p.parseTest()
}

func (p *Parser) parseNamedOrStar() (cst.NodeID, bool) {
	if p.at(token.Star) {
		return p.parseStarExpr()
	}
	return p.parseNamedexprTest()
}

func (p *Parser) parseExprOrStar() (cst.NodeID, bool) {
	if p.at(token.Star) {
		return p.parseStarExpr()
	}
	return p.parseExpr()
}

// binaryLevels — уровни бинарных операторов от слабого к сильному.
var binaryLevels = []struct {
	sym cst.Symbol
	ops []token.Kind
}{
	{cst.Expr, []token.Kind{token.VBar}},
	{cst.XorExpr, []token.Kind{token.Circumflex}},
	{cst.AndExpr, []token.Kind{token.Amper}},
	{cst.ShiftExpr, []token.Kind{token.LeftShift, token.RightShift}},
	{cst.ArithExpr, []token.Kind{token.Plus, token.Minus}},
	{cst.Term, []token.Kind{token.Star, token.Slash, token.Percent, token.DoubleSlash, token.At}},
}

// expr: xor_expr ('|' xor_expr)*  ...  term: factor (('*'|'/'|'%'|'//'|'@') factor)*
func (p *Parser) parseExpr() (cst.NodeID, bool) {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(level int) (cst.NodeID, bool) {
	if level == len(binaryLevels) {
		return p.parseFactor()
	}
	lv := binaryLevels[level]
	first, ok := p.parseBinary(level + 1)
	if !ok {
		return cst.NoNodeID, false
	}
	kids := []cst.NodeID{first}
	for p.atAny(lv.ops...) {
		kids = append(kids, p.leaf())
		operand, ok := p.parseBinary(level + 1)
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, operand)
	}
	return p.node(lv.sym, kids...), true
}

// factor: ('+'|'-'|'~') factor | power
func (p *Parser) parseFactor() (cst.NodeID, bool) {
	if !p.atAny(token.Plus, token.Minus, token.Tilde) {
		return p.parsePower()
	}
	op := p.leaf()
	operand, ok := p.parseFactor()
	if !ok {
		return cst.NoNodeID, false
	}
	return p.tree.NewNode(cst.Factor, op, operand), true
}

// power: [AWAIT] atom trailer* ['**' factor]
func (p *Parser) parsePower() (cst.NodeID, bool) {
	var kids []cst.NodeID
	if p.at(token.Await) {
		kids = append(kids, p.leaf())
	}
	atom, ok := p.parseAtom()
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, atom)
	for p.atAny(token.LPar, token.LSqb, token.Dot) {
		tr, ok := p.parseTrailer()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, tr)
	}
	if p.at(token.DoubleStar) {
		kids = append(kids, p.leaf())
		exp, ok := p.parseFactor()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, exp)
	}
	return p.node(cst.Power, kids...), true
}

// atom: '(' [yield_expr|testlist_gexp] ')' | '[' [listmaker] ']' |
//
//	'{' [dictsetmaker] '}' | NAME | NUMBER | STRING+ | '...'
func (p *Parser) parseAtom() (cst.NodeID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.LPar:
		return p.parseBracketed(token.RPar, "')'", func() (cst.NodeID, bool) {
			if p.atName("yield") {
				return p.parseYieldExpr()
			}
			return p.parseGexp(cst.TestlistGexp)
		})
	case token.LSqb:
		return p.parseBracketed(token.RSqb, "']'", func() (cst.NodeID, bool) {
			return p.parseGexp(cst.Listmaker)
		})
	case token.LBrace:
		return p.parseBracketed(token.RBrace, "'}'", p.parseDictsetmaker)
	case token.Number, token.Ellipsis:
		return p.leaf(), true
	case token.String:
		kids := []cst.NodeID{p.leaf()}
		for p.at(token.String) {
			kids = append(kids, p.leaf())
		}
		return p.node(cst.Atom, kids...), true
	case token.Name:
		if isReserved(tok.Text) {
			return cst.NoNodeID, p.fail("invalid syntax")
		}
		return p.leaf(), true
	}
	return cst.NoNodeID, p.fail("invalid syntax")
}

// parseBracketed: open [inner] close → atom.
func (p *Parser) parseBracketed(closing token.Kind, what string, inner func() (cst.NodeID, bool)) (cst.NodeID, bool) {
	kids := []cst.NodeID{p.leaf()}
	if !p.at(closing) {
		body, ok := inner()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, body)
	}
	cl, ok := p.expect(closing, what)
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, cl)
	return p.tree.NewNode(cst.Atom, kids...), true
}

// testlist_gexp / listmaker:
// (namedexpr_test|star_expr) ( old_comp_for | (',' (namedexpr_test|star_expr))* [','] )
func (p *Parser) parseGexp(sym cst.Symbol) (cst.NodeID, bool) {
	first, ok := p.parseNamedOrStar()
	if !ok {
		return cst.NoNodeID, false
	}
	if p.atCompFor() {
		comp, ok := p.parseCompFor(cst.OldCompFor)
		if !ok {
			return cst.NoNodeID, false
		}
		return p.tree.NewNode(sym, first, comp), true
	}
	return p.commaList(sym, first, p.parseNamedOrStar)
}

// commaList продолжает список через запятые, допуская хвостовую запятую.
func (p *Parser) commaList(sym cst.Symbol, first cst.NodeID, item func() (cst.NodeID, bool)) (cst.NodeID, bool) {
	kids := []cst.NodeID{first}
	for p.at(token.Comma) {
		kids = append(kids, p.leaf())
		if !p.atExprStart() {
			break
		}
		next, ok := item()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, next)
	}
	return p.node(sym, kids...), true
}

// dictsetmaker: ( (test ':' asexpr_test | '**' expr) (comp_for | (',' ...)* [',']) |
//
//	(test [':=' test] | star_expr) (comp_for | (',' ...)* [',']) )
func (p *Parser) parseDictsetmaker() (cst.NodeID, bool) {
	var kids []cst.NodeID
	isDict := p.at(token.DoubleStar)
	first := true
	for {
		switch {
		case p.at(token.DoubleStar):
			if !isDict {
				return cst.NoNodeID, p.fail("invalid syntax")
			}
			kids = append(kids, p.leaf())
			val, ok := p.parseExpr()
			if !ok {
				return cst.NoNodeID, false
			}
			kids = append(kids, val)
		case p.at(token.Star):
			if isDict {
				return cst.NoNodeID, p.fail("invalid syntax")
			}
			val, ok := p.parseStarExpr()
			if !ok {
				return cst.NoNodeID, false
			}
			kids = append(kids, val)
		default:
			key, ok := p.parseTest()
			if !ok {
				return cst.NoNodeID, false
			}
			if first && p.at(token.Colon) {
				isDict = true
			}
			if isDict {
				colon, ok := p.expect(token.Colon, "':'")
				if !ok {
					return cst.NoNodeID, false
				}
				val, ok := p.parseTest()
				if !ok {
					return cst.NoNodeID, false
				}
				kids = append(kids, key, colon, val)
			} else if p.at(token.ColonEqual) {
				op := p.leaf()
				val, ok := p.parseTest()
				if !ok {
					return cst.NoNodeID, false
				}
				kids = append(kids, p.tree.NewNode(cst.NamedexprTest, key, op, val))
			} else {
				kids = append(kids, key)
			}
		}
		if first && p.atCompFor() {
			comp, ok := p.parseCompFor(cst.CompFor)
			if !ok {
				return cst.NoNodeID, false
			}
			kids = append(kids, comp)
			return p.tree.NewNode(cst.Dictsetmaker, kids...), true
		}
		first = false
		if !p.at(token.Comma) {
			break
		}
		kids = append(kids, p.leaf())
		if p.at(token.RBrace) {
			break
		}
	}
	return p.node(cst.Dictsetmaker, kids...), true
}

// comp_for: [ASYNC] 'for' exprlist 'in' or_test [comp_iter]
// comp_iter: comp_for | comp_if
func (p *Parser) parseCompFor(sym cst.Symbol) (cst.NodeID, bool) {
	var kids []cst.NodeID
	if p.at(token.Async) {
		kids = append(kids, p.leaf())
	}
	kw, ok := p.expectName("for")
	if !ok {
		return cst.NoNodeID, false
	}
	target, ok := p.parseExprlist()
	if !ok {
		return cst.NoNodeID, false
	}
	in, ok := p.expectName("in")
	if !ok {
		return cst.NoNodeID, false
	}
	iter, ok := p.parseOrTest()
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, kw, target, in, iter)
	if next, ok, present := p.parseCompIter(sym); present {
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, next)
	}
	return p.tree.NewNode(sym, kids...), true
}

// comp_if: 'if' old_test [comp_iter]
func (p *Parser) parseCompIf(forSym cst.Symbol) (cst.NodeID, bool) {
	sym := cst.CompIf
	if forSym == cst.OldCompFor {
		sym = cst.OldCompIf
	}
	kw := p.leaf()
	cond, ok := p.parseOldTest()
	if !ok {
		return cst.NoNodeID, false
	}
	kids := []cst.NodeID{kw, cond}
	if next, ok, present := p.parseCompIter(forSym); present {
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, next)
	}
	return p.tree.NewNode(sym, kids...), true
}

func (p *Parser) parseCompIter(forSym cst.Symbol) (id cst.NodeID, ok, present bool) {
	switch {
	case p.atCompFor():
		id, ok = p.parseCompFor(forSym)
		return id, ok, true
	case p.atName("if"):
		id, ok = p.parseCompIf(forSym)
		return id, ok, true
	}
	return cst.NoNodeID, false, false
}

// trailer: '(' [arglist] ')' | '[' subscriptlist ']' | '.' NAME
func (p *Parser) parseTrailer() (cst.NodeID, bool) {
	switch {
	case p.at(token.Dot):
		dot := p.leaf()
		name, ok := p.expect(token.Name, "attribute name")
		if !ok {
			return cst.NoNodeID, false
		}
		return p.tree.NewNode(cst.Trailer, dot, name), true
	case p.at(token.LPar):
		kids := []cst.NodeID{p.leaf()}
		if !p.at(token.RPar) {
			args, ok := p.parseArglist()
			if !ok {
				return cst.NoNodeID, false
			}
			kids = append(kids, args)
		}
		rpar, ok := p.expect(token.RPar, "')'")
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, rpar)
		return p.tree.NewNode(cst.Trailer, kids...), true
	}
	lsqb := p.leaf()
	subs, ok := p.parseSubscriptlist()
	if !ok {
		return cst.NoNodeID, false
	}
	rsqb, ok := p.expect(token.RSqb, "']'")
	if !ok {
		return cst.NoNodeID, false
	}
	return p.tree.NewNode(cst.Trailer, lsqb, subs, rsqb), true
}

// subscriptlist: subscript (',' subscript)* [',']
func (p *Parser) parseSubscriptlist() (cst.NodeID, bool) {
	var kids []cst.NodeID
	for {
		sub, ok := p.parseSubscript()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, sub)
		if !p.at(token.Comma) {
			break
		}
		kids = append(kids, p.leaf())
		if p.at(token.RSqb) {
			break
		}
	}
	return p.node(cst.Subscriptlist, kids...), true
}

// subscript: test [':=' test] | star_expr | [test] ':' [test] [sliceop]
// sliceop: ':' [test]
func (p *Parser) parseSubscript() (cst.NodeID, bool) {
	if p.at(token.Star) {
		return p.parseStarExpr()
	}
	var kids []cst.NodeID
	if !p.at(token.Colon) {
		lower, ok := p.parseNamedexprTest()
		if !ok {
			return cst.NoNodeID, false
		}
		if !p.at(token.Colon) {
			return lower, true
		}
		kids = append(kids, lower)
	}
	kids = append(kids, p.leaf())
	if p.atExprStart() {
		upper, ok := p.parseTest()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, upper)
	}
	if p.at(token.Colon) {
		sl := []cst.NodeID{p.leaf()}
		if p.atExprStart() {
			step, ok := p.parseTest()
			if !ok {
				return cst.NoNodeID, false
			}
			sl = append(sl, step)
		}
		kids = append(kids, p.node(cst.Sliceop, sl...))
	}
	return p.node(cst.Subscript, kids...), true
}

// exprlist: (expr|star_expr) (',' (expr|star_expr))* [',']
func (p *Parser) parseExprlist() (cst.NodeID, bool) {
	first, ok := p.parseExprOrStar()
	if !ok {
		return cst.NoNodeID, false
	}
	return p.commaList(cst.Exprlist, first, p.parseExprOrStar)
}

// testlist: test (',' test)* [',']
func (p *Parser) parseTestlist() (cst.NodeID, bool) {
	first, ok := p.parseTest()
	if !ok {
		return cst.NoNodeID, false
	}
	return p.commaList(cst.Testlist, first, p.parseTest)
}

// testlist_star_expr: (test|star_expr) (',' (test|star_expr))* [',']
func (p *Parser) parseTestlistStarExpr() (cst.NodeID, bool) {
	first, ok := p.parseTestOrStar()
	if !ok {
		return cst.NoNodeID, false
	}
	return p.commaList(cst.TestlistStarExpr, first, p.parseTestOrStar)
}

// yield_expr: 'yield' [yield_arg]; yield_arg: 'from' test | testlist_star_expr
func (p *Parser) parseYieldExpr() (cst.NodeID, bool) {
	kw := p.leaf()
	switch {
	case p.atName("from"):
		from := p.leaf()
		val, ok := p.parseTest()
		if !ok {
			return cst.NoNodeID, false
		}
		return p.tree.NewNode(cst.YieldExpr, kw, p.tree.NewNode(cst.YieldArg, from, val)), true
	case p.atExprStart():
		val, ok := p.parseTestlistStarExpr()
		if !ok {
			return cst.NoNodeID, false
		}
		return p.tree.NewNode(cst.YieldExpr, kw, val), true
	}
	return kw, true
}
