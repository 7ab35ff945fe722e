package parser

import (
	"pyfmt/internal/cst"
	"pyfmt/internal/token"
)

// parseStmt выбирает по первому токену составной оператор, иначе simple_stmt.
func (p *Parser) parseStmt() (cst.NodeID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.At:
		return p.parseDecorated()
	case token.Async:
		return p.parseAsyncStmt()
	case token.Name:
		switch tok.Text {
		case "if":
			return p.parseIfStmt()
		case "while":
			return p.parseWhileStmt()
		case "for":
			return p.parseForStmt()
		case "try":
			return p.parseTryStmt()
		case "with":
			return p.parseWithStmt()
		case "def":
			return p.parseFuncdef()
		case "class":
			return p.parseClassdef()
		case "match":
			if p.gram.SoftKeywords {
				sp := p.save()
				if id, ok := p.parseMatchStmt(); ok {
					return id, true
				}
				p.restore(sp)
			}
		}
	}
	return p.parseSimpleStmt()
}

// simple_stmt: small_stmt (';' small_stmt)* [';'] NEWLINE
func (p *Parser) parseSimpleStmt() (cst.NodeID, bool) {
	first, ok := p.parseSmallStmt()
	if !ok {
		return cst.NoNodeID, false
	}
	kids := []cst.NodeID{first}
	for p.at(token.Semi) {
		kids = append(kids, p.leaf())
		if p.at(token.Newline) {
			break
		}
		next, ok := p.parseSmallStmt()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, next)
	}
	nl, ok := p.expect(token.Newline, "newline")
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, nl)
	return p.tree.NewNode(cst.SimpleStmt, kids...), true
}

func (p *Parser) parseSmallStmt() (cst.NodeID, bool) {
	tok := p.peek()
	if tok.Kind != token.Name {
		return p.parseExprStmt()
	}
	switch tok.Text {
	case "pass", "break", "continue":
		return p.leaf(), true
	case "del":
		kw := p.leaf()
		targets, ok := p.parseExprlist()
		if !ok {
			return cst.NoNodeID, false
		}
		return p.tree.NewNode(cst.DelStmt, kw, targets), true
	case "return":
		kids := []cst.NodeID{p.leaf()}
		if p.atExprStart() {
			val, ok := p.parseTestlistStarExpr()
			if !ok {
				return cst.NoNodeID, false
			}
			kids = append(kids, val)
		}
		return p.node(cst.ReturnStmt, kids...), true
	case "raise":
		return p.parseRaiseStmt()
	case "yield":
		return p.parseYieldExpr()
	case "import":
		kw := p.leaf()
		names, ok := p.parseDottedAsNames()
		if !ok {
			return cst.NoNodeID, false
		}
		return p.tree.NewNode(cst.ImportName, kw, names), true
	case "from":
		return p.parseImportFrom()
	case "global", "nonlocal":
		return p.parseGlobalStmt()
	case "assert":
		kids := []cst.NodeID{p.leaf()}
		cond, ok := p.parseTest()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, cond)
		if p.at(token.Comma) {
			kids = append(kids, p.leaf())
			msg, ok := p.parseTest()
			if !ok {
				return cst.NoNodeID, false
			}
			kids = append(kids, msg)
		}
		return p.tree.NewNode(cst.AssertStmt, kids...), true
	}
	return p.parseExprStmt()
}

// raise_stmt: 'raise' [test ['from' test]]
func (p *Parser) parseRaiseStmt() (cst.NodeID, bool) {
	kids := []cst.NodeID{p.leaf()}
	if p.atExprStart() {
		exc, ok := p.parseTest()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, exc)
		if p.atName("from") {
			kids = append(kids, p.leaf())
			cause, ok := p.parseTest()
			if !ok {
				return cst.NoNodeID, false
			}
			kids = append(kids, cause)
		}
	}
	return p.node(cst.RaiseStmt, kids...), true
}

// global_stmt: ('global' | 'nonlocal') NAME (',' NAME)*
func (p *Parser) parseGlobalStmt() (cst.NodeID, bool) {
	kids := []cst.NodeID{p.leaf()}
	for {
		name, ok := p.expectIdent()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, name)
		if !p.at(token.Comma) {
			break
		}
		kids = append(kids, p.leaf())
	}
	return p.tree.NewNode(cst.GlobalStmt, kids...), true
}

// expr_stmt: testlist_star_expr (annassign | augassign (yield_expr|testlist) |
//
//	('=' (yield_expr|testlist_star_expr))*)
func (p *Parser) parseExprStmt() (cst.NodeID, bool) {
	first, ok := p.parseTestlistStarExpr()
	if !ok {
		return cst.NoNodeID, false
	}
	switch {
	case p.at(token.Colon):
		ann, ok := p.parseAnnAssign()
		if !ok {
			return cst.NoNodeID, false
		}
		return p.tree.NewNode(cst.ExprStmt, first, ann), true
	case p.peek().Kind.IsAugAssign():
		op := p.leaf()
		var rhs cst.NodeID
		if p.atName("yield") {
			rhs, ok = p.parseYieldExpr()
		} else {
			rhs, ok = p.parseTestlist()
		}
		if !ok {
			return cst.NoNodeID, false
		}
		return p.tree.NewNode(cst.ExprStmt, first, op, rhs), true
	}
	kids := []cst.NodeID{first}
	for p.at(token.Equal) {
		kids = append(kids, p.leaf())
		rhs, ok := p.parseYieldOrTestlistStarExpr()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, rhs)
	}
	return p.node(cst.ExprStmt, kids...), true
}

// annassign: ':' test ['=' (yield_expr|testlist_star_expr)]
func (p *Parser) parseAnnAssign() (cst.NodeID, bool) {
	kids := []cst.NodeID{p.leaf()}
	ann, ok := p.parseTest()
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, ann)
	if p.at(token.Equal) {
		kids = append(kids, p.leaf())
		val, ok := p.parseYieldOrTestlistStarExpr()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, val)
	}
	return p.tree.NewNode(cst.AnnAssign, kids...), true
}

func (p *Parser) parseYieldOrTestlistStarExpr() (cst.NodeID, bool) {
	if p.atName("yield") {
		return p.parseYieldExpr()
	}
	return p.parseTestlistStarExpr()
}

// import_from: 'from' (('.' | '...')* dotted_name | ('.' | '...')+)
//
//	'import' ('*' | '(' import_as_names ')' | import_as_names)
func (p *Parser) parseImportFrom() (cst.NodeID, bool) {
	kids := []cst.NodeID{p.leaf()}
	dots := 0
	for p.atAny(token.Dot, token.Ellipsis) {
		kids = append(kids, p.leaf())
		dots++
	}
	if !p.atName("import") || dots == 0 {
		mod, ok := p.parseDottedName()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, mod)
	}
	kw, ok := p.expectName("import")
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, kw)
	switch {
	case p.at(token.Star):
		kids = append(kids, p.leaf())
	case p.at(token.LPar):
		kids = append(kids, p.leaf())
		names, ok := p.parseImportAsNames()
		if !ok {
			return cst.NoNodeID, false
		}
		rpar, ok := p.expect(token.RPar, "')'")
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, names, rpar)
	default:
		names, ok := p.parseImportAsNames()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, names)
	}
	return p.tree.NewNode(cst.ImportFrom, kids...), true
}

// import_as_names: import_as_name (',' import_as_name)* [',']
func (p *Parser) parseImportAsNames() (cst.NodeID, bool) {
	var kids []cst.NodeID
	for {
		name, ok := p.expectIdent()
		if !ok {
			return cst.NoNodeID, false
		}
		if p.atName("as") {
			as := p.leaf()
			alias, ok := p.expectIdent()
			if !ok {
				return cst.NoNodeID, false
			}
			name = p.tree.NewNode(cst.ImportAsName, name, as, alias)
		}
		kids = append(kids, name)
		if !p.at(token.Comma) {
			break
		}
		kids = append(kids, p.leaf())
		if p.peek().Kind != token.Name {
			break
		}
	}
	return p.node(cst.ImportAsNames, kids...), true
}

// dotted_as_names: dotted_as_name (',' dotted_as_name)*
func (p *Parser) parseDottedAsNames() (cst.NodeID, bool) {
	var kids []cst.NodeID
	for {
		name, ok := p.parseDottedName()
		if !ok {
			return cst.NoNodeID, false
		}
		if p.atName("as") {
			as := p.leaf()
			alias, ok := p.expectIdent()
			if !ok {
				return cst.NoNodeID, false
			}
			name = p.tree.NewNode(cst.DottedAsName, name, as, alias)
		}
		kids = append(kids, name)
		if !p.at(token.Comma) {
			break
		}
		kids = append(kids, p.leaf())
	}
	return p.node(cst.DottedAsNames, kids...), true
}

// dotted_name: NAME ('.' NAME)*
func (p *Parser) parseDottedName() (cst.NodeID, bool) {
	first, ok := p.expectIdent()
	if !ok {
		return cst.NoNodeID, false
	}
	kids := []cst.NodeID{first}
	for p.at(token.Dot) {
		kids = append(kids, p.leaf())
		name, ok := p.expectIdent()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, name)
	}
	return p.node(cst.DottedName, kids...), true
}
