package parser

import (
	"pyfmt/internal/cst"
	"pyfmt/internal/token"
)

// clause разбирает "kw cond ':' suite" и дописывает части в kids.
func (p *Parser) clause(kids []cst.NodeID, cond func() (cst.NodeID, bool)) ([]cst.NodeID, bool) {
	kids = append(kids, p.leaf())
	if cond != nil {
		c, ok := cond()
		if !ok {
			return nil, false
		}
		kids = append(kids, c)
	}
	colon, ok := p.expect(token.Colon, "':'")
	if !ok {
		return nil, false
	}
	body, ok := p.parseSuite()
	if !ok {
		return nil, false
	}
	return append(kids, colon, body), true
}

// elseClause дописывает необязательный хвост "else ':' suite".
func (p *Parser) elseClause(kids []cst.NodeID) ([]cst.NodeID, bool) {
	if !p.atName("else") {
		return kids, true
	}
	return p.clause(kids, nil)
}

// if_stmt: 'if' namedexpr_test ':' suite ('elif' namedexpr_test ':' suite)* ['else' ':' suite]
func (p *Parser) parseIfStmt() (cst.NodeID, bool) {
	kids, ok := p.clause(nil, p.parseNamedexprTest)
	if !ok {
		return cst.NoNodeID, false
	}
	for p.atName("elif") {
		if kids, ok = p.clause(kids, p.parseNamedexprTest); !ok {
			return cst.NoNodeID, false
		}
	}
	if kids, ok = p.elseClause(kids); !ok {
		return cst.NoNodeID, false
	}
	return p.tree.NewNode(cst.IfStmt, kids...), true
}

// while_stmt: 'while' namedexpr_test ':' suite ['else' ':' suite]
func (p *Parser) parseWhileStmt() (cst.NodeID, bool) {
	kids, ok := p.clause(nil, p.parseNamedexprTest)
	if !ok {
		return cst.NoNodeID, false
	}
	if kids, ok = p.elseClause(kids); !ok {
		return cst.NoNodeID, false
	}
	return p.tree.NewNode(cst.WhileStmt, kids...), true
}

// for_stmt: 'for' exprlist 'in' testlist_star_expr ':' suite ['else' ':' suite]
func (p *Parser) parseForStmt() (cst.NodeID, bool) {
	kids := []cst.NodeID{p.leaf()}
	target, ok := p.parseExprlist()
	if !ok {
		return cst.NoNodeID, false
	}
	in, ok := p.expectName("in")
	if !ok {
		return cst.NoNodeID, false
	}
	iter, ok := p.parseTestlistStarExpr()
	if !ok {
		return cst.NoNodeID, false
	}
	colon, ok := p.expect(token.Colon, "':'")
	if !ok {
		return cst.NoNodeID, false
	}
	body, ok := p.parseSuite()
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, target, in, iter, colon, body)
	if kids, ok = p.elseClause(kids); !ok {
		return cst.NoNodeID, false
	}
	return p.tree.NewNode(cst.ForStmt, kids...), true
}

// try_stmt: 'try' ':' suite ((except_clause ':' suite)+ ['else' ':' suite]
//
//	['finally' ':' suite] | 'finally' ':' suite)
func (p *Parser) parseTryStmt() (cst.NodeID, bool) {
	kids, ok := p.clause(nil, nil)
	if !ok {
		return cst.NoNodeID, false
	}
	handlers := 0
	for p.atName("except") {
		exc, ok := p.parseExceptClause()
		if !ok {
			return cst.NoNodeID, false
		}
		colon, ok := p.expect(token.Colon, "':'")
		if !ok {
			return cst.NoNodeID, false
		}
		body, ok := p.parseSuite()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, exc, colon, body)
		handlers++
	}
	if handlers > 0 {
		if kids, ok = p.elseClause(kids); !ok {
			return cst.NoNodeID, false
		}
	}
	if p.atName("finally") {
		if kids, ok = p.clause(kids, nil); !ok {
			return cst.NoNodeID, false
		}
	} else if handlers == 0 {
		return cst.NoNodeID, p.fail("expected 'except' or 'finally'")
	}
	return p.tree.NewNode(cst.TryStmt, kids...), true
}

// except_clause: 'except' [test [(',' | 'as') test]]
func (p *Parser) parseExceptClause() (cst.NodeID, bool) {
	kids := []cst.NodeID{p.leaf()}
	if p.atExprStart() {
		typ, ok := p.parseTest()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, typ)
		if p.atName("as") || p.at(token.Comma) {
			kids = append(kids, p.leaf())
			name, ok := p.parseTest()
			if !ok {
				return cst.NoNodeID, false
			}
			kids = append(kids, name)
		}
	}
	return p.node(cst.ExceptClause, kids...), true
}

// with_stmt: 'with' asexpr_test (',' asexpr_test)* ':' suite
func (p *Parser) parseWithStmt() (cst.NodeID, bool) {
	kids := []cst.NodeID{p.leaf()}
	for {
		item, ok := p.parseAsexprTest()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, item)
		if !p.at(token.Comma) {
			break
		}
		kids = append(kids, p.leaf())
	}
	colon, ok := p.expect(token.Colon, "':'")
	if !ok {
		return cst.NoNodeID, false
	}
	body, ok := p.parseSuite()
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, colon, body)
	return p.tree.NewNode(cst.WithStmt, kids...), true
}

// asexpr_test: (test|star_expr) ['as' (test|star_expr)]
func (p *Parser) parseAsexprTest() (cst.NodeID, bool) {
	ctx, ok := p.parseTestOrStar()
	if !ok {
		return cst.NoNodeID, false
	}
	if !p.atName("as") {
		return ctx, true
	}
	as := p.leaf()
	target, ok := p.parseTestOrStar()
	if !ok {
		return cst.NoNodeID, false
	}
	return p.tree.NewNode(cst.AsexprTest, ctx, as, target), true
}

// suite: simple_stmt | NEWLINE INDENT stmt+ DEDENT
func (p *Parser) parseSuite() (cst.NodeID, bool) {
	if !p.at(token.Newline) {
		return p.parseSimpleStmt()
	}
	kids := []cst.NodeID{p.leaf()}
	indent, ok := p.expect(token.Indent, "an indented block")
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, indent)
	for {
		stmt, ok := p.parseStmt()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, stmt)
		if p.at(token.Dedent) {
			break
		}
	}
	kids = append(kids, p.leaf())
	return p.tree.NewNode(cst.Suite, kids...), true
}

// funcdef: 'def' NAME parameters ['->' test] ':' suite
func (p *Parser) parseFuncdef() (cst.NodeID, bool) {
	kids := []cst.NodeID{p.leaf()}
	name, ok := p.expectIdent()
	if !ok {
		return cst.NoNodeID, false
	}
	params, ok := p.parseParameters()
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, name, params)
	if p.at(token.RArrow) {
		kids = append(kids, p.leaf())
		ret, ok := p.parseTest()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, ret)
	}
	colon, ok := p.expect(token.Colon, "':'")
	if !ok {
		return cst.NoNodeID, false
	}
	body, ok := p.parseSuite()
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, colon, body)
	return p.tree.NewNode(cst.Funcdef, kids...), true
}

// classdef: 'class' NAME ['(' [arglist] ')'] ':' suite
func (p *Parser) parseClassdef() (cst.NodeID, bool) {
	kids := []cst.NodeID{p.leaf()}
	name, ok := p.expectIdent()
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, name)
	if p.at(token.LPar) {
		kids = append(kids, p.leaf())
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
	}
	colon, ok := p.expect(token.Colon, "':'")
	if !ok {
		return cst.NoNodeID, false
	}
	body, ok := p.parseSuite()
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, colon, body)
	return p.tree.NewNode(cst.Classdef, kids...), true
}

// decorated: decorators (classdef | funcdef | async_funcdef)
func (p *Parser) parseDecorated() (cst.NodeID, bool) {
	var decs []cst.NodeID
	for p.at(token.At) {
		at := p.leaf()
		expr, ok := p.parseNamedexprTest()
		if !ok {
			return cst.NoNodeID, false
		}
		nl, ok := p.expect(token.Newline, "newline")
		if !ok {
			return cst.NoNodeID, false
		}
		decs = append(decs, p.tree.NewNode(cst.Decorator, at, expr, nl))
	}
	head := p.node(cst.Decorators, decs...)

	var (
		def cst.NodeID
		ok  bool
	)
	switch {
	case p.atName("def"):
		def, ok = p.parseFuncdef()
	case p.atName("class"):
		def, ok = p.parseClassdef()
	case p.at(token.Async) && p.peekAt(1).Is("def"):
		async := p.leaf()
		var fn cst.NodeID
		if fn, ok = p.parseFuncdef(); ok {
			def = p.tree.NewNode(cst.AsyncFuncdef, async, fn)
		}
	default:
		return cst.NoNodeID, p.fail("expected 'def' or 'class' after decorator")
	}
	if !ok {
		return cst.NoNodeID, false
	}
	return p.tree.NewNode(cst.Decorated, head, def), true
}

// async_stmt: ASYNC (funcdef | with_stmt | for_stmt)
func (p *Parser) parseAsyncStmt() (cst.NodeID, bool) {
	async := p.leaf()
	var (
		stmt cst.NodeID
		ok   bool
	)
	switch {
	case p.atName("def"):
		stmt, ok = p.parseFuncdef()
	case p.atName("with"):
		stmt, ok = p.parseWithStmt()
	case p.atName("for"):
		stmt, ok = p.parseForStmt()
	default:
		return cst.NoNodeID, p.fail("expected 'def', 'with' or 'for' after 'async'")
	}
	if !ok {
		return cst.NoNodeID, false
	}
	return p.tree.NewNode(cst.AsyncStmt, async, stmt), true
}
