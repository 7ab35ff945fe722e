package parser

import (
	"pyfmt/internal/cst"
	"pyfmt/internal/token"
)

// match_stmt: "match" subject_expr ':' NEWLINE INDENT case_block+ DEDENT
//
// match и case — мягкие ключевые слова: вызывающий код откатывает разбор,
// если оператор не сложился, и пробует обычный simple_stmt.
func (p *Parser) parseMatchStmt() (cst.NodeID, bool) {
	kids := []cst.NodeID{p.leaf()}
	subject, ok := p.parseSubjectExpr()
	if !ok {
		return cst.NoNodeID, false
	}
	colon, ok := p.expect(token.Colon, "':'")
	if !ok {
		return cst.NoNodeID, false
	}
	nl, ok := p.expect(token.Newline, "newline")
	if !ok {
		return cst.NoNodeID, false
	}
	indent, ok := p.expect(token.Indent, "an indented block")
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, subject, colon, nl, indent)
	for {
		if !p.atName("case") {
			return cst.NoNodeID, p.fail("expected 'case'")
		}
		block, ok := p.parseCaseBlock()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, block)
		if p.at(token.Dedent) {
			break
		}
	}
	kids = append(kids, p.leaf())
	return p.tree.NewNode(cst.MatchStmt, kids...), true
}

// subject_expr: (namedexpr_test|star_expr) (',' (namedexpr_test|star_expr))* [',']
func (p *Parser) parseSubjectExpr() (cst.NodeID, bool) {
	first, ok := p.parseNamedOrStar()
	if !ok {
		return cst.NoNodeID, false
	}
	return p.commaList(cst.SubjectExpr, first, p.parseNamedOrStar)
}

// case_block: "case" patterns [guard] ':' suite
// guard: 'if' namedexpr_test
func (p *Parser) parseCaseBlock() (cst.NodeID, bool) {
	kids := []cst.NodeID{p.leaf()}
	pats, ok := p.parsePatterns()
	if !ok {
		return cst.NoNodeID, false
	}
	kids = append(kids, pats)
	if p.atName("if") {
		kw := p.leaf()
		cond, ok := p.parseNamedexprTest()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, p.tree.NewNode(cst.Guard, kw, cond))
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
	return p.tree.NewNode(cst.CaseBlock, kids...), true
}

// patterns: pattern (',' pattern)* [',']
func (p *Parser) parsePatterns() (cst.NodeID, bool) {
	first, ok := p.parsePattern()
	if !ok {
		return cst.NoNodeID, false
	}
	return p.commaList(cst.Patterns, first, p.parsePattern)
}

// pattern: (expr|star_expr) ['as' expr]
func (p *Parser) parsePattern() (cst.NodeID, bool) {
	pat, ok := p.parseExprOrStar()
	if !ok {
		return cst.NoNodeID, false
	}
	if !p.atName("as") {
		return pat, true
	}
	as := p.leaf()
	name, ok := p.parseExpr()
	if !ok {
		return cst.NoNodeID, false
	}
	return p.tree.NewNode(cst.Pattern, pat, as, name), true
}
