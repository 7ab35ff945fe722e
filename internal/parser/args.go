package parser

import (
	"pyfmt/internal/cst"
	"pyfmt/internal/token"
)

// paramStyle отличает параметры def (с аннотациями) от параметров lambda.
type paramStyle struct {
	list      cst.Symbol
	annotated bool
	end       token.Kind
}

var (
	defParams    = paramStyle{list: cst.Typedargslist, annotated: true, end: token.RPar}
	lambdaParams = paramStyle{list: cst.Varargslist, end: token.Colon}
)

// parameters: '(' [typedargslist] ')'
func (p *Parser) parseParameters() (cst.NodeID, bool) {
	lpar, ok := p.expect(token.LPar, "'('")
	if !ok {
		return cst.NoNodeID, false
	}
	kids := []cst.NodeID{lpar}
	if !p.at(token.RPar) {
		args, ok := p.parseParamList(defParams)
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
	return p.tree.NewNode(cst.Parameters, kids...), true
}

// parseParamList разбирает typedargslist/varargslist плоским списком:
// элементы '/', '*' [name], '**' name, name ['=' test], разделённые запятыми.
func (p *Parser) parseParamList(style paramStyle) (cst.NodeID, bool) {
	var kids []cst.NodeID
	for !p.at(style.end) {
		switch {
		case p.at(token.Slash):
			kids = append(kids, p.leaf())
		case p.at(token.Star):
			kids = append(kids, p.leaf())
			if !p.at(token.Comma) && !p.at(style.end) {
				name, ok := p.parseParamName(style, true)
				if !ok {
					return cst.NoNodeID, false
				}
				kids = append(kids, name)
			}
		case p.at(token.DoubleStar):
			kids = append(kids, p.leaf())
			name, ok := p.parseParamName(style, false)
			if !ok {
				return cst.NoNodeID, false
			}
			kids = append(kids, name)
		default:
			name, ok := p.parseParamName(style, false)
			if !ok {
				return cst.NoNodeID, false
			}
			kids = append(kids, name)
			if p.at(token.Equal) {
				kids = append(kids, p.leaf())
				def, ok := p.parseTest()
				if !ok {
					return cst.NoNodeID, false
				}
				kids = append(kids, def)
			}
		}
		if !p.at(token.Comma) {
			break
		}
		kids = append(kids, p.leaf())
	}
	if len(kids) == 0 {
		return cst.NoNodeID, p.fail("expected parameter")
	}
	return p.node(style.list, kids...), true
}

// tname: NAME [':' test]; tname_star: NAME [':' (test|star_expr)]
func (p *Parser) parseParamName(style paramStyle, star bool) (cst.NodeID, bool) {
	name, ok := p.expectIdent()
	if !ok {
		return cst.NoNodeID, false
	}
	if !style.annotated || !p.at(token.Colon) {
		return name, true
	}
	colon := p.leaf()
	var ann cst.NodeID
	sym := cst.Tname
	if star {
		sym = cst.TnameStar
		ann, ok = p.parseTestOrStar()
	} else {
		ann, ok = p.parseTest()
	}
	if !ok {
		return cst.NoNodeID, false
	}
	return p.tree.NewNode(sym, name, colon, ann), true
}

// arglist: argument (',' argument)* [',']
func (p *Parser) parseArglist() (cst.NodeID, bool) {
	var kids []cst.NodeID
	for {
		arg, ok := p.parseArgument()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, arg)
		if !p.at(token.Comma) {
			break
		}
		kids = append(kids, p.leaf())
		if p.at(token.RPar) {
			break
		}
	}
	return p.node(cst.Arglist, kids...), true
}

// argument: ( test [comp_for] | test ':=' test | test '=' test | '**' test | '*' test )
func (p *Parser) parseArgument() (cst.NodeID, bool) {
	if p.atAny(token.Star, token.DoubleStar) {
		op := p.leaf()
		val, ok := p.parseTest()
		if !ok {
			return cst.NoNodeID, false
		}
		return p.tree.NewNode(cst.Argument, op, val), true
	}
	first, ok := p.parseTest()
	if !ok {
		return cst.NoNodeID, false
	}
	switch {
	case p.atCompFor():
		comp, ok := p.parseCompFor(cst.CompFor)
		if !ok {
			return cst.NoNodeID, false
		}
		return p.tree.NewNode(cst.Argument, first, comp), true
	case p.atAny(token.Equal, token.ColonEqual):
		op := p.leaf()
		val, ok := p.parseTest()
		if !ok {
			return cst.NoNodeID, false
		}
		return p.tree.NewNode(cst.Argument, first, op, val), true
	}
	return first, true
}
