package parser

import (
	"slices"

	"pyfmt/internal/cst"
	"pyfmt/internal/diag"
	"pyfmt/internal/grammar"
	"pyfmt/internal/lexer"
	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

type Options struct {
	// Path names the virtual file in diagnostics; defaults to "<string>".
	Path     string
	Reporter diag.Reporter
}

// Parser — состояние парсера на один файл и один вариант грамматики.
// Токены читаются заранее целиком, это делает откат (soft keywords) дешёвым.
type Parser struct {
	file   *source.File
	toks   []token.Token
	pos    int
	tree   *cst.Tree
	gram   *grammar.Grammar
	opts   Options
	tokErr *lexer.Error
	err    *ParseError
	errPos int
}

// ParseFile разбирает файл одной грамматикой. Ошибка — *ParseError или *lexer.Error.
func ParseFile(file *source.File, g *grammar.Grammar, opts Options) (*cst.Tree, error) {
	toks, lexErr := lexer.Tokenize(file, lexer.Options{
		Reporter:      opts.Reporter,
		AsyncKeywords: g.AsyncKeywords,
	})
	p := &Parser{
		file:   file,
		toks:   toks,
		tree:   cst.NewTree(file.ID, uint(len(toks))*2),
		gram:   g,
		opts:   opts,
		errPos: -1,
	}
	if le, ok := lexErr.(*lexer.Error); ok {
		p.tokErr = le
	}

	root, ok := p.parseFileInput()
	if !ok {
		return nil, p.failure()
	}
	p.tree.Root = root
	return p.tree, nil
}

// failure выбирает итоговую ошибку: если разбор упёрся в маркер фатальной
// ошибки лексера, отдаём её, иначе — самую дальнюю синтаксическую.
func (p *Parser) failure() error {
	if p.tokErr != nil && (p.err == nil || p.errPos >= len(p.toks)-1) {
		return p.tokErr
	}
	if p.err == nil {
		return p.errorAt(p.pos, "invalid syntax")
	}
	return p.err
}

func (p *Parser) parseFileInput() (cst.NodeID, bool) {
	var kids []cst.NodeID
	for !p.at(token.EndMarker) {
		if p.at(token.Newline) {
			kids = append(kids, p.leaf())
			continue
		}
		stmt, ok := p.parseStmt()
		if !ok {
			return cst.NoNodeID, false
		}
		kids = append(kids, stmt)
	}
	kids = append(kids, p.leaf())
	return p.node(cst.FileInput, kids...), true
}

// ===== примитивы потока токенов =====

func (p *Parser) peek() token.Token {
	return p.toks[min(p.pos, len(p.toks)-1)]
}

func (p *Parser) peekAt(n int) token.Token {
	return p.toks[min(p.pos+n, len(p.toks)-1)]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// atName — текущий токен NAME с данным текстом (ключевые слова живут тут же).
func (p *Parser) atName(text string) bool {
	return p.peek().Is(text)
}

// atAsyncFor — "async for" в генераторе.
func (p *Parser) atAsyncFor() bool {
	return p.at(token.Async) && p.peekAt(1).Is("for")
}

func (p *Parser) atCompFor() bool {
	return p.atName("for") || p.atAsyncFor()
}

// leaf съедает текущий токен и превращает его в лист дерева.
func (p *Parser) leaf() cst.NodeID {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return p.tree.LeafFromToken(tok)
}

func (p *Parser) expect(k token.Kind, what string) (cst.NodeID, bool) {
	if p.at(k) {
		return p.leaf(), true
	}
	return cst.NoNodeID, p.fail("expected " + what)
}

func (p *Parser) expectName(text string) (cst.NodeID, bool) {
	if p.atName(text) {
		return p.leaf(), true
	}
	return cst.NoNodeID, p.fail("expected '" + text + "'")
}

// expectIdent — NAME, который не является зарезервированным словом.
func (p *Parser) expectIdent() (cst.NodeID, bool) {
	tok := p.peek()
	if tok.Kind == token.Name && !isReserved(tok.Text) {
		return p.leaf(), true
	}
	return cst.NoNodeID, p.fail("expected identifier")
}

// node строит узел правила; узел с единственным ребёнком схлопывается в ребёнка.
func (p *Parser) node(sym cst.Symbol, kids ...cst.NodeID) cst.NodeID {
	if len(kids) == 1 {
		return kids[0]
	}
	return p.tree.NewNode(sym, kids...)
}

// fail запоминает самую дальнюю точку отказа и всегда возвращает false.
func (p *Parser) fail(msg string) bool {
	if p.pos > p.errPos {
		p.err = p.errorAt(p.pos, msg)
		p.errPos = p.pos
	}
	return false
}

func (p *Parser) errorAt(pos int, msg string) *ParseError {
	tok := p.toks[min(pos, len(p.toks)-1)]
	return &ParseError{
		Msg: msg,
		Tok: tok,
		Pos: p.file.Position(tok.Span.Start),
	}
}

type savepoint struct {
	pos  int
	mark uint32
}

func (p *Parser) save() savepoint {
	return savepoint{pos: p.pos, mark: p.tree.Mark()}
}

func (p *Parser) restore(s savepoint) {
	p.pos = s.pos
	p.tree.Rewind(s.mark)
}

// isReserved — жёсткие ключевые слова, которые не могут быть именем.
func isReserved(text string) bool {
	switch text {
	case "None", "True", "False":
		return false
	}
	return token.IsKeyword(text)
}

// atExprStart — может ли текущий токен начинать выражение (для хвостовых запятых).
func (p *Parser) atExprStart() bool {
	tok := p.peek()
	switch tok.Kind {
	case token.Name:
		return !isReserved(tok.Text) || tok.Text == "not" || tok.Text == "lambda"
	case token.Number, token.String, token.Ellipsis, token.LPar, token.LSqb, token.LBrace,
		token.Minus, token.Plus, token.Tilde, token.Star, token.Await:
		return true
	}
	return false
}
