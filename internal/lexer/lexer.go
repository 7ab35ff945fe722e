package lexer

import (
	"pyfmt/internal/diag"
	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	pending     []token.Token // готовые токены (INDENT/DEDENT идут пачкой)
	prefixStart uint32        // начало ещё не присвоенного prefix
	indents     []int
	parenDepth  int
	atLineStart bool
	done        bool
	err         *Error

	// состояние контекстных async/await (классическая грамматика)
	asyncDef       bool
	asyncDefIndent int
	asyncDefNL     bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:        file,
		cursor:      NewCursor(file),
		opts:        opts,
		indents:     []int{0},
		atLineStart: true,
	}
}

// Tokenize runs the lexer to ENDMARKER. On a fatal error the returned slice
// ends with a zero-width Invalid token at the failure position.
func Tokenize(file *source.File, opts Options) ([]token.Token, error) {
	lx := New(file, opts)
	toks := make([]token.Token, 0, len(file.Content)/4+8)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EndMarker {
			break
		}
		if lx.err != nil && tok.Kind == token.Invalid && tok.Span.Empty() {
			return toks, lx.err
		}
	}
	return toks, nil
}

// Next возвращает следующий токен. После ENDMARKER (или фатальной ошибки)
// всегда возвращает ENDMARKER.
func (lx *Lexer) Next() token.Token {
	for len(lx.pending) == 0 {
		lx.advance()
	}
	tok := lx.pending[0]
	lx.pending = lx.pending[1:]
	return tok
}

// Err returns the fatal error, if any.
func (lx *Lexer) Err() *Error {
	return lx.err
}

func (lx *Lexer) advance() {
	if lx.done {
		lx.pushMarker(token.EndMarker)
		return
	}
	if lx.atLineStart && lx.parenDepth == 0 {
		if !lx.startLine() {
			return
		}
	}
	if !lx.skipInlineSpace() {
		return
	}
	if lx.cursor.EOF() {
		lx.finish()
		return
	}

	ch := lx.cursor.Peek()
	switch {
	case ch == '\n' || ch == '\r':
		lx.scanNewline()
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		lx.scanName()
	case isDec(ch) || lx.isNumberAfterDot():
		lx.scanNumber()
	case ch == '"' || ch == '\'':
		lx.scanString(lx.cursor.Mark())
	default:
		lx.scanOperator()
	}
}

// startLine обрабатывает начало логической строки: пропускает пустые строки и
// строки-комментарии, считает отступ и выдаёт INDENT/DEDENT.
// Возвращает false, если строка не началась (EOF или фатальная ошибка).
func (lx *Lexer) startLine() bool {
	var col int
	for {
		col = lx.cursor.SkipIndent()
		if lx.cursor.EOF() {
			lx.finish()
			return false
		}
		switch lx.cursor.Peek() {
		case '#':
			lx.cursor.SkipComment()
			if lx.cursor.EOF() {
				lx.finish()
				return false
			}
			lx.cursor.EatNewline()
			continue
		case '\n', '\r':
			lx.cursor.EatNewline()
			continue
		}
		break
	}

	top := lx.indents[len(lx.indents)-1]
	switch {
	case col > top:
		lx.indents = append(lx.indents, col)
		lx.pushMarker(token.Indent)
	case col < top:
		for col < lx.indents[len(lx.indents)-1] {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.pushMarker(token.Dedent)
		}
		if col != lx.indents[len(lx.indents)-1] {
			lx.fatal(diag.LexBadIndent, lx.cursor.Off, msgBadDedent)
			return false
		}
	}
	if lx.asyncDef && lx.asyncDefNL && lx.asyncDefIndent >= lx.indents[len(lx.indents)-1] {
		lx.asyncDef = false
		lx.asyncDefNL = false
		lx.asyncDefIndent = 0
	}
	lx.atLineStart = false
	return true
}

// skipInlineSpace пропускает пробелы, комментарии и продолжения строки через '\'.
// Всё пропущенное остаётся в prefix следующего токена.
func (lx *Lexer) skipInlineSpace() bool {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\f':
			lx.cursor.Bump()
		case '#':
			lx.cursor.SkipComment()
		case '\\':
			if lx.cursor.EatLineJoin() {
				if lx.cursor.EOF() {
					lx.fatal(diag.LexEOFInStatement, lx.cursor.Off, msgEOFInStatement)
					return false
				}
				continue
			}
			if _, ok := lx.cursor.PeekAt(1); !ok {
				lx.cursor.Bump()
				lx.fatal(diag.LexEOFInStatement, lx.cursor.Off, msgEOFInStatement)
				return false
			}
			return true
		default:
			return true
		}
	}
	return true
}

func (lx *Lexer) scanNewline() {
	start := lx.cursor.Mark()
	lx.cursor.EatNewline()
	if lx.parenDepth > 0 {
		// неявное продолжение строки внутри скобок: NL уходит в prefix
		return
	}
	lx.emit(token.Newline, start)
	lx.atLineStart = true
	if lx.asyncDef {
		lx.asyncDefNL = true
	}
}

// finish закрывает поток: NEWLINE (если строка не закрыта), DEDENT'ы и ENDMARKER.
func (lx *Lexer) finish() {
	if lx.parenDepth > 0 {
		lx.fatal(diag.LexEOFInStatement, lx.cursor.Off, msgEOFInStatement)
		return
	}
	if !lx.atLineStart {
		lx.emit(token.Newline, lx.cursor.Mark())
		lx.atLineStart = true
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.pushMarker(token.Dedent)
	}
	lx.emit(token.EndMarker, lx.cursor.Mark())
	lx.done = true
}

func (lx *Lexer) fatal(code diag.Code, off uint32, msg string) {
	sp := source.Span{File: lx.file.ID, Start: off, End: off}
	pos := lx.file.Position(off)
	if msg == msgEOFInStatement {
		pos.Col = 0
	}
	lx.err = &Error{Msg: msg, Span: sp, Pos: pos}
	lx.report(code, sp, msg)
	lx.pending = append(lx.pending, token.Token{Kind: token.Invalid, Span: sp})
	lx.done = true
}

// emit выдаёт токен от метки до курсора, забирая накопленный prefix.
func (lx *Lexer) emit(kind token.Kind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	content := lx.file.Content
	lx.pending = append(lx.pending, token.Token{
		Kind:   kind,
		Span:   sp,
		Text:   string(content[sp.Start:sp.End]),
		Prefix: string(content[lx.prefixStart:sp.Start]),
	})
	lx.prefixStart = sp.End
}

// pushMarker выдаёт токен нулевой ширины без prefix (INDENT, DEDENT, повторный ENDMARKER).
func (lx *Lexer) pushMarker(kind token.Kind) {
	off := lx.cursor.Off
	lx.pending = append(lx.pending, token.Token{
		Kind: kind,
		Span: source.Span{File: lx.file.ID, Start: off, End: off},
	})
}
