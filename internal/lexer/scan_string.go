package lexer

import (
	"pyfmt/internal/diag"
	"pyfmt/internal/token"
)

// scanString сканирует строку от start (там может быть префикс); курсор стоит на кавычке.
// Незакрытая тройная строка фатальна; незакрытая однострочная даёт Invalid токен.
func (lx *Lexer) scanString(start Mark) {
	q := lx.cursor.Peek()
	if lx.cursor.EatTripleQuote(q) {
		for {
			if lx.cursor.EOF() {
				lx.fatal(diag.LexUnterminatedString, uint32(start), msgEOFInString)
				return
			}
			switch lx.cursor.Peek() {
			case '\\':
				lx.cursor.Bump()
				lx.cursor.Bump()
			case q:
				if lx.cursor.EatTripleQuote(q) {
					lx.emit(token.String, start)
					return
				}
				lx.cursor.Bump()
			default:
				lx.cursor.Bump()
			}
		}
	}

	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '\\':
			if !lx.cursor.EatLineJoin() {
				lx.cursor.Bump()
				lx.cursor.Bump()
			}
			continue
		case '\n', '\r':
			lx.unterminated(start)
			return
		case q:
			lx.cursor.Bump()
			lx.emit(token.String, start)
			return
		default:
			lx.cursor.Bump()
		}
	}
	lx.unterminated(start)
}

func (lx *Lexer) unterminated(start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
	lx.emit(token.Invalid, start)
}
