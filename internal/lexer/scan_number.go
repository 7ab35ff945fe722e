package lexer

import (
	"pyfmt/internal/diag"
	"pyfmt/internal/token"
)

// scanNumber: 0b.., 0o.., 0x.., десятичные с '_', дроби, экспонента, суффикс j.
// Неверные хвосты (например 1_ или 0x) репортим, но токен отдаём как Number:
// парсер всё равно не даст склеить его с соседним именем.
func (lx *Lexer) scanNumber() {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' {
		b1, ok := lx.cursor.PeekAt(1)
		if ok && (b1|0x20 == 'x' || b1|0x20 == 'o' || b1|0x20 == 'b') {
			lx.cursor.Off += 2
			digits := 0
			for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
				digits++
			}
			if digits == 0 {
				lx.report(diag.LexBadNumber, lx.cursor.SpanFrom(start), "invalid number literal: missing digits")
			}
			lx.emit(token.Number, start)
			return
		}
	}

	lx.eatDigits()
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		lx.eatDigits()
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			// "1else" и подобное: 'e' не экспонента
			lx.cursor.Reset(m)
		} else {
			lx.eatDigits()
		}
	}
	if b := lx.cursor.Peek(); b == 'j' || b == 'J' || b == 'l' || b == 'L' {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	if text := lx.file.Content[sp.Start:sp.End]; text[len(text)-1] == '_' {
		lx.report(diag.LexBadNumber, sp, "invalid number literal: trailing underscore")
	}
	lx.emit(token.Number, start)
}

func (lx *Lexer) eatDigits() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}
