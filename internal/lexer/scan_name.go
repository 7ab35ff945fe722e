package lexer

import (
	"strings"

	"pyfmt/internal/diag"
	"pyfmt/internal/token"
)

// scanName сканирует идентификатор. Если за ним сразу идёт кавычка и он
// является допустимым строковым префиксом — это строковый литерал.
func (lx *Lexer) scanName() {
	start := lx.cursor.Mark()
	r, sz := lx.cursor.PeekRune()
	if sz == 0 || !isIdentStartRune(r) {
		lx.cursor.BumpRune()
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexUnknownChar, sp, "unexpected character "+string(lx.file.Content[sp.Start:sp.End]))
		lx.emit(token.Invalid, start)
		return
	}
	lx.cursor.BumpRune()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, _ := lx.cursor.PeekRune()
		if !isIdentContinueRune(r) {
			break
		}
		lx.cursor.BumpRune()
	}

	text := string(lx.file.Content[start:lx.cursor.Off])
	if q := lx.cursor.Peek(); (q == '"' || q == '\'') && IsStringPrefix(text) {
		lx.scanString(start)
		return
	}
	lx.emit(lx.classifyName(text), start)
}

// classifyName решает, стал ли async/await ключевым словом.
func (lx *Lexer) classifyName(text string) token.Kind {
	if text != "async" && text != "await" {
		return token.Name
	}
	kw := token.Await
	if text == "async" {
		kw = token.Async
	}
	if lx.opts.AsyncKeywords || lx.asyncDef {
		return kw
	}
	if text == "async" {
		switch lx.cursor.PeekWord() {
		case "def":
			lx.asyncDef = true
			lx.asyncDefIndent = lx.indents[len(lx.indents)-1]
			return token.Async
		case "for":
			return token.Async
		}
	}
	return token.Name
}

// IsStringPrefix reports whether p is a valid Python string prefix
// (any case): "", r, u, b, br, rb, f, fr, rf.
func IsStringPrefix(p string) bool {
	switch strings.ToLower(p) {
	case "", "r", "u", "b", "br", "rb", "f", "fr", "rf":
		return true
	}
	return false
}
