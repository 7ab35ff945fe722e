package lexer

import (
	"pyfmt/internal/diag"
	"pyfmt/internal/token"
)

type opSpec struct {
	text string
	kind token.Kind
}

// Жадный порядок: сначала трёхсимвольные, потом двух-, потом одиночные.
var (
	ops3 = []opSpec{
		{"**=", token.DoubleStarEqual}, {"//=", token.DoubleSlashEqual},
		{">>=", token.RightShiftEqual}, {"<<=", token.LeftShiftEqual},
		{"...", token.Ellipsis},
	}
	ops2 = []opSpec{
		{"**", token.DoubleStar}, {"//", token.DoubleSlash},
		{">>", token.RightShift}, {"<<", token.LeftShift},
		{"<=", token.LessEqual}, {">=", token.GreaterEqual},
		{"==", token.EqEqual}, {"!=", token.NotEqual}, {"<>", token.NotEqual},
		{"->", token.RArrow}, {":=", token.ColonEqual},
		{"+=", token.PlusEqual}, {"-=", token.MinEqual}, {"*=", token.StarEqual},
		{"/=", token.SlashEqual}, {"%=", token.PercentEqual}, {"&=", token.AmperEqual},
		{"|=", token.VBarEqual}, {"^=", token.CircumflexEqual}, {"@=", token.AtEqual},
	}
	ops1 = map[byte]token.Kind{
		'(': token.LPar, ')': token.RPar, '[': token.LSqb, ']': token.RSqb,
		'{': token.LBrace, '}': token.RBrace, ':': token.Colon, ',': token.Comma,
		';': token.Semi, '.': token.Dot, '=': token.Equal, '+': token.Plus,
		'-': token.Minus, '*': token.Star, '/': token.Slash, '%': token.Percent,
		'@': token.At, '~': token.Tilde, '|': token.VBar, '&': token.Amper,
		'^': token.Circumflex, '<': token.Less, '>': token.Greater,
	}
)

func (lx *Lexer) scanOperator() {
	start := lx.cursor.Mark()
	kind := token.Invalid
	for _, op := range ops3 {
		if lx.cursor.EatString(op.text) {
			kind = op.kind
			break
		}
	}
	if kind == token.Invalid {
		for _, op := range ops2 {
			if lx.cursor.EatString(op.text) {
				kind = op.kind
				break
			}
		}
	}
	if kind == token.Invalid {
		if k, ok := ops1[lx.cursor.Peek()]; ok {
			lx.cursor.Bump()
			kind = k
		}
	}

	switch {
	case kind == token.Invalid:
		lx.cursor.BumpRune()
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexUnknownChar, sp, "unexpected character "+string(lx.file.Content[sp.Start:sp.End]))
	case kind.IsOpeningBracket():
		lx.parenDepth++
	case kind.IsClosingBracket():
		if lx.parenDepth > 0 {
			lx.parenDepth--
		}
	}
	lx.emit(kind, start)
}
