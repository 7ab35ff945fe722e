package token

import (
	"pyfmt/internal/source"
)

// Token represents a single source token with its location and prefix.
type Token struct {
	Kind   Kind
	Span   source.Span
	Text   string
	Prefix string
}

// Is reports whether the token is a Name with the given text.
// Keywords are matched this way since the lexer does not classify them.
func (t Token) Is(name string) bool {
	return t.Kind == Name && t.Text == name
}

// IsKeyword reports whether the token is a Name spelling a hard keyword.
func (t Token) IsKeyword() bool {
	return t.Kind == Name && IsKeyword(t.Text)
}

// IsOperand reports whether the token can begin an atom.
func (t Token) IsOperand() bool {
	switch t.Kind {
	case Name:
		return !IsKeyword(t.Text) || t.Text == "None" || t.Text == "True" || t.Text == "False"
	case Number, String, Ellipsis, LPar, LSqb, LBrace:
		return true
	default:
		return false
	}
}
