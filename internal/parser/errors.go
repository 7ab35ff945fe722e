package parser

import (
	"fmt"

	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

// ParseError — отказ грамматики на конкретном токене.
// Pos: строка с 1, колонка с 0 (в байтах).
type ParseError struct {
	Msg string
	Tok token.Token
	Pos source.LineCol
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %d:%d: %s %q", e.Msg, e.Pos.Line, e.Pos.Col, e.Tok.Kind, e.Tok.Text)
}
