package lexer

import (
	"fmt"

	"pyfmt/internal/source"
)

// Error is a fatal tokenizer failure. Pos uses a 1-based line and a 0-based
// column, the same shape the parser uses for syntax errors.
type Error struct {
	Msg  string
	Span source.Span
	Pos  source.LineCol
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Col, e.Msg)
}

const (
	msgEOFInString    = "EOF in multi-line string"
	msgEOFInStatement = "EOF in multi-line statement"
	msgBadDedent      = "unindent does not match any outer indentation level"
)
