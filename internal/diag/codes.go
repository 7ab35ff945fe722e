package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0
	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadIndent          Code = 1004
	LexEOFInStatement     Code = 1005
	LexBadEscape          Code = 1006

	// Парсерные
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynCannotParse     Code = 2002
	SynFeatureGated    Code = 2003
	SynTypeComment     Code = 2004

	// Скобки и приоритеты разделителей
	BrkInfo      Code = 3000
	BrkUnmatched Code = 3001
	BrkNoDelims  Code = 3002

	// Проверка эквивалентности
	VerInfo          Code = 4000
	VerNotEquivalent Code = 4001
	VerUnstable      Code = 4002
	VerSourceInvalid Code = 4003

	// Ввод-вывод
	IOInfo        Code = 5000
	IOLoadFailed  Code = 5001
	IOWriteFailed Code = 5002
	IOCacheFailed Code = 5003

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated string literal",
	LexBadNumber:          "Invalid number literal",
	LexBadIndent:          "Unindent does not match any outer indentation level",
	LexEOFInStatement:     "EOF in multi-line statement",
	LexBadEscape:          "Invalid escape sequence",
	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynCannotParse:        "Cannot parse source",
	SynFeatureGated:       "Syntax not available for target version",
	SynTypeComment:        "Misplaced type comment",
	BrkInfo:               "Bracket information",
	BrkUnmatched:          "Unable to match a closing bracket",
	BrkNoDelims:           "No delimiters on line",
	VerInfo:               "Verification information",
	VerNotEquivalent:      "Formatted code is not equivalent to source",
	VerUnstable:           "Formatting is not stable",
	VerSourceInvalid:      "Source cannot be parsed into an AST",
	IOInfo:                "I/O information",
	IOLoadFailed:          "Failed to load file",
	IOWriteFailed:         "Failed to write file",
	IOCacheFailed:         "Cache access failed",
	ObsInfo:               "Observability information",
	ObsTimings:            "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("BRK%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("VER%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
