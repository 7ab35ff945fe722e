package brackets

import (
	"fmt"

	"pyfmt/internal/token"
)

// Priority ranks a split point; higher splits first. Zero means the leaf is
// not a delimiter.
type Priority int

// Шкала плотная и строго монотонная: классы не должны совпадать.
const (
	NoPriority Priority = iota
	PowerPriority
	UnaryPriority
	TermPriority
	ArithPriority
	ShiftPriority
	BitAndPriority
	BitXorPriority
	BitOrPriority
	DotPriority
	ComparatorPriority
	StringPriority
	LogicPriority
	TernaryPriority
	CommaPriority
	ComprehensionPriority
)

var priorityNames = [...]string{
	NoPriority:            "none",
	PowerPriority:         "power",
	UnaryPriority:         "unary",
	TermPriority:          "term",
	ArithPriority:         "arith",
	ShiftPriority:         "shift",
	BitAndPriority:        "bitand",
	BitXorPriority:        "bitxor",
	BitOrPriority:         "bitor",
	DotPriority:           "dot",
	ComparatorPriority:    "comparator",
	StringPriority:        "string",
	LogicPriority:         "logic",
	TernaryPriority:       "ternary",
	CommaPriority:         "comma",
	ComprehensionPriority: "comprehension",
}

func (p Priority) String() string {
	if p >= 0 && int(p) < len(priorityNames) {
		return priorityNames[p]
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// mathPriorities maps binary operator tokens to their tier.
var mathPriorities = map[token.Kind]Priority{
	token.VBar:        BitOrPriority,
	token.Circumflex:  BitXorPriority,
	token.Amper:       BitAndPriority,
	token.LeftShift:   ShiftPriority,
	token.RightShift:  ShiftPriority,
	token.Plus:        ArithPriority,
	token.Minus:       ArithPriority,
	token.Star:        TermPriority,
	token.Slash:       TermPriority,
	token.DoubleSlash: TermPriority,
	token.Percent:     TermPriority,
	token.At:          TermPriority,
	token.Tilde:       UnaryPriority,
	token.DoubleStar:  PowerPriority,
}

// MathPriority returns the tier of a math operator token, or NoPriority.
func MathPriority(k token.Kind) Priority {
	return mathPriorities[k]
}
