package token

// Kind represents the category of a Python token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EndMarker closes the token stream.
	EndMarker
	Name
	Number
	String
	Newline
	Indent
	Dedent

	LPar   // (
	RPar   // )
	LSqb   // [
	RSqb   // ]
	LBrace // {
	RBrace // }

	Colon      // :
	Comma      // ,
	Semi       // ;
	Dot        // .
	Ellipsis   // ...
	RArrow     // ->
	ColonEqual // :=
	Equal      // =

	Plus        // +
	Minus       // -
	Star        // *
	Slash       // /
	DoubleSlash // //
	Percent     // %
	At          // @
	DoubleStar  // **
	Tilde       // ~
	VBar        // |
	Amper       // &
	Circumflex  // ^
	LeftShift   // <<
	RightShift  // >>

	Less         // <
	Greater      // >
	EqEqual      // ==
	NotEqual     // != or <>
	LessEqual    // <=
	GreaterEqual // >=

	PlusEqual        // +=
	MinEqual         // -=
	StarEqual        // *=
	SlashEqual       // /=
	DoubleSlashEqual // //=
	PercentEqual     // %=
	AtEqual          // @=
	DoubleStarEqual  // **=
	VBarEqual        // |=
	AmperEqual       // &=
	CircumflexEqual  // ^=
	LeftShiftEqual   // <<=
	RightShiftEqual  // >>=

	// Async and Await are produced only when the grammar treats them as keywords.
	Async
	Await

	// Comment is never produced by the lexer (comments live in prefixes);
	// the line generator materializes it for comments inside a logical line.
	Comment
	// StandaloneComment is a comment that occupies a line of its own.
	StandaloneComment

	kindCount
)

var kindNames = [kindCount]string{
	Invalid: "INVALID", EndMarker: "ENDMARKER", Name: "NAME", Number: "NUMBER",
	String: "STRING", Newline: "NEWLINE", Indent: "INDENT", Dedent: "DEDENT",
	LPar: "LPAR", RPar: "RPAR", LSqb: "LSQB", RSqb: "RSQB", LBrace: "LBRACE", RBrace: "RBRACE",
	Colon: "COLON", Comma: "COMMA", Semi: "SEMI", Dot: "DOT", Ellipsis: "ELLIPSIS",
	RArrow: "RARROW", ColonEqual: "COLONEQUAL", Equal: "EQUAL",
	Plus: "PLUS", Minus: "MINUS", Star: "STAR", Slash: "SLASH", DoubleSlash: "DOUBLESLASH",
	Percent: "PERCENT", At: "AT", DoubleStar: "DOUBLESTAR", Tilde: "TILDE", VBar: "VBAR",
	Amper: "AMPER", Circumflex: "CIRCUMFLEX", LeftShift: "LEFTSHIFT", RightShift: "RIGHTSHIFT",
	Less: "LESS", Greater: "GREATER", EqEqual: "EQEQUAL", NotEqual: "NOTEQUAL",
	LessEqual: "LESSEQUAL", GreaterEqual: "GREATEREQUAL",
	PlusEqual: "PLUSEQUAL", MinEqual: "MINEQUAL", StarEqual: "STAREQUAL", SlashEqual: "SLASHEQUAL",
	DoubleSlashEqual: "DOUBLESLASHEQUAL", PercentEqual: "PERCENTEQUAL", AtEqual: "ATEQUAL",
	DoubleStarEqual: "DOUBLESTAREQUAL", VBarEqual: "VBAREQUAL", AmperEqual: "AMPEREQUAL",
	CircumflexEqual: "CIRCUMFLEXEQUAL", LeftShiftEqual: "LEFTSHIFTEQUAL",
	RightShiftEqual: "RIGHTSHIFTEQUAL",
	Async:           "ASYNC", Await: "AWAIT", Comment: "COMMENT", StandaloneComment: "STANDALONE_COMMENT",
}

func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// bracketPairs maps every opening bracket to its closing counterpart.
var bracketPairs = map[Kind]Kind{
	LPar:   RPar,
	LSqb:   RSqb,
	LBrace: RBrace,
}

// IsOpeningBracket reports whether k is one of ( [ {.
func (k Kind) IsOpeningBracket() bool {
	_, ok := bracketPairs[k]
	return ok
}

// IsClosingBracket reports whether k is one of ) ] }.
func (k Kind) IsClosingBracket() bool {
	return k == RPar || k == RSqb || k == RBrace
}

// ClosingFor returns the closing bracket matching an opening one, or Invalid.
func ClosingFor(open Kind) Kind {
	if c, ok := bracketPairs[open]; ok {
		return c
	}
	return Invalid
}

// IsAugAssign reports whether k is an augmented assignment operator (+=, <<=, ...).
func (k Kind) IsAugAssign() bool {
	return k >= PlusEqual && k <= RightShiftEqual
}

// IsComparison reports whether k is a symbolic comparison operator.
func (k Kind) IsComparison() bool {
	return k >= Less && k <= GreaterEqual
}
