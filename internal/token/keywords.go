package token

var keywords = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {},
	"break": {}, "class": {}, "continue": {}, "def": {}, "del": {}, "elif": {},
	"else": {}, "except": {}, "finally": {}, "for": {}, "from": {}, "global": {},
	"if": {}, "import": {}, "in": {}, "is": {}, "lambda": {}, "nonlocal": {},
	"not": {}, "or": {}, "pass": {}, "raise": {}, "return": {}, "try": {},
	"while": {}, "with": {}, "yield": {},
}

// softKeywords are names that act as keywords only in specific positions.
var softKeywords = map[string]struct{}{
	"match": {}, "case": {}, "_": {},
}

// IsKeyword reports whether ident is a hard keyword. async/await are not
// listed: whether they are keywords depends on the grammar variant.
func IsKeyword(ident string) bool {
	_, ok := keywords[ident]
	return ok
}

// IsSoftKeyword reports whether ident is a soft keyword (pattern matching).
func IsSoftKeyword(ident string) bool {
	_, ok := softKeywords[ident]
	return ok
}
