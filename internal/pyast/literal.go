package pyast

import (
	"math/big"
	"strconv"
	"strings"

	"pyfmt/internal/cst"
	"pyfmt/internal/lexer"
)

// number evaluates a NUMBER leaf into an int, float or imaginary Constant.
func (b *builder) number(id cst.NodeID) *Node {
	line := b.line(id)
	text := b.tree.Value(id)
	if strings.Contains(text, "_") {
		b.since(id, 6, "underscores in numeric literals are only supported in Python 3.6 and greater")
		text = strings.ReplaceAll(text, "_", "")
	}
	lower := strings.ToLower(text)

	switch {
	case strings.HasSuffix(lower, "l"):
		return b.fail(id, "invalid syntax")
	case strings.HasSuffix(lower, "j"):
		v, err := strconv.ParseFloat(lower[:len(lower)-1], 64)
		if err != nil && !isRange(err) {
			return b.fail(id, "invalid imaginary literal")
		}
		return mk("Constant", line, f("value", Complex(v)), f("kind", None))
	case len(lower) > 1 && lower[0] == '0' && strings.ContainsAny(lower[1:2], "xob"):
		n, ok := new(big.Int).SetString(lower, 0)
		if !ok {
			return b.fail(id, "invalid syntax")
		}
		return mk("Constant", line, f("value", Int(n.String())), f("kind", None))
	case strings.ContainsAny(lower, ".e"):
		v, err := strconv.ParseFloat(lower, 64)
		if err != nil && !isRange(err) {
			return b.fail(id, "invalid syntax")
		}
		return mk("Constant", line, f("value", Float(v)), f("kind", None))
	}

	if len(lower) > 1 && lower[0] == '0' && strings.Trim(lower, "0") != "" {
		return b.fail(id, "leading zeros in decimal integer literals are not permitted; use an 0o prefix for octal integers")
	}
	n, ok := new(big.Int).SetString(lower, 10)
	if !ok {
		return b.fail(id, "invalid syntax")
	}
	return mk("Constant", line, f("value", Int(n.String())), f("kind", None))
}

func isRange(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// strings concatenates adjacent STRING leaves into one Constant, or into a
// JoinedStr when any of them is an f-string. Replacement fields are kept as
// text.
func (b *builder) strings(ids []cst.NodeID) *Node {
	line := b.line(ids[0])
	var (
		text       strings.Builder
		bytes      bool
		formatted  bool
		unicodeTag bool
	)
	for i, id := range ids {
		lit, err := lexer.DecodeString(b.tree.Value(id))
		if err != nil {
			return b.fail(id, "invalid string literal")
		}
		if i == 0 {
			bytes = lit.Bytes
			unicodeTag = strings.ContainsAny(lit.Prefix, "uU")
		} else if lit.Bytes != bytes {
			return b.fail(id, "cannot mix bytes and nonbytes literals")
		}
		if lit.FString {
			b.since(id, 6, "f-strings are only supported in Python 3.6 and greater")
			formatted = true
		}
		text.WriteString(lit.Value)
	}

	switch {
	case bytes:
		return mk("Constant", line, f("value", Bytes(text.String())), f("kind", None))
	case formatted:
		values := List{}
		if text.Len() > 0 {
			values = List{mk("Constant", line, f("value", Str(text.String())), f("kind", None))}
		}
		return mk("JoinedStr", line, f("values", values))
	}
	var kind Value = None
	if unicodeTag {
		kind = Str("u")
	}
	return mk("Constant", line, f("value", Str(text.String())), f("kind", kind))
}
