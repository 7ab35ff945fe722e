package pyast

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"pyfmt/internal/lexer"
)

// Scalar is a non-node field value. Repr follows Python's repr() so that the
// canonical stream reads like the one CPython would print.
type Scalar interface {
	Value
	Repr() string
	// TypeName is the Python class name of the value.
	TypeName() string
}

type (
	// Str is a text string (also used for identifiers).
	Str string
	// Bytes holds the raw bytes of a bytes literal.
	Bytes string
	// Int is an integer in canonical decimal form.
	Int   string
	Float float64
	// Complex is an imaginary literal: the value's imaginary part.
	Complex float64
	Bool    bool
	// NoneType is Python's None.
	NoneType struct{}
	// EllipsisType is Python's Ellipsis.
	EllipsisType struct{}
)

var (
	None     = NoneType{}
	Ellipsis = EllipsisType{}
)

func (Str) isValue()          {}
func (Bytes) isValue()        {}
func (Int) isValue()          {}
func (Float) isValue()        {}
func (Complex) isValue()      {}
func (Bool) isValue()         {}
func (NoneType) isValue()     {}
func (EllipsisType) isValue() {}

func (Str) TypeName() string          { return "str" }
func (Bytes) TypeName() string        { return "bytes" }
func (Int) TypeName() string          { return "int" }
func (Float) TypeName() string        { return "float" }
func (Complex) TypeName() string      { return "complex" }
func (Bool) TypeName() string         { return "bool" }
func (NoneType) TypeName() string     { return "NoneType" }
func (EllipsisType) TypeName() string { return "ellipsis" }

func (s Str) Repr() string   { return quoteText(string(s)) }
func (b Bytes) Repr() string { return "b" + quoteBytes(string(b)) }
func (i Int) Repr() string   { return string(i) }
func (x Float) Repr() string { return formatFloat(float64(x), true) }

func (c Complex) Repr() string {
	return formatFloat(float64(c), false) + "j"
}

func (b Bool) Repr() string {
	if b {
		return "True"
	}
	return "False"
}

func (NoneType) Repr() string     { return "None" }
func (EllipsisType) Repr() string { return "Ellipsis" }

// pickQuote chooses single quotes unless the text holds a single quote and
// no double quote.
func pickQuote(s string) byte {
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		return '"'
	}
	return '\''
}

func quoteText(s string) string {
	q := pickQuote(s)
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			if sr, ok := lexer.DecodeSurrogate(s[i:]); ok {
				b.WriteString(`\u` + strconv.FormatInt(int64(sr), 16))
				i += 3
				continue
			}
			// недопустимый UTF-8 печатаем побайтно
			b.WriteString(`\x` + hex2(s[i]))
			i++
			continue
		}
		i += size
		switch {
		case r == rune(q) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r < ' ' || r == 0x7f:
			b.WriteString(`\x` + hex2(byte(r)))
		case r < 0x7f:
			b.WriteRune(r)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r <= 0xff:
			b.WriteString(`\x` + hex2(byte(r)))
		case r <= 0xffff:
			b.WriteString(`\u` + leftPad(strconv.FormatInt(int64(r), 16), 4))
		default:
			b.WriteString(`\U` + leftPad(strconv.FormatInt(int64(r), 16), 8))
		}
	}
	b.WriteByte(q)
	return b.String()
}

func quoteBytes(s string) string {
	q := pickQuote(s)
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == q || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c < ' ' || c >= 0x7f:
			b.WriteString(`\x` + hex2(c))
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}

func hex2(c byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[c>>4], digits[c&0xf]})
}

func leftPad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

// formatFloat renders x the way Python's repr does: the shortest
// round-tripping digits, scientific notation when the decimal point falls
// outside (-4, 16]. dot0 appends ".0" to integral values.
func formatFloat(x float64, dot0 bool) string {
	switch {
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	case math.IsNaN(x):
		return "nan"
	}
	sci := strconv.FormatFloat(x, 'e', -1, 64)
	mant, expPart, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expPart)
	decpt := exp + 1
	if decpt <= -4 || decpt > 16 {
		return mant + "e" + expPart
	}
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if dot0 && !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
