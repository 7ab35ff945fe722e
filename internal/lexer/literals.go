package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var simpleEscapes = map[byte]byte{
	'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t', 'v': '\v',
	'\'': '\'', '"': '"', '\\': '\\',
}

// EvalString evaluates a quoted literal without prefix, e.g. `'a\tb'` or
// `"""x"""`. Recognised escapes: the simple ones, \x with exactly two hex
// digits and octal with one to three digits. Unknown escapes are kept verbatim.
func EvalString(lit string) (string, error) {
	body, err := stripQuotes(lit)
	if err != nil {
		return "", err
	}
	return evalEscapes(body, escapeModeBasic)
}

// Literal is a decoded string token.
type Literal struct {
	Prefix  string
	Raw     bool
	Bytes   bool
	FString bool
	// Value holds the evaluated text; for bytes literals it is a byte string.
	Value string
}

// DecodeString decodes a full STRING token text, prefix included.
// Text strings additionally understand \u and \U; \N{...} stays verbatim.
// Backslash-newline continuations are removed unless the literal is raw.
func DecodeString(text string) (Literal, error) {
	i := strings.IndexAny(text, `'"`)
	if i < 0 {
		return Literal{}, fmt.Errorf("not a string literal: %q", text)
	}
	lit := Literal{Prefix: text[:i]}
	for _, c := range strings.ToLower(lit.Prefix) {
		switch c {
		case 'r':
			lit.Raw = true
		case 'b':
			lit.Bytes = true
		case 'f':
			lit.FString = true
		}
	}
	body, err := stripQuotes(text[i:])
	if err != nil {
		return Literal{}, err
	}
	switch {
	case lit.Raw:
		lit.Value = body
	case lit.Bytes:
		lit.Value, err = evalEscapes(body, escapeModeBytes)
	default:
		lit.Value, err = evalEscapes(body, escapeModeText)
	}
	return lit, err
}

func stripQuotes(s string) (string, error) {
	if s == "" || (s[0] != '\'' && s[0] != '"') {
		return "", fmt.Errorf("literal must start with a quote: %q", s)
	}
	q := s[:1]
	if len(s) >= 6 && s[:3] == strings.Repeat(q, 3) {
		q = s[:3]
	}
	if len(s) < 2*len(q) || !strings.HasSuffix(s, q) {
		return "", fmt.Errorf("literal is not closed by %s: %q", q, s)
	}
	return s[len(q) : len(s)-len(q)], nil
}

type escapeMode uint8

const (
	escapeModeBasic escapeMode = iota
	escapeModeText
	escapeModeBytes
)

func evalEscapes(s string, mode escapeMode) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		tail := s[i+1]
		if e, ok := simpleEscapes[tail]; ok {
			b.WriteByte(e)
			i++
			continue
		}
		switch {
		case tail == 'x':
			end := min(i+4, len(s))
			hexes := s[i+2 : end]
			v, err := strconv.ParseUint(hexes, 16, 8)
			if len(hexes) != 2 || err != nil {
				return "", fmt.Errorf("invalid hex string escape ('\\x%s')", hexes)
			}
			writeCode(&b, rune(v), mode)
			i = end - 1
		case tail >= '0' && tail <= '7':
			j := i + 1
			for j < len(s) && j < i+4 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, err := strconv.ParseUint(s[i+1:j], 8, 16)
			if err != nil {
				return "", fmt.Errorf("invalid octal string escape ('\\%s')", s[i+1:j])
			}
			writeCode(&b, rune(v), mode)
			i = j - 1
		case mode != escapeModeBasic && (tail == '\n' || tail == '\r'):
			i++
			if tail == '\r' && i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case mode == escapeModeText && (tail == 'u' || tail == 'U'):
			n := 4
			if tail == 'U' {
				n = 8
			}
			if i+2+n > len(s) {
				return "", fmt.Errorf("truncated \\%c escape", tail)
			}
			v, err := strconv.ParseUint(s[i+2:i+2+n], 16, 32)
			if err != nil || (!utf8.ValidRune(rune(v)) && !isSurrogate(rune(v))) {
				return "", fmt.Errorf("invalid \\%c escape ('%s')", tail, s[i+2:i+2+n])
			}
			if isSurrogate(rune(v)) {
				writeSurrogate(&b, rune(v))
			} else {
				b.WriteRune(rune(v))
			}
			i += 1 + n
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func isSurrogate(r rune) bool { return r >= 0xd800 && r <= 0xdfff }

// writeSurrogate stores a lone surrogate as its generalized UTF-8 (WTF-8)
// three-byte form; DecodeSurrogate reads it back.
func writeSurrogate(b *strings.Builder, r rune) {
	b.WriteByte(byte(0xe0 | r>>12))
	b.WriteByte(byte(0x80 | (r>>6)&0x3f))
	b.WriteByte(byte(0x80 | r&0x3f))
}

// DecodeSurrogate reports the surrogate code point encoded at the start of s
// by a \uD800-\uDFFF escape, if any.
func DecodeSurrogate(s string) (rune, bool) {
	if len(s) < 3 || s[0] != 0xed || s[1] < 0xa0 || s[1] > 0xbf || s[2] < 0x80 || s[2] > 0xbf {
		return 0, false
	}
	return rune(s[0]&0x0f)<<12 | rune(s[1]&0x3f)<<6 | rune(s[2]&0x3f), true
}

func writeCode(b *strings.Builder, v rune, mode escapeMode) {
	if mode == escapeModeBytes {
		b.WriteByte(byte(v & 0xff))
		return
	}
	b.WriteRune(v)
}
