package lexer

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalStringRoundTripsQuotedBytes(t *testing.T) {
	for i := range 256 {
		c := string(rune(i))
		quoted := fmt.Sprintf("'%s'", pyEscape(rune(i)))
		got, err := EvalString(quoted)
		require.NoError(t, err, quoted)
		assert.Equal(t, c, got, "code point %d", i)
	}
}

// pyEscape mimics the escapes a Python repr uses for code points below 256.
func pyEscape(r rune) string {
	switch r {
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\\':
		return `\\`
	case '\'':
		return `\'`
	}
	if r < 0x20 || (r >= 0x7f && r < 0xa1) {
		return fmt.Sprintf(`\x%02x`, r)
	}
	return string(r)
}

func TestEvalStringEscapes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"a\tb"`, "a\tb"},
		{`'''x\101y'''`, "xAy"},
		{`"\0"`, "\x00"},
		{`"\d"`, `\d`},
		{`"\u00e9"`, `\u00e9`},
		{`"\ud800"`, `\ud800`},
		{`""""""`, ""},
	}
	for _, tt := range tests {
		got, err := EvalString(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestEvalStringErrors(t *testing.T) {
	_, err := EvalString(`"\x4"`)
	assert.ErrorContains(t, err, "invalid hex string escape")
	_, err = EvalString(`"\xzz"`)
	assert.ErrorContains(t, err, "invalid hex string escape")
	_, err = EvalString(`abc`)
	assert.Error(t, err)
}

func TestDecodeStringSurrogates(t *testing.T) {
	lit, err := DecodeString(`'\ud800x\U0000DFFF'`)
	require.NoError(t, err)
	assert.Equal(t, "\xed\xa0\x80x\xed\xbf\xbf", lit.Value)

	r, ok := DecodeSurrogate(lit.Value)
	assert.True(t, ok)
	assert.Equal(t, rune(0xd800), r)
	r, ok = DecodeSurrogate(lit.Value[4:])
	assert.True(t, ok)
	assert.Equal(t, rune(0xdfff), r)

	_, ok = DecodeSurrogate("\xed\x9f\xbf")
	assert.False(t, ok)

	_, err = DecodeString(`'\U00110000'`)
	assert.ErrorContains(t, err, "invalid \\U escape")
}

func TestDecodeString(t *testing.T) {
	lit, err := DecodeString(`b'\xff\101'`)
	require.NoError(t, err)
	assert.True(t, lit.Bytes)
	assert.Equal(t, "\xffA", lit.Value)

	lit, err = DecodeString(`R"\n"`)
	require.NoError(t, err)
	assert.True(t, lit.Raw)
	assert.Equal(t, `\n`, lit.Value)

	lit, err = DecodeString(`u"caf\u00e9 \N{DASH}"`)
	require.NoError(t, err)
	assert.Equal(t, "u", lit.Prefix)
	assert.Equal(t, `café \N{DASH}`, lit.Value)

	lit, err = DecodeString("'a\\\nb'")
	require.NoError(t, err)
	assert.Equal(t, "ab", lit.Value)

	_, err = DecodeString(strconv.Quote("x"))
	require.NoError(t, err)
}
