package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyfmt/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.py", []byte(content))
	return fs.Get(id)
}

func TestCursorSequentialReading(t *testing.T) {
	c := NewCursor(createFile("a\nb"))
	require.False(t, c.EOF())
	assert.Equal(t, byte('a'), c.Bump())
	assert.Equal(t, byte('\n'), c.Peek())
	c.Bump()
	assert.Equal(t, byte('b'), c.Bump())
	assert.True(t, c.EOF())
	assert.Equal(t, byte(0), c.Bump())
}

func TestCursorMarkResetSpan(t *testing.T) {
	c := NewCursor(createFile("**=x"))
	m := c.Mark()
	assert.False(t, c.EatString("**=y"))
	assert.True(t, c.EatString("**"))
	assert.True(t, c.Eat('='))
	assert.False(t, c.Eat('='))
	sp := c.SpanFrom(m)
	assert.Equal(t, uint32(0), sp.Start)
	assert.Equal(t, uint32(3), sp.End)
	c.Reset(m)
	assert.Equal(t, byte('*'), c.Peek())
	b, ok := c.PeekAt(3)
	assert.True(t, ok)
	assert.Equal(t, byte('x'), b)
	_, ok = c.PeekAt(4)
	assert.False(t, ok)
}

func TestCursorSkipIndent(t *testing.T) {
	tests := []struct {
		src  string
		col  int
		next byte
	}{
		{"    x", 4, 'x'},
		{"\tx", 8, 'x'},
		{"  \tx", 8, 'x'},
		{"\t  x", 10, 'x'},
		{"   \f  x", 2, 'x'},
		{"\n", 0, '\n'},
		{"  ", 2, 0},
	}
	for _, tt := range tests {
		c := NewCursor(createFile(tt.src))
		assert.Equal(t, tt.col, c.SkipIndent(), "%q", tt.src)
		assert.Equal(t, tt.next, c.Peek(), "%q", tt.src)
	}
}

func TestCursorNewlinesAndLineJoins(t *testing.T) {
	c := NewCursor(createFile("\r\n\r\n# c\r\\\r\nx\\y"))
	assert.True(t, c.EatNewline())
	assert.Equal(t, uint32(2), c.Off)
	assert.True(t, c.EatNewline())
	assert.Equal(t, uint32(4), c.Off)

	c.SkipComment()
	assert.True(t, c.AtNewline())
	assert.True(t, c.EatNewline())
	assert.True(t, c.EatLineJoin())
	assert.Equal(t, byte('x'), c.Bump())
	assert.False(t, c.EatLineJoin())
	assert.Equal(t, byte('\\'), c.Peek())
	assert.False(t, c.EatNewline())
}

func TestCursorRunesAndWords(t *testing.T) {
	c := NewCursor(createFile("é  def(\"\"\""))
	r, sz := c.PeekRune()
	assert.Equal(t, 'é', r)
	assert.Equal(t, 2, sz)
	c.BumpRune()
	assert.Equal(t, "def", c.PeekWord())
	assert.Equal(t, uint32(2), c.Off)
	c.Off += 6
	assert.True(t, c.EatTripleQuote('"'))
	assert.True(t, c.EOF())
	c.BumpRune()
	assert.True(t, c.EOF())
}
