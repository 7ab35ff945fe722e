package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"pyfmt/internal/source"
)

// tabSize: табуляция в отступе выравнивает колонку до кратной восьми.
const tabSize = 8

// Cursor читает байты исходника Python. Кроме побайтового чтения знает
// про физические строки: переводы строк \n, \r\n и \r, отступы и
// продолжения через обратный слэш.
type Cursor struct {
	File *source.File
	Off  uint32
	end  uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, end: end}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.end
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekAt читает байт на n позиций впереди курсора.
func (c *Cursor) PeekAt(n uint32) (byte, bool) {
	if c.Off+n >= c.end {
		return 0, false
	}
	return c.File.Content[c.Off+n], true
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// EatString съедает s целиком или ничего.
func (c *Cursor) EatString(s string) bool {
	n := uint32(len(s)) //nolint:gosec // операторы не длиннее трёх байт
	if c.Off+n > c.end || string(c.File.Content[c.Off:c.Off+n]) != s {
		return false
	}
	c.Off += n
	return true
}

// EatTripleQuote съедает три кавычки q подряд.
func (c *Cursor) EatTripleQuote(q byte) bool {
	b1, ok1 := c.PeekAt(1)
	b2, ok2 := c.PeekAt(2)
	if !ok1 || !ok2 || c.Peek() != q || b1 != q || b2 != q {
		return false
	}
	c.Off += 3
	return true
}

// PeekRune читает текущую руну, не двигая курсор
func (c *Cursor) PeekRune() (r rune, size int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	if b := c.File.Content[c.Off]; b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.File.Content[c.Off:c.end])
}

// BumpRune перемещает курсор на размер текущей руны
func (c *Cursor) BumpRune() {
	_, sz := c.PeekRune()
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("BumpRune overflow: %w", err))
	}
	c.Off += usz
}

// AtNewline: стоит ли курсор на \n или \r.
func (c *Cursor) AtNewline() bool {
	b := c.Peek()
	return b == '\n' || b == '\r'
}

// EatNewline съедает один перевод строки: \r\n, \r или \n.
func (c *Cursor) EatNewline() bool {
	if c.Eat('\r') {
		c.Eat('\n')
		return true
	}
	return c.Eat('\n')
}

// EatLineJoin съедает явное продолжение строки: обратный слэш и перевод строки.
func (c *Cursor) EatLineJoin() bool {
	if c.Peek() != '\\' {
		return false
	}
	if b, ok := c.PeekAt(1); !ok || (b != '\n' && b != '\r') {
		return false
	}
	c.Off++
	c.EatNewline()
	return true
}

// SkipIndent пропускает пробелы, табы и \f в начале строки и возвращает
// колонку отступа. \f сбрасывает колонку.
func (c *Cursor) SkipIndent() int {
	col := 0
	for !c.EOF() {
		switch c.Peek() {
		case ' ':
			col++
		case '\t':
			col = (col/tabSize + 1) * tabSize
		case '\f':
			col = 0
		default:
			return col
		}
		c.Off++
	}
	return col
}

// SkipComment двигает курсор до конца физической строки.
func (c *Cursor) SkipComment() {
	for !c.EOF() && !c.AtNewline() {
		c.Off++
	}
}

// PeekWord возвращает ASCII-слово после пробелов, не двигая курсор.
func (c *Cursor) PeekWord() string {
	i := c.Off
	for i < c.end && (c.File.Content[i] == ' ' || c.File.Content[i] == '\t') {
		i++
	}
	j := i
	for j < c.end && isIdentContinueByte(c.File.Content[j]) {
		j++
	}
	return string(c.File.Content[i:j])
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.Off,
	}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}
