package pyast

import (
	"iter"
	"regexp"
	"strconv"

	"pyfmt/internal/cst"
)

// typeCommentRe matches the "# type:" lead-in with the spacing the Python
// tokenizer tolerates.
var typeCommentRe = regexp.MustCompile(`^#[ \t]*type:[ \t]*`)

// typeComment is a "# type: ..." comment found in some leaf's prefix.
type typeComment struct {
	text      string
	line, col int
	// first: the comment opens its prefix, nothing but whitespace before it.
	first bool
	used  bool
}

// scanComments collects type comments from every prefix. "# type: ignore"
// comments become TypeIgnore entries right away; the rest must be consumed
// by the statement or argument they annotate.
func (b *builder) scanComments() {
	if !b.typeComments {
		return
	}
	for leaf := range b.tree.Leaves(b.tree.Root) {
		n := b.tree.Node(leaf)
		if n.Prefix == "" {
			continue
		}
		start := n.Span.Start - uint32(len(n.Prefix))
		first := true
		for off, text := range prefixComments(n.Prefix) {
			c := b.classifyComment(text, start+uint32(off), first)
			first = false
			if c == nil {
				continue
			}
			b.comments = append(b.comments, c)
			b.commentsAt[leaf] = append(b.commentsAt[leaf], c)
		}
	}
}

// prefixComments yields each comment in a prefix with its byte offset.
func prefixComments(prefix string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i := 0; i < len(prefix); i++ {
			if prefix[i] != '#' {
				continue
			}
			j := i
			for j < len(prefix) && prefix[j] != '\n' && prefix[j] != '\r' {
				j++
			}
			if !yield(i, prefix[i:j]) {
				return
			}
			i = j
		}
	}
}

func (b *builder) classifyComment(text string, off uint32, first bool) *typeComment {
	m := typeCommentRe.FindStringIndex(text)
	if m == nil {
		return nil
	}
	pos := b.file.Position(off)
	body := text[m[1]:]
	if tag, ok := ignoreTag(body); ok {
		b.typeIgnores = append(b.typeIgnores, mk("TypeIgnore", int(pos.Line),
			f("lineno", Int(strconv.Itoa(int(pos.Line)))), f("tag", Str(tag))))
		return nil
	}
	return &typeComment{text: body, line: int(pos.Line), col: int(pos.Col), first: first}
}

// ignoreTag recognises "ignore" followed by the end of the comment or by an
// ASCII character that is not alphanumeric.
func ignoreTag(body string) (string, bool) {
	const kw = "ignore"
	if len(body) < len(kw) || body[:len(kw)] != kw {
		return "", false
	}
	rest := body[len(kw):]
	if rest != "" {
		c := rest[0]
		if c >= 0x80 || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			return "", false
		}
	}
	return rest, true
}

// takeTypeComment consumes the type comment opening leaf's prefix.
func (b *builder) takeTypeComment(leaf cst.NodeID) Value {
	if !leaf.IsValid() {
		return None
	}
	cs := b.commentsAt[leaf]
	if len(cs) == 0 || !cs[0].first || cs[0].used {
		return None
	}
	cs[0].used = true
	return Str(cs[0].text)
}

// checkComments rejects type comments left in positions that take none.
func (b *builder) checkComments() {
	if b.err != nil {
		return
	}
	for _, c := range b.comments {
		if !c.used {
			b.err = &SyntaxError{
				Msg: "invalid syntax", Line: c.line, Column: c.col,
				Version: b.ver, TypeComments: b.typeComments,
			}
			return
		}
	}
}
