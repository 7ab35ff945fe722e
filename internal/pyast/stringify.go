package pyast

import (
	"iter"
	"slices"
	"strings"
	"unicode"
)

const indentUnit = "    "

// item is one entry of the rendering stack: either a ready line or a node
// still to expand.
type item struct {
	line   string
	node   *Node
	parent *Node
	depth  int
}

// Stringify renders n as a canonical line stream: an open line per node, a
// line per field (sorted by name) followed by its children or its scalar
// value, and a close line. Source positions take no part. Differences that
// formatting is allowed to introduce are normalized away: docstring
// indentation, the "u" string kind, trailing spaces of type comments, and
// the parenthesization of del targets.
func Stringify(n *Node) iter.Seq[string] {
	return func(yield func(string) bool) {
		stack := []item{{node: n}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.node == nil {
				if !yield(top.line) {
					return
				}
				continue
			}
			lines := expand(top)
			for i := len(lines) - 1; i >= 0; i-- {
				stack = append(stack, lines[i])
			}
		}
	}
}

// Lines collects the whole stream.
func Lines(n *Node) []string {
	return slices.Collect(Stringify(n))
}

// expand lays out one node: its own lines plus its children as pending items.
func expand(it item) []item {
	n, depth := it.node, it.depth
	pad := strings.Repeat(indentUnit, depth)
	fieldPad := pad + indentUnit
	out := []item{{line: pad + n.Type + "("}}

	if n.Type != "TypeIgnore" {
		fields := slices.Clone(n.Fields)
		slices.SortStableFunc(fields, func(a, b Field) int { return strings.Compare(a.Name, b.Name) })
		for _, fl := range fields {
			out = append(out, item{line: fieldPad + fl.Name + "="})
			child := func(c *Node) item { return item{node: c, parent: n, depth: depth + 1} }
			switch v := fl.Value.(type) {
			case List:
				for _, c := range v {
					switch {
					case c == nil:
					case n.Type == "Delete" && fl.Name == "targets" && c.Type == "Tuple":
						for _, e := range c.Items("elts") {
							out = append(out, child(e))
						}
					default:
						out = append(out, child(c))
					}
				}
			case Names:
			case *Node:
				out = append(out, child(v))
			case Scalar:
				out = append(out, item{line: fieldPad + scalarLine(n, it.parent, depth, fl.Name, v)})
			}
		}
	}
	return append(out, item{line: pad + ")  # /" + n.Type})
}

func scalarLine(n, parent *Node, depth int, field string, v Scalar) string {
	shown := v
	switch s, isStr := v.(Str); {
	case n.Type == "Constant" && field == "kind" && isStr && s == "u":
		shown = None
		v = None
	case n.Type == "Constant" && field == "value" && isStr && depth >= 2 && parent.Is("Expr"):
		shown = Str(normalizeDocstring(string(s)))
	case field == "type_comment" && isStr:
		shown = Str(strings.TrimRightFunc(string(s), isPySpace))
	}
	return shown.Repr() + ",  # " + v.TypeName()
}

// normalizeDocstring strips every line and the whole text.
func normalizeDocstring(s string) string {
	lines := splitLines(s)
	for i, l := range lines {
		lines[i] = strings.TrimFunc(l, isPySpace)
	}
	return strings.TrimFunc(strings.Join(lines, "\n"), isPySpace)
}

// splitLines splits at every line boundary str.splitlines knows.
func splitLines(s string) []string {
	var out []string
	start := 0
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '\r':
			out = append(out, string(rs[start:i]))
			if i+1 < len(rs) && rs[i+1] == '\n' {
				i++
			}
			start = i + 1
		case '\n', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
			out = append(out, string(rs[start:i]))
			start = i + 1
		}
	}
	if start < len(rs) {
		out = append(out, string(rs[start:]))
	}
	return out
}

func isPySpace(r rune) bool {
	return unicode.IsSpace(r) || r >= 0x1c && r <= 0x1f
}
