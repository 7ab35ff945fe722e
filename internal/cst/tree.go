package cst

import (
	"iter"
	"strings"

	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Node is either a leaf (Sym == SymLeaf) carrying a token, or a rule node
// with an ordered, non-empty list of children.
type Node struct {
	Sym      Symbol
	Tok      token.Kind
	Value    string
	Prefix   string
	Parent   NodeID
	Children []NodeID
	Span     source.Span
}

// IsLeaf reports whether the node is a token leaf.
func (n *Node) IsLeaf() bool { return n.Sym == SymLeaf }

// Annotations are per-leaf facts written by the bracket tracker.
type Annotations struct {
	BracketDepth   int
	OpeningBracket NodeID
}

// Tree owns every node of one parsed file. Annotation slots exist for every
// node, so trackers working on disjoint lines can write concurrently; node
// allocation itself is not safe for concurrent use.
type Tree struct {
	File  source.FileID
	Root  NodeID
	nodes *Arena[Node]
	ann   []Annotations
}

func NewTree(file source.FileID, capHint uint) *Tree {
	return &Tree{
		File:  file,
		nodes: NewArena[Node](capHint),
		ann:   make([]Annotations, 0, capHint),
	}
}

// Node returns the node for id, or nil.
func (t *Tree) Node(id NodeID) *Node {
	return t.nodes.Get(uint32(id))
}

// Len returns the number of allocated nodes.
func (t *Tree) Len() uint32 { return t.nodes.Len() }

// Mark returns the current allocation watermark for Rewind.
func (t *Tree) Mark() uint32 { return t.nodes.Len() }

// Rewind drops every node allocated after mark.
func (t *Tree) Rewind(mark uint32) {
	t.nodes.Truncate(mark)
	t.ann = t.ann[:mark]
}

// NewLeaf allocates a token leaf.
func (t *Tree) NewLeaf(kind token.Kind, value, prefix string, span source.Span) NodeID {
	id := NodeID(t.nodes.Allocate(Node{Tok: kind, Value: value, Prefix: prefix, Span: span}))
	t.ann = append(t.ann, Annotations{})
	return id
}

// LeafFromToken allocates a leaf from a lexer token.
func (t *Tree) LeafFromToken(tok token.Token) NodeID {
	return t.NewLeaf(tok.Kind, tok.Text, tok.Prefix, tok.Span)
}

// NewNode allocates a rule node and adopts children.
func (t *Tree) NewNode(sym Symbol, children ...NodeID) NodeID {
	kids := make([]NodeID, len(children))
	copy(kids, children)
	id := NodeID(t.nodes.Allocate(Node{Sym: sym, Children: kids}))
	t.ann = append(t.ann, Annotations{})
	n := t.Node(id)
	for _, c := range kids {
		t.Node(c).Parent = id
	}
	if len(kids) > 0 {
		n.Span = t.Node(kids[0]).Span.Cover(t.Node(kids[len(kids)-1]).Span)
	}
	return id
}

// Kind returns the token kind for a leaf and token.Invalid for a rule node.
func (t *Tree) Kind(id NodeID) token.Kind {
	n := t.Node(id)
	if n == nil || !n.IsLeaf() {
		return token.Invalid
	}
	return n.Tok
}

// Sym returns the symbol for a rule node and SymLeaf for leaves.
func (t *Tree) Sym(id NodeID) Symbol {
	if n := t.Node(id); n != nil {
		return n.Sym
	}
	return SymLeaf
}

// IsLeaf reports whether id is a leaf.
func (t *Tree) IsLeaf(id NodeID) bool {
	n := t.Node(id)
	return n != nil && n.IsLeaf()
}

// Value returns the leaf text; empty for rule nodes.
func (t *Tree) Value(id NodeID) string {
	if n := t.Node(id); n != nil {
		return n.Value
	}
	return ""
}

// IsName reports whether id is a NAME leaf with the given text.
func (t *Tree) IsName(id NodeID, value string) bool {
	n := t.Node(id)
	return n != nil && n.IsLeaf() && n.Tok == token.Name && n.Value == value
}

// Parent returns the parent id, or NoNodeID for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Node(id); n != nil {
		return n.Parent
	}
	return NoNodeID
}

// ParentSym returns the parent's symbol, or SymLeaf when there is no parent.
func (t *Tree) ParentSym(id NodeID) Symbol {
	return t.Sym(t.Parent(id))
}

// Children returns the children slice (read-only).
func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.Node(id); n != nil {
		return n.Children
	}
	return nil
}

func (t *Tree) indexInParent(id NodeID) (NodeID, int) {
	p := t.Parent(id)
	if !p.IsValid() {
		return NoNodeID, -1
	}
	for i, c := range t.Node(p).Children {
		if c == id {
			return p, i
		}
	}
	return p, -1
}

// PrevSibling returns the sibling before id, or NoNodeID.
func (t *Tree) PrevSibling(id NodeID) NodeID {
	p, i := t.indexInParent(id)
	if i <= 0 {
		return NoNodeID
	}
	return t.Node(p).Children[i-1]
}

// NextSibling returns the sibling after id, or NoNodeID.
func (t *Tree) NextSibling(id NodeID) NodeID {
	p, i := t.indexInParent(id)
	if i < 0 || i+1 >= len(t.Node(p).Children) {
		return NoNodeID
	}
	return t.Node(p).Children[i+1]
}

// Leaves yields the leaves under id in source order.
func (t *Tree) Leaves(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		if !id.IsValid() {
			return
		}
		stack := []NodeID{id}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n := t.Node(cur)
			if n.IsLeaf() {
				if !yield(cur) {
					return
				}
				continue
			}
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, n.Children[i])
			}
		}
	}
}

// PreOrder yields every node under id, the node itself first.
func (t *Tree) PreOrder(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		if !id.IsValid() {
			return
		}
		stack := []NodeID{id}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(cur) {
				return
			}
			kids := t.Node(cur).Children
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, kids[i])
			}
		}
	}
}

// FirstLeaf returns the leftmost leaf under id.
func (t *Tree) FirstLeaf(id NodeID) NodeID {
	for id.IsValid() && !t.IsLeaf(id) {
		kids := t.Node(id).Children
		if len(kids) == 0 {
			return NoNodeID
		}
		id = kids[0]
	}
	return id
}

// LastLeaf returns the rightmost leaf under id.
func (t *Tree) LastLeaf(id NodeID) NodeID {
	for id.IsValid() && !t.IsLeaf(id) {
		kids := t.Node(id).Children
		if len(kids) == 0 {
			return NoNodeID
		}
		id = kids[len(kids)-1]
	}
	return id
}

// Prefix returns the whitespace/comments before the node's first leaf.
func (t *Tree) Prefix(id NodeID) string {
	if l := t.FirstLeaf(id); l.IsValid() {
		return t.Node(l).Prefix
	}
	return ""
}

// SetPrefix replaces the prefix of the node's first leaf.
func (t *Tree) SetPrefix(id NodeID, prefix string) {
	if l := t.FirstLeaf(id); l.IsValid() {
		t.Node(l).Prefix = prefix
	}
}

// Replace puts repl in old's place under old's parent; old becomes detached.
func (t *Tree) Replace(old, repl NodeID) {
	p, i := t.indexInParent(old)
	if i < 0 {
		if t.Root == old {
			t.Root = repl
			t.Node(repl).Parent = NoNodeID
		}
		return
	}
	t.Node(p).Children[i] = repl
	t.Node(repl).Parent = p
	t.Node(old).Parent = NoNodeID
}

// InsertChild inserts child at position i of parent.
func (t *Tree) InsertChild(parent NodeID, i int, child NodeID) {
	n := t.Node(parent)
	n.Children = append(n.Children, NoNodeID)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = child
	t.Node(child).Parent = parent
}

// AppendChild appends child to parent.
func (t *Tree) AppendChild(parent, child NodeID) {
	n := t.Node(parent)
	n.Children = append(n.Children, child)
	t.Node(child).Parent = parent
}

// Remove detaches id from its parent and returns its former index, or -1.
func (t *Tree) Remove(id NodeID) int {
	p, i := t.indexInParent(id)
	if i < 0 {
		return -1
	}
	n := t.Node(p)
	n.Children = append(n.Children[:i], n.Children[i+1:]...)
	t.Node(id).Parent = NoNodeID
	return i
}

// Render reproduces source text of the subtree: prefix and value of every leaf.
func (t *Tree) Render(id NodeID) string {
	var b strings.Builder
	for l := range t.Leaves(id) {
		n := t.Node(l)
		b.WriteString(n.Prefix)
		b.WriteString(n.Value)
	}
	return b.String()
}

// String renders the whole tree.
func (t *Tree) String() string {
	return t.Render(t.Root)
}

// BracketDepth returns the depth stamped by the tracker.
func (t *Tree) BracketDepth(id NodeID) int {
	if !id.IsValid() || int(id) > len(t.ann) {
		return 0
	}
	return t.ann[id-1].BracketDepth
}

// SetBracketDepth stamps the bracket depth of a leaf.
func (t *Tree) SetBracketDepth(id NodeID, depth int) {
	t.ann[id-1].BracketDepth = depth
}

// OpeningBracket returns the opening bracket matched to a closing leaf.
func (t *Tree) OpeningBracket(id NodeID) NodeID {
	if !id.IsValid() || int(id) > len(t.ann) {
		return NoNodeID
	}
	return t.ann[id-1].OpeningBracket
}

// SetOpeningBracket records the opening bracket of a closing leaf.
func (t *Tree) SetOpeningBracket(closing, opening NodeID) {
	t.ann[closing-1].OpeningBracket = opening
}
