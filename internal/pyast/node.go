package pyast

// Node is one AST node: a class name and its fields in declaration order.
type Node struct {
	Type   string
	Fields []Field
	// Line is the 1-based line of the first token; zero for synthetic nodes.
	// It never takes part in comparisons.
	Line int
}

// Field is a named attribute of a node.
type Field struct {
	Name  string
	Value Value
}

// Value is a field value: *Node, List, Names or a Scalar.
type Value interface {
	isValue()
}

// List is a list of child nodes. Nil entries stand for Python's None inside
// a list (dictionary unpacking keys).
type List []*Node

// Names is a list of plain identifiers (global, nonlocal, class keyword
// attribute names).
type Names []string

func (*Node) isValue() {}
func (List) isValue()  {}
func (Names) isValue() {}

// Get returns the value of the named field, or nil.
func (n *Node) Get(name string) Value {
	if n == nil {
		return nil
	}
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return nil
}

// Child returns the named field when it holds a node.
func (n *Node) Child(name string) *Node {
	c, _ := n.Get(name).(*Node)
	return c
}

// Items returns the named field when it holds a list of nodes.
func (n *Node) Items(name string) List {
	l, _ := n.Get(name).(List)
	return l
}

// Set replaces the named field's value, appending the field when absent.
func (n *Node) Set(name string, v Value) {
	for i := range n.Fields {
		if n.Fields[i].Name == name {
			n.Fields[i].Value = v
			return
		}
	}
	n.Fields = append(n.Fields, Field{Name: name, Value: v})
}

// Is reports whether n is a node of one of the given classes.
func (n *Node) Is(types ...string) bool {
	if n == nil {
		return false
	}
	for _, t := range types {
		if n.Type == t {
			return true
		}
	}
	return false
}

func mk(typ string, line int, fields ...Field) *Node {
	return &Node{Type: typ, Fields: fields, Line: line}
}

func f(name string, v Value) Field {
	return Field{Name: name, Value: v}
}

// opt turns a missing optional child into None.
func opt(n *Node) Value {
	if n == nil {
		return None
	}
	return n
}

func optStr(s string, ok bool) Value {
	if !ok {
		return None
	}
	return Str(s)
}

// leafNode is a fieldless node such as an operator or an expression context.
func leafNode(typ string) *Node {
	return &Node{Type: typ}
}

var (
	loadCtx  = leafNode("Load")
	storeCtx = leafNode("Store")
	delCtx   = leafNode("Del")
)
