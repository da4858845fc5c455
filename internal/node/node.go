package node

import (
	"errors"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrTemplateIDImmutable is returned when a decoder tries to relabel a node
// that already carries a different template id.
var ErrTemplateIDImmutable = errors.New("node template id already set")

// Node is the intermediate tree unit produced by decoding and consumed by
// encoding. Children are owned exclusively by their parent; the parent
// pointer is navigational only.
type Node struct {
	templateID string
	values     *orderedmap.OrderedMap[string, string]
	children   []*Node
	parent     *Node
}

// New returns an empty node labelled with templateID. An empty id marks a
// synthetic node such as the placeholder wrapping a decoded document.
func New(templateID string) *Node {
	return &Node{
		templateID: strings.TrimSpace(templateID),
		values:     orderedmap.New[string, string](),
	}
}

// TemplateID returns the section identifier this node represents.
func (n *Node) TemplateID() string {
	if n == nil {
		return ""
	}
	return n.templateID
}

// IsSynthetic reports whether the node was created without a template id.
func (n *Node) IsSynthetic() bool {
	return n.TemplateID() == ""
}

// SetTemplateID labels a synthetic node. Relabelling with a different id is
// rejected so the id stays stable for the rest of the conversion.
func (n *Node) SetTemplateID(id string) error {
	id = strings.TrimSpace(id)
	if n.templateID == id {
		return nil
	}
	if n.templateID != "" {
		return fmt.Errorf("%w: %q cannot become %q", ErrTemplateIDImmutable, n.templateID, id)
	}
	n.templateID = id
	return nil
}

// PutValue stores value under key, replacing any previous value while keeping
// the key's original position.
func (n *Node) PutValue(key, value string) {
	n.values.Set(key, value)
}

// Value returns the value stored under key.
func (n *Node) Value(key string) (string, bool) {
	return n.values.Get(key)
}

// ValueOr returns the value under key or fallback when absent.
func (n *Node) ValueOr(key, fallback string) string {
	if v, ok := n.values.Get(key); ok {
		return v
	}
	return fallback
}

// HasValue reports whether key is present.
func (n *Node) HasValue(key string) bool {
	_, ok := n.values.Get(key)
	return ok
}

// RemoveValue deletes key if present.
func (n *Node) RemoveValue(key string) {
	n.values.Delete(key)
}

// ValueCount returns the number of stored values.
func (n *Node) ValueCount() int {
	return n.values.Len()
}

// Keys returns value keys in insertion order.
func (n *Node) Keys() []string {
	keys := make([]string, 0, n.values.Len())
	for pair := n.values.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// EachValue calls fn for every value in insertion order.
func (n *Node) EachValue(fn func(key, value string)) {
	for pair := n.values.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// AddChild appends child and takes ownership of it. A child that already has
// a parent is detached from it first so the graph stays a strict tree.
func (n *Node) AddChild(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Children returns the child nodes in source order. Callers must not modify
// the returned slice.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Parent returns the enclosing node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Root walks parent links to the top of the graph.
func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// FindFirst returns the first node in depth-first order (including n) whose
// template id matches.
func (n *Node) FindFirst(templateID string) *Node {
	if n == nil {
		return nil
	}
	if n.templateID == templateID {
		return n
	}
	for _, c := range n.children {
		if found := c.FindFirst(templateID); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node in depth-first order whose template id matches.
func (n *Node) FindAll(templateID string) []*Node {
	var out []*Node
	n.walk(func(cur *Node) {
		if cur.templateID == templateID {
			out = append(out, cur)
		}
	})
	return out
}

// ChildrenWith returns the direct children carrying templateID.
func (n *Node) ChildrenWith(templateID string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.templateID == templateID {
			out = append(out, c)
		}
	}
	return out
}

func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

// Equal reports whether two graphs carry the same template ids, values (in
// order) and children (in order). Parent links are ignored.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.templateID != b.templateID {
		return false
	}
	if a.values.Len() != b.values.Len() || len(a.children) != len(b.children) {
		return false
	}
	pa, pb := a.values.Oldest(), b.values.Oldest()
	for pa != nil && pb != nil {
		if pa.Key != pb.Key || pa.Value != pb.Value {
			return false
		}
		pa, pb = pa.Next(), pb.Next()
	}
	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

// String renders the graph as an indented outline, one node per line.
func (n *Node) String() string {
	var b strings.Builder
	n.render(&b, 0)
	return b.String()
}

func (n *Node) render(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if n.templateID == "" {
		b.WriteString("(placeholder)")
	} else {
		b.WriteString(n.templateID)
	}
	for pair := n.values.Oldest(); pair != nil; pair = pair.Next() {
		fmt.Fprintf(b, " %s=%q", pair.Key, pair.Value)
	}
	b.WriteByte('\n')
	for _, c := range n.children {
		c.render(b, depth+1)
	}
}
