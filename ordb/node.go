package ordb

import (
	"fmt"
	"reflect"
	"strings"
)

// Node is an immutable attribute tuple: one row of a subgraph, grounded on
// NodeTuple in ordb.py. Node values are never mutated in place; Set
// returns a new Node sharing the unchanged attribute values with the
// receiver (the Go analogue of NodeTuple.set's copy-on-write rebuild).
type Node struct {
	Type *NodeType
	Nid  Nid
	vals map[string]any
}

// NoNpath is the sentinel Nid meaning "no such reference": an absent NPath
// parent, an absent NPath ref (a pure-namespace node), or a cursor with no
// NPath entry at all.
const NoNpath Nid = 1<<32 - 1

// NewNode builds a Node of the given type, filling unset attributes from
// their AttrSpec.Default.
func NewNode(nt *NodeType, vals map[string]any) *Node {
	n := &Node{Type: nt, vals: make(map[string]any, len(nt.Attrs))}
	for _, a := range nt.Attrs {
		if v, ok := vals[a.Name]; ok {
			n.vals[a.Name] = v
		} else {
			n.vals[a.Name] = a.Default
		}
	}
	return n
}

// Get returns the raw value of the named attribute.
func (n *Node) Get(name string) any {
	return n.vals[name]
}

// GetNid returns the value of a LocalRef/ExternalRef/SubgraphRef attribute
// as a Nid, panicking if the attribute holds something else (a programming
// error: the caller should know the schema).
func (n *Node) GetNid(name string) Nid {
	v := n.vals[name]
	if v == nil {
		return NoNpath
	}
	if nid, ok := nidOfRef(v); ok || nid == NoNpath {
		return nid
	}
	panic(fmt.Sprintf("ordb: attribute %q of %s is not a Nid (got %T)", name, n.Type.Name, v))
}

// Set returns a copy of n with the named attribute replaced, leaving n
// itself unchanged — the copy-on-write rebuild NodeTuple.set performs in
// ordb.py.
func (n *Node) Set(name string, val any) *Node {
	if _, ok := n.Type.AttrSpecByName(name); !ok {
		panic(fmt.Sprintf("ordb: %s has no attribute %q", n.Type.Name, name))
	}
	nn := &Node{Type: n.Type, Nid: n.Nid, vals: make(map[string]any, len(n.vals))}
	for k, v := range n.vals {
		nn.vals[k] = v
	}
	nn.vals[name] = val
	return nn
}

// withIdentity returns a copy of n with Nid set; used when a freshly-built
// Node (Nid still zero-valued) is inserted into a subgraph.
func (n *Node) withIdentity(nid Nid) *Node {
	nn := *n
	nn.Nid = nid
	nn.vals = n.vals
	return &nn
}

// nidOfRef extracts a Nid from any of the three ref-attribute value
// representations (Nid, LocalRef, ExternalRef), used wherever code needs
// to follow a reference without knowing which concrete type the caller
// stored it as.
func nidOfRef(v any) (Nid, bool) {
	switch x := v.(type) {
	case Nid:
		return x, x != NoNpath
	case LocalRef:
		return Nid(x), Nid(x) != NoNpath
	case ExternalRef:
		return Nid(x), Nid(x) != NoNpath
	default:
		return 0, false
	}
}

// attrEqual compares two attribute values for internallyEqualCore and
// matchesCore: via the EqualValue hook if the value
// implements it (Rational, and any other domain value type that isn't
// naturally == comparable), falling back to reflect.DeepEqual otherwise.
func attrEqual(a, b any) bool {
	type equalValuer interface{ EqualValue(any) bool }
	if ev, ok := a.(equalValuer); ok {
		return ev.EqualValue(b)
	}
	return reflect.DeepEqual(a, b)
}

// attrHash hashes an attribute value for FrozenSubgraph.Hash: via the
// HashValue hook if present, else FNV-1a over a %#v rendering (stable but
// not reflection-fast). Index buckets are keyed separately, by Index.key.
func attrHash(v any) uint64 {
	type hashValuer interface{ HashValue() uint64 }
	if hv, ok := v.(hashValuer); ok {
		return hv.HashValue()
	}
	return fnv64a(fmt.Sprintf("%#v", v))
}

func fnv64a(s string) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

// equalNode reports whether two nodes have the same type and attribute
// values (ignoring Nid), reference attributes included as raw values. No
// code in the package calls it; matchesCore compares attributes itself.
func equalNode(a, b *Node) bool {
	if a.Type != b.Type {
		return false
	}
	for _, attr := range a.Type.Attrs {
		if !attrEqual(a.vals[attr.Name], b.vals[attr.Name]) {
			return false
		}
	}
	return true
}

// String renders a canonical repr, grounded on NodeTuple.__repr__'s
// "Type(attr=val, ...)" form.
func (n *Node) String() string {
	var sb strings.Builder
	sb.WriteString(n.Type.Name)
	sb.WriteByte('(')
	for i, a := range n.Type.Attrs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%v", a.Name, n.vals[a.Name])
	}
	sb.WriteByte(')')
	return sb.String()
}
