package ordb

import "fmt"

// FrozenSubgraph is an immutable subgraph, content-addressed the way
// ordb.py's FrozenSubgraph overrides __eq__/__hash__ over (nodes,
// nid_alloc): two FrozenSubgraphs built from identical node sets and nid
// counters compare equal under Equal regardless of identity.
type FrozenSubgraph struct {
	subgraphCore
}

func (sg *FrozenSubgraph) Mutable() bool { return false }

func (sg *FrozenSubgraph) Freeze() (*FrozenSubgraph, error) { return sg, nil }

func (sg *FrozenSubgraph) Thaw() *MutableSubgraph {
	return &MutableSubgraph{subgraphCore: sg.subgraphCore}
}

func (sg *FrozenSubgraph) NodeAt(nid Nid) (*Node, bool) { return sg.subgraphCore.NodeAt(nid) }
func (sg *FrozenSubgraph) Root() *Node                  { return sg.subgraphCore.Root() }
func (sg *FrozenSubgraph) All(nt *NodeType) []*Node     { return sg.subgraphCore.All(nt) }
func (sg *FrozenSubgraph) One(nt *NodeType, pred func(*Node) bool) (*Node, error) {
	return sg.subgraphCore.One(nt, pred)
}
func (sg *FrozenSubgraph) Tables() string { return sg.subgraphCore.Tables() }
func (sg *FrozenSubgraph) Dump() string   { return sg.subgraphCore.Dump() }

func (sg *FrozenSubgraph) Matches(other Subgraph) bool {
	o, ok := asCore(other)
	return ok && matchesCore(sg.subgraphCore, o)
}

func (sg *FrozenSubgraph) InternallyEqual(other Subgraph) bool {
	o, ok := asCore(other)
	return ok && internallyEqualCore(sg.subgraphCore, o)
}

// Equal implements content-addressed equality for use as a map key value
// or cache-lookup predicate, comparing structurally rather than by
// identity — the Go analogue of FrozenSubgraph.__eq__ in ordb.py.
func (sg *FrozenSubgraph) Equal(other *FrozenSubgraph) bool {
	if other == nil {
		return false
	}
	return internallyEqualCore(sg.subgraphCore, other.subgraphCore)
}

// Hash returns a content-addressed hash of sg, order-independent across
// the node table (XOR-folded per-node) so that sg.Equal(other) implies
// sg.Hash() == other.Hash(), the Go analogue of FrozenSubgraph.__hash__ in
// ordb.py.
func (sg *FrozenSubgraph) Hash() uint64 {
	var h uint64
	sg.nodes.Range(func(nid Nid, n *Node) bool {
		nh := fnv64a(fmt.Sprintf("%d:%s", nid, n.Type.Name))
		for _, attr := range n.Type.Attrs {
			nh ^= attrHash(n.Get(attr.Name)) ^ fnv64a(attr.Name)
		}
		h ^= nh
		return true
	})
	return h
}
