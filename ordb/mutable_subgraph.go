package ordb

// MutableSubgraph is a subgraph open to in-place-looking mutation through
// an Updater transaction. It is not itself thread-safe for concurrent
// writers; callers serialize access to a single MutableSubgraph the way
// the teacher's core.Graph serializes access to vertices/edges, except
// here the serialization is the caller's job (an Updater owns exclusive
// access to the MutableSubgraph it was opened against) rather than an
// internal mutex, since a transaction is inherently single-writer.
//
// Grounded on MutableSubgraph in ordb.py: identity equality (no __eq__
// override, unlike FrozenSubgraph's content-addressed one) and Freeze for
// the one-way conversion to FrozenSubgraph. There is no Load: a subgraph
// cannot be rebuilt from its Dump text or from a nid-to-node map.
type MutableSubgraph struct {
	subgraphCore
}

// NewSubgraph creates an empty MutableSubgraph and inserts a root node of
// rootType at nid 0, mirroring SubgraphRoot.__new__ wrapping construction
// in an implicit updater.
func NewSubgraph(rootType *NodeType, rootVals map[string]any) (*MutableSubgraph, error) {
	sg := &MutableSubgraph{subgraphCore: newSubgraphCore()}
	u := sg.Updater()
	u.InsertRoot(rootType, rootVals)
	if err := u.Commit(); err != nil {
		return nil, err
	}
	return sg, nil
}

// Updater opens a transactional scope against sg. Exactly one Updater
// should be open against a given MutableSubgraph at a time; opening a
// second concurrently and committing both has undefined results, the same
// single-writer contract SubgraphUpdater assumes in ordb.py.
func (sg *MutableSubgraph) Updater() *Updater {
	return &Updater{
		target:   sg,
		nodes:    sg.nodes,
		indexTab: sg.cloneIndexTab(),
		nidNext:  sg.nidNext,
		removed:  map[Nid]bool{},
	}
}

func (sg *MutableSubgraph) Mutable() bool { return true }

func (sg *MutableSubgraph) Freeze() (*FrozenSubgraph, error) {
	return &FrozenSubgraph{subgraphCore: sg.subgraphCore}, nil
}

func (sg *MutableSubgraph) Thaw() *MutableSubgraph {
	return sg.Copy()
}

// Copy returns an independent MutableSubgraph sharing structure with sg
// until the first write forks it (pmap.Map values copy by reference to
// their root trie node).
func (sg *MutableSubgraph) Copy() *MutableSubgraph {
	return &MutableSubgraph{subgraphCore: subgraphCore{
		nodes:    sg.nodes,
		indexTab: sg.cloneIndexTab(),
		nidNext:  sg.nidNext,
	}}
}

func (sg *MutableSubgraph) NodeAt(nid Nid) (*Node, bool) { return sg.subgraphCore.NodeAt(nid) }
func (sg *MutableSubgraph) Root() *Node                  { return sg.subgraphCore.Root() }
func (sg *MutableSubgraph) All(nt *NodeType) []*Node     { return sg.subgraphCore.All(nt) }
func (sg *MutableSubgraph) One(nt *NodeType, pred func(*Node) bool) (*Node, error) {
	return sg.subgraphCore.One(nt, pred)
}
func (sg *MutableSubgraph) Tables() string { return sg.subgraphCore.Tables() }
func (sg *MutableSubgraph) Dump() string   { return sg.subgraphCore.Dump() }

func (sg *MutableSubgraph) Matches(other Subgraph) bool {
	o, ok := asCore(other)
	return ok && matchesCore(sg.subgraphCore, o)
}

func (sg *MutableSubgraph) InternallyEqual(other Subgraph) bool {
	o, ok := asCore(other)
	return ok && internallyEqualCore(sg.subgraphCore, o)
}

// asCore extracts the subgraphCore from either concrete Subgraph
// implementation, since Subgraph is an interface and matches/
// internallyEqual need direct field access.
func asCore(s Subgraph) (subgraphCore, bool) {
	switch x := s.(type) {
	case *MutableSubgraph:
		return x.subgraphCore, true
	case *FrozenSubgraph:
		return x.subgraphCore, true
	default:
		return subgraphCore{}, false
	}
}
