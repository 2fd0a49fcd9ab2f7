package ordb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ordecgo/ordb/internal/pmap"
)

// nodeTable is the persistent nid-to-Node storage every subgraph is built
// on, backed by internal/pmap so Copy/Freeze/Thaw are O(1) and mutations
// only fork the trie nodes on the path to the changed nid.
type nodeTable = pmap.Map[Nid, *Node]

func newNodeTable() nodeTable {
	return pmap.New[Nid, *Node](func(n Nid) uint64 { return uint64(n) })
}

// Subgraph is the read-only contract both MutableSubgraph and
// FrozenSubgraph satisfy, grounded on the abstract Subgraph base in
// ordb.py (iter_tables, tables, node_dict, matches, internally_equal,
// dump, all, one, cursor_at).
type Subgraph interface {
	// Mutable reports whether this subgraph accepts an Updater.
	Mutable() bool
	// Freeze returns an immutable snapshot sharing structure with the
	// receiver; a FrozenSubgraph returns itself.
	Freeze() (*FrozenSubgraph, error)
	// Thaw returns a mutable copy; structure is still shared until the
	// first write forks it.
	Thaw() *MutableSubgraph
	// NodeAt looks up a node by nid.
	NodeAt(nid Nid) (*Node, bool)
	// Root returns the nid-0 root node, panicking if absent (every
	// constructed subgraph has one by construction).
	Root() *Node
	// All returns every node of the given type, in ascending nid order.
	All(nt *NodeType) []*Node
	// One returns the single node of the given type matching pred, or
	// an error if zero or more than one matched.
	One(nt *NodeType, pred func(*Node) bool) (*Node, error)
	// Tables renders one line per node, grouped and sorted by NodeType
	// name then nid, mirroring Subgraph.tables()'s tabulate output.
	Tables() string
	// Dump renders the canonical "MutableSubgraph.load({...})" text form.
	Dump() string
	// Matches reports structural equality tolerant of nid renumbering.
	Matches(other Subgraph) bool
	// InternallyEqual reports exact equality including nid values.
	InternallyEqual(other Subgraph) bool
}

type subgraphCore struct {
	nodes    nodeTable
	indexTab map[string]indexTable // index name -> bucket table
	nidNext  Nid
}

func newSubgraphCore() subgraphCore {
	return subgraphCore{nodes: newNodeTable(), indexTab: map[string]indexTable{}}
}

func (c subgraphCore) cloneIndexTab() map[string]indexTable {
	out := make(map[string]indexTable, len(c.indexTab))
	for k, v := range c.indexTab {
		out[k] = v
	}
	return out
}

func (c subgraphCore) tableFor(idx *Index) indexTable {
	if t, ok := c.indexTab[idx.Name]; ok {
		return t
	}
	return newIndexTable()
}

func (c subgraphCore) NodeAt(nid Nid) (*Node, bool) {
	return c.nodes.Get(nid)
}

func (c subgraphCore) Root() *Node {
	n, ok := c.nodes.Get(RootNid)
	if !ok {
		panic("ordb: subgraph has no root node")
	}
	return n
}

func (c subgraphCore) All(nt *NodeType) []*Node {
	var out []*Node
	c.nodes.Range(func(_ Nid, n *Node) bool {
		if n.Type == nt {
			out = append(out, n)
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Nid < out[j].Nid })
	return out
}

func (c subgraphCore) One(nt *NodeType, pred func(*Node) bool) (*Node, error) {
	var matched []*Node
	for _, n := range c.All(nt) {
		if pred == nil || pred(n) {
			matched = append(matched, n)
		}
	}
	switch len(matched) {
	case 0:
		return nil, &NotFoundError{Query: nt.Name}
	case 1:
		return matched[0], nil
	default:
		return nil, &AmbiguousError{Query: nt.Name, Count: len(matched)}
	}
}

func (c subgraphCore) Tables() string {
	byType := map[string][]*Node{}
	c.nodes.Range(func(_ Nid, n *Node) bool {
		byType[n.Type.Name] = append(byType[n.Type.Name], n)
		return true
	})
	typeNames := make([]string, 0, len(byType))
	for t := range byType {
		typeNames = append(typeNames, t)
	}
	sort.Strings(typeNames)

	var sb strings.Builder
	for _, t := range typeNames {
		rows := byType[t]
		sort.Slice(rows, func(i, j int) bool { return rows[i].Nid < rows[j].Nid })
		fmt.Fprintf(&sb, "== %s ==\n", t)
		for _, n := range rows {
			fmt.Fprintf(&sb, "%d: %s\n", n.Nid, n)
		}
	}
	return sb.String()
}

func (c subgraphCore) Dump() string {
	var sb strings.Builder
	sb.WriteString("MutableSubgraph.load({\n")
	nids := make([]Nid, 0, c.nodes.Len())
	c.nodes.Range(func(nid Nid, _ *Node) bool {
		nids = append(nids, nid)
		return true
	})
	sort.Slice(nids, func(i, j int) bool { return nids[i] < nids[j] })
	for _, nid := range nids {
		n, _ := c.nodes.Get(nid)
		fmt.Fprintf(&sb, "    %d: %s,\n", nid, n)
	}
	sb.WriteString("})\n")
	return sb.String()
}

// matchesCore implements nid-renumbering-tolerant comparison: true if there
// is a bijection between the two node sets under which every node's type,
// attributes (reference attributes compared through the bijection), and
// reachability from the root agree. Grounded on Subgraph.matches in
// ordb.py, which performs the same walk starting from the root and
// building up a nid translation table as it goes, failing on the first
// mismatch; a full general-graph-isomorphism search is not attempted.
func matchesCore(a, b subgraphCore) bool {
	if a.nodes.Len() != b.nodes.Len() {
		return false
	}
	translation := map[Nid]Nid{RootNid: RootNid}
	visited := map[Nid]bool{}
	var walk func(an, bn Nid) bool
	walk = func(an, bn Nid) bool {
		if visited[an] {
			return translation[an] == bn
		}
		visited[an] = true
		translation[an] = bn
		na, ok1 := a.nodes.Get(an)
		nb, ok2 := b.nodes.Get(bn)
		if ok1 != ok2 {
			return false
		}
		if !ok1 {
			return true
		}
		if na.Type != nb.Type {
			return false
		}
		for _, attr := range na.Type.Attrs {
			va, vb := na.Get(attr.Name), nb.Get(attr.Name)
			switch attr.Kind {
			case AttrLocalRef:
				nida, aok := va.(Nid)
				nidb, bok := vb.(Nid)
				if aok != bok {
					return false
				}
				if !aok {
					continue
				}
				if !walk(nida, nidb) {
					return false
				}
			default:
				if !attrEqual(va, vb) {
					return false
				}
			}
		}
		return true
	}
	return walk(RootNid, RootNid)
}

// internallyEqualCore compares nodes and nid allocation state exactly,
// without any renumbering tolerance.
func internallyEqualCore(a, b subgraphCore) bool {
	if a.nodes.Len() != b.nodes.Len() || a.nidNext != b.nidNext {
		return false
	}
	equal := true
	a.nodes.Range(func(nid Nid, na *Node) bool {
		nb, ok := b.nodes.Get(nid)
		if !ok || na.Type != nb.Type {
			equal = false
			return false
		}
		for _, attr := range na.Type.Attrs {
			if !attrEqual(na.Get(attr.Name), nb.Get(attr.Name)) {
				equal = false
				return false
			}
		}
		return true
	})
	return equal
}
