package ordb

import (
	"fmt"
	"strings"
)

// Cursor is a value-typed triple (subgraph, nid, npath_nid), grounded on
// Cursor in ordb.py. Nid is the domain node the cursor points at (or
// NoNpath for a pure-namespace cursor with no node of its own); NpathNid is
// the NPath entry that named it (or NoNpath if the cursor has no name —
// the subgraph root is never named from inside its own subgraph).
type Cursor struct {
	SG       Subgraph
	Nid      Nid
	NpathNid Nid
}

// CursorAt builds a cursor at nid, resolving its NpathNid by a reverse
// lookup on idx_path_of — the default cursor_at(nid, npath_nid=None)
// behavior in ordb.py. A cursor constructed right after a fresh insert
// (where the caller already knows there is no NPath yet) may instead build
// the Cursor{...} literal directly with NpathNid: NoNpath to skip the
// lookup.
func CursorAt(sg Subgraph, nid Nid) Cursor {
	c := Cursor{SG: sg, Nid: nid, NpathNid: NoNpath}
	core, ok := asCore(sg)
	if !ok || nid == NoNpath {
		return c
	}
	if nids := core.lookup(npathPathOf, nid); len(nids) == 1 {
		c.NpathNid = nids[0]
	}
	return c
}

// Node returns the domain node c points at, or nil for a pure-namespace
// cursor or one whose node is absent.
func (c Cursor) Node() *Node {
	n, _ := c.SG.NodeAt(c.Nid)
	return n
}

// Get returns the raw value of attr on c's node, or nil if c has no node.
func (c Cursor) Get(attr string) any {
	n := c.Node()
	if n == nil {
		return nil
	}
	return n.Get(attr)
}

// npathNode returns the NPath node naming c, if any.
func (c Cursor) npathNode() (*Node, bool) {
	if c.NpathNid == NoNpath {
		return nil, false
	}
	core, ok := asCore(c.SG)
	if !ok {
		return nil, false
	}
	return core.NodeAt(c.NpathNid)
}

// Child resolves the named child of c in the NPath namespace rooted at c —
// either a domain node (an NPath entry with a Ref) or a pure-namespace
// node (no Ref), grounded on NonLeafNode.__getitem__ in ordb.py.
func (c Cursor) Child(name any) (Cursor, error) {
	core, ok := asCore(c.SG)
	if !ok {
		return Cursor{}, fmt.Errorf("%w: cursor's subgraph is not addressable", ErrQuery)
	}
	nids := core.lookup(npathParentName, c.NpathNid, name)
	switch len(nids) {
	case 0:
		return Cursor{}, &NotFoundError{Query: fmt.Sprintf("child %v of nid %d", name, c.Nid)}
	case 1:
		npathNid := nids[0]
		npathNode, _ := core.NodeAt(npathNid)
		return Cursor{SG: c.SG, Nid: npathNode.GetNid("Ref"), NpathNid: npathNid}, nil
	default:
		return Cursor{}, &AmbiguousError{Query: fmt.Sprintf("child %v of nid %d", name, c.Nid), Count: len(nids)}
	}
}

// Parent returns c's namespace parent: the cursor at the node that owns
// the NPath level c's name lives under (the subgraph root if c is a
// top-level name), or false if c has no NPath entry at all.
func (c Cursor) Parent() (Cursor, bool) {
	npathNode, ok := c.npathNode()
	if !ok {
		return Cursor{}, false
	}
	parentNpath := npathNode.GetNid("Parent")
	if parentNpath == NoNpath {
		return Cursor{SG: c.SG, Nid: RootNid, NpathNid: NoNpath}, true
	}
	core, ok := asCore(c.SG)
	if !ok {
		return Cursor{}, false
	}
	parentNode, ok := core.NodeAt(parentNpath)
	if !ok {
		return Cursor{}, false
	}
	return Cursor{SG: c.SG, Nid: parentNode.GetNid("Ref"), NpathNid: parentNpath}, true
}

// FullPathList returns c's path components from the subgraph root,
// root-to-leaf: a string for each named level, an int for an ordinal one
// (e.g. an array index), grounded on Cursor.full_path_list in ordb.py.
func (c Cursor) FullPathList() []any {
	core, ok := asCore(c.SG)
	if !ok {
		return nil
	}
	var parts []any
	npathNid := c.NpathNid
	for npathNid != NoNpath {
		n, ok := core.NodeAt(npathNid)
		if !ok {
			break
		}
		parts = append([]any{n.Get("Name")}, parts...)
		npathNid = n.GetNid("Parent")
	}
	return parts
}

// FullPathStr renders FullPathList the way Cursor.full_path_str does in
// ordb.py: string components render as ".name" (no leading dot on the
// first), int components render as "[n]" with no separator, and an empty
// path (the subgraph root cursor) renders as "root_cursor".
func (c Cursor) FullPathStr() string {
	parts := c.FullPathList()
	if len(parts) == 0 {
		return "root_cursor"
	}
	var sb strings.Builder
	for i, p := range parts {
		if n, ok := p.(int); ok {
			fmt.Fprintf(&sb, "[%d]", n)
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		fmt.Fprintf(&sb, "%v", p)
	}
	return sb.String()
}

// IndexedChildren returns the nids in idx's bucket for vals, in the
// index's bucket order (sortkey order if idx.SortKey is set, insertion
// order otherwise) — used to read a sortkey-ordered index directly rather
// than relying on nid allocation order (e.g. a SymbolPoly's vertices by
// ordinal), since Subgraph.All only guarantees nid order.
func (c Cursor) IndexedChildren(idx *Index, vals ...any) []Nid {
	core, ok := asCore(c.SG)
	if !ok {
		return nil
	}
	return core.lookup(idx, vals...)
}

// keyForLookup builds the same bucket key idx.key(node) would, from raw
// values instead of a *Node — used by lookup, which lets callers query an
// index (including a reverse IndexLocalRef one like idx_path_of) without
// constructing a throwaway node.
func keyForLookup(idx *Index, vals []any) string {
	switch idx.Kind {
	case IndexLocalRef:
		nid, ok := nidOfRef(vals[0])
		if !ok {
			return ""
		}
		return fmt.Sprintf("%d", nid)
	default:
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = fmt.Sprintf("%#v", v)
		}
		return strings.Join(parts, "\x00")
	}
}

func (c subgraphCore) lookup(idx *Index, vals ...any) []Nid {
	table, ok := c.indexTab[idx.Name]
	if !ok {
		return nil
	}
	bucket, _ := table.Get(keyForLookup(idx, vals))
	return bucket
}
