package ordb

// LocalRef is the attribute value stored for an AttrLocalRef attribute: a
// nid resolved within the same subgraph, grounded on LocalRef in ordb.py
// (whose read_hook resolves to cursor_at on the same subgraph).
type LocalRef Nid

// Resolve returns the Cursor the ref points at within sg.
func (r LocalRef) Resolve(sg Subgraph) Cursor { return CursorAt(sg, Nid(r)) }

// SubgraphRef is the attribute value stored for an AttrSubgraphRef
// attribute: a handle to an embedded FrozenSubgraph, grounded on
// SubgraphRef in ordb.py (whose read_hook resolves to .root_cursor).
type SubgraphRef struct {
	Subgraph *FrozenSubgraph
}

// Root returns a Cursor at the embedded subgraph's root node.
func (r SubgraphRef) Root() Cursor {
	return CursorAt(r.Subgraph, RootNid)
}

// ExternalRef is the attribute value stored for an AttrExternalRef
// attribute: a nid resolved against a different subgraph, grounded on
// ExternalRef in ordb.py (whose read_hook resolves via of_subgraph(cursor)).
type ExternalRef Nid

// Resolve returns the Cursor the ref points at within via, which the
// caller supplies (typically the value of a SubgraphRef attribute, or the
// result of a schema-specific policy — see DESIGN.md for the
// schema.SimInstance resolution rule).
func (r ExternalRef) Resolve(via *FrozenSubgraph) Cursor {
	return CursorAt(via, Nid(r))
}
