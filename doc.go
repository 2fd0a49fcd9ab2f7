// Package ordb is the root of a persistent, schema-aware graph database for
// circuit symbols, schematics, layer stacks, and simulation hierarchies.
//
//	A small, composable set of subpackages work together:
//
//	  rat/       — exact rational arithmetic for electrical values (SI suffixes, fractions)
//	  geom/      — 2D points, rectangles, and the eight-element D4 orientation group
//	  ordb/      — the schema/subgraph/transaction engine: NodeType, Node, Updater, Cursor
//	  schema/    — concrete node types: Symbol, Schematic, LayerStack, SimHierarchy
//	  directory/ — collision-free name allocation across subgraphs, cells, and nodes
//	  cell/      — process-wide interned, cached view generators on top of ordb
//
// A Subgraph is a set of Nodes with a root at nid 0; a FrozenSubgraph is
// immutable and content-addressed, a MutableSubgraph is compared by identity.
// All mutation happens inside an Updater, which checks uniqueness constraints
// as it goes, checks local references at Commit, and only publishes its
// result on Commit. internal/pmap backs both the node table and every index
// with a persistent hash trie, so a Freeze or Copy never deep-copies a
// subgraph — it shares structure with whatever produced it.
//
// See SPEC_FULL.md and DESIGN.md at the module root for the full design and
// its grounding in prior art.
package ordb
