// Package directory provides collision-suffixing name allocation for
// objects that need a stable, human-readable, unique name: subgraphs,
// cells, and nodes. Grounded on original_source/ordec/core/directory.py's
// Directory.unique_name and its per-kind name_subgraph/name_cell/name_node
// wrappers, generalized here into one generic registry parameterized over
// the object kind, since Go generics (unlike Python's dynamic dict keys)
// let a single implementation serve all three without code duplication.
package directory

import (
	"fmt"
	"sync"
)

// Registry maps values of type T to unique names and back, suffixing
// collisions the way Directory.unique_name does in directory.py: first
// collision on "foo" becomes "foo1", next "foo2", and so on. Registering
// the same value twice is idempotent and returns its existing name
// (mirroring existing_name_node's reuse behavior).
type Registry[T comparable] struct {
	mu       sync.RWMutex
	counters map[string]int
	nameOf   map[T]string
	objOf    map[string]T
}

// New returns an empty Registry.
func New[T comparable]() *Registry[T] {
	return &Registry[T]{
		counters: map[string]int{},
		nameOf:   map[T]string{},
		objOf:    map[string]T{},
	}
}

// UniqueName returns obj's name, registering it under basename (or a
// collision-suffixed variant) if this is the first time obj is seen.
func (r *Registry[T]) UniqueName(basename string, obj T) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name, ok := r.nameOf[obj]; ok {
		return name
	}
	name := basename
	if _, taken := r.objOf[name]; taken {
		for {
			r.counters[basename]++
			candidate := fmt.Sprintf("%s%d", basename, r.counters[basename])
			if _, taken := r.objOf[candidate]; !taken {
				name = candidate
				break
			}
		}
	}
	r.nameOf[obj] = name
	r.objOf[name] = obj
	return name
}

// NameOf returns obj's registered name, if any.
func (r *Registry[T]) NameOf(obj T) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.nameOf[obj]
	return name, ok
}

// ObjOf returns the object registered under name, if any.
func (r *Registry[T]) ObjOf(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	obj, ok := r.objOf[name]
	return obj, ok
}

// Directory bundles the three independently-namespaced registries a host
// typically needs: subgraphs, cells, and plain graph nodes identified by
// an opaque key — grounded on Directory's name_subgraph/name_cell/
// name_node/node_of_name split in directory.py.
type Directory[S comparable, C comparable, N comparable] struct {
	Subgraphs *Registry[S]
	Cells     *Registry[C]
	Nodes     *Registry[N]
}

// NewDirectory returns a Directory with all three registries initialized.
func NewDirectory[S comparable, C comparable, N comparable]() *Directory[S, C, N] {
	return &Directory[S, C, N]{
		Subgraphs: New[S](),
		Cells:     New[C](),
		Nodes:     New[N](),
	}
}

// NameSubgraph is the Subgraphs registry's UniqueName, named to match
// directory.py's name_subgraph.
func (d *Directory[S, C, N]) NameSubgraph(basename string, sg S) string {
	return d.Subgraphs.UniqueName(basename, sg)
}

// SubgraphOfName is the Subgraphs registry's ObjOf, named to match
// directory.py's subgraph_of_name.
func (d *Directory[S, C, N]) SubgraphOfName(name string) (S, bool) {
	return d.Subgraphs.ObjOf(name)
}

// NameCell is the Cells registry's UniqueName.
func (d *Directory[S, C, N]) NameCell(basename string, c C) string {
	return d.Cells.UniqueName(basename, c)
}

// NameNode is the Nodes registry's UniqueName.
func (d *Directory[S, C, N]) NameNode(basename string, n N) string {
	return d.Nodes.UniqueName(basename, n)
}

// ExistingNameNode returns a previously registered node's name without
// allocating a new one, mirroring existing_name_node's lookup-only
// semantics in directory.py.
func (d *Directory[S, C, N]) ExistingNameNode(n N) (string, bool) {
	return d.Nodes.NameOf(n)
}

// NodeOfName is the Nodes registry's ObjOf.
func (d *Directory[S, C, N]) NodeOfName(name string) (N, bool) {
	return d.Nodes.ObjOf(name)
}
