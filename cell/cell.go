// Package cell implements the view-generator cache sitting on top of
// package ordb: a Cell is a process-wide-interned (type, params) pair, and
// each of its named views (symbol, schematic, layout, ...) is computed
// once and cached as a FrozenSubgraph. Grounded on
// original_source/ordec/core/cell.py's MetaCell/ViewGenerator/Cell.
package cell

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/ordecgo/ordb/ordb"
)

// internKey identifies a Cell by its Go type and a canonical rendering of
// its construction params, mirroring MetaCell.__call__'s
// cls.instances[params] interning in cell.py (there keyed by a frozen
// params mapping; here by a %#v string, since Go has no generic
// hashable-struct-as-map-key guarantee across arbitrary param types).
type internKey struct {
	typ    reflect.Type
	params string
}

var instances sync.Map // internKey -> *Cell

// Cell is a named, parameterized handle to a family of views (symbol,
// schematic, layout, ...), interned process-wide so that two calls with
// equal params return the identical *Cell, the way MetaCell.__call__
// interns instances by params in cell.py.
type Cell struct {
	typeName string
	params   any

	mu    sync.Mutex
	cache map[string]*ordb.FrozenSubgraph
}

// Intern returns the process-wide Cell for (typeName, params), creating it
// on first use. typeName should be a stable identifier for the calling
// Go type (its package-qualified name), since reflect.Type alone doesn't
// distinguish cells whose params struct is shared across several
// different domain cell kinds.
func Intern(typeName string, params any) *Cell {
	key := internKey{typ: reflect.TypeOf(params), params: fmt.Sprintf("%s:%#v", typeName, params)}
	if v, ok := instances.Load(key); ok {
		return v.(*Cell)
	}
	c := &Cell{typeName: typeName, params: params, cache: map[string]*ordb.FrozenSubgraph{}}
	actual, _ := instances.LoadOrStore(key, c)
	return actual.(*Cell)
}

// Params returns the params value this Cell was interned with.
func (c *Cell) Params() any { return c.params }

func (c *Cell) String() string { return fmt.Sprintf("%s(%#v)", c.typeName, c.params) }

// Generator builds one named view of a Cell from scratch. It receives the
// owning Cell so it can read Params() and recursively request other
// Cells' views (e.g. a Schematic view generator asking for its own Symbol
// view).
type Generator func(c *Cell) (*ordb.MutableSubgraph, error)

// View returns the cached FrozenSubgraph for name, computing and freezing
// it via gen on first request. A generator that returns an error is not
// cached — mirroring ViewGenerator.__get__'s behavior of only caching a
// successful, frozen result in cell.py — so a transient failure doesn't
// poison the cache and a later call can retry cleanly.
func (c *Cell) View(name string, gen Generator) (*ordb.FrozenSubgraph, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.cache[name]; ok {
		return v, nil
	}
	sg, err := gen(c)
	if err != nil {
		return nil, fmt.Errorf("cell: generating view %q of %s: %w", name, c, err)
	}
	frozen, err := sg.Freeze()
	if err != nil {
		return nil, fmt.Errorf("cell: freezing view %q of %s: %w", name, c, err)
	}
	c.cache[name] = frozen
	return frozen, nil
}

// Cached returns the already-computed view for name without invoking a
// generator, and whether it was present.
func (c *Cell) Cached(name string) (*ordb.FrozenSubgraph, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.cache[name]
	return v, ok
}
