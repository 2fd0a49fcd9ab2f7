package ordb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ordecgo/ordb/internal/pmap"
)

// IndexKind selects one of the four index shapes ordb.py builds on top of
// its generic Index/CombinedIndex base: a plain attribute-value index, the
// all-nodes-of-this-type index every NodeType gets for free, a reverse
// index from a LocalRef target back to its referrers (used to detect
// dangling refs on removal), or the (parent, name) index backing NPath
// addressing.
type IndexKind int

const (
	IndexPlain IndexKind = iota
	IndexNType
	IndexLocalRef
	IndexNPath
)

// Index is a maintained lookup structure attached to one or more NodeTypes.
// Grounded on Index/CombinedIndex/NTypeIndex/LocalRefIndex/NPathIndex in
// ordb.py, collapsed into one parameterized type since Go has no class
// hierarchy to mirror theirs one-for-one; Kind picks the key-building and
// bucket-ordering behavior each Python subclass hard-coded.
type Index struct {
	Name   string
	Kind   IndexKind
	Attrs  []string // attribute names the key is built from (IndexPlain/IndexNPath); the LocalRef attribute name (IndexLocalRef)
	Unique bool
	// SortKey, if set, orders each bucket by this function instead of
	// insertion order, mirroring the bisect.insort use in ordb.py's Index
	// for sortkey-bearing indices (e.g. PolyVec2R's vertex ordinal).
	SortKey func(*Node) string
}

// NewIndex builds a plain attribute-value index.
func NewIndex(name string, unique bool, attrs ...string) *Index {
	return &Index{Name: name, Kind: IndexPlain, Attrs: attrs, Unique: unique}
}

// NewSortedIndex builds a plain attribute-value index whose buckets are
// kept in sortKey order.
func NewSortedIndex(name string, unique bool, sortKey func(*Node) string, attrs ...string) *Index {
	return &Index{Name: name, Kind: IndexPlain, Attrs: attrs, Unique: unique, SortKey: sortKey}
}

// NewNTypeIndex builds the all-nodes-of-this-type index.
func NewNTypeIndex(name string) *Index {
	return &Index{Name: name, Kind: IndexNType}
}

// NewLocalRefIndex builds a reverse index over a LocalRef attribute: the
// bucket at key=target-nid holds every node that currently references
// target via refAttr.
func NewLocalRefIndex(name, refAttr string) *Index {
	return &Index{Name: name, Kind: IndexLocalRef, Attrs: []string{refAttr}}
}

// NewNPathIndex builds the unique (parent, name) index NPath addressing is
// built on.
func NewNPathIndex(name, parentAttr, nameAttr string) *Index {
	return &Index{Name: name, Kind: IndexNPath, Attrs: []string{parentAttr, nameAttr}, Unique: true}
}

// key builds the bucket key for n, or ok=false if n doesn't participate in
// this index (e.g. a LocalRef attribute left at its zero value).
func (idx *Index) key(n *Node) (string, bool) {
	switch idx.Kind {
	case IndexNType:
		return "", true
	case IndexLocalRef:
		nid, ok := nidOfRef(n.Get(idx.Attrs[0]))
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%d", nid), true
	default: // IndexPlain, IndexNPath
		parts := make([]string, len(idx.Attrs))
		for i, a := range idx.Attrs {
			parts[i] = fmt.Sprintf("%#v", n.Get(a))
		}
		return strings.Join(parts, "\x00"), true
	}
}

// indexTable is the per-subgraph persistent storage for one Index: a
// bucket-key to ordered-nid-list map, itself a pmap so the whole structure
// shares unaffected buckets across subgraph versions.
type indexTable = pmap.Map[string, []Nid]

func newIndexTable() indexTable {
	return pmap.New[string, []Nid](fnv64a)
}

// checkAdd reports whether node can be added to idx's bucket without
// breaking a uniqueness constraint.
func checkAdd(idx *Index, table indexTable, node *Node) error {
	if !idx.Unique {
		return nil
	}
	key, ok := idx.key(node)
	if !ok {
		return nil
	}
	if bucket, present := table.Get(key); present && len(bucket) > 0 {
		return &UniqueViolation{Index: idx.Name, Value: key}
	}
	return nil
}

// add returns a new indexTable with node inserted. nodes resolves nids to
// their current Node, needed only when idx.SortKey orders the bucket by
// something other than nid (e.g. a polygon vertex's ordinal).
func add(idx *Index, table indexTable, node *Node, nodes nodeTable) indexTable {
	key, ok := idx.key(node)
	if !ok {
		return table
	}
	bucket, _ := table.Get(key)
	newBucket := make([]Nid, len(bucket), len(bucket)+1)
	copy(newBucket, bucket)
	newBucket = append(newBucket, node.Nid)
	if idx.SortKey != nil {
		sortKeyOf := func(nid Nid) string {
			if nid == node.Nid {
				return idx.SortKey(node)
			}
			if n, ok := nodes.Get(nid); ok {
				return idx.SortKey(n)
			}
			return ""
		}
		sort.SliceStable(newBucket, func(i, j int) bool {
			return sortKeyOf(newBucket[i]) < sortKeyOf(newBucket[j])
		})
	}
	return table.Set(key, newBucket)
}

// remove returns a new indexTable with node's nid removed from its bucket.
func remove(idx *Index, table indexTable, node *Node) indexTable {
	key, ok := idx.key(node)
	if !ok {
		return table
	}
	bucket, present := table.Get(key)
	if !present {
		return table
	}
	newBucket := make([]Nid, 0, len(bucket))
	for _, nid := range bucket {
		if nid != node.Nid {
			newBucket = append(newBucket, nid)
		}
	}
	if len(newBucket) == 0 {
		return table.Delete(key)
	}
	return table.Set(key, newBucket)
}
