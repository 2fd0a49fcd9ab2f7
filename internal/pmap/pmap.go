// Package pmap implements a persistent (immutable, structurally-shared) hash
// map: a hash-array-mapped trie (HAMT) with 5-bit branching, 32 slots per
// node. Every Set/Delete returns a new Map that shares all unaffected
// sub-tries with the original — only the nodes on the path from the root to
// the changed key are copied.
//
// This is the concrete data structure the ORDB design notes ask for ("use a
// hash-array-mapped trie or an immutable B-tree; the contract is cheap copy
// plus structural sharing, not any specific data structure"). It is grounded
// on the copy-on-write discipline of gaissmai/bart's node cloning (clone the
// nodes on the mutation path, share everything else) adapted from a
// byte-trie over IP prefixes to a hash trie over arbitrary comparable keys.
package pmap

const (
	bitsPerLevel = 5
	branchFactor = 1 << bitsPerLevel // 32
	levelMask    = branchFactor - 1
	maxDepth     = 64 / bitsPerLevel // hash bits exhausted beyond this depth
)

// Hasher produces a 64-bit hash for a key. Equal keys must hash equally.
type Hasher[K comparable] func(K) uint64

// entry is a single key/value pair stored at a trie leaf.
type entry[K comparable, V any] struct {
	key  K
	val  V
	hash uint64
}

// node is a trie node: a bitmap-compressed array of up to 32 slots, each of
// which holds either a sub-node or a leaf (entry or collision chain).
type node[K comparable, V any] struct {
	bitmap uint32
	slots  []slotv[K, V]
}

// slotv is the contents of one occupied bit position in a node.
type slotv[K comparable, V any] struct {
	child *node[K, V]     // non-nil: a deeper sub-node
	leaf  *entry[K, V]    // non-nil (and child nil): a single entry
	coll  []*entry[K, V]  // non-nil (and child, leaf nil): hash collision chain
}

// Map is a persistent map from K to V. The zero value is an empty map, but
// New should be used so Hasher is set.
type Map[K comparable, V any] struct {
	root *node[K, V]
	hash Hasher[K]
	n    int
}

// New returns an empty persistent map using the given hash function.
func New[K comparable, V any](hash Hasher[K]) Map[K, V] {
	return Map[K, V]{hash: hash}
}

// Len returns the number of entries.
func (m Map[K, V]) Len() int { return m.n }

func chunk(hash uint64, depth int) int {
	shift := uint(depth * bitsPerLevel)
	if shift >= 64 {
		return 0
	}
	return int((hash >> shift) & levelMask)
}

func bitpos(idx int) uint32 { return 1 << uint(idx) }

func slotIndex(bitmap uint32, bit uint32) int {
	return popcount(bitmap & (bit - 1))
}

func popcount(x uint32) int {
	count := 0
	for x != 0 {
		x &= x - 1
		count++
	}
	return count
}

// Get returns the value for key and whether it was present.
func (m Map[K, V]) Get(key K) (V, bool) {
	var zero V
	if m.root == nil {
		return zero, false
	}
	return get(m.root, m.hash(key), key, 0)
}

func get[K comparable, V any](n *node[K, V], hash uint64, key K, depth int) (V, bool) {
	var zero V
	idx := chunk(hash, depth)
	bit := bitpos(idx)
	if n.bitmap&bit == 0 {
		return zero, false
	}
	s := n.slots[slotIndex(n.bitmap, bit)]
	switch {
	case s.child != nil:
		return get(s.child, hash, key, depth+1)
	case s.leaf != nil:
		if s.leaf.key == key {
			return s.leaf.val, true
		}
		return zero, false
	default:
		for _, e := range s.coll {
			if e.key == key {
				return e.val, true
			}
		}
		return zero, false
	}
}

// Has reports whether key is present.
func (m Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Set returns a new Map with key bound to val, sharing all unaffected
// structure with m. Complexity: O(log32 n).
func (m Map[K, V]) Set(key K, val V) Map[K, V] {
	h := m.hash(key)
	e := &entry[K, V]{key: key, val: val, hash: h}
	if m.root == nil {
		root := &node[K, V]{}
		root = setAt(root, h, 0, func(*slotv[K, V]) (*slotv[K, V], bool) {
			return &slotv[K, V]{leaf: e}, true
		})
		return Map[K, V]{root: root, hash: m.hash, n: 1}
	}
	grew := false
	newRoot := insert(m.root, e, 0, &grew)
	n := m.n
	if grew {
		n++
	}
	return Map[K, V]{root: newRoot, hash: m.hash, n: n}
}

// insert returns a new node with e inserted/replaced under n at the given
// depth. *grew is set true if this inserted a brand new key.
func insert[K comparable, V any](n *node[K, V], e *entry[K, V], depth int, grew *bool) *node[K, V] {
	idx := chunk(e.hash, depth)
	bit := bitpos(idx)
	pos := slotIndex(n.bitmap, bit)

	if n.bitmap&bit == 0 {
		// Empty slot: insert a fresh leaf here.
		nn := cloneNodeInsertSlot(n, pos, bit, slotv[K, V]{leaf: e})
		*grew = true
		return nn
	}

	old := n.slots[pos]
	var newSlot slotv[K, V]
	switch {
	case old.child != nil:
		newSlot = slotv[K, V]{child: insert(old.child, e, depth+1, grew)}
	case old.leaf != nil:
		if old.leaf.key == e.key {
			newSlot = slotv[K, V]{leaf: e} // replace value, key count unchanged
		} else if depth+1 > maxDepth {
			newSlot = slotv[K, V]{coll: []*entry[K, V]{old.leaf, e}}
			*grew = true
		} else {
			child := &node[K, V]{}
			var g bool
			child = insert(child, old.leaf, depth+1, &g)
			child = insert(child, e, depth+1, &g)
			newSlot = slotv[K, V]{child: child}
			*grew = true
		}
	default: // collision chain
		replaced := false
		newColl := make([]*entry[K, V], len(old.coll))
		copy(newColl, old.coll)
		for i, c := range newColl {
			if c.key == e.key {
				newColl[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			newColl = append(newColl, e)
			*grew = true
		}
		newSlot = slotv[K, V]{coll: newColl}
	}
	return cloneNodeReplaceSlot(n, pos, newSlot)
}

func cloneNodeInsertSlot[K comparable, V any](n *node[K, V], pos int, bit uint32, s slotv[K, V]) *node[K, V] {
	newSlots := make([]slotv[K, V], len(n.slots)+1)
	copy(newSlots, n.slots[:pos])
	newSlots[pos] = s
	copy(newSlots[pos+1:], n.slots[pos:])
	return &node[K, V]{bitmap: n.bitmap | bit, slots: newSlots}
}

func cloneNodeReplaceSlot[K comparable, V any](n *node[K, V], pos int, s slotv[K, V]) *node[K, V] {
	newSlots := make([]slotv[K, V], len(n.slots))
	copy(newSlots, n.slots)
	newSlots[pos] = s
	return &node[K, V]{bitmap: n.bitmap, slots: newSlots}
}

func cloneNodeRemoveSlot[K comparable, V any](n *node[K, V], pos int, bit uint32) *node[K, V] {
	newSlots := make([]slotv[K, V], len(n.slots)-1)
	copy(newSlots, n.slots[:pos])
	copy(newSlots[pos:], n.slots[pos+1:])
	return &node[K, V]{bitmap: n.bitmap &^ bit, slots: newSlots}
}

// setAt is a helper used only for constructing the very first entry of an
// empty map (avoids a nil-root special case inside insert).
func setAt[K comparable, V any](n *node[K, V], hash uint64, depth int, f func(*slotv[K, V]) (*slotv[K, V], bool)) *node[K, V] {
	idx := chunk(hash, depth)
	bit := bitpos(idx)
	s, _ := f(nil)
	return cloneNodeInsertSlot(n, 0, bit, *s)
}

// Delete returns a new Map with key removed, or m unchanged (same Len) if
// key was absent.
func (m Map[K, V]) Delete(key K) Map[K, V] {
	if m.root == nil {
		return m
	}
	h := m.hash(key)
	removed := false
	newRoot := remove(m.root, key, h, 0, &removed)
	if !removed {
		return m
	}
	n := m.n - 1
	if newRoot != nil && len(newRoot.slots) == 0 {
		newRoot = nil
	}
	return Map[K, V]{root: newRoot, hash: m.hash, n: n}
}

func remove[K comparable, V any](n *node[K, V], key K, hash uint64, depth int, removed *bool) *node[K, V] {
	idx := chunk(hash, depth)
	bit := bitpos(idx)
	if n.bitmap&bit == 0 {
		return n
	}
	pos := slotIndex(n.bitmap, bit)
	s := n.slots[pos]
	switch {
	case s.child != nil:
		newChild := remove(s.child, key, hash, depth+1, removed)
		if !*removed {
			return n
		}
		if newChild == nil || len(newChild.slots) == 0 {
			return cloneNodeRemoveSlot(n, pos, bit)
		}
		if len(newChild.slots) == 1 && newChild.slots[0].child == nil {
			// Collapse single-leaf child into this level to keep tries shallow.
			return cloneNodeReplaceSlot(n, pos, newChild.slots[0])
		}
		return cloneNodeReplaceSlot(n, pos, slotv[K, V]{child: newChild})
	case s.leaf != nil:
		if s.leaf.key != key {
			return n
		}
		*removed = true
		return cloneNodeRemoveSlot(n, pos, bit)
	default:
		newColl := make([]*entry[K, V], 0, len(s.coll))
		for _, c := range s.coll {
			if c.key == key {
				*removed = true
				continue
			}
			newColl = append(newColl, c)
		}
		if !*removed {
			return n
		}
		if len(newColl) == 1 {
			return cloneNodeReplaceSlot(n, pos, slotv[K, V]{leaf: newColl[0]})
		}
		return cloneNodeReplaceSlot(n, pos, slotv[K, V]{coll: newColl})
	}
}

// Range calls f for every entry in unspecified order, stopping early if f
// returns false.
func (m Map[K, V]) Range(f func(K, V) bool) {
	if m.root == nil {
		return
	}
	rangeNode(m.root, f)
}

func rangeNode[K comparable, V any](n *node[K, V], f func(K, V) bool) bool {
	for _, s := range n.slots {
		switch {
		case s.child != nil:
			if !rangeNode(s.child, f) {
				return false
			}
		case s.leaf != nil:
			if !f(s.leaf.key, s.leaf.val) {
				return false
			}
		default:
			for _, e := range s.coll {
				if !f(e.key, e.val) {
					return false
				}
			}
		}
	}
	return true
}

// Keys returns all keys in unspecified order.
func (m Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.n)
	m.Range(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Equal reports whether m and other contain the same key/value pairs,
// comparing values with eq.
func (m Map[K, V]) Equal(other Map[K, V], eq func(a, b V) bool) bool {
	if m.n != other.n {
		return false
	}
	equal := true
	m.Range(func(k K, v V) bool {
		ov, ok := other.Get(k)
		if !ok || !eq(v, ov) {
			equal = false
			return false
		}
		return true
	})
	return equal
}
