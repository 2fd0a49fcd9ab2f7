package pmap_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ordecgo/ordb/internal/pmap"
)

func strHash(s string) uint64 {
	var h uint64 = 1469598103934665603
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

// constHash forces every key into the same bucket at every depth, exercising
// the collision-chain path regardless of branch factor.
func constHash(string) uint64 { return 7 }

func TestSetGetAndLen(t *testing.T) {
	m := pmap.New[string, int](strHash)
	m = m.Set("a", 1)
	m = m.Set("b", 2)
	m = m.Set("c", 3)

	require.Equal(t, 3, m.Len())
	v, ok := m.Get("b")
	require.True(t, ok)
	require.Equal(t, 2, v)

	_, ok = m.Get("missing")
	require.False(t, ok)
}

func TestSetIsPersistentNotMutating(t *testing.T) {
	base := pmap.New[string, int](strHash).Set("a", 1)
	withB := base.Set("b", 2)

	require.Equal(t, 1, base.Len())
	require.False(t, base.Has("b"))
	require.Equal(t, 2, withB.Len())
	require.True(t, withB.Has("b"))
}

func TestSetOverwriteKeepsLen(t *testing.T) {
	m := pmap.New[string, int](strHash).Set("a", 1)
	m2 := m.Set("a", 2)

	require.Equal(t, 1, m.Len())
	require.Equal(t, 1, m2.Len())
	v, _ := m2.Get("a")
	require.Equal(t, 2, v)
}

func TestDeletePersistentAndAbsentIsNoop(t *testing.T) {
	m := pmap.New[string, int](strHash).Set("a", 1).Set("b", 2)
	after := m.Delete("a")

	require.Equal(t, 2, m.Len())
	require.True(t, m.Has("a"))
	require.Equal(t, 1, after.Len())
	require.False(t, after.Has("a"))

	same := after.Delete("not-there")
	require.Equal(t, 1, same.Len())
}

func TestManyKeysRoundTrip(t *testing.T) {
	m := pmap.New[string, int](strHash)
	const n = 500
	for i := 0; i < n; i++ {
		m = m.Set(strconv.Itoa(i), i*i)
	}
	require.Equal(t, n, m.Len())
	for i := 0; i < n; i++ {
		v, ok := m.Get(strconv.Itoa(i))
		require.True(t, ok)
		require.Equal(t, i*i, v)
	}
}

func TestCollisionChainHandlesDuplicateHashes(t *testing.T) {
	m := pmap.New[string, int](constHash)
	m = m.Set("a", 1).Set("b", 2).Set("c", 3)
	require.Equal(t, 3, m.Len())

	v, ok := m.Get("b")
	require.True(t, ok)
	require.Equal(t, 2, v)

	m = m.Delete("b")
	require.Equal(t, 2, m.Len())
	require.False(t, m.Has("b"))
	require.True(t, m.Has("a"))
	require.True(t, m.Has("c"))
}

func TestRangeVisitsEveryEntry(t *testing.T) {
	m := pmap.New[string, int](strHash).Set("a", 1).Set("b", 2).Set("c", 3)
	seen := map[string]int{}
	m.Range(func(k string, v int) bool {
		seen[k] = v
		return true
	})
	require.Equal(t, map[string]int{"a": 1, "b": 2, "c": 3}, seen)
}

func TestRangeStopsEarly(t *testing.T) {
	m := pmap.New[string, int](strHash).Set("a", 1).Set("b", 2).Set("c", 3)
	count := 0
	m.Range(func(string, int) bool {
		count++
		return false
	})
	require.Equal(t, 1, count)
}

func TestEqual(t *testing.T) {
	a := pmap.New[string, int](strHash).Set("a", 1).Set("b", 2)
	b := pmap.New[string, int](strHash).Set("b", 2).Set("a", 1)
	c := pmap.New[string, int](strHash).Set("a", 1)

	eq := func(x, y int) bool { return x == y }
	require.True(t, a.Equal(b, eq))
	require.False(t, a.Equal(c, eq))
}

func TestKeysMatchesLen(t *testing.T) {
	m := pmap.New[string, int](strHash).Set("a", 1).Set("b", 2).Set("c", 3)
	require.Len(t, m.Keys(), 3)
}
