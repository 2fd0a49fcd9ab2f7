package ordb_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ordecgo/ordb/ordb"
)

// A minimal two-level schema used only by this package's tests: a root
// "Container" holding named "Item" children addressed by NPath, plus a
// unique attribute on Item to exercise UniqueViolation.

var (
	itemCodeUnique = ordb.NewIndex("item_code", true, "Code")

	containerType = ordb.NewNodeType("Container", nil)
	itemType      = ordb.NewNodeType("Item", nil,
		ordb.AttrSpec{Name: "Code", Kind: ordb.AttrPlain},
		ordb.AttrSpec{Name: "Next", Kind: ordb.AttrLocalRef, Default: ordb.Nid(ordb.NoNpath)},
	)
)

func init() {
	containerType.NonLeaf = true
	itemType.AttachIndex(itemCodeUnique)
}

func newContainer(t *testing.T) *ordb.MutableSubgraph {
	t.Helper()
	sg, err := ordb.NewSubgraph(containerType, nil)
	require.NoError(t, err)
	return sg
}

func TestInsertAndLookupChild(t *testing.T) {
	sg := newContainer(t)
	u := sg.Updater()
	u.InsertNamed(ordb.NoNpath, "a", itemType, map[string]any{"Code": "A1"})
	require.NoError(t, u.Commit())

	c := ordb.CursorAt(sg, ordb.RootNid)
	child, err := c.Child("a")
	require.NoError(t, err)
	require.Equal(t, "A1", child.Get("Code"))
}

func TestChildNotFound(t *testing.T) {
	sg := newContainer(t)
	c := ordb.CursorAt(sg, ordb.RootNid)
	_, err := c.Child("missing")
	require.Error(t, err)
	require.True(t, errors.Is(err, ordb.ErrQuery))
}

func TestUniqueViolation(t *testing.T) {
	sg := newContainer(t)
	u := sg.Updater()
	u.InsertNamed(ordb.NoNpath, "a", itemType, map[string]any{"Code": "DUP"})
	u.InsertNamed(ordb.NoNpath, "b", itemType, map[string]any{"Code": "DUP"})
	err := u.Commit()
	require.Error(t, err)
	var uv *ordb.UniqueViolation
	require.True(t, errors.As(err, &uv))
}

func TestUniqueViolationLeavesSubgraphUnchanged(t *testing.T) {
	sg := newContainer(t)
	u := sg.Updater()
	u.InsertNamed(ordb.NoNpath, "a", itemType, map[string]any{"Code": "DUP"})
	require.NoError(t, u.Commit())

	u2 := sg.Updater()
	u2.InsertNamed(ordb.NoNpath, "b", itemType, map[string]any{"Code": "DUP"})
	require.Error(t, u2.Commit())

	require.Len(t, sg.All(itemType), 1)
}

func TestDanglingLocalRefOnRemove(t *testing.T) {
	sg := newContainer(t)
	u := sg.Updater()
	childNid := u.InsertNamed(ordb.NoNpath, "a", itemType, map[string]any{"Code": "A1"})
	require.NoError(t, u.Commit())

	u2 := sg.Updater()
	u2.InsertNamed(ordb.NoNpath, "b", itemType, map[string]any{"Code": "B1", "Next": childNid})
	u2.Remove(childNid)
	err := u2.Commit()
	require.Error(t, err)
	var dr *ordb.DanglingLocalRef
	require.True(t, errors.As(err, &dr))
	require.Equal(t, childNid, dr.Nid)
}

func TestCannotRemoveRoot(t *testing.T) {
	sg := newContainer(t)
	u := sg.Updater()
	u.Remove(ordb.RootNid)
	require.Error(t, u.Commit())
}

func TestFreezeThawRoundTrip(t *testing.T) {
	sg := newContainer(t)
	u := sg.Updater()
	u.InsertNamed(ordb.NoNpath, "a", itemType, map[string]any{"Code": "A1"})
	require.NoError(t, u.Commit())

	frozen, err := sg.Freeze()
	require.NoError(t, err)
	require.False(t, frozen.Mutable())

	thawed := frozen.Thaw()
	require.True(t, thawed.Mutable())
	require.True(t, thawed.InternallyEqual(frozen))
}

func TestFrozenSubgraphHashMatchesEqual(t *testing.T) {
	sgA := newContainer(t)
	uA := sgA.Updater()
	uA.InsertNamed(ordb.NoNpath, "a", itemType, map[string]any{"Code": "A1"})
	require.NoError(t, uA.Commit())
	frozenA, err := sgA.Freeze()
	require.NoError(t, err)

	sgB := newContainer(t)
	uB := sgB.Updater()
	uB.InsertNamed(ordb.NoNpath, "a", itemType, map[string]any{"Code": "A1"})
	require.NoError(t, uB.Commit())
	frozenB, err := sgB.Freeze()
	require.NoError(t, err)

	require.True(t, frozenA.Equal(frozenB))
	require.Equal(t, frozenA.Hash(), frozenB.Hash())
}

func TestMatchesToleratesNidRenumbering(t *testing.T) {
	sgA := newContainer(t)
	uA := sgA.Updater()
	uA.InsertNamed(ordb.NoNpath, "a", itemType, map[string]any{"Code": "A1"})
	uA.InsertNamed(ordb.NoNpath, "b", itemType, map[string]any{"Code": "B1"})
	require.NoError(t, uA.Commit())

	sgB := newContainer(t)
	uB := sgB.Updater()
	// Insert in the opposite order so nid assignment differs from sgA.
	uB.InsertNamed(ordb.NoNpath, "b", itemType, map[string]any{"Code": "B1"})
	uB.InsertNamed(ordb.NoNpath, "a", itemType, map[string]any{"Code": "A1"})
	require.NoError(t, uB.Commit())

	require.True(t, sgA.Matches(sgB))
	require.False(t, sgA.InternallyEqual(sgB))
}

func TestCloneDoesNotAliasMutations(t *testing.T) {
	sg := newContainer(t)
	u := sg.Updater()
	u.InsertNamed(ordb.NoNpath, "a", itemType, map[string]any{"Code": "A1"})
	require.NoError(t, u.Commit())

	clone := sg.Copy()
	u2 := clone.Updater()
	u2.InsertNamed(ordb.NoNpath, "c", itemType, map[string]any{"Code": "C1"})
	require.NoError(t, u2.Commit())

	require.Len(t, sg.All(itemType), 1)
	require.Len(t, clone.All(itemType), 2)
}

func TestNPathNodesAccompanyNamedInserts(t *testing.T) {
	sg := newContainer(t)
	u := sg.Updater()
	u.InsertNamed(ordb.NoNpath, "a", itemType, map[string]any{"Code": "A1"})
	u.InsertNamed(ordb.NoNpath, "b", itemType, map[string]any{"Code": "B1"})
	require.NoError(t, u.Commit())

	require.Len(t, sg.All(itemType), 2)
	require.Len(t, sg.All(ordb.NPathType), 2)
}

func TestFullPathStrRendersRootAndNamedLevels(t *testing.T) {
	sg := newContainer(t)
	u := sg.Updater()
	u.InsertNamed(ordb.NoNpath, "a", itemType, map[string]any{"Code": "A1"})
	require.NoError(t, u.Commit())

	root := ordb.CursorAt(sg, ordb.RootNid)
	require.Equal(t, "root_cursor", root.FullPathStr())

	a, err := root.Child("a")
	require.NoError(t, err)
	require.Equal(t, "a", a.FullPathStr())
}

func TestDeleteCursorRemovesNodeAndNPath(t *testing.T) {
	sg := newContainer(t)
	u := sg.Updater()
	u.InsertNamed(ordb.NoNpath, "a", itemType, map[string]any{"Code": "A1"})
	require.NoError(t, u.Commit())

	root := ordb.CursorAt(sg, ordb.RootNid)
	a, err := root.Child("a")
	require.NoError(t, err)

	u2 := sg.Updater()
	u2.DeleteCursor(a)
	require.NoError(t, u2.Commit())

	_, err = ordb.CursorAt(sg, ordb.RootNid).Child("a")
	require.Error(t, err)
	require.Len(t, sg.All(itemType), 0)
	require.Len(t, sg.All(ordb.NPathType), 0)
}

func TestLeafNodeRejectsNamedChildren(t *testing.T) {
	sg := newContainer(t)
	u := sg.Updater()
	leafNid := u.InsertNamed(ordb.NoNpath, "a", itemType, map[string]any{"Code": "A1"})
	require.NoError(t, u.Commit())

	root := ordb.CursorAt(sg, ordb.RootNid)
	a, err := root.Child("a")
	require.NoError(t, err)
	require.Equal(t, leafNid, a.Nid)

	u2 := sg.Updater()
	u2.InsertNamed(a.NpathNid, "nested", itemType, map[string]any{"Code": "N1"})
	require.Error(t, u2.Commit())
}

func TestDump(t *testing.T) {
	sg := newContainer(t)
	out := sg.Dump()
	require.Contains(t, out, "MutableSubgraph.load({")
	require.Contains(t, out, "Container")
}
