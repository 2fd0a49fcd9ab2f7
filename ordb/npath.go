package ordb

import "fmt"

// NPathType is the reserved node type that gives domain nodes their
// hierarchical names, grounded on NPath in ordb.py: a namespace node with
// (Parent, Name, Ref) rather than a Parent/Name pair inlined on the domain
// node itself. This is what lets a name exist with no node behind it
// (MkPath, e.g. the "pin" level in "layerstack.metal1.pin") and what lets
// cursor.delete() remove a name independently of the node it points at.
// Parent and Ref both default to NoNpath: Parent absent means "a top-level
// name under the subgraph root", Ref absent means "a pure-namespace node".
var NPathType = NewNodeType("NPath", nil,
	AttrSpec{Name: "Parent", Kind: AttrLocalRef, Default: Nid(NoNpath)},
	AttrSpec{Name: "Name", Kind: AttrPlain},
	AttrSpec{Name: "Ref", Kind: AttrLocalRef, Default: Nid(NoNpath)},
)

var (
	// npathParentName is the unique (Parent, Name) index NPath addressing
	// is built on — at most one child may hold a given name under a given
	// parent.
	npathParentName = NewNPathIndex("idx_parent_name", "Parent", "Name")

	// npathPathOf is the unique reverse index from a referenced domain
	// node back to the single NPath entry naming it, grounded on
	// idx_path_of in ordb.py: "the only NPath with that ref" (invariant
	// enforced by Unique here, not by convention).
	npathPathOf = &Index{Name: "idx_path_of", Kind: IndexLocalRef, Attrs: []string{"Ref"}, Unique: true}
)

func init() {
	NPathType.AttachIndex(npathParentName)
	NPathType.AttachIndex(npathPathOf)
}

// checkNonLeaf reports an error if parentNpath names a level owned by a
// domain node whose type forbids named children. A pure-namespace parent
// (Ref == NoNpath) or the top-level sentinel (NoNpath itself) never
// forbids it — only a referenced domain node's NodeType.NonLeaf flag does.
func (u *Updater) checkNonLeaf(parentNpath Nid) error {
	if parentNpath == NoNpath {
		return nil
	}
	pn, ok := u.nodes.Get(parentNpath)
	if !ok {
		return fmt.Errorf("%w: no NPath at nid %d", ErrModelViolation, parentNpath)
	}
	refNid := pn.GetNid("Ref")
	if refNid == NoNpath {
		return nil
	}
	owner, ok := u.nodes.Get(refNid)
	if !ok {
		return fmt.Errorf("%w: no node at nid %d", ErrModelViolation, refNid)
	}
	if !owner.Type.NonLeaf {
		return fmt.Errorf("%w: %s is a leaf node type, cannot hold named children", ErrModelViolation, owner.Type.Name)
	}
	return nil
}

// InsertNamed inserts a node of type nt from vals, then gives it a name by
// inserting an NPath entry (Parent: parentNpath, Name: name, Ref: the new
// node) pointing at it. parentNpath is NoNpath for a top-level name (one
// directly under the subgraph root), or another NPath's nid to nest under
// an existing name. Returns the new domain node's nid.
func (u *Updater) InsertNamed(parentNpath Nid, name any, nt *NodeType, vals map[string]any) Nid {
	if u.err != nil {
		return NoNpath
	}
	if err := u.checkNonLeaf(parentNpath); err != nil {
		u.err = err
		return NoNpath
	}
	nid := u.Insert(nt, vals)
	u.Insert(NPathType, map[string]any{"Parent": parentNpath, "Name": name, "Ref": nid})
	return nid
}

// MkPath inserts a pure-namespace NPath node with no referenced domain
// node — a name that exists purely to nest further names under it, e.g.
// the "pin" level in "layerstack.metal1.pin". Returns the new NPath node's
// nid, suitable for passing as parentNpath to a further InsertNamed/MkPath
// call.
func (u *Updater) MkPath(parentNpath Nid, name any) Nid {
	if u.err != nil {
		return NoNpath
	}
	if err := u.checkNonLeaf(parentNpath); err != nil {
		u.err = err
		return NoNpath
	}
	return u.Insert(NPathType, map[string]any{"Parent": parentNpath, "Name": name})
}

// DeleteCursor removes the node c points at, along with its NPath entry if
// it has one, grounded on Cursor.delete in ordb.py. The NPath entry is
// removed first so the reverse idx_path_of bucket never transiently points
// at a deleted node.
func (u *Updater) DeleteCursor(c Cursor) {
	if u.err != nil {
		return
	}
	if c.NpathNid != NoNpath {
		u.Remove(c.NpathNid)
	}
	if c.Nid != NoNpath && c.Nid != RootNid {
		u.Remove(c.Nid)
	}
}
