package ordb

import "fmt"

// Updater is a transactional scope over a MutableSubgraph, grounded on
// SubgraphUpdater in ordb.py: it works against private copies of the
// node table, index tables and nid counter, and only publishes them to
// the target MutableSubgraph on a successful Commit. Any error returned
// by Commit leaves the target completely unchanged.
type Updater struct {
	target   *MutableSubgraph
	nodes    nodeTable
	indexTab map[string]indexTable
	nidNext  Nid
	removed  map[Nid]bool
	err      error
}

// Insert allocates a fresh nid, builds a Node of type nt from vals, adds
// it to every index nt declares, and returns its nid. If a unique index
// would be violated, the nid is still returned but the Updater is marked
// failed; Commit will return the recorded error and the target is left
// untouched.
func (u *Updater) Insert(nt *NodeType, vals map[string]any) Nid {
	nid := u.nidNext
	u.nidNext++
	return u.insertAt(nid, nt, vals)
}

// InsertRoot inserts a node at nid 0, the one legal way to create a
// subgraph's root (the zero-value Nid is otherwise never reused).
func (u *Updater) InsertRoot(nt *NodeType, vals map[string]any) {
	u.insertAt(RootNid, nt, vals)
}

func (u *Updater) insertAt(nid Nid, nt *NodeType, vals map[string]any) Nid {
	if u.err != nil {
		return nid
	}
	if _, exists := u.nodes.Get(nid); exists {
		u.err = fmt.Errorf("%w: nid %d already present", ErrModelViolation, nid)
		return nid
	}
	n := NewNode(nt, vals).withIdentity(nid)
	for _, idx := range nt.Indices {
		table, ok := u.indexTab[idx.Name]
		if !ok {
			table = newIndexTable()
			u.indexTab[idx.Name] = table
		}
		if err := checkAdd(idx, table, n); err != nil {
			u.err = err
			return nid
		}
	}
	for _, idx := range nt.Indices {
		u.indexTab[idx.Name] = add(idx, u.indexTab[idx.Name], n, u.nodes)
	}
	u.nodes = u.nodes.Set(nid, n)
	delete(u.removed, nid)
	if nid >= u.nidNext {
		u.nidNext = nid + 1
	}
	return nid
}

// Remove deletes the node at nid. Removing nid 0 (the root) is forbidden,
// matching SubgraphUpdater.remove_nid's refusal in ordb.py.
func (u *Updater) Remove(nid Nid) {
	if u.err != nil {
		return
	}
	if nid == RootNid {
		u.err = fmt.Errorf("%w: cannot remove the root node", ErrModelViolation)
		return
	}
	n, ok := u.nodes.Get(nid)
	if !ok {
		u.err = fmt.Errorf("%w: no node at nid %d", ErrModelViolation, nid)
		return
	}
	for _, idx := range n.Type.Indices {
		u.indexTab[idx.Name] = remove(idx, u.indexTab[idx.Name], n)
	}
	u.nodes = u.nodes.Delete(nid)
	u.removed[nid] = true
}

// Set replaces one attribute of the node at nid, rebuilding the node's
// index entries for any index covering that attribute.
func (u *Updater) Set(nid Nid, attr string, val any) {
	if u.err != nil {
		return
	}
	old, ok := u.nodes.Get(nid)
	if !ok {
		u.err = fmt.Errorf("%w: no node at nid %d", ErrModelViolation, nid)
		return
	}
	updated := old.Set(attr, val)
	for _, idx := range old.Type.Indices {
		u.indexTab[idx.Name] = remove(idx, u.indexTab[idx.Name], old)
	}
	for _, idx := range old.Type.Indices {
		table := u.indexTab[idx.Name]
		if err := checkAdd(idx, table, updated); err != nil {
			u.err = err
			return
		}
	}
	for _, idx := range old.Type.Indices {
		u.indexTab[idx.Name] = add(idx, u.indexTab[idx.Name], updated, u.nodes)
	}
	u.nodes = u.nodes.Set(nid, updated)
}

// Commit validates the transaction and, on success, publishes its working
// copies to the target MutableSubgraph. Validation mirrors
// SubgraphUpdater.__exit__ in ordb.py: the root must still be present,
// and no remaining node may hold a LocalRef to a nid that was removed or
// never existed.
func (u *Updater) Commit() error {
	if u.err != nil {
		return u.err
	}
	if _, ok := u.nodes.Get(RootNid); !ok {
		return fmt.Errorf("%w: root node missing at commit", ErrModelViolation)
	}
	var danglingErr error
	u.nodes.Range(func(_ Nid, n *Node) bool {
		for _, attr := range n.Type.Attrs {
			if attr.Kind != AttrLocalRef {
				continue
			}
			target, ok := nidOfRef(n.Get(attr.Name))
			if !ok {
				continue
			}
			if _, present := u.nodes.Get(target); !present {
				danglingErr = &DanglingLocalRef{Nid: target}
				return false
			}
		}
		return true
	})
	if danglingErr != nil {
		return danglingErr
	}
	u.target.nodes = u.nodes
	u.target.indexTab = u.indexTab
	u.target.nidNext = u.nidNext
	return nil
}

// Rollback discards the transaction without publishing it: it marks the
// Updater failed, so a later Commit returns an ErrModelViolation error and
// leaves the target unchanged.
func (u *Updater) Rollback() {
	u.err = fmt.Errorf("%w: transaction rolled back", ErrModelViolation)
}
