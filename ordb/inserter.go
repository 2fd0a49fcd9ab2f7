package ordb

// Inserter builds a node under a known parent nid and returns its new
// nid, grounded on the Inserter protocol in ordb.py (used with the `%`
// operator there to attach a prepared-but-not-yet-placed child to a
// parent in one expression). Go has no operator overloading, so
// InsertChild below stands in for Node.__mod__.
type Inserter interface {
	Insert(u *Updater, parent Nid) Nid
}

// FuncInserter adapts a plain function to Inserter, grounded on
// FuncInserter in ordb.py.
type FuncInserter func(u *Updater, parent Nid) Nid

func (f FuncInserter) Insert(u *Updater, parent Nid) Nid { return f(u, parent) }

// InsertChild runs ins against parent within u, the Go equivalent of
// ordb.py's `parent % inserter` back-reference insertion idiom.
func (u *Updater) InsertChild(parent Nid, ins Inserter) Nid {
	return ins.Insert(u, parent)
}
