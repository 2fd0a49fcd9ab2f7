package ordb

import "fmt"

// ErrOrdb is the root of the package's error taxonomy; every error this
// package returns wraps one of ErrOrdb or ErrQuery, so callers can test
// broad categories with errors.Is without enumerating concrete types.
// Grounded on the teacher's sentinel-error block in core/types.go
// (ErrVertexNotFound, ErrEdgeNotFound, ...), generalized to wrapped typed
// errors since ORDB's violations carry structured data (an index, a value,
// a nid) that a bare sentinel can't.
var ErrOrdb = fmt.Errorf("ordb: model error")

// ErrQuery is the root of query-layer errors: a Subgraph.One call or a
// Cursor.Child lookup that matched zero or more than one node.
var ErrQuery = fmt.Errorf("ordb: query error")

// ErrModelViolation is returned when a SubgraphUpdater commits a change
// that breaks a structural invariant not covered by a more specific error
// (e.g. the root node of a subgraph was removed).
var ErrModelViolation = fmt.Errorf("%w: model violation", ErrOrdb)

// UniqueViolation reports that a unique index already holds a node under
// the given key, grounded on ordb.py's dataclass of the same name.
type UniqueViolation struct {
	Index string
	Value any
}

func (e *UniqueViolation) Error() string {
	return fmt.Sprintf("ordb: unique violation in index %s: value %v already present", e.Index, e.Value)
}

func (e *UniqueViolation) Unwrap() error { return ErrOrdb }

// DanglingLocalRef reports that a committed subgraph would contain a
// LocalRef pointing at a nid that no longer exists.
type DanglingLocalRef struct {
	Nid Nid
}

func (e *DanglingLocalRef) Error() string {
	return fmt.Sprintf("ordb: dangling local ref to nid %d", e.Nid)
}

func (e *DanglingLocalRef) Unwrap() error { return ErrOrdb }

// NotFoundError is returned by cursor/query lookups that found zero nodes
// where exactly one (or at least one) was required.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("ordb: no match for %s", e.Query) }

func (e *NotFoundError) Unwrap() error { return ErrQuery }

// AmbiguousError is returned by Subgraph.One and Cursor.Child when more
// than one node matched.
type AmbiguousError struct {
	Query string
	Count int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ordb: %d matches for %s, expected exactly one", e.Count, e.Query)
}

func (e *AmbiguousError) Unwrap() error { return ErrQuery }
