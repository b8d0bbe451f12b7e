package core

import (
	"sort"
	"strconv"

	"github.com/C0nsultant/openpmd-go/cmn"
)

// Container is an ordered mapping from string key to child node of type
// T (via pointer type PT), enforcing the openPMD parent/IOHandler
// propagation rule on insertion and the read-only/DELETE_PATH rules on
// removal. It is itself Attributable, so a Container carries its own
// standard attributes (e.g. the iterations container's implicit path
// attributes) the same way any other node does.
//
// PT is constrained to *T implementing Node so that GetOrCreate can
// default-construct a new child (`new(T)`) without requiring a factory
// function from callers — the common Go idiom for "pointer method set"
// generic constraints.
type Container[T any, PT interface {
	*T
	Node
}] struct {
	Attributable

	items map[string]PT
	order []string
	// numeric, when true, orders Keys()/Range() numerically (used by the
	// Iteration container, keyed by decimal uint64) instead of
	// lexicographically.
	numeric bool
}

// NewContainer constructs an empty container. numeric selects the
// iteration order used by Keys(): lexicographic for string keys (the
// default), numeric for the uint64 keys used by Iteration.
func NewContainer[T any, PT interface {
	*T
	Node
}](numeric bool) *Container[T, PT] {
	c := &Container[T, PT]{items: make(map[string]PT), numeric: numeric}
	c.bindSelf(c)
	return c
}

// Get returns the existing child, if any, without creating one.
func (c *Container[T, PT]) Get(key string) (PT, bool) {
	v, ok := c.items[key]
	return v, ok
}

// GetOrCreate returns the existing child if present; otherwise it
// default-constructs a new T, adopts it (IOHandler + parent propagation,
// written=false/dirty=true per I3), inserts it, and returns it. No
// backend I/O happens here.
func (c *Container[T, PT]) GetOrCreate(key string) PT {
	if v, ok := c.items[key]; ok {
		return v
	}
	var zero T
	pt := PT(&zero)
	w := pt.AsWritable()
	w.SetHandler(c.Handler())
	w.SetParent(Node(c))
	w.SetWritten(false)
	w.SetDirty(true)
	pt.bindSelf(pt)
	c.items[key] = pt
	c.order = append(c.order, key)
	return pt
}

// Insert adopts an already-constructed child under key, propagating
// IOHandler/parent the same way GetOrCreate does. Value-preserving: the
// caller is responsible for not also holding onto (and mutating through)
// a second reference once ownership is transferred.
func (c *Container[T, PT]) Insert(key string, pt PT) {
	w := pt.AsWritable()
	if w.Handler() == nil {
		w.SetHandler(c.Handler())
	}
	if w.Parent() == nil {
		w.SetParent(Node(c))
	}
	if _, exists := c.items[key]; !exists {
		c.order = append(c.order, key)
	}
	c.items[key] = pt
}

// Len reports the number of children.
func (c *Container[T, PT]) Len() int { return len(c.items) }

func (c *Container[T, PT]) Empty() bool { return len(c.items) == 0 }

// Keys returns the child keys in the container's iteration order:
// lexicographic for string-keyed containers, numeric for uint64-keyed
// ones (e.g. Iteration, keyed by its decimal string representation).
func (c *Container[T, PT]) Keys() []string {
	out := append([]string(nil), c.order...)
	if c.numeric {
		sort.Slice(out, func(i, j int) bool {
			ni, _ := strconv.ParseUint(out[i], 10, 64)
			nj, _ := strconv.ParseUint(out[j], 10, 64)
			return ni < nj
		})
	} else {
		sort.Strings(out)
	}
	return out
}

// Erase fails with read-only-violation in read-only mode. If the child
// was written, it enqueues a DELETE_PATH task (path ".") targeting the
// child and flushes before removing it locally. Returns true iff an
// entry was removed.
func (c *Container[T, PT]) Erase(key string) (bool, error) {
	h := c.Handler()
	if h.AccessType() == AccessReadOnly {
		return false, cmn.NewReadOnlyViolation("cannot erase %q from a read-only container", key)
	}
	pt, ok := c.items[key]
	if !ok {
		return false, nil
	}
	if pt.AsWritable().Written() {
		param := &Parameter{Path: "."}
		h.Enqueue(NewIOTask(DeletePath, Node(pt), param))
		if err := h.Flush(); err != nil {
			return false, err
		}
	}
	delete(c.items, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Clear removes every child. Fails in read-only mode, and fails with
// not-implemented if the container itself has already been written:
// persistent deletion of a populated container is deliberately
// unsupported (see design docs' Open Question on this).
func (c *Container[T, PT]) Clear() error {
	if c.Handler().AccessType() == AccessReadOnly {
		return cmn.NewReadOnlyViolation("cannot clear a read-only container")
	}
	return c.ClearUnchecked()
}

// ClearUnchecked bypasses the read-only guard; used internally by the
// read protocol, which is guaranteed not to break anything by discarding
// a container that has not yet been populated from the backend.
func (c *Container[T, PT]) ClearUnchecked() error {
	if c.Written() {
		return cmn.NewNotImplemented("clearing a written container")
	}
	c.items = make(map[string]PT)
	c.order = nil
	return nil
}

// Flush creates the container's own backend path (if not already
// written) and flushes its attributes. Per-child flushing is the
// caller's responsibility (the Series flush protocols drive it
// explicitly, since file-based vs group-based encoding walk children in
// different orders).
func (c *Container[T, PT]) Flush(path string) error {
	if !c.Written() {
		h := c.Handler()
		param := &Parameter{Path: path}
		h.Enqueue(NewIOTask(CreatePath, Node(c), param))
		if err := h.Flush(); err != nil {
			return err
		}
		c.SetPosition(param.OutPosition)
		c.SetWritten(true)
	}
	return c.FlushAttributes()
}
