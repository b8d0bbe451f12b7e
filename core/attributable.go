package core

import (
	"sort"

	"github.com/C0nsultant/openpmd-go/cmn"
	"github.com/C0nsultant/openpmd-go/cmn/debug"
	"github.com/C0nsultant/openpmd-go/cmn/nlog"
)

// Attributable is a node-attached mapping from attribute name to
// cmn.Attribute. Ordering is not semantically significant but iteration
// (Attributes()) is deterministic for a given state: insertion order.
//
// Clone deep-copies the attribute map; a plain struct copy shares it.
// Assigning the zero value transfers no ownership because Go structs are
// always copied by value — callers that want move semantics simply stop
// using the source value after copying the fields they need.
type Attributable struct {
	Writable

	self  Node
	attrs map[string]cmn.Attribute
	order []string
}

// bindSelf implements Node. It is called exactly once, right after a
// concrete node is constructed, by whichever package owns that
// construction path (Container.GetOrCreate, Series's constructors).
func (a *Attributable) bindSelf(self Node) { a.self = self }

// AsWritable implements Node.
func (a *Attributable) AsWritable() *Writable { return &a.Writable }

func (a *Attributable) ensureMap() {
	if a.attrs == nil {
		a.attrs = make(map[string]cmn.Attribute)
	}
}

// SetAttribute inserts or overwrites key and marks the node dirty. No
// backend I/O happens here; the write is only observed on the next
// FlushAttributes.
func (a *Attributable) SetAttribute(key string, value any) error {
	attr, err := cmn.NewAttribute(value)
	if err != nil {
		return err
	}
	a.setAttributeValue(key, attr)
	return nil
}

func (a *Attributable) setAttributeValue(key string, attr cmn.Attribute) {
	a.ensureMap()
	if _, exists := a.attrs[key]; !exists {
		a.order = append(a.order, key)
	}
	a.attrs[key] = attr
	a.SetDirty(true)
}

// GetAttribute fails with no-such-attribute if key is absent.
func (a *Attributable) GetAttribute(key string) (cmn.Attribute, error) {
	a.ensureMap()
	attr, ok := a.attrs[key]
	if !ok {
		return cmn.Attribute{}, cmn.NewNoSuchAttribute(key)
	}
	return attr, nil
}

// Attributes returns the attribute keys in deterministic (insertion)
// order.
func (a *Attributable) Attributes() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

func (a *Attributable) NumAttributes() int { return len(a.order) }

func (a *Attributable) Comment() (string, error) {
	attr, err := a.GetAttribute("comment")
	if err != nil {
		return "", err
	}
	return cmn.Get[string](attr)
}

func (a *Attributable) SetComment(c string) error { return a.SetAttribute("comment", c) }

// DeleteAttribute fails with read-only-violation if the handler is
// read-only. Otherwise it enqueues and flushes a DELETE_ATT task before
// removing the entry locally. Returns true iff the entry existed.
func (a *Attributable) DeleteAttribute(key string) (bool, error) {
	h := a.Handler()
	debug.Assert(h != nil, "deleteAttribute called on an unbound node")
	if h.AccessType() == AccessReadOnly {
		return false, cmn.NewReadOnlyViolation("cannot delete attribute %q from a read-only series", key)
	}
	a.ensureMap()
	if _, ok := a.attrs[key]; !ok {
		return false, nil
	}
	param := &Parameter{AttName: key}
	h.Enqueue(NewIOTask(DeleteAtt, a.self, param))
	if err := h.Flush(); err != nil {
		return false, err
	}
	delete(a.attrs, key)
	for i, k := range a.order {
		if k == key {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// FlushAttributes enqueues one WRITE_ATT per attribute when the node is
// dirty, flushes the queue, and clears dirty.
func (a *Attributable) FlushAttributes() error {
	if !a.Dirty() {
		return nil
	}
	h := a.Handler()
	for _, name := range a.Attributes() {
		attr := a.attrs[name]
		res, err := attr.Resource()
		if err != nil {
			return err
		}
		param := &Parameter{AttName: name, AttResource: res, AttDtype: attr.Dtype()}
		h.Enqueue(NewIOTask(WriteAtt, a.self, param))
	}
	if err := h.Flush(); err != nil {
		return err
	}
	a.SetDirty(false)
	return nil
}

// ReadAttributes enumerates backend attributes (LIST_ATTS), then reads
// every name not already present locally (READ_ATT), installing each
// into the local map via the Datatype-dispatched decoder. A READ_ATT
// failing with unsupported-data is logged and skipped, allowing
// forward-compatible handling of non-standard extension attributes.
func (a *Attributable) ReadAttributes() error {
	h := a.Handler()
	listParam := &Parameter{}
	h.Enqueue(NewIOTask(ListAtts, a.self, listParam))
	if err := h.Flush(); err != nil {
		return err
	}

	written := a.Attributes()
	sort.Strings(written)
	remote := append([]string(nil), listParam.OutAttNames...)
	sort.Strings(remote)

	toRead := setDifference(remote, written)
	for _, name := range toRead {
		readParam := &Parameter{AttName: name}
		h.Enqueue(NewIOTask(ReadAtt, a.self, readParam))
		if err := h.Flush(); err != nil {
			if cmn.Is(err, cmn.ErrUnsupportedData) {
				nlog.Warningf("skipping non-standard attribute %q: %v", name, err)
				continue
			}
			return err
		}
		attr, err := cmn.Decode(readParam.OutDtype, readParam.OutResource)
		if err != nil {
			return err
		}
		a.setAttributeValue(name, attr)
	}
	a.SetDirty(false)
	return nil
}

// setDifference returns the elements of sorted slice a that are not in
// sorted slice b (std::set_difference over two already-sorted ranges).
func setDifference(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) {
		if j >= len(b) || a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else if a[i] == b[j] {
			i++
			j++
		} else {
			j++
		}
	}
	return out
}

// Clone deep-copies the attribute map, used when a node must be
// duplicated without aliasing its attributes with the source.
func (a *Attributable) Clone() Attributable {
	dup := Attributable{Writable: a.Writable}
	if a.attrs != nil {
		dup.attrs = make(map[string]cmn.Attribute, len(a.attrs))
		for k, v := range a.attrs {
			dup.attrs[k] = v
		}
		dup.order = append([]string(nil), a.order...)
	}
	return dup
}
