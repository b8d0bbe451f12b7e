// Package core implements the object-graph + deferred-I/O engine shared
// by every openPMD node: the Writable/Attributable/Container triangle,
// the Parameter/IOTask task descriptors, and the AbstractIOHandler
// contract concrete backends must honor.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package core

// Node is implemented by every type that participates in the tree: it
// exposes the shared synchronization state (Writable) that the flush and
// read protocols operate on. Embedding Attributable (which itself embeds
// Writable) satisfies this automatically.
type Node interface {
	AsWritable() *Writable

	// bindSelf records the concrete node's own address so that
	// Attributable methods (FlushAttributes, DeleteAttribute, ...) can
	// target "this" node in an IOTask without every call site having to
	// pass it explicitly. It is unexported: because bindSelf is declared
	// in this package, a type in another package that embeds
	// Attributable still satisfies Node (the promoted method keeps its
	// defining package's identity) but application code cannot forge a
	// bindSelf implementation of its own — this is the idiom used to
	// close a cyclic self-reference without reflection or a global
	// registry (cf. the parent/Writable/Container cyclic-ownership note
	// in the design docs).
	bindSelf(self Node)
}

// BindSelf records n's own identity so that its Attributable methods can
// target it in IOTasks. Container.GetOrCreate does this automatically for
// container children; callers constructing a root node directly (Series
// has no enclosing container) call BindSelf once, immediately after
// construction.
func BindSelf(n Node) { n.bindSelf(n) }

// Writable is the per-node synchronization state described by the
// openPMD core: an opaque backend handle, a non-owning parent link, the
// shared per-Series IOHandler, and the dirty/written flags.
//
// Invariants (see design docs I1-I4):
//   - written implies position != ""
//   - every non-root node's parent points to its logical container and
//     shares the root's handler
//   - a freshly inserted child starts written=false, dirty=true
//   - dirty is cleared by a successful attribute flush, and also at the
//     end of a successful attribute read (values just read from the
//     backend are not pending writes); written is set only by a
//     successful CREATE or OPEN
type Writable struct {
	position string
	parent   Node
	handler  IOHandler
	dirty    bool
	written  bool
}

func (w *Writable) Position() string     { return w.position }
func (w *Writable) SetPosition(p string) { w.position = p }

func (w *Writable) Parent() Node      { return w.parent }
func (w *Writable) SetParent(p Node)  { w.parent = p }

func (w *Writable) Handler() IOHandler     { return w.handler }
func (w *Writable) SetHandler(h IOHandler) { w.handler = h }

func (w *Writable) Dirty() bool     { return w.dirty }
func (w *Writable) SetDirty(d bool) { w.dirty = d }

func (w *Writable) Written() bool     { return w.written }
func (w *Writable) SetWritten(x bool) { w.written = x }
