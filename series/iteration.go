/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package series

import "github.com/C0nsultant/openpmd-go/core"

// Iteration is one time-step of a Series, keyed by its decimal uint64 key
// in the iterations container. The domain convenience layer over meshes,
// particle species and record components sits above this node and is out
// of scope; Iteration here carries only the shared Attributable/Writable
// substrate plus the two flush/read entry points the Series protocols
// call on it directly.
type Iteration struct {
	core.Attributable
}

// flushGroupBased creates (if needed) this iteration's own path under the
// iterations container, named by its decimal key, and flushes its
// attributes. A domain layer would flush meshes/particles here too; none
// are modeled in this module.
func (it *Iteration) flushGroupBased(key string) error {
	return it.flushAt(key)
}

// flushFileBased is identical at this layer: the split between group-
// based and file-based file identity is entirely the Series's
// responsibility (see flush.go's written-flag toggling), so both
// encodings reduce to the same per-iteration path-and-attribute flush.
func (it *Iteration) flushFileBased(key string) error {
	return it.flushAt(key)
}

func (it *Iteration) flushAt(key string) error {
	h := it.Handler()
	if !it.Written() {
		param := &core.Parameter{Path: key}
		h.Enqueue(core.NewIOTask(core.CreatePath, core.Node(it), param))
		if err := h.Flush(); err != nil {
			return err
		}
		it.SetPosition(param.OutPosition)
		it.SetWritten(true)
	}
	return it.FlushAttributes()
}

// read reconstructs this iteration's attributes from the backend. The
// iteration's own path has already been opened by the caller (see
// Series.read), matching the spec's OPEN_PATH-then-delegate sequencing.
func (it *Iteration) read() error {
	return it.ReadAttributes()
}
