/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package series

import (
	"strings"

	"github.com/teris-io/shortid"

	"github.com/C0nsultant/openpmd-go/cmn"
	"github.com/C0nsultant/openpmd-go/cmn/nlog"
	"github.com/C0nsultant/openpmd-go/core"
)

// flushSeq produces short, log-friendly correlation ids so a single
// Flush() call's backend round-trips can be grepped out of interleaved
// log output; it has no bearing on correctness.
var flushSeq = shortid.MustNew(1, shortid.DefaultABC, 0xC0)

// basePathDir strips the "%T/" placeholder segment out of a basePath
// attribute value ("/data/%T/" -> "data"), yielding the path the
// iterations container itself is created/opened at.
func basePathDir(basePath string) string {
	p := strings.Replace(basePath, placeholder+"/", "", 1)
	return strings.Trim(p, "/")
}

// Flush is a no-op in READ_ONLY mode; otherwise it dispatches to the
// encoding-specific protocol.
func (s *Series) Flush() error {
	if s.Handler().AccessType() == core.AccessReadOnly {
		return nil
	}
	id, err := flushSeq.Generate()
	if err != nil {
		id = "?"
	}
	nlog.Infof("flush[%s] series=%q encoding=%s begin", id, s.name, s.encoding)
	if s.encoding == FileBased {
		err = s.flushFileBased()
	} else {
		err = s.flushGroupBased()
	}
	if err != nil {
		nlog.Warningf("flush[%s] series=%q failed: %v", id, s.name, err)
		return err
	}
	nlog.Infof("flush[%s] series=%q done", id, s.name)
	return nil
}

// flushGroupBased creates the Series's single backend file on first
// flush, then the iterations group, then delegates to each iteration in
// container order.
func (s *Series) flushGroupBased() error {
	h := s.Handler()
	if !s.Written() {
		param := &core.Parameter{FileName: s.name}
		h.Enqueue(core.NewIOTask(core.CreateFile, core.Node(s), param))
		if err := h.Flush(); err != nil {
			return err
		}
		s.SetPosition("/")
		s.SetWritten(true)
	}
	if s.iterations.Parent() == nil {
		s.iterations.SetParent(core.Node(s))
	}

	basePath, err := s.BasePath()
	if err != nil {
		return err
	}
	if err := s.iterations.Flush(basePathDir(basePath)); err != nil {
		return err
	}

	for _, key := range s.iterations.Keys() {
		it, _ := s.iterations.Get(key)
		it.SetParent(core.Node(s.iterations))
		if err := it.flushGroupBased(key); err != nil {
			return err
		}
	}
	return s.FlushAttributes()
}

// flushFileBased replicates the tree into one file per iteration. A
// CREATE_FILE is issued for every iteration; resetting the written flag of
// the iterations container is load-bearing: it forces the re-creation of
// the iterations path inside that fresh file (before the iteration's own
// path is created beneath it), and marking
// the Series dirty again after each attribute write carries the root
// standard attributes into every per-iteration file (scenario: two
// iterations produce two CREATE_FILE tasks, each file getting the full
// attribute set).
func (s *Series) flushFileBased() error {
	if s.iterations.Empty() {
		return cmn.NewBadConfig("fileBased series %q has no iterations to flush", s.name)
	}
	h := s.Handler()
	basePath, err := s.BasePath()
	if err != nil {
		return err
	}
	base := basePathDir(basePath)

	for _, key := range s.iterations.Keys() {
		it, _ := s.iterations.Get(key)

		s.SetWritten(false)
		s.iterations.SetWritten(false)

		fname := strings.Replace(s.name, placeholder, key, 1)
		param := &core.Parameter{FileName: fname}
		h.Enqueue(core.NewIOTask(core.CreateFile, core.Node(s), param))
		if err := h.Flush(); err != nil {
			return err
		}
		s.SetPosition("/")
		s.SetWritten(true)

		if err := s.iterations.Flush(base); err != nil {
			return err
		}

		it.SetParent(core.Node(s.iterations))
		if err := it.flushFileBased(key); err != nil {
			return err
		}

		if s.Dirty() {
			if err := s.FlushAttributes(); err != nil {
				return err
			}
			s.SetDirty(true)
		}
	}
	s.SetDirty(false)
	return nil
}
