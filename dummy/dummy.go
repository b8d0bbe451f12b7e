// Package dummy implements core.IOHandler against an embedded tidwall/
// buntdb database file. It is the one backend this module ships a
// working implementation of — HDF5/ADIOS/ADIOS2 (serial and parallel)
// are recognized by the factory but remain interface-only, per the
// core/io-handler contract they must honor (see spec.md §1, §4.5).
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package dummy

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/karrick/godirwalk"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/buntdb"

	"github.com/C0nsultant/openpmd-go/cmn"
	"github.com/C0nsultant/openpmd-go/cmn/nlog"
	"github.com/C0nsultant/openpmd-go/core"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	pathPrefix  = "path::"
	attrPrefix  = "attr::"
	fileSuffix  = ".dummy.db"
)

// attrEnvelope is the JSON shape stored under an attr:: key; Bytes holds
// the attribute's own JSON encoding (from cmn.Attribute.Resource), kept
// as a raw string rather than base64 since it is already valid JSON text.
type attrEnvelope struct {
	Dtype cmn.Datatype `json:"dtype"`
	Bytes string       `json:"bytes"`
}

// Handler is the DUMMY backend: one buntdb file open at a time (each
// CREATE_FILE/OPEN_FILE switches to a new one, so a fileBased Series uses
// one file per iteration), with paths and attributes addressed by key
// prefix rather than native hierarchy.
type Handler struct {
	mu     sync.Mutex
	db     *buntdb.DB
	access core.AccessType
	dir    string
	fname  string
	queue  []core.IOTask
}

// New constructs an unopened handler rooted at dir with the given access
// mode; the backing buntdb file is created/opened lazily on the first
// CREATE_FILE/OPEN_FILE task, matching the spec's "allocated by the
// backend on first CREATE_*/OPEN_* for that node."
func New(dir string, access core.AccessType) *Handler {
	return &Handler{dir: dir, access: access}
}

func (h *Handler) AccessType() core.AccessType { return h.access }
func (h *Handler) Directory() string           { return h.dir }

func (h *Handler) Enqueue(task core.IOTask) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queue = append(h.queue, task)
}

// Flush executes queued tasks in FIFO order until empty; on any task
// error it aborts the remainder and leaves the queue empty.
func (h *Handler) Flush() error {
	h.mu.Lock()
	queue := h.queue
	h.queue = nil
	h.mu.Unlock()

	for _, task := range queue {
		if err := h.exec(task); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) exec(task core.IOTask) error {
	switch task.Op {
	case core.CreateFile:
		return h.createFile(task)
	case core.OpenFile:
		return h.openFile(task)
	case core.CreatePath:
		return h.createPath(task)
	case core.OpenPath:
		return h.openPath(task)
	case core.DeletePath:
		return h.deletePath(task)
	case core.ListPaths:
		return h.listPaths(task)
	case core.WriteAtt:
		return h.writeAtt(task)
	case core.ReadAtt:
		return h.readAtt(task)
	case core.ListAtts:
		return h.listAtts(task)
	case core.DeleteAtt:
		return h.deleteAtt(task)
	default:
		return cmn.NewBackendError(fmt.Errorf("unhandled operation %s", task.Op), "dummy backend")
	}
}

func (h *Handler) dbPath() string {
	return filepath.Join(h.dir, h.fname+fileSuffix)
}

func (h *Handler) closeCurrent() {
	if h.db != nil {
		h.db.Close()
		h.db = nil
	}
}

func (h *Handler) createFile(task core.IOTask) error {
	h.closeCurrent()
	h.fname = task.Param.FileName
	db, err := buntdb.Open(h.dbPath())
	if err != nil {
		return cmn.NewBackendError(err, "creating dummy file %q", h.fname)
	}
	h.db = db
	if err := h.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(pathPrefix+"/", "1", nil)
		return err
	}); err != nil {
		return cmn.NewBackendError(err, "initializing root path marker in %q", h.fname)
	}
	task.Target.AsWritable().SetPosition("/")
	nlog.Infof("dummy: created file %s", h.dbPath())
	return nil
}

func (h *Handler) openFile(task core.IOTask) error {
	h.closeCurrent()
	h.fname = task.Param.FileName
	path := h.dbPath()
	db, err := buntdb.Open(path)
	if err != nil {
		return cmn.NewBackendError(err, "opening dummy file %q", h.fname)
	}
	// buntdb.Open creates the file if missing; reject that for OPEN_FILE
	// semantics by requiring at least the root path marker to exist.
	var exists bool
	_ = db.View(func(tx *buntdb.Tx) error {
		_, err := tx.Get(pathPrefix + "/")
		exists = err == nil
		return nil
	})
	if !exists {
		db.Close()
		return cmn.NewBackendError(fmt.Errorf("no such file"), "opening dummy file %q", h.fname)
	}
	h.db = db
	task.Target.AsWritable().SetPosition("/")
	task.Param.OutPosition = "/"
	return nil
}

func joinPos(base, rel string) string {
	base = strings.TrimSuffix(base, "/")
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return base + "/"
	}
	return base + "/" + rel + "/"
}

func (h *Handler) createPath(task core.IOTask) error {
	parent := task.Target.AsWritable().Parent()
	base := "/"
	if parent != nil {
		base = parent.AsWritable().Position()
	}
	pos := joinPos(base, task.Param.Path)
	err := h.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(pathPrefix+pos, "1", nil)
		return err
	})
	if err != nil {
		return cmn.NewBackendError(err, "creating path %q", pos)
	}
	task.Param.OutPosition = pos
	task.Target.AsWritable().SetPosition(pos)
	return nil
}

func (h *Handler) openPath(task core.IOTask) error {
	parent := task.Target.AsWritable().Parent()
	base := "/"
	if parent != nil {
		base = parent.AsWritable().Position()
	}
	pos := joinPos(base, task.Param.Path)
	var exists bool
	_ = h.db.View(func(tx *buntdb.Tx) error {
		_, err := tx.Get(pathPrefix + pos)
		exists = err == nil
		return nil
	})
	if !exists {
		return cmn.NewBackendError(fmt.Errorf("no such path"), "opening path %q", pos)
	}
	task.Param.OutPosition = pos
	task.Target.AsWritable().SetPosition(pos)
	return nil
}

func (h *Handler) deletePath(task core.IOTask) error {
	pos := task.Target.AsWritable().Position()
	var toDelete []string
	err := h.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(pathPrefix+pos+"*", func(key, _ string) bool {
			toDelete = append(toDelete, key)
			return true
		})
	})
	if err != nil {
		return cmn.NewBackendError(err, "listing path %q for delete", pos)
	}
	return h.db.Update(func(tx *buntdb.Tx) error {
		for _, k := range toDelete {
			if _, err := tx.Delete(k); err != nil && err != buntdb.ErrNotFound {
				return err
			}
		}
		return nil
	})
}

func (h *Handler) listPaths(task core.IOTask) error {
	pos := task.Target.AsWritable().Position()
	seen := map[string]bool{}
	err := h.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(pathPrefix+pos+"*", func(key, _ string) bool {
			rest := strings.TrimPrefix(key, pathPrefix+pos)
			rest = strings.Trim(rest, "/")
			if rest == "" {
				return true
			}
			seg := strings.SplitN(rest, "/", 2)[0]
			seen[seg] = true
			return true
		})
	})
	if err != nil {
		return cmn.NewBackendError(err, "listing paths under %q", pos)
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	task.Param.OutPaths = out
	return nil
}

func (h *Handler) writeAtt(task core.IOTask) error {
	pos := task.Target.AsWritable().Position()
	env := attrEnvelope{Dtype: task.Param.AttDtype, Bytes: string(task.Param.AttResource.Bytes)}
	encoded, err := jsonAPI.MarshalToString(env)
	if err != nil {
		return cmn.NewBackendError(err, "encoding attribute %q", task.Param.AttName)
	}
	return h.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(attrPrefix+pos+"::"+task.Param.AttName, encoded, nil)
		return err
	})
}

func (h *Handler) readAtt(task core.IOTask) error {
	pos := task.Target.AsWritable().Position()
	var raw string
	err := h.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(attrPrefix + pos + "::" + task.Param.AttName)
		raw = v
		return err
	})
	if err != nil {
		return cmn.NewUnsupportedData("no such attribute %q on backend", task.Param.AttName)
	}
	var env attrEnvelope
	if err := jsonAPI.UnmarshalFromString(raw, &env); err != nil {
		return cmn.NewBackendError(err, "decoding attribute %q", task.Param.AttName)
	}
	task.Param.OutDtype = env.Dtype
	task.Param.OutResource = cmn.Resource{Bytes: []byte(env.Bytes)}
	return nil
}

func (h *Handler) listAtts(task core.IOTask) error {
	pos := task.Target.AsWritable().Position()
	var names []string
	err := h.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(attrPrefix+pos+"::*", func(key, _ string) bool {
			names = append(names, strings.TrimPrefix(key, attrPrefix+pos+"::"))
			return true
		})
	})
	if err != nil {
		return cmn.NewBackendError(err, "listing attributes under %q", pos)
	}
	task.Param.OutAttNames = names
	return nil
}

func (h *Handler) deleteAtt(task core.IOTask) error {
	pos := task.Target.AsWritable().Position()
	return h.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(attrPrefix + pos + "::" + task.Param.AttName)
		if err == buntdb.ErrNotFound {
			return nil
		}
		return err
	})
}

// Close releases the underlying buntdb handle; Series calls this as part
// of its destruction-time handler.flush()+close sequence.
func (h *Handler) Close() error {
	if h.db == nil {
		return nil
	}
	return h.db.Close()
}

// ListFileCandidates returns the names (without the .dummy.db suffix) of
// backing DUMMY files in dir, used by the fileBased read protocol's
// directory enumeration as the candidate set a %T-derived regex then
// filters down to actual iteration files.
func ListFileCandidates(dir string) ([]string, error) {
	names, err := godirwalk.ReadDirnames(dir, nil)
	if err != nil {
		return nil, cmn.NewBackendError(err, "scanning directory %q", dir)
	}
	var out []string
	for _, name := range names {
		if strings.HasSuffix(name, fileSuffix) {
			out = append(out, strings.TrimSuffix(name, fileSuffix))
		}
	}
	sort.Strings(out)
	return out, nil
}
