/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package dummy_test

import (
	"testing"

	"github.com/C0nsultant/openpmd-go/cmn"
	"github.com/C0nsultant/openpmd-go/core"
	"github.com/C0nsultant/openpmd-go/dummy"
)

type rootNode struct {
	core.Attributable
}

func bound(h core.IOHandler) *rootNode {
	n := &rootNode{}
	n.SetHandler(h)
	core.BindSelf(n)
	return n
}

type childNode struct {
	core.Attributable
}

func TestCreateFileThenWriteAndReadAttribute(t *testing.T) {
	dir := t.TempDir()
	h := dummy.New(dir, core.AccessCreate)
	root := bound(h)

	createParam := &core.Parameter{FileName: "sim"}
	h.Enqueue(core.NewIOTask(core.CreateFile, core.Node(root), createParam))
	if err := h.Flush(); err != nil {
		t.Fatalf("CREATE_FILE flush: %v", err)
	}
	if root.Position() != "/" {
		t.Fatalf("root position = %q, want /", root.Position())
	}

	attr := cmn.MustAttribute("1.0.1")
	res, err := attr.Resource()
	if err != nil {
		t.Fatalf("Resource: %v", err)
	}
	writeParam := &core.Parameter{AttName: "openPMD", AttResource: res, AttDtype: attr.Dtype()}
	h.Enqueue(core.NewIOTask(core.WriteAtt, core.Node(root), writeParam))
	if err := h.Flush(); err != nil {
		t.Fatalf("WRITE_ATT flush: %v", err)
	}

	readParam := &core.Parameter{AttName: "openPMD"}
	h.Enqueue(core.NewIOTask(core.ReadAtt, core.Node(root), readParam))
	if err := h.Flush(); err != nil {
		t.Fatalf("READ_ATT flush: %v", err)
	}
	decoded, err := cmn.Decode(readParam.OutDtype, readParam.OutResource)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := cmn.Get[string](decoded)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "1.0.1" {
		t.Fatalf("got %q, want %q", got, "1.0.1")
	}
}

func TestCreatePathThenListPaths(t *testing.T) {
	dir := t.TempDir()
	h := dummy.New(dir, core.AccessCreate)
	root := bound(h)

	h.Enqueue(core.NewIOTask(core.CreateFile, core.Node(root), &core.Parameter{FileName: "sim"}))
	if err := h.Flush(); err != nil {
		t.Fatalf("CREATE_FILE: %v", err)
	}

	data := &childNode{}
	data.SetHandler(h)
	data.SetParent(core.Node(root))
	core.BindSelf(data)

	createParam := &core.Parameter{Path: "data"}
	h.Enqueue(core.NewIOTask(core.CreatePath, core.Node(data), createParam))
	if err := h.Flush(); err != nil {
		t.Fatalf("CREATE_PATH: %v", err)
	}
	if data.Position() != "/data/" {
		t.Fatalf("data position = %q, want /data/", data.Position())
	}

	iter := &childNode{}
	iter.SetHandler(h)
	iter.SetParent(core.Node(data))
	core.BindSelf(iter)
	iterParam := &core.Parameter{Path: "100"}
	h.Enqueue(core.NewIOTask(core.CreatePath, core.Node(iter), iterParam))
	if err := h.Flush(); err != nil {
		t.Fatalf("CREATE_PATH iteration: %v", err)
	}

	listParam := &core.Parameter{}
	h.Enqueue(core.NewIOTask(core.ListPaths, core.Node(data), listParam))
	if err := h.Flush(); err != nil {
		t.Fatalf("LIST_PATHS: %v", err)
	}
	if len(listParam.OutPaths) != 1 || listParam.OutPaths[0] != "100" {
		t.Fatalf("OutPaths = %v, want [100]", listParam.OutPaths)
	}
}

func TestOpenFileMissingFails(t *testing.T) {
	dir := t.TempDir()
	h := dummy.New(dir, core.AccessReadOnly)
	root := bound(h)

	h.Enqueue(core.NewIOTask(core.OpenFile, core.Node(root), &core.Parameter{FileName: "does-not-exist"}))
	if err := h.Flush(); err == nil {
		t.Fatalf("expected an error opening a nonexistent file")
	}
}
