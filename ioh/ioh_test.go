/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package ioh_test

import (
	"testing"

	"github.com/C0nsultant/openpmd-go/cmn"
	"github.com/C0nsultant/openpmd-go/core"
	"github.com/C0nsultant/openpmd-go/ioh"
)

func TestCreateDummy(t *testing.T) {
	h, err := ioh.Create(t.TempDir(), core.AccessCreate, core.FormatDummy)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if h.AccessType() != core.AccessCreate {
		t.Fatalf("AccessType() = %v, want AccessCreate", h.AccessType())
	}
}

func TestCreateUnimplementedFormat(t *testing.T) {
	_, err := ioh.Create(t.TempDir(), core.AccessCreate, core.FormatHDF5)
	if !cmn.Is(err, cmn.ErrNotImplemented) {
		t.Fatalf("expected not-implemented, got %v", err)
	}
}

func TestCreateUnknownFormat(t *testing.T) {
	_, err := ioh.Create(t.TempDir(), core.AccessCreate, core.Format(99))
	if !cmn.Is(err, cmn.ErrBadConfig) {
		t.Fatalf("expected bad-config, got %v", err)
	}
}
