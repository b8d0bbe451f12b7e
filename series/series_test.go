/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package series_test

import (
	"testing"

	"github.com/C0nsultant/openpmd-go/cmn"
	"github.com/C0nsultant/openpmd-go/core"
	"github.com/C0nsultant/openpmd-go/dummy"
	"github.com/C0nsultant/openpmd-go/series"
)

func TestCreateFileBasedWithoutPlaceholderFails(t *testing.T) {
	_, err := series.Create(t.TempDir(), "sim.h5", series.FileBased, core.FormatDummy)
	if !cmn.Is(err, cmn.ErrBadConfig) {
		t.Fatalf("expected bad-config, got %v", err)
	}
}

func TestCreateAndFlushGroupBased(t *testing.T) {
	dir := t.TempDir()
	s, err := series.Create(dir, "sim", series.GroupBased, core.FormatDummy)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.Iterations().GetOrCreate("100")

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	it, ok := s.Iterations().Get("100")
	if !ok {
		t.Fatalf("iteration 100 missing after flush")
	}
	if !it.Written() || it.Dirty() {
		t.Fatalf("iteration 100: written=%v dirty=%v, want written=true dirty=false", it.Written(), it.Dirty())
	}
	if !s.Written() || s.Dirty() {
		t.Fatalf("series: written=%v dirty=%v, want written=true dirty=false", s.Written(), s.Dirty())
	}
}

func TestSetBasePathRejected(t *testing.T) {
	s, err := series.Create(t.TempDir(), "sim", series.GroupBased, core.FormatDummy)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	before, _ := s.BasePath()
	if err := s.SetBasePath("/x/"); !cmn.Is(err, cmn.ErrBadConfig) {
		t.Fatalf("expected bad-config from SetBasePath, got %v", err)
	}
	after, _ := s.BasePath()
	if before != after {
		t.Fatalf("basePath changed despite rejected SetBasePath: %q -> %q", before, after)
	}
}

func TestSetIterationEncodingImmutableAfterWrite(t *testing.T) {
	s, err := series.Create(t.TempDir(), "sim", series.GroupBased, core.FormatDummy)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.Iterations().GetOrCreate("0")
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := s.SetIterationEncoding(series.FileBased); !cmn.Is(err, cmn.ErrImmutableAfterWrite) {
		t.Fatalf("expected immutable-after-write, got %v", err)
	}
}

func TestFileBasedFlushReplicatesAttributesPerIteration(t *testing.T) {
	dir := t.TempDir()
	s, err := series.Create(dir, "sim_%T", series.FileBased, core.FormatDummy)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.Iterations().GetOrCreate("0")
	s.Iterations().GetOrCreate("10")

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if s.Dirty() {
		t.Fatalf("series should end flush with dirty=false")
	}

	candidates, err := dummy.ListFileCandidates(dir)
	if err != nil {
		t.Fatalf("ListFileCandidates: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 backend files (one per iteration), got %d: %v", len(candidates), candidates)
	}
}

func TestRoundTripGroupBasedReadOnly(t *testing.T) {
	dir := t.TempDir()
	created, err := series.Create(dir, "sim", series.GroupBased, core.FormatDummy)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	created.Iterations().GetOrCreate("5")
	if err := created.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reopened, err := series.Open(dir, "sim", core.AccessReadOnly, core.FormatDummy)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	version, err := reopened.OpenPMD()
	if err != nil {
		t.Fatalf("OpenPMD: %v", err)
	}
	if version == "" {
		t.Fatalf("expected a non-empty openPMD version on reopen")
	}
	keys := reopened.Iterations().Keys()
	if len(keys) != 1 || keys[0] != "5" {
		t.Fatalf("Iterations().Keys() = %v, want [5]", keys)
	}
}

func TestEraseFromReadOnlySeries(t *testing.T) {
	dir := t.TempDir()
	created, err := series.Create(dir, "sim", series.GroupBased, core.FormatDummy)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	created.Iterations().GetOrCreate("0")
	if err := created.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reopened, err := series.Open(dir, "sim", core.AccessReadOnly, core.FormatDummy)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := reopened.Iterations().Erase("0"); !cmn.Is(err, cmn.ErrReadOnlyViolation) {
		t.Fatalf("expected read-only-violation erasing from a read-only series, got %v", err)
	}
}
