/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package core

import "testing"

func TestFreshChildStartsUnwrittenAndDirty(t *testing.T) {
	h := &fakeHandler{}
	c := newContainer(h)
	child := c.GetOrCreate("a")

	if child.Written() {
		t.Fatalf("I3 violated: fresh child should not be written")
	}
	if !child.Dirty() {
		t.Fatalf("I3 violated: fresh child should be dirty")
	}
}

func TestChildSharesContainerHandler(t *testing.T) {
	h := &fakeHandler{}
	c := newContainer(h)
	child := c.GetOrCreate("a")

	if child.Handler() != c.Handler() {
		t.Fatalf("I2 violated: child handler != container handler")
	}
}

func TestOperationString(t *testing.T) {
	if CreateFile.String() != "CREATE_FILE" {
		t.Fatalf("CreateFile.String() = %q", CreateFile.String())
	}
	if Operation(99).String() != "UNKNOWN_OP" {
		t.Fatalf("unknown op should stringify to UNKNOWN_OP")
	}
}

func TestFormatAndAccessTypeString(t *testing.T) {
	if FormatDummy.String() != "DUMMY" {
		t.Fatalf("FormatDummy.String() = %q", FormatDummy.String())
	}
	if AccessReadOnly.String() != "READ_ONLY" {
		t.Fatalf("AccessReadOnly.String() = %q", AccessReadOnly.String())
	}
}
