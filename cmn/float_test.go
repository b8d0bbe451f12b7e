/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package cmn

import "testing"

func TestWidenFloatSameWidth(t *testing.T) {
	attr := MustAttribute(float64(3.5))
	got, err := WidenFloat(attr, DOUBLE)
	if err != nil {
		t.Fatalf("WidenFloat: %v", err)
	}
	if got != 3.5 {
		t.Fatalf("got %v, want 3.5", got)
	}
}

func TestWidenFloatNarrowToWide(t *testing.T) {
	attr := MustAttribute(float32(1.5))
	got, err := WidenFloat(attr, DOUBLE)
	if err != nil {
		t.Fatalf("WidenFloat: %v", err)
	}
	if got != 1.5 {
		t.Fatalf("got %v, want 1.5", got)
	}
}

func TestWidenFloatRejectsNonFloat(t *testing.T) {
	attr := MustAttribute(int64(1))
	if _, err := WidenFloat(attr, DOUBLE); !Is(err, ErrTypeMismatch) {
		t.Fatalf("expected type-mismatch, got %v", err)
	}
}

func TestWidenVectorFloat(t *testing.T) {
	attr := MustAttribute([]float32{1, 2, 3})
	got, err := WidenVectorFloat(attr, VEC_DOUBLE)
	if err != nil {
		t.Fatalf("WidenVectorFloat: %v", err)
	}
	want := []float64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
