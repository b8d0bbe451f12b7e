/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package cmn

import "testing"

func TestAttributeRoundTrip(t *testing.T) {
	attr, err := NewAttribute([]float64{1.0, 2.0})
	if err != nil {
		t.Fatalf("NewAttribute: %v", err)
	}
	if attr.Dtype() != VEC_DOUBLE {
		t.Fatalf("Dtype() = %s, want VEC_DOUBLE", attr.Dtype())
	}
	got, err := Get[[]float64](attr)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 2 || got[0] != 1.0 || got[1] != 2.0 {
		t.Fatalf("Get() = %v, want [1 2]", got)
	}
}

func TestAttributeTypeMismatch(t *testing.T) {
	attr := MustAttribute("hello")
	if _, err := Get[int64](attr); !Is(err, ErrTypeMismatch) {
		t.Fatalf("expected type-mismatch, got %v", err)
	}
}

func TestAttributeResourceDecodeRoundTrip(t *testing.T) {
	attr := MustAttribute(uint32(7))
	res, err := attr.Resource()
	if err != nil {
		t.Fatalf("Resource: %v", err)
	}
	decoded, err := Decode(attr.Dtype(), res)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := Get[uint32](decoded)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestNewAttributeUnsupportedType(t *testing.T) {
	type unsupported struct{ X int }
	if _, err := NewAttribute(unsupported{X: 1}); !Is(err, ErrBadMetadata) {
		t.Fatalf("expected bad-metadata, got %v", err)
	}
}
