/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package cmn

import "testing"

func TestDatatypeString(t *testing.T) {
	cases := map[Datatype]string{
		CHAR:       "CHAR",
		VEC_DOUBLE: "VEC_DOUBLE",
		ARR_DBL_7:  "ARR_DBL_7",
		Datatype(999): "UNDEFINED",
	}
	for dt, want := range cases {
		if got := dt.String(); got != want {
			t.Errorf("Datatype(%d).String() = %q, want %q", dt, got, want)
		}
	}
}

func TestIsFloatingPoint(t *testing.T) {
	for _, dt := range []Datatype{FLOAT, DOUBLE, LONG_DOUBLE, VEC_FLOAT, VEC_DOUBLE, VEC_LONG_DOUBLE} {
		if !dt.IsFloatingPoint() {
			t.Errorf("%s.IsFloatingPoint() = false, want true", dt)
		}
	}
	if INT32.IsFloatingPoint() {
		t.Errorf("INT32.IsFloatingPoint() = true, want false")
	}
}
