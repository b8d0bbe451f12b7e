package cmn

import "github.com/C0nsultant/openpmd-go/cmn/nlog"

// WidenFloat accepts an Attribute stored as any of the three floating
// point widths (FLOAT/DOUBLE/LONG_DOUBLE) and converts it to the
// requested width, warning once when the requested width differs from
// the stored one (the spec's "one-line diagnostic").
func WidenFloat(a Attribute, want Datatype) (float64, error) {
	if !a.dtype.IsFloatingPoint() || a.dtype.isVector() {
		return 0, NewTypeMismatch("attribute %s is not a scalar floating point value", a.dtype)
	}
	if a.dtype != want {
		nlog.Warningf("attribute stored as %s, requested as %s: widening with possible loss of precision", a.dtype, want)
	}
	var f float64
	switch v := a.value.(type) {
	case float32:
		f = float64(v)
	case float64:
		f = v
	default:
		return 0, NewTypeMismatch("attribute %s has unexpected Go value type %T", a.dtype, a.value)
	}
	if want == FLOAT {
		f = float64(float32(f))
	}
	return f, nil
}

// WidenVectorFloat is the vector analogue of WidenFloat.
func WidenVectorFloat(a Attribute, want Datatype) ([]float64, error) {
	if !a.dtype.IsFloatingPoint() || !a.dtype.isVector() {
		return nil, NewTypeMismatch("attribute %s is not a vector floating point value", a.dtype)
	}
	if a.dtype != want {
		nlog.Warningf("attribute stored as %s, requested as %s: widening with possible loss of precision", a.dtype, want)
	}
	switch v := a.value.(type) {
	case []float32:
		out := make([]float64, len(v))
		for i, f := range v {
			out[i] = float64(f)
		}
		return out, nil
	case []float64:
		if want == VEC_FLOAT {
			out := make([]float64, len(v))
			for i, f := range v {
				out[i] = float64(float32(f))
			}
			return out, nil
		}
		return v, nil
	default:
		return nil, NewTypeMismatch("attribute %s has unexpected Go value type %T", a.dtype, a.value)
	}
}
