package cmn

import (
	"fmt"

	"github.com/OneOfOne/xxhash"
	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Attribute is a type-erased value paired with a Datatype discriminator.
// It is constructible from any supported scalar/vector/array and read
// back only through Get, which fails with a type-mismatch error when the
// requested type does not match the stored discriminator.
type Attribute struct {
	dtype Datatype
	value any
}

// Resource is the opaque handle backends use to read an Attribute's raw
// bytes, paired with an xxhash fingerprint so a backend can tell whether
// a WRITE_ATT would actually change anything on disk (xxhash is this
// module's system-default checksum, mirroring the teacher's cos.Cksum
// convention).
type Resource struct {
	Bytes       []byte
	Fingerprint uint64
}

// NewAttribute captures v and infers its Datatype discriminator. An
// unsupported Go type yields a bad-metadata error (the value could never
// have come from a standard-conforming backend read).
func NewAttribute(v any) (Attribute, error) {
	dt, err := inferDatatype(v)
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{dtype: dt, value: v}, nil
}

// MustAttribute is NewAttribute for call sites (standard-attribute
// seeding) that only ever pass supported Go types.
func MustAttribute(v any) Attribute {
	a, err := NewAttribute(v)
	if err != nil {
		panic(err)
	}
	return a
}

// NewTypedAttribute wraps v under an explicit discriminator, used by
// readAttributes when reconstructing a value from a backend-reported
// Datatype rather than inferring it from a Go value.
func NewTypedAttribute(dt Datatype, v any) Attribute {
	return Attribute{dtype: dt, value: v}
}

func (a Attribute) Dtype() Datatype { return a.dtype }

// Get returns the stored value when T matches the discriminator,
// otherwise a type-mismatch error. Get is a package-level generic
// function (Go methods cannot carry their own type parameters).
func Get[T any](a Attribute) (T, error) {
	v, ok := a.value.(T)
	if !ok {
		var zero T
		return zero, NewTypeMismatch("attribute stored as %s, requested as %T", a.dtype, zero)
	}
	return v, nil
}

// Resource encodes the attribute's value (JSON, via json-iterator so the
// encoding matches the rest of the module's wire format) and fingerprints
// it with xxhash for cheap no-op-write detection by backends.
func (a Attribute) Resource() (Resource, error) {
	b, err := jsonAPI.Marshal(a.value)
	if err != nil {
		return Resource{}, NewBadMetadata("encoding attribute resource: %v", err)
	}
	return Resource{Bytes: b, Fingerprint: xxhash.Checksum64(b)}, nil
}

// Decode reconstructs the Go value described by dt out of a Resource's
// bytes, the inverse of Resource(), used by backends on READ_ATT. DATATYPE
// and UNDEFINED values are not decoded: they fail with bad-metadata.
func Decode(dt Datatype, r Resource) (Attribute, error) {
	target := zeroValueFor(dt)
	if target == nil {
		return Attribute{}, NewBadMetadata("cannot decode attribute datatype %s", dt)
	}
	if err := jsonAPI.Unmarshal(r.Bytes, target); err != nil {
		return Attribute{}, NewBadMetadata("decoding attribute resource as %s: %v", dt, err)
	}
	return Attribute{dtype: dt, value: derefTo(dt, target)}, nil
}

func inferDatatype(v any) (Datatype, error) {
	switch v.(type) {
	case int8:
		return CHAR, nil
	case uint8:
		return UCHAR, nil
	case int16:
		return INT16, nil
	case int32:
		return INT32, nil
	case int64, int:
		return INT64, nil
	case uint16:
		return UINT16, nil
	case uint32:
		return UINT32, nil
	case uint64, uint:
		return UINT64, nil
	case float32:
		return FLOAT, nil
	case float64:
		return DOUBLE, nil
	case bool:
		return BOOL, nil
	case string:
		return STRING, nil
	case [7]float64:
		return ARR_DBL_7, nil
	case []int8:
		return VEC_CHAR, nil
	case []uint8:
		return VEC_UCHAR, nil
	case []int16:
		return VEC_INT16, nil
	case []int32:
		return VEC_INT32, nil
	case []int64:
		return VEC_INT64, nil
	case []uint16:
		return VEC_UINT16, nil
	case []uint32:
		return VEC_UINT32, nil
	case []uint64:
		return VEC_UINT64, nil
	case []float32:
		return VEC_FLOAT, nil
	case []float64:
		return VEC_DOUBLE, nil
	case []string:
		return VEC_STRING, nil
	case Datatype:
		return DATATYPE, nil
	default:
		return UNDEFINED, NewBadMetadata("unsupported attribute value type %T", v)
	}
}

func zeroValueFor(dt Datatype) any {
	switch dt {
	case CHAR:
		return new(int8)
	case UCHAR:
		return new(uint8)
	case INT16:
		return new(int16)
	case INT32:
		return new(int32)
	case INT64:
		return new(int64)
	case UINT16:
		return new(uint16)
	case UINT32:
		return new(uint32)
	case UINT64:
		return new(uint64)
	case FLOAT:
		return new(float32)
	case DOUBLE:
		return new(float64)
	case LONG_DOUBLE:
		return new(float64)
	case BOOL:
		return new(bool)
	case STRING:
		return new(string)
	case ARR_DBL_7:
		return new([7]float64)
	case VEC_CHAR:
		return new([]int8)
	case VEC_UCHAR:
		return new([]uint8)
	case VEC_INT16:
		return new([]int16)
	case VEC_INT32:
		return new([]int32)
	case VEC_INT64:
		return new([]int64)
	case VEC_UINT16:
		return new([]uint16)
	case VEC_UINT32:
		return new([]uint32)
	case VEC_UINT64:
		return new([]uint64)
	case VEC_FLOAT:
		return new([]float32)
	case VEC_DOUBLE:
		return new([]float64)
	case VEC_LONG_DOUBLE:
		return new([]float64)
	case VEC_STRING:
		return new([]string)
	default:
		return nil
	}
}

func derefTo(dt Datatype, target any) any {
	switch dt {
	case CHAR:
		return *target.(*int8)
	case UCHAR:
		return *target.(*uint8)
	case INT16:
		return *target.(*int16)
	case INT32:
		return *target.(*int32)
	case INT64:
		return *target.(*int64)
	case UINT16:
		return *target.(*uint16)
	case UINT32:
		return *target.(*uint32)
	case UINT64:
		return *target.(*uint64)
	case FLOAT:
		return *target.(*float32)
	case DOUBLE, LONG_DOUBLE:
		return *target.(*float64)
	case BOOL:
		return *target.(*bool)
	case STRING:
		return *target.(*string)
	case ARR_DBL_7:
		return *target.(*[7]float64)
	case VEC_CHAR:
		return *target.(*[]int8)
	case VEC_UCHAR:
		return *target.(*[]uint8)
	case VEC_INT16:
		return *target.(*[]int16)
	case VEC_INT32:
		return *target.(*[]int32)
	case VEC_INT64:
		return *target.(*[]int64)
	case VEC_UINT16:
		return *target.(*[]uint16)
	case VEC_UINT32:
		return *target.(*[]uint32)
	case VEC_UINT64:
		return *target.(*[]uint64)
	case VEC_FLOAT:
		return *target.(*[]float32)
	case VEC_DOUBLE, VEC_LONG_DOUBLE:
		return *target.(*[]float64)
	case VEC_STRING:
		return *target.(*[]string)
	default:
		return nil
	}
}

func (a Attribute) String() string {
	return fmt.Sprintf("%s(%v)", a.dtype, a.value)
}
