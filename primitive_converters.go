package parquetrecord

import (
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// PrimitiveConverter is the read-side contract a leaf column drives as an
// external Parquet reader decodes its pages, per spec.md §7. Dictionary
// encoded columns call Dictionary once per page before any AddBinaryIndexed
// call that references an entry by position.
type PrimitiveConverter interface {
	Dictionary(values [][]byte)

	AddBool(v bool)
	AddInt32(v int32)
	AddInt64(v int64)
	AddFloat32(v float32)
	AddFloat64(v float64)
	AddBinary(v []byte)
	AddBinaryIndexed(dictionaryIndex int)
	AddNull()
}

// dictionaryCache holds the page dictionary for a BYTE_ARRAY column,
// decoding each entry into its Go representation at most once (spec.md §7:
// "reconstructing structs from a column-event stream with dictionary
// decoding"), rather than re-running the enum/UUID/string decode for every
// repeated index.
type dictionaryCache struct {
	raw     [][]byte
	decoded []interface{}
	kind    EntityKind
}

func newDictionaryCache(kind EntityKind, raw [][]byte) *dictionaryCache {
	return &dictionaryCache{raw: raw, decoded: make([]interface{}, len(raw)), kind: kind}
}

func (d *dictionaryCache) get(index int) (interface{}, *SchemaError) {
	if index < 0 || index >= len(d.raw) {
		return nil, errorf(TypeMismatch, nil, "dictionary index %d out of range (size %d)", index, len(d.raw))
	}
	if d.decoded[index] == nil {
		v, err := decodeBinaryLike(d.kind, d.raw[index])
		if err != nil {
			return nil, err
		}
		d.decoded[index] = v
	}
	return d.decoded[index], nil
}

// decodeBinaryLike decodes a raw BYTE_ARRAY/FIXED_LEN_BYTE_ARRAY value into
// the Go representation its EntityKind calls for: string for
// String/Enum/JSON, []byte for Binary/BSON/Geometry/Geography, uuid.UUID for
// UUID, and the unscaled *big.Int for a binary-encoded Decimal. VARIANT is
// not handled here: its two-column GROUP shape is decoded by
// materializeVariant/decodeDynamicVariant instead, never as a single leaf.
func decodeBinaryLike(kind EntityKind, raw []byte) (interface{}, *SchemaError) {
	switch kind {
	case KindString, KindEnum, KindJSON:
		return string(raw), nil
	case KindUUID:
		return uuidFromBytes(raw)
	case KindBinary, KindBSON, KindGeometry, KindGeography:
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return cp, nil
	case KindDecimal:
		return fixedBytesToBigInt(raw), nil
	default:
		return nil, errorf(TypeMismatch, nil, "kind %s has no binary-like decoding", kind)
	}
}

// setPrimitive decodes one physical value (exactly one of the typed
// parameters is meaningful, selected by t.Kind) into dst, a settable
// reflect.Value of the struct field's declared (already pointer-dereferenced)
// Go type. scaleDelta/rounding are meaningful only for KindDecimal, per
// spec.md §4.12.
func setPrimitive(dst reflect.Value, t EntityType, b bool, i32 int32, i64 int64, f32 float32, f64 float64, bin []byte, scaleDelta int, rounding RoundingMode) *SchemaError {
	switch t.Kind {
	case KindBool:
		dst.SetBool(b)
	case KindInt8, KindInt16, KindInt32:
		setIntLike(dst, int64(i32))
	case KindInt64:
		setIntLike(dst, i64)
	case KindFloat32:
		dst.SetFloat(float64(f32))
	case KindFloat64:
		dst.SetFloat(f64)
	case KindString, KindJSON:
		dst.SetString(string(bin))
	case KindEnum:
		s := string(bin)
		if !isKnownEnumVariant(t.EnumVariants, s) {
			return errorf(UnknownEnumConstant, nil, "value %q is not a declared enum constant", s)
		}
		dst.SetString(s)
	case KindBinary, KindBSON, KindGeometry, KindGeography:
		cp := make([]byte, len(bin))
		copy(cp, bin)
		dst.SetBytes(cp)
	case KindUUID:
		id, err := uuidFromBytes(bin)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(id))
	case KindDate:
		dst.Set(reflect.ValueOf(dateFromEpochDays(i32)))
	case KindTime:
		v := i64
		if physicalForUnit(t.Unit) == PhysicalInt32 {
			v = int64(i32)
		}
		tv, terr := timeOfDayEpoch(t.Unit, v)
		if terr != nil {
			return terr
		}
		dst.Set(reflect.ValueOf(tv))
	case KindTimestamp:
		dst.Set(reflect.ValueOf(timestampFromValue(i64, t.Unit)))
	case KindDecimal:
		unscaled := decimalUnscaledOf(t, i32, i64, bin)
		if scaleDelta != 0 {
			unscaled = rescaleUnscaledDecimal(unscaled, t.Scale+scaleDelta, t.Scale, rounding)
		}
		setIntLike(dst, unscaled)
	default:
		return errorf(UnsupportedKind, nil, "cannot decode values of kind %s", t.Kind)
	}
	return nil
}

// isKnownEnumVariant reports whether v matches one of the declared enum
// constants. An enum field with no known variant list carried (the struct
// tag declared no constant set) skips validation.
func isKnownEnumVariant(variants []string, v string) bool {
	if len(variants) == 0 {
		return true
	}
	for _, candidate := range variants {
		if candidate == v {
			return true
		}
	}
	return false
}

func setIntLike(dst reflect.Value, v int64) {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst.SetInt(v)
	default:
		dst.SetUint(uint64(v))
	}
}

func decimalUnscaledOf(t EntityType, i32 int32, i64 int64, bin []byte) int64 {
	phys, _ := decimalPhysical(t.Precision)
	switch phys {
	case PhysicalInt32:
		return int64(i32)
	case PhysicalInt64:
		return i64
	default:
		return fixedBytesToBigInt(bin).Int64()
	}
}

func timeOfDayEpoch(unit TimeUnit, v int64) (time.Time, *SchemaError) {
	d, err := timeOfDayFromValue(v, unit)
	if err != nil {
		return time.Time{}, err
	}
	return dateFromEpochDays(0).Add(d), nil
}

func setDictionaryIndexed(dst reflect.Value, t EntityType, v interface{}, scaleDelta int, rounding RoundingMode) *SchemaError {
	switch t.Kind {
	case KindString, KindJSON:
		dst.SetString(v.(string))
	case KindEnum:
		s := v.(string)
		if !isKnownEnumVariant(t.EnumVariants, s) {
			return errorf(UnknownEnumConstant, nil, "value %q is not a declared enum constant", s)
		}
		dst.SetString(s)
	case KindBinary, KindBSON, KindGeometry, KindGeography:
		dst.SetBytes(v.([]byte))
	case KindUUID:
		dst.Set(reflect.ValueOf(v.(uuid.UUID)))
	case KindDecimal:
		unscaled := v.(*big.Int).Int64()
		if scaleDelta != 0 {
			unscaled = rescaleUnscaledDecimal(unscaled, t.Scale+scaleDelta, t.Scale, rounding)
		}
		setIntLike(dst, unscaled)
	default:
		return errorf(TypeMismatch, nil, "kind %s cannot be dictionary-indexed", t.Kind)
	}
	return nil
}
