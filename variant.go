package parquetrecord

import "encoding/json"

// variantMetadataHeader is the constant minimal metadata this package
// writes for every VARIANT column: version 1, no dictionary entries. A
// reader that only ever consumes "value" (as decodeVariant below does)
// never needs to interpret it, but the column still carries it since
// spec.md §4.4 shapes VARIANT as a two-column GROUP(metadata, value).
var variantMetadataHeader = []byte{0x01}

// encodeVariant renders a dynamically-typed Go value (the payload of a
// `variant`-tagged interface{} field) to the (metadata, value) byte pair
// VARIANT's GROUP shape carries.
//
// The pack carries no Parquet VARIANT binary-encoding library (that shipped
// encoding is itself out of scope per spec.md §1, which excludes the
// low-level page encoder); "value" is rendered as JSON instead, which
// decodeVariant below can reconstruct losslessly for the value categories
// spec.md §4.2 defines for VARIANT (bool, number, string, []any,
// map[string]any, nil). The GROUP shape itself — the part spec.md's
// mapping table actually specifies — is real.
func encodeVariant(v interface{}) (metadata, value []byte, err error) {
	value, err = json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return variantMetadataHeader, value, nil
}

// decodeVariant is encodeVariant's inverse, used when materializing a
// VARIANT column back into a Go interface{}, whether the target is a
// `variant`-tagged field or an entry of a DynamicMap.
func decodeVariant(b []byte) (interface{}, *SchemaError) {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, errorf(TypeMismatch, nil, "invalid variant encoding: %v", err)
	}
	return normalizeVariantNumbers(v), nil
}

// normalizeVariantNumbers walks a decoded variant value, converting
// encoding/json's default float64 numbers to int64 when they carry no
// fractional part, so a round-tripped integer reads back as an integer
// rather than silently becoming a float.
func normalizeVariantNumbers(v interface{}) interface{} {
	switch x := v.(type) {
	case float64:
		if i := int64(x); float64(i) == x {
			return i
		}
		return x
	case []interface{}:
		for i, e := range x {
			x[i] = normalizeVariantNumbers(e)
		}
		return x
	case map[string]interface{}:
		for k, e := range x {
			x[k] = normalizeVariantNumbers(e)
		}
		return x
	default:
		return v
	}
}
