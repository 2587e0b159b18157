package parquetrecord

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVariantRoundTrip_Scalar(t *testing.T) {
	for _, v := range []interface{}{"hello", true, int64(42), nil} {
		_, b, err := encodeVariant(v)
		require.NoError(t, err)
		got, derr := decodeVariant(b)
		require.Nil(t, derr)
		require.Equal(t, v, got)
	}
}

func TestVariantRoundTrip_Object(t *testing.T) {
	in := map[string]interface{}{
		"a": int64(1),
		"b": []interface{}{int64(1), int64(2)},
		"c": map[string]interface{}{"d": "e"},
	}
	_, b, err := encodeVariant(in)
	require.NoError(t, err)

	got, derr := decodeVariant(b)
	require.Nil(t, derr)
	require.Equal(t, in, got)
}

func TestDecodeVariant_InvalidJSON(t *testing.T) {
	_, err := decodeVariant([]byte("{not json"))
	require.NotNil(t, err)
	require.Equal(t, TypeMismatch, err.Kind)
}
