package parquetrecord

import (
	"math/big"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaterializePrimitive_DictionaryIndexed(t *testing.T) {
	dict := [][]byte{[]byte("red"), []byte("green"), []byte("blue")}
	events := []recordEvent{
		{kind: evDictionary, dict: dict},
		{kind: evBinaryIndexed, dictIndex: 2},
	}

	type withColor struct{ Color string }
	var dst withColor
	fv := reflect.ValueOf(&dst).Elem().FieldByName("Color")

	cursor := 0
	cp := ColumnProjection{Kind: KindString}

	err := materializePrimitive(&cursor, events, fv, EntityType{Kind: KindString}, cp, nil)
	require.Nil(t, err)
	require.Equal(t, "blue", dst.Color)
	require.Equal(t, 2, cursor)
}

func TestDictionaryCache_DecodesOnce(t *testing.T) {
	cache := newDictionaryCache(KindString, [][]byte{[]byte("a"), []byte("b")})

	v1, err := cache.get(1)
	require.Nil(t, err)
	require.Equal(t, "b", v1)

	v2, err := cache.get(1)
	require.Nil(t, err)
	require.Equal(t, "b", v2)
}

func TestDictionaryCache_OutOfRange(t *testing.T) {
	cache := newDictionaryCache(KindString, [][]byte{[]byte("a")})
	_, err := cache.get(5)
	require.NotNil(t, err)
	require.Equal(t, TypeMismatch, err.Kind)
}

func TestBigIntFixedBytesRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 123456789, -123456789} {
		b := bigIntToFixedBytes(big.NewInt(n), 13)
		got := fixedBytesToBigInt(b)
		require.Equal(t, n, got.Int64())
	}
}
