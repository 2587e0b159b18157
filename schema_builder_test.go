package parquetrecord

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type withList struct {
	Tags []string
}

func TestBuildSchema_ListLevels(t *testing.T) {
	desc, err := NewRecordDesc(reflect.TypeOf(withList{}), DefaultWriteConfig())
	require.NoError(t, err)

	for _, levels := range []ListLevels{OneLevel, TwoLevel, ThreeLevel} {
		cfg := DefaultWriteConfig()
		cfg.Apply(WithListLevels(levels))

		schema, err := BuildSchema(desc, cfg)
		require.NoError(t, err)
		tags := schema.Children[0]

		switch levels {
		case OneLevel:
			require.True(t, tags.IsLeaf())
			require.Equal(t, Repeated, tags.Repetition)
		case TwoLevel:
			require.False(t, tags.IsLeaf())
			require.True(t, tags.IsListGroup())
			require.Equal(t, TwoLevel, tags.listLevels())
		case ThreeLevel:
			require.False(t, tags.IsLeaf())
			require.True(t, tags.IsListGroup())
			require.Equal(t, ThreeLevel, tags.listLevels())
		}
	}
}

func TestDecimalPhysical_PrecisionCutoffs(t *testing.T) {
	phys, fixedLen := decimalPhysical(5)
	require.Equal(t, PhysicalInt32, phys)
	require.Zero(t, fixedLen)

	phys, fixedLen = decimalPhysical(18)
	require.Equal(t, PhysicalInt64, phys)
	require.Zero(t, fixedLen)

	phys, fixedLen = decimalPhysical(19)
	require.Equal(t, PhysicalByteArray, phys)
	require.Zero(t, fixedLen)

	phys, fixedLen = decimalPhysical(38)
	require.Equal(t, PhysicalByteArray, phys)
	require.Zero(t, fixedLen)
}

type withNestedListOfLists struct {
	Matrix [][]int32
}

func TestBuildSchema_OneLevelRejectsNestedCollection(t *testing.T) {
	desc, err := NewRecordDesc(reflect.TypeOf(withNestedListOfLists{}), DefaultWriteConfig())
	require.NoError(t, err)

	cfg := DefaultWriteConfig()
	cfg.Apply(WithListLevels(OneLevel))

	_, serr := BuildSchema(desc, cfg)
	require.Error(t, serr)

	var schemaErr *SchemaError
	require.ErrorAs(t, serr, &schemaErr)
	require.Equal(t, UnsupportedKind, schemaErr.Kind)
}

type withVariantField struct {
	Name    string
	Payload interface{} `parquet:",variant"`
}

func TestBuildSchema_VariantIsTwoColumnGroup(t *testing.T) {
	desc, err := NewRecordDesc(reflect.TypeOf(withVariantField{}), DefaultWriteConfig())
	require.NoError(t, err)

	schema, serr := BuildSchema(desc, DefaultWriteConfig())
	require.NoError(t, serr)

	variant := schema.Children[1]
	require.False(t, variant.IsLeaf())
	require.NotNil(t, variant.Logical)
	require.Equal(t, LogicalVariant, variant.Logical.Tag)
	require.Len(t, variant.Children, 2)
	require.Equal(t, "metadata", variant.Children[0].Name)
	require.Equal(t, PhysicalByteArray, variant.Children[0].Physical)
	require.Equal(t, "value", variant.Children[1].Name)
	require.Equal(t, PhysicalByteArray, variant.Children[1].Physical)
}

type withNullableMapValue struct {
	Scores map[string]int32
}

func TestBuildSchema_MapValueIsOptional(t *testing.T) {
	desc, err := NewRecordDesc(reflect.TypeOf(withNullableMapValue{}), DefaultWriteConfig())
	require.NoError(t, err)

	schema, serr := BuildSchema(desc, DefaultWriteConfig())
	require.NoError(t, serr)

	keyValue := schema.Children[0].Children[0]
	value, ok := keyValue.ChildByName("value")
	require.True(t, ok)
	require.Equal(t, Optional, value.Repetition)
}
