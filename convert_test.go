package parquetrecord_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	parquetrecord "github.com/kestrel-data/parquet-record"
)

// fileSchemaOf derives the Schema a file containing values of fileType would
// carry, standing in for "the schema an external reader read out of the
// file's footer" without needing a real file.
func fileSchemaOf(t *testing.T, fileType interface{}) *parquetrecord.Schema {
	t.Helper()
	desc, err := parquetrecord.NewRecordDesc(reflect.TypeOf(fileType), parquetrecord.DefaultWriteConfig())
	require.NoError(t, err)
	schema, err := parquetrecord.BuildSchema(desc, parquetrecord.DefaultWriteConfig())
	require.NoError(t, err)
	return schema
}

type fileNarrowColumn struct {
	Count int32
}

type readerWideField struct {
	Count int64
}

func TestProjectRecord_WideningRead(t *testing.T) {
	file := fileSchemaOf(t, fileNarrowColumn{})
	desc, err := parquetrecord.NewRecordDesc(reflect.TypeOf(readerWideField{}), parquetrecord.DefaultWriteConfig())
	require.NoError(t, err)

	proj, perr := parquetrecord.ProjectRecord(file, desc, parquetrecord.DefaultReaderConfig())
	require.NoError(t, perr)
	require.False(t, proj.Fields[0].Narrowed)
}

type fileWideColumn struct {
	Count int64
}

type readerNarrowField struct {
	Count int32
}

func TestProjectRecord_NarrowingRead_RejectedWhenConfigured(t *testing.T) {
	file := fileSchemaOf(t, fileWideColumn{})
	desc, err := parquetrecord.NewRecordDesc(reflect.TypeOf(readerNarrowField{}), parquetrecord.DefaultWriteConfig())
	require.NoError(t, err)

	cfg := parquetrecord.DefaultReaderConfig()
	cfg.Apply(parquetrecord.FailNarrowingPrimitiveConversion(true))

	_, perr := parquetrecord.ProjectRecord(file, desc, cfg)
	require.Error(t, perr)
}

func TestProjectRecord_NarrowingRead_AllowedWhenNotFailed(t *testing.T) {
	file := fileSchemaOf(t, fileWideColumn{})
	desc, err := parquetrecord.NewRecordDesc(reflect.TypeOf(readerNarrowField{}), parquetrecord.DefaultWriteConfig())
	require.NoError(t, err)

	proj, perr := parquetrecord.ProjectRecord(file, desc, parquetrecord.DefaultReaderConfig())
	require.NoError(t, perr)
	require.True(t, proj.Fields[0].Narrowed)
}

type fileSnakeCase struct {
	UserID string `parquet:"user_id"`
}

type readerCamel struct {
	UserID string
}

func TestProjectRecord_FieldNameSnakeCaseMatch(t *testing.T) {
	file := fileSchemaOf(t, fileSnakeCase{})
	desc, err := parquetrecord.NewRecordDesc(reflect.TypeOf(readerCamel{}), parquetrecord.DefaultWriteConfig())
	require.NoError(t, err)

	cfg := parquetrecord.DefaultReaderConfig()
	cfg.Apply(parquetrecord.WithFieldMatchStrategy(parquetrecord.FieldNameSnakeCase))

	proj, perr := parquetrecord.ProjectRecord(file, desc, cfg)
	require.NoError(t, perr)
	require.NotNil(t, proj.Fields[0].Column)
}

func TestProjectRecord_FieldNameSnakeCaseMatch_RejectedUnderFieldNameOnly(t *testing.T) {
	file := fileSchemaOf(t, fileSnakeCase{})
	desc, err := parquetrecord.NewRecordDesc(reflect.TypeOf(readerCamel{}), parquetrecord.DefaultWriteConfig())
	require.NoError(t, err)

	proj, perr := parquetrecord.ProjectRecord(file, desc, parquetrecord.DefaultReaderConfig())
	require.NoError(t, perr)
	require.Nil(t, proj.Fields[0].Column)
}

type fileMissingSome struct {
	Name string
}

type readerWantsTwo struct {
	Name string
	Age  int32
}

func TestProjectRecord_MissingColumn_FailsWhenConfigured(t *testing.T) {
	file := fileSchemaOf(t, fileMissingSome{})
	desc, err := parquetrecord.NewRecordDesc(reflect.TypeOf(readerWantsTwo{}), parquetrecord.DefaultWriteConfig())
	require.NoError(t, err)

	cfg := parquetrecord.DefaultReaderConfig()
	cfg.Apply(parquetrecord.FailOnMissingColumn(true))

	_, perr := parquetrecord.ProjectRecord(file, desc, cfg)
	require.Error(t, perr)
}

func TestProjectRecord_MissingColumn_LeftAtZeroValueByDefault(t *testing.T) {
	file := fileSchemaOf(t, fileMissingSome{})
	desc, err := parquetrecord.NewRecordDesc(reflect.TypeOf(readerWantsTwo{}), parquetrecord.DefaultWriteConfig())
	require.NoError(t, err)

	proj, perr := parquetrecord.ProjectRecord(file, desc, parquetrecord.DefaultReaderConfig())
	require.NoError(t, perr)
	require.Nil(t, proj.Fields[1].Column)
}

type fileWithEnumColumn struct {
	Status string `parquet:",enum(ACTIVE|INACTIVE)"`
}

type readerWantsString struct {
	Status string
}

func TestProjectRecord_EnumToStringConvertible(t *testing.T) {
	file := fileSchemaOf(t, fileWithEnumColumn{})
	desc, err := parquetrecord.NewRecordDesc(reflect.TypeOf(readerWantsString{}), parquetrecord.DefaultWriteConfig())
	require.NoError(t, err)

	_, perr := parquetrecord.ProjectRecord(file, desc, parquetrecord.DefaultReaderConfig())
	require.NoError(t, perr)
}

func TestSchemaPrint(t *testing.T) {
	file := fileSchemaOf(t, fileSnakeCase{})
	out := parquetrecord.Print(file)
	require.Contains(t, out, "message root")
	require.Contains(t, out, "user_id")
	require.Contains(t, out, "STRING")
}
