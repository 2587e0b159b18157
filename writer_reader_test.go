package parquetrecord_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	parquetrecord "github.com/kestrel-data/parquet-record"
)

// roundTrip writes record through a Writer into a fresh MemEngine, reads its
// event log back through a Reader built against the Writer's own schema, and
// returns the materialized value.
func roundTrip[T any](t *testing.T, record T, writeOpts []parquetrecord.WriteOption, readOpts []parquetrecord.ReaderOption) T {
	t.Helper()

	w, err := parquetrecord.NewWriter[T](writeOpts...)
	require.NoError(t, err)

	engine := parquetrecord.NewMemEngine()
	require.NoError(t, w.Write(engine, record))

	r, err := parquetrecord.NewReader[T](w.Schema(), readOpts...)
	require.NoError(t, err)

	out, err := r.Read(engine.Events())
	require.NoError(t, err)
	return out
}

type FlatRecord struct {
	Name   string
	Age    int32
	Score  float64
	Active bool
	Tag    *string
}

func TestFlatPrimitivesRoundTrip(t *testing.T) {
	tag := "vip"
	in := FlatRecord{Name: "ada", Age: 36, Score: 9.5, Active: true, Tag: &tag}

	out := roundTrip(t, in, nil, nil)

	require.Equal(t, in.Name, out.Name)
	require.Equal(t, in.Age, out.Age)
	require.Equal(t, in.Score, out.Score)
	require.Equal(t, in.Active, out.Active)
	require.NotNil(t, out.Tag)
	require.Equal(t, *in.Tag, *out.Tag)
}

func TestFlatPrimitivesRoundTrip_NilOptional(t *testing.T) {
	in := FlatRecord{Name: "grace", Age: 40}
	out := roundTrip(t, in, nil, nil)

	require.Equal(t, in.Name, out.Name)
	require.Nil(t, out.Tag)
}

type Address struct {
	Street string
	City   string
}

type Person struct {
	Name    string
	Address Address
}

func TestNestedRecordRoundTrip(t *testing.T) {
	in := Person{Name: "linus", Address: Address{Street: "1 Kernel Way", City: "Helsinki"}}
	out := roundTrip(t, in, nil, nil)
	require.Equal(t, in, out)
}

type WithTags struct {
	Labels []string
}

func TestListOfPrimitivesRoundTrip(t *testing.T) {
	in := WithTags{Labels: []string{"a", "b", "c"}}
	out := roundTrip(t, in, nil, nil)
	require.Equal(t, in.Labels, out.Labels)
}

func TestListOfPrimitivesRoundTrip_Empty(t *testing.T) {
	in := WithTags{Labels: []string{}}
	out := roundTrip(t, in, nil, nil)
	require.Empty(t, out.Labels)
}

type Item struct {
	SKU   string
	Count int32
}

type Order struct {
	ID    string
	Items []Item
}

func TestListOfRecordsRoundTrip_ThreeLevel(t *testing.T) {
	in := Order{
		ID: "ord-1",
		Items: []Item{
			{SKU: "sku-1", Count: 2},
			{SKU: "sku-2", Count: 5},
		},
	}

	out := roundTrip(t, in, []parquetrecord.WriteOption{parquetrecord.WithListLevels(parquetrecord.ThreeLevel)}, nil)
	require.Equal(t, in, out)
}

func TestListOfRecordsRoundTrip_TwoLevel(t *testing.T) {
	in := Order{
		ID:    "ord-2",
		Items: []Item{{SKU: "sku-3", Count: 1}},
	}

	out := roundTrip(t, in, []parquetrecord.WriteOption{parquetrecord.WithListLevels(parquetrecord.TwoLevel)}, nil)
	require.Equal(t, in, out)
}

type Account struct {
	ID       string
	Balances map[string]int64
}

func TestMapOfPrimitivesRoundTrip(t *testing.T) {
	in := Account{ID: "acc-1", Balances: map[string]int64{"usd": 100, "eur": 50}}
	out := roundTrip(t, in, nil, nil)
	require.Equal(t, in.ID, out.ID)
	require.Equal(t, in.Balances, out.Balances)
}

type Note struct {
	Body string
}

type Notebook struct {
	Notes map[string]Note
}

func TestMapOfRecordsRoundTrip(t *testing.T) {
	in := Notebook{Notes: map[string]Note{
		"first":  {Body: "hello"},
		"second": {Body: "world"},
	}}
	out := roundTrip(t, in, nil, nil)
	require.Equal(t, in, out)
}

type WithDynamic struct {
	ID      string
	Payload map[string]interface{}
}

type DynamicNested struct {
	X int64 `parquet:"x"`
}

type DynamicSource struct {
	Count  int64         `parquet:"count"`
	Ok     bool          `parquet:"ok"`
	Nested DynamicNested `parquet:"nested"`
}

type WithDynamicSource struct {
	ID      string
	Payload DynamicSource
}

// DynamicMap is a read-only target, so the record is written through a
// struct-typed Payload and read back into WithDynamic's map field.
func TestDynamicMapRoundTrip(t *testing.T) {
	in := WithDynamicSource{ID: "evt-1", Payload: DynamicSource{Count: 3, Ok: true, Nested: DynamicNested{X: 1}}}
	want := map[string]interface{}{
		"count":  int64(3),
		"ok":     true,
		"nested": map[string]interface{}{"x": int64(1)},
	}

	w, err := parquetrecord.NewWriter[WithDynamicSource]()
	require.NoError(t, err)

	engine := parquetrecord.NewMemEngine()
	require.NoError(t, w.Write(engine, in))

	r, err := parquetrecord.NewReader[WithDynamic](w.Schema())
	require.NoError(t, err)

	out, err := r.Read(engine.Events())
	require.NoError(t, err)
	require.Equal(t, in.ID, out.ID)
	require.Equal(t, want, out.Payload)
}

type WithUUID struct {
	ID uuid.UUID
}

func TestUUIDRoundTrip(t *testing.T) {
	in := WithUUID{ID: uuid.New()}
	out := roundTrip(t, in, nil, nil)
	require.Equal(t, in.ID, out.ID)
}

type Status string

type WithEnum struct {
	Status Status `parquet:",enum(ACTIVE|INACTIVE)"`
}

func TestEnumRoundTrip(t *testing.T) {
	in := WithEnum{Status: "ACTIVE"}
	out := roundTrip(t, in, nil, nil)
	require.Equal(t, in.Status, out.Status)
}

type WithDecimal struct {
	Amount int64 `parquet:",decimal(18:2)"`
}

func TestDecimalRoundTrip(t *testing.T) {
	in := WithDecimal{Amount: 123456}
	out := roundTrip(t, in, nil, nil)
	require.Equal(t, in.Amount, out.Amount)
}

type WithBigDecimal struct {
	Amount int64 `parquet:",decimal(30:4)"`
}

func TestDecimalRoundTrip_ByteArray(t *testing.T) {
	in := WithBigDecimal{Amount: 987654321}
	out := roundTrip(t, in, nil, nil)
	require.Equal(t, in.Amount, out.Amount)
}

type WithTimestamp struct {
	CreatedAt time.Time
}

func TestTimestampRoundTrip(t *testing.T) {
	in := WithTimestamp{CreatedAt: time.Date(2026, 3, 4, 12, 30, 0, 0, time.UTC)}
	out := roundTrip(t, in, nil, nil)
	require.True(t, in.CreatedAt.Equal(out.CreatedAt))
}

type WithMillisTime struct {
	At time.Time `parquet:",time,millis"`
}

func TestTimeOfDayRoundTrip_Millis(t *testing.T) {
	in := WithMillisTime{At: time.Date(1970, 1, 1, 13, 45, 30, 0, time.UTC)}
	out := roundTrip(t, in, nil, nil)
	require.Equal(t, in.At.Hour(), out.At.Hour())
	require.Equal(t, in.At.Minute(), out.At.Minute())
	require.Equal(t, in.At.Second(), out.At.Second())
}

type WithDate struct {
	Day time.Time `parquet:",date"`
}

func TestDateRoundTrip(t *testing.T) {
	in := WithDate{Day: time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)}
	out := roundTrip(t, in, nil, nil)
	require.True(t, in.Day.Equal(out.Day))
}

type WithNullableListElements struct {
	Scores []*int32
}

func TestListRoundTrip_NullableElements_ThreeLevel(t *testing.T) {
	a, c := int32(1), int32(3)
	in := WithNullableListElements{Scores: []*int32{&a, nil, &c}}

	out := roundTrip(t, in, []parquetrecord.WriteOption{parquetrecord.WithListLevels(parquetrecord.ThreeLevel)}, nil)

	require.Len(t, out.Scores, 3)
	require.NotNil(t, out.Scores[0])
	require.Equal(t, a, *out.Scores[0])
	require.Nil(t, out.Scores[1])
	require.NotNil(t, out.Scores[2])
	require.Equal(t, c, *out.Scores[2])
}

func TestListRoundTrip_NullElement_RejectedUnderTwoLevel(t *testing.T) {
	a := int32(1)
	in := WithNullableListElements{Scores: []*int32{&a, nil}}

	w, err := parquetrecord.NewWriter[WithNullableListElements](parquetrecord.WithListLevels(parquetrecord.TwoLevel))
	require.NoError(t, err)

	engine := parquetrecord.NewMemEngine()
	require.Error(t, w.Write(engine, in))
}

type WriteEnumSet struct {
	Status string `parquet:",enum(ACTIVE|INACTIVE)"`
}

type ReadEnumSet struct {
	Status string `parquet:",enum(PENDING|CLOSED)"`
}

func TestEnumRoundTrip_UnknownConstantRejected(t *testing.T) {
	w, err := parquetrecord.NewWriter[WriteEnumSet]()
	require.NoError(t, err)

	engine := parquetrecord.NewMemEngine()
	require.NoError(t, w.Write(engine, WriteEnumSet{Status: "ACTIVE"}))

	r, err := parquetrecord.NewReader[ReadEnumSet](w.Schema())
	require.NoError(t, err)

	_, rerr := r.Read(engine.Events())
	require.Error(t, rerr)

	var schemaErr *parquetrecord.SchemaError
	require.ErrorAs(t, rerr, &schemaErr)
	require.Equal(t, parquetrecord.UnknownEnumConstant, schemaErr.Kind)
}

type WriteWideDecimal struct {
	Amount int64 `parquet:",decimal(18:4)"`
}

type ReadNarrowDecimal struct {
	Amount int64 `parquet:",decimal(18:2)"`
}

func TestDecimalRoundTrip_NarrowingWithoutRoundingModeRejected(t *testing.T) {
	w, err := parquetrecord.NewWriter[WriteWideDecimal]()
	require.NoError(t, err)

	engine := parquetrecord.NewMemEngine()
	require.NoError(t, w.Write(engine, WriteWideDecimal{Amount: 123456}))

	_, rerr := parquetrecord.NewReader[ReadNarrowDecimal](w.Schema())
	require.Error(t, rerr)

	var schemaErr *parquetrecord.SchemaError
	require.ErrorAs(t, rerr, &schemaErr)
	require.Equal(t, parquetrecord.DecimalScaleMismatch, schemaErr.Kind)
}

func TestDecimalRoundTrip_NarrowingWithRoundHalfUp(t *testing.T) {
	w, err := parquetrecord.NewWriter[WriteWideDecimal]()
	require.NoError(t, err)

	engine := parquetrecord.NewMemEngine()
	require.NoError(t, w.Write(engine, WriteWideDecimal{Amount: 123456})) // 12.3456

	r, err := parquetrecord.NewReader[ReadNarrowDecimal](w.Schema(), parquetrecord.WithDecimalRounding(parquetrecord.RoundHalfUp))
	require.NoError(t, err)

	out, rerr := r.Read(engine.Events())
	require.NoError(t, rerr)
	require.Equal(t, int64(1235), out.Amount) // 12.3456 -> 12.35
}

func TestDecimalRoundTrip_NarrowingWithRoundDown(t *testing.T) {
	w, err := parquetrecord.NewWriter[WriteWideDecimal]()
	require.NoError(t, err)

	engine := parquetrecord.NewMemEngine()
	require.NoError(t, w.Write(engine, WriteWideDecimal{Amount: 123456})) // 12.3456

	r, err := parquetrecord.NewReader[ReadNarrowDecimal](w.Schema(), parquetrecord.WithDecimalRounding(parquetrecord.RoundDown))
	require.NoError(t, err)

	out, rerr := r.Read(engine.Events())
	require.NoError(t, rerr)
	require.Equal(t, int64(1234), out.Amount) // 12.3456 -> 12.34
}

type WithVariant struct {
	Name    string
	Payload interface{} `parquet:",variant"`
}

func TestVariantFieldRoundTrip(t *testing.T) {
	in := WithVariant{
		Name: "evt",
		Payload: map[string]interface{}{
			"count": int64(2),
			"tags":  []interface{}{"a", "b"},
		},
	}

	out := roundTrip(t, in, nil, nil)
	require.Equal(t, in.Name, out.Name)
	require.Equal(t, in.Payload, out.Payload)
}

func TestVariantFieldRoundTrip_Null(t *testing.T) {
	in := WithVariant{Name: "evt-2", Payload: nil}
	out := roundTrip(t, in, nil, nil)
	require.Equal(t, in.Name, out.Name)
	require.Nil(t, out.Payload)
}

type WholeRecordForDynamic struct {
	ID     string
	Count  int32
	Active bool
}

func TestWholeRecordDynamicMapRead(t *testing.T) {
	w, err := parquetrecord.NewWriter[WholeRecordForDynamic]()
	require.NoError(t, err)

	engine := parquetrecord.NewMemEngine()
	in := WholeRecordForDynamic{ID: "rec-1", Count: 7, Active: true}
	require.NoError(t, w.Write(engine, in))

	r, err := parquetrecord.NewReader[map[string]interface{}](w.Schema())
	require.NoError(t, err)

	out, rerr := r.Read(engine.Events())
	require.NoError(t, rerr)
	require.Equal(t, "rec-1", out["ID"])
	require.Equal(t, int32(7), out["Count"])
	require.Equal(t, true, out["Active"])
}
