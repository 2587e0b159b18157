package parquetrecord

import "reflect"

// Writer derives the Parquet schema for a Go type once and then emits
// records of that type to an external RecordConsumer, per spec.md §4–§5.
//
// This mirrors the teacher's Encoder/Writer split (StructPlanner derives a
// schema once, Writer reuses it per call), generalized from the teacher's
// single fixed naming convention to the full WriteConfig this package
// exposes.
type Writer[T any] struct {
	desc   *RecordDesc
	schema *Schema
	cfg    *WriteConfig
}

// NewWriter derives T's RecordDesc and Schema under the given options.
func NewWriter[T any](options ...WriteOption) (*Writer[T], error) {
	cfg := DefaultWriteConfig()
	cfg.Apply(options...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	desc, err := recordDescOfT[T](cfg)
	if err != nil {
		return nil, err
	}

	schema, err := BuildSchema(desc, cfg)
	if err != nil {
		return nil, err
	}

	return &Writer[T]{
		desc:   desc,
		schema: schema,
		cfg:    cfg,
	}, nil
}

// Schema returns the Parquet logical schema derived for T.
func (w *Writer[T]) Schema() *Schema { return w.schema }

// RecordDesc returns the introspected field description derived for T.
func (w *Writer[T]) RecordDesc() *RecordDesc { return w.desc }

// Write emits record's fields to consumer as one start_message...
// end_message column-event sequence.
func (w *Writer[T]) Write(consumer RecordConsumer, record T) error {
	rv := reflect.ValueOf(record)
	return EmitRecord(consumer, w.schema, w.desc, rv)
}
