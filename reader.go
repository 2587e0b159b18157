package parquetrecord

import "reflect"

var dynamicMapType = reflect.TypeOf(map[string]interface{}(nil))

// Reader reconstructs values of type T from a file's embedded schema and the
// column-event stream an external Parquet reader decodes off that file, per
// spec.md §6–§7. A Reader is built once per (Go type, file schema) pair and
// is safe to reuse across many Read calls; it does not hold any per-record
// state itself.
//
// This mirrors the teacher's generic NewGenericReader[T] facade, adapted
// from a page/row-group reader to a column-event consumer since this
// package's CORE stops at the column-event boundary (spec.md §1).
type Reader[T any] struct {
	desc *RecordDesc
	proj *RecordProjection
	cfg  *ReaderConfig

	// fileSchema is set only for a Reader[map[string]interface{}], the
	// whole-record DynamicMap scenario (spec.md §7): there is no Go struct
	// to introspect, so Read bypasses RecordDesc/ProjectRecord entirely and
	// decodes straight off the file's own schema via MaterializeDynamicMap.
	fileSchema *Schema
}

// NewReader builds a Reader[T], projecting T's RecordDesc against fileSchema
// — the schema an external reader read out of the file's footer — up front
// so every Read call skips straight to materialization. When T is
// map[string]interface{}, no RecordDesc exists to project; Read decodes the
// whole record dynamically off fileSchema instead.
func NewReader[T any](fileSchema *Schema, options ...ReaderOption) (*Reader[T], error) {
	cfg := DefaultReaderConfig()
	cfg.Apply(options...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var zero T
	if reflect.TypeOf(zero) == dynamicMapType {
		return &Reader[T]{cfg: cfg, fileSchema: fileSchema}, nil
	}

	desc, err := recordDescOfT[T](DefaultWriteConfig())
	if err != nil {
		return nil, err
	}

	proj, perr := ProjectRecord(fileSchema, desc, cfg)
	if perr != nil {
		return nil, perr
	}

	return &Reader[T]{desc: desc, proj: proj, cfg: cfg}, nil
}

// Schema returns the requested type's RecordDesc, as resolved at
// construction time. It is nil for a Reader[map[string]interface{}], which
// has no declared Go field shape.
func (r *Reader[T]) Schema() *RecordDesc { return r.desc }

// Read materializes one record from events, a complete
// start_message...end_message column-event stream for a single row.
func (r *Reader[T]) Read(events []recordEvent) (T, error) {
	var out T
	if r.fileSchema != nil {
		m, err := MaterializeDynamicMap(r.fileSchema, events)
		if err != nil {
			var zero T
			return zero, err
		}
		reflect.ValueOf(&out).Elem().Set(reflect.ValueOf(m))
		return out, nil
	}

	rv := reflect.ValueOf(&out).Elem()
	if err := MaterializeRecord(rv, r.proj, events, r.cfg); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// recordDescOfT introspects T under cfg, shared by Reader and Writer
// construction. A Writer passes its own WriteConfig so WithNaming,
// WithDecimalDefaults and WithDefaultTimeUnit actually reach schema
// derivation; a Reader, which has no WriteConfig of its own, passes the
// defaults; under the FieldNameSnakeCase or BestEffort match strategies,
// matchField's snake_case fallback covers the common naming mismatches this
// leaves on the table.
func recordDescOfT[T any](cfg *WriteConfig) (*RecordDesc, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, errorf(UnsupportedKind, nil, "cannot derive a schema for an untyped nil")
	}
	return NewRecordDesc(t, cfg)
}
