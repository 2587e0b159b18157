package parquetrecord

import "reflect"

// eventKind discriminates the column-event stream MaterializeRecord
// consumes, the read-side mirror of the calls EmitRecord makes on a
// RecordConsumer.
type eventKind int8

const (
	evStartMessage eventKind = iota
	evEndMessage
	evStartField
	evEndField
	evStartGroup
	evEndGroup
	evBool
	evInt32
	evInt64
	evFloat32
	evFloat64
	evBinary
	evBinaryIndexed
	evDictionary
)

// recordEvent is one entry in the column-event log a RecordConsumer
// implementation (or, on the read side, an external Parquet reader)
// produces. Only the fields relevant to Kind are meaningful.
type recordEvent struct {
	kind eventKind

	fieldName  string
	fieldIndex int

	b   bool
	i32 int32
	i64 int64
	f32 float32
	f64 float64
	bin []byte

	dictIndex int
	dict      [][]byte
}

// MaterializeRecord reconstructs dst (a settable struct value of proj's Go
// type) from a column-event stream, per spec.md §7: it decodes dictionary
// entries at most once per page (dictionaryCache), assembles nested
// LIST/MAP fields from the repeated occurrences the event log carries
// between a field's StartField/EndField pair, and applies
// cfg.FailOnNullForPrimitive when a null lands on a non-pointer primitive
// field.
func MaterializeRecord(dst reflect.Value, proj *RecordProjection, events []recordEvent, cfg *ReaderConfig) *SchemaError {
	cursor := 0
	if events[cursor].kind != evStartMessage {
		return errorf(TypeMismatch, nil, "expected start_message event")
	}
	cursor++

	if err := materializeFields(&cursor, events, dst, proj, cfg, nil); err != nil {
		return err
	}

	if events[cursor].kind != evEndMessage {
		return errorf(TypeMismatch, nil, "expected end_message event")
	}
	return nil
}

// materializeFields consumes one StartField/EndField occurrence per field
// the event stream actually carries, in whatever order it delivers them —
// file order, not necessarily the Go struct's declared field order, per
// spec.md §6/§7's file-schema-order guarantee. Under the write side's
// null-omission contract (spec.md §4.5), an absent optional field has no
// occurrence in the stream at all, so this loops by peeking for a
// start_field rather than counting matched fields: it stops as soon as the
// stream moves on to the enclosing group/message's end marker. Fields with
// no matched file column (Column == nil in the projection), or that were
// never emitted because their value was absent, are simply never visited
// and are left at their Go zero value — except that, with
// cfg.FailOnNullForPrimitive set, an absent value for a matched
// non-nullable primitive field fails NullForPrimitive.
func materializeFields(cursor *int, events []recordEvent, dst reflect.Value, proj *RecordProjection, cfg *ReaderConfig, path []string) *SchemaError {
	byName := make(map[string]int, len(proj.Desc.Fields))
	for i, fd := range proj.Desc.Fields {
		if proj.Fields[i].Column == nil {
			continue
		}
		byName[fd.WireName] = i
	}

	seen := make([]bool, len(proj.Desc.Fields))
	for events[*cursor].kind == evStartField {
		ev := events[*cursor]
		i, ok := byName[ev.fieldName]
		if !ok {
			return errorf(TypeMismatch, path, "unexpected column %q in event stream", ev.fieldName)
		}
		*cursor++
		seen[i] = true

		fd := proj.Desc.Fields[i]
		fieldPath := append(path[:len(path):len(path)], fd.LogicalName)
		fv := fieldTarget(dst, fd)

		if err := materializeValue(cursor, events, fv, fd.Type, proj.Fields[i], cfg, fieldPath); err != nil {
			return err
		}

		ev = events[*cursor]
		if ev.kind != evEndField {
			return errorf(TypeMismatch, fieldPath, "expected end_field for %q", fd.WireName)
		}
		*cursor++
	}

	if cfg.FailOnNullForPrimitive {
		for i, fd := range proj.Desc.Fields {
			if !seen[i] && proj.Fields[i].Column != nil && !fd.Nullable && fd.Type.Kind.IsPrimitive() {
				return errorf(NullForPrimitive, append(path[:len(path):len(path)], fd.LogicalName), "null value for non-nullable field %q", fd.WireName)
			}
		}
	}
	return nil
}

// fieldTarget returns the settable reflect.Value for fd within dst,
// allocating through a nil pointer when the field is itself a pointer type
// (nullable scalar/record fields declared as e.g. *int32 or *SubRecord).
func fieldTarget(dst reflect.Value, fd FieldDesc) reflect.Value {
	return derefTarget(dst.FieldByIndex(fd.index))
}

// derefTarget returns a settable reflect.Value to write a decoded value
// into, allocating through a nil pointer first when fv is itself a pointer
// type.
func derefTarget(fv reflect.Value) reflect.Value {
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		return fv.Elem()
	}
	return fv
}

func materializeValue(cursor *int, events []recordEvent, dst reflect.Value, t EntityType, cp ColumnProjection, cfg *ReaderConfig, path []string) *SchemaError {
	switch t.Kind {
	case KindRecord:
		return materializeRecordValue(cursor, events, dst, t.Record, cp, cfg, path)
	case KindList:
		return materializeList(cursor, events, dst, t.Elem, t.ElemNullable, cp, cfg, path)
	case KindMap:
		return materializeMap(cursor, events, dst, t.Key, t.Value, cp, cfg, path)
	case KindDynamicMap:
		if events[*cursor].kind != evStartGroup {
			return errorf(TypeMismatch, path, "expected start_group for dynamic map")
		}
		*cursor++
		m, err := materializeGroupFields(cursor, events, cp.Column, path)
		if err != nil {
			return err
		}
		if events[*cursor].kind != evEndGroup {
			return errorf(TypeMismatch, path, "expected end_group for dynamic map")
		}
		*cursor++
		dst.Set(reflect.ValueOf(m))
		return nil
	case KindVariant:
		return materializeVariant(cursor, events, dst, path)
	default:
		return materializePrimitive(cursor, events, dst, t, cp, path)
	}
}

func materializeRecordValue(cursor *int, events []recordEvent, dst reflect.Value, desc *RecordDesc, cp ColumnProjection, cfg *ReaderConfig, path []string) *SchemaError {
	if events[*cursor].kind != evStartGroup {
		return errorf(TypeMismatch, path, "expected start_group")
	}
	*cursor++

	sub := &RecordProjection{Desc: desc, Fields: cp.Record.Fields}
	if err := materializeFields(cursor, events, dst, sub, cfg, path); err != nil {
		return err
	}

	if events[*cursor].kind != evEndGroup {
		return errorf(TypeMismatch, path, "expected end_group")
	}
	*cursor++
	return nil
}

// materializeList consumes the zero-or-more element occurrences EmitRecord
// placed between a list field's StartField/EndField pair and assembles them
// into a new slice, which it then sets on dst. Under THREE-level encoding, a
// null element (elemNullable) surfaces as an element wrapper group with no
// payload event inside; derefTarget leaves such an element's pointer-typed
// slot nil.
func materializeList(cursor *int, events []recordEvent, dst reflect.Value, elem *EntityType, elemNullable bool, cp ColumnProjection, cfg *ReaderConfig, path []string) *SchemaError {
	elemType := dst.Type().Elem()
	result := reflect.MakeSlice(reflect.SliceOf(elemType), 0, 0)

	threeLevel := cp.Column != nil && cp.Column.IsListGroup() && cp.Column.listLevels() == ThreeLevel

	for events[*cursor].kind != evEndField {
		elemValue := reflect.New(elemType).Elem()

		if threeLevel {
			if events[*cursor].kind != evStartGroup {
				return errorf(TypeMismatch, path, "expected start_group for list element")
			}
			*cursor++
			if elemNullable && events[*cursor].kind == evEndGroup {
				// empty wrapper: a null element, leave elemValue at its zero value.
			} else if err := materializeValue(cursor, events, derefTarget(elemValue), *elem, *cp.Elem, cfg, path); err != nil {
				return err
			}
			if events[*cursor].kind != evEndGroup {
				return errorf(TypeMismatch, path, "expected end_group for list element")
			}
			*cursor++
		} else {
			if err := materializeValue(cursor, events, derefTarget(elemValue), *elem, *cp.Elem, cfg, path); err != nil {
				return err
			}
		}

		result = reflect.Append(result, elemValue)
	}

	dst.Set(result)
	return nil
}

// materializeMap consumes the zero-or-more key_value group occurrences
// EmitRecord placed between a map field's StartField/EndField pair. A
// missing "value" start_field within an entry (only possible when the Go
// value type is itself a pointer or interface) leaves that entry's value at
// its Go zero, mirroring emitMap's omission on the write side.
func materializeMap(cursor *int, events []recordEvent, dst reflect.Value, key, value *EntityType, cp ColumnProjection, cfg *ReaderConfig, path []string) *SchemaError {
	mapType := dst.Type()
	result := reflect.MakeMap(mapType)

	for events[*cursor].kind != evEndField {
		if events[*cursor].kind != evStartGroup {
			return errorf(TypeMismatch, path, "expected start_group for map entry")
		}
		*cursor++

		if events[*cursor].kind != evStartField || events[*cursor].fieldName != "key" {
			return errorf(TypeMismatch, path, "expected start_field(key)")
		}
		*cursor++
		keyValue := reflect.New(mapType.Key()).Elem()
		if err := materializeValue(cursor, events, derefTarget(keyValue), *key, *cp.Key, cfg, path); err != nil {
			return err
		}
		if events[*cursor].kind != evEndField {
			return errorf(TypeMismatch, path, "expected end_field(key)")
		}
		*cursor++

		valValue := reflect.New(mapType.Elem()).Elem()
		if events[*cursor].kind == evStartField && events[*cursor].fieldName == "value" {
			*cursor++
			if err := materializeValue(cursor, events, derefTarget(valValue), *value, *cp.Value, cfg, path); err != nil {
				return err
			}
			if events[*cursor].kind != evEndField {
				return errorf(TypeMismatch, path, "expected end_field(value)")
			}
			*cursor++
		}

		if events[*cursor].kind != evEndGroup {
			return errorf(TypeMismatch, path, "expected end_group for map entry")
		}
		*cursor++

		result.SetMapIndex(keyValue, valValue)
	}

	dst.Set(result)
	return nil
}

// materializeGroupFields decodes every field the event stream carries for a
// GROUP node into a map[string]interface{}, inferring each value's shape
// from column (the file schema node) instead of a RecordDesc — the DynamicMap
// read target, per spec.md §7, has no declared Go field shape to project
// against.
func materializeGroupFields(cursor *int, events []recordEvent, column *Schema, path []string) (map[string]interface{}, *SchemaError) {
	result := map[string]interface{}{}
	for events[*cursor].kind == evStartField {
		name := events[*cursor].fieldName
		*cursor++

		child, ok := column.ChildByName(name)
		if !ok {
			return nil, errorf(TypeMismatch, path, "unexpected column %q in event stream", name)
		}
		v, err := decodeDynamicValue(cursor, events, child, path)
		if err != nil {
			return nil, err
		}
		result[name] = v

		if events[*cursor].kind != evEndField {
			return nil, errorf(TypeMismatch, path, "expected end_field for %q", name)
		}
		*cursor++
	}
	return result, nil
}

// decodeDynamicValue decodes one field/element/map-entry occurrence into a
// dynamically-typed Go value, dispatching purely on column's shape: a
// VARIANT group decodes its "value" column, a LIST group becomes
// []interface{}, a MAP group becomes map[string]interface{}, any other
// GROUP becomes a nested map[string]interface{} via materializeGroupFields,
// and a leaf column decodes as a primitive.
func decodeDynamicValue(cursor *int, events []recordEvent, column *Schema, path []string) (interface{}, *SchemaError) {
	switch {
	case column.Logical != nil && column.Logical.Tag == LogicalVariant:
		return decodeDynamicVariant(cursor, events, path)
	case column.IsListGroup():
		return decodeDynamicList(cursor, events, column, path)
	case column.IsMapGroup():
		return decodeDynamicMapGroup(cursor, events, column, path)
	case !column.IsLeaf():
		if events[*cursor].kind != evStartGroup {
			return nil, errorf(TypeMismatch, path, "expected start_group")
		}
		*cursor++
		m, err := materializeGroupFields(cursor, events, column, path)
		if err != nil {
			return nil, err
		}
		if events[*cursor].kind != evEndGroup {
			return nil, errorf(TypeMismatch, path, "expected end_group")
		}
		*cursor++
		return m, nil
	default:
		return decodeDynamicPrimitive(cursor, events, column, path)
	}
}

func decodeDynamicVariant(cursor *int, events []recordEvent, path []string) (interface{}, *SchemaError) {
	if events[*cursor].kind != evStartGroup {
		return nil, errorf(TypeMismatch, path, "expected start_group for variant")
	}
	*cursor++

	if events[*cursor].kind != evStartField || events[*cursor].fieldName != "metadata" {
		return nil, errorf(TypeMismatch, path, "expected start_field(metadata)")
	}
	*cursor++
	if events[*cursor].kind != evBinary {
		return nil, errorf(TypeMismatch, path, "expected binary metadata value")
	}
	*cursor++ // metadata is never interpreted, only "value" carries the payload
	if events[*cursor].kind != evEndField {
		return nil, errorf(TypeMismatch, path, "expected end_field(metadata)")
	}
	*cursor++

	if events[*cursor].kind != evStartField || events[*cursor].fieldName != "value" {
		return nil, errorf(TypeMismatch, path, "expected start_field(value)")
	}
	*cursor++
	if events[*cursor].kind != evBinary {
		return nil, errorf(TypeMismatch, path, "expected binary value for variant")
	}
	raw := events[*cursor].bin
	*cursor++
	if events[*cursor].kind != evEndField {
		return nil, errorf(TypeMismatch, path, "expected end_field(value)")
	}
	*cursor++

	if events[*cursor].kind != evEndGroup {
		return nil, errorf(TypeMismatch, path, "expected end_group for variant")
	}
	*cursor++

	return decodeVariant(raw)
}

func decodeDynamicList(cursor *int, events []recordEvent, column *Schema, path []string) (interface{}, *SchemaError) {
	elemNode, repeatedNode := listElementNode(column)
	threeLevel := repeatedNode != elemNode

	result := []interface{}{}
	for events[*cursor].kind != evEndField {
		if threeLevel {
			if events[*cursor].kind != evStartGroup {
				return nil, errorf(TypeMismatch, path, "expected start_group for list element")
			}
			*cursor++
			var v interface{}
			if events[*cursor].kind != evEndGroup {
				var err *SchemaError
				v, err = decodeDynamicValue(cursor, events, elemNode, path)
				if err != nil {
					return nil, err
				}
			}
			if events[*cursor].kind != evEndGroup {
				return nil, errorf(TypeMismatch, path, "expected end_group for list element")
			}
			*cursor++
			result = append(result, v)
		} else {
			v, err := decodeDynamicValue(cursor, events, elemNode, path)
			if err != nil {
				return nil, err
			}
			result = append(result, v)
		}
	}
	return result, nil
}

func decodeDynamicMapGroup(cursor *int, events []recordEvent, column *Schema, path []string) (interface{}, *SchemaError) {
	keyValue := column.Children[0]
	keyNode, _ := keyValue.ChildByName("key")
	valueNode, _ := keyValue.ChildByName("value")

	result := map[string]interface{}{}
	for events[*cursor].kind != evEndField {
		if events[*cursor].kind != evStartGroup {
			return nil, errorf(TypeMismatch, path, "expected start_group for map entry")
		}
		*cursor++

		if events[*cursor].kind != evStartField || events[*cursor].fieldName != "key" {
			return nil, errorf(TypeMismatch, path, "expected start_field(key)")
		}
		*cursor++
		k, err := decodeDynamicValue(cursor, events, keyNode, path)
		if err != nil {
			return nil, err
		}
		if events[*cursor].kind != evEndField {
			return nil, errorf(TypeMismatch, path, "expected end_field(key)")
		}
		*cursor++

		var v interface{}
		if events[*cursor].kind == evStartField && events[*cursor].fieldName == "value" {
			*cursor++
			v, err = decodeDynamicValue(cursor, events, valueNode, path)
			if err != nil {
				return nil, err
			}
			if events[*cursor].kind != evEndField {
				return nil, errorf(TypeMismatch, path, "expected end_field(value)")
			}
			*cursor++
		}

		if events[*cursor].kind != evEndGroup {
			return nil, errorf(TypeMismatch, path, "expected end_group for map entry")
		}
		*cursor++

		keyStr, ok := k.(string)
		if !ok {
			return nil, errorf(TypeMismatch, path, "dynamic map requires string keys")
		}
		result[keyStr] = v
	}
	return result, nil
}

func decodeDynamicPrimitive(cursor *int, events []recordEvent, column *Schema, path []string) (interface{}, *SchemaError) {
	kind := entityKindOfColumn(column)
	var unit TimeUnit
	if column.Logical != nil {
		unit = column.Logical.Unit
	}

	ev := events[*cursor]
	*cursor++

	switch ev.kind {
	case evDictionary:
		cache := newDictionaryCache(kind, ev.dict)
		ev2 := events[*cursor]
		*cursor++
		if ev2.kind != evBinaryIndexed {
			return nil, errorf(TypeMismatch, path, "expected binary_indexed value after dictionary")
		}
		return cache.get(ev2.dictIndex)
	case evBool:
		return ev.b, nil
	case evInt32:
		switch kind {
		case KindDate:
			return dateFromEpochDays(ev.i32), nil
		case KindTime:
			d, err := timeOfDayFromValue(int64(ev.i32), unit)
			if err != nil {
				return nil, err
			}
			return dateFromEpochDays(0).Add(d), nil
		default:
			return ev.i32, nil
		}
	case evInt64:
		switch kind {
		case KindTime:
			d, err := timeOfDayFromValue(ev.i64, unit)
			if err != nil {
				return nil, err
			}
			return dateFromEpochDays(0).Add(d), nil
		case KindTimestamp:
			return timestampFromValue(ev.i64, unit), nil
		default:
			return ev.i64, nil
		}
	case evFloat32:
		return ev.f32, nil
	case evFloat64:
		return ev.f64, nil
	case evBinary:
		return decodeBinaryLike(kind, ev.bin)
	default:
		return nil, errorf(TypeMismatch, path, "unexpected event in primitive column")
	}
}

// MaterializeDynamicMap reconstructs a whole record directly into a
// map[string]interface{}, for a Reader[map[string]interface{}] — since
// DynamicMap has no declared Go field shape, this bypasses RecordDesc and
// ProjectRecord entirely and decodes straight off fileSchema, per spec.md §7.
func MaterializeDynamicMap(fileSchema *Schema, events []recordEvent) (map[string]interface{}, *SchemaError) {
	cursor := 0
	if events[cursor].kind != evStartMessage {
		return nil, errorf(TypeMismatch, nil, "expected start_message event")
	}
	cursor++

	m, err := materializeGroupFields(&cursor, events, fileSchema, nil)
	if err != nil {
		return nil, err
	}

	if events[cursor].kind != evEndMessage {
		return nil, errorf(TypeMismatch, nil, "expected end_message event")
	}
	return m, nil
}

func materializePrimitive(cursor *int, events []recordEvent, dst reflect.Value, t EntityType, cp ColumnProjection, path []string) *SchemaError {
	ev := events[*cursor]
	*cursor++

	switch ev.kind {
	case evDictionary:
		cache := newDictionaryCache(entityKindForDictionary(t), ev.dict)
		ev2 := events[*cursor]
		*cursor++
		if ev2.kind != evBinaryIndexed {
			return errorf(TypeMismatch, path, "expected binary_indexed value after dictionary")
		}
		v, derr := cache.get(ev2.dictIndex)
		if derr != nil {
			return derr
		}
		return setDictionaryIndexed(dst, t, v, cp.DecimalScaleDelta, cp.DecimalRounding)
	case evBool:
		return setPrimitive(dst, t, ev.b, 0, 0, 0, 0, nil, cp.DecimalScaleDelta, cp.DecimalRounding)
	case evInt32:
		return setPrimitive(dst, t, false, ev.i32, int64(ev.i32), 0, 0, nil, cp.DecimalScaleDelta, cp.DecimalRounding)
	case evInt64:
		return setPrimitive(dst, t, false, int32(ev.i64), ev.i64, 0, 0, nil, cp.DecimalScaleDelta, cp.DecimalRounding)
	case evFloat32:
		return setPrimitive(dst, t, false, 0, 0, ev.f32, float64(ev.f32), nil, cp.DecimalScaleDelta, cp.DecimalRounding)
	case evFloat64:
		return setPrimitive(dst, t, false, 0, 0, float32(ev.f64), ev.f64, nil, cp.DecimalScaleDelta, cp.DecimalRounding)
	case evBinary:
		return setPrimitive(dst, t, false, 0, 0, 0, 0, ev.bin, cp.DecimalScaleDelta, cp.DecimalRounding)
	default:
		return errorf(TypeMismatch, path, "unexpected event in primitive column")
	}
}

// materializeVariant consumes a VARIANT GROUP's metadata/value occurrences
// and decodes "value" into dst, an interface{}-typed field.
func materializeVariant(cursor *int, events []recordEvent, dst reflect.Value, path []string) *SchemaError {
	v, err := decodeDynamicVariant(cursor, events, path)
	if err != nil {
		return err
	}
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
	} else {
		dst.Set(reflect.ValueOf(v))
	}
	return nil
}

func entityKindForDictionary(t EntityType) EntityKind { return t.Kind }
