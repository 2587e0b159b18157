package parquetrecord

import (
	"reflect"
)

// RecordConsumer is the external collaborator record emission drives: a
// column-event sink that knows how to encode physical values into Parquet
// pages. The CORE never constructs pages itself (that's explicitly out of
// scope per spec.md §1); it only calls these methods in the order a
// depth-first walk of the record's schema produces.
type RecordConsumer interface {
	StartMessage()
	EndMessage()

	StartField(name string, index int)
	EndField(name string, index int)

	StartGroup()
	EndGroup()

	AddBool(v bool)
	AddInt32(v int32)
	AddInt64(v int64)
	AddFloat32(v float32)
	AddFloat64(v float64)
	AddBinary(v []byte)
}

// EmitRecord walks rv (a value of desc's Go type) against schema — the tree
// BuildSchema produced for desc — emitting the column events described by
// RecordConsumer, per spec.md §5.
func EmitRecord(consumer RecordConsumer, schema *Schema, desc *RecordDesc, rv reflect.Value) error {
	rv = dereferenceValue(rv)
	consumer.StartMessage()
	err := emitFields(consumer, schema, desc.Fields, rv, nil)
	consumer.EndMessage()
	return err
}

func dereferenceValue(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// emitFields brackets each present field in start_field/end_field and emits
// its value, per spec.md §4.5's write algorithm: an absent value in a
// required position fails NullInRequired; an absent value in an optional
// position is skipped entirely, with no start_field/end_field pair emitted
// for it at all. List and Map fields are always bracketed, even when empty
// or backed by a nil Go slice/map, since their own internal element count
// (rather than field-level presence) carries the "no entries" case.
func emitFields(consumer RecordConsumer, group *Schema, fields []FieldDesc, rv reflect.Value, path []string) error {
	for i, fd := range fields {
		child := group.Children[i]
		fieldPath := append(path[:len(path):len(path)], fd.LogicalName)

		var fv reflect.Value
		if rv.IsValid() {
			fv = rv.FieldByIndex(fd.index)
		}

		if fd.Type.Kind == KindList || fd.Type.Kind == KindMap {
			consumer.StartField(fd.WireName, i)
			err := emitValue(consumer, child, fd.Type, fv, fieldPath)
			consumer.EndField(fd.WireName, i)
			if err != nil {
				return err
			}
			continue
		}

		absent, unwrapped := isAbsent(fv)
		if absent {
			if !fd.Nullable {
				return errorf(NullInRequired, fieldPath, "required field %q has no value", fd.WireName)
			}
			continue
		}

		consumer.StartField(fd.WireName, i)
		err := emitValue(consumer, child, fd.Type, unwrapped, fieldPath)
		consumer.EndField(fd.WireName, i)
		if err != nil {
			return err
		}
	}
	return nil
}

// emitValue emits the events for one already-present field/element/map-value
// occurrence; the caller has already resolved nullability and dereferenced
// any pointer/interface wrapper.
func emitValue(consumer RecordConsumer, node *Schema, t EntityType, fv reflect.Value, path []string) error {
	switch t.Kind {
	case KindRecord:
		consumer.StartGroup()
		err := emitFields(consumer, node, t.Record.Fields, fv, path)
		consumer.EndGroup()
		return err

	case KindList:
		return emitList(consumer, node, t.Elem, t.ElemNullable, fv, path)

	case KindMap:
		return emitMap(consumer, node, t.Key, t.Value, fv, path)

	case KindVariant:
		return emitVariant(consumer, fv)

	default:
		return emitPrimitive(consumer, t, fv)
	}
}

// isAbsent reports whether fv represents "no value" for a nullable
// position — a nil pointer, a nil interface (the Go shape of a `variant` or
// DynamicMap field), or (for records reached through a ptr chain) an
// invalid reflect.Value — and returns the dereferenced value to use
// otherwise.
func isAbsent(fv reflect.Value) (bool, reflect.Value) {
	if !fv.IsValid() {
		return true, fv
	}
	switch fv.Kind() {
	case reflect.Ptr:
		if fv.IsNil() {
			return true, reflect.Value{}
		}
		return false, fv.Elem()
	case reflect.Interface:
		if fv.IsNil() {
			return true, reflect.Value{}
		}
		return false, fv.Elem()
	default:
		return false, fv
	}
}

// emitList walks node (the LIST-annotated subtree BuildSchema produced) and
// fv (a slice/array, or the zero Value for an absent list) in lockstep,
// emitting one element occurrence per entry, honoring whichever of the
// one/two/three-level conventions node uses.
//
// A null element (elemNullable and the Go slice entry is a nil pointer) is
// only representable in THREE-level encoding, where each element already
// gets its own start_group/end_group wrapper: the wrapper is emitted empty,
// with no payload value inside. TWO- and ONE-level have no such per-element
// slot, so a null element there fails NullInRequired at write time, per
// spec.md §4.5's "no way to represent missing" for ONE-level — which this
// package's simplified TWO-level shape shares.
func emitList(consumer RecordConsumer, node *Schema, elem *EntityType, elemNullable bool, fv reflect.Value, path []string) error {
	length := 0
	if fv.IsValid() && !(fv.Kind() == reflect.Slice && fv.IsNil()) {
		length = fv.Len()
	}

	elemNode, repeatedNode := listElementNode(node)
	threeLevel := repeatedNode != elemNode

	for i := 0; i < length; i++ {
		ev := fv.Index(i)

		absent, unwrapped := false, ev
		if elemNullable {
			absent, unwrapped = isAbsent(ev)
		}
		if absent && !threeLevel {
			return errorf(NullInRequired, path, "a null list element requires THREE-level list encoding")
		}

		if threeLevel {
			consumer.StartGroup()
			if !absent {
				if err := emitValue(consumer, elemNode, *elem, unwrapped, path); err != nil {
					return err
				}
			}
			consumer.EndGroup()
			continue
		}

		if err := emitValue(consumer, elemNode, *elem, unwrapped, path); err != nil {
			return err
		}
	}

	return nil
}

// listElementNode returns (elementNode, repeatedWrapperNode) for a LIST
// subtree, per spec.md §4.6's shapes. For a one-level list (no group, no
// LIST annotation) both are node itself.
func listElementNode(node *Schema) (elem, repeated *Schema) {
	if !node.IsListGroup() {
		return node, node
	}
	switch node.listLevels() {
	case ThreeLevel:
		wrapper := node.Children[0]
		return wrapper.Children[0], wrapper
	default: // TwoLevel
		wrapper := node.Children[0]
		return wrapper, wrapper
	}
}

// emitMap walks a Go map field against the MAP group node, emitting one
// key_value group occurrence per entry. Map iteration order is
// unspecified by Go; callers that need deterministic output should sort
// upstream (out of scope for record emission itself). A nil map value
// (meaningful only when the Go value type is itself a pointer or
// interface) omits the "value" start_field/end_field entirely, per spec.md
// §4.5's "optionally start_field('value')... omitted iff value is null".
func emitMap(consumer RecordConsumer, node *Schema, key, value *EntityType, fv reflect.Value, path []string) error {
	if !fv.IsValid() || fv.IsNil() {
		return nil
	}

	keyValue := node.Children[0]
	keyNode, _ := keyValue.ChildByName("key")
	valueNode, _ := keyValue.ChildByName("value")

	iter := fv.MapRange()
	for iter.Next() {
		consumer.StartGroup() // key_value

		consumer.StartField("key", 0)
		if err := emitValue(consumer, keyNode, *key, iter.Key(), path); err != nil {
			return err
		}
		consumer.EndField("key", 0)

		absent, unwrapped := isAbsent(iter.Value())
		if !absent {
			consumer.StartField("value", 1)
			if err := emitValue(consumer, valueNode, *value, unwrapped, path); err != nil {
				return err
			}
			consumer.EndField("value", 1)
		}

		consumer.EndGroup()
	}

	return nil
}

func emitPrimitive(consumer RecordConsumer, t EntityType, fv reflect.Value) error {
	switch t.Kind {
	case KindBool:
		consumer.AddBool(fv.Bool())
	case KindInt8, KindInt16, KindInt32:
		consumer.AddInt32(int32(intValueOf(fv)))
	case KindInt64:
		consumer.AddInt64(intValueOf(fv))
	case KindFloat32:
		consumer.AddFloat32(float32(fv.Float()))
	case KindFloat64:
		consumer.AddFloat64(fv.Float())
	case KindString, KindEnum, KindJSON:
		consumer.AddBinary([]byte(fv.String()))
	case KindBinary, KindBSON:
		consumer.AddBinary(fv.Bytes())
	case KindGeometry, KindGeography:
		consumer.AddBinary(fv.Bytes())
	case KindUUID:
		b := uuidBytesOf(fv)
		consumer.AddBinary(b[:])
	case KindDate:
		consumer.AddInt32(epochDaysOf(fv))
	case KindTime:
		v, err := timeOfDayValueOf(fv, t.Unit)
		if err != nil {
			return err
		}
		if physicalForUnit(t.Unit) == PhysicalInt32 {
			consumer.AddInt32(int32(v))
		} else {
			consumer.AddInt64(v)
		}
	case KindTimestamp:
		consumer.AddInt64(timestampValueOf(fv, t.Unit))
	case KindDecimal:
		emitDecimal(consumer, fv, t)
	default:
		return errorf(UnsupportedKind, nil, "cannot emit values of kind %s", t.Kind)
	}
	return nil
}

// emitVariant emits VARIANT's two-column GROUP shape (metadata, value),
// per spec.md §4.4's mapping table entry. Only the "value" column carries
// the payload fv encodes to; "metadata" is a constant minimal header (no
// dictionary), since this package does not implement Parquet's VARIANT
// dictionary-of-field-names metadata format.
func emitVariant(consumer RecordConsumer, fv reflect.Value) error {
	metadata, value, err := encodeVariant(fv.Interface())
	if err != nil {
		return err
	}
	consumer.StartGroup()
	consumer.StartField("metadata", 0)
	consumer.AddBinary(metadata)
	consumer.EndField("metadata", 0)
	consumer.StartField("value", 1)
	consumer.AddBinary(value)
	consumer.EndField("value", 1)
	consumer.EndGroup()
	return nil
}

func intValueOf(fv reflect.Value) int64 {
	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fv.Int()
	default:
		return int64(fv.Uint())
	}
}
