package parquetrecord

// BuildSchema derives the Parquet logical schema tree for a record type
// previously introspected into desc, per the mapping table in spec.md §4.4
// and the LIST/MAP shape rules in §4.6. The returned root is a group named
// "" with Repetition Required, matching a Parquet file's message schema.
//
// Schema-time rejections (a ONE-level nested collection, a DynamicMap used
// as a write-side field type) unwind through a panic/recover trampoline,
// mirroring NewRecordDesc's.
func BuildSchema(desc *RecordDesc, cfg *WriteConfig) (schema *Schema, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*SchemaError); ok {
				err = se
				return
			}
			panic(r)
		}
	}()

	root := &Schema{Name: "", Repetition: Required}
	for _, f := range desc.Fields {
		root.addChild(schemaFieldOf(f, cfg, nil))
	}
	return root, nil
}

func schemaFieldOf(f FieldDesc, cfg *WriteConfig, path []string) *Schema {
	fieldPath := append(path[:len(path):len(path)], f.LogicalName)
	s := entitySchemaOf(f.WireName, f.Type, cfg, fieldPath)

	// A one-level list's field node IS the repeated element (no wrapping
	// group exists to carry a separate nullability marker): listSchemaOf
	// already stamped Repeated, which must survive untouched. Every other
	// kind, including two/three-level lists (where the LIST group itself
	// carries the field's own Optional/Required), follows f.Nullable.
	if f.Type.Kind == KindList && cfg.ListLevels == OneLevel {
		// leave s.Repetition as listSchemaOf set it (Repeated)
	} else if f.Nullable {
		s.Repetition = Optional
	} else {
		s.Repetition = Required
	}

	if f.HasFieldID {
		s.FieldID, s.HasFieldID = f.FieldID, true
	}
	return s
}

// entitySchemaOf builds the Schema subtree for a single EntityType, leaving
// Repetition/FieldID for the caller to stamp (the same EntityType is shared
// by record fields, list elements, and map values, which each have their
// own repetition rules).
func entitySchemaOf(name string, t EntityType, cfg *WriteConfig, path []string) *Schema {
	switch t.Kind {
	case KindRecord:
		s := &Schema{Name: name}
		for _, f := range t.Record.Fields {
			s.addChild(schemaFieldOf(f, cfg, path))
		}
		return s
	case KindList:
		return listSchemaOf(name, t.Elem, t.ElemNullable, cfg, path)
	case KindMap:
		return mapSchemaOf(name, t.Key, t.Value, cfg, path)
	case KindVariant:
		return variantSchemaOf(name)
	case KindDynamicMap:
		panic(errorf(UnsupportedKind, path, "DynamicMap is not a writable field type; it is a read-only projection target"))
	default:
		return primitiveSchemaOf(name, t)
	}
}

// variantSchemaOf builds VARIANT's two-column GROUP shape, per spec.md
// §4.4's mapping table entry `variant | GROUP(variant) with
// metadata:BINARY, value:BINARY | VARIANT`.
func variantSchemaOf(name string) *Schema {
	group := &Schema{Name: name, Logical: &LogicalType{Tag: LogicalVariant}}
	group.addChild(&Schema{Name: "metadata", Repetition: Required, Physical: PhysicalByteArray})
	group.addChild(&Schema{Name: "value", Repetition: Required, Physical: PhysicalByteArray})
	return group
}

// listSchemaOf builds a LIST-annotated group using cfg.ListLevels, per
// spec.md §4.6:
//
//	ONE:   name: repeated <element>                     (no group, no LIST annotation)
//	TWO:   name: group (LIST) { repeated <element> list }
//	THREE: name: group (LIST) { repeated group list { <element> element } }
//
// A ONE-level encoding has no structural slot for a nested collection
// element (its single repeated node IS the element, with no separate
// nullability/grouping marker available to a nested List/Map), so it is
// rejected at schema-build time, per spec.md §3's "a 1-level encoding with
// a nested collection is rejected at schema time".
func listSchemaOf(name string, elem *EntityType, elemNullable bool, cfg *WriteConfig, path []string) *Schema {
	if cfg.ListLevels == OneLevel {
		if elem.Kind == KindList || elem.Kind == KindMap {
			panic(errorf(UnsupportedKind, path, "a ONE-level list cannot contain a nested List or Map; use TWO or THREE level encoding"))
		}
		s := entitySchemaOf(name, *elem, cfg, path)
		s.Repetition = Repeated
		return s
	}

	group := &Schema{Name: name, Logical: &LogicalType{Tag: LogicalList}}

	repeated := entitySchemaOf("list", *elem, cfg, path)
	repeated.Repetition = Repeated

	if cfg.ListLevels == ThreeLevel {
		inner := repeated
		repeated = &Schema{Name: "list", Repetition: Repeated}
		inner.Name = "element"
		inner.Repetition = requiredOrOptionalFor(elemNullable)
		repeated.addChild(inner)
	}

	group.addChild(repeated)
	return group
}

// requiredOrOptionalFor decides the repetition of a three-level list's
// "element" node: only a THREE-level encoding has a structural slot (the
// "element" node's own Optional/Required marker) for a null element, per
// spec.md §4.6; elemNullable comes from the element's Go type having been
// declared as a pointer.
func requiredOrOptionalFor(elemNullable bool) Repetition {
	if elemNullable {
		return Optional
	}
	return Required
}

// mapSchemaOf builds a MAP-annotated group, per spec.md §4.6:
//
//	name: group (MAP) { repeated group key_value { key; value } }
func mapSchemaOf(name string, key, value *EntityType, cfg *WriteConfig, path []string) *Schema {
	group := &Schema{Name: name, Logical: &LogicalType{Tag: LogicalMap}}

	keyValue := &Schema{Name: "key_value", Repetition: Repeated}

	keySchema := entitySchemaOf("key", *key, cfg, path)
	keySchema.Repetition = Required // spec.md §4.6: map keys are never null
	keyValue.addChild(keySchema)

	valueSchema := entitySchemaOf("value", *value, cfg, path)
	valueSchema.Repetition = Optional // spec.md §4.6: "a required key and an optional value"
	keyValue.addChild(valueSchema)

	group.addChild(keyValue)
	return group
}

func primitiveSchemaOf(name string, t EntityType) *Schema {
	s := &Schema{Name: name}
	s.Physical, s.Logical, s.FixedLen = physicalMappingOf(t)
	return s
}

// physicalMappingOf is the primitive mapping table from spec.md §4.4.
func physicalMappingOf(t EntityType) (PhysicalKind, *LogicalType, int) {
	switch t.Kind {
	case KindBool:
		return PhysicalBoolean, nil, 0
	case KindInt8:
		return PhysicalInt32, &LogicalType{Tag: LogicalInt, BitWidth: 8, Signed: true}, 0
	case KindInt16:
		return PhysicalInt32, &LogicalType{Tag: LogicalInt, BitWidth: 16, Signed: true}, 0
	case KindInt32:
		return PhysicalInt32, nil, 0
	case KindInt64:
		return PhysicalInt64, nil, 0
	case KindFloat32:
		return PhysicalFloat, nil, 0
	case KindFloat64:
		return PhysicalDouble, nil, 0
	case KindString:
		return PhysicalByteArray, &LogicalType{Tag: LogicalString}, 0
	case KindEnum:
		return PhysicalByteArray, &LogicalType{Tag: LogicalEnum}, 0
	case KindBinary:
		return PhysicalByteArray, nil, 0
	case KindUUID:
		return PhysicalFixedLenByteArray, &LogicalType{Tag: LogicalUUID}, 16
	case KindDate:
		return PhysicalInt32, &LogicalType{Tag: LogicalDate}, 0
	case KindTime:
		return physicalForUnit(t.Unit), &LogicalType{Tag: LogicalTime, Unit: t.Unit, IsAdjustedToUTC: t.IsAdjustedToUTC}, 0
	case KindTimestamp:
		return PhysicalInt64, &LogicalType{Tag: LogicalTimestamp, Unit: t.Unit, IsAdjustedToUTC: t.IsAdjustedToUTC}, 0
	case KindDecimal:
		phys, fixedLen := decimalPhysical(t.Precision)
		return phys, &LogicalType{Tag: LogicalDecimal, Precision: t.Precision, Scale: t.Scale}, fixedLen
	case KindJSON:
		return PhysicalByteArray, &LogicalType{Tag: LogicalJSON}, 0
	case KindBSON:
		return PhysicalByteArray, &LogicalType{Tag: LogicalBSON}, 0
	case KindGeometry:
		return PhysicalByteArray, &LogicalType{Tag: LogicalGeometry, GeoCRS: t.GeoCRS}, 0
	case KindGeography:
		return PhysicalByteArray, &LogicalType{Tag: LogicalGeography, GeoCRS: t.GeoCRS, GeoAlgorithm: t.GeoAlgorithm}, 0
	default:
		return PhysicalByteArray, nil, 0
	}
}

// physicalForUnit picks TIME's physical representation: millisecond-of-day
// fits INT32, microsecond/nanosecond-of-day need INT64.
func physicalForUnit(unit TimeUnit) PhysicalKind {
	if unit == Millis {
		return PhysicalInt32
	}
	return PhysicalInt64
}

// decimalPhysical picks DECIMAL's physical representation by precision, per
// spec.md §4.4's mapping table: up to 9 digits fits INT32, up to 18 fits
// INT64, beyond that BINARY (a variable-length two's-complement unscaled
// value; p>18 is the table's BYTE_ARRAY row, not FIXED_LEN_BYTE_ARRAY).
func decimalPhysical(precision int) (PhysicalKind, int) {
	switch {
	case precision <= 9:
		return PhysicalInt32, 0
	case precision <= 18:
		return PhysicalInt64, 0
	default:
		return PhysicalByteArray, 0
	}
}
