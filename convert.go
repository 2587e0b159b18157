package parquetrecord

import "sort"

// ColumnProjection describes how a single entity — a record field, a list
// element, or a map key/value — maps onto a node of the file schema, per
// spec.md §6. Column is nil when Kind is a primitive kind with no matching
// file column; Record/Elem/Key/Value recurse for composite kinds.
type ColumnProjection struct {
	Kind     EntityKind
	Column   *Schema
	Narrowed bool

	// DecimalScaleDelta and DecimalRounding are meaningful only when
	// Kind == KindDecimal: DecimalScaleDelta is the file column's scale
	// minus the requested field's scale, and DecimalRounding is the mode
	// materializePrimitive applies via rescaleUnscaledDecimal when that
	// delta is nonzero, per spec.md §4.12.
	DecimalScaleDelta int
	DecimalRounding   RoundingMode

	Record *RecordProjection // KindRecord
	Elem   *ColumnProjection // KindList
	Key    *ColumnProjection // KindMap
	Value  *ColumnProjection // KindMap
}

// RecordProjection is the result of reconciling a RecordDesc against a file
// schema group: one ColumnProjection per desc.Fields entry, in the same
// order.
type RecordProjection struct {
	Desc   *RecordDesc
	Fields []ColumnProjection
}

// ProjectRecord reconciles desc against the file schema rooted at file,
// applying cfg's field matching strategy and narrowing/missing-column
// policy, per spec.md §6. It never mutates file or desc.
func ProjectRecord(file *Schema, desc *RecordDesc, cfg *ReaderConfig) (proj *RecordProjection, err *SchemaError) {
	return projectRecord(file, desc, cfg, nil)
}

func projectRecord(file *Schema, desc *RecordDesc, cfg *ReaderConfig, path []string) (*RecordProjection, *SchemaError) {
	proj := &RecordProjection{Desc: desc, Fields: make([]ColumnProjection, len(desc.Fields))}

	for i, fd := range desc.Fields {
		fieldPath := append(path[:len(path):len(path)], fd.LogicalName)

		column, merr := matchField(file, fd, cfg, path)
		if merr != nil {
			return nil, merr
		}
		if column == nil {
			if cfg.FailOnMissingColumn {
				return nil, errorf(MissingColumn, fieldPath, "no file column matches field %q", fd.WireName)
			}
			proj.Fields[i] = ColumnProjection{Kind: fd.Type.Kind}
			continue
		}

		cp, cerr := projectEntity(column, fd.Type, cfg, fieldPath)
		if cerr != nil {
			return nil, cerr
		}
		proj.Fields[i] = cp
	}

	return proj, nil
}

// projectEntity reconciles a single EntityType against the file schema node
// matched for it.
func projectEntity(column *Schema, t EntityType, cfg *ReaderConfig, path []string) (ColumnProjection, *SchemaError) {
	switch t.Kind {
	case KindRecord:
		if column.IsLeaf() {
			return ColumnProjection{}, errorf(TypeMismatch, path, "cannot read group field %q from a leaf column", column.Name)
		}
		sub, err := projectRecord(column, t.Record, cfg, path)
		if err != nil {
			return ColumnProjection{}, err
		}
		return ColumnProjection{Kind: KindRecord, Column: column, Record: sub}, nil

	case KindList:
		return projectList(column, t.Elem, cfg, path)

	case KindMap:
		return projectMap(column, t.Key, t.Value, cfg, path)

	case KindDynamicMap:
		return ColumnProjection{Kind: KindDynamicMap, Column: column}, nil

	case KindVariant:
		return ColumnProjection{Kind: KindVariant, Column: column}, nil

	default:
		narrowed, err := validateConvertible(column, t, cfg, path)
		if err != nil {
			return ColumnProjection{}, err
		}
		cp := ColumnProjection{Kind: t.Kind, Column: column, Narrowed: narrowed}
		if t.Kind == KindDecimal {
			cp.DecimalScaleDelta = decimalScaleDeltaOf(column, t)
			cp.DecimalRounding = cfg.DecimalRounding
		}
		return cp, nil
	}
}

// projectList unwraps the file schema's LIST encoding (spec.md §4.6, any of
// the one/two/three level conventions) down to its element node, then
// projects the element type against it. A ONE-level list (the repeated node
// itself is the element, elemNode == column) cannot nest a List or Map
// element, per spec.md §4.6: "Nested collections in ONE-level encoding are
// rejected".
func projectList(column *Schema, elem *EntityType, cfg *ReaderConfig, path []string) (ColumnProjection, *SchemaError) {
	elemNode := column
	oneLevel := true

	if !column.IsLeaf() && column.IsListGroup() {
		oneLevel = false
		switch column.listLevels() {
		case TwoLevel:
			elemNode = column.Children[0]
		case ThreeLevel:
			elemNode = column.Children[0].Children[0]
		default:
			elemNode = column.Children[0]
		}
	}

	if oneLevel && (elem.Kind == KindList || elem.Kind == KindMap) {
		return ColumnProjection{}, errorf(UnsupportedKind, path, "a ONE-level list cannot contain a nested List or Map")
	}

	ep, err := projectEntity(elemNode, *elem, cfg, path)
	if err != nil {
		return ColumnProjection{}, err
	}
	return ColumnProjection{Kind: KindList, Column: column, Elem: &ep}, nil
}

// projectMap unwraps the file schema's MAP group (a repeated key_value
// group with "key" and "value" children) and projects the key/value types
// against them.
func projectMap(column *Schema, key, value *EntityType, cfg *ReaderConfig, path []string) (ColumnProjection, *SchemaError) {
	if column.IsLeaf() || len(column.Children) != 1 {
		return ColumnProjection{}, errorf(TypeMismatch, path, "column %q is not shaped like a MAP group", column.Name)
	}
	keyValue := column.Children[0]
	keyNode, ok := keyValue.ChildByName("key")
	if !ok {
		return ColumnProjection{}, errorf(TypeMismatch, path, "MAP group %q has no key child", column.Name)
	}
	valueNode, ok := keyValue.ChildByName("value")
	if !ok {
		return ColumnProjection{}, errorf(TypeMismatch, path, "MAP group %q has no value child", column.Name)
	}

	if key.Kind != KindDynamicMap {
		if keyNode.Repetition != Required {
			return ColumnProjection{}, errorf(NullMapKey, path, "map keys must be required, got %s", keyNode.Repetition)
		}
	}

	kp, err := projectEntity(keyNode, *key, cfg, path)
	if err != nil {
		return ColumnProjection{}, err
	}
	vp, err := projectEntity(valueNode, *value, cfg, path)
	if err != nil {
		return ColumnProjection{}, err
	}
	return ColumnProjection{Kind: KindMap, Column: column, Key: &kp, Value: &vp}, nil
}

// validateConvertible checks that a primitive EntityType can be populated
// from the file column's physical/logical type, per spec.md §6's widening
// and narrowing rules. It returns narrowed=true when the conversion loses
// range or precision and is only permitted because
// cfg.FailNarrowingPrimitiveConversion is false, or, for a DECIMAL whose
// file scale exceeds the field's, because cfg.DecimalRounding selects a
// rounding mode.
func validateConvertible(column *Schema, want EntityType, cfg *ReaderConfig, path []string) (bool, *SchemaError) {
	have := entityKindOfColumn(column)

	if want.Kind == KindDecimal && have == KindDecimal {
		return checkDecimalScale(column, want, cfg, path)
	}

	if have == want.Kind {
		return false, nil
	}

	if isIntegerKind(have) && isIntegerKind(want.Kind) {
		return checkIntegerConversion(have, want.Kind, cfg, path)
	}
	if have == KindFloat32 && want.Kind == KindFloat64 {
		return false, nil
	}
	if have == KindFloat64 && want.Kind == KindFloat32 {
		return checkNarrowing(cfg, path, "FLOAT64 column narrowed to float32 field")
	}
	if (have == KindString && want.Kind == KindEnum) || (have == KindEnum && want.Kind == KindString) {
		return false, nil
	}
	if (have == KindString && want.Kind == KindUUID) || (have == KindUUID && want.Kind == KindString) {
		return false, nil
	}
	if have == KindDate && want.Kind == KindTimestamp {
		return false, nil
	}

	return false, errorf(TypeMismatch, path, "file column is %s, field requires %s", have, want.Kind)
}

// checkDecimalScale compares a DECIMAL column's file scale against the
// requested field's scale, per spec.md §4.12: equal scales need no
// adjustment, a file scale narrower than the field's widens exactly, and a
// file scale wider than the field's narrows only when cfg.DecimalRounding
// selects a rounding mode — otherwise it fails with DecimalScaleMismatch.
func checkDecimalScale(column *Schema, want EntityType, cfg *ReaderConfig, path []string) (bool, *SchemaError) {
	fileScale := 0
	if column.Logical != nil {
		fileScale = column.Logical.Scale
	}
	switch {
	case fileScale == want.Scale:
		return false, nil
	case fileScale < want.Scale:
		return false, nil
	case cfg.DecimalRounding == RoundUnspecified:
		return false, errorf(DecimalScaleMismatch, path, "decimal column scale %d cannot be narrowed to field scale %d without a rounding mode", fileScale, want.Scale)
	default:
		return true, nil
	}
}

// decimalScaleDeltaOf reports how many more fractional digits the file
// column carries than the requested field, for rescaleUnscaledDecimal.
func decimalScaleDeltaOf(column *Schema, want EntityType) int {
	fileScale := 0
	if column.Logical != nil {
		fileScale = column.Logical.Scale
	}
	return fileScale - want.Scale
}

func checkIntegerConversion(have, want EntityKind, cfg *ReaderConfig, path []string) (bool, *SchemaError) {
	if integerWidth(want) >= integerWidth(have) {
		return false, nil
	}
	return checkNarrowing(cfg, path, "narrowing integer conversion")
}

func checkNarrowing(cfg *ReaderConfig, path []string, reason string) (bool, *SchemaError) {
	if cfg.FailNarrowingPrimitiveConversion {
		return false, errorf(NarrowingNotAllowed, path, reason)
	}
	return true, nil
}

func integerWidth(k EntityKind) int {
	switch k {
	case KindInt8:
		return 8
	case KindInt16:
		return 16
	case KindInt32:
		return 32
	case KindInt64:
		return 64
	default:
		return 0
	}
}

func isIntegerKind(k EntityKind) bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	default:
		return false
	}
}

// entityKindOfColumn infers the EntityKind a file schema leaf column
// represents, the inverse of physicalMappingOf, used to decide convertibility
// against a requested field's EntityType.
func entityKindOfColumn(column *Schema) EntityKind {
	if column.Logical != nil {
		switch column.Logical.Tag {
		case LogicalInt:
			switch column.Logical.BitWidth {
			case 8:
				return KindInt8
			case 16:
				return KindInt16
			default:
				return KindInt32
			}
		case LogicalString:
			return KindString
		case LogicalEnum:
			return KindEnum
		case LogicalUUID:
			return KindUUID
		case LogicalDate:
			return KindDate
		case LogicalTime:
			return KindTime
		case LogicalTimestamp:
			return KindTimestamp
		case LogicalDecimal:
			return KindDecimal
		case LogicalJSON:
			return KindJSON
		case LogicalBSON:
			return KindBSON
		case LogicalGeometry:
			return KindGeometry
		case LogicalGeography:
			return KindGeography
		case LogicalVariant:
			return KindVariant
		}
	}
	switch column.Physical {
	case PhysicalBoolean:
		return KindBool
	case PhysicalInt32:
		return KindInt32
	case PhysicalInt64:
		return KindInt64
	case PhysicalFloat:
		return KindFloat32
	case PhysicalDouble:
		return KindFloat64
	default:
		return KindBinary
	}
}

// comm partitions two sorted string slices into the elements unique to each
// and the elements common to both, following the teacher's convert.go merge
// helper used here for diagnostic "extra/missing column" reporting.
func comm(sortedStrings1, sortedStrings2 []string) (only1, only2, both []string) {
	i1, i2 := 0, 0

	for i1 < len(sortedStrings1) && i2 < len(sortedStrings2) {
		switch {
		case sortedStrings1[i1] < sortedStrings2[i2]:
			only1 = append(only1, sortedStrings1[i1])
			i1++
		case sortedStrings1[i1] > sortedStrings2[i2]:
			only2 = append(only2, sortedStrings2[i2])
			i2++
		default:
			both = append(both, sortedStrings1[i1])
			i1++
			i2++
		}
	}

	only1 = append(only1, sortedStrings1[i1:]...)
	only2 = append(only2, sortedStrings2[i2:]...)
	return only1, only2, both
}

// missingColumns reports the wire names desc declares that have no match
// among fileNames, for use in diagnostic messages and tests; it does not
// participate in ProjectRecord's own matching (which uses matchField's
// strategy ceiling, not a plain sorted-set diff).
func missingColumns(desc *RecordDesc, fileNames []string) []string {
	wanted := make([]string, len(desc.Fields))
	for i, f := range desc.Fields {
		wanted[i] = f.WireName
	}
	sort.Strings(wanted)
	sorted := append([]string(nil), fileNames...)
	sort.Strings(sorted)
	missing, _, _ := comm(wanted, sorted)
	return missing
}
