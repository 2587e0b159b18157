package parquetrecord

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// FieldDesc describes one field of a RecordDesc: its declared Go shape and
// the annotations that govern how it maps to a Parquet column, per
// spec.md §3.
type FieldDesc struct {
	LogicalName string
	WireName    string
	Type        EntityType
	Nullable    bool
	FieldID     int32
	HasFieldID  bool

	hints primitiveHints
	index []int // reflect.Type.FieldByIndex path, for structs with embedding
}

// EntityType is the closed variant of field shapes from spec.md §3: a
// primitive kind, a nested record, a list, a map, or (read-only)
// DynamicMap.
type EntityType struct {
	Kind EntityKind

	// Primitive hints, meaningful only when Kind.IsPrimitive().
	EnumVariants    []string
	Unit            TimeUnit
	IsAdjustedToUTC bool
	Precision       int
	Scale           int
	GeoCRS          string
	GeoAlgorithm    string

	// Composite payloads.
	Record *RecordDesc // KindRecord
	Elem   *EntityType // KindList
	Key    *EntityType // KindMap
	Value  *EntityType // KindMap

	// ElemNullable reports whether KindList's element type was declared as
	// a Go pointer (e.g. []*string, []*Child), permitting a null element
	// in THREE-level list encoding, per spec.md §4.6.
	ElemNullable bool
}

// RecordDesc is an ordered sequence of FieldDesc, computed once per record
// type and immutable thereafter (spec.md §3 "Lifecycles").
type RecordDesc struct {
	GoType reflect.Type
	Fields []FieldDesc
}

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

func isUUID(t reflect.Type) bool { return t == uuidType }

// introspectCache shares RecordDesc instances for Go types seen before,
// keyed on the type's identity, as spec.md §4.1 requires ("shares RecordDesc
// instances for types seen before").
type introspectCache struct {
	byType map[reflect.Type]*RecordDesc
}

// NewRecordDesc introspects a Go struct type (or pointer to one) into a
// RecordDesc, applying the naming policy and decimal/time-unit defaults
// from cfg. It fails with UnsupportedKind when a field's Go shape has no
// entity-lattice mapping, and with DuplicateFieldId when two sibling
// fields in the same record scope declare the same field id.
//
// Panics carrying a *SchemaError are used internally to unwind out of the
// recursive descent; NewRecordDesc is the only place they are recovered,
// matching the teacher's Convert/ConvertError trampoline.
func NewRecordDesc(t reflect.Type, cfg *WriteConfig) (desc *RecordDesc, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*SchemaError); ok {
				err = se
				return
			}
			panic(r)
		}
	}()

	t = dereference(t)
	cache := &introspectCache{byType: map[reflect.Type]*RecordDesc{}}
	desc = recordDescOf(t, cfg, cache, nil)
	if err2 := validateFieldIDs(desc, nil); err2 != nil {
		return nil, err2
	}
	return desc, nil
}

func dereference(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func recordDescOf(t reflect.Type, cfg *WriteConfig, cache *introspectCache, path []string) *RecordDesc {
	if t.Kind() != reflect.Struct {
		panic(errorf(UnsupportedKind, path, "expected a struct type, got %s", t))
	}
	if cached, ok := cache.byType[t]; ok {
		if cached.Fields == nil {
			panic(errorf(UnsupportedKind, path, "record type %s refers to itself", t))
		}
		return cached
	}

	desc := &RecordDesc{GoType: t}
	cache.byType[t] = desc // Fields stays nil until resolved, so a self-referential type fails above via UnsupportedKind, not an infinite loop

	fields := structFieldsOf(t)
	descFields := make([]FieldDesc, 0, len(fields))

	for _, f := range fields {
		tag := parseStructTag(f.Tag)
		if tag.skip {
			continue
		}

		fieldPath := append(path[:len(path):len(path)], f.Name)
		fd := FieldDesc{
			LogicalName: f.Name,
			WireName:    wireNameOf(f.Name, tag, cfg),
			index:       f.Index,
			hints:       tag.hints,
		}
		if tag.hasFieldID {
			fd.FieldID, fd.HasFieldID = tag.fieldID, true
		}

		goType := f.Type
		nullable := false
		if goType.Kind() == reflect.Ptr {
			nullable = true
			goType = goType.Elem()
		}

		fd.Type = entityTypeOf(goType, tag, cfg, cache, fieldPath)

		// Collections, Variant and DynamicMap are nullable (an absent
		// slice/map/interface value) unless the tag marks them non-null;
		// records and primitives follow the pointer-ness of the Go field,
		// per spec.md §4.1. Variant/DynamicMap are backed by a Go
		// interface{}, never a pointer, so they need the same treatment as
		// collections to ever be nullable at all.
		switch fd.Type.Kind {
		case KindList, KindMap, KindVariant, KindDynamicMap:
			fd.Nullable = nullable || !tag.nonNull
		default:
			fd.Nullable = nullable
		}

		descFields = append(descFields, fd)
	}

	desc.Fields = descFields
	return desc
}

// entityTypeOf resolves the EntityType for a (possibly already
// pointer-dereferenced) Go type, recursing into collections and nested
// structs.
func entityTypeOf(t reflect.Type, tag structTagOptions, cfg *WriteConfig, cache *introspectCache, path []string) EntityType {
	switch {
	case t == timeType:
		return timestampEntityType(tag, cfg)
	case isUUID(t):
		return EntityType{Kind: KindUUID}
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		return binaryEntityType(tag)
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		elemType := elemOf(t)
		elemNullable := false
		if elemType.Kind() == reflect.Ptr {
			elemNullable = true
			elemType = elemType.Elem()
		}
		elem := entityTypeOf(elemType, tag.elemTag(), cfg, cache, path)
		return EntityType{Kind: KindList, Elem: &elem, ElemNullable: elemNullable}
	case t.Kind() == reflect.Map && t.Key().Kind() == reflect.String && t.Elem().Kind() == reflect.Interface:
		return EntityType{Kind: KindDynamicMap}
	case t.Kind() == reflect.Map:
		if t.Key().Kind() == reflect.Slice || t.Key().Kind() == reflect.Map {
			panic(errorf(UnsupportedKind, path, "map key type %s cannot be a collection", t.Key()))
		}
		key := entityTypeOf(t.Key(), structTagOptions{}, cfg, cache, path)
		val := entityTypeOf(t.Elem(), tag.elemTag(), cfg, cache, path)
		return EntityType{Kind: KindMap, Key: &key, Value: &val}
	case t.Kind() == reflect.Struct:
		sub := recordDescOf(t, cfg, cache, path)
		return EntityType{Kind: KindRecord, Record: sub}
	case t.Kind() == reflect.Bool:
		return EntityType{Kind: KindBool}
	case t.Kind() == reflect.Int8, t.Kind() == reflect.Uint8:
		return EntityType{Kind: KindInt8}
	case t.Kind() == reflect.Int16, t.Kind() == reflect.Uint16:
		return EntityType{Kind: KindInt16}
	case t.Kind() == reflect.Int32, t.Kind() == reflect.Uint32:
		return EntityType{Kind: KindInt32}
	case t.Kind() == reflect.Int, t.Kind() == reflect.Int64, t.Kind() == reflect.Uint, t.Kind() == reflect.Uint64:
		return decimalOrInt(tag, cfg, path)
	case t.Kind() == reflect.Float32:
		return EntityType{Kind: KindFloat32}
	case t.Kind() == reflect.Float64:
		return EntityType{Kind: KindFloat64}
	case t.Kind() == reflect.String:
		return stringEntityType(tag)
	case t.Kind() == reflect.Interface && t.NumMethod() == 0 && tag.hints.variant:
		return EntityType{Kind: KindVariant}
	default:
		panic(errorf(UnsupportedKind, path, "no parquet mapping for Go type %s", t))
	}
}

func decimalOrInt(tag structTagOptions, cfg *WriteConfig, path []string) EntityType {
	if !tag.hints.decimalSet {
		return EntityType{Kind: KindInt64}
	}
	precision, scale := tag.hints.precision, tag.hints.scale
	if precision == 0 {
		precision, scale = cfg.DecimalPrecision, cfg.DecimalScale
	}
	if precision == 0 {
		panic(errorf(DecimalConfigMissing, path, "decimal field has no precision/scale, and WriteConfig.DecimalPrecision is unset"))
	}
	return EntityType{Kind: KindDecimal, Precision: precision, Scale: scale}
}

func stringEntityType(tag structTagOptions) EntityType {
	switch {
	case tag.hints.enum:
		return EntityType{Kind: KindEnum, EnumVariants: tag.hints.enumVariants}
	case tag.hints.json:
		return EntityType{Kind: KindJSON}
	case tag.hints.geometry:
		return EntityType{Kind: KindGeometry, GeoCRS: tag.hints.geoCRS}
	case tag.hints.geography:
		return EntityType{Kind: KindGeography, GeoCRS: tag.hints.geoCRS, GeoAlgorithm: tag.hints.geoAlgorithm}
	default:
		return EntityType{Kind: KindString}
	}
}

func binaryEntityType(tag structTagOptions) EntityType {
	switch {
	case tag.hints.json:
		return EntityType{Kind: KindJSON}
	case tag.hints.bson:
		return EntityType{Kind: KindBSON}
	case tag.hints.asString:
		return EntityType{Kind: KindString}
	default:
		return EntityType{Kind: KindBinary}
	}
}

func timestampEntityType(tag structTagOptions, cfg *WriteConfig) EntityType {
	unit := cfg.DefaultTimeUnit
	if tag.hints.timeUnitSet {
		unit = tag.hints.timeUnit
	}
	if tag.hints.dateOnly {
		return EntityType{Kind: KindDate}
	}
	if tag.hints.timeOnly {
		return EntityType{Kind: KindTime, Unit: unit, IsAdjustedToUTC: true}
	}
	return EntityType{Kind: KindTimestamp, Unit: unit, IsAdjustedToUTC: true}
}

func elemOf(t reflect.Type) reflect.Type { return t.Elem() }

func wireNameOf(logicalName string, tag structTagOptions, cfg *WriteConfig) string {
	if tag.alias != "" {
		return tag.alias
	}
	if cfg.Naming == SnakeCase {
		return snakeCase(logicalName)
	}
	return logicalName
}

// validateFieldIDs enforces the sibling-uniqueness invariant from spec.md
// §3 ("Sibling field_ids are unique... they may repeat between different
// record scopes"), recursing into nested records, list elements, and map
// values.
func validateFieldIDs(desc *RecordDesc, path []string) *SchemaError {
	seen := map[int32]string{}
	for _, f := range desc.Fields {
		if f.HasFieldID {
			if prior, ok := seen[f.FieldID]; ok {
				return errorf(DuplicateFieldId, append(path, f.LogicalName), "field id %d already used by %q in this record scope", f.FieldID, prior)
			}
			seen[f.FieldID] = f.LogicalName
		}
		if err := validateFieldIDsInType(&f.Type, append(path[:len(path):len(path)], f.LogicalName)); err != nil {
			return err
		}
	}
	return nil
}

func validateFieldIDsInType(t *EntityType, path []string) *SchemaError {
	switch t.Kind {
	case KindRecord:
		return validateFieldIDs(t.Record, path)
	case KindList:
		return validateFieldIDsInType(t.Elem, path)
	case KindMap:
		return validateFieldIDsInType(t.Value, path)
	default:
		return nil
	}
}
