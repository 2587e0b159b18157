package parquetrecord

// TimeUnit is the resolution of a TIME or TIMESTAMP logical type, following
// the three units Parquet's format recognizes.
type TimeUnit int8

const (
	Millis TimeUnit = iota
	Micros
	Nanos
)

func (u TimeUnit) String() string {
	switch u {
	case Millis:
		return "MILLIS"
	case Micros:
		return "MICROS"
	case Nanos:
		return "NANOS"
	default:
		return "TimeUnit(?)"
	}
}

// EntityKind is the closed variant of types a record field may declare, per
// the entity type lattice in spec.md §3.
type EntityKind int8

const (
	KindBool EntityKind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
	KindEnum
	KindBinary
	KindUUID
	KindDate
	KindTime
	KindTimestamp
	KindDecimal
	KindJSON
	KindBSON
	KindGeometry
	KindGeography
	KindVariant
	KindRecord
	KindList
	KindMap
	KindDynamicMap
)

func (k EntityKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt8:
		return "i8"
	case KindInt16:
		return "i16"
	case KindInt32:
		return "i32"
	case KindInt64:
		return "i64"
	case KindFloat32:
		return "f32"
	case KindFloat64:
		return "f64"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindBinary:
		return "binary"
	case KindUUID:
		return "uuid"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindTimestamp:
		return "timestamp"
	case KindDecimal:
		return "decimal"
	case KindJSON:
		return "json"
	case KindBSON:
		return "bson"
	case KindGeometry:
		return "geometry"
	case KindGeography:
		return "geography"
	case KindVariant:
		return "variant"
	case KindRecord:
		return "record"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindDynamicMap:
		return "dynamic_map"
	default:
		return "EntityKind(?)"
	}
}

// IsPrimitive reports whether k is a leaf (non-composite) entity kind.
func (k EntityKind) IsPrimitive() bool {
	return k < KindRecord
}

// PhysicalKind is the physical on-disk representation Parquet uses to store
// a leaf column, per the mapping table in spec.md §4.4.
type PhysicalKind int8

const (
	PhysicalBoolean PhysicalKind = iota
	PhysicalInt32
	PhysicalInt64
	PhysicalFloat
	PhysicalDouble
	PhysicalByteArray
	PhysicalFixedLenByteArray
)

func (p PhysicalKind) String() string {
	switch p {
	case PhysicalBoolean:
		return "BOOLEAN"
	case PhysicalInt32:
		return "INT32"
	case PhysicalInt64:
		return "INT64"
	case PhysicalFloat:
		return "FLOAT"
	case PhysicalDouble:
		return "DOUBLE"
	case PhysicalByteArray:
		return "BYTE_ARRAY"
	case PhysicalFixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "PhysicalKind(?)"
	}
}

// LogicalTag discriminates the annotation carried by LogicalType.
type LogicalTag int8

const (
	LogicalNone LogicalTag = iota
	LogicalInt
	LogicalString
	LogicalEnum
	LogicalJSON
	LogicalBSON
	LogicalUUID
	LogicalDate
	LogicalTime
	LogicalTimestamp
	LogicalDecimal
	LogicalGeometry
	LogicalGeography
	LogicalVariant
	LogicalList
	LogicalMap
)

// LogicalType annotates a physical column (or, for List/Map, a GROUP node)
// with the richer semantic meaning spec.md §4.4 requires. Only the fields
// relevant to Tag are meaningful; the others are zero.
type LogicalType struct {
	Tag             LogicalTag
	BitWidth        int // LogicalInt: 8 or 16
	Signed          bool
	Unit            TimeUnit // LogicalTime, LogicalTimestamp
	IsAdjustedToUTC bool     // LogicalTime, LogicalTimestamp
	Precision       int      // LogicalDecimal
	Scale           int      // LogicalDecimal
	GeoCRS          string   // LogicalGeometry, LogicalGeography
	GeoAlgorithm    string   // LogicalGeography
}

func (t *LogicalType) String() string {
	if t == nil {
		return ""
	}
	switch t.Tag {
	case LogicalInt:
		sign := "signed"
		if !t.Signed {
			sign = "unsigned"
		}
		return "INT(" + itoa(t.BitWidth) + "," + sign + ")"
	case LogicalString:
		return "STRING"
	case LogicalEnum:
		return "ENUM"
	case LogicalJSON:
		return "JSON"
	case LogicalBSON:
		return "BSON"
	case LogicalUUID:
		return "UUID"
	case LogicalDate:
		return "DATE"
	case LogicalTime:
		return "TIME(" + t.Unit.String() + ")"
	case LogicalTimestamp:
		return "TIMESTAMP(" + t.Unit.String() + ")"
	case LogicalDecimal:
		return "DECIMAL(" + itoa(t.Precision) + "," + itoa(t.Scale) + ")"
	case LogicalGeometry:
		return "GEOMETRY"
	case LogicalGeography:
		return "GEOGRAPHY"
	case LogicalVariant:
		return "VARIANT"
	case LogicalList:
		return "LIST"
	case LogicalMap:
		return "MAP"
	default:
		return ""
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ListLevels selects the Parquet "annotated levels" convention used to
// encode a List(T) field, per spec.md §4.4.
type ListLevels int8

const (
	OneLevel ListLevels = iota + 1
	TwoLevel
	ThreeLevel
)

func (l ListLevels) String() string {
	switch l {
	case OneLevel:
		return "ONE"
	case TwoLevel:
		return "TWO"
	case ThreeLevel:
		return "THREE"
	default:
		return "ListLevels(?)"
	}
}

// NamingPolicy transforms a field's logical (declared) name into its wire
// name when no alias annotation is present.
type NamingPolicy int8

const (
	AsIs NamingPolicy = iota
	SnakeCase
)

// FieldMatchStrategy is the closed set of strategies C7 tries, in priority
// order, when resolving a requested field against file columns.
type FieldMatchStrategy int8

const (
	FieldName FieldMatchStrategy = iota
	FieldNameSnakeCase
	BestEffort
)

// RoundingMode selects how a decimal value's scale is adjusted when it must
// be narrowed (fewer fractional digits) to match a requested field's scale,
// per spec.md §4.12. RoundUnspecified means no adjustment is permitted: a
// narrowing rescale fails with DecimalScaleMismatch instead of silently
// losing digits.
type RoundingMode int8

const (
	RoundUnspecified RoundingMode = iota
	RoundHalfUp
	RoundDown
)

func (m RoundingMode) String() string {
	switch m {
	case RoundHalfUp:
		return "HALF_UP"
	case RoundDown:
		return "DOWN"
	default:
		return "UNSPECIFIED"
	}
}
