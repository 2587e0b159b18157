package parquetrecord

import (
	"reflect"
	"strconv"
	"strings"
)

// primitiveHints carries the per-field annotation overrides from spec.md
// §4.2: alias is resolved separately (it drives WireName, not EntityType).
type primitiveHints struct {
	enum         bool
	enumVariants []string
	json         bool
	bson         bool
	asString     bool
	variant      bool

	dateOnly bool
	timeOnly bool

	timeUnitSet bool
	timeUnit    TimeUnit

	decimalSet bool
	precision  int
	scale      int

	geometry     bool
	geography    bool
	geoCRS       string
	geoAlgorithm string
}

type structTagOptions struct {
	skip       bool
	alias      string
	hasFieldID bool
	fieldID    int32
	nonNull    bool
	hints      primitiveHints
}

// elemTag narrows a collection field's tag down to the options that apply
// to its element/value position rather than the collection itself (e.g.
// "list,enum" applies "enum" to the element, not to the list wrapper).
func (o structTagOptions) elemTag() structTagOptions {
	o.alias = ""
	o.hasFieldID = false
	return o
}

// structFieldsOf returns the exported fields of t in declaration order,
// following the teacher's column_buffer_go18.go structFieldsOf: a flat walk
// (no anonymous-field flattening) since spec.md's RecordDesc has no notion
// of embedding. Fields tagged `parquet:"-"` are still returned here;
// recordDescOf drops them.
func structFieldsOf(t reflect.Type) []reflect.StructField {
	fields := make([]reflect.StructField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// forEachStructTagOption splits a `parquet:"name,opt1,opt2(arg)"` tag into
// its comma-separated options, calling f(option, arg) for each, exactly as
// the teacher's column_buffer_go18.go does for its own (smaller) option
// set. The first, name-only token is not passed to f; callers that need it
// read tag.Get("parquet") themselves via parseStructTag.
func forEachStructTagOption(tag reflect.StructTag, f func(option, arg string)) {
	value, ok := tag.Lookup("parquet")
	if !ok {
		return
	}
	parts := strings.Split(value, ",")
	if len(parts) <= 1 {
		return
	}
	for _, part := range parts[1:] {
		option, arg := part, ""
		if i := strings.IndexByte(part, '('); i >= 0 && strings.HasSuffix(part, ")") {
			option, arg = part[:i], part[i+1:len(part)-1]
		}
		f(strings.TrimSpace(option), strings.TrimSpace(arg))
	}
}

func parseStructTag(tag reflect.StructTag) structTagOptions {
	var out structTagOptions

	value, ok := tag.Lookup("parquet")
	if ok {
		parts := strings.Split(value, ",")
		if parts[0] == "-" {
			out.skip = true
			return out
		}
		if parts[0] != "" {
			out.alias = parts[0]
		}
	}

	forEachStructTagOption(tag, func(option, arg string) {
		switch option {
		case "id":
			if n, err := strconv.Atoi(arg); err == nil {
				out.fieldID, out.hasFieldID = int32(n), true
			}
		case "required":
			out.nonNull = true
		case "enum":
			out.hints.enum = true
			if arg != "" {
				out.hints.enumVariants = strings.Split(arg, "|")
			}
		case "json":
			out.hints.json = true
		case "bson":
			out.hints.bson = true
		case "string":
			out.hints.asString = true
		case "variant":
			out.hints.variant = true
		case "date":
			out.hints.dateOnly = true
		case "time":
			out.hints.timeOnly = true
		case "millis":
			out.hints.timeUnitSet, out.hints.timeUnit = true, Millis
		case "micros":
			out.hints.timeUnitSet, out.hints.timeUnit = true, Micros
		case "nanos":
			out.hints.timeUnitSet, out.hints.timeUnit = true, Nanos
		case "decimal":
			out.hints.decimalSet = true
			p, s := splitPair(arg)
			out.hints.precision, out.hints.scale = p, s
		case "geometry":
			out.hints.geometry = true
			out.hints.geoCRS = arg
		case "geography":
			out.hints.geography = true
			crs, alg := splitPairString(arg)
			out.hints.geoCRS, out.hints.geoAlgorithm = crs, alg
		}
	})

	return out
}

func splitPair(arg string) (int, int) {
	a, b, _ := strings.Cut(arg, ":")
	p, _ := strconv.Atoi(strings.TrimSpace(a))
	s, _ := strconv.Atoi(strings.TrimSpace(b))
	return p, s
}

func splitPairString(arg string) (string, string) {
	a, b, _ := strings.Cut(arg, ":")
	return strings.TrimSpace(a), strings.TrimSpace(b)
}
