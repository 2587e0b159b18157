package parquetrecord

import (
	"fmt"
	"strings"
)

const (
	DefaultNaming             = AsIs
	DefaultListLevels         = ThreeLevel
	DefaultDecimalPrecision   = 0
	DefaultDecimalScale       = 0
	DefaultFieldMatchStrategy = FieldName
)

// WriteConfig carries the options that govern schema derivation (C1/C4) and
// record emission (C5): how Go field names become wire names, which time
// unit untagged timestamps get, and which LIST encoding convention new
// schemas use, per spec.md §4.
//
// WriteConfig implements WriteOption so it can be passed directly, e.g.
//
//	desc, err := parquetrecord.NewRecordDesc(t, &parquetrecord.WriteConfig{
//		Naming: parquetrecord.SnakeCase,
//	})
type WriteConfig struct {
	Naming          NamingPolicy
	ListLevels      ListLevels
	DefaultTimeUnit TimeUnit

	// DecimalPrecision/DecimalScale are only consulted when a `decimal`
	// struct tag omits its own precision:scale, which normally fails
	// introspection with DecimalConfigMissing; set them so a bare `decimal`
	// tag picks up a repo-wide precision/scale. A field with no `decimal`
	// tag at all stays an ordinary integer column.
	DecimalPrecision int
	DecimalScale     int

	// DecimalRounding records the rounding mode new decimal fields declare,
	// per spec.md §4.3's "default_decimal (precision, scale, optional
	// rounding mode)". Writing never itself rescales a decimal (a field is
	// always written at its own declared scale); this is carried on
	// WriteConfig so it travels with DecimalPrecision/DecimalScale, and
	// read-side rescaling is governed by the matching field on
	// ReaderConfig, since a Reader has no WriteConfig of its own.
	DecimalRounding RoundingMode
}

// DefaultWriteConfig returns a new WriteConfig initialized with this
// package's defaults.
func DefaultWriteConfig() *WriteConfig {
	return &WriteConfig{
		Naming:          DefaultNaming,
		ListLevels:      DefaultListLevels,
		DefaultTimeUnit: Millis,
	}
}

// Apply applies the given list of options to c.
func (c *WriteConfig) Apply(options ...WriteOption) {
	for _, opt := range options {
		opt.ConfigureWrite(c)
	}
}

// ConfigureWrite applies configuration options from c to config.
func (c *WriteConfig) ConfigureWrite(config *WriteConfig) {
	*config = WriteConfig{
		Naming:           coalesceNaming(c.Naming, config.Naming),
		ListLevels:       coalesceListLevels(c.ListLevels, config.ListLevels),
		DefaultTimeUnit:  coalesceTimeUnit(c.DefaultTimeUnit, config.DefaultTimeUnit),
		DecimalPrecision: coalesceInt(c.DecimalPrecision, config.DecimalPrecision),
		DecimalScale:     coalesceInt(c.DecimalScale, config.DecimalScale),
		DecimalRounding:  coalesceRoundingMode(c.DecimalRounding, config.DecimalRounding),
	}
}

// Validate returns a non-nil error if the configuration of c is invalid.
func (c *WriteConfig) Validate() error {
	const baseName = "parquetrecord.(*WriteConfig)."
	return errorInvalidConfiguration(
		validateOneOfInt(baseName+"ListLevels", int(c.ListLevels), int(OneLevel), int(TwoLevel), int(ThreeLevel)),
	)
}

// ReaderConfig carries the options that govern schema projection (C6) and
// record materialization (C8): how requested fields are matched against
// file columns, and which mismatches are tolerated rather than rejected, per
// spec.md §6.
type ReaderConfig struct {
	FieldMatchStrategy FieldMatchStrategy

	// FailOnMissingColumn, when true, makes projection reject a requested
	// field with no corresponding file column (MissingColumn) instead of
	// leaving it at its Go zero value.
	FailOnMissingColumn bool

	// FailOnNullForPrimitive, when true, makes materialization reject a
	// null value read into a non-pointer primitive field (NullForPrimitive)
	// instead of leaving it at its Go zero value.
	FailOnNullForPrimitive bool

	// FailNarrowingPrimitiveConversion, when true, makes projection reject
	// a narrowing numeric conversion (NarrowingNotAllowed) instead of
	// performing it.
	FailNarrowingPrimitiveConversion bool

	// DecimalRounding selects how a decimal column whose file scale differs
	// from the requested field's scale is rescaled during projection
	// (spec.md §4.12). Left at RoundUnspecified, a scale mismatch that
	// would lose digits fails with DecimalScaleMismatch; a mismatch that
	// only adds digits (widening) never needs a rounding mode.
	DecimalRounding RoundingMode
}

// DefaultReaderConfig returns a new ReaderConfig initialized with this
// package's defaults.
func DefaultReaderConfig() *ReaderConfig {
	return &ReaderConfig{
		FieldMatchStrategy: DefaultFieldMatchStrategy,
	}
}

// Apply applies the given list of options to c.
func (c *ReaderConfig) Apply(options ...ReaderOption) {
	for _, opt := range options {
		opt.ConfigureReader(c)
	}
}

// ConfigureReader applies configuration options from c to config.
func (c *ReaderConfig) ConfigureReader(config *ReaderConfig) {
	*config = ReaderConfig{
		FieldMatchStrategy:               coalesceFieldMatchStrategy(c.FieldMatchStrategy, config.FieldMatchStrategy),
		FailOnMissingColumn:              config.FailOnMissingColumn || c.FailOnMissingColumn,
		FailOnNullForPrimitive:           config.FailOnNullForPrimitive || c.FailOnNullForPrimitive,
		FailNarrowingPrimitiveConversion: config.FailNarrowingPrimitiveConversion || c.FailNarrowingPrimitiveConversion,
		DecimalRounding:                  coalesceRoundingMode(c.DecimalRounding, config.DecimalRounding),
	}
}

// Validate returns a non-nil error if the configuration of c is invalid.
func (c *ReaderConfig) Validate() error {
	const baseName = "parquetrecord.(*ReaderConfig)."
	return errorInvalidConfiguration(
		validateOneOfInt(baseName+"FieldMatchStrategy", int(c.FieldMatchStrategy), int(FieldName), int(FieldNameSnakeCase), int(BestEffort)),
	)
}

// WriteOption is an interface implemented by types that carry configuration
// options for schema derivation and record emission.
type WriteOption interface {
	ConfigureWrite(*WriteConfig)
}

// ReaderOption is an interface implemented by types that carry configuration
// options for schema projection and record materialization.
type ReaderOption interface {
	ConfigureReader(*ReaderConfig)
}

// WithNaming creates a write option that sets the naming policy applied to
// fields with no `parquet:"alias"` tag.
//
// Defaults to AsIs.
func WithNaming(policy NamingPolicy) WriteOption {
	return writeOption(func(config *WriteConfig) { config.Naming = policy })
}

// WithListLevels creates a write option that sets the LIST encoding
// convention new schemas use for slice/array fields.
//
// Defaults to ThreeLevel.
func WithListLevels(levels ListLevels) WriteOption {
	return writeOption(func(config *WriteConfig) { config.ListLevels = levels })
}

// WithDefaultTimeUnit creates a write option that sets the time unit applied
// to time.Time fields with no explicit `millis`/`micros`/`nanos` tag.
//
// Defaults to Millis.
func WithDefaultTimeUnit(unit TimeUnit) WriteOption {
	return writeOption(func(config *WriteConfig) { config.DefaultTimeUnit = unit })
}

// WithDecimalDefaults creates a write option that sets the precision/scale
// applied to a `decimal` tag with no explicit precision:scale, and
// optionally the rounding mode that travels with them (spec.md §4.3's
// "default_decimal (precision, scale, optional rounding mode)"). Omitting
// rounding leaves DecimalRounding at RoundUnspecified.
func WithDecimalDefaults(precision, scale int, rounding ...RoundingMode) WriteOption {
	return writeOption(func(config *WriteConfig) {
		config.DecimalPrecision = precision
		config.DecimalScale = scale
		if len(rounding) > 0 {
			config.DecimalRounding = rounding[0]
		}
	})
}

// WithFieldMatchStrategy creates a reader option that sets how requested
// fields are matched against file columns.
//
// Defaults to FieldName.
func WithFieldMatchStrategy(strategy FieldMatchStrategy) ReaderOption {
	return readerOption(func(config *ReaderConfig) { config.FieldMatchStrategy = strategy })
}

// FailOnMissingColumn creates a reader option controlling whether a
// requested field with no corresponding file column is a hard error.
//
// Defaults to false.
func FailOnMissingColumn(fail bool) ReaderOption {
	return readerOption(func(config *ReaderConfig) { config.FailOnMissingColumn = fail })
}

// FailOnNullForPrimitive creates a reader option controlling whether a null
// value read into a non-pointer primitive field is a hard error.
//
// Defaults to false.
func FailOnNullForPrimitive(fail bool) ReaderOption {
	return readerOption(func(config *ReaderConfig) { config.FailOnNullForPrimitive = fail })
}

// FailNarrowingPrimitiveConversion creates a reader option controlling
// whether a narrowing numeric conversion during projection is a hard error.
//
// Defaults to false.
func FailNarrowingPrimitiveConversion(fail bool) ReaderOption {
	return readerOption(func(config *ReaderConfig) { config.FailNarrowingPrimitiveConversion = fail })
}

// WithDecimalRounding creates a reader option that sets the rounding mode
// applied when a decimal column's file scale must be narrowed to match a
// requested field's scale, per spec.md §4.12.
//
// Defaults to RoundUnspecified, which fails a narrowing rescale with
// DecimalScaleMismatch.
func WithDecimalRounding(mode RoundingMode) ReaderOption {
	return readerOption(func(config *ReaderConfig) { config.DecimalRounding = mode })
}

type writeOption func(*WriteConfig)

func (opt writeOption) ConfigureWrite(config *WriteConfig) { opt(config) }

type readerOption func(*ReaderConfig)

func (opt readerOption) ConfigureReader(config *ReaderConfig) { opt(config) }

func coalesceInt(i1, i2 int) int {
	if i1 != 0 {
		return i1
	}
	return i2
}

func coalesceNaming(n1, n2 NamingPolicy) NamingPolicy {
	if n1 != AsIs {
		return n1
	}
	return n2
}

func coalesceListLevels(l1, l2 ListLevels) ListLevels {
	if l1 != 0 {
		return l1
	}
	return l2
}

func coalesceTimeUnit(u1, u2 TimeUnit) TimeUnit {
	if u1 != Millis {
		return u1
	}
	return u2
}

func coalesceFieldMatchStrategy(s1, s2 FieldMatchStrategy) FieldMatchStrategy {
	if s1 != FieldName {
		return s1
	}
	return s2
}

func coalesceRoundingMode(m1, m2 RoundingMode) RoundingMode {
	if m1 != RoundUnspecified {
		return m1
	}
	return m2
}

func validateOneOfInt(optionName string, optionValue int, supportedValues ...int) error {
	for _, value := range supportedValues {
		if value == optionValue {
			return nil
		}
	}
	return errorInvalidOptionValue(optionName, optionValue)
}

func errorInvalidOptionValue(optionName string, optionValue interface{}) error {
	return fmt.Errorf("invalid option value: %s: %v", optionName, optionValue)
}

func errorInvalidConfiguration(reasons ...error) error {
	var err *invalidConfiguration

	for _, reason := range reasons {
		if reason != nil {
			if err == nil {
				err = new(invalidConfiguration)
			}
			err.reasons = append(err.reasons, reason)
		}
	}

	if err != nil {
		return err
	}

	return nil
}

type invalidConfiguration struct {
	reasons []error
}

func (err *invalidConfiguration) Error() string {
	errorMessage := new(strings.Builder)
	for _, reason := range err.reasons {
		errorMessage.WriteString(reason.Error())
		errorMessage.WriteString("\n")
	}
	errorString := errorMessage.String()
	if errorString != "" {
		errorString = errorString[:len(errorString)-1]
	}
	return errorString
}

var (
	_ WriteOption  = (*WriteConfig)(nil)
	_ ReaderOption = (*ReaderConfig)(nil)
)
