package parquetrecord

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteConfig_ApplyOverridesDefaults(t *testing.T) {
	cfg := DefaultWriteConfig()
	cfg.Apply(WithNaming(SnakeCase), WithDefaultTimeUnit(Micros), WithListLevels(TwoLevel))

	require.Equal(t, SnakeCase, cfg.Naming)
	require.Equal(t, Micros, cfg.DefaultTimeUnit)
	require.Equal(t, TwoLevel, cfg.ListLevels)
}

func TestWriteConfig_Validate_RejectsBadListLevels(t *testing.T) {
	cfg := DefaultWriteConfig()
	cfg.ListLevels = ListLevels(99)
	require.Error(t, cfg.Validate())
}

func TestReaderConfig_ApplyOverridesDefaults(t *testing.T) {
	cfg := DefaultReaderConfig()
	cfg.Apply(
		WithFieldMatchStrategy(BestEffort),
		FailOnMissingColumn(true),
		FailNarrowingPrimitiveConversion(true),
	)

	require.Equal(t, BestEffort, cfg.FieldMatchStrategy)
	require.True(t, cfg.FailOnMissingColumn)
	require.True(t, cfg.FailNarrowingPrimitiveConversion)
}

func TestReaderConfig_Validate_RejectsBadMatchStrategy(t *testing.T) {
	cfg := DefaultReaderConfig()
	cfg.FieldMatchStrategy = FieldMatchStrategy(99)
	require.Error(t, cfg.Validate())
}

func TestWriteConfigAsWriteOption(t *testing.T) {
	cfg := DefaultWriteConfig()
	cfg.Apply(&WriteConfig{Naming: SnakeCase})
	require.Equal(t, SnakeCase, cfg.Naming)
}
