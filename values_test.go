package parquetrecord

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFloorDiv(t *testing.T) {
	require.Equal(t, int64(2), floorDiv(7, 3))
	require.Equal(t, int64(-3), floorDiv(-7, 3))
	require.Equal(t, int64(0), floorDiv(0, 3))
}

func TestConvertFromNanosAndBack(t *testing.T) {
	nanos := int64(123_456_789_000)
	millis, err := convertFromNanos(nanos, Millis)
	require.Nil(t, err)
	require.Equal(t, int64(123456), millis)

	back, err := convertToNanos(millis, Millis)
	require.Nil(t, err)
	require.Equal(t, nanos-789_000, back)

	micros, err := convertFromNanos(nanos, Micros)
	require.Nil(t, err)
	require.Equal(t, int64(123456789), micros)
}

func TestConvertToNanos_Overflow(t *testing.T) {
	_, err := convertToNanos(math.MaxInt64/100, Millis)
	require.NotNil(t, err)
	require.Equal(t, ArithmeticOverflow, err.Kind)
}

func TestEpochDaysRoundTrip(t *testing.T) {
	in := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	days := epochDaysOf(reflect.ValueOf(in))
	out := dateFromEpochDays(days)
	require.True(t, in.Equal(out))
}

func TestTimeOfDayRoundTrip(t *testing.T) {
	in := time.Date(1970, 1, 1, 14, 5, 30, 0, time.UTC)
	v, err := timeOfDayValueOf(reflect.ValueOf(in), Millis)
	require.Nil(t, err)

	d, err := timeOfDayFromValue(v, Millis)
	require.Nil(t, err)
	require.Equal(t, 14, dateFromEpochDays(0).Add(d).Hour())
}

func TestTimeOfDayFromValue_Overflow(t *testing.T) {
	_, err := timeOfDayFromValue(math.MaxInt64/100, Millis)
	require.NotNil(t, err)
	require.Equal(t, ArithmeticOverflow, err.Kind)
}
