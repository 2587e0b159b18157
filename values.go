package parquetrecord

import (
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"
)

const (
	millisPerSecond = int64(1e3)
	microsPerSecond = int64(1e6)
	nanosPerSecond  = int64(1e9)

	millisPerDay = int64(24 * 60 * 60 * 1000)
)

func uuidBytesOf(fv reflect.Value) [16]byte {
	id := fv.Interface().(uuid.UUID)
	return [16]byte(id)
}

func uuidFromBytes(b []byte) (uuid.UUID, *SchemaError) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.UUID{}, errorf(TypeMismatch, nil, "invalid UUID bytes: %v", err)
	}
	return id, nil
}

// epochDaysOf converts a time.Time to the number of days since the Unix
// epoch, the DATE logical type's physical representation.
func epochDaysOf(fv reflect.Value) int32 {
	t := fv.Interface().(time.Time).UTC()
	days := t.Unix() / (millisPerDay / 1000)
	return int32(days)
}

func dateFromEpochDays(days int32) time.Time {
	return time.Unix(int64(days)*(millisPerDay/1000), 0).UTC()
}

// timeOfDayValueOf converts a time.Time's wall-clock time-of-day to the
// given unit, the TIME logical type's physical representation.
func timeOfDayValueOf(fv reflect.Value, unit TimeUnit) (int64, *SchemaError) {
	t := fv.Interface().(time.Time).UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	nanos := t.Sub(midnight).Nanoseconds()
	return convertFromNanos(nanos, unit)
}

func timeOfDayFromValue(v int64, unit TimeUnit) (time.Duration, *SchemaError) {
	nanos, err := convertToNanos(v, unit)
	if err != nil {
		return 0, err
	}
	return time.Duration(nanos), nil
}

// timestampValueOf converts a time.Time to a Unix instant in the given
// unit, the TIMESTAMP logical type's physical representation.
func timestampValueOf(fv reflect.Value, unit TimeUnit) int64 {
	t := fv.Interface().(time.Time).UTC()
	switch unit {
	case Millis:
		return t.UnixMilli()
	case Micros:
		return t.UnixMicro()
	default:
		return t.UnixNano()
	}
}

func timestampFromValue(v int64, unit TimeUnit) time.Time {
	switch unit {
	case Millis:
		return time.UnixMilli(v).UTC()
	case Micros:
		return time.UnixMicro(v).UTC()
	default:
		return time.Unix(0, v).UTC()
	}
}

func convertFromNanos(nanos int64, unit TimeUnit) (int64, *SchemaError) {
	switch unit {
	case Millis:
		return floorDiv(nanos, nanosPerSecond/millisPerSecond), nil
	case Micros:
		return floorDiv(nanos, nanosPerSecond/microsPerSecond), nil
	default:
		return nanos, nil
	}
}

// convertToNanos is convertFromNanos's inverse, using multiplyExact
// semantics per spec.md §7: a MILLIS/MICROS value whose nanosecond
// equivalent would overflow int64 fails with ArithmeticOverflow rather than
// silently wrapping.
func convertToNanos(v int64, unit TimeUnit) (int64, *SchemaError) {
	switch unit {
	case Millis:
		return multiplyExact(v, nanosPerSecond/millisPerSecond)
	case Micros:
		return multiplyExact(v, nanosPerSecond/microsPerSecond)
	default:
		return v, nil
	}
}

// multiplyExact multiplies a by b, failing with ArithmeticOverflow instead
// of wrapping when the mathematical product does not fit in int64.
func multiplyExact(a, b int64) (int64, *SchemaError) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/b != a {
		return 0, errorf(ArithmeticOverflow, nil, "time unit conversion overflow: %d * %d", a, b)
	}
	return product, nil
}

// floorDiv divides a by b, rounding toward negative infinity rather than
// toward zero (Go's native / truncates), matching spec.md §7's instant
// arithmetic requirement for values before the epoch.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// emitDecimal encodes an unscaled integer field value (the Go representation
// of a `decimal` field, per spec.md §4.2) into whichever physical
// representation its precision selected, per spec.md §4.4.
func emitDecimal(consumer RecordConsumer, fv reflect.Value, t EntityType) {
	unscaled := intValueOf(fv)
	phys, _ := decimalPhysical(t.Precision)
	switch phys {
	case PhysicalInt32:
		consumer.AddInt32(int32(unscaled))
	case PhysicalInt64:
		consumer.AddInt64(unscaled)
	default:
		consumer.AddBinary(bigIntToVarBytes(big.NewInt(unscaled)))
	}
}

// bigIntToFixedBytes renders n as a two's-complement big-endian byte slice
// of exactly length bytes, sign-extending or left-padding as needed.
func bigIntToFixedBytes(n *big.Int, length int) []byte {
	out := make([]byte, length)
	if n.Sign() >= 0 {
		b := n.Bytes()
		copy(out[length-len(b):], b)
		return out
	}

	// Two's complement negative encoding: (1<<bits) + n.
	bits := uint(length) * 8
	mod := new(big.Int).Lsh(big.NewInt(1), bits)
	twos := new(big.Int).Add(mod, n)
	b := twos.Bytes()
	for i := range out {
		out[i] = 0xff
	}
	copy(out[length-len(b):], b)
	return out
}

// bigIntToVarBytes renders n as a two's-complement big-endian byte slice
// just long enough for n's magnitude plus a sign bit, which round-trips
// through fixedBytesToBigInt: the BINARY encoding spec.md §4.4 selects for
// a decimal whose precision exceeds 18 digits. This is the shortest
// encoding except for negative values of the form -2^(8k-1) (e.g. -128),
// which get one extra leading 0xff byte.
func bigIntToVarBytes(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{0}
	}
	length := (n.BitLen() + 8) / 8 // +1 sign bit, rounded up to a whole byte
	return bigIntToFixedBytes(n, length)
}

// rescaleUnscaledDecimal adjusts an unscaled decimal integer carrying
// fileScale fractional digits to wantScale fractional digits, per spec.md
// §4.12. Widening (wantScale > fileScale) is always exact. Narrowing
// applies mode; the caller has already rejected RoundUnspecified narrowing
// with DecimalScaleMismatch before this runs.
func rescaleUnscaledDecimal(v int64, fileScale, wantScale int, mode RoundingMode) int64 {
	delta := fileScale - wantScale
	switch {
	case delta == 0:
		return v
	case delta < 0:
		return v * pow10(-delta)
	default:
		div := pow10(delta)
		q, r := v/div, v%div
		if r == 0 || mode == RoundDown {
			return q
		}
		if r < 0 {
			r = -r
		}
		if r*2 >= div {
			if v < 0 {
				return q - 1
			}
			return q + 1
		}
		return q
	}
}

func pow10(n int) int64 {
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

// fixedBytesToBigInt is the inverse of bigIntToFixedBytes, decoding a
// two's-complement big-endian fixed-length byte slice back to *big.Int.
func fixedBytesToBigInt(b []byte) *big.Int {
	n := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		bits := uint(len(b)) * 8
		mod := new(big.Int).Lsh(big.NewInt(1), bits)
		n.Sub(n, mod)
	}
	return n
}
