package fixed

import (
	"math"
	"math/bits"
	"strconv"
)

// Q32.32 layout of the raw representation.
const (
	Shift = 32
	scale = 1 << Shift
	half  = 1 << (Shift - 1)
)

// Scalar is a deterministic Q32.32 fixed-point number. The zero value is 0.
type Scalar struct {
	raw int64
}

var (
	Zero = Scalar{}
	One  = Scalar{raw: scale}
	Max  = Scalar{raw: math.MaxInt64}
	Min  = Scalar{raw: math.MinInt64}
)

// FromFloat converts f rounding to the nearest representable value,
// halves away from zero. NaN becomes zero and out-of-range values saturate.
func FromFloat(f float64) Scalar {
	if math.IsNaN(f) {
		return Zero
	}
	r := math.Round(f * scale)
	if r >= math.MaxInt64 {
		return Max
	}
	if r <= math.MinInt64 {
		return Min
	}
	return Scalar{raw: int64(r)}
}

// FromInt converts a whole number of units.
func FromInt(i int) Scalar { return Scalar{raw: int64(i) << Shift} }

// FromRaw reinterprets a raw Q32.32 bit pattern.
func FromRaw(raw int64) Scalar { return Scalar{raw: raw} }

// Raw returns the bit pattern written to the wire.
func (s Scalar) Raw() int64 { return s.raw }

// Int returns the whole part, floored toward negative infinity.
func (s Scalar) Int() int { return int(s.raw >> Shift) }

// Float64 is for diagnostics and display only.
func (s Scalar) Float64() float64 { return float64(s.raw) / scale }

func (s Scalar) Add(o Scalar) Scalar { return Scalar{raw: s.raw + o.raw} }
func (s Scalar) Sub(o Scalar) Scalar { return Scalar{raw: s.raw - o.raw} }
func (s Scalar) Neg() Scalar         { return Scalar{raw: -s.raw} }

func (s Scalar) Abs() Scalar {
	if s.raw < 0 {
		return Scalar{raw: -s.raw}
	}
	return s
}

// Mul multiplies through a 128-bit intermediate and rounds the dropped
// fractional bits to nearest.
func (s Scalar) Mul(o Scalar) Scalar {
	a, b := s.raw, o.raw
	if a == 0 || b == 0 {
		return Zero
	}
	negative := (a < 0) != (b < 0)
	hi, lo := bits.Mul64(uabs(a), uabs(b))

	// Q64.64 -> Q32.32
	lo, carry := bits.Add64(lo, half, 0)
	hi += carry
	if hi>>(64-Shift) != 0 {
		return saturate(negative)
	}
	u := hi<<(64-Shift) | lo>>Shift
	return fromMagnitude(u, negative)
}

// Div divides through a 128-bit dividend. Division by zero yields zero and
// quotients outside the int64 range saturate.
func (s Scalar) Div(o Scalar) Scalar {
	a, b := s.raw, o.raw
	if b == 0 {
		return Zero
	}
	negative := (a < 0) != (b < 0)
	ua, ub := uabs(a), uabs(b)

	hi := ua >> (64 - Shift)
	lo := ua << Shift
	if hi >= ub {
		return saturate(negative)
	}
	quo, _ := bits.Div64(hi, lo, ub)
	return fromMagnitude(quo, negative)
}

// Cmp returns -1, 0 or +1.
func (s Scalar) Cmp(o Scalar) int {
	switch {
	case s.raw < o.raw:
		return -1
	case s.raw > o.raw:
		return 1
	}
	return 0
}

func (s Scalar) Less(o Scalar) bool  { return s.raw < o.raw }
func (s Scalar) Equal(o Scalar) bool { return s.raw == o.raw }
func (s Scalar) IsZero() bool        { return s.raw == 0 }

func (s Scalar) String() string {
	return strconv.FormatFloat(s.Float64(), 'f', -1, 64)
}

func uabs(x int64) uint64 {
	if x < 0 {
		return uint64(-x)
	}
	return uint64(x)
}

func saturate(negative bool) Scalar {
	if negative {
		return Min
	}
	return Max
}

func fromMagnitude(u uint64, negative bool) Scalar {
	if negative {
		if u > 1<<63 {
			return Min
		}
		return Scalar{raw: -int64(u)}
	}
	if u > math.MaxInt64 {
		return Max
	}
	return Scalar{raw: int64(u)}
}
