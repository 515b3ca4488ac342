package decimal

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Cents is an amount in minor currency units
type Cents int64

// CentsPerUnit is the number of cents in one dollar
const CentsPerUnit = 100

var (
	// Zero is decimal zero
	Zero = decimal.Zero

	one      = decimal.NewFromInt(1)
	hundred  = decimal.NewFromInt(CentsPerUnit)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// MaxCents is the largest representable amount
const MaxCents = Cents(math.MaxInt64)

var (
	// ErrNonFinite is returned when a float amount is NaN or infinite
	ErrNonFinite = errors.New("amount is not a finite number")
	// ErrOverflow is returned when an amount does not fit in Cents
	ErrOverflow = errors.New("amount exceeds the largest representable value")
)

// FromFloat creates decimal from float, rejecting NaN and infinities.
// The float is taken at its shortest decimal representation (55.1 stays 55.1).
func FromFloat(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Zero, ErrNonFinite
	}
	return decimal.NewFromFloat(v), nil
}

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// FromCents converts cents back to a dollar decimal
func FromCents(c Cents) decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// FitsCents reports whether a dollar amount converts to Cents without
// overflowing
func FitsCents(amount decimal.Decimal) bool {
	return amount.Mul(hundred).Round(0).Abs().LessThanOrEqual(maxCents)
}

// ToCents converts a dollar amount to cents, rounding half away from zero
func ToCents(amount decimal.Decimal) Cents {
	return Round(amount.Mul(hundred))
}

// Round rounds a cent-denominated decimal to whole cents, half away from zero
func Round(d decimal.Decimal) Cents {
	return Cents(d.Round(0).IntPart())
}

// DivideByOnePlus divides whole cents by (1 + rate) and rounds to whole cents
func DivideByOnePlus(c Cents, rate decimal.Decimal) Cents {
	return Round(decimal.NewFromInt(int64(c)).Div(one.Add(rate)))
}

// MulRate multiplies whole cents by a rate and rounds to whole cents
func MulRate(c Cents, rate decimal.Decimal) Cents {
	return Round(decimal.NewFromInt(int64(c)).Mul(rate))
}

// Sum adds cent amounts, failing with ErrOverflow instead of wrapping
func Sum(values ...Cents) (Cents, error) {
	var result Cents
	for _, v := range values {
		if (v > 0 && result > MaxCents-v) || (v < 0 && result < math.MinInt64-v) {
			return 0, ErrOverflow
		}
		result += v
	}
	return result, nil
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}

// FormatMoney renders cents as a dollar string, e.g. 5500 -> "$55.00".
// Negative amounts keep the sign in front of the symbol.
func FormatMoney(c Cents) string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/CentsPerUnit, v%CentsPerUnit)
}

// String implements fmt.Stringer
func (c Cents) String() string {
	return FormatMoney(c)
}
