// Package money holds fixed-point monetary values.
//
// Amounts are stored as int64 minor units (paise) and rates as basis points.
// Arithmetic stays in integers; decimal conversion only happens when values
// cross a JSON or document boundary.
package money

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnits is the number of minor units in one major unit.
const MinorUnits = 100

// Money is an amount in minor units, e.g. Money(260000) is 2600.00.
type Money int64

// MaxAmount bounds any single amount in either direction: 10^15 minor units.
// Sums of a few thousand bounded amounts still fit in an int64.
const MaxAmount Money = 1_000_000_000_000_000

// ErrOutOfRange is returned when an amount's magnitude exceeds MaxAmount.
var ErrOutOfRange = errors.New("money: amount out of range")

var (
	hundred  = decimal.NewFromInt(MinorUnits)
	maxMinor = decimal.NewFromInt(int64(MaxAmount))
)

// FromMajor builds a Money value from whole major units.
func FromMajor(units int64) Money { return Money(units * MinorUnits) }

// FromDecimal converts a decimal major-unit amount, rounding half away from zero
// to the nearest minor unit.
func FromDecimal(d decimal.Decimal) (Money, error) {
	return fromMinor(d.Mul(hundred).Round(0))
}

func fromMinor(minor decimal.Decimal) (Money, error) {
	if minor.Abs().GreaterThan(maxMinor) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, minor.Div(hundred).String())
	}
	return Money(minor.IntPart()), nil
}

// Parse reads a decimal string such as "150", "150.5" or "150.50".
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("money: empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// Add returns m + other.
func (m Money) Add(other Money) Money { return m + other }

// Sub returns m - other.
func (m Money) Sub(other Money) Money { return m - other }

// Mul multiplies by an integer quantity. The product is computed exactly and
// fails with ErrOutOfRange instead of wrapping.
func (m Money) Mul(qty int64) (Money, error) {
	return fromMinor(decimal.NewFromInt(int64(m)).Mul(decimal.NewFromInt(qty)))
}

// AddChecked returns m + other, or ErrOutOfRange when the sum leaves the
// MaxAmount bound.
func (m Money) AddChecked(other Money) (Money, error) {
	return fromMinor(decimal.NewFromInt(int64(m)).Add(decimal.NewFromInt(int64(other))))
}

// Neg returns -m.
func (m Money) Neg() Money { return -m }

// Apply returns the share of m at the given rate, rounded half away from zero
// to the nearest minor unit.
func (m Money) Apply(r Rate) Money {
	if r == 0 || m == 0 {
		return 0
	}
	d := decimal.NewFromInt(int64(m)).
		Mul(decimal.NewFromInt(int64(r))).
		Div(decimal.NewFromInt(BasisPoints))
	return Money(d.Round(0).IntPart())
}

// RoundOff returns the difference between m and m rounded to whole major units.
// m - m.RoundOff() is always a whole amount.
func (m Money) RoundOff() Money {
	whole := decimal.NewFromInt(int64(m)).Div(hundred).Round(0).IntPart()
	return m - Money(whole*MinorUnits)
}

func (m Money) IsZero() bool     { return m == 0 }
func (m Money) IsNegative() bool { return m < 0 }

// Minor returns the raw minor-unit value.
func (m Money) Minor() int64 { return int64(m) }

// Decimal returns the major-unit decimal value.
func (m Money) Decimal() decimal.Decimal { return decimal.New(int64(m), -2) }

// String formats with two decimals: "2600.00".
func (m Money) String() string { return m.Decimal().StringFixed(2) }

// MarshalJSON writes the amount as a JSON number in major units.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}
	v, err := Parse(raw)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Sum adds all values.
func Sum(values ...Money) Money {
	var total Money
	for _, v := range values {
		total += v
	}
	return total
}
