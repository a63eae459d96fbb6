package money

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BasisPoints is the number of basis points in 100%.
const BasisPoints = 10000

// Rate is a percentage in basis points: Rate(500) is 5%, Rate(250) is 2.5%.
type Rate int64

// RateFromPercent converts a decimal percentage, rounding to the nearest basis point.
func RateFromPercent(p decimal.Decimal) Rate {
	return Rate(p.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// ParseRate reads a percentage such as "5", "2.5" or "18".
func ParseRate(s string) (Rate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("money: empty rate")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("money: invalid rate %q: %w", s, err)
	}
	// Rates past 1000% are rejected before the basis-point conversion.
	if d.Abs().GreaterThan(decimal.NewFromInt(10 * BasisPoints / 100)) {
		return 0, fmt.Errorf("money: rate %q out of range", s)
	}
	return RateFromPercent(d), nil
}

// Percent returns the rate as a decimal percentage.
func (r Rate) Percent() decimal.Decimal { return decimal.New(int64(r), -2) }

func (r Rate) String() string { return r.Percent().String() }

func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(r.Percent().String()), nil
}

func (r *Rate) UnmarshalJSON(data []byte) error {
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
	v, err := ParseRate(raw)
	if err != nil {
		return err
	}
	*r = v
	return nil
}
