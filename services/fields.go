package services

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hotel-billing/money"
)

// Field edits arrive as map[string]any decoded from JSON. These helpers turn
// the loosely typed values into column values or a validation error.

func stringField(key string, v any) (string, error) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case nil:
		return "", nil
	default:
		return "", Validation("field.invalid", "%s must be a string", key)
	}
}

func intField(key string, v any) (int, error) {
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) {
			return 0, Validation("field.invalid", "%s must be a whole number", key)
		}
		return int(t), nil
	case json.Number:
		n, err := strconv.Atoi(t.String())
		if err != nil {
			return 0, Validation("field.invalid", "%s must be a whole number", key)
		}
		return n, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, Validation("field.invalid", "%s must be a whole number", key)
		}
		return n, nil
	default:
		return 0, Validation("field.invalid", "%s must be a whole number", key)
	}
}

func optionalIDField(key string, v any) (*uint, error) {
	if v == nil {
		return nil, nil
	}
	n, err := intField(key, v)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, Validation("field.invalid", "%s must be a positive id", key)
	}
	id := uint(n)
	return &id, nil
}

func moneyField(key string, v any) (money.Money, error) {
	switch t := v.(type) {
	case float64:
		m, err := money.FromDecimal(decimal.NewFromFloat(t))
		if err != nil {
			return 0, Validation("field.invalid", "%s is out of range", key)
		}
		return m, nil
	case json.Number:
		m, err := money.Parse(t.String())
		if err != nil {
			return 0, Validation("field.invalid", "%s must be an amount", key)
		}
		return m, nil
	case string:
		m, err := money.Parse(t)
		if err != nil {
			return 0, Validation("field.invalid", "%s must be an amount", key)
		}
		return m, nil
	default:
		return 0, Validation("field.invalid", "%s must be an amount", key)
	}
}

func rateField(key string, v any) (money.Rate, error) {
	switch t := v.(type) {
	case float64:
		r, err := money.ParseRate(decimal.NewFromFloat(t).String())
		if err != nil {
			return 0, Validation("field.invalid", "%s must be a percentage", key)
		}
		return r, nil
	case string:
		r, err := money.ParseRate(t)
		if err != nil {
			return 0, Validation("field.invalid", "%s must be a percentage", key)
		}
		return r, nil
	default:
		return 0, Validation("field.invalid", "%s must be a percentage", key)
	}
}

func boolField(key string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, Validation("field.invalid", "%s must be true or false", key)
	}
	return b, nil
}

// timeField accepts RFC 3339 timestamps or plain dates.
func timeField(key string, v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, Validation("field.invalid", "%s must be a date", key)
	}
	return parseTime(key, s)
}

func parseTime(key, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, Validation("field.invalid", "%s must be a date (YYYY-MM-DD or RFC 3339)", key)
}

// MaxOrderQuantity caps a single order line.
const MaxOrderQuantity = 1000

// ParseQuantity reads an order quantity. Only whole numbers from 1 to
// MaxOrderQuantity pass; "2.5", "abc" and "0" are rejected rather than coerced.
func ParseQuantity(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, Validation("order.invalidQuantity", "quantity must be a positive whole number, got %q", raw)
	}
	if err := checkQuantity(n); err != nil {
		return 0, err
	}
	return n, nil
}

func checkQuantity(n int) error {
	if n <= 0 {
		return Validation("order.invalidQuantity", "quantity must be a positive whole number, got %d", n)
	}
	if n > MaxOrderQuantity {
		return Validation("order.invalidQuantity", "quantity cannot exceed %d, got %d", MaxOrderQuantity, n)
	}
	return nil
}
