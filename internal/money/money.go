// Package money holds exact currency amounts as integer minor units.
//
// Amounts cross the process boundary as symbol-prefixed strings ("£4.50").
// They are parsed once on the way in and rendered once on the way out; all
// arithmetic in between is integer arithmetic on pence.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is the fixed currency prefix used when rendering amounts.
const Symbol = "£"

const fractionDigits = 2

var ErrInvalidAmount = errors.New("invalid money amount")

var maxMinor = decimal.NewFromInt(math.MaxInt64)

// Money is an amount in minor units (pence).
type Money int64

// FromMinor returns the amount for the given number of minor units.
func FromMinor(minor int64) Money { return Money(minor) }

// Minor returns the amount in minor units.
func (m Money) Minor() int64 { return int64(m) }

func (m Money) Add(o Money) Money { return m + o }
func (m Money) Sub(o Money) Money { return m - o }

// Mul scales the amount by a whole quantity.
func (m Money) Mul(qty int) Money { return m * Money(qty) }

func (m Money) IsZero() bool     { return m == 0 }
func (m Money) IsNegative() bool { return m < 0 }

// String renders the amount with the currency symbol and two fraction digits.
func (m Money) String() string {
	d := decimal.New(int64(m), -fractionDigits)
	if d.IsNegative() {
		return "-" + Symbol + d.Neg().StringFixed(fractionDigits)
	}
	return Symbol + d.StringFixed(fractionDigits)
}

// Parse reads "£4.50", "4.50" or "4". More than two fraction digits,
// exponents, and amounts beyond the int64 range of pence are errors.
func Parse(s string) (Money, error) {
	raw := strings.TrimSpace(s)
	neg := strings.HasPrefix(raw, "-")
	if neg {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "-"))
	}
	raw = strings.TrimSpace(strings.TrimPrefix(raw, Symbol))
	if !plainDecimal(raw) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return fromDecimal(d, neg, s)
}

// plainDecimal accepts digits with at most one decimal point and at least
// one digit before it.
func plainDecimal(s string) bool {
	intPart, frac, hasPoint := strings.Cut(s, ".")
	if intPart == "" || (hasPoint && frac == "") {
		return false
	}
	return allDigits(intPart) && allDigits(frac)
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func fromDecimal(d decimal.Decimal, neg bool, src string) (Money, error) {
	minor := d.Shift(fractionDigits)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: %q has more than %d fraction digits", ErrInvalidAmount, src, fractionDigits)
	}
	if minor.GreaterThan(maxMinor) {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, src)
	}
	v := minor.IntPart()
	if neg {
		v = -v
	}
	return Money(v), nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts either a currency string or a bare JSON number.
func (m *Money) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := Parse(s)
		if err != nil {
			return err
		}
		*m = v
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, string(b))
	}
	v, err := Parse(n.String())
	if err != nil {
		return err
	}
	*m = v
	return nil
}
