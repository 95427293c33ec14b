package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places every amount is rounded to.
const MoneyScale = 2

// Money is a signed amount in the platform currency, always rounded half-up to two places.
// Ledger entries use negative amounts for withdrawals.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney is 0.00.
var ZeroMoney = Money{amount: decimal.Zero}

// NewMoney rounds d to MoneyScale places.
func NewMoney(d decimal.Decimal) Money {
	return Money{amount: d.Round(MoneyScale)}
}

// MoneyFromString parses a decimal literal such as "5.00".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%q is not a decimal: %w", s, err))
	}
	return NewMoney(d), nil
}

// MoneyFromFloat is used at the HTTP edge where amounts arrive as JSON numbers.
func MoneyFromFloat(f float64) Money {
	return NewMoney(decimal.NewFromFloat(f))
}

// MustMoney panics on malformed input; intended for constants and tests.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return NewMoney(m.amount.Add(other.amount))
}

func (m Money) Sub(other Money) Money {
	return NewMoney(m.amount.Sub(other.amount))
}

// MulRate multiplies by a rate (e.g. 0.8) and rounds the result.
func (m Money) MulRate(rate decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(rate))
}

func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg()}
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Float64 is lossy and only used for JSON responses.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String renders exactly two decimal places, e.g. "4.00".
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}
