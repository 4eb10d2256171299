/*
Package coin provides the quantity arithmetic used by the fund pool.

The pool holds a single asset, so an amount is a plain non-negative
integer count of the smallest unit. All arithmetic is checked: an
operation that would overflow or produce a negative balance returns an
error instead of a wrapped-around value.
*/
package coin

import (
	"strconv"

	"github.com/EricInMarkham/fundpool/errors"
)

// MaxAmount is the largest value a single amount may hold.
const MaxAmount int64 = 999999999999999 // 10^15-1

// Amount is a quantity of the pool's asset, counted in the smallest
// unit. Negative amounts are never valid.
type Amount int64

// NewAmount creates an amount from an integer count of units.
func NewAmount(n int64) Amount {
	return Amount(n)
}

// Validate returns an error if the amount is outside the legal range.
func (a Amount) Validate() error {
	if a < 0 {
		return errors.Wrapf(errors.ErrAmount, "negative amount %d", a)
	}
	if int64(a) > MaxAmount {
		return errors.Wrapf(errors.ErrOverflow, "amount %d above maximum", a)
	}
	return nil
}

// Add combines two amounts, failing on overflow.
func (a Amount) Add(o Amount) (Amount, error) {
	sum := a + o
	if sum < a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, o)
	}
	if err := sum.Validate(); err != nil {
		return 0, err
	}
	return sum, nil
}

// Sub removes o from a, failing if the result would be negative.
func (a Amount) Sub(o Amount) (Amount, error) {
	if o > a {
		return 0, errors.Wrapf(errors.ErrAmount, "%d - %d is negative", a, o)
	}
	return a - o, nil
}

// IsZero returns true if the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a == 0
}

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

// Int64 returns the raw unit count.
func (a Amount) Int64() int64 {
	return int64(a)
}

func (a Amount) String() string {
	return strconv.FormatInt(int64(a), 10)
}
