// Package model defines the data rows produced by a generation run and the
// shared value types used by the pricing engine.  Every struct mirrors one
// table of the target schema; values are fully computed before they are
// handed to the writer and are never mutated afterwards.
package model

// Money is an amount in the smallest denomination of the single supported
// currency (whole won).  Prices, adjustments and discounts are all integer
// amounts, which keeps discount arithmetic exact and generation runs
// reproducible byte for byte.
type Money int64

// Clamp bounds m to the inclusive range [lo, hi].
func (m Money) Clamp(lo, hi Money) Money {
	if m < lo {
		return lo
	}
	if m > hi {
		return hi
	}
	return m
}

// MinMoney returns the smaller of a and b.
func MinMoney(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}
