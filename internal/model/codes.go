package model

// BenefitCode identifies which discount instrument produced a seat-level
// discount.  The literal values are the reference codes stored in the
// ticket_discount.benefit_code column.
type BenefitCode string

const (
	BenefitPoint   BenefitCode = "01101" // point balance spend
	BenefitCoupon  BenefitCode = "01102" // coupon redemption
	BenefitVoucher BenefitCode = "01103" // admission voucher (free seat)
)

// AgeType is the admission age category code used for per-seat price
// adjustments (age_type.age_type).
type AgeType string

const (
	AgeAdult  AgeType = "00201"
	AgeYouth  AgeType = "00202"
	AgeSenior AgeType = "00203"
	AgePrime  AgeType = "00204"
)

// AgeTypes lists all admission categories in their canonical order.  The
// order matters: weighted random selection indexes into this slice.
var AgeTypes = []AgeType{AgeAdult, AgeYouth, AgeSenior, AgePrime}

// PaymentMethod is the settlement instrument of a payment.  Each method
// has its own detail table (payment_card / payment_bank_transfer /
// payment_mobile).
type PaymentMethod string

const (
	MethodCard   PaymentMethod = "CARD"
	MethodBank   PaymentMethod = "BANK"
	MethodMobile PaymentMethod = "MOBILE"
)

// PaymentType distinguishes what a payment settles: a movie reservation
// or a store order (payment.payment_type).
type PaymentType uint8

const (
	PaymentTypeReservation PaymentType = 0
	PaymentTypeStore       PaymentType = 1
)
