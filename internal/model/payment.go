package model

import "time"

// Payment is the settlement record of one synthetic transaction.
//
// Invariant: Amount == max(0, OriginAmount - DiscountTotal).  DiscountTotal
// is reported unclamped so auditors can see the rare case where the
// combined discounts exceed the origin amount while Amount is zero.
type Payment struct {
	ID            uint64      // payment.payment_id
	PaymentType   PaymentType // payment.payment_type (0 reservation, 1 store)
	TypeID        uint64      // payment.type_id (reservation_id or order_id)
	OriginAmount  Money       // payment.origin_amount
	DiscountTotal Money       // payment.discount_total
	Amount        Money       // payment.amount
	Status        uint8       // payment.status
	CreatedAt     time.Time   // payment.created_at
	CompletedAt   *time.Time  // payment.completed_at (nullable)
}

// PaymentDiscount is the payment-level partner promotion applied to a card
// payment.  At most one row exists per (payment_id, policy_id).
type PaymentDiscount struct {
	PaymentID     uint64    // payment_discount.payment_id
	PolicyID      uint64    // payment_discount.policy_id
	AppliedAmount Money     // payment_discount.applied_amount
	CreatedAt     time.Time // payment_discount.created_at
}

// PaymentCard holds card settlement details for MethodCard payments.
type PaymentCard struct {
	PaymentID          uint64 // payment_card.payment_id
	CardCompanyCode    string // payment_card.card_company_code
	CardNumber         string // payment_card.card_number (last four digits)
	InstallmentMonths  int    // payment_card.installment_months
	CardApprovalNumber string // payment_card.card_approval_number
}

// PaymentBankTransfer holds bank transfer details for MethodBank payments.
type PaymentBankTransfer struct {
	PaymentID         uint64 // payment_bank_transfer.payment_id
	BankCode          string // payment_bank_transfer.bank_code
	AccountNumber     string // payment_bank_transfer.account_number
	AccountHolderName string // payment_bank_transfer.account_holder_name
}

// PaymentMobile holds carrier billing details for MethodMobile payments.
type PaymentMobile struct {
	PaymentID    uint64 // payment_mobile.payment_id
	CarrierCode  string // payment_mobile.carrier_code
	PhoneNumber  string // payment_mobile.phone_number
	ApprovalCode string // payment_mobile.approval_code
}
