package pricing

import "github.com/iliyamo/cinema-transaction-seeder/internal/model"

// Settlement is the final accounting of one payment.  DiscountTotal is
// reported unclamped for audit purposes: in the rare case where discounts
// exceed the origin amount it is larger than OriginAmount while Amount is
// zero.
type Settlement struct {
	DiscountTotal model.Money
	Amount        model.Money
}

// Settle aggregates all seat-level discounts and the payment-level
// discount into the final payable amount.  It is pure and order
// independent over seatDiscounts; the max(0, ...) clamp is the sole
// protection against a negative payable amount.
func Settle(originAmount model.Money, seatDiscounts []model.Money, paymentDiscount model.Money) Settlement {
	total := paymentDiscount
	for _, d := range seatDiscounts {
		total += d
	}
	amount := originAmount - total
	if amount < 0 {
		amount = 0
	}
	return Settlement{DiscountTotal: total, Amount: amount}
}
