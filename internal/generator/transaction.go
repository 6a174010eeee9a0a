// Package generator assembles synthetic commerce transactions: movie
// reservations with seat-level discounts and store purchases, each settled
// by exactly one payment.  All randomness flows through a single injected
// *rand.Rand and a fixed reference clock, so a run is fully determined by
// its seed, its catalog snapshot and its start time.
package generator

import "github.com/iliyamo/cinema-transaction-seeder/internal/model"

// SeatBooking pairs one reserved seat with its optional ticket discount.
// The discount's ReservationSeatID is resolved by the writer once the seat
// row has been inserted and its id is known.
type SeatBooking struct {
	Seat     model.ReservationSeat
	Discount *model.TicketDiscount
}

// Transaction is one fully computed synthetic transaction, ready for
// persistence.  Exactly one of Reservation/Order is set according to Kind;
// Payment.TypeID and PaymentDiscount.PaymentID are resolved by the writer
// after the referenced rows have been inserted.
type Transaction struct {
	Kind model.PaymentType

	Reservation *model.Reservation
	Seats       []SeatBooking
	Counts      []model.ReservationCount

	Order *model.Order

	Payment         model.Payment
	PaymentDiscount *model.PaymentDiscount
	Card            *model.PaymentCard
	Bank            *model.PaymentBankTransfer
	Mobile          *model.PaymentMobile
}
