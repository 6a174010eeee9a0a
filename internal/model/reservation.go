package model

import "time"

// Reservation records one synthetic booking for a scheduled showing.  Either
// UserID or NonUserID is set depending on whether the buyer is a member.
//
// Fields:
//  ID         – primary key, assigned by the database on insert.
//  ScheduleID – showing being reserved.
//  UserID     – member buyer (nil for guests).
//  NonUserID  – guest buyer (nil for members).
//  Price      – pre-discount total over all seats.
//  Status     – reservation state (1 = confirmed).
//  CreatedAt  – backdated creation timestamp.
type Reservation struct {
	ID         uint64    // reservation.reservation_id
	ScheduleID uint64    // reservation.schedule_id
	UserID     *uint64   // reservation.user_id (nullable)
	NonUserID  *uint64   // reservation.non_user_id (nullable)
	Price      Money     // reservation.price
	Status     uint8     // reservation.status
	CreatedAt  time.Time // reservation.created_at
}

// ReservationSeat is one occupied seat of a showing.  Its generated id is
// what ticket discounts and the reservation seat list reference.
type ReservationSeat struct {
	ID         uint64    // reservation_seat.reservation_seat_id
	ScheduleID uint64    // reservation_seat.schedule_id
	SeatID     uint64    // reservation_seat.seat_id
	CreatedAt  time.Time // reservation_seat.created_at
}

// ReservationSeatList links a reservation to the seats booked under it.
type ReservationSeatList struct {
	ReservationID     uint64 // reservation_seat_list.reservation_id
	ReservationSeatID uint64 // reservation_seat_list.reservation_seat_id
}

// ReservationCount aggregates the seats of a reservation per age category,
// carrying the per-seat price for that category.
type ReservationCount struct {
	ReservationID uint64  // reservation_count.reservation_id
	AgeType       AgeType // reservation_count.age_type
	Count         int     // reservation_count.count
	Price         Money   // reservation_count.price
}

// TicketDiscount is a seat-level discount.  The uk_seat_discount unique key
// on reservation_seat_id enforces the at-most-one-discount-per-seat rule at
// the data model level; the generator never emits two rows for one seat.
type TicketDiscount struct {
	BenefitID         uint64      // ticket_discount.benefit_id, assigned on insert
	ReservationSeatID uint64      // ticket_discount.reservation_seat_id
	BenefitCode       BenefitCode // ticket_discount.benefit_code
	AppliedAmount     Money       // ticket_discount.applied_amount
	CreatedAt         time.Time   // ticket_discount.created_at
}
