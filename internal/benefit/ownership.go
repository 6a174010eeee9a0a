// Package benefit decides which discount instrument, if any, a member may
// use on a given seat.  Ownership of instruments is abstracted behind
// OwnershipProvider so a real entitlement store can replace the in-run
// simulation without touching the pricing pipeline.
package benefit

import (
	"math/rand"

	"github.com/iliyamo/cinema-transaction-seeder/internal/model"
)

// OwnershipProvider reports which discount instruments a user holds.
// Implementations are consulted per seat during generation.
type OwnershipProvider interface {
	// PointBalance returns the user's remaining point balance.
	PointBalance(userID uint64) model.Money
	// OwnsCoupon reports whether the user holds a redeemable coupon.
	OwnsCoupon(userID uint64) bool
	// OwnsVoucher reports whether the user holds an admission voucher.
	OwnsVoucher(userID uint64) bool
	// SpendPoints decrements the user's balance after a point discount is
	// applied, so one balance cannot fund unlimited discounts in a run.
	SpendPoints(userID uint64, amount model.Money)
}

// SimulatedOwnership stands in for a real entitlement table: fixed random
// subsets of the member population hold coupons and vouchers, and point
// balances start from the catalog snapshot and are strictly decremented on
// spend.  It is owned by a single run goroutine and is not safe for
// concurrent use.
type SimulatedOwnership struct {
	points   map[uint64]model.Money
	coupons  map[uint64]struct{}
	vouchers map[uint64]struct{}
}

// SimulateOwnership draws the coupon/voucher holder subsets from the given
// members.  userIDs must be in a deterministic order and rates in [0, 1];
// the draw consumes the run RNG so identical seeds reproduce identical
// holder sets.
func SimulateOwnership(userIDs []uint64, points map[uint64]model.Money, couponRate, voucherRate float64, rng *rand.Rand) *SimulatedOwnership {
	s := &SimulatedOwnership{
		points:   make(map[uint64]model.Money, len(points)),
		coupons:  sample(userIDs, couponRate, rng),
		vouchers: sample(userIDs, voucherRate, rng),
	}
	for id, p := range points {
		s.points[id] = p
	}
	return s
}

// sample picks floor(len(ids)*rate) distinct ids via a seeded permutation.
func sample(ids []uint64, rate float64, rng *rand.Rand) map[uint64]struct{} {
	n := int(float64(len(ids)) * rate)
	out := make(map[uint64]struct{}, n)
	for _, idx := range rng.Perm(len(ids))[:n] {
		out[ids[idx]] = struct{}{}
	}
	return out
}

// PointBalance returns the user's remaining balance, zero for unknown ids.
func (s *SimulatedOwnership) PointBalance(userID uint64) model.Money {
	return s.points[userID]
}

// OwnsCoupon reports whether the user was drawn into the coupon subset.
func (s *SimulatedOwnership) OwnsCoupon(userID uint64) bool {
	_, ok := s.coupons[userID]
	return ok
}

// OwnsVoucher reports whether the user was drawn into the voucher subset.
func (s *SimulatedOwnership) OwnsVoucher(userID uint64) bool {
	_, ok := s.vouchers[userID]
	return ok
}

// SpendPoints decrements the user's balance, flooring at zero.
func (s *SimulatedOwnership) SpendPoints(userID uint64, amount model.Money) {
	b := s.points[userID] - amount
	if b < 0 {
		b = 0
	}
	s.points[userID] = b
}
