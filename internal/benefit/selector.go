package benefit

import (
	"math/rand"

	"github.com/iliyamo/cinema-transaction-seeder/internal/model"
)

// Selector applies the eligibility rules for seat-level benefits.  Only
// members are ever eligible; among eligible instruments one is picked
// uniformly through the injected RNG.
type Selector struct {
	owners          OwnershipProvider
	minPointBalance model.Money
}

// NewSelector builds a Selector.  minPointBalance is the threshold a
// balance must exceed before points become a candidate (reference value
// 1000).
func NewSelector(owners OwnershipProvider, minPointBalance model.Money) *Selector {
	return &Selector{owners: owners, minPointBalance: minPointBalance}
}

// Choose returns the benefit instrument to apply on one seat, or ok=false
// when the user qualifies for none.  Candidates are collected in a fixed
// order (point, coupon, voucher) so the uniform pick depends only on the
// RNG stream.
func (s *Selector) Choose(rng *rand.Rand, userID uint64, isMember bool) (model.BenefitCode, bool) {
	if !isMember {
		return "", false
	}
	var candidates []model.BenefitCode
	if s.owners.PointBalance(userID) > s.minPointBalance {
		candidates = append(candidates, model.BenefitPoint)
	}
	if s.owners.OwnsCoupon(userID) {
		candidates = append(candidates, model.BenefitCoupon)
	}
	if s.owners.OwnsVoucher(userID) {
		candidates = append(candidates, model.BenefitVoucher)
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// Owners exposes the provider so the generator can record point spends
// after a discount amount is fixed.
func (s *Selector) Owners() OwnershipProvider { return s.owners }
