package pricing

import (
	"math"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-transaction-seeder/internal/catalog"
	"github.com/iliyamo/cinema-transaction-seeder/internal/model"
)

// Engine resolves discount amounts for both pipeline stages: per-seat
// benefit discounts and the payment-level partner policy discount.  An
// absent coupon or policy always resolves to a zero discount, never an
// error: a single malformed reference row must not abort a whole batch.
type Engine struct {
	cat        *catalog.Catalog
	pointFloor model.Money
	log        zerolog.Logger
}

// NewEngine builds an Engine.  pointFloor is the smallest point discount
// the sampler draws (reference value 500).
func NewEngine(cat *catalog.Catalog, pointFloor model.Money, log zerolog.Logger) *Engine {
	return &Engine{cat: cat, pointFloor: pointFloor, log: log}
}

// PointDiscount samples a point spend in [pointFloor, ticketPrice/2],
// bounded by the user's remaining balance and clamped to the ticket price.
// When half the ticket price does not exceed the floor the sampler
// degenerates to min(floor, price) instead of drawing from an inverted
// range.
func (e *Engine) PointDiscount(rng *rand.Rand, ticketPrice, balance model.Money) model.Money {
	if ticketPrice <= 0 || balance <= 0 {
		return 0
	}
	hi := ticketPrice / 2
	var d model.Money
	if hi <= e.pointFloor {
		d = model.MinMoney(e.pointFloor, ticketPrice)
	} else {
		d = e.pointFloor + model.Money(rng.Int63n(int64(hi-e.pointFloor)+1))
	}
	d = model.MinMoney(d, balance)
	return d.Clamp(0, ticketPrice)
}

// CouponDiscount resolves a coupon by id and applies its rule: zero below
// the coupon's minimum spend, the fixed value or the percentage of the
// ticket price otherwise, capped at max_discount_amount when set.  Unknown
// coupon ids resolve to zero.
func (e *Engine) CouponDiscount(couponID uint64, ticketPrice model.Money) model.Money {
	cp, ok := e.cat.Coupon(couponID)
	if !ok {
		e.log.Warn().Uint64("coupon_id", couponID).Msg("unknown coupon id; no discount applied")
		return 0
	}
	if ticketPrice < cp.MinPrice {
		return 0
	}
	var d model.Money
	switch cp.Type {
	case catalog.CouponFixed:
		d = model.Money(math.Round(cp.Value))
	case catalog.CouponPercent:
		d = model.Money(math.Round(float64(ticketPrice) * cp.Value / 100))
		if cp.MaxAmount != nil {
			d = model.MinMoney(d, *cp.MaxAmount)
		}
	default:
		e.log.Warn().Uint64("coupon_id", couponID).Uint8("type", uint8(cp.Type)).
			Msg("unknown coupon discount type; no discount applied")
		return 0
	}
	return d.Clamp(0, ticketPrice)
}

// VoucherDiscount zeroes the seat cost: voucher redemption is always free
// admission.
func (e *Engine) VoucherDiscount(ticketPrice model.Money) model.Money {
	if ticketPrice < 0 {
		return 0
	}
	return ticketPrice
}

// SeatDiscount dispatches on the chosen benefit code.  couponID is only
// consulted for BenefitCoupon, balance only for BenefitPoint.  The result
// is always within [0, ticketPrice].
func (e *Engine) SeatDiscount(rng *rand.Rand, code model.BenefitCode, ticketPrice, balance model.Money, couponID uint64) model.Money {
	switch code {
	case model.BenefitPoint:
		return e.PointDiscount(rng, ticketPrice, balance)
	case model.BenefitCoupon:
		return e.CouponDiscount(couponID, ticketPrice)
	case model.BenefitVoucher:
		return e.VoucherDiscount(ticketPrice)
	}
	return 0
}

// PickCoupon uniformly selects a coupon id; ok is false when the coupon
// table was empty.
func (e *Engine) PickCoupon(rng *rand.Rand) (uint64, bool) {
	ids := e.cat.CouponIDs()
	if len(ids) == 0 {
		return 0, false
	}
	return ids[rng.Intn(len(ids))], true
}

// PickPolicy uniformly selects one active policy of the given partner; ok
// is false when the partner has none.
func (e *Engine) PickPolicy(rng *rand.Rand, partnerID string) (catalog.DiscountPolicy, bool) {
	policies := e.cat.PoliciesFor(partnerID)
	if len(policies) == 0 {
		e.log.Warn().Str("partner_id", partnerID).Msg("no active policies for partner; no discount applied")
		return catalog.DiscountPolicy{}, false
	}
	return policies[rng.Intn(len(policies))], true
}

// PolicyDiscount applies a partner policy to the amount payable after all
// seat-level discounts.  Below the policy's minimum spend it yields zero;
// otherwise the fixed amount or the percentage of the remaining amount,
// clamped to the policy's maximum benefit and rounded to the smallest
// denomination.  A policy with neither amount nor percent yields zero.
func (e *Engine) PolicyDiscount(p catalog.DiscountPolicy, amountBeforeDiscount model.Money) model.Money {
	if amountBeforeDiscount < p.MinPrice {
		return 0
	}
	var d model.Money
	switch {
	case p.Amount != nil:
		d = *p.Amount
	case p.Percent != nil:
		d = model.Money(math.Round(float64(amountBeforeDiscount) * *p.Percent / 100))
	default:
		return 0
	}
	d = model.MinMoney(d, p.MaxBenefit)
	if d < 0 {
		d = 0
	}
	return d
}
