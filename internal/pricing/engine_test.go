package pricing

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-transaction-seeder/internal/catalog"
	"github.com/iliyamo/cinema-transaction-seeder/internal/model"
)

func money(v int64) *model.Money {
	m := model.Money(v)
	return &m
}

func percent(v float64) *float64 { return &v }

func engineCatalog() *catalog.Catalog {
	return catalog.New(catalog.Data{
		Coupons: []catalog.Coupon{
			{ID: 1, Type: catalog.CouponPercent, Value: 10, MaxAmount: money(2000), MinPrice: 5000},
			{ID: 2, Type: catalog.CouponFixed, Value: 1000, MinPrice: 0},
		},
		Policies: []catalog.DiscountPolicy{
			{ID: 10, PartnerID: "00501", Amount: money(3000), MinPrice: 10000, MaxBenefit: catalog.NoBenefitCap},
			{ID: 11, PartnerID: "00502", Percent: percent(15), MinPrice: 0, MaxBenefit: 4000},
		},
	}, "005")
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(engineCatalog(), 500, zerolog.Nop())
}

func TestPointDiscountStaysWithinBounds(t *testing.T) {
	e := newTestEngine(t)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		d := e.PointDiscount(rng, 10000, 100000)
		assert.GreaterOrEqual(t, d, model.Money(500))
		assert.LessOrEqual(t, d, model.Money(5000))
	}
}

func TestPointDiscountBoundedByBalance(t *testing.T) {
	e := newTestEngine(t)
	rng := rand.New(rand.NewSource(1))

	d := e.PointDiscount(rng, 10000, 300)
	assert.Equal(t, model.Money(300), d)
}

func TestPointDiscountDegenerateRange(t *testing.T) {
	e := newTestEngine(t)
	rng := rand.New(rand.NewSource(1))

	// Half of 900 is below the floor, so the sampler does not draw at all.
	assert.Equal(t, model.Money(500), e.PointDiscount(rng, 900, 100000))
	assert.Equal(t, model.Money(400), e.PointDiscount(rng, 400, 100000))
}

func TestPointDiscountZeroOnEmptyBalance(t *testing.T) {
	e := newTestEngine(t)
	rng := rand.New(rand.NewSource(1))

	assert.Equal(t, model.Money(0), e.PointDiscount(rng, 10000, 0))
	assert.Equal(t, model.Money(0), e.PointDiscount(rng, 0, 10000))
}

func TestCouponDiscountPercentWithCap(t *testing.T) {
	e := newTestEngine(t)

	// 10% of 30000 is 3000, capped at 2000.
	assert.Equal(t, model.Money(2000), e.CouponDiscount(1, 30000))
	// 10% of 12000 stays under the cap.
	assert.Equal(t, model.Money(1200), e.CouponDiscount(1, 12000))
}

func TestCouponDiscountBelowMinSpend(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, model.Money(0), e.CouponDiscount(1, 4000))
}

func TestCouponDiscountFixedClampedToPrice(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, model.Money(1000), e.CouponDiscount(2, 30000))
	assert.Equal(t, model.Money(600), e.CouponDiscount(2, 600))
}

func TestCouponDiscountUnknownIDYieldsZero(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, model.Money(0), e.CouponDiscount(999, 30000))
}

func TestVoucherDiscountIsFullPrice(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, model.Money(17000), e.VoucherDiscount(17000))
	assert.Equal(t, model.Money(0), e.VoucherDiscount(-5))
}

func TestSeatDiscountDispatch(t *testing.T) {
	e := newTestEngine(t)
	rng := rand.New(rand.NewSource(1))

	assert.Equal(t, model.Money(15000), e.SeatDiscount(rng, model.BenefitVoucher, 15000, 0, 0))
	assert.Equal(t, model.Money(2000), e.SeatDiscount(rng, model.BenefitCoupon, 30000, 0, 1))
	assert.Equal(t, model.Money(0), e.SeatDiscount(rng, model.BenefitCode("bogus"), 15000, 0, 0))
}

func TestPickPolicyUnknownPartner(t *testing.T) {
	e := newTestEngine(t)
	rng := rand.New(rand.NewSource(1))

	_, ok := e.PickPolicy(rng, "00999")
	assert.False(t, ok)

	p, ok := e.PickPolicy(rng, "00501")
	require.True(t, ok)
	assert.Equal(t, uint64(10), p.ID)
}

func TestPolicyDiscountFixedAmount(t *testing.T) {
	e := newTestEngine(t)
	p := catalog.DiscountPolicy{Amount: money(3000), MinPrice: 10000, MaxBenefit: catalog.NoBenefitCap}

	assert.Equal(t, model.Money(3000), e.PolicyDiscount(p, 20000))
	assert.Equal(t, model.Money(0), e.PolicyDiscount(p, 5000))
}

func TestPolicyDiscountPercentClampedToMaxBenefit(t *testing.T) {
	e := newTestEngine(t)
	p := catalog.DiscountPolicy{Percent: percent(15), MaxBenefit: 4000}

	// 15% of 50000 is 7500, clamped to 4000.
	assert.Equal(t, model.Money(4000), e.PolicyDiscount(p, 50000))
	assert.Equal(t, model.Money(1500), e.PolicyDiscount(p, 10000))
}

func TestPolicyDiscountWithoutAmountOrPercent(t *testing.T) {
	e := newTestEngine(t)
	p := catalog.DiscountPolicy{MaxBenefit: catalog.NoBenefitCap}

	assert.Equal(t, model.Money(0), e.PolicyDiscount(p, 20000))
}
