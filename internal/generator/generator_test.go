package generator

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-transaction-seeder/internal/benefit"
	"github.com/iliyamo/cinema-transaction-seeder/internal/catalog"
	"github.com/iliyamo/cinema-transaction-seeder/internal/config"
	"github.com/iliyamo/cinema-transaction-seeder/internal/model"
	"github.com/iliyamo/cinema-transaction-seeder/internal/pricing"
)

func money(v int64) *model.Money {
	m := model.Money(v)
	return &m
}

func testConfig() config.GenerationConfig {
	return config.GenerationConfig{
		BatchSize:          500,
		Seed:               42,
		BaseTicketPrice:    15000,
		CardCompanyPrefix:  "005",
		MemberRate:         0.8,
		ReservationRate:    0.8,
		SeatBenefitRate:    0.5,
		CardDiscountRate:   0.6,
		CouponHolderRate:   0.3,
		VoucherHolderRate:  0.15,
		MinPointBalance:    1000,
		PointDiscountFloor: 500,
		StoreDiscountMin:   0.05,
		StoreDiscountMax:   0.15,
		MaxSeats:           4,
		MaxStoreQty:        3,
		CardWeight:         70,
		BankWeight:         10,
		MobileWeight:       20,
		AgeWeights:         []int{60, 25, 10, 5},
		LockTTL:            time.Minute,
	}
}

func testUserPoints() map[uint64]model.Money {
	points := make(map[uint64]model.Money, 50)
	for id := uint64(1); id <= 50; id++ {
		points[id] = model.Money(id * 400) // balances from 400 to 20000
	}
	return points
}

func testCatalog() *catalog.Catalog {
	pct := 10.0
	return catalog.New(catalog.Data{
		Schedules: map[uint64]catalog.Schedule{
			1: {ScreenType: "2D", ScreenTime: "MORNING"},
			2: {ScreenType: "IMAX", ScreenTime: "NIGHT"},
			3: {ScreenType: "4DX", ScreenTime: "PRIME"},
		},
		ScreenTypeAdjust: map[string]model.Money{"2D": 0, "IMAX": 3000, "4DX": 5000},
		ScreenTimeAdjust: map[string]model.Money{"MORNING": -2000, "NIGHT": 1000, "PRIME": 2000},
		AgeAdjust: map[model.AgeType]model.Money{
			model.AgeAdult:  0,
			model.AgeYouth:  -3000,
			model.AgeSenior: -5000,
			model.AgePrime:  -7000,
		},
		Policies: []catalog.DiscountPolicy{
			{ID: 10, PartnerID: "00501", Amount: money(3000), MinPrice: 10000, MaxBenefit: catalog.NoBenefitCap},
			{ID: 11, PartnerID: "00502", Percent: &pct, MinPrice: 0, MaxBenefit: 4000},
		},
		Coupons: []catalog.Coupon{
			{ID: 1, Type: catalog.CouponPercent, Value: 10, MaxAmount: money(2000), MinPrice: 5000},
			{ID: 2, Type: catalog.CouponFixed, Value: 1000},
		},
		UserPoints: testUserPoints(),
		NonUserIDs: []uint64{101, 102, 103, 104, 105},
		SeatIDs:    []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		StoreItems: map[uint64]model.Money{1: 5000, 2: 8500, 3: 12000},
	}, "005")
}

func newTestGenerator(seed int64) *Generator {
	cat := testCatalog()
	cfg := testConfig()
	rng := rand.New(rand.NewSource(seed))
	owners := benefit.SimulateOwnership(cat.UserIDs(), testUserPoints(),
		cfg.CouponHolderRate, cfg.VoucherHolderRate, rng)
	selector := benefit.NewSelector(owners, cfg.MinPointBalance)
	resolver := pricing.NewPriceResolver(cat, cfg.BaseTicketPrice)
	engine := pricing.NewEngine(cat, cfg.PointDiscountFloor, zerolog.Nop())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return New(cat, resolver, engine, selector, cfg, rng, now, zerolog.Nop())
}

func TestNextDeterministicUnderFixedSeed(t *testing.T) {
	a := newTestGenerator(42)
	b := newTestGenerator(42)

	for i := 0; i < 300; i++ {
		require.Equal(t, a.Next(), b.Next(), "transaction %d diverged", i)
	}
}

func TestNextDifferentSeedsDiverge(t *testing.T) {
	a := newTestGenerator(42)
	b := newTestGenerator(43)

	diverged := false
	for i := 0; i < 50; i++ {
		if !assert.ObjectsAreEqual(a.Next(), b.Next()) {
			diverged = true
			break
		}
	}
	assert.True(t, diverged)
}

func TestNextInvariants(t *testing.T) {
	g := newTestGenerator(42)

	for i := 0; i < 1000; i++ {
		tx := g.Next()
		p := tx.Payment

		assert.Equal(t, tx.Kind, p.PaymentType)
		assert.GreaterOrEqual(t, p.OriginAmount, model.Money(0))
		assert.GreaterOrEqual(t, p.DiscountTotal, model.Money(0))
		assert.GreaterOrEqual(t, p.Amount, model.Money(0))

		// Amount is always what remains after the full discount total,
		// floored at zero.
		want := p.OriginAmount - p.DiscountTotal
		if want < 0 {
			want = 0
		}
		assert.Equal(t, want, p.Amount)

		// Exactly one settlement detail matching the chosen method.
		details := 0
		if tx.Card != nil {
			details++
		}
		if tx.Bank != nil {
			details++
		}
		if tx.Mobile != nil {
			details++
		}
		assert.Equal(t, 1, details)

		var policyDiscount model.Money
		if tx.PaymentDiscount != nil {
			// Partner policies only ever apply to card payments.
			require.NotNil(t, tx.Card)
			policyDiscount = tx.PaymentDiscount.AppliedAmount
			assert.Greater(t, policyDiscount, model.Money(0))
		}

		require.NotNil(t, p.CompletedAt)
		assert.True(t, p.CreatedAt.Before(*p.CompletedAt))

		switch tx.Kind {
		case model.PaymentTypeReservation:
			checkReservation(t, tx, policyDiscount)
		case model.PaymentTypeStore:
			checkStoreOrder(t, tx, policyDiscount)
		}
	}
}

func checkReservation(t *testing.T, tx Transaction, policyDiscount model.Money) {
	t.Helper()
	r := tx.Reservation
	require.NotNil(t, r)
	require.Nil(t, tx.Order)

	// Exactly one buyer identity.
	assert.True(t, (r.UserID != nil) != (r.NonUserID != nil))

	assert.GreaterOrEqual(t, len(tx.Seats), 1)
	assert.LessOrEqual(t, len(tx.Seats), 4)
	assert.Equal(t, r.Price, tx.Payment.OriginAmount)

	// The per-age aggregation accounts for every seat and the full price.
	seats, total := 0, model.Money(0)
	for _, c := range tx.Counts {
		seats += c.Count
		total += c.Price * model.Money(c.Count)
	}
	assert.Equal(t, len(tx.Seats), seats)
	assert.Equal(t, r.Price, total)

	var benefitTotal model.Money
	for _, b := range tx.Seats {
		if b.Discount == nil {
			continue
		}
		// Guests never receive seat-level benefits.
		assert.NotNil(t, r.UserID)
		assert.Greater(t, b.Discount.AppliedAmount, model.Money(0))
		assert.LessOrEqual(t, b.Discount.AppliedAmount, r.Price)
		assert.Contains(t, []model.BenefitCode{
			model.BenefitPoint, model.BenefitCoupon, model.BenefitVoucher,
		}, b.Discount.BenefitCode)
		benefitTotal += b.Discount.AppliedAmount
	}
	assert.Equal(t, benefitTotal+policyDiscount, tx.Payment.DiscountTotal)
}

func checkStoreOrder(t *testing.T, tx Transaction, policyDiscount model.Money) {
	t.Helper()
	o := tx.Order
	require.NotNil(t, o)
	require.Nil(t, tx.Reservation)
	require.Empty(t, tx.Seats)

	// Store purchases are member-only.
	assert.Greater(t, o.UserID, uint64(0))
	assert.Equal(t, o.Price, tx.Payment.OriginAmount)

	// The flat store discount stays inside the configured band.
	storeDiscount := tx.Payment.DiscountTotal - policyDiscount
	lo := model.Money(math.Floor(float64(o.Price) * 0.05))
	hi := model.Money(math.Ceil(float64(o.Price) * 0.15))
	assert.GreaterOrEqual(t, storeDiscount, lo)
	assert.LessOrEqual(t, storeDiscount, hi)
}

func TestNextMixApproximatesConfiguredRates(t *testing.T) {
	g := newTestGenerator(42)

	reservations := 0
	const n = 2000
	for i := 0; i < n; i++ {
		if g.Next().Kind == model.PaymentTypeReservation {
			reservations++
		}
	}
	share := float64(reservations) / n
	assert.InDelta(t, 0.8, share, 0.05)
}
