package benefit

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-transaction-seeder/internal/model"
)

func ownershipWithRates(couponRate, voucherRate float64, seed int64) *SimulatedOwnership {
	ids := []uint64{1, 2, 3, 4, 5}
	points := map[uint64]model.Money{1: 5000, 2: 1000, 3: 0, 4: 20000, 5: 999}
	return SimulateOwnership(ids, points, couponRate, voucherRate, rand.New(rand.NewSource(seed)))
}

func TestChooseRejectsNonMembers(t *testing.T) {
	s := NewSelector(ownershipWithRates(1, 1, 42), 1000)

	_, ok := s.Choose(rand.New(rand.NewSource(1)), 1, false)
	assert.False(t, ok)
}

func TestChoosePointRequiresBalanceAboveThreshold(t *testing.T) {
	// Nobody owns coupons or vouchers, so points are the only candidate.
	s := NewSelector(ownershipWithRates(0, 0, 42), 1000)
	rng := rand.New(rand.NewSource(1))

	code, ok := s.Choose(rng, 1, true)
	require.True(t, ok)
	assert.Equal(t, model.BenefitPoint, code)

	// A balance exactly at the threshold does not qualify.
	_, ok = s.Choose(rng, 2, true)
	assert.False(t, ok)

	_, ok = s.Choose(rng, 3, true)
	assert.False(t, ok)
}

func TestChooseRespectsOwnership(t *testing.T) {
	// Everyone owns coupons, nobody owns vouchers, user 3 has no points.
	s := NewSelector(ownershipWithRates(1, 0, 42), 1000)
	rng := rand.New(rand.NewSource(1))

	code, ok := s.Choose(rng, 3, true)
	require.True(t, ok)
	assert.Equal(t, model.BenefitCoupon, code)
}

func TestChooseNeverPicksVoucher(t *testing.T) {
	s := NewSelector(ownershipWithRates(1, 0, 42), 1000)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		code, ok := s.Choose(rng, 4, true)
		require.True(t, ok)
		assert.NotEqual(t, model.BenefitVoucher, code)
	}
}

func TestChooseDeterministicUnderFixedSeed(t *testing.T) {
	a := NewSelector(ownershipWithRates(0.5, 0.5, 42), 1000)
	b := NewSelector(ownershipWithRates(0.5, 0.5, 42), 1000)
	rngA := rand.New(rand.NewSource(9))
	rngB := rand.New(rand.NewSource(9))

	for i := 0; i < 100; i++ {
		for _, id := range []uint64{1, 2, 3, 4, 5} {
			codeA, okA := a.Choose(rngA, id, true)
			codeB, okB := b.Choose(rngB, id, true)
			assert.Equal(t, okA, okB)
			assert.Equal(t, codeA, codeB)
		}
	}
}

func TestSimulateOwnershipHolderCounts(t *testing.T) {
	s := ownershipWithRates(0.4, 0.2, 42)

	var coupons, vouchers int
	for id := uint64(1); id <= 5; id++ {
		if s.OwnsCoupon(id) {
			coupons++
		}
		if s.OwnsVoucher(id) {
			vouchers++
		}
	}
	assert.Equal(t, 2, coupons)
	assert.Equal(t, 1, vouchers)
}

func TestSpendPointsDecrementsAndFloors(t *testing.T) {
	s := ownershipWithRates(0, 0, 42)

	s.SpendPoints(1, 3000)
	assert.Equal(t, model.Money(2000), s.PointBalance(1))

	s.SpendPoints(1, 9999)
	assert.Equal(t, model.Money(0), s.PointBalance(1))
}

func TestPointBalanceUnknownUser(t *testing.T) {
	s := ownershipWithRates(0, 0, 42)

	assert.Equal(t, model.Money(0), s.PointBalance(999))
}
