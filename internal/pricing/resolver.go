// Package pricing implements the layered discount pipeline: base ticket
// price resolution, seat-level benefit discounts, payment-level partner
// policy discounts and final settlement.  Everything here is pure and
// synchronous; randomness enters only through *rand.Rand values supplied
// by the caller, which keeps runs reproducible under a fixed seed.
package pricing

import (
	"github.com/iliyamo/cinema-transaction-seeder/internal/catalog"
	"github.com/iliyamo/cinema-transaction-seeder/internal/model"
)

// PriceResolver computes the base ticket price for one (schedule, age
// category) pair from the reference catalog's adjustment tables.
type PriceResolver struct {
	cat  *catalog.Catalog
	base model.Money
}

// NewPriceResolver returns a resolver over the given catalog with the
// configured base ticket price.
func NewPriceResolver(cat *catalog.Catalog, base model.Money) *PriceResolver {
	return &PriceResolver{cat: cat, base: base}
}

// Resolve returns base + adjustment(screen type) + adjustment(screen time)
// + adjustment(age category), floored at zero.  An unknown schedule
// degrades to the unadjusted base price and unknown adjustment keys
// contribute zero; resolution never fails.
func (r *PriceResolver) Resolve(scheduleID uint64, age model.AgeType) model.Money {
	sched, ok := r.cat.Schedule(scheduleID)
	if !ok {
		return r.base
	}
	price := r.base
	price += r.cat.ScreenTypeAdjust(sched.ScreenType)
	price += r.cat.ScreenTimeAdjust(sched.ScreenTime)
	price += r.cat.AgeAdjust(age)
	if price < 0 {
		price = 0
	}
	return price
}
