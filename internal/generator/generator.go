package generator

import (
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-transaction-seeder/internal/benefit"
	"github.com/iliyamo/cinema-transaction-seeder/internal/catalog"
	"github.com/iliyamo/cinema-transaction-seeder/internal/config"
	"github.com/iliyamo/cinema-transaction-seeder/internal/model"
	"github.com/iliyamo/cinema-transaction-seeder/internal/pricing"
)

// Generator produces synthetic transactions one at a time.  It owns the
// run's RNG and must not be shared across goroutines; a parallel host
// would give each worker its own Generator with its own seeded stream.
type Generator struct {
	cat      *catalog.Catalog
	resolver *pricing.PriceResolver
	engine   *pricing.Engine
	selector *benefit.Selector
	cfg      config.GenerationConfig
	rng      *rand.Rand
	now      time.Time
	log      zerolog.Logger
}

// New builds a Generator.  now is the run's reference clock: all backdated
// timestamps derive from it, so fixing now and the RNG seed reproduces a
// run byte for byte.
func New(cat *catalog.Catalog, resolver *pricing.PriceResolver, engine *pricing.Engine,
	selector *benefit.Selector, cfg config.GenerationConfig, rng *rand.Rand,
	now time.Time, log zerolog.Logger) *Generator {
	return &Generator{
		cat:      cat,
		resolver: resolver,
		engine:   engine,
		selector: selector,
		cfg:      cfg,
		rng:      rng,
		now:      now,
		log:      log,
	}
}

// Next computes one complete transaction: reservation or store order,
// seat-level discounts, payment-level discount and final settlement.
func (g *Generator) Next() Transaction {
	if g.rng.Float64() < g.cfg.ReservationRate {
		return g.nextReservation()
	}
	return g.nextStoreOrder()
}

func (g *Generator) nextReservation() Transaction {
	tx := Transaction{Kind: model.PaymentTypeReservation}

	// Reservations accept both members and guests; only members can ever
	// receive seat-level benefits.
	isMember := g.rng.Float64() < g.cfg.MemberRate
	var userID, nonUserID uint64
	if isMember {
		userID = pickID(g.rng, g.cat.UserIDs())
	} else {
		nonUserID = pickID(g.rng, g.cat.NonUserIDs())
	}

	scheduleID := pickID(g.rng, g.cat.ScheduleIDs())
	numSeats := 1 + g.rng.Intn(g.cfg.MaxSeats)
	createdAt := hoursAgo(g.rng, g.now, 500)

	// Per-seat base prices and the per-age aggregation rows.
	prices := make([]model.Money, numSeats)
	var origin model.Money
	countIdx := make(map[model.AgeType]int)
	for i := 0; i < numSeats; i++ {
		age := model.AgeTypes[weightedIndex(g.rng, g.cfg.AgeWeights)]
		price := g.resolver.Resolve(scheduleID, age)
		prices[i] = price
		origin += price
		if j, ok := countIdx[age]; ok {
			tx.Counts[j].Count++
		} else {
			countIdx[age] = len(tx.Counts)
			tx.Counts = append(tx.Counts, model.ReservationCount{AgeType: age, Count: 1, Price: price})
		}
	}

	tx.Reservation = &model.Reservation{
		ScheduleID: scheduleID,
		Price:      origin,
		Status:     1,
		CreatedAt:  createdAt,
	}
	if isMember {
		tx.Reservation.UserID = &userID
	} else {
		tx.Reservation.NonUserID = &nonUserID
	}

	// Seat rows plus zero-or-one benefit discount per seat.
	var seatDiscounts []model.Money
	for i := 0; i < numSeats; i++ {
		booking := SeatBooking{Seat: model.ReservationSeat{
			ScheduleID: scheduleID,
			SeatID:     pickID(g.rng, g.cat.SeatIDs()),
			CreatedAt:  createdAt,
		}}
		if isMember && g.rng.Float64() < g.cfg.SeatBenefitRate {
			if d, code, ok := g.seatBenefit(userID, prices[i]); ok {
				seatDiscounts = append(seatDiscounts, d)
				booking.Discount = &model.TicketDiscount{
					BenefitCode:   code,
					AppliedAmount: d,
					CreatedAt:     createdAt,
				}
			}
		}
		tx.Seats = append(tx.Seats, booking)
	}

	g.attachPayment(&tx, origin, seatDiscounts)
	return tx
}

// seatBenefit runs the eligibility rules and resolves the discount amount
// for one seat.  Point spends are recorded against the ownership state so
// the same balance cannot fund unlimited discounts within a run.
func (g *Generator) seatBenefit(userID uint64, ticketPrice model.Money) (model.Money, model.BenefitCode, bool) {
	code, ok := g.selector.Choose(g.rng, userID, true)
	if !ok {
		return 0, "", false
	}
	owners := g.selector.Owners()
	var couponID uint64
	if code == model.BenefitCoupon {
		if couponID, ok = g.engine.PickCoupon(g.rng); !ok {
			return 0, "", false
		}
	}
	d := g.engine.SeatDiscount(g.rng, code, ticketPrice, owners.PointBalance(userID), couponID)
	if d <= 0 {
		return 0, "", false
	}
	if code == model.BenefitPoint {
		owners.SpendPoints(userID, d)
	}
	return d, code, true
}

func (g *Generator) nextStoreOrder() Transaction {
	tx := Transaction{Kind: model.PaymentTypeStore}

	// Store purchases are member-only.
	userID := pickID(g.rng, g.cat.UserIDs())
	itemID := pickID(g.rng, g.cat.StoreItemIDs())
	qty := 1 + g.rng.Intn(g.cfg.MaxStoreQty)
	origin := g.cat.StoreItemPrice(itemID) * model.Money(qty)
	createdAt := hoursAgo(g.rng, g.now, 500)

	tx.Order = &model.Order{
		UserID:    userID,
		Price:     origin,
		Status:    0,
		CreatedAt: createdAt,
	}

	// Store orders get a flat percentage discount instead of per-seat
	// benefits.
	rate := uniformFloat(g.rng, g.cfg.StoreDiscountMin, g.cfg.StoreDiscountMax)
	storeDiscount := model.Money(math.Round(float64(origin) * rate))

	g.attachPayment(&tx, origin, []model.Money{storeDiscount})
	return tx
}

// attachPayment selects the payment method, applies the payment-level
// partner policy for card payments, and settles the final amounts.
func (g *Generator) attachPayment(tx *Transaction, origin model.Money, preDiscounts []model.Money) {
	method := g.paymentMethod()

	var preTotal model.Money
	for _, d := range preDiscounts {
		preTotal += d
	}
	amountBefore := origin - preTotal
	if amountBefore < 0 {
		amountBefore = 0
	}

	completedAt := hoursAgo(g.rng, g.now, 10)

	var payDiscount model.Money
	if method == model.MethodCard {
		company := g.cardCompany()
		tx.Card = &model.PaymentCard{
			CardCompanyCode:    company,
			CardNumber:         numerify(g.rng, 4),
			InstallmentMonths:  []int{0, 3, 6}[g.rng.Intn(3)],
			CardApprovalNumber: numerify(g.rng, 10),
		}
		if g.rng.Float64() < g.cfg.CardDiscountRate {
			if p, ok := g.engine.PickPolicy(g.rng, company); ok {
				if d := g.engine.PolicyDiscount(p, amountBefore); d > 0 {
					payDiscount = d
					tx.PaymentDiscount = &model.PaymentDiscount{
						PolicyID:      p.ID,
						AppliedAmount: d,
						CreatedAt:     completedAt,
					}
				}
			}
		}
	}

	settled := pricing.Settle(origin, preDiscounts, payDiscount)
	tx.Payment = model.Payment{
		PaymentType:   tx.Kind,
		OriginAmount:  origin,
		DiscountTotal: settled.DiscountTotal,
		Amount:        settled.Amount,
		Status:        1,
		CreatedAt:     minutesAgo(g.rng, completedAt, 5),
		CompletedAt:   &completedAt,
	}

	switch method {
	case model.MethodBank:
		tx.Bank = &model.PaymentBankTransfer{
			BankCode:          bankCode,
			AccountNumber:     numerify(g.rng, 12),
			AccountHolderName: holderName(g.rng),
		}
	case model.MethodMobile:
		tx.Mobile = &model.PaymentMobile{
			CarrierCode:  carrierCode,
			PhoneNumber:  phoneNumber(g.rng),
			ApprovalCode: numerify(g.rng, 10),
		}
	}
}

func (g *Generator) paymentMethod() model.PaymentMethod {
	methods := []model.PaymentMethod{model.MethodCard, model.MethodBank, model.MethodMobile}
	weights := []int{g.cfg.CardWeight, g.cfg.BankWeight, g.cfg.MobileWeight}
	return methods[weightedIndex(g.rng, weights)]
}

// cardCompany picks a partner with active policies; with none available it
// falls back to a synthetic company code under the configured prefix and
// the payment simply gets no policy discount.
func (g *Generator) cardCompany() string {
	partners := g.cat.CardPartnerIDs()
	if len(partners) == 0 {
		return g.cfg.CardCompanyPrefix + "01"
	}
	return partners[g.rng.Intn(len(partners))]
}
