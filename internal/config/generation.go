package config

import (
	"os"
	"strconv"
	"time"

	"github.com/iliyamo/cinema-transaction-seeder/internal/model"
)

// GenerationConfig collects every tunable of a generation run.  The rates
// and weights are generation parameters, not business rules, so none of
// them is hard-coded in the engine; the defaults reproduce the reference
// data shape (80/20 reservation/store split, 60% card-discount attempts,
// 30%/15% coupon/voucher holders, and so on).
type GenerationConfig struct {
	TotalRecords int   // number of synthetic transactions per run
	BatchSize    int   // transactions per database commit
	Seed         int64 // RNG seed; identical seeds give identical runs

	BaseTicketPrice   model.Money // list price before adjustments
	CardCompanyPrefix string      // partner-id prefix identifying card companies

	MemberRate       float64 // share of reservation buyers who are members
	ReservationRate  float64 // share of transactions that are reservations
	SeatBenefitRate  float64 // per-seat probability of attempting a benefit
	CardDiscountRate float64 // per-card-payment probability of a policy lookup

	CouponHolderRate   float64     // share of members simulated as coupon holders
	VoucherHolderRate  float64     // share of members simulated as voucher holders
	MinPointBalance    model.Money // balance a member must exceed to spend points
	PointDiscountFloor model.Money // smallest point discount the sampler draws

	StoreDiscountMin float64 // lower bound of the flat store discount band
	StoreDiscountMax float64 // upper bound of the flat store discount band

	MaxSeats    int // seats per reservation, drawn from [1, MaxSeats]
	MaxStoreQty int // units per store order, drawn from [1, MaxStoreQty]

	CardWeight   int // payment method weights (card/bank/mobile)
	BankWeight   int
	MobileWeight int
	AgeWeights   []int // admission category weights, same order as model.AgeTypes

	LockTTL    time.Duration // redis run-lock expiry
	RunOnStart bool          // trigger a run immediately at boot
}

// LoadGenerationConfig reads the generation tunables with defaults and
// clamps values into sane ranges.
func LoadGenerationConfig() GenerationConfig {
	g := GenerationConfig{
		TotalRecords:       envInt("SEED_TOTAL_RECORDS", 100000),
		BatchSize:          envInt("SEED_BATCH_SIZE", 500),
		Seed:               envInt64("SEED_RANDOM_SEED", 42),
		BaseTicketPrice:    model.Money(envInt64("SEED_BASE_TICKET_PRICE", 15000)),
		CardCompanyPrefix:  envStr("SEED_CARD_COMPANY_PREFIX", "005"),
		MemberRate:         envFloat("SEED_MEMBER_RATE", 0.8),
		ReservationRate:    envFloat("SEED_RESERVATION_RATE", 0.8),
		SeatBenefitRate:    envFloat("SEED_SEAT_BENEFIT_RATE", 0.5),
		CardDiscountRate:   envFloat("SEED_CARD_DISCOUNT_RATE", 0.6),
		CouponHolderRate:   envFloat("SEED_COUPON_HOLDER_RATE", 0.3),
		VoucherHolderRate:  envFloat("SEED_VOUCHER_HOLDER_RATE", 0.15),
		MinPointBalance:    model.Money(envInt64("SEED_MIN_POINT_BALANCE", 1000)),
		PointDiscountFloor: model.Money(envInt64("SEED_POINT_DISCOUNT_FLOOR", 500)),
		StoreDiscountMin:   envFloat("SEED_STORE_DISCOUNT_MIN", 0.05),
		StoreDiscountMax:   envFloat("SEED_STORE_DISCOUNT_MAX", 0.15),
		MaxSeats:           envInt("SEED_MAX_SEATS", 4),
		MaxStoreQty:        envInt("SEED_MAX_STORE_QTY", 3),
		CardWeight:         envInt("SEED_CARD_WEIGHT", 70),
		BankWeight:         envInt("SEED_BANK_WEIGHT", 10),
		MobileWeight:       envInt("SEED_MOBILE_WEIGHT", 20),
		AgeWeights: []int{
			envInt("SEED_AGE_WEIGHT_ADULT", 60),
			envInt("SEED_AGE_WEIGHT_YOUTH", 25),
			envInt("SEED_AGE_WEIGHT_SENIOR", 10),
			envInt("SEED_AGE_WEIGHT_PRIME", 5),
		},
		LockTTL:    envDur("SEED_LOCK_TTL", 30*time.Minute),
		RunOnStart: envBool("SEED_RUN_ON_START", false),
	}
	if g.TotalRecords < 0 {
		g.TotalRecords = 0
	}
	if g.BatchSize < 1 {
		g.BatchSize = 1
	}
	if g.MaxSeats < 1 {
		g.MaxSeats = 1
	}
	if g.MaxStoreQty < 1 {
		g.MaxStoreQty = 1
	}
	g.MemberRate = clampRate(g.MemberRate)
	g.ReservationRate = clampRate(g.ReservationRate)
	g.SeatBenefitRate = clampRate(g.SeatBenefitRate)
	g.CardDiscountRate = clampRate(g.CardDiscountRate)
	g.CouponHolderRate = clampRate(g.CouponHolderRate)
	g.VoucherHolderRate = clampRate(g.VoucherHolderRate)
	g.StoreDiscountMin = clampRate(g.StoreDiscountMin)
	g.StoreDiscountMax = clampRate(g.StoreDiscountMax)
	if g.StoreDiscountMax < g.StoreDiscountMin {
		g.StoreDiscountMax = g.StoreDiscountMin
	}
	if g.LockTTL < time.Minute {
		g.LockTTL = time.Minute
	}
	return g
}

func clampRate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envInt64(k string, d int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	return d
}

func envFloat(k string, d float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
