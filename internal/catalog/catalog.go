// Package catalog loads the read-only reference data a generation run
// prices against: showing schedules, price adjustment tables, active
// partner discount policies, coupons, member point balances and the id
// pools for seats, guests and store items.  A Catalog is built once per
// run and never mutated afterwards, so concurrent readers need no locking.
package catalog

import (
	"context"
	"database/sql"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-transaction-seeder/internal/model"
)

// NoBenefitCap marks a discount policy without a max_benefit_amount row
// value.  Using the largest Money keeps the clamp arithmetic branch-free.
const NoBenefitCap = model.Money(math.MaxInt64)

// Schedule is the screening context of one schedule row.  Screen type and
// time slot each key an additive price adjustment.
type Schedule struct {
	ScreenType string // screen_schedule.screen_type
	ScreenTime string // screen_schedule.screen_time
}

// DiscountPolicy is a payment-level promotion scoped to a card partner.
// Exactly one of Amount/Percent is meaningful; when both are nil the policy
// yields a zero discount.  Policies are filtered to end_date >= today at
// load time, so every policy held by the catalog is currently valid.
type DiscountPolicy struct {
	ID         uint64       // discount_policy.policy_id
	PartnerID  string       // discount_policy.partner_id
	Amount     *model.Money // discount_policy.discount_amount (nullable)
	Percent    *float64     // discount_policy.discount_percent (nullable)
	MinPrice   model.Money  // discount_policy.min_price
	MaxBenefit model.Money  // discount_policy.max_benefit_amount, NoBenefitCap when null
}

// CouponType is the discount shape of a coupon: a fixed amount or a
// percentage of the ticket price.
type CouponType uint8

const (
	CouponFixed   CouponType = 0
	CouponPercent CouponType = 1
)

// Coupon is a seat-level discount instrument resolved by id.
type Coupon struct {
	ID        uint64       // coupon.coupon_id
	Type      CouponType   // coupon.discount_type
	Value     float64      // coupon.discount_value (amount or percent)
	MaxAmount *model.Money // coupon.max_discount_amount (nullable)
	MinPrice  model.Money  // coupon.min_price
}

// Data is the raw reference material a Catalog is assembled from.  Load
// fills it from MySQL; tests construct it directly.
type Data struct {
	Schedules        map[uint64]Schedule
	ScreenTypeAdjust map[string]model.Money
	ScreenTimeAdjust map[string]model.Money
	AgeAdjust        map[model.AgeType]model.Money
	Policies         []DiscountPolicy
	Coupons          []Coupon
	UserPoints       map[uint64]model.Money
	NonUserIDs       []uint64
	SeatIDs          []uint64
	StoreItems       map[uint64]model.Money
}

// Catalog is the immutable snapshot of reference data for one run.  The id
// slices are sorted ascending so that random selection over them is fully
// determined by the run's seed rather than map iteration order.
type Catalog struct {
	schedules     map[uint64]Schedule
	scheduleIDs   []uint64
	screenTypeAdj map[string]model.Money
	screenTimeAdj map[string]model.Money
	ageAdj        map[model.AgeType]model.Money
	policies      map[string][]DiscountPolicy
	cardPartners  []string
	coupons       map[uint64]Coupon
	couponIDs     []uint64
	userPoints    map[uint64]model.Money
	userIDs       []uint64
	nonUserIDs    []uint64
	seatIDs       []uint64
	storeItems    map[uint64]model.Money
	storeItemIDs  []uint64
}

// New assembles a Catalog from raw reference data.  cardPrefix selects
// which partners count as card companies for payment-level discounts.
func New(d Data, cardPrefix string) *Catalog {
	c := &Catalog{
		schedules:     d.Schedules,
		screenTypeAdj: d.ScreenTypeAdjust,
		screenTimeAdj: d.ScreenTimeAdjust,
		ageAdj:        d.AgeAdjust,
		policies:      make(map[string][]DiscountPolicy),
		coupons:       make(map[uint64]Coupon),
		userPoints:    d.UserPoints,
		nonUserIDs:    sortedIDs(d.NonUserIDs),
		seatIDs:       sortedIDs(d.SeatIDs),
		storeItems:    d.StoreItems,
	}
	if c.schedules == nil {
		c.schedules = map[uint64]Schedule{}
	}
	if c.screenTypeAdj == nil {
		c.screenTypeAdj = map[string]model.Money{}
	}
	if c.screenTimeAdj == nil {
		c.screenTimeAdj = map[string]model.Money{}
	}
	if c.ageAdj == nil {
		c.ageAdj = map[model.AgeType]model.Money{}
	}
	if c.userPoints == nil {
		c.userPoints = map[uint64]model.Money{}
	}
	if c.storeItems == nil {
		c.storeItems = map[uint64]model.Money{}
	}
	for id := range c.schedules {
		c.scheduleIDs = append(c.scheduleIDs, id)
	}
	sort.Slice(c.scheduleIDs, func(i, j int) bool { return c.scheduleIDs[i] < c.scheduleIDs[j] })
	for _, p := range d.Policies {
		c.policies[p.PartnerID] = append(c.policies[p.PartnerID], p)
	}
	for partner := range c.policies {
		if strings.HasPrefix(partner, cardPrefix) {
			c.cardPartners = append(c.cardPartners, partner)
		}
	}
	sort.Strings(c.cardPartners)
	for _, cp := range d.Coupons {
		c.coupons[cp.ID] = cp
		c.couponIDs = append(c.couponIDs, cp.ID)
	}
	sort.Slice(c.couponIDs, func(i, j int) bool { return c.couponIDs[i] < c.couponIDs[j] })
	for id := range c.userPoints {
		c.userIDs = append(c.userIDs, id)
	}
	sort.Slice(c.userIDs, func(i, j int) bool { return c.userIDs[i] < c.userIDs[j] })
	for id := range c.storeItems {
		c.storeItemIDs = append(c.storeItemIDs, id)
	}
	sort.Slice(c.storeItemIDs, func(i, j int) bool { return c.storeItemIDs[i] < c.storeItemIDs[j] })
	return c
}

func sortedIDs(ids []uint64) []uint64 {
	out := make([]uint64, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Load reads all reference tables and validates that the data sets the
// generator cannot run without are present.  Empty coupon or policy tables
// are logged and tolerated; the corresponding discounts simply never apply.
func Load(ctx context.Context, db *sql.DB, cardPrefix string, log zerolog.Logger) (*Catalog, error) {
	var d Data
	var err error

	if d.Schedules, err = loadSchedules(ctx, db); err != nil {
		return nil, err
	}
	if d.ScreenTypeAdjust, d.ScreenTimeAdjust, d.AgeAdjust, err = loadAdjustments(ctx, db); err != nil {
		return nil, err
	}
	if d.Policies, err = loadPolicies(ctx, db, time.Now().UTC()); err != nil {
		return nil, err
	}
	if d.Coupons, err = loadCoupons(ctx, db); err != nil {
		return nil, err
	}
	if d.UserPoints, err = loadUsers(ctx, db); err != nil {
		return nil, err
	}
	if d.NonUserIDs, err = queryIDs(ctx, db, `SELECT non_user_id FROM non_user`); err != nil {
		return nil, err
	}
	if d.SeatIDs, err = queryIDs(ctx, db, `SELECT seat_id FROM seat`); err != nil {
		return nil, err
	}
	if d.StoreItems, err = loadStoreItems(ctx, db); err != nil {
		return nil, err
	}

	c := New(d, cardPrefix)

	// The run is aborted before any generation when a prerequisite table is
	// empty; silently seeding against nothing would produce garbage batches.
	switch {
	case len(c.scheduleIDs) == 0:
		return nil, missingTable("screen_schedule")
	case len(c.seatIDs) == 0:
		return nil, missingTable("seat")
	case len(c.userIDs) == 0:
		return nil, missingTable("user")
	case len(c.nonUserIDs) == 0:
		return nil, missingTable("non_user")
	case len(c.storeItemIDs) == 0:
		return nil, missingTable("store_item")
	}

	if len(c.couponIDs) == 0 {
		log.Warn().Msg("coupon table is empty; coupon discounts will not apply")
	}
	if len(c.cardPartners) == 0 {
		log.Warn().Str("card_prefix", cardPrefix).
			Msg("no active card partner policies; payment-level discounts will not apply")
	}

	log.Info().
		Int("schedules", len(c.scheduleIDs)).
		Int("seats", len(c.seatIDs)).
		Int("users", len(c.userIDs)).
		Int("non_users", len(c.nonUserIDs)).
		Int("store_items", len(c.storeItemIDs)).
		Int("coupons", len(c.couponIDs)).
		Int("card_partners", len(c.cardPartners)).
		Msg("reference catalog loaded")
	return c, nil
}

func loadSchedules(ctx context.Context, db *sql.DB) (map[uint64]Schedule, error) {
	const q = `SELECT schedule_id, screen_type, screen_time FROM screen_schedule`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uint64]Schedule)
	for rows.Next() {
		var id uint64
		var s Schedule
		if err := rows.Scan(&id, &s.ScreenType, &s.ScreenTime); err != nil {
			return nil, err
		}
		out[id] = s
	}
	return out, rows.Err()
}

func loadAdjustments(ctx context.Context, db *sql.DB) (map[string]model.Money, map[string]model.Money, map[model.AgeType]model.Money, error) {
	// screen_type carries an absolute surcharge in its price column;
	// screen_time and age_type carry signed adjust_price deltas.  All three
	// are applied additively on top of the configured base ticket price.
	screenType, err := loadAdjustmentMap(ctx, db, `SELECT screen_type, price FROM screen_type`)
	if err != nil {
		return nil, nil, nil, err
	}
	screenTime, err := loadAdjustmentMap(ctx, db, `SELECT screen_time, adjust_price FROM screen_time`)
	if err != nil {
		return nil, nil, nil, err
	}
	raw, err := loadAdjustmentMap(ctx, db, `SELECT age_type, adjust_price FROM age_type`)
	if err != nil {
		return nil, nil, nil, err
	}
	age := make(map[model.AgeType]model.Money, len(raw))
	for k, v := range raw {
		age[model.AgeType(k)] = v
	}
	return screenType, screenTime, age, nil
}

func loadAdjustmentMap(ctx context.Context, db *sql.DB, q string) (map[string]model.Money, error) {
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]model.Money)
	for rows.Next() {
		var key string
		var v model.Money
		if err := rows.Scan(&key, &v); err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, rows.Err()
}

func loadPolicies(ctx context.Context, db *sql.DB, now time.Time) ([]DiscountPolicy, error) {
	// Validity is enforced here once: expired policies never enter the
	// catalog, so the engine does not re-check windows per transaction.
	const q = `SELECT policy_id, partner_id, discount_amount, discount_percent, min_price, max_benefit_amount
	           FROM discount_policy
	           WHERE end_date >= ?
	           ORDER BY policy_id`
	rows, err := db.QueryContext(ctx, q, now.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DiscountPolicy
	for rows.Next() {
		var p DiscountPolicy
		var amount, maxBenefit sql.NullInt64
		var percent sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.PartnerID, &amount, &percent, &p.MinPrice, &maxBenefit); err != nil {
			return nil, err
		}
		if amount.Valid {
			v := model.Money(amount.Int64)
			p.Amount = &v
		}
		if percent.Valid {
			v := percent.Float64
			p.Percent = &v
		}
		p.MaxBenefit = NoBenefitCap
		if maxBenefit.Valid {
			p.MaxBenefit = model.Money(maxBenefit.Int64)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func loadCoupons(ctx context.Context, db *sql.DB) ([]Coupon, error) {
	const q = `SELECT coupon_id, discount_type, discount_value, max_discount_amount, min_price FROM coupon`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Coupon
	for rows.Next() {
		var cp Coupon
		var maxAmount sql.NullInt64
		if err := rows.Scan(&cp.ID, &cp.Type, &cp.Value, &maxAmount, &cp.MinPrice); err != nil {
			return nil, err
		}
		if maxAmount.Valid {
			v := model.Money(maxAmount.Int64)
			cp.MaxAmount = &v
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}

func loadUsers(ctx context.Context, db *sql.DB) (map[uint64]model.Money, error) {
	const q = `SELECT user_id, point FROM user`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uint64]model.Money)
	for rows.Next() {
		var id uint64
		var point model.Money
		if err := rows.Scan(&id, &point); err != nil {
			return nil, err
		}
		out[id] = point
	}
	return out, rows.Err()
}

func loadStoreItems(ctx context.Context, db *sql.DB) (map[uint64]model.Money, error) {
	const q = `SELECT store_item_id, price FROM store_item`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uint64]model.Money)
	for rows.Next() {
		var id uint64
		var price model.Money
		if err := rows.Scan(&id, &price); err != nil {
			return nil, err
		}
		out[id] = price
	}
	return out, rows.Err()
}

func queryIDs(ctx context.Context, db *sql.DB, q string) ([]uint64, error) {
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Schedule returns the screening context for a schedule id.  The second
// return reports whether the schedule is known; callers degrade to the base
// price when it is not.
func (c *Catalog) Schedule(id uint64) (Schedule, bool) {
	s, ok := c.schedules[id]
	return s, ok
}

// ScheduleIDs returns all schedule ids in ascending order.
func (c *Catalog) ScheduleIDs() []uint64 { return c.scheduleIDs }

// ScreenTypeAdjust returns the price adjustment for a screen type; unknown
// keys contribute zero.
func (c *Catalog) ScreenTypeAdjust(screenType string) model.Money {
	return c.screenTypeAdj[screenType]
}

// ScreenTimeAdjust returns the price adjustment for a time slot; unknown
// keys contribute zero.
func (c *Catalog) ScreenTimeAdjust(screenTime string) model.Money {
	return c.screenTimeAdj[screenTime]
}

// AgeAdjust returns the price adjustment for an age category; unknown keys
// contribute zero.
func (c *Catalog) AgeAdjust(age model.AgeType) model.Money {
	return c.ageAdj[age]
}

// PoliciesFor returns the active policies of a partner, empty when the
// partner is unknown.
func (c *Catalog) PoliciesFor(partnerID string) []DiscountPolicy {
	return c.policies[partnerID]
}

// CardPartnerIDs returns the partners with at least one active policy whose
// id carries the configured card-company prefix, sorted ascending.
func (c *Catalog) CardPartnerIDs() []string { return c.cardPartners }

// Coupon resolves a coupon by id.
func (c *Catalog) Coupon(id uint64) (Coupon, bool) {
	cp, ok := c.coupons[id]
	return cp, ok
}

// CouponIDs returns all coupon ids in ascending order.
func (c *Catalog) CouponIDs() []uint64 { return c.couponIDs }

// UserIDs returns all member ids in ascending order.
func (c *Catalog) UserIDs() []uint64 { return c.userIDs }

// PointBalance returns the loaded point balance of a member, zero for
// unknown users.
func (c *Catalog) PointBalance(userID uint64) model.Money {
	return c.userPoints[userID]
}

// NonUserIDs returns all guest ids in ascending order.
func (c *Catalog) NonUserIDs() []uint64 { return c.nonUserIDs }

// SeatIDs returns all seat ids in ascending order.
func (c *Catalog) SeatIDs() []uint64 { return c.seatIDs }

// StoreItemIDs returns all store item ids in ascending order.
func (c *Catalog) StoreItemIDs() []uint64 { return c.storeItemIDs }

// StoreItemPrice returns the unit price of a store item, zero for unknown
// items.
func (c *Catalog) StoreItemPrice(id uint64) model.Money {
	return c.storeItems[id]
}
