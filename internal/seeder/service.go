// Package seeder orchestrates generation runs: it guards the database with
// a run lock, loads the reference catalog, wires the pricing pipeline,
// streams generated batches to the writer and publishes a completion
// event.  One run executes at a time per process.
package seeder

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-transaction-seeder/internal/benefit"
	"github.com/iliyamo/cinema-transaction-seeder/internal/catalog"
	"github.com/iliyamo/cinema-transaction-seeder/internal/config"
	"github.com/iliyamo/cinema-transaction-seeder/internal/generator"
	"github.com/iliyamo/cinema-transaction-seeder/internal/model"
	"github.com/iliyamo/cinema-transaction-seeder/internal/pricing"
	"github.com/iliyamo/cinema-transaction-seeder/internal/queue"
	"github.com/iliyamo/cinema-transaction-seeder/internal/runlock"
	"github.com/iliyamo/cinema-transaction-seeder/internal/writer"
)

const lockKey = "seed:run:lock"

// ErrRunInProgress is returned by Start when a run is already executing.
var ErrRunInProgress = errors.New("a generation run is already in progress")

// RunState is the lifecycle state of a run.
type RunState string

const (
	RunRunning   RunState = "RUNNING"
	RunCompleted RunState = "COMPLETED"
	RunFailed    RunState = "FAILED"
)

// RunStatus is a snapshot of a run's progress, safe to hand to handlers.
type RunStatus struct {
	ID           string     `json:"id"`
	State        RunState   `json:"state"`
	Records      int        `json:"records"`
	Written      int        `json:"written"`
	Reservations int        `json:"reservations"`
	Orders       int        `json:"orders"`
	Error        string     `json:"error,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Service owns run execution and exposes the status of the latest run.
type Service struct {
	db  *sql.DB
	rdb *redis.Client
	cfg config.GenerationConfig
	w   *writer.Writer
	log zerolog.Logger

	mu      sync.Mutex
	current *RunStatus
	running bool
}

// New builds a Service.  rdb may be nil; runs then execute without the
// cross-instance lock.
func New(db *sql.DB, rdb *redis.Client, cfg config.GenerationConfig, log zerolog.Logger) *Service {
	return &Service{
		db:  db,
		rdb: rdb,
		cfg: cfg,
		w:   writer.New(db, log),
		log: log,
	}
}

// Start launches a generation run in the background and returns its
// initial status.  It refuses to overlap runs within the process; the
// redis lock additionally guards against other instances.
func (s *Service) Start() (RunStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return *s.current, ErrRunInProgress
	}
	now := time.Now().UTC()
	st := &RunStatus{
		ID:        "run-" + now.Format("20060102T150405Z"),
		State:     RunRunning,
		Records:   s.cfg.TotalRecords,
		StartedAt: now,
	}
	s.current = st
	s.running = true
	go s.run()
	return *st, nil
}

// Latest returns the status of the most recent run, ok=false before any
// run has started.
func (s *Service) Latest() (RunStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return RunStatus{}, false
	}
	return *s.current, true
}

func (s *Service) update(fn func(st *RunStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.current)
}

func (s *Service) finish(state RunState, errMsg string) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.State = state
	s.current.Error = errMsg
	s.current.FinishedAt = &now
	s.running = false
}

// run executes one full generation run.  It uses a background context:
// the run belongs to the process, not to the HTTP request that started it.
func (s *Service) run() {
	ctx := context.Background()
	log := s.log.With().Str("run_id", s.current.ID).Logger()

	lock := runlock.New(s.rdb, lockKey, s.cfg.LockTTL, log)
	ok, err := lock.Acquire(ctx)
	if err != nil {
		log.Error().Err(err).Msg("run lock acquisition failed")
		s.finish(RunFailed, err.Error())
		return
	}
	if !ok {
		log.Error().Msg("another seeder instance holds the run lock")
		s.finish(RunFailed, "another seeder instance holds the run lock")
		return
	}
	defer func() { _ = lock.Release(ctx) }()

	if err := s.execute(ctx, log); err != nil {
		log.Error().Err(err).Msg("generation run failed")
		s.finish(RunFailed, err.Error())
		return
	}
	s.finish(RunCompleted, "")
	log.Info().Msg("generation run completed")
}

func (s *Service) execute(ctx context.Context, log zerolog.Logger) error {
	cat, err := catalog.Load(ctx, s.db, s.cfg.CardCompanyPrefix, log)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(s.cfg.Seed))
	now := time.Now().UTC()

	points := make(map[uint64]model.Money, len(cat.UserIDs()))
	for _, id := range cat.UserIDs() {
		points[id] = cat.PointBalance(id)
	}
	owners := benefit.SimulateOwnership(cat.UserIDs(), points, s.cfg.CouponHolderRate, s.cfg.VoucherHolderRate, rng)
	selector := benefit.NewSelector(owners, s.cfg.MinPointBalance)
	resolver := pricing.NewPriceResolver(cat, s.cfg.BaseTicketPrice)
	engine := pricing.NewEngine(cat, s.cfg.PointDiscountFloor, log)
	gen := generator.New(cat, resolver, engine, selector, s.cfg, rng, now, log)

	if err := s.w.Reset(ctx); err != nil {
		return err
	}

	var (
		batch         = make([]generator.Transaction, 0, s.cfg.BatchSize)
		reservations  int
		orders        int
		originTotal   model.Money
		discountTotal model.Money
		amountTotal   model.Money
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.w.WriteBatch(ctx, batch); err != nil {
			return err
		}
		n := len(batch)
		batch = batch[:0]
		s.update(func(st *RunStatus) {
			st.Written += n
			st.Reservations = reservations
			st.Orders = orders
		})
		return nil
	}

	for i := 0; i < s.cfg.TotalRecords; i++ {
		tx := gen.Next()
		if tx.Kind == model.PaymentTypeReservation {
			reservations++
		} else {
			orders++
		}
		originTotal += tx.Payment.OriginAmount
		discountTotal += tx.Payment.DiscountTotal
		amountTotal += tx.Payment.Amount
		batch = append(batch, tx)
		if len(batch) == s.cfg.BatchSize {
			if err := flush(); err != nil {
				return err
			}
			log.Info().Int("written", i+1).Int("total", s.cfg.TotalRecords).Msg("batch committed")
		}
	}
	if err := flush(); err != nil {
		return err
	}

	// Best effort: a broker outage must not fail a run that already
	// seeded the database.
	_ = queue.PublishRunCompleted(ctx, queue.RunCompletedEvent{
		RunID:         s.current.ID,
		Records:       s.cfg.TotalRecords,
		Reservations:  reservations,
		Orders:        orders,
		OriginTotal:   int64(originTotal),
		DiscountTotal: int64(discountTotal),
		AmountTotal:   int64(amountTotal),
		Seed:          s.cfg.Seed,
		StartedAt:     s.current.StartedAt.Format(time.RFC3339),
		FinishedAt:    time.Now().UTC().Format(time.RFC3339),
	}, log)
	return nil
}
