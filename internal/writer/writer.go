// Package writer persists generated transaction batches.  Each batch is
// written inside one database transaction so an interrupted run never
// leaves a partially inserted transaction behind; auto-increment ids are
// resolved row by row and threaded into the dependent rows.
package writer

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-transaction-seeder/internal/generator"
	"github.com/iliyamo/cinema-transaction-seeder/internal/model"
)

// truncateOrder lists the transactional tables child-first so Reset never
// violates a foreign key.  Reference tables are untouched.
var truncateOrder = []string{
	"reservation_seat_list",
	"payment_discount",
	"ticket_discount",
	"payment_card",
	"payment_bank_transfer",
	"payment_mobile",
	"payment",
	"reservation_count",
	"reservation_seat",
	"reservation",
	"`order`",
}

// Writer persists generated batches into MySQL.
type Writer struct {
	db  *sql.DB
	log zerolog.Logger
}

// New constructs a Writer with the given DB handle.
func New(db *sql.DB, log zerolog.Logger) *Writer {
	return &Writer{db: db, log: log}
}

// Reset truncates all transactional tables before a run.
func (w *Writer) Reset(ctx context.Context) error {
	for _, table := range truncateOrder {
		if _, err := w.db.ExecContext(ctx, "TRUNCATE TABLE "+table); err != nil {
			return err
		}
	}
	w.log.Info().Int("tables", len(truncateOrder)).Msg("transactional tables truncated")
	return nil
}

// WriteBatch inserts a batch of transactions atomically.
func (w *Writer) WriteBatch(ctx context.Context, txs []generator.Transaction) (err error) {
	dbtx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = dbtx.Rollback()
		} else {
			err = dbtx.Commit()
		}
	}()
	for i := range txs {
		if err = w.writeOne(ctx, dbtx, &txs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeOne(ctx context.Context, dbtx *sql.Tx, tx *generator.Transaction) error {
	var typeID uint64
	var err error
	switch tx.Kind {
	case model.PaymentTypeReservation:
		if typeID, err = w.writeReservation(ctx, dbtx, tx); err != nil {
			return err
		}
	case model.PaymentTypeStore:
		if typeID, err = w.writeOrder(ctx, dbtx, tx.Order); err != nil {
			return err
		}
	}
	tx.Payment.TypeID = typeID
	return w.writePayment(ctx, dbtx, tx)
}

func (w *Writer) writeReservation(ctx context.Context, dbtx *sql.Tx, tx *generator.Transaction) (uint64, error) {
	const q = `INSERT INTO reservation (schedule_id, user_id, non_user_id, price, status, created_at)
	           VALUES (?, ?, ?, ?, ?, ?)`
	r := tx.Reservation
	res, err := dbtx.ExecContext(ctx, q, r.ScheduleID, r.UserID, r.NonUserID, r.Price, r.Status, r.CreatedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	r.ID = uint64(id)

	for i := range tx.Seats {
		if err := w.writeSeat(ctx, dbtx, r.ID, &tx.Seats[i]); err != nil {
			return 0, err
		}
	}

	const qc = `INSERT INTO reservation_count (reservation_id, age_type, count, price) VALUES (?, ?, ?, ?)`
	for i := range tx.Counts {
		c := &tx.Counts[i]
		c.ReservationID = r.ID
		if _, err := dbtx.ExecContext(ctx, qc, c.ReservationID, c.AgeType, c.Count, c.Price); err != nil {
			return 0, err
		}
	}
	return r.ID, nil
}

func (w *Writer) writeSeat(ctx context.Context, dbtx *sql.Tx, reservationID uint64, b *generator.SeatBooking) error {
	const qs = `INSERT INTO reservation_seat (schedule_id, seat_id, created_at) VALUES (?, ?, ?)`
	res, err := dbtx.ExecContext(ctx, qs, b.Seat.ScheduleID, b.Seat.SeatID, b.Seat.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.Seat.ID = uint64(id)

	const ql = `INSERT INTO reservation_seat_list (reservation_id, reservation_seat_id) VALUES (?, ?)`
	if _, err := dbtx.ExecContext(ctx, ql, reservationID, b.Seat.ID); err != nil {
		return err
	}

	if b.Discount != nil {
		b.Discount.ReservationSeatID = b.Seat.ID
		const qd = `INSERT INTO ticket_discount (reservation_seat_id, benefit_code, applied_amount, created_at)
		            VALUES (?, ?, ?, ?)`
		res, err := dbtx.ExecContext(ctx, qd, b.Discount.ReservationSeatID, b.Discount.BenefitCode,
			b.Discount.AppliedAmount, b.Discount.CreatedAt)
		if err != nil {
			return err
		}
		if bid, err := res.LastInsertId(); err == nil {
			b.Discount.BenefitID = uint64(bid)
		}
	}
	return nil
}

func (w *Writer) writeOrder(ctx context.Context, dbtx *sql.Tx, o *model.Order) (uint64, error) {
	const q = "INSERT INTO `order` (user_id, price, status, created_at) VALUES (?, ?, ?, ?)"
	res, err := dbtx.ExecContext(ctx, q, o.UserID, o.Price, o.Status, o.CreatedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	o.ID = uint64(id)
	return o.ID, nil
}

func (w *Writer) writePayment(ctx context.Context, dbtx *sql.Tx, tx *generator.Transaction) error {
	const q = `INSERT INTO payment (payment_type, type_id, origin_amount, discount_total, amount, status, created_at, completed_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	p := &tx.Payment
	res, err := dbtx.ExecContext(ctx, q, p.PaymentType, p.TypeID, p.OriginAmount, p.DiscountTotal,
		p.Amount, p.Status, p.CreatedAt, p.CompletedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	if tx.PaymentDiscount != nil {
		tx.PaymentDiscount.PaymentID = p.ID
		const qd = `INSERT INTO payment_discount (payment_id, policy_id, applied_amount, created_at)
		            VALUES (?, ?, ?, ?)`
		d := tx.PaymentDiscount
		if _, err := dbtx.ExecContext(ctx, qd, d.PaymentID, d.PolicyID, d.AppliedAmount, d.CreatedAt); err != nil {
			return err
		}
	}

	switch {
	case tx.Card != nil:
		tx.Card.PaymentID = p.ID
		const qc = `INSERT INTO payment_card (payment_id, card_company_code, card_number, installment_months, card_approval_number)
		            VALUES (?, ?, ?, ?, ?)`
		c := tx.Card
		if _, err := dbtx.ExecContext(ctx, qc, c.PaymentID, c.CardCompanyCode, c.CardNumber, c.InstallmentMonths, c.CardApprovalNumber); err != nil {
			return err
		}
	case tx.Bank != nil:
		tx.Bank.PaymentID = p.ID
		const qb = `INSERT INTO payment_bank_transfer (payment_id, bank_code, account_number, account_holder_name)
		            VALUES (?, ?, ?, ?)`
		b := tx.Bank
		if _, err := dbtx.ExecContext(ctx, qb, b.PaymentID, b.BankCode, b.AccountNumber, b.AccountHolderName); err != nil {
			return err
		}
	case tx.Mobile != nil:
		tx.Mobile.PaymentID = p.ID
		const qm = `INSERT INTO payment_mobile (payment_id, carrier_code, phone_number, approval_code)
		            VALUES (?, ?, ?, ?)`
		m := tx.Mobile
		if _, err := dbtx.ExecContext(ctx, qm, m.PaymentID, m.CarrierCode, m.PhoneNumber, m.ApprovalCode); err != nil {
			return err
		}
	}
	return nil
}
