package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mdsabbir/vaxchain/internal/domain"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	FinalizeSuccess(ctx context.Context, paymentID int64, bankRef string) (*domain.Payment, *domain.VaccineRecord, error)
	MarkFailed(ctx context.Context, paymentID int64, bankRef string) (*domain.Payment, error)
}

type PGPaymentRepository struct {
	db              *pgxpool.Pool
	secondDoseSlots int
}

func NewPaymentRepository(db *pgxpool.Pool, secondDoseSlots int) *PGPaymentRepository {
	return &PGPaymentRepository{db: db, secondDoseSlots: secondDoseSlots}
}

const paymentColumns = `id, patient_id, campaign_id, schedule_id, record_id, amount_cents, status, reference, bank_ref, created_at, updated_at`

func scanPayment(row pgx.Row, p *domain.Payment) error {
	return row.Scan(&p.ID, &p.PatientID, &p.CampaignID, &p.ScheduleID, &p.RecordID, &p.AmountCents, &p.Status, &p.Reference, &p.BankRef, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PGPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	payment.Status = domain.PaymentStatusPending
	return r.db.QueryRow(ctx, `INSERT INTO payments (patient_id, campaign_id, schedule_id, amount_cents, status, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		payment.PatientID, payment.CampaignID, payment.ScheduleID, payment.AmountCents, payment.Status, payment.Reference).
		Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
}

func (r *PGPaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1`, id)
	var p domain.Payment
	if err := scanPayment(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FinalizeSuccess applies a success callback: the payment row is locked, the
// booking steps run on the same transaction and the payment is marked
// SUCCESS with the created record linked, so a crash can never leave a
// succeeded payment without its record. A payment that already carries a
// record is returned unchanged, which makes repeated success callbacks for
// the same transaction id harmless.
func (r *PGPaymentRepository) FinalizeSuccess(ctx context.Context, paymentID int64, bankRef string) (*domain.Payment, *domain.VaccineRecord, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1 FOR UPDATE`, paymentID)
	var p domain.Payment
	if err := scanPayment(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrPaymentNotFound
		}
		return nil, nil, err
	}

	switch p.Status {
	case domain.PaymentStatusSuccess:
		if p.RecordID == nil {
			return nil, nil, domain.ErrPaymentFinalized
		}
		var rec domain.VaccineRecord
		if err := scanRecord(tx.QueryRow(ctx, `SELECT `+recordColumns+` FROM vaccine_records WHERE id=$1`, *p.RecordID), &rec); err != nil {
			return nil, nil, err
		}
		return &p, &rec, tx.Commit(ctx)
	case domain.PaymentStatusFailed:
		return nil, nil, domain.ErrPaymentFinalized
	}

	record, err := bookInTx(ctx, tx, p.PatientID, p.CampaignID, p.ScheduleID, r.secondDoseSlots)
	if err != nil {
		return nil, nil, err
	}

	row = tx.QueryRow(ctx, `UPDATE payments SET status=$1, bank_ref=$2, record_id=$3, updated_at=now() WHERE id=$4 RETURNING `+paymentColumns,
		domain.PaymentStatusSuccess, bankRef, record.ID, p.ID)
	if err := scanPayment(row, &p); err != nil {
		return nil, nil, err
	}
	return &p, record, tx.Commit(ctx)
}

// MarkFailed records a failure callback without any booking side effects.
func (r *PGPaymentRepository) MarkFailed(ctx context.Context, paymentID int64, bankRef string) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `UPDATE payments SET status=$1, bank_ref=$2, updated_at=now()
		WHERE id=$3 AND status=$4
		RETURNING `+paymentColumns,
		domain.PaymentStatusFailed, bankRef, paymentID, domain.PaymentStatusPending)
	var p domain.Payment
	if err := scanPayment(row, &p); err == nil {
		return &p, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	existing, err := r.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if existing.Status == domain.PaymentStatusFailed {
		return existing, nil
	}
	return nil, domain.ErrPaymentFinalized
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
