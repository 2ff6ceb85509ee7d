package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mdsabbir/vaxchain/internal/domain"
)

type BookingRepository interface {
	Book(ctx context.Context, patientID, campaignID, scheduleID int64) (*domain.VaccineRecord, error)
	GetByID(ctx context.Context, id int64) (*domain.VaccineRecord, error)
	ListByPatient(ctx context.Context, patientID int64) ([]domain.VaccineRecord, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]domain.VaccineRecord, error)
	ExistsForPatient(ctx context.Context, patientID, campaignID int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RecordStatus) (*domain.VaccineRecord, error)
	MarkMissedBefore(ctx context.Context, deadline time.Time) ([]domain.VaccineRecord, error)
}

type PGBookingRepository struct {
	db              *pgxpool.Pool
	secondDoseSlots int
}

func NewBookingRepository(db *pgxpool.Pool, secondDoseSlots int) *PGBookingRepository {
	return &PGBookingRepository{db: db, secondDoseSlots: secondDoseSlots}
}

// Book reserves one slot on the given schedule and creates the vaccine
// record, all inside a single transaction. The schedule row is locked before
// the slot counter is re-checked, so concurrent bookers of the same schedule
// serialize on the row and the counter never goes negative.
func (r *PGBookingRepository) Book(ctx context.Context, patientID, campaignID, scheduleID int64) (*domain.VaccineRecord, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	record, err := bookInTx(ctx, tx, patientID, campaignID, scheduleID, r.secondDoseSlots)
	if err != nil {
		return nil, err
	}
	return record, tx.Commit(ctx)
}

// bookInTx runs the booking steps on an existing transaction. The payment
// repository reuses it so that payment finalization and record creation
// commit or roll back together.
func bookInTx(ctx context.Context, tx pgx.Tx, patientID, campaignID, scheduleID int64, secondDoseSlots int) (*domain.VaccineRecord, error) {
	var first domain.Schedule
	err := tx.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id=$1 FOR UPDATE`, scheduleID).
		Scan(&first.ID, &first.CampaignID, &first.Date, &first.StartTime, &first.EndTime, &first.AvailableSlots, &first.CreatedAt, &first.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScheduleNotFound
		}
		return nil, err
	}
	if first.CampaignID != campaignID {
		return nil, domain.ErrScheduleNotFound
	}
	if first.AvailableSlots <= 0 {
		return nil, domain.ErrNoAvailableSlots
	}

	var intervalDays int
	if err := tx.QueryRow(ctx, `SELECT dose_interval_days FROM campaigns WHERE id=$1`, campaignID).Scan(&intervalDays); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE schedules SET available_slots = available_slots - 1, updated_at = now() WHERE id=$1`, first.ID); err != nil {
		return nil, err
	}

	secondID, err := findOrCreateSecondDose(ctx, tx, &first, intervalDays, secondDoseSlots)
	if err != nil {
		return nil, err
	}

	record := &domain.VaccineRecord{
		PatientID:            patientID,
		CampaignID:           campaignID,
		FirstDoseScheduleID:  first.ID,
		SecondDoseScheduleID: &secondID,
		Status:               domain.RecordStatusScheduled,
	}
	err = tx.QueryRow(ctx, `INSERT INTO vaccine_records (patient_id, campaign_id, first_dose_schedule_id, second_dose_schedule_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		record.PatientID, record.CampaignID, record.FirstDoseScheduleID, record.SecondDoseScheduleID, record.Status).
		Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateBooking
		}
		return nil, err
	}
	return record, nil
}

// findOrCreateSecondDose resolves the schedule at first-dose date plus the
// campaign interval, creating it with the first dose's time window when it
// does not exist yet. The insert relies on the (campaign_id, date) unique
// constraint: of two concurrent derivations one inserts, the other falls
// through to the select and sees the committed row.
func findOrCreateSecondDose(ctx context.Context, tx pgx.Tx, first *domain.Schedule, intervalDays, slots int) (int64, error) {
	secondDate := domain.SecondDoseDate(first.Date, intervalDays)

	var id int64
	err := tx.QueryRow(ctx, `INSERT INTO schedules (campaign_id, date, start_time, end_time, available_slots)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (campaign_id, date) DO NOTHING
		RETURNING id`,
		first.CampaignID, secondDate, first.StartTime, first.EndTime, slots).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = tx.QueryRow(ctx, `SELECT id FROM schedules WHERE campaign_id=$1 AND date=$2`, first.CampaignID, secondDate).Scan(&id)
	return id, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const recordColumns = `id, patient_id, campaign_id, first_dose_schedule_id, second_dose_schedule_id, status, created_at, updated_at`

func scanRecord(row pgx.Row, rec *domain.VaccineRecord) error {
	return row.Scan(&rec.ID, &rec.PatientID, &rec.CampaignID, &rec.FirstDoseScheduleID, &rec.SecondDoseScheduleID, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.VaccineRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+recordColumns+` FROM vaccine_records WHERE id=$1`, id)
	var rec domain.VaccineRecord
	if err := scanRecord(row, &rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PGBookingRepository) ListByPatient(ctx context.Context, patientID int64) ([]domain.VaccineRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT `+recordColumns+` FROM vaccine_records WHERE patient_id=$1 ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (r *PGBookingRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]domain.VaccineRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT r.id, r.patient_id, r.campaign_id, r.first_dose_schedule_id, r.second_dose_schedule_id, r.status, r.created_at, r.updated_at
		FROM vaccine_records r
		JOIN campaigns c ON c.id = r.campaign_id
		WHERE c.doctor_id = $1
		ORDER BY r.created_at DESC`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (r *PGBookingRepository) ExistsForPatient(ctx context.Context, patientID, campaignID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM vaccine_records WHERE patient_id=$1 AND campaign_id=$2)`, patientID, campaignID).Scan(&exists)
	return exists, err
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.RecordStatus) (*domain.VaccineRecord, error) {
	row := r.db.QueryRow(ctx, `UPDATE vaccine_records SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+recordColumns, status, id)
	var rec domain.VaccineRecord
	if err := scanRecord(row, &rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// MarkMissedBefore flips SCHEDULED records whose second dose date passed the
// deadline to MISSED and returns them.
func (r *PGBookingRepository) MarkMissedBefore(ctx context.Context, deadline time.Time) ([]domain.VaccineRecord, error) {
	rows, err := r.db.Query(ctx, `UPDATE vaccine_records r SET status=$1, updated_at=now()
		FROM schedules s
		WHERE r.second_dose_schedule_id = s.id AND r.status = $2 AND s.date < $3
		RETURNING r.id, r.patient_id, r.campaign_id, r.first_dose_schedule_id, r.second_dose_schedule_id, r.status, r.created_at, r.updated_at`,
		domain.RecordStatusMissed, domain.RecordStatusScheduled, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func collectRecords(rows pgx.Rows) ([]domain.VaccineRecord, error) {
	var records []domain.VaccineRecord
	for rows.Next() {
		var rec domain.VaccineRecord
		if err := scanRecord(rows, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
