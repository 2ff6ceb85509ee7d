package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mdsabbir/vaxchain/internal/domain"
)

type CampaignRepository interface {
	List(ctx context.Context) ([]domain.Campaign, error)
	GetByID(ctx context.Context, id int64) (*domain.Campaign, error)
	Create(ctx context.Context, campaign *domain.Campaign) error
	Update(ctx context.Context, campaign *domain.Campaign) error
	Delete(ctx context.Context, id int64) error
	CreateSchedule(ctx context.Context, schedule *domain.Schedule) error
	GetSchedule(ctx context.Context, id int64) (*domain.Schedule, error)
	ListSchedules(ctx context.Context, campaignID int64) ([]domain.Schedule, error)
	ListAvailableSchedules(ctx context.Context, campaignID int64, from time.Time) ([]domain.Schedule, error)
}

type PGCampaignRepository struct {
	db *pgxpool.Pool
}

func NewCampaignRepository(db *pgxpool.Pool) CampaignRepository {
	return &PGCampaignRepository{db: db}
}

const campaignColumns = `id, doctor_id, name, description, start_date, end_date, dose_interval_days, status, created_at, updated_at`

func scanCampaign(row pgx.Row, c *domain.Campaign) error {
	return row.Scan(&c.ID, &c.DoctorID, &c.Name, &c.Description, &c.StartDate, &c.EndDate, &c.DoseIntervalDays, &c.Status, &c.CreatedAt, &c.UpdatedAt)
}

func (r *PGCampaignRepository) List(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.db.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns ORDER BY start_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := make([]domain.Campaign, 0)
	for rows.Next() {
		var c domain.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *PGCampaignRepository) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	row := r.db.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id=$1`, id)
	var c domain.Campaign
	if err := scanCampaign(row, &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGCampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	return r.db.QueryRow(ctx, `INSERT INTO campaigns (doctor_id, name, description, start_date, end_date, dose_interval_days, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		campaign.DoctorID, campaign.Name, campaign.Description, campaign.StartDate, campaign.EndDate, campaign.DoseIntervalDays, campaign.Status).
		Scan(&campaign.ID, &campaign.CreatedAt, &campaign.UpdatedAt)
}

func (r *PGCampaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	row := r.db.QueryRow(ctx, `UPDATE campaigns SET name=$1, description=$2, start_date=$3, end_date=$4, dose_interval_days=$5, status=$6, updated_at=now()
		WHERE id=$7
		RETURNING `+campaignColumns, campaign.Name, campaign.Description, campaign.StartDate, campaign.EndDate, campaign.DoseIntervalDays, campaign.Status, campaign.ID)
	if err := scanCampaign(row, campaign); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCampaignNotFound
		}
		return err
	}
	return nil
}

func (r *PGCampaignRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM campaigns WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

const scheduleColumns = `id, campaign_id, date, start_time, end_time, available_slots, created_at, updated_at`

func scanSchedule(row pgx.Row, s *domain.Schedule) error {
	return row.Scan(&s.ID, &s.CampaignID, &s.Date, &s.StartTime, &s.EndTime, &s.AvailableSlots, &s.CreatedAt, &s.UpdatedAt)
}

func (r *PGCampaignRepository) CreateSchedule(ctx context.Context, schedule *domain.Schedule) error {
	err := r.db.QueryRow(ctx, `INSERT INTO schedules (campaign_id, date, start_time, end_time, available_slots)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		schedule.CampaignID, schedule.Date, schedule.StartTime, schedule.EndTime, schedule.AvailableSlots).
		Scan(&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateSchedule
	}
	return err
}

func (r *PGCampaignRepository) GetSchedule(ctx context.Context, id int64) (*domain.Schedule, error) {
	row := r.db.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id=$1`, id)
	var s domain.Schedule
	if err := scanSchedule(row, &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGCampaignRepository) ListSchedules(ctx context.Context, campaignID int64) ([]domain.Schedule, error) {
	rows, err := r.db.Query(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE campaign_id=$1 ORDER BY date, start_time`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSchedules(rows)
}

func (r *PGCampaignRepository) ListAvailableSchedules(ctx context.Context, campaignID int64, from time.Time) ([]domain.Schedule, error) {
	rows, err := r.db.Query(ctx, `SELECT `+scheduleColumns+` FROM schedules
		WHERE campaign_id=$1 AND date >= $2 AND available_slots > 0
		ORDER BY date, start_time`, campaignID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSchedules(rows)
}

func collectSchedules(rows pgx.Rows) ([]domain.Schedule, error) {
	schedules := make([]domain.Schedule, 0)
	for rows.Next() {
		var s domain.Schedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

var _ CampaignRepository = (*PGCampaignRepository)(nil)
