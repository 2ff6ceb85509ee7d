package campaigns

import (
	"context"
	"time"

	"github.com/mdsabbir/vaxchain/internal/domain"
	"github.com/mdsabbir/vaxchain/internal/repository"
)

type CampaignUseCase interface {
	List(ctx context.Context) ([]domain.Campaign, error)
	GetByID(ctx context.Context, id int64) (*domain.Campaign, error)
	Create(ctx context.Context, doctorID int64, in CampaignInput) (*domain.Campaign, error)
	Update(ctx context.Context, doctorID, id int64, in CampaignInput) (*domain.Campaign, error)
	Delete(ctx context.Context, doctorID, id int64) error
	AddSchedule(ctx context.Context, doctorID, campaignID int64, in ScheduleInput) (*domain.Schedule, error)
	ListSchedules(ctx context.Context, doctorID, campaignID int64) ([]domain.Schedule, error)
	ListAvailableSchedules(ctx context.Context, campaignID int64) ([]domain.Schedule, error)
}

type Cache interface {
	GetCampaigns(ctx context.Context) ([]domain.Campaign, error)
	SetCampaigns(ctx context.Context, campaigns []domain.Campaign) error
	InvalidateCampaigns(ctx context.Context) error
}

type CampaignInput struct {
	Name             string
	Description      string
	StartDate        time.Time
	EndDate          time.Time
	DoseIntervalDays int
	Status           domain.CampaignStatus
}

type ScheduleInput struct {
	Date           time.Time
	StartTime      string
	EndTime        string
	AvailableSlots int
}

type CampaignService struct {
	repo  repository.CampaignRepository
	cache Cache
}

func NewCampaignService(repo repository.CampaignRepository, cache Cache) *CampaignService {
	return &CampaignService{repo: repo, cache: cache}
}

func (s *CampaignService) List(ctx context.Context) ([]domain.Campaign, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCampaigns(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	campaigns, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetCampaigns(ctx, campaigns)
	}
	return campaigns, nil
}

func (s *CampaignService) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CampaignService) Create(ctx context.Context, doctorID int64, in CampaignInput) (*domain.Campaign, error) {
	if err := validateCampaign(in); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.CampaignStatusUpcoming
	}
	campaign := &domain.Campaign{
		DoctorID:         doctorID,
		Name:             in.Name,
		Description:      in.Description,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		DoseIntervalDays: in.DoseIntervalDays,
		Status:           status,
	}
	if err := s.repo.Create(ctx, campaign); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return campaign, nil
}

func (s *CampaignService) Update(ctx context.Context, doctorID, id int64, in CampaignInput) (*domain.Campaign, error) {
	if err := validateCampaign(in); err != nil {
		return nil, err
	}

	campaign, err := s.ownedCampaign(ctx, doctorID, id)
	if err != nil {
		return nil, err
	}

	campaign.Name = in.Name
	campaign.Description = in.Description
	campaign.StartDate = in.StartDate
	campaign.EndDate = in.EndDate
	campaign.DoseIntervalDays = in.DoseIntervalDays
	if in.Status != "" {
		campaign.Status = in.Status
	}
	if err := s.repo.Update(ctx, campaign); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return campaign, nil
}

func (s *CampaignService) Delete(ctx context.Context, doctorID, id int64) error {
	if _, err := s.ownedCampaign(ctx, doctorID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CampaignService) AddSchedule(ctx context.Context, doctorID, campaignID int64, in ScheduleInput) (*domain.Schedule, error) {
	campaign, err := s.ownedCampaign(ctx, doctorID, campaignID)
	if err != nil {
		return nil, err
	}

	if in.AvailableSlots < 0 {
		return nil, domain.InvalidInput("available slots must not be negative")
	}
	if in.Date.Before(campaign.StartDate) || in.Date.After(campaign.EndDate) {
		return nil, domain.InvalidInput("schedule date must fall inside the campaign date range")
	}
	if err := validateTimeWindow(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	schedule := &domain.Schedule{
		CampaignID:     campaignID,
		Date:           in.Date,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		AvailableSlots: in.AvailableSlots,
	}
	if err := s.repo.CreateSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return schedule, nil
}

// ListSchedules returns every schedule of the doctor's own campaign,
// including past dates and full slots.
func (s *CampaignService) ListSchedules(ctx context.Context, doctorID, campaignID int64) ([]domain.Schedule, error) {
	if _, err := s.ownedCampaign(ctx, doctorID, campaignID); err != nil {
		return nil, err
	}
	return s.repo.ListSchedules(ctx, campaignID)
}

// ListAvailableSchedules returns future schedules that still have slots.
func (s *CampaignService) ListAvailableSchedules(ctx context.Context, campaignID int64) ([]domain.Schedule, error) {
	if _, err := s.repo.GetByID(ctx, campaignID); err != nil {
		return nil, err
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return s.repo.ListAvailableSchedules(ctx, campaignID, today)
}

func (s *CampaignService) ownedCampaign(ctx context.Context, doctorID, id int64) (*domain.Campaign, error) {
	campaign, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.DoctorID != doctorID {
		return nil, domain.ErrForbidden
	}
	return campaign, nil
}

func (s *CampaignService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateCampaigns(ctx)
	}
}

func validateCampaign(in CampaignInput) error {
	if in.Name == "" {
		return domain.InvalidInput("name is required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return domain.InvalidInput("start and end dates are required")
	}
	if in.EndDate.Before(in.StartDate) {
		return domain.InvalidInput("end date must not precede start date")
	}
	if in.DoseIntervalDays < 1 {
		return domain.InvalidInput("dose interval must be at least one day")
	}
	switch in.Status {
	case "", domain.CampaignStatusUpcoming, domain.CampaignStatusActive, domain.CampaignStatusCompleted:
	default:
		return domain.InvalidInput("unknown campaign status")
	}
	return nil
}

func validateTimeWindow(start, end string) error {
	startT, err := time.Parse("15:04", start)
	if err != nil {
		return domain.InvalidInput("start time must be in HH:MM format")
	}
	endT, err := time.Parse("15:04", end)
	if err != nil {
		return domain.InvalidInput("end time must be in HH:MM format")
	}
	if !startT.Before(endT) {
		return domain.InvalidInput("start time must precede end time")
	}
	return nil
}

var _ CampaignUseCase = (*CampaignService)(nil)
