package booking

import (
	"context"
	"strconv"
	"time"

	"github.com/mdsabbir/vaxchain/internal/domain"
	"github.com/mdsabbir/vaxchain/internal/kafka"
	"github.com/mdsabbir/vaxchain/internal/repository"
)

type BookingUseCase interface {
	Create(ctx context.Context, patientID int64, in CreateBookingInput) (*domain.VaccineRecord, error)
	GetByID(ctx context.Context, user domain.User, id int64) (*domain.VaccineRecord, error)
	ListForUser(ctx context.Context, user domain.User) ([]domain.VaccineRecord, error)
	UpdateStatus(ctx context.Context, user domain.User, id int64, status domain.RecordStatus) (*domain.VaccineRecord, error)
	MarkMissedRecords(ctx context.Context) ([]domain.VaccineRecord, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	CampaignID int64 `json:"campaign_id"`
	ScheduleID int64 `json:"schedule_id"`
}

type BookingService struct {
	records            repository.BookingRepository
	campaigns          repository.CampaignRepository
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	allowUpcoming      bool
	missedGraceDays    int
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithMissedGraceDays(days int) BookingServiceOption {
	return func(s *BookingService) {
		s.missedGraceDays = days
	}
}

func NewBookingService(
	records repository.BookingRepository,
	campaigns repository.CampaignRepository,
	producer Producer,
	bookingTopic string,
	allowUpcoming bool,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		records:       records,
		campaigns:     campaigns,
		producer:      producer,
		bookingTopic:  bookingTopic,
		allowUpcoming: allowUpcoming,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create runs the prechecks and then the transactional booking. All checks
// here reject before any store mutation; the repository re-checks the slot
// counter and the duplicate guard under the row lock, so a race between a
// precheck and the transaction still cannot oversell or double-book.
func (s *BookingService) Create(ctx context.Context, patientID int64, in CreateBookingInput) (*domain.VaccineRecord, error) {
	if in.ScheduleID == 0 {
		return nil, domain.InvalidInput("schedule id is required")
	}

	schedule, err := s.campaigns.GetSchedule(ctx, in.ScheduleID)
	if err != nil {
		return nil, err
	}

	campaignID := in.CampaignID
	if campaignID == 0 {
		campaignID = schedule.CampaignID
	} else if campaignID != schedule.CampaignID {
		return nil, domain.ErrScheduleNotFound
	}

	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.Bookable(s.allowUpcoming) {
		return nil, domain.ErrCampaignNotBookable
	}
	if schedule.Date.Before(startOfToday()) {
		return nil, domain.ErrPastDate
	}
	if schedule.AvailableSlots <= 0 {
		return nil, domain.ErrNoAvailableSlots
	}

	booked, err := s.records.ExistsForPatient(ctx, patientID, campaignID)
	if err != nil {
		return nil, err
	}
	if booked {
		return nil, domain.ErrDuplicateBooking
	}

	record, err := s.records.Book(ctx, patientID, campaignID, schedule.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", record)
	return record, nil
}

func (s *BookingService) GetByID(ctx context.Context, user domain.User, id int64) (*domain.VaccineRecord, error) {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, user, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListForUser returns the patient's own records, or every record under the
// doctor's campaigns.
func (s *BookingService) ListForUser(ctx context.Context, user domain.User) ([]domain.VaccineRecord, error) {
	if user.Role == domain.RoleDoctor {
		return s.records.ListByDoctor(ctx, user.ID)
	}
	return s.records.ListByPatient(ctx, user.ID)
}

// UpdateStatus applies an operational transition (COMPLETED or MISSED) by
// the doctor owning the campaign.
func (s *BookingService) UpdateStatus(ctx context.Context, user domain.User, id int64, status domain.RecordStatus) (*domain.VaccineRecord, error) {
	if status != domain.RecordStatusCompleted && status != domain.RecordStatusMissed {
		return nil, domain.InvalidInput("status must be COMPLETED or MISSED")
	}

	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	campaign, err := s.campaigns.GetByID(ctx, record.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign.DoctorID != user.ID {
		return nil, domain.ErrForbidden
	}

	return s.records.UpdateStatus(ctx, id, status)
}

// MarkMissedRecords flips SCHEDULED records whose second dose date passed
// the grace window to MISSED.
func (s *BookingService) MarkMissedRecords(ctx context.Context) ([]domain.VaccineRecord, error) {
	deadline := startOfToday().AddDate(0, 0, -s.missedGraceDays)
	missed, err := s.records.MarkMissedBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}
	for i := range missed {
		s.publish(ctx, "record_missed", &missed[i])
	}
	return missed, nil
}

func (s *BookingService) authorize(ctx context.Context, user domain.User, record *domain.VaccineRecord) error {
	if user.Role == domain.RolePatient {
		if record.PatientID != user.ID {
			return domain.ErrForbidden
		}
		return nil
	}
	campaign, err := s.campaigns.GetByID(ctx, record.CampaignID)
	if err != nil {
		return err
	}
	if campaign.DoctorID != user.ID {
		return domain.ErrForbidden
	}
	return nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, record *domain.VaccineRecord) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.Event{
		Type:       eventType,
		PatientID:  record.PatientID,
		CampaignID: record.CampaignID,
		RecordID:   record.ID,
		ScheduleID: record.FirstDoseScheduleID,
		Status:     string(record.Status),
		OccurredAt: time.Now().UTC(),
	}
	key := strconv.FormatInt(record.ID, 10)
	_ = s.producer.Publish(ctx, s.bookingTopic, key, event)
	if s.notificationsTopic != "" {
		_ = s.producer.Publish(ctx, s.notificationsTopic, key, event)
	}
}

func startOfToday() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

var _ BookingUseCase = (*BookingService)(nil)
