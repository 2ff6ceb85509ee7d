package payments

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mdsabbir/vaxchain/internal/domain"
	"github.com/mdsabbir/vaxchain/internal/kafka"
	"github.com/mdsabbir/vaxchain/internal/repository"
)

type PaymentUseCase interface {
	Create(ctx context.Context, patientID int64, in CreatePaymentInput) (*domain.Payment, error)
	GetByID(ctx context.Context, user domain.User, id int64) (*domain.Payment, error)
	HandleCallback(ctx context.Context, in CallbackInput) (*domain.Payment, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreatePaymentInput struct {
	CampaignID  int64 `json:"campaign_id"`
	ScheduleID  int64 `json:"schedule_id"`
	AmountCents int64 `json:"amount_cents"`
}

// CallbackInput is what the gateway posts back after a session completes.
// TransactionID is the `txn_<payment_id>` identifier handed out at creation.
type CallbackInput struct {
	TransactionID string `json:"transaction_id"`
	BankRef       string `json:"bank_ref"`
	Status        string `json:"status"`
}

type PaymentService struct {
	payments           repository.PaymentRepository
	records            repository.BookingRepository
	campaigns          repository.CampaignRepository
	producer           Producer
	paymentTopic       string
	notificationsTopic string
	allowUpcoming      bool
}

type PaymentServiceOption func(*PaymentService)

func WithNotificationsTopic(topic string) PaymentServiceOption {
	return func(s *PaymentService) {
		s.notificationsTopic = topic
	}
}

func NewPaymentService(
	payments repository.PaymentRepository,
	records repository.BookingRepository,
	campaigns repository.CampaignRepository,
	producer Producer,
	paymentTopic string,
	allowUpcoming bool,
	opts ...PaymentServiceOption,
) *PaymentService {
	service := &PaymentService{
		payments:      payments,
		records:       records,
		campaigns:     campaigns,
		producer:      producer,
		paymentTopic:  paymentTopic,
		allowUpcoming: allowUpcoming,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create opens a PENDING payment for a booking intent. The booking itself
// only happens when the gateway reports success.
func (s *PaymentService) Create(ctx context.Context, patientID int64, in CreatePaymentInput) (*domain.Payment, error) {
	if in.AmountCents <= 0 {
		return nil, domain.InvalidInput("amount must be positive")
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

	booked, err := s.records.ExistsForPatient(ctx, patientID, campaignID)
	if err != nil {
		return nil, err
	}
	if booked {
		return nil, domain.ErrDuplicateBooking
	}

	payment := &domain.Payment{
		PatientID:   patientID,
		CampaignID:  campaignID,
		ScheduleID:  schedule.ID,
		AmountCents: in.AmountCents,
		Reference:   uuid.NewString(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) GetByID(ctx context.Context, user domain.User, id int64) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RolePatient && payment.PatientID != user.ID {
		return nil, domain.ErrForbidden
	}
	return payment, nil
}

// HandleCallback applies the gateway result. Success finalization and the
// booking commit together in one transaction, and repeated success
// callbacks for the same transaction id return the already-linked payment.
func (s *PaymentService) HandleCallback(ctx context.Context, in CallbackInput) (*domain.Payment, error) {
	paymentID, err := parseTransactionID(in.TransactionID)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(in.Status) {
	case "success":
		payment, record, err := s.payments.FinalizeSuccess(ctx, paymentID, in.BankRef)
		if err != nil {
			return nil, err
		}
		s.publish(ctx, "payment_succeeded", payment, record)
		return payment, nil
	case "failed":
		payment, err := s.payments.MarkFailed(ctx, paymentID, in.BankRef)
		if err != nil {
			return nil, err
		}
		s.publish(ctx, "payment_failed", payment, nil)
		return payment, nil
	default:
		return nil, domain.InvalidInput("status must be success or failed")
	}
}

func parseTransactionID(txn string) (int64, error) {
	raw, ok := strings.CutPrefix(txn, "txn_")
	if !ok {
		return 0, domain.InvalidInput("invalid transaction id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidInput("invalid transaction id")
	}
	return id, nil
}

func (s *PaymentService) publish(ctx context.Context, eventType string, payment *domain.Payment, record *domain.VaccineRecord) {
	if s.producer == nil || s.paymentTopic == "" {
		return
	}
	event := kafka.Event{
		Type:       eventType,
		PatientID:  payment.PatientID,
		CampaignID: payment.CampaignID,
		ScheduleID: payment.ScheduleID,
		PaymentID:  payment.ID,
		Status:     string(payment.Status),
		OccurredAt: time.Now().UTC(),
	}
	if record != nil {
		event.RecordID = record.ID
	}
	key := payment.TransactionID()
	_ = s.producer.Publish(ctx, s.paymentTopic, key, event)
	if s.notificationsTopic != "" {
		_ = s.producer.Publish(ctx, s.notificationsTopic, key, event)
	}
}

var _ PaymentUseCase = (*PaymentService)(nil)
