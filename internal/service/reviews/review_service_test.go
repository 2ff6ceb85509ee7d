package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/mdsabbir/vaxchain/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	if args.Error(0) == nil {
		review.ID = 1
	}
	return args.Error(0)
}

func (m *MockReviewRepository) ListByCampaign(ctx context.Context, campaignID int64) ([]domain.Review, error) {
	args := m.Called(ctx, campaignID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Book(ctx context.Context, patientID, campaignID, scheduleID int64) (*domain.VaccineRecord, error) {
	args := m.Called(ctx, patientID, campaignID, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VaccineRecord), args.Error(1)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.VaccineRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VaccineRecord), args.Error(1)
}

func (m *MockBookingRepository) ListByPatient(ctx context.Context, patientID int64) ([]domain.VaccineRecord, error) {
	args := m.Called(ctx, patientID)
	return args.Get(0).([]domain.VaccineRecord), args.Error(1)
}

func (m *MockBookingRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]domain.VaccineRecord, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).([]domain.VaccineRecord), args.Error(1)
}

func (m *MockBookingRepository) ExistsForPatient(ctx context.Context, patientID, campaignID int64) (bool, error) {
	args := m.Called(ctx, patientID, campaignID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.RecordStatus) (*domain.VaccineRecord, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VaccineRecord), args.Error(1)
}

func (m *MockBookingRepository) MarkMissedBefore(ctx context.Context, deadline time.Time) ([]domain.VaccineRecord, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).([]domain.VaccineRecord), args.Error(1)
}

type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) List(ctx context.Context) ([]domain.Campaign, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

func (m *MockCampaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

func (m *MockCampaignRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCampaignRepository) CreateSchedule(ctx context.Context, schedule *domain.Schedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockCampaignRepository) GetSchedule(ctx context.Context, id int64) (*domain.Schedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Schedule), args.Error(1)
}

func (m *MockCampaignRepository) ListSchedules(ctx context.Context, campaignID int64) ([]domain.Schedule, error) {
	args := m.Called(ctx, campaignID)
	return args.Get(0).([]domain.Schedule), args.Error(1)
}

func (m *MockCampaignRepository) ListAvailableSchedules(ctx context.Context, campaignID int64, from time.Time) ([]domain.Schedule, error) {
	args := m.Called(ctx, campaignID, from)
	return args.Get(0).([]domain.Schedule), args.Error(1)
}

func TestReviewService_Create_Success(t *testing.T) {
	mockReviews := &MockReviewRepository{}
	mockRecords := &MockBookingRepository{}
	mockCampaigns := &MockCampaignRepository{}

	service := NewReviewService(mockReviews, mockRecords, mockCampaigns)

	ctx := context.Background()
	mockCampaigns.On("GetByID", ctx, int64(7)).Return(&domain.Campaign{ID: 7}, nil).Once()
	mockRecords.On("ExistsForPatient", ctx, int64(42), int64(7)).Return(true, nil).Once()
	mockReviews.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil).Once()

	review, err := service.Create(ctx, 42, CreateReviewInput{CampaignID: 7, Rating: 4, Comment: "smooth"})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), review.PatientID)
	assert.Equal(t, 4, review.Rating)

	mockReviews.AssertExpectations(t)
}

func TestReviewService_Create_RatingOutOfRange(t *testing.T) {
	service := NewReviewService(nil, nil, nil)

	for _, rating := range []int{0, -1, 6} {
		_, err := service.Create(context.Background(), 42, CreateReviewInput{CampaignID: 7, Rating: rating})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestReviewService_Create_RequiresBooking(t *testing.T) {
	mockReviews := &MockReviewRepository{}
	mockRecords := &MockBookingRepository{}
	mockCampaigns := &MockCampaignRepository{}

	service := NewReviewService(mockReviews, mockRecords, mockCampaigns)

	ctx := context.Background()
	mockCampaigns.On("GetByID", ctx, int64(7)).Return(&domain.Campaign{ID: 7}, nil).Once()
	mockRecords.On("ExistsForPatient", ctx, int64(42), int64(7)).Return(false, nil).Once()

	_, err := service.Create(ctx, 42, CreateReviewInput{CampaignID: 7, Rating: 5})
	assert.ErrorIs(t, err, domain.ErrNotBooked)
	mockReviews.AssertNotCalled(t, "Create")
}

func TestReviewService_Create_Duplicate(t *testing.T) {
	mockReviews := &MockReviewRepository{}
	mockRecords := &MockBookingRepository{}
	mockCampaigns := &MockCampaignRepository{}

	service := NewReviewService(mockReviews, mockRecords, mockCampaigns)

	ctx := context.Background()
	mockCampaigns.On("GetByID", ctx, int64(7)).Return(&domain.Campaign{ID: 7}, nil).Once()
	mockRecords.On("ExistsForPatient", ctx, int64(42), int64(7)).Return(true, nil).Once()
	mockReviews.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(domain.ErrDuplicateReview).Once()

	_, err := service.Create(ctx, 42, CreateReviewInput{CampaignID: 7, Rating: 5})
	assert.ErrorIs(t, err, domain.ErrDuplicateReview)
}

func TestReviewService_ListByCampaign_UnknownCampaign(t *testing.T) {
	mockCampaigns := &MockCampaignRepository{}
	service := NewReviewService(nil, nil, mockCampaigns)

	ctx := context.Background()
	mockCampaigns.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrCampaignNotFound).Once()

	_, err := service.ListByCampaign(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrCampaignNotFound)
}
