package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mdsabbir/vaxchain/internal/domain"
	"github.com/mdsabbir/vaxchain/internal/service/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Create(ctx context.Context, patientID int64, in booking.CreateBookingInput) (*domain.VaccineRecord, error) {
	args := m.Called(ctx, patientID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VaccineRecord), args.Error(1)
}

func (m *MockBookingUseCase) GetByID(ctx context.Context, user domain.User, id int64) (*domain.VaccineRecord, error) {
	args := m.Called(ctx, user, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VaccineRecord), args.Error(1)
}

func (m *MockBookingUseCase) ListForUser(ctx context.Context, user domain.User) ([]domain.VaccineRecord, error) {
	args := m.Called(ctx, user)
	return args.Get(0).([]domain.VaccineRecord), args.Error(1)
}

func (m *MockBookingUseCase) UpdateStatus(ctx context.Context, user domain.User, id int64, status domain.RecordStatus) (*domain.VaccineRecord, error) {
	args := m.Called(ctx, user, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VaccineRecord), args.Error(1)
}

func (m *MockBookingUseCase) MarkMissedRecords(ctx context.Context) ([]domain.VaccineRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.VaccineRecord), args.Error(1)
}

func patientContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(userContextKey, domain.User{ID: 42, Role: domain.RolePatient})
	return c, w
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	input := booking.CreateBookingInput{CampaignID: 7, ScheduleID: 3}
	c, w := patientContext(t, "POST", "/bookings", input)

	second := int64(4)
	record := &domain.VaccineRecord{
		ID:                   1,
		PatientID:            42,
		CampaignID:           7,
		FirstDoseScheduleID:  3,
		SecondDoseScheduleID: &second,
		Status:               domain.RecordStatusScheduled,
	}
	mockService.On("Create", c.Request.Context(), int64(42), input).Return(record, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp recordResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, &second, resp.SecondDoseScheduleID)
	assert.Equal(t, "SCHEDULED", resp.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_Conflicts(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		code int
	}{
		{"sold out", domain.ErrNoAvailableSlots, http.StatusConflict},
		{"duplicate", domain.ErrDuplicateBooking, http.StatusConflict},
		{"past date", domain.ErrPastDate, http.StatusBadRequest},
		{"not bookable", domain.ErrCampaignNotBookable, http.StatusBadRequest},
		{"unknown schedule", domain.ErrScheduleNotFound, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewBookingHandler(mockService)

			input := booking.CreateBookingInput{ScheduleID: 3}
			c, w := patientContext(t, "POST", "/bookings", input)
			mockService.On("Create", c.Request.Context(), int64(42), input).Return(nil, tc.err)

			handler.create(c)

			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestBookingHandler_get(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := patientContext(t, "GET", "/bookings/5", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	record := &domain.VaccineRecord{ID: 5, PatientID: 42, CampaignID: 7, FirstDoseScheduleID: 3}
	user := domain.User{ID: 42, Role: domain.RolePatient}
	mockService.On("GetByID", c.Request.Context(), user, int64(5)).Return(record, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookingHandler_get_BadID(t *testing.T) {
	handler := NewBookingHandler(&MockBookingUseCase{})

	c, w := patientContext(t, "GET", "/bookings/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_updateStatus(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := patientContext(t, "PATCH", "/bookings/5/status", updateRecordRequest{Status: "COMPLETED"})
	c.Set(userContextKey, domain.User{ID: 100, Role: domain.RoleDoctor})
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	record := &domain.VaccineRecord{ID: 5, PatientID: 42, CampaignID: 7, Status: domain.RecordStatusCompleted}
	doctor := domain.User{ID: 100, Role: domain.RoleDoctor}
	mockService.On("UpdateStatus", c.Request.Context(), doctor, int64(5), domain.RecordStatusCompleted).Return(record, nil)

	handler.updateStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
