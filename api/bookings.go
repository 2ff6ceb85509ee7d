package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mdsabbir/vaxchain/internal/domain"
	"github.com/mdsabbir/vaxchain/internal/policy"
	"github.com/mdsabbir/vaxchain/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type updateRecordRequest struct {
	Status string `json:"status"`
}

type recordResponse struct {
	ID                   int64  `json:"id"`
	PatientID            int64  `json:"patient_id"`
	CampaignID           int64  `json:"campaign_id"`
	FirstDoseScheduleID  int64  `json:"first_dose_schedule_id"`
	SecondDoseScheduleID *int64 `json:"second_dose_schedule_id,omitempty"`
	Status               string `json:"status"`
	CreatedAt            string `json:"created_at"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)

	patientOnly := RequireCapability(func(c policy.Capabilities) bool { return c.CanBook })
	router.POST("", patientOnly, h.create)

	doctorOnly := RequireCapability(func(c policy.Capabilities) bool { return c.CanManageRecords })
	router.PATCH("/:id/status", doctorOnly, h.updateStatus)
}

func (h *BookingHandler) create(c *gin.Context) {
	var in booking.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, domain.InvalidInput("malformed booking body"))
		return
	}

	record, err := h.service.Create(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRecordResponse(record))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	record, err := h.service.GetByID(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRecordResponse(record))
}

func (h *BookingHandler) list(c *gin.Context) {
	records, err := h.service.ListForUser(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]recordResponse, 0, len(records))
	for i := range records {
		out = append(out, toRecordResponse(&records[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req updateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.InvalidInput("malformed status body"))
		return
	}

	record, err := h.service.UpdateStatus(c.Request.Context(), currentUser(c), id, domain.RecordStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRecordResponse(record))
}

func toRecordResponse(record *domain.VaccineRecord) recordResponse {
	return recordResponse{
		ID:                   record.ID,
		PatientID:            record.PatientID,
		CampaignID:           record.CampaignID,
		FirstDoseScheduleID:  record.FirstDoseScheduleID,
		SecondDoseScheduleID: record.SecondDoseScheduleID,
		Status:               string(record.Status),
		CreatedAt:            record.CreatedAt.Format(time.RFC3339),
	}
}
