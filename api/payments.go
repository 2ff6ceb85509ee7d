package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mdsabbir/vaxchain/internal/domain"
	"github.com/mdsabbir/vaxchain/internal/policy"
	"github.com/mdsabbir/vaxchain/internal/service/payments"
)

type PaymentHandler struct {
	service payments.PaymentUseCase
}

type paymentResponse struct {
	ID            int64  `json:"id"`
	TransactionID string `json:"transaction_id"`
	PatientID     int64  `json:"patient_id"`
	CampaignID    int64  `json:"campaign_id"`
	ScheduleID    int64  `json:"schedule_id"`
	RecordID      *int64 `json:"record_id,omitempty"`
	AmountCents   int64  `json:"amount_cents"`
	Status        string `json:"status"`
	Reference     string `json:"reference"`
	CreatedAt     string `json:"created_at"`
}

func NewPaymentHandler(service payments.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id", h.get)

	patientOnly := RequireCapability(func(c policy.Capabilities) bool { return c.CanBook })
	router.POST("", patientOnly, h.create)
}

// RegisterCallback mounts the gateway callback outside the auth middleware.
// The gateway identifies the payment by transaction id, not by user token.
func (h *PaymentHandler) RegisterCallback(router *gin.RouterGroup) {
	router.POST("/callback", h.callback)
}

func (h *PaymentHandler) create(c *gin.Context) {
	var in payments.CreatePaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, domain.InvalidInput("malformed payment body"))
		return
	}

	payment, err := h.service.Create(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPaymentResponse(payment))
}

func (h *PaymentHandler) get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	payment, err := h.service.GetByID(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

func (h *PaymentHandler) callback(c *gin.Context) {
	var in payments.CallbackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, domain.InvalidInput("malformed callback body"))
		return
	}

	payment, err := h.service.HandleCallback(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

func toPaymentResponse(payment *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:            payment.ID,
		TransactionID: payment.TransactionID(),
		PatientID:     payment.PatientID,
		CampaignID:    payment.CampaignID,
		ScheduleID:    payment.ScheduleID,
		RecordID:      payment.RecordID,
		AmountCents:   payment.AmountCents,
		Status:        string(payment.Status),
		Reference:     payment.Reference,
		CreatedAt:     payment.CreatedAt.Format(time.RFC3339),
	}
}
