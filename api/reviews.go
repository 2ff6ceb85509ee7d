package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mdsabbir/vaxchain/internal/domain"
	"github.com/mdsabbir/vaxchain/internal/policy"
	"github.com/mdsabbir/vaxchain/internal/service/reviews"
)

type ReviewHandler struct {
	service reviews.ReviewUseCase
}

type createReviewRequest struct {
	CampaignID int64  `json:"campaign_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

type reviewResponse struct {
	ID         int64  `json:"id"`
	PatientID  int64  `json:"patient_id"`
	CampaignID int64  `json:"campaign_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"created_at"`
}

func NewReviewHandler(service reviews.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) Register(router *gin.RouterGroup) {
	patientOnly := RequireCapability(func(c policy.Capabilities) bool { return c.CanReview })
	router.POST("", patientOnly, h.create)
}

// RegisterCampaignRoutes mounts the per-campaign review listing under the
// campaigns group.
func (h *ReviewHandler) RegisterCampaignRoutes(router *gin.RouterGroup) {
	router.GET("/:id/reviews", h.list)
}

func (h *ReviewHandler) create(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.InvalidInput("malformed review body"))
		return
	}

	review, err := h.service.Create(c.Request.Context(), currentUser(c).ID, reviews.CreateReviewInput{
		CampaignID: req.CampaignID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReviewResponse(review))
}

func (h *ReviewHandler) list(c *gin.Context) {
	campaignID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := h.service.ListByCampaign(c.Request.Context(), campaignID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]reviewResponse, 0, len(list))
	for i := range list {
		out = append(out, toReviewResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func toReviewResponse(review *domain.Review) reviewResponse {
	return reviewResponse{
		ID:         review.ID,
		PatientID:  review.PatientID,
		CampaignID: review.CampaignID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt.Format(time.RFC3339),
	}
}
