package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mdsabbir/vaxchain/internal/domain"
	"github.com/mdsabbir/vaxchain/internal/policy"
	"github.com/mdsabbir/vaxchain/internal/service/campaigns"
)

type CampaignHandler struct {
	service campaigns.CampaignUseCase
}

type campaignRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	DoseIntervalDays int    `json:"dose_interval_days"`
	Status           string `json:"status"`
}

type scheduleRequest struct {
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	AvailableSlots int    `json:"available_slots"`
}

type campaignResponse struct {
	ID               int64  `json:"id"`
	DoctorID         int64  `json:"doctor_id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	DoseIntervalDays int    `json:"dose_interval_days"`
	Status           string `json:"status"`
}

type scheduleResponse struct {
	ID             int64  `json:"id"`
	CampaignID     int64  `json:"campaign_id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	AvailableSlots int    `json:"available_slots"`
}

const dateLayout = "2006-01-02"

func NewCampaignHandler(service campaigns.CampaignUseCase) *CampaignHandler {
	return &CampaignHandler{service: service}
}

func (h *CampaignHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/schedules", h.listSchedules)

	doctorOnly := RequireCapability(func(c policy.Capabilities) bool { return c.CanCreateCampaign })
	router.POST("", doctorOnly, h.create)
	router.PUT("/:id", doctorOnly, h.update)
	router.DELETE("/:id", doctorOnly, h.delete)
	router.POST("/:id/schedules", doctorOnly, h.addSchedule)
}

func (h *CampaignHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]campaignResponse, 0, len(list))
	for i := range list {
		out = append(out, toCampaignResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CampaignHandler) get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	campaign, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

func (h *CampaignHandler) create(c *gin.Context) {
	in, err := bindCampaign(c)
	if err != nil {
		respondError(c, err)
		return
	}

	campaign, err := h.service.Create(c.Request.Context(), currentUser(c).ID, *in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCampaignResponse(campaign))
}

func (h *CampaignHandler) update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	in, err := bindCampaign(c)
	if err != nil {
		respondError(c, err)
		return
	}

	campaign, err := h.service.Update(c.Request.Context(), currentUser(c).ID, id, *in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

func (h *CampaignHandler) delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CampaignHandler) addSchedule(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.InvalidInput("malformed schedule body"))
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		respondError(c, domain.InvalidInput("date must be YYYY-MM-DD"))
		return
	}

	schedule, err := h.service.AddSchedule(c.Request.Context(), currentUser(c).ID, id, campaigns.ScheduleInput{
		Date:           date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		AvailableSlots: req.AvailableSlots,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toScheduleResponse(schedule))
}

func (h *CampaignHandler) listSchedules(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var list []domain.Schedule
	if c.Query("all") == "true" {
		list, err = h.service.ListSchedules(c.Request.Context(), currentUser(c).ID, id)
	} else {
		list, err = h.service.ListAvailableSchedules(c.Request.Context(), id)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]scheduleResponse, 0, len(list))
	for i := range list {
		out = append(out, toScheduleResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func bindCampaign(c *gin.Context) (*campaigns.CampaignInput, error) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, domain.InvalidInput("malformed campaign body")
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, domain.InvalidInput("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, domain.InvalidInput("end_date must be YYYY-MM-DD")
	}

	return &campaigns.CampaignInput{
		Name:             req.Name,
		Description:      req.Description,
		StartDate:        start,
		EndDate:          end,
		DoseIntervalDays: req.DoseIntervalDays,
		Status:           domain.CampaignStatus(req.Status),
	}, nil
}

func toCampaignResponse(campaign *domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:               campaign.ID,
		DoctorID:         campaign.DoctorID,
		Name:             campaign.Name,
		Description:      campaign.Description,
		StartDate:        campaign.StartDate.Format(dateLayout),
		EndDate:          campaign.EndDate.Format(dateLayout),
		DoseIntervalDays: campaign.DoseIntervalDays,
		Status:           string(campaign.Status),
	}
}

func toScheduleResponse(schedule *domain.Schedule) scheduleResponse {
	return scheduleResponse{
		ID:             schedule.ID,
		CampaignID:     schedule.CampaignID,
		Date:           schedule.Date.Format(dateLayout),
		StartTime:      schedule.StartTime,
		EndTime:        schedule.EndTime,
		AvailableSlots: schedule.AvailableSlots,
	}
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidInput(name + " must be a positive integer")
	}
	return id, nil
}
