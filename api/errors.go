package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mdsabbir/vaxchain/internal/domain"
)

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrPastDate),
		errors.Is(err, domain.ErrCampaignNotBookable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCampaignNotFound),
		errors.Is(err, domain.ErrScheduleNotFound),
		errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoAvailableSlots),
		errors.Is(err, domain.ErrDuplicateBooking),
		errors.Is(err, domain.ErrDuplicateSchedule),
		errors.Is(err, domain.ErrDuplicateReview),
		errors.Is(err, domain.ErrNotBooked),
		errors.Is(err, domain.ErrPaymentFinalized):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
