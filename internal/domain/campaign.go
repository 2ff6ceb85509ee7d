package domain

import "time"

type CampaignStatus string

const (
	CampaignStatusUpcoming  CampaignStatus = "UPCOMING"
	CampaignStatusActive    CampaignStatus = "ACTIVE"
	CampaignStatusCompleted CampaignStatus = "COMPLETED"
)

type Campaign struct {
	ID               int64
	DoctorID         int64
	Name             string
	Description      string
	StartDate        time.Time
	EndDate          time.Time
	DoseIntervalDays int
	Status           CampaignStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Bookable reports whether new bookings are accepted for the campaign.
// UPCOMING campaigns only qualify when the caller policy allows them.
func (c *Campaign) Bookable(allowUpcoming bool) bool {
	switch c.Status {
	case CampaignStatusActive:
		return true
	case CampaignStatusUpcoming:
		return allowUpcoming
	default:
		return false
	}
}

// Schedule is a dated slot window under a campaign. AvailableSlots is the
// only field that needs locking discipline; it never goes below zero.
type Schedule struct {
	ID             int64
	CampaignID     int64
	Date           time.Time
	StartTime      string
	EndTime        string
	AvailableSlots int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
