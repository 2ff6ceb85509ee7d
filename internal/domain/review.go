package domain

import "time"

// Review is unique per (patient, campaign) and only allowed after a booking.
type Review struct {
	ID         int64
	PatientID  int64
	CampaignID int64
	Rating     int
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
