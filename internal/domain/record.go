package domain

import "time"

type RecordStatus string

const (
	RecordStatusScheduled RecordStatus = "SCHEDULED"
	RecordStatusCompleted RecordStatus = "COMPLETED"
	RecordStatusMissed    RecordStatus = "MISSED"
)

// VaccineRecord links a patient to the campaign schedules they reserved.
// The second dose schedule is derived at booking time and always belongs to
// the same campaign.
type VaccineRecord struct {
	ID                   int64
	PatientID            int64
	CampaignID           int64
	FirstDoseScheduleID  int64
	SecondDoseScheduleID *int64
	Status               RecordStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// SecondDoseDate derives the second dose date from the first dose date and
// the campaign's dose interval.
func SecondDoseDate(firstDose time.Time, intervalDays int) time.Time {
	return firstDose.AddDate(0, 0, intervalDays)
}
