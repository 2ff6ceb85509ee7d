package domain

import (
	"fmt"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

type Payment struct {
	ID          int64
	PatientID   int64
	CampaignID  int64
	ScheduleID  int64
	RecordID    *int64
	AmountCents int64
	Status      PaymentStatus
	Reference   string
	BankRef     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TransactionID is the gateway-facing identifier for this payment. The
// gateway echoes it back in callbacks.
func (p *Payment) TransactionID() string {
	return fmt.Sprintf("txn_%d", p.ID)
}
