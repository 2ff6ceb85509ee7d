package email

import (
	"context"
	"fmt"

	"github.com/mdsabbir/vaxchain/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.Event) error {
	fmt.Printf("notify patient %d about %s for campaign %d (status %s)\n",
		event.PatientID, event.Type, event.CampaignID, event.Status)
	return nil
}
