package reviews

import (
	"context"

	"github.com/mdsabbir/vaxchain/internal/domain"
	"github.com/mdsabbir/vaxchain/internal/repository"
)

type ReviewUseCase interface {
	Create(ctx context.Context, patientID int64, in CreateReviewInput) (*domain.Review, error)
	ListByCampaign(ctx context.Context, campaignID int64) ([]domain.Review, error)
}

type CreateReviewInput struct {
	CampaignID int64  `json:"campaign_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

type ReviewService struct {
	reviews   repository.ReviewRepository
	records   repository.BookingRepository
	campaigns repository.CampaignRepository
}

func NewReviewService(reviews repository.ReviewRepository, records repository.BookingRepository, campaigns repository.CampaignRepository) *ReviewService {
	return &ReviewService{reviews: reviews, records: records, campaigns: campaigns}
}

// Create accepts one review per (patient, campaign), gated on a prior
// booking for that campaign.
func (s *ReviewService) Create(ctx context.Context, patientID int64, in CreateReviewInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.InvalidInput("rating must be between 1 and 5")
	}

	if _, err := s.campaigns.GetByID(ctx, in.CampaignID); err != nil {
		return nil, err
	}

	booked, err := s.records.ExistsForPatient(ctx, patientID, in.CampaignID)
	if err != nil {
		return nil, err
	}
	if !booked {
		return nil, domain.ErrNotBooked
	}

	review := &domain.Review{
		PatientID:  patientID,
		CampaignID: in.CampaignID,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListByCampaign(ctx context.Context, campaignID int64) ([]domain.Review, error) {
	if _, err := s.campaigns.GetByID(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.reviews.ListByCampaign(ctx, campaignID)
}

var _ ReviewUseCase = (*ReviewService)(nil)
