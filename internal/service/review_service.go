package service

import (
	"context"
	"strings"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/logger"

	"github.com/google/uuid"
)

type ReviewInput struct {
	Rating          int    `json:"rating"`
	FoodQuality     *int   `json:"food_quality"`
	Professionalism *int   `json:"professionalism"`
	Punctuality     *int   `json:"punctuality"`
	Comment         string `json:"comment"`
}

func (in ReviewInput) validate() error {
	if in.Rating < 1 || in.Rating > 5 {
		return apperr.BadRequest("Rating must be between 1 and 5")
	}
	subRatings := []struct {
		name  string
		value *int
	}{
		{"Food quality", in.FoodQuality},
		{"Professionalism", in.Professionalism},
		{"Punctuality", in.Punctuality},
	}
	for _, sub := range subRatings {
		if sub.value != nil && (*sub.value < 1 || *sub.value > 5) {
			return apperr.BadRequest("%s rating must be between 1 and 5", sub.name)
		}
	}
	return nil
}

type ReviewService struct {
	bookings   BookingRepository
	reviews    ReviewRepository
	profiles   profiles
	aggregator *RatingAggregator
	cache      ReviewCache
	publisher  EventPublisher
	now        func() time.Time
}

func NewReviewService(store Store, aggregator *RatingAggregator, cache ReviewCache, publisher EventPublisher) *ReviewService {
	return &ReviewService{
		bookings:   store,
		reviews:    store,
		profiles:   profiles{accounts: store},
		aggregator: aggregator,
		cache:      cache,
		publisher:  publisher,
		now:        time.Now,
	}
}

var errAlreadyReviewed = apperr.BadRequest("You have already reviewed this booking")

// Add stores the customer's review of a completed booking and refreshes the
// chef's rating.
func (s *ReviewService) Add(ctx context.Context, p domain.Principal, bookingID string, in ReviewInput) (*domain.Review, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	userID, err := s.profiles.customer(ctx, p)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, apperr.Forbidden("You can only review your own bookings")
	}
	if booking.BookingStatus != domain.BookingCompleted {
		return nil, apperr.BadRequest("You can only review completed bookings")
	}

	var markerKey string
	if s.cache != nil {
		markerKey = s.cache.ReviewMarkerKey(booking.ID)
		if exists, _ := s.cache.Exists(ctx, markerKey); exists {
			return nil, errAlreadyReviewed
		}
	}
	if _, err := s.reviews.GetReviewByBooking(ctx, booking.ID); err == nil {
		return nil, errAlreadyReviewed
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	review := &domain.Review{
		ID:              uuid.NewString(),
		BookingID:       booking.ID,
		UserID:          userID,
		ChefID:          booking.ChefID,
		Rating:          in.Rating,
		FoodQuality:     in.FoodQuality,
		Professionalism: in.Professionalism,
		Punctuality:     in.Punctuality,
		Comment:         strings.TrimSpace(in.Comment),
		CreatedAt:       s.now().UTC(),
	}
	if err := s.reviews.CreateReview(ctx, review); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil, errAlreadyReviewed
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetMarker(ctx, markerKey); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to set review marker")
		}
	}

	if _, err := s.aggregator.Recompute(ctx, booking.ChefID); err != nil {
		logger.FromContext(ctx).Error().
			Err(err).
			Str("chef_id", booking.ChefID).
			Msg("failed to recompute chef rating")
	}

	publish(ctx, s.publisher, domain.Event{
		Type:      domain.EventReviewCreated,
		BookingID: booking.ID,
		ChefID:    booking.ChefID,
		UserID:    userID,
		Rating:    review.Rating,
		Timestamp: review.CreatedAt,
	})
	return review, nil
}

// Respond attaches the chef's single reply to a review on their profile.
func (s *ReviewService) Respond(ctx context.Context, p domain.Principal, reviewID, comment string) (*domain.Review, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, apperr.BadRequest("Response comment is required")
	}
	chefID, err := s.profiles.chef(ctx, p)
	if err != nil {
		return nil, err
	}

	review, err := s.reviews.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.ChefID != chefID {
		return nil, apperr.Forbidden("You can only respond to reviews on your own profile")
	}
	if review.ChefResponse != nil {
		return nil, apperr.BadRequest("You have already responded to this review")
	}

	resp := domain.ChefResponse{Comment: comment, RespondedAt: s.now().UTC()}
	if err := s.reviews.SetReviewResponse(ctx, review.ID, resp); err != nil {
		return nil, err
	}
	review.ChefResponse = &resp
	return review, nil
}
