package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/mocks"
	"github.com/aashikantkumar/cheifidea/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReviewService_Add(t *testing.T) {
	tests := []struct {
		name          string
		status        domain.BookingStatus
		owner         string
		principal     domain.Principal
		input         service.ReviewInput
		existing      bool
		prepareMocks  func(cache *mocks.ReviewCache, ratings *mocks.AnalyticsCache, publisher *mocks.EventPublisher)
		expectedKind  apperr.Kind
		expectedError string
	}{
		{
			name:      "success",
			status:    domain.BookingCompleted,
			owner:     "u-1",
			principal: customer,
			input:     service.ReviewInput{Rating: 4, FoodQuality: intPtr(5), Comment: " Lovely dinner "},
			prepareMocks: func(cache *mocks.ReviewCache, ratings *mocks.AnalyticsCache, publisher *mocks.EventPublisher) {
				cache.On("ReviewMarkerKey", "bk-1").Return("review:booking:bk-1").Once()
				cache.On("Exists", mock.Anything, "review:booking:bk-1").Return(false, nil).Once()
				cache.On("SetMarker", mock.Anything, "review:booking:bk-1").Return(nil).Once()
				ratings.On("CacheChefRating", mock.Anything, "chef-1", 4.0, 1).Return(nil).Once()
				publisher.On("Publish", mock.Anything, mock.MatchedBy(func(evt domain.Event) bool {
					return evt.Type == domain.EventReviewCreated && evt.ChefID == "chef-1" && evt.Rating == 4
				})).Return(nil).Once()
			},
		},
		{
			name:          "rating_out_of_range",
			status:        domain.BookingCompleted,
			owner:         "u-1",
			principal:     customer,
			input:         service.ReviewInput{Rating: 6},
			expectedKind:  apperr.KindBadRequest,
			expectedError: "Rating must be between 1 and 5",
		},
		{
			name:         "sub_rating_out_of_range",
			status:       domain.BookingCompleted,
			owner:        "u-1",
			principal:    customer,
			input:        service.ReviewInput{Rating: 5, Punctuality: intPtr(0)},
			expectedKind: apperr.KindBadRequest,
		},
		{
			name:          "booking_not_completed",
			status:        domain.BookingInProgress,
			owner:         "u-1",
			principal:     customer,
			input:         service.ReviewInput{Rating: 5},
			expectedKind:  apperr.KindBadRequest,
			expectedError: "You can only review completed bookings",
		},
		{
			name:          "not_the_owner",
			status:        domain.BookingCompleted,
			owner:         "u-2",
			principal:     customer,
			input:         service.ReviewInput{Rating: 5},
			expectedKind:  apperr.KindForbidden,
			expectedError: "You can only review your own bookings",
		},
		{
			name:      "marker_already_set",
			status:    domain.BookingCompleted,
			owner:     "u-1",
			principal: customer,
			input:     service.ReviewInput{Rating: 5},
			prepareMocks: func(cache *mocks.ReviewCache, _ *mocks.AnalyticsCache, _ *mocks.EventPublisher) {
				cache.On("ReviewMarkerKey", "bk-1").Return("review:booking:bk-1").Once()
				cache.On("Exists", mock.Anything, "review:booking:bk-1").Return(true, nil).Once()
			},
			expectedKind:  apperr.KindBadRequest,
			expectedError: "You have already reviewed this booking",
		},
		{
			name:      "stored_review_without_marker",
			status:    domain.BookingCompleted,
			owner:     "u-1",
			principal: customer,
			input:     service.ReviewInput{Rating: 5},
			existing:  true,
			prepareMocks: func(cache *mocks.ReviewCache, _ *mocks.AnalyticsCache, _ *mocks.EventPublisher) {
				cache.On("ReviewMarkerKey", "bk-1").Return("review:booking:bk-1").Once()
				cache.On("Exists", mock.Anything, "review:booking:bk-1").Return(false, nil).Once()
			},
			expectedKind:  apperr.KindBadRequest,
			expectedError: "You have already reviewed this booking",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := newSeededStore(t)
			seedBooking(t, store, "bk-1", testCase.owner, testCase.status)
			if testCase.existing {
				require.NoError(t, store.CreateReview(context.Background(), &domain.Review{
					ID: "r-0", BookingID: "bk-1", UserID: "u-1", ChefID: "chef-1", Rating: 3,
				}))
			}

			cache := mocks.NewReviewCache(t)
			ratings := mocks.NewAnalyticsCache(t)
			publisher := mocks.NewEventPublisher(t)
			if testCase.prepareMocks != nil {
				testCase.prepareMocks(cache, ratings, publisher)
			}
			aggregator := service.NewRatingAggregator(store, store, ratings)
			svc := service.NewReviewService(store, aggregator, cache, publisher)

			review, err := svc.Add(context.Background(), testCase.principal, "bk-1", testCase.input)
			if testCase.expectedKind != "" {
				require.Error(t, err)
				assert.Equal(t, testCase.expectedKind, apperr.KindOf(err))
				if testCase.expectedError != "" {
					assert.Equal(t, testCase.expectedError, apperr.Message(err))
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Lovely dinner", review.Comment)
			assert.Equal(t, "chef-1", review.ChefID)

			chef, err := store.GetChef(context.Background(), "chef-1")
			require.NoError(t, err)
			assert.Equal(t, 4.0, chef.AverageRating)
			assert.Equal(t, 1, chef.TotalReviews)
		})
	}
}

func TestReviewService_AddWithoutCache(t *testing.T) {
	store := newSeededStore(t)
	seedBooking(t, store, "bk-1", "u-1", domain.BookingCompleted)
	svc := service.NewReviewService(store, service.NewRatingAggregator(store, store, nil), nil, nil)
	ctx := context.Background()

	_, err := svc.Add(ctx, customer, "bk-1", service.ReviewInput{Rating: 5})
	require.NoError(t, err)

	_, err = svc.Add(ctx, customer, "bk-1", service.ReviewInput{Rating: 1})
	require.Error(t, err)
	assert.Equal(t, "You have already reviewed this booking", apperr.Message(err))

	chef, err := store.GetChef(ctx, "chef-1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, chef.AverageRating)
	assert.Equal(t, 1, chef.TotalReviews)
}

func TestReviewService_Respond(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateReview(ctx, &domain.Review{ID: "r-1", BookingID: "bk-1", ChefID: "chef-1", Rating: 4}))
	svc := service.NewReviewService(store, service.NewRatingAggregator(store, store, nil), nil, nil)

	_, err := svc.Respond(ctx, otherChef, "r-1", "Thanks")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.Respond(ctx, chefPrincipal, "r-1", "  ")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	review, err := svc.Respond(ctx, chefPrincipal, "r-1", "Thanks for having me")
	require.NoError(t, err)
	require.NotNil(t, review.ChefResponse)
	assert.Equal(t, "Thanks for having me", review.ChefResponse.Comment)

	stored, err := store.GetReview(ctx, "r-1")
	require.NoError(t, err)
	require.NotNil(t, stored.ChefResponse)

	_, err = svc.Respond(ctx, chefPrincipal, "r-1", "Again")
	assert.Equal(t, "You have already responded to this review", apperr.Message(err))
}

func TestReviewService_AddMarkerFailureIsLogged(t *testing.T) {
	store := newSeededStore(t)
	seedBooking(t, store, "bk-1", "u-1", domain.BookingCompleted)

	cache := mocks.NewReviewCache(t)
	cache.On("ReviewMarkerKey", "bk-1").Return("review:booking:bk-1").Once()
	cache.On("Exists", mock.Anything, "review:booking:bk-1").Return(false, nil).Once()
	cache.On("SetMarker", mock.Anything, "review:booking:bk-1").Return(errors.New("redis: connection refused")).Once()
	svc := service.NewReviewService(store, service.NewRatingAggregator(store, store, nil), cache, nil)

	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())

	review, err := svc.Add(ctx, customer, "bk-1", service.ReviewInput{Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, "bk-1", review.BookingID)

	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "failed to set review marker")
	assert.Contains(t, logs.String(), "redis: connection refused")
}
