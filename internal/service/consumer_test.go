package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/metrics"
	"github.com/aashikantkumar/cheifidea/internal/mocks"
	"github.com/aashikantkumar/cheifidea/internal/service"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// queueReader hands out queued messages, then blocks until ctx is done.
type queueReader struct {
	messages chan kafka.Message
}

func newQueueReader(values ...[]byte) *queueReader {
	r := &queueReader{messages: make(chan kafka.Message, len(values))}
	for _, v := range values {
		r.messages <- kafka.Message{Value: v}
	}
	return r
}

func (r *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.messages:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func TestConsumer_Process(t *testing.T) {
	day := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	items := []domain.LineItem{{DishID: "d-1", Quantity: 2, Price: 200}}

	tests := []struct {
		name           string
		event          domain.Event
		prepareMocks   func(analytics *mocks.AnalyticsCache)
		expectedResult string
		expectedError  bool
	}{
		{
			name:  "booking_created_records_orders",
			event: domain.Event{Type: domain.EventBookingCreated, BookingID: "bk-1", Dishes: items, Timestamp: day},
			prepareMocks: func(analytics *mocks.AnalyticsCache) {
				analytics.On("RecordDishOrders", mock.Anything, day, items).Return(nil).Once()
			},
			expectedResult: "ok",
		},
		{
			name:  "record_failure",
			event: domain.Event{Type: domain.EventBookingCreated, BookingID: "bk-1", Dishes: items, Timestamp: day},
			prepareMocks: func(analytics *mocks.AnalyticsCache) {
				analytics.On("RecordDishOrders", mock.Anything, day, items).Return(errors.New("redis down")).Once()
			},
			expectedResult: "error",
			expectedError:  true,
		},
		{
			name:  "review_created_recomputes_rating",
			event: domain.Event{Type: domain.EventReviewCreated, ChefID: "chef-1", Rating: 5},
			prepareMocks: func(analytics *mocks.AnalyticsCache) {
				analytics.On("CacheChefRating", mock.Anything, "chef-1", 5.0, 1).Return(nil).Once()
			},
			expectedResult: "ok",
		},
		{
			name:           "other_events_skipped",
			event:          domain.Event{Type: domain.EventBookingStatus, BookingID: "bk-1"},
			expectedResult: "skipped",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := newSeededStore(t)
			require.NoError(t, store.CreateReview(context.Background(), &domain.Review{ID: "r-1", BookingID: "bk-1", ChefID: "chef-1", Rating: 5}))

			analytics := mocks.NewAnalyticsCache(t)
			if testCase.prepareMocks != nil {
				testCase.prepareMocks(analytics)
			}
			consumer := service.NewConsumer(nil, service.NewRatingAggregator(store, store, analytics), analytics)

			counter := metrics.EventsConsumed.WithLabelValues(testCase.event.Type, testCase.expectedResult)
			before := testutil.ToFloat64(counter)

			err := consumer.Process(context.Background(), testCase.event)
			if testCase.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestConsumer_Start(t *testing.T) {
	store := newSeededStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, store.CreateReview(ctx, &domain.Review{ID: "r-1", BookingID: "bk-1", ChefID: "chef-1", Rating: 4}))

	review, err := json.Marshal(domain.Event{Type: domain.EventReviewCreated, ChefID: "chef-1", Rating: 4})
	require.NoError(t, err)
	reader := newQueueReader([]byte("{not json"), review)

	invalid := metrics.EventsConsumed.WithLabelValues("unknown", "invalid")
	before := testutil.ToFloat64(invalid)

	consumer := service.NewConsumer(reader, service.NewRatingAggregator(store, store, nil), nil)
	done := make(chan struct{})
	go func() {
		consumer.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		chef, err := store.GetChef(context.Background(), "chef-1")
		return err == nil && chef.TotalReviews == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(invalid))

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}

func TestConsumer_PublishWithoutAnalytics(t *testing.T) {
	consumer := service.NewConsumer(nil, nil, nil)
	err := consumer.Publish(context.Background(), domain.Event{Type: domain.EventBookingCreated, BookingID: "bk-1"})
	assert.NoError(t, err)
}
