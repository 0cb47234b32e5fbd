package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/logger"
	"github.com/aashikantkumar/cheifidea/internal/metrics"

	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Consumer applies domain events to the read-side aggregates: chef ratings
// and the daily dish ranking.
type Consumer struct {
	Reader     MessageReader
	Aggregator *RatingAggregator
	Analytics  AnalyticsCache
}

func NewConsumer(reader MessageReader, aggregator *RatingAggregator, analytics AnalyticsCache) *Consumer {
	return &Consumer{
		Reader:     reader,
		Aggregator: aggregator,
		Analytics:  analytics,
	}
}

// Start reads events until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	log := logger.FromContext(ctx)
	log.Info().Msg("starting aggregation consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				log.Info().Msg("aggregation consumer stopped")
				return
			}
			log.Error().Err(err).Msg("error reading message")
			continue
		}

		var evt domain.Event
		if err := json.Unmarshal(message.Value, &evt); err != nil {
			log.Error().Err(err).Msg("error unmarshaling message")
			metrics.EventsConsumed.WithLabelValues("unknown", "invalid").Inc()
			continue
		}
		_ = c.Process(ctx, evt)
	}
}

// Process handles one event. Unknown event types are skipped.
func (c *Consumer) Process(ctx context.Context, evt domain.Event) error {
	var err error
	switch evt.Type {
	case domain.EventBookingCreated:
		if c.Analytics == nil {
			return nil
		}
		err = c.Analytics.RecordDishOrders(ctx, evt.Timestamp, evt.Dishes)
	case domain.EventReviewCreated:
		_, err = c.Aggregator.Recompute(ctx, evt.ChefID)
	default:
		metrics.EventsConsumed.WithLabelValues(evt.Type, "skipped").Inc()
		return nil
	}

	if err != nil {
		logger.FromContext(ctx).Error().
			Err(err).
			Str("type", evt.Type).
			Str("booking_id", evt.BookingID).
			Msg("failed to process event")
		metrics.EventsConsumed.WithLabelValues(evt.Type, "error").Inc()
		return err
	}
	metrics.EventsConsumed.WithLabelValues(evt.Type, "ok").Inc()
	return nil
}

// Publish lets the consumer stand in for a broker when none is configured.
func (c *Consumer) Publish(ctx context.Context, evt domain.Event) error {
	return c.Process(ctx, evt)
}
