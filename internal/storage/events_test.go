package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type recordingWriter struct {
	messages []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &recordingWriter{}
	publisher := &KafkaPublisher{Writer: writer}
	evt := domain.Event{
		Type:      domain.EventBookingCreated,
		BookingID: "bk-1",
		ChefID:    "chef-1",
		Dishes:    []domain.LineItem{{DishID: "d-1", Quantity: 2, Price: 450}},
		Timestamp: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, publisher.Publish(context.Background(), evt))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "bk-1", string(writer.messages[0].Key))

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, evt, decoded)
}

func TestIsMongoTxUnsupported(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "sentinel", err: ErrTransactionsUnsupported, expected: true},
		{name: "illegal_operation", err: mongo.CommandError{Code: 20, Message: "illegal"}, expected: true},
		{
			name:     "standalone_server",
			err:      errors.New("(IllegalOperation) Transaction numbers are only allowed on a replica set member or mongos"),
			expected: true,
		},
		{name: "retryable_writes", err: errors.New("this MongoDB deployment does not support retryable writes"), expected: true},
		{name: "other_command_error", err: mongo.CommandError{Code: 11600, Message: "interrupted"}, expected: false},
		{name: "no_documents", err: mongo.ErrNoDocuments, expected: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, isMongoTxUnsupported(testCase.err))
		})
	}
}

func TestMongoError(t *testing.T) {
	duplicate := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}

	assert.Nil(t, mongoError(nil, "Review"))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(mongoError(mongo.ErrNoDocuments, "Review")))
	assert.Equal(t, "Review not found", apperr.Message(mongoError(mongo.ErrNoDocuments, "Review")))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(mongoError(duplicate, "Review")))
	assert.ErrorIs(t, mongoError(ErrTransactionsUnsupported, "Review"), ErrTransactionsUnsupported)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(mongoError(errors.New("socket closed"), "Review")))
}
