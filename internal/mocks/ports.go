package mocks

import (
	"context"
	"io"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/domain"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type ReviewCache struct {
	mock.Mock
}

func (m *ReviewCache) ReviewMarkerKey(bookingID string) string {
	args := m.Called(bookingID)
	return args.String(0)
}

func (m *ReviewCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *ReviewCache) SetMarker(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func NewReviewCache(t testingT) *ReviewCache {
	m := &ReviewCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type AnalyticsCache struct {
	mock.Mock
}

func (m *AnalyticsCache) CacheChefRating(ctx context.Context, chefID string, average float64, total int) error {
	args := m.Called(ctx, chefID, average, total)
	return args.Error(0)
}

func (m *AnalyticsCache) RecordDishOrders(ctx context.Context, day time.Time, items []domain.LineItem) error {
	args := m.Called(ctx, day, items)
	return args.Error(0)
}

func (m *AnalyticsCache) TopDishes(ctx context.Context, day time.Time, limit int) ([]domain.Ranked, error) {
	args := m.Called(ctx, day, limit)
	ranked, _ := args.Get(0).([]domain.Ranked)
	return ranked, args.Error(1)
}

func (m *AnalyticsCache) TopChefs(ctx context.Context, limit int) ([]domain.Ranked, error) {
	args := m.Called(ctx, limit)
	ranked, _ := args.Get(0).([]domain.Ranked)
	return ranked, args.Error(1)
}

func NewAnalyticsCache(t testingT) *AnalyticsCache {
	m := &AnalyticsCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, evt domain.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func NewEventPublisher(t testingT) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type QRGenerator struct {
	mock.Mock
}

func (m *QRGenerator) Generate(bookingID string) ([]byte, error) {
	args := m.Called(bookingID)
	png, _ := args.Get(0).([]byte)
	return png, args.Error(1)
}

func NewQRGenerator(t testingT) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type Uploader struct {
	mock.Mock
}

func (m *Uploader) Upload(ctx context.Context, folder, name string, r io.Reader) (string, error) {
	args := m.Called(ctx, folder, name, r)
	return args.String(0), args.Error(1)
}

func NewUploader(t testingT) *Uploader {
	m := &Uploader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
