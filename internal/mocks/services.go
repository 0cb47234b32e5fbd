package mocks

import (
	"context"

	"github.com/aashikantkumar/cheifidea/internal/auth"
	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/service"

	"github.com/stretchr/testify/mock"
)

type BookingService struct {
	mock.Mock
}

func (m *BookingService) Create(ctx context.Context, p domain.Principal, in service.CreateBookingInput) (*domain.BookingView, error) {
	args := m.Called(ctx, p, in)
	view, _ := args.Get(0).(*domain.BookingView)
	return view, args.Error(1)
}

func (m *BookingService) Get(ctx context.Context, p domain.Principal, id string) (*domain.BookingView, error) {
	args := m.Called(ctx, p, id)
	view, _ := args.Get(0).(*domain.BookingView)
	return view, args.Error(1)
}

func (m *BookingService) Cancel(ctx context.Context, p domain.Principal, id, reason string) (*domain.Booking, error) {
	args := m.Called(ctx, p, id, reason)
	booking, _ := args.Get(0).(*domain.Booking)
	return booking, args.Error(1)
}

func (m *BookingService) UpdateStatus(ctx context.Context, p domain.Principal, id string, target domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, p, id, target)
	booking, _ := args.Get(0).(*domain.Booking)
	return booking, args.Error(1)
}

func (m *BookingService) ListForUser(ctx context.Context, p domain.Principal, status string, page domain.Page) (domain.Paged[domain.Booking], error) {
	args := m.Called(ctx, p, status, page)
	result, _ := args.Get(0).(domain.Paged[domain.Booking])
	return result, args.Error(1)
}

func (m *BookingService) ListForChef(ctx context.Context, p domain.Principal, status string, page domain.Page) (domain.Paged[domain.Booking], error) {
	args := m.Called(ctx, p, status, page)
	result, _ := args.Get(0).(domain.Paged[domain.Booking])
	return result, args.Error(1)
}

func (m *BookingService) QRCode(ctx context.Context, p domain.Principal, id string) ([]byte, error) {
	args := m.Called(ctx, p, id)
	png, _ := args.Get(0).([]byte)
	return png, args.Error(1)
}

func NewBookingService(t testingT) *BookingService {
	m := &BookingService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type ReviewService struct {
	mock.Mock
}

func (m *ReviewService) Add(ctx context.Context, p domain.Principal, bookingID string, in service.ReviewInput) (*domain.Review, error) {
	args := m.Called(ctx, p, bookingID, in)
	review, _ := args.Get(0).(*domain.Review)
	return review, args.Error(1)
}

func (m *ReviewService) Respond(ctx context.Context, p domain.Principal, reviewID, comment string) (*domain.Review, error) {
	args := m.Called(ctx, p, reviewID, comment)
	review, _ := args.Get(0).(*domain.Review)
	return review, args.Error(1)
}

func NewReviewService(t testingT) *ReviewService {
	m := &ReviewService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type AccountService struct {
	mock.Mock
}

func (m *AccountService) RegisterCustomer(ctx context.Context, in service.RegisterCustomerInput) (*service.Session, error) {
	args := m.Called(ctx, in)
	session, _ := args.Get(0).(*service.Session)
	return session, args.Error(1)
}

func (m *AccountService) RegisterChef(ctx context.Context, in service.RegisterChefInput) (*service.Session, error) {
	args := m.Called(ctx, in)
	session, _ := args.Get(0).(*service.Session)
	return session, args.Error(1)
}

func (m *AccountService) Login(ctx context.Context, role domain.Role, email, password string) (*service.Session, error) {
	args := m.Called(ctx, role, email, password)
	session, _ := args.Get(0).(*service.Session)
	return session, args.Error(1)
}

func (m *AccountService) Refresh(ctx context.Context, refreshToken string) (auth.Tokens, error) {
	args := m.Called(ctx, refreshToken)
	tokens, _ := args.Get(0).(auth.Tokens)
	return tokens, args.Error(1)
}

func (m *AccountService) Logout(ctx context.Context, p domain.Principal) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *AccountService) ChangePassword(ctx context.Context, p domain.Principal, oldPassword, newPassword string) error {
	args := m.Called(ctx, p, oldPassword, newPassword)
	return args.Error(0)
}

func (m *AccountService) Me(ctx context.Context, p domain.Principal) (*domain.Account, error) {
	args := m.Called(ctx, p)
	account, _ := args.Get(0).(*domain.Account)
	return account, args.Error(1)
}

func NewAccountService(t testingT) *AccountService {
	m := &AccountService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) ListChefs(ctx context.Context, f domain.ChefFilter) (domain.Paged[domain.ChefProfile], error) {
	args := m.Called(ctx, f)
	result, _ := args.Get(0).(domain.Paged[domain.ChefProfile])
	return result, args.Error(1)
}

func (m *CatalogService) Chef(ctx context.Context, id string) (*domain.ChefProfile, error) {
	args := m.Called(ctx, id)
	chef, _ := args.Get(0).(*domain.ChefProfile)
	return chef, args.Error(1)
}

func (m *CatalogService) ChefDishes(ctx context.Context, chefID string, page domain.Page) (domain.Paged[domain.Dish], error) {
	args := m.Called(ctx, chefID, page)
	result, _ := args.Get(0).(domain.Paged[domain.Dish])
	return result, args.Error(1)
}

func (m *CatalogService) SearchDishes(ctx context.Context, f domain.DishFilter) (domain.Paged[domain.Dish], error) {
	args := m.Called(ctx, f)
	result, _ := args.Get(0).(domain.Paged[domain.Dish])
	return result, args.Error(1)
}

func (m *CatalogService) Dish(ctx context.Context, id string) (*domain.Dish, error) {
	args := m.Called(ctx, id)
	dish, _ := args.Get(0).(*domain.Dish)
	return dish, args.Error(1)
}

func (m *CatalogService) ChefReviews(ctx context.Context, chefID string, page domain.Page) (domain.Paged[domain.Review], error) {
	args := m.Called(ctx, chefID, page)
	result, _ := args.Get(0).(domain.Paged[domain.Review])
	return result, args.Error(1)
}

func NewCatalogService(t testingT) *CatalogService {
	m := &CatalogService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type TokenParser struct {
	mock.Mock
}

func (m *TokenParser) ParseAccess(token string) (domain.Principal, error) {
	args := m.Called(token)
	p, _ := args.Get(0).(domain.Principal)
	return p, args.Error(1)
}

func NewTokenParser(t testingT) *TokenParser {
	m := &TokenParser{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var (
	_ service.ReviewCache    = (*ReviewCache)(nil)
	_ service.AnalyticsCache = (*AnalyticsCache)(nil)
	_ service.EventPublisher = (*EventPublisher)(nil)
	_ service.QRGenerator    = (*QRGenerator)(nil)
	_ service.Uploader       = (*Uploader)(nil)

	_ service.BookingServiceInterface = (*BookingService)(nil)
	_ service.ReviewServiceInterface  = (*ReviewService)(nil)
	_ service.AccountServiceInterface = (*AccountService)(nil)
	_ service.CatalogServiceInterface = (*CatalogService)(nil)
)
