package service

import (
	"context"
	"strings"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/logger"
	"github.com/aashikantkumar/cheifidea/internal/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const bookingDateLayout = "2006-01-02"

type CreateBookingInput struct {
	ChefID              string                 `json:"chef_id"`
	Dishes              []ItemRequest          `json:"dishes"`
	BookingDate         string                 `json:"booking_date"`
	BookingTime         string                 `json:"booking_time"`
	EventType           string                 `json:"event_type"`
	GuestCount          int                    `json:"guest_count"`
	ServiceLocation     domain.ServiceLocation `json:"service_location"`
	SpecialInstructions string                 `json:"special_instructions"`
	DietaryRestrictions []string               `json:"dietary_restrictions"`
	PaymentMethod       domain.PaymentMethod   `json:"payment_method"`
}

func (in CreateBookingInput) date() (time.Time, error) {
	if t, err := time.Parse(bookingDateLayout, in.BookingDate); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, in.BookingDate)
	if err != nil {
		return time.Time{}, apperr.BadRequest("Invalid booking date: %s", in.BookingDate)
	}
	return t.UTC(), nil
}

func (in CreateBookingInput) validate() error {
	if in.ChefID == "" || len(in.Dishes) == 0 || in.BookingDate == "" ||
		in.BookingTime == "" || strings.TrimSpace(in.ServiceLocation.Address) == "" {
		return apperr.BadRequest("Missing required booking fields")
	}
	if in.GuestCount < 1 {
		return apperr.BadRequest("Guest count must be at least 1")
	}
	if in.PaymentMethod != "" && !in.PaymentMethod.Valid() {
		return apperr.BadRequest("Invalid payment method: %s", in.PaymentMethod)
	}
	return nil
}

type BookingService struct {
	store     Store
	uow       UnitOfWork
	profiles  profiles
	pricing   PricingPolicy
	qr        QRGenerator
	publisher EventPublisher
	now       func() time.Time
}

func NewBookingService(store Store, uow UnitOfWork, pricing PricingPolicy, qr QRGenerator, publisher EventPublisher) *BookingService {
	return &BookingService{
		store:     store,
		uow:       uow,
		profiles:  profiles{accounts: store},
		pricing:   pricing,
		qr:        qr,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create prices and persists a booking together with the profile and dish
// counters it touches.
func (s *BookingService) Create(ctx context.Context, p domain.Principal, in CreateBookingInput) (*domain.BookingView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	date, err := in.date()
	if err != nil {
		return nil, err
	}
	userID, err := s.profiles.customer(ctx, p)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	booking := &domain.Booking{
		ID:                  uuid.NewString(),
		UserID:              userID,
		ChefID:              in.ChefID,
		BookingDate:         date,
		BookingTime:         in.BookingTime,
		EventType:           in.EventType,
		GuestCount:          in.GuestCount,
		ServiceLocation:     in.ServiceLocation,
		PaymentStatus:       domain.PaymentPending,
		PaymentMethod:       in.PaymentMethod,
		BookingStatus:       domain.BookingPending,
		SpecialInstructions: in.SpecialInstructions,
		DietaryRestrictions: in.DietaryRestrictions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if booking.EventType == "" {
		booking.EventType = domain.DefaultEventType
	}
	if booking.PaymentMethod == "" {
		booking.PaymentMethod = domain.PaymentCash
	}
	if booking.DietaryRestrictions == nil {
		booking.DietaryRestrictions = []string{}
	}

	var (
		user   *domain.UserProfile
		chef   *domain.ChefProfile
		dishes map[string]domain.Dish
	)
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		profile, err := s.store.GetUserProfile(ctx, userID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return apperr.NotFound("User profile not found")
			}
			return err
		}
		user = profile
		found, err := s.store.GetChef(ctx, in.ChefID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return apperr.NotFound("Chef not found")
			}
			return err
		}
		chef = found
		if !chef.IsApproved || chef.AccountStatus != domain.ChefStatusActive {
			return apperr.BadRequest("Chef is not accepting bookings")
		}
		if !chef.IsAvailable {
			return apperr.BadRequest("Chef is currently not available")
		}

		loaded, err := s.store.GetDishesByIDs(ctx, requestedDishIDs(in.Dishes))
		if err != nil {
			return err
		}
		dishes = make(map[string]domain.Dish, len(loaded))
		for _, d := range loaded {
			dishes[d.ID] = d
		}

		quote, err := PriceBooking(chef, in.Dishes, dishes, s.pricing)
		if err != nil {
			return err
		}
		booking.Dishes = quote.Items
		booking.ApplyQuote(quote)

		if err := s.store.CreateBooking(ctx, booking); err != nil {
			return err
		}
		if err := s.store.AppendBookingHistory(ctx, userID, booking.ID); err != nil {
			return err
		}
		if err := s.store.IncrementChefCounters(ctx, chef.ID, domain.ChefCounters{TotalBookings: 1}); err != nil {
			return err
		}
		return s.store.IncrementOrderCounts(ctx, orderCounts(booking.Dishes))
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	publish(ctx, s.publisher, domain.Event{
		Type:      domain.EventBookingCreated,
		BookingID: booking.ID,
		ChefID:    booking.ChefID,
		UserID:    booking.UserID,
		Status:    booking.BookingStatus,
		Dishes:    booking.Dishes,
		Timestamp: now,
	})

	return &domain.BookingView{
		Booking:    *booking,
		User:       userSummary(user),
		Chef:       chefSummary(chef),
		DishDetail: dishSummaries(booking.Dishes, dishes),
	}, nil
}

func (s *BookingService) Get(ctx context.Context, p domain.Principal, id string) (*domain.BookingView, error) {
	booking, err := s.authorizedBooking(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return s.compose(ctx, booking)
}

func (s *BookingService) authorizedBooking(ctx context.Context, p domain.Principal, id string) (*domain.Booking, error) {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	_, ok, err := s.profiles.owner(ctx, p, booking)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("You are not authorized to view this booking")
	}
	return booking, nil
}

// compose attaches user, chef and dish summaries fetched concurrently.
func (s *BookingService) compose(ctx context.Context, b *domain.Booking) (*domain.BookingView, error) {
	view := &domain.BookingView{Booking: *b}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		user, err := s.store.GetUserProfile(gctx, b.UserID)
		if err != nil {
			return ignoreNotFound(err)
		}
		view.User = userSummary(user)
		return nil
	})
	g.Go(func() error {
		chef, err := s.store.GetChef(gctx, b.ChefID)
		if err != nil {
			return ignoreNotFound(err)
		}
		view.Chef = chefSummary(chef)
		return nil
	})
	g.Go(func() error {
		ids := make([]string, len(b.Dishes))
		for i, item := range b.Dishes {
			ids[i] = item.DishID
		}
		loaded, err := s.store.GetDishesByIDs(gctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[string]domain.Dish, len(loaded))
		for _, d := range loaded {
			byID[d.ID] = d
		}
		view.DishDetail = dishSummaries(b.Dishes, byID)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

// Cancel cancels a booking on behalf of its customer or an admin.
func (s *BookingService) Cancel(ctx context.Context, p domain.Principal, id, reason string) (*domain.Booking, error) {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	actor, ok, err := s.profiles.owner(ctx, p, booking)
	if err != nil {
		return nil, err
	}
	if !ok || actor == domain.ActorChef {
		return nil, apperr.Forbidden("You can only cancel your own bookings")
	}
	if booking.BookingStatus.IsTerminal() {
		return nil, apperr.BadRequest("Booking cannot be cancelled — it is already %s", booking.BookingStatus)
	}

	if strings.TrimSpace(reason) == "" {
		reason = defaultCancelReason(actor)
	}
	if err := s.cancel(ctx, booking, actor, reason); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) cancel(ctx context.Context, b *domain.Booking, actor domain.Actor, reason string) error {
	status := domain.BookingCancelled
	now := s.now().UTC()
	patch := domain.BookingPatch{
		BookingStatus:      &status,
		CancellationReason: &reason,
		CancelledBy:        &actor,
		CancelledAt:        &now,
	}
	if err := s.store.UpdateBooking(ctx, b.ID, patch); err != nil {
		return err
	}
	patch.Apply(b)
	b.UpdatedAt = now

	metrics.BookingTransitions.WithLabelValues(string(status)).Inc()
	publish(ctx, s.publisher, domain.Event{
		Type:      domain.EventBookingCancelled,
		BookingID: b.ID,
		ChefID:    b.ChefID,
		UserID:    b.UserID,
		Status:    status,
		Actor:     actor,
		Timestamp: now,
	})
	return nil
}

// UpdateStatus moves a chef's booking along the lifecycle.
func (s *BookingService) UpdateStatus(ctx context.Context, p domain.Principal, id string, target domain.BookingStatus) (*domain.Booking, error) {
	if !domain.IsChefTarget(target) {
		return nil, apperr.BadRequest("Invalid status. Must be one of: %s", joinStatuses(domain.ChefTargets))
	}
	chefID, err := s.profiles.chef(ctx, p)
	if err != nil {
		return nil, err
	}

	var booking *domain.Booking
	now := s.now().UTC()
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		found, err := s.store.GetBooking(ctx, id)
		if err != nil {
			return err
		}
		booking = found
		if booking.ChefID != chefID {
			return apperr.Forbidden("You can only update your own bookings")
		}
		if !booking.BookingStatus.CanTransition(target) {
			allowed := joinStatuses(booking.BookingStatus.Next())
			if allowed == "" {
				allowed = "none"
			}
			return apperr.BadRequest("Cannot change booking status from %s to %s. Allowed: %s",
				booking.BookingStatus, target, allowed)
		}

		patch := domain.BookingPatch{BookingStatus: &target}
		switch target {
		case domain.BookingCompleted:
			patch.CompletedAt = &now
		case domain.BookingCancelled:
			actor := domain.ActorChef
			reason := defaultCancelReason(actor)
			patch.CancelledBy = &actor
			patch.CancelledAt = &now
			patch.CancellationReason = &reason
		}
		if err := s.store.UpdateBooking(ctx, booking.ID, patch); err != nil {
			return err
		}
		patch.Apply(booking)
		booking.UpdatedAt = now

		if target == domain.BookingCompleted {
			return s.store.IncrementChefCounters(ctx, chefID, domain.ChefCounters{CompletedBookings: 1})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingTransitions.WithLabelValues(string(target)).Inc()
	evt := domain.Event{
		Type:      domain.EventBookingStatus,
		BookingID: booking.ID,
		ChefID:    booking.ChefID,
		UserID:    booking.UserID,
		Status:    target,
		Actor:     domain.ActorChef,
		Timestamp: now,
	}
	if target == domain.BookingCancelled {
		evt.Type = domain.EventBookingCancelled
	}
	publish(ctx, s.publisher, evt)
	return booking, nil
}

func (s *BookingService) ListForUser(ctx context.Context, p domain.Principal, status string, page domain.Page) (domain.Paged[domain.Booking], error) {
	userID, err := s.profiles.customer(ctx, p)
	if err != nil {
		return domain.Paged[domain.Booking]{}, err
	}
	return s.list(ctx, domain.BookingFilter{UserID: userID, Page: page}, status)
}

func (s *BookingService) ListForChef(ctx context.Context, p domain.Principal, status string, page domain.Page) (domain.Paged[domain.Booking], error) {
	chefID, err := s.profiles.chef(ctx, p)
	if err != nil {
		return domain.Paged[domain.Booking]{}, err
	}
	return s.list(ctx, domain.BookingFilter{ChefID: chefID, Page: page}, status)
}

func (s *BookingService) list(ctx context.Context, f domain.BookingFilter, status string) (domain.Paged[domain.Booking], error) {
	statuses, err := parseStatuses(status)
	if err != nil {
		return domain.Paged[domain.Booking]{}, err
	}
	f.Statuses = statuses
	items, total, err := s.store.ListBookings(ctx, f)
	if err != nil {
		return domain.Paged[domain.Booking]{}, err
	}
	return paged(items, total, f.Page), nil
}

// QRCode renders the review link of a booking as a PNG.
func (s *BookingService) QRCode(ctx context.Context, p domain.Principal, id string) ([]byte, error) {
	booking, err := s.authorizedBooking(ctx, p, id)
	if err != nil {
		return nil, err
	}
	png, err := s.qr.Generate(booking.ID)
	if err != nil {
		return nil, apperr.Internal("Failed to generate QR code", err)
	}
	return png, nil
}

func requestedDishIDs(items []ItemRequest) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.DishID]; ok {
			continue
		}
		seen[item.DishID] = struct{}{}
		ids = append(ids, item.DishID)
	}
	return ids
}

func orderCounts(items []domain.LineItem) map[string]int {
	counts := make(map[string]int, len(items))
	for _, item := range items {
		counts[item.DishID] += item.Quantity
	}
	return counts
}

func userSummary(u *domain.UserProfile) *domain.UserSummary {
	if u == nil {
		return nil
	}
	return &domain.UserSummary{ID: u.ID, FullName: u.FullName, Phone: u.Phone, Avatar: u.Avatar}
}

func chefSummary(c *domain.ChefProfile) *domain.ChefSummary {
	if c == nil {
		return nil
	}
	return &domain.ChefSummary{
		ID:            c.ID,
		FullName:      c.FullName,
		Phone:         c.Phone,
		Avatar:        c.Avatar,
		AverageRating: c.AverageRating,
		PricePerHour:  c.PricePerHour,
	}
}

func dishSummaries(items []domain.LineItem, dishes map[string]domain.Dish) []domain.DishSummary {
	out := make([]domain.DishSummary, 0, len(items))
	for _, item := range items {
		d, ok := dishes[item.DishID]
		if !ok {
			continue
		}
		out = append(out, domain.DishSummary{ID: d.ID, Name: d.Name, Price: d.Price, Images: d.Images})
	}
	return out
}

func defaultCancelReason(actor domain.Actor) string {
	return "Cancelled by " + string(actor)
}

func joinStatuses(statuses []domain.BookingStatus) string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func ignoreNotFound(err error) error {
	if apperr.Is(err, apperr.KindNotFound) {
		return nil
	}
	return err
}

// publish sends evt after a commit. Failures are logged, never returned.
func publish(ctx context.Context, publisher EventPublisher, evt domain.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Error().
			Err(err).
			Str("type", evt.Type).
			Str("booking_id", evt.BookingID).
			Msg("failed to publish event")
	}
}
