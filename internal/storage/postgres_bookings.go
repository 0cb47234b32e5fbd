package storage

import (
	"context"
	"database/sql"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

var bookingColumns = []any{
	"id", "user_id", "chef_id", "dishes", "booking_date", "booking_time", "event_type", "guest_count",
	"service_location", "dishes_total", "chef_fee", "platform_fee", "taxes", "total_amount",
	"payment_status", "payment_method", "booking_status", "special_instructions",
	"dietary_restrictions", "cancellation_reason", "cancelled_by", "cancelled_at", "completed_at",
	"created_at", "updated_at",
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b           domain.Booking
		cancelledAt sql.NullTime
		completedAt sql.NullTime
	)
	err := row.Scan(&b.ID, &b.UserID, &b.ChefID, asJSON(&b.Dishes), &b.BookingDate, &b.BookingTime,
		&b.EventType, &b.GuestCount, asJSON(&b.ServiceLocation), &b.DishesTotal, &b.ChefFee,
		&b.PlatformFee, &b.Taxes, &b.TotalAmount, &b.PaymentStatus, &b.PaymentMethod, &b.BookingStatus,
		&b.SpecialInstructions, pq.Array(&b.DietaryRestrictions), &b.CancellationReason, &b.CancelledBy,
		&cancelledAt, &completedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.CancelledAt = timePtr(cancelledAt)
	b.CompletedAt = timePtr(completedAt)
	return &b, nil
}

func (s *PostgresStore) CreateBooking(ctx context.Context, b *domain.Booking) error {
	query, args, err := s.dialect.Insert("bookings").Prepared(true).Rows(goqu.Record{
		"id":                   b.ID,
		"user_id":              b.UserID,
		"chef_id":              b.ChefID,
		"dishes":               asJSON(b.Dishes),
		"booking_date":         b.BookingDate,
		"booking_time":         b.BookingTime,
		"event_type":           b.EventType,
		"guest_count":          b.GuestCount,
		"service_location":     asJSON(b.ServiceLocation),
		"dishes_total":         b.DishesTotal,
		"chef_fee":             b.ChefFee,
		"platform_fee":         b.PlatformFee,
		"taxes":                b.Taxes,
		"total_amount":         b.TotalAmount,
		"payment_status":       string(b.PaymentStatus),
		"payment_method":       string(b.PaymentMethod),
		"booking_status":       string(b.BookingStatus),
		"special_instructions": b.SpecialInstructions,
		"dietary_restrictions": pq.Array(nonNil(b.DietaryRestrictions)),
		"created_at":           b.CreatedAt,
		"updated_at":           b.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperr.Internal("failed to build insert query", err)
	}
	_, err = s.conn(ctx).ExecContext(ctx, query, args...)
	return pgError(err, "Booking")
}

func (s *PostgresStore) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	query, args, err := s.dialect.From("bookings").Prepared(true).
		Select(bookingColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperr.Internal("failed to build query", err)
	}
	b, err := scanBooking(s.conn(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, pgError(err, "Booking")
	}
	return b, nil
}

func (s *PostgresStore) UpdateBooking(ctx context.Context, id string, patch domain.BookingPatch) error {
	return s.update(ctx, "bookings", id, patch.Fields(), "Booking")
}

func (s *PostgresStore) bookingFilter(f domain.BookingFilter) *goqu.SelectDataset {
	ds := s.dialect.From("bookings").Prepared(true)
	if f.UserID != "" {
		ds = ds.Where(goqu.Ex{"user_id": f.UserID})
	}
	if f.ChefID != "" {
		ds = ds.Where(goqu.Ex{"chef_id": f.ChefID})
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		ds = ds.Where(goqu.Ex{"booking_status": statuses})
	}
	return ds
}

func (s *PostgresStore) ListBookings(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, int, error) {
	ds := s.bookingFilter(f)
	total, err := s.count(ctx, ds, "Booking")
	if err != nil {
		return nil, 0, err
	}

	query, args, err := ds.Select(bookingColumns...).
		Order(goqu.C("booking_date").Desc(), goqu.C("created_at").Desc()).
		Limit(uint(f.Page.Limit)).
		Offset(uint(f.Page.Offset())).
		ToSQL()
	if err != nil {
		return nil, 0, apperr.Internal("failed to build query", err)
	}

	rows, err := s.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, pgError(err, "Booking")
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, pgError(err, "Booking")
		}
		bookings = append(bookings, *b)
	}
	return bookings, total, pgError(rows.Err(), "Booking")
}

func (s *PostgresStore) CountBookings(ctx context.Context, f domain.BookingFilter) (int, error) {
	return s.count(ctx, s.bookingFilter(f), "Booking")
}

// SumChefEarnings totals the chef fee of completed, paid bookings.
func (s *PostgresStore) SumChefEarnings(ctx context.Context, chefID string) (int64, error) {
	var total int64
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT COALESCE(SUM(chef_fee), 0)
		FROM bookings
		WHERE chef_id = $1 AND booking_status = 'completed' AND payment_status = 'paid'
	`, chefID).Scan(&total)
	if err != nil {
		return 0, pgError(err, "Booking")
	}
	return total, nil
}

const reviewColumns = `id, booking_id, user_id, chef_id, rating, food_quality, professionalism,
	punctuality, comment, chef_response, created_at`

func scanReview(row rowScanner) (*domain.Review, error) {
	var (
		r                                         domain.Review
		foodQuality, professionalism, punctuality sql.NullInt64
		response                                  *domain.ChefResponse
	)
	err := row.Scan(&r.ID, &r.BookingID, &r.UserID, &r.ChefID, &r.Rating, &foodQuality,
		&professionalism, &punctuality, &r.Comment, asJSON(&response), &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.FoodQuality = intPtr(foodQuality)
	r.Professionalism = intPtr(professionalism)
	r.Punctuality = intPtr(punctuality)
	r.ChefResponse = response
	return &r, nil
}

func (s *PostgresStore) CreateReview(ctx context.Context, r *domain.Review) error {
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO reviews (id, booking_id, user_id, chef_id, rating, food_quality, professionalism,
			punctuality, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.ID, r.BookingID, r.UserID, r.ChefID, r.Rating, nullableInt(r.FoodQuality),
		nullableInt(r.Professionalism), nullableInt(r.Punctuality), r.Comment, r.CreatedAt)
	return pgError(err, "Review")
}

func (s *PostgresStore) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
	r, err := scanReview(row)
	if err != nil {
		return nil, pgError(err, "Review")
	}
	return r, nil
}

func (s *PostgresStore) GetReviewByBooking(ctx context.Context, bookingID string) (*domain.Review, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE booking_id = $1`, bookingID)
	r, err := scanReview(row)
	if err != nil {
		return nil, pgError(err, "Review")
	}
	return r, nil
}

func (s *PostgresStore) ListChefReviews(ctx context.Context, chefID string, page domain.Page) ([]domain.Review, int, error) {
	var total int
	if err := s.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews WHERE chef_id = $1`, chefID).
		Scan(&total); err != nil {
		return nil, 0, pgError(err, "Review")
	}

	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE chef_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, chefID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, pgError(err, "Review")
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, 0, pgError(err, "Review")
		}
		reviews = append(reviews, *r)
	}
	return reviews, total, pgError(rows.Err(), "Review")
}

// ChefRatingTally recomputes the sum and count over every review of the chef.
func (s *PostgresStore) ChefRatingTally(ctx context.Context, chefID string) (domain.RatingTally, error) {
	var tally domain.RatingTally
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT COALESCE(SUM(rating), 0), COUNT(*)
		FROM reviews
		WHERE chef_id = $1
	`, chefID).Scan(&tally.Sum, &tally.Count)
	if err != nil {
		return domain.RatingTally{}, pgError(err, "Review")
	}
	return tally, nil
}

func (s *PostgresStore) SetReviewResponse(ctx context.Context, id string, resp domain.ChefResponse) error {
	return s.execOne(ctx, "Review", `UPDATE reviews SET chef_response = $2 WHERE id = $1`, id, asJSON(resp))
}
