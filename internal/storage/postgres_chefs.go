package storage

import (
	"context"
	"sort"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

var chefColumns = []any{
	"id", "account_id", "full_name", "phone", "avatar", "cover_image", "bio", "specialization",
	"experience_years", "service_locations", "dishes", "price_per_hour", "minimum_booking_hours",
	"average_rating", "total_reviews", "total_bookings", "completed_bookings", "is_available",
	"is_approved", "account_status", "created_at", "updated_at",
}

func scanChef(row rowScanner) (*domain.ChefProfile, error) {
	var c domain.ChefProfile
	err := row.Scan(&c.ID, &c.AccountID, &c.FullName, &c.Phone, &c.Avatar, &c.CoverImage, &c.Bio,
		pq.Array(&c.Specialization), &c.ExperienceYears, asJSON(&c.ServiceLocations), pq.Array(&c.Dishes),
		&c.PricePerHour, &c.MinimumBookingHours, &c.AverageRating, &c.TotalReviews, &c.TotalBookings,
		&c.CompletedBookings, &c.IsAvailable, &c.IsApproved, &c.AccountStatus, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) CreateChef(ctx context.Context, c *domain.ChefProfile) error {
	query, args, err := s.dialect.Insert("chef_profiles").Prepared(true).Rows(goqu.Record{
		"id":                    c.ID,
		"account_id":            c.AccountID,
		"full_name":             c.FullName,
		"phone":                 c.Phone,
		"avatar":                c.Avatar,
		"cover_image":           c.CoverImage,
		"bio":                   c.Bio,
		"specialization":        pq.Array(nonNil(c.Specialization)),
		"experience_years":      c.ExperienceYears,
		"service_locations":     asJSON(nonNilAreas(c.ServiceLocations)),
		"dishes":                pq.Array(nonNil(c.Dishes)),
		"price_per_hour":        c.PricePerHour,
		"minimum_booking_hours": c.MinimumBookingHours,
		"average_rating":        c.AverageRating,
		"total_reviews":         c.TotalReviews,
		"total_bookings":        c.TotalBookings,
		"completed_bookings":    c.CompletedBookings,
		"is_available":          c.IsAvailable,
		"is_approved":           c.IsApproved,
		"account_status":        string(c.AccountStatus),
		"created_at":            c.CreatedAt,
		"updated_at":            c.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperr.Internal("failed to build insert query", err)
	}
	_, err = s.conn(ctx).ExecContext(ctx, query, args...)
	return pgError(err, "Chef")
}

func (s *PostgresStore) GetChef(ctx context.Context, id string) (*domain.ChefProfile, error) {
	query, args, err := s.dialect.From("chef_profiles").Prepared(true).
		Select(chefColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperr.Internal("failed to build query", err)
	}
	c, err := scanChef(s.conn(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, pgError(err, "Chef")
	}
	return c, nil
}

func (s *PostgresStore) GetChefsByIDs(ctx context.Context, ids []string) ([]domain.ChefProfile, error) {
	if len(ids) == 0 {
		return []domain.ChefProfile{}, nil
	}
	query, args, err := s.dialect.From("chef_profiles").Prepared(true).
		Select(chefColumns...).
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperr.Internal("failed to build query", err)
	}
	return s.queryChefs(ctx, query, args)
}

func (s *PostgresStore) queryChefs(ctx context.Context, query string, args []any) ([]domain.ChefProfile, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgError(err, "Chef")
	}
	defer rows.Close()

	chefs := []domain.ChefProfile{}
	for rows.Next() {
		c, err := scanChef(rows)
		if err != nil {
			return nil, pgError(err, "Chef")
		}
		chefs = append(chefs, *c)
	}
	return chefs, pgError(rows.Err(), "Chef")
}

func (s *PostgresStore) UpdateChef(ctx context.Context, id string, patch domain.ChefPatch) error {
	return s.update(ctx, "chef_profiles", id, patch.Fields(), "Chef")
}

func (s *PostgresStore) IncrementChefCounters(ctx context.Context, id string, delta domain.ChefCounters) error {
	return s.execOne(ctx, "Chef", `
		UPDATE chef_profiles
		SET total_bookings = total_bookings + $2,
			completed_bookings = completed_bookings + $3,
			updated_at = now()
		WHERE id = $1
	`, id, delta.TotalBookings, delta.CompletedBookings)
}

func (s *PostgresStore) SetChefRating(ctx context.Context, id string, average float64, total int) error {
	return s.execOne(ctx, "Chef", `
		UPDATE chef_profiles
		SET average_rating = $2, total_reviews = $3, updated_at = now()
		WHERE id = $1
	`, id, average, total)
}

func (s *PostgresStore) AddChefDish(ctx context.Context, chefID, dishID string) error {
	return s.execOne(ctx, "Chef", `
		UPDATE chef_profiles
		SET dishes = CASE WHEN $2 = ANY(dishes) THEN dishes ELSE array_append(dishes, $2) END,
			updated_at = now()
		WHERE id = $1
	`, chefID, dishID)
}

func (s *PostgresStore) RemoveChefDish(ctx context.Context, chefID, dishID string) error {
	return s.execOne(ctx, "Chef", `
		UPDATE chef_profiles SET dishes = array_remove(dishes, $2), updated_at = now()
		WHERE id = $1
	`, chefID, dishID)
}

func (s *PostgresStore) ListChefs(ctx context.Context, f domain.ChefFilter) ([]domain.ChefProfile, int, error) {
	ds := s.dialect.From("chef_profiles").Prepared(true)
	if f.Bookable {
		ds = ds.Where(goqu.Ex{"is_approved": true, "account_status": string(domain.ChefStatusActive)})
	}
	if f.Status != "" {
		ds = ds.Where(goqu.Ex{"account_status": string(f.Status)})
	}
	if f.Specialization != "" {
		ds = ds.Where(goqu.L("EXISTS (SELECT 1 FROM unnest(specialization) sp WHERE sp ILIKE ?)", f.Specialization))
	}
	if f.City != "" {
		ds = ds.Where(goqu.L("EXISTS (SELECT 1 FROM jsonb_array_elements(service_locations) loc WHERE loc->>'city' ILIKE ?)", f.City))
	}
	if f.Search != "" {
		ds = ds.Where(goqu.C("full_name").ILike("%" + f.Search + "%"))
	}
	if f.MinRating > 0 {
		ds = ds.Where(goqu.C("average_rating").Gte(f.MinRating))
	}

	total, err := s.count(ctx, ds, "Chef")
	if err != nil {
		return nil, 0, err
	}

	query, args, err := ds.Select(chefColumns...).
		Order(goqu.C("average_rating").Desc(), goqu.C("total_reviews").Desc(), goqu.C("created_at").Desc()).
		Limit(uint(f.Page.Limit)).
		Offset(uint(f.Page.Offset())).
		ToSQL()
	if err != nil {
		return nil, 0, apperr.Internal("failed to build query", err)
	}
	chefs, err := s.queryChefs(ctx, query, args)
	return chefs, total, err
}

var dishColumns = []any{
	"id", "chef_id", "name", "description", "category", "cuisine", "images", "preparation_time",
	"servings", "price", "dietary", "tags", "is_available", "orders_count", "rating",
	"created_at", "updated_at",
}

func scanDish(row rowScanner) (*domain.Dish, error) {
	var d domain.Dish
	err := row.Scan(&d.ID, &d.ChefID, &d.Name, &d.Description, &d.Category, &d.Cuisine,
		pq.Array(&d.Images), &d.PreparationTime, &d.Servings, &d.Price, asJSON(&d.Dietary),
		pq.Array(&d.Tags), &d.IsAvailable, &d.OrdersCount, &d.Rating, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *PostgresStore) CreateDish(ctx context.Context, d *domain.Dish) error {
	query, args, err := s.dialect.Insert("dishes").Prepared(true).Rows(goqu.Record{
		"id":               d.ID,
		"chef_id":          d.ChefID,
		"name":             d.Name,
		"description":      d.Description,
		"category":         d.Category,
		"cuisine":          d.Cuisine,
		"images":           pq.Array(nonNil(d.Images)),
		"preparation_time": d.PreparationTime,
		"servings":         d.Servings,
		"price":            d.Price,
		"dietary":          asJSON(d.Dietary),
		"tags":             pq.Array(nonNil(d.Tags)),
		"is_available":     d.IsAvailable,
		"orders_count":     d.OrdersCount,
		"rating":           d.Rating,
		"created_at":       d.CreatedAt,
		"updated_at":       d.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperr.Internal("failed to build insert query", err)
	}
	_, err = s.conn(ctx).ExecContext(ctx, query, args...)
	return pgError(err, "Dish")
}

func (s *PostgresStore) GetDish(ctx context.Context, id string) (*domain.Dish, error) {
	query, args, err := s.dialect.From("dishes").Prepared(true).
		Select(dishColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperr.Internal("failed to build query", err)
	}
	d, err := scanDish(s.conn(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, pgError(err, "Dish")
	}
	return d, nil
}

func (s *PostgresStore) GetDishesByIDs(ctx context.Context, ids []string) ([]domain.Dish, error) {
	if len(ids) == 0 {
		return []domain.Dish{}, nil
	}
	query, args, err := s.dialect.From("dishes").Prepared(true).
		Select(dishColumns...).
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperr.Internal("failed to build query", err)
	}
	return s.queryDishes(ctx, query, args)
}

func (s *PostgresStore) queryDishes(ctx context.Context, query string, args []any) ([]domain.Dish, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgError(err, "Dish")
	}
	defer rows.Close()

	dishes := []domain.Dish{}
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, pgError(err, "Dish")
		}
		dishes = append(dishes, *d)
	}
	return dishes, pgError(rows.Err(), "Dish")
}

func (s *PostgresStore) UpdateDish(ctx context.Context, id string, patch domain.DishPatch) error {
	return s.update(ctx, "dishes", id, patch.Fields(), "Dish")
}

func (s *PostgresStore) DeleteDish(ctx context.Context, id string) error {
	return s.execOne(ctx, "Dish", `DELETE FROM dishes WHERE id = $1`, id)
}

// IncrementOrderCounts adds every quantity in one statement.
func (s *PostgresStore) IncrementOrderCounts(ctx context.Context, counts map[string]int) error {
	if len(counts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	qty := make([]int64, len(ids))
	for i, id := range ids {
		qty[i] = int64(counts[id])
	}

	_, err := s.conn(ctx).ExecContext(ctx, `
		UPDATE dishes AS d
		SET orders_count = d.orders_count + u.qty, updated_at = now()
		FROM unnest($1::text[], $2::int[]) AS u(id, qty)
		WHERE d.id = u.id
	`, pq.Array(ids), pq.Array(qty))
	return pgError(err, "Dish")
}

func (s *PostgresStore) dishFilter(f domain.DishFilter) *goqu.SelectDataset {
	ds := s.dialect.From("dishes").Prepared(true)
	if f.ChefID != "" {
		ds = ds.Where(goqu.Ex{"chef_id": f.ChefID})
	}
	if f.Category != "" {
		ds = ds.Where(goqu.C("category").ILike(f.Category))
	}
	if f.Cuisine != "" {
		ds = ds.Where(goqu.C("cuisine").ILike(f.Cuisine))
	}
	if f.Vegetarian != nil {
		ds = ds.Where(goqu.L("COALESCE((dietary->>'is_vegetarian')::boolean, false) = ?", *f.Vegetarian))
	}
	if f.OnlyAvailable {
		ds = ds.Where(goqu.Ex{"is_available": true})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		ds = ds.Where(goqu.Or(
			goqu.C("name").ILike(pattern),
			goqu.C("description").ILike(pattern),
			goqu.L("EXISTS (SELECT 1 FROM unnest(tags) t WHERE t ILIKE ?)", pattern),
		))
	}
	return ds
}

func (s *PostgresStore) ListDishes(ctx context.Context, f domain.DishFilter) ([]domain.Dish, int, error) {
	ds := s.dishFilter(f)
	total, err := s.count(ctx, ds, "Dish")
	if err != nil {
		return nil, 0, err
	}

	query, args, err := ds.Select(dishColumns...).
		Order(goqu.C("created_at").Desc()).
		Limit(uint(f.Page.Limit)).
		Offset(uint(f.Page.Offset())).
		ToSQL()
	if err != nil {
		return nil, 0, apperr.Internal("failed to build query", err)
	}
	dishes, err := s.queryDishes(ctx, query, args)
	return dishes, total, err
}

func (s *PostgresStore) CountDishes(ctx context.Context, chefID string) (int, error) {
	return s.count(ctx, s.dishFilter(domain.DishFilter{ChefID: chefID}), "Dish")
}

func nonNilAreas(v []domain.ServiceArea) []domain.ServiceArea {
	if v == nil {
		return []domain.ServiceArea{}
	}
	return v
}
