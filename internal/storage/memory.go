package storage

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"
)

type memState struct {
	accounts map[string]domain.Account
	users    map[string]domain.UserProfile
	chefs    map[string]domain.ChefProfile
	dishes   map[string]domain.Dish
	bookings map[string]domain.Booking
	reviews  map[string]domain.Review
}

func newMemState() *memState {
	return &memState{
		accounts: map[string]domain.Account{},
		users:    map[string]domain.UserProfile{},
		chefs:    map[string]domain.ChefProfile{},
		dishes:   map[string]domain.Dish{},
		bookings: map[string]domain.Booking{},
		reviews:  map[string]domain.Review{},
	}
}

// clone copies the maps. Stored values never share slices with callers, so
// a shallow copy of each value is enough.
func (st *memState) clone() *memState {
	return &memState{
		accounts: copyMap(st.accounts),
		users:    copyMap(st.users),
		chefs:    copyMap(st.chefs),
		dishes:   copyMap(st.dishes),
		bookings: copyMap(st.bookings),
		reviews:  copyMap(st.reviews),
	}
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MemoryStore keeps every aggregate in process memory. Transactions work on
// a snapshot that replaces the live state on commit.
type MemoryStore struct {
	mu    sync.Mutex
	state *memState

	// NoTransactions makes Unit refuse to begin, like a standalone server.
	NoTransactions bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemState()}
}

type memTxKey struct{}

type memTransaction struct {
	store *MemoryStore
	state *memState
	once  sync.Once
}

func (t *memTransaction) Commit(context.Context) error {
	t.once.Do(func() {
		t.store.state = t.state
		t.store.mu.Unlock()
	})
	return nil
}

func (t *memTransaction) Abort(context.Context) error {
	t.once.Do(t.store.mu.Unlock)
	return nil
}

// Unit holds the store lock for the whole transaction, so units are
// serialised against each other and against plain writes.
func (s *MemoryStore) Unit() *Unit {
	return &Unit{
		driver: "memory",
		begin: func(ctx context.Context) (context.Context, transaction, error) {
			if s.NoTransactions {
				return ctx, nil, ErrTransactionsUnsupported
			}
			s.mu.Lock()
			tx := &memTransaction{store: s, state: s.state.clone()}
			return context.WithValue(ctx, memTxKey{}, tx), tx, nil
		},
		unsupported: func(err error) bool { return errors.Is(err, ErrTransactionsUnsupported) },
	}
}

func (s *MemoryStore) with(ctx context.Context, fn func(st *memState) error) error {
	if tx, ok := ctx.Value(memTxKey{}).(*memTransaction); ok && tx.store == s {
		return fn(tx.state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

func cloneStrings(v []string) []string {
	return append([]string{}, v...)
}

func cloneAccount(a domain.Account) *domain.Account { return &a }

func cloneUser(u domain.UserProfile) domain.UserProfile {
	u.BookingHistory = cloneStrings(u.BookingHistory)
	u.FavoriteChefs = cloneStrings(u.FavoriteChefs)
	return u
}

func cloneChef(c domain.ChefProfile) domain.ChefProfile {
	c.Specialization = cloneStrings(c.Specialization)
	c.Dishes = cloneStrings(c.Dishes)
	c.ServiceLocations = append([]domain.ServiceArea{}, c.ServiceLocations...)
	return c
}

func cloneDish(d domain.Dish) domain.Dish {
	d.Images = cloneStrings(d.Images)
	d.Tags = cloneStrings(d.Tags)
	return d
}

func cloneBooking(b domain.Booking) domain.Booking {
	b.Dishes = append([]domain.LineItem{}, b.Dishes...)
	b.DietaryRestrictions = cloneStrings(b.DietaryRestrictions)
	b.ServiceLocation.Latitude = clonePtr(b.ServiceLocation.Latitude)
	b.ServiceLocation.Longitude = clonePtr(b.ServiceLocation.Longitude)
	b.CancelledAt = clonePtr(b.CancelledAt)
	b.CompletedAt = clonePtr(b.CompletedAt)
	return b
}

func cloneReview(r domain.Review) domain.Review {
	r.FoodQuality = clonePtr(r.FoodQuality)
	r.Professionalism = clonePtr(r.Professionalism)
	r.Punctuality = clonePtr(r.Punctuality)
	r.ChefResponse = clonePtr(r.ChefResponse)
	return r
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func pageOf[T any](items []T, p domain.Page) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := len(items)
	if p.Limit > 0 && start+p.Limit < end {
		end = start + p.Limit
	}
	return items[start:end]
}

func now() time.Time { return time.Now().UTC() }

// Accounts

func (s *MemoryStore) CreateAccount(ctx context.Context, a *domain.Account) error {
	return s.with(ctx, func(st *memState) error {
		email := strings.ToLower(a.Email)
		if _, ok := st.accounts[a.ID]; ok {
			return apperr.Conflict("Account already exists")
		}
		for _, existing := range st.accounts {
			if existing.Email == email {
				return apperr.Conflict("Account already exists")
			}
		}
		doc := *a
		doc.Email = email
		st.accounts[doc.ID] = doc
		return nil
	})
}

func (s *MemoryStore) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var out *domain.Account
	err := s.with(ctx, func(st *memState) error {
		a, ok := st.accounts[id]
		if !ok {
			return apperr.NotFound("Account not found")
		}
		out = cloneAccount(a)
		return nil
	})
	return out, err
}

func (s *MemoryStore) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var out *domain.Account
	err := s.with(ctx, func(st *memState) error {
		email = strings.ToLower(email)
		for _, a := range st.accounts {
			if a.Email == email {
				out = cloneAccount(a)
				return nil
			}
		}
		return apperr.NotFound("Account not found")
	})
	return out, err
}

func (s *MemoryStore) UpdateAccount(ctx context.Context, id string, patch domain.AccountPatch) error {
	return s.with(ctx, func(st *memState) error {
		a, ok := st.accounts[id]
		if !ok {
			return apperr.NotFound("Account not found")
		}
		patch.Apply(&a)
		a.UpdatedAt = now()
		st.accounts[id] = a
		return nil
	})
}

func (s *MemoryStore) DeleteAccount(ctx context.Context, id string) error {
	return s.with(ctx, func(st *memState) error {
		if _, ok := st.accounts[id]; !ok {
			return apperr.NotFound("Account not found")
		}
		delete(st.accounts, id)
		return nil
	})
}

// User profiles

func (s *MemoryStore) CreateUserProfile(ctx context.Context, u *domain.UserProfile) error {
	return s.with(ctx, func(st *memState) error {
		if _, ok := st.users[u.ID]; ok {
			return apperr.Conflict("User profile already exists")
		}
		st.users[u.ID] = cloneUser(*u)
		return nil
	})
}

func (s *MemoryStore) GetUserProfile(ctx context.Context, id string) (*domain.UserProfile, error) {
	var out domain.UserProfile
	err := s.with(ctx, func(st *memState) error {
		u, ok := st.users[id]
		if !ok {
			return apperr.NotFound("User profile not found")
		}
		out = cloneUser(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MemoryStore) mutateUser(ctx context.Context, id string, fn func(u *domain.UserProfile)) error {
	return s.with(ctx, func(st *memState) error {
		u, ok := st.users[id]
		if !ok {
			return apperr.NotFound("User profile not found")
		}
		u = cloneUser(u)
		fn(&u)
		u.UpdatedAt = now()
		st.users[id] = u
		return nil
	})
}

func (s *MemoryStore) UpdateUserProfile(ctx context.Context, id string, patch domain.UserProfilePatch) error {
	return s.mutateUser(ctx, id, func(u *domain.UserProfile) { patch.Apply(u) })
}

func (s *MemoryStore) AppendBookingHistory(ctx context.Context, userID, bookingID string) error {
	return s.mutateUser(ctx, userID, func(u *domain.UserProfile) {
		u.BookingHistory = append(u.BookingHistory, bookingID)
	})
}

func (s *MemoryStore) AddFavoriteChef(ctx context.Context, userID, chefID string) error {
	return s.mutateUser(ctx, userID, func(u *domain.UserProfile) {
		if !slices.Contains(u.FavoriteChefs, chefID) {
			u.FavoriteChefs = append(u.FavoriteChefs, chefID)
		}
	})
}

func (s *MemoryStore) RemoveFavoriteChef(ctx context.Context, userID, chefID string) error {
	return s.mutateUser(ctx, userID, func(u *domain.UserProfile) {
		u.FavoriteChefs = slices.DeleteFunc(u.FavoriteChefs, func(id string) bool { return id == chefID })
	})
}

// Chefs

func (s *MemoryStore) CreateChef(ctx context.Context, c *domain.ChefProfile) error {
	return s.with(ctx, func(st *memState) error {
		if _, ok := st.chefs[c.ID]; ok {
			return apperr.Conflict("Chef already exists")
		}
		st.chefs[c.ID] = cloneChef(*c)
		return nil
	})
}

func (s *MemoryStore) GetChef(ctx context.Context, id string) (*domain.ChefProfile, error) {
	var out domain.ChefProfile
	err := s.with(ctx, func(st *memState) error {
		c, ok := st.chefs[id]
		if !ok {
			return apperr.NotFound("Chef not found")
		}
		out = cloneChef(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MemoryStore) GetChefsByIDs(ctx context.Context, ids []string) ([]domain.ChefProfile, error) {
	chefs := []domain.ChefProfile{}
	err := s.with(ctx, func(st *memState) error {
		for _, id := range ids {
			if c, ok := st.chefs[id]; ok {
				chefs = append(chefs, cloneChef(c))
			}
		}
		return nil
	})
	return chefs, err
}

func (s *MemoryStore) mutateChef(ctx context.Context, id string, fn func(c *domain.ChefProfile)) error {
	return s.with(ctx, func(st *memState) error {
		c, ok := st.chefs[id]
		if !ok {
			return apperr.NotFound("Chef not found")
		}
		c = cloneChef(c)
		fn(&c)
		c.UpdatedAt = now()
		st.chefs[id] = c
		return nil
	})
}

func (s *MemoryStore) UpdateChef(ctx context.Context, id string, patch domain.ChefPatch) error {
	return s.mutateChef(ctx, id, func(c *domain.ChefProfile) { patch.Apply(c) })
}

func (s *MemoryStore) IncrementChefCounters(ctx context.Context, id string, delta domain.ChefCounters) error {
	return s.mutateChef(ctx, id, func(c *domain.ChefProfile) {
		c.TotalBookings += delta.TotalBookings
		c.CompletedBookings += delta.CompletedBookings
	})
}

func (s *MemoryStore) SetChefRating(ctx context.Context, id string, average float64, total int) error {
	return s.mutateChef(ctx, id, func(c *domain.ChefProfile) {
		c.AverageRating = average
		c.TotalReviews = total
	})
}

func (s *MemoryStore) AddChefDish(ctx context.Context, chefID, dishID string) error {
	return s.mutateChef(ctx, chefID, func(c *domain.ChefProfile) {
		if !slices.Contains(c.Dishes, dishID) {
			c.Dishes = append(c.Dishes, dishID)
		}
	})
}

func (s *MemoryStore) RemoveChefDish(ctx context.Context, chefID, dishID string) error {
	return s.mutateChef(ctx, chefID, func(c *domain.ChefProfile) {
		c.Dishes = slices.DeleteFunc(c.Dishes, func(id string) bool { return id == dishID })
	})
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func chefMatches(c domain.ChefProfile, f domain.ChefFilter) bool {
	if f.Bookable && !(c.IsApproved && c.AccountStatus == domain.ChefStatusActive) {
		return false
	}
	if f.Status != "" && c.AccountStatus != f.Status {
		return false
	}
	if f.Specialization != "" && !slices.ContainsFunc(c.Specialization, func(s string) bool {
		return strings.EqualFold(s, f.Specialization)
	}) {
		return false
	}
	if f.City != "" && !slices.ContainsFunc(c.ServiceLocations, func(a domain.ServiceArea) bool {
		return strings.EqualFold(a.City, f.City)
	}) {
		return false
	}
	if f.Search != "" && !containsFold(c.FullName, f.Search) {
		return false
	}
	return c.AverageRating >= f.MinRating
}

func (s *MemoryStore) ListChefs(ctx context.Context, f domain.ChefFilter) ([]domain.ChefProfile, int, error) {
	var matched []domain.ChefProfile
	err := s.with(ctx, func(st *memState) error {
		for _, c := range st.chefs {
			if chefMatches(c, f) {
				matched = append(matched, cloneChef(c))
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	slices.SortFunc(matched, func(a, b domain.ChefProfile) int {
		switch {
		case a.AverageRating != b.AverageRating:
			return cmpDesc(a.AverageRating, b.AverageRating)
		case a.TotalReviews != b.TotalReviews:
			return cmpDesc(a.TotalReviews, b.TotalReviews)
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return pageOf(matched, f.Page), len(matched), nil
}

func cmpDesc[T int | int64 | float64](a, b T) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

// Dishes

func (s *MemoryStore) CreateDish(ctx context.Context, d *domain.Dish) error {
	return s.with(ctx, func(st *memState) error {
		if _, ok := st.dishes[d.ID]; ok {
			return apperr.Conflict("Dish already exists")
		}
		st.dishes[d.ID] = cloneDish(*d)
		return nil
	})
}

func (s *MemoryStore) GetDish(ctx context.Context, id string) (*domain.Dish, error) {
	var out domain.Dish
	err := s.with(ctx, func(st *memState) error {
		d, ok := st.dishes[id]
		if !ok {
			return apperr.NotFound("Dish not found")
		}
		out = cloneDish(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MemoryStore) GetDishesByIDs(ctx context.Context, ids []string) ([]domain.Dish, error) {
	dishes := []domain.Dish{}
	err := s.with(ctx, func(st *memState) error {
		for _, id := range ids {
			if d, ok := st.dishes[id]; ok {
				dishes = append(dishes, cloneDish(d))
			}
		}
		return nil
	})
	return dishes, err
}

func (s *MemoryStore) UpdateDish(ctx context.Context, id string, patch domain.DishPatch) error {
	return s.with(ctx, func(st *memState) error {
		d, ok := st.dishes[id]
		if !ok {
			return apperr.NotFound("Dish not found")
		}
		d = cloneDish(d)
		patch.Apply(&d)
		d.UpdatedAt = now()
		st.dishes[id] = d
		return nil
	})
}

func (s *MemoryStore) DeleteDish(ctx context.Context, id string) error {
	return s.with(ctx, func(st *memState) error {
		if _, ok := st.dishes[id]; !ok {
			return apperr.NotFound("Dish not found")
		}
		delete(st.dishes, id)
		return nil
	})
}

// IncrementOrderCounts skips ids that no longer exist, like the bulk writes
// of the other backends.
func (s *MemoryStore) IncrementOrderCounts(ctx context.Context, counts map[string]int) error {
	return s.with(ctx, func(st *memState) error {
		at := now()
		for id, qty := range counts {
			d, ok := st.dishes[id]
			if !ok {
				continue
			}
			d.OrdersCount += qty
			d.UpdatedAt = at
			st.dishes[id] = d
		}
		return nil
	})
}

func dishMatches(d domain.Dish, f domain.DishFilter) bool {
	if f.ChefID != "" && d.ChefID != f.ChefID {
		return false
	}
	if f.Category != "" && !strings.EqualFold(d.Category, f.Category) {
		return false
	}
	if f.Cuisine != "" && !strings.EqualFold(d.Cuisine, f.Cuisine) {
		return false
	}
	if f.Vegetarian != nil && d.Dietary.IsVegetarian != *f.Vegetarian {
		return false
	}
	if f.OnlyAvailable && !d.IsAvailable {
		return false
	}
	if f.Search != "" {
		hit := containsFold(d.Name, f.Search) || containsFold(d.Description, f.Search) ||
			slices.ContainsFunc(d.Tags, func(t string) bool { return containsFold(t, f.Search) })
		if !hit {
			return false
		}
	}
	return true
}

func (s *MemoryStore) ListDishes(ctx context.Context, f domain.DishFilter) ([]domain.Dish, int, error) {
	var matched []domain.Dish
	err := s.with(ctx, func(st *memState) error {
		for _, d := range st.dishes {
			if dishMatches(d, f) {
				matched = append(matched, cloneDish(d))
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	slices.SortFunc(matched, func(a, b domain.Dish) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return pageOf(matched, f.Page), len(matched), nil
}

func (s *MemoryStore) CountDishes(ctx context.Context, chefID string) (int, error) {
	n := 0
	err := s.with(ctx, func(st *memState) error {
		for _, d := range st.dishes {
			if d.ChefID == chefID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// Bookings

func (s *MemoryStore) CreateBooking(ctx context.Context, b *domain.Booking) error {
	return s.with(ctx, func(st *memState) error {
		if _, ok := st.bookings[b.ID]; ok {
			return apperr.Conflict("Booking already exists")
		}
		st.bookings[b.ID] = cloneBooking(*b)
		return nil
	})
}

func (s *MemoryStore) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	var out domain.Booking
	err := s.with(ctx, func(st *memState) error {
		b, ok := st.bookings[id]
		if !ok {
			return apperr.NotFound("Booking not found")
		}
		out = cloneBooking(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MemoryStore) UpdateBooking(ctx context.Context, id string, patch domain.BookingPatch) error {
	return s.with(ctx, func(st *memState) error {
		b, ok := st.bookings[id]
		if !ok {
			return apperr.NotFound("Booking not found")
		}
		b = cloneBooking(b)
		patch.Apply(&b)
		b.UpdatedAt = now()
		st.bookings[id] = b
		return nil
	})
}

func bookingMatches(b domain.Booking, f domain.BookingFilter) bool {
	if f.UserID != "" && b.UserID != f.UserID {
		return false
	}
	if f.ChefID != "" && b.ChefID != f.ChefID {
		return false
	}
	return len(f.Statuses) == 0 || slices.Contains(f.Statuses, b.BookingStatus)
}

func (s *MemoryStore) ListBookings(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, int, error) {
	var matched []domain.Booking
	err := s.with(ctx, func(st *memState) error {
		for _, b := range st.bookings {
			if bookingMatches(b, f) {
				matched = append(matched, cloneBooking(b))
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	slices.SortFunc(matched, func(a, b domain.Booking) int {
		if c := b.BookingDate.Compare(a.BookingDate); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return pageOf(matched, f.Page), len(matched), nil
}

func (s *MemoryStore) CountBookings(ctx context.Context, f domain.BookingFilter) (int, error) {
	n := 0
	err := s.with(ctx, func(st *memState) error {
		for _, b := range st.bookings {
			if bookingMatches(b, f) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s *MemoryStore) SumChefEarnings(ctx context.Context, chefID string) (int64, error) {
	var total int64
	err := s.with(ctx, func(st *memState) error {
		for _, b := range st.bookings {
			if b.ChefID == chefID && b.BookingStatus == domain.BookingCompleted && b.PaymentStatus == domain.PaymentPaid {
				total += b.ChefFee
			}
		}
		return nil
	})
	return total, err
}

// Reviews

func (s *MemoryStore) CreateReview(ctx context.Context, r *domain.Review) error {
	return s.with(ctx, func(st *memState) error {
		if _, ok := st.reviews[r.ID]; ok {
			return apperr.Conflict("Review already exists")
		}
		for _, existing := range st.reviews {
			if existing.BookingID == r.BookingID {
				return apperr.Conflict("Review already exists")
			}
		}
		st.reviews[r.ID] = cloneReview(*r)
		return nil
	})
}

func (s *MemoryStore) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	var out domain.Review
	err := s.with(ctx, func(st *memState) error {
		r, ok := st.reviews[id]
		if !ok {
			return apperr.NotFound("Review not found")
		}
		out = cloneReview(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MemoryStore) GetReviewByBooking(ctx context.Context, bookingID string) (*domain.Review, error) {
	var out *domain.Review
	err := s.with(ctx, func(st *memState) error {
		for _, r := range st.reviews {
			if r.BookingID == bookingID {
				c := cloneReview(r)
				out = &c
				return nil
			}
		}
		return apperr.NotFound("Review not found")
	})
	return out, err
}

func (s *MemoryStore) ListChefReviews(ctx context.Context, chefID string, page domain.Page) ([]domain.Review, int, error) {
	var matched []domain.Review
	err := s.with(ctx, func(st *memState) error {
		for _, r := range st.reviews {
			if r.ChefID == chefID {
				matched = append(matched, cloneReview(r))
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	slices.SortFunc(matched, func(a, b domain.Review) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return pageOf(matched, page), len(matched), nil
}

func (s *MemoryStore) ChefRatingTally(ctx context.Context, chefID string) (domain.RatingTally, error) {
	var tally domain.RatingTally
	err := s.with(ctx, func(st *memState) error {
		for _, r := range st.reviews {
			if r.ChefID == chefID {
				tally.Sum += int64(r.Rating)
				tally.Count++
			}
		}
		return nil
	})
	return tally, err
}

func (s *MemoryStore) SetReviewResponse(ctx context.Context, id string, resp domain.ChefResponse) error {
	return s.with(ctx, func(st *memState) error {
		r, ok := st.reviews[id]
		if !ok {
			return apperr.NotFound("Review not found")
		}
		r.ChefResponse = &resp
		st.reviews[id] = r
		return nil
	})
}
